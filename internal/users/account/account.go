// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package account owns the user identity record and its profile operations.

# Architecture

  - Entity: User.
  - Port: Repository, implemented by PostgresRepository.
  - Consumers: the group package reads profiles to resolve message senders,
    and the purge package removes the record as the last step of a cascade.
*/
package account

import (
	"context"
	"time"

	"github.com/Sherry00124/ImChat/internal/platform/sec"
)

// # Domain Entities

// User is a registered chat account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
}

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {
	/*
		FindByID retrieves a user by ID.

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or FAILURE
	*/
	FindByID(context context.Context, id string) (*User, error)

	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(context context.Context, ids []string) ([]*User, error)

	// FindByUsername retrieves a user by exact username.
	FindByUsername(context context.Context, username string) (*User, error)

	// SearchByUsername returns up to limit users whose name contains fragment.
	SearchByUsername(context context.Context, fragment string, limit int) ([]*User, error)

	Create(context context.Context, user *User) error

	/*
		UpdateUsername renames a user.

		Returns:
		  - error: apperr.NotFound, apperr.Conflict when the name is taken, or FAILURE
	*/
	UpdateUsername(context context.Context, id, username string) error

	UpdatePassword(context context.Context, id, passwordHash string) error

	// Delete removes the user row and reports how many rows went away (0 or 1).
	Delete(context context.Context, id string) (int64, error)
}
