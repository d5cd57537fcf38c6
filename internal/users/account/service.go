// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/sec"
	"github.com/Sherry00124/ImChat/internal/platform/validate"
)

// Input limits for account fields.
const (
	UsernameMaxLen = 32
	PasswordMinLen = 6
	// bcrypt ignores input past 72 bytes.
	PasswordMaxBytes = 72
	MaxBatchIDs      = 100
	SearchLimit      = 50
)

// # Service Layer

// Service implements the profile operations on top of a [Repository].
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger, now: time.Now}
}

// # Profile Reads

/*
GetUser retrieves a single account.

Returns:
  - *User: The account
  - error: VALIDATION_ERROR for a malformed id, NOT_FOUND, or FAILURE
*/
func (service *Service) GetUser(context context.Context, userID string) (*User, error) {
	if err := (&validate.Validator{}).UUID("id", userID).Err(); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Ensure(err)
	}
	return user, nil
}

// GetUsers loads a batch of accounts. Unknown ids are skipped and the result
// follows the order of ids.
func (service *Service) GetUsers(context context.Context, userIDs []string) ([]*User, error) {
	if err := (&validate.Validator{}).UUIDs("ids", userIDs, MaxBatchIDs).Err(); err != nil {
		return nil, err
	}

	found, err := service.repository.FindByIDs(context, userIDs)
	if err != nil {
		return nil, apperr.Ensure(err)
	}

	byID := make(map[string]*User, len(found))
	for _, user := range found {
		byID[user.ID] = user
	}

	users := make([]*User, 0, len(found))
	for _, id := range userIDs {
		if user, ok := byID[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

// SearchUsers finds accounts whose username contains fragment.
func (service *Service) SearchUsers(context context.Context, fragment string) ([]*User, error) {
	fragment = norm.NFC.String(fragment)

	if err := (&validate.Validator{}).Required("q", fragment).MaxLen("q", fragment, UsernameMaxLen).Err(); err != nil {
		return nil, err
	}

	users, err := service.repository.SearchByUsername(context, fragment, SearchLimit)
	if err != nil {
		return nil, apperr.Ensure(err)
	}
	return users, nil
}

// # Profile Writes

/*
CreateUser registers a new account with a hashed password.

Parameters:
  - username: normalised to NFC before the uniqueness check
  - password: plain text, hashed with bcrypt
  - role: must be a declared [sec.Role]

Returns:
  - *User: The stored account
  - error: VALIDATION_ERROR, CONFLICT when the name is taken, or FAILURE
*/
func (service *Service) CreateUser(context context.Context, username, password string, role sec.Role) (*User, error) {
	username = norm.NFC.String(username)

	validator := &validate.Validator{}
	validateUsername(validator, username)
	validatePassword(validator, password)
	validator.Custom("role", !role.Valid(), "Unknown role")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureUsernameFree(context, username); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return nil, apperr.Failure(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Failure(err)
	}

	user := &User{
		ID:           id.String(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    service.now().UTC(),
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, apperr.Ensure(err)
	}

	service.logger.Info("account_created",
		slog.String("user_id", user.ID),
		slog.String("role", role.String()),
	)

	return user, nil
}

/*
UpdateUsername renames the caller's account.

A name already held by another account yields CONFLICT. Renaming to the
current name is a no-op.
*/
func (service *Service) UpdateUsername(context context.Context, userID, username string) (*User, error) {
	username = norm.NFC.String(username)

	validator := &validate.Validator{}
	validateUsername(validator, username)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Ensure(err)
	}

	if user.Username == username {
		return user, nil
	}

	if err := service.ensureUsernameFree(context, username); err != nil {
		return nil, err
	}

	// The unique index still guards the race between the check and the write.
	if err := service.repository.UpdateUsername(context, userID, username); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("Username already taken")
		}
		return nil, apperr.Ensure(err)
	}

	service.logger.Info("account_username_updated", slog.String("user_id", userID))

	user.Username = username
	return user, nil
}

// UpdatePassword replaces the caller's password hash.
func (service *Service) UpdatePassword(context context.Context, userID, password string) error {
	validator := &validate.Validator{}
	validatePassword(validator, password)
	if err := validator.Err(); err != nil {
		return err
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return apperr.Failure(err)
	}

	if err := service.repository.UpdatePassword(context, userID, hash); err != nil {
		return apperr.Ensure(err)
	}

	service.logger.Info("account_password_updated", slog.String("user_id", userID))
	return nil
}

// # Helpers

func (service *Service) ensureUsernameFree(context context.Context, username string) error {
	_, err := service.repository.FindByUsername(context, username)
	switch {
	case err == nil:
		return apperr.Conflict("Username already taken")
	case apperr.IsNotFound(err):
		return nil
	default:
		return apperr.Ensure(err)
	}
}

func validateUsername(validator *validate.Validator, username string) {
	validator.
		Required("username", username).
		MaxLen("username", username, UsernameMaxLen).
		NoControl("username", username)
}

func validatePassword(validator *validate.Validator, password string) {
	validator.
		MinLen("password", password, PasswordMinLen).
		MaxBytes("password", password, PasswordMaxBytes)
}
