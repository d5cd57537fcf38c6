// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package group

import (
	"context"

	"github.com/Sherry00124/ImChat/internal/users/account"
)

// # Group Data Access

// GroupRepository defines the data access contract for groups.
type GroupRepository interface {
	/*
		FindByID retrieves a group by its UUID.

		Returns:
		  - *Group: Hydrated entity
		  - error: apperr.NotFound if missing, FAILURE otherwise
	*/
	FindByID(context context.Context, id string) (*Group, error)

	// FindByIDs returns the groups that exist among ids.
	FindByIDs(context context.Context, ids []string) ([]*Group, error)

	// FindByOwner lists every group owned by ownerID.
	FindByOwner(context context.Context, ownerID string) ([]*Group, error)

	// SearchByName returns up to limit groups whose name contains fragment.
	SearchByName(context context.Context, fragment string, limit int) ([]*Group, error)

	Create(context context.Context, group *Group) error

	// Update persists Name and Notice.
	Update(context context.Context, group *Group) error

	// Delete removes the group row and reports how many rows went away.
	Delete(context context.Context, id string) (int64, error)
}

// # Membership Data Access

// MemberRepository defines the data access contract for memberships.
type MemberRepository interface {
	/*
		FindMember retrieves the (user, group) membership.

		Returns:
		  - *Member: The membership, whose CreateTime is the join time
		  - error: apperr.NotFound when the user is not a member
	*/
	FindMember(context context.Context, userID, groupID string) (*Member, error)

	// ListByUser lists every membership held by userID.
	ListByUser(context context.Context, userID string) ([]*Member, error)

	// AddMember inserts a membership. A duplicate yields apperr.Conflict.
	AddMember(context context.Context, member *Member) error

	// DeleteByGroup removes every membership of a group.
	DeleteByGroup(context context.Context, groupID string) (int64, error)

	// DeleteByUser removes every membership held by a user.
	DeleteByUser(context context.Context, userID string) (int64, error)
}

// # Message Data Access

// MessageLister is the read side used by [FetchPage].
type MessageLister interface {
	/*
		ListSince returns messages of groupID with Time >= floor, newest first
		(ties broken by descending ID), skipping offset rows and returning at
		most limit rows.
	*/
	ListSince(context context.Context, groupID string, floor int64, offset, limit int) ([]*Message, error)
}

// MessageRepository defines the data access contract for group messages.
type MessageRepository interface {
	MessageLister

	Create(context context.Context, message *Message) error

	// DeleteByGroup removes every message posted in a group.
	DeleteByGroup(context context.Context, groupID string) (int64, error)

	// DeleteByAuthor removes every group message written by userID, in any group.
	DeleteByAuthor(context context.Context, userID string) (int64, error)
}

// # External Ports

// ProfileFinder loads sender profiles. [account.Repository] satisfies it.
type ProfileFinder interface {
	FindByID(context context.Context, id string) (*account.User, error)
}

// Transactor runs fn inside a single unit of work.
type Transactor interface {
	WithinTx(context context.Context, fn func(context context.Context) error) error
}
