// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package purge removes an account together with everything that references it.

# Cascade

The steps run in this order inside one transaction:

 1. For each group the target owns: its messages, its memberships, the group.
 2. The target's memberships in other groups.
 3. The target's messages in other groups, unless the policy retains them.
 4. Friendships naming the target on either side.
 5. Direct messages sent or received by the target.
 6. The account row.

A failure at any step rolls the whole cascade back. Two purges of the same
account never overlap: a per-account lock is taken before the transaction.
*/
package purge

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sherry00124/ImChat/internal/core/group"
	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/redis"
	"github.com/Sherry00124/ImChat/internal/platform/sec"
	"github.com/Sherry00124/ImChat/internal/platform/validate"
)

var tracer = otel.Tracer("github.com/Sherry00124/ImChat/internal/users/purge")

// Caller is the identity requesting the purge.
type Caller = sec.Principal

// Policy tunes the cascade.
type Policy struct {
	// RetainForeignMessages keeps the target's messages in groups it does not
	// own. Their sender then resolves to no profile.
	RetainForeignMessages bool
}

// Report counts the rows removed per category.
type Report struct {
	TargetID                string `json:"target_id"`
	OwnedGroups             int64  `json:"owned_groups"`
	OwnedGroupMessages      int64  `json:"owned_group_messages"`
	OwnedGroupMembers       int64  `json:"owned_group_members"`
	Memberships             int64  `json:"memberships"`
	AuthoredMessages        int64  `json:"authored_messages"`
	Friendships             int64  `json:"friendships"`
	DirectMessages          int64  `json:"direct_messages"`
	Accounts                int64  `json:"accounts"`
	RetainedForeignMessages bool   `json:"retained_foreign_messages"`
}

// # Ports

// AccountStore deletes account rows.
type AccountStore interface {
	Delete(context stdctx.Context, id string) (int64, error)
}

// GroupStore finds and deletes groups.
type GroupStore interface {
	FindByOwner(context stdctx.Context, ownerID string) ([]*group.Group, error)
	Delete(context stdctx.Context, id string) (int64, error)
}

// MemberStore deletes memberships.
type MemberStore interface {
	DeleteByGroup(context stdctx.Context, groupID string) (int64, error)
	DeleteByUser(context stdctx.Context, userID string) (int64, error)
}

// MessageStore deletes group messages.
type MessageStore interface {
	DeleteByGroup(context stdctx.Context, groupID string) (int64, error)
	DeleteByAuthor(context stdctx.Context, userID string) (int64, error)
}

// FriendStore deletes friendships and direct messages.
type FriendStore interface {
	DeleteFriendshipsByUser(context stdctx.Context, userID string) (int64, error)
	DeleteMessagesByUser(context stdctx.Context, userID string) (int64, error)
}

// Locker grants exclusive per-key locks. A held key yields [redis.ErrLockHeld].
type Locker interface {
	Acquire(context stdctx.Context, key string) (func(), error)
}

// UnitOfWork runs fn atomically. Stores called with the context passed to fn
// take part in the same transaction.
type UnitOfWork interface {
	WithinTx(context stdctx.Context, fn func(context stdctx.Context) error) error
}

// Dependencies bundles the ports a [Service] needs.
type Dependencies struct {
	Accounts AccountStore
	Groups   GroupStore
	Members  MemberStore
	Messages MessageStore
	Friends  FriendStore
	Locker   Locker
	Tx       UnitOfWork
}

// # Service

// Service runs the cascading account deletion.
type Service struct {
	deps   Dependencies
	policy Policy
	logger *slog.Logger
}

// NewService constructs a purge [Service].
func NewService(deps Dependencies, policy Policy, logger *slog.Logger) *Service {
	return &Service{deps: deps, policy: policy, logger: logger}
}

/*
DeleteAccount removes targetID and every row that references it.

Parameters:
  - caller: must hold the admin role
  - targetID: account to remove; an id with no account row still sweeps
    orphaned dependents and reports zero accounts

Returns:
  - *Report: rows removed per category
  - error: FORBIDDEN for a non-admin caller (nothing is touched),
    VALIDATION_ERROR for a malformed id, CONFLICT while another purge of the
    same account runs, FAILURE when any step fails (nothing is removed)
*/
func (service *Service) DeleteAccount(context stdctx.Context, caller Caller, targetID string) (*Report, error) {
	context, span := tracer.Start(context, "purge.DeleteAccount", trace.WithAttributes(
		attribute.String("purge.target_id", targetID),
		attribute.String("purge.admin_id", caller.UserID),
	))
	defer span.End()

	if !caller.Role.IsAdmin() {
		return nil, apperr.Forbidden("Only administrators may delete accounts")
	}

	if err := (&validate.Validator{}).UUID("id", targetID).Err(); err != nil {
		return nil, err
	}

	release, err := service.deps.Locker.Acquire(context, targetID)
	if err != nil {
		if errors.Is(err, redis.ErrLockHeld) {
			return nil, apperr.Conflict("Account deletion already in progress")
		}
		return nil, apperr.Failure(err)
	}
	defer release()

	var report *Report
	err = service.deps.Tx.WithinTx(context, func(context stdctx.Context) error {
		var cascadeErr error
		report, cascadeErr = service.cascade(context, targetID)
		return cascadeErr
	})

	if err != nil {
		service.logger.ErrorContext(context, "account_purge_failed",
			slog.String("target_id", targetID),
			slog.String("admin_id", caller.UserID),
			slog.Any("error", err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "cascade rolled back")
		return nil, apperr.Failure(err)
	}

	span.SetAttributes(
		attribute.Int64("purge.owned_groups", report.OwnedGroups),
		attribute.Int64("purge.accounts", report.Accounts),
	)

	service.logger.WarnContext(context, "account_purged",
		slog.String("target_id", targetID),
		slog.String("admin_id", caller.UserID),
		slog.Int64("owned_groups", report.OwnedGroups),
		slog.Int64("owned_group_messages", report.OwnedGroupMessages),
		slog.Int64("owned_group_members", report.OwnedGroupMembers),
		slog.Int64("memberships", report.Memberships),
		slog.Int64("authored_messages", report.AuthoredMessages),
		slog.Int64("friendships", report.Friendships),
		slog.Int64("direct_messages", report.DirectMessages),
		slog.Int64("accounts", report.Accounts),
	)

	return report, nil
}

// cascade runs the six steps in order and stops at the first error.
func (service *Service) cascade(context stdctx.Context, targetID string) (*Report, error) {
	report := &Report{TargetID: targetID, RetainedForeignMessages: service.policy.RetainForeignMessages}
	deps := service.deps

	// 1. Groups owned by the target.
	owned, err := deps.Groups.FindByOwner(context, targetID)
	if err != nil {
		return nil, fmt.Errorf("list owned groups: %w", err)
	}

	for _, ownedGroup := range owned {
		removed, err := deps.Messages.DeleteByGroup(context, ownedGroup.ID)
		if err != nil {
			return nil, fmt.Errorf("delete messages of group %s: %w", ownedGroup.ID, err)
		}
		report.OwnedGroupMessages += removed

		removed, err = deps.Members.DeleteByGroup(context, ownedGroup.ID)
		if err != nil {
			return nil, fmt.Errorf("delete members of group %s: %w", ownedGroup.ID, err)
		}
		report.OwnedGroupMembers += removed

		removed, err = deps.Groups.Delete(context, ownedGroup.ID)
		if err != nil {
			return nil, fmt.Errorf("delete group %s: %w", ownedGroup.ID, err)
		}
		report.OwnedGroups += removed
	}

	// 2. Memberships elsewhere.
	if report.Memberships, err = deps.Members.DeleteByUser(context, targetID); err != nil {
		return nil, fmt.Errorf("delete memberships: %w", err)
	}

	// 3. Messages elsewhere.
	if !service.policy.RetainForeignMessages {
		if report.AuthoredMessages, err = deps.Messages.DeleteByAuthor(context, targetID); err != nil {
			return nil, fmt.Errorf("delete authored messages: %w", err)
		}
	}

	// 4. Friendships, both directions.
	if report.Friendships, err = deps.Friends.DeleteFriendshipsByUser(context, targetID); err != nil {
		return nil, fmt.Errorf("delete friendships: %w", err)
	}

	// 5. Direct messages, both parties.
	if report.DirectMessages, err = deps.Friends.DeleteMessagesByUser(context, targetID); err != nil {
		return nil, fmt.Errorf("delete direct messages: %w", err)
	}

	// 6. The account.
	if report.Accounts, err = deps.Accounts.Delete(context, targetID); err != nil {
		return nil, fmt.Errorf("delete account: %w", err)
	}

	return report, nil
}
