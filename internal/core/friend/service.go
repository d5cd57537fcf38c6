// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package friend

import (
	stdctx "context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Sherry00124/ImChat/internal/core/group"
	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/validate"
)

const contentMaxLen = 5000

// Service manages friendships and direct messages.
type Service struct {
	repository Repository
	accounts   AccountFinder
	tx         Transactor
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a friend [Service].
func NewService(repository Repository, accounts AccountFinder, tx Transactor, logger *slog.Logger) *Service {
	return &Service{repository: repository, accounts: accounts, tx: tx, logger: logger, now: time.Now}
}

/*
AddFriend links two users in both directions inside one transaction.

Returns:
  - error: VALIDATION_ERROR for self-friendship, UNAUTHORIZED when the caller's
    account is gone, NOT_FOUND for an unknown friend, CONFLICT when already friends
*/
func (service *Service) AddFriend(context stdctx.Context, userID, friendID string) error {
	validator := &validate.Validator{}
	validator.UUID("friend_id", friendID).Custom("friend_id", userID == friendID, "Cannot befriend yourself")
	if err := validator.Err(); err != nil {
		return err
	}

	if _, err := service.accounts.FindByID(context, userID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Unauthorized("Account no longer exists")
		}
		return apperr.Ensure(err)
	}

	if _, err := service.accounts.FindByID(context, friendID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("User")
		}
		return apperr.Ensure(err)
	}

	createdAt := service.now().UnixMilli()
	err := service.tx.WithinTx(context, func(context stdctx.Context) error {
		if err := service.repository.AddFriendship(context, &Friendship{UserID: userID, FriendID: friendID, CreateTime: createdAt}); err != nil {
			return err
		}
		return service.repository.AddFriendship(context, &Friendship{UserID: friendID, FriendID: userID, CreateTime: createdAt})
	})
	if err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return apperr.Conflict("Already friends")
		}
		return apperr.Ensure(err)
	}

	service.logger.Info("friendship_created",
		slog.String("user_id", userID),
		slog.String("friend_id", friendID),
	)
	return nil
}

// ListFriends returns the friendships owned by userID.
func (service *Service) ListFriends(context stdctx.Context, userID string) ([]*Friendship, error) {
	friendships, err := service.repository.ListFriends(context, userID)
	if err != nil {
		return nil, apperr.Ensure(err)
	}
	return friendships, nil
}

// SendMessage stores a direct message. Only friends may message each other.
func (service *Service) SendMessage(context stdctx.Context, senderID, friendID, content string, messageType group.MessageType) (*Message, error) {
	if messageType == "" {
		messageType = group.MessageText
	}

	validator := &validate.Validator{}
	validator.Required(group.FieldContent, content).MaxLen(group.FieldContent, content, contentMaxLen)
	validator.Custom(group.FieldMessageType, !messageType.Valid(), "Unknown message type")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureFriends(context, senderID, friendID); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Failure(err)
	}

	message := &Message{
		ID:          id.String(),
		UserID:      senderID,
		FriendID:    friendID,
		Content:     content,
		MessageType: messageType,
		Time:        service.now().UnixMilli(),
	}

	if err := service.repository.CreateMessage(context, message); err != nil {
		return nil, apperr.Ensure(err)
	}
	return message, nil
}

// ListMessages returns one page of the conversation with friendID, oldest first.
func (service *Service) ListMessages(context stdctx.Context, userID, friendID string, offset, limit int) ([]*Message, error) {
	if limit <= 0 {
		return []*Message{}, nil
	}

	if err := service.ensureFriends(context, userID, friendID); err != nil {
		return nil, err
	}

	messages, err := service.repository.ListMessages(context, userID, friendID, max(offset, 0), limit)
	if err != nil {
		return nil, apperr.Ensure(err)
	}

	slices.Reverse(messages)
	return messages, nil
}

func (service *Service) ensureFriends(context stdctx.Context, userID, friendID string) error {
	friendships, err := service.repository.ListFriends(context, userID)
	if err != nil {
		return apperr.Ensure(err)
	}

	isFriend := slices.ContainsFunc(friendships, func(friendship *Friendship) bool {
		return friendship.FriendID == friendID
	})
	if !isFriend {
		return apperr.Forbidden("Not friends with this user")
	}
	return nil
}
