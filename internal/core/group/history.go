// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package group

import (
	"context"
	"slices"
	"time"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/constants"
	"github.com/Sherry00124/ImChat/internal/users/account"
)

// # Visibility Window

// VisibilityWindow bounds how far back a member may read.
//
// A member sees every message sent at or after (join time - Lookback). The
// result depends only on the membership, never on the current time, so the
// same member gets the same floor on every request.
type VisibilityWindow struct {
	Lookback time.Duration
}

// DefaultVisibilityWindow returns the 24 hour window.
func DefaultVisibilityWindow() VisibilityWindow {
	return VisibilityWindow{Lookback: constants.DefaultHistoryLookback}
}

// Floor returns the earliest message time, in Unix milliseconds, the member may read.
func (window VisibilityWindow) Floor(member *Member) int64 {
	return member.CreateTime - window.Lookback.Milliseconds()
}

// # Page Fetching

/*
FetchPage returns one page of a group's history in ascending time order.

The page is selected newest-first from messages at or after floor: the newest
offset messages are skipped and the next limit are taken. The page is then
reversed, so offset 0 is the most recent page and messages read top to bottom.

Parameters:
  - floor: lower time bound from [VisibilityWindow.Floor]
  - offset: rows to skip from the newest; negative values count as 0
  - limit: page size; zero or negative returns an empty page without a query

Returns:
  - []*Message: possibly empty, never nil
  - error: FAILURE when storage fails
*/
func FetchPage(context context.Context, lister MessageLister, groupID string, floor int64, offset, limit int) ([]*Message, error) {
	if limit <= 0 {
		return []*Message{}, nil
	}
	offset = max(offset, 0)

	messages, err := lister.ListSince(context, groupID, floor, offset, limit)
	if err != nil {
		return nil, apperr.Ensure(err)
	}

	if messages == nil {
		return []*Message{}, nil
	}

	slices.Reverse(messages)
	return messages, nil
}

// # Sender Resolution

/*
ResolveSenders loads the profile of every distinct sender in messages.

Each sender is looked up once. A sender whose account no longer exists is
left out of the map. Any other lookup error aborts with FAILURE.
*/
func ResolveSenders(context context.Context, profiles ProfileFinder, messages []*Message) (map[string]*account.User, error) {
	senders := make(map[string]*account.User)
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		if _, done := seen[message.UserID]; done {
			continue
		}
		seen[message.UserID] = struct{}{}

		user, err := profiles.FindByID(context, message.UserID)
		switch {
		case err == nil:
			senders[message.UserID] = user
		case apperr.IsNotFound(err):
			// Deleted sender; the message still renders without a profile.
		default:
			return nil, apperr.Failure(err)
		}
	}

	return senders, nil
}

// History is one page of group messages with the profiles of their senders.
type History struct {
	Messages []*Message              `json:"messages"`
	Senders  map[string]*account.User `json:"senders"`
}
