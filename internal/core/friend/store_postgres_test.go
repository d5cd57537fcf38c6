// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package friend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sherry00124/ImChat/internal/core/friend"
	"github.com/Sherry00124/ImChat/internal/core/group"
	"github.com/Sherry00124/ImChat/internal/platform/postgres/pgtest"
)

func messageIDs(messages []*friend.Message) []string {
	out := make([]string, 0, len(messages))
	for _, message := range messages {
		out = append(out, message.ID)
	}
	return out
}

/*
TestPostgresRepository_ListMessages reads both directions of a conversation
newest first, breaking equal timestamps by id descending.
*/
func TestPostgresRepository_ListMessages(t *testing.T) {
	repository := friend.NewPostgresRepository(pgtest.Open(t))
	ctx := context.Background()

	keys := pgtest.IDs(t, 6)
	alice, bob, carol := keys[0], keys[1], keys[2]

	seed := []*friend.Message{
		{ID: keys[3], UserID: alice, FriendID: bob, Content: "hi", MessageType: group.MessageText, Time: 10},
		{ID: keys[4], UserID: bob, FriendID: alice, Content: "yo", MessageType: group.MessageImage, Time: 10},
		{ID: keys[5], UserID: bob, FriendID: carol, Content: "elsewhere", MessageType: group.MessageText, Time: 20},
	}
	for _, message := range seed {
		require.NoError(t, repository.CreateMessage(ctx, message))
	}

	page, err := repository.ListMessages(ctx, alice, bob, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{keys[4], keys[3]}, messageIDs(page))
	assert.Equal(t, group.MessageImage, page[0].MessageType)

	page, err = repository.ListMessages(ctx, bob, alice, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{keys[3]}, messageIDs(page))
}

/*
TestPostgresRepository_DeleteByUser verifies account purges remove rows where
the user appears on either side, and nothing else.
*/
func TestPostgresRepository_DeleteByUser(t *testing.T) {
	repository := friend.NewPostgresRepository(pgtest.Open(t))
	ctx := context.Background()

	keys := pgtest.IDs(t, 6)
	alice, bob, carol := keys[0], keys[1], keys[2]

	for _, pair := range [][2]string{{alice, bob}, {bob, alice}, {bob, carol}, {carol, bob}} {
		require.NoError(t, repository.AddFriendship(ctx, &friend.Friendship{UserID: pair[0], FriendID: pair[1], CreateTime: 1}))
	}
	require.NoError(t, repository.CreateMessage(ctx, &friend.Message{ID: keys[3], UserID: alice, FriendID: bob, Content: "a", MessageType: group.MessageText, Time: 1}))
	require.NoError(t, repository.CreateMessage(ctx, &friend.Message{ID: keys[4], UserID: bob, FriendID: alice, Content: "b", MessageType: group.MessageText, Time: 2}))
	require.NoError(t, repository.CreateMessage(ctx, &friend.Message{ID: keys[5], UserID: bob, FriendID: carol, Content: "c", MessageType: group.MessageText, Time: 3}))

	deleted, err := repository.DeleteFriendshipsByUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	bobFriends, err := repository.ListFriends(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobFriends, 1)
	assert.Equal(t, carol, bobFriends[0].FriendID)

	deleted, err = repository.DeleteMessagesByUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repository.ListMessages(ctx, bob, alice, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	untouched, err := repository.ListMessages(ctx, bob, carol, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{keys[5]}, messageIDs(untouched))
}
