// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package group_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sherry00124/ImChat/internal/core/group"
	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/sec"
	"github.com/Sherry00124/ImChat/internal/users/account"
)

const (
	ownerID    = "01920c6e-7d2a-7b3c-9f10-00000000000a"
	memberID   = "01920c6e-7d2a-7b3c-9f10-00000000000b"
	outsiderID = "01920c6e-7d2a-7b3c-9f10-00000000000c"
	groupID    = "01920c6e-7d2a-7b3c-9f10-0000000000f1"
)

func newService(t *testing.T) (*group.Service, *memoryStore) {
	t.Helper()

	store := newMemoryStore()
	store.groups[groupID] = &group.Group{ID: groupID, OwnerID: ownerID, Name: "gophers", Notice: group.DefaultNotice}
	store.members = []*group.Member{
		{GroupID: groupID, UserID: ownerID, CreateTime: 1_000},
		{GroupID: groupID, UserID: memberID, CreateTime: joinedAt},
	}
	store.users[ownerID] = &account.User{ID: ownerID, Username: "owner"}
	store.users[memberID] = &account.User{ID: memberID, Username: "member"}
	store.users[outsiderID] = &account.User{ID: outsiderID, Username: "outsider"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return group.NewService(store.deps(), group.DefaultVisibilityWindow(), logger), store
}

/*
TestService_GetHistory runs the full flow: membership, floor, page and senders.
*/
func TestService_GetHistory(t *testing.T) {
	service, store := newService(t)
	store.messages = []*group.Message{
		{ID: "m1", GroupID: groupID, UserID: ownerID, Time: 1_699_900_000_000},
		{ID: "m2", GroupID: groupID, UserID: ownerID, Time: 1_699_920_000_000},
		{ID: "m3", GroupID: groupID, UserID: memberID, Time: 1_700_000_000_500},
		{ID: "m4", GroupID: groupID, UserID: "01920c6e-7d2a-7b3c-9f10-0000000000dd", Time: 1_700_000_001_000},
	}

	history, err := service.GetHistory(context.Background(), memberID, groupID, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"m2", "m3", "m4"}, ids(history.Messages))
	assert.Len(t, history.Senders, 2, "deleted sender is omitted")
	assert.Equal(t, "owner", history.Senders[ownerID].Username)
}

/*
TestService_GetHistory_OwnerSeesEarlierWindow verifies the floor follows the
caller's own join time.
*/
func TestService_GetHistory_OwnerSeesEarlierWindow(t *testing.T) {
	service, store := newService(t)
	store.messages = []*group.Message{{ID: "m1", GroupID: groupID, UserID: ownerID, Time: 5_000}}

	history, err := service.GetHistory(context.Background(), ownerID, groupID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, history.Messages, 1)

	history, err = service.GetHistory(context.Background(), memberID, groupID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
	assert.Empty(t, history.Senders)
}

func TestService_GetHistory_NotAMember(t *testing.T) {
	service, store := newService(t)

	_, err := service.GetHistory(context.Background(), outsiderID, groupID, 0, 10)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotAMember))
	assert.Zero(t, store.listCalls)
}

func TestService_GetHistory_StorageFailure(t *testing.T) {
	service, store := newService(t)
	store.failWith = errors.New("pool exhausted")

	_, err := service.GetHistory(context.Background(), memberID, groupID, 0, 10)
	assert.True(t, apperr.HasCode(err, apperr.CodeFailure))
}

/*
TestService_UpdateGroup checks that only the owner or an admin may edit.
*/
func TestService_UpdateGroup(t *testing.T) {
	notice := "Release on Friday"

	tests := []struct {
		name     string
		caller   sec.Principal
		wantCode string
	}{
		{"owner", sec.Principal{UserID: ownerID, Role: sec.RoleMember}, ""},
		{"admin", sec.Principal{UserID: outsiderID, Role: sec.RoleAdmin}, ""},
		{"member", sec.Principal{UserID: memberID, Role: sec.RoleMember}, apperr.CodeForbidden},
		{"unknown_role", sec.Principal{UserID: outsiderID}, apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := newService(t)

			updated, err := service.UpdateGroup(context.Background(), tt.caller, groupID, group.UpdateInput{Notice: &notice})
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode))
				assert.Equal(t, group.DefaultNotice, store.groups[groupID].Notice)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, notice, updated.Notice)
			assert.Equal(t, "gophers", updated.Name)
			assert.Equal(t, notice, store.groups[groupID].Notice)
		})
	}
}

func TestService_UpdateGroup_Validation(t *testing.T) {
	service, _ := newService(t)
	empty := ""

	_, err := service.UpdateGroup(context.Background(), sec.Principal{UserID: ownerID}, groupID, group.UpdateInput{Name: &empty})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestService_GetGroups(t *testing.T) {
	service, _ := newService(t)
	missing := "01920c6e-7d2a-7b3c-9f10-0000000000f2"

	groups, err := service.GetGroups(context.Background(), []string{missing, groupID})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, groupID, groups[0].ID)

	_, err = service.GetGroups(context.Background(), []string{"nope"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestService_SearchAndList(t *testing.T) {
	service, _ := newService(t)

	groups, err := service.SearchGroups(context.Background(), "GOPH")
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	members, err := service.ListUserGroups(context.Background(), memberID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, groupID, members[0].GroupID)
}

/*
TestService_CreateJoinPost covers the write path from creation to first message.
*/
func TestService_CreateJoinPost(t *testing.T) {
	service, store := newService(t)
	ctx := context.Background()

	created, err := service.CreateGroup(ctx, ownerID, "rustaceans")
	require.NoError(t, err)
	assert.Equal(t, group.DefaultNotice, created.Notice)

	ownerMembership, err := memberRepo{store}.FindMember(ctx, ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.CreateTime, ownerMembership.CreateTime)

	_, err = service.PostMessage(ctx, outsiderID, created.ID, "hi", "")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotAMember))

	_, err = service.JoinGroup(ctx, outsiderID, created.ID)
	require.NoError(t, err)

	_, err = service.JoinGroup(ctx, outsiderID, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	message, err := service.PostMessage(ctx, outsiderID, created.ID, "hi", "")
	require.NoError(t, err)
	assert.Equal(t, group.MessageText, message.MessageType)

	_, err = service.PostMessage(ctx, outsiderID, created.ID, "hi", "sticker")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	history, err := service.GetHistory(ctx, outsiderID, created.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{message.ID}, ids(history.Messages))
}

/*
TestService_PurgedAccountCannotWrite verifies a still-valid token for a deleted
account cannot recreate group rows.
*/
func TestService_PurgedAccountCannotWrite(t *testing.T) {
	service, store := newService(t)
	ctx := context.Background()
	delete(store.users, outsiderID)
	groupsBefore, membersBefore := len(store.groups), len(store.members)

	_, err := service.CreateGroup(ctx, outsiderID, "ghosts")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)

	_, err = service.JoinGroup(ctx, outsiderID, groupID)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "got %v", err)

	assert.Len(t, store.groups, groupsBefore)
	assert.Len(t, store.members, membersBefore)
}
