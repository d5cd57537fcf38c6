// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/sec"
	"github.com/Sherry00124/ImChat/internal/users/account"
)

// memoryRepository is an in-memory [account.Repository].
type memoryRepository struct {
	mu      sync.Mutex
	users   map[string]*account.User
	failAll error
}

func newMemoryRepository(users ...*account.User) *memoryRepository {
	repository := &memoryRepository{users: make(map[string]*account.User)}
	for _, user := range users {
		repository.users[user.ID] = user
	}
	return repository
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*account.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failAll != nil {
		return nil, repository.failAll
	}
	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *user
	return &clone, nil
}

func (repository *memoryRepository) FindByIDs(_ context.Context, ids []string) ([]*account.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	var users []*account.User
	for _, id := range ids {
		if user, ok := repository.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (repository *memoryRepository) FindByUsername(_ context.Context, username string) (*account.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failAll != nil {
		return nil, repository.failAll
	}
	for _, user := range repository.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repository *memoryRepository) SearchByUsername(_ context.Context, fragment string, limit int) ([]*account.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	var users []*account.User
	for _, user := range repository.users {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(fragment)) && len(users) < limit {
			users = append(users, user)
		}
	}
	return users, nil
}

func (repository *memoryRepository) Create(_ context.Context, user *account.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.users[user.ID] = user
	return nil
}

func (repository *memoryRepository) UpdateUsername(_ context.Context, id, username string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	user, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.Username = username
	return nil
}

func (repository *memoryRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	user, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.PasswordHash = passwordHash
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.users[id]; !ok {
		return 0, nil
	}
	delete(repository.users, id)
	return 1, nil
}

const (
	aliceID = "01920c6e-7d2a-7b3c-9f10-2a4b6c8d0e01"
	bobID   = "01920c6e-7d2a-7b3c-9f10-2a4b6c8d0e02"
	ghostID = "01920c6e-7d2a-7b3c-9f10-2a4b6c8d0eff"
)

func newService(t *testing.T) (*account.Service, *memoryRepository) {
	t.Helper()
	repository := newMemoryRepository(
		&account.User{ID: aliceID, Username: "alice", Role: sec.RoleMember},
		&account.User{ID: bobID, Username: "bob", Role: sec.RoleAdmin},
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(repository, logger), repository
}

/*
TestService_GetUser covers the happy path, a missing id and a malformed id.
*/
func TestService_GetUser(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	user, err := service.GetUser(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = service.GetUser(ctx, ghostID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.GetUser(ctx, "not-a-uuid")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_GetUsers verifies unknown ids are skipped and input order is kept.
*/
func TestService_GetUsers(t *testing.T) {
	service, _ := newService(t)

	users, err := service.GetUsers(context.Background(), []string{bobID, ghostID, aliceID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, bobID, users[0].ID)
	assert.Equal(t, aliceID, users[1].ID)
}

/*
TestService_UpdateUsername covers rename, duplicate and no-op rename.
*/
func TestService_UpdateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantCode string
		wantName string
	}{
		{"rename", "alicia", "", "alicia"},
		{"duplicate", "bob", apperr.CodeConflict, ""},
		{"same_name", "alice", "", "alice"},
		{"empty", "  ", apperr.CodeValidation, ""},
		{"too_long", strings.Repeat("a", account.UsernameMaxLen+1), apperr.CodeValidation, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repository := newService(t)

			user, err := service.UpdateUsername(context.Background(), aliceID, tt.username)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, user.Username)
			assert.Equal(t, tt.wantName, repository.users[aliceID].Username)
		})
	}
}

/*
TestService_UpdateUsername_NormalisesNFC checks that a decomposed name collides
with its precomposed twin.
*/
func TestService_UpdateUsername_NormalisesNFC(t *testing.T) {
	service, repository := newService(t)
	repository.users[bobID].Username = "caf\u00e9"

	_, err := service.UpdateUsername(context.Background(), aliceID, "cafe\u0301")
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

func TestService_UpdatePassword(t *testing.T) {
	service, repository := newService(t)
	ctx := context.Background()

	require.NoError(t, service.UpdatePassword(ctx, aliceID, "hunter22"))
	assert.True(t, sec.CheckPasswordHash("hunter22", repository.users[aliceID].PasswordHash))

	err := service.UpdatePassword(ctx, aliceID, "123")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	err = service.UpdatePassword(ctx, ghostID, "hunter22")
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_CreateUser(t *testing.T) {
	service, repository := newService(t)
	ctx := context.Background()

	user, err := service.CreateUser(ctx, "carol", "secret1", sec.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, user.ID, 36)
	assert.True(t, repository.users[user.ID].Role.IsAdmin())

	_, err = service.CreateUser(ctx, "carol", "secret1", sec.RoleMember)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = service.CreateUser(ctx, "dave", "secret1", sec.Role(0))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_StorageFailure verifies untagged storage errors surface as FAILURE.
*/
func TestService_StorageFailure(t *testing.T) {
	service, repository := newService(t)
	repository.failAll = errors.New("connection reset")

	_, err := service.GetUser(context.Background(), aliceID)
	assert.True(t, apperr.HasCode(err, apperr.CodeFailure))

	_, err = service.UpdateUsername(context.Background(), aliceID, "alicia")
	assert.True(t, apperr.HasCode(err, apperr.CodeFailure))
}

func TestService_SearchUsers(t *testing.T) {
	service, _ := newService(t)

	users, err := service.SearchUsers(context.Background(), "LI")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	_, err = service.SearchUsers(context.Background(), "")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
