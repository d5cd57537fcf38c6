// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package group_test

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Sherry00124/ImChat/internal/core/group"
	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/users/account"
)

// memoryStore implements the three group repositories and [group.ProfileFinder]
// over plain maps.
type memoryStore struct {
	mu       sync.Mutex
	groups   map[string]*group.Group
	members  []*group.Member
	messages []*group.Message
	users    map[string]*account.User

	listCalls int
	failWith  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		groups: make(map[string]*group.Group),
		users:  make(map[string]*account.User),
	}
}

// groupRepo, memberRepo and messageRepo expose the store under each port so
// the overlapping method names (DeleteByGroup, Create) stay unambiguous.
type (
	groupRepo   struct{ *memoryStore }
	memberRepo  struct{ *memoryStore }
	messageRepo struct{ *memoryStore }
)

func (store *memoryStore) deps() group.Dependencies {
	return group.Dependencies{
		Groups:   groupRepo{store},
		Members:  memberRepo{store},
		Messages: messageRepo{store},
		Profiles: store,
		Tx:       store,
	}
}

func (store *memoryStore) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// # Profiles

func (store *memoryStore) FindByID(_ context.Context, id string) (*account.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.failWith != nil {
		return nil, store.failWith
	}
	user, ok := store.users[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return user, nil
}

// # Groups

func (repo groupRepo) FindByID(_ context.Context, id string) (*group.Group, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	found, ok := repo.groups[id]
	if !ok {
		return nil, apperr.NotFound("Group")
	}
	clone := *found
	return &clone, nil
}

func (repo groupRepo) FindByIDs(_ context.Context, ids []string) ([]*group.Group, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var groups []*group.Group
	for _, id := range ids {
		if found, ok := repo.groups[id]; ok {
			groups = append(groups, found)
		}
	}
	return groups, nil
}

func (repo groupRepo) FindByOwner(_ context.Context, ownerID string) ([]*group.Group, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var groups []*group.Group
	for _, found := range repo.groups {
		if found.OwnerID == ownerID {
			groups = append(groups, found)
		}
	}
	return groups, nil
}

func (repo groupRepo) SearchByName(_ context.Context, fragment string, limit int) ([]*group.Group, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var groups []*group.Group
	for _, found := range repo.groups {
		if strings.Contains(strings.ToLower(found.Name), strings.ToLower(fragment)) && len(groups) < limit {
			groups = append(groups, found)
		}
	}
	return groups, nil
}

func (repo groupRepo) Create(_ context.Context, created *group.Group) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.groups[created.ID] = created
	return nil
}

func (repo groupRepo) Update(_ context.Context, updated *group.Group) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.groups[updated.ID]; !ok {
		return apperr.NotFound("Group")
	}
	clone := *updated
	repo.groups[updated.ID] = &clone
	return nil
}

func (repo groupRepo) Delete(_ context.Context, id string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.groups[id]; !ok {
		return 0, nil
	}
	delete(repo.groups, id)
	return 1, nil
}

// # Members

func (repo memberRepo) FindMember(_ context.Context, userID, groupID string) (*group.Member, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.failWith != nil {
		return nil, repo.failWith
	}
	for _, member := range repo.members {
		if member.UserID == userID && member.GroupID == groupID {
			return member, nil
		}
	}
	return nil, apperr.NotFound("Membership")
}

func (repo memberRepo) ListByUser(_ context.Context, userID string) ([]*group.Member, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var members []*group.Member
	for _, member := range repo.members {
		if member.UserID == userID {
			members = append(members, member)
		}
	}
	return members, nil
}

func (repo memberRepo) AddMember(_ context.Context, added *group.Member) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, member := range repo.members {
		if member.UserID == added.UserID && member.GroupID == added.GroupID {
			return apperr.Conflict("Resource already exists")
		}
	}
	repo.members = append(repo.members, added)
	return nil
}

func (repo memberRepo) DeleteByGroup(_ context.Context, groupID string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	before := len(repo.members)
	repo.members = slices.DeleteFunc(repo.members, func(member *group.Member) bool { return member.GroupID == groupID })
	return int64(before - len(repo.members)), nil
}

func (repo memberRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	before := len(repo.members)
	repo.members = slices.DeleteFunc(repo.members, func(member *group.Member) bool { return member.UserID == userID })
	return int64(before - len(repo.members)), nil
}

// # Messages

func (repo messageRepo) ListSince(_ context.Context, groupID string, floor int64, offset, limit int) ([]*group.Message, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.listCalls++

	var window []*group.Message
	for _, message := range repo.messages {
		if message.GroupID == groupID && message.Time >= floor {
			window = append(window, message)
		}
	}

	slices.SortFunc(window, func(a, b *group.Message) int {
		if byTime := cmp.Compare(b.Time, a.Time); byTime != 0 {
			return byTime
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if offset >= len(window) {
		return nil, nil
	}
	window = window[offset:]
	if limit < len(window) {
		window = window[:limit]
	}
	return slices.Clone(window), nil
}

func (repo messageRepo) Create(_ context.Context, message *group.Message) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.messages = append(repo.messages, message)
	return nil
}

func (repo messageRepo) DeleteByGroup(_ context.Context, groupID string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	before := len(repo.messages)
	repo.messages = slices.DeleteFunc(repo.messages, func(message *group.Message) bool { return message.GroupID == groupID })
	return int64(before - len(repo.messages)), nil
}

func (repo messageRepo) DeleteByAuthor(_ context.Context, userID string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	before := len(repo.messages)
	repo.messages = slices.DeleteFunc(repo.messages, func(message *group.Message) bool { return message.UserID == userID })
	return int64(before - len(repo.messages)), nil
}
