// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package friend stores friendships and the direct messages exchanged between friends.

A friendship is directional: "A lists B" and "B lists A" are separate rows,
created together when two users befriend each other.
*/
package friend

import (
	"context"

	"github.com/Sherry00124/ImChat/internal/core/group"
	"github.com/Sherry00124/ImChat/internal/users/account"
)

// Friendship records that UserID lists FriendID as a friend.
type Friendship struct {
	UserID     string `json:"user_id"`
	FriendID   string `json:"friend_id"`
	CreateTime int64  `json:"create_time"`
}

// Message is a direct message from UserID to FriendID.
type Message struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	FriendID    string            `json:"friend_id"`
	Content     string            `json:"content"`
	MessageType group.MessageType `json:"message_type"`
	Time        int64             `json:"time"`
}

// AccountFinder confirms that both ends of a friendship exist.
// [account.Repository] satisfies it.
type AccountFinder interface {
	FindByID(context context.Context, id string) (*account.User, error)
}

// Repository defines the persistence contract for friendships and direct messages.
type Repository interface {
	// ListFriends lists the friendships where userID is the owning side.
	ListFriends(context context.Context, userID string) ([]*Friendship, error)

	// AddFriendship inserts one directional row. A duplicate yields apperr.Conflict.
	AddFriendship(context context.Context, friendship *Friendship) error

	// ListMessages returns direct messages between two users, newest first.
	ListMessages(context context.Context, userID, friendID string, offset, limit int) ([]*Message, error)

	CreateMessage(context context.Context, message *Message) error

	// DeleteFriendshipsByUser removes every row naming userID on either side.
	DeleteFriendshipsByUser(context context.Context, userID string) (int64, error)

	// DeleteMessagesByUser removes every direct message sent or received by userID.
	DeleteMessagesByUser(context context.Context, userID string) (int64, error)
}

// Transactor runs fn inside a single unit of work.
type Transactor interface {
	WithinTx(context context.Context, fn func(context context.Context) error) error
}
