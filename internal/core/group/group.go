// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package group manages chat groups, their memberships and their message history.

# Core Responsibility

  - Organization: the [Group] entity and its owner.
  - Membership: [Member] rows, whose join time bounds what a member may read.
  - History: paging through [Message] rows inside the member's visibility
    window and resolving the profiles of their senders.

Timestamps on members and messages are Unix milliseconds.
*/
package group

// DefaultNotice is the announcement a new group starts with.
const DefaultNotice = "No announcement at this time"

// # Core Entities

// Group is a named chat room owned by one account.
type Group struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	Name       string `json:"name"`
	Notice     string `json:"notice"`
	CreateTime int64  `json:"create_time"`
}

// Member records that a user joined a group at CreateTime.
type Member struct {
	GroupID    string `json:"group_id"`
	UserID     string `json:"user_id"`
	CreateTime int64  `json:"create_time"`
}

// Message is one immutable post in a group.
type Message struct {
	ID          string      `json:"id"`
	GroupID     string      `json:"group_id"`
	UserID      string      `json:"user_id"`
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
	Time        int64       `json:"time"`
}

// MessageType tags how Content should be rendered.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
)

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile:
		return true
	}
	return false
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldNotice      = "notice"
	FieldContent     = "content"
	FieldMessageType = "message_type"
	FieldIDs         = "ids"
	FieldQuery       = "q"
)
