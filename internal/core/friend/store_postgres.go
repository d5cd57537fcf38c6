// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package friend

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sherry00124/ImChat/internal/platform/database/schema"
	"github.com/Sherry00124/ImChat/internal/platform/dberr"
	"github.com/Sherry00124/ImChat/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on chat.friendship and chat.friendmessage.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres friend store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) ListFriends(context context.Context, userID string) ([]*Friendship, error) {
	table := schema.ChatFriendship
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s`,
		table.UserID, table.FriendID, table.CreateTime, table.Table, table.UserID, table.CreateTime)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_friends")
	}

	friendships, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Friendship, error) {
		var friendship Friendship
		err := row.Scan(&friendship.UserID, &friendship.FriendID, &friendship.CreateTime)
		return &friendship, err
	})
	return friendships, dberr.Wrap(err, "list_friends")
}

func (repository *PostgresRepository) AddFriendship(context context.Context, friendship *Friendship) error {
	table := schema.ChatFriendship
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		table.Table, table.UserID, table.FriendID, table.CreateTime)

	_, err := postgres.Executor(context, repository.pool).Exec(context, query,
		friendship.UserID, friendship.FriendID, friendship.CreateTime)
	return dberr.Wrap(err, "add_friendship")
}

func (repository *PostgresRepository) ListMessages(context context.Context, userID, friendID string, offset, limit int) ([]*Message, error) {
	table := schema.ChatFriendMessage
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE (%s = $1 AND %s = $2) OR (%s = $2 AND %s = $1)
		ORDER BY %s DESC, %s DESC
		OFFSET $3 LIMIT $4`,
		table.ID, table.UserID, table.FriendID, table.Content, table.MessageType, table.Time,
		table.Table,
		table.UserID, table.FriendID, table.UserID, table.FriendID,
		table.Time, table.ID,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, userID, friendID, offset, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_friend_messages")
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Message, error) {
		var message Message
		err := row.Scan(&message.ID, &message.UserID, &message.FriendID, &message.Content, &message.MessageType, &message.Time)
		return &message, err
	})
	return messages, dberr.Wrap(err, "list_friend_messages")
}

func (repository *PostgresRepository) CreateMessage(context context.Context, message *Message) error {
	table := schema.ChatFriendMessage
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		table.Table, table.ID, table.UserID, table.FriendID, table.Content, table.MessageType, table.Time)

	_, err := postgres.Executor(context, repository.pool).Exec(context, query,
		message.ID, message.UserID, message.FriendID, message.Content, string(message.MessageType), message.Time)
	return dberr.Wrap(err, "create_friend_message")
}

func (repository *PostgresRepository) DeleteFriendshipsByUser(context context.Context, userID string) (int64, error) {
	table := schema.ChatFriendship
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 OR %s = $1`, table.Table, table.UserID, table.FriendID)

	tag, err := postgres.Executor(context, repository.pool).Exec(context, query, userID)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_user_friendships")
	}
	return tag.RowsAffected(), nil
}

func (repository *PostgresRepository) DeleteMessagesByUser(context context.Context, userID string) (int64, error) {
	table := schema.ChatFriendMessage
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 OR %s = $1`, table.Table, table.UserID, table.FriendID)

	tag, err := postgres.Executor(context, repository.pool).Exec(context, query, userID)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_user_friend_messages")
	}
	return tag.RowsAffected(), nil
}
