// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Postgres storage for groups.

# Schema Table Mapping
  - chat."group": group identity and owner.
  - chat.groupmember: (group, user) membership with join time.
  - chat.groupmessage: messages, indexed on (groupid, time DESC, id DESC).
*/

package group

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/database/schema"
	"github.com/Sherry00124/ImChat/internal/platform/dberr"
	"github.com/Sherry00124/ImChat/internal/platform/postgres"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// collect drains rows through scan and wraps any failure with action.
func collect[T any](rows pgx.Rows, err error, action string, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		items = append(items, item)
	}

	return items, dberr.Wrap(rows.Err(), action)
}

// execCount runs a DELETE and returns the affected row count.
func execCount(context context.Context, db postgres.DBTX, action, query string, args ...any) (int64, error) {
	tag, err := db.Exec(context, query, args...)
	if err != nil {
		return 0, dberr.Wrap(err, action)
	}
	return tag.RowsAffected(), nil
}

// # Groups

// PostgresGroupRepository implements [GroupRepository].
type PostgresGroupRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGroupRepository creates a new Postgres group store.
func NewPostgresGroupRepository(pool *pgxpool.Pool) *PostgresGroupRepository {
	return &PostgresGroupRepository{pool: pool}
}

var selectGroup = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.ChatGroup.Columns(), ", "), schema.ChatGroup.Table)

func scanGroup(row pgx.Row) (*Group, error) {
	var group Group
	err := row.Scan(&group.ID, &group.OwnerID, &group.Name, &group.Notice, &group.CreateTime)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (repository *PostgresGroupRepository) FindByID(context context.Context, id string) (*Group, error) {
	query := selectGroup + fmt.Sprintf(` WHERE %s = $1`, schema.ChatGroup.ID)

	group, err := scanGroup(postgres.Executor(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Group", "find_group_by_id")
	}
	return group, nil
}

func (repository *PostgresGroupRepository) FindByIDs(context context.Context, ids []string) ([]*Group, error) {
	if len(ids) == 0 {
		return []*Group{}, nil
	}

	query := selectGroup + fmt.Sprintf(` WHERE %s = ANY($1::uuid[])`, schema.ChatGroup.ID)
	rows, err := postgres.Executor(context, repository.pool).Query(context, query, ids)
	return collect(rows, err, "find_groups_by_ids", scanGroup)
}

func (repository *PostgresGroupRepository) FindByOwner(context context.Context, ownerID string) ([]*Group, error) {
	query := selectGroup + fmt.Sprintf(` WHERE %s = $1 ORDER BY %s`, schema.ChatGroup.OwnerID, schema.ChatGroup.CreateTime)
	rows, err := postgres.Executor(context, repository.pool).Query(context, query, ownerID)
	return collect(rows, err, "find_groups_by_owner", scanGroup)
}

func (repository *PostgresGroupRepository) SearchByName(context context.Context, fragment string, limit int) ([]*Group, error) {
	query := selectGroup + fmt.Sprintf(` WHERE %s ILIKE $1 ORDER BY %s LIMIT $2`, schema.ChatGroup.Name, schema.ChatGroup.Name)
	rows, err := postgres.Executor(context, repository.pool).Query(context, query, "%"+likeEscaper.Replace(fragment)+"%", limit)
	return collect(rows, err, "search_groups", scanGroup)
}

func (repository *PostgresGroupRepository) Create(context context.Context, group *Group) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`,
		schema.ChatGroup.Table, strings.Join(schema.ChatGroup.Columns(), ", "))

	_, err := postgres.Executor(context, repository.pool).Exec(context, query,
		group.ID, group.OwnerID, group.Name, group.Notice, group.CreateTime)
	return dberr.Wrap(err, "create_group")
}

func (repository *PostgresGroupRepository) Update(context context.Context, group *Group) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.ChatGroup.Table, schema.ChatGroup.Name, schema.ChatGroup.Notice, schema.ChatGroup.ID)

	tag, err := postgres.Executor(context, repository.pool).Exec(context, query, group.ID, group.Name, group.Notice)
	if err != nil {
		return dberr.Wrap(err, "update_group")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Group")
	}
	return nil
}

func (repository *PostgresGroupRepository) Delete(context context.Context, id string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ChatGroup.Table, schema.ChatGroup.ID)
	return execCount(context, postgres.Executor(context, repository.pool), "delete_group", query, id)
}

// # Members

// PostgresMemberRepository implements [MemberRepository].
type PostgresMemberRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMemberRepository creates a new Postgres membership store.
func NewPostgresMemberRepository(pool *pgxpool.Pool) *PostgresMemberRepository {
	return &PostgresMemberRepository{pool: pool}
}

var selectMember = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.ChatGroupMember.Columns(), ", "), schema.ChatGroupMember.Table)

func scanMember(row pgx.Row) (*Member, error) {
	var member Member
	if err := row.Scan(&member.GroupID, &member.UserID, &member.CreateTime); err != nil {
		return nil, err
	}
	return &member, nil
}

func (repository *PostgresMemberRepository) FindMember(context context.Context, userID, groupID string) (*Member, error) {
	query := selectMember + fmt.Sprintf(` WHERE %s = $1 AND %s = $2`,
		schema.ChatGroupMember.UserID, schema.ChatGroupMember.GroupID)

	member, err := scanMember(postgres.Executor(context, repository.pool).QueryRow(context, query, userID, groupID))
	if err != nil {
		return nil, dberr.NotFound(err, "Membership", "find_group_member")
	}
	return member, nil
}

func (repository *PostgresMemberRepository) ListByUser(context context.Context, userID string) ([]*Member, error) {
	query := selectMember + fmt.Sprintf(` WHERE %s = $1 ORDER BY %s`,
		schema.ChatGroupMember.UserID, schema.ChatGroupMember.CreateTime)
	rows, err := postgres.Executor(context, repository.pool).Query(context, query, userID)
	return collect(rows, err, "list_user_memberships", scanMember)
}

func (repository *PostgresMemberRepository) AddMember(context context.Context, member *Member) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3)`,
		schema.ChatGroupMember.Table, strings.Join(schema.ChatGroupMember.Columns(), ", "))

	_, err := postgres.Executor(context, repository.pool).Exec(context, query, member.GroupID, member.UserID, member.CreateTime)
	return dberr.Wrap(err, "add_group_member")
}

func (repository *PostgresMemberRepository) DeleteByGroup(context context.Context, groupID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ChatGroupMember.Table, schema.ChatGroupMember.GroupID)
	return execCount(context, postgres.Executor(context, repository.pool), "delete_group_members", query, groupID)
}

func (repository *PostgresMemberRepository) DeleteByUser(context context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ChatGroupMember.Table, schema.ChatGroupMember.UserID)
	return execCount(context, postgres.Executor(context, repository.pool), "delete_user_memberships", query, userID)
}

// # Messages

// PostgresMessageRepository implements [MessageRepository].
type PostgresMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMessageRepository creates a new Postgres group message store.
func NewPostgresMessageRepository(pool *pgxpool.Pool) *PostgresMessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

func scanMessage(row pgx.Row) (*Message, error) {
	var message Message
	err := row.Scan(&message.ID, &message.GroupID, &message.UserID, &message.Content, &message.MessageType, &message.Time)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

/*
ListSince selects the history window newest-first.

The id tiebreak makes the order total, so paging is stable when several
messages share a millisecond.
*/
func (repository *PostgresMessageRepository) ListSince(context context.Context, groupID string, floor int64, offset, limit int) ([]*Message, error) {
	table := schema.ChatGroupMessage
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s >= $2
		ORDER BY %s DESC, %s DESC
		OFFSET $3 LIMIT $4`,
		strings.Join(table.Columns(), ", "), table.Table,
		table.GroupID, table.Time,
		table.Time, table.ID,
	)

	rows, err := postgres.Executor(context, repository.pool).Query(context, query, groupID, floor, offset, limit)
	return collect(rows, err, "list_group_messages", scanMessage)
}

func (repository *PostgresMessageRepository) Create(context context.Context, message *Message) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.ChatGroupMessage.Table, strings.Join(schema.ChatGroupMessage.Columns(), ", "))

	_, err := postgres.Executor(context, repository.pool).Exec(context, query,
		message.ID, message.GroupID, message.UserID, message.Content, string(message.MessageType), message.Time)
	return dberr.Wrap(err, "create_group_message")
}

func (repository *PostgresMessageRepository) DeleteByGroup(context context.Context, groupID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ChatGroupMessage.Table, schema.ChatGroupMessage.GroupID)
	return execCount(context, postgres.Executor(context, repository.pool), "delete_group_messages", query, groupID)
}

func (repository *PostgresMessageRepository) DeleteByAuthor(context context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ChatGroupMessage.Table, schema.ChatGroupMessage.UserID)
	return execCount(context, postgres.Executor(context, repository.pool), "delete_author_group_messages", query, userID)
}
