// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package account

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
	"github.com/Sherry00124/ImChat/internal/platform/sec"
)

// PostgresRepository implements [Repository] on the users.account table.
//
// Every statement runs through [postgres.Executor], so calls made inside a
// unit of work join its transaction.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres account store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	selectAccount = fmt.Sprintf(`SELECT %s FROM %s`,
		strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table)

	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// scanUser maps one account row. The role column is parsed into the closed set.
func scanUser(row pgx.Row) (*User, error) {
	var (
		user User
		role string
	)

	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &role, &user.Avatar, &user.CreatedAt); err != nil {
		return nil, err
	}

	parsed, err := sec.ParseRole(role)
	if err != nil {
		return nil, err
	}
	user.Role = parsed

	return &user, nil
}

func (repository *PostgresRepository) queryUsers(context context.Context, action, query string, args ...any) ([]*User, error) {
	rows, err := postgres.Executor(context, repository.pool).Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		users = append(users, user)
	}

	return users, dberr.Wrap(rows.Err(), action)
}

// # Reads

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	user, err := scanUser(postgres.Executor(context, repository.pool).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Account", "find_account_by_id")
	}
	return user, nil
}

func (repository *PostgresRepository) FindByIDs(context context.Context, ids []string) ([]*User, error) {
	if len(ids) == 0 {
		return []*User{}, nil
	}

	query := selectAccount + fmt.Sprintf(` WHERE %s = ANY($1::uuid[])`, schema.UserAccount.ID)
	return repository.queryUsers(context, "find_accounts_by_ids", query, ids)
}

func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.Username)

	user, err := scanUser(postgres.Executor(context, repository.pool).QueryRow(context, query, username))
	if err != nil {
		return nil, dberr.NotFound(err, "Account", "find_account_by_username")
	}
	return user, nil
}

/*
SearchByUsername performs a case-insensitive substring match on username.

LIKE wildcards in fragment are escaped, so "%" matches a literal percent sign.
*/
func (repository *PostgresRepository) SearchByUsername(context context.Context, fragment string, limit int) ([]*User, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s ILIKE $1 ORDER BY %s LIMIT $2`,
		schema.UserAccount.Username, schema.UserAccount.Username)

	pattern := "%" + likeEscaper.Replace(fragment) + "%"
	return repository.queryUsers(context, "search_accounts", query, pattern, limit)
}

// # Writes

func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.UserAccount.Table, strings.Join(schema.UserAccount.Columns(), ", "),
	)

	_, err := postgres.Executor(context, repository.pool).Exec(context, query,
		user.ID, user.Username, user.PasswordHash, user.Role.String(), user.Avatar, user.CreatedAt,
	)
	return dberr.Wrap(err, "create_account")
}

func (repository *PostgresRepository) UpdateUsername(context context.Context, id, username string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.ID)

	return repository.execOne(context, "update_account_username", query, id, username)
}

func (repository *PostgresRepository) UpdatePassword(context context.Context, id, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password, schema.UserAccount.ID)

	return repository.execOne(context, "update_account_password", query, id, passwordHash)
}

func (repository *PostgresRepository) Delete(context context.Context, id string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := postgres.Executor(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_account")
	}
	return tag.RowsAffected(), nil
}

// execOne runs an UPDATE that must touch exactly one row.
func (repository *PostgresRepository) execOne(context context.Context, action, query string, args ...any) error {
	tag, err := postgres.Executor(context, repository.pool).Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}
