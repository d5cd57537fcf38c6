// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

// Package migration runs the chat schema migrations through golang-migrate
// before the API starts serving.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp applies all pending UP migrations found under migrationsPath.
//
// A database left dirty by an interrupted migration is reported and never
// forced; that needs an operator.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, toPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbError))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	fromVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}
	if isDirty {
		return fmt.Errorf("migration: database is dirty at version %d", fromVersion)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date", slog.Uint64("version", uint64(fromVersion)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	toVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(fromVersion)),
		slog.Uint64("to_version", uint64(toVersion)),
	)

	return nil
}

// toPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// golang-migrate expects. Anything else is returned unchanged.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}
