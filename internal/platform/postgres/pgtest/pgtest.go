// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

// Package pgtest opens a migrated Postgres pool for store tests.
//
// Tests that call [Open] are skipped unless IMCHAT_TEST_DATABASE_URL is set.
// Stores keep no foreign keys, so tests isolate themselves with fresh UUIDs
// instead of truncating shared tables.
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Sherry00124/ImChat/internal/platform/migration"
	"github.com/Sherry00124/ImChat/internal/platform/postgres"
)

// EnvDatabaseURL names the DSN of a disposable test database.
const EnvDatabaseURL = "IMCHAT_TEST_DATABASE_URL"

// Open migrates the test database to the latest schema and returns a pool that
// is closed when t finishes.
func Open(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set", EnvDatabaseURL)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, migrationsPath(), logger))

	pool, err := postgres.NewPool(context.Background(), dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// IDs returns n fresh UUIDs in ascending order.
func IDs(t testing.TB, n int) []string {
	t.Helper()

	ids := make([]string, n)
	for i := range ids {
		id, err := uuid.NewV7()
		require.NoError(t, err)
		ids[i] = id.String()
	}
	slices.Sort(ids)
	return ids
}

func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
