// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package dberr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/dberr"
)

/*
TestWrap maps driver errors onto the application error taxonomy.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, apperr.CodeConflict},
		{"bad_uuid", &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, apperr.CodeValidation},
		{"other_pg", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, apperr.CodeFailure},
		{"network", errors.New("connection reset"), apperr.CodeFailure},
		{"passthrough", apperr.Forbidden("no"), apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperr.HasCode(dberr.Wrap(tt.err, "test_action"), tt.wantCode))
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

func TestWrap_KeepsCause(t *testing.T) {
	err := dberr.Wrap(context.Canceled, "delete_group")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, apperr.As(err).Cause.Error(), "delete_group")
}

func TestNotFound_NamesResource(t *testing.T) {
	err := dberr.NotFound(pgx.ErrNoRows, "Group", "find_group")
	assert.Equal(t, "Group not found", err.Error())
}
