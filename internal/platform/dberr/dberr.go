// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The action names the failing statement (e.g. "delete_group_messages") and is
// kept in the cause chain for logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("Resource already exists")
		case pgerrcode.InvalidTextRepresentation:
			return apperr.ValidationError("Malformed identifier")
		}
	}

	// The cause chain keeps context.Canceled visible to errors.Is.
	return apperr.Failure(fmt.Errorf("%s: %w", action, err))
}

// NotFound wraps err like [Wrap] but names the missing resource.
func NotFound(err error, resource, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	return Wrap(err, action)
}
