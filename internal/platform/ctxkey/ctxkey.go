// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

// Package ctxkey defines typed context keys shared by middleware and handlers.
package ctxkey

// key is unexported so values stored under it cannot collide with string keys
// set by other packages.
type key uint8

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = iota + 1

	// KeyUser holds the verified [sec.AuthClaims] of the caller.
	KeyUser

	// KeyLogger holds the per-request [*log/slog.Logger].
	KeyLogger
)
