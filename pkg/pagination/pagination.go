// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

// Package pagination provides the offset/limit window used by list endpoints.
//
// # Overview
//
// Chat history is paged by skipping the newest rows, so the window is an
// (offset, limit) pair rather than a page number.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items returned when "limit" is omitted.
	DefaultLimit = 20
	// MaxLimit is the upper bound for a single window.
	MaxLimit = 100
)

// Window holds the parsed offset and limit from a request's query string.
type Window struct {
	Offset int
	Limit  int
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Count  int `json:"count"`
}

// NewMeta builds response metadata for a window that produced count items.
func NewMeta(window Window, count int) Meta {
	return Meta{Offset: window.Offset, Limit: window.Limit, Count: count}
}

// FromRequest parses "offset" and "limit" query parameters.
//
// # Clamping
//
// A missing or unparsable value falls back to 0 and defaultLimit. A negative
// offset becomes 0 and a limit above [MaxLimit] becomes [MaxLimit]. An
// explicit non-positive limit is kept, and yields an empty page downstream.
func FromRequest(r *http.Request, defaultLimit int) Window {
	offset := parseIntParam(r, "offset", 0)
	limit := parseIntParam(r, "limit", defaultLimit)

	if offset < 0 {
		offset = 0
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Window{Offset: offset, Limit: limit}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
