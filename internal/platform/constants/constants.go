// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, history visibility, and the header
and field names shared between layers.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "imchat-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Group History

const (
	// DefaultHistoryLookback is how far before their join time a new member may read.
	DefaultHistoryLookback = 24 * time.Hour

	// DefaultHistoryPageSize is the page size used when a client omits "limit".
	DefaultHistoryPageSize = 30
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "imchat.app"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes

const (
	RedisPrefixPurgeLock = "purge:lock:"
)
