// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package middleware

import (
	"net/http"
	"strings"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/ctxutil"
	"github.com/Sherry00124/ImChat/internal/platform/respond"
	"github.com/Sherry00124/ImChat/internal/platform/sec"
)

// TokenVerifier verifies a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. No header: the request proceeds as anonymous.
//  2. Malformed header or bad token: 401.
//  3. Otherwise the claims are stored in the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, tokenStr, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || tokenStr == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
// Must be mounted after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin blocks requests whose caller does not hold [sec.RoleAdmin].
// It implies [RequireAuth].
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())

		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}

		if !claims.Role.IsAdmin() {
			respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}
