// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"not found", apperr.NotFound("Group"), apperr.CodeNotFound, http.StatusNotFound},
		{"not a member", apperr.NotAMember("g1"), apperr.CodeNotAMember, http.StatusForbidden},
		{"unauthorized", apperr.Unauthorized("no"), apperr.CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("no"), apperr.CodeForbidden, http.StatusForbidden},
		{"conflict", apperr.Conflict("taken"), apperr.CodeConflict, http.StatusConflict},
		{"validation", apperr.ValidationError("bad"), apperr.CodeValidation, http.StatusBadRequest},
		{"rate limited", apperr.RateLimited(1), apperr.CodeRateLimited, http.StatusTooManyRequests},
		{"failure", apperr.Failure(errors.New("boom")), apperr.CodeFailure, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.True(t, apperr.HasCode(tt.err, tt.code))
		})
	}

	assert.Equal(t, "Group not found", apperr.NotFound("Group").Error())
}

/*
TestFailure_HidesCause keeps the storage error out of the client message
while leaving it reachable through the chain.
*/
func TestFailure_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := apperr.Failure(cause)

	assert.NotContains(t, err.Error(), "relation")
	assert.ErrorIs(t, err, cause)
}

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("step 2: %w", apperr.NotFound("Member"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.True(t, apperr.IsAppError(wrapped))

	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.False(t, apperr.HasCode(nil, apperr.CodeFailure))
}

func TestEnsure(t *testing.T) {
	assert.NoError(t, apperr.Ensure(nil))

	conflict := apperr.Conflict("taken")
	assert.Same(t, conflict, apperr.Ensure(conflict))

	plain := errors.New("socket closed")
	ensured := apperr.Ensure(plain)
	assert.True(t, apperr.HasCode(ensured, apperr.CodeFailure))
	assert.ErrorIs(t, ensured, plain)
}
