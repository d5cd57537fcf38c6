// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package sec_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sherry00124/ImChat/internal/platform/sec"
)

/*
TestParseRole covers the closed set, including near-miss spellings.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    sec.Role
		isAdmin bool
		wantErr bool
	}{
		{"admin", sec.RoleAdmin, true, false},
		{"member", sec.RoleMember, false, false},
		{"Admin", 0, false, true},
		{"admin ", 0, false, true},
		{"", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, err := sec.ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, role.Valid())
				assert.False(t, role.IsAdmin())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
			assert.Equal(t, tt.isAdmin, role.IsAdmin())
		})
	}
}

/*
TestRole_ZeroValueIsNotAdmin guards against an unset role granting capability.
*/
func TestRole_ZeroValueIsNotAdmin(t *testing.T) {
	var role sec.Role
	assert.False(t, role.Valid())
	assert.False(t, role.IsAdmin())
	assert.Equal(t, "unknown", role.String())

	_, err := role.Value()
	assert.Error(t, err)
}

/*
TestRole_JSON verifies the text form round-trips through JSON.
*/
func TestRole_JSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Role sec.Role `json:"role"`
	}{Role: sec.RoleAdmin})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"admin"}`, string(payload))

	var decoded struct {
		Role sec.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"member"}`), &decoded))
	assert.Equal(t, sec.RoleMember, decoded.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"root"}`), &decoded))
}

/*
TestRole_Scan covers both driver representations of the text column.
*/
func TestRole_Scan(t *testing.T) {
	var role sec.Role
	require.NoError(t, role.Scan("admin"))
	assert.Equal(t, sec.RoleAdmin, role)

	require.NoError(t, role.Scan([]byte("member")))
	assert.Equal(t, sec.RoleMember, role)

	assert.Error(t, role.Scan(42))
}
