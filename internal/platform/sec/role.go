// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package sec

import (
	"database/sql/driver"
	"fmt"
)

// # User Roles

// Role is the closed set of account roles. The zero value is not a valid role,
// so an unparsed or missing role can never pass a capability check.
type Role uint8

const (
	roleUnknown Role = iota

	// RoleMember is the default role for registered users.
	RoleMember

	// RoleAdmin may administer other accounts, including purging them.
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleMember: "member",
	RoleAdmin:  "admin",
}

// ParseRole converts the stored text form into a [Role].
func ParseRole(value string) (Role, error) {
	for role, name := range roleNames {
		if name == value {
			return role, nil
		}
	}
	return roleUnknown, fmt.Errorf("sec: unknown role %q", value)
}

// String returns the stored text form, or "unknown".
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// IsAdmin reports whether r carries the admin capability.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// MarshalText implements [encoding.TextMarshaler].
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("sec: cannot marshal role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scan implements [database/sql.Scanner] for the text role column.
func (r *Role) Scan(src any) error {
	switch value := src.(type) {
	case string:
		return r.UnmarshalText([]byte(value))
	case []byte:
		return r.UnmarshalText(value)
	default:
		return fmt.Errorf("sec: cannot scan %T into Role", src)
	}
}

// Value implements [driver.Valuer].
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("sec: cannot store role %d", uint8(r))
	}
	return r.String(), nil
}

// Principal is the acting identity behind a request.
type Principal struct {
	UserID string
	Role   Role
}
