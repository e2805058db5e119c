package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of roles a user record may carry. The zero value
// is RoleUnset, which is what a user without a stored role (or without a
// record at all) resolves to.
type Role uint8

const (
	RoleUnset Role = iota
	RoleStudent
	RoleInstructor
	RoleAdmin
)

// String returns the stored form of the role. RoleUnset renders as "".
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	case RoleAdmin:
		return "admin"
	case RoleUnset:
		return ""
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ParseRole maps a stored role string onto a Role. Anything outside the
// known set, including the empty string, is RoleUnset.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return RoleStudent
	case "instructor":
		return RoleInstructor
	case "admin":
		return RoleAdmin
	}
	return RoleUnset
}

// MarshalJSON writes the role as its string form, or null when unset.
func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleUnset {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts a string or null.
func (r *Role) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = RoleUnset
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}
