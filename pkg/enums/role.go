package enums

import (
	"fmt"
	"strings"
)

// Role is the single platform role a user holds.
type Role string

const (
	RoleFree   Role = "FREE"
	RolePlayer Role = "PLAYER"
	RoleCoach  Role = "COACH"
	RoleParent Role = "PARENT"
	RoleAdmin  Role = "ADMIN"
)

var validRoles = []Role{
	RoleFree,
	RolePlayer,
	RoleCoach,
	RoleParent,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role carries administrative privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanAuthor reports whether the role may create articles.
func (r Role) CanAuthor() bool {
	return r == RoleAdmin || r == RoleCoach
}

// ParseRole converts raw input into a Role. Matching is case-insensitive.
func ParseRole(value string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
