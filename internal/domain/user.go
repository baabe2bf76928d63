package domain

import (
	"strings"
	"time"
)

// Role is the closed set of caller roles. Every authorization decision
// switches over this type exhaustively; values outside the set are never
// treated as permissive.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// Reserved addresses that receive elevated roles at registration.
const (
	adminEmail = "admin@support.com"
	agentEmail = "agent@support.com"
)

// RoleForEmail returns the role a newly registered account receives.
func RoleForEmail(email string) Role {
	switch strings.ToLower(email) {
	case adminEmail:
		return RoleAdmin
	case agentEmail:
		return RoleAgent
	default:
		return RoleUser
	}
}

// User is a registered account. Email is unique case-insensitively and
// stored lowercase.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated identity attempting an operation.
type Actor struct {
	ID    string
	Email string
	Role  Role
}
