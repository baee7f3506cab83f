// Package models holds the persistent record types shared by repositories
// and services.
package models

import "time"

// Role is the coarse authorization level attached to an identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a registered identity. ID is assigned by the store
// (monotonically increasing, never reused); Username and Email are unique
// across all records. PasswordHash is an opaque bcrypt digest, never the
// plaintext.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
