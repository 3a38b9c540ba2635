// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found in the directory.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPermissionDenied indicates that the caller's role does not permit the operation.
	ErrPermissionDenied = errors.New("permission denied")
)

// Account roles as assigned by the external identity system.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
	RoleGuest   = "guest"
)

// Account holds directory data for a single account. The directory is
// owned by the external identity system and consumed read-only.
type Account struct {
	ID        int32     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
