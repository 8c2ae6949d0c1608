package models

import "time"

// User represents a staff login account for the admin panel.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // never serialized
	Email        *string   `json:"email,omitempty" db:"email"`
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Staff roles. Admin may additionally manage accounts and permanently delete
// members; Staff covers the day-to-day desk operations.
const (
	RoleAdmin = "Admin"
	RoleStaff = "Staff"
)

// IsValidRole checks if the provided role name is one the system knows.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
