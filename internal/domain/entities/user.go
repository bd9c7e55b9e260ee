package entities

import (
	"time"
)

// Role represents a staff role in the hospital food chain
type Role string

const (
	RoleManager       Role = "manager"
	RolePantryStaff   Role = "pantry_staff"
	RoleDeliveryStaff Role = "delivery"
)

// Valid reports whether the role is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleManager, RolePantryStaff, RoleDeliveryStaff:
		return true
	}
	return false
}

// User represents a staff member in the system
type User struct {
	ID            string    `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	FullName      string    `json:"full_name" db:"full_name"`
	Role          Role      `json:"role" db:"role"`
	ContactNumber string    `json:"contact_number" db:"contact_number"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// UserRef is the minimal user shape embedded in denormalized responses.
type UserRef struct {
	ID       string `json:"id" db:"id"`
	FullName string `json:"full_name" db:"full_name"`
}
