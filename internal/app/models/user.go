package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the ordinal role classification used by the resource
// availability engine: 0 public through 3 admin.
type UserRole int

const (
	RolePublic UserRole = iota
	RoleStudent
	RoleTeacher
	RoleAdmin
)

// RoleFromOrdinal clamps an arbitrary ordinal into the role range; anything
// at or above admin collapses to admin, anything negative to public.
func RoleFromOrdinal(n int) UserRole {
	if n < int(RolePublic) {
		return RolePublic
	}
	if n >= int(RoleAdmin) {
		return RoleAdmin
	}
	return UserRole(n)
}

// User defines an opaque account reference based on the 'users' table. The
// engine only ever needs the role ordinal; everything else about accounts is
// an external concern.
type User struct {
	ID       uuid.UUID `json:"id" db:"id"`
	FullName string    `json:"fullName" db:"full_name"`
	Email    string    `json:"email" db:"email"`
	Role     int       `json:"role" db:"role" example:"1"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Registration links a user to a class offer they attend, based on the
// 'registrations' table. Payment and notification around registrations are
// external concerns.
type Registration struct {
	ID           int64     `json:"id" db:"id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	ClassOfferID int64     `json:"classOfferId" db:"class_offer_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
