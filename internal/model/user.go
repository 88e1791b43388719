package model

import "github.com/google/uuid"

// Role is the fixed three-role scheme of the clinic.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleOdont Role = "ODONT"
	RoleRecep Role = "RECEP"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOdont, RoleRecep:
		return true
	}
	return false
}

type User struct {
	Base
	ClinicID     uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         Role      `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	User      *User  `json:"user"`
}
