package model

import (
	"time"
)

// Clinician is a licensed professional who accepts shifts. Clinicians are
// independent of hospitals at registration time; the link is established
// through acceptances.
type Clinician struct {
	ID           int64     `json:"id" db:"id"`
	License      string    `json:"license" db:"license"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Specialty    string    `json:"specialty" db:"specialty"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Role is fixed for clinicians; there is no role column.
func (c *Clinician) ActorRole() Role { return RoleClinician }

type CreateClinicianRequest struct {
	License   string `json:"license" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Specialty string `json:"specialty" binding:"required"`
}

type UpdateClinicianRequest struct {
	License   *string `json:"license"`
	Name      *string `json:"name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
	Specialty *string `json:"specialty"`
	Active    *bool   `json:"active"`
}
