package model

import (
	"time"
)

type Hospital struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TaxID     string    `json:"tax_id" db:"tax_id"`
	Address   string    `json:"address" db:"address"`
	Email     string    `json:"email" db:"email"`
	Subdomain *string   `json:"subdomain,omitempty" db:"subdomain"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateHospitalRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=200"`
	TaxID     string  `json:"tax_id" binding:"required,min=14,max=18"`
	Address   string  `json:"address" binding:"required,min=1,max=300"`
	Email     string  `json:"email" binding:"required,email"`
	Subdomain *string `json:"subdomain"`
}

type UpdateHospitalRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	TaxID     *string `json:"tax_id" binding:"omitempty,min=14,max=18"`
	Address   *string `json:"address" binding:"omitempty,min=1,max=300"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Subdomain *string `json:"subdomain"`
}
