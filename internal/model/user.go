package model

import (
	"time"
)

// User is a hospital-side account: a shift manager or a system admin.
// HospitalID is nullable because system admins are not tied to a hospital.
type User struct {
	ID           int64     `json:"id" db:"id"`
	HospitalID   *int64    `json:"hospital_id,omitempty" db:"hospital_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type CreateUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Role       Role   `json:"role" binding:"required,oneof=MANAGER SYSTEM_ADMIN"`
	Phone      string `json:"phone"`
	HospitalID *int64 `json:"hospital_id"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Password   *string `json:"password" binding:"omitempty,min=8"`
	Role       *Role   `json:"role" binding:"omitempty,oneof=MANAGER SYSTEM_ADMIN"`
	Phone      *string `json:"phone"`
	Active     *bool   `json:"active"`
	HospitalID *int64  `json:"hospital_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Actor Actor  `json:"actor"`
}
