package model

import (
	"time"
)

type ShiftStatus string

const (
	ShiftStatusAvailable ShiftStatus = "AVAILABLE"
	ShiftStatusReserved  ShiftStatus = "RESERVED"
	ShiftStatusConfirmed ShiftStatus = "CONFIRMED"
	ShiftStatusCancelled ShiftStatus = "CANCELLED"
	ShiftStatusCompleted ShiftStatus = "COMPLETED"
)

// ValidShiftStatus reports enum membership. Transitions are deliberately
// unconstrained: any member may follow any other.
func ValidShiftStatus(s ShiftStatus) bool {
	switch s {
	case ShiftStatusAvailable, ShiftStatusReserved, ShiftStatusConfirmed,
		ShiftStatusCancelled, ShiftStatusCompleted:
		return true
	}
	return false
}

// Shift is a postable on-call work slot owned by a hospital and created by a
// manager. Day is dd/mm/yyyy, StartTime/EndTime are 24-hour HH:MM.
type Shift struct {
	ID           int64       `json:"id" db:"id"`
	HospitalID   int64       `json:"hospital_id" db:"hospital_id"`
	ManagerID    int64       `json:"manager_id" db:"manager_id"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description,omitempty" db:"description"`
	Day          string      `json:"day" db:"day"`
	StartTime    string      `json:"start_time" db:"start_time"`
	EndTime      string      `json:"end_time" db:"end_time"`
	RequiredRole string      `json:"required_role" db:"required_role"`
	Type         string      `json:"type" db:"type"`
	Value        float64     `json:"value" db:"value"`
	Status       ShiftStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

type CreateShiftRequest struct {
	HospitalID   int64    `json:"hospital_id" binding:"required"`
	Title        string   `json:"title" binding:"required,min=3,max=200"`
	Description  string   `json:"description" binding:"max=1000"`
	Day          string   `json:"day" binding:"required,day"`
	StartTime    string   `json:"start_time" binding:"required,clock"`
	EndTime      string   `json:"end_time" binding:"required,clock"`
	RequiredRole string   `json:"required_role" binding:"required,max=100"`
	Type         string   `json:"type" binding:"required,max=50"`
	Value        *float64 `json:"value"`
}

type UpdateShiftRequest struct {
	HospitalID   *int64       `json:"hospital_id"`
	Title        *string      `json:"title" binding:"omitempty,min=3,max=200"`
	Description  *string      `json:"description" binding:"omitempty,max=1000"`
	Day          *string      `json:"day" binding:"omitempty,day"`
	StartTime    *string      `json:"start_time" binding:"omitempty,clock"`
	EndTime      *string      `json:"end_time" binding:"omitempty,clock"`
	RequiredRole *string      `json:"required_role" binding:"omitempty,max=100"`
	Type         *string      `json:"type" binding:"omitempty,max=50"`
	Value        *float64     `json:"value"`
	Status       *ShiftStatus `json:"status"`
}

type ShiftFilters struct {
	HospitalID *int64
	ManagerID  *int64
	Status     *ShiftStatus
}
