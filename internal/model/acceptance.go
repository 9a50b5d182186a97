package model

import (
	"time"
)

type AcceptanceStatus string

const (
	AcceptanceStatusPending   AcceptanceStatus = "PENDING"
	AcceptanceStatusApproved  AcceptanceStatus = "APPROVED"
	AcceptanceStatusRejected  AcceptanceStatus = "REJECTED"
	AcceptanceStatusCancelled AcceptanceStatus = "CANCELLED"
)

func ValidAcceptanceStatus(s AcceptanceStatus) bool {
	switch s {
	case AcceptanceStatusPending, AcceptanceStatusApproved,
		AcceptanceStatusRejected, AcceptanceStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status closes the acceptance.
func (s AcceptanceStatus) Terminal() bool {
	return s == AcceptanceStatusApproved || s == AcceptanceStatusRejected ||
		s == AcceptanceStatusCancelled
}

// Acceptance is a clinician's claim on a shift, awaiting a manager decision.
// Day/StartTime/EndTime are copied from the shift when the acceptance is
// created: a point-in-time snapshot, so later shift edits do not retroactively
// change an existing acceptance.
type Acceptance struct {
	ID              int64            `json:"id" db:"id"`
	ShiftID         int64            `json:"shift_id" db:"shift_id"`
	ClinicianID     int64            `json:"clinician_id" db:"clinician_id"`
	License         string           `json:"license" db:"license"`
	Day             string           `json:"day,omitempty" db:"day"`
	StartTime       string           `json:"start_time,omitempty" db:"start_time"`
	EndTime         string           `json:"end_time,omitempty" db:"end_time"`
	Status          AcceptanceStatus `json:"status" db:"status"`
	RejectionReason *string          `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

type CreateAcceptanceRequest struct {
	ShiftID int64 `json:"shift_id" binding:"required"`
}

// UpdateAcceptanceRequest carries the only two mutable fields. Everything
// else is immutable after creation.
type UpdateAcceptanceRequest struct {
	Status          *AcceptanceStatus `json:"status"`
	RejectionReason *string           `json:"rejection_reason" binding:"omitempty,max=1000"`
}

type AcceptanceFilters struct {
	ClinicianID *int64
	ShiftID     *int64
	Status      *AcceptanceStatus
}
