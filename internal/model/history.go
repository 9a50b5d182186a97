package model

import (
	"time"
)

type ClinicianHistoryStatus string

const (
	ClinicianHistoryAccepted  ClinicianHistoryStatus = "ACCEPTED"
	ClinicianHistoryPerformed ClinicianHistoryStatus = "PERFORMED"
	ClinicianHistoryCancelled ClinicianHistoryStatus = "CANCELLED"
	ClinicianHistoryNoShow    ClinicianHistoryStatus = "NO_SHOW"
)

func ValidClinicianHistoryStatus(s ClinicianHistoryStatus) bool {
	switch s {
	case ClinicianHistoryAccepted, ClinicianHistoryPerformed,
		ClinicianHistoryCancelled, ClinicianHistoryNoShow:
		return true
	}
	return false
}

// ManagerHistory is the manager-facing projection of an acceptance event.
// Exactly one row is created per acceptance; rows are append-only apart from
// the id-scoped correction endpoint.
type ManagerHistory struct {
	ID           int64       `json:"id" db:"id"`
	ShiftID      int64       `json:"shift_id" db:"shift_id"`
	AcceptanceID int64       `json:"acceptance_id" db:"acceptance_id"`
	License      string      `json:"license" db:"license"`
	Day          string      `json:"day,omitempty" db:"day"`
	StartTime    string      `json:"start_time,omitempty" db:"start_time"`
	EndTime      string      `json:"end_time,omitempty" db:"end_time"`
	Status       ShiftStatus `json:"status" db:"status"`
	Note         string      `json:"note" db:"note"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// ClinicianHistory is the clinician-facing projection of an acceptance event.
type ClinicianHistory struct {
	ID           int64                  `json:"id" db:"id"`
	HospitalID   int64                  `json:"hospital_id" db:"hospital_id"`
	ShiftID      int64                  `json:"shift_id" db:"shift_id"`
	AcceptanceID int64                  `json:"acceptance_id" db:"acceptance_id"`
	License      string                 `json:"license" db:"license"`
	Day          string                 `json:"day" db:"day"`
	StartTime    string                 `json:"start_time" db:"start_time"`
	EndTime      string                 `json:"end_time" db:"end_time"`
	Status       ClinicianHistoryStatus `json:"status" db:"status"`
	Note         string                 `json:"note" db:"note"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at" db:"updated_at"`
}

// ReplayHistoryRequest optionally overrides the manager-side status when a
// projection pair is rebuilt; absent, the status defaults to AVAILABLE.
type ReplayHistoryRequest struct {
	Status *ShiftStatus `json:"status"`
}

type UpdateManagerHistoryRequest struct {
	Status *ShiftStatus `json:"status"`
	Note   *string      `json:"note"`
}

type UpdateClinicianHistoryRequest struct {
	Status *ClinicianHistoryStatus `json:"status"`
	Note   *string                 `json:"note"`
}

type HistoryFilters struct {
	License      *string
	ShiftID      *int64
	AcceptanceID *int64
}
