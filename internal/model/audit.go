package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionAccept AuditAction = "ACCEPT"
	AuditActionCancel AuditAction = "CANCEL"
	AuditActionLogin  AuditAction = "LOGIN"
	AuditActionLogout AuditAction = "LOGOUT"
)

func ValidAuditAction(a AuditAction) bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete,
		AuditActionAccept, AuditActionCancel, AuditActionLogin, AuditActionLogout:
		return true
	}
	return false
}

// Audited entity names.
const (
	AuditEntityHospital         = "Hospital"
	AuditEntityUser             = "User"
	AuditEntityClinician        = "Clinician"
	AuditEntityShift            = "Shift"
	AuditEntityAcceptance       = "Acceptance"
	AuditEntityManagerHistory   = "ManagerHistory"
	AuditEntityClinicianHistory = "ClinicianHistory"
)

// AuditEvent is an immutable record of a mutating action. Actor and hospital
// references are soft: no foreign key is enforced, so events survive deletion
// of the entities they mention.
type AuditEvent struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ActorID    *int64          `json:"actor_id,omitempty" db:"actor_id"`
	HospitalID *int64          `json:"hospital_id,omitempty" db:"hospital_id"`
	Entity     string          `json:"entity" db:"entity"`
	EntityID   string          `json:"entity_id" db:"entity_id"`
	Action     AuditAction     `json:"action" db:"action"`
	Before     json.RawMessage `json:"before,omitempty" db:"before"`
	After      json.RawMessage `json:"after,omitempty" db:"after"`
	SourceIP   string          `json:"source_ip,omitempty" db:"source_ip"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type AuditFilters struct {
	Entity     *string
	Action     *AuditAction
	ActorID    *int64
	HospitalID *int64
	Since      *time.Time
	Until      *time.Time
}
