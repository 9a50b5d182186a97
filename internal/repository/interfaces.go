package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/plantaohub/oncall-api/internal/model"
)

// Sentinel errors shared by all repository implementations. Services wrap
// them into the user-facing error taxonomy.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate key")
	ErrActiveAcceptance = errors.New("shift already has an active acceptance")
)

type HospitalRepository interface {
	Create(ctx context.Context, hospital *model.Hospital) error
	Get(ctx context.Context, id int64) (*model.Hospital, error)
	GetByEmail(ctx context.Context, email string) (*model.Hospital, error)
	GetByTaxID(ctx context.Context, taxID string) (*model.Hospital, error)
	List(ctx context.Context) ([]*model.Hospital, error)
	Update(ctx context.Context, hospital *model.Hospital) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

type ClinicianRepository interface {
	Create(ctx context.Context, clinician *model.Clinician) error
	Get(ctx context.Context, id int64) (*model.Clinician, error)
	GetByLicense(ctx context.Context, license string) (*model.Clinician, error)
	GetByEmail(ctx context.Context, email string) (*model.Clinician, error)
	List(ctx context.Context) ([]*model.Clinician, error)
	Update(ctx context.Context, clinician *model.Clinician) error
	Delete(ctx context.Context, id int64) error
}

type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	Get(ctx context.Context, id int64) (*model.Shift, error)
	List(ctx context.Context, filters *model.ShiftFilters) ([]*model.Shift, error)
	Update(ctx context.Context, shift *model.Shift) error
	Delete(ctx context.Context, id int64) error
}

type AcceptanceRepository interface {
	// CreateWithProjections inserts the acceptance, both history rows and the
	// outbox event as a single atomic unit, assigning sequential ids to each.
	// Returns ErrActiveAcceptance when the shift already carries a PENDING or
	// APPROVED acceptance.
	CreateWithProjections(ctx context.Context, acceptance *model.Acceptance,
		managerRow *model.ManagerHistory, clinicianRow *model.ClinicianHistory,
		event *model.OutboxEvent) error

	Get(ctx context.Context, id int64) (*model.Acceptance, error)
	List(ctx context.Context, filters *model.AcceptanceFilters) ([]*model.Acceptance, error)
	Update(ctx context.Context, acceptance *model.Acceptance) error
	Delete(ctx context.Context, id int64) error

	// HasActive reports whether the shift has a PENDING or APPROVED
	// acceptance. Used by the shift registry's delete guard.
	HasActive(ctx context.Context, shiftID int64) (bool, error)
}

type ManagerHistoryRepository interface {
	Create(ctx context.Context, row *model.ManagerHistory) error
	Get(ctx context.Context, id int64) (*model.ManagerHistory, error)
	List(ctx context.Context, filters *model.HistoryFilters) ([]*model.ManagerHistory, error)
	Update(ctx context.Context, row *model.ManagerHistory) error
}

type ClinicianHistoryRepository interface {
	Create(ctx context.Context, row *model.ClinicianHistory) error
	Get(ctx context.Context, id int64) (*model.ClinicianHistory, error)
	List(ctx context.Context, filters *model.HistoryFilters) ([]*model.ClinicianHistory, error)
	ListByLicense(ctx context.Context, license string) ([]*model.ClinicianHistory, error)
	Update(ctx context.Context, row *model.ClinicianHistory) error
}

type AuditRepository interface {
	Create(ctx context.Context, event *model.AuditEvent) error
	Get(ctx context.Context, id uuid.UUID) (*model.AuditEvent, error)
	List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditEvent, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
}
