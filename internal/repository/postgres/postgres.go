package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/plantaohub/oncall-api/internal/repository"
)

// Counter entity names. One durable counter row per business entity keeps
// sequential ids monotonic across restarts and instances.
const (
	counterHospital         = "hospital"
	counterUser             = "user"
	counterClinician        = "clinician"
	counterShift            = "shift"
	counterAcceptance       = "acceptance"
	counterManagerHistory   = "manager_history"
	counterClinicianHistory = "clinician_history"
)

type hospitalRepository struct {
	BaseRepository
}

type userRepository struct {
	BaseRepository
}

type clinicianRepository struct {
	BaseRepository
}

type shiftRepository struct {
	BaseRepository
}

type acceptanceRepository struct {
	BaseRepository
}

type managerHistoryRepository struct {
	BaseRepository
}

type clinicianHistoryRepository struct {
	BaseRepository
}

type auditRepository struct {
	BaseRepository
}

type outboxRepository struct {
	BaseRepository
}

func NewHospitalRepository(db *sqlx.DB) repository.HospitalRepository {
	return &hospitalRepository{NewBaseRepository(db)}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{NewBaseRepository(db)}
}

func NewClinicianRepository(db *sqlx.DB) repository.ClinicianRepository {
	return &clinicianRepository{NewBaseRepository(db)}
}

func NewShiftRepository(db *sqlx.DB) repository.ShiftRepository {
	return &shiftRepository{NewBaseRepository(db)}
}

func NewAcceptanceRepository(db *sqlx.DB) repository.AcceptanceRepository {
	return &acceptanceRepository{NewBaseRepository(db)}
}

func NewManagerHistoryRepository(db *sqlx.DB) repository.ManagerHistoryRepository {
	return &managerHistoryRepository{NewBaseRepository(db)}
}

func NewClinicianHistoryRepository(db *sqlx.DB) repository.ClinicianHistoryRepository {
	return &clinicianHistoryRepository{NewBaseRepository(db)}
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{NewBaseRepository(db)}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}
