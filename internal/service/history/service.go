// Package history serves the manager and clinician projections of acceptance
// events. Rows are normally written by the acceptance ledger in the same
// transaction as the acceptance itself; this package reads them, applies
// id-scoped corrections, and can replay a missing pair from the ledger.
package history

import (
	"context"
	"strconv"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/internal/service/audit"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
	"github.com/plantaohub/oncall-api/pkg/logger"
)

type Service struct {
	managerRows   repository.ManagerHistoryRepository
	clinicianRows repository.ClinicianHistoryRepository
	acceptances   repository.AcceptanceRepository
	shifts        repository.ShiftRepository
	clinicians    repository.ClinicianRepository
	audit         audit.Recorder
	logger        *logger.Logger
}

func NewService(managerRepo repository.ManagerHistoryRepository,
	clinicianRepo repository.ClinicianHistoryRepository,
	acceptanceRepo repository.AcceptanceRepository,
	shiftRepo repository.ShiftRepository,
	clinicianDirectory repository.ClinicianRepository,
	recorder audit.Recorder, log *logger.Logger) *Service {
	return &Service{
		managerRows:   managerRepo,
		clinicianRows: clinicianRepo,
		acceptances:   acceptanceRepo,
		shifts:        shiftRepo,
		clinicians:    clinicianDirectory,
		audit:         recorder,
		logger:        log,
	}
}

func (s *Service) ListManager(ctx context.Context, actor *model.Actor, filters *model.HistoryFilters) ([]*model.ManagerHistory, error) {
	if !actor.IsManager() && !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("manager history is restricted to managers")
	}

	rows, err := s.managerRows.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rows, nil
}

func (s *Service) GetManager(ctx context.Context, actor *model.Actor, id int64) (*model.ManagerHistory, error) {
	if !actor.IsManager() && !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("manager history is restricted to managers")
	}

	row, err := s.managerRows.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("manager history entry", err)
		}
		return nil, apperrors.Internal(err)
	}
	return row, nil
}

// UpdateManager applies an id-scoped correction to one manager history row.
func (s *Service) UpdateManager(ctx context.Context, actor *model.Actor, id int64, req *model.UpdateManagerHistoryRequest) (*model.ManagerHistory, error) {
	if !actor.IsManager() && !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("manager history is restricted to managers")
	}

	row, err := s.managerRows.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("manager history entry", err)
		}
		return nil, apperrors.Internal(err)
	}
	before := *row

	if req.Status != nil {
		if !model.ValidShiftStatus(*req.Status) {
			return nil, apperrors.Validation("invalid status", nil)
		}
		row.Status = *req.Status
	}
	if req.Note != nil {
		row.Note = *req.Note
	}

	if err := s.managerRows.Update(ctx, row); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("manager history entry", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityManagerHistory,
		EntityID: strconv.FormatInt(row.ID, 10),
		Action:   model.AuditActionUpdate,
		Before:   &before,
		After:    row,
	})
	return row, nil
}

// ListClinician lists clinician history. Clinicians only see rows bearing
// their own license.
func (s *Service) ListClinician(ctx context.Context, actor *model.Actor, filters *model.HistoryFilters) ([]*model.ClinicianHistory, error) {
	if filters == nil {
		filters = &model.HistoryFilters{}
	}
	if actor.IsClinician() {
		clinician, err := s.clinicians.Get(ctx, actor.ID)
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, apperrors.NotFound("clinician", err)
			}
			return nil, apperrors.Internal(err)
		}
		filters.License = &clinician.License
	}

	rows, err := s.clinicianRows.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rows, nil
}

// ListClinicianByLicense lists one clinician's history by license number.
// Restricted to managers and admins; clinicians use ListClinician.
func (s *Service) ListClinicianByLicense(ctx context.Context, actor *model.Actor, license string) ([]*model.ClinicianHistory, error) {
	if !actor.IsManager() && !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("license lookup is restricted to managers")
	}

	rows, err := s.clinicianRows.ListByLicense(ctx, license)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rows, nil
}

func (s *Service) GetClinician(ctx context.Context, actor *model.Actor, id int64) (*model.ClinicianHistory, error) {
	row, err := s.clinicianRows.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("clinician history entry", err)
		}
		return nil, apperrors.Internal(err)
	}

	if actor.IsClinician() {
		clinician, err := s.clinicians.Get(ctx, actor.ID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if row.License != clinician.License {
			return nil, apperrors.Forbidden("clinicians may only read their own history")
		}
	}
	return row, nil
}

// UpdateClinician applies an id-scoped correction to one clinician history row.
func (s *Service) UpdateClinician(ctx context.Context, actor *model.Actor, id int64, req *model.UpdateClinicianHistoryRequest) (*model.ClinicianHistory, error) {
	if !actor.IsManager() && !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("history corrections are restricted to managers")
	}

	row, err := s.clinicianRows.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("clinician history entry", err)
		}
		return nil, apperrors.Internal(err)
	}
	before := *row

	if req.Status != nil {
		if !model.ValidClinicianHistoryStatus(*req.Status) {
			return nil, apperrors.Validation("invalid status", nil)
		}
		row.Status = *req.Status
	}
	if req.Note != nil {
		row.Note = *req.Note
	}

	if err := s.clinicianRows.Update(ctx, row); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("clinician history entry", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityClinicianHistory,
		EntityID: strconv.FormatInt(row.ID, 10),
		Action:   model.AuditActionUpdate,
		Before:   &before,
		After:    row,
	})
	return row, nil
}

// Replay rebuilds the projection pair for an existing acceptance by
// re-resolving it against the ledger. An escape hatch for projections damaged
// by manual intervention; normal writes go through the acceptance ledger.
// The manager-side status may be supplied by the caller and defaults to
// AVAILABLE; the note carries the acceptance's rejection reason when one is
// recorded.
func (s *Service) Replay(ctx context.Context, actor *model.Actor, acceptanceID int64, req *model.ReplayHistoryRequest) (*model.ManagerHistory, *model.ClinicianHistory, error) {
	if !actor.IsManager() && !actor.IsSystemAdmin() {
		return nil, nil, apperrors.Forbidden("history replay is restricted to managers")
	}

	managerStatus := model.ShiftStatusAvailable
	if req != nil && req.Status != nil {
		if !model.ValidShiftStatus(*req.Status) {
			return nil, nil, apperrors.Validation("invalid status", nil)
		}
		managerStatus = *req.Status
	}

	acceptance, err := s.acceptances.Get(ctx, acceptanceID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, nil, apperrors.NotFound("acceptance", err)
		}
		return nil, nil, apperrors.Internal(err)
	}
	shift, err := s.shifts.Get(ctx, acceptance.ShiftID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, nil, apperrors.NotFound("shift", err)
		}
		return nil, nil, apperrors.Internal(err)
	}
	if _, err := s.clinicians.Get(ctx, acceptance.ClinicianID); err != nil {
		if err == repository.ErrNotFound {
			return nil, nil, apperrors.NotFound("clinician", err)
		}
		return nil, nil, apperrors.Internal(err)
	}

	note := ""
	if acceptance.RejectionReason != nil {
		note = *acceptance.RejectionReason
	}
	managerRow := &model.ManagerHistory{
		ShiftID:      acceptance.ShiftID,
		AcceptanceID: acceptance.ID,
		License:      acceptance.License,
		Day:          acceptance.Day,
		StartTime:    acceptance.StartTime,
		EndTime:      acceptance.EndTime,
		Status:       managerStatus,
		Note:         note,
	}
	clinicianRow := &model.ClinicianHistory{
		HospitalID:   shift.HospitalID,
		ShiftID:      acceptance.ShiftID,
		AcceptanceID: acceptance.ID,
		License:      acceptance.License,
		Day:          acceptance.Day,
		StartTime:    acceptance.StartTime,
		EndTime:      acceptance.EndTime,
		Status:       model.ClinicianHistoryAccepted,
	}

	if err := s.managerRows.Create(ctx, managerRow); err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	if err := s.clinicianRows.Create(ctx, clinicianRow); err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityManagerHistory,
		EntityID: strconv.FormatInt(managerRow.ID, 10),
		Action:   model.AuditActionCreate,
		After:    managerRow,
	})
	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityClinicianHistory,
		EntityID: strconv.FormatInt(clinicianRow.ID, 10),
		Action:   model.AuditActionCreate,
		After:    clinicianRow,
	})
	return managerRow, clinicianRow, nil
}
