// Package shift implements the shift registry: posting, editing and removing
// on-call work slots. All mutation is manager-only.
package shift

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/internal/service/audit"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
	"github.com/plantaohub/oncall-api/pkg/logger"
)

type Service struct {
	repo        repository.ShiftRepository
	hospitals   repository.HospitalRepository
	acceptances repository.AcceptanceRepository
	outbox      repository.OutboxRepository
	audit       audit.Recorder
	logger      *logger.Logger
}

func NewService(repo repository.ShiftRepository, hospitalRepo repository.HospitalRepository,
	acceptanceRepo repository.AcceptanceRepository, outboxRepo repository.OutboxRepository,
	recorder audit.Recorder, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		hospitals:   hospitalRepo,
		acceptances: acceptanceRepo,
		outbox:      outboxRepo,
		audit:       recorder,
		logger:      log,
	}
}

func (s *Service) Create(ctx context.Context, actor *model.Actor, req *model.CreateShiftRequest) (*model.Shift, error) {
	if !actor.IsManager() {
		return nil, apperrors.Forbidden("only managers may post shifts")
	}

	if err := validateSchedule(req.Day, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	if _, err := s.hospitals.Get(ctx, req.HospitalID); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("hospital", err)
		}
		return nil, apperrors.Internal(err)
	}

	shift := &model.Shift{
		HospitalID:   req.HospitalID,
		ManagerID:    actor.ID,
		Title:        req.Title,
		Description:  req.Description,
		Day:          req.Day,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		RequiredRole: req.RequiredRole,
		Type:         req.Type,
		Status:       model.ShiftStatusAvailable,
	}
	if req.Value != nil {
		shift.Value = *req.Value
	}

	if err := s.repo.Create(ctx, shift); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityShift,
		EntityID: strconv.FormatInt(shift.ID, 10),
		Action:   model.AuditActionCreate,
		After:    shift,
	})
	return shift, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Shift, error) {
	shift, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("shift", err)
		}
		return nil, apperrors.Internal(err)
	}
	return shift, nil
}

func (s *Service) List(ctx context.Context, filters *model.ShiftFilters) ([]*model.Shift, error) {
	shifts, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return shifts, nil
}

func (s *Service) Update(ctx context.Context, actor *model.Actor, id int64, req *model.UpdateShiftRequest) (*model.Shift, error) {
	if !actor.IsManager() {
		return nil, apperrors.Forbidden("only managers may update shifts")
	}

	shift, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("shift", err)
		}
		return nil, apperrors.Internal(err)
	}
	before := *shift

	if req.HospitalID != nil {
		if _, err := s.hospitals.Get(ctx, *req.HospitalID); err != nil {
			if err == repository.ErrNotFound {
				return nil, apperrors.NotFound("hospital", err)
			}
			return nil, apperrors.Internal(err)
		}
		shift.HospitalID = *req.HospitalID
	}
	if req.Title != nil {
		shift.Title = *req.Title
	}
	if req.Description != nil {
		shift.Description = *req.Description
	}
	if req.Day != nil {
		shift.Day = *req.Day
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.RequiredRole != nil {
		shift.RequiredRole = *req.RequiredRole
	}
	if req.Type != nil {
		shift.Type = *req.Type
	}
	if req.Value != nil {
		shift.Value = *req.Value
	}
	if req.Status != nil {
		if !model.ValidShiftStatus(*req.Status) {
			return nil, apperrors.Validation("invalid shift status", nil)
		}
		shift.Status = *req.Status
	}

	if err := validateSchedule(shift.Day, shift.StartTime, shift.EndTime); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, shift); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("shift", err)
		}
		return nil, apperrors.Internal(err)
	}

	if shift.Status != before.Status {
		s.publishStatusChange(ctx, shift, before.Status)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityShift,
		EntityID: strconv.FormatInt(shift.ID, 10),
		Action:   model.AuditActionUpdate,
		Before:   &before,
		After:    shift,
	})
	return shift, nil
}

// Delete removes a shift. Refused while the shift carries a pending or
// approved acceptance; deciding the acceptance first is the way out.
func (s *Service) Delete(ctx context.Context, actor *model.Actor, id int64) error {
	if !actor.IsManager() {
		return apperrors.Forbidden("only managers may delete shifts")
	}

	shift, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("shift", err)
		}
		return apperrors.Internal(err)
	}

	active, err := s.acceptances.HasActive(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if active {
		return apperrors.Conflict("shift has an active acceptance", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("shift", err)
		}
		return apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityShift,
		EntityID: strconv.FormatInt(id, 10),
		Action:   model.AuditActionDelete,
		Before:   shift,
	})
	return nil
}

// publishStatusChange enqueues a SHIFT_STATUS_CHANGED outbox event. Failures
// are logged, not returned: the shift update already committed.
func (s *Service) publishStatusChange(ctx context.Context, shift *model.Shift, previous model.ShiftStatus) {
	payload, err := json.Marshal(map[string]interface{}{
		"shift_id":        shift.ID,
		"hospital_id":     shift.HospitalID,
		"previous_status": previous,
		"status":          shift.Status,
	})
	if err != nil {
		s.logger.Error(err, "failed to marshal shift status event", "shift_id", shift.ID)
		return
	}

	event := &model.OutboxEvent{
		EventType: model.EventShiftStatusChanged,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue shift status event", "shift_id", shift.ID)
	}
}

func validateSchedule(day, start, end string) error {
	if !model.ValidDay(day) {
		return apperrors.Validation("day must be dd/mm/yyyy", nil)
	}
	if !model.ValidClock(start) || !model.ValidClock(end) {
		return apperrors.Validation("times must be 24-hour HH:MM", nil)
	}
	if !model.ClockBefore(start, end) {
		return apperrors.Validation("start time must be before end time", nil)
	}
	return nil
}
