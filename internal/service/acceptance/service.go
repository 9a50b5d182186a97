// Package acceptance implements the acceptance ledger: a clinician's claim on
// a shift, the manager's decision on it, and the projections both sides read.
//
// Creating an acceptance writes the acceptance row, one manager history row,
// one clinician history row and the outbox event in a single transaction, so
// the ledger and its projections can never diverge.
package acceptance

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/plantaohub/oncall-api/internal/email"
	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/internal/service/audit"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
	"github.com/plantaohub/oncall-api/pkg/logger"
)

type Service struct {
	repo       repository.AcceptanceRepository
	shifts     repository.ShiftRepository
	clinicians repository.ClinicianRepository
	outbox     repository.OutboxRepository
	audit      audit.Recorder
	notifier   email.Notifier
	logger     *logger.Logger
}

func NewService(repo repository.AcceptanceRepository, shiftRepo repository.ShiftRepository,
	clinicianRepo repository.ClinicianRepository, outboxRepo repository.OutboxRepository,
	recorder audit.Recorder, notifier email.Notifier, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		shifts:     shiftRepo,
		clinicians: clinicianRepo,
		outbox:     outboxRepo,
		audit:      recorder,
		notifier:   notifier,
		logger:     log,
	}
}

// Create records a clinician's claim on a shift. The shift's day and times
// are copied onto the acceptance so later shift edits do not rewrite it.
func (s *Service) Create(ctx context.Context, actor *model.Actor, req *model.CreateAcceptanceRequest) (*model.Acceptance, error) {
	if !actor.IsClinician() {
		return nil, apperrors.Forbidden("only clinicians may accept shifts")
	}

	clinician, err := s.clinicians.Get(ctx, actor.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("clinician", err)
		}
		return nil, apperrors.Internal(err)
	}
	if !clinician.Active {
		return nil, apperrors.Forbidden("clinician account is deactivated")
	}

	shift, err := s.shifts.Get(ctx, req.ShiftID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("shift", err)
		}
		return nil, apperrors.Internal(err)
	}

	acceptance := &model.Acceptance{
		ShiftID:     shift.ID,
		ClinicianID: clinician.ID,
		License:     clinician.License,
		Day:         shift.Day,
		StartTime:   shift.StartTime,
		EndTime:     shift.EndTime,
		Status:      model.AcceptanceStatusPending,
	}

	managerRow := &model.ManagerHistory{
		ShiftID:   shift.ID,
		License:   clinician.License,
		Day:       shift.Day,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
		Status:    model.ShiftStatusAvailable,
	}
	clinicianRow := &model.ClinicianHistory{
		HospitalID: shift.HospitalID,
		ShiftID:    shift.ID,
		License:    clinician.License,
		Day:        shift.Day,
		StartTime:  shift.StartTime,
		EndTime:    shift.EndTime,
		Status:     model.ClinicianHistoryAccepted,
	}

	payload, err := json.Marshal(map[string]interface{}{
		"shift_id":     shift.ID,
		"hospital_id":  shift.HospitalID,
		"clinician_id": clinician.ID,
		"license":      clinician.License,
		"day":          shift.Day,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	event := &model.OutboxEvent{
		EventType: model.EventAcceptanceCreated,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}

	if err := s.repo.CreateWithProjections(ctx, acceptance, managerRow, clinicianRow, event); err != nil {
		if err == repository.ErrActiveAcceptance {
			return nil, apperrors.Conflict("shift already has an active acceptance", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityAcceptance,
		EntityID: strconv.FormatInt(acceptance.ID, 10),
		Action:   model.AuditActionCreate,
		After:    acceptance,
	})
	return acceptance, nil
}

func (s *Service) Get(ctx context.Context, actor *model.Actor, id int64) (*model.Acceptance, error) {
	acceptance, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("acceptance", err)
		}
		return nil, apperrors.Internal(err)
	}
	if actor.IsClinician() && acceptance.ClinicianID != actor.ID {
		return nil, apperrors.Forbidden("clinicians may only read their own acceptances")
	}
	return acceptance, nil
}

// List returns acceptances matching the filters. Clinicians are pinned to
// their own records regardless of the filter they send.
func (s *Service) List(ctx context.Context, actor *model.Actor, filters *model.AcceptanceFilters) ([]*model.Acceptance, error) {
	if filters == nil {
		filters = &model.AcceptanceFilters{}
	}
	if actor.IsClinician() {
		own := actor.ID
		filters.ClinicianID = &own
	}

	acceptances, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return acceptances, nil
}

// Update records the manager's decision. Only status and rejection reason are
// mutable; the snapshot fields are frozen at creation.
func (s *Service) Update(ctx context.Context, actor *model.Actor, id int64, req *model.UpdateAcceptanceRequest) (*model.Acceptance, error) {
	if !actor.IsManager() {
		return nil, apperrors.Forbidden("only managers may decide acceptances")
	}

	acceptance, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("acceptance", err)
		}
		return nil, apperrors.Internal(err)
	}
	before := *acceptance

	if req.Status != nil {
		if !model.ValidAcceptanceStatus(*req.Status) {
			return nil, apperrors.Validation("invalid acceptance status", nil)
		}
		acceptance.Status = *req.Status
	}
	if req.RejectionReason != nil {
		acceptance.RejectionReason = req.RejectionReason
	}

	if err := s.repo.Update(ctx, acceptance); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("acceptance", err)
		}
		return nil, apperrors.Internal(err)
	}

	decided := acceptance.Status != before.Status && acceptance.Status.Terminal()
	if decided {
		s.publishDecision(ctx, acceptance)
		s.notifyClinician(ctx, acceptance)
	}

	action := model.AuditActionUpdate
	if acceptance.Status == model.AcceptanceStatusCancelled && before.Status != model.AcceptanceStatusCancelled {
		action = model.AuditActionCancel
	}
	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityAcceptance,
		EntityID: strconv.FormatInt(acceptance.ID, 10),
		Action:   action,
		Before:   &before,
		After:    acceptance,
	})
	return acceptance, nil
}

func (s *Service) Delete(ctx context.Context, actor *model.Actor, id int64) error {
	if !actor.IsManager() {
		return apperrors.Forbidden("only managers may delete acceptances")
	}

	acceptance, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("acceptance", err)
		}
		return apperrors.Internal(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("acceptance", err)
		}
		return apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityAcceptance,
		EntityID: strconv.FormatInt(id, 10),
		Action:   model.AuditActionDelete,
		Before:   acceptance,
	})
	return nil
}

// publishDecision enqueues an ACCEPTANCE_DECIDED outbox event. The decision
// already committed; failures here are logged only.
func (s *Service) publishDecision(ctx context.Context, acceptance *model.Acceptance) {
	payload, err := json.Marshal(map[string]interface{}{
		"acceptance_id": acceptance.ID,
		"shift_id":      acceptance.ShiftID,
		"clinician_id":  acceptance.ClinicianID,
		"status":        acceptance.Status,
	})
	if err != nil {
		s.logger.Error(err, "failed to marshal decision event", "acceptance_id", acceptance.ID)
		return
	}

	event := &model.OutboxEvent{
		EventType: model.EventAcceptanceDecided,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue decision event", "acceptance_id", acceptance.ID)
	}
}

// notifyClinician emails the clinician about the decision. Best-effort: a
// failed lookup or send never fails the decision.
func (s *Service) notifyClinician(ctx context.Context, acceptance *model.Acceptance) {
	if s.notifier == nil {
		return
	}

	clinician, err := s.clinicians.Get(ctx, acceptance.ClinicianID)
	if err != nil {
		s.logger.Error(err, "failed to load clinician for decision email", "acceptance_id", acceptance.ID)
		return
	}

	copied := *acceptance
	go func() {
		if err := s.notifier.NotifyDecision(clinician.Email, clinician.Name, &copied); err != nil {
			s.logger.Error(err, "failed to send decision email",
				"acceptance_id", copied.ID, "clinician_id", clinician.ID)
		}
	}()
}
