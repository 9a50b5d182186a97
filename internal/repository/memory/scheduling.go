package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

type shiftRepository struct{ s *Store }

func NewShiftRepository(s *Store) repository.ShiftRepository {
	return &shiftRepository{s: s}
}

func (r *shiftRepository) Create(ctx context.Context, shift *model.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	shift.ID = r.s.nextID("shift")
	shift.CreatedAt = time.Now()
	shift.UpdatedAt = shift.CreatedAt

	stored := *shift
	r.s.shifts[shift.ID] = &stored
	return nil
}

func (r *shiftRepository) Get(ctx context.Context, id int64) (*model.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sh, ok := r.s.shifts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *sh
	return &out, nil
}

func (r *shiftRepository) List(ctx context.Context, filters *model.ShiftFilters) ([]*model.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Shift
	for _, sh := range r.s.shifts {
		if filters != nil {
			if filters.HospitalID != nil && sh.HospitalID != *filters.HospitalID {
				continue
			}
			if filters.ManagerID != nil && sh.ManagerID != *filters.ManagerID {
				continue
			}
			if filters.Status != nil && sh.Status != *filters.Status {
				continue
			}
		}
		copied := *sh
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *shiftRepository) Update(ctx context.Context, shift *model.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.shifts[shift.ID]; !ok {
		return repository.ErrNotFound
	}
	shift.UpdatedAt = time.Now()
	stored := *shift
	r.s.shifts[shift.ID] = &stored
	return nil
}

func (r *shiftRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.shifts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.shifts, id)
	return nil
}

type acceptanceRepository struct{ s *Store }

func NewAcceptanceRepository(s *Store) repository.AcceptanceRepository {
	return &acceptanceRepository{s: s}
}

func (r *acceptanceRepository) CreateWithProjections(ctx context.Context,
	acceptance *model.Acceptance, managerRow *model.ManagerHistory,
	clinicianRow *model.ClinicianHistory, event *model.OutboxEvent) error {

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.acceptances {
		if a.ShiftID == acceptance.ShiftID &&
			(a.Status == model.AcceptanceStatusPending || a.Status == model.AcceptanceStatusApproved) {
			return repository.ErrActiveAcceptance
		}
	}

	now := time.Now()

	acceptance.ID = r.s.nextID("acceptance")
	acceptance.CreatedAt = now
	acceptance.UpdatedAt = now
	storedAcc := *acceptance
	r.s.acceptances[acceptance.ID] = &storedAcc

	managerRow.AcceptanceID = acceptance.ID
	managerRow.ID = r.s.nextID("manager_history")
	managerRow.CreatedAt = now
	managerRow.UpdatedAt = now
	storedMgr := *managerRow
	r.s.managerHistory[managerRow.ID] = &storedMgr

	clinicianRow.AcceptanceID = acceptance.ID
	clinicianRow.ID = r.s.nextID("clinician_history")
	clinicianRow.CreatedAt = now
	clinicianRow.UpdatedAt = now
	storedClin := *clinicianRow
	r.s.clinicianHistory[clinicianRow.ID] = &storedClin

	if event != nil {
		if event.ID == uuid.Nil {
			event.ID = uuid.New()
		}
		if event.Status == "" {
			event.Status = model.OutboxStatusPending
		}
		event.CreatedAt = now
		event.UpdatedAt = now
		storedEvt := *event
		r.s.outboxEvents[event.ID] = &storedEvt
	}
	return nil
}

func (r *acceptanceRepository) Get(ctx context.Context, id int64) (*model.Acceptance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.acceptances[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *acceptanceRepository) List(ctx context.Context, filters *model.AcceptanceFilters) ([]*model.Acceptance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Acceptance
	for _, a := range r.s.acceptances {
		if filters != nil {
			if filters.ClinicianID != nil && a.ClinicianID != *filters.ClinicianID {
				continue
			}
			if filters.ShiftID != nil && a.ShiftID != *filters.ShiftID {
				continue
			}
			if filters.Status != nil && a.Status != *filters.Status {
				continue
			}
		}
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *acceptanceRepository) Update(ctx context.Context, acceptance *model.Acceptance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.acceptances[acceptance.ID]; !ok {
		return repository.ErrNotFound
	}
	acceptance.UpdatedAt = time.Now()
	stored := *acceptance
	r.s.acceptances[acceptance.ID] = &stored
	return nil
}

func (r *acceptanceRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.acceptances[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.acceptances, id)
	return nil
}

func (r *acceptanceRepository) HasActive(ctx context.Context, shiftID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.acceptances {
		if a.ShiftID == shiftID &&
			(a.Status == model.AcceptanceStatusPending || a.Status == model.AcceptanceStatusApproved) {
			return true, nil
		}
	}
	return false, nil
}
