package memory

import (
	"context"
	"sort"
	"time"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

type managerHistoryRepository struct{ s *Store }

func NewManagerHistoryRepository(s *Store) repository.ManagerHistoryRepository {
	return &managerHistoryRepository{s: s}
}

func (r *managerHistoryRepository) Create(ctx context.Context, row *model.ManagerHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row.ID = r.s.nextID("manager_history")
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt

	stored := *row
	r.s.managerHistory[row.ID] = &stored
	return nil
}

func (r *managerHistoryRepository) Get(ctx context.Context, id int64) (*model.ManagerHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.managerHistory[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *row
	return &out, nil
}

func (r *managerHistoryRepository) List(ctx context.Context, filters *model.HistoryFilters) ([]*model.ManagerHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.ManagerHistory
	for _, row := range r.s.managerHistory {
		if !matchHistory(filters, row.License, row.ShiftID, row.AcceptanceID) {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *managerHistoryRepository) Update(ctx context.Context, row *model.ManagerHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.managerHistory[row.ID]; !ok {
		return repository.ErrNotFound
	}
	row.UpdatedAt = time.Now()
	stored := *row
	r.s.managerHistory[row.ID] = &stored
	return nil
}

type clinicianHistoryRepository struct{ s *Store }

func NewClinicianHistoryRepository(s *Store) repository.ClinicianHistoryRepository {
	return &clinicianHistoryRepository{s: s}
}

func (r *clinicianHistoryRepository) Create(ctx context.Context, row *model.ClinicianHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row.ID = r.s.nextID("clinician_history")
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt

	stored := *row
	r.s.clinicianHistory[row.ID] = &stored
	return nil
}

func (r *clinicianHistoryRepository) Get(ctx context.Context, id int64) (*model.ClinicianHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.clinicianHistory[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *row
	return &out, nil
}

func (r *clinicianHistoryRepository) List(ctx context.Context, filters *model.HistoryFilters) ([]*model.ClinicianHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.ClinicianHistory
	for _, row := range r.s.clinicianHistory {
		if !matchHistory(filters, row.License, row.ShiftID, row.AcceptanceID) {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *clinicianHistoryRepository) ListByLicense(ctx context.Context, license string) ([]*model.ClinicianHistory, error) {
	return r.List(ctx, &model.HistoryFilters{License: &license})
}

func (r *clinicianHistoryRepository) Update(ctx context.Context, row *model.ClinicianHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clinicianHistory[row.ID]; !ok {
		return repository.ErrNotFound
	}
	row.UpdatedAt = time.Now()
	stored := *row
	r.s.clinicianHistory[row.ID] = &stored
	return nil
}

func matchHistory(filters *model.HistoryFilters, license string, shiftID, acceptanceID int64) bool {
	if filters == nil {
		return true
	}
	if filters.License != nil && license != *filters.License {
		return false
	}
	if filters.ShiftID != nil && shiftID != *filters.ShiftID {
		return false
	}
	if filters.AcceptanceID != nil && acceptanceID != *filters.AcceptanceID {
		return false
	}
	return true
}
