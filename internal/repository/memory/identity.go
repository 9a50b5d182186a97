package memory

import (
	"context"
	"time"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
)

type hospitalRepository struct{ s *Store }

func NewHospitalRepository(s *Store) repository.HospitalRepository {
	return &hospitalRepository{s: s}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, h := range r.s.hospitals {
		if h.Email == hospital.Email || h.TaxID == hospital.TaxID {
			return repository.ErrDuplicate
		}
	}

	hospital.ID = r.s.nextID("hospital")
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = hospital.CreatedAt

	stored := *hospital
	r.s.hospitals[hospital.ID] = &stored
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id int64) (*model.Hospital, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, ok := r.s.hospitals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *h
	return &out, nil
}

func (r *hospitalRepository) GetByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, h := range r.s.hospitals {
		if h.Email == email {
			out := *h
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *hospitalRepository) GetByTaxID(ctx context.Context, taxID string) (*model.Hospital, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, h := range r.s.hospitals {
		if h.TaxID == taxID {
			out := *h
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*model.Hospital, 0, len(r.s.hospitals))
	for _, h := range r.s.hospitals {
		copied := *h
		out = append(out, &copied)
	}
	return out, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.hospitals[hospital.ID]; !ok {
		return repository.ErrNotFound
	}
	hospital.UpdatedAt = time.Now()
	stored := *hospital
	r.s.hospitals[hospital.ID] = &stored
	return nil
}

func (r *hospitalRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.hospitals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.hospitals, id)
	return nil
}

type userRepository struct{ s *Store }

func NewUserRepository(s *Store) repository.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}

	user.ID = r.s.nextID("user")
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.User
	for _, u := range r.s.users {
		if u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, u := range r.s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

type clinicianRepository struct{ s *Store }

func NewClinicianRepository(s *Store) repository.ClinicianRepository {
	return &clinicianRepository{s: s}
}

func (r *clinicianRepository) Create(ctx context.Context, clinician *model.Clinician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.clinicians {
		if c.License == clinician.License || c.Email == clinician.Email {
			return repository.ErrDuplicate
		}
	}

	clinician.ID = r.s.nextID("clinician")
	clinician.CreatedAt = time.Now()
	clinician.UpdatedAt = clinician.CreatedAt

	stored := *clinician
	r.s.clinicians[clinician.ID] = &stored
	return nil
}

func (r *clinicianRepository) Get(ctx context.Context, id int64) (*model.Clinician, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clinicians[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *clinicianRepository) GetByLicense(ctx context.Context, license string) (*model.Clinician, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.clinicians {
		if c.License == license {
			out := *c
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *clinicianRepository) GetByEmail(ctx context.Context, email string) (*model.Clinician, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.clinicians {
		if c.Email == email {
			out := *c
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *clinicianRepository) List(ctx context.Context) ([]*model.Clinician, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*model.Clinician, 0, len(r.s.clinicians))
	for _, c := range r.s.clinicians {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *clinicianRepository) Update(ctx context.Context, clinician *model.Clinician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clinicians[clinician.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, c := range r.s.clinicians {
		if c.ID != clinician.ID && (c.License == clinician.License || c.Email == clinician.Email) {
			return repository.ErrDuplicate
		}
	}
	clinician.UpdatedAt = time.Now()
	stored := *clinician
	r.s.clinicians[clinician.ID] = &stored
	return nil
}

func (r *clinicianRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clinicians[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.clinicians, id)
	return nil
}
