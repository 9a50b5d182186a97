// Package clinician manages the clinician directory. Registration is open:
// clinicians sign themselves up, so Create does not require an actor.
package clinician

import (
	"context"
	"strconv"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/internal/service/audit"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/security"
)

type Service struct {
	repo   repository.ClinicianRepository
	hasher security.PasswordHasher
	audit  audit.Recorder
	logger *logger.Logger
}

func NewService(repo repository.ClinicianRepository, hasher security.PasswordHasher,
	recorder audit.Recorder, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		audit:  recorder,
		logger: log,
	}
}

// Create registers a clinician. Actor is nil for self-registration.
func (s *Service) Create(ctx context.Context, actor *model.Actor, req *model.CreateClinicianRequest) (*model.Clinician, error) {
	if existing, err := s.repo.GetByLicense(ctx, req.License); err == nil && existing != nil {
		return nil, apperrors.Conflict("license already registered", nil)
	} else if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.Internal(err)
	}
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	} else if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.Internal(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	clinician := &model.Clinician{
		License:      req.License,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Specialty:    req.Specialty,
		Active:       true,
	}

	if err := s.repo.Create(ctx, clinician); err != nil {
		if err == repository.ErrDuplicate {
			return nil, apperrors.Conflict("clinician already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityClinician,
		EntityID: strconv.FormatInt(clinician.ID, 10),
		Action:   model.AuditActionCreate,
		After:    clinician,
	})
	return clinician, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Clinician, error) {
	clinician, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("clinician", err)
		}
		return nil, apperrors.Internal(err)
	}
	return clinician, nil
}

func (s *Service) GetByLicense(ctx context.Context, license string) (*model.Clinician, error) {
	clinician, err := s.repo.GetByLicense(ctx, license)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("clinician", err)
		}
		return nil, apperrors.Internal(err)
	}
	return clinician, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Clinician, error) {
	clinicians, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return clinicians, nil
}

// Update modifies a clinician. Clinicians may edit their own record; system
// admins may edit anyone's.
func (s *Service) Update(ctx context.Context, actor *model.Actor, id int64, req *model.UpdateClinicianRequest) (*model.Clinician, error) {
	if !actor.IsSystemAdmin() && !(actor.IsClinician() && actor.ID == id) {
		return nil, apperrors.Forbidden("clinicians may only update their own record")
	}

	clinician, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("clinician", err)
		}
		return nil, apperrors.Internal(err)
	}
	before := *clinician

	if req.License != nil && *req.License != clinician.License {
		if existing, err := s.repo.GetByLicense(ctx, *req.License); err == nil && existing != nil && existing.ID != id {
			return nil, apperrors.Conflict("license already registered", nil)
		} else if err != nil && err != repository.ErrNotFound {
			return nil, apperrors.Internal(err)
		}
		clinician.License = *req.License
	}
	if req.Email != nil && *req.Email != clinician.Email {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err == nil && existing != nil && existing.ID != id {
			return nil, apperrors.Conflict("email already registered", nil)
		} else if err != nil && err != repository.ErrNotFound {
			return nil, apperrors.Internal(err)
		}
		clinician.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Validation("invalid password", err)
		}
		clinician.PasswordHash = hash
	}
	if req.Name != nil {
		clinician.Name = *req.Name
	}
	if req.Specialty != nil {
		clinician.Specialty = *req.Specialty
	}
	if req.Active != nil {
		if !actor.IsSystemAdmin() {
			return nil, apperrors.Forbidden("only system admins may change activation state")
		}
		clinician.Active = *req.Active
	}

	if err := s.repo.Update(ctx, clinician); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("clinician", err)
		}
		if err == repository.ErrDuplicate {
			return nil, apperrors.Conflict("clinician already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityClinician,
		EntityID: strconv.FormatInt(clinician.ID, 10),
		Action:   model.AuditActionUpdate,
		Before:   &before,
		After:    clinician,
	})
	return clinician, nil
}

func (s *Service) Delete(ctx context.Context, actor *model.Actor, id int64) error {
	if !actor.IsSystemAdmin() {
		return apperrors.Forbidden("only system admins may delete clinicians")
	}

	clinician, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("clinician", err)
		}
		return apperrors.Internal(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("clinician", err)
		}
		return apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityClinician,
		EntityID: strconv.FormatInt(id, 10),
		Action:   model.AuditActionDelete,
		Before:   clinician,
	})
	return nil
}
