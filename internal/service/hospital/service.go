// Package hospital manages the hospital directory. Hospitals are the anchor
// entity: users belong to them and shifts are posted on their behalf.
package hospital

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
	repo   repository.HospitalRepository
	audit  audit.Recorder
	logger *logger.Logger
}

func NewService(repo repository.HospitalRepository, recorder audit.Recorder, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  recorder,
		logger: log,
	}
}

func (s *Service) Create(ctx context.Context, actor *model.Actor, req *model.CreateHospitalRequest) (*model.Hospital, error) {
	if !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("only system admins may register hospitals")
	}

	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.Conflict("hospital email already registered", nil)
	} else if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.Internal(err)
	}
	if existing, err := s.repo.GetByTaxID(ctx, req.TaxID); err == nil && existing != nil {
		return nil, apperrors.Conflict("hospital tax id already registered", nil)
	} else if err != nil && err != repository.ErrNotFound {
		return nil, apperrors.Internal(err)
	}

	hospital := &model.Hospital{
		Name:      req.Name,
		TaxID:     req.TaxID,
		Address:   req.Address,
		Email:     req.Email,
		Subdomain: req.Subdomain,
	}

	if err := s.repo.Create(ctx, hospital); err != nil {
		if err == repository.ErrDuplicate {
			return nil, apperrors.Conflict("hospital already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityHospital,
		EntityID: strconv.FormatInt(hospital.ID, 10),
		Action:   model.AuditActionCreate,
		After:    hospital,
	})
	return hospital, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Hospital, error) {
	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("hospital", err)
		}
		return nil, apperrors.Internal(err)
	}
	return hospital, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Hospital, error) {
	hospitals, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return hospitals, nil
}

func (s *Service) Update(ctx context.Context, actor *model.Actor, id int64, req *model.UpdateHospitalRequest) (*model.Hospital, error) {
	if !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("only system admins may update hospitals")
	}

	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("hospital", err)
		}
		return nil, apperrors.Internal(err)
	}
	before := *hospital

	if req.Email != nil && *req.Email != hospital.Email {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err == nil && existing != nil && existing.ID != id {
			return nil, apperrors.Conflict("hospital email already registered", nil)
		} else if err != nil && err != repository.ErrNotFound {
			return nil, apperrors.Internal(err)
		}
		hospital.Email = *req.Email
	}
	if req.TaxID != nil && *req.TaxID != hospital.TaxID {
		if existing, err := s.repo.GetByTaxID(ctx, *req.TaxID); err == nil && existing != nil && existing.ID != id {
			return nil, apperrors.Conflict("hospital tax id already registered", nil)
		} else if err != nil && err != repository.ErrNotFound {
			return nil, apperrors.Internal(err)
		}
		hospital.TaxID = *req.TaxID
	}
	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.Address != nil {
		hospital.Address = *req.Address
	}
	if req.Subdomain != nil {
		hospital.Subdomain = req.Subdomain
	}

	if err := s.repo.Update(ctx, hospital); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("hospital", err)
		}
		if err == repository.ErrDuplicate {
			return nil, apperrors.Conflict("hospital already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityHospital,
		EntityID: strconv.FormatInt(hospital.ID, 10),
		Action:   model.AuditActionUpdate,
		Before:   &before,
		After:    hospital,
	})
	return hospital, nil
}

func (s *Service) Delete(ctx context.Context, actor *model.Actor, id int64) error {
	if !actor.IsSystemAdmin() {
		return apperrors.Forbidden("only system admins may delete hospitals")
	}

	hospital, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("hospital", err)
		}
		return apperrors.Internal(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("hospital", err)
		}
		return apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityHospital,
		EntityID: strconv.FormatInt(id, 10),
		Action:   model.AuditActionDelete,
		Before:   hospital,
	})
	return nil
}
