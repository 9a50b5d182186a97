// Package user manages hospital-side accounts: shift managers and system
// admins. Clinician accounts live in their own directory.
package user

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
	repo     repository.UserRepository
	hospital repository.HospitalRepository
	hasher   security.PasswordHasher
	audit    audit.Recorder
	logger   *logger.Logger
}

func NewService(repo repository.UserRepository, hospitalRepo repository.HospitalRepository,
	hasher security.PasswordHasher, recorder audit.Recorder, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		hospital: hospitalRepo,
		hasher:   hasher,
		audit:    recorder,
		logger:   log,
	}
}

func (s *Service) Create(ctx context.Context, actor *model.Actor, req *model.CreateUserRequest) (*model.User, error) {
	if !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("only system admins may create users")
	}

	if req.Role == model.RoleManager {
		if req.HospitalID == nil {
			return nil, apperrors.Validation("managers must belong to a hospital", nil)
		}
		if _, err := s.hospital.Get(ctx, *req.HospitalID); err != nil {
			if err == repository.ErrNotFound {
				return nil, apperrors.NotFound("hospital", err)
			}
			return nil, apperrors.Internal(err)
		}
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

	user := &model.User{
		HospitalID:   req.HospitalID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        req.Phone,
		Active:       true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			return nil, apperrors.Conflict("email already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityUser,
		EntityID: strconv.FormatInt(user.ID, 10),
		Action:   model.AuditActionCreate,
		After:    user,
	})
	return user, nil
}

// EnsureAdmin creates the bootstrap system admin when no admin exists yet.
// Called once at startup; a no-op when an admin account is already present.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	admins, err := s.repo.GetByRole(ctx, model.RoleSystemAdmin)
	if err != nil && err != repository.ErrNotFound {
		return apperrors.Internal(err)
	}
	if len(admins) > 0 {
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.Validation("invalid bootstrap admin password", err)
	}

	admin := &model.User{
		Name:         "System Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleSystemAdmin,
		Active:       true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if err == repository.ErrDuplicate {
			return nil
		}
		return apperrors.Internal(err)
	}

	s.logger.Info("bootstrap admin created", "email", email)
	s.audit.Record(ctx, audit.Entry{
		Entity:   model.AuditEntityUser,
		EntityID: strconv.FormatInt(admin.ID, 10),
		Action:   model.AuditActionCreate,
		After:    admin,
	})
	return nil
}

func (s *Service) Get(ctx context.Context, actor *model.Actor, id int64) (*model.User, error) {
	if !actor.IsSystemAdmin() && actor.ID != id {
		return nil, apperrors.Forbidden("users may only read their own account")
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, actor *model.Actor) ([]*model.User, error) {
	if !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("only system admins may list users")
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func (s *Service) Update(ctx context.Context, actor *model.Actor, id int64, req *model.UpdateUserRequest) (*model.User, error) {
	if !actor.IsSystemAdmin() {
		return nil, apperrors.Forbidden("only system admins may update users")
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}
	before := *user

	if req.Email != nil && *req.Email != user.Email {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err == nil && existing != nil && existing.ID != id {
			return nil, apperrors.Conflict("email already registered", nil)
		} else if err != nil && err != repository.ErrNotFound {
			return nil, apperrors.Internal(err)
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Validation("invalid password", err)
		}
		user.PasswordHash = hash
	}
	if req.HospitalID != nil {
		if _, err := s.hospital.Get(ctx, *req.HospitalID); err != nil {
			if err == repository.ErrNotFound {
				return nil, apperrors.NotFound("hospital", err)
			}
			return nil, apperrors.Internal(err)
		}
		user.HospitalID = req.HospitalID
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user", err)
		}
		if err == repository.ErrDuplicate {
			return nil, apperrors.Conflict("email already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityUser,
		EntityID: strconv.FormatInt(user.ID, 10),
		Action:   model.AuditActionUpdate,
		Before:   &before,
		After:    user,
	})
	return user, nil
}

func (s *Service) Delete(ctx context.Context, actor *model.Actor, id int64) error {
	if !actor.IsSystemAdmin() {
		return apperrors.Forbidden("only system admins may delete users")
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Internal(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   model.AuditEntityUser,
		EntityID: strconv.FormatInt(id, 10),
		Action:   model.AuditActionDelete,
		Before:   user,
	})
	return nil
}
