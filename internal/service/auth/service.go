// Package auth authenticates users and clinicians and manages their sessions.
// Verified tokens are cached so the auth middleware does not re-parse on
// every request; logout revokes by evicting from the cache and remembering
// the token until it would have expired anyway.
package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/internal/service/audit"
	"github.com/plantaohub/oncall-api/pkg/auth"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/security"
)

var errBadCredentials = errors.New("invalid email or password")

type Service struct {
	users      repository.UserRepository
	clinicians repository.ClinicianRepository
	hasher     security.PasswordHasher
	tokens     *auth.JWTManager
	audit      audit.Recorder
	logger     *logger.Logger

	// sessions maps token -> *model.Actor; revoked maps token -> struct{}.
	sessions *gocache.Cache
	revoked  *gocache.Cache
}

func NewService(users repository.UserRepository, clinicians repository.ClinicianRepository,
	hasher security.PasswordHasher, tokens *auth.JWTManager,
	recorder audit.Recorder, log *logger.Logger, tokenTTL time.Duration) *Service {
	return &Service{
		users:      users,
		clinicians: clinicians,
		hasher:     hasher,
		tokens:     tokens,
		audit:      recorder,
		logger:     log,
		sessions:   gocache.New(tokenTTL, 10*time.Minute),
		revoked:    gocache.New(tokenTTL, 10*time.Minute),
	}
}

// LoginUser authenticates a manager or system admin account.
func (s *Service) LoginUser(ctx context.Context, req *model.LoginRequest, sourceIP string) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.Unauthorized(errBadCredentials)
		}
		return nil, apperrors.Internal(err)
	}
	if !user.Active {
		return nil, apperrors.Unauthorized(errBadCredentials)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(errBadCredentials)
	}

	actor := &model.Actor{
		ID:         user.ID,
		Role:       user.Role,
		HospitalID: user.HospitalID,
		SourceIP:   sourceIP,
	}
	return s.openSession(ctx, actor, model.AuditEntityUser)
}

// LoginClinician authenticates a clinician account.
func (s *Service) LoginClinician(ctx context.Context, req *model.LoginRequest, sourceIP string) (*model.LoginResponse, error) {
	clinician, err := s.clinicians.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.Unauthorized(errBadCredentials)
		}
		return nil, apperrors.Internal(err)
	}
	if !clinician.Active {
		return nil, apperrors.Unauthorized(errBadCredentials)
	}
	if err := s.hasher.Compare(clinician.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(errBadCredentials)
	}

	actor := &model.Actor{
		ID:       clinician.ID,
		Role:     model.RoleClinician,
		SourceIP: sourceIP,
	}
	return s.openSession(ctx, actor, model.AuditEntityClinician)
}

func (s *Service) openSession(ctx context.Context, actor *model.Actor, entity string) (*model.LoginResponse, error) {
	token, err := s.tokens.Generate(actor)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.sessions.SetDefault(token, actor)

	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   entity,
		EntityID: strconv.FormatInt(actor.ID, 10),
		Action:   model.AuditActionLogin,
	})
	return &model.LoginResponse{Token: token, Actor: *actor}, nil
}

// Verify resolves a bearer token to an actor. Checks the revocation list,
// then the session cache, then falls back to full JWT verification. Callers
// receive their own copy: the middleware stamps the request's source IP onto
// the actor, and the cached struct is shared between requests.
func (s *Service) Verify(token string) (*model.Actor, error) {
	if _, gone := s.revoked.Get(token); gone {
		return nil, apperrors.Unauthorized(auth.ErrInvalidToken)
	}

	if cached, ok := s.sessions.Get(token); ok {
		if actor, ok := cached.(*model.Actor); ok {
			out := *actor
			return &out, nil
		}
	}

	actor, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	s.sessions.SetDefault(token, actor)
	out := *actor
	return &out, nil
}

// Logout revokes the session token.
func (s *Service) Logout(ctx context.Context, actor *model.Actor, token string) {
	s.sessions.Delete(token)
	s.revoked.SetDefault(token, struct{}{})

	entity := model.AuditEntityUser
	if actor.IsClinician() {
		entity = model.AuditEntityClinician
	}
	s.audit.Record(ctx, audit.Entry{
		Actor:    actor,
		Entity:   entity,
		EntityID: strconv.FormatInt(actor.ID, 10),
		Action:   model.AuditActionLogout,
	})
}
