package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/internal/repository/memory"
	auditsvc "github.com/plantaohub/oncall-api/internal/service/audit"
	"github.com/plantaohub/oncall-api/pkg/auth"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/metrics"
	"github.com/plantaohub/oncall-api/pkg/security"
)

type fixture struct {
	service    *Service
	users      repository.UserRepository
	clinicians repository.ClinicianRepository
	hasher     security.PasswordHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	recorder := auditsvc.NewService(memory.NewAuditRepository(store), log, metrics.NewForTesting(), 64)
	t.Cleanup(recorder.Close)

	f := &fixture{
		users:      memory.NewUserRepository(store),
		clinicians: memory.NewClinicianRepository(store),
		hasher:     security.NewBcryptHasher(4),
	}
	tokens := auth.NewJWTManager("test-secret", time.Hour, "oncall-test")
	f.service = NewService(f.users, f.clinicians, f.hasher, tokens, recorder, log, time.Hour)
	return f
}

func (f *fixture) seedManager(t *testing.T, email, password string, active bool) *model.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	hospitalID := int64(1)
	user := &model.User{
		HospitalID:   &hospitalID,
		Name:         "Manager",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleManager,
		Active:       active,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) seedClinician(t *testing.T, email, password string) *model.Clinician {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	clinician := &model.Clinician{
		License: "CRM-1", Name: "Doc", Email: email,
		PasswordHash: hash, Specialty: "general", Active: true,
	}
	require.NoError(t, f.clinicians.Create(context.Background(), clinician))
	return clinician
}

func TestLoginUser(t *testing.T) {
	f := newFixture(t)
	user := f.seedManager(t, "gestor@example.com", "s3cretpass", true)

	resp, err := f.service.LoginUser(context.Background(),
		&model.LoginRequest{Email: "gestor@example.com", Password: "s3cretpass"}, "10.0.0.9")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.Actor.ID)
	assert.Equal(t, model.RoleManager, resp.Actor.Role)
	assert.Equal(t, "10.0.0.9", resp.Actor.SourceIP)
}

func TestLoginUserBadPassword(t *testing.T) {
	f := newFixture(t)
	f.seedManager(t, "gestor@example.com", "s3cretpass", true)

	_, err := f.service.LoginUser(context.Background(),
		&model.LoginRequest{Email: "gestor@example.com", Password: "wrongpass1"}, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginUserUnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.LoginUser(context.Background(),
		&model.LoginRequest{Email: "ghost@example.com", Password: "whatever1"}, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginUserDeactivated(t *testing.T) {
	f := newFixture(t)
	f.seedManager(t, "gestor@example.com", "s3cretpass", false)

	_, err := f.service.LoginUser(context.Background(),
		&model.LoginRequest{Email: "gestor@example.com", Password: "s3cretpass"}, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginClinician(t *testing.T) {
	f := newFixture(t)
	clinician := f.seedClinician(t, "doc@example.com", "s3cretpass")

	resp, err := f.service.LoginClinician(context.Background(),
		&model.LoginRequest{Email: "doc@example.com", Password: "s3cretpass"}, "")
	require.NoError(t, err)
	assert.Equal(t, clinician.ID, resp.Actor.ID)
	assert.Equal(t, model.RoleClinician, resp.Actor.Role)
}

func TestVerifyRoundtrip(t *testing.T) {
	f := newFixture(t)
	user := f.seedManager(t, "gestor@example.com", "s3cretpass", true)

	resp, err := f.service.LoginUser(context.Background(),
		&model.LoginRequest{Email: "gestor@example.com", Password: "s3cretpass"}, "")
	require.NoError(t, err)

	actor, err := f.service.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, model.RoleManager, actor.Role)
}

func TestVerifyReturnsIndependentActor(t *testing.T) {
	f := newFixture(t)
	f.seedManager(t, "gestor@example.com", "s3cretpass", true)

	resp, err := f.service.LoginUser(context.Background(),
		&model.LoginRequest{Email: "gestor@example.com", Password: "s3cretpass"}, "")
	require.NoError(t, err)

	first, err := f.service.Verify(resp.Token)
	require.NoError(t, err)
	first.SourceIP = "9.9.9.9"

	// the middleware stamps the source IP per request; a later request with
	// the same token must not see it
	second, err := f.service.Verify(resp.Token)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Empty(t, second.SourceIP)
}

func TestVerifyGarbageToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Verify("not-a-jwt")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	f.seedManager(t, "gestor@example.com", "s3cretpass", true)

	resp, err := f.service.LoginUser(context.Background(),
		&model.LoginRequest{Email: "gestor@example.com", Password: "s3cretpass"}, "")
	require.NoError(t, err)

	f.service.Logout(context.Background(), &resp.Actor, resp.Token)

	_, err = f.service.Verify(resp.Token)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}
