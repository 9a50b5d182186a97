package user

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/internal/repository/memory"
	auditsvc "github.com/plantaohub/oncall-api/internal/service/audit"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/metrics"
	"github.com/plantaohub/oncall-api/pkg/security"
)

type fixture struct {
	service  *Service
	users    repository.UserRepository
	hospital *model.Hospital
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	recorder := auditsvc.NewService(memory.NewAuditRepository(store), log, metrics.NewForTesting(), 64)
	t.Cleanup(recorder.Close)

	hospitals := memory.NewHospitalRepository(store)
	f := &fixture{users: memory.NewUserRepository(store)}
	f.service = NewService(f.users, hospitals, security.NewBcryptHasher(4), recorder, log)

	f.hospital = &model.Hospital{
		Name: "Policlinica", TaxID: "11.222.333/0001-44",
		Address: "Rua B, 20", Email: "contato@policlinica.example",
	}
	require.NoError(t, hospitals.Create(context.Background(), f.hospital))
	return f
}

func adminActor() *model.Actor {
	return &model.Actor{ID: 99, Role: model.RoleSystemAdmin}
}

func (f *fixture) createRequest() *model.CreateUserRequest {
	return &model.CreateUserRequest{
		Name:       "Gestor",
		Email:      "gestor@example.com",
		Password:   "s3cretpass",
		Role:       model.RoleManager,
		HospitalID: &f.hospital.ID,
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Create(context.Background(), adminActor(), f.createRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "s3cretpass", created.PasswordHash)
	assert.True(t, created.Active)
}

func TestCreateManagerRequiresHospital(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest()
	req.HospitalID = nil
	_, err := f.service.Create(context.Background(), adminActor(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestCreateAdminWithoutHospital(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest()
	req.Role = model.RoleSystemAdmin
	req.HospitalID = nil
	created, err := f.service.Create(context.Background(), adminActor(), req)
	require.NoError(t, err)
	assert.Nil(t, created.HospitalID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, adminActor(), f.createRequest())
	require.NoError(t, err)

	_, err = f.service.Create(ctx, adminActor(), f.createRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	f := newFixture(t)

	manager := &model.Actor{ID: 1, Role: model.RoleManager, HospitalID: &f.hospital.ID}
	_, err := f.service.Create(context.Background(), manager, f.createRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestEnsureAdminIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.EnsureAdmin(ctx, "admin@example.com", "bootpass123"))
	require.NoError(t, f.service.EnsureAdmin(ctx, "admin@example.com", "bootpass123"))

	admins, err := f.users.GetByRole(ctx, model.RoleSystemAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestUpdateUserDeactivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, adminActor(), f.createRequest())
	require.NoError(t, err)

	inactive := false
	updated, err := f.service.Update(ctx, adminActor(), created.ID, &model.UpdateUserRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestGetUserSelfOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, adminActor(), f.createRequest())
	require.NoError(t, err)

	self := &model.Actor{ID: created.ID, Role: model.RoleManager, HospitalID: created.HospitalID}
	_, err = f.service.Get(ctx, self, created.ID)
	require.NoError(t, err)

	stranger := &model.Actor{ID: created.ID + 1, Role: model.RoleManager}
	_, err = f.service.Get(ctx, stranger, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}
