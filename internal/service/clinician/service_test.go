package clinician

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository/memory"
	auditsvc "github.com/plantaohub/oncall-api/internal/service/audit"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/metrics"
	"github.com/plantaohub/oncall-api/pkg/security"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	recorder := auditsvc.NewService(memory.NewAuditRepository(store), log, metrics.NewForTesting(), 64)
	t.Cleanup(recorder.Close)
	return NewService(memory.NewClinicianRepository(store), security.NewBcryptHasher(4), recorder, log)
}

func createRequest() *model.CreateClinicianRequest {
	return &model.CreateClinicianRequest{
		License:   "CRM-10001",
		Name:      "Dr. Souza",
		Email:     "souza@example.com",
		Password:  "s3cretpass",
		Specialty: "orthopedics",
	}
}

func TestSelfRegistration(t *testing.T) {
	svc := newService(t)

	// nil actor: open registration
	created, err := svc.Create(context.Background(), nil, createRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.Active)
	assert.NotEqual(t, "s3cretpass", created.PasswordHash)
}

func TestDuplicateLicenseConflicts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, createRequest())
	require.NoError(t, err)

	dup := createRequest()
	dup.Email = "other@example.com"
	_, err = svc.Create(ctx, nil, dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestDuplicateEmailConflicts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, createRequest())
	require.NoError(t, err)

	dup := createRequest()
	dup.License = "CRM-10002"
	_, err = svc.Create(ctx, nil, dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestUpdateOwnRecordOnly(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, createRequest())
	require.NoError(t, err)

	name := "Dr. Souza Filho"
	self := &model.Actor{ID: created.ID, Role: model.RoleClinician}
	updated, err := svc.Update(ctx, self, created.ID, &model.UpdateClinicianRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	other := &model.Actor{ID: created.ID + 1, Role: model.RoleClinician}
	_, err = svc.Update(ctx, other, created.ID, &model.UpdateClinicianRequest{Name: &name})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestDeactivationRequiresAdmin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, createRequest())
	require.NoError(t, err)

	inactive := false
	self := &model.Actor{ID: created.ID, Role: model.RoleClinician}
	_, err = svc.Update(ctx, self, created.ID, &model.UpdateClinicianRequest{Active: &inactive})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	admin := &model.Actor{ID: 99, Role: model.RoleSystemAdmin}
	updated, err := svc.Update(ctx, admin, created.ID, &model.UpdateClinicianRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestGetByLicense(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, createRequest())
	require.NoError(t, err)

	found, err := svc.GetByLicense(ctx, created.License)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByLicense(ctx, "CRM-NOPE")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
