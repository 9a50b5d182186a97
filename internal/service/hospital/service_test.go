package hospital

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
)

func newService(t *testing.T) (*Service, *auditsvc.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	recorder := auditsvc.NewService(memory.NewAuditRepository(store), log, metrics.NewForTesting(), 64)
	return NewService(memory.NewHospitalRepository(store), recorder, log), recorder, store
}

func adminActor() *model.Actor {
	return &model.Actor{ID: 1, Role: model.RoleSystemAdmin}
}

func managerActor() *model.Actor {
	hospitalID := int64(1)
	return &model.Actor{ID: 2, Role: model.RoleManager, HospitalID: &hospitalID}
}

func createRequest() *model.CreateHospitalRequest {
	return &model.CreateHospitalRequest{
		Name:    "Hospital Central",
		TaxID:   "12.345.678/0001-90",
		Address: "Av. Principal, 1000",
		Email:   "contato@central.example",
	}
}

func TestCreateHospital(t *testing.T) {
	svc, recorder, _ := newService(t)
	defer recorder.Close()

	created, err := svc.Create(context.Background(), adminActor(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Hospital Central", created.Name)
}

func TestCreateHospitalRequiresAdmin(t *testing.T) {
	svc, recorder, _ := newService(t)
	defer recorder.Close()

	_, err := svc.Create(context.Background(), managerActor(), createRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestCreateHospitalDuplicateEmail(t *testing.T) {
	svc, recorder, _ := newService(t)
	defer recorder.Close()
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor(), createRequest())
	require.NoError(t, err)

	dup := createRequest()
	dup.TaxID = "98.765.432/0001-10"
	_, err = svc.Create(ctx, adminActor(), dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestCreateHospitalDuplicateTaxID(t *testing.T) {
	svc, recorder, _ := newService(t)
	defer recorder.Close()
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor(), createRequest())
	require.NoError(t, err)

	dup := createRequest()
	dup.Email = "outro@central.example"
	_, err = svc.Create(ctx, adminActor(), dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestUpdateHospital(t *testing.T) {
	svc, recorder, _ := newService(t)
	defer recorder.Close()
	ctx := context.Background()

	created, err := svc.Create(ctx, adminActor(), createRequest())
	require.NoError(t, err)

	name := "Hospital Central Renovado"
	updated, err := svc.Update(ctx, adminActor(), created.ID, &model.UpdateHospitalRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, created.Email, updated.Email)
}

func TestDeleteHospitalAuditsBeforeSnapshot(t *testing.T) {
	svc, recorder, store := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, adminActor(), createRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, adminActor(), created.ID))
	recorder.Close()

	events, err := memory.NewAuditRepository(store).List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.AuditActionDelete, events[1].Action)
	assert.Contains(t, string(events[1].Before), "Hospital Central")
}

func TestGetHospitalNotFound(t *testing.T) {
	svc, recorder, _ := newService(t)
	defer recorder.Close()

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
