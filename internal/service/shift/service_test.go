package shift

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
)

type fixture struct {
	service     *Service
	hospitals   repository.HospitalRepository
	acceptances repository.AcceptanceRepository
	outbox      repository.OutboxRepository
	hospital    *model.Hospital
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	recorder := auditsvc.NewService(memory.NewAuditRepository(store), log, metrics.NewForTesting(), 64)
	t.Cleanup(recorder.Close)

	f := &fixture{
		hospitals:   memory.NewHospitalRepository(store),
		acceptances: memory.NewAcceptanceRepository(store),
		outbox:      memory.NewOutboxRepository(store),
	}
	f.service = NewService(memory.NewShiftRepository(store), f.hospitals, f.acceptances, f.outbox, recorder, log)

	f.hospital = &model.Hospital{
		Name: "Santa Casa", TaxID: "12.345.678/0001-90",
		Address: "Rua A, 100", Email: "contato@santacasa.example",
	}
	require.NoError(t, f.hospitals.Create(context.Background(), f.hospital))
	return f
}

func managerActor() *model.Actor {
	hospitalID := int64(1)
	return &model.Actor{ID: 5, Role: model.RoleManager, HospitalID: &hospitalID}
}

func validCreateRequest(hospitalID int64) *model.CreateShiftRequest {
	value := 950.0
	return &model.CreateShiftRequest{
		HospitalID:   hospitalID,
		Title:        "Day shift",
		Day:          "10/10/2026",
		StartTime:    "07:00",
		EndTime:      "19:00",
		RequiredRole: "clinician",
		Type:         "daytime",
		Value:        &value,
	}
}

func TestCreateShift(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Create(context.Background(), managerActor(), validCreateRequest(f.hospital.ID))
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(5), created.ManagerID)
	assert.Equal(t, model.ShiftStatusAvailable, created.Status)
	assert.Equal(t, 950.0, created.Value)
}

func TestCreateShiftValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.CreateShiftRequest)
	}{
		{"bad day format", func(r *model.CreateShiftRequest) { r.Day = "2026-10-10" }},
		{"bad time format", func(r *model.CreateShiftRequest) { r.StartTime = "7am" }},
		{"start after end", func(r *model.CreateShiftRequest) { r.StartTime = "20:00"; r.EndTime = "08:00" }},
		{"start equals end", func(r *model.CreateShiftRequest) { r.StartTime = "08:00"; r.EndTime = "08:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest(f.hospital.ID)
			tt.mutate(req)
			_, err := f.service.Create(ctx, managerActor(), req)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
		})
	}
}

func TestCreateShiftRequiresManager(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(),
		&model.Actor{ID: 2, Role: model.RoleClinician}, validCreateRequest(f.hospital.ID))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestCreateShiftUnknownHospital(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), managerActor(), validCreateRequest(999))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestUpdateShiftStatusEmitsEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, managerActor(), validCreateRequest(f.hospital.ID))
	require.NoError(t, err)

	status := model.ShiftStatusConfirmed
	updated, err := f.service.Update(ctx, managerActor(), created.ID, &model.UpdateShiftRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.ShiftStatusConfirmed, updated.Status)

	pending, err := f.outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.EventShiftStatusChanged, pending[0].EventType)
}

func TestUpdateShiftWithoutStatusChangeEmitsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, managerActor(), validCreateRequest(f.hospital.ID))
	require.NoError(t, err)

	title := "Renamed shift"
	_, err = f.service.Update(ctx, managerActor(), created.ID, &model.UpdateShiftRequest{Title: &title})
	require.NoError(t, err)

	pending, err := f.outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUpdateShiftInvalidStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, managerActor(), validCreateRequest(f.hospital.ID))
	require.NoError(t, err)

	status := model.ShiftStatus("OPEN")
	_, err = f.service.Update(ctx, managerActor(), created.ID, &model.UpdateShiftRequest{Status: &status})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestDeleteShiftBlockedByActiveAcceptance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, managerActor(), validCreateRequest(f.hospital.ID))
	require.NoError(t, err)

	acceptance := &model.Acceptance{
		ShiftID: created.ID, ClinicianID: 1, License: "CRM-1",
		Day: created.Day, StartTime: created.StartTime, EndTime: created.EndTime,
		Status: model.AcceptanceStatusPending,
	}
	require.NoError(t, f.acceptances.CreateWithProjections(ctx, acceptance,
		&model.ManagerHistory{ShiftID: created.ID, License: "CRM-1", Status: model.ShiftStatusAvailable},
		&model.ClinicianHistory{HospitalID: f.hospital.ID, ShiftID: created.ID, License: "CRM-1", Status: model.ClinicianHistoryAccepted},
		nil))

	err = f.service.Delete(ctx, managerActor(), created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))

	// deciding the acceptance unblocks deletion
	acceptance.Status = model.AcceptanceStatusRejected
	require.NoError(t, f.acceptances.Update(ctx, acceptance))
	require.NoError(t, f.service.Delete(ctx, managerActor(), created.ID))
}

func TestShiftRoundtrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, managerActor(), validCreateRequest(f.hospital.ID))
	require.NoError(t, err)

	fetched, err := f.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Day, fetched.Day)
	assert.Equal(t, created.StartTime, fetched.StartTime)
	assert.Equal(t, created.EndTime, fetched.EndTime)
	assert.Equal(t, created.Value, fetched.Value)
}

func TestSequentialShiftIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		created, err := f.service.Create(ctx, managerActor(), validCreateRequest(f.hospital.ID))
		require.NoError(t, err)
		assert.Equal(t, last+1, created.ID)
		last = created.ID
	}
}
