package acceptance

import (
	"context"
	"io"
	"strconv"
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
	store    *memory.Store
	service  *Service
	recorder *auditsvc.Service

	shifts           repository.ShiftRepository
	clinicians       repository.ClinicianRepository
	managerHistory   repository.ManagerHistoryRepository
	clinicianHistory repository.ClinicianHistoryRepository
	outbox           repository.OutboxRepository

	clinician *model.Clinician
	shift     *model.Shift
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	recorder := auditsvc.NewService(memory.NewAuditRepository(store), log, metrics.NewForTesting(), 64)
	t.Cleanup(recorder.Close)

	f := &fixture{
		store:            store,
		recorder:         recorder,
		shifts:           memory.NewShiftRepository(store),
		clinicians:       memory.NewClinicianRepository(store),
		managerHistory:   memory.NewManagerHistoryRepository(store),
		clinicianHistory: memory.NewClinicianHistoryRepository(store),
		outbox:           memory.NewOutboxRepository(store),
	}
	acceptances := memory.NewAcceptanceRepository(store)
	f.service = NewService(acceptances, f.shifts, f.clinicians, f.outbox, recorder, nil, log)

	ctx := context.Background()

	f.clinician = &model.Clinician{
		License:      "CRM-12345",
		Name:         "Dr. Silva",
		Email:        "silva@example.com",
		PasswordHash: "hash",
		Specialty:    "cardiology",
		Active:       true,
	}
	require.NoError(t, f.clinicians.Create(ctx, f.clinician))

	f.shift = &model.Shift{
		HospitalID:   1,
		ManagerID:    1,
		Title:        "Night shift",
		Day:          "15/09/2026",
		StartTime:    "19:00",
		EndTime:      "07:00",
		RequiredRole: "cardiologist",
		Type:         "overnight",
		Value:        1200,
		Status:       model.ShiftStatusAvailable,
	}
	require.NoError(t, f.shifts.Create(ctx, f.shift))
	return f
}

func (f *fixture) clinicianActor() *model.Actor {
	return &model.Actor{ID: f.clinician.ID, Role: model.RoleClinician}
}

func managerActor() *model.Actor {
	hospitalID := int64(1)
	return &model.Actor{ID: 1, Role: model.RoleManager, HospitalID: &hospitalID}
}

func TestCreateWritesAcceptanceAndProjections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	// snapshot copied from the shift
	assert.Equal(t, f.shift.Day, created.Day)
	assert.Equal(t, f.shift.StartTime, created.StartTime)
	assert.Equal(t, f.shift.EndTime, created.EndTime)
	assert.Equal(t, f.clinician.License, created.License)
	assert.Equal(t, model.AcceptanceStatusPending, created.Status)

	managerRows, err := f.managerHistory.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, managerRows, 1)
	assert.Equal(t, created.ID, managerRows[0].AcceptanceID)
	assert.Equal(t, f.shift.ID, managerRows[0].ShiftID)

	clinicianRows, err := f.clinicianHistory.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, clinicianRows, 1)
	assert.Equal(t, created.ID, clinicianRows[0].AcceptanceID)
	assert.Equal(t, f.shift.HospitalID, clinicianRows[0].HospitalID)
	assert.Equal(t, model.ClinicianHistoryAccepted, clinicianRows[0].Status)

	pending, err := f.outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.EventAcceptanceCreated, pending[0].EventType)
}

func TestCreateAuditsCreateAction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.NoError(t, err)

	f.recorder.Close()
	events, err := memory.NewAuditRepository(f.store).List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.AuditEntityAcceptance, events[0].Entity)
	assert.Equal(t, strconv.FormatInt(created.ID, 10), events[0].EntityID)
	assert.Equal(t, model.AuditActionCreate, events[0].Action)
}

func TestCreateMissingShiftLeavesNoRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: 999})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	managerRows, err := f.managerHistory.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, managerRows)

	clinicianRows, err := f.clinicianHistory.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, clinicianRows)

	pending, err := f.outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCreateSecondActiveAcceptanceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.NoError(t, err)

	other := &model.Clinician{
		License: "CRM-99999", Name: "Dr. Costa", Email: "costa@example.com",
		PasswordHash: "hash", Specialty: "cardiology", Active: true,
	}
	require.NoError(t, f.clinicians.Create(ctx, other))

	_, err = f.service.Create(ctx, &model.Actor{ID: other.ID, Role: model.RoleClinician},
		&model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))

	// projections from the failed attempt must not exist
	managerRows, err := f.managerHistory.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, managerRows, 1)
}

func TestCreateRequiresClinician(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), managerActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestUpdateDecisionEmitsOutboxEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.NoError(t, err)

	status := model.AcceptanceStatusApproved
	updated, err := f.service.Update(ctx, managerActor(), created.ID, &model.UpdateAcceptanceRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.AcceptanceStatusApproved, updated.Status)

	pending, err := f.outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	types := []string{pending[0].EventType, pending[1].EventType}
	assert.Contains(t, types, model.EventAcceptanceCreated)
	assert.Contains(t, types, model.EventAcceptanceDecided)
}

func TestUpdateRejectionKeepsReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.NoError(t, err)

	status := model.AcceptanceStatusRejected
	reason := "schedule conflict"
	updated, err := f.service.Update(ctx, managerActor(), created.ID, &model.UpdateAcceptanceRequest{
		Status:          &status,
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, reason, *updated.RejectionReason)
}

func TestUpdateForbiddenForClinicianLeavesRecordUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.NoError(t, err)

	status := model.AcceptanceStatusApproved
	_, err = f.service.Update(ctx, f.clinicianActor(), created.ID, &model.UpdateAcceptanceRequest{Status: &status})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	current, err := f.service.Get(ctx, f.clinicianActor(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AcceptanceStatusPending, current.Status)
}

func TestDeleteManagerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.NoError(t, err)

	err = f.service.Delete(ctx, f.clinicianActor(), created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	require.NoError(t, f.service.Delete(ctx, managerActor(), created.ID))

	_, err = f.service.Get(ctx, managerActor(), created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestListPinsCliniciansToOwnRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.NoError(t, err)

	other := int64(999)
	listed, err := f.service.List(ctx, f.clinicianActor(), &model.AcceptanceFilters{ClinicianID: &other})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestShiftEditDoesNotRewriteAcceptance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.clinicianActor(), &model.CreateAcceptanceRequest{ShiftID: f.shift.ID})
	require.NoError(t, err)

	f.shift.Day = "20/09/2026"
	f.shift.StartTime = "08:00"
	require.NoError(t, f.shifts.Update(ctx, f.shift))

	current, err := f.service.Get(ctx, f.clinicianActor(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "15/09/2026", current.Day)
	assert.Equal(t, "19:00", current.StartTime)
}
