package audit

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository/memory"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/metrics"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	return NewService(memory.NewAuditRepository(store), log, metrics.NewForTesting(), 16), store
}

func managerActor() *model.Actor {
	hospitalID := int64(1)
	return &model.Actor{ID: 10, Role: model.RoleManager, HospitalID: &hospitalID, SourceIP: "10.0.0.1"}
}

func adminActor() *model.Actor {
	return &model.Actor{ID: 1, Role: model.RoleSystemAdmin}
}

func TestRecordPersistsEvent(t *testing.T) {
	svc, store := newTestService(t)

	svc.Record(context.Background(), Entry{
		Actor:    managerActor(),
		Entity:   model.AuditEntityShift,
		EntityID: "42",
		Action:   model.AuditActionCreate,
		After:    map[string]interface{}{"title": "night shift"},
	})
	svc.Close()

	events, err := memory.NewAuditRepository(store).List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, model.AuditEntityShift, event.Entity)
	assert.Equal(t, "42", event.EntityID)
	assert.Equal(t, model.AuditActionCreate, event.Action)
	require.NotNil(t, event.ActorID)
	assert.Equal(t, int64(10), *event.ActorID)
	assert.Equal(t, "10.0.0.1", event.SourceIP)
	assert.JSONEq(t, `{"title":"night shift"}`, string(event.After))
}

func TestRecordStripsCredentials(t *testing.T) {
	svc, store := newTestService(t)

	svc.Record(context.Background(), Entry{
		Actor:    adminActor(),
		Entity:   model.AuditEntityUser,
		EntityID: "7",
		Action:   model.AuditActionUpdate,
		Before: map[string]interface{}{
			"email":         "old@example.com",
			"password_hash": "$2a$10$secret",
		},
		After: map[string]interface{}{
			"email": "new@example.com",
			"nested": map[string]interface{}{
				"senha_hash": "oculto",
				"keep":       "me",
			},
		},
	})
	svc.Close()

	events, err := memory.NewAuditRepository(store).List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.NotContains(t, string(events[0].Before), "secret")
	assert.NotContains(t, string(events[0].After), "oculto")
	assert.Contains(t, string(events[0].After), "me")

	var before map[string]interface{}
	require.NoError(t, json.Unmarshal(events[0].Before, &before))
	_, present := before["password_hash"]
	assert.False(t, present)
	assert.Equal(t, "old@example.com", before["email"])
}

func TestRecordStructSnapshotNeverLeaksHash(t *testing.T) {
	svc, store := newTestService(t)

	// User's json tags already hide the hash; the scrubber is the second line
	// of defense for snapshots built from raw maps.
	u := &model.User{ID: 7, Email: "a@b.c", PasswordHash: "$2a$10$secret"}
	svc.Record(context.Background(), Entry{
		Actor:    adminActor(),
		Entity:   model.AuditEntityUser,
		EntityID: "7",
		Action:   model.AuditActionCreate,
		After:    u,
	})
	svc.Close()

	events, err := memory.NewAuditRepository(store).List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotContains(t, string(events[0].After), "secret")
}

func TestListRestrictedToAdmins(t *testing.T) {
	svc, _ := newTestService(t)
	defer svc.Close()

	_, err := svc.List(context.Background(), managerActor(), nil)
	assert.Error(t, err)

	_, err = svc.List(context.Background(), adminActor(), nil)
	assert.NoError(t, err)
}

func TestSanitizeSnapshotDepth(t *testing.T) {
	raw := sanitizeSnapshot(map[string]interface{}{
		"list": []interface{}{
			map[string]interface{}{"credential_hash": "x", "id": 1},
		},
		"Password": "plain",
	})
	require.NotNil(t, raw)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	_, present := decoded["Password"]
	assert.False(t, present)

	item := decoded["list"].([]interface{})[0].(map[string]interface{})
	_, present = item["credential_hash"]
	assert.False(t, present)
	assert.EqualValues(t, 1, item["id"])
}
