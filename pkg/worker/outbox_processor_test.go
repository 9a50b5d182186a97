package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/internal/repository"
	"github.com/plantaohub/oncall-api/internal/repository/memory"
	"github.com/plantaohub/oncall-api/pkg/logger"
	"github.com/plantaohub/oncall-api/pkg/messaging"
	"github.com/plantaohub/oncall-api/pkg/metrics"
)

type fakeBroker struct {
	mu        sync.Mutex
	published []string
	fail      bool
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, msg messaging.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan messaging.Message, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

func newProcessor(t *testing.T, broker *fakeBroker) (*OutboxProcessor, repository.OutboxRepository) {
	t.Helper()
	store := memory.NewStore()
	repo := memory.NewOutboxRepository(store)
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	return NewOutboxProcessor(repo, broker, log, metrics.NewForTesting(), time.Second, 10), repo
}

func seedEvent(t *testing.T, repo repository.OutboxRepository, eventType string) *model.OutboxEvent {
	t.Helper()
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   []byte(`{"shift_id":1}`),
		Status:    model.OutboxStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), event))
	return event
}

func TestProcessBatchPublishesAndMarksProcessed(t *testing.T) {
	broker := &fakeBroker{}
	p, repo := newProcessor(t, broker)
	ctx := context.Background()

	seedEvent(t, repo, model.EventAcceptanceCreated)
	seedEvent(t, repo, model.EventAcceptanceDecided)

	require.NoError(t, p.processBatch(ctx))

	assert.ElementsMatch(t, []string{
		messaging.Channel(model.EventAcceptanceCreated),
		messaging.Channel(model.EventAcceptanceDecided),
	}, broker.published)

	pending, err := repo.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessBatchRetriesOnFailure(t *testing.T) {
	broker := &fakeBroker{fail: true}
	p, repo := newProcessor(t, broker)
	ctx := context.Background()

	seedEvent(t, repo, model.EventShiftStatusChanged)

	require.NoError(t, p.processBatch(ctx))

	// first failure stays pending for retry
	pending, err := repo.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)
	require.NotNil(t, pending[0].ErrorMessage)

	broker.fail = false
	require.NoError(t, p.processBatch(ctx))

	pending, err = repo.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
