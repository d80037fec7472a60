package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memRawEventRepo struct {
	mu     sync.Mutex
	events []model.RawEvent
}

func (r *memRawEventRepo) Create(_ context.Context, event *model.RawEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *memRawEventRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RawEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRawEventRepo) List(_ context.Context, filter repository.RawEventFilter) ([]model.RawEvent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.RawEvent
	for _, e := range r.events {
		if filter.Source != "" && e.Source != filter.Source {
			continue
		}
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func TestIngestEvent(t *testing.T) {
	repo := &memRawEventRepo{}
	svc := NewEventService(repo)
	ctx := context.Background()

	event, err := svc.Ingest(ctx, IngestEventRequest{
		Source:    "scanner-7",
		EventType: "item.scanned",
		Payload:   json.RawMessage(`{"barcode":"4601234567890"}`),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.False(t, event.ReceivedAt.IsZero())

	got, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "scanner-7", got.Source)

	_, err = svc.GetEvent(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIngestEventRejectsMalformedPayload(t *testing.T) {
	repo := &memRawEventRepo{}
	svc := NewEventService(repo)

	_, err := svc.Ingest(context.Background(), IngestEventRequest{
		Source:    "scanner-7",
		EventType: "item.scanned",
		Payload:   json.RawMessage(`{"barcode":`),
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, repo.events)
}

func TestListEventsFiltersBySource(t *testing.T) {
	repo := &memRawEventRepo{}
	svc := NewEventService(repo)
	ctx := context.Background()

	for _, source := range []string{"scanner-7", "scanner-9"} {
		_, err := svc.Ingest(ctx, IngestEventRequest{
			Source:    source,
			EventType: "item.scanned",
			Payload:   json.RawMessage(`{}`),
		})
		require.NoError(t, err)
	}

	events, total, err := svc.ListEvents(ctx, repository.RawEventFilter{Source: "scanner-9"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, "scanner-9", events[0].Source)
}
