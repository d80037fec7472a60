package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"

	"github.com/google/uuid"
)

// IngestEventRequest carries a telemetry event. Payload stays opaque: the only
// check at the boundary is that it is well-formed JSON.
type IngestEventRequest struct {
	Source    string          `json:"source" binding:"required"`
	EventType string          `json:"event_type" binding:"required"`
	Payload   json.RawMessage `json:"payload" binding:"required"`
}

type EventService interface {
	Ingest(ctx context.Context, req IngestEventRequest) (*model.RawEvent, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*model.RawEvent, error)
	ListEvents(ctx context.Context, filter repository.RawEventFilter) ([]model.RawEvent, int64, error)
}

type eventService struct {
	eventRepo repository.RawEventRepository
}

func NewEventService(eventRepo repository.RawEventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) Ingest(ctx context.Context, req IngestEventRequest) (*model.RawEvent, error) {
	if !json.Valid(req.Payload) {
		return nil, fmt.Errorf("%w: payload is not well-formed JSON", ErrValidation)
	}

	event := &model.RawEvent{
		Source:     req.Source,
		EventType:  req.EventType,
		Payload:    string(req.Payload),
		ReceivedAt: time.Now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, asDomainErr(err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id uuid.UUID) (*model.RawEvent, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", id, asDomainErr(err))
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter repository.RawEventFilter) ([]model.RawEvent, int64, error) {
	events, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, asDomainErr(err)
	}
	return events, total, nil
}
