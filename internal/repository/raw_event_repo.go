package repository

import (
	"context"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RawEventFilter narrows the telemetry log.
type RawEventFilter struct {
	Source    string
	EventType string
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

// RawEventRepository is append-only storage for telemetry events.
type RawEventRepository interface {
	Create(ctx context.Context, event *model.RawEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RawEvent, error)
	List(ctx context.Context, filter RawEventFilter) ([]model.RawEvent, int64, error)
}

type rawEventRepository struct {
	db *gorm.DB
}

func NewRawEventRepository(db *gorm.DB) RawEventRepository {
	return &rawEventRepository{db: db}
}

func (r *rawEventRepository) Create(ctx context.Context, event *model.RawEvent) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *rawEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RawEvent, error) {
	var event model.RawEvent
	if err := GetDB(ctx, r.db).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *rawEventRepository) List(ctx context.Context, filter RawEventFilter) ([]model.RawEvent, int64, error) {
	var events []model.RawEvent
	var total int64

	db := GetDB(ctx, r.db).Model(&model.RawEvent{})
	if filter.Source != "" {
		db = db.Where("source = ?", filter.Source)
	}
	if filter.EventType != "" {
		db = db.Where("event_type = ?", filter.EventType)
	}
	if filter.From != nil {
		db = db.Where("received_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("received_at < ?", *filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Order("received_at desc").Offset(offset).Limit(filter.Limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
