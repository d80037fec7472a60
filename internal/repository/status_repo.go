package repository

import (
	"context"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"

	"gorm.io/gorm"
)

// ItemStatusRepository is append-only: history rows are never updated or deleted.
type ItemStatusRepository interface {
	Append(ctx context.Context, status *model.ItemStatus) error
	// FindLatest returns the row with the maximum status date for the item
	// position; id breaks ties between equal dates.
	FindLatest(ctx context.Context, itemPositionID int64) (*model.ItemStatus, error)
	// FindAsOf returns the row that was current at the given instant.
	FindAsOf(ctx context.Context, itemPositionID int64, at time.Time) (*model.ItemStatus, error)
	ListByItemPosition(ctx context.Context, itemPositionID int64, page, limit int) ([]model.ItemStatus, int64, error)
}

type itemStatusRepository struct {
	db *gorm.DB
}

func NewItemStatusRepository(db *gorm.DB) ItemStatusRepository {
	return &itemStatusRepository{db: db}
}

func (r *itemStatusRepository) Append(ctx context.Context, status *model.ItemStatus) error {
	return GetDB(ctx, r.db).Create(status).Error
}

func (r *itemStatusRepository) FindLatest(ctx context.Context, itemPositionID int64) (*model.ItemStatus, error) {
	var status model.ItemStatus
	if err := GetDB(ctx, r.db).Where("item_position_id = ?", itemPositionID).
		Order("status_date desc, id desc").First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *itemStatusRepository) FindAsOf(ctx context.Context, itemPositionID int64, at time.Time) (*model.ItemStatus, error) {
	var status model.ItemStatus
	if err := GetDB(ctx, r.db).Where("item_position_id = ? AND status_date <= ?", itemPositionID, at).
		Order("status_date desc, id desc").First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *itemStatusRepository) ListByItemPosition(ctx context.Context, itemPositionID int64, page, limit int) ([]model.ItemStatus, int64, error) {
	var statuses []model.ItemStatus
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ItemStatus{}).Where("item_position_id = ?", itemPositionID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("status_date desc, id desc").Offset(offset).Limit(limit).Find(&statuses).Error; err != nil {
		return nil, 0, err
	}

	return statuses, total, nil
}
