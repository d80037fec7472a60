package repository

import (
	"context"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"

	"gorm.io/gorm"
)

// MovementFilter narrows the movement log by item, branch, position or time range.
type MovementFilter struct {
	ItemID     *int64
	BranchID   *int64 // matches either side of the transfer
	PositionID *int64 // destination position
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type ItemMovementRepository interface {
	Create(ctx context.Context, movement *model.ItemMovement) error
	FindByID(ctx context.Context, id int64) (*model.ItemMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]model.ItemMovement, int64, error)
	ListByOrder(ctx context.Context, orderID int64) ([]model.ItemMovement, error)
}

type itemMovementRepository struct {
	db *gorm.DB
}

func NewItemMovementRepository(db *gorm.DB) ItemMovementRepository {
	return &itemMovementRepository{db: db}
}

func (r *itemMovementRepository) Create(ctx context.Context, movement *model.ItemMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *itemMovementRepository) FindByID(ctx context.Context, id int64) (*model.ItemMovement, error) {
	var movement model.ItemMovement
	if err := GetDB(ctx, r.db).First(&movement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *itemMovementRepository) List(ctx context.Context, filter MovementFilter) ([]model.ItemMovement, int64, error) {
	var movements []model.ItemMovement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ItemMovement{})
	if filter.ItemID != nil {
		db = db.Where("item_id = ?", *filter.ItemID)
	}
	if filter.BranchID != nil {
		db = db.Where("source_branch_id = ? OR destination_branch_id = ?", *filter.BranchID, *filter.BranchID)
	}
	if filter.PositionID != nil {
		db = db.Where("destination_position_id = ?", *filter.PositionID)
	}
	if filter.From != nil {
		db = db.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("created_at < ?", *filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

func (r *itemMovementRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.ItemMovement, error) {
	var movements []model.ItemMovement
	if err := GetDB(ctx, r.db).Where("order_id = ?", orderID).
		Order("created_at asc").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
