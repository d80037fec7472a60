package repository

import (
	"context"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"

	"gorm.io/gorm"
)

// PositionFilter narrows position listings to a branch and/or status.
type PositionFilter struct {
	BranchID *int64
	Status   string
	Page     int
	Limit    int
}

type PositionRepository interface {
	Create(ctx context.Context, position *model.Position) error
	Update(ctx context.Context, position *model.Position) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.Position, error)
	List(ctx context.Context, filter PositionFilter) ([]model.Position, int64, error)
}

type positionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) Create(ctx context.Context, position *model.Position) error {
	return GetDB(ctx, r.db).Create(position).Error
}

func (r *positionRepository) Update(ctx context.Context, position *model.Position) error {
	return GetDB(ctx, r.db).Save(position).Error
}

func (r *positionRepository) Delete(ctx context.Context, id int64) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Position{}).Error
}

func (r *positionRepository) FindByID(ctx context.Context, id int64) (*model.Position, error) {
	var position model.Position
	if err := GetDB(ctx, r.db).First(&position, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepository) List(ctx context.Context, filter PositionFilter) ([]model.Position, int64, error) {
	var positions []model.Position
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Position{})
	if filter.BranchID != nil {
		db = db.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Order("zone, rack, shelf, cell").Offset(offset).Limit(filter.Limit).Find(&positions).Error; err != nil {
		return nil, 0, err
	}

	return positions, total, nil
}
