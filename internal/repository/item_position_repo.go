package repository

import (
	"context"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemPositionRepository interface {
	Create(ctx context.Context, ip *model.ItemPosition) error
	Update(ctx context.Context, ip *model.ItemPosition) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.ItemPosition, error)
	// FindByIDForUpdate takes a row-level lock; movements against the same
	// item position serialize on it.
	FindByIDForUpdate(ctx context.Context, id int64) (*model.ItemPosition, error)
	FindByItemAndPositionForUpdate(ctx context.Context, itemID, positionID int64) (*model.ItemPosition, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	ListByPosition(ctx context.Context, positionID int64) ([]model.ItemPosition, error)
	List(ctx context.Context, page, limit int) ([]model.ItemPosition, int64, error)
}

type itemPositionRepository struct {
	db *gorm.DB
}

func NewItemPositionRepository(db *gorm.DB) ItemPositionRepository {
	return &itemPositionRepository{db: db}
}

func (r *itemPositionRepository) Create(ctx context.Context, ip *model.ItemPosition) error {
	return GetDB(ctx, r.db).Create(ip).Error
}

func (r *itemPositionRepository) Update(ctx context.Context, ip *model.ItemPosition) error {
	return GetDB(ctx, r.db).Save(ip).Error
}

func (r *itemPositionRepository) Delete(ctx context.Context, id int64) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ItemPosition{}).Error
}

func (r *itemPositionRepository) FindByID(ctx context.Context, id int64) (*model.ItemPosition, error) {
	var ip model.ItemPosition
	if err := GetDB(ctx, r.db).First(&ip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ip, nil
}

func (r *itemPositionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*model.ItemPosition, error) {
	var ip model.ItemPosition
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&ip).Error; err != nil {
		return nil, err
	}
	return &ip, nil
}

func (r *itemPositionRepository) FindByItemAndPositionForUpdate(ctx context.Context, itemID, positionID int64) (*model.ItemPosition, error) {
	var ip model.ItemPosition
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ? AND position_id = ?", itemID, positionID).First(&ip).Error; err != nil {
		return nil, err
	}
	return &ip, nil
}

func (r *itemPositionRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	return GetDB(ctx, r.db).Model(&model.ItemPosition{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *itemPositionRepository) ListByPosition(ctx context.Context, positionID int64) ([]model.ItemPosition, error) {
	var ips []model.ItemPosition
	if err := GetDB(ctx, r.db).Where("position_id = ?", positionID).Find(&ips).Error; err != nil {
		return nil, err
	}
	return ips, nil
}

func (r *itemPositionRepository) List(ctx context.Context, page, limit int) ([]model.ItemPosition, int64, error) {
	var ips []model.ItemPosition
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ItemPosition{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Item").Preload("Position").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&ips).Error; err != nil {
		return nil, 0, err
	}

	return ips, total, nil
}
