package repository

import (
	"context"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"

	"gorm.io/gorm"
)

type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) error
	Update(ctx context.Context, branch *model.Branch) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.Branch, error)
	List(ctx context.Context, page, limit int) ([]model.Branch, int64, error)
}

type branchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(ctx context.Context, branch *model.Branch) error {
	return GetDB(ctx, r.db).Create(branch).Error
}

func (r *branchRepository) Update(ctx context.Context, branch *model.Branch) error {
	return GetDB(ctx, r.db).Save(branch).Error
}

func (r *branchRepository) Delete(ctx context.Context, id int64) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Branch{}).Error
}

func (r *branchRepository) FindByID(ctx context.Context, id int64) (*model.Branch, error) {
	var branch model.Branch
	if err := GetDB(ctx, r.db).First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepository) List(ctx context.Context, page, limit int) ([]model.Branch, int64, error) {
	var branches []model.Branch
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Branch{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&branches).Error; err != nil {
		return nil, 0, err
	}

	return branches, total, nil
}
