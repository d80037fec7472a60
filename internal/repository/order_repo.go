package repository

import (
	"context"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	BranchID   *int64
	CustomerID *int64
	Status     string
	Page       int
	Limit      int
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id int64) (*model.Order, error)
	// FindByIDForUpdate locks the order row so concurrent transitions serialize.
	FindByIDForUpdate(ctx context.Context, id int64) (*model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)

	CreatePosition(ctx context.Context, pos *model.OrderPosition) error
	FindPositionByID(ctx context.Context, id uuid.UUID) (*model.OrderPosition, error)
	DeletePosition(ctx context.Context, id uuid.UUID) error
	// SumReservedQuantity totals line quantities against an item position for
	// orders currently in one of the given statuses.
	SumReservedQuantity(ctx context.Context, itemPositionID int64, statuses []string) (int, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Positions").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Raw("SELECT * FROM orders WHERE id = ? FOR UPDATE", id).
		Scan(&order).Error; err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	if err := GetDB(ctx, r.db).Model(&order).Association("Positions").Find(&order.Positions); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Order{})
	if filter.BranchID != nil {
		db = db.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Preload("Positions").
		Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) CreatePosition(ctx context.Context, pos *model.OrderPosition) error {
	return GetDB(ctx, r.db).Create(pos).Error
}

func (r *orderRepository) FindPositionByID(ctx context.Context, id uuid.UUID) (*model.OrderPosition, error) {
	var pos model.OrderPosition
	if err := GetDB(ctx, r.db).First(&pos, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pos, nil
}

func (r *orderRepository) DeletePosition(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.OrderPosition{}).Error
}

func (r *orderRepository) SumReservedQuantity(ctx context.Context, itemPositionID int64, statuses []string) (int, error) {
	var reserved int64
	err := GetDB(ctx, r.db).Model(&model.OrderPosition{}).
		Select("COALESCE(SUM(order_positions.quantity), 0)").
		Joins("JOIN orders ON orders.id = order_positions.order_id").
		Where("order_positions.item_position_id = ? AND orders.status IN ?", itemPositionID, statuses).
		Scan(&reserved).Error
	if err != nil {
		return 0, err
	}
	return int(reserved), nil
}
