package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderType constants
const (
	OrderTypeOnline  = "ONLINE"
	OrderTypeOffline = "OFFLINE"
)

// OrderStatus constants
const (
	OrderStatusNew        = "NEW"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// orderTransitions lists the allowed status transitions. Delivered and
// Cancelled are terminal.
var orderTransitions = map[string][]string{
	OrderStatusNew:        {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransitionOrder reports whether an order may move from one status to another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order tracks a customer order against a branch's inventory.
type Order struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID   int64           `gorm:"not null;index" json:"customer_id"`
	BranchID     int64           `gorm:"not null;index" json:"branch_id"`
	Branch       *Branch         `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	DeliveryDate *time.Time      `json:"delivery_date"`
	Type         string          `gorm:"type:varchar(20);not null" json:"type"` // ONLINE, OFFLINE
	Status       string          `gorm:"type:varchar(20);not null;default:'NEW'" json:"status"`
	Positions    []OrderPosition `gorm:"foreignKey:OrderID" json:"positions"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderPosition links an order line to the item position it consumes.
type OrderPosition struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        int64         `gorm:"not null;index" json:"order_id"`
	ItemPositionID int64         `gorm:"not null;index" json:"item_position_id"`
	ItemPosition   *ItemPosition `gorm:"foreignKey:ItemPositionID" json:"item_position,omitempty"`
	Quantity       int           `gorm:"type:int;not null" json:"quantity"`
	CreatedAt      time.Time     `json:"created_at"`
}
