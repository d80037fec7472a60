package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemPosition represents "N units of item X currently assigned to position Y".
// Quantity is the ledger's primary mutable value and is written exclusively by
// the ledger service inside a movement transaction.
type ItemPosition struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID     int64     `gorm:"not null;index;uniqueIndex:idx_item_position" json:"item_id"`
	Item       *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	PositionID int64     `gorm:"not null;index;uniqueIndex:idx_item_position" json:"position_id"`
	Position   *Position `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	Quantity   int       `gorm:"type:int;not null;default:0" json:"quantity"`

	// Occupied dimensions of the batch as stored
	Weight decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"weight"`
	Length decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"length"`
	Width  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"width"`
	Height decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"height"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemMovement is an immutable audit record of a single quantity transfer.
// A movement with no source is an initial stocking event; one with no
// destination is a removal/consumption event. At least one side is present.
type ItemMovement struct {
	ID                    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceItemPositionID  *int64 `gorm:"index" json:"source_item_position_id"`
	DestinationPositionID *int64 `gorm:"index" json:"destination_position_id"`
	SourceBranchID        *int64 `gorm:"index" json:"source_branch_id"`
	DestinationBranchID   *int64 `gorm:"index" json:"destination_branch_id"`
	ItemID                int64  `gorm:"not null;index" json:"item_id"`
	OrderID               *int64 `gorm:"index" json:"order_id"` // set for order-driven debits and restocks
	Quantity              int    `gorm:"type:int;not null" json:"quantity"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// ItemStatus labels
const (
	ItemStatusAvailable   = "AVAILABLE"
	ItemStatusDamaged     = "DAMAGED"
	ItemStatusQuarantined = "QUARANTINED"
	ItemStatusExpired     = "EXPIRED"
)

// ItemStatus is an append-only history row for an item position. The current
// status is derived as the row with the latest StatusDate, never stored
// redundantly.
type ItemStatus struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemPositionID int64     `gorm:"not null;index" json:"item_position_id"`
	Status         string    `gorm:"type:varchar(50);not null" json:"status"`
	StatusDate     time.Time `gorm:"not null;index" json:"status_date"`
	Quantity       int       `gorm:"type:int;not null" json:"quantity"` // snapshot at the time of the status change
}
