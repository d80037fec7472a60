package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionStatus constants
const (
	PositionStatusActive  = "ACTIVE"
	PositionStatusBlocked = "BLOCKED"
	PositionStatusService = "SERVICE" // under maintenance, not accepting stock
)

// Position represents a physical storage slot within a branch, addressed by a
// hierarchical location code: zone / rack / shelf / cell.
type Position struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	BranchID int64   `gorm:"not null;index" json:"branch_id"`
	Branch   *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Status   string  `gorm:"type:varchar(50);not null;default:'ACTIVE'" json:"status"`

	Zone  string `gorm:"type:varchar(50);not null" json:"zone"`
	Rack  string `gorm:"type:varchar(50);not null" json:"rack"`
	Shelf string `gorm:"type:varchar(50);not null" json:"shelf"`
	Cell  string `gorm:"type:varchar(50);not null" json:"cell"`

	// Capacity dimensions of the slot
	Weight decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"weight"`
	Length decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"length"`
	Width  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"width"`
	Height decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"height"`

	CreatedAt time.Time `json:"created_at"`
}
