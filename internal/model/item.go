package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item describes a catalog item type (not a physical unit). Physical units
// live in ItemPosition rows managed by the ledger.
type Item struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Weight    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"weight"` // kg
	Length    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"length"` // cm
	Width     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"width"`
	Height    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"height"`
	CreatedAt time.Time       `json:"created_at"`
}
