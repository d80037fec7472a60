package model

import "time"

// BranchType constants
const (
	BranchTypeWarehouse = "WAREHOUSE"
	BranchTypeRetail    = "RETAIL"
	BranchTypeTransit   = "TRANSIT"
)

// Branch represents a physical site (warehouse, retail store or transit hub)
// that owns storage positions
type Branch struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Type      string    `gorm:"type:varchar(50);not null" json:"type"` // WAREHOUSE, RETAIL, TRANSIT
	Address   string    `gorm:"type:varchar(500)" json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
