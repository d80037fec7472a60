package model

import (
	"time"

	"github.com/google/uuid"
)

// RawEvent stores a telemetry event as an opaque JSON blob plus structured
// metadata. Payload well-formedness is checked at ingestion; the ledger never
// interprets its contents. Append-only.
type RawEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Source     string    `gorm:"type:varchar(100);not null;index" json:"source"`
	EventType  string    `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Payload    string    `gorm:"type:jsonb;not null" json:"payload"`
	ReceivedAt time.Time `gorm:"index" json:"received_at"`
}
