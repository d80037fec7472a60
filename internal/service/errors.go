package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Domain error taxonomy. Handlers translate these to HTTP statuses with
// errors.Is; services wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound means a referenced entity id does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidMovement covers non-positive quantity, missing both endpoints
	// and insufficient source quantity.
	ErrInvalidMovement = errors.New("invalid movement")
	// ErrInsufficientInventory means an order line exceeds availability.
	ErrInsufficientInventory = errors.New("insufficient inventory")
	// ErrInvalidTransition means an illegal order status change.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrValidation means malformed input at the DTO boundary.
	ErrValidation = errors.New("validation failed")
	// ErrStorage wraps storage-layer failures; the core does not retry.
	ErrStorage = errors.New("storage failure")
)

// asDomainErr converts a repository error into the taxonomy: missing rows
// become ErrNotFound, everything else is a storage failure.
func asDomainErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
