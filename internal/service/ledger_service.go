package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"
	ws "github.com/Xabartshik/TaskControl-sub001/internal/websocket"

	"gorm.io/gorm"
)

// MovementRequest describes a single quantity transfer. A request with no
// source is an initial stocking event and must carry ItemID; one with no
// destination is a removal/consumption event.
type MovementRequest struct {
	SourceItemPositionID  *int64 `json:"source_item_position_id"`
	DestinationPositionID *int64 `json:"destination_position_id"`
	SourceBranchID        *int64 `json:"source_branch_id"`
	DestinationBranchID   *int64 `json:"destination_branch_id"`
	ItemID                int64  `json:"item_id"`
	Quantity              int    `json:"quantity" binding:"required,gt=0"`

	// OrderID links order-driven debits and restocks to their order; it is
	// set internally by the order service and ignored at the HTTP boundary.
	OrderID *int64 `json:"-"`
}

// AppendStatusRequest appends a labeled snapshot to an item position's history.
type AppendStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// MovementEvent is broadcast over the websocket hub after a committed movement.
type MovementEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// LedgerService is the sole writer of ItemPosition.Quantity and the owner of
// the movement and status-history invariants.
type LedgerService interface {
	// RecordMovement validates and executes a movement inside one transaction:
	// the movement row and both quantity updates commit or roll back together.
	RecordMovement(ctx context.Context, req MovementRequest) (*model.ItemMovement, error)
	// RecordMovementInTx is RecordMovement without opening a transaction; the
	// caller must already be inside a TransactionManager scope.
	RecordMovementInTx(txCtx context.Context, req MovementRequest) (*model.ItemMovement, error)

	GetCurrentStatus(ctx context.Context, itemPositionID int64) (*model.ItemStatus, error)
	GetStatusAsOf(ctx context.Context, itemPositionID int64, at time.Time) (*model.ItemStatus, error)
	AppendStatus(ctx context.Context, itemPositionID int64, req AppendStatusRequest) (*model.ItemStatus, error)
	ListStatusHistory(ctx context.Context, itemPositionID int64, page, limit int) ([]model.ItemStatus, int64, error)

	// GetAvailableQuantity returns the physical quantity minus soft
	// reservations held by orders still in NEW status.
	GetAvailableQuantity(ctx context.Context, itemPositionID int64) (int, error)
	GetItemPosition(ctx context.Context, id int64) (*model.ItemPosition, error)
	ListItemPositions(ctx context.Context, page, limit int) ([]model.ItemPosition, int64, error)
	ListMovements(ctx context.Context, filter repository.MovementFilter) ([]model.ItemMovement, int64, error)
}

type ledgerService struct {
	itemRepo         repository.ItemRepository
	positionRepo     repository.PositionRepository
	branchRepo       repository.BranchRepository
	itemPositionRepo repository.ItemPositionRepository
	movementRepo     repository.ItemMovementRepository
	statusRepo       repository.ItemStatusRepository
	orderRepo        repository.OrderRepository
	txManager        repository.TransactionManager
	hub              *ws.Hub
}

func NewLedgerService(
	itemRepo repository.ItemRepository,
	positionRepo repository.PositionRepository,
	branchRepo repository.BranchRepository,
	itemPositionRepo repository.ItemPositionRepository,
	movementRepo repository.ItemMovementRepository,
	statusRepo repository.ItemStatusRepository,
	orderRepo repository.OrderRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) LedgerService {
	return &ledgerService{
		itemRepo:         itemRepo,
		positionRepo:     positionRepo,
		branchRepo:       branchRepo,
		itemPositionRepo: itemPositionRepo,
		movementRepo:     movementRepo,
		statusRepo:       statusRepo,
		orderRepo:        orderRepo,
		txManager:        txManager,
		hub:              hub,
	}
}

func (s *ledgerService) RecordMovement(ctx context.Context, req MovementRequest) (*model.ItemMovement, error) {
	var movement *model.ItemMovement

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		m, txErr := s.RecordMovementInTx(txCtx, req)
		if txErr != nil {
			return txErr
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastMovement(movement)
	return movement, nil
}

func (s *ledgerService) RecordMovementInTx(txCtx context.Context, req MovementRequest) (*model.ItemMovement, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidMovement, req.Quantity)
	}
	if req.SourceItemPositionID == nil && req.DestinationPositionID == nil {
		return nil, fmt.Errorf("%w: movement needs a source or a destination", ErrInvalidMovement)
	}

	if req.SourceBranchID != nil {
		if _, err := s.branchRepo.FindByID(txCtx, *req.SourceBranchID); err != nil {
			return nil, fmt.Errorf("source branch %d: %w", *req.SourceBranchID, asDomainErr(err))
		}
	}
	if req.DestinationBranchID != nil {
		if _, err := s.branchRepo.FindByID(txCtx, *req.DestinationBranchID); err != nil {
			return nil, fmt.Errorf("destination branch %d: %w", *req.DestinationBranchID, asDomainErr(err))
		}
	}

	itemID := req.ItemID

	// All validation reads happen before the first write, so a failed request
	// leaves nothing to roll back.
	var src *model.ItemPosition
	if req.SourceItemPositionID != nil {
		// Row lock: concurrent movements against the same item position
		// serialize here.
		loaded, err := s.itemPositionRepo.FindByIDForUpdate(txCtx, *req.SourceItemPositionID)
		if err != nil {
			return nil, fmt.Errorf("source item position %d: %w", *req.SourceItemPositionID, asDomainErr(err))
		}
		if itemID != 0 && itemID != loaded.ItemID {
			return nil, fmt.Errorf("%w: item %d does not match source item position %d", ErrInvalidMovement, itemID, loaded.ID)
		}
		itemID = loaded.ItemID

		if loaded.Quantity < req.Quantity {
			return nil, fmt.Errorf("%w: source item position %d holds %d, requested %d",
				ErrInvalidMovement, loaded.ID, loaded.Quantity, req.Quantity)
		}
		src = loaded
	} else {
		if itemID == 0 {
			return nil, fmt.Errorf("%w: initial stocking requires item_id", ErrInvalidMovement)
		}
		if _, err := s.itemRepo.FindByID(txCtx, itemID); err != nil {
			return nil, fmt.Errorf("item %d: %w", itemID, asDomainErr(err))
		}
	}

	var dst *model.ItemPosition
	if req.DestinationPositionID != nil {
		if _, err := s.positionRepo.FindByID(txCtx, *req.DestinationPositionID); err != nil {
			return nil, fmt.Errorf("destination position %d: %w", *req.DestinationPositionID, asDomainErr(err))
		}

		loaded, err := s.itemPositionRepo.FindByItemAndPositionForUpdate(txCtx, itemID, *req.DestinationPositionID)
		switch {
		case err == nil:
			dst = loaded
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First stock of this (item, position) pair; row is created below.
		default:
			return nil, asDomainErr(err)
		}
	}

	if src != nil && dst != nil && src.ID == dst.ID {
		return nil, fmt.Errorf("%w: source and destination are the same item position", ErrInvalidMovement)
	}

	if src != nil {
		if err := s.itemPositionRepo.UpdateQuantity(txCtx, src.ID, src.Quantity-req.Quantity); err != nil {
			return nil, asDomainErr(err)
		}
	}
	if req.DestinationPositionID != nil {
		if dst != nil {
			if err := s.itemPositionRepo.UpdateQuantity(txCtx, dst.ID, dst.Quantity+req.Quantity); err != nil {
				return nil, asDomainErr(err)
			}
		} else {
			created := &model.ItemPosition{
				ItemID:     itemID,
				PositionID: *req.DestinationPositionID,
				Quantity:   req.Quantity,
			}
			if err := s.itemPositionRepo.Create(txCtx, created); err != nil {
				return nil, asDomainErr(err)
			}
		}
	}

	movement := &model.ItemMovement{
		SourceItemPositionID:  req.SourceItemPositionID,
		DestinationPositionID: req.DestinationPositionID,
		SourceBranchID:        req.SourceBranchID,
		DestinationBranchID:   req.DestinationBranchID,
		ItemID:                itemID,
		OrderID:               req.OrderID,
		Quantity:              req.Quantity,
	}
	if err := s.movementRepo.Create(txCtx, movement); err != nil {
		return nil, asDomainErr(err)
	}

	return movement, nil
}

func (s *ledgerService) GetCurrentStatus(ctx context.Context, itemPositionID int64) (*model.ItemStatus, error) {
	status, err := s.statusRepo.FindLatest(ctx, itemPositionID)
	if err != nil {
		return nil, fmt.Errorf("status history of item position %d: %w", itemPositionID, asDomainErr(err))
	}
	return status, nil
}

func (s *ledgerService) GetStatusAsOf(ctx context.Context, itemPositionID int64, at time.Time) (*model.ItemStatus, error) {
	status, err := s.statusRepo.FindAsOf(ctx, itemPositionID, at)
	if err != nil {
		return nil, fmt.Errorf("status history of item position %d: %w", itemPositionID, asDomainErr(err))
	}
	return status, nil
}

func (s *ledgerService) AppendStatus(ctx context.Context, itemPositionID int64, req AppendStatusRequest) (*model.ItemStatus, error) {
	if _, err := s.itemPositionRepo.FindByID(ctx, itemPositionID); err != nil {
		return nil, fmt.Errorf("item position %d: %w", itemPositionID, asDomainErr(err))
	}

	status := &model.ItemStatus{
		ItemPositionID: itemPositionID,
		Status:         req.Status,
		StatusDate:     time.Now(),
		Quantity:       req.Quantity,
	}
	if err := s.statusRepo.Append(ctx, status); err != nil {
		return nil, asDomainErr(err)
	}
	return status, nil
}

func (s *ledgerService) ListStatusHistory(ctx context.Context, itemPositionID int64, page, limit int) ([]model.ItemStatus, int64, error) {
	statuses, total, err := s.statusRepo.ListByItemPosition(ctx, itemPositionID, page, limit)
	if err != nil {
		return nil, 0, asDomainErr(err)
	}
	return statuses, total, nil
}

func (s *ledgerService) GetAvailableQuantity(ctx context.Context, itemPositionID int64) (int, error) {
	ip, err := s.itemPositionRepo.FindByID(ctx, itemPositionID)
	if err != nil {
		return 0, fmt.Errorf("item position %d: %w", itemPositionID, asDomainErr(err))
	}

	reserved, err := s.orderRepo.SumReservedQuantity(ctx, itemPositionID, []string{model.OrderStatusNew})
	if err != nil {
		return 0, asDomainErr(err)
	}

	return ip.Quantity - reserved, nil
}

func (s *ledgerService) GetItemPosition(ctx context.Context, id int64) (*model.ItemPosition, error) {
	ip, err := s.itemPositionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item position %d: %w", id, asDomainErr(err))
	}
	return ip, nil
}

func (s *ledgerService) ListItemPositions(ctx context.Context, page, limit int) ([]model.ItemPosition, int64, error) {
	ips, total, err := s.itemPositionRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, asDomainErr(err)
	}
	return ips, total, nil
}

func (s *ledgerService) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]model.ItemMovement, int64, error) {
	movements, total, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, asDomainErr(err)
	}
	return movements, total, nil
}

func (s *ledgerService) broadcastMovement(movement *model.ItemMovement) {
	if s.hub == nil || movement == nil {
		return
	}

	payload, err := json.Marshal(MovementEvent{
		Event: "inventory.movement",
		Data: map[string]interface{}{
			"movement_id": movement.ID,
			"item_id":     movement.ItemID,
			"quantity":    movement.Quantity,
		},
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}
