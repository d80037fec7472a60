package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"

	"github.com/google/uuid"
)

// DTOs
type CreateOrderRequest struct {
	CustomerID   int64      `json:"customer_id" binding:"required"`
	BranchID     int64      `json:"branch_id" binding:"required"`
	DeliveryDate *time.Time `json:"delivery_date"`
	Type         string     `json:"type" binding:"required,oneof=ONLINE OFFLINE"`
}

type AddOrderPositionRequest struct {
	ItemPositionID int64 `json:"item_position_id" binding:"required"`
	Quantity       int   `json:"quantity" binding:"required,gt=0"`
}

// OrderService drives the order lifecycle:
//
//	NEW -> PROCESSING -> DELIVERED
//	NEW, PROCESSING -> CANCELLED
//
// Order lines make soft reservations: adding a line never mutates inventory,
// but lines of NEW orders count against availability. Confirmation debits each
// line through real ledger movements; cancelling a confirmed order restores
// the debited stock with compensating movements.
type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error)

	AddOrderPosition(ctx context.Context, orderID int64, req AddOrderPositionRequest) (*model.OrderPosition, error)
	RemoveOrderPosition(ctx context.Context, orderID int64, positionID uuid.UUID) error

	Confirm(ctx context.Context, orderID int64) (*model.Order, error)
	Deliver(ctx context.Context, orderID int64) (*model.Order, error)
	Cancel(ctx context.Context, orderID int64) (*model.Order, error)
}

type orderService struct {
	orderRepo        repository.OrderRepository
	branchRepo       repository.BranchRepository
	itemPositionRepo repository.ItemPositionRepository
	ledger           LedgerService
	txManager        repository.TransactionManager
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	branchRepo repository.BranchRepository,
	itemPositionRepo repository.ItemPositionRepository,
	ledger LedgerService,
	txManager repository.TransactionManager,
) OrderService {
	return &orderService{
		orderRepo:        orderRepo,
		branchRepo:       branchRepo,
		itemPositionRepo: itemPositionRepo,
		ledger:           ledger,
		txManager:        txManager,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	if _, err := s.branchRepo.FindByID(ctx, req.BranchID); err != nil {
		return nil, fmt.Errorf("branch %d: %w", req.BranchID, asDomainErr(err))
	}

	order := &model.Order{
		CustomerID:   req.CustomerID,
		BranchID:     req.BranchID,
		DeliveryDate: req.DeliveryDate,
		Type:         req.Type,
		Status:       model.OrderStatusNew,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, asDomainErr(err)
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, asDomainErr(err))
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, asDomainErr(err)
	}
	return orders, total, nil
}

func (s *orderService) AddOrderPosition(ctx context.Context, orderID int64, req AddOrderPositionRequest) (*model.OrderPosition, error) {
	var pos *model.OrderPosition

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("order %d: %w", orderID, asDomainErr(err))
		}
		if order.Status != model.OrderStatusNew {
			return fmt.Errorf("%w: order %d is %s, lines can only be added to NEW orders",
				ErrInvalidTransition, orderID, order.Status)
		}

		if _, err := s.itemPositionRepo.FindByID(txCtx, req.ItemPositionID); err != nil {
			return fmt.Errorf("item position %d: %w", req.ItemPositionID, asDomainErr(err))
		}

		available, err := s.ledger.GetAvailableQuantity(txCtx, req.ItemPositionID)
		if err != nil {
			return err
		}
		if req.Quantity > available {
			return fmt.Errorf("%w: item position %d has %d available, requested %d",
				ErrInsufficientInventory, req.ItemPositionID, available, req.Quantity)
		}

		pos = &model.OrderPosition{
			OrderID:        orderID,
			ItemPositionID: req.ItemPositionID,
			Quantity:       req.Quantity,
		}
		if err := s.orderRepo.CreatePosition(txCtx, pos); err != nil {
			return asDomainErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

func (s *orderService) RemoveOrderPosition(ctx context.Context, orderID int64, positionID uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("order %d: %w", orderID, asDomainErr(err))
		}
		if order.Status != model.OrderStatusNew {
			return fmt.Errorf("%w: order %d is %s, lines can only be removed from NEW orders",
				ErrInvalidTransition, orderID, order.Status)
		}

		pos, err := s.orderRepo.FindPositionByID(txCtx, positionID)
		if err != nil {
			return fmt.Errorf("order position %s: %w", positionID, asDomainErr(err))
		}
		if pos.OrderID != orderID {
			return fmt.Errorf("order position %s: %w", positionID, ErrNotFound)
		}

		if err := s.orderRepo.DeletePosition(txCtx, positionID); err != nil {
			return asDomainErr(err)
		}
		return nil
	})
}

// Confirm moves NEW -> PROCESSING. Each line is debited through a source-only
// ledger movement inside the same transaction as the status change, so the
// re-validation at confirmation time is the debit's own quantity check.
func (s *orderService) Confirm(ctx context.Context, orderID int64) (*model.Order, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("order %d: %w", orderID, asDomainErr(err))
		}
		if !model.CanTransitionOrder(order.Status, model.OrderStatusProcessing) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, model.OrderStatusProcessing)
		}

		for _, line := range order.Positions {
			lineID := line.ItemPositionID
			_, mvErr := s.ledger.RecordMovementInTx(txCtx, MovementRequest{
				SourceItemPositionID: &lineID,
				SourceBranchID:       &order.BranchID,
				Quantity:             line.Quantity,
				OrderID:              &order.ID,
			})
			if mvErr != nil {
				if errors.Is(mvErr, ErrInvalidMovement) {
					return fmt.Errorf("%w: line %s no longer backed by stock: %v",
						ErrInsufficientInventory, line.ID, mvErr)
				}
				return mvErr
			}
		}

		if err := s.orderRepo.UpdateStatus(txCtx, orderID, model.OrderStatusProcessing); err != nil {
			return asDomainErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

// Deliver moves PROCESSING -> DELIVERED. Stock was already consumed at
// confirmation, so this is a pure status flip.
func (s *orderService) Deliver(ctx context.Context, orderID int64) (*model.Order, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("order %d: %w", orderID, asDomainErr(err))
		}
		if !model.CanTransitionOrder(order.Status, model.OrderStatusDelivered) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, model.OrderStatusDelivered)
		}
		if err := s.orderRepo.UpdateStatus(txCtx, orderID, model.OrderStatusDelivered); err != nil {
			return asDomainErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

// Cancel moves NEW or PROCESSING -> CANCELLED. Cancelling a NEW order only
// releases its soft reservation; cancelling a PROCESSING order restores the
// debited stock with compensating destination-only movements.
func (s *orderService) Cancel(ctx context.Context, orderID int64) (*model.Order, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("order %d: %w", orderID, asDomainErr(err))
		}
		if !model.CanTransitionOrder(order.Status, model.OrderStatusCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, model.OrderStatusCancelled)
		}

		if order.Status == model.OrderStatusProcessing {
			for _, line := range order.Positions {
				ip, ipErr := s.itemPositionRepo.FindByID(txCtx, line.ItemPositionID)
				if ipErr != nil {
					return fmt.Errorf("item position %d: %w", line.ItemPositionID, asDomainErr(ipErr))
				}

				positionID := ip.PositionID
				_, mvErr := s.ledger.RecordMovementInTx(txCtx, MovementRequest{
					DestinationPositionID: &positionID,
					DestinationBranchID:   &order.BranchID,
					ItemID:                ip.ItemID,
					Quantity:              line.Quantity,
					OrderID:               &order.ID,
				})
				if mvErr != nil {
					return mvErr
				}
			}
		}

		if err := s.orderRepo.UpdateStatus(txCtx, orderID, model.OrderStatusCancelled); err != nil {
			return asDomainErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}
