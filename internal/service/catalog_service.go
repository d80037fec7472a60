package service

import (
	"context"
	"fmt"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

// DTOs
type BranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=WAREHOUSE RETAIL TRANSIT"`
	Address string `json:"address"`
}

type ItemRequest struct {
	Weight decimal.Decimal `json:"weight" binding:"required"`
	Length decimal.Decimal `json:"length" binding:"required"`
	Width  decimal.Decimal `json:"width" binding:"required"`
	Height decimal.Decimal `json:"height" binding:"required"`
}

type PositionRequest struct {
	BranchID int64  `json:"branch_id" binding:"required"`
	Status   string `json:"status" binding:"omitempty,oneof=ACTIVE BLOCKED SERVICE"`
	Zone     string `json:"zone" binding:"required"`
	Rack     string `json:"rack" binding:"required"`
	Shelf    string `json:"shelf" binding:"required"`
	Cell     string `json:"cell" binding:"required"`

	Weight decimal.Decimal `json:"weight" binding:"required"`
	Length decimal.Decimal `json:"length" binding:"required"`
	Width  decimal.Decimal `json:"width" binding:"required"`
	Height decimal.Decimal `json:"height" binding:"required"`
}

// CatalogService covers administrative CRUD for the rarely-mutated entities:
// branches, items and storage positions.
type CatalogService interface {
	CreateBranch(ctx context.Context, req BranchRequest) (*model.Branch, error)
	GetBranch(ctx context.Context, id int64) (*model.Branch, error)
	ListBranches(ctx context.Context, page, limit int) ([]model.Branch, int64, error)
	UpdateBranch(ctx context.Context, id int64, req BranchRequest) (*model.Branch, error)
	DeleteBranch(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, req ItemRequest) (*model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	ListItems(ctx context.Context, page, limit int) ([]model.Item, int64, error)
	UpdateItem(ctx context.Context, id int64, req ItemRequest) (*model.Item, error)
	DeleteItem(ctx context.Context, id int64) error

	CreatePosition(ctx context.Context, req PositionRequest) (*model.Position, error)
	GetPosition(ctx context.Context, id int64) (*model.Position, error)
	ListPositions(ctx context.Context, filter repository.PositionFilter) ([]model.Position, int64, error)
	UpdatePosition(ctx context.Context, id int64, req PositionRequest) (*model.Position, error)
	DeletePosition(ctx context.Context, id int64) error
}

type catalogService struct {
	branchRepo   repository.BranchRepository
	itemRepo     repository.ItemRepository
	positionRepo repository.PositionRepository
}

func NewCatalogService(
	branchRepo repository.BranchRepository,
	itemRepo repository.ItemRepository,
	positionRepo repository.PositionRepository,
) CatalogService {
	return &catalogService{
		branchRepo:   branchRepo,
		itemRepo:     itemRepo,
		positionRepo: positionRepo,
	}
}

// --- Branches ---

func (s *catalogService) CreateBranch(ctx context.Context, req BranchRequest) (*model.Branch, error) {
	branch := &model.Branch{
		Name:    req.Name,
		Type:    req.Type,
		Address: req.Address,
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, asDomainErr(err)
	}
	return branch, nil
}

func (s *catalogService) GetBranch(ctx context.Context, id int64) (*model.Branch, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("branch %d: %w", id, asDomainErr(err))
	}
	return branch, nil
}

func (s *catalogService) ListBranches(ctx context.Context, page, limit int) ([]model.Branch, int64, error) {
	branches, total, err := s.branchRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, asDomainErr(err)
	}
	return branches, total, nil
}

func (s *catalogService) UpdateBranch(ctx context.Context, id int64, req BranchRequest) (*model.Branch, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("branch %d: %w", id, asDomainErr(err))
	}

	branch.Name = req.Name
	branch.Type = req.Type
	branch.Address = req.Address
	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, asDomainErr(err)
	}
	return branch, nil
}

func (s *catalogService) DeleteBranch(ctx context.Context, id int64) error {
	if _, err := s.branchRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("branch %d: %w", id, asDomainErr(err))
	}
	if err := s.branchRepo.Delete(ctx, id); err != nil {
		return asDomainErr(err)
	}
	return nil
}

// --- Items ---

func (s *catalogService) CreateItem(ctx context.Context, req ItemRequest) (*model.Item, error) {
	item := &model.Item{
		Weight: req.Weight,
		Length: req.Length,
		Width:  req.Width,
		Height: req.Height,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, asDomainErr(err)
	}
	return item, nil
}

func (s *catalogService) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", id, asDomainErr(err))
	}
	return item, nil
}

func (s *catalogService) ListItems(ctx context.Context, page, limit int) ([]model.Item, int64, error) {
	items, total, err := s.itemRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, asDomainErr(err)
	}
	return items, total, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id int64, req ItemRequest) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", id, asDomainErr(err))
	}

	item.Weight = req.Weight
	item.Length = req.Length
	item.Width = req.Width
	item.Height = req.Height
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, asDomainErr(err)
	}
	return item, nil
}

func (s *catalogService) DeleteItem(ctx context.Context, id int64) error {
	if _, err := s.itemRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("item %d: %w", id, asDomainErr(err))
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return asDomainErr(err)
	}
	return nil
}

// --- Positions ---

func (s *catalogService) CreatePosition(ctx context.Context, req PositionRequest) (*model.Position, error) {
	if _, err := s.branchRepo.FindByID(ctx, req.BranchID); err != nil {
		return nil, fmt.Errorf("branch %d: %w", req.BranchID, asDomainErr(err))
	}

	status := req.Status
	if status == "" {
		status = model.PositionStatusActive
	}

	position := &model.Position{
		BranchID: req.BranchID,
		Status:   status,
		Zone:     req.Zone,
		Rack:     req.Rack,
		Shelf:    req.Shelf,
		Cell:     req.Cell,
		Weight:   req.Weight,
		Length:   req.Length,
		Width:    req.Width,
		Height:   req.Height,
	}
	if err := s.positionRepo.Create(ctx, position); err != nil {
		return nil, asDomainErr(err)
	}
	return position, nil
}

func (s *catalogService) GetPosition(ctx context.Context, id int64) (*model.Position, error) {
	position, err := s.positionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("position %d: %w", id, asDomainErr(err))
	}
	return position, nil
}

func (s *catalogService) ListPositions(ctx context.Context, filter repository.PositionFilter) ([]model.Position, int64, error) {
	positions, total, err := s.positionRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, asDomainErr(err)
	}
	return positions, total, nil
}

func (s *catalogService) UpdatePosition(ctx context.Context, id int64, req PositionRequest) (*model.Position, error) {
	position, err := s.positionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("position %d: %w", id, asDomainErr(err))
	}
	if req.BranchID != position.BranchID {
		if _, err := s.branchRepo.FindByID(ctx, req.BranchID); err != nil {
			return nil, fmt.Errorf("branch %d: %w", req.BranchID, asDomainErr(err))
		}
	}

	position.BranchID = req.BranchID
	if req.Status != "" {
		position.Status = req.Status
	}
	position.Zone = req.Zone
	position.Rack = req.Rack
	position.Shelf = req.Shelf
	position.Cell = req.Cell
	position.Weight = req.Weight
	position.Length = req.Length
	position.Width = req.Width
	position.Height = req.Height
	if err := s.positionRepo.Update(ctx, position); err != nil {
		return nil, asDomainErr(err)
	}
	return position, nil
}

func (s *catalogService) DeletePosition(ctx context.Context, id int64) error {
	if _, err := s.positionRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("position %d: %w", id, asDomainErr(err))
	}
	if err := s.positionRepo.Delete(ctx, id); err != nil {
		return asDomainErr(err)
	}
	return nil
}
