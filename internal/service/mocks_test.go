package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. The tx manager just runs the closure: the
// services are written so that validation precedes writes, which is what the
// tests exercise.

type memTxManager struct{}

func (memTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- branches ---

type memBranchRepo struct {
	mu       sync.Mutex
	branches map[int64]model.Branch
	nextID   int64
}

func newMemBranchRepo() *memBranchRepo {
	return &memBranchRepo{branches: make(map[int64]model.Branch)}
}

func (r *memBranchRepo) Create(_ context.Context, branch *model.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	branch.ID = r.nextID
	r.branches[branch.ID] = *branch
	return nil
}

func (r *memBranchRepo) Update(_ context.Context, branch *model.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.branches[branch.ID] = *branch
	return nil
}

func (r *memBranchRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.branches, id)
	return nil
}

func (r *memBranchRepo) FindByID(_ context.Context, id int64) (*model.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	branch, ok := r.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &branch, nil
}

func (r *memBranchRepo) List(_ context.Context, page, limit int) ([]model.Branch, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Branch, 0, len(r.branches))
	for _, b := range r.branches {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

// --- items ---

type memItemRepo struct {
	mu     sync.Mutex
	items  map[int64]model.Item
	nextID int64
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[int64]model.Item)}
}

func (r *memItemRepo) Create(_ context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) Update(_ context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memItemRepo) FindByID(_ context.Context, id int64) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (r *memItemRepo) List(_ context.Context, page, limit int) ([]model.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Item, 0, len(r.items))
	for _, i := range r.items {
		out = append(out, i)
	}
	return out, int64(len(out)), nil
}

// --- positions ---

type memPositionRepo struct {
	mu        sync.Mutex
	positions map[int64]model.Position
	nextID    int64
}

func newMemPositionRepo() *memPositionRepo {
	return &memPositionRepo{positions: make(map[int64]model.Position)}
}

func (r *memPositionRepo) Create(_ context.Context, position *model.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	position.ID = r.nextID
	r.positions[position.ID] = *position
	return nil
}

func (r *memPositionRepo) Update(_ context.Context, position *model.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions[position.ID] = *position
	return nil
}

func (r *memPositionRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.positions, id)
	return nil
}

func (r *memPositionRepo) FindByID(_ context.Context, id int64) (*model.Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	position, ok := r.positions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &position, nil
}

func (r *memPositionRepo) List(_ context.Context, filter repository.PositionFilter) ([]model.Position, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Position, 0, len(r.positions))
	for _, p := range r.positions {
		if filter.BranchID != nil && p.BranchID != *filter.BranchID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

// --- item positions ---

type memItemPositionRepo struct {
	mu     sync.Mutex
	rows   map[int64]model.ItemPosition
	nextID int64
}

func newMemItemPositionRepo() *memItemPositionRepo {
	return &memItemPositionRepo{rows: make(map[int64]model.ItemPosition)}
}

func (r *memItemPositionRepo) Create(_ context.Context, ip *model.ItemPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ip.ID = r.nextID
	r.rows[ip.ID] = *ip
	return nil
}

func (r *memItemPositionRepo) Update(_ context.Context, ip *model.ItemPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[ip.ID] = *ip
	return nil
}

func (r *memItemPositionRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *memItemPositionRepo) FindByID(_ context.Context, id int64) (*model.ItemPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ip, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &ip, nil
}

func (r *memItemPositionRepo) FindByIDForUpdate(ctx context.Context, id int64) (*model.ItemPosition, error) {
	return r.FindByID(ctx, id)
}

func (r *memItemPositionRepo) FindByItemAndPositionForUpdate(_ context.Context, itemID, positionID int64) (*model.ItemPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ip := range r.rows {
		if ip.ItemID == itemID && ip.PositionID == positionID {
			found := ip
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memItemPositionRepo) UpdateQuantity(_ context.Context, id int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ip, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ip.Quantity = quantity
	r.rows[id] = ip
	return nil
}

func (r *memItemPositionRepo) ListByPosition(_ context.Context, positionID int64) ([]model.ItemPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ItemPosition
	for _, ip := range r.rows {
		if ip.PositionID == positionID {
			out = append(out, ip)
		}
	}
	return out, nil
}

func (r *memItemPositionRepo) List(_ context.Context, page, limit int) ([]model.ItemPosition, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ItemPosition, 0, len(r.rows))
	for _, ip := range r.rows {
		out = append(out, ip)
	}
	return out, int64(len(out)), nil
}

func (r *memItemPositionRepo) quantity(id int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id].Quantity
}

// --- movements ---

type memMovementRepo struct {
	mu        sync.Mutex
	movements []model.ItemMovement
	nextID    int64
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (r *memMovementRepo) Create(_ context.Context, movement *model.ItemMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	movement.ID = r.nextID
	movement.CreatedAt = time.Now()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) FindByID(_ context.Context, id int64) (*model.ItemMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]model.ItemMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ItemMovement
	for _, m := range r.movements {
		if filter.ItemID != nil && m.ItemID != *filter.ItemID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *memMovementRepo) ListByOrder(_ context.Context, orderID int64) ([]model.ItemMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ItemMovement
	for _, m := range r.movements {
		if m.OrderID != nil && *m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

// --- statuses ---

type memStatusRepo struct {
	mu       sync.Mutex
	statuses []model.ItemStatus
	nextID   int64
}

func newMemStatusRepo() *memStatusRepo {
	return &memStatusRepo{}
}

func (r *memStatusRepo) Append(_ context.Context, status *model.ItemStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	status.ID = r.nextID
	r.statuses = append(r.statuses, *status)
	return nil
}

func (r *memStatusRepo) FindLatest(_ context.Context, itemPositionID int64) (*model.ItemStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.ItemStatus
	for i := range r.statuses {
		s := r.statuses[i]
		if s.ItemPositionID != itemPositionID {
			continue
		}
		if latest == nil || s.StatusDate.After(latest.StatusDate) ||
			(s.StatusDate.Equal(latest.StatusDate) && s.ID > latest.ID) {
			copied := s
			latest = &copied
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *memStatusRepo) FindAsOf(_ context.Context, itemPositionID int64, at time.Time) (*model.ItemStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.ItemStatus
	for i := range r.statuses {
		s := r.statuses[i]
		if s.ItemPositionID != itemPositionID || s.StatusDate.After(at) {
			continue
		}
		if latest == nil || s.StatusDate.After(latest.StatusDate) ||
			(s.StatusDate.Equal(latest.StatusDate) && s.ID > latest.ID) {
			copied := s
			latest = &copied
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *memStatusRepo) ListByItemPosition(_ context.Context, itemPositionID int64, page, limit int) ([]model.ItemStatus, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ItemStatus
	for _, s := range r.statuses {
		if s.ItemPositionID == itemPositionID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StatusDate.After(out[j].StatusDate) })
	return out, int64(len(out)), nil
}

// --- orders ---

type memOrderRepo struct {
	mu        sync.Mutex
	orders    map[int64]model.Order
	positions map[uuid.UUID]model.OrderPosition
	nextID    int64
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders:    make(map[int64]model.Order),
		positions: make(map[uuid.UUID]model.OrderPosition),
	}
}

func (r *memOrderRepo) Create(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = *order
	return nil
}

func (r *memOrderRepo) findLocked(id int64) (*model.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	order.Positions = nil
	for _, p := range r.positions {
		if p.OrderID == id {
			order.Positions = append(order.Positions, p)
		}
	}
	return &order, nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id int64) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(id)
}

func (r *memOrderRepo) FindByIDForUpdate(_ context.Context, id int64) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(id)
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

func (r *memOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for id := range r.orders {
		order, _ := r.findLocked(id)
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		out = append(out, *order)
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) CreatePosition(_ context.Context, pos *model.OrderPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pos.ID == uuid.Nil {
		pos.ID = uuid.New()
	}
	r.positions[pos.ID] = *pos
	return nil
}

func (r *memOrderRepo) FindPositionByID(_ context.Context, id uuid.UUID) (*model.OrderPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.positions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &pos, nil
}

func (r *memOrderRepo) DeletePosition(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.positions, id)
	return nil
}

func (r *memOrderRepo) SumReservedQuantity(_ context.Context, itemPositionID int64, statuses []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, pos := range r.positions {
		if pos.ItemPositionID != itemPositionID {
			continue
		}
		order, ok := r.orders[pos.OrderID]
		if !ok {
			continue
		}
		for _, s := range statuses {
			if order.Status == s {
				total += pos.Quantity
				break
			}
		}
	}
	return total, nil
}

// --- fixture ---

type ledgerFixture struct {
	branchRepo       *memBranchRepo
	itemRepo         *memItemRepo
	positionRepo     *memPositionRepo
	itemPositionRepo *memItemPositionRepo
	movementRepo     *memMovementRepo
	statusRepo       *memStatusRepo
	orderRepo        *memOrderRepo
	ledger           LedgerService
	orders           OrderService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		branchRepo:       newMemBranchRepo(),
		itemRepo:         newMemItemRepo(),
		positionRepo:     newMemPositionRepo(),
		itemPositionRepo: newMemItemPositionRepo(),
		movementRepo:     newMemMovementRepo(),
		statusRepo:       newMemStatusRepo(),
		orderRepo:        newMemOrderRepo(),
	}
	f.ledger = NewLedgerService(
		f.itemRepo, f.positionRepo, f.branchRepo,
		f.itemPositionRepo, f.movementRepo, f.statusRepo, f.orderRepo,
		memTxManager{}, nil,
	)
	f.orders = NewOrderService(f.orderRepo, f.branchRepo, f.itemPositionRepo, f.ledger, memTxManager{})
	return f
}

func (f *ledgerFixture) seedBranch() *model.Branch {
	branch := &model.Branch{Name: "Main warehouse", Type: model.BranchTypeWarehouse}
	_ = f.branchRepo.Create(context.Background(), branch)
	return branch
}

func (f *ledgerFixture) seedItem() *model.Item {
	item := &model.Item{}
	_ = f.itemRepo.Create(context.Background(), item)
	return item
}

func (f *ledgerFixture) seedPosition(branchID int64) *model.Position {
	position := &model.Position{
		BranchID: branchID,
		Status:   model.PositionStatusActive,
		Zone:     "A", Rack: "1", Shelf: "2", Cell: "3",
	}
	_ = f.positionRepo.Create(context.Background(), position)
	return position
}

func (f *ledgerFixture) seedItemPosition(itemID, positionID int64, quantity int) *model.ItemPosition {
	ip := &model.ItemPosition{ItemID: itemID, PositionID: positionID, Quantity: quantity}
	_ = f.itemPositionRepo.Create(context.Background(), ip)
	return ip
}
