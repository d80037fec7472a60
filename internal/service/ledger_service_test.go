package service

import (
	"context"
	"testing"
	"time"

	"github.com/Xabartshik/TaskControl-sub001/internal/model"
	"github.com/Xabartshik/TaskControl-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMovementTransfer(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	branch := f.seedBranch()
	item := f.seedItem()
	srcPos := f.seedPosition(branch.ID)
	dstPos := f.seedPosition(branch.ID)
	src := f.seedItemPosition(item.ID, srcPos.ID, 10)

	movement, err := f.ledger.RecordMovement(ctx, MovementRequest{
		SourceItemPositionID:  &src.ID,
		DestinationPositionID: &dstPos.ID,
		SourceBranchID:        &branch.ID,
		DestinationBranchID:   &branch.ID,
		Quantity:              4,
	})
	require.NoError(t, err)
	require.NotNil(t, movement)
	assert.Equal(t, item.ID, movement.ItemID)
	assert.Equal(t, 4, movement.Quantity)

	assert.Equal(t, 6, f.itemPositionRepo.quantity(src.ID))

	dst, err := f.itemPositionRepo.FindByItemAndPositionForUpdate(ctx, item.ID, dstPos.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, dst.Quantity)

	// A second transfer for more than the remainder must fail and leave both
	// balances untouched.
	_, err = f.ledger.RecordMovement(ctx, MovementRequest{
		SourceItemPositionID:  &src.ID,
		DestinationPositionID: &dstPos.ID,
		Quantity:              10,
	})
	require.ErrorIs(t, err, ErrInvalidMovement)
	assert.Equal(t, 6, f.itemPositionRepo.quantity(src.ID))
	assert.Equal(t, 4, f.itemPositionRepo.quantity(dst.ID))
	assert.Equal(t, 1, f.movementRepo.count())
}

func TestRecordMovementTransferToExistingDestination(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	branch := f.seedBranch()
	item := f.seedItem()
	srcPos := f.seedPosition(branch.ID)
	dstPos := f.seedPosition(branch.ID)
	src := f.seedItemPosition(item.ID, srcPos.ID, 10)
	dst := f.seedItemPosition(item.ID, dstPos.ID, 3)

	_, err := f.ledger.RecordMovement(ctx, MovementRequest{
		SourceItemPositionID:  &src.ID,
		DestinationPositionID: &dstPos.ID,
		Quantity:              5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, f.itemPositionRepo.quantity(src.ID))
	assert.Equal(t, 8, f.itemPositionRepo.quantity(dst.ID))
}

func TestRecordMovementInitialStocking(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	branch := f.seedBranch()
	item := f.seedItem()
	pos := f.seedPosition(branch.ID)

	movement, err := f.ledger.RecordMovement(ctx, MovementRequest{
		DestinationPositionID: &pos.ID,
		DestinationBranchID:   &branch.ID,
		ItemID:                item.ID,
		Quantity:              7,
	})
	require.NoError(t, err)
	assert.Nil(t, movement.SourceItemPositionID)

	ip, err := f.itemPositionRepo.FindByItemAndPositionForUpdate(ctx, item.ID, pos.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, ip.Quantity)
}

func TestRecordMovementRemoval(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	branch := f.seedBranch()
	item := f.seedItem()
	pos := f.seedPosition(branch.ID)
	src := f.seedItemPosition(item.ID, pos.ID, 5)

	_, err := f.ledger.RecordMovement(ctx, MovementRequest{
		SourceItemPositionID: &src.ID,
		Quantity:             5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.itemPositionRepo.quantity(src.ID))
}

func TestRecordMovementValidation(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	branch := f.seedBranch()
	item := f.seedItem()
	pos := f.seedPosition(branch.ID)
	src := f.seedItemPosition(item.ID, pos.ID, 5)

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{
			SourceItemPositionID: &src.ID,
			Quantity:             0,
		})
		assert.ErrorIs(t, err, ErrInvalidMovement)
	})

	t.Run("no endpoints", func(t *testing.T) {
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{Quantity: 1})
		assert.ErrorIs(t, err, ErrInvalidMovement)
	})

	t.Run("stocking without item", func(t *testing.T) {
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{
			DestinationPositionID: &pos.ID,
			Quantity:              1,
		})
		assert.ErrorIs(t, err, ErrInvalidMovement)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{
			DestinationPositionID: &pos.ID,
			ItemID:                999,
			Quantity:              1,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown source", func(t *testing.T) {
		missing := int64(999)
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{
			SourceItemPositionID: &missing,
			Quantity:             1,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown destination position", func(t *testing.T) {
		missing := int64(999)
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{
			SourceItemPositionID:  &src.ID,
			DestinationPositionID: &missing,
			Quantity:              1,
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 5, f.itemPositionRepo.quantity(src.ID))
	})

	t.Run("unknown branch", func(t *testing.T) {
		missing := int64(999)
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{
			SourceItemPositionID: &src.ID,
			SourceBranchID:       &missing,
			Quantity:             1,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("item mismatch", func(t *testing.T) {
		other := f.seedItem()
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{
			SourceItemPositionID:  &src.ID,
			DestinationPositionID: &pos.ID,
			ItemID:                other.ID,
			Quantity:              1,
		})
		assert.ErrorIs(t, err, ErrInvalidMovement)
	})

	t.Run("same item position on both ends", func(t *testing.T) {
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{
			SourceItemPositionID:  &src.ID,
			DestinationPositionID: &pos.ID,
			Quantity:              1,
		})
		assert.ErrorIs(t, err, ErrInvalidMovement)
	})

	assert.Equal(t, 0, f.movementRepo.count())
}

func TestStatusHistory(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	branch := f.seedBranch()
	item := f.seedItem()
	pos := f.seedPosition(branch.ID)
	ip := f.seedItemPosition(item.ID, pos.ID, 10)

	_, err := f.ledger.GetCurrentStatus(ctx, ip.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := f.ledger.AppendStatus(ctx, ip.ID, AppendStatusRequest{
		Status:   model.ItemStatusAvailable,
		Quantity: 10,
	})
	require.NoError(t, err)

	current, err := f.ledger.GetCurrentStatus(ctx, ip.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusAvailable, current.Status)

	// A backdated entry must not displace the current status.
	require.NoError(t, f.statusRepo.Append(ctx, &model.ItemStatus{
		ItemPositionID: ip.ID,
		Status:         model.ItemStatusDamaged,
		StatusDate:     first.StatusDate.Add(-time.Hour),
		Quantity:       2,
	}))

	current, err = f.ledger.GetCurrentStatus(ctx, ip.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusAvailable, current.Status)

	// The as-of lookup sees the backdated entry at its own instant.
	asOf, err := f.ledger.GetStatusAsOf(ctx, ip.ID, first.StatusDate.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusDamaged, asOf.Status)

	history, total, err := f.ledger.ListStatusHistory(ctx, ip.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, history, 2)

	_, err = f.ledger.AppendStatus(ctx, 999, AppendStatusRequest{Status: model.ItemStatusDamaged})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAvailableQuantity(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	branch := f.seedBranch()
	item := f.seedItem()
	pos := f.seedPosition(branch.ID)
	ip := f.seedItemPosition(item.ID, pos.ID, 10)

	available, err := f.ledger.GetAvailableQuantity(ctx, ip.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, available)

	order, err := f.orders.CreateOrder(ctx, CreateOrderRequest{
		CustomerID: 1, BranchID: branch.ID, Type: model.OrderTypeOnline,
	})
	require.NoError(t, err)
	_, err = f.orders.AddOrderPosition(ctx, order.ID, AddOrderPositionRequest{
		ItemPositionID: ip.ID, Quantity: 6,
	})
	require.NoError(t, err)

	available, err = f.ledger.GetAvailableQuantity(ctx, ip.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, available)

	_, err = f.ledger.GetAvailableQuantity(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMovementsByItem(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	branch := f.seedBranch()
	item := f.seedItem()
	other := f.seedItem()
	pos := f.seedPosition(branch.ID)

	for _, id := range []int64{item.ID, other.ID} {
		_, err := f.ledger.RecordMovement(ctx, MovementRequest{
			DestinationPositionID: &pos.ID,
			ItemID:                id,
			Quantity:              3,
		})
		require.NoError(t, err)
	}

	movements, total, err := f.ledger.ListMovements(ctx, repository.MovementFilter{ItemID: &item.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, movements, 1)
	assert.Equal(t, item.ID, movements[0].ItemID)
}
