package stock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/stock"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

// ── In-memory stock Repository stub ────────────────────────────────────────

type stubStockRepo struct {
	items     map[uint]*models.StockItem
	movements []models.StockMovement
	nextID    uint
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{
		items:  make(map[uint]*models.StockItem),
		nextID: 1,
	}
}

func (r *stubStockRepo) addItem(i models.StockItem) *models.StockItem {
	if i.ID == 0 {
		i.ID = r.nextID
		r.nextID++
	}
	r.items[i.ID] = &i
	return &i
}

func (r *stubStockRepo) GetStockItem(_ context.Context, id uint) (*models.StockItem, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, httperr.NotFoundErr("item de estoque", id)
	}
	cp := *i
	return &cp, nil
}

func (r *stubStockRepo) GetStockItemForUpdate(ctx context.Context, id uint) (*models.StockItem, error) {
	return r.GetStockItem(ctx, id)
}

func (r *stubStockRepo) CreateStockItem(_ context.Context, item *models.StockItem) error {
	if item.ID == 0 {
		item.ID = r.nextID
		r.nextID++
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *stubStockRepo) UpdateStockItem(_ context.Context, item *models.StockItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *stubStockRepo) DeleteStockItem(_ context.Context, id uint) error {
	delete(r.items, id)
	return nil
}

func (r *stubStockRepo) ListStockItems(_ context.Context) ([]models.StockItem, error) {
	var out []models.StockItem
	for _, i := range r.items {
		out = append(out, *i)
	}
	return out, nil
}

func (r *stubStockRepo) CreateStockMovement(_ context.Context, m *models.StockMovement) error {
	if m.ID == 0 {
		m.ID = r.nextID
		r.nextID++
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubStockRepo) ListStockMovements(_ context.Context, filter domain.MovementFilter) ([]models.StockMovement, error) {
	var out []models.StockMovement
	for _, m := range r.movements {
		if filter.ItemID != nil && m.ItemID != *filter.ItemID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// InTx roda fn sobre uma cópia e só aplica no sucesso, imitando o rollback.
func (r *stubStockRepo) InTx(_ context.Context, fn func(domain.Repository) error) error {
	tx := &stubStockRepo{
		items:  make(map[uint]*models.StockItem, len(r.items)),
		nextID: r.nextID,
	}
	for id, i := range r.items {
		cp := *i
		tx.items[id] = &cp
	}
	tx.movements = append(tx.movements, r.movements...)

	if err := fn(tx); err != nil {
		return err
	}
	*r = *tx
	return nil
}

var _ domain.Repository = (*stubStockRepo)(nil)

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(nil))
}

// ── Tests ────────────────────────────────────────

func TestLedger_ReceiveIncrementsAndRecords(t *testing.T) {
	repo := newStubStockRepo()
	gaze := repo.addItem(models.StockItem{
		Name:      "Gaze",
		Quantity:  5,
		UnitValue: decimal.RequireFromString("2.50"),
	})

	ledger := NewLedger(repo, testDispatcher())

	item, err := ledger.Receive(context.Background(), MovementInput{
		ItemID:   gaze.ID,
		Quantity: 10,
		Reason:   "Compra mensal",
		Actor:    "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, item.Quantity)

	require.Len(t, repo.movements, 1)
	mv := repo.movements[0]
	assert.Equal(t, models.MovementIn, mv.Type)
	assert.Equal(t, 10, mv.Quantity)
	assert.Equal(t, "Compra mensal", mv.Reason)
	assert.Equal(t, "Gaze", mv.ItemName)
	assert.Equal(t, "Ana", mv.User)
	assert.True(t, mv.ItemUnitValue.Equal(decimal.RequireFromString("2.50")))
}

func TestLedger_ConsumeDecrementsAndRecords(t *testing.T) {
	repo := newStubStockRepo()
	gaze := repo.addItem(models.StockItem{Name: "Gaze", Quantity: 5})

	ledger := NewLedger(repo, testDispatcher())

	item, err := ledger.Consume(context.Background(), MovementInput{
		ItemID:   gaze.ID,
		Quantity: 3,
		Reason:   "Uso interno",
		Actor:    "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	require.Len(t, repo.movements, 1)
	assert.Equal(t, models.MovementOut, repo.movements[0].Type)
	assert.Nil(t, repo.movements[0].ScheduleID)
}

func TestLedger_ConsumeBeyondBalanceFailsWithoutWrites(t *testing.T) {
	repo := newStubStockRepo()
	gaze := repo.addItem(models.StockItem{Name: "Gaze", Quantity: 2})

	ledger := NewLedger(repo, testDispatcher())

	_, err := ledger.Consume(context.Background(), MovementInput{
		ItemID:   gaze.ID,
		Quantity: 3,
		Reason:   "Uso interno",
		Actor:    "Ana",
	})
	require.Error(t, err)
	require.True(t, httperr.IsInsufficientStock(err))

	var stockErr httperr.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	stored, _ := repo.GetStockItem(context.Background(), gaze.ID)
	assert.Equal(t, 2, stored.Quantity)
	assert.Empty(t, repo.movements)
}

func TestLedger_MovementsRequireReasonAndPositiveQuantity(t *testing.T) {
	repo := newStubStockRepo()
	gaze := repo.addItem(models.StockItem{Name: "Gaze", Quantity: 5})

	ledger := NewLedger(repo, testDispatcher())

	_, err := ledger.Receive(context.Background(), MovementInput{ItemID: gaze.ID, Quantity: 1})
	assert.True(t, httperr.IsValidation(err))

	_, err = ledger.Consume(context.Background(), MovementInput{ItemID: gaze.ID, Quantity: 1})
	assert.True(t, httperr.IsValidation(err))

	_, err = ledger.Receive(context.Background(), MovementInput{ItemID: gaze.ID, Quantity: 0, Reason: "x"})
	assert.True(t, httperr.IsValidation(err))

	_, err = ledger.Consume(context.Background(), MovementInput{ItemID: gaze.ID, Quantity: -2, Reason: "x"})
	assert.True(t, httperr.IsValidation(err))

	assert.Empty(t, repo.movements)
}

func TestLedger_AdjustDelegatesBySign(t *testing.T) {
	repo := newStubStockRepo()
	gaze := repo.addItem(models.StockItem{Name: "Gaze", Quantity: 5})

	ledger := NewLedger(repo, testDispatcher())

	item, err := ledger.Adjust(context.Background(), MovementInput{
		ItemID: gaze.ID,
		Reason: "Ajuste de inventário",
		Actor:  "Ana",
	}, 4)
	require.NoError(t, err)
	assert.Equal(t, 9, item.Quantity)

	item, err = ledger.Adjust(context.Background(), MovementInput{
		ItemID: gaze.ID,
		Reason: "Ajuste de inventário",
		Actor:  "Ana",
	}, -6)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	_, err = ledger.Adjust(context.Background(), MovementInput{
		ItemID: gaze.ID,
		Reason: "Ajuste de inventário",
		Actor:  "Ana",
	}, 0)
	assert.True(t, httperr.IsValidation(err))

	require.Len(t, repo.movements, 2)
	assert.Equal(t, models.MovementIn, repo.movements[0].Type)
	assert.Equal(t, models.MovementOut, repo.movements[1].Type)
}

func TestLedger_AddItemRecordsInitialEntry(t *testing.T) {
	repo := newStubStockRepo()
	ledger := NewLedger(repo, testDispatcher())

	item, err := ledger.AddItem(context.Background(), AddItemInput{
		Name:      "Luva",
		Category:  "EPI",
		Quantity:  20,
		MinStock:  5,
		UnitValue: decimal.RequireFromString("1.20"),
		Actor:     "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)

	require.Len(t, repo.movements, 1)
	mv := repo.movements[0]
	assert.Equal(t, models.MovementIn, mv.Type)
	assert.Equal(t, 20, mv.Quantity)
	assert.Equal(t, "Adição inicial de estoque", mv.Reason)
}

func TestLedger_AddItemWithZeroQuantitySkipsMovement(t *testing.T) {
	repo := newStubStockRepo()
	ledger := NewLedger(repo, testDispatcher())

	item, err := ledger.AddItem(context.Background(), AddItemInput{
		Name:     "Álcool",
		Category: "Limpeza",
		Actor:    "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
	assert.Empty(t, repo.movements)
}

func TestLedger_AddItemValidation(t *testing.T) {
	repo := newStubStockRepo()
	ledger := NewLedger(repo, testDispatcher())

	cases := []AddItemInput{
		{Category: "EPI"},
		{Name: "Luva"},
		{Name: "Luva", Category: "EPI", Quantity: -1},
		{Name: "Luva", Category: "EPI", MinStock: -1},
		{Name: "Luva", Category: "EPI", UnitValue: decimal.RequireFromString("-1")},
	}
	for _, in := range cases {
		_, err := ledger.AddItem(context.Background(), in)
		assert.True(t, httperr.IsValidation(err))
	}
}

func TestLedger_RemoveItemRecordsDeletionMovement(t *testing.T) {
	repo := newStubStockRepo()
	gaze := repo.addItem(models.StockItem{
		Name:      "Gaze",
		Quantity:  7,
		UnitValue: decimal.RequireFromString("2.50"),
	})

	ledger := NewLedger(repo, testDispatcher())

	require.NoError(t, ledger.RemoveItem(context.Background(), gaze.ID, "Ana", nil))

	_, err := repo.GetStockItem(context.Background(), gaze.ID)
	assert.True(t, httperr.IsNotFound(err))

	// A exclusão deixa o rastro com a quantidade e o valor do momento.
	require.Len(t, repo.movements, 1)
	mv := repo.movements[0]
	assert.Equal(t, models.MovementDeletion, mv.Type)
	assert.Equal(t, 7, mv.Quantity)
	assert.Equal(t, "Item excluído do estoque", mv.Reason)
	assert.True(t, mv.ItemUnitValue.Equal(decimal.RequireFromString("2.50")))
}

func TestLedger_RemoveUnknownItemIsNotFound(t *testing.T) {
	repo := newStubStockRepo()
	ledger := NewLedger(repo, testDispatcher())

	err := ledger.RemoveItem(context.Background(), 42, "Ana", nil)
	assert.True(t, httperr.IsNotFound(err))
}
