package stock

import (
	"context"
	"strings"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/stock"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/shopspring/decimal"
)

// ======================================================
// LEDGER
// ======================================================

// Ledger é o único escritor de StockItem.Quantity. Toda alteração de
// quantidade gera exatamente uma StockMovement imutável, com snapshot do
// nome e do valor unitário do item no momento da operação.
type Ledger struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewLedger(repo domain.Repository, audit *audit.Dispatcher) *Ledger {
	return &Ledger{
		repo:  repo,
		audit: audit,
	}
}

// Writer é o subconjunto de escrita usado dentro de uma transação já aberta
// por outra operação (confirmação de atendimento). O Repository do ciclo de
// vida de agendamento satisfaz esta interface.
type Writer interface {
	GetStockItemForUpdate(ctx context.Context, id uint) (*models.StockItem, error)
	UpdateStockItem(ctx context.Context, item *models.StockItem) error
	CreateStockMovement(ctx context.Context, m *models.StockMovement) error
}

// ======================================================
// TX-SCOPED CORE
// ======================================================

// ConsumeTx debita o item dentro da transação do chamador. A linha do item
// é travada; quantidade insuficiente falha sem nenhuma escrita.
func ConsumeTx(
	ctx context.Context,
	w Writer,
	itemID uint,
	quantity int,
	reason string,
	actor string,
	scheduleID *uint,
) (*models.StockItem, error) {

	if quantity <= 0 {
		return nil, httperr.Validation("quantity", "quantidade deve ser positiva")
	}

	item, err := w.GetStockItemForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if quantity > item.Quantity {
		return nil, httperr.InsufficientStockError{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Requested: quantity,
			Available: item.Quantity,
		}
	}

	item.Quantity -= quantity
	if err := w.UpdateStockItem(ctx, item); err != nil {
		return nil, err
	}

	mv := &models.StockMovement{
		ItemID:        item.ID,
		ItemName:      item.Name,
		Type:          models.MovementOut,
		Quantity:      quantity,
		Reason:        reason,
		User:          actor,
		ScheduleID:    scheduleID,
		ItemUnitValue: item.UnitValue,
	}
	if err := w.CreateStockMovement(ctx, mv); err != nil {
		return nil, err
	}

	return item, nil
}

func receiveTx(
	ctx context.Context,
	w Writer,
	itemID uint,
	quantity int,
	reason string,
	actor string,
) (*models.StockItem, error) {

	if quantity <= 0 {
		return nil, httperr.Validation("quantity", "quantidade deve ser positiva")
	}

	item, err := w.GetStockItemForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity += quantity
	if err := w.UpdateStockItem(ctx, item); err != nil {
		return nil, err
	}

	mv := &models.StockMovement{
		ItemID:        item.ID,
		ItemName:      item.Name,
		Type:          models.MovementIn,
		Quantity:      quantity,
		Reason:        reason,
		User:          actor,
		ItemUnitValue: item.UnitValue,
	}
	if err := w.CreateStockMovement(ctx, mv); err != nil {
		return nil, err
	}

	return item, nil
}

// ======================================================
// OPERATIONS
// ======================================================

type MovementInput struct {
	ItemID   uint
	Quantity int
	Reason   string
	Actor    string
	ActorID  *uint
}

func (l *Ledger) Receive(ctx context.Context, in MovementInput) (*models.StockItem, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, httperr.Validation("reason", "motivo é obrigatório")
	}

	var item *models.StockItem
	err := l.repo.InTx(ctx, func(r domain.Repository) error {
		var err error
		item, err = receiveTx(ctx, r, in.ItemID, in.Quantity, in.Reason, in.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "stock_received",
		Entity:   "stock_item",
		EntityID: &item.ID,
		Metadata: map[string]any{"quantity": in.Quantity},
	})

	return item, nil
}

func (l *Ledger) Consume(ctx context.Context, in MovementInput) (*models.StockItem, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, httperr.Validation("reason", "motivo é obrigatório")
	}

	var item *models.StockItem
	err := l.repo.InTx(ctx, func(r domain.Repository) error {
		var err error
		item, err = ConsumeTx(ctx, r, in.ItemID, in.Quantity, in.Reason, in.Actor, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "stock_consumed",
		Entity:   "stock_item",
		EntityID: &item.ID,
		Metadata: map[string]any{"quantity": in.Quantity},
	})

	return item, nil
}

// Adjust atende o ajuste manual da interface: delta positivo delega para
// Receive, negativo para Consume (com a mesma falha de saldo insuficiente).
func (l *Ledger) Adjust(ctx context.Context, in MovementInput, delta int) (*models.StockItem, error) {
	if delta == 0 {
		return nil, httperr.Validation("delta", "ajuste não pode ser zero")
	}

	if delta > 0 {
		in.Quantity = delta
		return l.Receive(ctx, in)
	}

	in.Quantity = -delta
	return l.Consume(ctx, in)
}

// ======================================================
// ITEM LIFECYCLE
// ======================================================

type AddItemInput struct {
	Name        string
	Category    string
	Quantity    int
	MinStock    int
	UnitValue   decimal.Decimal
	Description string
	Actor       string
	ActorID     *uint
}

// AddItem cria o item e registra a carga inicial como movimentação de
// entrada, para que o saldo seja sempre reconstruível pelo extrato.
func (l *Ledger) AddItem(ctx context.Context, in AddItemInput) (*models.StockItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, httperr.Validation("name", "nome é obrigatório")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, httperr.Validation("category", "categoria é obrigatória")
	}
	if in.Quantity < 0 || in.MinStock < 0 {
		return nil, httperr.Validation("quantity", "quantidades não podem ser negativas")
	}
	if in.UnitValue.IsNegative() {
		return nil, httperr.Validation("unit_value", "valor unitário não pode ser negativo")
	}

	item := &models.StockItem{
		Name:        in.Name,
		Category:    in.Category,
		Quantity:    in.Quantity,
		MinStock:    in.MinStock,
		Unit:        "unidade",
		UnitValue:   in.UnitValue,
		Description: in.Description,
		CreatedBy:   in.Actor,
	}

	err := l.repo.InTx(ctx, func(r domain.Repository) error {
		if err := r.CreateStockItem(ctx, item); err != nil {
			return err
		}

		if item.Quantity == 0 {
			return nil
		}

		return r.CreateStockMovement(ctx, &models.StockMovement{
			ItemID:        item.ID,
			ItemName:      item.Name,
			Type:          models.MovementIn,
			Quantity:      item.Quantity,
			Reason:        "Adição inicial de estoque",
			User:          in.Actor,
			ItemUnitValue: item.UnitValue,
		})
	})
	if err != nil {
		return nil, err
	}

	l.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "stock_item_added",
		Entity:   "stock_item",
		EntityID: &item.ID,
	})

	return item, nil
}

// RemoveItem exclui o item registrando antes uma movimentação de exclusão
// com a quantidade e o valor unitário do momento. As movimentações antigas
// permanecem, com seus snapshots.
func (l *Ledger) RemoveItem(ctx context.Context, itemID uint, actor string, actorID *uint) error {
	err := l.repo.InTx(ctx, func(r domain.Repository) error {
		item, err := r.GetStockItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		mv := &models.StockMovement{
			ItemID:        item.ID,
			ItemName:      item.Name,
			Type:          models.MovementDeletion,
			Quantity:      item.Quantity,
			Reason:        "Item excluído do estoque",
			User:          actor,
			ItemUnitValue: item.UnitValue,
		}
		if err := r.CreateStockMovement(ctx, mv); err != nil {
			return err
		}

		return r.DeleteStockItem(ctx, item.ID)
	})
	if err != nil {
		return err
	}

	l.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "stock_item_removed",
		Entity:   "stock_item",
		EntityID: &itemID,
	})

	return nil
}
