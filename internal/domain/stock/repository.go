package stock

import (
	"context"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

type MovementFilter struct {
	ItemID *uint
	Type   string
	Year   int
	Month  int
	Limit  int
}

// Repository é a fronteira de persistência do estoque. Os nomes dos métodos
// de escrita coincidem com os do Repository de agendamento para que a
// confirmação de atendimento consuma estoque dentro da própria transação.
type Repository interface {
	// -------- Items --------
	GetStockItem(ctx context.Context, id uint) (*models.StockItem, error)

	GetStockItemForUpdate(ctx context.Context, id uint) (*models.StockItem, error)

	CreateStockItem(ctx context.Context, item *models.StockItem) error

	UpdateStockItem(ctx context.Context, item *models.StockItem) error

	DeleteStockItem(ctx context.Context, id uint) error

	ListStockItems(ctx context.Context) ([]models.StockItem, error)

	// -------- Movements (append-only) --------
	CreateStockMovement(ctx context.Context, m *models.StockMovement) error

	ListStockMovements(
		ctx context.Context,
		filter MovementFilter,
	) ([]models.StockMovement, error)

	// -------- Transaction --------
	InTx(ctx context.Context, fn func(Repository) error) error
}
