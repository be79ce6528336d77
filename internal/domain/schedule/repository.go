package schedule

import (
	"context"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

// Repository reúne tudo que o ciclo de vida de um agendamento toca: o
// agendamento em si, o cliente (vínculo de estagiário + histórico), o
// atendimento produzido na confirmação e o estoque consumido por ela.
//
// InTx executa fn com um Repository amarrado a uma transação; os métodos
// *ForUpdate travam a linha para releitura no commit.
type Repository interface {
	// -------- Schedule --------
	GetSchedule(ctx context.Context, id uint) (*models.Schedule, error)

	GetScheduleForUpdate(ctx context.Context, id uint) (*models.Schedule, error)

	CreateSchedule(ctx context.Context, s *models.Schedule) error

	UpdateSchedule(ctx context.Context, s *models.Schedule) error

	ListSchedulesByDate(
		ctx context.Context,
		date string,
		assignedTo *uint,
	) ([]models.Schedule, error)

	ListSchedulesByMonth(
		ctx context.Context,
		year int,
		month int,
		assignedTo *uint,
	) ([]models.Schedule, error)

	// -------- Client / assignment --------
	GetClient(ctx context.Context, id uint) (*models.Client, error)

	UpdateClient(ctx context.Context, c *models.Client) error

	CreateChangeEntry(ctx context.Context, e *models.ChangeEntry) error

	// -------- User --------
	GetUser(ctx context.Context, id uint) (*models.User, error)

	// -------- Appointment (produced by confirm) --------
	CreateAppointment(ctx context.Context, a *models.Appointment) error

	// -------- Stock (consumed by confirm) --------
	GetStockItem(ctx context.Context, id uint) (*models.StockItem, error)

	GetStockItemForUpdate(ctx context.Context, id uint) (*models.StockItem, error)

	UpdateStockItem(ctx context.Context, item *models.StockItem) error

	CreateStockMovement(ctx context.Context, m *models.StockMovement) error

	// -------- Transaction --------
	InTx(ctx context.Context, fn func(Repository) error) error
}
