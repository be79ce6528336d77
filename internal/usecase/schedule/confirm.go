package schedule

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/timezone"
	stockuc "github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/stock"
)

// ======================================================
// INPUT
// ======================================================

type MaterialLine struct {
	ItemID   uint
	Quantity int
}

type AttachmentInput struct {
	FileName   string
	StorageKey string
	URL        string
}

type ConfirmScheduleInput struct {
	ProfessionalName string
	Observations     string
	Value            decimal.Decimal
	DurationHours    decimal.Decimal
	Materials        []MaterialLine
	Attachments      []AttachmentInput
}

// ======================================================
// USE CASE
// ======================================================

// ConfirmSchedule é o único caminho que produz um atendimento a partir de um
// agendamento e o único que consome estoque. Tudo acontece em uma transação:
// releitura do status com a linha travada, débito de cada material e criação
// do atendimento — ou nada é gravado.
type ConfirmSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ConfirmSchedule {
	return &ConfirmSchedule{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ConfirmSchedule) Execute(
	ctx context.Context,
	acting *models.User,
	scheduleID uint,
	in ConfirmScheduleInput,
) (*models.Appointment, error) {

	if strings.TrimSpace(in.ProfessionalName) == "" {
		return nil, httperr.Validation("professional_name", "profissional responsável é obrigatório")
	}
	for _, line := range in.Materials {
		if line.Quantity <= 0 {
			return nil, httperr.Validation("materials", "quantidade de material deve ser positiva")
		}
	}

	var created *models.Appointment

	err := uc.repo.InTx(ctx, func(r domain.Repository) error {

		s, err := r.GetScheduleForUpdate(ctx, scheduleID)
		if err != nil {
			return err
		}

		if err := canActOnSchedule(acting, s, "confirmar"); err != nil {
			return err
		}

		// Recheca o status com a linha travada: uma confirmação ou
		// cancelamento concorrente vira ConflictError aqui.
		if err := domain.CanConfirm(domain.Status(s.Status)); err != nil {
			return err
		}

		client, err := r.GetClient(ctx, s.ClientID)
		if err != nil {
			return err
		}

		// Valida todas as linhas antes de debitar qualquer uma. Os itens
		// ficam travados até o commit, então a validação não envelhece.
		items := make([]*models.StockItem, len(in.Materials))
		for i, line := range in.Materials {
			item, err := r.GetStockItemForUpdate(ctx, line.ItemID)
			if err != nil {
				return err
			}
			if line.Quantity > item.Quantity {
				return httperr.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Requested: line.Quantity,
					Available: item.Quantity,
				}
			}
			items[i] = item
		}

		reason := "Atendimento - " + client.Name
		materials := make([]models.MaterialUsage, 0, len(in.Materials))
		for i, line := range in.Materials {
			if _, err := stockuc.ConsumeTx(
				ctx, r, line.ItemID, line.Quantity, reason, acting.Name, &s.ID,
			); err != nil {
				return err
			}
			materials = append(materials, models.MaterialUsage{
				ItemID:       items[i].ID,
				ItemName:     items[i].Name,
				QuantityUsed: line.Quantity,
				Unit:         items[i].Unit,
			})
		}

		now := timezone.Now()

		ap := &models.Appointment{
			ClientID:      client.ID,
			Date:          s.Date,
			Time:          s.Time,
			ServiceType:   s.ServiceType,
			Notes:         in.Observations,
			Value:         in.Value,
			DurationHours: in.DurationHours,
			AttendedBy:    in.ProfessionalName,
			InternID:      uc.resolveInternID(ctx, r, acting, s),
			Status:        string(domain.StatusCompleted),
			ConfirmedAt:   &now,
			MaterialsUsed: materials,
		}
		for _, at := range in.Attachments {
			ap.Attachments = append(ap.Attachments, models.AppointmentAttachment{
				FileName:   at.FileName,
				StorageKey: at.StorageKey,
				URL:        at.URL,
			})
		}

		if err := r.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := domain.Complete(s, ap.ID, now); err != nil {
			return err
		}
		if err := r.UpdateSchedule(ctx, s); err != nil {
			return err
		}

		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "schedule_confirmed",
		Entity:   "schedule",
		EntityID: &scheduleID,
		Metadata: map[string]any{"attendance_id": created.ID},
	})

	return created, nil
}

// resolveInternID determina quem de fato atendeu, para o prontuário: o
// responsável do agendamento quando é estagiário; sem responsável, o próprio
// ator quando é estagiário; caso contrário ninguém.
func (uc *ConfirmSchedule) resolveInternID(
	ctx context.Context,
	r domain.Repository,
	acting *models.User,
	s *models.Schedule,
) *uint {

	if s.AssignedToUserID != nil {
		assigned, err := r.GetUser(ctx, *s.AssignedToUserID)
		if err == nil && assigned.IsIntern() {
			return &assigned.ID
		}
		return nil
	}

	if acting.IsIntern() {
		return &acting.ID
	}

	return nil
}
