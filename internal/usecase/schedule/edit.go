package schedule

import (
	"context"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type EditScheduleInput struct {
	ClientID     uint
	Date         string
	Time         string
	ServiceType  string
	Observations string
}

// ======================================================
// USE CASE
// ======================================================

type EditSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewEditSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *EditSchedule {
	return &EditSchedule{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute altera cliente, data, hora, serviço e observações de um
// agendamento não terminal. Nunca altera responsável nem status; estagiários
// não podem editar.
func (uc *EditSchedule) Execute(
	ctx context.Context,
	acting *models.User,
	scheduleID uint,
	in EditScheduleInput,
) (*models.Schedule, error) {

	if acting.IsIntern() {
		return nil, httperr.Permission("estagiários não podem editar agendamentos")
	}

	if err := validateScheduleFields(in.Date, in.Time, in.ServiceType); err != nil {
		return nil, err
	}

	var edited *models.Schedule

	err := uc.repo.InTx(ctx, func(r domain.Repository) error {

		s, err := r.GetScheduleForUpdate(ctx, scheduleID)
		if err != nil {
			return err
		}

		if err := domain.CanEdit(domain.Status(s.Status)); err != nil {
			return err
		}

		if in.ClientID != s.ClientID {
			if _, err := r.GetClient(ctx, in.ClientID); err != nil {
				if httperr.IsNotFound(err) {
					return httperr.Validation("client_id", "cliente não encontrado")
				}
				return err
			}
		}

		s.ClientID = in.ClientID
		s.Date = in.Date
		s.Time = in.Time
		s.ServiceType = in.ServiceType
		s.Observations = in.Observations

		if err := r.UpdateSchedule(ctx, s); err != nil {
			return err
		}

		edited = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "schedule_edited",
		Entity:   "schedule",
		EntityID: &edited.ID,
	})

	return edited, nil
}
