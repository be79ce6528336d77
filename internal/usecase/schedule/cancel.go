package schedule

import (
	"context"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CancelScheduleInput struct {
	Reason   string
	ImageURL string
}

// ======================================================
// USE CASE
// ======================================================

type CancelSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelSchedule {
	return &CancelSchedule{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute cancela um agendamento. Nada foi consumido ainda, então não há
// efeito em estoque nem no vínculo de estagiário.
func (uc *CancelSchedule) Execute(
	ctx context.Context,
	acting *models.User,
	scheduleID uint,
	in CancelScheduleInput,
) (*models.Schedule, error) {

	var cancelled *models.Schedule

	err := uc.repo.InTx(ctx, func(r domain.Repository) error {

		s, err := r.GetScheduleForUpdate(ctx, scheduleID)
		if err != nil {
			return err
		}

		if err := canActOnSchedule(acting, s, "cancelar"); err != nil {
			return err
		}

		now := timezone.Now()
		if err := domain.Cancel(s, in.Reason, in.ImageURL, acting.Name, now); err != nil {
			return err
		}

		if err := r.UpdateSchedule(ctx, s); err != nil {
			return err
		}

		cancelled = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "schedule_cancelled",
		Entity:   "schedule",
		EntityID: &cancelled.ID,
	})

	return cancelled, nil
}

// canActOnSchedule aplica a regra comum de cancelar/confirmar: coordenador e
// funcionário sempre podem; estagiário só no agendamento atribuído a ele.
func canActOnSchedule(acting *models.User, s *models.Schedule, verb string) error {
	if !acting.IsIntern() {
		return nil
	}
	if s.AssignedToUserID != nil && *s.AssignedToUserID == acting.ID {
		return nil
	}
	return httperr.Permission("você só pode " + verb + " agendamentos atribuídos a você")
}
