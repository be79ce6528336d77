package schedule

import (
	"context"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/assignment"
)

// ======================================================
// USE CASE
// ======================================================

type ReassignSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReassignSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ReassignSchedule {
	return &ReassignSchedule{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute redireciona um agendamento para outro profissional. Exclusivo do
// coordenador. Redirecionar para um estagiário atualiza o vínculo do
// cliente; para um funcionário, o vínculo de estagiário fica intocado.
// Redirecionar para o responsável atual é um no-op bem-sucedido.
func (uc *ReassignSchedule) Execute(
	ctx context.Context,
	acting *models.User,
	scheduleID uint,
	newAssigneeID uint,
) (*models.Schedule, error) {

	if !acting.IsCoordinator() {
		return nil, httperr.Permission("apenas coordenadores podem redirecionar agendamentos")
	}

	var reassigned *models.Schedule

	err := uc.repo.InTx(ctx, func(r domain.Repository) error {

		s, err := r.GetScheduleForUpdate(ctx, scheduleID)
		if err != nil {
			return err
		}

		if err := domain.CanEdit(domain.Status(s.Status)); err != nil {
			return err
		}

		assignee, err := r.GetUser(ctx, newAssigneeID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return httperr.Validation("assignee_user_id", "profissional não encontrado")
			}
			return err
		}
		if !assignee.IsStaff() && !assignee.IsIntern() {
			return httperr.Validation("assignee_user_id", "apenas funcionários e estagiários podem ser responsáveis")
		}

		if s.AssignedToUserID != nil && *s.AssignedToUserID == assignee.ID {
			reassigned = s
			return nil
		}

		if assignee.IsIntern() {
			client, err := r.GetClient(ctx, s.ClientID)
			if err != nil {
				return err
			}
			if _, err := assignment.Apply(ctx, r, client, assignee, acting.Name); err != nil {
				return err
			}
		}

		domain.Assign(s, assignee)

		if err := r.UpdateSchedule(ctx, s); err != nil {
			return err
		}

		reassigned = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "schedule_reassigned",
		Entity:   "schedule",
		EntityID: &reassigned.ID,
		Metadata: map[string]any{"assignee_user_id": newAssigneeID},
	})

	return reassigned, nil
}
