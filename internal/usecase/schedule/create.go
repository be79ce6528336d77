package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/assignment"
)

// ======================================================
// INPUT
// ======================================================

type CreateScheduleInput struct {
	ClientID       uint
	Date           string
	Time           string
	ServiceType    string
	Observations   string
	AssigneeUserID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateSchedule {
	return &CreateSchedule{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateSchedule) Execute(
	ctx context.Context,
	acting *models.User,
	in CreateScheduleInput,
) (*models.Schedule, error) {

	if err := validateScheduleFields(in.Date, in.Time, in.ServiceType); err != nil {
		return nil, err
	}

	var (
		created     *models.Schedule
		clientEmail string
	)

	err := uc.repo.InTx(ctx, func(r domain.Repository) error {

		client, err := r.GetClient(ctx, in.ClientID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return httperr.Validation("client_id", "cliente não encontrado")
			}
			return err
		}

		var selected *models.User
		if in.AssigneeUserID != nil {
			selected, err = r.GetUser(ctx, *in.AssigneeUserID)
			if err != nil {
				if httperr.IsNotFound(err) {
					return httperr.Validation("assignee_user_id", "profissional não encontrado")
				}
				return err
			}
		}

		assignee := domain.ResolveAssignee(acting, selected)

		s := &models.Schedule{
			ClientID:     client.ID,
			Date:         in.Date,
			Time:         in.Time,
			ServiceType:  in.ServiceType,
			Observations: in.Observations,
			Status:       string(domain.InitialStatus()),
		}
		if assignee != nil {
			domain.Assign(s, assignee)
		}

		if err := r.CreateSchedule(ctx, s); err != nil {
			return err
		}

		// Agendar com um estagiário atualiza o vínculo do cliente; o
		// tracker cuida do no-op e da entrada de histórico.
		if assignee != nil && assignee.IsIntern() {
			if _, err := assignment.Apply(ctx, r, client, assignee, acting.Name); err != nil {
				return err
			}
		}

		created = s
		clientEmail = client.Email
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "schedule_created",
		Entity:   "schedule",
		EntityID: &created.ID,
	})

	// O envio do e-mail de confirmação fica com um serviço externo; aqui só
	// registramos a intenção.
	if clientEmail != "" {
		log.Info().
			Uint("schedule_id", created.ID).
			Str("client_email", clientEmail).
			Msg("confirmação de agendamento pendente de envio")
	}

	return created, nil
}

// ======================================================
// VALIDATION
// ======================================================

func validateScheduleFields(date, timeStr, serviceType string) error {
	if strings.TrimSpace(date) == "" {
		return httperr.Validation("date", "data é obrigatória")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return httperr.Validation("date", "data inválida")
	}
	if strings.TrimSpace(timeStr) == "" {
		return httperr.Validation("time", "hora é obrigatória")
	}
	if _, err := time.Parse("15:04", timeStr); err != nil {
		return httperr.Validation("time", "hora inválida")
	}
	if strings.TrimSpace(serviceType) == "" {
		return httperr.Validation("service_type", "tipo de serviço é obrigatório")
	}
	return nil
}
