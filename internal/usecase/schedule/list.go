package schedule

import (
	"context"

	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

type ListSchedules struct {
	repo domain.Repository
}

func NewListSchedules(repo domain.Repository) *ListSchedules {
	return &ListSchedules{repo: repo}
}

// Estagiários enxergam apenas os próprios agendamentos; coordenador e
// funcionário enxergam todos.
func visibilityFilter(acting *models.User) *uint {
	if acting.IsIntern() {
		return &acting.ID
	}
	return nil
}

func (uc *ListSchedules) ByDate(
	ctx context.Context,
	acting *models.User,
	date string,
) ([]models.Schedule, error) {

	if date == "" {
		return nil, httperr.Validation("date", "data é obrigatória")
	}

	return uc.repo.ListSchedulesByDate(ctx, date, visibilityFilter(acting))
}

func (uc *ListSchedules) ByMonth(
	ctx context.Context,
	acting *models.User,
	year int,
	month int,
) ([]models.Schedule, error) {

	if year < 2000 || year > 2100 {
		return nil, httperr.Validation("year", "ano inválido")
	}
	if month < 1 || month > 12 {
		return nil, httperr.Validation("month", "mês inválido")
	}

	return uc.repo.ListSchedulesByMonth(ctx, year, month, visibilityFilter(acting))
}
