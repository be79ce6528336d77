package schedule

import "github.com/ClinicaVidaNova/clinic-scheduler/internal/models"

// ResolveAssignee centraliza a regra de atribuição na criação de um
// agendamento: seleção explícita vence; sem seleção, funcionário e
// estagiário assumem o próprio agendamento; coordenador sem seleção deixa
// sem responsável.
func ResolveAssignee(acting *models.User, selected *models.User) *models.User {
	if selected != nil {
		return selected
	}
	if acting.IsStaff() || acting.IsIntern() {
		return acting
	}
	return nil
}
