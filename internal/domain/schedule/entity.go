package schedule

import (
	"strings"
	"time"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel move o agendamento para cancelado e carimba os metadados de
// cancelamento. Invariante: os campos de cancelamento só existem nesse estado.
func Cancel(s *models.Schedule, reason, imageURL, actor string, now time.Time) error {
	if err := CanCancel(Status(s.Status)); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return httperr.Validation("reason", "motivo do cancelamento é obrigatório")
	}

	s.Status = string(StatusCancelled)
	s.CancelReason = reason
	s.CancelImageURL = imageURL
	s.CancelledAt = &now
	s.CancelledBy = actor
	return nil
}

// Complete move o agendamento para concluido, vinculando o atendimento
// produzido. Invariante: AttendanceID é preenchido se e somente se o status
// é concluido.
func Complete(s *models.Schedule, attendanceID uint, now time.Time) error {
	if err := CanConfirm(Status(s.Status)); err != nil {
		return err
	}

	s.Status = string(StatusCompleted)
	s.AttendanceID = &attendanceID
	s.ConfirmedAt = &now
	return nil
}

// Assign atualiza o responsável pelo agendamento com snapshot do nome.
func Assign(s *models.Schedule, u *models.User) {
	s.AssignedToUserID = &u.ID
	s.AssignedToUserName = u.Name
}
