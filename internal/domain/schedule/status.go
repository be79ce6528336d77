package schedule

import "github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"

// ===============================
// Schedule Status
// ===============================

type Status string

const (
	StatusScheduled Status = "agendado"
	StatusCompleted Status = "concluido"
	StatusCancelled Status = "cancelado"
)

// agendado é o único estado não terminal. Confirmar leva direto a concluido;
// não existe estado intermediário "confirmado" persistido.

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.Conflict("agendamento não pode mais ser cancelado")
	}
	return nil
}

func CanConfirm(current Status) error {
	if current != StatusScheduled {
		return httperr.Conflict("agendamento não pode mais ser confirmado")
	}
	return nil
}

func CanEdit(current Status) error {
	if current != StatusScheduled {
		return httperr.Conflict("agendamento concluído ou cancelado não pode ser editado")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
