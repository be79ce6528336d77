package models

import "time"

// ChangeEntry é o histórico de alterações do prontuário. Append-only: nunca
// é atualizado ou removido, exceto em cascata com o próprio cliente.
type ChangeEntry struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClientID uint `gorm:"not null;index" json:"client_id"`

	ChangedBy string `gorm:"size:100;not null" json:"changed_by"`
	Field     string `gorm:"size:100;not null" json:"field"`
	OldValue  string `gorm:"size:255" json:"old_value"`
	NewValue  string `gorm:"size:255" json:"new_value"`

	CreatedAt time.Time `json:"created_at"`
}

// Campo usado nas entradas de vínculo de estagiário.
const ChangeFieldAssignedIntern = "Estagiário Vinculado"

// Valor exibido quando não há estagiário vinculado.
const NoInternValue = "Nenhum"
