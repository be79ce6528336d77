package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Appointment registra um atendimento concluído. Pertence a um cliente e
// pode ter sido produzido pela confirmação de um Schedule (um agendamento
// produz no máximo um atendimento) ou lançado diretamente como histórico.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"not null;index" json:"client_id"`

	Date        string `gorm:"size:10;not null" json:"date"`
	Time        string `gorm:"size:5" json:"time"`
	ServiceType string `gorm:"size:100" json:"service_type"`
	Notes       string `gorm:"type:text" json:"notes"`

	Value         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"value"`
	DurationHours decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"duration_hours"`

	// AttendedBy é texto livre; InternID aponta para quem de fato atendeu,
	// quando foi um estagiário.
	AttendedBy string `gorm:"size:100" json:"attended_by"`
	InternID   *uint  `gorm:"index" json:"intern_id"`

	Status      string     `gorm:"size:20;not null;default:'concluido'" json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at"`

	MaterialsUsed []MaterialUsage         `gorm:"constraint:OnDelete:CASCADE;" json:"materials_used,omitempty"`
	Attachments   []AppointmentAttachment `gorm:"constraint:OnDelete:CASCADE;" json:"attachments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaterialUsage guarda o nome do item no momento do uso; a linha sobrevive
// à exclusão do item de estoque.
type MaterialUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	AppointmentID uint   `gorm:"not null;index" json:"appointment_id"`
	ItemID        uint   `gorm:"not null" json:"item_id"`
	ItemName      string `gorm:"size:100;not null" json:"item_name"`
	QuantityUsed  int    `gorm:"not null" json:"quantity_used"`
	Unit          string `gorm:"size:20;not null;default:'unidade'" json:"unit"`
}

type AppointmentAttachment struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	AppointmentID uint   `gorm:"not null;index" json:"appointment_id"`
	FileName      string `gorm:"size:255;not null" json:"file_name"`
	StorageKey    string `gorm:"size:255" json:"storage_key"`
	URL           string `gorm:"size:500" json:"url"`

	CreatedAt time.Time `json:"created_at"`
}
