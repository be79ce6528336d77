package models

import "time"

// Schedule é um horário agendado, anterior ao atendimento.
//
// AssignedToUserName segue a mesma regra de snapshot de
// Client.AssignedInternName. Os campos de cancelamento só são preenchidos
// quando status=cancelado; AttendanceID e ConfirmedAt só quando
// status=concluido.
type Schedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	Date        string `gorm:"size:10;not null;index" json:"date"`
	Time        string `gorm:"size:5;not null" json:"time"`
	ServiceType string `gorm:"size:100;not null" json:"service_type"`

	Observations string `gorm:"type:text" json:"observations"`

	Status string `gorm:"size:20;not null;default:'agendado'" json:"status"`

	AssignedToUserID   *uint  `gorm:"index" json:"assigned_to_user_id"`
	AssignedToUserName string `gorm:"size:100" json:"assigned_to_user_name"`

	CancelReason   string     `gorm:"type:text" json:"cancel_reason,omitempty"`
	CancelImageURL string     `gorm:"size:500" json:"cancel_image_url,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy    string     `gorm:"size:100" json:"cancelled_by,omitempty"`

	AttendanceID *uint      `json:"attendance_id,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
