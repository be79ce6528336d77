package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimentação de estoque.
const (
	MovementIn       = "entrada"
	MovementOut      = "saida"
	MovementDeletion = "exclusao"
)

// StockItem é um material do estoque. Quantity só é alterado pelo ledger
// de estoque, nunca diretamente.
type StockItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Category string `gorm:"size:50;not null" json:"category"`

	Quantity int    `gorm:"not null;default:0" json:"quantity"`
	MinStock int    `gorm:"not null;default:0" json:"min_stock"`
	Unit     string `gorm:"size:20;not null;default:'unidade'" json:"unit"`

	UnitValue   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_value"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedBy   string          `gorm:"size:100" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockMovement é o registro imutável de cada alteração de quantidade.
// ItemName e ItemUnitValue são snapshots do momento da movimentação e
// sobrevivem à exclusão do item.
type StockMovement struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ItemID   uint   `gorm:"not null;index" json:"item_id"`
	ItemName string `gorm:"size:100;not null" json:"item_name"`

	Type     string `gorm:"size:20;not null" json:"type"`
	Quantity int    `gorm:"not null" json:"quantity"`
	Reason   string `gorm:"size:255;not null" json:"reason"`

	User       string `gorm:"size:100;not null" json:"user"`
	ScheduleID *uint  `json:"schedule_id,omitempty"`

	ItemUnitValue decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"item_unit_value"`

	CreatedAt time.Time `json:"created_at"`
}
