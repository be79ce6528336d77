package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FinancialNoteRevenue = "revenue"
	FinancialNoteExpense = "expense"
)

// FinancialNote é um lançamento avulso (receita ou despesa) que entra no
// relatório financeiro junto com atendimentos e movimentações de estoque.
type FinancialNote struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date        string          `gorm:"size:10;not null;index" json:"date"`
	Kind        string          `gorm:"size:10;not null" json:"kind"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Value       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"value"`
	CreatedBy   string          `gorm:"size:100" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
}
