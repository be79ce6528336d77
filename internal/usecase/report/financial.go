package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

// ======================================================
// SOURCE
// ======================================================

type Source interface {
	ListAppointmentsBetween(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListStockMovementsBetween(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.StockMovement, error)

	ListFinancialNotesBetween(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.FinancialNote, error)
}

// ======================================================
// PERIODS
// ======================================================

const (
	PeriodCurrentMonth = "current-month"
	PeriodLast3Months  = "last-3-months"
	PeriodLast6Months  = "last-6-months"
	PeriodCurrentYear  = "current-year"
	PeriodAll          = "all"
)

// Resolve converte o período selecionado em um intervalo [start, end).
// Para "all", ambos ficam zerados e o intervalo é ilimitado.
func Resolve(period string, now time.Time) (time.Time, time.Time, error) {
	y, m, _ := now.Date()
	loc := now.Location()

	switch period {
	case PeriodCurrentMonth, "":
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	case PeriodLast3Months:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, -2, 0)
		return start, time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0), nil
	case PeriodLast6Months:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, -5, 0)
		return start, time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0), nil
	case PeriodCurrentYear:
		start := time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0), nil
	case PeriodAll:
		return time.Time{}, time.Time{}, nil
	default:
		return time.Time{}, time.Time{}, httperr.Validation("period", "período inválido")
	}
}

// ======================================================
// REPORT
// ======================================================

type FinancialSummary struct {
	Period string `json:"period"`

	AppointmentRevenue decimal.Decimal `json:"appointment_revenue"`
	AppointmentCount   int             `json:"appointment_count"`

	StockPurchases   decimal.Decimal `json:"stock_purchases"`
	StockEntryCount  int             `json:"stock_entry_count"`
	MaterialsCost    decimal.Decimal `json:"materials_cost"`
	StockExitCount   int             `json:"stock_exit_count"`

	NotesRevenue decimal.Decimal `json:"notes_revenue"`
	NotesExpense decimal.Decimal `json:"notes_expense"`

	NetBalance decimal.Decimal `json:"net_balance"`
}

type FinancialReport struct {
	source Source
}

func NewFinancialReport(source Source) *FinancialReport {
	return &FinancialReport{source: source}
}

// Execute é exclusivo do coordenador. Apenas leitura: nunca afeta o núcleo.
func (uc *FinancialReport) Execute(
	ctx context.Context,
	acting *models.User,
	period string,
	now time.Time,
) (*FinancialSummary, error) {

	if !acting.IsCoordinator() {
		return nil, httperr.Permission("apenas coordenadores acessam o relatório financeiro")
	}

	start, end, err := Resolve(period, now)
	if err != nil {
		return nil, err
	}

	summary := &FinancialSummary{
		Period:             period,
		AppointmentRevenue: decimal.Zero,
		StockPurchases:     decimal.Zero,
		MaterialsCost:      decimal.Zero,
		NotesRevenue:       decimal.Zero,
		NotesExpense:       decimal.Zero,
	}

	appointments, err := uc.source.ListAppointmentsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, ap := range appointments {
		summary.AppointmentRevenue = summary.AppointmentRevenue.Add(ap.Value)
		summary.AppointmentCount++
	}

	movements, err := uc.source.ListStockMovementsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, mv := range movements {
		value := mv.ItemUnitValue.Mul(decimal.NewFromInt(int64(mv.Quantity)))
		switch mv.Type {
		case models.MovementIn:
			summary.StockPurchases = summary.StockPurchases.Add(value)
			summary.StockEntryCount++
		case models.MovementOut:
			summary.MaterialsCost = summary.MaterialsCost.Add(value)
			summary.StockExitCount++
		}
	}

	notes, err := uc.source.ListFinancialNotesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		switch n.Kind {
		case models.FinancialNoteRevenue:
			summary.NotesRevenue = summary.NotesRevenue.Add(n.Value)
		case models.FinancialNoteExpense:
			summary.NotesExpense = summary.NotesExpense.Add(n.Value)
		}
	}

	summary.NetBalance = summary.AppointmentRevenue.
		Add(summary.NotesRevenue).
		Sub(summary.StockPurchases).
		Sub(summary.NotesExpense)

	return summary, nil
}
