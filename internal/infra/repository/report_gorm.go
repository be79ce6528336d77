package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/report"
)

// ReportGormSource lê os dados brutos do relatório financeiro. Intervalos
// zerados significam "desde sempre".
type ReportGormSource struct {
	db *gorm.DB
}

func NewReportGormSource(db *gorm.DB) *ReportGormSource {
	return &ReportGormSource{db: db}
}

func (r *ReportGormSource) ListAppointmentsBetween(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	// Atendimentos guardam a data como string "YYYY-MM-DD".
	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if !start.IsZero() {
		q = q.Where("date >= ?", start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		q = q.Where("date < ?", end.Format("2006-01-02"))
	}

	var appointments []models.Appointment
	if err := q.Order("date ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *ReportGormSource) ListStockMovementsBetween(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.StockMovement, error) {

	q := r.db.WithContext(ctx).Model(&models.StockMovement{})
	if !start.IsZero() {
		q = q.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		q = q.Where("created_at < ?", end)
	}

	var movements []models.StockMovement
	if err := q.Order("created_at ASC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *ReportGormSource) ListFinancialNotesBetween(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.FinancialNote, error) {

	q := r.db.WithContext(ctx).Model(&models.FinancialNote{})
	if !start.IsZero() {
		q = q.Where("date >= ?", start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		q = q.Where("date < ?", end.Format("2006-01-02"))
	}

	var notes []models.FinancialNote
	if err := q.Order("date ASC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// Compile-time check
var _ report.Source = (*ReportGormSource)(nil)
