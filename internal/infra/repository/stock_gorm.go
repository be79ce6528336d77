package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/stock"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/timezone"
)

// monthPrefix returns the "YYYY-MM-" prefix used to match date columns
// stored as strings.
func monthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d-", year, month)
}

func monthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Location())
}

func nextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

type StockGormRepository struct {
	db *gorm.DB
}

func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

func (r *StockGormRepository) GetStockItem(
	ctx context.Context,
	id uint,
) (*models.StockItem, error) {

	var item models.StockItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err, "item de estoque", id)
	}
	return &item, nil
}

func (r *StockGormRepository) GetStockItemForUpdate(
	ctx context.Context,
	id uint,
) (*models.StockItem, error) {

	var item models.StockItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, id).Error; err != nil {
		return nil, notFound(err, "item de estoque", id)
	}
	return &item, nil
}

func (r *StockGormRepository) CreateStockItem(
	ctx context.Context,
	item *models.StockItem,
) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *StockGormRepository) UpdateStockItem(
	ctx context.Context,
	item *models.StockItem,
) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *StockGormRepository) DeleteStockItem(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.StockItem{}, id).Error
}

func (r *StockGormRepository) ListStockItems(
	ctx context.Context,
) ([]models.StockItem, error) {

	var items []models.StockItem
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *StockGormRepository) CreateStockMovement(
	ctx context.Context,
	m *models.StockMovement,
) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *StockGormRepository) ListStockMovements(
	ctx context.Context,
	filter domain.MovementFilter,
) ([]models.StockMovement, error) {

	q := r.db.WithContext(ctx).Model(&models.StockMovement{})

	if filter.ItemID != nil {
		q = q.Where("item_id = ?", *filter.ItemID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Year != 0 && filter.Month != 0 {
		q = q.Where(
			"created_at >= ? AND created_at < ?",
			monthStart(filter.Year, filter.Month),
			monthStart(nextMonth(filter.Year, filter.Month)),
		)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var movements []models.StockMovement
	if err := q.Order("created_at DESC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *StockGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStockGormRepository(tx))
	})
}

// Compile-time check
var _ domain.Repository = (*StockGormRepository)(nil)
