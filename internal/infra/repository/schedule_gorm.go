package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundErr(entity, id)
	}
	return err
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *ScheduleGormRepository) GetSchedule(
	ctx context.Context,
	id uint,
) (*models.Schedule, error) {

	var s models.Schedule
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, "agendamento", id)
	}
	return &s, nil
}

func (r *ScheduleGormRepository) GetScheduleForUpdate(
	ctx context.Context,
	id uint,
) (*models.Schedule, error) {

	var s models.Schedule
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error; err != nil {
		return nil, notFound(err, "agendamento", id)
	}
	return &s, nil
}

func (r *ScheduleGormRepository) CreateSchedule(
	ctx context.Context,
	s *models.Schedule,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ScheduleGormRepository) UpdateSchedule(
	ctx context.Context,
	s *models.Schedule,
) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ScheduleGormRepository) ListSchedulesByDate(
	ctx context.Context,
	date string,
	assignedTo *uint,
) ([]models.Schedule, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Where("date = ?", date)

	if assignedTo != nil {
		q = q.Where("assigned_to_user_id = ?", *assignedTo)
	}

	var schedules []models.Schedule
	if err := q.Order("time ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleGormRepository) ListSchedulesByMonth(
	ctx context.Context,
	year int,
	month int,
	assignedTo *uint,
) ([]models.Schedule, error) {

	prefix := monthPrefix(year, month)

	q := r.db.WithContext(ctx).
		Preload("Client").
		Where("date LIKE ?", prefix+"%")

	if assignedTo != nil {
		q = q.Where("assigned_to_user_id = ?", *assignedTo)
	}

	var schedules []models.Schedule
	if err := q.Order("date ASC, time ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// --------------------------------------------------
// Client / assignment
// --------------------------------------------------

func (r *ScheduleGormRepository) GetClient(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "cliente", id)
	}
	return &c, nil
}

func (r *ScheduleGormRepository) UpdateClient(
	ctx context.Context,
	c *models.Client,
) error {
	return r.db.WithContext(ctx).
		Omit("Appointments", "Notes", "Documents", "ChangeHistory").
		Save(c).Error
}

func (r *ScheduleGormRepository) CreateChangeEntry(
	ctx context.Context,
	e *models.ChangeEntry,
) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *ScheduleGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "usuário", id)
	}
	return &u, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	a *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// --------------------------------------------------
// Stock
// --------------------------------------------------

func (r *ScheduleGormRepository) GetStockItem(
	ctx context.Context,
	id uint,
) (*models.StockItem, error) {

	var item models.StockItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err, "item de estoque", id)
	}
	return &item, nil
}

func (r *ScheduleGormRepository) GetStockItemForUpdate(
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

func (r *ScheduleGormRepository) UpdateStockItem(
	ctx context.Context,
	item *models.StockItem,
) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ScheduleGormRepository) CreateStockMovement(
	ctx context.Context,
	m *models.StockMovement,
) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *ScheduleGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewScheduleGormRepository(tx))
	})
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
