package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/assignment"
)

// ClientGormRepository atende as operações avulsas de vínculo de
// estagiário (fora do fluxo de agendamento).
type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

func (r *ClientGormRepository) GetClient(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "cliente", id)
	}
	return &c, nil
}

func (r *ClientGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "usuário", id)
	}
	return &u, nil
}

func (r *ClientGormRepository) UpdateClient(
	ctx context.Context,
	c *models.Client,
) error {
	return r.db.WithContext(ctx).
		Omit("Appointments", "Notes", "Documents", "ChangeHistory").
		Save(c).Error
}

func (r *ClientGormRepository) CreateChangeEntry(
	ctx context.Context,
	e *models.ChangeEntry,
) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ClientGormRepository) InTx(
	ctx context.Context,
	fn func(assignment.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewClientGormRepository(tx))
	})
}

// Compile-time check
var _ assignment.Repository = (*ClientGormRepository)(nil)
