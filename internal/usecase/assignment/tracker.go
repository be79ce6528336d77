package assignment

import (
	"context"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

// ======================================================
// TX-SCOPED CORE
// ======================================================

// ClientStore é o subconjunto de persistência que o tracker usa dentro de
// uma transação já aberta. O Repository do ciclo de vida de agendamento
// satisfaz esta interface.
type ClientStore interface {
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	UpdateClient(ctx context.Context, c *models.Client) error
	CreateChangeEntry(ctx context.Context, e *models.ChangeEntry) error
}

// Apply vincula o estagiário ao cliente. Se o cliente já está vinculado ao
// mesmo estagiário, é um no-op bem-sucedido sem entrada de histórico; caso
// contrário a troca gera exatamente uma ChangeEntry com o nome anterior.
func Apply(
	ctx context.Context,
	store ClientStore,
	client *models.Client,
	intern *models.User,
	changedBy string,
) (bool, error) {

	if !intern.IsIntern() {
		return false, httperr.Validation("intern_id", "usuário não é estagiário")
	}

	if client.AssignedInternID != nil && *client.AssignedInternID == intern.ID {
		return false, nil
	}

	oldName := client.AssignedInternName
	if oldName == "" {
		oldName = models.NoInternValue
	}

	client.AssignedInternID = &intern.ID
	client.AssignedInternName = intern.Name

	if err := store.UpdateClient(ctx, client); err != nil {
		return false, err
	}

	entry := &models.ChangeEntry{
		ClientID:  client.ID,
		ChangedBy: changedBy,
		Field:     models.ChangeFieldAssignedIntern,
		OldValue:  oldName,
		NewValue:  intern.Name,
	}
	if err := store.CreateChangeEntry(ctx, entry); err != nil {
		return false, err
	}

	return true, nil
}

// Clear desfaz o vínculo. No-op quando já não há estagiário vinculado.
func Clear(
	ctx context.Context,
	store ClientStore,
	client *models.Client,
	changedBy string,
) (bool, error) {

	if client.AssignedInternID == nil {
		return false, nil
	}

	oldName := client.AssignedInternName
	client.AssignedInternID = nil
	client.AssignedInternName = ""

	if err := store.UpdateClient(ctx, client); err != nil {
		return false, err
	}

	entry := &models.ChangeEntry{
		ClientID:  client.ID,
		ChangedBy: changedBy,
		Field:     models.ChangeFieldAssignedIntern,
		OldValue:  oldName,
		NewValue:  models.NoInternValue,
	}
	if err := store.CreateChangeEntry(ctx, entry); err != nil {
		return false, err
	}

	return true, nil
}

// ======================================================
// TRACKER (standalone operations)
// ======================================================

type Repository interface {
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateClient(ctx context.Context, c *models.Client) error
	CreateChangeEntry(ctx context.Context, e *models.ChangeEntry) error

	InTx(ctx context.Context, fn func(Repository) error) error
}

type Tracker struct {
	repo  Repository
	audit *audit.Dispatcher
}

func NewTracker(repo Repository, audit *audit.Dispatcher) *Tracker {
	return &Tracker{
		repo:  repo,
		audit: audit,
	}
}

func (t *Tracker) Assign(
	ctx context.Context,
	clientID uint,
	internID uint,
	actor string,
	actorID *uint,
) (*models.Client, error) {

	var client *models.Client
	err := t.repo.InTx(ctx, func(r Repository) error {
		var err error
		client, err = r.GetClient(ctx, clientID)
		if err != nil {
			return err
		}

		intern, err := r.GetUser(ctx, internID)
		if err != nil {
			return err
		}

		_, err = Apply(ctx, r, client, intern, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "intern_assigned",
		Entity:   "client",
		EntityID: &clientID,
		Metadata: map[string]any{"intern_id": internID},
	})

	return client, nil
}

func (t *Tracker) Unassign(
	ctx context.Context,
	clientID uint,
	actor string,
	actorID *uint,
) (*models.Client, error) {

	var client *models.Client
	err := t.repo.InTx(ctx, func(r Repository) error {
		var err error
		client, err = r.GetClient(ctx, clientID)
		if err != nil {
			return err
		}

		_, err = Clear(ctx, r, client, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "intern_unassigned",
		Entity:   "client",
		EntityID: &clientID,
	})

	return client, nil
}
