package assignment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

// ── In-memory Repository stub ────────────────────────────────────────

type stubClientRepo struct {
	clients map[uint]*models.Client
	users   map[uint]*models.User
	entries []models.ChangeEntry
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{
		clients: make(map[uint]*models.Client),
		users:   make(map[uint]*models.User),
	}
}

func (r *stubClientRepo) GetClient(_ context.Context, id uint) (*models.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, httperr.NotFoundErr("cliente", id)
	}
	cp := *c
	return &cp, nil
}

func (r *stubClientRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, httperr.NotFoundErr("usuário", id)
	}
	cp := *u
	return &cp, nil
}

func (r *stubClientRepo) UpdateClient(_ context.Context, c *models.Client) error {
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *stubClientRepo) CreateChangeEntry(_ context.Context, e *models.ChangeEntry) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubClientRepo) InTx(_ context.Context, fn func(Repository) error) error {
	return fn(r)
}

var _ Repository = (*stubClientRepo)(nil)

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(nil))
}

// ── Tests ────────────────────────────────────────

func TestTracker_AssignLinksAndRecordsHistory(t *testing.T) {
	repo := newStubClientRepo()
	repo.clients[1] = &models.Client{ID: 1, Name: "Marcos"}
	repo.users[2] = &models.User{ID: 2, Name: "Diego", Role: models.RoleIntern}

	tracker := NewTracker(repo, testDispatcher())

	client, err := tracker.Assign(context.Background(), 1, 2, "Ana", nil)
	require.NoError(t, err)

	require.NotNil(t, client.AssignedInternID)
	assert.Equal(t, uint(2), *client.AssignedInternID)
	assert.Equal(t, "Diego", client.AssignedInternName)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, models.ChangeFieldAssignedIntern, entry.Field)
	assert.Equal(t, models.NoInternValue, entry.OldValue)
	assert.Equal(t, "Diego", entry.NewValue)
	assert.Equal(t, "Ana", entry.ChangedBy)
}

func TestTracker_AssignSameInternIsNoOp(t *testing.T) {
	repo := newStubClientRepo()
	repo.clients[1] = &models.Client{ID: 1, Name: "Marcos"}
	repo.users[2] = &models.User{ID: 2, Name: "Diego", Role: models.RoleIntern}

	tracker := NewTracker(repo, testDispatcher())

	_, err := tracker.Assign(context.Background(), 1, 2, "Ana", nil)
	require.NoError(t, err)
	_, err = tracker.Assign(context.Background(), 1, 2, "Ana", nil)
	require.NoError(t, err)

	assert.Len(t, repo.entries, 1)
}

func TestTracker_SwitchInternRecordsOldName(t *testing.T) {
	repo := newStubClientRepo()
	repo.clients[1] = &models.Client{ID: 1, Name: "Marcos"}
	repo.users[2] = &models.User{ID: 2, Name: "Diego", Role: models.RoleIntern}
	repo.users[3] = &models.User{ID: 3, Name: "Elisa", Role: models.RoleIntern}

	tracker := NewTracker(repo, testDispatcher())

	_, err := tracker.Assign(context.Background(), 1, 2, "Ana", nil)
	require.NoError(t, err)
	client, err := tracker.Assign(context.Background(), 1, 3, "Ana", nil)
	require.NoError(t, err)

	assert.Equal(t, "Elisa", client.AssignedInternName)

	require.Len(t, repo.entries, 2)
	assert.Equal(t, "Diego", repo.entries[1].OldValue)
	assert.Equal(t, "Elisa", repo.entries[1].NewValue)
}

func TestTracker_AssignRejectsNonIntern(t *testing.T) {
	repo := newStubClientRepo()
	repo.clients[1] = &models.Client{ID: 1, Name: "Marcos"}
	repo.users[2] = &models.User{ID: 2, Name: "Bruna", Role: models.RoleStaff}

	tracker := NewTracker(repo, testDispatcher())

	_, err := tracker.Assign(context.Background(), 1, 2, "Ana", nil)
	require.Error(t, err)
	assert.True(t, httperr.IsValidation(err))
	assert.Empty(t, repo.entries)
}

func TestTracker_UnassignClearsLinkWithHistory(t *testing.T) {
	repo := newStubClientRepo()
	internID := uint(2)
	repo.clients[1] = &models.Client{
		ID:                 1,
		Name:               "Marcos",
		AssignedInternID:   &internID,
		AssignedInternName: "Diego",
	}

	tracker := NewTracker(repo, testDispatcher())

	client, err := tracker.Unassign(context.Background(), 1, "Ana", nil)
	require.NoError(t, err)

	assert.Nil(t, client.AssignedInternID)
	assert.Empty(t, client.AssignedInternName)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "Diego", repo.entries[0].OldValue)
	assert.Equal(t, models.NoInternValue, repo.entries[0].NewValue)
}

func TestTracker_UnassignWithoutLinkIsNoOp(t *testing.T) {
	repo := newStubClientRepo()
	repo.clients[1] = &models.Client{ID: 1, Name: "Marcos"}

	tracker := NewTracker(repo, testDispatcher())

	_, err := tracker.Unassign(context.Background(), 1, "Ana", nil)
	require.NoError(t, err)
	assert.Empty(t, repo.entries)
}

func TestTracker_UnknownClientIsNotFound(t *testing.T) {
	repo := newStubClientRepo()
	repo.users[2] = &models.User{ID: 2, Name: "Diego", Role: models.RoleIntern}

	tracker := NewTracker(repo, testDispatcher())

	_, err := tracker.Assign(context.Background(), 99, 2, "Ana", nil)
	assert.True(t, httperr.IsNotFound(err))
}
