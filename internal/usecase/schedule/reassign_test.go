package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

func reassignFixture() (*stubRepo, *models.User, *models.Client, *models.Schedule) {
	repo := newStubRepo()
	coordinator := repo.addUser(models.User{Name: "Ana", Role: models.RoleCoordinator})
	client := repo.addClient(models.Client{Name: "Marcos"})
	s := repo.addSchedule(models.Schedule{
		ClientID:    client.ID,
		Date:        "2026-08-30",
		Time:        "14:00",
		ServiceType: "Consulta",
	})
	return repo, coordinator, client, s
}

func TestReassignSchedule_CoordinatorOnly(t *testing.T) {
	repo, _, _, s := reassignFixture()
	staff := repo.addUser(models.User{Name: "Bruna", Role: models.RoleStaff})
	intern := repo.addUser(models.User{Name: "Diego", Role: models.RoleIntern})

	uc := NewReassignSchedule(repo, testDispatcher())

	for _, acting := range []*models.User{staff, intern} {
		_, err := uc.Execute(context.Background(), acting, s.ID, staff.ID)
		require.Error(t, err)
		assert.True(t, httperr.IsPermission(err))
	}
}

func TestReassignSchedule_ToInternUpdatesClientLink(t *testing.T) {
	repo, coordinator, client, s := reassignFixture()
	intern := repo.addUser(models.User{Name: "Diego", Role: models.RoleIntern})

	uc := NewReassignSchedule(repo, testDispatcher())

	reassigned, err := uc.Execute(context.Background(), coordinator, s.ID, intern.ID)
	require.NoError(t, err)

	require.NotNil(t, reassigned.AssignedToUserID)
	assert.Equal(t, intern.ID, *reassigned.AssignedToUserID)
	assert.Equal(t, "Diego", reassigned.AssignedToUserName)

	stored, _ := repo.GetClient(context.Background(), client.ID)
	require.NotNil(t, stored.AssignedInternID)
	assert.Equal(t, intern.ID, *stored.AssignedInternID)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, models.NoInternValue, repo.entries[0].OldValue)
	assert.Equal(t, "Diego", repo.entries[0].NewValue)
	assert.Equal(t, "Ana", repo.entries[0].ChangedBy)
}

func TestReassignSchedule_ToStaffLeavesInternLinkUntouched(t *testing.T) {
	repo, coordinator, client, s := reassignFixture()
	intern := repo.addUser(models.User{Name: "Diego", Role: models.RoleIntern})
	staff := repo.addUser(models.User{Name: "Bruna", Role: models.RoleStaff})

	// Cliente já vinculado a um estagiário.
	cl, _ := repo.GetClient(context.Background(), client.ID)
	cl.AssignedInternID = &intern.ID
	cl.AssignedInternName = intern.Name
	require.NoError(t, repo.UpdateClient(context.Background(), cl))

	uc := NewReassignSchedule(repo, testDispatcher())

	reassigned, err := uc.Execute(context.Background(), coordinator, s.ID, staff.ID)
	require.NoError(t, err)

	assert.Equal(t, staff.ID, *reassigned.AssignedToUserID)

	stored, _ := repo.GetClient(context.Background(), client.ID)
	require.NotNil(t, stored.AssignedInternID)
	assert.Equal(t, intern.ID, *stored.AssignedInternID)
	assert.Empty(t, repo.entries)
}

func TestReassignSchedule_SameAssigneeIsNoOp(t *testing.T) {
	repo, coordinator, client, _ := reassignFixture()
	intern := repo.addUser(models.User{Name: "Diego", Role: models.RoleIntern})
	s := repo.addSchedule(models.Schedule{
		ClientID:           client.ID,
		Date:               "2026-08-30",
		Time:               "15:00",
		AssignedToUserID:   &intern.ID,
		AssignedToUserName: intern.Name,
	})

	uc := NewReassignSchedule(repo, testDispatcher())

	reassigned, err := uc.Execute(context.Background(), coordinator, s.ID, intern.ID)
	require.NoError(t, err)

	assert.Equal(t, intern.ID, *reassigned.AssignedToUserID)
	assert.Empty(t, repo.entries)
}

func TestReassignSchedule_TargetMustBeStaffOrIntern(t *testing.T) {
	repo, coordinator, _, s := reassignFixture()
	otherCoordinator := repo.addUser(models.User{Name: "Olga", Role: models.RoleCoordinator})

	uc := NewReassignSchedule(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), coordinator, s.ID, otherCoordinator.ID)
	require.Error(t, err)
	assert.True(t, httperr.IsValidation(err))

	_, err = uc.Execute(context.Background(), coordinator, s.ID, 999)
	require.Error(t, err)
	assert.True(t, httperr.IsValidation(err))
}

func TestReassignSchedule_TerminalStatusConflicts(t *testing.T) {
	repo, coordinator, client, _ := reassignFixture()
	staff := repo.addUser(models.User{Name: "Bruna", Role: models.RoleStaff})
	done := repo.addSchedule(models.Schedule{
		ClientID: client.ID,
		Date:     "2026-08-30",
		Time:     "15:00",
		Status:   string(domain.StatusCompleted),
	})

	uc := NewReassignSchedule(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), coordinator, done.ID, staff.ID)
	require.Error(t, err)
	assert.True(t, httperr.IsConflict(err))
}
