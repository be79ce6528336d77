package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(nil))
}

func TestCreateSchedule_FieldValidation(t *testing.T) {
	repo := newStubRepo()
	coordinator := repo.addUser(models.User{Name: "Ana", Role: models.RoleCoordinator})
	client := repo.addClient(models.Client{Name: "Marcos"})

	uc := NewCreateSchedule(repo, testDispatcher())

	cases := []struct {
		name  string
		in    CreateScheduleInput
		field string
	}{
		{"missing date", CreateScheduleInput{ClientID: client.ID, Time: "14:00", ServiceType: "Consulta"}, "date"},
		{"bad date", CreateScheduleInput{ClientID: client.ID, Date: "30/08/2026", Time: "14:00", ServiceType: "Consulta"}, "date"},
		{"missing time", CreateScheduleInput{ClientID: client.ID, Date: "2026-08-30", ServiceType: "Consulta"}, "time"},
		{"bad time", CreateScheduleInput{ClientID: client.ID, Date: "2026-08-30", Time: "25:99", ServiceType: "Consulta"}, "time"},
		{"missing service", CreateScheduleInput{ClientID: client.ID, Date: "2026-08-30", Time: "14:00"}, "service_type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), coordinator, tc.in)
			require.Error(t, err)
			assert.True(t, httperr.IsValidation(err))
		})
	}
}

func TestCreateSchedule_UnknownClientIsValidationError(t *testing.T) {
	repo := newStubRepo()
	coordinator := repo.addUser(models.User{Name: "Ana", Role: models.RoleCoordinator})

	uc := NewCreateSchedule(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), coordinator, CreateScheduleInput{
		ClientID:    999,
		Date:        "2026-08-30",
		Time:        "14:00",
		ServiceType: "Consulta",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsValidation(err))
}

func TestCreateSchedule_StaffDefaultsToSelf(t *testing.T) {
	repo := newStubRepo()
	staff := repo.addUser(models.User{Name: "Bruna", Role: models.RoleStaff})
	client := repo.addClient(models.Client{Name: "Marcos"})

	uc := NewCreateSchedule(repo, testDispatcher())

	s, err := uc.Execute(context.Background(), staff, CreateScheduleInput{
		ClientID:    client.ID,
		Date:        "2026-08-30",
		Time:        "14:00",
		ServiceType: "Consulta",
	})
	require.NoError(t, err)

	require.NotNil(t, s.AssignedToUserID)
	assert.Equal(t, staff.ID, *s.AssignedToUserID)
	assert.Equal(t, "Bruna", s.AssignedToUserName)
	assert.Equal(t, string(domain.StatusScheduled), s.Status)

	// Funcionário não mexe no vínculo de estagiário.
	stored, _ := repo.GetClient(context.Background(), client.ID)
	assert.Nil(t, stored.AssignedInternID)
	assert.Empty(t, repo.entries)
}

func TestCreateSchedule_CoordinatorDefaultsToUnassigned(t *testing.T) {
	repo := newStubRepo()
	coordinator := repo.addUser(models.User{Name: "Ana", Role: models.RoleCoordinator})
	client := repo.addClient(models.Client{Name: "Marcos"})

	uc := NewCreateSchedule(repo, testDispatcher())

	s, err := uc.Execute(context.Background(), coordinator, CreateScheduleInput{
		ClientID:    client.ID,
		Date:        "2026-08-30",
		Time:        "14:00",
		ServiceType: "Consulta",
	})
	require.NoError(t, err)

	assert.Nil(t, s.AssignedToUserID)
	assert.Empty(t, s.AssignedToUserName)
}

func TestCreateSchedule_ExplicitAssigneeWins(t *testing.T) {
	repo := newStubRepo()
	staff := repo.addUser(models.User{Name: "Bruna", Role: models.RoleStaff})
	other := repo.addUser(models.User{Name: "Carlos", Role: models.RoleStaff})
	client := repo.addClient(models.Client{Name: "Marcos"})

	uc := NewCreateSchedule(repo, testDispatcher())

	s, err := uc.Execute(context.Background(), staff, CreateScheduleInput{
		ClientID:       client.ID,
		Date:           "2026-08-30",
		Time:           "14:00",
		ServiceType:    "Consulta",
		AssigneeUserID: &other.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, s.AssignedToUserID)
	assert.Equal(t, other.ID, *s.AssignedToUserID)
	assert.Equal(t, "Carlos", s.AssignedToUserName)
}

func TestCreateSchedule_InternAssigneeLinksClient(t *testing.T) {
	repo := newStubRepo()
	intern := repo.addUser(models.User{Name: "Diego", Role: models.RoleIntern})
	client := repo.addClient(models.Client{Name: "Marcos"})

	uc := NewCreateSchedule(repo, testDispatcher())

	s, err := uc.Execute(context.Background(), intern, CreateScheduleInput{
		ClientID:    client.ID,
		Date:        "2026-08-30",
		Time:        "14:00",
		ServiceType: "Consulta",
	})
	require.NoError(t, err)

	require.NotNil(t, s.AssignedToUserID)
	assert.Equal(t, intern.ID, *s.AssignedToUserID)

	stored, _ := repo.GetClient(context.Background(), client.ID)
	require.NotNil(t, stored.AssignedInternID)
	assert.Equal(t, intern.ID, *stored.AssignedInternID)
	assert.Equal(t, "Diego", stored.AssignedInternName)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, models.ChangeFieldAssignedIntern, entry.Field)
	assert.Equal(t, models.NoInternValue, entry.OldValue)
	assert.Equal(t, "Diego", entry.NewValue)
	assert.Equal(t, "Diego", entry.ChangedBy)
}

func TestCreateSchedule_SameInternTwiceWritesOneEntry(t *testing.T) {
	repo := newStubRepo()
	intern := repo.addUser(models.User{Name: "Diego", Role: models.RoleIntern})
	client := repo.addClient(models.Client{Name: "Marcos"})

	uc := NewCreateSchedule(repo, testDispatcher())

	for i := 0; i < 2; i++ {
		_, err := uc.Execute(context.Background(), intern, CreateScheduleInput{
			ClientID:    client.ID,
			Date:        "2026-08-30",
			Time:        "14:00",
			ServiceType: "Consulta",
		})
		require.NoError(t, err)
	}

	assert.Len(t, repo.entries, 1)
	assert.Len(t, repo.schedules, 2)
}
