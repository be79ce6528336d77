package schedule

import (
	"context"
	"fmt"

	domain "github.com/ClinicaVidaNova/clinic-scheduler/internal/domain/schedule"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

// ── In-memory Repository stub ────────────────────────────────────────

type stubRepo struct {
	schedules map[uint]*models.Schedule
	clients   map[uint]*models.Client
	users     map[uint]*models.User
	items     map[uint]*models.StockItem

	movements    []models.StockMovement
	appointments []models.Appointment
	entries      []models.ChangeEntry

	nextID uint
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		schedules: make(map[uint]*models.Schedule),
		clients:   make(map[uint]*models.Client),
		users:     make(map[uint]*models.User),
		items:     make(map[uint]*models.StockItem),
		nextID:    1,
	}
}

func (r *stubRepo) id() uint {
	id := r.nextID
	r.nextID++
	return id
}

func (r *stubRepo) addUser(u models.User) *models.User {
	if u.ID == 0 {
		u.ID = r.id()
	}
	r.users[u.ID] = &u
	return &u
}

func (r *stubRepo) addClient(c models.Client) *models.Client {
	if c.ID == 0 {
		c.ID = r.id()
	}
	r.clients[c.ID] = &c
	return &c
}

func (r *stubRepo) addSchedule(s models.Schedule) *models.Schedule {
	if s.ID == 0 {
		s.ID = r.id()
	}
	if s.Status == "" {
		s.Status = string(domain.StatusScheduled)
	}
	r.schedules[s.ID] = &s
	return &s
}

func (r *stubRepo) addItem(i models.StockItem) *models.StockItem {
	if i.ID == 0 {
		i.ID = r.id()
	}
	r.items[i.ID] = &i
	return &i
}

// ── Schedule ────────────────────────────────────────

func (r *stubRepo) GetSchedule(_ context.Context, id uint) (*models.Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, httperr.NotFoundErr("agendamento", id)
	}
	cp := *s
	return &cp, nil
}

func (r *stubRepo) GetScheduleForUpdate(ctx context.Context, id uint) (*models.Schedule, error) {
	return r.GetSchedule(ctx, id)
}

func (r *stubRepo) CreateSchedule(_ context.Context, s *models.Schedule) error {
	if s.ID == 0 {
		s.ID = r.id()
	}
	cp := *s
	r.schedules[s.ID] = &cp
	return nil
}

func (r *stubRepo) UpdateSchedule(_ context.Context, s *models.Schedule) error {
	cp := *s
	r.schedules[s.ID] = &cp
	return nil
}

func (r *stubRepo) ListSchedulesByDate(_ context.Context, date string, assignedTo *uint) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range r.schedules {
		if s.Date != date {
			continue
		}
		if assignedTo != nil && (s.AssignedToUserID == nil || *s.AssignedToUserID != *assignedTo) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubRepo) ListSchedulesByMonth(_ context.Context, year, month int, assignedTo *uint) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range r.schedules {
		if len(s.Date) < 7 {
			continue
		}
		if s.Date[:7] != monthKey(year, month) {
			continue
		}
		if assignedTo != nil && (s.AssignedToUserID == nil || *s.AssignedToUserID != *assignedTo) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ── Client / assignment ────────────────────────────────────────

func (r *stubRepo) GetClient(_ context.Context, id uint) (*models.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, httperr.NotFoundErr("cliente", id)
	}
	cp := *c
	return &cp, nil
}

func (r *stubRepo) UpdateClient(_ context.Context, c *models.Client) error {
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *stubRepo) CreateChangeEntry(_ context.Context, e *models.ChangeEntry) error {
	if e.ID == 0 {
		e.ID = r.id()
	}
	r.entries = append(r.entries, *e)
	return nil
}

// ── User ────────────────────────────────────────

func (r *stubRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, httperr.NotFoundErr("usuário", id)
	}
	cp := *u
	return &cp, nil
}

// ── Appointment ────────────────────────────────────────

func (r *stubRepo) CreateAppointment(_ context.Context, a *models.Appointment) error {
	if a.ID == 0 {
		a.ID = r.id()
	}
	r.appointments = append(r.appointments, *a)
	return nil
}

// ── Stock ────────────────────────────────────────

func (r *stubRepo) GetStockItem(_ context.Context, id uint) (*models.StockItem, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, httperr.NotFoundErr("item de estoque", id)
	}
	cp := *i
	return &cp, nil
}

func (r *stubRepo) GetStockItemForUpdate(ctx context.Context, id uint) (*models.StockItem, error) {
	return r.GetStockItem(ctx, id)
}

func (r *stubRepo) UpdateStockItem(_ context.Context, item *models.StockItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *stubRepo) CreateStockMovement(_ context.Context, m *models.StockMovement) error {
	if m.ID == 0 {
		m.ID = r.id()
	}
	r.movements = append(r.movements, *m)
	return nil
}

// ── Transaction ────────────────────────────────────────

// InTx roda fn sobre uma cópia do estado e só aplica a cópia de volta se fn
// não retornar erro, imitando o rollback do banco.
func (r *stubRepo) InTx(_ context.Context, fn func(domain.Repository) error) error {
	tx := r.clone()
	if err := fn(tx); err != nil {
		return err
	}
	*r = *tx
	return nil
}

func (r *stubRepo) clone() *stubRepo {
	cp := newStubRepo()
	cp.nextID = r.nextID
	for id, s := range r.schedules {
		v := *s
		cp.schedules[id] = &v
	}
	for id, c := range r.clients {
		v := *c
		cp.clients[id] = &v
	}
	for id, u := range r.users {
		v := *u
		cp.users[id] = &v
	}
	for id, i := range r.items {
		v := *i
		cp.items[id] = &v
	}
	cp.movements = append(cp.movements, r.movements...)
	cp.appointments = append(cp.appointments, r.appointments...)
	cp.entries = append(cp.entries, r.entries...)
	return cp
}

var _ domain.Repository = (*stubRepo)(nil)
