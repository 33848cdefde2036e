// Package memstore is an in-memory ports.Store. Units of work are
// serialized and run against a copy of the data that replaces the live
// state only when the unit succeeds.
package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/ports"
	"github.com/ttvMolten/Egov-services-db/internal/repository"
)

type data struct {
	employees map[int64]domain.Employee
	services  map[int64]domain.Service
	shifts    map[int64]domain.Shift
	orders    map[int64]domain.Order
	seq       int64
}

func (d *data) clone() *data {
	c := &data{
		employees: make(map[int64]domain.Employee, len(d.employees)),
		services:  make(map[int64]domain.Service, len(d.services)),
		shifts:    make(map[int64]domain.Shift, len(d.shifts)),
		orders:    make(map[int64]domain.Order, len(d.orders)),
		seq:       d.seq,
	}
	for k, v := range d.employees {
		c.employees[k] = v
	}
	for k, v := range d.services {
		c.services[k] = v
	}
	for k, v := range d.shifts {
		c.shifts[k] = copyShift(v)
	}
	for k, v := range d.orders {
		c.orders[k] = copyOrder(v)
	}
	return c
}

func (d *data) next() int64 {
	d.seq++
	return d.seq
}

type Store struct {
	mu   sync.Mutex
	data *data
}

func New() *Store {
	return &Store{data: &data{
		employees: map[int64]domain.Employee{},
		services:  map[int64]domain.Service{},
		shifts:    map[int64]domain.Shift{},
		orders:    map[int64]domain.Order{},
	}}
}

var _ ports.Store = (*Store)(nil)

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, &memTx{d: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Counts reports the number of stored rows, for assertions on rollback.
func (s *Store) Counts() (employees, services, shifts, orders int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.employees), len(s.data.services), len(s.data.shifts), len(s.data.orders)
}

type memTx struct {
	d *data
}

func (t *memTx) Employees(ctx context.Context) ([]domain.Employee, error) {
	out := make([]domain.Employee, 0, len(t.d.employees))
	for _, e := range t.d.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) Employee(ctx context.Context, id int64) (*domain.Employee, error) {
	e, ok := t.d.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (t *memTx) EmployeeByPINLookup(ctx context.Context, lookup string) (*domain.Employee, error) {
	for _, e := range t.d.employees {
		if e.PinLookup == lookup {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (t *memTx) InsertEmployee(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	if e.PinLookup != "" {
		for _, other := range t.d.employees {
			if other.PinLookup == e.PinLookup {
				return nil, repository.ErrConflict
			}
		}
	}
	e.ID = t.d.next()
	t.d.employees[e.ID] = e
	return &e, nil
}

func (t *memTx) SetEmployeeActive(ctx context.Context, id int64, active bool) error {
	e, ok := t.d.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Active = active
	t.d.employees[id] = e
	return nil
}

func (t *memTx) Services(ctx context.Context) ([]domain.Service, error) {
	out := make([]domain.Service, 0, len(t.d.services))
	for _, s := range t.d.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) ServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error) {
	var out []domain.Service
	for _, id := range ids {
		if s, ok := t.d.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (t *memTx) InsertService(ctx context.Context, s domain.Service) (*domain.Service, error) {
	for _, existing := range t.d.services {
		if strings.EqualFold(existing.Name, s.Name) {
			return nil, repository.ErrConflict
		}
	}
	s.ID = t.d.next()
	t.d.services[s.ID] = s
	return &s, nil
}

func (t *memTx) ActiveShift(ctx context.Context, employeeID int64) (*domain.Shift, error) {
	for _, s := range t.d.shifts {
		if s.EmployeeID == employeeID && s.Active {
			s = copyShift(s)
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (t *memTx) OpenShift(ctx context.Context, employeeID int64, at time.Time) (*domain.Shift, bool, error) {
	if s, err := t.ActiveShift(ctx, employeeID); err == nil {
		return s, false, nil
	}
	s := domain.Shift{ID: t.d.next(), EmployeeID: employeeID, StartedAt: at, Active: true}
	t.d.shifts[s.ID] = s
	return &s, true, nil
}

func (t *memTx) CloseShift(ctx context.Context, shiftID int64, at time.Time) (*domain.Shift, error) {
	s, ok := t.d.shifts[shiftID]
	if !ok || !s.Active {
		return nil, repository.ErrConflict
	}
	s.Active = false
	s.EndedAt = &at
	t.d.shifts[shiftID] = s
	s = copyShift(s)
	return &s, nil
}

func (t *memTx) Shifts(ctx context.Context, employeeID int64, limit int) ([]domain.Shift, error) {
	var out []domain.Shift
	for _, s := range t.d.shifts {
		if s.EmployeeID == employeeID {
			out = append(out, copyShift(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *memTx) InsertOrder(ctx context.Context, o domain.Order) (int64, error) {
	o.ID = t.d.next()
	t.d.orders[o.ID] = copyOrder(o)
	return o.ID, nil
}

func (t *memTx) OrderForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	return t.Order(ctx, id)
}

func (t *memTx) Order(ctx context.Context, id int64) (*domain.Order, error) {
	o, ok := t.d.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

func (t *memTx) FinishOrder(ctx context.Context, o domain.Order) error {
	cur, ok := t.d.orders[o.ID]
	if !ok || cur.Status != domain.OrderInProgress {
		return repository.ErrConflict
	}
	cur.Status = o.Status
	cur.PaymentType = o.PaymentType
	cur.PaymentStatus = o.PaymentStatus
	cur.NotProvidedReason = o.NotProvidedReason
	cur.CompletedAt = o.CompletedAt
	t.d.orders[o.ID] = copyOrder(cur)
	return nil
}

func (t *memTx) Orders(ctx context.Context, f ports.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range t.d.orders {
		if f.EmployeeID != nil && o.EmployeeID != *f.EmployeeID {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status) {
			continue
		}
		if f.ClosedFrom != nil && (o.CompletedAt == nil || o.CompletedAt.Before(*f.ClosedFrom)) {
			continue
		}
		if f.ClosedTo != nil && (o.CompletedAt == nil || o.CompletedAt.After(*f.ClosedTo)) {
			continue
		}
		out = append(out, copyOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func copyShift(s domain.Shift) domain.Shift {
	if s.EndedAt != nil {
		end := *s.EndedAt
		s.EndedAt = &end
	}
	return s
}

func copyOrder(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	if o.PaymentType != nil {
		pt := *o.PaymentType
		o.PaymentType = &pt
	}
	if o.CompletedAt != nil {
		at := *o.CompletedAt
		o.CompletedAt = &at
	}
	return o
}
