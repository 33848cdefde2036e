package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ttvMolten/Egov-services-db/internal/config"
	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/memstore"
	"github.com/ttvMolten/Egov-services-db/internal/ports"
	"github.com/ttvMolten/Egov-services-db/internal/report"
	"github.com/ttvMolten/Egov-services-db/internal/service"
	"golang.org/x/crypto/bcrypt"
)

var almaty = time.FixedZone("UTC+5", 5*60*60)

type delivery struct {
	kind string
	text string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []delivery
}

func (n *recordingNotifier) Deliver(kind, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, delivery{kind: kind, text: text})
}

func (n *recordingNotifier) all() []delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]delivery(nil), n.sent...)
}

type fixture struct {
	ctx      context.Context
	store    *memstore.Store
	now      time.Time
	notifier *recordingNotifier

	auth    service.AuthService
	shifts  service.ShiftService
	orders  service.OrderService
	reports service.ReportService
	catalog service.CatalogService

	admin    *domain.Employee
	employee *domain.Employee
	passport *domain.Service
	iin      *domain.Service
	cert     *domain.Service
}

// newFixture seeds an admin (PIN 9999), an employee (PIN 1234) and three
// services. The clock starts at 10:00 local time.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		store:    memstore.New(),
		now:      time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC),
		notifier: &recordingNotifier{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return f.now }
	format := report.Format{Location: almaty, Currency: "₸"}

	f.auth = service.AuthService{
		Store:    f.store,
		Config:   config.Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour},
		Logger:   logger,
		Now:      now,
		HashCost: bcrypt.MinCost,
	}
	f.shifts = service.ShiftService{Store: f.store, Logger: logger, Now: now, Format: format, Notifier: f.notifier}
	f.orders = service.OrderService{Store: f.store, Logger: logger, Now: now}
	f.reports = service.ReportService{Store: f.store, Logger: logger, Now: now, Format: format, Notifier: f.notifier}
	f.catalog = service.CatalogService{Store: f.store, Logger: logger, Now: now}

	var err error
	f.admin, err = f.auth.RegisterEmployee(f.ctx, service.RegisterEmployeeInput{Name: "Админ", BranchID: 1, PIN: "9999", Role: "ADMIN"})
	require.NoError(t, err)
	f.employee, err = f.auth.RegisterEmployee(f.ctx, service.RegisterEmployeeInput{Name: "Айгерим", BranchID: 1, PIN: "1234"})
	require.NoError(t, err)

	f.passport, err = f.catalog.CreateService(f.ctx, "Паспорт", 1500)
	require.NoError(t, err)
	f.iin, err = f.catalog.CreateService(f.ctx, "ИИН", 3000)
	require.NoError(t, err)
	f.cert, err = f.catalog.CreateService(f.ctx, "Справка", 2000)
	require.NoError(t, err)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) login(t *testing.T, pin string) *service.LoginResult {
	t.Helper()
	res, err := f.auth.Login(f.ctx, pin)
	require.NoError(t, err)
	return res
}

func (f *fixture) start(t *testing.T, employeeID int64, serviceIDs ...int64) int64 {
	t.Helper()
	id, err := f.orders.Start(f.ctx, service.StartOrderInput{
		EmployeeID: employeeID,
		ClientName: "Клиент",
		ServiceIDs: serviceIDs,
	})
	require.NoError(t, err)
	return id
}

// lockWaitStore runs onLock whenever a unit of work takes a row lock, which
// stands in for time spent blocked behind a concurrent transaction.
type lockWaitStore struct {
	ports.Store
	onLock func()
}

func (s lockWaitStore) InTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	return s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		return fn(ctx, lockWaitTx{Tx: tx, onLock: s.onLock})
	})
}

type lockWaitTx struct {
	ports.Tx
	onLock func()
}

func (t lockWaitTx) OrderForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := t.Tx.OrderForUpdate(ctx, id)
	t.onLock()
	return o, err
}

func (t lockWaitTx) ActiveShift(ctx context.Context, employeeID int64) (*domain.Shift, error) {
	s, err := t.Tx.ActiveShift(ctx, employeeID)
	t.onLock()
	return s, err
}
