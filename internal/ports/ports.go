package ports

import (
	"context"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Store runs fn inside one atomic unit of work. fn's writes are committed
// when it returns nil and discarded otherwise.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// OrderFilter selects orders. Zero fields do not filter.
type OrderFilter struct {
	EmployeeID *int64
	Statuses   []domain.OrderStatus
	// ClosedFrom and ClosedTo bound completed_at, both inclusive.
	ClosedFrom *time.Time
	ClosedTo   *time.Time
}

// Tx is the set of queries available inside a unit of work. Missing rows
// are reported as repository.ErrNotFound.
type Tx interface {
	Employees(ctx context.Context) ([]domain.Employee, error)
	Employee(ctx context.Context, id int64) (*domain.Employee, error)
	EmployeeByPINLookup(ctx context.Context, lookup string) (*domain.Employee, error)
	// InsertEmployee reports a taken PinLookup as repository.ErrConflict.
	InsertEmployee(ctx context.Context, e domain.Employee) (*domain.Employee, error)
	SetEmployeeActive(ctx context.Context, id int64, active bool) error

	Services(ctx context.Context) ([]domain.Service, error)
	ServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
	InsertService(ctx context.Context, s domain.Service) (*domain.Service, error)

	// ActiveShift locks and returns the employee's open shift.
	ActiveShift(ctx context.Context, employeeID int64) (*domain.Shift, error)
	// OpenShift returns the open shift, creating it at `at` when none exists.
	OpenShift(ctx context.Context, employeeID int64, at time.Time) (*domain.Shift, bool, error)
	CloseShift(ctx context.Context, shiftID int64, at time.Time) (*domain.Shift, error)
	Shifts(ctx context.Context, employeeID int64, limit int) ([]domain.Shift, error)

	InsertOrder(ctx context.Context, o domain.Order) (int64, error)
	// OrderForUpdate locks the order row until the unit of work ends.
	OrderForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	Order(ctx context.Context, id int64) (*domain.Order, error)
	// FinishOrder persists a terminal outcome for an IN_PROGRESS order.
	FinishOrder(ctx context.Context, o domain.Order) error
	Orders(ctx context.Context, f OrderFilter) ([]domain.Order, error)
}
