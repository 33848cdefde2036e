package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/metrics"
	"github.com/ttvMolten/Egov-services-db/internal/ports"
	"github.com/ttvMolten/Egov-services-db/internal/report"
	"github.com/ttvMolten/Egov-services-db/internal/repository"
)

// Notifier hands finished report text to the delivery channel. It must not
// block the caller.
type Notifier interface {
	Deliver(kind, text string)
}

type ShiftService struct {
	Store    ports.Store
	Logger   *slog.Logger
	Now      func() time.Time
	Format   report.Format
	Notifier Notifier
}

type ShiftSummary struct {
	Shift        domain.Shift
	EmployeeName string
	Totals       report.Totals
	Orders       []domain.Order
	Report       string
}

// Open starts a shift for the employee unless one is already active.
func (s ShiftService) Open(ctx context.Context, employeeID int64) (*domain.Shift, error) {
	now := clock(s.Now)
	var (
		shift   *domain.Shift
		created bool
	)
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		if _, err := activeEmployee(ctx, tx, employeeID); err != nil {
			return err
		}
		var err error
		shift, created, err = tx.OpenShift(ctx, employeeID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created {
		metrics.ShiftsOpened.Inc()
		s.Logger.Info("shift opened", "employee_id", employeeID, "shift_id", shift.ID)
	}
	return shift, nil
}

func (s ShiftService) Current(ctx context.Context, employeeID int64) (*domain.Shift, error) {
	var shift *domain.Shift
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		shift, err = tx.ActiveShift(ctx, employeeID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoActiveShift
		}
		return err
	})
	return shift, err
}

// Close ends the active shift and aggregates the orders closed inside it.
// The report is delivered after commit; delivery failures do not affect
// the result.
func (s ShiftService) Close(ctx context.Context, employeeID int64) (*ShiftSummary, error) {
	var sum ShiftSummary
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		emp, err := tx.Employee(ctx, employeeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidEmployee
			}
			return err
		}
		active, err := tx.ActiveShift(ctx, employeeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNoActiveShift
			}
			return err
		}
		closed, err := tx.CloseShift(ctx, active.ID, clock(s.Now))
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrNoActiveShift
			}
			return fmt.Errorf("close shift: %w", err)
		}

		w := report.Window{Start: closed.StartedAt, End: *closed.EndedAt}
		orders, err := tx.Orders(ctx, ports.OrderFilter{
			EmployeeID: &employeeID,
			Statuses:   []domain.OrderStatus{domain.OrderCompleted, domain.OrderNotProvided},
			ClosedFrom: &w.Start,
			ClosedTo:   &w.End,
		})
		if err != nil {
			return err
		}
		sum = ShiftSummary{
			Shift:        *closed,
			EmployeeName: emp.Name,
			Totals:       report.Aggregate(orders, w),
			Orders:       report.Paid(orders, w),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ShiftsClosed.Inc()
	s.Logger.Info("shift closed", "employee_id", employeeID, "shift_id", sum.Shift.ID,
		"orders", sum.Totals.OrderCount, "total", sum.Totals.TotalAmount)

	f := s.Format
	f.Detailed = true
	sum.Report = report.RenderShiftClose(report.ShiftReport{
		EmployeeName: sum.EmployeeName,
		StartedAt:    sum.Shift.StartedAt,
		EndedAt:      *sum.Shift.EndedAt,
		Totals:       sum.Totals,
		Orders:       sum.Orders,
	}, f)
	if s.Notifier != nil {
		s.Notifier.Deliver("shift_close", sum.Report)
	}
	return &sum, nil
}

// History returns the employee's most recent shifts, newest first.
func (s ShiftService) History(ctx context.Context, employeeID int64, limit int) ([]domain.Shift, error) {
	var shifts []domain.Shift
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		shifts, err = tx.Shifts(ctx, employeeID, limit)
		return err
	})
	return shifts, err
}

func activeEmployee(ctx context.Context, tx ports.Tx, id int64) (*domain.Employee, error) {
	emp, err := tx.Employee(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidEmployee
		}
		return nil, err
	}
	if !emp.Active {
		return nil, ErrInvalidEmployee
	}
	return emp, nil
}
