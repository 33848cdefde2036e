package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/metrics"
	"github.com/ttvMolten/Egov-services-db/internal/ports"
	"github.com/ttvMolten/Egov-services-db/internal/report"
	"github.com/ttvMolten/Egov-services-db/internal/repository"
)

type OrderService struct {
	Store  ports.Store
	Logger *slog.Logger
	Now    func() time.Time
}

type StartOrderInput struct {
	EmployeeID int64
	// BranchID defaults to the employee's branch when zero.
	BranchID    int64
	ClientName  string
	ClientPhone string
	ServiceIDs  []int64
}

type InProgressOrder struct {
	ID          int64
	ClientName  string
	ClientPhone string
	Services    []string
	CreatedAt   time.Time
	Minutes     int
}

// Start creates an IN_PROGRESS order covering every requested service.
// Nothing is written unless all preconditions hold.
func (s OrderService) Start(ctx context.Context, in StartOrderInput) (int64, error) {
	ids := dedupe(in.ServiceIDs)
	if len(ids) == 0 {
		return 0, ErrNoServices
	}
	client := strings.TrimSpace(in.ClientName)
	if client == "" {
		return 0, ErrClientNameRequired
	}
	now := clock(s.Now)

	var id int64
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		emp, err := activeEmployee(ctx, tx, in.EmployeeID)
		if err != nil {
			return err
		}
		if _, err := tx.ActiveShift(ctx, emp.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNoActiveShift
			}
			return err
		}
		services, err := tx.ServicesByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(services) != len(ids) {
			return ErrInvalidService
		}
		byID := make(map[int64]domain.Service, len(services))
		for _, svc := range services {
			byID[svc.ID] = svc
		}
		items := make([]domain.OrderItem, 0, len(ids))
		for _, sid := range ids {
			svc, ok := byID[sid]
			if !ok {
				return ErrInvalidService
			}
			items = append(items, domain.OrderItem{ServiceID: svc.ID, Name: svc.Name, Price: svc.Price})
		}

		branch := in.BranchID
		if branch == 0 {
			branch = emp.BranchID
		}
		id, err = tx.InsertOrder(ctx, domain.Order{
			EmployeeID:    emp.ID,
			BranchID:      branch,
			ClientName:    client,
			ClientPhone:   strings.TrimSpace(in.ClientPhone),
			Status:        domain.OrderInProgress,
			PaymentStatus: domain.PaymentNotPaid,
			CreatedAt:     now,
			Items:         items,
		})
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.OrdersStarted.Inc()
	s.Logger.Info("order started", "order_id", id, "employee_id", in.EmployeeID, "services", len(ids))
	return id, nil
}

// Complete records payment and closes the order.
func (s OrderService) Complete(ctx context.Context, orderID int64, paymentType string) (*domain.Order, error) {
	pt, err := domain.ParsePaymentType(paymentType)
	if err != nil {
		return nil, ErrInvalidPaymentType
	}
	return s.finish(ctx, orderID, func(o *domain.Order) {
		o.Status = domain.OrderCompleted
		o.PaymentType = &pt
		o.PaymentStatus = domain.PaymentPaid
	})
}

// MarkNotProvided closes the order without payment.
func (s OrderService) MarkNotProvided(ctx context.Context, orderID int64, reason string) (*domain.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.finish(ctx, orderID, func(o *domain.Order) {
		o.Status = domain.OrderNotProvided
		o.NotProvidedReason = reason
	})
}

func (s OrderService) finish(ctx context.Context, orderID int64, apply func(o *domain.Order)) (*domain.Order, error) {
	var order *domain.Order
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		o, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if o.Status != domain.OrderInProgress {
			return ErrOrderNotInProgress
		}
		// Read the clock only once the row lock is held.
		now := clock(s.Now)
		apply(o)
		o.CompletedAt = &now
		if err := tx.FinishOrder(ctx, *o); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrOrderNotInProgress
			}
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.OrdersFinished.WithLabelValues(string(order.Status)).Inc()
	s.Logger.Info("order finished", "order_id", order.ID, "status", order.Status)
	return order, nil
}

// ListInProgress returns the employee's open orders with elapsed minutes.
func (s OrderService) ListInProgress(ctx context.Context, employeeID int64) ([]InProgressOrder, error) {
	now := clock(s.Now)
	var orders []domain.Order
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		orders, err = tx.Orders(ctx, ports.OrderFilter{
			EmployeeID: &employeeID,
			Statuses:   []domain.OrderStatus{domain.OrderInProgress},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]InProgressOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, InProgressOrder{
			ID:          o.ID,
			ClientName:  o.ClientName,
			ClientPhone: o.ClientPhone,
			Services:    o.ServiceNames(),
			CreatedAt:   o.CreatedAt,
			Minutes:     report.DurationMinutes(o.CreatedAt, now),
		})
	}
	return out, nil
}

func (s OrderService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		order, err = tx.Order(ctx, orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	})
	return order, err
}

// dedupe drops repeated ids, keeping first-seen order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
