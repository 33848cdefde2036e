package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/ports"
	"github.com/ttvMolten/Egov-services-db/internal/repository"
)

type CatalogService struct {
	Store  ports.Store
	Logger *slog.Logger
	Now    func() time.Time
}

func (s CatalogService) ListServices(ctx context.Context) ([]domain.Service, error) {
	var items []domain.Service
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		items, err = tx.Services(ctx)
		return err
	})
	return items, err
}

func (s CatalogService) CreateService(ctx context.Context, name string, price int64) (*domain.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" || price <= 0 {
		return nil, ErrInvalidServiceInput
	}
	var created *domain.Service
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		created, err = tx.InsertService(ctx, domain.Service{Name: name, Price: price, CreatedAt: clock(s.Now)})
		if errors.Is(err, repository.ErrConflict) {
			return ErrDuplicateService
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("service created", "service_id", created.ID, "price", created.Price)
	return created, nil
}

func (s CatalogService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var items []domain.Employee
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		items, err = tx.Employees(ctx)
		return err
	})
	return items, err
}

// DeactivateEmployee disables login for the employee. History is kept and
// an open shift stays open until closed.
func (s CatalogService) DeactivateEmployee(ctx context.Context, id int64) error {
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		return tx.SetEmployeeActive(ctx, id, false)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidEmployee
	}
	if err != nil {
		return err
	}
	s.Logger.Info("employee deactivated", "employee_id", id)
	return nil
}
