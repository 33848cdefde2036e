package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/ports"
	"github.com/ttvMolten/Egov-services-db/internal/report"
	"github.com/ttvMolten/Egov-services-db/internal/repository"
)

type ReportService struct {
	Store    ports.Store
	Logger   *slog.Logger
	Now      func() time.Time
	Format   report.Format
	Notifier Notifier
}

// Daily aggregates one local calendar day per employee. A nil day means
// today. Only admins may request it.
func (s ReportService) Daily(ctx context.Context, requesterID int64, day *time.Time) (*report.Daily, error) {
	return s.build(ctx, &requesterID, day)
}

// SendDaily builds today's detailed report and hands it to the notifier.
func (s ReportService) SendDaily(ctx context.Context, requesterID int64) (*report.Daily, error) {
	d, err := s.build(ctx, &requesterID, nil)
	if err != nil {
		return nil, err
	}
	s.send(d)
	return d, nil
}

// SendScheduled is SendDaily for the scheduler, which has no requester.
func (s ReportService) SendScheduled(ctx context.Context) error {
	d, err := s.build(ctx, nil, nil)
	if err != nil {
		return err
	}
	s.send(d)
	return nil
}

func (s ReportService) Render(d report.Daily, detailed bool) string {
	f := s.Format
	f.Detailed = detailed
	return report.RenderDaily(d, f)
}

func (s ReportService) send(d *report.Daily) {
	s.Logger.Info("daily report", "date", d.Date, "orders", d.Total.OrderCount, "total", d.Total.TotalAmount)
	if s.Notifier != nil {
		s.Notifier.Deliver("daily", s.Render(*d, true))
	}
}

func (s ReportService) build(ctx context.Context, requesterID *int64, day *time.Time) (*report.Daily, error) {
	loc := s.Location()
	var w report.Window
	if day == nil {
		w = report.LocalDay(clock(s.Now), loc)
	} else {
		w = report.DayOf(*day, loc)
	}

	var d report.Daily
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		if requesterID != nil {
			if err := requireAdmin(ctx, tx, *requesterID); err != nil {
				return err
			}
		}
		employees, err := tx.Employees(ctx)
		if err != nil {
			return err
		}
		orders, err := tx.Orders(ctx, ports.OrderFilter{
			Statuses:   []domain.OrderStatus{domain.OrderCompleted, domain.OrderNotProvided},
			ClosedFrom: &w.Start,
			ClosedTo:   &w.End,
		})
		if err != nil {
			return err
		}
		d = report.BuildDaily(employees, orders, w, w.Start.In(loc).Format("2006-01-02"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Today is the current local calendar day at midnight in Location.
func (s ReportService) Today() time.Time {
	loc := s.Location()
	y, m, d := clock(s.Now).In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Location is the zone local days and clock times are computed in.
func (s ReportService) Location() *time.Location {
	if s.Format.Location == nil {
		return time.UTC
	}
	return s.Format.Location
}

func requireAdmin(ctx context.Context, tx ports.Tx, id int64) error {
	emp, err := tx.Employee(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidEmployee
		}
		return err
	}
	if !emp.Active || !emp.IsAdmin() {
		return ErrAccessDenied
	}
	return nil
}
