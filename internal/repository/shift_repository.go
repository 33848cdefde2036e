package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ttvMolten/Egov-services-db/internal/domain"
)

const shiftColumns = `id, employee_id, started_at, ended_at, is_active`

func scanShift(row rowScanner) (*domain.Shift, error) {
	var s domain.Shift
	if err := row.Scan(&s.ID, &s.EmployeeID, &s.StartedAt, &s.EndedAt, &s.Active); err != nil {
		return nil, err
	}
	return &s, nil
}

func (t pgTx) ActiveShift(ctx context.Context, employeeID int64) (*domain.Shift, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE employee_id=$1 AND is_active
		FOR UPDATE
	`, employeeID)
	s, err := scanShift(row)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// OpenShift relies on the shifts_one_active_per_employee partial index: a
// concurrent login blocks on the insert and then falls through to the
// select once the other transaction commits.
func (t pgTx) OpenShift(ctx context.Context, employeeID int64, at time.Time) (*domain.Shift, bool, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO shifts (employee_id, started_at, is_active)
		VALUES ($1,$2,true)
		ON CONFLICT (employee_id) WHERE is_active DO NOTHING
		RETURNING `+shiftColumns+`
	`, employeeID, at)
	s, err := scanShift(row)
	if err == nil {
		return s, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}
	s, err = t.ActiveShift(ctx, employeeID)
	if err != nil {
		return nil, false, err
	}
	return s, false, nil
}

func (t pgTx) CloseShift(ctx context.Context, shiftID int64, at time.Time) (*domain.Shift, error) {
	row := t.tx.QueryRow(ctx, `
		UPDATE shifts
		SET is_active=false, ended_at=$2
		WHERE id=$1 AND is_active
		RETURNING `+shiftColumns+`
	`, shiftID, at)
	s, err := scanShift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return s, nil
}

func (t pgTx) Shifts(ctx context.Context, employeeID int64, limit int) ([]domain.Shift, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := t.tx.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE employee_id=$1
		ORDER BY started_at DESC, id DESC
		LIMIT $2
	`, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}
