package repository

import (
	"context"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
)

const employeeColumns = `id, name, branch_id, role, is_active, pin_hash, pin_lookup, created_at`

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var (
		e    domain.Employee
		role string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.BranchID, &role, &e.Active, &e.PinHash, &e.PinLookup, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Role = domain.Role(role)
	return &e, nil
}

func (t pgTx) Employees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (t pgTx) Employee(ctx context.Context, id int64) (*domain.Employee, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE id=$1
	`, id)
	e, err := scanEmployee(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// EmployeeByPINLookup finds the employee owning a PIN digest, active or not.
func (t pgTx) EmployeeByPINLookup(ctx context.Context, lookup string) (*domain.Employee, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE pin_lookup=$1
	`, lookup)
	e, err := scanEmployee(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// InsertEmployee returns ErrConflict when the PIN digest is already taken.
func (t pgTx) InsertEmployee(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO employees (name, branch_id, role, is_active, pin_hash, pin_lookup, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+employeeColumns+`
	`, e.Name, e.BranchID, string(e.Role), e.Active, e.PinHash, e.PinLookup, e.CreatedAt)
	created, err := scanEmployee(row)
	if IsDuplicate(err) {
		return nil, ErrConflict
	}
	return created, err
}

func (t pgTx) SetEmployeeActive(ctx context.Context, id int64, active bool) error {
	ct, err := t.tx.Exec(ctx, `UPDATE employees SET is_active=$1 WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
