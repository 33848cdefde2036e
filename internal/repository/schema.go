package repository

import (
	"context"
	"fmt"

	"github.com/ttvMolten/Egov-services-db/internal/db"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		branch_id  BIGINT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'EMPLOYEE' CHECK (role IN ('EMPLOYEE','ADMIN')),
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		pin_hash   TEXT NOT NULL,
		pin_lookup TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// A PIN identifies exactly one employee, active or not.
	`CREATE UNIQUE INDEX IF NOT EXISTS employees_pin_lookup_unique
		ON employees (pin_lookup)`,
	`CREATE TABLE IF NOT EXISTS services (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		price      BIGINT NOT NULL CHECK (price >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS services_name_unique ON services (lower(name))`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id          BIGSERIAL PRIMARY KEY,
		employee_id BIGINT NOT NULL REFERENCES employees(id),
		started_at  TIMESTAMPTZ NOT NULL,
		ended_at    TIMESTAMPTZ,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	// At most one open shift per employee.
	`CREATE UNIQUE INDEX IF NOT EXISTS shifts_one_active_per_employee
		ON shifts (employee_id) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                  BIGSERIAL PRIMARY KEY,
		employee_id         BIGINT NOT NULL REFERENCES employees(id),
		branch_id           BIGINT NOT NULL,
		client_name         TEXT NOT NULL,
		client_phone        TEXT NOT NULL,
		status              TEXT NOT NULL CHECK (status IN ('IN_PROGRESS','COMPLETED','NOT_PROVIDED')),
		payment_type        TEXT CHECK (payment_type IN ('CASH','QR')),
		payment_status      TEXT NOT NULL DEFAULT 'NOT_PAID' CHECK (payment_status IN ('NOT_PAID','PAID')),
		not_provided_reason TEXT,
		created_at          TIMESTAMPTZ NOT NULL,
		completed_at        TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS orders_employee_status ON orders (employee_id, status)`,
	`CREATE INDEX IF NOT EXISTS orders_completed_at ON orders (completed_at) WHERE completed_at IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS order_services (
		order_id   BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		service_id BIGINT NOT NULL REFERENCES services(id),
		position   INT NOT NULL,
		name       TEXT NOT NULL,
		price      BIGINT NOT NULL,
		PRIMARY KEY (order_id, service_id)
	)`,
}

// Migrate creates missing tables and indexes in one transaction.
func Migrate(ctx context.Context, pg *db.Postgres) error {
	tx, err := pg.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return tx.Commit(ctx)
}
