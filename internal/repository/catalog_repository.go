package repository

import (
	"context"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
)

func (t pgTx) Services(ctx context.Context) ([]domain.Service, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, name, price, created_at
		FROM services
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// ServicesByIDs returns the services that exist among ids, in no particular order.
func (t pgTx) ServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := t.tx.Query(ctx, `
		SELECT id, name, price, created_at
		FROM services
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (t pgTx) InsertService(ctx context.Context, s domain.Service) (*domain.Service, error) {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO services (name, price, created_at)
		VALUES ($1,$2,$3)
		RETURNING id, name, price, created_at
	`, s.Name, s.Price, s.CreatedAt).Scan(&s.ID, &s.Name, &s.Price, &s.CreatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &s, nil
}
