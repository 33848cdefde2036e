package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/ports"
)

const orderColumns = `id, employee_id, branch_id, client_name, client_phone, status, payment_type,
	payment_status, not_provided_reason, created_at, completed_at`

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o             domain.Order
		status        string
		paymentType   pgtype.Text
		paymentStatus string
		reason        pgtype.Text
	)
	if err := row.Scan(
		&o.ID, &o.EmployeeID, &o.BranchID, &o.ClientName, &o.ClientPhone, &status, &paymentType,
		&paymentStatus, &reason, &o.CreatedAt, &o.CompletedAt,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentStatus = domain.PaymentStatus(paymentStatus)
	if paymentType.Valid {
		pt := domain.PaymentType(paymentType.String)
		o.PaymentType = &pt
	}
	o.NotProvidedReason = reason.String
	return &o, nil
}

// InsertOrder writes the order and one order_services row per item.
func (t pgTx) InsertOrder(ctx context.Context, o domain.Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (employee_id, branch_id, client_name, client_phone, status, payment_status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, o.EmployeeID, o.BranchID, o.ClientName, o.ClientPhone, string(o.Status), string(o.PaymentStatus), o.CreatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}

	for pos, it := range o.Items {
		_, err := t.tx.Exec(ctx, `
			INSERT INTO order_services (order_id, service_id, position, name, price)
			VALUES ($1,$2,$3,$4,$5)
		`, id, it.ServiceID, pos, it.Name, it.Price)
		if err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (t pgTx) OrderForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	return t.order(ctx, id, "FOR UPDATE")
}

func (t pgTx) Order(ctx context.Context, id int64) (*domain.Order, error) {
	return t.order(ctx, id, "")
}

func (t pgTx) order(ctx context.Context, id int64, lock string) (*domain.Order, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id=$1
		`+lock, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, notFound(err)
	}
	items, err := t.orderItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// FinishOrder only matches rows still IN_PROGRESS, so a lost race surfaces
// as ErrConflict rather than overwriting a terminal outcome.
func (t pgTx) FinishOrder(ctx context.Context, o domain.Order) error {
	var paymentType *string
	if o.PaymentType != nil {
		s := string(*o.PaymentType)
		paymentType = &s
	}
	var reason *string
	if o.NotProvidedReason != "" {
		reason = &o.NotProvidedReason
	}
	ct, err := t.tx.Exec(ctx, `
		UPDATE orders
		SET status=$2, payment_type=$3, payment_status=$4, not_provided_reason=$5, completed_at=$6
		WHERE id=$1 AND status=$7
	`, o.ID, string(o.Status), paymentType, string(o.PaymentStatus), reason, o.CompletedAt, string(domain.OrderInProgress))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (t pgTx) Orders(ctx context.Context, f ports.OrderFilter) ([]domain.Order, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.EmployeeID != nil {
		conds = append(conds, "employee_id = "+arg(*f.EmployeeID))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		conds = append(conds, "status = ANY("+arg(statuses)+")")
	}
	if f.ClosedFrom != nil {
		conds = append(conds, "completed_at >= "+arg(*f.ClosedFrom))
	}
	if f.ClosedTo != nil {
		conds = append(conds, "completed_at <= "+arg(*f.ClosedTo))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := t.tx.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		`+where+`
		ORDER BY created_at ASC, id ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		orders []domain.Order
		ids    []int64
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		ids = append(ids, o.ID)
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := t.orderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (t pgTx) orderItems(ctx context.Context, ids []int64) (map[int64][]domain.OrderItem, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT order_id, service_id, name, price
		FROM order_services
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOrder := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var (
			orderID int64
			it      domain.OrderItem
		)
		if err := rows.Scan(&orderID, &it.ServiceID, &it.Name, &it.Price); err != nil {
			return nil, err
		}
		byOrder[orderID] = append(byOrder[orderID], it)
	}
	return byOrder, rows.Err()
}
