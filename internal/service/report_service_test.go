package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttvMolten/Egov-services-db/internal/report"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

func TestDailyRequiresAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.reports.Daily(f.ctx, f.employee.ID, nil)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	_, err = f.reports.Daily(f.ctx, 999, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.reports.SendDaily(f.ctx, f.employee.ID)
	assert.ErrorIs(t, err, service.ErrAccessDenied)
	assert.Empty(t, f.notifier.all())
}

func TestDailyPerEmployeeAndGrandTotals(t *testing.T) {
	f := newFixture(t)

	f.login(t, "1234")
	f.login(t, "9999")
	a := f.start(t, f.employee.ID, f.passport.ID)
	b := f.start(t, f.employee.ID, f.iin.ID, f.cert.ID)
	c := f.start(t, f.admin.ID, f.cert.ID)
	d := f.start(t, f.admin.ID, f.passport.ID)
	_, err := f.orders.Complete(f.ctx, a, "cash")
	require.NoError(t, err)
	_, err = f.orders.Complete(f.ctx, b, "qr")
	require.NoError(t, err)
	_, err = f.orders.Complete(f.ctx, c, "cash")
	require.NoError(t, err)
	_, err = f.orders.MarkNotProvided(f.ctx, d, "отказ")
	require.NoError(t, err)

	daily, err := f.reports.Daily(f.ctx, f.admin.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", daily.Date)
	require.Len(t, daily.Employees, 2)

	byID := map[int64]report.Totals{}
	for _, row := range daily.Employees {
		byID[row.EmployeeID] = row.Totals
	}
	assert.Equal(t, report.Totals{OrderCount: 2, TotalAmount: 6500, CashAmount: 1500, QRAmount: 5000}, byID[f.employee.ID])
	assert.Equal(t, report.Totals{OrderCount: 1, TotalAmount: 2000, CashAmount: 2000, NotProvided: 1}, byID[f.admin.ID])
	assert.Equal(t, report.Totals{OrderCount: 3, TotalAmount: 8500, CashAmount: 3500, QRAmount: 5000, NotProvided: 1}, daily.Total)
}

func TestDailyUsesLocalDayBoundaries(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")

	// 23:59 local on March 10.
	f.now = time.Date(2026, 3, 10, 18, 59, 0, 0, time.UTC)
	late := f.start(t, f.employee.ID, f.passport.ID)
	_, err := f.orders.Complete(f.ctx, late, "cash")
	require.NoError(t, err)

	// 00:00 local on March 11.
	f.now = time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	next := f.start(t, f.employee.ID, f.iin.ID)
	_, err = f.orders.Complete(f.ctx, next, "cash")
	require.NoError(t, err)

	today, err := f.reports.Daily(f.ctx, f.admin.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", today.Date)
	assert.Equal(t, int64(3000), today.Total.TotalAmount)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	prev, err := f.reports.Daily(f.ctx, f.admin.ID, &day)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", prev.Date)
	assert.Equal(t, int64(1500), prev.Total.TotalAmount)
}

func TestSendDailyDelivers(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.iin.ID)
	_, err := f.orders.Complete(f.ctx, id, "qr")
	require.NoError(t, err)

	daily, err := f.reports.SendDaily(f.ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), daily.Total.QRAmount)

	require.NoError(t, f.reports.SendScheduled(f.ctx))

	sent := f.notifier.all()
	require.Len(t, sent, 2)
	for _, d := range sent {
		assert.Equal(t, "daily", d.kind)
		assert.Contains(t, d.text, "📊 Отчёт за 2026-03-10")
		assert.Contains(t, d.text, "💰 Общая касса: 3 000 ₸")
		assert.Contains(t, d.text, "ИИН — Клиент")
	}
}
