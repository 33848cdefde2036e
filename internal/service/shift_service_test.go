package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttvMolten/Egov-services-db/internal/report"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

func TestCloseWithoutShift(t *testing.T) {
	f := newFixture(t)

	_, err := f.shifts.Close(f.ctx, f.employee.ID)
	assert.ErrorIs(t, err, service.ErrNoActiveShift)
	assert.Empty(t, f.notifier.all())

	_, err = f.shifts.Close(f.ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestShiftScenarioCash(t *testing.T) {
	f := newFixture(t)

	f.login(t, "1234")
	f.advance(10 * time.Minute)
	id := f.start(t, f.employee.ID, f.passport.ID)
	f.advance(20 * time.Minute)
	_, err := f.orders.Complete(f.ctx, id, "cash")
	require.NoError(t, err)
	f.advance(time.Hour)

	sum, err := f.shifts.Close(f.ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Totals{OrderCount: 1, TotalAmount: 1500, CashAmount: 1500}, sum.Totals)
	assert.False(t, sum.Shift.Active)
	require.NotNil(t, sum.Shift.EndedAt)
	assert.Equal(t, f.now, *sum.Shift.EndedAt)
	require.Len(t, sum.Orders, 1)

	sent := f.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "shift_close", sent[0].kind)
	assert.Equal(t, sum.Report, sent[0].text)
	assert.Contains(t, sent[0].text, "Айгерим")
	assert.Contains(t, sent[0].text, "Сумма: 1 500 ₸")
	assert.Contains(t, sent[0].text, "10:10–10:30 (20 мин), CASH")

	_, err = f.shifts.Current(f.ctx, f.employee.ID)
	assert.ErrorIs(t, err, service.ErrNoActiveShift)
}

func TestShiftScenarioQRMultiService(t *testing.T) {
	f := newFixture(t)

	f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.passport.ID, f.iin.ID)
	_, err := f.orders.Complete(f.ctx, id, "qr")
	require.NoError(t, err)

	sum, err := f.shifts.Close(f.ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Totals{OrderCount: 1, TotalAmount: 4500, QRAmount: 4500}, sum.Totals)
}

func TestShiftNotProvidedCountedSeparately(t *testing.T) {
	f := newFixture(t)

	f.login(t, "1234")
	failed := f.start(t, f.employee.ID, f.iin.ID)
	paid := f.start(t, f.employee.ID, f.cert.ID)
	open := f.start(t, f.employee.ID, f.passport.ID)
	_, err := f.orders.MarkNotProvided(f.ctx, failed, "нет документов")
	require.NoError(t, err)
	_, err = f.orders.Complete(f.ctx, paid, "CASH")
	require.NoError(t, err)

	sum, err := f.shifts.Close(f.ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Totals{OrderCount: 1, TotalAmount: 2000, CashAmount: 2000, NotProvided: 1}, sum.Totals)
	assert.Contains(t, sum.Report, "Не оказано: 1")

	order, err := f.orders.Get(f.ctx, open)
	require.NoError(t, err)
	assert.False(t, order.Status.Terminal())
}

func TestShiftWindowExcludesEarlierShift(t *testing.T) {
	f := newFixture(t)

	first := f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.passport.ID)
	_, err := f.orders.Complete(f.ctx, id, "cash")
	require.NoError(t, err)
	f.advance(time.Hour)
	_, err = f.shifts.Close(f.ctx, f.employee.ID)
	require.NoError(t, err)

	f.advance(time.Hour)
	second := f.login(t, "1234")
	assert.True(t, second.ShiftOpened)
	assert.NotEqual(t, first.Shift.ID, second.Shift.ID)

	sum, err := f.shifts.Close(f.ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Totals{}, sum.Totals)

	history, err := f.shifts.History(f.ctx, f.employee.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.Shift.ID, history[0].ID)
}

func TestShiftWindowIsInclusive(t *testing.T) {
	f := newFixture(t)

	f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.passport.ID)
	// Completed at the same instant the shift is closed.
	_, err := f.orders.Complete(f.ctx, id, "qr")
	require.NoError(t, err)

	sum, err := f.shifts.Close(f.ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Totals.OrderCount)
}

func TestOpenIsIdempotent(t *testing.T) {
	f := newFixture(t)

	a, err := f.shifts.Open(f.ctx, f.employee.ID)
	require.NoError(t, err)
	f.advance(time.Minute)
	b, err := f.shifts.Open(f.ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	cur, err := f.shifts.Current(f.ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, cur.ID)

	_, err = f.shifts.Open(f.ctx, 999)
	assert.ErrorIs(t, err, service.ErrInvalidEmployee)
}

func TestCloseStampsTimeAfterShiftLock(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")

	waited := f.shifts
	waited.Store = lockWaitStore{Store: f.store, onLock: func() { f.advance(time.Minute) }}
	before := f.now

	sum, err := waited.Close(f.ctx, f.employee.ID)
	require.NoError(t, err)
	require.NotNil(t, sum.Shift.EndedAt)
	assert.Equal(t, before.Add(time.Minute), *sum.Shift.EndedAt)
}
