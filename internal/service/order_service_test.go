package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

func TestStartRequiresActiveShift(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.Start(f.ctx, service.StartOrderInput{
		EmployeeID: f.employee.ID,
		ClientName: "Клиент",
		ServiceIDs: []int64{f.passport.ID},
	})
	assert.ErrorIs(t, err, service.ErrNoActiveShift)

	f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.passport.ID)
	assert.NotZero(t, id)

	order, err := f.orders.Get(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderInProgress, order.Status)
	assert.Equal(t, domain.PaymentNotPaid, order.PaymentStatus)
	assert.Nil(t, order.PaymentType)
	assert.Nil(t, order.CompletedAt)
	assert.Equal(t, int64(1), order.BranchID)
	assert.Equal(t, f.now, order.CreatedAt)
}

func TestStartValidation(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")

	cases := []struct {
		name string
		in   service.StartOrderInput
		want error
		kind error
	}{
		{"no services", service.StartOrderInput{EmployeeID: f.employee.ID, ClientName: "К"}, service.ErrNoServices, service.ErrInvalidInput},
		{"unknown service", service.StartOrderInput{EmployeeID: f.employee.ID, ClientName: "К", ServiceIDs: []int64{f.passport.ID, 999}}, service.ErrInvalidService, service.ErrInvalidInput},
		{"no client", service.StartOrderInput{EmployeeID: f.employee.ID, ClientName: " ", ServiceIDs: []int64{f.passport.ID}}, service.ErrClientNameRequired, service.ErrInvalidInput},
		{"unknown employee", service.StartOrderInput{EmployeeID: 999, ClientName: "К", ServiceIDs: []int64{f.passport.ID}}, service.ErrInvalidEmployee, service.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Start(f.ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, tc.kind)
		})
	}

	_, _, _, orders := f.store.Counts()
	assert.Zero(t, orders)
}

func TestStartDeactivatedEmployee(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")
	require.NoError(t, f.catalog.DeactivateEmployee(f.ctx, f.employee.ID))

	_, err := f.orders.Start(f.ctx, service.StartOrderInput{
		EmployeeID: f.employee.ID,
		ClientName: "Клиент",
		ServiceIDs: []int64{f.passport.ID},
	})
	assert.ErrorIs(t, err, service.ErrInvalidEmployee)
}

func TestStartDedupesServices(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")

	id := f.start(t, f.employee.ID, f.iin.ID, f.passport.ID, f.iin.ID)
	order, err := f.orders.Get(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"ИИН", "Паспорт"}, order.ServiceNames())
	assert.Equal(t, int64(4500), order.Amount())
}

func TestStartSnapshotsPrice(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")

	id := f.start(t, f.employee.ID, f.passport.ID)
	order, err := f.orders.Get(f.ctx, id)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, domain.OrderItem{ServiceID: f.passport.ID, Name: "Паспорт", Price: 1500}, order.Items[0])
}

func TestCompleteNormalizesPayment(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.passport.ID)
	f.advance(15 * time.Minute)

	order, err := f.orders.Complete(f.ctx, id, " cash ")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, order.Status)
	assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
	require.NotNil(t, order.PaymentType)
	assert.Equal(t, domain.PaymentCash, *order.PaymentType)
	require.NotNil(t, order.CompletedAt)
	assert.Equal(t, f.now, *order.CompletedAt)
}

func TestCompleteTwiceFails(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.passport.ID)

	_, err := f.orders.Complete(f.ctx, id, "QR")
	require.NoError(t, err)

	_, err = f.orders.Complete(f.ctx, id, "CASH")
	assert.ErrorIs(t, err, service.ErrOrderNotInProgress)
	assert.ErrorIs(t, err, service.ErrInvalidState)

	_, err = f.orders.MarkNotProvided(f.ctx, id, "передумал")
	assert.ErrorIs(t, err, service.ErrInvalidState)

	order, err := f.orders.Get(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentQR, *order.PaymentType)
}

func TestCompleteErrors(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.passport.ID)

	_, err := f.orders.Complete(f.ctx, id, "card")
	assert.ErrorIs(t, err, service.ErrInvalidPaymentType)

	_, err = f.orders.Complete(f.ctx, 999, "cash")
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
	assert.ErrorIs(t, err, service.ErrNotFound)

	order, err := f.orders.Get(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderInProgress, order.Status)
}

func TestMarkNotProvided(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.passport.ID)

	_, err := f.orders.MarkNotProvided(f.ctx, id, "  ")
	assert.ErrorIs(t, err, service.ErrReasonRequired)

	order, err := f.orders.MarkNotProvided(f.ctx, id, "нет документов")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderNotProvided, order.Status)
	assert.Equal(t, "нет документов", order.NotProvidedReason)
	assert.Equal(t, domain.PaymentNotPaid, order.PaymentStatus)
	assert.Nil(t, order.PaymentType)
	assert.NotNil(t, order.CompletedAt)

	_, err = f.orders.Complete(f.ctx, id, "cash")
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestListInProgress(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")
	first := f.start(t, f.employee.ID, f.passport.ID, f.cert.ID)
	f.advance(90 * time.Second)
	second := f.start(t, f.employee.ID, f.iin.ID)
	done := f.start(t, f.employee.ID, f.iin.ID)
	_, err := f.orders.Complete(f.ctx, done, "cash")
	require.NoError(t, err)
	f.advance(30 * time.Second)

	list, err := f.orders.ListInProgress(f.ctx, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, 2, list[0].Minutes)
	assert.Equal(t, []string{"Паспорт", "Справка"}, list[0].Services)
	assert.Equal(t, second, list[1].ID)
	assert.Equal(t, 0, list[1].Minutes)

	other, err := f.orders.ListInProgress(f.ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListInProgressClampsClockSkew(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")
	f.start(t, f.employee.ID, f.passport.ID)
	f.advance(-5 * time.Minute)

	list, err := f.orders.ListInProgress(f.ctx, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].Minutes)
}

func TestFinishStampsTimeAfterRowLock(t *testing.T) {
	f := newFixture(t)
	f.login(t, "1234")
	id := f.start(t, f.employee.ID, f.passport.ID)

	waited := f.orders
	waited.Store = lockWaitStore{Store: f.store, onLock: func() { f.advance(time.Minute) }}
	before := f.now

	order, err := waited.Complete(f.ctx, id, "cash")
	require.NoError(t, err)
	require.NotNil(t, order.CompletedAt)
	assert.Equal(t, before.Add(time.Minute), *order.CompletedAt)
}
