// Package report aggregates orders over a time window and renders the
// results as text for the staff chat. Everything here is a pure function
// of its arguments.
package report

import (
	"sort"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
)

// Window is a closed interval [Start, End] in absolute time.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// LocalDay returns the calendar day containing now as observed in loc.
func LocalDay(now time.Time, loc *time.Location) Window {
	y, m, d := now.In(loc).Date()
	return DayOf(time.Date(y, m, d, 0, 0, 0, 0, loc), loc)
}

// DayOf returns the local calendar day of date's year, month and day,
// converted back to UTC. The end is the last representable instant of the day.
func DayOf(date time.Time, loc *time.Location) Window {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	return Window{Start: start.UTC(), End: end.UTC()}
}

type Totals struct {
	OrderCount  int   `json:"order_count"`
	TotalAmount int64 `json:"total_amount"`
	CashAmount  int64 `json:"cash_amount"`
	QRAmount    int64 `json:"qr_amount"`
	NotProvided int   `json:"not_provided"`
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		OrderCount:  t.OrderCount + o.OrderCount,
		TotalAmount: t.TotalAmount + o.TotalAmount,
		CashAmount:  t.CashAmount + o.CashAmount,
		QRAmount:    t.QRAmount + o.QRAmount,
		NotProvided: t.NotProvided + o.NotProvided,
	}
}

// Qualifies reports whether o counts toward amounts in w.
func Qualifies(o domain.Order, w Window) bool {
	return o.Paid() && w.Contains(*o.CompletedAt)
}

// Aggregate totals the paid orders completed inside w. An order's amount is
// the sum of all its services and lands wholly in its payment-type bucket.
// NOT_PROVIDED orders closed inside w are only counted.
func Aggregate(orders []domain.Order, w Window) Totals {
	var t Totals
	for _, o := range orders {
		switch {
		case Qualifies(o, w):
			amount := o.Amount()
			t.OrderCount++
			t.TotalAmount += amount
			if o.PaymentType != nil {
				switch *o.PaymentType {
				case domain.PaymentCash:
					t.CashAmount += amount
				case domain.PaymentQR:
					t.QRAmount += amount
				}
			}
		case o.Status == domain.OrderNotProvided && o.CompletedAt != nil && w.Contains(*o.CompletedAt):
			t.NotProvided++
		}
	}
	return t
}

// AggregateFor is Aggregate restricted to one employee's orders.
func AggregateFor(orders []domain.Order, w Window, employeeID int64) Totals {
	return Aggregate(ForEmployee(orders, employeeID), w)
}

func ForEmployee(orders []domain.Order, employeeID int64) []domain.Order {
	var out []domain.Order
	for _, o := range orders {
		if o.EmployeeID == employeeID {
			out = append(out, o)
		}
	}
	return out
}

// Paid returns the orders that qualify in w, ordered by completion time.
func Paid(orders []domain.Order, w Window) []domain.Order {
	var out []domain.Order
	for _, o := range orders {
		if Qualifies(o, w) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(*out[j].CompletedAt)
	})
	return out
}

type EmployeeTotals struct {
	EmployeeID   int64          `json:"employee_id"`
	EmployeeName string         `json:"employee"`
	Totals       Totals         `json:"totals"`
	Orders       []domain.Order `json:"-"`
}

// Daily is the admin report for one local calendar day.
type Daily struct {
	Date      string           `json:"date"`
	Window    Window           `json:"-"`
	Employees []EmployeeTotals `json:"employees"`
	Total     Totals           `json:"total"`
}

// BuildDaily aggregates per employee and sums the rows into the grand total.
// Orders of employees missing from the list are still attributed to a row
// so the grand total always equals Aggregate over all orders.
func BuildDaily(employees []domain.Employee, orders []domain.Order, w Window, date string) Daily {
	d := Daily{Date: date, Window: w}
	seen := make(map[int64]bool, len(employees))
	for _, e := range employees {
		seen[e.ID] = true
		d.Employees = append(d.Employees, employeeRow(e.ID, e.Name, orders, w))
	}
	var orphans []int64
	for _, o := range orders {
		if !seen[o.EmployeeID] {
			seen[o.EmployeeID] = true
			orphans = append(orphans, o.EmployeeID)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
	for _, id := range orphans {
		d.Employees = append(d.Employees, employeeRow(id, "", orders, w))
	}
	for _, row := range d.Employees {
		d.Total = d.Total.Add(row.Totals)
	}
	return d
}

func employeeRow(id int64, name string, orders []domain.Order, w Window) EmployeeTotals {
	own := ForEmployee(orders, id)
	return EmployeeTotals{
		EmployeeID:   id,
		EmployeeName: name,
		Totals:       Aggregate(own, w),
		Orders:       Paid(own, w),
	}
}
