package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
)

// Format controls presentation only; it never changes totals.
type Format struct {
	Location *time.Location
	Currency string
	Detailed bool
}

func (f Format) loc() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

func (f Format) money(v int64) string {
	s := FormatAmount(v)
	if f.Currency == "" {
		return s
	}
	return s + " " + f.Currency
}

func (f Format) clock(t time.Time) string {
	return t.In(f.loc()).Format("15:04")
}

// FormatAmount groups digits by thousands with spaces: 1234567 -> "1 234 567".
func FormatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var parts []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		parts = append([]string{digits[start:i]}, parts...)
	}
	return sign + strings.Join(parts, " ")
}

// DurationMinutes is the whole minutes between two instants, never negative.
func DurationMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// ShiftReport is the data behind a shift close-out message.
type ShiftReport struct {
	EmployeeName string
	StartedAt    time.Time
	EndedAt      time.Time
	Totals       Totals
	Orders       []domain.Order
}

func RenderShiftClose(r ShiftReport, f Format) string {
	var b strings.Builder
	b.WriteString("📊 Смена закрыта\n\n")
	fmt.Fprintf(&b, "Сотрудник: %s\n", r.EmployeeName)
	fmt.Fprintf(&b, "Смена: %s – %s\n", f.clock(r.StartedAt), f.clock(r.EndedAt))
	writeTotals(&b, r.Totals, f)
	if f.Detailed && len(r.Orders) > 0 {
		b.WriteString("\n")
		writeOrders(&b, r.Orders, f)
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderDaily(d Daily, f Format) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Отчёт за %s\n\n", d.Date)
	for _, row := range d.Employees {
		name := row.EmployeeName
		if name == "" {
			name = fmt.Sprintf("#%d", row.EmployeeID)
		}
		b.WriteString(name + "\n")
		writeTotals(&b, row.Totals, f)
		if f.Detailed && len(row.Orders) > 0 {
			writeOrders(&b, row.Orders, f)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "💰 Общая касса: %s\n", f.money(d.Total.TotalAmount))
	fmt.Fprintf(&b, "Нал: %s\n", f.money(d.Total.CashAmount))
	fmt.Fprintf(&b, "QR: %s\n", f.money(d.Total.QRAmount))
	if d.Total.NotProvided > 0 {
		fmt.Fprintf(&b, "Не оказано: %d\n", d.Total.NotProvided)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeTotals(b *strings.Builder, t Totals, f Format) {
	fmt.Fprintf(b, "Услуг: %d\n", t.OrderCount)
	fmt.Fprintf(b, "Сумма: %s\n", f.money(t.TotalAmount))
	fmt.Fprintf(b, "Нал: %s\n", f.money(t.CashAmount))
	fmt.Fprintf(b, "QR: %s\n", f.money(t.QRAmount))
	if t.NotProvided > 0 {
		fmt.Fprintf(b, "Не оказано: %d\n", t.NotProvided)
	}
}

func writeOrders(b *strings.Builder, orders []domain.Order, f Format) {
	for i, o := range orders {
		payment := ""
		if o.PaymentType != nil {
			payment = string(*o.PaymentType)
		}
		end := o.CreatedAt
		if o.CompletedAt != nil {
			end = *o.CompletedAt
		}
		fmt.Fprintf(b, "%d. %s — %s\n", i+1, strings.Join(o.ServiceNames(), ", "), o.ClientName)
		fmt.Fprintf(b, "   %s–%s (%d мин), %s, %s\n",
			f.clock(o.CreatedAt), f.clock(end), DurationMinutes(o.CreatedAt, end), payment, f.money(o.Amount()))
	}
}
