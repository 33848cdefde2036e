package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/report"
	"github.com/xuri/excelize/v2"
)

func (h ReportHandler) export(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	day, err := parseReportDate(r, "date", h.Service.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.Service.Daily(r.Context(), user.ID, day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	loc := h.Service.Location()

	switch format {
	case "csv":
		data, err := exportDailyCSV(*d)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"report_%s.csv\"", d.Date))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportDailyXLSX(*d, loc)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"report_%s.xlsx\"", d.Date))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

var summaryHeader = []string{"employee_id", "employee", "orders", "total", "cash", "qr", "not_provided"}

func summaryRow(id, name string, t report.Totals) []string {
	return []string{
		id,
		name,
		strconv.Itoa(t.OrderCount),
		strconv.FormatInt(t.TotalAmount, 10),
		strconv.FormatInt(t.CashAmount, 10),
		strconv.FormatInt(t.QRAmount, 10),
		strconv.Itoa(t.NotProvided),
	}
}

func exportDailyCSV(d report.Daily) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(summaryHeader)
	for _, row := range d.Employees {
		_ = w.Write(summaryRow(strconv.FormatInt(row.EmployeeID, 10), row.EmployeeName, row.Totals))
	}
	_ = w.Write(summaryRow("", "TOTAL", d.Total))
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportDailyXLSX(d report.Daily, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	index, err := f.NewSheet(summary)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Employee", "Orders", "Total", "Cash", "QR", "Not provided"}
	setRow(f, summary, 1, toAny(header))
	row := 2
	for _, e := range d.Employees {
		t := e.Totals
		setRow(f, summary, row, []any{e.EmployeeID, e.EmployeeName, t.OrderCount, t.TotalAmount, t.CashAmount, t.QRAmount, t.NotProvided})
		row++
	}
	t := d.Total
	setRow(f, summary, row, []any{"", "TOTAL", t.OrderCount, t.TotalAmount, t.CashAmount, t.QRAmount, t.NotProvided})

	const orders = "Orders"
	if _, err := f.NewSheet(orders); err != nil {
		return nil, err
	}
	setRow(f, orders, 1, toAny([]string{"Order", "Employee", "Client", "Phone", "Services", "Started", "Completed", "Minutes", "Payment", "Amount"}))
	row = 2
	for _, e := range d.Employees {
		for _, o := range e.Orders {
			payment := ""
			if o.PaymentType != nil {
				payment = string(*o.PaymentType)
			}
			setRow(f, orders, row, []any{
				o.ID,
				e.EmployeeName,
				o.ClientName,
				o.ClientPhone,
				strings.Join(o.ServiceNames(), ", "),
				o.CreatedAt.In(loc).Format("15:04"),
				o.CompletedAt.In(loc).Format("15:04"),
				report.DurationMinutes(o.CreatedAt, *o.CompletedAt),
				payment,
				o.Amount(),
			})
			row++
		}
	}

	_ = f.SetColWidth(summary, "A", "A", 8)
	_ = f.SetColWidth(summary, "B", "B", 28)
	_ = f.SetColWidth(summary, "C", "G", 14)
	_ = f.SetColWidth(orders, "A", "A", 8)
	_ = f.SetColWidth(orders, "B", "C", 24)
	_ = f.SetColWidth(orders, "D", "D", 16)
	_ = f.SetColWidth(orders, "E", "E", 36)
	_ = f.SetColWidth(orders, "F", "J", 12)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(summary, "A1", "G1", style)
	_ = f.SetCellStyle(orders, "A1", "J1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) {
	for c, v := range values {
		cell, _ := excelize.CoordinatesToCellName(c+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
