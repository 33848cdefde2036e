package handler

import (
	"errors"
	"net/http"
	"time"
)

const dateLayout = "2006-01-02"

// reportHistoryYears bounds how far back a report day may be requested.
const reportHistoryYears = 1

var (
	errDateFormat = errors.New("invalid date (use YYYY-MM-DD)")
	errDateFuture = errors.New("date is in the future")
	errDateTooOld = errors.New("date is more than a year ago")
)

// parseReportDate reads an optional local calendar day from the query. A
// missing value yields nil. today is the current local day at midnight and
// supplies the zone the value is read in.
func parseReportDate(r *http.Request, key string, today time.Time) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(dateLayout, value, today.Location())
	if err != nil {
		return nil, errDateFormat
	}
	if day.After(today) {
		return nil, errDateFuture
	}
	if day.Before(today.AddDate(-reportHistoryYears, 0, 0)) {
		return nil, errDateTooOld
	}
	return &day, nil
}
