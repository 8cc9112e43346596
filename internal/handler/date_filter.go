package handler

import (
	"net/http"
	"time"
)

const dateLayout = "2006-01-02"

func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseDateRange reads startDate/endDate, defaulting to the last 30 days.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	start, err := parseDateQuery(r, "startDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateQuery(r, "endDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	now := time.Now()
	if end == nil {
		end = &now
	}
	if start == nil {
		s := end.AddDate(0, 0, -30)
		start = &s
	}
	return *start, *end, nil
}
