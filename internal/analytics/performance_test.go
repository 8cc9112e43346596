package analytics

import (
	"testing"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func intPtr(v int64) *int64 { return &v }

func TestBuildReportNormalizedNameMatch(t *testing.T) {
	team := []domain.User{
		{ID: 1, Name: "Ana", BaseSalary: domain.Money{Amount: 16000}, BaseHours: 160},
	}
	sales := []domain.Sale{
		{PerformedBy: "ana ", Total: domain.Money{Amount: 500}, Date: date(2026, 3, 10, 11, 0)},
	}
	end := date(2026, 3, 10, 13, 0)
	shifts := []domain.WorkShift{
		{UserID: 1, StartTime: date(2026, 3, 10, 9, 0), EndTime: &end},
	}

	report := BuildReport(team, sales, shifts, date(2026, 3, 1, 0, 0), date(2026, 3, 31, 0, 0), date(2026, 3, 31, 0, 0))
	require.Len(t, report.Stats, 1)

	st := report.Stats[0]
	assert.Equal(t, int64(500), st.TotalSales)
	assert.Equal(t, 1, st.SalesCount)
	assert.InDelta(t, 4.0, st.TotalHours, 1e-9)
	assert.InDelta(t, 125.0, st.Efficiency, 1e-9)
	assert.InDelta(t, 100.0, st.HourlyRate, 1e-9)
}

func TestBuildReportUnmatchedSaleIsDropped(t *testing.T) {
	team := []domain.User{{ID: 1, Name: "Ana"}}
	sales := []domain.Sale{
		{PerformedBy: "Former Employee", Total: domain.Money{Amount: 900}, Date: date(2026, 3, 10, 11, 0)},
	}

	report := BuildReport(team, sales, nil, date(2026, 3, 1, 0, 0), date(2026, 3, 31, 0, 0), time.Time{})
	require.Len(t, report.Stats, 1)
	assert.Zero(t, report.Stats[0].TotalSales)
	assert.Zero(t, report.Stats[0].SalesCount)
}

func TestBuildReportMatchesByUserIDFirst(t *testing.T) {
	team := []domain.User{
		{ID: 1, Name: "Ana"},
		{ID: 2, Name: "Bruno"},
	}
	// Name says Ana but the recorded id says Bruno; id wins.
	sales := []domain.Sale{
		{PerformedBy: "Ana", PerformedByID: intPtr(2), Total: domain.Money{Amount: 300}, Date: date(2026, 3, 5, 10, 0)},
	}

	report := BuildReport(team, sales, nil, date(2026, 3, 1, 0, 0), date(2026, 3, 31, 0, 0), time.Time{})
	for _, st := range report.Stats {
		if st.UserID == 2 {
			assert.Equal(t, int64(300), st.TotalSales)
		} else {
			assert.Zero(t, st.TotalSales)
		}
	}
}

func TestBuildReportDateWindow(t *testing.T) {
	team := []domain.User{{ID: 1, Name: "Ana"}}
	sales := []domain.Sale{
		// On the end date but before 23:59:59: included.
		{PerformedBy: "Ana", Total: domain.Money{Amount: 100}, Date: date(2026, 3, 31, 22, 30)},
		// Day after: excluded.
		{PerformedBy: "Ana", Total: domain.Money{Amount: 100}, Date: date(2026, 4, 1, 0, 30)},
		// Day before the start: excluded.
		{PerformedBy: "Ana", Total: domain.Money{Amount: 100}, Date: date(2026, 2, 28, 12, 0)},
	}

	report := BuildReport(team, sales, nil, date(2026, 3, 1, 0, 0), date(2026, 3, 31, 0, 0), time.Time{})
	assert.Equal(t, int64(100), report.Stats[0].TotalSales)
	assert.Equal(t, 1, report.Stats[0].SalesCount)
}

func TestBuildReportOpenShiftAccruesUntilNow(t *testing.T) {
	team := []domain.User{{ID: 1, Name: "Ana"}}
	shifts := []domain.WorkShift{
		{UserID: 1, StartTime: date(2026, 3, 10, 9, 0)}, // still clocked in
	}

	now := date(2026, 3, 10, 12, 30)
	report := BuildReport(team, nil, shifts, date(2026, 3, 1, 0, 0), date(2026, 3, 31, 0, 0), now)
	assert.InDelta(t, 3.5, report.Stats[0].TotalHours, 1e-9)
	// No sales: efficiency defined as zero, not NaN.
	assert.Zero(t, report.Stats[0].Efficiency)
}

func TestBuildReportZeroActivityMemberStaysRanked(t *testing.T) {
	team := []domain.User{
		{ID: 1, Name: "Ana"},
		{ID: 2, Name: "Bruno", BaseSalary: domain.Money{Amount: 8000}}, // BaseHours 0 falls back to 160
	}

	report := BuildReport(team, nil, nil, date(2026, 3, 1, 0, 0), date(2026, 3, 31, 0, 0), time.Time{})
	require.Len(t, report.Stats, 2)
	for _, st := range report.Stats {
		assert.Zero(t, st.TotalSales)
		assert.Zero(t, st.TotalHours)
		assert.Zero(t, st.Efficiency)
	}
	for _, st := range report.Stats {
		if st.UserID == 2 {
			assert.InDelta(t, 50.0, st.HourlyRate, 1e-9)
		}
	}
}

func TestBuildReportRankingAndBest(t *testing.T) {
	team := []domain.User{
		{ID: 1, Name: "Ana"},
		{ID: 2, Name: "Bruno"},
	}
	anaEnd := date(2026, 3, 10, 17, 0)
	brunoEnd := date(2026, 3, 10, 11, 0)
	shifts := []domain.WorkShift{
		{UserID: 1, StartTime: date(2026, 3, 10, 9, 0), EndTime: &anaEnd},  // 8h
		{UserID: 2, StartTime: date(2026, 3, 10, 9, 0), EndTime: &brunoEnd}, // 2h
	}
	sales := []domain.Sale{
		{PerformedBy: "Ana", Total: domain.Money{Amount: 1000}, Date: date(2026, 3, 10, 10, 0)},
		{PerformedBy: "Bruno", Total: domain.Money{Amount: 600}, Date: date(2026, 3, 10, 10, 0)},
	}

	report := BuildReport(team, sales, shifts, date(2026, 3, 1, 0, 0), date(2026, 3, 31, 0, 0), time.Time{})

	// Bruno is more efficient (300/h vs 125/h) but Ana generated more revenue.
	require.Len(t, report.Stats, 2)
	assert.Equal(t, "Bruno", report.Stats[0].Name)
	assert.Equal(t, "Ana", report.Stats[1].Name)
	require.NotNil(t, report.Best)
	assert.Equal(t, "Ana", report.Best.Name)
}
