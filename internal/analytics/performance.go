// Package analytics derives per-employee performance metrics from sales and
// work shifts over a date range.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
)

const defaultBaseHours = 160

// Stat is a projection recomputed per query; it has no independent lifecycle.
type Stat struct {
	UserID     int64
	Name       string
	TotalSales int64
	TotalHours float64
	SalesCount int
	Efficiency float64
	HourlyRate float64
}

// Report ranks roster members by efficiency. Best is the top revenue
// generator, a different sort key serving a different widget.
type Report struct {
	Stats []Stat
	Best  *Stat
}

// BuildReport aggregates sales and shifts per roster member.
//
// Sales are windowed to [start, end] with end treated as end-of-day. A sale
// resolves to a member by performed-by user id when present, then by exact
// name, then by trimmed and lowercased name; sales matching nobody are
// silently excluded. Shifts are trusted to be pre-filtered by the caller and
// are only resolved by user id; an open shift accrues hours up to now.
func BuildReport(team []domain.User, sales []domain.Sale, shifts []domain.WorkShift, start, end, now time.Time) Report {
	if now.IsZero() {
		now = time.Now()
	}
	endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())

	stats := make([]Stat, len(team))
	byID := make(map[int64]*Stat, len(team))
	byName := make(map[string]*Stat, len(team))
	byNorm := make(map[string]*Stat, len(team))
	for i, m := range team {
		stats[i] = Stat{UserID: m.ID, Name: m.Name}
		byID[m.ID] = &stats[i]
		byName[m.Name] = &stats[i]
		byNorm[normalizeName(m.Name)] = &stats[i]
	}

	for _, s := range sales {
		if s.Date.Before(start) || s.Date.After(endOfDay) {
			continue
		}
		st := resolve(s, byID, byName, byNorm)
		if st == nil {
			continue
		}
		st.TotalSales += s.Total.Amount
		st.SalesCount++
	}

	for _, sh := range shifts {
		st, ok := byID[sh.UserID]
		if !ok {
			continue
		}
		endTime := now
		if sh.EndTime != nil {
			endTime = *sh.EndTime
		}
		if d := endTime.Sub(sh.StartTime); d > 0 {
			st.TotalHours += d.Hours()
		}
	}

	for i, m := range team {
		st := &stats[i]
		if st.TotalHours > 0 {
			st.Efficiency = float64(st.TotalSales) / st.TotalHours
		}
		if m.BaseSalary.Amount > 0 {
			baseHours := m.BaseHours
			if baseHours == 0 {
				baseHours = defaultBaseHours
			}
			st.HourlyRate = float64(m.BaseSalary.Amount) / float64(baseHours)
		}
	}

	ranked := make([]Stat, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Efficiency > ranked[j].Efficiency
	})

	return Report{Stats: ranked, Best: bestByRevenue(ranked)}
}

func resolve(s domain.Sale, byID map[int64]*Stat, byName, byNorm map[string]*Stat) *Stat {
	if s.PerformedByID != nil {
		if st, ok := byID[*s.PerformedByID]; ok {
			return st
		}
	}
	if st, ok := byName[s.PerformedBy]; ok {
		return st
	}
	if st, ok := byNorm[normalizeName(s.PerformedBy)]; ok {
		return st
	}
	return nil
}

func bestByRevenue(stats []Stat) *Stat {
	if len(stats) == 0 {
		return nil
	}
	best := &stats[0]
	for i := range stats {
		if stats[i].TotalSales > best.TotalSales {
			best = &stats[i]
		}
	}
	out := *best
	return &out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
