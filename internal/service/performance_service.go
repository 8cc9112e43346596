package service

import (
	"context"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/analytics"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
)

// PerformanceService assembles the inputs for the performance report: the
// active roster, sales in the window, and the shifts overlapping it.
type PerformanceService struct {
	Users  repository.UserRepository
	Sales  repository.SaleRepository
	Shifts repository.ShiftRepository
}

func (s PerformanceService) Report(ctx context.Context, companyID int64, start, end time.Time) (analytics.Report, error) {
	team, err := s.Users.ListTeam(ctx, companyID)
	if err != nil {
		return analytics.Report{}, err
	}
	sales, err := s.Sales.ListRange(ctx, companyID, start, end)
	if err != nil {
		return analytics.Report{}, err
	}
	shifts, err := s.Shifts.ListRange(ctx, companyID, start, end)
	if err != nil {
		return analytics.Report{}, err
	}
	return analytics.BuildReport(team, sales, shifts, start, end, time.Now()), nil
}
