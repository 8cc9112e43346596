package handler

import (
	"fmt"
	"net/http"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/analytics"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

// PerformanceHandler serves the staff performance report.
type PerformanceHandler struct {
	Service service.PerformanceService
}

func (h PerformanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/performance", h.report)
	r.Get("/performance/export", h.export)
}

func (h PerformanceHandler) report(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date filter")
		return
	}
	if start.After(end) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}

	rep, err := h.Service.Report(r.Context(), user.CompanyID, start, end)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	stats := make([]map[string]any, 0, len(rep.Stats))
	for _, s := range rep.Stats {
		stats = append(stats, statPayload(s))
	}
	payload := map[string]any{
		"startDate": start.Format(dateLayout),
		"endDate":   end.Format(dateLayout),
		"stats":     stats,
	}
	if rep.Best != nil {
		payload["best"] = statPayload(*rep.Best)
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h PerformanceHandler) export(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date filter")
		return
	}
	if start.After(end) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}

	rep, err := h.Service.Report(r.Context(), user.CompanyID, start, end)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	data, err := exportPerformanceXLSX(rep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	filename := fmt.Sprintf("performance_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

func exportPerformanceXLSX(rep analytics.Report) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Performance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Name", "Total Sales", "Sales Count", "Hours Worked", "Efficiency", "Hourly Rate"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, s := range rep.Stats {
		row := r + 2
		values := []any{
			s.Name,
			s.TotalSales,
			s.SalesCount,
			s.TotalHours,
			s.Efficiency,
			s.HourlyRate,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "F", 16)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "F1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func statPayload(s analytics.Stat) map[string]any {
	return map[string]any{
		"userId":     s.UserID,
		"name":       s.Name,
		"totalSales": s.TotalSales,
		"salesCount": s.SalesCount,
		"totalHours": s.TotalHours,
		"efficiency": s.Efficiency,
		"hourlyRate": s.HourlyRate,
	}
}
