package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

// LedgerHandler covers the revenue/expense book. Revenue lines for sales are
// written by checkout; this surface adds manual entries, mostly expenses.
type LedgerHandler struct {
	Repo repository.LedgerRepository
}

func (h LedgerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ledger", h.list)
	r.Get("/ledger/export", h.export)
	r.Post("/ledger", h.create)
}

func (h LedgerHandler) list(w http.ResponseWriter, r *http.Request) {
	items, ok := h.fetch(w, r, 200)
	if !ok {
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, ledgerPayload(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h LedgerHandler) fetch(w http.ResponseWriter, r *http.Request, limit int) ([]domain.LedgerEntry, bool) {
	user := authctx.FromContext(r.Context())
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return nil, false
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return nil, false
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return nil, false
	}

	var items []domain.LedgerEntry
	if startDate != nil || endDate != nil {
		items, err = h.Repo.ListFiltered(r.Context(), user.CompanyID, startDate, endDate)
	} else {
		items, err = h.Repo.List(r.Context(), user.CompanyID, limit)
	}
	if err != nil {
		writeRepoError(w, err)
		return nil, false
	}
	return items, true
}

func (h LedgerHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	items, ok := h.fetch(w, r, 2000)
	if !ok {
		return
	}

	suffix := time.Now().Format("20060102_150405")
	switch format {
	case "csv":
		data, err := exportLedgerCSV(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger_%s.csv\"", suffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportLedgerXLSX(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger_%s.xlsx\"", suffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func (h LedgerHandler) create(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	var req struct {
		Title    string `json:"title"`
		Amount   int64  `json:"amount"`
		Category string `json:"category"`
		Date     string `json:"date"`
		Type     string `json:"type"`
		Note     string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	entryType := domain.LedgerEntryType(req.Type)
	if entryType != domain.LedgerRevenue && entryType != domain.LedgerExpense {
		writeError(w, http.StatusBadRequest, "type must be revenue or expense")
		return
	}
	dt := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		dt = parsed
	}
	entry, err := h.Repo.Create(r.Context(), user.CompanyID, repository.CreateLedgerInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     dt,
		Type:     entryType,
		Note:     req.Note,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ledgerPayload(*entry))
}

func exportLedgerCSV(items []domain.LedgerEntry) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "title", "amount", "category", "date", "type", "note", "sale_code", "staff"})
	for _, e := range items {
		_ = w.Write([]string{
			strconv.FormatInt(e.ID, 10),
			e.Title,
			strconv.FormatInt(e.Amount.Amount, 10),
			e.Category,
			e.Date.Format(dateLayout),
			string(e.Type),
			e.Note,
			derefString(e.SaleCode),
			derefString(e.Staff),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportLedgerXLSX(items []domain.LedgerEntry) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Ledger"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Title", "Amount", "Category", "Date", "Type", "Note", "Sale Code", "Staff"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, e := range items {
		row := r + 2
		values := []any{
			e.ID,
			e.Title,
			e.Amount.Amount,
			e.Category,
			e.Date.Format(dateLayout),
			string(e.Type),
			e.Note,
			derefString(e.SaleCode),
			derefString(e.Staff),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 10)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "I", 16)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "I1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ledgerPayload(e domain.LedgerEntry) map[string]any {
	return map[string]any{
		"id":       e.ID,
		"title":    e.Title,
		"amount":   e.Amount.Amount,
		"category": e.Category,
		"date":     e.Date.Format(dateLayout),
		"type":     string(e.Type),
		"note":     e.Note,
		"saleCode": e.SaleCode,
		"staff":    e.Staff,
	}
}
