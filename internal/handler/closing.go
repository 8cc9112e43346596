package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

// ClosingHandler records end-of-day register counts against the system total.
type ClosingHandler struct {
	Repo  repository.ClosingRepository
	Sales repository.SaleRepository
}

func (h ClosingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/closings", h.list)
	r.Get("/closings/preview", h.preview)
	r.Post("/closings", h.create)
}

// preview returns the system total for the day being closed.
func (h ClosingHandler) preview(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	date := time.Now()
	if d, err := parseDateQuery(r, "date"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	} else if d != nil {
		date = *d
	}
	total, err := h.Sales.TotalForDate(r.Context(), user.CompanyID, date)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":        date.Format(dateLayout),
		"systemTotal": total,
	})
}

func (h ClosingHandler) create(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	var req struct {
		Date         string `json:"date"`
		CountedTotal int64  `json:"countedTotal"`
		ShiftID      *int64 `json:"shiftId"`
		Note         string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = parsed
	}
	systemTotal, err := h.Sales.TotalForDate(r.Context(), user.CompanyID, date)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	closing, err := h.Repo.Create(r.Context(), user.CompanyID, repository.CreateClosingInput{
		Date:         date,
		OperatorName: user.Name,
		ShiftID:      req.ShiftID,
		SystemTotal:  systemTotal,
		CountedTotal: req.CountedTotal,
		Note:         req.Note,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, closingPayload(*closing))
}

func (h ClosingHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	items, err := h.Repo.List(r.Context(), user.CompanyID, 100)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, closingPayload(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func closingPayload(c domain.RegisterClosing) map[string]any {
	payload := map[string]any{
		"id":           c.ID,
		"date":         c.Date.Format(dateLayout),
		"operatorName": c.OperatorName,
		"systemTotal":  c.SystemTotal.Amount,
		"countedTotal": c.CountedTotal.Amount,
		"difference":   c.Difference.Amount,
		"note":         c.Note,
	}
	if c.ShiftID != nil {
		payload["shiftId"] = *c.ShiftID
	}
	return payload
}
