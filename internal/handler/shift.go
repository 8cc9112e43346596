package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

// ShiftHandler covers clock-in/clock-out and shift listings.
type ShiftHandler struct {
	Repo repository.ShiftRepository
}

func (h ShiftHandler) RegisterRoutes(r chi.Router) {
	r.Post("/shifts/clock-in", h.clockIn)
	r.Post("/shifts/clock-out", h.clockOut)
	r.Get("/shifts/current", h.current)
	r.Get("/shifts", h.list)
}

func (h ShiftHandler) clockIn(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	shift, err := h.Repo.ClockIn(r.Context(), user.CompanyID, user.ID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shiftPayload(*shift))
}

func (h ShiftHandler) clockOut(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	shift, err := h.Repo.ClockOut(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenShift) {
			writeError(w, http.StatusConflict, "no open shift")
			return
		}
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shiftPayload(*shift))
}

func (h ShiftHandler) current(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	shift, err := h.Repo.GetOpen(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shiftPayload(*shift))
}

func (h ShiftHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date filter")
		return
	}
	items, err := h.Repo.ListRange(r.Context(), user.CompanyID, start, end)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, shiftPayload(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func shiftPayload(s domain.WorkShift) map[string]any {
	payload := map[string]any{
		"id":        s.ID,
		"userId":    s.UserID,
		"userName":  s.UserName,
		"startTime": s.StartTime.UTC().Format(time.RFC3339),
		"open":      s.EndTime == nil,
	}
	if s.EndTime != nil {
		payload["endTime"] = s.EndTime.UTC().Format(time.RFC3339)
		payload["hours"] = s.EndTime.Sub(s.StartTime).Hours()
	}
	return payload
}
