package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler struct {
	Repo repository.CalendarRepository
}

func (h CalendarHandler) RegisterRoutes(r chi.Router) {
	r.Get("/calendar", h.list)
	r.Post("/calendar", h.save)
	r.Put("/calendar/{id}", h.saveByID)
	r.Delete("/calendar/{id}", h.remove)
}

func (h CalendarHandler) list(w http.ResponseWriter, r *http.Request) {
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
	for _, e := range items {
		resp = append(resp, eventPayload(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CalendarHandler) save(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, 0)
}

func (h CalendarHandler) saveByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.upsert(w, r, id)
}

func (h CalendarHandler) upsert(w http.ResponseWriter, r *http.Request, id int64) {
	user := authctx.FromContext(r.Context())
	var req struct {
		Title string `json:"title"`
		Date  string `json:"date"`
		Time  string `json:"time"`
		Type  string `json:"type"`
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	eventType := domain.EventType(req.Type)
	switch eventType {
	case domain.EventAppointment, domain.EventReminder, domain.EventMeeting:
	default:
		eventType = domain.EventReminder
	}
	saved, err := h.Repo.Save(r.Context(), user.CompanyID, domain.CalendarEvent{
		ID:    id,
		Title: req.Title,
		Date:  date,
		Time:  req.Time,
		Type:  eventType,
		Notes: req.Notes,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, eventPayload(*saved))
}

func (h CalendarHandler) remove(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), user.CompanyID, id); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func eventPayload(e domain.CalendarEvent) map[string]any {
	return map[string]any{
		"id":    e.ID,
		"title": e.Title,
		"date":  e.Date.Format(dateLayout),
		"time":  e.Time,
		"type":  string(e.Type),
		"notes": e.Notes,
	}
}
