package handler

import (
	"net/http"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type ActivityLogHandler struct {
	Repo repository.ActivityLogRepository
}

func (h ActivityLogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/activity", h.list)
}

func (h ActivityLogHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	items, err := h.Repo.List(r.Context(), user.CompanyID, 100)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, a := range items {
		resp = append(resp, map[string]any{
			"id":       a.ID,
			"title":    a.Title,
			"message":  a.Message,
			"actor":    a.Actor,
			"type":     string(a.Type),
			"loggedAt": a.LoggedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
