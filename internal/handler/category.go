package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	Repo repository.CategoryRepository
}

func (h CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.list)
	r.Post("/categories", h.create)
	r.Delete("/categories/{id}", h.remove)
}

func (h CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	items, err := h.Repo.List(r.Context(), user.CompanyID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, map[string]any{"id": c.ID, "name": c.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.Repo.Save(r.Context(), user.CompanyID, domain.Category{Name: req.Name})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": created.ID, "name": created.Name})
}

func (h CategoryHandler) remove(w http.ResponseWriter, r *http.Request) {
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
