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

type CustomerHandler struct {
	Repo repository.CustomerRepository
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.list)
	r.Get("/customers/{id}", h.get)
	r.Post("/customers", h.save)
	r.Put("/customers/{id}", h.saveByID)
	r.Delete("/customers/{id}", h.remove)
}

func (h CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	items, err := h.Repo.List(r.Context(), user.CompanyID, 500)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, customerPayload(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CustomerHandler) get(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.Repo.Get(r.Context(), user.CompanyID, id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customerPayload(*c))
}

func (h CustomerHandler) save(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, 0)
}

func (h CustomerHandler) saveByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.upsert(w, r, id)
}

func (h CustomerHandler) upsert(w http.ResponseWriter, r *http.Request, id int64) {
	user := authctx.FromContext(r.Context())
	var req struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address string `json:"address"`
		TaxID   string `json:"taxId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	saved, err := h.Repo.Upsert(r.Context(), user.CompanyID, domain.Customer{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		TaxID:   req.TaxID,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, customerPayload(*saved))
}

func (h CustomerHandler) remove(w http.ResponseWriter, r *http.Request) {
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

func customerPayload(c domain.Customer) map[string]any {
	return map[string]any{
		"id":      c.ID,
		"name":    c.Name,
		"phone":   c.Phone,
		"email":   c.Email,
		"address": c.Address,
		"taxId":   c.TaxID,
	}
}
