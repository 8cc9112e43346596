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

type SupplierHandler struct {
	Repo repository.SupplierRepository
}

func (h SupplierHandler) RegisterRoutes(r chi.Router) {
	r.Get("/suppliers", h.list)
	r.Get("/suppliers/{id}", h.get)
	r.Post("/suppliers", h.save)
	r.Put("/suppliers/{id}", h.saveByID)
	r.Delete("/suppliers/{id}", h.remove)
}

func (h SupplierHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	items, err := h.Repo.List(r.Context(), user.CompanyID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, supplierPayload(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SupplierHandler) get(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s, err := h.Repo.Get(r.Context(), user.CompanyID, id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, supplierPayload(*s))
}

func (h SupplierHandler) save(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, 0)
}

func (h SupplierHandler) saveByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.upsert(w, r, id)
}

func (h SupplierHandler) upsert(w http.ResponseWriter, r *http.Request, id int64) {
	user := authctx.FromContext(r.Context())
	var req struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	saved, err := h.Repo.Upsert(r.Context(), user.CompanyID, domain.Supplier{
		ID:      id,
		Name:    req.Name,
		Contact: req.Contact,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, supplierPayload(*saved))
}

func (h SupplierHandler) remove(w http.ResponseWriter, r *http.Request) {
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

func supplierPayload(s domain.Supplier) map[string]any {
	return map[string]any{
		"id":      s.ID,
		"name":    s.Name,
		"contact": s.Contact,
		"phone":   s.Phone,
		"email":   s.Email,
		"address": s.Address,
	}
}
