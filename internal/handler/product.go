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

type ProductHandler struct {
	Repo repository.ProductRepository
}

func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Get("/products/low-stock", h.lowStock)
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.remove)
}

func (h ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	items, err := h.Repo.List(r.Context(), user.CompanyID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, productPayload(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.Repo.GetByID(r.Context(), user.CompanyID, id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productPayload(*p))
}

// lowStock lists tracked products at or below their minimum stock level.
func (h ProductHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	items, err := h.Repo.ListLowStock(r.Context(), user.CompanyID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, productPayload(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

type productRequest struct {
	Name          string `json:"name"`
	CategoryID    int64  `json:"categoryId"`
	Barcode       string `json:"barcode"`
	SalePrice     int64  `json:"salePrice"`
	PurchasePrice int64  `json:"purchasePrice"`
	TrackStock    *bool  `json:"trackStock"`
	Stock         int    `json:"stock"`
	MinStock      int    `json:"minStock"`
	ExpiryDate    string `json:"expiryDate"`
}

func (req productRequest) toDomain() (domain.Product, error) {
	p := domain.Product{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Barcode:       req.Barcode,
		SalePrice:     domain.Money{Amount: req.SalePrice},
		PurchasePrice: domain.Money{Amount: req.PurchasePrice},
		TrackStock:    true,
		Stock:         req.Stock,
		MinStock:      req.MinStock,
	}
	if req.TrackStock != nil {
		p.TrackStock = *req.TrackStock
	}
	if req.ExpiryDate != "" {
		t, err := time.Parse(dateLayout, req.ExpiryDate)
		if err != nil {
			return p, err
		}
		p.ExpiryDate = &t
	}
	return p, nil
}

func (h ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	p, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expiryDate")
		return
	}
	created, err := h.Repo.Save(r.Context(), user.CompanyID, p)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, productPayload(*created))
}

func (h ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expiryDate")
		return
	}
	p.ID = id
	updated, err := h.Repo.Save(r.Context(), user.CompanyID, p)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productPayload(*updated))
}

func (h ProductHandler) remove(w http.ResponseWriter, r *http.Request) {
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

func productPayload(p domain.Product) map[string]any {
	payload := map[string]any{
		"id":            p.ID,
		"name":          p.Name,
		"category":      p.Category,
		"categoryId":    p.CategoryID,
		"barcode":       p.Barcode,
		"salePrice":     p.SalePrice.Amount,
		"purchasePrice": p.PurchasePrice.Amount,
		"trackStock":    p.TrackStock,
		"stock":         p.Stock,
		"minStock":      p.MinStock,
	}
	if p.ExpiryDate != nil {
		payload["expiryDate"] = p.ExpiryDate.Format(dateLayout)
	}
	return payload
}
