package handler

import (
	"net/http"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

// ProcurementHandler lists supplier orders issued through checkout.
type ProcurementHandler struct {
	Repo repository.ProcurementRepository
}

func (h ProcurementHandler) RegisterRoutes(r chi.Router) {
	r.Get("/procurements", h.list)
}

func (h ProcurementHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	items, err := h.Repo.List(r.Context(), user.CompanyID, 200)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, o := range items {
		orderItems := make([]map[string]any, 0, len(o.Items))
		for _, it := range o.Items {
			orderItems = append(orderItems, map[string]any{
				"productId":   it.ProductID,
				"productName": it.ProductName,
				"unitPrice":   it.UnitPrice.Amount,
				"qty":         it.Qty,
				"total":       it.Total.Amount,
			})
		}
		payload := map[string]any{
			"id":           o.ID,
			"code":         o.Code,
			"date":         o.Date.Format(dateLayout),
			"supplierName": o.SupplierName,
			"total":        o.Total.Amount,
			"performedBy":  o.PerformedBy,
			"items":        orderItems,
		}
		if o.SupplierID != nil {
			payload["supplierId"] = *o.SupplierID
		}
		resp = append(resp, payload)
	}
	writeJSON(w, http.StatusOK, resp)
}
