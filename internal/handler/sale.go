package handler

import (
	"net/http"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

// SaleHandler lists recorded sales. Sales are written through checkout only;
// there is no update or delete surface.
type SaleHandler struct {
	Repo repository.SaleRepository
}

func (h SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sales", h.list)
}

func (h SaleHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}

	var items []domain.Sale
	if startDate != nil && endDate != nil {
		items, err = h.Repo.ListRange(r.Context(), user.CompanyID, *startDate, *endDate)
	} else {
		items, err = h.Repo.List(r.Context(), user.CompanyID, 200)
	}
	if err != nil {
		writeRepoError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, salePayload(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func salePayload(s domain.Sale) map[string]any {
	items := make([]map[string]any, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, map[string]any{
			"productId":   it.ProductID,
			"productName": it.ProductName,
			"unitPrice":   it.UnitPrice.Amount,
			"qty":         it.Qty,
			"total":       it.Total.Amount,
		})
	}
	payload := map[string]any{
		"id":             s.ID,
		"code":           s.Code,
		"date":           s.Date.Format(dateLayout),
		"type":           string(s.Type),
		"total":          s.Total.Amount,
		"paymentMethod":  string(s.PaymentMethod),
		"paymentDetails": s.PaymentDetails,
		"customerName":   s.CustomerName,
		"performedBy":    s.PerformedBy,
		"items":          items,
	}
	if s.CustomerID != nil {
		payload["customerId"] = *s.CustomerID
	}
	if s.PerformedByID != nil {
		payload["performedById"] = *s.PerformedByID
	}
	return payload
}
