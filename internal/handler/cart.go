package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/pos"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/service"
	"github.com/go-chi/chi/v5"
)

// CartHandler exposes the per-operator checkout cart.
type CartHandler struct {
	Service *service.CheckoutService
}

func (h CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.view)
	r.Post("/cart/mode", h.setMode)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{productID}", h.updateQuantity)
	r.Delete("/cart/items/{productID}", h.removeItem)
	r.Post("/cart/payment", h.beginPayment)
	r.Post("/cart/checkout", h.checkout)
	r.Delete("/cart", h.drop)
}

func (h CartHandler) view(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	writeJSON(w, http.StatusOK, cartPayload(h.Service.View(user.ID)))
}

func (h CartHandler) setMode(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	mode := pos.Mode(req.Mode)
	if mode != pos.ModeSale && mode != pos.ModeProcurement {
		writeError(w, http.StatusBadRequest, "mode must be sale or procurement")
		return
	}
	writeJSON(w, http.StatusOK, cartPayload(h.Service.SetMode(user.ID, mode)))
}

func (h CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	var req struct {
		ProductID int64 `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	view, err := h.Service.AddProduct(r.Context(), user.CompanyID, user.ID, req.ProductID)
	if err != nil {
		h.writeCartError(w, err, view)
		return
	}
	writeJSON(w, http.StatusOK, cartPayload(view))
}

func (h CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	view, err := h.Service.UpdateQuantity(user.ID, productID, req.Delta)
	if err != nil {
		h.writeCartError(w, err, view)
		return
	}
	writeJSON(w, http.StatusOK, cartPayload(view))
}

func (h CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	writeJSON(w, http.StatusOK, cartPayload(h.Service.RemoveProduct(user.ID, productID)))
}

func (h CartHandler) beginPayment(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	view, err := h.Service.BeginPayment(user.ID)
	if err != nil {
		h.writeCartError(w, err, view)
		return
	}
	writeJSON(w, http.StatusOK, cartPayload(view))
}

func (h CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	var req struct {
		SaleType       string `json:"saleType"`
		PaymentMethod  string `json:"paymentMethod"`
		PaymentDetails string `json:"paymentDetails"`
		CustomerName   string `json:"customerName"`
		SupplierID     *int64 `json:"supplierId"`
		SupplierName   string `json:"supplierName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	switch method {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentTransfer, domain.PaymentOther:
	default:
		writeError(w, http.StatusBadRequest, "invalid paymentMethod")
		return
	}

	res, err := h.Service.Finalize(r.Context(), service.FinalizeInput{
		CompanyID:      user.CompanyID,
		OperatorID:     user.ID,
		OperatorName:   user.Name,
		SaleType:       domain.SaleType(req.SaleType),
		PaymentMethod:  method,
		PaymentDetails: req.PaymentDetails,
		CustomerName:   req.CustomerName,
		SupplierID:     req.SupplierID,
		SupplierName:   req.SupplierName,
	})
	if err != nil {
		// First "other" submission is a flow step, not a failure.
		if errors.Is(err, pos.ErrPaymentDetailsRequired) {
			writeJSON(w, http.StatusOK, map[string]any{
				"detailsRequired": true,
				"cart":            cartPayload(h.Service.View(user.ID)),
			})
			return
		}
		h.writeCartError(w, err, h.Service.View(user.ID))
		return
	}

	payload := map[string]any{"cart": cartPayload(h.Service.View(user.ID))}
	if res.Sale != nil {
		payload["sale"] = map[string]any{
			"id":    res.Sale.ID,
			"code":  res.Sale.Code,
			"total": res.Sale.Total.Amount,
		}
	}
	if res.Order != nil {
		payload["order"] = map[string]any{
			"id":       res.Order.ID,
			"code":     res.Order.Code,
			"supplier": res.Order.SupplierName,
		}
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (h CartHandler) drop(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	h.Service.DropCart(user.ID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h CartHandler) writeCartError(w http.ResponseWriter, err error, view service.CartView) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pos.ErrOutOfStock), errors.Is(err, pos.ErrStockCeiling):
		status = http.StatusConflict
	case errors.Is(err, pos.ErrEmptyCart), errors.Is(err, service.ErrUnknownSupplier):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		writeRepoError(w, err)
		return
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "error",
		Message: err.Error(),
		Data:    map[string]any{"cart": cartPayload(view)},
		Error:   &apiError{Code: status, Status: http.StatusText(status)},
	})
}

func cartPayload(v service.CartView) map[string]any {
	lines := make([]map[string]any, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, map[string]any{
			"productId":   l.ProductID,
			"productName": l.ProductName,
			"unitPrice":   l.UnitPrice,
			"qty":         l.Qty,
			"total":       l.Total,
			"stock":       l.StockSnapshot,
		})
	}
	return map[string]any{
		"mode":  string(v.Mode),
		"state": string(v.State),
		"items": lines,
		"total": v.Total,
	}
}
