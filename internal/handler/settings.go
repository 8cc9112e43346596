package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	Repo            repository.SettingsRepository
	DefaultCurrency string
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings", h.save)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	s, err := h.Repo.Get(r.Context(), user.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusOK, settingsPayload(domain.Settings{
				DefaultPaymentMethod: string(domain.PaymentCash),
				TrackStock:           true,
				CurrencyCode:         h.DefaultCurrency,
			}))
			return
		}
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsPayload(*s))
}

func (h SettingsHandler) save(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	var req struct {
		BusinessName         string `json:"businessName"`
		BusinessAddress      string `json:"businessAddress"`
		BusinessPhone        string `json:"businessPhone"`
		ReceiptFooter        string `json:"receiptFooter"`
		DefaultPaymentMethod string `json:"defaultPaymentMethod"`
		TrackStock           bool   `json:"trackStock"`
		CurrencyCode         string `json:"currencyCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = h.DefaultCurrency
	}
	saved, err := h.Repo.Save(r.Context(), user.CompanyID, domain.Settings{
		BusinessName:         req.BusinessName,
		BusinessAddress:      req.BusinessAddress,
		BusinessPhone:        req.BusinessPhone,
		ReceiptFooter:        req.ReceiptFooter,
		DefaultPaymentMethod: req.DefaultPaymentMethod,
		TrackStock:           req.TrackStock,
		CurrencyCode:         req.CurrencyCode,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsPayload(*saved))
}

func settingsPayload(s domain.Settings) map[string]any {
	return map[string]any{
		"businessName":         s.BusinessName,
		"businessAddress":      s.BusinessAddress,
		"businessPhone":        s.BusinessPhone,
		"receiptFooter":        s.ReceiptFooter,
		"defaultPaymentMethod": s.DefaultPaymentMethod,
		"trackStock":           s.TrackStock,
		"currencyCode":         s.CurrencyCode,
	}
}
