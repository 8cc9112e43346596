package handler

import (
	"net/http"
	"strconv"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Repo     repository.DashboardRepository
	Products repository.ProductRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.summary)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	ctx := r.Context()

	days := 14
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 365 {
			writeError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}

	summary, err := h.Repo.Summary(ctx, user.CompanyID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	topProducts, err := h.Repo.TopProducts(ctx, user.CompanyID, 5)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	topSellers, err := h.Repo.TopSellers(ctx, user.CompanyID, 5)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	series, err := h.Repo.SalesSeries(ctx, user.CompanyID, days)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	lowStock, err := h.Products.ListLowStock(ctx, user.CompanyID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	lowStockPayload := make([]map[string]any, 0, len(lowStock))
	for _, p := range lowStock {
		lowStockPayload = append(lowStockPayload, map[string]any{
			"id":       p.ID,
			"name":     p.Name,
			"stock":    p.Stock,
			"minStock": p.MinStock,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalRevenue": summary.TotalRevenue,
		"totalSales":   summary.TotalSales,
		"todayRevenue": summary.TodayRevenue,
		"topProducts":  dashboardItems(topProducts),
		"topSellers":   dashboardItems(topSellers),
		"salesSeries":  salesSeries(series),
		"lowStock":     lowStockPayload,
	})
}

func dashboardItems(items []repository.DashboardItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]any{
			"name":   it.Name,
			"amount": it.Amount,
			"count":  it.Count,
		})
	}
	return out
}

func salesSeries(points []repository.SalesPoint) []map[string]any {
	out := make([]map[string]any, 0, len(points))
	for _, p := range points {
		out = append(out, map[string]any{
			"date":   p.Label,
			"amount": p.Amount,
		})
	}
	return out
}
