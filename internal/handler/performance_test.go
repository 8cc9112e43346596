package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/server/authctx"
	"github.com/stretchr/testify/assert"
)

func authedRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	ctx := authctx.WithCurrentUser(r.Context(), authctx.CurrentUser{ID: 1, CompanyID: 1})
	return r.WithContext(ctx)
}

func TestPerformanceInvertedRangeRejected(t *testing.T) {
	h := PerformanceHandler{}

	t.Run("report", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.report(w, authedRequest(http.MethodGet, "/performance?startDate=2026-03-31&endDate=2026-03-01"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("export", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.export(w, authedRequest(http.MethodGet, "/performance/export?startDate=2026-03-31&endDate=2026-03-01"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
