package repository

import (
	"context"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/jackc/pgx/v5"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardSummary struct {
	TotalRevenue int64
	TotalSales   int64
	TodayRevenue int64
}

type DashboardItem struct {
	Name   string
	Amount int64
	Count  int64
}

type SalesPoint struct {
	Label  string
	Amount int64
}

func (r DashboardRepository) Summary(ctx context.Context, companyID int64) (DashboardSummary, error) {
	var s DashboardSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total),0) AS total_revenue,
			COUNT(*) AS total_sales,
			COALESCE(SUM(total) FILTER (WHERE sale_date::date = CURRENT_DATE),0) AS today_revenue
		FROM sales
		WHERE deleted_at IS NULL AND company_id=$1
	`, companyID).Scan(&s.TotalRevenue, &s.TotalSales, &s.TodayRevenue)
	return s, err
}

func (r DashboardRepository) TopProducts(ctx context.Context, companyID int64, limit int) ([]DashboardItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT i.product_name, COALESCE(SUM(i.total),0) AS amount, SUM(i.qty) AS qty
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		WHERE s.deleted_at IS NULL AND s.company_id=$1
		GROUP BY i.product_name
		ORDER BY amount DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDashboardItems(rows)
}

func (r DashboardRepository) TopSellers(ctx context.Context, companyID int64, limit int) ([]DashboardItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT performed_by, COALESCE(SUM(total),0) AS amount, COUNT(*) AS cnt
		FROM sales
		WHERE deleted_at IS NULL AND company_id=$1 AND performed_by <> ''
		GROUP BY performed_by
		ORDER BY amount DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDashboardItems(rows)
}

func (r DashboardRepository) SalesSeries(ctx context.Context, companyID int64, days int) ([]SalesPoint, error) {
	start := time.Now().AddDate(0, 0, -days+1).Format("2006-01-02")
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT sale_date::date::text, COALESCE(SUM(total),0) AS amount
		FROM sales
		WHERE deleted_at IS NULL AND company_id=$1
		  AND sale_date::date >= $2::date
		GROUP BY sale_date::date
		ORDER BY sale_date::date ASC
	`, companyID, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []SalesPoint
	for rows.Next() {
		var p SalesPoint
		if err := rows.Scan(&p.Label, &p.Amount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func collectDashboardItems(rows pgx.Rows) ([]DashboardItem, error) {
	var items []DashboardItem
	for rows.Next() {
		var it DashboardItem
		if err := rows.Scan(&it.Name, &it.Amount, &it.Count); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
