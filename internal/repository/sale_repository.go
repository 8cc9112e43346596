package repository

import (
	"context"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type SaleRepository struct {
	DB *db.Postgres
}

type CreateSaleInput struct {
	Code           string
	Type           domain.SaleType
	Total          int64
	PaymentMethod  domain.PaymentMethod
	PaymentDetails string
	CustomerID     *int64
	CustomerName   string
	PerformedBy    string
	PerformedByID  *int64
	Items          []CreateSaleItem
}

type CreateSaleItem struct {
	ProductID   *int64
	ProductName string
	UnitPrice   int64
	Qty         int
}

// Create persists a sale atomically: header, items, and a guarded stock
// decrement per tracked product all commit together or not at all. This is
// the server-side invariant holder for the cart's optimistic stock check.
// The optional after hook runs inside the same transaction.
func (r SaleRepository) Create(ctx context.Context, companyID int64, in CreateSaleInput, after func(context.Context, pgx.Tx) error) (*domain.Sale, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO sales
		(company_id, code, sale_date, type, total, payment_method, payment_details,
		 customer_id, customer_name, performed_by, performed_by_user_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, now())
		RETURNING id
	`, companyID, in.Code, now, in.Type, in.Total, in.PaymentMethod, in.PaymentDetails,
		in.CustomerID, in.CustomerName, in.PerformedBy, in.PerformedByID).Scan(&id)
	if err != nil {
		return nil, err
	}

	for _, item := range in.Items {
		total := int64(item.Qty) * item.UnitPrice
		_, err := tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, product_id, product_name, unit_price, qty, total, created_at)
			VALUES ($1,$2,$3,$4,$5,$6, now())
		`, id, item.ProductID, item.ProductName, item.UnitPrice, item.Qty, total)
		if err != nil {
			return nil, err
		}

		if item.ProductID == nil {
			continue
		}
		ct, err := tx.Exec(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = now()
			WHERE id=$2 AND company_id=$3 AND deleted_at IS NULL
			  AND (NOT track_stock OR stock >= $1)
		`, item.Qty, *item.ProductID, companyID)
		if err != nil {
			return nil, err
		}
		if ct.RowsAffected() == 0 {
			return nil, ErrInsufficientStock
		}
	}

	if after != nil {
		if err := after(ctx, tx); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.Sale{
		ID:             id,
		Code:           in.Code,
		Date:           now,
		Type:           in.Type,
		Total:          domain.Money{Amount: in.Total},
		PaymentMethod:  in.PaymentMethod,
		PaymentDetails: in.PaymentDetails,
		CustomerID:     in.CustomerID,
		CustomerName:   in.CustomerName,
		PerformedBy:    in.PerformedBy,
		PerformedByID:  in.PerformedByID,
		Items:          mapSaleItems(id, in.Items),
		CreatedAt:      now,
	}, nil
}

func mapSaleItems(saleID int64, items []CreateSaleItem) []domain.SaleItem {
	var out []domain.SaleItem
	for _, it := range items {
		out = append(out, domain.SaleItem{
			SaleID:      saleID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   domain.Money{Amount: it.UnitPrice},
			Qty:         it.Qty,
			Total:       domain.Money{Amount: int64(it.Qty) * it.UnitPrice},
		})
	}
	return out
}

func (r SaleRepository) List(ctx context.Context, companyID int64, limit int) ([]domain.Sale, error) {
	return r.query(ctx, `
		SELECT id, code, sale_date, type, total, payment_method, payment_details,
		       customer_id, customer_name, performed_by, performed_by_user_id, created_at
		FROM sales
		WHERE deleted_at IS NULL AND company_id=$1
		ORDER BY sale_date DESC, id DESC
		LIMIT $2
	`, companyID, limit)
}

// ListRange returns sales inside [start, end] inclusive; the end boundary is
// extended to end-of-day to match the report window.
func (r SaleRepository) ListRange(ctx context.Context, companyID int64, start, end time.Time) ([]domain.Sale, error) {
	endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	return r.query(ctx, `
		SELECT id, code, sale_date, type, total, payment_method, payment_details,
		       customer_id, customer_name, performed_by, performed_by_user_id, created_at
		FROM sales
		WHERE deleted_at IS NULL AND company_id=$1
		  AND sale_date >= $2 AND sale_date <= $3
		ORDER BY sale_date ASC
	`, companyID, start, endOfDay)
}

// TotalForDate sums paid sales of a calendar day, used by register closing.
func (r SaleRepository) TotalForDate(ctx context.Context, companyID int64, date time.Time) (int64, error) {
	var total int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total),0)
		FROM sales
		WHERE deleted_at IS NULL AND company_id=$1 AND sale_date::date = $2::date
	`, companyID, date).Scan(&total)
	return total, err
}

func (r SaleRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Sale, error) {
	rows, err := r.DB.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []domain.Sale
	var ids []int64
	for rows.Next() {
		var s domain.Sale
		var saleType, method string
		var customerID, performedByID pgtype.Int8
		if err := rows.Scan(
			&s.ID, &s.Code, &s.Date, &saleType, &s.Total.Amount, &method, &s.PaymentDetails,
			&customerID, &s.CustomerName, &s.PerformedBy, &performedByID, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.Type = domain.SaleType(saleType)
		s.PaymentMethod = domain.PaymentMethod(method)
		if customerID.Valid {
			s.CustomerID = &customerID.Int64
		}
		if performedByID.Valid {
			s.PerformedByID = &performedByID.Int64
		}
		ids = append(ids, s.ID)
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return sales, nil
	}

	itemRows, err := r.DB.Pool.Query(ctx, `
		SELECT sale_id, id, product_id, product_name, unit_price, qty, total, created_at
		FROM sale_items
		WHERE sale_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	itemsBySale := make(map[int64][]domain.SaleItem)
	for itemRows.Next() {
		var it domain.SaleItem
		var saleID int64
		var productID pgtype.Int8
		if err := itemRows.Scan(&saleID, &it.ID, &productID, &it.ProductName, &it.UnitPrice.Amount, &it.Qty, &it.Total.Amount, &it.CreatedAt); err != nil {
			return nil, err
		}
		if productID.Valid {
			it.ProductID = &productID.Int64
		}
		it.SaleID = saleID
		itemsBySale[saleID] = append(itemsBySale[saleID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		sales[i].Items = itemsBySale[sales[i].ID]
	}
	return sales, nil
}
