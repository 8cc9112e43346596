package repository

import (
	"context"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProcurementRepository struct {
	DB *db.Postgres
}

type CreateProcurementInput struct {
	Code         string
	SupplierID   *int64
	SupplierName string
	Total        int64
	PerformedBy  string
	Items        []CreateSaleItem
}

// Create writes a procurement order with its items and increments stock for
// tracked products, all in one transaction.
func (r ProcurementRepository) Create(ctx context.Context, companyID int64, in CreateProcurementInput) (*domain.ProcurementOrder, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO procurement_orders (company_id, code, order_date, supplier_id, supplier_name, total, performed_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now())
		RETURNING id
	`, companyID, in.Code, now, in.SupplierID, in.SupplierName, in.Total, in.PerformedBy).Scan(&id)
	if err != nil {
		return nil, err
	}

	for _, item := range in.Items {
		total := int64(item.Qty) * item.UnitPrice
		_, err := tx.Exec(ctx, `
			INSERT INTO procurement_order_items (order_id, product_id, product_name, unit_price, qty, total, created_at)
			VALUES ($1,$2,$3,$4,$5,$6, now())
		`, id, item.ProductID, item.ProductName, item.UnitPrice, item.Qty, total)
		if err != nil {
			return nil, err
		}

		if item.ProductID == nil {
			continue
		}
		_, err = tx.Exec(ctx, `
			UPDATE products
			SET stock = stock + $1, updated_at = now()
			WHERE id=$2 AND company_id=$3 AND deleted_at IS NULL AND track_stock
		`, item.Qty, *item.ProductID, companyID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.ProcurementOrder{
		ID:           id,
		Code:         in.Code,
		Date:         now,
		SupplierID:   in.SupplierID,
		SupplierName: in.SupplierName,
		Total:        domain.Money{Amount: in.Total},
		PerformedBy:  in.PerformedBy,
		Items:        mapSaleItems(id, in.Items),
		CreatedAt:    now,
	}, nil
}

func (r ProcurementRepository) List(ctx context.Context, companyID int64, limit int) ([]domain.ProcurementOrder, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, code, order_date, supplier_id, supplier_name, total, performed_by, created_at
		FROM procurement_orders
		WHERE deleted_at IS NULL AND company_id=$1
		ORDER BY order_date DESC, id DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.ProcurementOrder
	var ids []int64
	for rows.Next() {
		var o domain.ProcurementOrder
		var supplierID pgtype.Int8
		if err := rows.Scan(&o.ID, &o.Code, &o.Date, &supplierID, &o.SupplierName, &o.Total.Amount, &o.PerformedBy, &o.CreatedAt); err != nil {
			return nil, err
		}
		if supplierID.Valid {
			o.SupplierID = &supplierID.Int64
		}
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}

	itemRows, err := r.DB.Pool.Query(ctx, `
		SELECT order_id, id, product_id, product_name, unit_price, qty, total, created_at
		FROM procurement_order_items
		WHERE order_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	itemsByOrder := make(map[int64][]domain.SaleItem)
	for itemRows.Next() {
		var it domain.SaleItem
		var orderID int64
		var productID pgtype.Int8
		if err := itemRows.Scan(&orderID, &it.ID, &productID, &it.ProductName, &it.UnitPrice.Amount, &it.Qty, &it.Total.Amount, &it.CreatedAt); err != nil {
			return nil, err
		}
		if productID.Valid {
			it.ProductID = &productID.Int64
		}
		itemsByOrder[orderID] = append(itemsByOrder[orderID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}
	return orders, nil
}
