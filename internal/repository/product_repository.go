package repository

import (
	"context"
	"errors"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ProductRepository struct {
	DB *db.Postgres
}

const productColumns = `id, name, category, barcode, sale_price, purchase_price, track_stock, stock, min_stock, expiry_date`

func (r ProductRepository) List(ctx context.Context, companyID int64) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE deleted_at IS NULL AND company_id=$1
		ORDER BY name ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.SalePrice.Amount, &p.PurchasePrice.Amount, &p.TrackStock, &p.Stock, &p.MinStock, &p.ExpiryDate); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r ProductRepository) GetByID(ctx context.Context, companyID, id int64) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id=$1 AND company_id=$2 AND deleted_at IS NULL
	`, id, companyID)

	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.SalePrice.Amount, &p.PurchasePrice.Amount, &p.TrackStock, &p.Stock, &p.MinStock, &p.ExpiryDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r ProductRepository) Save(ctx context.Context, companyID int64, p domain.Product) (*domain.Product, error) {
	if p.ID == 0 {
		err := r.DB.Pool.QueryRow(ctx, `
			INSERT INTO products (company_id, name, category, barcode, sale_price, purchase_price, track_stock, stock, min_stock, expiry_date, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, now(), now())
			RETURNING `+productColumns+`
		`, companyID, p.Name, p.Category, p.Barcode, p.SalePrice.Amount, p.PurchasePrice.Amount, p.TrackStock, p.Stock, p.MinStock, p.ExpiryDate).
			Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.SalePrice.Amount, &p.PurchasePrice.Amount, &p.TrackStock, &p.Stock, &p.MinStock, &p.ExpiryDate)
		if err != nil {
			return nil, err
		}
		return &p, nil
	}

	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE products
		SET name=$1,
			category=$2,
			barcode=$3,
			sale_price=$4,
			purchase_price=$5,
			track_stock=$6,
			stock=$7,
			min_stock=$8,
			expiry_date=$9,
			updated_at=now(),
			deleted_at=NULL
		WHERE id=$10 AND company_id=$11
		RETURNING `+productColumns+`
	`, p.Name, p.Category, p.Barcode, p.SalePrice.Amount, p.PurchasePrice.Amount, p.TrackStock, p.Stock, p.MinStock, p.ExpiryDate, p.ID, companyID).
		Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.SalePrice.Amount, &p.PurchasePrice.Amount, &p.TrackStock, &p.Stock, &p.MinStock, &p.ExpiryDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r ProductRepository) Delete(ctx context.Context, companyID, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE products SET deleted_at = now() WHERE id=$1 AND company_id=$2`, id, companyID)
	return err
}

// ListLowStock returns tracked products at or below their minimum stock,
// used for reorder reminders.
func (r ProductRepository) ListLowStock(ctx context.Context, companyID int64) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE deleted_at IS NULL AND company_id=$1 AND track_stock AND stock <= min_stock
		ORDER BY stock ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.SalePrice.Amount, &p.PurchasePrice.Amount, &p.TrackStock, &p.Stock, &p.MinStock, &p.ExpiryDate); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
