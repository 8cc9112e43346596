package repository

import (
	"context"
	"errors"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
)

type SupplierRepository struct {
	DB *db.Postgres
}

const supplierColumns = `id, name, contact, phone, email, address, created_at, updated_at`

func (r SupplierRepository) List(ctx context.Context, companyID int64) ([]domain.Supplier, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE deleted_at IS NULL AND company_id=$1
		ORDER BY name ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Supplier
	for rows.Next() {
		var s domain.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Phone, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r SupplierRepository) Get(ctx context.Context, companyID, id int64) (*domain.Supplier, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE id=$1 AND company_id=$2 AND deleted_at IS NULL
	`, id, companyID)
	var s domain.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.Phone, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r SupplierRepository) Upsert(ctx context.Context, companyID int64, s domain.Supplier) (*domain.Supplier, error) {
	var out domain.Supplier
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO suppliers (id, company_id, name, contact, phone, email, address, created_at, updated_at)
		VALUES (COALESCE($1, nextval('suppliers_id_seq')), $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, contact=EXCLUDED.contact, phone=EXCLUDED.phone, email=EXCLUDED.email, address=EXCLUDED.address, updated_at=now(), deleted_at=NULL
		RETURNING `+supplierColumns+`
	`, nullableID(s.ID), companyID, s.Name, s.Contact, s.Phone, s.Email, s.Address).Scan(&out.ID, &out.Name, &out.Contact, &out.Phone, &out.Email, &out.Address, &out.CreatedAt, &out.UpdatedAt)
	return &out, err
}

func (r SupplierRepository) Delete(ctx context.Context, companyID, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE suppliers SET deleted_at = now() WHERE id=$1 AND company_id=$2`, id, companyID)
	return err
}
