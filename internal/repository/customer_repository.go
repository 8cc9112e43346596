package repository

import (
	"context"
	"errors"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	DB *db.Postgres
}

const customerColumns = `id, name, phone, email, address, tax_id, created_at, updated_at`

func (r CustomerRepository) List(ctx context.Context, companyID int64, limit int) ([]domain.Customer, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE deleted_at IS NULL AND company_id=$1
		ORDER BY name ASC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.TaxID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r CustomerRepository) Get(ctx context.Context, companyID, id int64) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id=$1 AND company_id=$2 AND deleted_at IS NULL
	`, id, companyID)
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.TaxID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByName matches case-insensitively; checkout uses it to decide whether a
// sale's customer must be created implicitly.
func (r CustomerRepository) FindByName(ctx context.Context, companyID int64, name string) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE company_id=$1 AND lower(name)=lower(trim($2)) AND deleted_at IS NULL
		ORDER BY id ASC
		LIMIT 1
	`, companyID, name)
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.TaxID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r CustomerRepository) Upsert(ctx context.Context, companyID int64, c domain.Customer) (*domain.Customer, error) {
	var out domain.Customer
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO customers (id, company_id, name, phone, email, address, tax_id, created_at, updated_at)
		VALUES (COALESCE($1, nextval('customers_id_seq')), $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, phone=EXCLUDED.phone, email=EXCLUDED.email, address=EXCLUDED.address, tax_id=EXCLUDED.tax_id, updated_at=now(), deleted_at=NULL
		RETURNING `+customerColumns+`
	`, nullableID(c.ID), companyID, c.Name, c.Phone, c.Email, c.Address, c.TaxID).Scan(&out.ID, &out.Name, &out.Phone, &out.Email, &out.Address, &out.TaxID, &out.CreatedAt, &out.UpdatedAt)
	return &out, err
}

func (r CustomerRepository) Delete(ctx context.Context, companyID, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE customers SET deleted_at = now() WHERE id=$1 AND company_id=$2`, id, companyID)
	return err
}
