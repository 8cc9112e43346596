package repository

import (
	"context"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
)

type CategoryRepository struct {
	DB *db.Postgres
}

func (r CategoryRepository) List(ctx context.Context, companyID int64) ([]domain.Category, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE deleted_at IS NULL AND company_id=$1
		ORDER BY name ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r CategoryRepository) Save(ctx context.Context, companyID int64, c domain.Category) (*domain.Category, error) {
	var out domain.Category
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO categories (id, company_id, name, created_at, updated_at)
		VALUES (COALESCE($1, nextval('categories_id_seq')), $2, $3, now(), now())
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, updated_at=now(), deleted_at=NULL
		RETURNING id, name, created_at, updated_at
	`, nullableID(c.ID), companyID, c.Name).Scan(&out.ID, &out.Name, &out.CreatedAt, &out.UpdatedAt)
	return &out, err
}

func (r CategoryRepository) Delete(ctx context.Context, companyID, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE categories SET deleted_at = now() WHERE id=$1 AND company_id=$2`, id, companyID)
	return err
}
