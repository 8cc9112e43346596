package repository

import "context"

var defaultCategories = []string{
	"Prescription",
	"Over the counter",
	"Personal care",
	"Vitamins & supplements",
	"First aid",
	"Baby care",
}

// EnsureDefaults inserts the starter category set for a new company. Existing
// names are left untouched.
func (r CategoryRepository) EnsureDefaults(ctx context.Context, companyID int64) error {
	for _, name := range defaultCategories {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO categories (company_id, name, created_at, updated_at)
			SELECT $1, $2, now(), now()
			WHERE NOT EXISTS (
				SELECT 1 FROM categories WHERE company_id=$1 AND lower(name)=lower($2) AND deleted_at IS NULL
			)
		`, companyID, name)
		if err != nil {
			return err
		}
	}
	return nil
}
