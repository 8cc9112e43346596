package repository

import (
	"context"
	"errors"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserRepository struct {
	DB *db.Postgres
}

type CreateUserParams struct {
	CompanyID    *int64
	Name         string
	Email        string
	Phone        string
	Role         domain.UserRole
	BaseSalary   int64
	BaseHours    int
	PasswordHash *string
	IsGoogle     bool
}

const userColumns = `id, company_id, name, email, phone, role, base_salary, base_hours, is_google, password_hash, active, created_at, updated_at`

func (r UserRepository) Create(ctx context.Context, in CreateUserParams) (*domain.User, error) {
	if in.BaseHours == 0 {
		in.BaseHours = 160
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO users (company_id, name, email, phone, role, base_salary, base_hours, is_google, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now(), now())
		RETURNING `+userColumns+`
	`, in.CompanyID, in.Name, in.Email, in.Phone, in.Role, in.BaseSalary, in.BaseHours, in.IsGoogle, in.PasswordHash)
	return scanUser(row)
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
	`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// ListTeam returns the active roster used by the performance report.
func (r UserRepository) ListTeam(ctx context.Context, companyID int64) ([]domain.User, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE deleted_at IS NULL AND active AND (company_id = $1 OR id = $1)
		ORDER BY name ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}

func (r UserRepository) Save(ctx context.Context, u domain.User) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE users
		SET name=$1, phone=$2, role=$3, base_salary=$4, base_hours=$5, active=$6, updated_at=now()
		WHERE id=$7 AND deleted_at IS NULL
		RETURNING `+userColumns+`
	`, u.Name, u.Phone, u.Role, u.BaseSalary.Amount, u.BaseHours, u.Active, u.ID)
	out, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return out, err
}

func (r UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE users SET password_hash=$1, updated_at=now()
		WHERE id=$2 AND deleted_at IS NULL
	`, hash, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE users SET deleted_at = now() WHERE id=$1`, id)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var companyID pgtype.Int8
	var role string
	if err := row.Scan(&u.ID, &companyID, &u.Name, &u.Email, &u.Phone, &role, &u.BaseSalary.Amount, &u.BaseHours, &u.IsGoogle, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if companyID.Valid {
		u.CompanyID = &companyID.Int64
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}
