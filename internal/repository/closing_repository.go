package repository

import (
	"context"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

type ClosingRepository struct {
	DB *db.Postgres
}

type CreateClosingInput struct {
	Date         time.Time
	OperatorName string
	ShiftID      *int64
	SystemTotal  int64
	CountedTotal int64
	Note         string
}

func (r ClosingRepository) Create(ctx context.Context, companyID int64, in CreateClosingInput) (*domain.RegisterClosing, error) {
	var c domain.RegisterClosing
	var shiftID pgtype.Int8
	diff := in.CountedTotal - in.SystemTotal
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO register_closings (company_id, closing_date, operator_name, shift_id, system_total, counted_total, difference, note, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now(), now())
		RETURNING id, closing_date, operator_name, shift_id, system_total, counted_total, difference, note, created_at, updated_at
	`, companyID, in.Date.Format("2006-01-02"), in.OperatorName, in.ShiftID, in.SystemTotal, in.CountedTotal, diff, in.Note).
		Scan(&c.ID, &c.Date, &c.OperatorName, &shiftID, &c.SystemTotal.Amount, &c.CountedTotal.Amount, &c.Difference.Amount, &c.Note, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if shiftID.Valid {
		c.ShiftID = &shiftID.Int64
	}
	return &c, nil
}

func (r ClosingRepository) List(ctx context.Context, companyID int64, limit int) ([]domain.RegisterClosing, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, closing_date, operator_name, shift_id, system_total, counted_total, difference, note, created_at, updated_at
		FROM register_closings
		WHERE deleted_at IS NULL AND company_id=$1
		ORDER BY closing_date DESC, id DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.RegisterClosing
	for rows.Next() {
		var c domain.RegisterClosing
		var shiftID pgtype.Int8
		if err := rows.Scan(&c.ID, &c.Date, &c.OperatorName, &shiftID, &c.SystemTotal.Amount, &c.CountedTotal.Amount, &c.Difference.Amount, &c.Note, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if shiftID.Valid {
			c.ShiftID = &shiftID.Int64
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
