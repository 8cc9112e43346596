package repository

import (
	"context"
	"errors"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ShiftRepository struct {
	DB *db.Postgres
}

// ClockIn opens a shift for the user. An already-open shift is returned as-is
// so double clock-ins do not stack.
func (r ShiftRepository) ClockIn(ctx context.Context, companyID, userID int64) (*domain.WorkShift, error) {
	if open, err := r.GetOpen(ctx, userID); err == nil {
		return open, nil
	} else if !errors.Is(err, ErrNoOpenShift) {
		return nil, err
	}

	var s domain.WorkShift
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO work_shifts (company_id, user_id, start_time, created_at)
		VALUES ($1, $2, now(), now())
		RETURNING id, user_id, start_time, end_time, created_at
	`, companyID, userID).Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ClockOut closes the user's open shift.
func (r ShiftRepository) ClockOut(ctx context.Context, userID int64) (*domain.WorkShift, error) {
	var s domain.WorkShift
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE work_shifts
		SET end_time = now()
		WHERE id = (
			SELECT id FROM work_shifts
			WHERE user_id=$1 AND end_time IS NULL AND deleted_at IS NULL
			ORDER BY start_time DESC
			LIMIT 1
		)
		RETURNING id, user_id, start_time, end_time, created_at
	`, userID).Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoOpenShift
		}
		return nil, err
	}
	return &s, nil
}

func (r ShiftRepository) GetOpen(ctx context.Context, userID int64) (*domain.WorkShift, error) {
	var s domain.WorkShift
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT id, user_id, start_time, end_time, created_at
		FROM work_shifts
		WHERE user_id=$1 AND end_time IS NULL AND deleted_at IS NULL
		ORDER BY start_time DESC
		LIMIT 1
	`, userID).Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoOpenShift
		}
		return nil, err
	}
	return &s, nil
}

// ListRange returns company shifts overlapping [start, end]. The performance
// report relies on this pre-filtering; the aggregator itself does not window
// shifts.
func (r ShiftRepository) ListRange(ctx context.Context, companyID int64, start, end time.Time) ([]domain.WorkShift, error) {
	endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT w.id, w.user_id, u.name, w.start_time, w.end_time, w.created_at
		FROM work_shifts w
		JOIN users u ON u.id = w.user_id
		WHERE w.deleted_at IS NULL AND w.company_id=$1
		  AND w.start_time <= $3
		  AND (w.end_time IS NULL OR w.end_time >= $2)
		ORDER BY w.start_time ASC
	`, companyID, start, endOfDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.WorkShift
	for rows.Next() {
		var s domain.WorkShift
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserName, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
