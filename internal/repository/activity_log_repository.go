package repository

import (
	"context"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
)

type ActivityLogRepository struct {
	DB *db.Postgres
}

func (r ActivityLogRepository) Insert(ctx context.Context, companyID int64, title, message, actor string, logType domain.ActivityLogType) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO activity_logs (company_id, title, message, actor, type, logged_at)
		VALUES ($1,$2,$3,$4,$5, now())
	`, companyID, title, message, actor, string(logType))
	return err
}

func (r ActivityLogRepository) List(ctx context.Context, companyID int64, limit int) ([]domain.ActivityLog, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, title, message, actor, type, logged_at
		FROM activity_logs
		WHERE deleted_at IS NULL AND company_id=$1
		ORDER BY logged_at DESC, id DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ActivityLog
	for rows.Next() {
		var a domain.ActivityLog
		var t string
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.Actor, &t, &a.LoggedAt); err != nil {
			return nil, err
		}
		a.Type = domain.ActivityLogType(t)
		items = append(items, a)
	}
	return items, rows.Err()
}
