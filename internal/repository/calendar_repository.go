package repository

import (
	"context"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
)

type CalendarRepository struct {
	DB *db.Postgres
}

const eventColumns = `id, title, event_date, event_time, type, notes, created_at, updated_at`

func (r CalendarRepository) ListRange(ctx context.Context, companyID int64, start, end time.Time) ([]domain.CalendarEvent, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM calendar_events
		WHERE deleted_at IS NULL AND company_id=$1
		  AND event_date >= $2::date AND event_date <= $3::date
		ORDER BY event_date ASC, event_time ASC
	`, companyID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CalendarEvent
	for rows.Next() {
		var e domain.CalendarEvent
		var t string
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &t, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Type = domain.EventType(t)
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r CalendarRepository) Save(ctx context.Context, companyID int64, e domain.CalendarEvent) (*domain.CalendarEvent, error) {
	var out domain.CalendarEvent
	var t string
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO calendar_events (id, company_id, title, event_date, event_time, type, notes, created_at, updated_at)
		VALUES (COALESCE($1, nextval('calendar_events_id_seq')), $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, event_date=EXCLUDED.event_date, event_time=EXCLUDED.event_time, type=EXCLUDED.type, notes=EXCLUDED.notes, updated_at=now(), deleted_at=NULL
		RETURNING `+eventColumns+`
	`, nullableID(e.ID), companyID, e.Title, e.Date.Format("2006-01-02"), e.Time, string(e.Type), e.Notes).
		Scan(&out.ID, &out.Title, &out.Date, &out.Time, &t, &out.Notes, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	out.Type = domain.EventType(t)
	return &out, nil
}

func (r CalendarRepository) Delete(ctx context.Context, companyID, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE calendar_events SET deleted_at = now() WHERE id=$1 AND company_id=$2`, id, companyID)
	return err
}
