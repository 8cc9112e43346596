package repository

import (
	"context"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
)

type LedgerRepository struct {
	DB *db.Postgres
}

type CreateLedgerInput struct {
	Title    string
	Amount   int64
	Category string
	Date     time.Time
	Type     domain.LedgerEntryType
	Note     string
	SaleCode *string
	Staff    *string
}

const ledgerColumns = `id, title, amount, category, entry_date, type, note, sale_code, staff, created_at`

func (r LedgerRepository) Create(ctx context.Context, companyID int64, in CreateLedgerInput) (*domain.LedgerEntry, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO ledger_entries (company_id, title, amount, category, entry_date, type, note, sale_code, staff, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now())
		RETURNING `+ledgerColumns+`
	`, companyID, in.Title, in.Amount, in.Category, in.Date.Format("2006-01-02"), string(in.Type), in.Note, in.SaleCode, in.Staff)
	return scanLedgerEntry(row)
}

// CreateWithTx records an entry inside an existing transaction; sale
// finalization uses it so the revenue line commits with the sale.
func (r LedgerRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, companyID int64, in CreateLedgerInput) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO ledger_entries (company_id, title, amount, category, entry_date, type, note, sale_code, staff, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now())
	`, companyID, in.Title, in.Amount, in.Category, in.Date.Format("2006-01-02"), string(in.Type), in.Note, in.SaleCode, in.Staff)
	return err
}

func (r LedgerRepository) List(ctx context.Context, companyID int64, limit int) ([]domain.LedgerEntry, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM ledger_entries
		WHERE deleted_at IS NULL AND company_id=$1
		ORDER BY entry_date DESC, id DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLedgerEntries(rows)
}

func (r LedgerRepository) ListFiltered(ctx context.Context, companyID int64, start, end *time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE deleted_at IS NULL AND company_id=$1`
	args := []any{companyID}
	if start != nil {
		args = append(args, start.Format("2006-01-02"))
		query += ` AND entry_date >= $2`
	}
	if end != nil {
		args = append(args, end.Format("2006-01-02"))
		if start != nil {
			query += ` AND entry_date <= $3`
		} else {
			query += ` AND entry_date <= $2`
		}
	}
	query += ` ORDER BY entry_date DESC, id DESC`

	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLedgerEntries(rows)
}

func collectLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var items []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var t string
	if err := row.Scan(&e.ID, &e.Title, &e.Amount.Amount, &e.Category, &e.Date, &t, &e.Note, &e.SaleCode, &e.Staff, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Type = domain.LedgerEntryType(t)
	return &e, nil
}
