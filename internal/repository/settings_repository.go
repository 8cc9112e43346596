package repository

import (
	"context"
	"errors"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
)

type SettingsRepository struct {
	DB *db.Postgres
}

const settingsColumns = `business_name, business_address, business_phone, receipt_footer, default_payment_method, track_stock, currency_code, updated_at`

func (r SettingsRepository) Get(ctx context.Context, companyID int64) (*domain.Settings, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+settingsColumns+`
		FROM settings
		WHERE company_id=$1
	`, companyID)
	var s domain.Settings
	if err := row.Scan(&s.BusinessName, &s.BusinessAddress, &s.BusinessPhone, &s.ReceiptFooter, &s.DefaultPaymentMethod, &s.TrackStock, &s.CurrencyCode, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.CompanyID = &companyID
	return &s, nil
}

func (r SettingsRepository) Save(ctx context.Context, companyID int64, s domain.Settings) (*domain.Settings, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO settings (company_id, business_name, business_address, business_phone, receipt_footer, default_payment_method, track_stock, currency_code, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now())
		ON CONFLICT (company_id) DO UPDATE SET
			business_name=EXCLUDED.business_name,
			business_address=EXCLUDED.business_address,
			business_phone=EXCLUDED.business_phone,
			receipt_footer=EXCLUDED.receipt_footer,
			default_payment_method=EXCLUDED.default_payment_method,
			track_stock=EXCLUDED.track_stock,
			currency_code=EXCLUDED.currency_code,
			updated_at=now()
		RETURNING `+settingsColumns+`
	`, companyID, s.BusinessName, s.BusinessAddress, s.BusinessPhone, s.ReceiptFooter, s.DefaultPaymentMethod, s.TrackStock, s.CurrencyCode)
	var out domain.Settings
	if err := row.Scan(&out.BusinessName, &out.BusinessAddress, &out.BusinessPhone, &out.ReceiptFooter, &out.DefaultPaymentMethod, &out.TrackStock, &out.CurrencyCode, &out.UpdatedAt); err != nil {
		return nil, err
	}
	out.CompanyID = &companyID
	return &out, nil
}
