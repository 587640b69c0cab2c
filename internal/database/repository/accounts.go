package repository

import (
	"context"
	"database/sql"
)

// AccountRepo handles accounts.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Upsert(ctx context.Context, a Account) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, name, account_number, industry, phone, annual_revenue_cents,
	 owner_id, created_by_id, last_modified_by_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 account_number=excluded.account_number,
	 industry=excluded.industry,
	 phone=excluded.phone,
	 annual_revenue_cents=excluded.annual_revenue_cents,
	 owner_id=excluded.owner_id,
	 last_modified_by_id=excluded.last_modified_by_id,
	 updated_at=CURRENT_TIMESTAMP;
	`, a.ID, a.Name, a.AccountNumber, a.Industry, a.Phone, a.AnnualRevenueCents,
		strOrNil(a.OwnerID), strOrNil(a.CreatedByID), strOrNil(a.LastModifiedByID))
	return err
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, account_number, industry, phone, annual_revenue_cents,
	 owner_id, created_by_id, last_modified_by_id, created_at, updated_at FROM accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		var a Account
		var audit auditScan
		dest := append([]interface{}{&a.ID, &a.Name, &a.AccountNumber, &a.Industry, &a.Phone, &a.AnnualRevenueCents},
			audit.targets()...)
		dest = append(dest, &a.CreatedAt, &a.UpdatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		a.Audit = audit.audit()
		out = append(out, a)
	}
	return out, rows.Err()
}
