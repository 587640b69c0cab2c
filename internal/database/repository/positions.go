package repository

import (
	"context"
	"database/sql"
	"strings"
)

// PositionFilters defines list filters. Empty fields do not filter.
type PositionFilters struct {
	Status    string
	AccountID string
}

// PositionRepo handles positions.
type PositionRepo struct {
	db *sql.DB
}

func NewPositionRepo(db *sql.DB) *PositionRepo { return &PositionRepo{db: db} }

func (r *PositionRepo) Upsert(ctx context.Context, p Position) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO positions(id, account_id, title, status, location, min_salary_cents, max_salary_cents,
	 owner_id, created_by_id, last_modified_by_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 account_id=excluded.account_id,
	 title=excluded.title,
	 status=excluded.status,
	 location=excluded.location,
	 min_salary_cents=excluded.min_salary_cents,
	 max_salary_cents=excluded.max_salary_cents,
	 owner_id=excluded.owner_id,
	 last_modified_by_id=excluded.last_modified_by_id,
	 updated_at=CURRENT_TIMESTAMP;
	`, p.ID, strOrNil(p.AccountID), p.Title, p.Status, p.Location, p.MinSalaryCents, p.MaxSalaryCents,
		strOrNil(p.OwnerID), strOrNil(p.CreatedByID), strOrNil(p.LastModifiedByID))
	return err
}

const positionColumns = `p.id, p.account_id, COALESCE(a.name, ''), p.title, p.status, p.location,
 p.min_salary_cents, p.max_salary_cents, p.owner_id, p.created_by_id, p.last_modified_by_id,
 p.created_at, p.updated_at`

func (r *PositionRepo) List(ctx context.Context, f PositionFilters) ([]Position, error) {
	var where []string
	var args []interface{}
	if f.Status != "" {
		where = append(where, "p.status = ?")
		args = append(args, f.Status)
	}
	if f.AccountID != "" {
		where = append(where, "p.account_id = ?")
		args = append(args, f.AccountID)
	}

	query := "SELECT " + positionColumns + " FROM positions p LEFT JOIN accounts a ON a.id = p.account_id"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.title"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns nil, nil when the position does not exist.
func (r *PositionRepo) Get(ctx context.Context, id string) (*Position, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+positionColumns+
		" FROM positions p LEFT JOIN accounts a ON a.id = p.account_id WHERE p.id = ?", id)
	p, err := scanPosition(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func scanPosition(row scanner) (Position, error) {
	var p Position
	var account sql.NullString
	var audit auditScan
	dest := []interface{}{&p.ID, &account, &p.AccountName, &p.Title, &p.Status, &p.Location,
		&p.MinSalaryCents, &p.MaxSalaryCents}
	dest = append(dest, audit.targets()...)
	dest = append(dest, &p.CreatedAt, &p.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return Position{}, err
	}
	p.AccountID = nullable(account)
	p.Audit = audit.audit()
	return p, nil
}
