package repository

import (
	"context"
	"database/sql"
)

// UserRepo handles users.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Upsert(ctx context.Context, u User) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO users(id, name, email, photo_url, role)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 email=excluded.email,
	 photo_url=excluded.photo_url,
	 role=excluded.role;
	`, u.ID, u.Name, u.Email, u.PhotoURL, u.Role)
	return err
}

// Get returns nil, nil when the user does not exist.
func (r *UserRepo) Get(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, email, photo_url, role, created_at FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ListByIDs returns the users among ids that exist, ordered by name.
func (r *UserRepo) ListByIDs(ctx context.Context, ids []string) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, photo_url, role, created_at FROM users WHERE id IN (`+placeholders(len(ids))+`) ORDER BY name`,
		stringArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row scanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.Role, &u.CreatedAt)
	return u, err
}
