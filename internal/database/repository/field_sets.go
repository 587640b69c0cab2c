package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// FieldSetRepo stores named field sets and the per-variant slot choices.
type FieldSetRepo struct {
	db *sql.DB
}

func NewFieldSetRepo(db *sql.DB) *FieldSetRepo { return &FieldSetRepo{db: db} }

// Replace overwrites the field set object/name with entries, in order.
func (r *FieldSetRepo) Replace(ctx context.Context, object, name string, entries []FieldSetEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM field_sets WHERE object = ? AND name = ?`, object, name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear field set %s/%s: %w", object, name, err)
	}
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO field_sets(object, name, ordinal, display_key, path) VALUES (?, ?, ?, ?, ?)`,
			object, name, i, e.DisplayKey, e.Path); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert field %q: %w", e.DisplayKey, err)
		}
	}
	return tx.Commit()
}

// Get returns the entries of a field set in order; none when it is unknown.
func (r *FieldSetRepo) Get(ctx context.Context, object, name string) ([]FieldSetEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT object, name, ordinal, display_key, path FROM field_sets
	WHERE object = ? AND name = ? ORDER BY ordinal`, object, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FieldSetEntry
	for rows.Next() {
		var e FieldSetEntry
		if err := rows.Scan(&e.Object, &e.Name, &e.Ordinal, &e.DisplayKey, &e.Path); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Names lists the field sets defined for object.
func (r *FieldSetRepo) Names(ctx context.Context, object string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT name FROM field_sets WHERE object = ? ORDER BY name`, object)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Variant returns slot → field set name for a settings variant; an empty map
// when the variant is unknown.
func (r *FieldSetRepo) Variant(ctx context.Context, variant string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot, field_set FROM settings_variants WHERE variant = ?`, variant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var slot, set string
		if err := rows.Scan(&slot, &set); err != nil {
			return nil, err
		}
		out[slot] = set
	}
	return out, rows.Err()
}

// SaveChoice sets the field set a variant uses for a slot.
func (r *FieldSetRepo) SaveChoice(ctx context.Context, variant, slot, fieldSet string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO settings_variants(variant, slot, field_set) VALUES (?, ?, ?)
	ON CONFLICT(variant, slot) DO UPDATE SET field_set=excluded.field_set;
	`, variant, slot, fieldSet)
	return err
}
