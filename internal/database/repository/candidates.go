package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// CandidateFilters defines list filters. PositionID keeps candidates with an
// application for that position.
type CandidateFilters struct {
	PositionID string
}

// CandidateRepo handles candidates.
type CandidateRepo struct {
	db *sql.DB
}

func NewCandidateRepo(db *sql.DB) *CandidateRepo { return &CandidateRepo{db: db} }

const candidateColumns = `id, first_name, last_name, email, phone, education, years_experience, photo_url,
 owner_id, created_by_id, last_modified_by_id, created_at, updated_at`

// Create inserts a candidate and, when app is non-nil, its first job
// application in one transaction.
func (r *CandidateRepo) Create(ctx context.Context, c Candidate, app *JobApplication) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO candidates(id, first_name, last_name, email, phone, education, years_experience, photo_url,
	 owner_id, created_by_id, last_modified_by_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Education, c.YearsExperience, c.PhotoURL,
		strOrNil(c.OwnerID), strOrNil(c.CreatedByID), strOrNil(c.LastModifiedByID)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert candidate: %w", err)
	}
	if app != nil {
		if _, err := tx.ExecContext(ctx, insertJobApplication,
			app.ID, c.ID, app.PositionID, app.Status, app.Stage, app.Notes, app.AppliedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert job application: %w", err)
		}
	}
	return tx.Commit()
}

func (r *CandidateRepo) List(ctx context.Context, f CandidateFilters) ([]Candidate, error) {
	query := "SELECT " + candidateColumns + " FROM candidates"
	var args []interface{}
	if f.PositionID != "" {
		query += " WHERE EXISTS (SELECT 1 FROM job_applications ja WHERE ja.candidate_id = candidates.id AND ja.position_id = ?)"
		args = append(args, f.PositionID)
	}
	query += " ORDER BY last_name, first_name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns nil, nil when the candidate does not exist.
func (r *CandidateRepo) Get(ctx context.Context, id string) (*Candidate, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+candidateColumns+" FROM candidates WHERE id = ?", id)
	c, err := scanCandidate(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func scanCandidate(row scanner) (Candidate, error) {
	var c Candidate
	var audit auditScan
	dest := []interface{}{&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Education,
		&c.YearsExperience, &c.PhotoURL}
	dest = append(dest, audit.targets()...)
	dest = append(dest, &c.CreatedAt, &c.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return Candidate{}, err
	}
	c.Audit = audit.audit()
	return c, nil
}
