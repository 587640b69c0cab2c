package repository

import (
	"context"
	"database/sql"
)

const insertJobApplication = `
	INSERT INTO job_applications(id, candidate_id, position_id, status, stage, notes, applied_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// JobApplicationRepo handles job applications.
type JobApplicationRepo struct {
	db *sql.DB
}

func NewJobApplicationRepo(db *sql.DB) *JobApplicationRepo { return &JobApplicationRepo{db: db} }

func (r *JobApplicationRepo) Insert(ctx context.Context, a JobApplication) error {
	_, err := r.db.ExecContext(ctx, insertJobApplication,
		a.ID, a.CandidateID, a.PositionID, a.Status, a.Stage, a.Notes, a.AppliedAt)
	return err
}

// ListForCandidates groups the applications of the given candidates by
// candidate id, oldest first.
func (r *JobApplicationRepo) ListForCandidates(ctx context.Context, candidateIDs []string) (map[string][]JobApplication, error) {
	out := make(map[string][]JobApplication, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT ja.id, ja.candidate_id, ja.position_id, COALESCE(p.title, ''), ja.status, ja.stage, ja.notes, ja.applied_at
	FROM job_applications ja LEFT JOIN positions p ON p.id = ja.position_id
	WHERE ja.candidate_id IN (`+placeholders(len(candidateIDs))+`)
	ORDER BY ja.applied_at, ja.id`, stringArgs(candidateIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a JobApplication
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.PositionID, &a.PositionTitle, &a.Status, &a.Stage, &a.Notes, &a.AppliedAt); err != nil {
			return nil, err
		}
		out[a.CandidateID] = append(out[a.CandidateID], a)
	}
	return out, rows.Err()
}
