package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jask/recruitdesk/internal/apperr"
	"github.com/jask/recruitdesk/internal/database/repository"
	"github.com/jask/recruitdesk/internal/logging"
	"github.com/jask/recruitdesk/internal/projection"
)

// Record types served by RecordService.
const (
	ObjectAccount   = "account"
	ObjectPosition  = "position"
	ObjectCandidate = "candidate"
)

// Objects lists the record types in tab order.
var Objects = []string{ObjectAccount, ObjectPosition, ObjectCandidate}

// StatusNone disables the position status filter.
const StatusNone = "None"

// StatusFilters lists the values the position status filter cycles through.
var StatusFilters = append([]string{StatusNone}, repository.PositionStatuses...)

// Filter narrows a record query. Zero values do not filter.
type Filter struct {
	// Status applies to positions.
	Status string
	// PositionID keeps candidates that applied to the position.
	PositionID string
	// Search is matched fuzzily against record names.
	Search string
}

// Query asks for the records of one type. Paths limits the returned fields
// to their root segments; empty means every field.
type Query struct {
	Object string
	Filter Filter
	Paths  []string
}

// RecordService reads business records as sparse projection records.
type RecordService struct {
	Accounts     *repository.AccountRepo
	Positions    *repository.PositionRepo
	Candidates   *repository.CandidateRepo
	Applications *repository.JobApplicationRepo

	Timeout time.Duration
	Logger  *slog.Logger
}

// Fetch runs q under the service timeout.
func (s *RecordService) Fetch(ctx context.Context, q Query) ([]projection.Record, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	start := time.Now()

	var (
		out []projection.Record
		err error
	)
	switch q.Object {
	case ObjectAccount:
		out, err = s.accounts(ctx)
	case ObjectPosition:
		out, err = s.positions(ctx, q.Filter)
	case ObjectCandidate:
		out, err = s.candidates(ctx, q.Filter)
	default:
		return nil, apperr.Validation("fetch records", map[string]string{"object": fmt.Sprintf("unknown type %q", q.Object)})
	}
	if err != nil {
		return nil, apperr.Backend("fetch "+q.Object+" records", err)
	}
	if q.Filter.Search != "" {
		out = filterByName(out, q.Filter.Search)
	}
	out = TrimToPaths(out, q.Paths)

	logging.OrDiscard(s.Logger).Debug("records fetched",
		"object", q.Object, "count", len(out), "paths", len(q.Paths), "elapsed", time.Since(start))
	return out, nil
}

func (s *RecordService) accounts(ctx context.Context) ([]projection.Record, error) {
	rows, err := s.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]projection.Record, 0, len(rows))
	for _, a := range rows {
		rec := projection.Record{
			"id":                   a.ID,
			"name":                 a.Name,
			"account_number":       a.AccountNumber,
			"industry":             a.Industry,
			"phone":                a.Phone,
			"annual_revenue":       float64(a.AnnualRevenueCents) / 100,
			"annual_revenue_cents": a.AnnualRevenueCents,
			"created_at":           a.CreatedAt,
			"updated_at":           a.UpdatedAt,
		}
		putAudit(rec, a.Audit)
		out = append(out, rec)
	}
	return out, nil
}

func positionRecord(p repository.Position) projection.Record {
	rec := projection.Record{
		"id":         p.ID,
		"name":       p.Title,
		"title":      p.Title,
		"status":     p.Status,
		"location":   p.Location,
		"min_salary": float64(p.MinSalaryCents) / 100,
		"max_salary": float64(p.MaxSalaryCents) / 100,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
	if p.AccountID != nil {
		rec["account_id"] = *p.AccountID
		rec["account"] = map[string]any{"id": *p.AccountID, "name": p.AccountName}
	}
	putAudit(rec, p.Audit)
	return rec
}

func (s *RecordService) positions(ctx context.Context, f Filter) ([]projection.Record, error) {
	status := f.Status
	if status == StatusNone {
		status = ""
	}
	rows, err := s.Positions.List(ctx, repository.PositionFilters{Status: status})
	if err != nil {
		return nil, err
	}
	out := make([]projection.Record, 0, len(rows))
	for _, p := range rows {
		out = append(out, positionRecord(p))
	}
	return out, nil
}

func (s *RecordService) candidates(ctx context.Context, f Filter) ([]projection.Record, error) {
	rows, err := s.Candidates.List(ctx, repository.CandidateFilters{PositionID: f.PositionID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, c := range rows {
		ids[i] = c.ID
	}
	apps, err := s.Applications.ListForCandidates(ctx, ids)
	if err != nil {
		return nil, err
	}
	positions, err := s.Positions.List(ctx, repository.PositionFilters{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]repository.Position, len(positions))
	for _, p := range positions {
		byID[p.ID] = p
	}

	out := make([]projection.Record, 0, len(rows))
	for _, c := range rows {
		rec := candidateRecord(c)
		children := make([]any, 0, len(apps[c.ID]))
		var current *repository.JobApplication
		for i, a := range apps[c.ID] {
			children = append(children, map[string]any{
				"id":             a.ID,
				"position_id":    a.PositionID,
				"position_title": a.PositionTitle,
				"status":         a.Status,
				"stage":          a.Stage,
				"notes":          a.Notes,
				"applied_at":     a.AppliedAt,
			})
			// the application for the filtered position wins, else the latest
			if f.PositionID == "" || a.PositionID == f.PositionID {
				current = &apps[c.ID][i]
			}
		}
		rec["job_applications"] = children
		if current != nil {
			if p, ok := byID[current.PositionID]; ok {
				rec["position"] = map[string]any(positionRecord(p))
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func candidateRecord(c repository.Candidate) projection.Record {
	rec := projection.Record{
		"id":               c.ID,
		"name":             c.FullName(),
		"first_name":       c.FirstName,
		"last_name":        c.LastName,
		"email":            c.Email,
		"phone":            c.Phone,
		"education":        c.Education,
		"years_experience": c.YearsExperience,
		"created_at":       c.CreatedAt,
		"updated_at":       c.UpdatedAt,
	}
	if c.PhotoURL != "" {
		rec["photo_url"] = c.PhotoURL
	}
	putAudit(rec, c.Audit)
	return rec
}

// putAudit leaves unset references out so they resolve as missing.
func putAudit(rec projection.Record, a repository.Audit) {
	if a.OwnerID != nil {
		rec["owner_id"] = *a.OwnerID
	}
	if a.CreatedByID != nil {
		rec["created_by_id"] = *a.CreatedByID
	}
	if a.LastModifiedByID != nil {
		rec["last_modified_by_id"] = *a.LastModifiedByID
	}
}

// TrimToPaths keeps the top-level fields the paths start with, plus id and
// name which every view needs.
func TrimToPaths(recs []projection.Record, paths []string) []projection.Record {
	if len(paths) == 0 {
		return recs
	}
	roots := map[string]struct{}{"id": {}, "name": {}}
	for _, p := range paths {
		root := strings.ToLower(strings.TrimSpace(p))
		if i := strings.Index(root, "."); i >= 0 {
			root = root[:i]
		}
		if root != "" {
			roots[root] = struct{}{}
		}
	}
	out := make([]projection.Record, len(recs))
	for i, rec := range recs {
		trimmed := make(projection.Record, len(roots))
		for k, v := range rec {
			if _, ok := roots[strings.ToLower(k)]; ok {
				trimmed[k] = v
			}
		}
		out[i] = trimmed
	}
	return out
}
