package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/jask/recruitdesk/internal/database"
	"github.com/jask/recruitdesk/internal/database/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(database.DriverCgo, path))
	db, err := database.Open(database.DriverCgo, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestCandidatesOfPosition(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	users := repository.NewUserRepo(db)
	require.NoError(t, users.Upsert(ctx, repository.User{ID: "u-1", Name: "Rhea", Role: "recruiter"}))

	positions := repository.NewPositionRepo(db)
	require.NoError(t, positions.Upsert(ctx, repository.Position{ID: "p-1", Title: "Engineer", Status: repository.StatusOpen}))
	require.NoError(t, positions.Upsert(ctx, repository.Position{ID: "p-2", Title: "Designer", Status: repository.StatusClosed}))

	candidates := repository.NewCandidateRepo(db)
	applied := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, candidates.Create(ctx, repository.Candidate{
		ID: "c-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Audit: repository.Audit{OwnerID: ptr("u-1")},
	}, &repository.JobApplication{ID: "a-1", PositionID: "p-1", Status: "Open", Stage: "New", AppliedAt: applied}))
	require.NoError(t, candidates.Create(ctx, repository.Candidate{
		ID: "c-2", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com",
	}, &repository.JobApplication{ID: "a-2", PositionID: "p-2", Status: "Open", Stage: "New", AppliedAt: applied}))

	got, err := candidates.List(ctx, repository.CandidateFilters{PositionID: "p-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Ada Lovelace", got[0].FullName())
	require.Equal(t, "u-1", *got[0].OwnerID)
	require.Nil(t, got[0].CreatedByID)

	all, err := candidates.List(ctx, repository.CandidateFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	open, err := positions.List(ctx, repository.PositionFilters{Status: repository.StatusOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, "Engineer", open[0].Title)

	apps := repository.NewJobApplicationRepo(db)
	require.NoError(t, apps.Insert(ctx, repository.JobApplication{
		ID: "a-3", CandidateID: "c-1", PositionID: "p-2", Status: "Open", Stage: "Offer", AppliedAt: applied.Add(time.Hour),
	}))
	byCandidate, err := apps.ListForCandidates(ctx, []string{"c-1", "c-2"})
	require.NoError(t, err)
	require.Len(t, byCandidate["c-1"], 2)
	require.Equal(t, "Engineer", byCandidate["c-1"][0].PositionTitle)
	require.Equal(t, "Offer", byCandidate["c-1"][1].Stage)
	require.Len(t, byCandidate["c-2"], 1)

	missing, err := candidates.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestCandidateCreateRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	candidates := repository.NewCandidateRepo(db)

	err := candidates.Create(ctx, repository.Candidate{
		ID: "c-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
	}, &repository.JobApplication{ID: "a-1", PositionID: "no-such-position", Status: "Open", Stage: "New"})
	require.Error(t, err)

	c, err := candidates.Get(ctx, "c-1")
	require.NoError(t, err)
	require.Nil(t, c, "candidate insert must roll back with its application")
}

func TestUsersByIDs(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := repository.NewUserRepo(db)
	require.NoError(t, users.Upsert(ctx, repository.User{ID: "u-1", Name: "Rhea"}))
	require.NoError(t, users.Upsert(ctx, repository.User{ID: "u-2", Name: "Ines", PhotoURL: "https://img/ines.png"}))

	got, err := users.ListByIDs(ctx, []string{"u-2", "u-404"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "https://img/ines.png", got[0].PhotoURL)

	none, err := users.ListByIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestFieldSetReplaceKeepsOrder(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	sets := repository.NewFieldSetRepo(db)

	require.NoError(t, sets.Replace(ctx, "candidate", "mine", []repository.FieldSetEntry{
		{DisplayKey: "Phone", Path: "phone"}, {DisplayKey: "Email", Path: "email"},
	}))
	require.NoError(t, sets.Replace(ctx, "candidate", "mine", []repository.FieldSetEntry{
		{DisplayKey: "Email", Path: "email"}, {DisplayKey: "Owner", Path: "owner_id"},
	}))
	got, err := sets.Get(ctx, "candidate", "mine")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Email", got[0].DisplayKey)
	require.Equal(t, "owner_id", got[1].Path)

	empty, err := sets.Variant(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestQueryFailuresSurface(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT (.+) FROM candidates").WillReturnError(boom)
	mock.ExpectQuery("SELECT (.+) FROM positions p").WithArgs(repository.StatusOpenHot).WillReturnError(boom)
	mock.ExpectQuery("SELECT id, name, email, photo_url, role, created_at FROM users").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("u-1", "Rhea"))

	ctx := context.Background()
	_, err = repository.NewCandidateRepo(db).List(ctx, repository.CandidateFilters{})
	require.ErrorIs(t, err, boom)
	_, err = repository.NewPositionRepo(db).List(ctx, repository.PositionFilters{Status: repository.StatusOpenHot})
	require.ErrorIs(t, err, boom)
	_, err = repository.NewUserRepo(db).ListByIDs(ctx, []string{"u-1"})
	require.Error(t, err, "column count mismatch must fail the scan")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO candidates").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO job_applications").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err = repository.NewCandidateRepo(db).Create(context.Background(),
		repository.Candidate{ID: "c-1", FirstName: "A", LastName: "B", Email: "a@b.c"},
		&repository.JobApplication{ID: "a-1", PositionID: "p-1"})
	require.ErrorContains(t, err, "insert job application")
	require.NoError(t, mock.ExpectationsWereMet())
}
