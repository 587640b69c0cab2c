package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/recruitdesk/internal/database/repository"
)

func TestMigrateAndSeedBothDrivers(t *testing.T) {
	for _, driver := range []string{DriverCgo, DriverPureGo} {
		t.Run(driver, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			path := filepath.Join(t.TempDir(), "test.db")
			require.NoError(t, RunMigrations(driver, path))
			require.NoError(t, RunMigrations(driver, path), "second run is a no-op")

			db, err := Open(driver, path)
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			require.NoError(t, Seed(ctx, db))
			require.NoError(t, Seed(ctx, db), "seeding twice must not duplicate rows")

			counts := map[string]int{}
			for _, table := range []string{"users", "accounts", "positions", "candidates", "job_applications"} {
				var n int
				require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
				counts[table] = n
			}
			require.Equal(t, map[string]int{
				"users":            3,
				"accounts":         3,
				"positions":        6,
				"candidates":       12,
				"job_applications": 15,
			}, counts)

			sets := repository.NewFieldSetRepo(db)
			names, err := sets.Names(ctx, "candidate")
			require.NoError(t, err)
			require.Equal(t, []string{"compact", "detailed", "tile"}, names)

			variant, err := sets.Variant(ctx, "recruiter")
			require.NoError(t, err)
			require.Equal(t, "full", variant["job_application_modal"])
		})
	}
}

func TestSeedDefaultsKeepsUserChoices(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(DriverCgo, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrationsWithDB(db, DriverCgo))

	require.NoError(t, SeedDefaults(ctx, db))
	sets := repository.NewFieldSetRepo(db)
	require.NoError(t, sets.SaveChoice(ctx, "default", "candidate_tile", "tile"))
	require.NoError(t, SeedDefaults(ctx, db))

	variant, err := sets.Variant(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, "tile", variant["candidate_tile"])
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "x.db")
	require.Error(t, err)
	require.Error(t, RunMigrations("postgres", "x.db"))
}
