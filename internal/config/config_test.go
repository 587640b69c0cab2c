package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("RECRUITDESK_CONFIG", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "recruitdesk", "recruitdesk.db"), cfg.Database.Path)
	require.Equal(t, DriverCgo, cfg.Database.Driver)
	require.Equal(t, 5, cfg.Paging.PageSize)
	require.Equal(t, 5, cfg.Paging.Window)
	require.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	require.Equal(t, "default", cfg.User.Role)
	require.Equal(t, []string{"owner_id", "created_by_id", "last_modified_by_id"}, cfg.Identity.Suffixes)
}

func TestLoadFileAndEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
driver = "sqlite"

[paging]
page_size = 10

[backend]
timeout = "750ms"

[user]
role = "recruiter"
`), 0o600))
	t.Setenv("RECRUITDESK_CONFIG", path)
	t.Setenv("RECRUITDESK_PAGING_WINDOW", "7")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverPureGo, cfg.Database.Driver)
	require.Equal(t, 10, cfg.Paging.PageSize)
	require.Equal(t, 7, cfg.Paging.Window)
	require.Equal(t, 750*time.Millisecond, cfg.Backend.Timeout)
	require.Equal(t, "recruiter", cfg.User.Role)
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("RECRUITDESK_DATABASE_DRIVER", "postgres")
	_, err := Load()
	require.ErrorContains(t, err, "database.driver")

	t.Setenv("RECRUITDESK_DATABASE_DRIVER", "sqlite3")
	t.Setenv("RECRUITDESK_PAGING_PAGE_SIZE", "0")
	_, err = Load()
	require.ErrorContains(t, err, "paging.page_size")
}

func TestSaveRoundTrip(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "cfg", "config.toml")
	t.Setenv("RECRUITDESK_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Paging.PageSize = 8
	cfg.User.Role = "hiring_manager"
	require.NoError(t, Save(cfg))
	require.FileExists(t, path)

	again, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8, again.Paging.PageSize)
	require.Equal(t, "hiring_manager", again.User.Role)
	require.Equal(t, cfg.Backend.Timeout, again.Backend.Timeout)
}
