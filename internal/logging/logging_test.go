package logging

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelWarn,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTraceLevelIsLabelled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "trace")
	l.Log(context.Background(), LevelTrace, "delivered", "subscribers", 2)
	require.Contains(t, buf.String(), "level=TRACE")
	require.Contains(t, buf.String(), "subscribers=2")
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "desk.log")
	l, closeFn, err := OpenFile(path, "info")
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, closeFn())
	require.FileExists(t, path)
}
