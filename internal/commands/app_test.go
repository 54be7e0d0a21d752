package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/data/db"
	"github.com/colonyops/aula/internal/tui"
)

func testFlags(t *testing.T) *Flags {
	t.Helper()
	dir := t.TempDir()
	return &Flags{
		ConfigPath: filepath.Join(dir, "missing.yaml"),
		DataDir:    filepath.Join(dir, "data"),
	}
}

func TestOpen_defaults_and_base_url_override(t *testing.T) {
	flags := testFlags(t)
	flags.BaseURL = "http://aula.test:9000"

	app, err := Open(context.Background(), flags, tui.BuildInfo{Version: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Equal(t, "http://aula.test:9000", app.Config.Site.BaseURL)

	client, err := app.SiteClient()
	require.NoError(t, err)
	assert.Equal(t, "http://aula.test:9000", client.BaseURL())
}

func TestOpen_recovers_corrupt_database(t *testing.T) {
	flags := testFlags(t)
	require.NoError(t, os.MkdirAll(flags.DataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(flags.DataDir, db.FileName), bytes.Repeat([]byte("no es sqlite "), 200), 0o644))

	app, err := Open(context.Background(), flags, tui.BuildInfo{Version: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	_, err = app.History.Save(context.Background(), notify.Notification{Level: notify.LevelInfo, Message: "hola"})
	require.NoError(t, err)

	backups, err := filepath.Glob(filepath.Join(flags.DataDir, db.FileName+".corrupt.*"))
	require.NoError(t, err)
	assert.NotEmpty(t, backups)
}

func TestApp_Close_nil(t *testing.T) {
	var app *App
	assert.NoError(t, app.Close())
}
