package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/core/site"
)

type stubFetcher struct {
	pages map[string]string
}

func (f stubFetcher) FetchPage(_ context.Context, path string) (site.Page, error) {
	body, ok := f.pages[path]
	if !ok {
		return site.Page{}, &site.StatusError{StatusCode: 404}
	}
	return site.Page{Path: path, Body: []byte(body)}, nil
}

type stubHistory struct {
	count int64
	err   error
}

func (s *stubHistory) Count(context.Context) (int64, error) { return s.count, s.err }

func (s *stubHistory) Prune(_ context.Context, keep int) (int64, error) {
	removed := s.count - int64(keep)
	s.count = int64(keep)
	return removed, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func TestConfigCheck_warnings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Site.ToastPages = []string{"/programas/**"}

	result := NewConfigCheck(cfg, "").Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, StatusWarn, result.Items[1].Status)
	assert.Equal(t, "Site toast_pages", result.Items[1].Label)
}

func TestConfigCheck_invalid(t *testing.T) {
	cfg := testConfig(t)
	cfg.Theme = "nope"

	result := NewConfigCheck(cfg, "").Run(context.Background())

	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "nope")
}

func TestSiteCheck(t *testing.T) {
	cfg := testConfig(t)
	cfg.Menu = []config.MenuItem{
		{Label: "Inicio", Path: "/", Section: config.SectionHome},
		{Label: "Libro", Path: "/libro/", Section: config.SectionDownload},
	}

	fetcher := stubFetcher{pages: map[string]string{
		"/": `<div id="toast-container"><div id="toast-1" class="toast-message" data-message-type="info"><p>hola</p></div></div>`,
	}}

	result := NewSiteCheck(fetcher, cfg).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "reachable, 1 notification(s)", result.Items[0].Detail)
	assert.Equal(t, StatusFail, result.Items[1].Status)
}

func TestHistoryCheck_fix_prunes(t *testing.T) {
	store := &stubHistory{count: 12}
	check := NewHistoryCheck(store, 10)

	results := RunAll(context.Background(), []Check{check}, false)
	require.Len(t, results[0].Items, 1)
	assert.Equal(t, StatusWarn, results[0].Items[0].Status)
	assert.Equal(t, 1, CountFixable(results))

	results = RunAll(context.Background(), []Check{check}, true)
	assert.Equal(t, StatusPass, results[0].Items[0].Status)
	assert.Equal(t, int64(10), store.count)
}

func TestHistoryCheck_unlimited(t *testing.T) {
	result := NewHistoryCheck(&stubHistory{count: 5000}, 0).Run(context.Background())
	assert.Equal(t, StatusPass, result.Items[0].Status)
}

func TestDownloadsCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "descargas")
	check := NewDownloadsCheck(dir)

	result := check.Run(context.Background())
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.True(t, result.Items[0].Fixable)

	results := RunAll(context.Background(), []Check{check}, true)
	assert.Equal(t, StatusPass, results[0].Items[0].Status)
	assert.DirExists(t, dir)

	file := filepath.Join(t.TempDir(), "archivo")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	result = NewDownloadsCheck(file).Run(context.Background())
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestSummary(t *testing.T) {
	passed, warned, failed := Summary([]Result{
		{Items: []CheckItem{{Status: StatusPass}, {Status: StatusWarn}}},
		{Items: []CheckItem{{Status: StatusFail}, {Status: StatusPass}}},
	})
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}
