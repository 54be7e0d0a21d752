package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/core/site"
)

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string { return "Configuration" }

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.cfg.ValidateDeep(c.path); err != nil {
		result.Items = append(result.Items, CheckItem{Label: "config", Status: StatusFail, Detail: err.Error()})
	} else {
		result.Items = append(result.Items, CheckItem{Label: "config", Status: StatusPass, Detail: c.path})
	}

	for _, w := range c.cfg.Warnings() {
		label := w.Category
		if w.Item != "" {
			label += " " + w.Item
		}
		result.Items = append(result.Items, CheckItem{Label: label, Status: StatusWarn, Detail: w.Message})
	}
	return result
}

// PageFetcher fetches site pages.
type PageFetcher interface {
	FetchPage(ctx context.Context, path string) (site.Page, error)
}

// SiteCheck fetches every menu page and counts the notifications each one
// renders.
type SiteCheck struct {
	client PageFetcher
	cfg    *config.Config
}

func NewSiteCheck(client PageFetcher, cfg *config.Config) *SiteCheck {
	return &SiteCheck{client: client, cfg: cfg}
}

func (c *SiteCheck) Name() string { return "Site" }

func (c *SiteCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	for _, item := range c.cfg.Menu {
		page, err := c.client.FetchPage(ctx, item.Path)
		if err != nil {
			result.Items = append(result.Items, CheckItem{Label: item.Path, Status: StatusFail, Detail: err.Error()})
			continue
		}

		detail := "reachable"
		if c.cfg.ScansToasts(item.Path) {
			toasts, err := page.Toasts()
			switch {
			case err != nil:
				result.Items = append(result.Items, CheckItem{Label: item.Path, Status: StatusWarn, Detail: err.Error()})
				continue
			case toasts != nil:
				detail = fmt.Sprintf("reachable, %d notification(s)", toasts.Len())
			}
		}
		result.Items = append(result.Items, CheckItem{Label: item.Path, Status: StatusPass, Detail: detail})
	}
	return result
}

// HistoryStore is the part of the notification store the check needs.
type HistoryStore interface {
	Count(ctx context.Context) (int64, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

// HistoryCheck reports the size of the notification history against the
// configured retention.
type HistoryCheck struct {
	store HistoryStore
	keep  int
}

func NewHistoryCheck(store HistoryStore, keep int) *HistoryCheck {
	return &HistoryCheck{store: store, keep: keep}
}

func (c *HistoryCheck) Name() string { return "History" }

func (c *HistoryCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	count, err := c.store.Count(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{Label: "notifications", Status: StatusFail, Detail: err.Error()})
		return result
	}

	if c.keep > 0 && count > int64(c.keep) {
		result.Items = append(result.Items, CheckItem{
			Label:   "notifications",
			Status:  StatusWarn,
			Detail:  fmt.Sprintf("%d stored, retention is %d", count, c.keep),
			Fixable: true,
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{Label: "notifications", Status: StatusPass, Detail: fmt.Sprintf("%d stored", count)})
	return result
}

// Fix prunes the history down to the retention limit.
func (c *HistoryCheck) Fix(ctx context.Context) error {
	_, err := c.store.Prune(ctx, c.keep)
	return err
}

// DownloadsCheck verifies the directory chapters are saved to.
type DownloadsCheck struct {
	dir string
}

func NewDownloadsCheck(dir string) *DownloadsCheck {
	return &DownloadsCheck{dir: dir}
}

func (c *DownloadsCheck) Name() string { return "Downloads" }

func (c *DownloadsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusWarn, Detail: "does not exist yet", Fixable: true})
	case err != nil:
		result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusFail, Detail: err.Error()})
	case !info.IsDir():
		result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusFail, Detail: "not a directory"})
	default:
		result.Items = append(result.Items, CheckItem{Label: c.dir, Status: StatusPass})
	}
	return result
}

// Fix creates the directory.
func (c *DownloadsCheck) Fix(_ context.Context) error {
	return os.MkdirAll(c.dir, 0o755)
}
