// Package config handles configuration loading and validation for aula.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/aula/internal/core/site"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/internal/core/toast"
)

// Menu sections the TUI knows how to render.
const (
	SectionHome     = "home"
	SectionDownload = "download"
	SectionPrograms = "programs"
	SectionLesson   = "lesson"
)

// Config holds the application configuration.
type Config struct {
	Site        SiteConfig     `yaml:"site"`
	Toast       ToastConfig    `yaml:"toast"`
	Theme       string         `yaml:"theme"`
	History     HistoryConfig  `yaml:"history"`
	Database    DatabaseConfig `yaml:"database"`
	DownloadDir string         `yaml:"download_dir"`
	Menu        []MenuItem     `yaml:"menu"`
	DataDir     string         `yaml:"-"` // set by caller, not from config file
}

// SiteConfig describes the site the client talks to.
type SiteConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	LeadPath     string        `yaml:"lead_path"`
	DownloadPath string        `yaml:"download_path"`
	// ToastPages are doublestar globs matched against page paths. Only
	// matching pages are scanned for server rendered notifications.
	ToastPages []string `yaml:"toast_pages"`
}

// ToastConfig holds notification timings. Zero values take the defaults.
type ToastConfig struct {
	Duration  time.Duration `yaml:"duration"`
	Stagger   time.Duration `yaml:"stagger"`
	Settle    time.Duration `yaml:"settle"`
	HideDelay time.Duration `yaml:"hide_delay"`
}

// HistoryConfig controls the persisted notification history.
type HistoryConfig struct {
	// Keep is the number of most recent records retained on startup.
	// Zero keeps everything.
	Keep int `yaml:"keep"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// MenuItem is one entry of the navigation menu.
type MenuItem struct {
	Label   string `yaml:"label"`
	Path    string `yaml:"path"`
	Section string `yaml:"section"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			BaseURL:      "http://127.0.0.1:8000",
			Timeout:      site.DefaultTimeout,
			LeadPath:     site.DefaultLeadPath,
			DownloadPath: site.DefaultDownloadPath,
			ToastPages:   []string{"/**"},
		},
		Toast: ToastConfig{
			Duration:  toast.DefaultDuration,
			Stagger:   toast.DefaultStagger,
			Settle:    toast.DefaultSettle,
			HideDelay: toast.DefaultHideDelay,
		},
		Theme:   styles.DefaultTheme,
		History: HistoryConfig{Keep: 500},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		Menu: DefaultMenu(),
	}
}

// DefaultMenu returns the navigation entries of the public site.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Label: "Inicio", Path: "/", Section: SectionHome},
		{Label: "Libro", Path: "/libro/", Section: SectionDownload},
		{Label: "Programas", Path: "/programas/", Section: SectionPrograms},
		{Label: "Sesión", Path: "/programas/sesion/1/", Section: SectionLesson},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Site.Timeout <= 0 {
		c.Site.Timeout = defaults.Site.Timeout
	}
	if c.Site.LeadPath == "" {
		c.Site.LeadPath = defaults.Site.LeadPath
	}
	if c.Site.DownloadPath == "" {
		c.Site.DownloadPath = defaults.Site.DownloadPath
	}
	if len(c.Site.ToastPages) == 0 {
		c.Site.ToastPages = defaults.Site.ToastPages
	}

	if c.Toast.Duration <= 0 {
		c.Toast.Duration = defaults.Toast.Duration
	}
	if c.Toast.Stagger <= 0 {
		c.Toast.Stagger = defaults.Toast.Stagger
	}
	if c.Toast.Settle <= 0 {
		c.Toast.Settle = defaults.Toast.Settle
	}
	if c.Toast.HideDelay <= 0 {
		c.Toast.HideDelay = defaults.Toast.HideDelay
	}

	if c.Theme == "" {
		c.Theme = defaults.Theme
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}

	if len(c.Menu) == 0 {
		c.Menu = defaults.Menu
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url cannot be empty")
	}

	if c.History.Keep < 0 {
		return fmt.Errorf("history.keep cannot be negative")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns cannot exceed max_open_conns")
	}

	for i, item := range c.Menu {
		if item.Label == "" {
			return fmt.Errorf("menu item %d: label is required", i)
		}
		if !isValidSection(item.Section) {
			return fmt.Errorf("menu item %q has invalid section %q", item.Label, item.Section)
		}
	}

	return nil
}

// ScansToasts reports whether notifications rendered into the page at path
// should be picked up.
func (c *Config) ScansToasts(path string) bool {
	for _, pattern := range c.Site.ToastPages {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// ToastTimings converts the toast section to manager timings.
func (c *Config) ToastTimings() toast.Config {
	return toast.Config{
		Duration:  c.Toast.Duration,
		Stagger:   c.Toast.Stagger,
		Settle:    c.Toast.Settle,
		HideDelay: c.Toast.HideDelay,
	}
}

// SiteClientConfig converts the site section to client settings.
func (c *Config) SiteClientConfig() site.Config {
	return site.Config{
		BaseURL:      c.Site.BaseURL,
		Timeout:      c.Site.Timeout,
		UserAgent:    c.Site.UserAgent,
		LeadPath:     c.Site.LeadPath,
		DownloadPath: c.Site.DownloadPath,
	}
}

// DownloadsDir returns where downloaded chapters are written.
func (c *Config) DownloadsDir() string {
	if c.DownloadDir != "" {
		return c.DownloadDir
	}
	return filepath.Join(c.DataDir, "downloads")
}

// BusyTimeoutDuration returns the database busy timeout.
func (c *Config) BusyTimeoutDuration() time.Duration {
	return time.Duration(c.Database.BusyTimeout) * time.Millisecond
}

// MenuFor returns the first menu item pointing at section.
func (c *Config) MenuFor(section string) (MenuItem, bool) {
	for _, item := range c.Menu {
		if item.Section == section {
			return item, true
		}
	}
	return MenuItem{}, false
}

func isValidSection(s string) bool {
	switch s {
	case SectionHome, SectionDownload, SectionPrograms, SectionLesson:
		return true
	default:
		return false
	}
}

func isAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
