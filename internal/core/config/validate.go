package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/aula/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including URLs, glob patterns, the theme, and file accessibility. The
// configPath argument specifies the config file location to validate (empty
// string skips config file check). This calls Validate() first for basic
// structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateSite(),
		c.validateMenu(),
		criterio.Run("theme", c.Theme, themeExists),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Toast.Duration < c.Toast.HideDelay {
		warnings = append(warnings, ValidationWarning{
			Category: "Toast",
			Item:     "duration",
			Message:  "notifications dismiss before their exit transition finishes",
		})
	}

	if !c.ScansToasts("/") {
		warnings = append(warnings, ValidationWarning{
			Category: "Site",
			Item:     "toast_pages",
			Message:  "the home page is not scanned for notifications",
		})
	}

	seen := make(map[string]bool, len(c.Menu))
	for _, item := range c.Menu {
		if seen[item.Path] {
			warnings = append(warnings, ValidationWarning{
				Category: "Menu",
				Item:     item.Label,
				Message:  fmt.Sprintf("path %q is listed more than once", item.Path),
			})
		}
		seen[item.Path] = true
	}

	return warnings
}

// validateFileAccess checks config file, data directory, and download directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("download_dir", c.DownloadDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func (c *Config) validateSite() error {
	var errs criterio.FieldErrorsBuilder

	if err := isAbsoluteURL(c.Site.BaseURL); err != nil {
		errs = errs.Append("site.base_url", fmt.Errorf("invalid url %q: %w", c.Site.BaseURL, err))
	}
	if err := isSitePath(c.Site.LeadPath); err != nil {
		errs = errs.Append("site.lead_path", err)
	}
	if err := isSitePath(c.Site.DownloadPath); err != nil {
		errs = errs.Append("site.download_path", err)
	}

	for i, pattern := range c.Site.ToastPages {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("site.toast_pages[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}

	return errs.ToError()
}

func (c *Config) validateMenu() error {
	var errs criterio.FieldErrorsBuilder
	for i, item := range c.Menu {
		if err := isSitePath(item.Path); err != nil {
			errs = errs.Append(fmt.Sprintf("menu[%d].path", i), err)
		}
	}
	return errs.ToError()
}

func isSitePath(p string) error {
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("path %q must start with /", p)
	}
	if cleaned := path.Clean(p); cleaned != strings.TrimSuffix(p, "/") && cleaned != p {
		return fmt.Errorf("path %q is not clean", p)
	}
	return nil
}

func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}
