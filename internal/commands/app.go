package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/core/site"
	"github.com/colonyops/aula/internal/data/db"
	"github.com/colonyops/aula/internal/data/stores"
	"github.com/colonyops/aula/internal/tui"
)

// App holds what every command shares. main populates it in the root
// command's Before hook; commands keep a pointer to it.
type App struct {
	Config  *config.Config
	DB      *db.DB
	History *stores.NotifyStore
	Build   tui.BuildInfo
}

// Open loads the configuration and opens the history database. A corrupt
// database file is moved aside and recreated.
func Open(ctx context.Context, flags *Flags, build tui.BuildInfo) (*App, error) {
	cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.BaseURL != "" {
		cfg.Site.BaseURL = flags.BaseURL
	}

	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.BusyTimeoutDuration(),
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err != nil && stores.IsCorruptionError(err) {
		log.Warn().Err(err).Msg("history database is corrupt, starting a new one")
		if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		database, err = db.Open(cfg.DataDir, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	history := stores.NewNotifyStore(database)
	if cfg.History.Keep > 0 {
		removed, err := history.Prune(ctx, cfg.History.Keep)
		if err != nil {
			log.Warn().Err(err).Msg("failed to prune notification history")
		} else if removed > 0 {
			log.Debug().Int64("removed", removed).Msg("pruned notification history")
		}
	}

	return &App{Config: cfg, DB: database, History: history, Build: build}, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// SiteClient returns a client for the configured site.
func (a *App) SiteClient() (*site.Client, error) {
	return site.New(a.Config.SiteClientConfig())
}
