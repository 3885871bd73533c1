package cmd

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/protek/protek/internal/utils"
	"github.com/protek/protek/pkg/config"
	"github.com/protek/protek/pkg/filter"
	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/storage"
	"github.com/protek/protek/pkg/syncer"
	"github.com/protek/protek/pkg/whttp"
)

// app is the wiring shared by every command that reads standards.
type app struct {
	cfg     config.Config
	store   *standards.Store
	db      *storage.DB
	manager *syncer.Manager
}

func loadConfig() config.Config {
	return config.FromViper(viper.GetViper())
}

// resolveDBPath prefers --dbpath over db.path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) string {
	if p, _ := cmd.Flags().GetString("dbpath"); p != "" {
		return p
	}
	return cfg.DBPath
}

func newHTTPClient(cfg config.Config) *retryablehttp.Client {
	return whttp.NewClient(cfg.RetryMax, 0, utils.RetryLogger{L: utils.Log})
}

// openApp loads the bundled standards and, unless bundledOnly is set, opens
// the local store and restores the last sync from it.
func openApp(ctx context.Context, cmd *cobra.Command, bundledOnly bool) (*app, error) {
	cfg := loadConfig()
	bundled, err := standards.Bundled()
	if err != nil {
		return nil, fmt.Errorf("loading bundled standards: %w", err)
	}
	a := &app{
		cfg:   cfg,
		store: standards.NewStore(bundled),
	}

	mcfg := syncer.Config{
		Store:    a.store,
		Bundled:  bundled,
		Client:   newHTTPClient(cfg),
		URL:      cfg.SourceURL,
		Timeout:  cfg.SyncTimeout,
		RetryMax: cfg.RetryMax,
		Log:      utils.Log,
	}

	if !bundledOnly {
		dbPath := resolveDBPath(cmd, cfg)
		db, err := storage.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", dbPath, err)
		}
		a.db = db
		mcfg.KV = db
		mcfg.ChangeLog = db

		lock, err := utils.NewDBLock(dbPath)
		if err != nil {
			db.Close()
			return nil, err
		}
		mcfg.Locker = lock
	}

	a.manager, err = syncer.New(ctx, mcfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) engine() *filter.Engine {
	return filter.NewEngine(a.store, a.cfg)
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			utils.Log.Warnf("Closing database: %v", err)
		}
	}
}

// addFilterFlags registers the flags that map onto filter.Query.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "Free-text search over label, help text, executive text and docs")
	cmd.Flags().StringSlice("impact", nil, "Only these impacts (high, medium, low); repeatable")
	cmd.Flags().StringSliceP("category", "c", nil, "Only these categories; repeatable")
	cmd.Flags().StringSliceP("tag", "t", nil, "Only standards carrying any of these tags; repeatable")
	cmd.Flags().StringSlice("recommended-by", nil, "Only standards recommended by any of these; repeatable")
	cmd.Flags().Bool("deprecated", false, "Include deprecated standards")
	cmd.Flags().Bool("new", false, "Only standards added within the freshness window")
	cmd.Flags().Bool("bundled", false, "Ignore the local store and use the bundled dataset")
}

func queryFromFlags(cmd *cobra.Command) filter.Query {
	q := filter.Query{}
	q.Search, _ = cmd.Flags().GetString("search")
	q.Impacts, _ = cmd.Flags().GetStringSlice("impact")
	q.Categories, _ = cmd.Flags().GetStringSlice("category")
	q.Tags, _ = cmd.Flags().GetStringSlice("tag")
	q.RecommendedBy, _ = cmd.Flags().GetStringSlice("recommended-by")
	q.Deprecated, _ = cmd.Flags().GetBool("deprecated")
	q.NewOnly, _ = cmd.Flags().GetBool("new")
	q.View, _ = cmd.Flags().GetString("view")
	return q
}
