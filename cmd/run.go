package cmd

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deepsea/deepsea/internal/app"
	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/config"
	"github.com/deepsea/deepsea/internal/logging"
	"github.com/deepsea/deepsea/internal/store"
	"github.com/deepsea/deepsea/internal/userstate"
)

// runtime holds what every command needs once configuration is resolved.
type runtime struct {
	cfg     config.Config
	logger  *zap.Logger
	catalog *catalog.Catalog
	users   *userstate.Store
	closers []io.Closer
}

func (r *runtime) Close() {
	_ = r.logger.Sync()
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i].Close()
	}
}

// resolveConfig layers flags over the environment over the config file
// over defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.ConfigFromEnv(path)
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := flags.GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := flags.GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	if p, _ := flags.GetString("log"); p != "" {
		cfg.Log.Path = p
	}
	if l, _ := flags.GetString("log-level"); l != "" {
		cfg.Log.Level = l
	}
	if flags.Changed("memory") {
		cfg.InMemory, _ = flags.GetBool("memory")
	}
	if flags.Changed("self-test") {
		cfg.SelfTest, _ = flags.GetBool("self-test")
	}
	return cfg, cfg.Validate()
}

// bootstrap opens the logger, catalog and user state. A database that
// cannot be opened degrades to in-memory state with a warning.
func bootstrap(cmd *cobra.Command) (*runtime, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logPath := cfg.Log.Path
	if logPath == "" {
		if logPath, err = logging.DefaultLogPath(); err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
	}
	logger, logCloser, err := logging.New(logging.Config{
		FilePath: logPath,
		Level:    cfg.Log.Level,
		Env:      cfg.Log.Env,
		RunID:    uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	if cfg.CatalogPath != "" {
		rt.catalog, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		rt.catalog, err = catalog.Default()
	}
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	repo, journal := rt.openRepo(cfg)
	rt.users = userstate.New(repo, logger).WithJournal(journal)
	rt.users.Load(cmd.Context())

	logger.Info("started",
		zap.String("version", version),
		zap.Bool("in_memory", cfg.InMemory),
		zap.Int("courses", len(rt.catalog.Courses)))
	return rt, nil
}

func (r *runtime) openRepo(cfg config.Config) (store.StateRepo, store.ActivityRepo) {
	if cfg.InMemory {
		return store.NewMemoryRepo(), store.NewMemoryJournal()
	}

	dbPath := cfg.DBPath
	var err error
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
	} else {
		err = store.EnsureDir(dbPath)
	}
	if err == nil {
		var st *store.Store
		if st, err = store.Open(dbPath); err == nil {
			r.closers = append(r.closers, st)
			return st.StateRepo(), st.ActivityRepo()
		}
	}

	r.logger.Warn("persistence unavailable, progress is kept in memory",
		zap.String("db", dbPath),
		zap.Error(err))
	return store.NewMemoryRepo(), store.NewMemoryJournal()
}

// runApp resolves dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	return app.Run(cmd.Context(), app.Options{
		Catalog:       rt.catalog,
		Store:         rt.users,
		Logger:        rt.logger,
		ClockInterval: rt.cfg.ClockInterval,
		SelfTest:      rt.cfg.SelfTest,
	})
}
