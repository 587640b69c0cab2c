package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jask/recruitdesk/internal/config"
	"github.com/jask/recruitdesk/internal/database"
	"github.com/jask/recruitdesk/internal/database/repository"
	"github.com/jask/recruitdesk/internal/logging"
	"github.com/jask/recruitdesk/internal/projection"
	"github.com/jask/recruitdesk/internal/service"
	"github.com/jask/recruitdesk/internal/settings"
	"github.com/jask/recruitdesk/internal/tui"
)

// env is what every command runs against: config, logger, database and the
// services on top of it.
type env struct {
	configPath string
	dbPath     string
	driver     string
	logLevel   string

	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
	db       *sql.DB

	records     *service.RecordService
	identities  *service.IdentityService
	candidates  *service.CandidateService
	maintenance *service.MaintenanceService
	resolver    *settings.Resolver
}

func (e *env) addFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&e.configPath, "config", "", "config file (default ~/.config/recruitdesk/config.toml)")
	f.StringVar(&e.dbPath, "db", "", "sqlite database path, overrides database.path")
	f.StringVar(&e.driver, "driver", "", "sqlite driver: sqlite3 (cgo) or sqlite (pure Go)")
	f.StringVar(&e.logLevel, "log-level", "", "trace, debug, info, warn or error")
}

func (e *env) open(cmd *cobra.Command) error {
	if e.configPath != "" {
		if err := os.Setenv("RECRUITDESK_CONFIG", e.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if e.dbPath != "" {
		cfg.Database.Path = e.dbPath
	}
	if e.driver != "" {
		cfg.Database.Driver = e.driver
	}
	if e.logLevel != "" {
		cfg.Log.Level = e.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	e.cfg = cfg

	logger, closeLog, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	e.logger, e.closeLog = logger.With("command", cmd.Name()), closeLog

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	e.db = db
	if err := database.RunMigrationsWithDB(db, cfg.Database.Driver); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedDefaults(cmd.Context(), db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	users := repository.NewUserRepo(db)
	positions := repository.NewPositionRepo(db)
	candidates := repository.NewCandidateRepo(db)
	e.records = &service.RecordService{
		Accounts:     repository.NewAccountRepo(db),
		Positions:    positions,
		Candidates:   candidates,
		Applications: repository.NewJobApplicationRepo(db),
		Timeout:      cfg.Backend.Timeout,
		Logger:       e.logger,
	}
	e.identities = &service.IdentityService{Users: users, Timeout: cfg.Backend.Timeout}
	e.candidates = &service.CandidateService{Candidates: candidates, Positions: positions, UserID: cfg.User.ID}
	e.maintenance = &service.MaintenanceService{DB: db}
	store := &service.SettingsStore{Users: users, FieldSets: repository.NewFieldSetRepo(db), UserID: cfg.User.ID}
	e.resolver = settings.NewResolver(store, cfg.User.Role, e.logger)

	e.logger.Debug("environment ready", "db", cfg.Database.Path, "driver", cfg.Database.Driver)
	return nil
}

func (e *env) close() error {
	var errs []error
	if e.db != nil {
		errs = append(errs, e.db.Close())
	}
	if e.closeLog != nil {
		errs = append(errs, e.closeLog())
	}
	return errors.Join(errs...)
}

func (e *env) tuiServices() tui.Services {
	return tui.Services{
		Records:     e.records,
		Identities:  e.identities,
		Candidates:  e.candidates,
		Maintenance: e.maintenance,
		Settings:    e.resolver,
	}
}

func (e *env) projector() projection.Projector {
	p := projection.DefaultProjector()
	if len(e.cfg.Identity.Suffixes) > 0 {
		p.IdentitySuffix = e.cfg.Identity.Suffixes
	}
	return p
}
