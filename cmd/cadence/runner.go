package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/mk-hx/cadence/internal/cache/memory"
	"github.com/mk-hx/cadence/internal/config"
	"github.com/mk-hx/cadence/internal/lock"
	"github.com/mk-hx/cadence/internal/repository"
	"github.com/mk-hx/cadence/internal/repository/cached"
	"github.com/mk-hx/cadence/internal/repository/postgres"
	"github.com/mk-hx/cadence/internal/repository/sqlite"
	"github.com/mk-hx/cadence/internal/service"
)

// schemaAdmin is the database surface the CLI needs beyond health checks.
// Both storage backends satisfy it.
type schemaAdmin interface {
	repository.DatabaseHealth
	InitSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error
}

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	cfg       *config.Config
	db        schemaAdmin
	cache     *memory.Cache
	locker    *lock.MemoryLocker
	users     *service.UserService
	songs     *service.SongService
	playlists *service.PlaylistService
	logger    zerolog.Logger
	output    io.Writer
}

// newRunner loads configuration, opens the configured storage backend and
// wires the service layer. Callers must Close the returned Runner.
func newRunner(ctx context.Context, cmd *cli.Command) (*Runner, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg, cmd)

	repos, db, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:    cfg,
		db:     db,
		logger: logger,
		output: os.Stdout,
	}

	if cfg.Cache.Enabled {
		r.cache = memory.NewCache(cfg.Cache.CleanupInterval)
		repos.Songs = cached.NewSongRepository(repos.Songs, r.cache, cfg.Cache.TTL, logger)
		repos.Playlists = cached.NewPlaylistRepository(repos.Playlists, r.cache, cfg.Cache.TTL, logger)
	}

	r.locker = lock.NewMemoryLocker()
	normalizer := service.NewNormalizer(cfg.Normalize.TitleCase)
	r.users = service.NewUserService(repos.Users, normalizer, logger)
	r.songs = service.NewSongService(repos.Songs, normalizer, logger)
	r.playlists = service.NewPlaylistService(repos.Playlists, repos.Users, repos.Songs, r.locker, normalizer, logger)

	return r, nil
}

// Close releases the cache sweeper, the lock sweeper and the database handle.
func (r *Runner) Close() {
	if r.cache != nil {
		r.cache.Stop()
	}
	if r.locker != nil {
		r.locker.Stop()
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to close database")
		}
	}
}

// withRunner adapts an action that needs wired services into a cli action,
// so the database is only opened for commands that actually run.
func withRunner(fn func(context.Context, *cli.Command, *Runner) error) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		r, err := newRunner(ctx, cmd)
		if err != nil {
			return err
		}
		defer r.Close()
		return fn(ctx, cmd, r)
	}
}

// openBackend constructs the repository set for the configured driver.
func openBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Repositories, schemaAdmin, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		repos := &repository.Repositories{
			Users:     postgres.NewUserRepository(db),
			Songs:     postgres.NewSongRepository(db),
			Playlists: postgres.NewPlaylistRepository(db),
		}
		return repos, db, nil

	default:
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			CacheSize:       cfg.Database.CacheSize,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		repos := &repository.Repositories{
			Users:     sqlite.NewUserRepository(db),
			Songs:     sqlite.NewSongRepository(db),
			Playlists: sqlite.NewPlaylistRepository(db),
		}
		return repos, db, nil
	}
}

// newLogger builds the process logger from configuration, with the
// --log-level and --json-log flags taking precedence.
func newLogger(cfg *config.Config, cmd *cli.Command) zerolog.Logger {
	levelStr := cfg.Logging.Level
	if s := cmd.String("log-level"); s != "" {
		levelStr = s
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var sink io.Writer = os.Stderr
	if cfg.Logging.Output == "stdout" {
		sink = os.Stdout
	}

	out := sink
	if cfg.Logging.Format != "json" && !cmd.Bool("json-log") {
		out = zerolog.ConsoleWriter{Out: sink, TimeFormat: cfg.Logging.TimeFormat}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}

// writeJSON renders data as indented JSON for the --json flag.
func (r *Runner) writeJSON(data any) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := r.output.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
