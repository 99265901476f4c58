package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/evcraddock/estateview/internal/browse"
	"github.com/evcraddock/estateview/internal/config"
	"github.com/evcraddock/estateview/internal/db"
	"github.com/evcraddock/estateview/internal/favorites"
	"github.com/evcraddock/estateview/internal/inquiry"
	"github.com/evcraddock/estateview/internal/kv"
	"github.com/evcraddock/estateview/internal/listing"
	"github.com/evcraddock/estateview/internal/logging"
	"github.com/evcraddock/estateview/internal/prefs"
)

// app holds the components a command works with.
type app struct {
	cfg       config.Config
	db        *sql.DB
	listings  *listing.Repository
	favorites *favorites.Store
	prefs     *prefs.Store
	inquiries *inquiry.Repository
	browse    *browse.Service
	closers   []func() error
}

// openApp loads config, opens the database and storage backend, and
// builds the stores and browse service.
func openApp(ctx context.Context) (_ *app, err error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logging.Setup(cfg.DevMode)

	path, err := dbPath(cfg)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: database, closers: []func() error{database.Close}}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	storage, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	a.favorites, err = favorites.NewStore(ctx, storage)
	if err != nil {
		return nil, err
	}
	a.prefs, err = prefs.NewStore(ctx, storage)
	if err != nil {
		return nil, err
	}

	a.listings = listing.NewRepository(database)
	a.inquiries = inquiry.NewRepository(database)
	a.browse = browse.NewService(a.listings, a.favorites, a.prefs)

	return a, nil
}

// openStorage builds the configured key/value backend.
func (a *app) openStorage(ctx context.Context) (kv.Storage, error) {
	switch a.cfg.Storage {
	case config.StorageMemory:
		return kv.NewMemory(), nil
	case config.StorageRedis:
		r := kv.NewRedis(kv.RedisOptions{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
			Prefix:   a.cfg.Redis.Prefix,
		})
		a.closers = append(a.closers, r.Close)
		if err := r.Ping(ctx); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return kv.NewSQLite(a.db), nil
	}
}

// Close releases everything openApp acquired, newest first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("closing resource", "error", err)
		}
	}
}

// dbPath resolves the database path from --db, config, or the default.
func dbPath(cfg config.Config) (string, error) {
	if flagDB != "" {
		return flagDB, nil
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return db.DefaultPath()
}
