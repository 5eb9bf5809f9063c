package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

// Supported providers.
const (
	ProviderMemory   = "memory"
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
)

var (
	ErrProviderUnknown = errors.New("storage: provider is invalid")
	ErrDSNRequired     = errors.New("storage: dsn is required")
	ErrNoDatabase      = errors.New("storage: memory provider has no database")
)

// Config selects the database backing the mapping store.
type Config struct {
	Provider     string
	DSN          string
	MaxOpenConns int
}

// NormalizeProvider lowercases provider and maps aliases. Empty means memory.
func NormalizeProvider(provider string) string {
	switch p := strings.ToLower(strings.TrimSpace(provider)); p {
	case "", ProviderMemory:
		return ProviderMemory
	case "sqlite3", ProviderSQLite:
		return ProviderSQLite
	case "postgresql", "pg", ProviderPostgres:
		return ProviderPostgres
	default:
		return p
	}
}

// Open connects to the configured database, pings it and returns a bun handle.
func Open(ctx context.Context, cfg Config, logger interfaces.Logger) (*bun.DB, error) {
	logger = logging.Ensure(logger)
	provider := NormalizeProvider(cfg.Provider)
	if provider == ProviderMemory {
		return nil, ErrNoDatabase
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, ErrDSNRequired
	}

	var (
		driver string
		db     *bun.DB
	)
	switch provider {
	case ProviderSQLite:
		driver = "sqlite3"
	case ProviderPostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("%w: %q", ErrProviderUnknown, cfg.Provider)
	}

	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", provider, err)
	}

	switch provider {
	case ProviderSQLite:
		// sqlite serializes writers; a single connection also keeps shared
		// in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	default:
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		sqlDB.SetConnMaxLifetime(10 * time.Minute)
		db = bun.NewDB(sqlDB, pgdialect.New())
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", provider, err)
	}

	logger.Info("navsync.storage.opened", "provider", provider)
	return db, nil
}

// Migrate creates the tables used by the bun mapping store.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return ErrNoDatabase
	}
	return menus.CreateMappingTable(ctx, db)
}
