// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Health Diary.
// It abstracts the underlying database (SQLite locally, MySQL or
// PostgreSQL over the network) behind a consistent Store interface, and
// implements the connection selection policy: mobile platforms and guest
// sessions always use the local database, and an unreachable networked
// backend falls back to local storage.
package db // import "github.com/ovoronina/healthdiary/internal/db"

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/ovoronina/healthdiary/internal/logging"

	// SQL drivers required for runtime and tests.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported backends.
const (
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
)

// DefaultLocalPath is the SQLite file used when no local path is
// configured.
const DefaultLocalPath = "./healthdiary.db"

// Mode describes which backend a Handle ended up on.
type Mode string

const (
	// ModeLocal means local storage was selected directly (sqlite backend,
	// forced-local, or a mobile platform).
	ModeLocal Mode = "local"
	// ModeRemote means the networked backend is in use.
	ModeRemote Mode = "remote"
	// ModeFallback means the networked backend was unreachable and the
	// handle silently downgraded to local storage.
	ModeFallback Mode = "fallback"
)

// Config selects and parameterizes the backend. There are no module-level
// mode flags: the decision is made per Open call and recorded in the
// returned Handle.
type Config struct {
	// Backend is "sqlite", "mysql" or "postgres".
	Backend string
	// DSN is the connection string for a networked backend.
	DSN string
	// LocalPath is the SQLite database file used for local mode and for
	// fallback. Empty means DefaultLocalPath.
	LocalPath string
	// ForceLocal pins the handle to local storage regardless of Backend,
	// e.g. for guest sessions.
	ForceLocal bool
}

// Handle is an open database with the mode that was actually selected.
type Handle struct {
	store   Store
	mode    Mode
	backend string
}

// Store returns the active store.
func (h *Handle) Store() Store { return h.store }

// Mode reports how the backend was selected.
func (h *Handle) Mode() Mode { return h.mode }

// Backend returns the effective backend name.
func (h *Handle) Backend() string { return h.backend }

// package-level variables
var (
	//go:embed migrations
	embeddedMigrations embed.FS
	// sqlOpenFunc allows tests to override database opening behavior.
	sqlOpenFunc = sql.Open
	// goos allows tests to exercise the mobile-platform policy.
	goos = runtime.GOOS
)

// Open selects a backend per the connection policy and returns a ready
// Handle. On mobile platforms the local database is always used. A
// networked backend that cannot be reached is logged and replaced by the
// local database for the lifetime of the handle.
func Open(cfg Config) (*Handle, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = BackendSQLite
	}
	if goos == "android" || goos == "ios" {
		backend = BackendSQLite
	}
	if cfg.ForceLocal {
		backend = BackendSQLite
	}

	if backend == BackendSQLite {
		s, err := NewStoreFromDSN(BackendSQLite, localDSN(cfg))
		if err != nil {
			return nil, err
		}
		return &Handle{store: s, mode: ModeLocal, backend: BackendSQLite}, nil
	}

	s, err := NewStoreFromDSN(backend, cfg.DSN)
	if err == nil {
		return &Handle{store: s, mode: ModeRemote, backend: backend}, nil
	}
	logging.Warnf("db: %s backend unreachable (%v), falling back to local storage", backend, err)

	local, lerr := NewStoreFromDSN(BackendSQLite, localDSN(cfg))
	if lerr != nil {
		return nil, errors.Join(err, lerr)
	}
	return &Handle{store: local, mode: ModeFallback, backend: BackendSQLite}, nil
}

func localDSN(cfg Config) string {
	if cfg.LocalPath != "" {
		return cfg.LocalPath
	}
	return DefaultLocalPath
}

// NewStoreFromDSN opens a sql.DB for the given DSN, verifies connectivity,
// runs migrations, and returns a Store backed by a long-lived *bun.DB.
func NewStoreFromDSN(backend, dsn string) (Store, error) {
	driverName := backend
	// The pgx stdlib driver registers as "pgx"; map "postgres" to it.
	if backend == BackendPostgres {
		driverName = "pgx"
	}
	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", MapDBError(err))
	}

	// Conservative pool defaults for a single-user application.
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// In-memory SQLite databases are per-connection; force a single open
	// connection so the schema stays visible. Tests rely on this.
	if backend == BackendSQLite && strings.Contains(dsn, "memory") {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", MapDBError(err))
	}
	dbLogf("db: opened %s driver in %s", driverName, time.Since(start))

	if err := RunMigrations(sqlDB, backend); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	bunDB := createBunDB(sqlDB, backend)
	switch backend {
	case BackendSQLite:
		return &SqliteStore{bun: bunDB}, nil
	case BackendPostgres:
		return &PostgresStore{bun: bunDB}, nil
	case BackendMySQL:
		return &MySQLStore{bun: bunDB}, nil
	default:
		return nil, fmt.Errorf("unsupported database backend: '%s'", backend)
	}
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and backend.
func createBunDB(sqlDB *sql.DB, backend string) *bun.DB {
	switch backend {
	case BackendPostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case BackendMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// RunMigrations applies the embedded migrations for a given database
// connection, recording applied versions in schema_migrations.
func RunMigrations(db *sql.DB, backend string) error {
	start := time.Now()
	dbLogf("db: starting migrations for %s", backend)
	migrationsPath := fmt.Sprintf("migrations/%s", backend)

	entries, err := fs.ReadDir(embeddedMigrations, migrationsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read embedded migrations (%s): %w", migrationsPath, err)
	}

	var ups []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".up.sql") {
			ups = append(ups, e.Name())
		}
	}
	sort.Strings(ups)

	if err := ensureSchemaMigrationsTable(db, backend); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	for _, fname := range ups {
		version := strings.TrimSuffix(fname, ".up.sql")

		var exists int
		query := "SELECT 1 FROM schema_migrations WHERE version = ?"
		if backend == BackendPostgres {
			query = "SELECT 1 FROM schema_migrations WHERE version = $1"
		}
		err := db.QueryRow(query, version).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check migration version %s: %w", version, err)
		}

		data, err := embeddedMigrations.ReadFile(path.Join(migrationsPath, fname))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", fname, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %s: %w", version, err)
		}
		for _, stmt := range splitStatements(string(data)) {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to execute migration %s: %w", version, err)
			}
		}

		insertQuery := "INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)"
		if backend == BackendPostgres {
			insertQuery = "INSERT INTO schema_migrations(version, applied_at) VALUES($1, $2)"
		}
		if _, err := tx.Exec(insertQuery, version, time.Now()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to commit migration %s: %w", version, err)
		}
	}
	dbLogf("db: migrations for %s completed in %s", backend, time.Since(start))
	return nil
}

// splitStatements breaks a migration file into individual statements. The
// MySQL driver rejects multi-statement Execs by default.
func splitStatements(script string) []string {
	var stmts []string
	for _, s := range strings.Split(script, ";") {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func ensureSchemaMigrationsTable(db *sql.DB, backend string) error {
	// MySQL does not permit TEXT columns as primary keys without a length,
	// so use VARCHAR there.
	if backend == BackendMySQL {
		_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(191) PRIMARY KEY, applied_at TIMESTAMP)`)
		return err
	}
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMP)`)
	return err
}

// RunMaintenance performs engine-specific maintenance for the configured
// backend: PRAGMA optimize/VACUUM/integrity_check for SQLite, VACUUM
// ANALYZE for Postgres, OPTIMIZE TABLE for MySQL.
func RunMaintenance(cfg Config) error {
	backend := cfg.Backend
	dsn := cfg.DSN
	if backend == "" || backend == BackendSQLite || cfg.ForceLocal {
		backend = BackendSQLite
		dsn = localDSN(cfg)
	}
	driverName := backend
	if backend == BackendPostgres {
		driverName = "pgx"
	}
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database for maintenance: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch backend {
	case BackendSQLite:
		if _, err := sqlDB.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
			dbLogf("db: sqlite optimize failed (ignored): %v", err)
		}
		if _, err := sqlDB.ExecContext(ctx, "VACUUM;"); err != nil {
			return fmt.Errorf("sqlite vacuum failed: %w", err)
		}
		_, _ = sqlDB.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);")
		var res string
		if row := sqlDB.QueryRowContext(ctx, "PRAGMA integrity_check;"); row != nil {
			_ = row.Scan(&res)
			if res != "ok" {
				return fmt.Errorf("sqlite integrity_check failed: %s", res)
			}
		}
	case BackendPostgres:
		if _, err := sqlDB.ExecContext(ctx, "VACUUM ANALYZE;"); err != nil {
			return fmt.Errorf("postgres vacuum failed: %w", err)
		}
	case BackendMySQL:
		rows, err := sqlDB.QueryContext(ctx, "SHOW TABLES")
		if err != nil {
			return fmt.Errorf("mysql show tables failed: %w", err)
		}
		defer func() { _ = rows.Close() }()
		var table string
		var lastErr error
		for rows.Next() {
			if err := rows.Scan(&table); err != nil {
				return fmt.Errorf("mysql read table name failed: %w", err)
			}
			if _, err := sqlDB.ExecContext(ctx, fmt.Sprintf("OPTIMIZE TABLE %s", table)); err != nil {
				dbLogf("db: mysql optimize table %s failed: %v", table, err)
				lastErr = err
			}
		}
		if lastErr != nil {
			return fmt.Errorf("mysql optimize encountered errors: %w", lastErr)
		}
	default:
		return fmt.Errorf("unsupported backend for maintenance: %s", backend)
	}
	return nil
}
