package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookdb/internal/contract"
)

const (
	// DatabaseName is the default file name of the store.
	DatabaseName = "books.db"

	// Version is the schema version this code writes. Bump it together with
	// a Migration registered for (Version-1, Version).
	Version = 1

	memoryPath = ":memory:"
)

// SQLCreateBooksTable is the creation script run once per fresh file.
var SQLCreateBooksTable = fmt.Sprintf(
	"CREATE TABLE %s (%s INTEGER PRIMARY KEY AUTOINCREMENT, %s TEXT, %s TEXT, %s INTEGER)",
	contract.TableName,
	contract.ColumnID,
	contract.ColumnTitle,
	contract.ColumnAuthor,
	contract.ColumnType,
)

var (
	// ErrNotOpen is returned when a handle is requested before Open or after Close.
	ErrNotOpen = errors.New("database is not open")

	// ErrMissingMigration means the file is older than Version and no step
	// exists for one of the transitions in between.
	ErrMissingMigration = errors.New("missing migration step")

	// ErrDowngrade means the file was written by a newer schema version.
	ErrDowngrade = errors.New("cannot downgrade database")
)

// MigrationKey identifies one upgrade step.
type MigrationKey struct {
	From int
	To   int
}

// Migration upgrades the schema by exactly one version inside a transaction.
type Migration func(tx *gorm.DB) error

// Options tune a Helper. The zero value opens the file at Version with no
// migrations and a silent SQL logger.
type Options struct {
	Version    int
	Migrations map[MigrationKey]Migration
	LogLevel   logger.LogLevel
}

// Helper owns the SQLite file of the catalogue. It is constructed without
// touching disk; Open creates and upgrades the file, Close releases it.
type Helper struct {
	path       string
	version    int
	migrations map[MigrationKey]Migration
	logLevel   logger.LogLevel

	mu sync.RWMutex
	db *gorm.DB

	// writeMu serializes every write so there is a single logical writer.
	writeMu sync.Mutex
}

// NewHelper creates a helper for the file at path.
func NewHelper(path string, opts Options) *Helper {
	if path == "" {
		path = DatabaseName
	}
	if opts.Version == 0 {
		opts.Version = Version
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Silent
	}
	migrations := make(map[MigrationKey]Migration, len(opts.Migrations))
	for k, m := range opts.Migrations {
		migrations[k] = m
	}
	return &Helper{
		path:       path,
		version:    opts.Version,
		migrations: migrations,
		logLevel:   opts.LogLevel,
	}
}

// Path returns the location of the database file.
func (h *Helper) Path() string {
	return h.path
}

// Open creates the file if needed, runs the creation script on a fresh file
// and upgrades older files. Calling Open on an open helper is a no-op.
func (h *Helper) Open(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		return nil
	}

	dsn := h.path
	if h.path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = h.path + "?_journal=WAL&_timeout=5000&_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(h.logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if h.path == memoryPath {
		// Every connection to :memory: is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := h.prepare(ctx, db); err != nil {
		closeDB(db)
		return err
	}

	h.db = db
	log.Printf("Database initialized successfully at %s (version %d)", h.path, h.version)
	return nil
}

// prepare brings the file to h.version.
func (h *Helper) prepare(ctx context.Context, db *gorm.DB) error {
	current, err := userVersion(db.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	switch {
	case current == h.version:
		return nil
	case current > h.version:
		return fmt.Errorf("%w from version %d to %d", ErrDowngrade, current, h.version)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if current == 0 {
			if err := tx.Exec(SQLCreateBooksTable).Error; err != nil {
				return fmt.Errorf("failed to create books table: %w", err)
			}
			log.Printf("Created table %s", contract.TableName)
		} else {
			for from := current; from < h.version; from++ {
				key := MigrationKey{From: from, To: from + 1}
				step, ok := h.migrations[key]
				if !ok {
					return fmt.Errorf("%w: %d -> %d", ErrMissingMigration, key.From, key.To)
				}
				if err := step(tx); err != nil {
					return fmt.Errorf("migration %d -> %d failed: %w", key.From, key.To, err)
				}
				log.Printf("Migrated database from version %d to %d", key.From, key.To)
			}
		}
		return setUserVersion(tx, h.version)
	})
}

// Close releases the handle. Closing a closed helper is a no-op.
func (h *Helper) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	h.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Readable returns a handle for queries. Reads are not serialized.
func (h *Helper) Readable() (*gorm.DB, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.db == nil {
		return nil, ErrNotOpen
	}
	return h.db, nil
}

// Writable returns a handle for writes. Prefer Write, which also serializes
// writers and wraps them in a transaction.
func (h *Helper) Writable() (*gorm.DB, error) {
	return h.Readable()
}

// Write runs fn in a transaction while holding the write lock.
func (h *Helper) Write(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, err := h.Writable()
	if err != nil {
		return err
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	return db.WithContext(ctx).Transaction(fn)
}

// Version returns the schema version stored in the open file.
func (h *Helper) Version(ctx context.Context) (int, error) {
	db, err := h.Readable()
	if err != nil {
		return 0, err
	}
	return userVersion(db.WithContext(ctx))
}

// Ping checks that the underlying connection is alive.
func (h *Helper) Ping(ctx context.Context) error {
	db, err := h.Readable()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func userVersion(db *gorm.DB) (int, error) {
	var v int
	if err := db.Raw("PRAGMA user_version").Scan(&v).Error; err != nil {
		return 0, err
	}
	return v, nil
}

func setUserVersion(db *gorm.DB, v int) error {
	// PRAGMA does not accept bound parameters.
	return db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v)).Error
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
