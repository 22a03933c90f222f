// Package db opens the embedded user store and keeps its schema in place.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"registration_backend/internal/feature/registration/domain/entity"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	memoryPath = ":memory:"
	// busyTimeoutMillis lets a second writer wait for the file lock instead of failing immediately.
	busyTimeoutMillis = 5000
)

// Config selects the storage backend.
type Config struct {
	Driver string // "sqlite" (default) or "postgres"
	Path   string // SQLite data file
	DSN    string // Postgres connection string
}

// BuildDSN returns the connection string handed to the gorm dialector.
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverPostgres {
		return cfg.DSN
	}
	if cfg.Path == memoryPath {
		return cfg.Path
	}
	sep := "?"
	if strings.Contains(cfg.Path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", cfg.Path, sep, busyTimeoutMillis)
}

// Dialector returns the gorm dialector for cfg.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		if cfg.Path == "" {
			return nil, errors.New("sqlite path is empty")
		}
		return sqlite.Open(BuildDSN(cfg)), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("postgres dsn is empty")
		}
		return postgres.Open(BuildDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

// Store opens a fresh connection for every unit of work.
// Each handle is owned by a single request and closed by the release func returned from Open.
type Store struct {
	cfg Config
}

// NewStore creates a Store for cfg.
func NewStore(cfg Config) *Store {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	return &Store{cfg: cfg}
}

// Open makes sure the data location and schema exist and returns a handle scoped to ctx.
// Failures are not retried.
func (s *Store) Open(ctx context.Context) (*gorm.DB, func(), error) {
	if err := s.ensureLocation(); err != nil {
		return nil, nil, err
	}

	dialector, err := Dialector(s.cfg)
	if err != nil {
		return nil, nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", s.cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	release := func() {
		if err := sqlDB.Close(); err != nil {
			slog.Warn("failed to close store handle", "driver", s.cfg.Driver, "error", err)
		}
	}

	scoped := gdb.WithContext(ctx)
	if err := s.ensureSchema(scoped); err != nil {
		release()
		return nil, nil, err
	}
	return scoped, release, nil
}

// Initialized reports whether the data location already exists.
// A Postgres server is always considered initialized.
func (s *Store) Initialized() bool {
	if s.cfg.Driver != DriverSQLite || s.cfg.Path == memoryPath {
		return true
	}
	_, err := os.Stat(s.filePath())
	return err == nil
}

// filePath is the SQLite data file without any DSN query parameters.
func (s *Store) filePath() string {
	path, _, _ := strings.Cut(s.cfg.Path, "?")
	return path
}

// location identifies the database a Store points at.
func (s *Store) location() string {
	if s.cfg.Driver == DriverPostgres {
		return s.cfg.DSN
	}
	return s.filePath()
}

// ensureLocation creates the directory holding the SQLite file.
func (s *Store) ensureLocation() error {
	if s.cfg.Driver != DriverSQLite || s.cfg.Path == memoryPath {
		return nil
	}
	dir := filepath.Dir(s.filePath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return nil
}

// schemaLocks holds one *sync.Mutex per database location.
// gorm's AutoMigrate checks for the table and index before creating them, so two handles
// migrating the same fresh database at once can both try the CREATE.
var schemaLocks sync.Map

// ensureSchema runs EnsureSchema with the location's lock held. Another process can still win
// the CREATE between gorm's check and its statement; that is answered by migrating once more,
// which then finds the object in place.
func (s *Store) ensureSchema(gdb *gorm.DB) error {
	v, _ := schemaLocks.LoadOrStore(s.location(), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	err := EnsureSchema(gdb)
	if err != nil && isAlreadyExists(err) {
		slog.Debug("schema object created concurrently, re-checking", "driver", s.cfg.Driver, "error", err)
		err = EnsureSchema(gdb)
	}
	return err
}

// isAlreadyExists matches the "table/index ... already exists" errors of SQLite and Postgres.
func isAlreadyExists(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// EnsureSchema creates the users table and its unique username index when missing.
// It is idempotent.
func EnsureSchema(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&entity.User{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
