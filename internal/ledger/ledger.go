// Package ledger records the content hash of every transferred file so a
// file is transferred at most once, across runs.
//
// The ledger is a single SQLite table:
//
//	hash_store (hash BLOB PRIMARY KEY, image_file TEXT)
//
// It is opened by one transfer run at a time and provides no locking of its own.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"camera-transfer/internal/domain"
	"camera-transfer/internal/logging"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// memoryDSN opens a private database that lives as long as its connection.
const memoryDSN = ":memory:"

// entry is one ledger row.
type entry struct {
	Hash      []byte `gorm:"column:hash;primaryKey"`
	ImageFile string `gorm:"column:image_file;not null"`
}

// TableName keeps the table name stable regardless of gorm's naming strategy.
func (entry) TableName() string { return "hash_store" }

// Ledger maps content hashes to the names they were transferred under.
type Ledger struct {
	db     *gorm.DB
	path   string
	dryRun bool
	logger *slog.Logger
}

// Options tunes Open.
type Options struct {
	// DryRun makes Record a no-op; lookups still run.
	DryRun bool
	Logger *slog.Logger
}

// Open opens the ledger stored at path, creating the file, its parent
// directory and the table as needed. An empty path opens an in-memory ledger
// that disappears when closed.
func Open(path string, opts Options) (*Ledger, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	dsn := memoryDSN
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create ledger directory: %w", domain.ErrLedgerIO, err)
		}
		dsn = path
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrLedgerIO, describe(path), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrLedgerIO, describe(path), err)
	}
	// One connection: an in-memory database is per connection, and the ledger
	// has a single writer anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&entry{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: migrate %s: %w", domain.ErrLedgerIO, describe(path), err)
	}

	logger.Debug("ledger opened", "location", describe(path), "dry_run", opts.DryRun)
	return &Ledger{db: db, path: path, dryRun: opts.DryRun, logger: logger}, nil
}

// Contains reports whether hash has been recorded.
func (l *Ledger) Contains(hash domain.ContentHash) (bool, error) {
	var n int64
	err := l.db.Model(&entry{}).Where("hash = ?", hash[:]).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("%w: lookup %s: %w", domain.ErrLedgerIO, hash, err)
	}
	return n > 0, nil
}

// Get returns the name recorded for hash.
func (l *Ledger) Get(hash domain.ContentHash) (string, bool, error) {
	var e entry
	err := l.db.Where("hash = ?", hash[:]).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: lookup %s: %w", domain.ErrLedgerIO, hash, err)
	}
	return e.ImageFile, true, nil
}

// Record stores hash -> name. Recording a hash that is already present leaves
// the existing row untouched. In dry-run mode nothing is written.
func (l *Ledger) Record(hash domain.ContentHash, name string) error {
	if l.dryRun {
		l.logger.Debug("dry run: not recording hash", "hash", hash, "name", name)
		return nil
	}

	e := entry{Hash: hash[:], ImageFile: name}
	err := l.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("%w: record %s: %w", domain.ErrLedgerIO, hash, err)
	}
	return nil
}

// Len returns the number of recorded hashes.
func (l *Ledger) Len() (int64, error) {
	var n int64
	if err := l.db.Model(&entry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: count: %w", domain.ErrLedgerIO, err)
	}
	return n, nil
}

// Close releases the database. An in-memory ledger is discarded.
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return fmt.Errorf("%w: close: %w", domain.ErrLedgerIO, err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", domain.ErrLedgerIO, err)
	}
	return nil
}

func describe(path string) string {
	if path == "" {
		return "in-memory ledger"
	}
	return path
}
