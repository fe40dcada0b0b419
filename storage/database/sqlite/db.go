package sqlitedb

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/lowkey/studybuddy/core"
)

// StoreRecord is one persisted store, encoded as JSON.
type StoreRecord struct {
	ID        string `gorm:"primaryKey"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// DB keeps store records in a sqlite table.
type DB struct {
	db *gorm.DB
}

var _ core.Backend = (*DB)(nil) // interface compliance check

var migrateFunc = func(db *gorm.DB) error { return db.AutoMigrate(&StoreRecord{}) } // mockable

// Open opens the sqlite database at dsn (a file path or "file::memory:?cache=shared").
func Open(dsn string) (*DB, error) {
	if dir := filepath.Dir(dsn); dir != "." && !isMemory(dsn) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating data directory")
		}
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite database")
	}
	s := &DB{db: db}
	if err := migrateFunc(db); err != nil {
		_ = s.Close()
		return nil, errors.Wrap(err, "creating store_records table")
	}
	return s, nil
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}

func (s *DB) Load(id core.StoreID) ([]byte, error) {
	var rec StoreRecord
	err := s.db.Where("id = ?", string(id)).Limit(1).Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, nil
	}
	return rec.Payload, nil
}

// Save upserts the record in one statement.
func (s *DB) Save(id core.StoreID, data []byte) error {
	rec := StoreRecord{ID: string(id), Payload: data, UpdatedAt: time.Now().UTC()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

func (s *DB) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
