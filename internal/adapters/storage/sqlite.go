// Package storage persists decoded records to a SQLite archive. Used by the
// receiver when capturing a stream for later analysis.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bft-labs/bbobridge/internal/domain"
)

// ArchivedRecord is the persisted form of one decoded BBO record.
type ArchivedRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Symbol    string `gorm:"index"`
	BidPrice  uint32
	BidSize   uint32
	AskPrice  uint32
	AskSize   uint32
	Spread    uint32
	T1        uint32
	T2        uint32
	T3        uint32
	T4        uint32
	LatencyNs uint64
	CreatedAt time.Time
}

// Archive is a SQLite-backed record store.
type Archive struct {
	db *gorm.DB
}

// Open creates or opens the archive database at path, migrating the schema.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := db.AutoMigrate(&ArchivedRecord{}); err != nil {
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// SaveRecord appends one decoded record with its computed latency.
func (a *Archive) SaveRecord(rec domain.Record, latencyNs uint64) error {
	row := ArchivedRecord{
		Symbol:    rec.SymbolString(),
		BidPrice:  rec.BidPrice,
		BidSize:   rec.BidSize,
		AskPrice:  rec.AskPrice,
		AskSize:   rec.AskSize,
		Spread:    rec.Spread,
		T1:        rec.T1,
		T2:        rec.T2,
		T3:        rec.T3,
		T4:        rec.T4,
		LatencyNs: latencyNs,
	}
	return a.db.Create(&row).Error
}

// Count returns the number of archived records.
func (a *Archive) Count() (int64, error) {
	var n int64
	err := a.db.Model(&ArchivedRecord{}).Count(&n).Error
	return n, err
}

// BySymbol returns archived records for one symbol, newest first, up to limit.
func (a *Archive) BySymbol(symbol string, limit int) ([]ArchivedRecord, error) {
	var rows []ArchivedRecord
	err := a.db.Where("symbol = ?", symbol).
		Order("id desc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
