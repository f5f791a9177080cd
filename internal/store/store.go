// Package store persists normalized hands and the vision analysis cache in
// SQLite through GORM.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hhnorm/internal/hand"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// Store 基于 GORM + SQLite（modernc 纯 Go 驱动）。
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open creates the database file's directory, opens it in WAL mode and
// migrates the schema.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&HandRecord{}, &AnalysisRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL：少量并发读即可
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveHand stores h and returns the new record ID.
func (s *Store) SaveHand(ctx context.Context, source, rawText string, h hand.ParsedHand) (string, error) {
	raw, err := json.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("encode hand: %w", err)
	}
	rec := HandRecord{
		ID:            uuid.NewString(),
		Source:        source,
		RawText:       rawText,
		HandJSON:      datatypes.JSON(raw),
		ActionCount:   len(h.Actions),
		BlindsApplied: h.BlindsApplied,
		CreatedAtUnix: s.now().UnixMilli(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("insert hand: %w", err)
	}
	return rec.ID, nil
}

// GetHand returns the record and its decoded hand.
func (s *Store) GetHand(ctx context.Context, id string) (HandRecord, hand.ParsedHand, error) {
	var rec HandRecord
	err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return HandRecord{}, hand.ParsedHand{}, ErrNotFound
	}
	if err != nil {
		return HandRecord{}, hand.ParsedHand{}, err
	}
	rec.fillTimes()
	var h hand.ParsedHand
	if err := json.Unmarshal(rec.HandJSON, &h); err != nil {
		return rec, hand.ParsedHand{}, fmt.Errorf("decode hand %s: %w", rec.ID, err)
	}
	return rec, h, nil
}

// ListHands returns records newest first.
func (s *Store) ListHands(ctx context.Context, limit, offset int) ([]HandRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	var recs []HandRecord
	err := s.db.WithContext(ctx).
		Order("created_at DESC").Order("id").
		Limit(limit).Offset(offset).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i].fillTimes()
	}
	return recs, nil
}

// LookupAnalysis implements the vision cache.
func (s *Store) LookupAnalysis(ctx context.Context, key string) (string, []byte, bool, error) {
	var rec AnalysisRecord
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, err
	}
	return rec.HHText, []byte(rec.ParsedJSON), true, nil
}

// SaveAnalysis upserts a cache entry.
func (s *Store) SaveAnalysis(ctx context.Context, key, hhText string, parsed []byte) error {
	now := s.now().UnixMilli()
	rec := AnalysisRecord{
		CacheKey:      key,
		HHText:        hhText,
		ParsedJSON:    datatypes.JSON(parsed),
		CreatedAtUnix: now,
		UpdatedAtUnix: now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"hh_text", "parsed_json", "updated_at"}),
	}).Create(&rec).Error
}
