// Package runstore persists pipeline run history in SQLite for
// downstream reporting.
package runstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RunRecord is one pipeline execution.
type RunRecord struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	StartedAt   time.Time `gorm:"index" json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	SymbolCount int       `json:"symbol_count"`
	Approved    bool      `json:"approved"`
	Live        bool      `json:"live"`
	Error       string    `json:"error,omitempty"`

	// Forecasts holds the full map[base][]float64 forecast payload.
	Forecasts datatypes.JSON `json:"forecasts,omitempty"`
}

func (RunRecord) TableName() string { return "runs" }

// DecisionRecord is one symbol's outcome within a run.
type DecisionRecord struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID       string  `gorm:"index;size:64" json:"run_id"`
	Symbol      string  `gorm:"size:32" json:"symbol"`
	Action      string  `gorm:"size:8" json:"action"`
	Metric      float64 `json:"metric"`
	OrderStatus string  `gorm:"size:16" json:"order_status,omitempty"`
}

func (DecisionRecord) TableName() string { return "run_decisions" }

// Store implements run-history storage using Gorm + SQLite.
type Store struct {
	db *gorm.DB
}

func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("run store path cannot be empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&RunRecord{}, &DecisionRecord{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL: allow a small amount of parallelism for concurrent HTTP
	// reads while keeping lock contention low.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

// SaveRun writes the run and its decision rows in one transaction.
func (s *Store) SaveRun(ctx context.Context, run *RunRecord, decisions []DecisionRecord) error {
	if run == nil {
		return fmt.Errorf("run record cannot be nil")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("saving run %s: %w", run.ID, err)
		}
		for i := range decisions {
			decisions[i].RunID = run.ID
		}
		if len(decisions) > 0 {
			if err := tx.CreateInBatches(decisions, 200).Error; err != nil {
				return fmt.Errorf("saving decisions for run %s: %w", run.ID, err)
			}
		}
		return nil
	})
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []RunRecord
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun returns one run with its decision rows.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, []DecisionRecord, error) {
	var run RunRecord
	if err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	var decisions []DecisionRecord
	if err := s.db.WithContext(ctx).
		Where("run_id = ?", id).
		Order("symbol ASC").
		Find(&decisions).Error; err != nil {
		return nil, nil, err
	}
	return &run, decisions, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
