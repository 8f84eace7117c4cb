package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chore-planner/internal/model"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrNotPending = errors.New("occurrence is not pending")
)

// NewDB opens a SQLite database and runs migrations.
func NewDB(dsn string, zl zerolog.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "chore_planner.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(zl.With().Str("component", "gorm").Logger(), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         dbLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite prefers a single writer; it also keeps ":memory:" on one connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.Area{}, &model.Task{}, &model.Occurrence{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	// At most one pending occurrence per task.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_occurrences_one_pending
		ON occurrences(task_id) WHERE status = 'pending'`).Error; err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
