package sqlite

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds SQLite connection configuration.
type Config struct {
	Path     string
	LogLevel string
}

// DB wraps a gorm.DB connection.
type DB struct {
	DB *gorm.DB
}

// NewDB opens (and creates if missing) the SQLite database at cfg.Path.
func NewDB(cfg Config) (*DB, error) {
	logLevel := gormlogger.Warn
	if cfg.LogLevel == "info" {
		logLevel = gormlogger.Info
	}

	// _busy_timeout lets concurrent writers queue instead of failing with SQLITE_BUSY.
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", cfg.Path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite allows a single writer; one open connection avoids lock contention.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DB{DB: db}, nil
}
