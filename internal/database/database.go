package database

import (
	"errors"
	"fmt"
	"strings"

	"kefu/config"
	"kefu/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var ErrUnsupportedDSN = errors.New("unsupported database url")

// Dialector picks the gorm driver from the DSN scheme.
func Dialector(dsn string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), nil
	case strings.HasPrefix(dsn, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://")), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:")), nil
	case strings.HasPrefix(dsn, "file:"):
		return sqlite.Open(dsn), nil
	case strings.Contains(dsn, "@tcp("):
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(dsn))
}

// NewDB opens the configured database. It returns (nil, nil) when no
// database is configured so callers can fall back to in-memory stores.
func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	dialector, err := Dialector(cfg.URL())
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Seed inserts the default admin profile and welcome config when absent.
func Seed(db *gorm.DB) error {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(models.DefaultAdmin()).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(models.DefaultWelcomeConfig()).Error; err != nil {
		return fmt.Errorf("seed welcome config: %w", err)
	}
	var links int64
	if err := db.Model(&models.ChatLink{}).Count(&links).Error; err != nil {
		return fmt.Errorf("count links: %w", err)
	}
	if links == 0 {
		if err := db.Create(models.DefaultLink()).Error; err != nil {
			return fmt.Errorf("seed link: %w", err)
		}
	}
	return nil
}

// Ping reports whether the database answers.
func Ping(db *gorm.DB) bool {
	if db == nil {
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

func redact(dsn string) string {
	if i := strings.Index(dsn, "@"); i >= 0 {
		if j := strings.Index(dsn, "://"); j >= 0 && j < i {
			return dsn[:j+3] + "***" + dsn[i:]
		}
		return "***" + dsn[i:]
	}
	return dsn
}
