// Package db opens the relational store behind the user repository.
package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"usergate/internal/model"
)

// Open connects to the store selected by driver: sqlite, mysql or postgres.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "", "sqlite", "sqlite3":
		return NewSQLite(dsn)
	case "mysql":
		return NewMySQL(dsn)
	case "postgres", "postgresql":
		return NewPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates the user table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}
