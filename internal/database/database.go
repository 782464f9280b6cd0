package database

import (
	"fmt"

	"example.com/fuelwale/backoffice/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the write connection using the configured DSN
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return open(cfg, cfg.DSN)
}

// ConnectReadOnly opens the read replica connection. When no replica DSN
// is configured it falls back to the write DSN.
func ConnectReadOnly(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.ReadOnlyDSN
	if dsn == "" {
		dsn = cfg.DSN
	}
	return open(cfg, dsn)
}

func open(cfg config.DatabaseConfig, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surface driver errors as gorm sentinels (duplicate key etc.)
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// Close closes the underlying sql connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
