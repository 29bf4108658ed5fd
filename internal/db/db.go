package db

import (
	"fmt"
	"log/slog"
	"strings"

	"modlink/internal/models"

	"github.com/glebarez/sqlite"
	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
	DriverNone     = "none"
)

// Local defaults when no DSN is configured.
const (
	defaultPostgresDSN = "host=localhost user=postgres password=postgres dbname=modlink port=5432 sslmode=disable TimeZone=UTC"
	defaultSqliteDSN   = "modlink.sqlite"
)

// Open connects to the configured database and migrates the ledger tables.
func Open(driver, dsn string, logger *slog.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var dial gorm.Dialector
	switch strings.ToLower(driver) {
	case DriverPostgres:
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
		dial = postgres.Open(dsn)
	case DriverSqlite, "":
		if dsn == "" {
			dsn = defaultSqliteDSN
		}
		dial = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gdb, err := gorm.Open(dial, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 slogGorm.New(slogGorm.WithLogger(logger)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("database connection established", "driver", driver)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	logger.Info("database migration completed")
	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.Content{},
		&models.Report{},
		&models.Vote{},
		&models.Guideline{},
		&models.User{},
		&models.ReputationLog{},
		&models.Counter{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
