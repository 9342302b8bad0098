package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// InitDatabase opens the store described by cfg and verifies it with a
// ping. SQLite opens are local file operations and fail fast; postgres
// connections are retried with exponential backoff because the server
// may still be starting.
func InitDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Driver)

	log.WithFields(logrus.Fields{
		"db_driver": driver,
		"db_host":   cfg.Host,
		"db_name":   cfg.Name,
		"db_path":   cfg.Path,
	}).Info("Initializing database connection")

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch driver {
	case "sqlite", "":
		db, err := gorm.Open(sqlite.Open(cfg.DSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database at %s: %w", cfg.Path, err)
		}
		if err := pingAndConfigure(db); err != nil {
			return nil, err
		}
		log.WithField("db_path", cfg.Path).Info("Database initialized successfully")
		return db, nil

	case "postgres", "postgresql":
		return initPostgres(cfg, gormCfg)

	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite)", cfg.Driver)
	}
}

func initPostgres(cfg DatabaseConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	maxRetries := 5
	delay := 1 * time.Second

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.WithFields(logrus.Fields{
			"attempt":     attempt,
			"max_retries": maxRetries,
		}).Info("Attempting database connection")

		var db *gorm.DB
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err == nil {
			if err = pingAndConfigure(db); err == nil {
				log.WithField("attempt", attempt).Info("Database initialized successfully")
				return db, nil
			}
		}

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Database connection attempt failed")

		if attempt < maxRetries {
			time.Sleep(delay)
			delay *= 2
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// pingAndConfigure verifies the connection and sets pool limits.
func pingAndConfigure(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	configureConnectionPool(sqlDB)
	return nil
}

// configureConnectionPool sets up connection pool parameters. The CLI
// is single-caller so the limits are modest.
func configureConnectionPool(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
}
