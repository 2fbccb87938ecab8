package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pritamgurung97/Adverts-Nepal/internal/config"
	"github.com/pritamgurung97/Adverts-Nepal/internal/logging"
)

// Open connects to the database selected by cfg.Driver and verifies the
// connection with a ping.
func Open(cfg config.DB, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		// foreign keys are off by default in sqlite; comment cascades depend on them
		dialector = sqlite.Open(cfg.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
		log.WithField("path", cfg.Path).Info("opening sqlite database")
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
		log.WithFields(logrus.Fields{
			"host": cfg.Host, "db": cfg.Name, "user": cfg.User, "port": cfg.Port, "sslmode": cfg.SSLMode,
		}).Info("connecting to postgres")
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.GormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

// Migrate creates any missing tables, columns and indexes for models.
func Migrate(db *gorm.DB, log logrus.FieldLogger, models ...interface{}) error {
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	log.Info("running AutoMigrate")
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("migrations complete")
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
