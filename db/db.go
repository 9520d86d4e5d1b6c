package db

import (
	"fmt"
	"time"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/logger"
	"github.com/akihiro4321/favefit-sub001/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database. Driver "sqlite" opens Path,
// anything else is treated as postgres.
func Open(c entity.DatabaseConfig) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if c.Debug {
		logLevel = gormlogger.Info
	}
	gormLogger := gormlogger.New(
		zap.NewStdLog(logger.L()),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	var dialector gorm.Dialector
	switch c.Driver {
	case "sqlite":
		dialector = sqlite.Open(c.Path)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
		dialector = postgres.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("Database connection established", "driver", c.Driver)
	return gdb, nil
}

// Migrate creates or updates every table.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to retrieve sql.DB", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing the database connection", "error", err)
	}
}
