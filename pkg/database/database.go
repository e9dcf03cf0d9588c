package database

import (
	"fmt"
	"time"

	"homecare-service/internal/model"
	"homecare-service/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	db *gorm.DB
)

// InitDB initializes the database connection
func InitDB(cfg *config.Config) error {
	// Set up GORM logger configuration
	var logLevel logger.LogLevel
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	} else {
		logLevel = logger.Error
	}

	// Override log level if explicitly set in config
	switch cfg.Database.LogLevel {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	}

	// Build DSN from config
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	// Configure Postgres options
	pgConfig := postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	// Configure GORM and open connection. TranslateError lets unique
	// constraint conflicts (the membership rule) surface as
	// gorm.ErrDuplicatedKey instead of a raw pq error.
	var err error
	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool parameters
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	log, _ := zap.NewProduction()

	// Run migrations
	start := time.Now()
	log.Info("Starting database migration...")

	if err := db.AutoMigrate(
		&model.Organization{},
		&model.Person{},
		&model.Location{},
		&model.Membership{},
		&model.CareRelationship{},
		&model.CareArrangement{},
		&model.Assignment24x7{},
		&model.Visit{},
		&model.Task{},
		&model.VisitNote{},
	); err != nil {
		log.Error("Database migration failed", zap.Error(err))
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	log.Info("Database migration completed successfully",
		zap.Duration("duration", time.Since(start)))

	return nil
}

// GetDB returns a reference to the database instance
func GetDB() *gorm.DB {
	return db
}

// AcquireScopeLock takes a Postgres advisory lock scoped to a
// (care_recipient, organization) pair for the remainder of the current
// transaction. The single-24/7-caregiver and single-open-arrangement rules
// are read-peer-set-then-mutate sequences; without this lock two concurrent
// writers on the same scope could both observe an empty peer set and both
// commit, breaking the invariant. The lock serializes only writers that
// contend on the same scope and releases automatically at commit/rollback.
func AcquireScopeLock(tx *gorm.DB, careRecipientID, organizationID uuid.UUID) error {
	return tx.Exec(
		"SELECT pg_advisory_xact_lock(hashtext(?), hashtext(?))",
		careRecipientID.String(), organizationID.String(),
	).Error
}
