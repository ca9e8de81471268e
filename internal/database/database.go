package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/phishaware/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize creates and configures the database connection
func Initialize() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Fallback to individual components
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "postgres")
		password := getEnvOrDefault("DB_PASSWORD", "")
		dbname := getEnvOrDefault("DB_NAME", "phishaware")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	gormLogger := logger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	log.Println("Database connected successfully")

	return nil
}

// Migrate runs auto-migration for all models
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	// Enable UUID generation for PostgreSQL
	err := DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
	if err != nil {
		log.Printf("Warning: Could not create uuid-ossp extension: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Admin{},
		&models.Campaign{},
		&models.Employee{},
		&models.Enrollment{},
		&models.ClickEvent{},
		&models.QuizResult{},
		&models.RiskScore{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// createIndexes creates performance indexes beyond what the model tags declare
func createIndexes() error {
	// Token lookups are the hot path for the public tracking endpoint
	DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_tracking_token ON enrollments (tracking_token)")

	// One primary click per enrollment, enforced at the data layer
	DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_click_events_enrollment ON click_events (enrollment_id)")
	DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_quiz_results_enrollment ON quiz_results (enrollment_id)")
	DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_risk_scores_enrollment ON risk_scores (enrollment_id)")

	// Campaign rollups
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_enrollments_campaign ON enrollments (campaign_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_risk_scores_campaign ON risk_scores (campaign_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_employees_department ON employees (department)")

	// Audit queries by admin and time
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_audit_logs_admin_created ON audit_logs (admin_id, created_at DESC)")

	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
