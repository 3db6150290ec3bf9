package migrations

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/masthead-press/masthead/internal/infrastructure/persistence/postgres/connection"
	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// MigrationRecord tracks the migration history
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null;unique"`
	Version   int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for migration records
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// AutoMigrate creates the schema backing the tabular row store.
func AutoMigrate(db *connection.Database, logger *zap.Logger) error {
	logger.Info("Starting automatic database migration...")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		logger.Error("Failed to create UUID extension", zap.Error(err))
		return fmt.Errorf("failed to create UUID extension: %v", err)
	}

	models := []interface{}{
		&MigrationRecord{},
		&store.RowRecord{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			logger.Error("Migration failed", zap.Error(err))
			return fmt.Errorf("failed to migrate model %T: %v", model, err)
		}
	}

	if err := recordMigration(db.DB, "row_store_base", 1); err != nil {
		return err
	}

	logger.Info("Database migration completed")
	return nil
}

func recordMigration(db *gorm.DB, name string, version int) error {
	record := MigrationRecord{
		Name:      name,
		Version:   version,
		AppliedAt: time.Now().UTC(),
	}
	err := db.Where("name = ?", name).FirstOrCreate(&record).Error
	if err != nil {
		return fmt.Errorf("failed to record migration %s: %v", name, err)
	}
	return nil
}
