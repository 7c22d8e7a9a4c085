package database

import (
	"fmt"
	"time"

	"asset-catalog/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to postgres, retrying while the database comes up.
func Open(dsn string, maxAttempts int, log *zap.Logger) (*gorm.DB, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to database", zap.Int("attempt", i), zap.Int("max_attempts", maxAttempts))

		db, err = gorm.Open(postgres.Open(dsn), Config())
		if err == nil {
			log.Info("connected to database")
			return db, nil
		}

		log.Warn("failed to connect to database", zap.Error(err))
		if i < maxAttempts {
			time.Sleep(2 * time.Second)
		}
	}

	return nil, fmt.Errorf("failed to connect to db after %d attempts: %w", maxAttempts, err)
}

// Config is the gorm configuration shared by every dialect. TranslateError maps
// unique-index violations to gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// Migrate creates or updates every table owned by the catalog.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Organization{},
		&models.AssetType{},
		&models.AssetTypeField{},
		&models.FlexibleAsset{},
		&models.EquipmentModel{},
		&models.Asset{},
		&models.NetworkPortConfiguration{},
		&models.Relationship{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
