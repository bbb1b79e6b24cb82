package database

import (
	"fmt"
	"log"

	"github.com/scrapworks/junkshop-api/internal/config"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Business{},
		&entity.BusinessUser{},
		&entity.BusinessInvitation{},
		&entity.Transaction{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the bootstrap owner account and default business
// when configured via environment variables. Safe to run repeatedly.
func SeedDefaultData(db *gorm.DB, defaultBusinessName string) error {
	ownerEmail := viper.GetString("BOOTSTRAP_OWNER_EMAIL")
	ownerPassword := viper.GetString("BOOTSTRAP_OWNER_PASSWORD")
	ownerName := viper.GetString("BOOTSTRAP_OWNER_NAME")

	if ownerEmail == "" || ownerPassword == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("email = ?", ownerEmail).First(&existing).Error; err == nil {
		log.Printf("Bootstrap owner already exists: %s", ownerEmail)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap owner password: %w", err)
	}

	if ownerName == "" {
		ownerName = "Owner"
	}
	firstName := ownerName
	lastName := ""
	for i, c := range ownerName {
		if c == ' ' {
			firstName = ownerName[:i]
			lastName = ownerName[i+1:]
			break
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		owner := entity.User{
			FirstName: firstName,
			LastName:  lastName,
			Email:     ownerEmail,
			Password:  string(hashedPassword),
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		business := entity.Business{
			Name:      defaultBusinessName,
			IsActive:  true,
			CreatedBy: owner.ID,
		}
		if err := tx.Create(&business).Error; err != nil {
			return err
		}

		membership := entity.BusinessUser{
			BusinessID:  business.ID,
			UserID:      owner.ID,
			Role:        enum.RoleOwner,
			Permissions: entity.CapabilitiesForRole(enum.RoleOwner),
			IsActive:    true,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.User{}).Where("id = ?", owner.ID).
			Update("current_business_id", business.ID).Error; err != nil {
			return err
		}

		log.Printf("Bootstrap owner created: %s", ownerEmail)
		return nil
	})
}
