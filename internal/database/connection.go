// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/motorlot/carmarket-backend/internal/config"
	"github.com/motorlot/carmarket-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// gen_random_uuid() lives in pgcrypto on PostgreSQL < 13
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Manufacturer{},
		&models.Dealership{},
		&models.Blueprint{},
		&models.ManufacturingOrder{},
		&models.WholesaleCar{},
		&models.RetailCar{},
		&models.WholesaleDeal{},
		&models.RetailDeal{},
		&models.DealGrant{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_type_status ON users(user_type, status)",

		// Business entity indexes
		"CREATE INDEX IF NOT EXISTS idx_manufacturers_admin ON manufacturers(admin_id)",
		"CREATE INDEX IF NOT EXISTS idx_dealerships_admin ON dealerships(admin_id)",

		// Inventory indexes
		"CREATE INDEX IF NOT EXISTS idx_wholesale_cars_manufacturer ON wholesale_cars(manufacturer_id)",
		"CREATE INDEX IF NOT EXISTS idx_retail_cars_dealership ON retail_cars(dealership_id)",
		"CREATE INDEX IF NOT EXISTS idx_wholesale_cars_available ON wholesale_cars(count) WHERE count > 0",
		"CREATE INDEX IF NOT EXISTS idx_retail_cars_available ON retail_cars(count) WHERE count > 0",

		// Deal indexes
		"CREATE INDEX IF NOT EXISTS idx_wholesale_deals_dealership ON wholesale_deals(dealership_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_wholesale_deals_car ON wholesale_deals(car_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_retail_deals_customer ON retail_deals(customer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_retail_deals_car ON retail_deals(car_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_deal_grants_object ON deal_grants(object_type, object_id)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Listing search
		"CREATE INDEX IF NOT EXISTS idx_wholesale_cars_name_trgm ON wholesale_cars USING GIN(to_tsvector('english', name))",
		"CREATE INDEX IF NOT EXISTS idx_retail_cars_name_trgm ON retail_cars USING GIN(to_tsvector('english', name))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedDemoData creates a small demo marketplace: two manufacturers with
// blueprints and wholesale stock, two dealerships, and a couple of customers
// with spending money. Idempotent; it bails out when any user already exists.
func SeedDemoData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount > 0 {
		return nil
	}

	log.Println("Seeding demo data...")

	type demoAccount struct {
		username string
		email    string
		userType models.UserType
		business string
		country  string
		balance  int64
	}

	accounts := []demoAccount{
		{"nissan_admin", "admin@nissan.example.com", models.UserTypeManufacturerAdmin, "Nissan", "Japan", 1_000_000},
		{"bmw_admin", "admin@bmw.example.com", models.UserTypeManufacturerAdmin, "BMW", "Germany", 1_000_000},
		{"downtown_motors", "admin@downtown.example.com", models.UserTypeDealershipAdmin, "Downtown Motors", "USA", 500_000},
		{"harbor_autos", "admin@harbor.example.com", models.UserTypeDealershipAdmin, "Harbor Autos", "USA", 500_000},
		{"alice", "alice@example.com", models.UserTypeCustomer, "", "", 80_000},
		{"bob", "bob@example.com", models.UserTypeCustomer, "", "", 60_000},
	}

	return WithTransaction(db, func(tx *gorm.DB) error {
		manufacturers := map[string]*models.Manufacturer{}

		for _, acc := range accounts {
			user := &models.User{
				Username: acc.username,
				Email:    acc.email,
				UserType: acc.userType,
				Status:   models.UserStatusActive,
			}
			if acc.userType == models.UserTypeCustomer {
				user.Balance = acc.balance
			}
			if err := user.SetPassword("demo123!"); err != nil {
				return fmt.Errorf("failed to set demo password: %w", err)
			}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("failed to create demo user %s: %w", acc.username, err)
			}

			switch acc.userType {
			case models.UserTypeManufacturerAdmin:
				manufacturer := &models.Manufacturer{
					Name:    acc.business,
					Country: acc.country,
					Balance: acc.balance,
					AdminID: user.ID,
				}
				if err := tx.Create(manufacturer).Error; err != nil {
					return fmt.Errorf("failed to create demo manufacturer: %w", err)
				}
				manufacturers[acc.business] = manufacturer
			case models.UserTypeDealershipAdmin:
				dealership := &models.Dealership{
					Name:    acc.business,
					Country: acc.country,
					Balance: acc.balance,
					AdminID: user.ID,
				}
				if err := tx.Create(dealership).Error; err != nil {
					return fmt.Errorf("failed to create demo dealership: %w", err)
				}
			}
		}

		type demoLine struct {
			manufacturer string
			name         string
			unitPrice    int64
			stock        int64
		}
		lines := []demoLine{
			{"Nissan", "Leaf", 18_000, 25},
			{"Nissan", "Skyline GT-R", 45_000, 8},
			{"BMW", "i4", 32_000, 15},
			{"BMW", "M3", 52_000, 6},
		}

		for _, line := range lines {
			manufacturer := manufacturers[line.manufacturer]
			blueprint := &models.Blueprint{
				Name:           line.name,
				UnitPrice:      line.unitPrice,
				ManufacturerID: manufacturer.ID,
			}
			if err := tx.Create(blueprint).Error; err != nil {
				return fmt.Errorf("failed to create demo blueprint: %w", err)
			}

			car := &models.WholesaleCar{
				Name:           line.name,
				CostPrice:      line.unitPrice,
				WholesalePrice: line.unitPrice,
				Count:          line.stock,
				ManufacturerID: manufacturer.ID,
			}
			if err := tx.Create(car).Error; err != nil {
				return fmt.Errorf("failed to create demo wholesale line: %w", err)
			}
		}

		log.Println("Demo data seeding completed")
		return nil
	})
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
