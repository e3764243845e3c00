package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/virtumart/internal/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	entities := []interface{}{
		&models.User{},
		&models.EmailVerification{},
		&models.ProductCategory{},
		&models.Product{},
		&models.Basket{},
		&models.Order{},
	}
	for _, entity := range entities {
		if err := db.AutoMigrate(entity); err != nil {
			t.Fatalf("failed to migrate %T: %v", entity, err)
		}
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) models.User {
	t.Helper()

	user := models.User{Username: username, Email: email, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, priceID string) models.Product {
	t.Helper()

	product := models.Product{Name: name, Price: price, StripePriceID: priceID}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}
