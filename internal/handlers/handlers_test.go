package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/virtumart/internal/config"
	"github.com/example/virtumart/internal/models"
	"github.com/example/virtumart/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

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

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:           "test-secret",
		TokenExpires:        time.Hour,
		DomainName:          "http://localhost:8080",
		StripeWebhookSecret: "whsec_test",
	}
}

func createUserWithToken(t *testing.T, db *gorm.DB, cfg *config.Config, username string) (models.User, string) {
	t.Helper()

	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.TokenExpires)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return user, token
}

func jsonRequest(t *testing.T, method, target, token string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func performRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	return resp
}
