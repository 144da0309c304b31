package services

import (
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"accana-api/config"
	"accana-api/models"
)

// newTestDB opens an isolated in-memory database with the full schema. The
// DSN is derived from the test name so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := config.MigrateSchema(db); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Password: username + "pass",
		Role:     role,
		CreateAt: time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}
