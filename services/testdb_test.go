package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"routeros-panel-api/config"
	"routeros-panel-api/models"
)

// newTestDB opens a throwaway SQLite database with the panel schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// seedSettings writes a settings row with the given notification values.
func seedSettings(t *testing.T, db *gorm.DB, ns models.NotificationSettings) *models.PanelSettings {
	t.Helper()

	now := time.Now()
	settings := models.PanelSettings{CreateAt: &now, UpdateAt: &now}
	if err := settings.SetNotification(ns); err != nil {
		t.Fatalf("failed to encode settings: %v", err)
	}
	if err := settings.SetTelegram(models.TelegramSettings{}); err != nil {
		t.Fatalf("failed to encode telegram settings: %v", err)
	}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
	return &settings
}

// seedRouter registers an enabled router.
func seedRouter(t *testing.T, db *gorm.DB, name string) models.Router {
	t.Helper()

	now := time.Now()
	router := models.Router{
		Name:     name,
		Address:  name + ".example:443",
		Username: "admin",
		Enabled:  true,
		CreateAt: &now,
	}
	if err := db.Create(&router).Error; err != nil {
		t.Fatalf("failed to seed router %s: %v", name, err)
	}
	return router
}
