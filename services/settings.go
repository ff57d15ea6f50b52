package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"routeros-panel-api/models"
)

// LoadPanelSettings returns the global settings row, creating it with defaults
// on first use so callers never see a missing record.
func LoadPanelSettings(db *gorm.DB) (*models.PanelSettings, error) {
	var settings models.PanelSettings
	err := db.Order("settings_id ASC").First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load panel settings: %w", err)
	}

	now := time.Now()
	settings = models.PanelSettings{CreateAt: &now, UpdateAt: &now}
	if err := settings.SetNotification(models.DefaultNotificationSettings()); err != nil {
		return nil, err
	}
	if err := settings.SetTelegram(models.TelegramSettings{}); err != nil {
		return nil, err
	}
	if err := db.Create(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create panel settings: %w", err)
	}
	return &settings, nil
}
