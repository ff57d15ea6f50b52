package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"routeros-panel-api/config"
	"routeros-panel-api/models"
	"routeros-panel-api/services"
)

type panelSettingsResponse struct {
	Notification models.NotificationSettings `json:"notification_settings"`
	Telegram     models.TelegramSettings     `json:"telegram_settings"`
}

// GetPanelSettings returns the global settings row. The Telegram bot token is
// masked in responses; it is write-only from the API's point of view.
func GetPanelSettings(c *gin.Context) {
	settings, err := services.LoadPanelSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	resp := panelSettingsResponse{
		Notification: settings.Notification(),
		Telegram:     settings.Telegram(),
	}
	if resp.Telegram.BotToken != "" {
		resp.Telegram.BotToken = "********"
	}

	c.JSON(http.StatusOK, resp)
}

type updatePanelSettingsRequest struct {
	Notification *models.NotificationSettings `json:"notification_settings"`
	Telegram     *models.TelegramSettings     `json:"telegram_settings"`
}

// UpdatePanelSettings replaces the provided sub-objects. Omitted sub-objects
// are left untouched; an omitted or masked bot token keeps the stored one.
func UpdatePanelSettings(c *gin.Context) {
	var req updatePanelSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := services.LoadPanelSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	if req.Notification != nil {
		ns := *req.Notification
		if ns.GeneratorIntervalSeconds <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "generator_interval_seconds must be positive"})
			return
		}
		if ns.DebounceMinutes < 0 || ns.DHCPNearExpiryHours < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "debounce and near-expiry values must not be negative"})
			return
		}
		if err := settings.SetNotification(ns); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode settings"})
			return
		}
	}

	if req.Telegram != nil {
		ts := *req.Telegram
		if ts.BotToken == "" || ts.BotToken == "********" {
			ts.BotToken = settings.Telegram().BotToken
		}
		if err := settings.SetTelegram(ts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode settings"})
			return
		}
	}

	now := time.Now()
	settings.UpdateAt = &now
	if err := config.DB.Save(settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}
