package models

import (
	"encoding/json"
	"time"
)

// NotificationSettings is read by the generators at the start of every cycle
// and never written by them.
type NotificationSettings struct {
	PPPoEEnabled   bool `json:"pppoe_enabled"`
	DHCPEnabled    bool `json:"dhcp_enabled"`
	NetworkEnabled bool `json:"network_enabled"`
	BilledEnabled  bool `json:"billed_enabled"`

	// Per-event-type Telegram relay flags.
	PPPoETelegram   bool `json:"pppoe_telegram"`
	DHCPTelegram    bool `json:"dhcp_telegram"`
	NetworkTelegram bool `json:"network_telegram"`
	BilledTelegram  bool `json:"billed_telegram"`

	DebounceMinutes          int `json:"debounce_minutes"`
	DHCPNearExpiryHours      int `json:"dhcp_near_expiry_hours"`
	GeneratorIntervalSeconds int `json:"generator_interval_seconds"`
}

type TelegramSettings struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

// DefaultNotificationSettings mirrors the values a fresh panel starts with.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		PPPoEEnabled:             true,
		DHCPEnabled:              true,
		NetworkEnabled:           true,
		BilledEnabled:            true,
		DebounceMinutes:          60,
		DHCPNearExpiryHours:      24,
		GeneratorIntervalSeconds: 30,
	}
}

// PanelSettings is the single global settings row. The notification and
// telegram sub-objects are stored as JSON columns so the frontend can round
// trip them without a schema change per field.
type PanelSettings struct {
	SettingsID       int        `gorm:"primaryKey;column:settings_id" json:"settings_id"`
	NotificationJSON string     `gorm:"column:notification_json" json:"-"`
	TelegramJSON     string     `gorm:"column:telegram_json" json:"-"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
}

func (PanelSettings) TableName() string { return "panel_settings" }

// Notification decodes the notification sub-object, falling back to defaults
// when the column is empty or malformed.
func (p *PanelSettings) Notification() NotificationSettings {
	ns := DefaultNotificationSettings()
	if p.NotificationJSON != "" {
		_ = json.Unmarshal([]byte(p.NotificationJSON), &ns)
	}
	if ns.GeneratorIntervalSeconds <= 0 {
		ns.GeneratorIntervalSeconds = 30
	}
	if ns.DebounceMinutes < 0 {
		ns.DebounceMinutes = 0
	}
	return ns
}

func (p *PanelSettings) Telegram() TelegramSettings {
	var ts TelegramSettings
	if p.TelegramJSON != "" {
		_ = json.Unmarshal([]byte(p.TelegramJSON), &ts)
	}
	return ts
}

func (p *PanelSettings) SetNotification(ns NotificationSettings) error {
	raw, err := json.Marshal(ns)
	if err != nil {
		return err
	}
	p.NotificationJSON = string(raw)
	return nil
}

func (p *PanelSettings) SetTelegram(ts TelegramSettings) error {
	raw, err := json.Marshal(ts)
	if err != nil {
		return err
	}
	p.TelegramJSON = string(raw)
	return nil
}
