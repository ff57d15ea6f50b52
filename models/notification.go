package models

import "time"

// Notification type values.
const (
	NotificationTypePPPoEExpired = "pppoe-expired"
	NotificationTypeClientChat   = "client-chat"
	NotificationTypeInfo         = "info"
)

// Notification rows are immutable after creation except for IsRead, which only
// ever transitions from false to true. Rows are removed by the clear-all bulk
// operation only; there is no automatic expiry.
type Notification struct {
	NotificationID string     `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	Type           string     `gorm:"column:type" json:"type"` // pppoe-expired|client-chat|info
	Message        string     `gorm:"column:message" json:"message"`
	EventKey       string     `gorm:"column:event_key;index" json:"event_key,omitempty"`
	IsRead         bool       `gorm:"column:is_read" json:"is_read"`
	LinkTo         string     `gorm:"column:link_to" json:"link_to,omitempty"`
	ContextJSON    string     `gorm:"column:context_json" json:"context_json,omitempty"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
