package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"routeros-panel-api/config"
	"routeros-panel-api/models"
)

// Candidate is a notification proposed by a generator before admission.
type Candidate struct {
	Type        string
	Message     string
	EventKey    string // type:routerID:subject; empty for user-created rows
	LinkTo      string
	ContextJSON string
	Telegram    bool // relay via Telegram if the panel-level telegram settings allow
}

// NotificationService owns the notification table: admission (dedup/debounce),
// persistence and the best-effort relays. Its lifetime is the process; the
// in-memory notification list of the old panel became queries against the store.
type NotificationService struct {
	db       *gorm.DB
	telegram *TelegramService
	now      func() time.Time
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB, telegram *TelegramService) *NotificationService {
	if db == nil {
		db = config.DB
	}
	if telegram == nil {
		telegram = NewTelegramService(nil)
	}
	return &NotificationService{db: db, telegram: telegram, now: time.Now}
}

// admit applies the two admission checks from the debounce design. Identity is
// the explicit event key, never the display text, so copy changes cannot reset
// the debounce history. Both checks must pass:
//   - duplicate: no unread notification with the same key may exist;
//   - recency: no notification (read or unread) with the same key may have been
//     created within the debounce window. A candidate landing exactly on the
//     window boundary is still rejected.
func (s *NotificationService) admit(eventKey string, debounce time.Duration) (bool, error) {
	if eventKey == "" {
		return true, nil
	}

	var unread int64
	if err := s.db.Model(&models.Notification{}).
		Where("event_key = ? AND is_read = ?", eventKey, false).
		Count(&unread).Error; err != nil {
		return false, fmt.Errorf("duplicate check failed: %w", err)
	}
	if unread > 0 {
		return false, nil
	}

	if debounce > 0 {
		cutoff := s.now().Add(-debounce)
		var recent int64
		if err := s.db.Model(&models.Notification{}).
			Where("event_key = ? AND create_at >= ?", eventKey, cutoff).
			Count(&recent).Error; err != nil {
			return false, fmt.Errorf("recency check failed: %w", err)
		}
		if recent > 0 {
			return false, nil
		}
	}
	return true, nil
}

// Emit runs a candidate through admission and, if admitted, persists it and
// fires the relays. The bool reports whether a row was created. Relay failures
// are logged and never roll back the persisted notification; the contract for
// the whole sink is at-most-once, best-effort.
func (s *NotificationService) Emit(ctx context.Context, c Candidate, settings *models.PanelSettings) (bool, error) {
	ns := settings.Notification()
	ok, err := s.admit(c.EventKey, time.Duration(ns.DebounceMinutes)*time.Minute)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	n := models.Notification{
		NotificationID: uuid.NewString(),
		Type:           c.Type,
		Message:        c.Message,
		EventKey:       c.EventKey,
		LinkTo:         c.LinkTo,
		ContextJSON:    c.ContextJSON,
		CreateAt:       s.now(),
	}
	if err := s.db.Create(&n).Error; err != nil {
		// Dropped, not retried: the worst outcome is a missed notification.
		log.Printf("Failed to persist notification %s: %v", c.EventKey, err)
		return false, err
	}

	s.relay(ctx, c, settings)
	return true, nil
}

// relay fans the message text out to the optional side channels. Each channel
// fails independently.
func (s *NotificationService) relay(ctx context.Context, c Candidate, settings *models.PanelSettings) {
	ts := settings.Telegram()
	if c.Telegram && ts.Enabled {
		if err := s.telegram.SendMessage(ctx, ts.BotToken, ts.ChatID, c.Message); err != nil {
			log.Printf("Telegram relay failed for %s: %v", c.EventKey, err)
		}
	}

	if to := strings.TrimSpace(os.Getenv("NOTIFY_EMAIL_TO")); to != "" && config.MailConfigured() {
		if err := config.SendMail([]string{to}, "Panel notification", "<p>"+c.Message+"</p>"); err != nil {
			log.Printf("Email relay failed for %s: %v", c.EventKey, err)
		}
	}
}

// CreateUserNotification stores a user-created row (chat message or manual
// info). It bypasses dedup: user rows carry no event key.
func (s *NotificationService) CreateUserNotification(typ, message, linkTo, contextJSON string) (*models.Notification, error) {
	n := models.Notification{
		NotificationID: uuid.NewString(),
		Type:           typ,
		Message:        message,
		LinkTo:         linkTo,
		ContextJSON:    contextJSON,
		CreateAt:       s.now(),
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &n, nil
}

// List returns notifications newest first. limit <= 0 means no limit.
func (s *NotificationService) List(unreadOnly bool, limit int) ([]models.Notification, error) {
	q := s.db.Model(&models.Notification{}).Order("create_at DESC")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.Notification
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips is_read for a single notification. The transition is
// monotonic; marking an already-read row is a no-op, not an error.
func (s *NotificationService) MarkRead(id string) error {
	now := s.now()
	res := s.db.Model(&models.Notification{}).
		Where("notification_id = ?", id).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead flips is_read on every unread row. Message and timestamp are
// untouched.
func (s *NotificationService) MarkAllRead() error {
	now := s.now()
	err := s.db.Model(&models.Notification{}).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "update_at": now}).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// ClearAll is the only bulk delete the notification table has.
func (s *NotificationService) ClearAll() error {
	if err := s.db.Where("1 = 1").Delete(&models.Notification{}).Error; err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
