package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"routeros-panel-api/config"
	"routeros-panel-api/models"
	"routeros-panel-api/services"
)

// newNotificationRouter wires the notification endpoints against a throwaway
// database, without the auth middleware.
func newNotificationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	config.DB = db
	UseNotificationPipeline(services.NewNotificationService(db, nil), nil, nil)

	r := gin.New()
	r.GET("/notifications", GetNotifications)
	r.GET("/notifications/unread-count", GetUnreadCount)
	r.POST("/notifications", CreateNotification)
	r.PATCH("/notifications/:id/read", MarkNotificationRead)
	r.POST("/notifications/mark-all-read", MarkAllNotificationsRead)
	r.POST("/notifications/clear-all", ClearAllNotifications)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNotificationLifecycleEndpoints(t *testing.T) {
	r := newNotificationRouter(t)

	// Create three chat notifications.
	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodPost, "/notifications", gin.H{
			"type":    models.NotificationTypeClientChat,
			"message": "hello from client",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, r, http.MethodGet, "/notifications/unread-count", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unread-count returned %d", w.Code)
	}
	var countResp struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &countResp); err != nil {
		t.Fatalf("failed to decode count: %v", err)
	}
	if countResp.UnreadCount != 3 {
		t.Fatalf("unread count = %d, want 3", countResp.UnreadCount)
	}

	// Mark one read via its id from the list.
	w = doJSON(t, r, http.MethodGet, "/notifications", nil)
	var listResp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listResp.Notifications) != 3 {
		t.Fatalf("list returned %d rows, want 3", len(listResp.Notifications))
	}

	w = doJSON(t, r, http.MethodPatch, "/notifications/"+listResp.Notifications[0].NotificationID+"/read", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("mark read returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/notifications?unread=1", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode unread list: %v", err)
	}
	if len(listResp.Notifications) != 2 {
		t.Fatalf("unread list returned %d rows, want 2", len(listResp.Notifications))
	}

	// Mark all, then clear all.
	if w := doJSON(t, r, http.MethodPost, "/notifications/mark-all-read", nil); w.Code != http.StatusOK {
		t.Fatalf("mark-all-read returned %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/notifications/unread-count", nil); w.Code != http.StatusOK {
		t.Fatalf("unread-count returned %d", w.Code)
	} else {
		if err := json.Unmarshal(w.Body.Bytes(), &countResp); err != nil {
			t.Fatalf("failed to decode count: %v", err)
		}
		if countResp.UnreadCount != 0 {
			t.Fatalf("unread count after mark-all = %d, want 0", countResp.UnreadCount)
		}
	}

	if w := doJSON(t, r, http.MethodPost, "/notifications/clear-all", nil); w.Code != http.StatusOK {
		t.Fatalf("clear-all returned %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/notifications", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listResp.Notifications) != 0 {
		t.Fatalf("expected empty list after clear-all, got %d", len(listResp.Notifications))
	}
}

func TestCreateNotificationRejectsGeneratorTypes(t *testing.T) {
	r := newNotificationRouter(t)

	w := doJSON(t, r, http.MethodPost, "/notifications", gin.H{
		"type":    models.NotificationTypePPPoEExpired,
		"message": "forged",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for generator-owned type, got %d", w.Code)
	}
}

func TestMarkUnknownNotificationReturns404(t *testing.T) {
	r := newNotificationRouter(t)

	w := doJSON(t, r, http.MethodPatch, "/notifications/nope/read", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}
}
