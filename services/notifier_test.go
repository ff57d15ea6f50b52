package services

import (
	"context"
	"testing"
	"time"

	"routeros-panel-api/models"
)

func testCandidate(key string) Candidate {
	return Candidate{
		Type:     models.NotificationTypePPPoEExpired,
		Message:  "PPPoE secret \"alice\" on router lab has expired",
		EventKey: key,
		LinkTo:   "pppoe",
	}
}

func TestEmitRejectsUnreadDuplicate(t *testing.T) {
	db := newTestDB(t)
	ns := models.DefaultNotificationSettings()
	ns.DebounceMinutes = 0
	settings := seedSettings(t, db, ns)

	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	created, err := svc.Emit(ctx, testCandidate("pppoe-expired:1:alice"), settings)
	if err != nil {
		t.Fatalf("first emit failed: %v", err)
	}
	if !created {
		t.Fatal("expected first emit to create a notification")
	}

	// Same key while the first row is unread: rejected regardless of age.
	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	created, err = svc.Emit(ctx, testCandidate("pppoe-expired:1:alice"), settings)
	if err != nil {
		t.Fatalf("second emit failed: %v", err)
	}
	if created {
		t.Fatal("expected duplicate of unread notification to be rejected")
	}

	count, err := svc.UnreadCount()
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread notification, got %d", count)
	}
}

func TestEmitRecencyBoundary(t *testing.T) {
	db := newTestDB(t)
	ns := models.DefaultNotificationSettings()
	ns.DebounceMinutes = 60
	settings := seedSettings(t, db, ns)

	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	if created, err := svc.Emit(ctx, testCandidate("network:2:wan1"), settings); err != nil || !created {
		t.Fatalf("seed emit: created=%v err=%v", created, err)
	}

	// Read rows still debounce inside the window.
	if err := svc.MarkAllRead(); err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}

	// Exactly at the window boundary: still rejected.
	svc.now = func() time.Time { return base.Add(60 * time.Minute) }
	created, err := svc.Emit(ctx, testCandidate("network:2:wan1"), settings)
	if err != nil {
		t.Fatalf("boundary emit failed: %v", err)
	}
	if created {
		t.Fatal("expected candidate at the debounce boundary to be rejected")
	}

	// Strictly past the window: admitted.
	svc.now = func() time.Time { return base.Add(60*time.Minute + time.Second) }
	created, err = svc.Emit(ctx, testCandidate("network:2:wan1"), settings)
	if err != nil {
		t.Fatalf("post-window emit failed: %v", err)
	}
	if !created {
		t.Fatal("expected candidate past the debounce window to be admitted")
	}
}

func TestEmitDifferentKeysDoNotInterfere(t *testing.T) {
	db := newTestDB(t)
	settings := seedSettings(t, db, models.DefaultNotificationSettings())

	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	if created, _ := svc.Emit(ctx, testCandidate("pppoe-expired:1:alice"), settings); !created {
		t.Fatal("expected alice notification")
	}
	c := testCandidate("pppoe-expired:1:bob")
	c.Message = "PPPoE secret \"bob\" on router lab has expired"
	if created, _ := svc.Emit(ctx, c, settings); !created {
		t.Fatal("expected bob notification despite pending alice row")
	}
}

func TestUserNotificationsBypassDedup(t *testing.T) {
	db := newTestDB(t)

	svc := NewNotificationService(db, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateUserNotification(models.NotificationTypeClientChat, "hello", "", ""); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	list, err := svc.List(false, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 identical chat notifications, got %d", len(list))
	}
}

func TestMarkAllReadPreservesRows(t *testing.T) {
	db := newTestDB(t)

	svc := NewNotificationService(db, nil)
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	messages := []string{"one", "two", "three"}
	for _, m := range messages {
		if _, err := svc.CreateUserNotification(models.NotificationTypeInfo, m, "", ""); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	if err := svc.MarkAllRead(); err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}

	count, err := svc.UnreadCount()
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}

	list, err := svc.List(false, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 rows after mark all read, got %d", len(list))
	}
	seen := map[string]bool{}
	for _, n := range list {
		seen[n.Message] = true
		if !n.CreateAt.Equal(base) {
			t.Fatalf("timestamp changed by mark all read: %v", n.CreateAt)
		}
		if !n.IsRead {
			t.Fatalf("row %s still unread", n.Message)
		}
	}
	for _, m := range messages {
		if !seen[m] {
			t.Fatalf("message %q lost by mark all read", m)
		}
	}
}

func TestMarkReadAndClearAll(t *testing.T) {
	db := newTestDB(t)

	svc := NewNotificationService(db, nil)

	n, err := svc.CreateUserNotification(models.NotificationTypeInfo, "solo", "", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.MarkRead(n.NotificationID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	// Marking an already-read row is a no-op, not an error.
	if err := svc.MarkRead(n.NotificationID); err != nil {
		t.Fatalf("second mark read failed: %v", err)
	}
	if err := svc.MarkRead("missing-id"); err == nil {
		t.Fatal("expected error for unknown notification id")
	}

	if err := svc.ClearAll(); err != nil {
		t.Fatalf("clear all failed: %v", err)
	}
	list, err := svc.List(false, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty table after clear all, got %d rows", len(list))
	}
}
