package services

import (
	"testing"
	"time"

	"accana-api/utils"
)

func TestEmitValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	if _, err := svc.Emit("", "something happened", "info", nil); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("empty recipient should be a validation error, got %v", err)
	}
	if _, err := svc.Emit("u1", "  ", "info", nil); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("empty message should be a validation error, got %v", err)
	}

	n, err := svc.Emit("u1", "submission approved", "", nil)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if n.Type != "info" {
		t.Errorf("missing type should default to info, got %q", n.Type)
	}
	if n.IsRead {
		t.Errorf("notifications must start unread")
	}
}

func TestNotificationsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	older, err := svc.Emit("u1", "first", "info", nil)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if err := db.Model(older).Update("create_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("failed to backdate: %v", err)
	}
	newer, err := svc.Emit("u1", "second", "info", nil)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	listed, err := svc.ListFor("u1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 2 || listed[0].NotificationID != newer.NotificationID {
		t.Errorf("expected newest first, got %+v", listed)
	}
}

func TestMarkAllReadAndClearRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	for _, msg := range []string{"one", "two"} {
		if _, err := svc.Emit("u1", msg, "info", nil); err != nil {
			t.Fatalf("emit failed: %v", err)
		}
	}
	if _, err := svc.Emit("u2", "other user", "info", nil); err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if err := svc.MarkAllRead("u1"); err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	count, err := svc.UnreadCount("u1")
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected zero unread, got %d", count)
	}

	// A later notification stays unread; clearing removes only read rows.
	if _, err := svc.Emit("u1", "three", "info", nil); err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if err := svc.ClearRead("u1"); err != nil {
		t.Fatalf("clear read failed: %v", err)
	}

	remaining, err := svc.ListFor("u1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Message != "three" {
		t.Errorf("only unread rows should survive the clear: %+v", remaining)
	}

	// Other recipients are untouched.
	otherCount, err := svc.UnreadCount("u2")
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if otherCount != 1 {
		t.Errorf("other recipient's notifications were disturbed, unread=%d", otherCount)
	}

	// Clearing with nothing read is a no-op.
	if err := svc.ClearRead("u1"); err != nil {
		t.Errorf("empty clear should be a no-op, got %v", err)
	}
}
