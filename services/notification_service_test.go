package services

import (
	"errors"
	"testing"
	"time"

	"city-report-api/models"
)

func TestNotificationCreateSoftFailsOnMissingUser(t *testing.T) {
	db := setupTestDB(t, t.Name())
	dispatcher := &fakeDispatcher{}
	svc := NewNotificationService(db, dispatcher)

	notification, err := svc.Create(CreateNotificationInput{
		UserID: "ghost", Title: "T", Message: "M",
	})
	if err != nil {
		t.Fatalf("expected soft fail, got error %v", err)
	}
	if notification != nil {
		t.Fatalf("expected nil notification, got %+v", notification)
	}

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	if count != 0 {
		t.Fatalf("soft fail must not write, found %d rows", count)
	}
	if len(dispatcher.calls) != 0 {
		t.Fatalf("soft fail must not dispatch, got %v", dispatcher.calls)
	}
}

func TestNotificationCreatePersistsAndDispatches(t *testing.T) {
	db := setupTestDB(t, t.Name())
	dispatcher := &fakeDispatcher{}
	svc := NewNotificationService(db, dispatcher)
	user := seedUser(t, db, "u@example.com", nil)
	report := seedReport(t, db, user.ID, models.StatusNew)

	notification, err := svc.Create(CreateNotificationInput{
		UserID: user.ID, ReportID: &report.ID, Title: report.Title, Message: "hello",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if notification == nil {
		t.Fatal("expected notification")
	}
	if notification.IsRead {
		t.Fatal("new notification must be unread")
	}
	if notification.Type != models.NotificationGeneralUpdate || notification.Priority != models.NotificationPriorityLow {
		t.Fatalf("unexpected defaults: %s/%s", notification.Type, notification.Priority)
	}
	if notification.Report == nil || notification.Report.ID != report.ID || notification.Report.Title != report.Title {
		t.Fatalf("expected report projection, got %+v", notification.Report)
	}
	if len(dispatcher.calls) != 1 || dispatcher.calls[0] != user.ID {
		t.Fatalf("expected dispatch to user, got %v", dispatcher.calls)
	}
}

func TestNotificationListNewestFirst(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewNotificationService(db, nil)
	user := seedUser(t, db, "u@example.com", nil)
	other := seedUser(t, db, "other@example.com", nil)

	base := time.Now().Add(-time.Hour)
	for i, msg := range []string{"first", "second", "third"} {
		n := models.Notification{UserID: user.ID, Title: "T", Message: msg, Type: "GENERAL_UPDATE", Priority: "LOW", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := db.Create(&n).Error; err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}
	if err := db.Create(&models.Notification{UserID: other.ID, Title: "T", Message: "not mine", Type: "GENERAL_UPDATE", Priority: "LOW"}).Error; err != nil {
		t.Fatalf("seed other notification: %v", err)
	}

	notifications, err := svc.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notifications))
	}
	if notifications[0].Message != "third" || notifications[2].Message != "first" {
		t.Fatalf("expected newest first, got %s..%s", notifications[0].Message, notifications[2].Message)
	}
}

func TestNotificationProjectionSoftRelation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewNotificationService(db, nil)
	user := seedUser(t, db, "u@example.com", nil)

	deletedID := "gone-report"
	if err := db.Create(&models.Notification{UserID: user.ID, ReportID: &deletedID, Title: "T", Message: "M", Type: "GENERAL_UPDATE", Priority: "LOW"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	notifications, err := svc.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].Report != nil {
		t.Fatalf("deleted report must yield nil projection, got %+v", notifications[0].Report)
	}
}

func TestMarkReadNotFound(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewNotificationService(db, nil)

	_, err := svc.MarkRead("missing")
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewNotificationService(db, nil)
	user := seedUser(t, db, "u@example.com", nil)

	n := models.Notification{UserID: user.ID, Title: "T", Message: "M", Type: "GENERAL_UPDATE", Priority: "LOW"}
	if err := db.Create(&n).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.MarkRead(n.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !updated.IsRead {
		t.Fatal("expected is_read true")
	}

	var reloaded models.Notification
	db.Where("id = ?", n.ID).First(&reloaded)
	if !reloaded.IsRead {
		t.Fatal("is_read not persisted")
	}
}

func TestMarkAllReadIdempotent(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewNotificationService(db, nil)
	user := seedUser(t, db, "u@example.com", nil)

	for i := 0; i < 3; i++ {
		if err := db.Create(&models.Notification{UserID: user.ID, Title: "T", Message: "M", Type: "GENERAL_UPDATE", Priority: "LOW"}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	count, err := svc.MarkAllRead(user.ID)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 affected, got %d", count)
	}

	count, err = svc.MarkAllRead(user.ID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if count != 0 {
		t.Fatalf("second call must affect 0, got %d", count)
	}
}
