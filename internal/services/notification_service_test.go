package services

import (
	"context"
	"errors"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"nurture/internal/metrics"
	"nurture/internal/models"
	"nurture/internal/notifier"
	"nurture/internal/testutil"
)

func TestGetUsersToNotify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewNotificationService(db, notifier.NewRecorder(), time.UTC, nil)
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	visitedToday := testutil.CreateTestUser(t, db)
	visitedYesterday := testutil.CreateTestUser(t, db)
	neverVisited := testutil.CreateTestUser(t, db)

	db.Create(&models.UserAnalytics{UserID: visitedToday.ID, Page: "/dashboard", VisitedAt: now.Add(-time.Hour)})
	db.Create(&models.UserAnalytics{UserID: visitedToday.ID, Page: "/diary", VisitedAt: now.Add(-2 * time.Hour)})
	db.Create(&models.UserAnalytics{UserID: visitedYesterday.ID, Page: "/dashboard", VisitedAt: now.AddDate(0, 0, -1)})

	ids, err := svc.GetUsersToNotify(context.Background(), now)
	testutil.AssertNoError(t, err)

	got := map[string]bool{}
	for _, id := range ids {
		got[id] = true
	}
	if len(ids) != 2 || !got[visitedYesterday.ID] || !got[neverVisited.ID] || got[visitedToday.ID] {
		t.Errorf("expected only users without a visit today, got %v", ids)
	}
}

func TestSendNotificationToUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rec := notifier.NewRecorder()
	rec.FailFor["broken"] = errors.New("mailbox full")
	m, err := metrics.New()
	testutil.AssertNoError(t, err)
	svc := NewNotificationService(db, rec, time.UTC, m)

	if !svc.SendNotificationToUser(context.Background(), "u1", "Time to log today's kicks") {
		t.Error("expected delivery to succeed")
	}
	if svc.SendNotificationToUser(context.Background(), "broken", "hello") {
		t.Error("expected delivery to fail")
	}

	sent := rec.Sent()
	if len(sent) != 1 || sent[0].UserID != "u1" {
		t.Errorf("expected one message to u1, got %+v", sent)
	}
	if n, err := promtestutil.GatherAndCount(m.Registry(), "nurture_notifications_total"); err != nil || n != 2 {
		t.Errorf("expected success and error series, got %d (%v)", n, err)
	}
}

func TestConsultationReminders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewNotificationService(db, notifier.NewRecorder(), time.UTC, nil)
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	user := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)
	due := testutil.CreateTestConsultation(t, db, user.ID, pregnancy.ID, now.Add(3*time.Hour))
	testutil.CreateTestConsultation(t, db, user.ID, pregnancy.ID, now.Add(ConsultationReminderWindow+time.Hour))
	testutil.CreateTestConsultation(t, db, user.ID, pregnancy.ID, now.Add(-time.Hour))
	done := testutil.CreateTestConsultation(t, db, user.ID, pregnancy.ID, now.Add(2*time.Hour))
	db.Model(done).Update("completed", true)

	reminders, err := svc.GetDueConsultationReminders(ctx, now)
	testutil.AssertNoError(t, err)
	if len(reminders) != 1 || reminders[0].ConsultationID != due.ID || reminders[0].UserID != user.ID {
		t.Fatalf("expected only the open consultation inside the window, got %+v", reminders)
	}

	claimed, err := svc.ClaimConsultationReminder(ctx, due.ID, now)
	testutil.AssertNoError(t, err)
	if !claimed {
		t.Fatal("expected the first claim to win")
	}
	claimed, err = svc.ClaimConsultationReminder(ctx, due.ID, now)
	testutil.AssertNoError(t, err)
	if claimed {
		t.Error("expected the second claim to lose")
	}

	reminders, _ = svc.GetDueConsultationReminders(ctx, now)
	if len(reminders) != 0 {
		t.Errorf("claimed reminders must not be listed again, got %d", len(reminders))
	}

	testutil.AssertNoError(t, svc.ReleaseConsultationReminder(ctx, due.ID))
	reminders, _ = svc.GetDueConsultationReminders(ctx, now)
	if len(reminders) != 1 {
		t.Errorf("expected a released reminder to be due again, got %d", len(reminders))
	}
}
