package services

import (
	"testing"
	"time"

	"nurture/internal/models"
	"nurture/internal/testutil"
)

func TestCreateSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewSessionService(db, time.Hour, 48*time.Hour)
	user := testutil.CreateTestUser(t, db)

	short, err := svc.CreateSession(user.ID, false, "10.0.0.1", "test-agent")
	testutil.AssertNoError(t, err)
	long, err := svc.CreateSession(user.ID, true, "10.0.0.1", "test-agent")
	testutil.AssertNoError(t, err)

	if d := time.Until(short.ExpiresAt); d > time.Hour || d < 59*time.Minute {
		t.Errorf("expected ~1h session, got %v", d)
	}
	if d := time.Until(long.ExpiresAt); d < 47*time.Hour {
		t.Errorf("expected remember-me session of ~48h, got %v", d)
	}
	if !long.RememberMe {
		t.Error("expected remember_me to be recorded")
	}
}

func TestValidateSession(t *testing.T) {
	t.Run("active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewSessionService(db, time.Hour, time.Hour)
		user := testutil.CreateTestUser(t, db)
		session, _ := svc.CreateSession(user.ID, false, "", "")

		got, err := svc.ValidateSession(session.ID, user.ID)
		testutil.AssertNoError(t, err)
		if got.LastSeenAt == nil {
			t.Error("expected last_seen_at to be touched")
		}
	})

	t.Run("revoked", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewSessionService(db, time.Hour, time.Hour)
		user := testutil.CreateTestUser(t, db)
		session, _ := svc.CreateSession(user.ID, false, "", "")

		testutil.AssertNoError(t, svc.RevokeSession(session.ID))
		testutil.AssertNoError(t, svc.RevokeSession(session.ID))

		_, err := svc.ValidateSession(session.ID, user.ID)
		testutil.AssertAppError(t, err, "SESSION_EXPIRED")
	})

	t.Run("expired", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewSessionService(db, time.Hour, time.Hour)
		user := testutil.CreateTestUser(t, db)
		session, _ := svc.CreateSession(user.ID, false, "", "")
		db.Model(&models.UserSession{}).Where("id = ?", session.ID).Update("expires_at", time.Now().Add(-time.Minute))

		_, err := svc.ValidateSession(session.ID, user.ID)
		testutil.AssertAppError(t, err, "SESSION_EXPIRED")
	})

	t.Run("other_users_session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewSessionService(db, time.Hour, time.Hour)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		session, _ := svc.CreateSession(owner.ID, false, "", "")

		_, err := svc.ValidateSession(session.ID, other.ID)
		testutil.AssertAppError(t, err, "SESSION_EXPIRED")
	})
}

func TestRevokeUserSessions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewSessionService(db, time.Hour, time.Hour)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	a, _ := svc.CreateSession(user.ID, false, "", "")
	b, _ := svc.CreateSession(user.ID, true, "", "")
	keep, _ := svc.CreateSession(other.ID, false, "", "")

	testutil.AssertNoError(t, svc.RevokeUserSessions(user.ID))

	for _, s := range []*models.UserSession{a, b} {
		if _, err := svc.ValidateSession(s.ID, user.ID); err == nil {
			t.Errorf("session %s should be revoked", s.ID)
		}
	}
	if _, err := svc.ValidateSession(keep.ID, other.ID); err != nil {
		t.Errorf("other user's session should survive: %v", err)
	}
}
