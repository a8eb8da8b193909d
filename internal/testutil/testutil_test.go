package testutil_test

import (
	"testing"

	"nurture/internal/errors"
	"nurture/internal/models"
	"nurture/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var count int64
	for _, table := range []string{
		"users", "user_sessions", "password_reset_tokens", "pregnancies", "kick_counts",
		"weight_entries", "symptoms", "medications", "birth_plans", "consultations",
		"shopping_items", "photos", "diary_entries", "diary_attachments", "community_posts",
		"community_comments", "community_likes", "baby_developments", "access_logs",
		"user_analytics", "audit_logs",
	} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, first)

	second := testutil.SetupTestDB(t)
	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected a fresh database, found %d users", count)
	}
}

func TestActivePregnancyIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	first := testutil.CreateTestPregnancy(t, db, user.ID)

	second := &models.Pregnancy{UserID: user.ID, DueDate: first.DueDate, IsActive: true}
	if err := db.Create(second).Error; err == nil {
		t.Fatal("expected the partial unique index to reject a second active pregnancy")
	}

	inactive := &models.Pregnancy{UserID: user.ID, DueDate: second.DueDate, IsActive: false}
	if err := db.Create(inactive).Error; err != nil {
		t.Fatalf("inactive pregnancies should not conflict: %v", err)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)

	user := testutil.CreateTestUser(t, db)
	if !models.IsValidID(user.ID) {
		t.Fatalf("user should have a UUID, got %q", user.ID)
	}

	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)
	if !pregnancy.IsActive {
		t.Error("fixture pregnancy should be active")
	}

	post := testutil.CreateTestPost(t, db, user.ID)
	if post.Likes != 0 || post.CommentsCount != 0 {
		t.Errorf("new post should have zero counters, got %d/%d", post.Likes, post.CommentsCount)
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrNotFound, "NOT_FOUND")
	testutil.AssertFieldError(t, errors.WithFields(errors.ErrValidation, map[string]string{"weight": "must be a number"}), "weight")
}
