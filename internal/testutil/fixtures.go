package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"nurture/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", nextID()),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPregnancy creates an active pregnancy due in roughly 20 weeks.
func CreateTestPregnancy(t *testing.T, db *gorm.DB, userID string) *models.Pregnancy {
	t.Helper()

	pregnancy := &models.Pregnancy{
		UserID:   userID,
		DueDate:  time.Now().AddDate(0, 0, 140).Truncate(24 * time.Hour),
		IsActive: true,
	}
	if err := db.Create(pregnancy).Error; err != nil {
		t.Fatalf("failed to create test pregnancy: %v", err)
	}
	return pregnancy
}

// CreateTestConsultation creates an open consultation at the given time.
func CreateTestConsultation(t *testing.T, db *gorm.DB, userID, pregnancyID string, at time.Time) *models.Consultation {
	t.Helper()

	c := &models.Consultation{
		UserID:      userID,
		PregnancyID: pregnancyID,
		Title:       fmt.Sprintf("Checkup %d", nextID()),
		Date:        at,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test consultation: %v", err)
	}
	return c
}

// CreateTestPost creates a community post in the "general" category.
func CreateTestPost(t *testing.T, db *gorm.DB, userID string) *models.CommunityPost {
	t.Helper()

	post := &models.CommunityPost{
		UserID:   userID,
		Title:    fmt.Sprintf("Post %d", nextID()),
		Content:  "Hello everyone",
		Category: "general",
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// CreateTestDiaryEntry creates a diary entry dated now.
func CreateTestDiaryEntry(t *testing.T, db *gorm.DB, pregnancyID string) *models.DiaryEntry {
	t.Helper()

	entry := &models.DiaryEntry{
		PregnancyID: pregnancyID,
		Title:       fmt.Sprintf("Day %d", nextID()),
		Content:     "Felt the first kicks",
		Date:        time.Now(),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test diary entry: %v", err)
	}
	return entry
}
