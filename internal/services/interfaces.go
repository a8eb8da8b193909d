package services

import (
	"context"
	"time"

	"nurture/internal/models"
	"nurture/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string, birthDate *time.Time) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID string, in ProfileUpdate) (*models.User, error)
}

// SessionServicer defines the contract for server-side login sessions.
type SessionServicer interface {
	CreateSession(userID string, rememberMe bool, ipAddress, userAgent string) (*models.UserSession, error)
	ValidateSession(sessionID, userID string) (*models.UserSession, error)
	RevokeSession(sessionID string) error
	RevokeUserSessions(userID string) error
}

// PasswordResetServicer defines the contract for the password reset flow.
type PasswordResetServicer interface {
	RequestReset(email string) (string, *models.User, error)
	VerifyToken(code string) error
	ResetPassword(code, newPassword string) (string, error)
}

// PregnancyServicer defines the contract for pregnancy records.
type PregnancyServicer interface {
	CreatePregnancy(userID string, in PregnancyInput) (*models.Pregnancy, error)
	GetUserPregnancies(userID string) ([]models.Pregnancy, error)
	GetPregnancy(userID, pregnancyID string) (*models.Pregnancy, error)
	GetActivePregnancy(userID string) (*models.Pregnancy, error)
	UpdatePregnancy(userID, pregnancyID string, in PregnancyUpdate) (*models.Pregnancy, error)
	DeactivatePregnancy(userID, pregnancyID string) (*models.Pregnancy, error)
}

// KickCountServicer defines the contract for kick counting sessions.
type KickCountServicer interface {
	CreateKickCount(userID, pregnancyID string, in KickCountInput) (*models.KickCount, error)
	GetKickCounts(userID, pregnancyID string, r DateRange) ([]models.KickCount, error)
	GetTodaysKickCount(userID, pregnancyID string) (int, error)
	DeleteKickCount(userID, kickCountID string) error
}

// WeightServicer defines the contract for weight tracking.
type WeightServicer interface {
	CreateWeightEntry(userID, pregnancyID string, in WeightInput) (*models.WeightEntry, error)
	GetWeightEntries(userID, pregnancyID string, r DateRange) ([]models.WeightEntry, error)
	GetLatestWeight(userID, pregnancyID string) (*models.WeightEntry, error)
	UpdateWeightEntry(userID, entryID string, in WeightUpdate) (*models.WeightEntry, error)
	DeleteWeightEntry(userID, entryID string) error
}

// SymptomServicer defines the contract for symptom tracking.
type SymptomServicer interface {
	CreateSymptom(userID, pregnancyID string, in SymptomInput) (*models.Symptom, error)
	GetSymptoms(userID, pregnancyID string, r DateRange) ([]models.Symptom, error)
	DeleteSymptom(userID, symptomID string) error
}

// MedicationServicer defines the contract for medication tracking.
type MedicationServicer interface {
	CreateMedication(userID, pregnancyID string, in MedicationInput) (*models.Medication, error)
	GetMedications(userID, pregnancyID string, activeOnly bool) ([]models.Medication, error)
	UpdateMedication(userID, medicationID string, in MedicationUpdate) (*models.Medication, error)
	DeleteMedication(userID, medicationID string) error
}

// BirthPlanServicer defines the contract for birth plans.
type BirthPlanServicer interface {
	GetBirthPlan(userID, pregnancyID string) (*models.BirthPlan, error)
	CreateOrUpdateBirthPlan(userID, pregnancyID string, prefs models.BirthPreferences) (*models.BirthPlan, error)
	DeleteBirthPlan(userID, birthPlanID string) error
}

// ConsultationServicer defines the contract for prenatal consultations.
type ConsultationServicer interface {
	CreateConsultation(userID, pregnancyID string, in ConsultationInput) (*models.Consultation, error)
	GetConsultations(userID, pregnancyID string) ([]models.Consultation, error)
	GetUpcomingConsultations(userID, pregnancyID string) ([]models.Consultation, error)
	GetNextConsultation(userID string) (*models.Consultation, error)
	UpdateConsultation(userID, consultationID string, in ConsultationUpdate) (*models.Consultation, error)
	DeleteConsultation(userID, consultationID string) error
}

// ShoppingServicer defines the contract for the shopping list.
type ShoppingServicer interface {
	CreateShoppingItem(userID, pregnancyID string, in ShoppingItemInput) (*models.ShoppingItem, error)
	GetShoppingItems(userID, pregnancyID string) ([]models.ShoppingItem, error)
	UpdateShoppingItem(userID, itemID string, in ShoppingItemUpdate) (*models.ShoppingItem, error)
	DeleteShoppingItem(userID, itemID string) error
}

// PhotoServicer defines the contract for the photo album.
type PhotoServicer interface {
	CreatePhoto(userID, pregnancyID string, in PhotoInput) (*models.Photo, error)
	GetPhotos(userID, pregnancyID string, favoritesOnly bool) ([]models.Photo, error)
	UpdatePhoto(userID, photoID string, in PhotoUpdate) (*models.Photo, error)
	DeletePhoto(userID, photoID string) error
}

// DiaryServicer defines the contract for diary entries and their attachments.
type DiaryServicer interface {
	CreateDiaryEntry(userID, pregnancyID string, in DiaryEntryInput) (*models.DiaryEntry, error)
	GetDiaryEntries(userID, pregnancyID string, r DateRange) ([]models.DiaryEntry, error)
	GetDiaryEntry(userID, entryID string) (*models.DiaryEntry, error)
	UpdateDiaryEntry(userID, entryID string, in DiaryEntryUpdate) (*models.DiaryEntry, error)
	DeleteDiaryEntry(userID, entryID string) error
	AddAttachment(userID, entryID string, in AttachmentInput) (*models.DiaryAttachment, error)
	DeleteAttachment(userID, attachmentID string) error
}

// CommunityServicer defines the contract for the community forum.
type CommunityServicer interface {
	CreatePost(userID string, in PostInput) (*models.CommunityPost, error)
	GetPosts(page pagination.PageRequest, category string) (*pagination.PageResponse[models.CommunityPost], error)
	GetPost(postID string) (*models.CommunityPost, error)
	DeletePost(userID, postID string) error
	LikePost(userID, postID string) (*models.CommunityPost, error)
	UnlikePost(userID, postID string) (*models.CommunityPost, error)
	GetComments(postID string) ([]models.CommunityComment, error)
	AddComment(userID, postID, content string) (*models.CommunityComment, error)
	DeleteComment(userID, commentID string) error
}

// BabyDevelopmentServicer defines the contract for the weekly reference data.
type BabyDevelopmentServicer interface {
	GetByWeek(week int) (*models.BabyDevelopment, error)
	GetAll() ([]models.BabyDevelopment, error)
}

// AnalyticsServicer records client page views and served requests. Both
// calls are fire-and-forget.
type AnalyticsServicer interface {
	RecordPageView(userID string, sessionID *string, page string)
	RecordAccess(entry *models.AccessLog)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}

// ConsultationReminder is a due consultation together with its owner.
type ConsultationReminder struct {
	ConsultationID string
	UserID         string
	Title          string
	Date           time.Time
	Location       *string
}

// NotificationServicer selects who to remind and delivers reminders.
type NotificationServicer interface {
	GetUsersToNotify(ctx context.Context, now time.Time) ([]string, error)
	SendNotificationToUser(ctx context.Context, userID, message string) bool
	GetDueConsultationReminders(ctx context.Context, now time.Time) ([]ConsultationReminder, error)
	ClaimConsultationReminder(ctx context.Context, consultationID string, now time.Time) (bool, error)
	ReleaseConsultationReminder(ctx context.Context, consultationID string) error
}
