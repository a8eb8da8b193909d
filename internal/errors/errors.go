// Package errors provides custom error types for the Nurture API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	"maps"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// Fields carries per-field reasons for validation failures.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	StatusCode int               `json:"-"`
	Internal   error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Fields:     maps.Clone(sentinel.Fields),
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Fields:     maps.Clone(sentinel.Fields),
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithFields creates a new AppError carrying per-field reasons.
func WithFields(sentinel *AppError, fields map[string]string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Fields:     maps.Clone(fields),
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrSessionExpired     = &AppError{Code: "SESSION_EXPIRED", Message: "Session has expired or was revoked", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrInvalidResetToken  = &AppError{Code: "INVALID_RESET_TOKEN", Message: "Invalid or expired reset token", StatusCode: http.StatusBadRequest}
	ErrRateLimited        = &AppError{Code: "RATE_LIMITED", Message: "Too many requests, try again later", StatusCode: http.StatusTooManyRequests}
)

// General errors.
var (
	ErrInvalidInput         = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrValidation           = &AppError{Code: "VALIDATION_FAILED", Message: "One or more fields are invalid", StatusCode: http.StatusBadRequest}
	ErrNotFound             = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer       = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrStorageNotConfigured = &AppError{Code: "STORAGE_NOT_CONFIGURED", Message: "Object storage is not configured", StatusCode: http.StatusServiceUnavailable}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{
		Code:       "DUPLICATE_EMAIL",
		Message:    "A user with this email already exists",
		Fields:     map[string]string{"email": "is already registered"},
		StatusCode: http.StatusConflict,
	}
)

// Pregnancy and tracking errors.
var (
	ErrPregnancyNotFound       = &AppError{Code: "PREGNANCY_NOT_FOUND", Message: "Pregnancy not found", StatusCode: http.StatusNotFound}
	ErrKickCountNotFound       = &AppError{Code: "KICK_COUNT_NOT_FOUND", Message: "Kick count not found", StatusCode: http.StatusNotFound}
	ErrWeightEntryNotFound     = &AppError{Code: "WEIGHT_ENTRY_NOT_FOUND", Message: "Weight entry not found", StatusCode: http.StatusNotFound}
	ErrSymptomNotFound         = &AppError{Code: "SYMPTOM_NOT_FOUND", Message: "Symptom not found", StatusCode: http.StatusNotFound}
	ErrMedicationNotFound      = &AppError{Code: "MEDICATION_NOT_FOUND", Message: "Medication not found", StatusCode: http.StatusNotFound}
	ErrBirthPlanNotFound       = &AppError{Code: "BIRTH_PLAN_NOT_FOUND", Message: "Birth plan not found", StatusCode: http.StatusNotFound}
	ErrConsultationNotFound    = &AppError{Code: "CONSULTATION_NOT_FOUND", Message: "Consultation not found", StatusCode: http.StatusNotFound}
	ErrShoppingItemNotFound    = &AppError{Code: "SHOPPING_ITEM_NOT_FOUND", Message: "Shopping item not found", StatusCode: http.StatusNotFound}
	ErrPhotoNotFound           = &AppError{Code: "PHOTO_NOT_FOUND", Message: "Photo not found", StatusCode: http.StatusNotFound}
	ErrDiaryEntryNotFound      = &AppError{Code: "DIARY_ENTRY_NOT_FOUND", Message: "Diary entry not found", StatusCode: http.StatusNotFound}
	ErrAttachmentNotFound      = &AppError{Code: "ATTACHMENT_NOT_FOUND", Message: "Diary attachment not found", StatusCode: http.StatusNotFound}
	ErrBabyDevelopmentNotFound = &AppError{Code: "BABY_DEVELOPMENT_NOT_FOUND", Message: "No development data for this week", StatusCode: http.StatusNotFound}
)

// Community errors.
var (
	ErrPostNotFound    = &AppError{Code: "POST_NOT_FOUND", Message: "Post not found", StatusCode: http.StatusNotFound}
	ErrCommentNotFound = &AppError{Code: "COMMENT_NOT_FOUND", Message: "Comment not found", StatusCode: http.StatusNotFound}
)
