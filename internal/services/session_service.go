package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

// sessionService persists login sessions so that logout can revoke a token
// before it expires.
type sessionService struct {
	db            *gorm.DB
	ttl           time.Duration
	rememberMeTTL time.Duration
}

// NewSessionService creates a new SessionServicer. rememberMeTTL applies to
// logins that ask to be remembered, ttl to all others.
func NewSessionService(db *gorm.DB, ttl, rememberMeTTL time.Duration) SessionServicer {
	return &sessionService{db: db, ttl: ttl, rememberMeTTL: rememberMeTTL}
}

// CreateSession opens a session for the user.
func (s *sessionService) CreateSession(userID string, rememberMe bool, ipAddress, userAgent string) (*models.UserSession, error) {
	ttl := s.ttl
	if rememberMe {
		ttl = s.rememberMeTTL
	}

	session := &models.UserSession{
		UserID:     userID,
		ExpiresAt:  time.Now().Add(ttl),
		RememberMe: rememberMe,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return session, nil
}

// ValidateSession returns the session if it exists for the user and is
// neither revoked nor expired.
func (s *sessionService) ValidateSession(sessionID, userID string) (*models.UserSession, error) {
	if !models.IsValidID(sessionID) {
		return nil, apperrors.ErrSessionExpired
	}

	var session models.UserSession
	err := s.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	if !session.Active(now) {
		return nil, apperrors.ErrSessionExpired
	}

	// Touching last_seen_at is best effort.
	_ = s.db.Model(&session).UpdateColumn("last_seen_at", now).Error
	session.LastSeenAt = &now
	return &session, nil
}

// RevokeSession ends a session. Revoking an already revoked session is a
// no-op.
func (s *sessionService) RevokeSession(sessionID string) error {
	if !models.IsValidID(sessionID) {
		return nil
	}
	err := s.db.Model(&models.UserSession{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", time.Now()).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RevokeUserSessions ends every open session of a user, e.g. after a
// password reset.
func (s *sessionService) RevokeUserSessions(userID string) error {
	err := s.db.Model(&models.UserSession{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
