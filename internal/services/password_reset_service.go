package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
)

const (
	// ResetTokenTTL is how long an issued reset code stays usable.
	ResetTokenTTL = time.Hour

	resetCodeDigits      = 4
	resetCodeMaxAttempts = 20
)

// passwordResetService issues and consumes password reset codes.
type passwordResetService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPasswordResetService creates a new PasswordResetServicer.
func NewPasswordResetService(db *gorm.DB) PasswordResetServicer {
	return &passwordResetService{db: db, now: time.Now}
}

// HashToken returns the SHA-256 hex digest of a token string.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// RequestReset issues a reset code for the user with this email. Unknown
// emails return an empty code and a nil user so callers can answer
// identically either way. Older pending codes of the user are invalidated.
func (s *passwordResetService) RequestReset(email string) (string, *models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, nil
		}
		return "", nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	var code string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PasswordResetToken{}).
			Where("user_id = ? AND consumed_at IS NULL", user.ID).
			Update("consumed_at", now).Error; err != nil {
			return err
		}

		// Codes are short, so avoid handing out one that is live for
		// another user.
		for attempt := 0; attempt < resetCodeMaxAttempts; attempt++ {
			candidate, err := generateResetCode()
			if err != nil {
				return err
			}
			var live int64
			if err := tx.Model(&models.PasswordResetToken{}).
				Where("token_hash = ? AND consumed_at IS NULL AND expires_at > ?", HashToken(candidate), now).
				Count(&live).Error; err != nil {
				return err
			}
			if live == 0 {
				code = candidate
				break
			}
		}
		if code == "" {
			return fmt.Errorf("no free reset code after %d attempts", resetCodeMaxAttempts)
		}

		return tx.Create(&models.PasswordResetToken{
			UserID:    user.ID,
			TokenHash: HashToken(code),
			ExpiresAt: now.Add(ResetTokenTTL),
		}).Error
	})
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return code, &user, nil
}

// VerifyToken checks that a code is live without consuming it.
func (s *passwordResetService) VerifyToken(code string) error {
	_, err := s.findLive(s.db, code)
	return err
}

// ResetPassword consumes a live code and stores the new password hash. The
// consume is a conditional update, so of two concurrent resets with the same
// code exactly one succeeds. All of the user's sessions are revoked.
func (s *passwordResetService) ResetPassword(code, newPassword string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var userID string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		token, err := s.findLive(tx, code)
		if err != nil {
			return err
		}

		now := s.now()
		result := tx.Model(&models.PasswordResetToken{}).
			Where("id = ? AND consumed_at IS NULL", token.ID).
			Update("consumed_at", now)
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected != 1 {
			return apperrors.ErrInvalidResetToken
		}

		if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).
			Update("password", string(hashed)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&models.UserSession{}).
			Where("user_id = ? AND revoked_at IS NULL", token.UserID).
			Update("revoked_at", now).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		userID = token.UserID
		return nil
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *passwordResetService) findLive(db *gorm.DB, code string) (*models.PasswordResetToken, error) {
	if !isResetCode(code) {
		return nil, apperrors.ErrInvalidResetToken
	}
	var token models.PasswordResetToken
	err := db.Where("token_hash = ? AND consumed_at IS NULL AND expires_at > ?", HashToken(code), s.now()).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &token, nil
}

func generateResetCode() (string, error) {
	limit := big.NewInt(10000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", resetCodeDigits, n.Int64()), nil
}

func isResetCode(code string) bool {
	if len(code) != resetCodeDigits {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
