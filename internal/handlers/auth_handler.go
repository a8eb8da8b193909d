package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "nurture/internal/errors"
	"nurture/internal/logger"
	"nurture/internal/middleware"
	"nurture/internal/models"
	"nurture/internal/services"
	"nurture/internal/validator"
)

const forgotPasswordMessage = "If an account exists for that email, a reset code has been sent"

// AuthHandler handles registration, login sessions, the profile and the
// password reset flow.
type AuthHandler struct {
	userService         services.UserServicer
	sessionService      services.SessionServicer
	resetService        services.PasswordResetServicer
	notificationService services.NotificationServicer
	auditService        services.AuditServicer
	cookieSecure        bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	userService services.UserServicer,
	sessionService services.SessionServicer,
	resetService services.PasswordResetServicer,
	notificationService services.NotificationServicer,
	auditService services.AuditServicer,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		userService:         userService,
		sessionService:      sessionService,
		resetService:        resetService,
		notificationService: notificationService,
		auditService:        auditService,
		cookieSecure:        cookieSecure,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email     string         `json:"email" binding:"required,email,max=255"`
	Password  string         `json:"password" binding:"required,min=8,max=128"`
	Name      string         `json:"name" binding:"required,notblank,max=100"`
	BirthDate validator.Date `json:"birth_date" swaggertype:"string" example:"1992-04-01"`
}

// Validate implements validator.SelfValidator.
func (r *RegisterRequest) Validate(errs validator.FieldErrors) {
	validator.CheckDate(errs, "birth_date", r.BirthDate)
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// UpdateProfileRequest represents a partial profile update. A null
// profile_photo or birth_date clears it.
type UpdateProfileRequest struct {
	Name         *string                    `json:"name" binding:"omitempty,notblank,max=100"`
	ProfilePhoto validator.Optional[string] `json:"profile_photo" swaggertype:"string"`
	BirthDate    validator.Date             `json:"birth_date" swaggertype:"string" example:"1992-04-01"`
}

// Validate implements validator.SelfValidator.
func (r *UpdateProfileRequest) Validate(errs validator.FieldErrors) {
	validator.CheckDate(errs, "birth_date", r.BirthDate)
	validator.MaxLength(errs, "profile_photo", r.ProfilePhoto, 512)
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyResetTokenRequest checks a reset code without consuming it.
type VerifyResetTokenRequest struct {
	Token string `json:"token" binding:"required,len=4,numeric"`
}

// ResetPasswordRequest consumes a reset code and sets a new password.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required,len=4,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// MessageResponse carries a human-readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register handles user registration and signs the new user in.
// @Summary     Register a new user
// @Description Register a new user with email and password and start a session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and session started"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.Name, req.BirthDate.Ptr())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "REGISTER", "user", user.ID, c.ClientIP(), nil)
	h.startSession(c, http.StatusCreated, user, false)
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and start a session. The session token is
// @Description set as an HttpOnly cookie and also returned in the body.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     429 {object} ErrorResponse "Too many attempts"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "LOGIN", "user", user.ID, c.ClientIP(),
		map[string]any{"remember_me": req.RememberMe})
	h.startSession(c, http.StatusOK, user, req.RememberMe)
}

func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User, rememberMe bool) {
	session, err := h.sessionService.CreateSession(user.ID, rememberMe, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateSessionToken(user.ID, session.ID, session.ExpiresAt)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.setSessionCookie(c, token, int(time.Until(session.ExpiresAt).Seconds()))
	c.JSON(status, AuthResponse{User: *user, Token: token, ExpiresAt: session.ExpiresAt})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, value, maxAge, "/", "", h.cookieSecure, true)
}

// Logout revokes the current session
// @Summary     Logout
// @Description Revoke the current session and clear the session cookie
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SuccessResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.sessionService.RevokeSession(middleware.SessionID(c)); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "LOGOUT", "user", userID, c.ClientIP(), nil)
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// GetProfile returns the user's profile
// @Summary     Get current user
// @Description Get the profile of the authenticated user
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]models.User
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /auth/me [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the user's profile
// @Summary     Update profile
// @Description Update name, profile photo or birth date. Null clears a nullable field.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields to change"
// @Success     200 {object} map[string]models.User
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.ProfileUpdate{
		Name:         req.Name,
		ProfilePhoto: stringField(req.ProfilePhoto),
		BirthDate:    dateField(req.BirthDate),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PROFILE", "user", userID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ForgotPassword issues a reset code
// @Summary     Request a password reset
// @Description Send a 4-digit reset code to the account's notification channel.
// @Description The response is the same whether or not the email is registered.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ForgotPasswordRequest true "Account email"
// @Success     200 {object} MessageResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     429 {object} ErrorResponse "Too many attempts"
// @Router      /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	code, user, err := h.resetService.RequestReset(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if user != nil {
		message := fmt.Sprintf("Your Nurture password reset code is %s. It expires in %d minutes.",
			code, int(services.ResetTokenTTL.Minutes()))
		if !h.notificationService.SendNotificationToUser(c.Request.Context(), user.ID, message) {
			logger.Get().Warnw("password reset code not delivered", "user_id", user.ID)
		}
		h.auditService.Log(user.ID, "REQUEST_PASSWORD_RESET", "user", user.ID, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, MessageResponse{Message: forgotPasswordMessage})
}

// VerifyResetToken checks a reset code
// @Summary     Verify a reset code
// @Description Check that a reset code exists, is unused and has not expired
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body VerifyResetTokenRequest true "Reset code"
// @Success     200 {object} map[string]bool
// @Failure     400 {object} ErrorResponse "Invalid or expired token"
// @Failure     429 {object} ErrorResponse "Too many attempts"
// @Router      /auth/verify-reset-token [post]
func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	var req VerifyResetTokenRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.resetService.VerifyToken(req.Token); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// ResetPassword consumes a reset code
// @Summary     Reset password
// @Description Set a new password with a reset code. Each code works once and
// @Description all existing sessions are revoked.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "Reset code and new password"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid or expired token"
// @Failure     429 {object} ErrorResponse "Too many attempts"
// @Router      /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := h.resetService.ResetPassword(req.Token, req.NewPassword)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RESET_PASSWORD", "user", userID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
