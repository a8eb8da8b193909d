package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "nurture/internal/errors"
	"nurture/internal/middleware"
	"nurture/internal/models"
	"nurture/internal/services"
)

// --- mock services ---

type mockUserService struct {
	createUserFn     func(email, password, name string, birthDate *time.Time) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id string) (*models.User, error)
	attemptLoginFn   func(email, password string) (*models.User, error)
	updateProfileFn  func(userID string, in services.ProfileUpdate) (*models.User, error)
}

var _ services.UserServicer = (*mockUserService)(nil)

func (m *mockUserService) CreateUser(email, password, name string, birthDate *time.Time) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, name, birthDate)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Email: email, Name: name}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) VerifyPassword(_ *models.User, _ string) bool {
	return true
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
}

func (m *mockUserService) UpdateProfile(userID string, in services.ProfileUpdate) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, in)
	}
	return &models.User{Base: models.Base{ID: userID}}, nil
}

type mockSessionService struct {
	created []bool
	revoked []string
	revokeFn func(sessionID string) error
}

var _ services.SessionServicer = (*mockSessionService)(nil)

func (m *mockSessionService) CreateSession(userID string, rememberMe bool, _, _ string) (*models.UserSession, error) {
	m.created = append(m.created, rememberMe)
	ttl := time.Hour
	if rememberMe {
		ttl = 30 * 24 * time.Hour
	}
	return &models.UserSession{
		Base:       models.Base{ID: testSessionID},
		UserID:     userID,
		ExpiresAt:  time.Now().Add(ttl),
		RememberMe: rememberMe,
	}, nil
}

func (m *mockSessionService) ValidateSession(sessionID, userID string) (*models.UserSession, error) {
	return &models.UserSession{Base: models.Base{ID: sessionID}, UserID: userID}, nil
}

func (m *mockSessionService) RevokeSession(sessionID string) error {
	m.revoked = append(m.revoked, sessionID)
	if m.revokeFn != nil {
		return m.revokeFn(sessionID)
	}
	return nil
}

func (m *mockSessionService) RevokeUserSessions(_ string) error {
	return nil
}

type mockResetService struct {
	requestResetFn  func(email string) (string, *models.User, error)
	verifyTokenFn   func(code string) error
	resetPasswordFn func(code, newPassword string) (string, error)
}

var _ services.PasswordResetServicer = (*mockResetService)(nil)

func (m *mockResetService) RequestReset(email string) (string, *models.User, error) {
	if m.requestResetFn != nil {
		return m.requestResetFn(email)
	}
	return "", nil, nil
}

func (m *mockResetService) VerifyToken(code string) error {
	if m.verifyTokenFn != nil {
		return m.verifyTokenFn(code)
	}
	return nil
}

func (m *mockResetService) ResetPassword(code, newPassword string) (string, error) {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(code, newPassword)
	}
	return testUserID, nil
}

type sentMessage struct {
	userID  string
	message string
}

type mockNotificationService struct {
	sent []sentMessage
}

var _ services.NotificationServicer = (*mockNotificationService)(nil)

func (m *mockNotificationService) GetUsersToNotify(_ context.Context, _ time.Time) ([]string, error) {
	return nil, nil
}

func (m *mockNotificationService) SendNotificationToUser(_ context.Context, userID, message string) bool {
	m.sent = append(m.sent, sentMessage{userID: userID, message: message})
	return true
}

func (m *mockNotificationService) GetDueConsultationReminders(_ context.Context, _ time.Time) ([]services.ConsultationReminder, error) {
	return nil, nil
}

func (m *mockNotificationService) ClaimConsultationReminder(_ context.Context, _ string, _ time.Time) (bool, error) {
	return true, nil
}

func (m *mockNotificationService) ReleaseConsultationReminder(_ context.Context, _ string) error {
	return nil
}

// --- helpers ---

type authMocks struct {
	users    *mockUserService
	sessions *mockSessionService
	resets   *mockResetService
	notifier *mockNotificationService
	audit    *mockAuditService
}

func newAuthMocks() *authMocks {
	return &authMocks{
		users:    &mockUserService{},
		sessions: &mockSessionService{},
		resets:   &mockResetService{},
		notifier: &mockNotificationService{},
		audit:    &mockAuditService{},
	}
}

func setupAuthRouter(m *authMocks) *gin.Engine {
	handler := NewAuthHandler(m.users, m.sessions, m.resets, m.notifier, m.audit, false)
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/forgot-password", handler.ForgotPassword)
	r.POST("/auth/verify-reset-token", handler.VerifyResetToken)
	r.POST("/auth/reset-password", handler.ResetPassword)
	r.POST("/auth/logout", injectUserID(testUserID), handler.Logout)
	r.GET("/auth/me", injectUserID(testUserID), handler.GetProfile)
	r.PUT("/auth/profile", injectUserID(testUserID), handler.UpdateProfile)
	return r
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 and starts a session", func(t *testing.T) {
		m := newAuthMocks()
		var gotBirth *time.Time
		m.users.createUserFn = func(email, _, name string, birthDate *time.Time) (*models.User, error) {
			gotBirth = birthDate
			return &models.User{Base: models.Base{ID: testUserID}, Email: email, Name: name}, nil
		}

		rec := doRequest(setupAuthRouter(m), "POST", "/auth/register",
			`{"email":"mum@example.com","password":"password123","name":"Mum","birth_date":"1992-04-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		user := result["user"].(map[string]interface{})
		if user["email"] != "mum@example.com" {
			t.Errorf("expected email in response, got %v", user["email"])
		}
		if _, leaked := user["password"]; leaked {
			t.Error("password must never be serialized")
		}
		token, _ := result["token"].(string)
		claims, err := middleware.ParseSessionToken(token)
		if err != nil {
			t.Fatalf("expected a valid session token: %v", err)
		}
		if claims.UserID != testUserID || claims.SessionID != testSessionID {
			t.Errorf("unexpected claims %+v", claims)
		}
		if gotBirth == nil || gotBirth.Year() != 1992 {
			t.Errorf("expected birth date to be passed through, got %v", gotBirth)
		}
		if !strings.Contains(rec.Header().Get("Set-Cookie"), middleware.SessionCookieName+"=") {
			t.Errorf("expected session cookie, got %q", rec.Header().Get("Set-Cookie"))
		}
	})

	t.Run("returns 400 with every invalid field", func(t *testing.T) {
		m := newAuthMocks()
		rec := doRequest(setupAuthRouter(m), "POST", "/auth/register",
			`{"email":"not-an-email","password":"short","birth_date":"someday"}`)

		assertFieldError(t, rec, "email")
		fields := parseJSON(t, rec)["error"].(map[string]interface{})["fields"].(map[string]interface{})
		for _, f := range []string{"password", "name", "birth_date"} {
			if _, ok := fields[f]; !ok {
				t.Errorf("expected field error for %s, got %v", f, fields)
			}
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		m := newAuthMocks()
		m.users.createUserFn = func(string, string, string, *time.Time) (*models.User, error) {
			return nil, apperrors.ErrDuplicateEmail
		}

		rec := doRequest(setupAuthRouter(m), "POST", "/auth/register",
			`{"email":"dup@example.com","password":"password123","name":"Dup"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with remember me session", func(t *testing.T) {
		m := newAuthMocks()
		rec := doRequest(setupAuthRouter(m), "POST", "/auth/login",
			`{"email":"mum@example.com","password":"password123","remember_me":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(m.sessions.created) != 1 || !m.sessions.created[0] {
			t.Errorf("expected one remember-me session, got %v", m.sessions.created)
		}
		cookie := rec.Header().Get("Set-Cookie")
		if !strings.Contains(cookie, "HttpOnly") || !strings.Contains(cookie, "SameSite=Lax") {
			t.Errorf("expected HttpOnly SameSite=Lax cookie, got %q", cookie)
		}
		if len(m.audit.actions) != 1 || m.audit.actions[0] != "LOGIN" {
			t.Errorf("expected LOGIN audit entry, got %v", m.audit.actions)
		}
	})

	t.Run("returns 401 on invalid credentials", func(t *testing.T) {
		m := newAuthMocks()
		m.users.attemptLoginFn = func(string, string) (*models.User, error) {
			return nil, apperrors.ErrInvalidCredentials
		}

		rec := doRequest(setupAuthRouter(m), "POST", "/auth/login",
			`{"email":"mum@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
		if len(m.sessions.created) != 0 {
			t.Error("no session should be created on failure")
		}
	})

	t.Run("returns 400 on malformed JSON", func(t *testing.T) {
		rec := doRequest(setupAuthRouter(newAuthMocks()), "POST", "/auth/login", `{"email":`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the current session and clears the cookie", func(t *testing.T) {
		m := newAuthMocks()
		rec := doRequest(setupAuthRouter(m), "POST", "/auth/logout", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(m.sessions.revoked) != 1 || m.sessions.revoked[0] != testSessionID {
			t.Errorf("expected session %s revoked, got %v", testSessionID, m.sessions.revoked)
		}
		if !strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0") {
			t.Errorf("expected cookie to be cleared, got %q", rec.Header().Get("Set-Cookie"))
		}
		if parseJSON(t, rec)["success"] != true {
			t.Error("expected success true")
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockSessionService{}, &mockResetService{},
			&mockNotificationService{}, &mockAuditService{}, false)
		r := gin.New()
		r.POST("/auth/logout", handler.Logout)

		rec := doRequest(r, "POST", "/auth/logout", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("me returns the current user", func(t *testing.T) {
		rec := doRequest(setupAuthRouter(newAuthMocks()), "GET", "/auth/me", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != testUserID {
			t.Errorf("expected user %s, got %v", testUserID, user["id"])
		}
	})

	t.Run("null clears while absent keeps", func(t *testing.T) {
		m := newAuthMocks()
		var got services.ProfileUpdate
		m.users.updateProfileFn = func(userID string, in services.ProfileUpdate) (*models.User, error) {
			got = in
			return &models.User{Base: models.Base{ID: userID}}, nil
		}

		rec := doRequest(setupAuthRouter(m), "PUT", "/auth/profile", `{"birth_date":null}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.BirthDate.Set || got.BirthDate.Value != nil {
			t.Errorf("expected birth date to be cleared, got %+v", got.BirthDate)
		}
		if got.ProfilePhoto.Set || got.Name != nil {
			t.Errorf("expected other fields untouched, got %+v", got)
		}
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		rec := doRequest(setupAuthRouter(newAuthMocks()), "PUT", "/auth/profile", `{"name":"   "}`)
		assertFieldError(t, rec, "name")
	})
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	t.Run("forgot password sends the code to known users", func(t *testing.T) {
		m := newAuthMocks()
		m.resets.requestResetFn = func(string) (string, *models.User, error) {
			return "4821", &models.User{Base: models.Base{ID: testUserID}}, nil
		}

		rec := doRequest(setupAuthRouter(m), "POST", "/auth/forgot-password", `{"email":"mum@example.com"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(m.notifier.sent) != 1 || !strings.Contains(m.notifier.sent[0].message, "4821") {
			t.Fatalf("expected the code to be sent, got %v", m.notifier.sent)
		}
		if parseJSON(t, rec)["message"] != forgotPasswordMessage {
			t.Error("expected the generic message")
		}
	})

	t.Run("forgot password looks the same for unknown emails", func(t *testing.T) {
		m := newAuthMocks()
		rec := doRequest(setupAuthRouter(m), "POST", "/auth/forgot-password", `{"email":"nobody@example.com"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(m.notifier.sent) != 0 {
			t.Errorf("expected nothing sent, got %v", m.notifier.sent)
		}
		if parseJSON(t, rec)["message"] != forgotPasswordMessage {
			t.Error("expected the generic message")
		}
	})

	t.Run("verify rejects malformed tokens before the service", func(t *testing.T) {
		m := newAuthMocks()
		called := false
		m.resets.verifyTokenFn = func(string) error {
			called = true
			return nil
		}

		rec := doRequest(setupAuthRouter(m), "POST", "/auth/verify-reset-token", `{"token":"12a4"}`)

		assertFieldError(t, rec, "token")
		if called {
			t.Error("service should not be called for malformed tokens")
		}
	})

	t.Run("verify returns valid", func(t *testing.T) {
		rec := doRequest(setupAuthRouter(newAuthMocks()), "POST", "/auth/verify-reset-token", `{"token":"1234"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["valid"] != true {
			t.Error("expected valid true")
		}
	})

	t.Run("reset maps a used token to 400", func(t *testing.T) {
		m := newAuthMocks()
		m.resets.resetPasswordFn = func(string, string) (string, error) {
			return "", apperrors.ErrInvalidResetToken
		}

		rec := doRequest(setupAuthRouter(m), "POST", "/auth/reset-password",
			`{"token":"1234","new_password":"brand-new-secret"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_RESET_TOKEN")
	})

	t.Run("reset succeeds and is audited", func(t *testing.T) {
		m := newAuthMocks()
		rec := doRequest(setupAuthRouter(m), "POST", "/auth/reset-password",
			`{"token":"1234","new_password":"brand-new-secret"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(m.audit.actions) != 1 || m.audit.actions[0] != "RESET_PASSWORD" {
			t.Errorf("expected RESET_PASSWORD audit entry, got %v", m.audit.actions)
		}
	})
}
