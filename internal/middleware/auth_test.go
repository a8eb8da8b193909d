package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"nurture/internal/config"
	"nurture/internal/services"
	"nurture/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{JWTSecret: "middleware-test-secret"})
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseBody(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %v", body)
	}
	code, _ := errObj["code"].(string)
	return code
}

func setupAuthRouter(t *testing.T) (*gin.Engine, services.SessionServicer, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	sessions := services.NewSessionService(db, time.Hour, time.Hour)

	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(AuthMiddleware(sessions))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "session_id": SessionID(c)})
	})
	return r, sessions, user.ID
}

func TestAuthMiddleware(t *testing.T) {
	r, sessions, userID := setupAuthRouter(t)
	session, err := sessions.CreateSession(userID, false, "", "")
	testutil.AssertNoError(t, err)
	token, err := GenerateSessionToken(userID, session.ID, session.ExpiresAt)
	testutil.AssertNoError(t, err)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := parseBody(t, rec)
		if body["user_id"] != userID || body["session_id"] != session.ID {
			t.Errorf("unexpected identity in context: %v", body)
		}
	})

	t.Run("bearer_header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("missing_token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", http.NoBody))

		if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "UNAUTHORIZED" {
			t.Errorf("expected 401 UNAUTHORIZED, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("tampered_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("revoked_session", func(t *testing.T) {
		testutil.AssertNoError(t, sessions.RevokeSession(session.ID))

		req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "SESSION_EXPIRED" {
			t.Errorf("expected 401 SESSION_EXPIRED, got %d %s", rec.Code, rec.Body.String())
		}
	})
}

func TestParseSessionToken(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		token, err := GenerateSessionToken("user-1", "session-1", time.Now().Add(time.Hour))
		testutil.AssertNoError(t, err)

		claims, err := ParseSessionToken(token)
		testutil.AssertNoError(t, err)
		if claims.UserID != "user-1" || claims.SessionID != "session-1" {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("expired", func(t *testing.T) {
		token, _ := GenerateSessionToken("user-1", "session-1", time.Now().Add(-time.Minute))
		if _, err := ParseSessionToken(token); err == nil {
			t.Error("expected expired token to be rejected")
		}
	})

	t.Run("other_secret", func(t *testing.T) {
		token, _ := GenerateSessionToken("user-1", "session-1", time.Now().Add(time.Hour))
		config.Set(&config.Config{JWTSecret: "rotated"})
		defer config.Set(&config.Config{JWTSecret: "middleware-test-secret"})

		if _, err := ParseSessionToken(token); err == nil {
			t.Error("expected token signed with another key to be rejected")
		}
	})
}
