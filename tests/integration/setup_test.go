package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nurture/internal/config"
	"nurture/internal/logger"
	"nurture/internal/notifier"
	"nurture/internal/server"
	"nurture/internal/testutil"
	"nurture/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Notifier *notifier.Recorder
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{JWTSecret: "integration-test-secret"})
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database. Notifications are captured instead of delivered.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	rec := notifier.NewRecorder()

	svc := server.NewServices(db, server.ServiceConfig{
		Location:      time.UTC,
		SessionTTL:    time.Hour,
		RememberMeTTL: 30 * 24 * time.Hour,
		Notifier:      rec,
	})
	router := server.NewRouter(server.NewHandlers(svc, nil, false), server.Options{
		Sessions:  svc.Session,
		Analytics: svc.Analytics,
	})

	return &testApp{DB: db, Router: router, Notifier: rec}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode returns error.code from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error body, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the session token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test Mother"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the session token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// createPregnancy creates an active pregnancy due in about 20 weeks and
// returns its ID.
func (app *testApp) createPregnancy(t *testing.T, token string) string {
	t.Helper()
	due := time.Now().AddDate(0, 0, 140).Format("2006-01-02")
	rec := app.request("POST", "/api/v1/pregnancies", fmt.Sprintf(`{"due_date":%q}`, due), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create pregnancy failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["pregnancy"].(map[string]interface{})["id"].(string)
}
