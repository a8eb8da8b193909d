package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"nurture/internal/config"
	"nurture/internal/logger"
	"nurture/internal/metrics"
	"nurture/internal/testutil"
	"nurture/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{JWTSecret: "router-test-secret"})
}

func setupRouter(t *testing.T, rateLimit int) *gin.Engine {
	t.Helper()

	db := testutil.SetupTestDB(t)
	m, err := metrics.New()
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	svc := NewServices(db, ServiceConfig{
		Location:      time.UTC,
		SessionTTL:    time.Hour,
		RememberMeTTL: 24 * time.Hour,
		Metrics:       m,
	})
	router := NewRouter(NewHandlers(svc, nil, false), Options{
		Sessions:      svc.Session,
		Analytics:     svc.Analytics,
		Metrics:       m,
		AuthRateLimit: rateLimit,
	})
	return router
}

func serve(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := setupRouter(t, 0)

	t.Run("health check", func(t *testing.T) {
		rec := serve(r, "GET", "/api/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("preflight is answered by CORS", func(t *testing.T) {
		rec := serve(r, "OPTIONS", "/api/v1/pregnancies", "", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("expected CORS header, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
		}
	})

	t.Run("metrics endpoint serves the request counters", func(t *testing.T) {
		serve(r, "GET", "/api/health", "", "")
		rec := serve(r, "GET", "/metrics", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "nurture_http_requests_total") {
			t.Errorf("expected request counter in scrape output")
		}
	})
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	r := setupRouter(t, 0)

	for _, path := range []string{"/api/v1/auth/me", "/api/v1/pregnancies", "/api/v1/consultations/next", "/api/v1/community/posts"} {
		rec := serve(r, "GET", path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
			continue
		}
		if code := errorCode(t, rec); code != "UNAUTHORIZED" {
			t.Errorf("%s: expected UNAUTHORIZED, got %s", path, code)
		}
	}

	// Rejections are rendered by the error handler before the request
	// metrics read the status.
	rec := serve(r, "GET", "/metrics", "", "")
	if !strings.Contains(rec.Body.String(), `status_code="401"`) {
		t.Errorf("expected 401 responses in request metrics")
	}
}

func TestRouter_LoginIsRateLimited(t *testing.T) {
	r := setupRouter(t, 2)
	body := `{"email":"nobody@test.com","password":"password123"}`

	for i := 0; i < 2; i++ {
		rec := serve(r, "POST", "/api/v1/auth/login", body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	rec := serve(r, "POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "RATE_LIMITED" {
		t.Errorf("expected RATE_LIMITED, got %s", code)
	}

	// Registration is not limited.
	rec = serve(r, "POST", "/api/v1/auth/register", `{"email":"new@test.com","password":"password123","name":"New"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UploadWithoutStorage(t *testing.T) {
	r := setupRouter(t, 0)

	rec := serve(r, "POST", "/api/v1/auth/register", `{"email":"upload@test.com","password":"password123","name":"Uploader"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &auth); err != nil {
		t.Fatalf("failed to parse register response: %v", err)
	}

	rec = serve(r, "POST", "/api/v1/objects/upload", `{"file_name":"scan.jpg","content_type":"image/jpeg"}`, auth.Token)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "STORAGE_NOT_CONFIGURED" {
		t.Errorf("expected STORAGE_NOT_CONFIGURED, got %s", code)
	}
}
