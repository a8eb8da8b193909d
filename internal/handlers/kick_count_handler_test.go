package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
	"nurture/internal/services"
)

type mockKickCountService struct {
	createFn func(userID, pregnancyID string, in services.KickCountInput) (*models.KickCount, error)
	listFn   func(userID, pregnancyID string, r services.DateRange) ([]models.KickCount, error)
	todayFn  func(userID, pregnancyID string) (int, error)
	deleteFn func(userID, kickCountID string) error
}

var _ services.KickCountServicer = (*mockKickCountService)(nil)

func (m *mockKickCountService) CreateKickCount(userID, pregnancyID string, in services.KickCountInput) (*models.KickCount, error) {
	if m.createFn != nil {
		return m.createFn(userID, pregnancyID, in)
	}
	return &models.KickCount{PregnancyID: pregnancyID, Count: in.Count}, nil
}

func (m *mockKickCountService) GetKickCounts(userID, pregnancyID string, r services.DateRange) ([]models.KickCount, error) {
	if m.listFn != nil {
		return m.listFn(userID, pregnancyID, r)
	}
	return []models.KickCount{}, nil
}

func (m *mockKickCountService) GetTodaysKickCount(userID, pregnancyID string) (int, error) {
	if m.todayFn != nil {
		return m.todayFn(userID, pregnancyID)
	}
	return 0, nil
}

func (m *mockKickCountService) DeleteKickCount(userID, kickCountID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, kickCountID)
	}
	return nil
}

func setupKickCountRouter(svc *mockKickCountService) *gin.Engine {
	handler := NewKickCountHandler(svc)
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.POST("/pregnancies/:id/kick-counts", handler.CreateKickCount)
	r.GET("/pregnancies/:id/kick-counts", handler.GetKickCounts)
	r.GET("/pregnancies/:id/kick-counts/today", handler.GetTodaysKickCount)
	r.DELETE("/kick-counts/:id", handler.DeleteKickCount)
	return r
}

func TestKickCountHandler_CreateKickCount(t *testing.T) {
	t.Run("returns 201 and accepts numeric strings", func(t *testing.T) {
		var got services.KickCountInput
		svc := &mockKickCountService{
			createFn: func(userID, pregnancyID string, in services.KickCountInput) (*models.KickCount, error) {
				got = in
				return &models.KickCount{PregnancyID: pregnancyID, Count: in.Count}, nil
			},
		}

		rec := doRequest(setupKickCountRouter(svc), "POST", "/pregnancies/"+testPregnancyID+"/kick-counts",
			`{"count":"12","duration_minutes":30}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Count != 12 {
			t.Errorf("expected count 12, got %d", got.Count)
		}
		if got.DurationMinutes == nil || *got.DurationMinutes != 30 {
			t.Errorf("expected duration 30, got %v", got.DurationMinutes)
		}
		if !got.Date.IsZero() {
			t.Error("expected a zero date so the service defaults it")
		}
	})

	t.Run("returns 400 for zero, fractional or missing counts", func(t *testing.T) {
		for _, body := range []string{`{"count":0}`, `{"count":2.5}`, `{}`, `{"count":"lots"}`} {
			rec := doRequest(setupKickCountRouter(&mockKickCountService{}), "POST",
				"/pregnancies/"+testPregnancyID+"/kick-counts", body)
			assertFieldError(t, rec, "count")
		}
	})

	t.Run("returns 404 for an unknown pregnancy", func(t *testing.T) {
		svc := &mockKickCountService{
			createFn: func(string, string, services.KickCountInput) (*models.KickCount, error) {
				return nil, apperrors.ErrPregnancyNotFound
			},
		}

		rec := doRequest(setupKickCountRouter(svc), "POST", "/pregnancies/unknown/kick-counts", `{"count":5}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestKickCountHandler_GetKickCounts(t *testing.T) {
	var got services.DateRange
	svc := &mockKickCountService{
		listFn: func(_, _ string, r services.DateRange) ([]models.KickCount, error) {
			got = r
			return []models.KickCount{{Count: 4}}, nil
		},
	}

	rec := doRequest(setupKickCountRouter(svc), "GET", "/pregnancies/"+testPregnancyID+"/kick-counts?from=2025-03-01", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.From == nil || got.To != nil {
		t.Errorf("expected only a lower bound, got %+v", got)
	}
	if list := parseJSON(t, rec)["kick_counts"].([]interface{}); len(list) != 1 {
		t.Errorf("expected 1 kick count, got %d", len(list))
	}
}

func TestKickCountHandler_GetTodaysKickCount(t *testing.T) {
	svc := &mockKickCountService{
		todayFn: func(string, string) (int, error) { return 17, nil },
	}

	rec := doRequest(setupKickCountRouter(svc), "GET", "/pregnancies/"+testPregnancyID+"/kick-counts/today", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if total := parseJSON(t, rec)["total"]; total != float64(17) {
		t.Errorf("expected total 17, got %v", total)
	}
}

func TestKickCountHandler_DeleteKickCount(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		rec := doRequest(setupKickCountRouter(&mockKickCountService{}), "DELETE", "/kick-counts/abc", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["message"] != "Kick count deleted successfully" {
			t.Error("unexpected message")
		}
	})

	t.Run("returns 404 when not owned", func(t *testing.T) {
		svc := &mockKickCountService{
			deleteFn: func(string, string) error { return apperrors.ErrKickCountNotFound },
		}

		rec := doRequest(setupKickCountRouter(svc), "DELETE", "/kick-counts/abc", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "KICK_COUNT_NOT_FOUND")
	})
}
