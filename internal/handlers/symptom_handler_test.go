package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"nurture/internal/models"
	"nurture/internal/services"
)

type mockSymptomService struct {
	createFn func(userID, pregnancyID string, in services.SymptomInput) (*models.Symptom, error)
}

var _ services.SymptomServicer = (*mockSymptomService)(nil)

func (m *mockSymptomService) CreateSymptom(userID, pregnancyID string, in services.SymptomInput) (*models.Symptom, error) {
	if m.createFn != nil {
		return m.createFn(userID, pregnancyID, in)
	}
	return &models.Symptom{PregnancyID: pregnancyID, Name: in.Name, Severity: in.Severity}, nil
}

func (m *mockSymptomService) GetSymptoms(_, _ string, _ services.DateRange) ([]models.Symptom, error) {
	return []models.Symptom{{Name: "Nausea", Severity: models.SeverityMild}}, nil
}

func (m *mockSymptomService) DeleteSymptom(_, _ string) error {
	return nil
}

func setupSymptomRouter(svc *mockSymptomService) *gin.Engine {
	handler := NewSymptomHandler(svc)
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.POST("/pregnancies/:id/symptoms", handler.CreateSymptom)
	r.GET("/pregnancies/:id/symptoms", handler.GetSymptoms)
	r.DELETE("/symptoms/:id", handler.DeleteSymptom)
	return r
}

func TestSymptomHandler_CreateSymptom(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.SymptomInput
		svc := &mockSymptomService{
			createFn: func(_, pregnancyID string, in services.SymptomInput) (*models.Symptom, error) {
				got = in
				return &models.Symptom{PregnancyID: pregnancyID, Name: in.Name, Severity: in.Severity}, nil
			},
		}

		rec := doRequest(setupSymptomRouter(svc), "POST", "/pregnancies/"+testPregnancyID+"/symptoms",
			`{"name":"Back pain","severity":"moderate"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Severity != models.SeverityModerate {
			t.Errorf("expected moderate, got %q", got.Severity)
		}
	})

	t.Run("returns 400 for unknown severity", func(t *testing.T) {
		rec := doRequest(setupSymptomRouter(&mockSymptomService{}), "POST", "/pregnancies/"+testPregnancyID+"/symptoms",
			`{"name":"Back pain","severity":"unbearable"}`)
		assertFieldError(t, rec, "severity")
	})
}

func TestSymptomHandler_GetSymptoms(t *testing.T) {
	t.Run("returns 200 with symptoms", func(t *testing.T) {
		rec := doRequest(setupSymptomRouter(&mockSymptomService{}), "GET", "/pregnancies/"+testPregnancyID+"/symptoms", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if list := parseJSON(t, rec)["symptoms"].([]interface{}); len(list) != 1 {
			t.Errorf("expected 1 symptom, got %d", len(list))
		}
	})

	t.Run("returns 400 for a bad range", func(t *testing.T) {
		rec := doRequest(setupSymptomRouter(&mockSymptomService{}), "GET",
			"/pregnancies/"+testPregnancyID+"/symptoms?from=03/01/2025", "")
		assertFieldError(t, rec, "from")
	})
}
