package answermanagement

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"ai-speaking-eval/backend/internal/coreengine/rulescorer"
)

func scoreRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(nil)
	router := gin.New()
	router.POST("/score", h.ScoreTranscriptHandler)
	return router
}

func TestScoreTranscriptHandler(t *testing.T) {
	router := scoreRouter()

	body := `{
		"transcript": "I love visiting the coast in summer because the weather is wonderful.",
		"question": "Describe your favorite travel destination.",
		"duration_seconds": 15
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var bd rulescorer.ScoreBreakdown
	if err := json.Unmarshal(w.Body.Bytes(), &bd); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if bd.OverallScore <= 0 || bd.OverallScore > 10 {
		t.Errorf("overall score %v outside (0,10]", bd.OverallScore)
	}
	if bd.Feedback == "" {
		t.Error("expected non-empty feedback")
	}
}

func TestScoreTranscriptHandler_MissingTranscript(t *testing.T) {
	router := scoreRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(`{"question": "Q"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
