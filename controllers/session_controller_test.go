package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcthoma1/food-ai/models"
	"github.com/mcthoma1/food-ai/services"
)

func fp(v float64) *float64 { return &v }

type stubRecognizer struct {
	detections []models.Detection
	err        error
}

func (s *stubRecognizer) DetectDishes(ctx context.Context, imageBase64 string) ([]models.Detection, error) {
	return s.detections, s.err
}

type stubLookup struct {
	facts map[string]*models.NutritionFacts
	names []string
	err   error
}

func (s *stubLookup) FetchNutritionForName(ctx context.Context, name string) (*models.NutritionFacts, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.facts[name], nil
}

func (s *stubLookup) FetchAllNutrition(ctx context.Context, names []string) (map[string]*models.NutritionFacts, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]*models.NutritionFacts, len(names))
	for _, n := range names {
		out[n] = s.facts[n]
	}
	return out, nil
}

func (s *stubLookup) SearchFoods(ctx context.Context, query string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.names, nil
}

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (m *memStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// wizardRouter wires the session and entry routes without auth, the way the
// mobile client sees them once its token is accepted.
func wizardRouter(rec services.Recognizer, nut NutritionLookup) (*gin.Engine, *services.HistoryService) {
	gin.SetMode(gin.TestMode)

	history := services.NewHistoryService(newMemStore())
	sc := NewSessionController(rec, nut, history, services.NewSessionManager(), services.NewTotalsHub())
	ec := NewEntryController(history)

	r := gin.New()
	r.POST("/session/detect", sc.Detect)
	r.POST("/session/select", sc.Select)
	r.POST("/session/review", sc.Review)
	r.POST("/session/confirm", sc.Confirm)
	r.GET("/session/delta", sc.Delta)
	r.DELETE("/session", sc.Cancel)
	r.GET("/entries", ec.List)
	r.GET("/entries/today/total", ec.TodayTotal)
	r.POST("/nutrition/scale", ScaleNutrition)
	return r, history
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestWizardFullFlow(t *testing.T) {
	rec := &stubRecognizer{detections: []models.Detection{
		{Name: "pizza", Confidence: 0.9},
		{Name: "napkin", Confidence: 0.5}, // below the gate, never shown
	}}
	nut := &stubLookup{facts: map[string]*models.NutritionFacts{
		"pizza": {Calories: fp(220), Protein: fp(20)},
	}}
	r, _ := wizardRouter(rec, nut)

	// detect: only confident candidates come back
	w := doJSON(t, r, http.MethodPost, "/session/detect", gin.H{"image_base64": "aGVsbG8="})
	require.Equal(t, http.StatusOK, w.Code)
	detections := decode(t, w)["detections"].([]interface{})
	require.Len(t, detections, 1)
	assert.Equal(t, "pizza", detections[0].(map[string]interface{})["name"])

	// select
	w = doJSON(t, r, http.MethodPost, "/session/select", gin.H{"names": []string{"pizza"}})
	require.Equal(t, http.StatusOK, w.Code)

	// review: macros per 100 g for each selected item
	w = doJSON(t, r, http.MethodPost, "/session/review", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	facts := items[0].(map[string]interface{})["facts"].(map[string]interface{})
	assert.Equal(t, 220.0, facts["calories"])

	// confirm 37 g → 220 * 0.37 = 81.4 → 81 kcal
	w = doJSON(t, r, http.MethodPost, "/session/confirm", gin.H{
		"items": []gin.H{{"name": "pizza", "mode": "grams", "value": 37}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	entry := decode(t, w)["entry"].(map[string]interface{})
	assert.Equal(t, 81.0, entry["totalKcal"])
	assert.NotEmpty(t, entry["id"])

	// delta is one-shot
	w = doJSON(t, r, http.MethodGet, "/session/delta", nil)
	assert.Equal(t, 81.0, decode(t, w)["calories_delta"])
	w = doJSON(t, r, http.MethodGet, "/session/delta", nil)
	assert.Equal(t, 0.0, decode(t, w)["calories_delta"])

	// the entry landed in the log and in the daily total
	w = doJSON(t, r, http.MethodGet, "/entries", nil)
	entries := decode(t, w)["entries"].([]interface{})
	require.Len(t, entries, 1)

	date := entry["date"].(string)
	w = doJSON(t, r, http.MethodGet, "/entries/today/total?date="+date, nil)
	assert.Equal(t, 81.0, decode(t, w)["total_kcal"])
}

func TestReviewWithoutSelectionConflicts(t *testing.T) {
	r, _ := wizardRouter(&stubRecognizer{}, &stubLookup{})

	w := doJSON(t, r, http.MethodPost, "/session/review", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/session/confirm", gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSelectRejectsEmptyAndUnknownNames(t *testing.T) {
	rec := &stubRecognizer{detections: []models.Detection{{Name: "pizza", Confidence: 0.9}}}
	r, _ := wizardRouter(rec, &stubLookup{})

	w := doJSON(t, r, http.MethodPost, "/session/select", gin.H{"names": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	doJSON(t, r, http.MethodPost, "/session/detect", gin.H{"image_base64": "aGVsbG8="})
	w = doJSON(t, r, http.MethodPost, "/session/select", gin.H{"names": []string{"sushi"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "sushi")
}

func TestSelectWithoutDetectStartsSearchFlow(t *testing.T) {
	// the search screen skips detect entirely
	nut := &stubLookup{facts: map[string]*models.NutritionFacts{
		"Apple, raw": {Calories: fp(52)},
	}}
	r, _ := wizardRouter(&stubRecognizer{}, nut)

	w := doJSON(t, r, http.MethodPost, "/session/select", gin.H{"names": []string{"Apple, raw"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/session/review", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/session/confirm", gin.H{
		"items": []gin.H{{"name": "Apple, raw", "mode": "grams", "value": 50}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	entry := decode(t, w)["entry"].(map[string]interface{})
	assert.Equal(t, 26.0, entry["totalKcal"]) // 52 * 0.5
}

func TestReviewLookupFailureBlanksEverything(t *testing.T) {
	rec := &stubRecognizer{detections: []models.Detection{{Name: "pizza", Confidence: 0.9}}}
	nut := &stubLookup{err: errors.New("FDC down")}
	r, _ := wizardRouter(rec, nut)

	doJSON(t, r, http.MethodPost, "/session/detect", gin.H{"image_base64": "aGVsbG8="})
	doJSON(t, r, http.MethodPost, "/session/select", gin.H{"names": []string{"pizza"}})

	w := doJSON(t, r, http.MethodPost, "/session/review", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// nothing half-populated: the pending delta is gone too
	w = doJSON(t, r, http.MethodGet, "/session/delta", nil)
	assert.Equal(t, 0.0, decode(t, w)["calories_delta"])
}

func TestDetectDiscardsPreviousSession(t *testing.T) {
	rec := &stubRecognizer{detections: []models.Detection{{Name: "pizza", Confidence: 0.9}}}
	nut := &stubLookup{facts: map[string]*models.NutritionFacts{
		"pizza": {Calories: fp(220)},
	}}
	r, _ := wizardRouter(rec, nut)

	doJSON(t, r, http.MethodPost, "/session/detect", gin.H{"image_base64": "aGVsbG8="})
	doJSON(t, r, http.MethodPost, "/session/select", gin.H{"names": []string{"pizza"}})

	// a second photo abandons the half-finished wizard
	doJSON(t, r, http.MethodPost, "/session/detect", gin.H{"image_base64": "d29ybGQ="})

	w := doJSON(t, r, http.MethodPost, "/session/review", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelClearsSession(t *testing.T) {
	rec := &stubRecognizer{detections: []models.Detection{{Name: "pizza", Confidence: 0.9}}}
	r, _ := wizardRouter(rec, &stubLookup{})

	doJSON(t, r, http.MethodPost, "/session/detect", gin.H{"image_base64": "aGVsbG8="})
	doJSON(t, r, http.MethodPost, "/session/select", gin.H{"names": []string{"pizza"}})

	w := doJSON(t, r, http.MethodDelete, "/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/session/review", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestConfirmDefaultsMissingQuantitiesTo100Grams(t *testing.T) {
	rec := &stubRecognizer{detections: []models.Detection{{Name: "pizza", Confidence: 0.9}}}
	nut := &stubLookup{facts: map[string]*models.NutritionFacts{
		"pizza": {Calories: fp(220)},
	}}
	r, _ := wizardRouter(rec, nut)

	doJSON(t, r, http.MethodPost, "/session/detect", gin.H{"image_base64": "aGVsbG8="})
	doJSON(t, r, http.MethodPost, "/session/select", gin.H{"names": []string{"pizza"}})
	doJSON(t, r, http.MethodPost, "/session/review", nil)

	w := doJSON(t, r, http.MethodPost, "/session/confirm", gin.H{"items": []gin.H{}})
	require.Equal(t, http.StatusOK, w.Code)
	entry := decode(t, w)["entry"].(map[string]interface{})
	assert.Equal(t, 220.0, entry["totalKcal"])
}

func TestScaleNutritionEndpoint(t *testing.T) {
	r, _ := wizardRouter(&stubRecognizer{}, &stubLookup{})

	w := doJSON(t, r, http.MethodPost, "/nutrition/scale", gin.H{
		"facts": gin.H{"calories": 220, "protein": 20},
		"mode":  "grams",
		"value": 37,
	})
	require.Equal(t, http.StatusOK, w.Code)
	facts := decode(t, w)["facts"].(map[string]interface{})
	assert.Equal(t, 81.0, facts["calories"])
	assert.Equal(t, 7.4, facts["protein"])

	w = doJSON(t, r, http.MethodPost, "/nutrition/scale", gin.H{
		"facts": gin.H{"calories": 220},
		"mode":  "stones",
		"value": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
