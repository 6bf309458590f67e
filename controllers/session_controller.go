package controllers

import (
	"fmt"
	"net/http"

	"github.com/mcthoma1/food-ai/models"
	"github.com/mcthoma1/food-ai/services"

	"github.com/gin-gonic/gin"
)

// SessionController drives the detect→select→review→confirm wizard. The
// mobile client walks these in order; a step reached out of order gets 409
// and the client drops back to the home screen.
type SessionController struct {
	rec      services.Recognizer
	nut      NutritionLookup
	history  *services.HistoryService
	sessions *services.SessionManager
	hub      *services.TotalsHub
}

func NewSessionController(
	rec services.Recognizer,
	nut NutritionLookup,
	history *services.HistoryService,
	sessions *services.SessionManager,
	hub *services.TotalsHub,
) *SessionController {
	return &SessionController{rec: rec, nut: nut, history: history, sessions: sessions, hub: hub}
}

// POST /session/detect  { "image_base64": "..." }
// Starts a fresh wizard from a photo; any prior session is discarded.
func (sc *SessionController) Detect(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	detections, err := sc.rec.DetectDishes(c.Request.Context(), req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	shown := services.FilterDetections(detections)
	sc.sessions.Begin(shown)
	c.JSON(http.StatusOK, gin.H{"detections": shown})
}

// POST /session/select  { "names": ["pizza"] }
// The search flow lands here without a detect step, so a missing session
// starts one; when detections exist the names must come from them.
func (sc *SessionController) Select(c *gin.Context) {
	var req struct {
		Names []string `json:"names" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Names) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "select at least one item"})
		return
	}

	s := sc.sessions.Current()
	if s == nil {
		s = sc.sessions.Begin(nil)
	}
	if ds := s.Detections(); len(ds) > 0 {
		known := make(map[string]struct{}, len(ds))
		for _, d := range ds {
			known[d.Name] = struct{}{}
		}
		for _, n := range req.Names {
			if _, ok := known[n]; !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown item %q", n)})
				return
			}
		}
	}

	s.SetSelectedNames(req.Names)
	s.MarkConfirmStart()
	c.JSON(http.StatusOK, gin.H{"selected": req.Names})
}

// POST /session/review
// Fetches nutrition for every selected item concurrently. Fail-fast: one
// failed lookup blanks the whole map and zeroes the pending delta, leaving
// nothing half-populated.
func (sc *SessionController) Review(c *gin.Context) {
	s := sc.sessions.Current()
	if s == nil || len(s.SelectedNames()) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "no selection in progress"})
		return
	}

	names := s.SelectedNames()
	facts, err := sc.nut.FetchAllNutrition(c.Request.Context(), names)
	if err != nil {
		s.SetNutrition(nil)
		s.SetCaloriesDelta(0)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	s.SetNutrition(facts)

	items := make([]gin.H, 0, len(names))
	for _, n := range names {
		items = append(items, gin.H{"name": n, "facts": facts[n]})
	}

	resp := gin.H{"items": items}
	if d := s.ConsumeConfirmDuration(); d > 0 {
		resp["confirm_to_macros_ms"] = d.Milliseconds()
	}
	c.JSON(http.StatusOK, resp)
}

type confirmItem struct {
	Name  string  `json:"name" binding:"required"`
	Mode  string  `json:"mode" binding:"omitempty,oneof=grams servings"`
	Value float64 `json:"value"`
}

// POST /session/confirm  { "items": [{ "name": "...", "mode": "grams", "value": 150 }] }
// Composes the entry in selection order, persists it newest-first, parks
// the calorie delta for the home screen, and pushes the new daily total.
func (sc *SessionController) Confirm(c *gin.Context) {
	s := sc.sessions.Current()
	if s == nil || len(s.SelectedNames()) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "no selection in progress"})
		return
	}

	var req struct {
		Items []confirmItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	quantities := make(map[string]models.Quantity, len(req.Items))
	for _, it := range req.Items {
		q := models.Quantity{Mode: models.QuantityGrams, Value: it.Value}
		if it.Mode == "servings" {
			q.Mode = models.QuantityServings
		}
		quantities[it.Name] = q
	}

	entry := services.BuildEntry(s.SelectedNames(), s.Nutrition(), quantities)
	if err := sc.history.Add(entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.SetCaloriesDelta(entry.TotalKcal)

	if total, err := sc.history.TodayTotal(entry.Date); err == nil {
		sc.hub.BroadcastTotal(c.GetString("deviceID"), services.TotalUpdate{
			Date:      entry.Date,
			TotalKcal: total,
		})
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// GET /session/delta — one-shot: the home screen adds the delta to its
// running total once, then it reads zero.
func (sc *SessionController) Delta(c *gin.Context) {
	delta := 0
	if s := sc.sessions.Current(); s != nil {
		delta = s.ConsumeCaloriesDelta()
	}
	c.JSON(http.StatusOK, gin.H{"calories_delta": delta})
}

// DELETE /session
func (sc *SessionController) Cancel(c *gin.Context) {
	sc.sessions.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
