package services

import (
	"sync"
	"time"

	"github.com/mcthoma1/food-ai/models"
)

// Session is the transient state of one detect→select→review→confirm flow.
// At most one is active per process; starting a new detection discards the
// old one wholesale instead of resetting fields in place.
type Session struct {
	mu            sync.Mutex
	detections    []models.Detection
	selectedNames []string
	nutrition     map[string]*models.NutritionFacts
	caloriesDelta int
	confirmStart  time.Time
}

func (s *Session) Detections() []models.Detection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detections
}

func (s *Session) SetSelectedNames(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedNames = names
}

func (s *Session) SelectedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedNames
}

func (s *Session) SetNutrition(m map[string]*models.NutritionFacts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nutrition = m
}

func (s *Session) Nutrition() map[string]*models.NutritionFacts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nutrition
}

func (s *Session) SetCaloriesDelta(kcal int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caloriesDelta = kcal
}

// ConsumeCaloriesDelta returns the pending delta and resets it to zero.
// One-shot: the home screen adds it to its running total exactly once.
func (s *Session) ConsumeCaloriesDelta() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.caloriesDelta
	s.caloriesDelta = 0
	return v
}

// MarkConfirmStart stamps the moment the user confirmed a selection, so the
// review step can report how long the nutrition fetch took.
func (s *Session) MarkConfirmStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmStart = time.Now()
}

// ConsumeConfirmDuration reports the time since MarkConfirmStart and resets
// the mark. Zero when no mark is pending.
func (s *Session) ConsumeConfirmDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirmStart.IsZero() {
		return 0
	}
	d := time.Since(s.confirmStart)
	s.confirmStart = time.Time{}
	return d
}

// SessionManager owns the single active wizard session.
type SessionManager struct {
	mu      sync.Mutex
	current *Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{}
}

// Begin discards any prior session and starts a fresh one seeded with the
// given detections. Results of in-flight lookups bound to the old session
// are simply never read.
func (m *SessionManager) Begin(detections []models.Detection) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &Session{detections: detections}
	return m.current
}

// Current returns the active session, nil when none is in progress.
func (m *SessionManager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Clear drops the active session unconditionally.
func (m *SessionManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}
