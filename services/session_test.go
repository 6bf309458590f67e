package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcthoma1/food-ai/models"
)

func TestSessionManagerBeginDiscardsPrevious(t *testing.T) {
	m := NewSessionManager()

	first := m.Begin([]models.Detection{{Name: "pizza", Confidence: 0.9}})
	first.SetSelectedNames([]string{"pizza"})
	first.SetCaloriesDelta(330)

	second := m.Begin([]models.Detection{{Name: "salad", Confidence: 0.8}})

	require.Same(t, second, m.Current())
	assert.NotSame(t, first, second)
	assert.Empty(t, second.SelectedNames())
	assert.Equal(t, 0, second.ConsumeCaloriesDelta())
}

func TestSessionManagerClear(t *testing.T) {
	m := NewSessionManager()
	m.Begin(nil)
	require.NotNil(t, m.Current())

	m.Clear()
	assert.Nil(t, m.Current())
}

func TestCaloriesDeltaIsOneShot(t *testing.T) {
	s := &Session{}
	s.SetCaloriesDelta(107)

	assert.Equal(t, 107, s.ConsumeCaloriesDelta())
	assert.Equal(t, 0, s.ConsumeCaloriesDelta())
}

func TestConfirmDurationIsOneShot(t *testing.T) {
	s := &Session{}

	// never marked → zero
	assert.Equal(t, time.Duration(0), s.ConsumeConfirmDuration())

	s.MarkConfirmStart()
	time.Sleep(time.Millisecond)

	assert.Greater(t, s.ConsumeConfirmDuration(), time.Duration(0))
	assert.Equal(t, time.Duration(0), s.ConsumeConfirmDuration())
}

func TestSessionNutritionRoundTrip(t *testing.T) {
	s := &Session{}
	cal := 220.0
	m := map[string]*models.NutritionFacts{
		"pizza": {Calories: &cal},
		"water": nil, // no match is a valid map value
	}
	s.SetNutrition(m)

	got := s.Nutrition()
	require.Contains(t, got, "pizza")
	require.Contains(t, got, "water")
	assert.Nil(t, got["water"])
	assert.Equal(t, 220.0, *got["pizza"].Calories)
}
