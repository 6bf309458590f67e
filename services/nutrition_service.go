package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/mcthoma1/food-ai/models"
)

const (
	fdcBase        = "https://api.nal.usda.gov/fdc/v1"
	searchPageSize = 15
)

// NutritionService resolves food names against USDA FoodData Central.
// Values come back per 100 g for most non-branded foods.
type NutritionService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewNutritionService() *NutritionService {
	return &NutritionService{
		apiKey:  os.Getenv("FDC_API_KEY"),
		baseURL: fdcBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type fdcFood struct {
	Description     string  `json:"description"`
	ServingSize     float64 `json:"servingSize"`
	ServingSizeUnit string  `json:"servingSizeUnit"`
	FoodNutrients   []struct {
		NutrientName string  `json:"nutrientName"`
		Value        float64 `json:"value"`
	} `json:"foodNutrients"`
}

type fdcSearchResponse struct {
	Foods []fdcFood `json:"foods"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *NutritionService) search(ctx context.Context, query string, pageSize int) (*fdcSearchResponse, error) {
	u := fmt.Sprintf("%s/foods/search?api_key=%s&query=%s&pageSize=%d",
		s.baseURL, url.QueryEscape(s.apiKey), url.QueryEscape(query), pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create FDC request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call FDC: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read FDC response: %w", err)
	}

	var sr fdcSearchResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(body, &sr) == nil && sr.Error != nil && sr.Error.Message != "" {
			return nil, fmt.Errorf("FDC API error %d: %s", resp.StatusCode, sr.Error.Message)
		}
		return nil, fmt.Errorf("FDC API error %d: %s", resp.StatusCode, resp.Status)
	}
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse FDC JSON: %w", err)
	}
	return &sr, nil
}

// FetchNutritionForName resolves a food name to per-100g facts. A nil
// result with a nil error means FDC had no match; callers treat that as an
// all-absent record, not a failure.
func (s *NutritionService) FetchNutritionForName(ctx context.Context, name string) (*models.NutritionFacts, error) {
	sr, err := s.search(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(sr.Foods) == 0 {
		return nil, nil
	}
	item := sr.Foods[0]

	facts := &models.NutritionFacts{
		Calories: firstNutrient(item, "energy", "calories"),
		Protein:  firstNutrient(item, "protein"),
		Fat:      firstNutrient(item, "total lipid", "fat"),
		Carbs:    firstNutrient(item, "carbohydrate"),
		Sugars:   firstNutrient(item, "sugars"),
		Fiber:    firstNutrient(item, "fiber"),
		Sodium:   firstNutrient(item, "sodium"),
		Source:   item.Description,
	}

	if item.ServingSize > 0 && item.ServingSizeUnit != "" {
		size := item.ServingSize
		facts.ServingSize = &size
		facts.ServingUnit = item.ServingSizeUnit
		if isGramUnit(item.ServingSizeUnit) {
			grams := item.ServingSize
			facts.ServingGrams = &grams
		}
	}

	return facts, nil
}

// SearchFoods returns distinct food names for a free-text query, keeping
// FDC's order with later duplicates removed. Queries under two characters
// short-circuit to an empty list without calling out.
func (s *NutritionService) SearchFoods(ctx context.Context, query string) ([]string, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < 2 {
		return []string{}, nil
	}

	sr, err := s.search(ctx, q, searchPageSize)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(sr.Foods))
	seen := make(map[string]struct{}, len(sr.Foods))
	for _, f := range sr.Foods {
		if f.Description == "" {
			continue
		}
		if _, ok := seen[f.Description]; ok {
			continue
		}
		seen[f.Description] = struct{}{}
		names = append(names, f.Description)
	}
	return names, nil
}

// FetchAllNutrition fans out one lookup per name and waits for all of them.
// Fail-fast: a single failed lookup fails the whole batch. The map is keyed
// by name; callers keep selection order themselves.
func (s *NutritionService) FetchAllNutrition(ctx context.Context, names []string) (map[string]*models.NutritionFacts, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]*models.NutritionFacts, len(names))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			facts, err := s.FetchNutritionForName(ctx, name)
			if err != nil {
				return err
			}
			results[i] = facts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*models.NutritionFacts, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}

// firstNutrient returns the value of the first nutrient row whose name
// contains one of the needles, trying needles in order. Nil when nothing
// matches, so absence survives into scaling.
func firstNutrient(f fdcFood, needles ...string) *float64 {
	for _, needle := range needles {
		for _, n := range f.FoodNutrients {
			if strings.Contains(strings.ToLower(n.NutrientName), needle) {
				v := n.Value
				return &v
			}
		}
	}
	return nil
}

func isGramUnit(unit string) bool {
	return strings.EqualFold(unit, "g") || strings.Contains(strings.ToLower(unit), "gram")
}
