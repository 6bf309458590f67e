package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mcthoma1/food-ai/models"
)

const clarifaiFoodURL = "https://api.clarifai.com/v2/workflows/Food/results"

// ClarifaiService calls Clarifai's public Food workflow.
type ClarifaiService struct {
	pat     string
	baseURL string
	client  *http.Client
}

func NewClarifaiService() *ClarifaiService {
	return &ClarifaiService{
		pat:     os.Getenv("CLARIFAI_PAT"),
		baseURL: clarifaiFoodURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type clarifaiResponse struct {
	Status struct {
		Description string `json:"description"`
	} `json:"status"`
	Results []struct {
		Outputs []struct {
			Data struct {
				Concepts []struct {
					Name  string  `json:"name"`
					Value float64 `json:"value"`
				} `json:"concepts"`
			} `json:"data"`
		} `json:"outputs"`
	} `json:"results"`
}

// DetectDishes sends a base64 image through the Food workflow and returns
// the dish candidates sorted by confidence, highest first.
func (s *ClarifaiService) DetectDishes(ctx context.Context, imageBase64 string) ([]models.Detection, error) {
	payload := map[string]interface{}{
		"user_app_id": map[string]string{"user_id": "clarifai", "app_id": "main"},
		"inputs": []map[string]interface{}{{
			"data": map[string]interface{}{
				"image": map[string]string{"base64": imageBase64},
			},
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal clarifai payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create clarifai request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+s.pat)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call clarifai: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read clarifai response: %w", err)
	}

	var cr clarifaiResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(body, &cr) == nil && cr.Status.Description != "" {
			return nil, fmt.Errorf("clarifai API error %d: %s", resp.StatusCode, cr.Status.Description)
		}
		return nil, fmt.Errorf("clarifai API error %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to parse clarifai JSON: %w", err)
	}

	// The workflow emits several outputs; take the first one that actually
	// carries concepts.
	var detections []models.Detection
	if len(cr.Results) > 0 {
		for _, out := range cr.Results[0].Outputs {
			if len(out.Data.Concepts) == 0 {
				continue
			}
			for _, c := range out.Data.Concepts {
				detections = append(detections, models.Detection{Name: c.Name, Confidence: c.Value})
			}
			break
		}
	}

	sortByConfidence(detections)
	return detections, nil
}
