package services

import (
	"context"
	"log"
	"os"
	"sort"

	"github.com/mcthoma1/food-ai/models"
)

// ConfidenceThreshold gates which detections reach the selection screen.
// Fixed by product; detections at or below it are dropped.
const ConfidenceThreshold = 0.6

// Recognizer turns a base64 photo into dish candidates.
type Recognizer interface {
	DetectDishes(ctx context.Context, imageBase64 string) ([]models.Detection, error)
}

// NewRecognizer picks the provider from RECOGNITION_PROVIDER. Clarifai's
// Food workflow is the default; Rekognition covers deployments that keep
// everything on AWS.
func NewRecognizer() Recognizer {
	switch os.Getenv("RECOGNITION_PROVIDER") {
	case "rekognition":
		rek, err := NewRekognitionService()
		if err != nil {
			log.Printf("rekognition unavailable, falling back to clarifai: %v", err)
			return NewClarifaiService()
		}
		return rek
	default:
		return NewClarifaiService()
	}
}

// FilterDetections keeps candidates strictly above the confidence gate,
// preserving order.
func FilterDetections(ds []models.Detection) []models.Detection {
	out := make([]models.Detection, 0, len(ds))
	for _, d := range ds {
		if d.Confidence > ConfidenceThreshold {
			out = append(out, d)
		}
	}
	return out
}

func sortByConfidence(ds []models.Detection) {
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].Confidence > ds[j].Confidence })
}
