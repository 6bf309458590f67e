package services

import (
	"context"
	"encoding/base64"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/mcthoma1/food-ai/models"
)

type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService() (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// DetectDishes runs DetectLabels on the image. Rekognition reports percent
// confidences; they are normalized to fractions so the same gate applies as
// for Clarifai.
func (r *RekognitionService) DetectDishes(ctx context.Context, imageBase64 string) ([]models.Detection, error) {
	raw := imageBase64
	if strings.HasPrefix(raw, "data:") {
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}

	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(50),
	})
	if err != nil {
		return nil, err
	}

	detections := make([]models.Detection, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		var conf float64
		if l.Confidence != nil {
			conf = float64(*l.Confidence) / 100
		}
		detections = append(detections, models.Detection{Name: *l.Name, Confidence: conf})
	}

	sortByConfidence(detections)
	return detections, nil
}
