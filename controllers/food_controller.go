package controllers

import (
	"context"
	"net/http"

	"github.com/mcthoma1/food-ai/models"
	"github.com/mcthoma1/food-ai/services"

	"github.com/gin-gonic/gin"
)

// NutritionLookup is the slice of the nutrition service the controllers
// need. Tests stub it.
type NutritionLookup interface {
	FetchNutritionForName(ctx context.Context, name string) (*models.NutritionFacts, error)
	FetchAllNutrition(ctx context.Context, names []string) (map[string]*models.NutritionFacts, error)
	SearchFoods(ctx context.Context, query string) ([]string, error)
}

type FoodController struct {
	rec services.Recognizer
	nut NutritionLookup
}

func NewFoodController(rec services.Recognizer, nut NutritionLookup) *FoodController {
	return &FoodController{rec: rec, nut: nut}
}

// POST /food/recognize  { "image_base64": "data:image/jpeg;base64,..." }
func (fc *FoodController) Recognize(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	detections, err := fc.rec.DetectDishes(c.Request.Context(), req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detections": services.FilterDetections(detections)})
}

// GET /food/search?q=apple
func (fc *FoodController) Search(c *gin.Context) {
	names, err := fc.nut.SearchFoods(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"names": names})
}

// GET /food/nutrition?name=cheddar+cheese — facts is null on no match.
func (fc *FoodController) Nutrition(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	facts, err := fc.nut.FetchNutritionForName(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"facts": facts})
}
