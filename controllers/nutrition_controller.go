package controllers

import (
	"net/http"

	"github.com/mcthoma1/food-ai/models"
	"github.com/mcthoma1/food-ai/utils"

	"github.com/gin-gonic/gin"
)

// POST /nutrition/scale
// { "facts": {...per-100g...}, "mode": "grams"|"servings", "value": 150 }
//
// The review screen recomputes displayed values through this as the user
// edits amounts. Negative values clamp to zero, never error.
func ScaleNutrition(c *gin.Context) {
	var req struct {
		Facts *models.NutritionFacts `json:"facts"`
		Mode  string                 `json:"mode" binding:"required,oneof=grams servings"`
		Value float64                `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	q := models.Quantity{Mode: models.QuantityGrams, Value: req.Value}
	if req.Mode == "servings" {
		q.Mode = models.QuantityServings
	}
	c.JSON(http.StatusOK, gin.H{"facts": utils.ScaleQuantity(req.Facts, q)})
}
