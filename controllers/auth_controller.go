package controllers

import (
	"net/http"
	"time"

	"github.com/mcthoma1/food-ai/config"
	"github.com/mcthoma1/food-ai/models"
	"github.com/mcthoma1/food-ai/utils"

	"github.com/gin-gonic/gin"
)

// POST /auth/device  { "device_id": "...", "platform": "ios" }
func RegisterDevice(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id" binding:"required"`
		Platform string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	dev := models.Device{DeviceID: req.DeviceID}
	err := config.DB.
		Where("device_id = ?", req.DeviceID).
		Assign(models.Device{Platform: req.Platform, LastSeenAt: time.Now()}).
		FirstOrCreate(&dev).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := utils.GenerateDeviceJWT(req.DeviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
