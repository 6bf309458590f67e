package controllers

import (
	"net/http"

	"github.com/mcthoma1/food-ai/utils"

	"github.com/gin-gonic/gin"
)

// POST /uploads/capture  { "image_base64": "data:image/jpeg;base64,..." }
// Archives the captured meal photo and returns its public URL.
func UploadCapture(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	url, err := utils.UploadCaptureToS3(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
