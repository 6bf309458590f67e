package controllers

import (
	"net/http"
	"time"

	"github.com/mcthoma1/food-ai/services"

	"github.com/gin-gonic/gin"
)

type EntryController struct {
	history *services.HistoryService
}

func NewEntryController(history *services.HistoryService) *EntryController {
	return &EntryController{history: history}
}

// GET /entries — newest first
func (ec *EntryController) List(c *gin.Context) {
	entries, err := ec.history.Entries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GET /entries/today/total?date=2025-09-01 — date defaults to the local day
func (ec *EntryController) TodayTotal(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = services.LocalDate(time.Now())
	}
	total, err := ec.history.TodayTotal(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "total_kcal": total})
}

// DELETE /entries — bulk clear, the only way entries ever leave the log
func (ec *EntryController) ClearAll(c *gin.Context) {
	if err := ec.history.ClearAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
