package routes

import (
	"github.com/mcthoma1/food-ai/controllers"
	"github.com/mcthoma1/food-ai/middlewares"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Food     *controllers.FoodController
	Session  *controllers.SessionController
	Entries  *controllers.EntryController
	Realtime *controllers.RealtimeController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.Default()

	// Public device registration
	auth := r.Group("/auth")
	{
		auth.POST("/device", controllers.RegisterDevice)
	}

	// Everything else needs a device token
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		food := api.Group("/food")
		{
			food.POST("/recognize", d.Food.Recognize)
			food.GET("/search", d.Food.Search)
			food.GET("/nutrition", d.Food.Nutrition)
		}

		api.POST("/nutrition/scale", controllers.ScaleNutrition)

		session := api.Group("/session")
		{
			session.POST("/detect", d.Session.Detect)
			session.POST("/select", d.Session.Select)
			session.POST("/review", d.Session.Review)
			session.POST("/confirm", d.Session.Confirm)
			session.GET("/delta", d.Session.Delta)
			session.DELETE("", d.Session.Cancel)
		}

		entries := api.Group("/entries")
		{
			entries.GET("", d.Entries.List)
			entries.GET("/today/total", d.Entries.TodayTotal)
			entries.DELETE("", d.Entries.ClearAll)
		}

		api.POST("/uploads/capture", controllers.UploadCapture)
		api.GET("/ws/totals", d.Realtime.TotalsWS)
	}

	return r
}
