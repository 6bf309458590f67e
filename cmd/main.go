package main

import (
	"github.com/mcthoma1/food-ai/config"
	"github.com/mcthoma1/food-ai/controllers"
	"github.com/mcthoma1/food-ai/routes"
	"github.com/mcthoma1/food-ai/services"
	"github.com/mcthoma1/food-ai/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()

	rec := services.NewRecognizer()
	nut := services.NewNutritionService()
	history := services.NewHistoryService(services.NewGormBlobStore(config.DB))
	sessions := services.NewSessionManager()
	hub := services.NewTotalsHub()

	r := routes.SetupRouter(routes.Deps{
		Food:     controllers.NewFoodController(rec, nut),
		Session:  controllers.NewSessionController(rec, nut, history, sessions, hub),
		Entries:  controllers.NewEntryController(history),
		Realtime: controllers.NewRealtimeController(hub),
	})
	r.Run(":8080")
}
