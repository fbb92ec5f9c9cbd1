package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/mytracker/trackers-api/internal/handlers"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	trackers := api.Group("/trackers")
	trackers.Get("/", handlers.GetTrackers)
	trackers.Post("/", handlers.CreateTracker)
	trackers.Get("/visible", handlers.GetVisibleTrackers)
	trackers.Put("/:id", handlers.UpdateTracker)
	trackers.Put("/:id/pin", handlers.SetTrackerPinned)
	trackers.Delete("/:id", handlers.DeleteTracker)
	trackers.Post("/:id/toggle", handlers.ToggleCompletion)

	categories := api.Group("/categories")
	categories.Get("/", handlers.GetCategories)
	categories.Post("/", handlers.CreateCategory)
	categories.Put("/:id", handlers.RenameCategory)
	categories.Delete("/:id", handlers.DeleteCategory)

	api.Get("/statistics", handlers.GetStatistics)

	// WebSocket for real-time change events
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws", websocket.New(handlers.HandleWebSocket))
}
