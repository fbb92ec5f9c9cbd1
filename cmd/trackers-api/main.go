package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/mytracker/trackers-api/internal/config"
	"github.com/mytracker/trackers-api/internal/database"
	"github.com/mytracker/trackers-api/internal/handlers"
	"github.com/mytracker/trackers-api/internal/routes"
	"github.com/mytracker/trackers-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	handlers.Init(store.New(database.DB))
	stop := handlers.StartBroadcasting()
	defer stop()

	app := fiber.New()
	routes.Setup(app)

	log.Printf("Listening on :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
