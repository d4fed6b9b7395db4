package main

import (
	"log"

	"github.com/annashamitova/foodgram-st/internal/router"
	"github.com/annashamitova/foodgram-st/pkg/config"
	"github.com/annashamitova/foodgram-st/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, cfg)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
