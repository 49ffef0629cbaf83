package main

import (
	"log"
	"os"

	"github.com/jobpilot-dev/jobpilot/db"
	"github.com/jobpilot-dev/jobpilot/internal/auth"
	"github.com/jobpilot-dev/jobpilot/internal/router"
	"github.com/jobpilot-dev/jobpilot/internal/scheduler"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if err := auth.InitJWTSecrets(); err != nil {
		log.Fatalf("Failed to initialize JWT secrets: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DB_DRIVER"), os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	pruner := scheduler.NewTokenPruner()
	pruner.Start()
	defer pruner.Stop()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
