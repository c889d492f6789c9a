package main

import (
	"flag"
	"log"

	"foodgram-backend/cmd/config"
	migration "foodgram-backend/cmd/database/migrate"
	"foodgram-backend/cmd/database/seed"
	"foodgram-backend/internal/utils"
)

func main() {
	migrate := flag.Bool("migrate", false, "run database migrations before starting")
	seedPath := flag.String("seed-ingredients", "", "path to the ingredient catalog fixture to import")
	flag.Parse()

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if *migrate {
		if err := migration.Migrate(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}

	if *seedPath != "" {
		if err := seed.SeedIngredients(db, *seedPath); err != nil {
			log.Fatalf("failed to seed ingredients: %v", err)
		}
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up application: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}

	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
