package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/janmitra/locmaster/internal/db"
	"github.com/janmitra/locmaster/internal/locations"
	"github.com/janmitra/locmaster/internal/masterdata"
	"github.com/janmitra/locmaster/internal/seeds"
)

func main() {
	_ = godotenv.Load(".env.local")

	db.Connect()
	locations.Init()

	if err := seeds.SeedAll(masterdata.NewGuardFromEnv()); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
