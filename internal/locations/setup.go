package locations

import (
	"log"

	"github.com/janmitra/locmaster/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "locations"); err != nil {
		log.Fatal("Failed to create locations schema: ", err)
	}

	if err := db.DB.AutoMigrate(&District{}, &Taluk{}, &Village{}, &Ward{}, &LocationDatasetVersion{}); err != nil {
		log.Fatal("Failed to auto-migrate tables: ", err)
	}
}
