package seeds

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/janmitra/locmaster/internal/db"
	"github.com/janmitra/locmaster/internal/locations"
	"github.com/janmitra/locmaster/internal/masterdata"
)

func SeedAll(guard masterdata.Guard) error {
	return SeedDistricts(guard)
}

// SeedDistricts loads the bundled district fixture. Districts are the only
// level seeded directly; everything below them comes from the imports.
func SeedDistricts(guard masterdata.Guard) error {
	if err := guard.AssertUnlocked("seed-districts"); err != nil {
		return err
	}

	file, err := os.ReadFile("internal/locations/data/districts.json")
	if err != nil {
		return fmt.Errorf("could not read districts.json: %w", err)
	}

	var fixtures []struct {
		Name      string `json:"name"`
		StateCode string `json:"state_code"`
		LGDCode   string `json:"lgd_code"`
	}
	if err := json.Unmarshal(file, &fixtures); err != nil {
		return fmt.Errorf("failed to parse districts.json: %w", err)
	}

	rows := make([]locations.District, 0, len(fixtures))
	for _, f := range fixtures {
		d := locations.District{
			ID:        uuid.New(),
			Name:      f.Name,
			StateCode: f.StateCode,
		}
		if f.LGDCode != "" {
			code := f.LGDCode
			d.LGDCode = &code
		}
		rows = append(rows, d)
	}

	store := masterdata.NewStore(db.DB)
	created, err := store.CreateDistricts(rows)
	if err != nil {
		return fmt.Errorf("failed to seed districts: %w", err)
	}

	log.Printf("✅ Seeded %d districts (%d already present)", created, int64(len(rows))-created)
	return nil
}
