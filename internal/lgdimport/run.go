package lgdimport

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/janmitra/locmaster/internal/locations"
	"github.com/janmitra/locmaster/internal/masterdata"
)

// Store is the slice of the persistence layer this pipeline consumes.
type Store interface {
	FindDistricts() ([]locations.District, error)
	FindTaluks() ([]locations.Taluk, error)
	FindVillages() ([]locations.Village, error)
	CreateTaluks([]locations.Taluk) (int64, error)
	CreateVillages([]locations.Village) (int64, error)
	BackfillTalukLGD(id uuid.UUID, lgdCode string) (int64, error)
	RecordVersion(v *locations.LocationDatasetVersion) error
}

type Config struct {
	Path    string
	Version string
	Guard   masterdata.Guard
	Aliases *masterdata.Aliases
}

// Run imports the LGD village directory: parse, normalize, in-batch dedup,
// resolve, classify, batch flush, audit row. Stages are sequential over the
// full row set; recoverable row failures land in the stats, never in the
// returned error.
func Run(store Store, cfg Config) (*masterdata.ImportStats, error) {
	if err := cfg.Guard.AssertUnlocked("lgd-import"); err != nil {
		return nil, err
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", masterdata.ErrSourceMissing, cfg.Path)
		}
		return nil, err
	}
	defer f.Close()

	rows, malformed := Parse(f)
	stats := &masterdata.ImportStats{TotalRows: len(rows) + malformed, Malformed: malformed}
	logrus.WithFields(logrus.Fields{"stage": "parse", "rows": len(rows), "malformed": malformed}).Info("lgd directory parsed")

	districts, err := store.FindDistricts()
	if err != nil {
		return nil, fmt.Errorf("snapshot districts: %w", err)
	}
	taluks, err := store.FindTaluks()
	if err != nil {
		return nil, fmt.Errorf("snapshot taluks: %w", err)
	}
	villages, err := store.FindVillages()
	if err != nil {
		return nil, fmt.Errorf("snapshot villages: %w", err)
	}

	norm := masterdata.NewNormalizer(cfg.Aliases)
	idx := masterdata.BuildIndex(norm, districts, taluks, villages)
	resolver := masterdata.NewResolver(idx)

	var (
		newTaluks   []*locations.Taluk
		newVillages []*locations.Village
		backfills   = map[uuid.UUID]string{}
		seen        = map[string]string{}
	)

	for _, row := range rows {
		// In-batch dedup on the full code triple. Identical repeats are
		// absorbed; a repeat with a different village name is a conflict.
		key := row.DistrictCode + "|" + row.TalukCode + "|" + row.VillageCode
		payload := norm.Normalize(row.VillageName)
		if prev, ok := seen[key]; ok {
			if prev == payload {
				stats.Duplicates++
			} else {
				stats.Conflicts++
				stats.AddReason("conflict|"+key, fmt.Sprintf("village code %s seen as %q and %q", row.VillageCode, prev, payload))
			}
			continue
		}
		seen[key] = payload

		district, unres := resolver.District(row.DistrictCode, row.DistrictName)
		if unres != nil {
			stats.Unresolved++
			stats.AddReason(unres.GroupKey(), unres.Reason())
			continue
		}

		taluk, unres := resolver.Taluk(row.TalukCode, row.TalukName, district.ID)
		if unres != nil {
			// Unknown block: create it with LGD provenance.
			taluk = &locations.Taluk{
				ID:         uuid.New(),
				Name:       norm.Normalize(row.TalukName),
				DistrictID: district.ID,
				LGDCode:    strptr(row.TalukCode),
				IsLGDBlock: true,
			}
			idx.AddTaluk(taluk)
			newTaluks = append(newTaluks, taluk)
		} else if taluk.LGDCode == nil {
			// Revenue taluk matched by name: backfill its code and promote
			// it to an LGD block, the one permitted late mutation.
			backfills[taluk.ID] = row.TalukCode
			idx.SetTalukLGD(taluk, row.TalukCode)
		}

		// Classification is exact: same LGD code or same normalized name
		// within the taluk means the village already exists. Fuzzy matching
		// is reserved for parent resolution.
		if idx.VillageByLGD(row.VillageCode) != nil || len(idx.VillageByName(taluk.ID, payload)) > 0 {
			stats.Duplicates++
			continue
		}
		village := &locations.Village{
			ID:       uuid.New(),
			Name:     payload,
			TalukID:  taluk.ID,
			LGDCode:  strptr(row.VillageCode),
			IsActive: true,
		}
		idx.AddVillage(village)
		newVillages = append(newVillages, village)
	}

	logrus.WithFields(logrus.Fields{
		"stage":        "classify",
		"new_taluks":   len(newTaluks),
		"new_villages": len(newVillages),
		"backfills":    len(backfills),
	}).Info("rows classified")

	created, err := store.CreateTaluks(deref(newTaluks))
	if err != nil {
		return nil, fmt.Errorf("create taluks: %w", err)
	}
	stats.TaluksCreated = int(created)
	stats.Duplicates += len(newTaluks) - int(created)

	created, err = store.CreateVillages(deref(newVillages))
	if err != nil {
		return nil, fmt.Errorf("create villages: %w", err)
	}
	stats.VillagesCreated = int(created)
	stats.Duplicates += len(newVillages) - int(created)

	for id, code := range backfills {
		n, err := store.BackfillTalukLGD(id, code)
		if err != nil {
			return nil, fmt.Errorf("backfill taluk %s: %w", id, err)
		}
		stats.TaluksUpdated += int(n)
	}

	version := cfg.Version
	if version == "" {
		version = time.Now().UTC().Format("2006-01-02")
	}
	if err := store.RecordVersion(&locations.LocationDatasetVersion{
		Source:       "lgd-directory",
		Version:      version,
		Metadata:     stats.Metadata(),
		SampleIssues: pq.StringArray(stats.Reasons()),
	}); err != nil {
		return nil, fmt.Errorf("record dataset version: %w", err)
	}

	logrus.WithFields(stats.Fields()).Info("lgd import finished")
	return stats, nil
}

func strptr(s string) *string { return &s }

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, p := range in {
		out = append(out, *p)
	}
	return out
}
