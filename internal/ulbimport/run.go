package ulbimport

import (
	"fmt"
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
	CreateVillages([]locations.Village) (int64, error)
	CountWards(villageID uuid.UUID) (int64, error)
	CreateWards([]locations.Ward) (int64, error)
	RecordVersion(v *locations.LocationDatasetVersion) error
}

type Config struct {
	CSVPath  string
	JSONPath string // alternate scraped source; wins over CSVPath when set
	Version  string
	Guard    masterdata.Guard
	Aliases  *masterdata.Aliases
}

// Run imports ULB ward counts: each local body is pinned to a taluk (manual
// match first, then the resolver cascade), given a village named after it,
// and brought up to its ward count by ordinal synthesis.
func Run(store Store, cfg Config) (*masterdata.ImportStats, error) {
	if err := cfg.Guard.AssertUnlocked("ulb-import"); err != nil {
		return nil, err
	}

	var (
		rows      []Row
		malformed int
		err       error
		source    string
	)
	if cfg.JSONPath != "" {
		source = "ulb-wards-json"
		rows, err = ParseWardJSON(cfg.JSONPath)
	} else {
		source = "ulb-wards-csv"
		rows, malformed, err = ParseCSV(cfg.CSVPath)
	}
	if err != nil {
		return nil, err
	}

	stats := &masterdata.ImportStats{TotalRows: len(rows) + malformed, Malformed: malformed}
	logrus.WithFields(logrus.Fields{"stage": "parse", "source": source, "rows": len(rows), "malformed": malformed}).Info("ulb table parsed")

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

	aliases := cfg.Aliases
	if aliases == nil {
		aliases = masterdata.DefaultAliases()
	}
	norm := masterdata.NewNormalizer(aliases)
	idx := masterdata.BuildIndex(norm, districts, taluks, villages)
	resolver := masterdata.NewResolver(idx)

	// Fallback for rows with no manual match and no district hint: an exact
	// normalized-name match across all taluks, accepted only when unambiguous.
	talukByGlobalName := map[string][]*locations.Taluk{}
	for i := range taluks {
		t := &taluks[i]
		talukByGlobalName[norm.Normalize(t.Name)] = append(talukByGlobalName[norm.Normalize(t.Name)], t)
	}

	type synthTarget struct {
		villageID uuid.UUID
		wards     int
	}
	var (
		newVillages []locations.Village
		targets     []synthTarget
		seen        = map[string]int{}
	)

	for _, row := range rows {
		ulbKey := norm.ULBKey(row.Name)

		if prev, ok := seen[ulbKey]; ok {
			if prev == row.Wards {
				stats.Duplicates++
			} else {
				stats.Conflicts++
				stats.AddReason("conflict|"+ulbKey, fmt.Sprintf("ULB %q seen with ward counts %d and %d", row.Name, prev, row.Wards))
			}
			continue
		}
		seen[ulbKey] = row.Wards

		taluk, unres := resolveTaluk(resolver, norm, aliases, talukByGlobalName, ulbKey, row)
		if unres != nil {
			stats.Unresolved++
			stats.AddReason(unres.GroupKey(), unres.Reason())
			continue
		}

		// Find-or-create the carrier village named after the local body.
		name := masterdata.StripUnitSuffix(row.Name)
		normName := norm.Normalize(name)
		var villageID uuid.UUID
		if existing := idx.VillageByName(taluk.ID, normName); len(existing) > 0 {
			villageID = existing[0].ID
		} else {
			v := locations.Village{
				ID:       masterdata.ULBVillageID(taluk.ID, normName),
				Name:     name,
				TalukID:  taluk.ID,
				IsActive: true,
			}
			idx.AddVillage(&v)
			newVillages = append(newVillages, v)
			villageID = v.ID
		}
		targets = append(targets, synthTarget{villageID: villageID, wards: row.Wards})
	}

	created, err := store.CreateVillages(newVillages)
	if err != nil {
		return nil, fmt.Errorf("create villages: %w", err)
	}
	stats.VillagesCreated = int(created)
	stats.Duplicates += len(newVillages) - int(created)

	for _, t := range targets {
		made, already, err := masterdata.SynthesizeWards(store, t.villageID, t.wards)
		if err != nil {
			return nil, fmt.Errorf("synthesize wards for village %s: %w", t.villageID, err)
		}
		stats.WardsCreated += int(made)
		stats.WardsAlreadyPresent += int(already)
	}

	version := cfg.Version
	if version == "" {
		version = time.Now().UTC().Format("2006-01-02")
	}
	if err := store.RecordVersion(&locations.LocationDatasetVersion{
		Source:       source,
		Version:      version,
		Metadata:     stats.Metadata(),
		SampleIssues: pq.StringArray(stats.Reasons()),
	}); err != nil {
		return nil, fmt.Errorf("record dataset version: %w", err)
	}

	logrus.WithFields(stats.Fields()).Info("ulb import finished")
	return stats, nil
}

// resolveTaluk pins a ULB row to its taluk: the manual-match table first,
// then the district hint plus the resolver cascade, then an unambiguous
// global name match.
func resolveTaluk(resolver *masterdata.Resolver, norm *masterdata.Normalizer, aliases *masterdata.Aliases, global map[string][]*locations.Taluk, ulbKey string, row Row) (*locations.Taluk, *masterdata.Unresolved) {
	if m, ok := aliases.ULBMatches[ulbKey]; ok {
		district, unres := resolver.District("", m.District)
		if unres != nil {
			return nil, unres
		}
		return resolver.Taluk("", m.Taluk, district.ID)
	}

	if row.District != "" {
		district, unres := resolver.District("", row.District)
		if unres != nil {
			return nil, unres
		}
		return resolver.Taluk("", row.Name, district.ID)
	}

	if ts := global[norm.Normalize(row.Name)]; len(ts) == 1 {
		return ts[0], nil
	}
	return nil, &masterdata.Unresolved{Level: "taluk", Name: row.Name, Scope: "no district hint"}
}
