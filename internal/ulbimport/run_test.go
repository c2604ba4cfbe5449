package ulbimport

import (
	"strconv"
	"testing"

	"github.com/google/uuid"

	"github.com/janmitra/locmaster/internal/locations"
	"github.com/janmitra/locmaster/internal/masterdata"
)

// fakeStore emulates the persistence primitives with primary-key and
// (village, label) skip-duplicate semantics.
type fakeStore struct {
	districts []locations.District
	taluks    []locations.Taluk
	villages  []locations.Village
	wards     map[uuid.UUID]map[string]bool
	versions  []locations.LocationDatasetVersion
}

func (f *fakeStore) FindDistricts() ([]locations.District, error) {
	return append([]locations.District(nil), f.districts...), nil
}

func (f *fakeStore) FindTaluks() ([]locations.Taluk, error) {
	return append([]locations.Taluk(nil), f.taluks...), nil
}

func (f *fakeStore) FindVillages() ([]locations.Village, error) {
	return append([]locations.Village(nil), f.villages...), nil
}

func (f *fakeStore) CreateVillages(rows []locations.Village) (int64, error) {
	var created int64
	for _, v := range rows {
		exists := false
		for i := range f.villages {
			if f.villages[i].ID == v.ID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		f.villages = append(f.villages, v)
		created++
	}
	return created, nil
}

func (f *fakeStore) CountWards(villageID uuid.UUID) (int64, error) {
	return int64(len(f.wards[villageID])), nil
}

func (f *fakeStore) CreateWards(rows []locations.Ward) (int64, error) {
	if f.wards == nil {
		f.wards = map[uuid.UUID]map[string]bool{}
	}
	var created int64
	for _, w := range rows {
		if f.wards[w.VillageID] == nil {
			f.wards[w.VillageID] = map[string]bool{}
		}
		if f.wards[w.VillageID][w.WardNumber] {
			continue
		}
		f.wards[w.VillageID][w.WardNumber] = true
		created++
	}
	return created, nil
}

func (f *fakeStore) RecordVersion(v *locations.LocationDatasetVersion) error {
	f.versions = append(f.versions, *v)
	return nil
}

func strp(s string) *string { return &s }

// seededStore mirrors the state after district seeding and an LGD import:
// Ranipet district with its Arakkonam taluk.
func seededStore() *fakeStore {
	district := locations.District{ID: uuid.New(), Name: "Ranipet", StateCode: "TN", LGDCode: strp("723")}
	taluk := locations.Taluk{ID: uuid.New(), Name: "Arakkonam", DistrictID: district.ID, LGDCode: strp("6401"), IsLGDBlock: true}
	return &fakeStore{
		districts: []locations.District{district},
		taluks:    []locations.Taluk{taluk},
	}
}

// The manual-match scenario: "Arakonam" is pinned to the Arakkonam taluk in
// Ranipet, gets a carrier village named after the ULB, and ward labels
// "1".."30".
func TestRunManualMatchScenario(t *testing.T) {
	store := seededStore()
	path := writeFile(t, "ulb.csv", "Grade,Name of the ULB,Total No. of Wards\nMunicipality,Arakonam,30\n")

	stats, err := Run(store, Config{CSVPath: path, Guard: masterdata.Guard{}})
	if err != nil {
		t.Fatal(err)
	}

	if stats.VillagesCreated != 1 {
		t.Fatalf("villages created = %d, want 1", stats.VillagesCreated)
	}
	if stats.WardsCreated != 30 {
		t.Errorf("wards created = %d, want 30", stats.WardsCreated)
	}

	if len(store.villages) != 1 {
		t.Fatalf("store has %d villages", len(store.villages))
	}
	village := store.villages[0]
	if village.Name != "Arakonam" {
		t.Errorf("village name = %q, want the ULB name with suffix stripped", village.Name)
	}
	if village.TalukID != store.taluks[0].ID {
		t.Error("village not parented under the manually matched taluk")
	}

	labels := store.wards[village.ID]
	for i := 1; i <= 30; i++ {
		if !labels[strconv.Itoa(i)] {
			t.Fatalf("missing ward label %d", i)
		}
	}
}

// Running the same CSV twice: the second run creates nothing and reports the
// full ward count as already present.
func TestRunTwiceIsNoOp(t *testing.T) {
	store := seededStore()
	path := writeFile(t, "ulb.csv", "Grade,Name of the ULB,Total No. of Wards\nMunicipality,Arakonam,30\n")

	if _, err := Run(store, Config{CSVPath: path, Guard: masterdata.Guard{}}); err != nil {
		t.Fatal(err)
	}
	stats, err := Run(store, Config{CSVPath: path, Guard: masterdata.Guard{}})
	if err != nil {
		t.Fatal(err)
	}

	if stats.VillagesCreated != 0 {
		t.Errorf("second run villagesCreated = %d, want 0", stats.VillagesCreated)
	}
	if stats.WardsCreated != 0 {
		t.Errorf("second run wardsCreated = %d, want 0", stats.WardsCreated)
	}
	if stats.WardsAlreadyPresent != 30 {
		t.Errorf("second run wardsAlreadyPresent = %d, want 30", stats.WardsAlreadyPresent)
	}
}

func TestRunDedupAndConflicts(t *testing.T) {
	store := seededStore()
	content := "Grade,Name of the ULB,Total No. of Wards\n" +
		"Municipality,Arakonam,30\n" +
		"Municipality,Arakonam,30\n" +
		"Municipality,Arakonam,33\n"
	path := writeFile(t, "ulb.csv", content)

	stats, err := Run(store, Config{CSVPath: path, Guard: masterdata.Guard{}})
	if err != nil {
		t.Fatal(err)
	}

	if stats.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", stats.Duplicates)
	}
	if stats.Conflicts != 1 {
		t.Errorf("conflicts = %d, want 1", stats.Conflicts)
	}
	// The first occurrence wins: 30 wards, not 33.
	if stats.WardsCreated != 30 {
		t.Errorf("wards created = %d, want 30", stats.WardsCreated)
	}
}

// The scraped JSON source resolves through its district hint and the fuzzy
// cascade instead of the manual-match table.
func TestRunJSONSourceWithDistrictHint(t *testing.T) {
	store := seededStore()
	path := writeFile(t, "wards.json", `{"Ranipet": {"Arakkonam Municipality": 24}}`)

	stats, err := Run(store, Config{JSONPath: path, Guard: masterdata.Guard{}})
	if err != nil {
		t.Fatal(err)
	}

	if stats.Unresolved != 0 {
		t.Fatalf("unresolved = %d", stats.Unresolved)
	}
	if stats.WardsCreated != 24 {
		t.Errorf("wards created = %d, want 24", stats.WardsCreated)
	}
	if store.versions[0].Source != "ulb-wards-json" {
		t.Errorf("source = %q", store.versions[0].Source)
	}
}

func TestRunUnresolvedULBSkipped(t *testing.T) {
	store := seededStore()
	path := writeFile(t, "ulb.csv", "Grade,Name of the ULB,Total No. of Wards\nMunicipality,Atlantis,12\n")

	stats, err := Run(store, Config{CSVPath: path, Guard: masterdata.Guard{}})
	if err != nil {
		t.Fatal(err)
	}

	if stats.Unresolved != 1 {
		t.Errorf("unresolved = %d, want 1", stats.Unresolved)
	}
	if stats.VillagesCreated != 0 || stats.WardsCreated != 0 {
		t.Error("unresolved ULB must not create anything")
	}
	if len(stats.Reasons()) != 1 {
		t.Errorf("expected one reason, got %d", len(stats.Reasons()))
	}
}

func TestRunRefusedWhenLocked(t *testing.T) {
	store := seededStore()
	path := writeFile(t, "ulb.csv", "Grade,Name of the ULB,Total No. of Wards\nMunicipality,Arakonam,30\n")

	_, err := Run(store, Config{CSVPath: path, Guard: masterdata.Guard{Locked: true}})
	if err == nil {
		t.Fatal("expected LockError")
	}
	if len(store.villages) != 0 {
		t.Error("locked run must not mutate anything")
	}
}
