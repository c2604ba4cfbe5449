package masterdata

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"gorm.io/gorm"

	"github.com/janmitra/locmaster/internal/locations"
)

// Thresholds are the expected floor counts per entity type, loaded from the
// bundled YAML so operators can tune them without a rebuild.
type Thresholds struct {
	MinDistricts int64 `yaml:"min_districts"`
	MinTaluks    int64 `yaml:"min_taluks"`
	MinVillages  int64 `yaml:"min_villages"`
	MinWards     int64 `yaml:"min_wards"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{MinDistricts: 38, MinTaluks: 300, MinVillages: 10000, MinWards: 1000}
}

func LoadThresholds(path string) (Thresholds, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Thresholds{}, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return Thresholds{}, err
	}
	var th Thresholds
	if err := yaml.Unmarshal(raw, &th); err != nil {
		return Thresholds{}, fmt.Errorf("parse thresholds %s: %w", path, err)
	}
	return th, nil
}

type Issue struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Report is the read-only post-import integrity report. Verification never
// repairs anything; it only surfaces what the import constraints cannot.
type Report struct {
	Districts int64 `json:"districts"`
	Taluks    int64 `json:"taluks"`
	Villages  int64 `json:"villages"`
	Wards     int64 `json:"wards"`

	Versions []locations.LocationDatasetVersion `json:"versions"`
	Issues   []Issue                            `json:"issues"`
	Passed   bool                               `json:"passed"`
}

func (r *Report) add(kind, format string, args ...interface{}) {
	r.Issues = append(r.Issues, Issue{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "districts=%d taluks=%d villages=%d wards=%d\n", r.Districts, r.Taluks, r.Villages, r.Wards)
	fmt.Fprintf(&b, "import runs recorded: %d\n", len(r.Versions))
	for _, i := range r.Issues {
		fmt.Fprintf(&b, "  [%s] %s\n", i.Kind, i.Detail)
	}
	if r.Passed {
		b.WriteString("verdict: PASS\n")
	} else {
		b.WriteString("verdict: FAIL\n")
	}
	return b.String()
}

type dupGroup struct {
	ParentID string
	Name     string
	N        int64
}

// Verify runs the post-import integrity and completeness checks.
func Verify(db *gorm.DB, th Thresholds) (*Report, error) {
	r := &Report{}

	counts := []struct {
		model interface{}
		dest  *int64
		label string
		min   int64
	}{
		{&locations.District{}, &r.Districts, "districts", th.MinDistricts},
		{&locations.Taluk{}, &r.Taluks, "taluks", th.MinTaluks},
		{&locations.Village{}, &r.Villages, "villages", th.MinVillages},
		{&locations.Ward{}, &r.Wards, "wards", th.MinWards},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", c.label, err)
		}
		if *c.dest < c.min {
			r.add("below-threshold", "%s: %d < expected %d", c.label, *c.dest, c.min)
		}
	}

	// Name uniqueness within a parent is a goal, not a constraint; surface
	// violations here.
	var dups []dupGroup
	if err := db.Raw(`SELECT district_id AS parent_id, name, COUNT(*) AS n
		FROM locations.taluks GROUP BY district_id, name HAVING COUNT(*) > 1`).Scan(&dups).Error; err != nil {
		return nil, fmt.Errorf("duplicate taluks: %w", err)
	}
	for _, d := range dups {
		r.add("duplicate-taluk", "%q appears %d times in district %s", d.Name, d.N, d.ParentID)
	}

	dups = nil
	if err := db.Raw(`SELECT taluk_id AS parent_id, name, COUNT(*) AS n
		FROM locations.villages GROUP BY taluk_id, name HAVING COUNT(*) > 1`).Scan(&dups).Error; err != nil {
		return nil, fmt.Errorf("duplicate villages: %w", err)
	}
	for _, d := range dups {
		r.add("duplicate-village", "%q appears %d times in taluk %s", d.Name, d.N, d.ParentID)
	}

	var blocksNoLGD []locations.Taluk
	if err := db.Where("is_lgd_block AND lgd_code IS NULL").Find(&blocksNoLGD).Error; err != nil {
		return nil, fmt.Errorf("blocks without lgd code: %w", err)
	}
	for _, t := range blocksNoLGD {
		r.add("block-missing-lgd", "taluk %q (%s) is flagged as LGD block but has no lgd code", t.Name, t.ID)
	}

	var emptyDistricts []locations.District
	if err := db.Raw(`SELECT d.* FROM locations.districts d
		LEFT JOIN locations.taluks t ON t.district_id = d.id
		WHERE t.id IS NULL`).Scan(&emptyDistricts).Error; err != nil {
		return nil, fmt.Errorf("childless districts: %w", err)
	}
	for _, d := range emptyDistricts {
		r.add("childless-district", "district %q (%s) has no taluks", d.Name, d.ID)
	}

	var emptyTaluks int64
	if err := db.Raw(`SELECT COUNT(*) FROM locations.taluks t
		LEFT JOIN locations.villages v ON v.taluk_id = t.id
		WHERE v.id IS NULL`).Scan(&emptyTaluks).Error; err != nil {
		return nil, fmt.Errorf("childless taluks: %w", err)
	}
	if emptyTaluks > 0 {
		r.add("childless-taluk", "%d taluks have no villages", emptyTaluks)
	}

	if err := db.Order("imported_at DESC").Limit(20).Find(&r.Versions).Error; err != nil {
		return nil, fmt.Errorf("dataset versions: %w", err)
	}
	if len(r.Versions) == 0 {
		r.add("no-import-history", "no dataset versions recorded; has any import run?")
	}

	r.Passed = len(r.Issues) == 0
	return r, nil
}
