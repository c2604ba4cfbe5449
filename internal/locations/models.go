package locations

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// District is the root of the location hierarchy. Districts are seeded from
// the bundled fixture and never created by imports.
type District struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name"`
	StateCode string    `json:"state_code"`
	LGDCode   *string   `json:"lgd_code,omitempty" gorm:"uniqueIndex"`
}

func (District) TableName() string { return "locations.districts" }

// Taluk is a sub-district unit. A revenue taluk and an LGD census block both
// live here; IsLGDBlock records which authoritative source a row came from,
// so the two are never merged on name alone.
type Taluk struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name"`
	DistrictID uuid.UUID `json:"district_id" gorm:"type:uuid;not null;index"`
	LGDCode    *string   `json:"lgd_code,omitempty" gorm:"uniqueIndex"`
	IsLGDBlock bool      `json:"is_lgd_block"`
}

func (Taluk) TableName() string { return "locations.taluks" }

type Village struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name     string    `json:"name"`
	TalukID  uuid.UUID `json:"taluk_id" gorm:"type:uuid;not null;index"`
	LGDCode  *string   `json:"lgd_code,omitempty" gorm:"uniqueIndex"`
	IsActive bool      `json:"is_active"`
}

func (Village) TableName() string { return "locations.villages" }

// Ward rows synthesized from ward counts carry ordinal string labels; they
// are UI-completeness placeholders, not authoritative electoral boundaries.
type Ward struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	WardNumber string    `json:"ward_number" gorm:"uniqueIndex:idx_wards_village_label"`
	VillageID  uuid.UUID `json:"village_id" gorm:"type:uuid;not null;uniqueIndex:idx_wards_village_label"`
}

func (Ward) TableName() string { return "locations.wards" }

// LocationDatasetVersion is the append-only audit trail: one row per
// successful import run, never mutated or deleted.
type LocationDatasetVersion struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Source       string          `json:"source"`
	Version      string          `json:"version"`
	Metadata     json.RawMessage `json:"metadata" gorm:"type:jsonb"`
	SampleIssues pq.StringArray  `json:"sample_issues" gorm:"type:text[]"`
	ImportedAt   time.Time       `json:"imported_at"`
}

func (LocationDatasetVersion) TableName() string { return "locations.dataset_versions" }
