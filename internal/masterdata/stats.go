package masterdata

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// MaxReasons caps the human-readable skip/error list in the operator summary.
const MaxReasons = 25

// ImportStats is the structured outcome of one import run. Every recoverable
// row-level failure lands in a counter here; nothing is swallowed without
// being reflected in these numbers or the process exit code.
type ImportStats struct {
	TotalRows int `json:"total_rows"`
	Malformed int `json:"malformed"`
	Conflicts int `json:"conflicts"`

	TaluksCreated   int `json:"taluks_created"`
	TaluksUpdated   int `json:"taluks_updated"`
	VillagesCreated int `json:"villages_created"`

	Duplicates int `json:"duplicates"`
	Unresolved int `json:"unresolved"`

	WardsCreated        int `json:"wards_created"`
	WardsAlreadyPresent int `json:"wards_already_present"`

	reasons    []string
	reasonKeys map[string]bool
	overflow   int
}

// AddReason records a human-readable skip reason, deduplicated by key so
// repeated failures with the same cause produce one line, and capped at
// MaxReasons.
func (s *ImportStats) AddReason(key, msg string) {
	if s.reasonKeys == nil {
		s.reasonKeys = make(map[string]bool)
	}
	if s.reasonKeys[key] {
		return
	}
	s.reasonKeys[key] = true
	if len(s.reasons) >= MaxReasons {
		s.overflow++
		return
	}
	s.reasons = append(s.reasons, msg)
}

func (s *ImportStats) Reasons() []string { return s.reasons }

// Fields exposes the counters for structured logging.
func (s *ImportStats) Fields() logrus.Fields {
	return logrus.Fields{
		"total_rows":            s.TotalRows,
		"malformed":             s.Malformed,
		"conflicts":             s.Conflicts,
		"taluks_created":        s.TaluksCreated,
		"taluks_updated":        s.TaluksUpdated,
		"villages_created":      s.VillagesCreated,
		"duplicates":            s.Duplicates,
		"unresolved":            s.Unresolved,
		"wards_created":         s.WardsCreated,
		"wards_already_present": s.WardsAlreadyPresent,
	}
}

// Metadata renders the counters for the dataset-version audit row.
func (s *ImportStats) Metadata() json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}

// Summary renders the end-of-run operator report.
func (s *ImportStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows=%d malformed=%d conflicts=%d duplicates=%d unresolved=%d\n",
		s.TotalRows, s.Malformed, s.Conflicts, s.Duplicates, s.Unresolved)
	fmt.Fprintf(&b, "taluks: created=%d updated=%d\n", s.TaluksCreated, s.TaluksUpdated)
	fmt.Fprintf(&b, "villages: created=%d\n", s.VillagesCreated)
	fmt.Fprintf(&b, "wards: created=%d already_present=%d\n", s.WardsCreated, s.WardsAlreadyPresent)
	for _, r := range s.reasons {
		fmt.Fprintf(&b, "  - %s\n", r)
	}
	if s.overflow > 0 {
		fmt.Fprintf(&b, "  ... and %d more distinct reasons\n", s.overflow)
	}
	return b.String()
}
