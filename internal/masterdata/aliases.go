package masterdata

import (
	"encoding/json"
	"fmt"
	"os"
)

// ULBMatch pins an urban local body that cannot be resolved by name alone to
// its taluk and district.
type ULBMatch struct {
	Taluk    string `json:"taluk"`
	District string `json:"district"`
}

// Aliases is the single consolidated alias table shared by every import.
// District and name keys/values are in normalized (post-strip, uppercase)
// form; ULB keys are lowercased normalized ULB names.
type Aliases struct {
	Districts  map[string]string   `json:"districts"`
	Names      map[string]string   `json:"names"`
	ULBMatches map[string]ULBMatch `json:"ulb_matches"`
}

// DefaultAliases returns the compiled-in table covering the transliteration
// variants observed in the LGD directory and the ULB ward-count sources.
func DefaultAliases() *Aliases {
	return &Aliases{
		Districts: map[string]string{
			"KANCHEEPURAM":    "KANCHIPURAM",
			"VILUPPURAM":      "VILLUPURAM",
			"TUTICORIN":       "THOOTHUKUDI",
			"TUTICORIN DIST":  "THOOTHUKUDI",
			"TIRUCHIRAPALLI":  "TIRUCHIRAPPALLI",
			"TRICHY":          "TIRUCHIRAPPALLI",
			"THIRUVALLUR":     "TIRUVALLUR",
			"THIRUVANNAMALAI": "TIRUVANNAMALAI",
			"NAGAPPATTINAM":   "NAGAPATTINAM",
			"THE NILGIRIS":    "NILGIRIS",
			"VIRUDUNAGAR":     "VIRUDHUNAGAR",
			"KANYAKUMARI":     "KANNIYAKUMARI",
			"TANJORE":         "THANJAVUR",
			"MADRAS":          "CHENNAI",
		},
		Names: map[string]string{
			"ARAKONAM":   "ARAKKONAM",
			"POONAMALLE": "POONAMALLEE",
			"TIRUTANI":   "TIRUTTANI",
			"GUDIYATTAM": "GUDIYATHAM",
			"KOVILPATTY": "KOVILPATTI",
			"MAYAVARAM":  "MAYILADUTHURAI",
			"SHOLINGUR":  "SHOLINGHUR",
			"OOTACAMUND": "UDHAGAMANDALAM",
		},
		ULBMatches: map[string]ULBMatch{
			"arakonam":  {Taluk: "Arakkonam", District: "Ranipet"},
			"ooty":      {Taluk: "Udhagamandalam", District: "Nilgiris"},
			"tuticorin": {Taluk: "Thoothukudi", District: "Thoothukudi"},
			"karaikudi": {Taluk: "Karaikudi", District: "Sivaganga"},
		},
	}
}

// MergeFile overlays a JSON alias file (same shape as Aliases) on top of the
// table. Entries in the file win over compiled-in defaults.
func (a *Aliases) MergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return err
	}

	var extra Aliases
	if err := json.Unmarshal(raw, &extra); err != nil {
		return fmt.Errorf("parse alias file %s: %w", path, err)
	}

	for k, v := range extra.Districts {
		a.Districts[k] = v
	}
	for k, v := range extra.Names {
		a.Names[k] = v
	}
	for k, v := range extra.ULBMatches {
		a.ULBMatches[k] = v
	}
	return nil
}
