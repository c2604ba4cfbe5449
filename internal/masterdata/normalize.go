package masterdata

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes free-text administrative names. Normalize is
// idempotent: every alias value is itself a normalized fixed point.
type Normalizer struct {
	aliases *Aliases
}

func NewNormalizer(aliases *Aliases) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Normalizer{aliases: aliases}
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var invalidChars = regexp.MustCompile(`[^A-Z0-9 \-.()]`)

// Administrative-unit suffixes stripped when they appear as whole trailing
// words. Multi-word phrases come first so "TOWN PANCHAYAT" is not left as a
// dangling "TOWN".
var unitSuffixes = []string{
	"MUNICIPAL CORPORATION",
	"TOWN PANCHAYAT",
	"PANCHAYAT UNION",
	"CITY CORPORATION",
	"CORPORATION",
	"MUNICIPALITY",
	"PANCHAYAT",
	"BLOCK",
	"TALUK",
	"DISTRICT",
	"(M)",
	"(TP)",
	"(CT)",
	"(CB)",
}

// Normalize runs the canonicalization pipeline: trim, accent fold, uppercase,
// collapse whitespace, strip stray characters, strip trailing unit suffixes,
// then apply the alias table on the post-strip string.
func (n *Normalizer) Normalize(raw string) string {
	s, _, _ := transform.String(foldAccents, strings.TrimSpace(raw))
	s = strings.ToUpper(s)
	s = invalidChars.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	s = stripUnitSuffixes(s)

	if canon, ok := n.aliases.Names[s]; ok {
		return canon
	}
	return s
}

// CanonicalDistrict maps known transliteration variants of a district name to
// the one spelling used for all downstream name-based matching.
func (n *Normalizer) CanonicalDistrict(raw string) string {
	s := n.Normalize(raw)
	if canon, ok := n.aliases.Districts[s]; ok {
		return canon
	}
	return s
}

// ULBKey is the lookup key into the manual-match table: the lowercased ULB
// name with its unit suffix stripped. Deliberately not alias-substituted, so
// manual entries for misspelled source names stay reachable.
func (n *Normalizer) ULBKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(StripUnitSuffix(raw)), " "))
}

// StripUnitSuffix removes a trailing administrative-unit suffix from a raw
// name while preserving its casing: "Arakonam Municipality" -> "Arakonam".
// Used for display names; matching always goes through Normalize.
func StripUnitSuffix(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	for {
		upper := strings.ToUpper(s)
		stripped := s
		for _, suffix := range unitSuffixes {
			if upper != suffix && strings.HasSuffix(upper, " "+suffix) {
				stripped = strings.TrimSpace(s[:len(s)-len(suffix)])
				break
			}
		}
		if stripped == s {
			return s
		}
		s = stripped
	}
}

func stripUnitSuffixes(s string) string {
	for {
		stripped := s
		for _, suffix := range unitSuffixes {
			if s == suffix {
				// A name that is nothing but a unit word stays as-is.
				continue
			}
			if strings.HasSuffix(s, " "+suffix) {
				stripped = strings.TrimSpace(strings.TrimSuffix(s, suffix))
				break
			}
		}
		if stripped == s {
			return s
		}
		s = stripped
	}
}
