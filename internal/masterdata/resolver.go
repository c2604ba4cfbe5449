package masterdata

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/janmitra/locmaster/internal/locations"
)

// Resolver maps a raw (code, name, parent-scope) triple from a source row to
// a persisted entity. The cascade is fixed-precedence: LGD code, then
// alias/canonical name within the parent scope, then fuzzy containment on the
// letters-only forms. Each stage runs only if the previous found nothing.
type Resolver struct {
	idx  *Index
	norm *Normalizer
}

func NewResolver(idx *Index) *Resolver {
	return &Resolver{idx: idx, norm: idx.norm}
}

// Unresolved records a row the cascade could not place: which level failed,
// the raw identifying fields, and a parent-scope label for grouped reporting.
type Unresolved struct {
	Level string
	Code  string
	Name  string
	Scope string
}

// GroupKey collapses repeats in the summary: five hundred villages under one
// unmapped district report as a single line.
func (u *Unresolved) GroupKey() string {
	return u.Level + "|" + u.Code + "|" + u.Name + "|" + u.Scope
}

func (u *Unresolved) Reason() string {
	if u.Scope != "" {
		return fmt.Sprintf("unresolved %s: code=%q name=%q in %s", u.Level, u.Code, u.Name, u.Scope)
	}
	return fmt.Sprintf("unresolved %s: code=%q name=%q", u.Level, u.Code, u.Name)
}

// District resolves a district by LGD code, then canonical name, then fuzzy
// containment over all districts.
func (r *Resolver) District(code, name string) (*locations.District, *Unresolved) {
	if code != "" {
		if d, ok := r.idx.districtByLGD[code]; ok {
			return d, nil
		}
	}
	canon := r.norm.CanonicalDistrict(name)
	if ds := r.idx.districtByName[canon]; len(ds) > 0 {
		return ds[0], nil
	}
	if d := pickFuzzy(canon, r.idx.districts, func(d *locations.District) string {
		return r.norm.CanonicalDistrict(d.Name)
	}); d != nil {
		return d, nil
	}
	return nil, &Unresolved{Level: "district", Code: code, Name: name}
}

// Taluk resolves a taluk within a district scope.
func (r *Resolver) Taluk(code, name string, districtID uuid.UUID) (*locations.Taluk, *Unresolved) {
	if code != "" {
		if t, ok := r.idx.talukByLGD[code]; ok {
			return t, nil
		}
	}
	normName := r.norm.Normalize(name)
	if ts := r.idx.talukByName[nameKey{Parent: districtID, Name: normName}]; len(ts) > 0 {
		return ts[0], nil
	}
	if t := pickFuzzy(normName, r.idx.taluksIn[districtID], func(t *locations.Taluk) string {
		return r.norm.Normalize(t.Name)
	}); t != nil {
		return t, nil
	}
	return nil, &Unresolved{Level: "taluk", Code: code, Name: name, Scope: "district " + districtID.String()}
}

// Village resolves a village within a taluk scope.
func (r *Resolver) Village(code, name string, talukID uuid.UUID) (*locations.Village, *Unresolved) {
	if code != "" {
		if v, ok := r.idx.villageByLGD[code]; ok {
			return v, nil
		}
	}
	normName := r.norm.Normalize(name)
	if vs := r.idx.villageByName[nameKey{Parent: talukID, Name: normName}]; len(vs) > 0 {
		return vs[0], nil
	}
	if v := pickFuzzy(normName, r.idx.villagesIn[talukID], func(v *locations.Village) string {
		return r.norm.Normalize(v.Name)
	}); v != nil {
		return v, nil
	}
	return nil, &Unresolved{Level: "village", Code: code, Name: name, Scope: "taluk " + talukID.String()}
}

var nonAlpha = regexp.MustCompile(`[^A-Z]`)

func lettersOnly(s string) string {
	return nonAlpha.ReplaceAllString(strings.ToUpper(s), "")
}

// pickFuzzy implements the containment stage: both sides reduced to letters
// only, a candidate qualifies when the forms are equal or one contains the
// other. The tie-break among qualifying candidates is deterministic: lowest
// edit distance to the query, then shortest name, then lexicographic.
func pickFuzzy[T any](name string, candidates []*T, keyOf func(*T) string) *T {
	query := lettersOnly(name)
	if query == "" {
		return nil
	}

	type scored struct {
		entity *T
		key    string
		dist   int
	}
	var matches []scored
	for _, c := range candidates {
		key := lettersOnly(keyOf(c))
		if key == "" {
			continue
		}
		if key == query || strings.Contains(key, query) || strings.Contains(query, key) {
			matches = append(matches, scored{entity: c, key: key, dist: fuzzy.LevenshteinDistance(query, key)})
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		if len(matches[i].key) != len(matches[j].key) {
			return len(matches[i].key) < len(matches[j].key)
		}
		return matches[i].key < matches[j].key
	})
	return matches[0].entity
}
