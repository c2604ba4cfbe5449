package masterdata

import (
	"github.com/google/uuid"

	"github.com/janmitra/locmaster/internal/locations"
)

type nameKey struct {
	Parent uuid.UUID
	Name   string
}

// Index is a one-shot snapshot of the persisted hierarchy, built once per
// run. It is never refreshed from the store mid-run; rows a pipeline creates
// are made visible to later rows only through AddTaluk/AddVillage on the
// pipeline's own accumulation.
//
// Name maps hold slices because name uniqueness within a parent is a goal,
// not a constraint; ambiguity is surfaced, not hidden.
type Index struct {
	norm *Normalizer

	districts      []*locations.District
	districtByLGD  map[string]*locations.District
	districtByName map[string][]*locations.District

	talukByLGD  map[string]*locations.Taluk
	talukByName map[nameKey][]*locations.Taluk
	taluksIn    map[uuid.UUID][]*locations.Taluk

	villageByLGD  map[string]*locations.Village
	villageByName map[nameKey][]*locations.Village
	villagesIn    map[uuid.UUID][]*locations.Village
}

func BuildIndex(norm *Normalizer, districts []locations.District, taluks []locations.Taluk, villages []locations.Village) *Index {
	idx := &Index{
		norm:           norm,
		districtByLGD:  make(map[string]*locations.District),
		districtByName: make(map[string][]*locations.District),
		talukByLGD:     make(map[string]*locations.Taluk),
		talukByName:    make(map[nameKey][]*locations.Taluk),
		taluksIn:       make(map[uuid.UUID][]*locations.Taluk),
		villageByLGD:   make(map[string]*locations.Village),
		villageByName:  make(map[nameKey][]*locations.Village),
		villagesIn:     make(map[uuid.UUID][]*locations.Village),
	}

	for i := range districts {
		d := &districts[i]
		idx.districts = append(idx.districts, d)
		if d.LGDCode != nil {
			idx.districtByLGD[*d.LGDCode] = d
		}
		name := norm.CanonicalDistrict(d.Name)
		idx.districtByName[name] = append(idx.districtByName[name], d)
	}
	for i := range taluks {
		idx.addTaluk(&taluks[i])
	}
	for i := range villages {
		idx.addVillage(&villages[i])
	}
	return idx
}

func (idx *Index) addTaluk(t *locations.Taluk) {
	if t.LGDCode != nil {
		idx.talukByLGD[*t.LGDCode] = t
	}
	key := nameKey{Parent: t.DistrictID, Name: idx.norm.Normalize(t.Name)}
	idx.talukByName[key] = append(idx.talukByName[key], t)
	idx.taluksIn[t.DistrictID] = append(idx.taluksIn[t.DistrictID], t)
}

func (idx *Index) addVillage(v *locations.Village) {
	if v.LGDCode != nil {
		idx.villageByLGD[*v.LGDCode] = v
	}
	key := nameKey{Parent: v.TalukID, Name: idx.norm.Normalize(v.Name)}
	idx.villageByName[key] = append(idx.villageByName[key], v)
	idx.villagesIn[v.TalukID] = append(idx.villagesIn[v.TalukID], v)
}

// AddTaluk makes a taluk created earlier in the same run resolvable by the
// rows that follow it.
func (idx *Index) AddTaluk(t *locations.Taluk) { idx.addTaluk(t) }

// AddVillage makes a village created earlier in the same run resolvable by
// the rows that follow it.
func (idx *Index) AddVillage(v *locations.Village) { idx.addVillage(v) }

// VillageByLGD is the exact-code lookup used by classification; unlike the
// Resolver cascade it never falls back to fuzzy matching.
func (idx *Index) VillageByLGD(code string) *locations.Village {
	return idx.villageByLGD[code]
}

// VillageByName is the exact normalized-name-within-parent lookup used by
// classification. The caller passes an already-normalized name.
func (idx *Index) VillageByName(talukID uuid.UUID, normName string) []*locations.Village {
	return idx.villageByName[nameKey{Parent: talukID, Name: normName}]
}

// SetTalukLGD records an in-run LGD backfill so later rows carrying the same
// code hit the code map instead of falling through to name matching.
func (idx *Index) SetTalukLGD(t *locations.Taluk, code string) {
	t.LGDCode = &code
	idx.talukByLGD[code] = t
}
