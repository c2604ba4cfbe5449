package masterdata

import "github.com/google/uuid"

// Namespace for deterministic entity IDs. Synthesized wards and ULB-derived
// villages get v5 IDs keyed on their parent and label, so the same logical
// row always produces the same primary key and create-with-skip-duplicates
// is a real idempotency check. Stable forever.
var idNamespace = uuid.MustParse("7c9e2f0a-4b1d-4a43-9a71-5cf3a2e8d910")

func WardID(villageID uuid.UUID, label string) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte("ward:"+villageID.String()+":"+label))
}

// ULBVillageID derives the ID for a village synthesized from an urban local
// body row. normName is the normalized ULB name.
func ULBVillageID(talukID uuid.UUID, normName string) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte("ulb-village:"+talukID.String()+":"+normName))
}
