package masterdata

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/janmitra/locmaster/internal/locations"
)

// WardStore is the slice of the store ward synthesis needs.
type WardStore interface {
	CountWards(villageID uuid.UUID) (int64, error)
	CreateWards([]locations.Ward) (int64, error)
}

// SynthesizeWards brings a village up to target ordinal ward labels "1"..N.
// Synthesis is monotonically additive: labels at or below the current
// persisted count are never touched, and a second call with the same target
// creates nothing.
func SynthesizeWards(store WardStore, villageID uuid.UUID, target int) (created, already int64, err error) {
	count, err := store.CountWards(villageID)
	if err != nil {
		return 0, 0, err
	}

	already = count
	if int64(target) < already {
		already = int64(target)
	}
	if count >= int64(target) {
		return 0, already, nil
	}

	rows := make([]locations.Ward, 0, int64(target)-count)
	for i := count + 1; i <= int64(target); i++ {
		label := strconv.FormatInt(i, 10)
		rows = append(rows, locations.Ward{
			ID:         WardID(villageID, label),
			WardNumber: label,
			VillageID:  villageID,
		})
	}

	created, err = store.CreateWards(rows)
	return created, already, err
}
