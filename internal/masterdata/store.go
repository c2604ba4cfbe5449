package masterdata

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/janmitra/locmaster/internal/locations"
)

// BatchSize is the flush size for queued creations.
const BatchSize = 1000

// Store exposes the handful of persistence primitives the pipelines consume:
// snapshot reads, batched create-with-skip-duplicates, conditional update,
// and count. Batch flushes are paced so an import cannot saturate the shared
// database.
type Store struct {
	db      *gorm.DB
	limiter *rate.Limiter
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, limiter: rate.NewLimiter(rate.Limit(10), 1)}
}

func (s *Store) FindDistricts() ([]locations.District, error) {
	var out []locations.District
	err := s.db.Order("name").Find(&out).Error
	return out, err
}

func (s *Store) FindTaluks() ([]locations.Taluk, error) {
	var out []locations.Taluk
	err := s.db.Order("name").Find(&out).Error
	return out, err
}

func (s *Store) FindVillages() ([]locations.Village, error) {
	var out []locations.Village
	err := s.db.Order("name").Find(&out).Error
	return out, err
}

func (s *Store) CountWards(villageID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.Model(&locations.Ward{}).Where("village_id = ?", villageID).Count(&n).Error
	return n, err
}

func (s *Store) CreateDistricts(rows []locations.District) (int64, error) {
	return createSkip(s, rows)
}

func (s *Store) CreateTaluks(rows []locations.Taluk) (int64, error) {
	return createSkip(s, rows)
}

func (s *Store) CreateVillages(rows []locations.Village) (int64, error) {
	return createSkip(s, rows)
}

func (s *Store) CreateWards(rows []locations.Ward) (int64, error) {
	return createSkip(s, rows)
}

// BackfillTalukLGD is the one permitted late mutation: give a taluk created
// without LGD provenance its code and promote it to an LGD block. The filter
// keeps it from ever overwriting an existing code.
func (s *Store) BackfillTalukLGD(id uuid.UUID, lgdCode string) (int64, error) {
	res := s.db.Model(&locations.Taluk{}).
		Where("id = ? AND lgd_code IS NULL", id).
		Updates(map[string]interface{}{"lgd_code": lgdCode, "is_lgd_block": true})
	return res.RowsAffected, res.Error
}

// RecordVersion appends one audit row for a successful run.
func (s *Store) RecordVersion(v *locations.LocationDatasetVersion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.ImportedAt.IsZero() {
		v.ImportedAt = time.Now().UTC()
	}
	return s.db.Create(v).Error
}

func createSkip[T any](s *Store, rows []T) (int64, error) {
	return batchCreate(rows, s.pacedCreate)
}

// pacedCreate is the single write primitive: ON CONFLICT DO NOTHING so an
// existing row is skipped, and rate-limited so an import cannot saturate the
// shared database.
func (s *Store) pacedCreate(dest interface{}) (int64, error) {
	_ = s.limiter.Wait(context.Background())
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(dest)
	return res.RowsAffected, res.Error
}

// batchCreate inserts rows in fixed-size chunks. A failing chunk falls back
// to row-at-a-time inserts to isolate the poison row; rows that still fail
// are absorbed as skipped, not raised, so one bad row cannot abort a run.
func batchCreate[T any](rows []T, create func(dest interface{}) (int64, error)) (int64, error) {
	var created int64
	for start := 0; start < len(rows); start += BatchSize {
		end := start + BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		n, err := create(&chunk)
		if err == nil {
			created += n
			continue
		}

		for i := range chunk {
			row := chunk[i]
			n, err := create(&row)
			if err != nil {
				continue
			}
			created += n
		}
	}
	return created, nil
}
