package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mcthoma1/food-ai/models"
	"github.com/mcthoma1/food-ai/utils"
)

// historyKey is the one storage key the whole food log lives under, kept
// identical to the mobile client's local store key.
const historyKey = "foodai/history:v1"

// BlobStore is the narrow key-value contract the history layer needs.
type BlobStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// GormBlobStore keeps blobs in the kv_records table.
type GormBlobStore struct {
	db *gorm.DB
}

func NewGormBlobStore(db *gorm.DB) *GormBlobStore {
	return &GormBlobStore{db: db}
}

func (s *GormBlobStore) Get(key string) ([]byte, bool, error) {
	var rec models.KVRecord
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Value, true, nil
}

func (s *GormBlobStore) Put(key string, value []byte) error {
	rec := models.KVRecord{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
}

func (s *GormBlobStore) Delete(key string) error {
	return s.db.Delete(&models.KVRecord{}, "key = ?", key).Error
}

// HistoryService persists the daily food log: a newest-first list of
// entries under a single key, read-modify-write on each add. Single-writer
// by contract — only one confirmation can be in flight.
type HistoryService struct {
	store BlobStore
}

func NewHistoryService(store BlobStore) *HistoryService {
	return &HistoryService{store: store}
}

func (s *HistoryService) Entries() ([]models.Entry, error) {
	raw, ok, err := s.store.Get(historyKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Entry{}, nil
	}
	var list []models.Entry
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("corrupt history blob: %w", err)
	}
	return list, nil
}

// Add prepends the entry so the history view reads newest first.
func (s *HistoryService) Add(e models.Entry) error {
	list, err := s.Entries()
	if err != nil {
		return err
	}
	list = append([]models.Entry{e}, list...)
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.store.Put(historyKey, raw)
}

// TodayTotal sums totalKcal over entries whose date matches the given
// YYYY-MM-DD string exactly. No range logic, no timezone conversion.
func (s *HistoryService) TodayTotal(date string) (int, error) {
	list, err := s.Entries()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range list {
		if e.Date == date {
			total += e.TotalKcal
		}
	}
	return total, nil
}

func (s *HistoryService) ClearAll() error {
	return s.store.Delete(historyKey)
}

// LocalDate formats t as the calendar day in the process's local zone.
func LocalDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// BuildEntry composes one log entry from the reviewed items, in selection
// order. Names missing from the facts map (a blanked fetch) are skipped;
// names mapped to nil facts log with zero calories rather than being
// dropped. Items without an explicit quantity use the review screen's 100 g
// default.
func BuildEntry(names []string, facts map[string]*models.NutritionFacts, quantities map[string]models.Quantity) models.Entry {
	items := make([]models.EntryItem, 0, len(names))
	var sum float64
	for _, name := range names {
		base, ok := facts[name]
		if !ok {
			continue
		}

		q, ok := quantities[name]
		if !ok {
			q = models.Quantity{Mode: models.QuantityGrams, Value: 100}
		}
		scaled := utils.ScaleQuantity(base, q)

		item := models.EntryItem{
			Name:    name,
			Protein: scaled.Protein,
			Fat:     scaled.Fat,
			Carbs:   scaled.Carbs,
			Sugars:  scaled.Sugars,
			Fiber:   scaled.Fiber,
			Sodium:  scaled.Sodium,
		}
		if scaled.Calories != nil {
			item.Calories = *scaled.Calories
		}

		items = append(items, item)
		sum += item.Calories
	}

	return models.Entry{
		ID:        uuid.NewString(),
		Date:      LocalDate(time.Now()),
		Items:     items,
		TotalKcal: int(math.Round(sum)),
	}
}
