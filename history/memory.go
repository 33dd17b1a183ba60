package history

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"shootapi/filter"
	"shootapi/models"
)

// MemoryStore is the default Store. It lives as long as the process and
// never fails.
type MemoryStore struct {
	mu        sync.Mutex
	now       Clock
	records   []models.GenerationRecord
	favorites []string
}

func NewMemoryStore(now Clock) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{now: now}
}

func (s *MemoryStore) Add(_ context.Context, outcome models.GenerationOutcome, gctx models.GenerationContext) (models.GenerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := newRecord(uuid.NewString(), s.now(), outcome, gctx)
	s.records = slices.Insert(s.records, 0, record)
	return record, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = slices.DeleteFunc(s.records, func(r models.GenerationRecord) bool { return r.ID == id })
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.GenerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.records, func(r models.GenerationRecord) bool { return r.ID == id })
	if i < 0 {
		return models.GenerationRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.records[i], nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.GenerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records), nil
}

func (s *MemoryStore) Query(ctx context.Context, spec filter.Spec[models.GenerationRecord]) ([]models.GenerationRecord, error) {
	records, _ := s.List(ctx)
	return filter.Evaluate(records, spec)
}

func (s *MemoryStore) ToggleFavorite(_ context.Context, modelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.favorites, modelID); i >= 0 {
		s.favorites = slices.Delete(s.favorites, i, i+1)
		return false, nil
	}
	s.favorites = append(s.favorites, modelID)
	return true, nil
}

func (s *MemoryStore) IsFavorite(_ context.Context, modelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Contains(s.favorites, modelID), nil
}

func (s *MemoryStore) Favorites(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.favorites), nil
}

func (s *MemoryStore) Stats(ctx context.Context, now time.Time) (Stats, error) {
	records, _ := s.List(ctx)
	return computeStats(records, now), nil
}

// LoadSamples appends the sample records that are not already present. They
// are older than anything the user generated, so they go last.
func (s *MemoryStore) LoadSamples(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sample := range Samples() {
		exists := slices.ContainsFunc(s.records, func(r models.GenerationRecord) bool { return r.ID == sample.ID })
		if !exists {
			s.records = append(s.records, sample)
		}
	}
	return nil
}

func (s *MemoryStore) ClearSamples(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = slices.DeleteFunc(s.records, func(r models.GenerationRecord) bool { return IsSample(r.ID) })
	return nil
}
