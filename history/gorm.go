package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shootapi/filter"
	"shootapi/models"
)

// GormStore persists history and favorites in a database. Unlike MemoryStore,
// favorites survive a restart.
type GormStore struct {
	db  *gorm.DB
	now Clock
}

func NewGormStore(db *gorm.DB, now Clock) *GormStore {
	if now == nil {
		now = time.Now
	}
	return &GormStore{db: db, now: now}
}

func (s *GormStore) Add(ctx context.Context, outcome models.GenerationOutcome, gctx models.GenerationContext) (models.GenerationRecord, error) {
	record := newRecord(uuid.NewString(), s.now(), outcome, gctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var top int64
		if err := tx.Model(&models.GenerationRecord{}).Select("COALESCE(MAX(sequence), 0)").Scan(&top).Error; err != nil {
			return err
		}
		record.Sequence = top + 1
		return tx.Create(&record).Error
	})
	if err != nil {
		return models.GenerationRecord{}, fmt.Errorf("saving generation: %w", err)
	}
	return record, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.GenerationRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting generation %s: %w", id, err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id string) (models.GenerationRecord, error) {
	var record models.GenerationRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.GenerationRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return models.GenerationRecord{}, fmt.Errorf("loading generation %s: %w", id, err)
	}
	return record, nil
}

func (s *GormStore) List(ctx context.Context) ([]models.GenerationRecord, error) {
	var records []models.GenerationRecord
	if err := s.db.WithContext(ctx).Order("sequence desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	return records, nil
}

func (s *GormStore) Query(ctx context.Context, spec filter.Spec[models.GenerationRecord]) ([]models.GenerationRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Evaluate(records, spec)
}

func (s *GormStore) ToggleFavorite(ctx context.Context, modelID string) (bool, error) {
	var added bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.FavoriteModel{}, "model_id = ?", modelID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		added = true
		return tx.Create(&models.FavoriteModel{ModelID: modelID, CreatedAt: s.now()}).Error
	})
	if err != nil {
		return false, fmt.Errorf("toggling favorite %s: %w", modelID, err)
	}
	return added, nil
}

func (s *GormStore) IsFavorite(ctx context.Context, modelID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.FavoriteModel{}).Where("model_id = ?", modelID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking favorite %s: %w", modelID, err)
	}
	return count > 0, nil
}

func (s *GormStore) Favorites(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := s.db.WithContext(ctx).Model(&models.FavoriteModel{}).Order("created_at").Pluck("model_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return ids, nil
}

func (s *GormStore) Stats(ctx context.Context, now time.Time) (Stats, error) {
	records, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return computeStats(records, now), nil
}

// LoadSamples inserts the sample records below every existing record.
func (s *GormStore) LoadSamples(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bottom int64
		if err := tx.Model(&models.GenerationRecord{}).Select("COALESCE(MIN(sequence), 1)").Scan(&bottom).Error; err != nil {
			return err
		}
		samples := Samples()
		for i := range samples {
			samples[i].Sequence = bottom - int64(i) - 1
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&samples).Error
	})
	if err != nil {
		return fmt.Errorf("loading samples: %w", err)
	}
	return nil
}

func (s *GormStore) ClearSamples(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&models.GenerationRecord{}, "id LIKE ?", SamplePrefix+"%").Error; err != nil {
		return fmt.Errorf("clearing samples: %w", err)
	}
	return nil
}
