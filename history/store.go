// Package history keeps the generations the user chose to archive, newest
// first, together with the set of favorite model profiles.
package history

import (
	"context"
	"errors"
	"time"

	"shootapi/filter"
	"shootapi/models"
)

var ErrNotFound = errors.New("generation record not found")

// Store is the generation history. Records are always listed newest first and
// deleting one keeps the relative order of the rest.
type Store interface {
	Add(ctx context.Context, outcome models.GenerationOutcome, gctx models.GenerationContext) (models.GenerationRecord, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.GenerationRecord, error)
	List(ctx context.Context) ([]models.GenerationRecord, error)
	Query(ctx context.Context, spec filter.Spec[models.GenerationRecord]) ([]models.GenerationRecord, error)

	ToggleFavorite(ctx context.Context, modelID string) (bool, error)
	IsFavorite(ctx context.Context, modelID string) (bool, error)
	Favorites(ctx context.Context) ([]string, error)

	Stats(ctx context.Context, now time.Time) (Stats, error)
	LoadSamples(ctx context.Context) error
	ClearSamples(ctx context.Context) error
}

// Clock is injected so tests can pin record timestamps.
type Clock func() time.Time

// Stats backs the dashboard counters.
type Stats struct {
	Total           int                       `json:"total"`
	ThisMonth       int                       `json:"this_month"`
	ModelsAvailable int                       `json:"models_available"`
	Recent          []models.GenerationRecord `json:"recent"`
}

const recentLimit = 4

func computeStats(records []models.GenerationRecord, now time.Time) Stats {
	stats := Stats{
		Total:           len(records),
		ModelsAvailable: models.CatalogSize(),
		Recent:          records[:min(recentLimit, len(records))],
	}
	for _, r := range records {
		created := r.CreatedAt.In(now.Location())
		if created.Year() == now.Year() && created.Month() == now.Month() {
			stats.ThisMonth++
		}
	}
	return stats
}

func newRecord(id string, now time.Time, outcome models.GenerationOutcome, gctx models.GenerationContext) models.GenerationRecord {
	return models.GenerationRecord{
		ID:          id,
		ProductName: gctx.ProductName(),
		Category:    gctx.Category,
		ModelName:   gctx.ModelName(),
		ImageURL:    outcome.ImageURL,
		Response:    outcome,
		CreatedAt:   now,
	}
}

func recordProductName(r models.GenerationRecord) string { return r.ProductName }
func recordCategory(r models.GenerationRecord) string    { return string(r.Category) }

// RecordSpec is the history screen filter: product name search plus a single
// category, where "all" or "" means any category.
func RecordSpec(query string, category string) filter.Spec[models.GenerationRecord] {
	spec := filter.Spec[models.GenerationRecord]{
		filter.Search("product_name", recordProductName, query),
	}
	if category != "" && category != "all" {
		spec = append(spec, filter.OneOf("category", recordCategory, category))
	}
	return spec
}
