package history

import (
	"strings"
	"time"

	"shootapi/models"
)

const SamplePrefix = "sample-"

func IsSample(id string) bool {
	return strings.HasPrefix(id, SamplePrefix)
}

// Samples returns the demo records shown when sample data is switched on.
func Samples() []models.GenerationRecord {
	day := func(d int) time.Time { return time.Date(2026, time.February, d, 12, 0, 0, 0, time.UTC) }
	return []models.GenerationRecord{
		{
			ID:          SamplePrefix + "1",
			ProductName: "Silk Evening Blouse",
			Category:    models.CategoryUpperBody,
			ModelName:   "Aria Chen",
			Response: models.GenerationOutcome{
				ImageDescription: "Elegant studio photograph featuring a silk evening blouse in champagne gold. Natural fabric draping with soft directional lighting.",
				ProductDetails:   "Champagne gold silk blouse with mandarin collar and concealed button placket. Lightweight, breathable fabric with subtle sheen.",
				ModelDetails:     "Aria Chen, Female, East Asian, Young Adult. Elegant pose, straight black hair falling over shoulders, warm skin tone complementing the champagne fabric.",
				StylingNotes:     "Studio setting with warm neutral backdrop. Key light from upper left creating gentle shadows. Hair styled naturally, minimal accessories to keep focus on the garment.",
			},
			CreatedAt: day(13),
		},
		{
			ID:          SamplePrefix + "2",
			ProductName: "Tailored Linen Trousers",
			Category:    models.CategoryLowerBody,
			ModelName:   "Marcus Johnson",
			Response: models.GenerationOutcome{
				ImageDescription: "Clean editorial photograph of tailored linen trousers in slate grey. Sharp creases, relaxed fit through the leg.",
				ProductDetails:   "Slate grey linen trousers with pressed front creases, belt loops, and tapered leg. Breathable weave suitable for warm-weather formal wear.",
				ModelDetails:     "Marcus Johnson, Male, African American, Adult. Confident stance, athletic build creating a strong silhouette.",
				StylingNotes:     "High-contrast studio lighting on white cyclorama. Full-length shot emphasizing the trouser silhouette. Paired with minimal white shirt to keep focus on the product.",
			},
			CreatedAt: day(12),
		},
		{
			ID:          SamplePrefix + "3",
			ProductName: "Leather Ankle Boots",
			Category:    models.CategoryFootwear,
			ModelName:   "Emma Larsson",
			Response: models.GenerationOutcome{
				ImageDescription: "Detail-focused product photograph of Italian leather ankle boots in cognac brown. Rich texture and precise stitching visible.",
				ProductDetails:   "Cognac brown Italian leather ankle boots with 3-inch block heel, side zip closure, and Goodyear welt construction.",
				ModelDetails:     "Emma Larsson, Female, Scandinavian, Adult. Tall, slim build. Shot from mid-calf down to highlight the boots.",
				StylingNotes:     "Warm directional lighting to enhance leather texture. Dark wood floor providing contrast. Shot angle slightly below eye level for a dynamic perspective.",
			},
			CreatedAt: day(11),
		},
	}
}
