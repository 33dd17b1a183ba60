package models

import (
	"errors"
	"fmt"
	"slices"

	"shootapi/filter"
)

var ErrUnknownModel = errors.New("unknown model profile")

// ModelProfile is one synthetic model from the fixed catalog.
type ModelProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Ethnicity   string `json:"ethnicity"`
	AgeRange    string `json:"age_range"`
	Description string `json:"description"`
}

var catalog = []ModelProfile{
	{ID: "model-1", Name: "Aria Chen", Gender: "Female", Ethnicity: "East Asian", AgeRange: "Young Adult", Description: "Elegant pose, straight black hair, warm skin tone"},
	{ID: "model-2", Name: "Marcus Johnson", Gender: "Male", Ethnicity: "African American", AgeRange: "Adult", Description: "Athletic build, confident stance, short cropped hair"},
	{ID: "model-3", Name: "Sofia Rodriguez", Gender: "Female", Ethnicity: "Hispanic/Latina", AgeRange: "Young Adult", Description: "Curvy figure, long wavy brown hair, radiant smile"},
	{ID: "model-4", Name: "James Mitchell", Gender: "Male", Ethnicity: "Caucasian", AgeRange: "Adult", Description: "Tall, lean build, sandy blonde hair, clean-shaven"},
	{ID: "model-5", Name: "Priya Sharma", Gender: "Female", Ethnicity: "South Asian", AgeRange: "Young Adult", Description: "Graceful posture, long dark hair, warm brown eyes"},
	{ID: "model-6", Name: "Kwame Asante", Gender: "Male", Ethnicity: "West African", AgeRange: "Young Adult", Description: "Muscular build, dark skin, bright white smile"},
	{ID: "model-7", Name: "Emma Larsson", Gender: "Female", Ethnicity: "Scandinavian", AgeRange: "Adult", Description: "Tall, slim build, platinum blonde hair, blue eyes"},
	{ID: "model-8", Name: "Yuki Tanaka", Gender: "Non-binary", Ethnicity: "Japanese", AgeRange: "Young Adult", Description: "Androgynous look, styled short hair, minimalist aesthetic"},
	{ID: "model-9", Name: "Diego Morales", Gender: "Male", Ethnicity: "Mexican", AgeRange: "Mature", Description: "Distinguished look, salt-and-pepper hair, warm complexion"},
	{ID: "model-10", Name: "Amara Okafor", Gender: "Female", Ethnicity: "Nigerian", AgeRange: "Adult", Description: "Statuesque figure, rich dark skin, braided hair"},
	{ID: "model-11", Name: "Liam O'Brien", Gender: "Male", Ethnicity: "Irish", AgeRange: "Young Adult", Description: "Athletic build, red hair, freckled fair skin"},
	{ID: "model-12", Name: "Mei Lin", Gender: "Female", Ethnicity: "Chinese", AgeRange: "Adult", Description: "Petite frame, elegant bone structure, straight dark hair"},
}

var (
	genderOptions    = []string{"Female", "Male", "Non-binary"}
	ethnicityOptions = []string{"East Asian", "African American", "Hispanic/Latina", "Caucasian", "South Asian", "West African", "Scandinavian", "Japanese", "Mexican", "Nigerian", "Irish", "Chinese"}
	ageOptions       = []string{"Young Adult", "Adult", "Mature"}
)

// CatalogOptions lists the values the gallery filters offer.
type CatalogOptions struct {
	Genders     []string   `json:"genders"`
	Ethnicities []string   `json:"ethnicities"`
	AgeRanges   []string   `json:"age_ranges"`
	Categories  []Category `json:"categories"`
}

// Catalog returns a copy of every model profile, in catalog order.
func Catalog() []ModelProfile {
	return slices.Clone(catalog)
}

func CatalogSize() int {
	return len(catalog)
}

func Options() CatalogOptions {
	return CatalogOptions{
		Genders:     slices.Clone(genderOptions),
		Ethnicities: slices.Clone(ethnicityOptions),
		AgeRanges:   slices.Clone(ageOptions),
		Categories:  Categories(),
	}
}

func FindModel(id string) (ModelProfile, error) {
	i := slices.IndexFunc(catalog, func(m ModelProfile) bool { return m.ID == id })
	if i < 0 {
		return ModelProfile{}, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return catalog[i], nil
}

func modelName(m ModelProfile) string      { return m.Name }
func modelGender(m ModelProfile) string    { return m.Gender }
func modelEthnicity(m ModelProfile) string { return m.Ethnicity }
func modelAgeRange(m ModelProfile) string  { return m.AgeRange }

// CatalogSpec is the gallery filter: name search plus multi-select gender,
// ethnicity and age range.
func CatalogSpec(query string, genders, ethnicities, ageRanges []string) filter.Spec[ModelProfile] {
	return filter.Spec[ModelProfile]{
		filter.Search("name", modelName, query),
		filter.OneOf("gender", modelGender, genders...),
		filter.OneOf("ethnicity", modelEthnicity, ethnicities...),
		filter.OneOf("age_range", modelAgeRange, ageRanges...),
	}
}

// PickerSpec is the single gender picker of the photoshoot screen. "all" or
// an empty gender leaves the catalog unconstrained.
func PickerSpec(gender string) filter.Spec[ModelProfile] {
	if gender == "" || gender == "all" {
		return filter.Spec[ModelProfile]{filter.OneOf("gender", modelGender)}
	}
	return filter.Spec[ModelProfile]{filter.OneOf("gender", modelGender, gender)}
}
