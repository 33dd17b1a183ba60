package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type garment struct {
	Name     string
	Category string
	Color    string
}

func garmentName(g garment) string     { return g.Name }
func garmentCategory(g garment) string { return g.Category }
func garmentColor(g garment) string    { return g.Color }

var wardrobe = []garment{
	{Name: "Silk Evening Blouse", Category: "Upper Body", Color: "ivory"},
	{Name: "Tailored Linen Trousers", Category: "Lower Body", Color: "sand"},
	{Name: "Leather Ankle Boots", Category: "Footwear", Color: "black"},
	{Name: "Silk Scarf", Category: "Accessories", Color: "black"},
}

func TestEmptySpecIsIdentity(t *testing.T) {
	got, err := Evaluate(wardrobe, nil)
	require.NoError(t, err)
	assert.Equal(t, wardrobe, got)

	got, err = Evaluate(wardrobe, Spec[garment]{})
	require.NoError(t, err)
	assert.Equal(t, wardrobe, got)
}

func TestEmptyCategoricalIsNeutral(t *testing.T) {
	got, err := Evaluate(wardrobe, Spec[garment]{OneOf("category", garmentCategory)})
	require.NoError(t, err)
	assert.Equal(t, wardrobe, got)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	got, err := Evaluate(wardrobe, Spec[garment]{Search("name", garmentName, "SILK")})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Silk Evening Blouse", got[0].Name)
	assert.Equal(t, "Silk Scarf", got[1].Name)
}

func TestEmptyQueryMatchesEverything(t *testing.T) {
	got, err := Evaluate(wardrobe, Spec[garment]{Search("name", garmentName, "")})
	require.NoError(t, err)
	assert.Equal(t, wardrobe, got)
}

func TestPredicatesCombine(t *testing.T) {
	spec := Spec[garment]{
		Search("name", garmentName, "silk"),
		OneOf("color", garmentColor, "black", "red"),
	}
	got, err := Evaluate(wardrobe, spec)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Silk Scarf", got[0].Name)

	spec = Spec[garment]{OneOf("category", garmentCategory, "Footwear", "Lower Body")}
	got, err = Evaluate(wardrobe, spec)
	require.NoError(t, err)
	assert.Equal(t, []garment{wardrobe[1], wardrobe[2]}, got)
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	input := append([]garment(nil), wardrobe...)
	values := []string{"Footwear"}
	spec := Spec[garment]{OneOf("category", garmentCategory, values...)}
	values[0] = "Accessories"

	got, err := Evaluate(input, spec)
	require.NoError(t, err)
	assert.Equal(t, wardrobe, input)
	require.Len(t, got, 1)
	assert.Equal(t, "Leather Ankle Boots", got[0].Name)
}

func TestNoMatchesIsEmptyNotError(t *testing.T) {
	got, err := Evaluate(wardrobe, Spec[garment]{Search("name", garmentName, "denim")})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMalformedSpec(t *testing.T) {
	cases := map[string]Spec[garment]{
		"nil predicate":   {nil},
		"empty name":      {Search("", garmentName, "x")},
		"nil accessor":    {OneOf[garment]("category", nil, "Footwear")},
		"nil search":      {Search[garment]("name", nil, "x")},
		"duplicate names": {Search("name", garmentName, "a"), OneOf("name", garmentCategory)},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Evaluate(wardrobe, spec)
			assert.ErrorIs(t, err, ErrMalformedSpec)
			assert.Nil(t, got)
		})
	}
}
