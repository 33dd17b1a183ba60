package textblocks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Collect(""))
	count := 0
	for range ParseOptional(nil) {
		count++
	}
	assert.Equal(t, 0, count)
}

func TestParseBoldParagraph(t *testing.T) {
	got := Collect("**bold**")
	want := []Block{{Kind: KindParagraph, Spans: []Span{{Text: "bold", Emphasized: true}}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected blocks (-want +got):\n%s", diff)
	}
}

func TestParseUnorderedItems(t *testing.T) {
	got := Collect("- item one\n- item two")
	require.Len(t, got, 2)
	for i, text := range []string{"item one", "item two"} {
		assert.Equal(t, KindUnorderedItem, got[i].Kind)
		assert.Equal(t, text, got[i].Text())
	}
}

func TestParseClassification(t *testing.T) {
	text := "# Title\n## Section\n### Detail\n* star item\n12. twelfth\n   \nplain **warm** light and **soft** shadows\n#no space"
	want := []Block{
		{Kind: KindHeading, Level: 1, Spans: []Span{{Text: "Title"}}},
		{Kind: KindHeading, Level: 2, Spans: []Span{{Text: "Section"}}},
		{Kind: KindHeading, Level: 3, Spans: []Span{{Text: "Detail"}}},
		{Kind: KindUnorderedItem, Spans: []Span{{Text: "star item"}}},
		{Kind: KindOrderedItem, Spans: []Span{{Text: "twelfth"}}},
		{Kind: KindSpacer},
		{Kind: KindParagraph, Spans: []Span{
			{Text: "plain "},
			{Text: "warm", Emphasized: true},
			{Text: " light and "},
			{Text: "soft", Emphasized: true},
			{Text: " shadows"},
		}},
		{Kind: KindParagraph, Spans: []Span{{Text: "#no space"}}},
	}
	if diff := cmp.Diff(want, Collect(text)); diff != "" {
		t.Fatalf("unexpected blocks (-want +got):\n%s", diff)
	}
}

func TestParseOrderedMarkerNeedsWhitespace(t *testing.T) {
	got := Collect("1.5 metres of silk")
	require.Len(t, got, 1)
	assert.Equal(t, KindParagraph, got[0].Kind)
	assert.Equal(t, "1.5 metres of silk", got[0].Text())
}

func TestParseTrailingNewlineYieldsSpacer(t *testing.T) {
	got := Collect("Warm light.\n")
	require.Len(t, got, 2)
	assert.Equal(t, KindParagraph, got[0].Kind)
	assert.Equal(t, KindSpacer, got[1].Kind)
	assert.Nil(t, got[1].Spans)
}

// Unpaired ** is kept literally. This mirrors the behavior the UI has always
// had; change it deliberately if ever.
func TestParseUnpairedEmphasisIsLiteral(t *testing.T) {
	got := Collect("a **dangling marker")
	require.Len(t, got, 1)
	assert.Equal(t, []Span{{Text: "a **dangling marker"}}, got[0].Spans)

	got = Collect("**one** and **two")
	require.Len(t, got, 1)
	assert.Equal(t, []Span{
		{Text: "one", Emphasized: true},
		{Text: " and **two"},
	}, got[0].Spans)
}

func TestParseIsRestartableAndDeterministic(t *testing.T) {
	seq := Parse("## Notes\n- **Key** light\n\n1. Backdrop")
	var first, second []Block
	for b := range seq {
		first = append(first, b)
	}
	for b := range seq {
		second = append(second, b)
	}
	assert.Equal(t, first, second)
	assert.Equal(t, first, Collect("## Notes\n- **Key** light\n\n1. Backdrop"))
}

func TestParseStopsWhenConsumerBreaks(t *testing.T) {
	var seen []Block
	for b := range Parse("a\nb\nc") {
		seen = append(seen, b)
		if len(seen) == 2 {
			break
		}
	}
	assert.Len(t, seen, 2)
}
