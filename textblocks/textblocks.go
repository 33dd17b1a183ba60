// Package textblocks turns the agent's markdown-ish response text into typed
// blocks the UI can render without a markdown engine.
package textblocks

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

type Kind string

const (
	KindHeading       Kind = "heading"
	KindUnorderedItem Kind = "unordered_item"
	KindOrderedItem   Kind = "ordered_item"
	KindSpacer        Kind = "spacer"
	KindParagraph     Kind = "paragraph"
)

// Span is a run of inline text, emphasized when it was wrapped in **...**.
type Span struct {
	Text       string `json:"text"`
	Emphasized bool   `json:"emphasized,omitempty"`
}

// Block is one rendered line. Level is set for headings only (1-3).
// Spacers carry no spans.
type Block struct {
	Kind  Kind   `json:"kind"`
	Level int    `json:"level,omitempty"`
	Spans []Span `json:"spans,omitempty"`
}

// Text returns the block text with emphasis markers removed.
func (b Block) Text() string {
	var sb strings.Builder
	for _, span := range b.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

var (
	orderedMarker = regexp.MustCompile(`^\d+\.\s`)
	emphasis      = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// Parse classifies text line by line. The returned sequence is lazy and can be
// ranged over any number of times; empty text yields no blocks.
func Parse(text string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		if text == "" {
			return
		}
		for line := range strings.SplitSeq(text, "\n") {
			if !yield(classify(line)) {
				return
			}
		}
	}
}

// ParseOptional is Parse for values that may be absent.
func ParseOptional(text *string) iter.Seq[Block] {
	if text == nil {
		return Parse("")
	}
	return Parse(*text)
}

// Collect parses text into a slice. It returns nil for empty text.
func Collect(text string) []Block {
	return slices.Collect(Parse(text))
}

func classify(line string) Block {
	switch {
	case strings.HasPrefix(line, "### "):
		return Block{Kind: KindHeading, Level: 3, Spans: inline(line[4:])}
	case strings.HasPrefix(line, "## "):
		return Block{Kind: KindHeading, Level: 2, Spans: inline(line[3:])}
	case strings.HasPrefix(line, "# "):
		return Block{Kind: KindHeading, Level: 1, Spans: inline(line[2:])}
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
		return Block{Kind: KindUnorderedItem, Spans: inline(line[2:])}
	case orderedMarker.MatchString(line):
		return Block{Kind: KindOrderedItem, Spans: inline(orderedMarker.ReplaceAllString(line, ""))}
	case strings.TrimSpace(line) == "":
		return Block{Kind: KindSpacer}
	default:
		return Block{Kind: KindParagraph, Spans: inline(line)}
	}
}

// inline splits text on paired ** delimiters. An unpaired ** is left in the
// plain text as-is.
func inline(text string) []Span {
	matches := emphasis.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Span{{Text: text}}
	}
	spans := make([]Span, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		spans = append(spans, Span{Text: text[m[2]:m[3]], Emphasized: true})
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}
