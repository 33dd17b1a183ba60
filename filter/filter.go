// Package filter evaluates ordered, named predicate lists over in-memory
// records. It backs both the model gallery and the generation history.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrMalformedSpec = errors.New("malformed filter spec")

// Predicate is a single named test. Implementations come from Search and OneOf.
type Predicate[T any] interface {
	Name() string
	match(record T, m *matcher) bool
	validate() error
}

// Spec is an ordered list of predicates combined with AND. A zero Spec matches
// everything.
type Spec[T any] []Predicate[T]

// matcher holds per-evaluation state. cases.Caser is stateful so every
// Evaluate call gets its own.
type matcher struct {
	lower cases.Caser
}

func newMatcher() *matcher {
	return &matcher{lower: cases.Lower(language.Und)}
}

func (m *matcher) fold(s string) string {
	return m.lower.String(s)
}

type search[T any] struct {
	name  string
	field func(T) string
	query string
}

// Search matches records whose field contains query, ignoring case.
// An empty query matches every record.
func Search[T any](name string, field func(T) string, query string) Predicate[T] {
	return search[T]{name: name, field: field, query: query}
}

func (s search[T]) Name() string { return s.name }

func (s search[T]) validate() error {
	if s.field == nil {
		return fmt.Errorf("%w: search %q has no field accessor", ErrMalformedSpec, s.name)
	}
	return nil
}

func (s search[T]) match(record T, m *matcher) bool {
	if s.query == "" {
		return true
	}
	return strings.Contains(m.fold(s.field(record)), m.fold(s.query))
}

type oneOf[T any] struct {
	name   string
	field  func(T) string
	values []string
}

// OneOf matches records whose field equals any of values. With no values the
// predicate imposes no constraint.
func OneOf[T any](name string, field func(T) string, values ...string) Predicate[T] {
	return oneOf[T]{name: name, field: field, values: slices.Clone(values)}
}

func (o oneOf[T]) Name() string { return o.name }

func (o oneOf[T]) validate() error {
	if o.field == nil {
		return fmt.Errorf("%w: categorical %q has no field accessor", ErrMalformedSpec, o.name)
	}
	return nil
}

func (o oneOf[T]) match(record T, _ *matcher) bool {
	if len(o.values) == 0 {
		return true
	}
	return slices.Contains(o.values, o.field(record))
}

// Validate reports whether spec can be evaluated.
func (spec Spec[T]) Validate() error {
	seen := make(map[string]struct{}, len(spec))
	for i, p := range spec {
		if p == nil {
			return fmt.Errorf("%w: predicate %d is nil", ErrMalformedSpec, i)
		}
		name := p.Name()
		if name == "" {
			return fmt.Errorf("%w: predicate %d has no name", ErrMalformedSpec, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate predicate %q", ErrMalformedSpec, name)
		}
		seen[name] = struct{}{}
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate returns the records satisfying every predicate of spec, in their
// original order. records is never modified.
func Evaluate[T any](records []T, spec Spec[T]) ([]T, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	m := newMatcher()
	out := make([]T, 0, len(records))
	for _, record := range records {
		if spec.matches(record, m) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (spec Spec[T]) matches(record T, m *matcher) bool {
	for _, p := range spec {
		if !p.match(record, m) {
			return false
		}
	}
	return true
}
