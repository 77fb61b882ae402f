// Package query finds entities by tag. It is the traversal primitive the
// extractors are built on.
package query

import (
	"github.com/wegman-software/osm-housenames/internal/document"
)

// Predicate filters tag values. A nil Predicate accepts every value.
type Predicate func(value string) bool

// Equals matches one exact value
func Equals(v string) Predicate {
	return func(value string) bool { return value == v }
}

// Match is an entity together with the value of the queried tag
type Match struct {
	Entity *document.Entity
	Value  string
}

// Find returns every entity carrying key whose value satisfies pred, in
// entity order. Keys are matched exactly and case-sensitively.
func Find(entities []*document.Entity, key string, pred Predicate) []Match {
	var matches []Match
	for _, e := range entities {
		v, ok := Value(e, key)
		if !ok {
			continue
		}
		if pred != nil && !pred(v) {
			continue
		}
		matches = append(matches, Match{Entity: e, Value: v})
	}
	return matches
}

// Value returns the value of key on the entity. When the source repeats a
// key on one entity the first occurrence wins.
func Value(e *document.Entity, key string) (string, bool) {
	for _, tag := range e.Tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

// Values returns the values of the present keys, in key order. Absent keys
// are skipped, not filled.
func Values(e *document.Entity, keys []string) []string {
	values := make([]string, 0, len(keys))
	for _, key := range keys {
		if v, ok := Value(e, key); ok {
			values = append(values, v)
		}
	}
	return values
}
