package extract

import (
	"cmp"

	"github.com/wegman-software/osm-housenames/internal/document"
	"github.com/wegman-software/osm-housenames/internal/profile"
	"github.com/wegman-software/osm-housenames/internal/query"
)

// FindRenames joins every previous-name tag with the current house name on
// the same entity. Entities with history but no current name are skipped.
// If an entity repeats the house name key, its first value is used.
func FindRenames(entities []*document.Entity, p *profile.Profile) []NameChange {
	filter := p.EntityFilter()

	var changes []NameChange
	for _, key := range p.PreviousNameKeys {
		for _, m := range query.Find(entities, key, nil) {
			if !filter.Match(m.Entity.Tags) {
				continue
			}
			current, ok := query.Value(m.Entity, p.HouseNameKey)
			if !ok {
				continue
			}
			changes = append(changes, NameChange{Old: m.Value, New: current})
		}
	}

	return Normalize(changes, CompareNameChanges)
}

// HouseNames returns every distinct house name, sorted
func HouseNames(entities []*document.Entity, p *profile.Profile) []string {
	filter := p.EntityFilter()

	var names []string
	for _, m := range query.Find(entities, p.HouseNameKey, nil) {
		if filter.Match(m.Entity.Tags) {
			names = append(names, m.Value)
		}
	}
	return Normalize(names, cmp.Compare[string])
}
