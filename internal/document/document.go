// Package document holds the in-memory model of one OSM map document: the
// nodes with their coordinates and the tagged entities that reference them.
// A Document is built once and never mutated afterwards.
package document

import (
	"fmt"

	"github.com/paulmach/osm"
)

// Node is a single geographic point
type Node struct {
	ID  osm.NodeID
	Lat float64
	Lon float64
}

// Entity is a tagged feature. Ways carry their ordered node references;
// tagged nodes and relations are entities without references.
type Entity struct {
	Type     osm.Type
	ID       int64
	NodeRefs []osm.NodeID
	Tags     osm.Tags
}

// Key identifies the entity across element types, e.g. "way/42"
func (e *Entity) Key() string {
	return fmt.Sprintf("%s/%d", e.Type, e.ID)
}

// Document is a parsed map document
type Document struct {
	Nodes    []Node
	Entities []*Entity
}

// New builds a document from already decoded parts
func New(nodes []Node, entities []*Entity) *Document {
	return &Document{Nodes: nodes, Entities: entities}
}

// FromOSM flattens an osm.OSM into the document model, keeping document
// order: nodes, then ways, then relations.
func FromOSM(o *osm.OSM) *Document {
	doc := &Document{
		Nodes: make([]Node, 0, len(o.Nodes)),
	}

	for _, n := range o.Nodes {
		doc.Nodes = append(doc.Nodes, Node{ID: n.ID, Lat: n.Lat, Lon: n.Lon})
		if len(n.Tags) > 0 {
			doc.Entities = append(doc.Entities, &Entity{
				Type: osm.TypeNode,
				ID:   int64(n.ID),
				Tags: n.Tags,
			})
		}
	}

	for _, w := range o.Ways {
		doc.Entities = append(doc.Entities, &Entity{
			Type:     osm.TypeWay,
			ID:       int64(w.ID),
			NodeRefs: w.Nodes.NodeIDs(),
			Tags:     w.Tags,
		})
	}

	for _, r := range o.Relations {
		if len(r.Tags) == 0 {
			continue
		}
		doc.Entities = append(doc.Entities, &Entity{
			Type: osm.TypeRelation,
			ID:   int64(r.ID),
			Tags: r.Tags,
		})
	}

	return doc
}
