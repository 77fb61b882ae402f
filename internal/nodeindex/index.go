package nodeindex

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/wegman-software/osm-housenames/internal/document"
)

// Projector converts geographic degrees to planar coordinates
type Projector interface {
	Project(lat, lon float64) (x, y float64, err error)
}

// ProjectionError reports a node whose coordinates could not be projected.
// The node is left out of the index.
type ProjectionError struct {
	NodeID osm.NodeID
	Lat    float64
	Lon    float64
	Err    error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("node %d (%f, %f): %v", e.NodeID, e.Lat, e.Lon, e.Err)
}

func (e *ProjectionError) Unwrap() error {
	return e.Err
}

// Index maps node IDs to projected coordinates.
// It is filled once by Build and only read afterwards.
type Index struct {
	points map[osm.NodeID]orb.Point
}

// Build projects every node. Nodes that fail projection are reported and
// skipped; the rest of the index is still built.
func Build(nodes []document.Node, p Projector) (*Index, []*ProjectionError) {
	idx := &Index{
		points: make(map[osm.NodeID]orb.Point, len(nodes)),
	}

	var failures []*ProjectionError
	for _, n := range nodes {
		x, y, err := p.Project(n.Lat, n.Lon)
		if err != nil {
			failures = append(failures, &ProjectionError{NodeID: n.ID, Lat: n.Lat, Lon: n.Lon, Err: err})
			continue
		}
		idx.points[n.ID] = orb.Point{x, y}
	}

	return idx, failures
}

// Get returns the projected coordinate of a node
func (idx *Index) Get(id osm.NodeID) (orb.Point, bool) {
	p, ok := idx.points[id]
	return p, ok
}

// Resolve looks up every reference in order, dropping the ones that are not
// in the index.
func (idx *Index) Resolve(refs []osm.NodeID) []orb.Point {
	points := make([]orb.Point, 0, len(refs))
	for _, ref := range refs {
		if p, ok := idx.points[ref]; ok {
			points = append(points, p)
		}
	}
	return points
}

// Len returns the number of indexed nodes
func (idx *Index) Len() int {
	return len(idx.points)
}
