package extract

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"github.com/wegman-software/osm-housenames/internal/document"
	"github.com/wegman-software/osm-housenames/internal/logger"
	"github.com/wegman-software/osm-housenames/internal/nodeindex"
	"github.com/wegman-software/osm-housenames/internal/profile"
	"github.com/wegman-software/osm-housenames/internal/query"
)

var (
	// ErrTooFewPoints means fewer than three references resolved
	ErrTooFewPoints = errors.New("fewer than 3 resolvable points")
	// ErrDegenerate means the outline encloses no area
	ErrDegenerate = errors.New("degenerate polygon")
)

// GeometryError reports an entity whose footprint centroid could not be
// computed. The entity's record is still produced, without coordinates.
type GeometryError struct {
	Entity string
	Err    error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Entity, e.Err)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}

// HouseStats counts what happened during one extraction
type HouseStats struct {
	Candidates     int // entities carrying the house name key
	Filtered       int // candidates rejected by the profile filter
	Footprints     int // records with a centroid
	GeometryErrors int
	MissingFields  int // requested auxiliary keys that were absent
}

// HouseExtractor builds house records from entities and a coordinate index
type HouseExtractor struct {
	profile *profile.Profile
	filter  *profile.Filter
	index   *nodeindex.Index
	stats   HouseStats
	errors  []*GeometryError
}

// NewHouseExtractor creates an extractor for the given profile and index
func NewHouseExtractor(p *profile.Profile, index *nodeindex.Index) *HouseExtractor {
	return &HouseExtractor{
		profile: p,
		filter:  p.EntityFilter(),
		index:   index,
	}
}

// Stats returns the counters of the last Extract call
func (e *HouseExtractor) Stats() HouseStats {
	return e.stats
}

// GeometryErrors returns the footprint failures of the last Extract call
func (e *HouseExtractor) GeometryErrors() []*GeometryError {
	return e.errors
}

// Extract returns one record per entity carrying the house name key,
// deduplicated and sorted.
func (e *HouseExtractor) Extract(entities []*document.Entity) []HouseRecord {
	log := logger.Get()
	e.stats = HouseStats{}
	e.errors = nil

	keys := e.profile.AuxiliaryKeys()
	matches := query.Find(entities, e.profile.HouseNameKey, nil)
	records := make([]HouseRecord, 0, len(matches))

	for _, m := range matches {
		e.stats.Candidates++
		if !e.filter.Match(m.Entity.Tags) {
			e.stats.Filtered++
			continue
		}

		rec := HouseRecord{
			Name: m.Value,
			Aux:  query.Values(m.Entity, keys),
		}
		e.stats.MissingFields += len(keys) - len(rec.Aux)

		if len(m.Entity.NodeRefs) > 0 {
			ref, err := Centroid(e.index.Resolve(m.Entity.NodeRefs))
			if err != nil {
				gerr := &GeometryError{Entity: m.Entity.Key(), Err: err}
				e.errors = append(e.errors, gerr)
				e.stats.GeometryErrors++
				log.Debug("No footprint for house", zap.String("name", m.Value), zap.Error(gerr))
			} else {
				rec.Footprint = &ref
				e.stats.Footprints++
			}
		}

		records = append(records, rec)
	}

	return Normalize(records, CompareHouseRecords)
}

// Centroid computes the integer-truncated centroid of the polygon outlined by
// points. The ring is closed if needed.
func Centroid(points []orb.Point) (GridRef, error) {
	if len(points) < 3 {
		return GridRef{}, ErrTooFewPoints
	}

	ring := orb.Ring(slices.Clone(points))
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}

	c, area := planar.CentroidArea(orb.Polygon{ring})
	if area == 0 || !finite(c[0]) || !finite(c[1]) {
		return GridRef{}, ErrDegenerate
	}

	return GridRef{
		Easting:  int64(math.Trunc(c[0])),
		Northing: int64(math.Trunc(c[1])),
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
