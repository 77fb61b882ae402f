package source

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/serjvanilla/go-overpass"
	"go.uber.org/zap"

	"github.com/wegman-software/osm-housenames/internal/config"
	"github.com/wegman-software/osm-housenames/internal/document"
	"github.com/wegman-software/osm-housenames/internal/logger"
	"github.com/wegman-software/osm-housenames/internal/profile"
)

type overpassQuerier interface {
	Query(query string) (overpass.Result, error)
}

// OverpassSource asks an Overpass endpoint for the entities carrying the
// profile's name keys, recursed down to their nodes.
type OverpassSource struct {
	endpoint string
	bbox     *config.BBox
	keys     []string
	timeout  time.Duration
	client   overpassQuerier
}

// NewOverpassSource creates a source for the given endpoint
func NewOverpassSource(endpoint string, bbox *config.BBox, p *profile.Profile, timeout time.Duration) *OverpassSource {
	client := overpass.NewWithSettings(endpoint, 1, &http.Client{Timeout: timeout})
	keys := append([]string{p.HouseNameKey}, p.PreviousNameKeys...)
	return &OverpassSource{
		endpoint: endpoint,
		bbox:     bbox,
		keys:     keys,
		timeout:  timeout,
		client:   &client,
	}
}

// Name identifies the source in logs
func (s *OverpassSource) Name() string {
	return "overpass"
}

// Query returns the Overpass QL sent to the endpoint
func (s *OverpassSource) Query() string {
	// Overpass wants south,west,north,east
	bbox := fmt.Sprintf("%s,%s,%s,%s",
		strconv.FormatFloat(s.bbox.South, 'f', -1, 64),
		strconv.FormatFloat(s.bbox.West, 'f', -1, 64),
		strconv.FormatFloat(s.bbox.North, 'f', -1, 64),
		strconv.FormatFloat(s.bbox.East, 'f', -1, 64),
	)

	var b strings.Builder
	b.WriteString("[out:json]")
	if s.timeout > 0 {
		fmt.Fprintf(&b, "[timeout:%d]", int(s.timeout.Seconds()))
	}
	b.WriteString(";\n(\n")
	for _, key := range s.keys {
		fmt.Fprintf(&b, "  nwr[%s](%s);\n", strconv.Quote(key), bbox)
	}
	b.WriteString(");\nout body;\n>;\nout skel qt;\n")
	return b.String()
}

// Load runs the query and converts the result
func (s *OverpassSource) Load(ctx context.Context) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: s.endpoint, Err: err}
	}

	log := logger.Get()
	start := time.Now()

	result, err := s.client.Query(s.Query())
	if err != nil {
		return nil, &FetchError{URL: s.endpoint, Err: fmt.Errorf("overpass query failed: %w", err)}
	}

	doc := convertOverpass(&result)
	log.Info("Overpass query complete",
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("entities", len(doc.Entities)),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)
	return doc, nil
}

// convertOverpass builds a document from an Overpass result. The result
// holds maps, so elements are ordered by id to keep runs reproducible.
func convertOverpass(result *overpass.Result) *document.Document {
	nodeIDs := sortedKeys(result.Nodes)
	nodes := make([]document.Node, 0, len(nodeIDs))
	var entities []*document.Entity

	for _, id := range nodeIDs {
		n := result.Nodes[id]
		nodes = append(nodes, document.Node{ID: osm.NodeID(n.ID), Lat: n.Lat, Lon: n.Lon})
		if len(n.Tags) > 0 {
			entities = append(entities, &document.Entity{Type: osm.TypeNode, ID: n.ID, Tags: mapToTags(n.Tags)})
		}
	}

	for _, id := range sortedKeys(result.Ways) {
		w := result.Ways[id]
		refs := make([]osm.NodeID, 0, len(w.Nodes))
		for _, n := range w.Nodes {
			refs = append(refs, osm.NodeID(n.ID))
		}
		entities = append(entities, &document.Entity{Type: osm.TypeWay, ID: w.ID, NodeRefs: refs, Tags: mapToTags(w.Tags)})
	}

	for _, id := range sortedKeys(result.Relations) {
		r := result.Relations[id]
		if len(r.Tags) > 0 {
			entities = append(entities, &document.Entity{Type: osm.TypeRelation, ID: r.ID, Tags: mapToTags(r.Tags)})
		}
	}

	return document.New(nodes, entities)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func mapToTags(m map[string]string) osm.Tags {
	tags := make(osm.Tags, 0, len(m))
	for k, v := range m {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Key < tags[j].Key })
	return tags
}
