package nodeindex

import (
	"errors"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/wegman-software/osm-housenames/internal/document"
	"github.com/wegman-software/osm-housenames/internal/proj"
)

var errBadNode = errors.New("bad node")

// scaleProjector multiplies degrees by 1000 and fails on latitude 99
type scaleProjector struct{}

func (scaleProjector) Project(lat, lon float64) (float64, float64, error) {
	if lat == 99 {
		return 0, 0, errBadNode
	}
	return lon * 1000, lat * 1000, nil
}

func TestBuild(t *testing.T) {
	nodes := []document.Node{
		{ID: 1, Lat: 1, Lon: 2},
		{ID: 2, Lat: 99, Lon: 0},
		{ID: 3, Lat: 3, Lon: 4},
	}

	idx, failures := Build(nodes, scaleProjector{})

	if idx.Len() != 2 {
		t.Errorf("expected 2 indexed nodes, got %d", idx.Len())
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 projection failure, got %d", len(failures))
	}
	if failures[0].NodeID != 2 || !errors.Is(failures[0], errBadNode) {
		t.Errorf("unexpected failure: %v", failures[0])
	}

	p, ok := idx.Get(3)
	if !ok || p != (orb.Point{4000, 3000}) {
		t.Errorf("Get(3) = %v, %v; want [4000 3000], true", p, ok)
	}
	if _, ok := idx.Get(2); ok {
		t.Error("failed node should be absent")
	}
	if _, ok := idx.Get(42); ok {
		t.Error("unknown node should be absent")
	}
}

func TestBuildIdempotent(t *testing.T) {
	tr, err := proj.NewTransformer(proj.SRID4326, proj.SRID27700)
	if err != nil {
		t.Fatal(err)
	}
	nodes := []document.Node{
		{ID: 1, Lat: 57.06, Lon: -4.12},
		{ID: 2, Lat: 57.07, Lon: -4.10},
		{ID: 3, Lat: 40.71, Lon: -74.0},
	}

	a, fa := Build(nodes, tr)
	b, fb := Build(nodes, tr)
	if !reflect.DeepEqual(a, b) {
		t.Error("rebuilding the index produced a different map")
	}
	if len(fa) != 1 || len(fb) != 1 {
		t.Errorf("expected one failure per build, got %d and %d", len(fa), len(fb))
	}
}

func TestResolve(t *testing.T) {
	nodes := []document.Node{
		{ID: 1, Lat: 0, Lon: 0},
		{ID: 2, Lat: 0, Lon: 1},
		{ID: 3, Lat: 99, Lon: 1},
		{ID: 4, Lat: 1, Lon: 1},
	}
	idx, _ := Build(nodes, scaleProjector{})

	got := idx.Resolve([]osm.NodeID{1, 2, 3, 4, 5, 1})
	want := []orb.Point{{0, 0}, {1000, 0}, {1000, 1000}, {0, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}

	if got := idx.Resolve(nil); len(got) != 0 {
		t.Errorf("Resolve(nil) = %v, want empty", got)
	}
}
