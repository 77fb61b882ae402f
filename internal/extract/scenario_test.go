package extract

import (
	"reflect"
	"testing"

	"github.com/wegman-software/osm-housenames/internal/document"
	"github.com/wegman-software/osm-housenames/internal/nodeindex"
	"github.com/wegman-software/osm-housenames/internal/proj"
)

const newtonmoreXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="11" lat="57.06300" lon="-4.12000"/>
  <node id="12" lat="57.06300" lon="-4.11950"/>
  <node id="13" lat="57.06330" lon="-4.11950"/>
  <node id="14" lat="57.06330" lon="-4.12000"/>
  <way id="1">
    <nd ref="11"/><nd ref="12"/><nd ref="13"/><nd ref="14"/><nd ref="11"/>
    <tag k="building" v="house"/>
    <tag k="addr:housename" v="Birchwood"/>
    <tag k="addr:postcode" v="PH20 1AA"/>
  </way>
  <way id="2">
    <tag k="addr:housename" v="Ivy Cottage"/>
    <tag k="addr:previousname" v="The Croft"/>
  </way>
</osm>`

func TestNewtonmoreScenario(t *testing.T) {
	doc, err := document.Parse([]byte(newtonmoreXML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	tr, err := proj.NewTransformer(proj.SRID4326, proj.SRID27700)
	if err != nil {
		t.Fatal(err)
	}
	idx, failures := nodeindex.Build(doc.Nodes, tr)
	if len(failures) != 0 {
		t.Fatalf("unexpected projection failures: %v", failures)
	}

	houses := NewHouseExtractor(postcodeProfile(), idx).Extract(doc.Entities)
	if len(houses) != 2 {
		t.Fatalf("expected 2 houses, got %d: %+v", len(houses), houses)
	}

	birchwood := houses[0]
	if birchwood.Name != "Birchwood" || !reflect.DeepEqual(birchwood.Aux, []string{"PH20 1AA"}) {
		t.Errorf("unexpected first record: %+v", birchwood)
	}
	if birchwood.Footprint == nil {
		t.Fatal("Birchwood should have a footprint")
	}
	if n := len(birchwood.Fields()); n != 4 {
		t.Errorf("Birchwood has %d fields, want 4", n)
	}
	e, n := birchwood.Footprint.Easting, birchwood.Footprint.Northing
	if e < 260000 || e > 285000 || n < 790000 || n > 810000 {
		t.Errorf("Birchwood centroid (%d, %d) is not in Newtonmore", e, n)
	}

	ivy := houses[1]
	if !reflect.DeepEqual(ivy.Fields(), []string{"Ivy Cottage"}) {
		t.Errorf("Ivy Cottage fields = %v, want [Ivy Cottage]", ivy.Fields())
	}

	renames := FindRenames(doc.Entities, postcodeProfile())
	want := []NameChange{{Old: "The Croft", New: "Ivy Cottage"}}
	if !reflect.DeepEqual(renames, want) {
		t.Errorf("FindRenames = %v, want %v", renames, want)
	}
}
