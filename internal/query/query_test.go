package query

import (
	"reflect"
	"testing"

	"github.com/paulmach/osm"

	"github.com/wegman-software/osm-housenames/internal/document"
)

func entity(id int64, kv ...string) *document.Entity {
	e := &document.Entity{Type: osm.TypeWay, ID: id}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Tags = append(e.Tags, osm.Tag{Key: kv[i], Value: kv[i+1]})
	}
	return e
}

func TestFind(t *testing.T) {
	entities := []*document.Entity{
		entity(1, "building", "house", "addr:housename", "Birchwood"),
		entity(2, "highway", "residential"),
		entity(3, "addr:housename", "Ivy Cottage"),
		entity(4, "Addr:Housename", "Wrong Case"),
	}

	matches := Find(entities, "addr:housename", nil)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Entity.ID != 1 || matches[0].Value != "Birchwood" {
		t.Errorf("first match = %d/%q", matches[0].Entity.ID, matches[0].Value)
	}
	if matches[1].Entity.ID != 3 || matches[1].Value != "Ivy Cottage" {
		t.Errorf("second match = %d/%q", matches[1].Entity.ID, matches[1].Value)
	}

	matches = Find(entities, "addr:housename", Equals("Ivy Cottage"))
	if len(matches) != 1 || matches[0].Entity.ID != 3 {
		t.Errorf("value filter returned %+v", matches)
	}

	if got := Find(entities, "addr:previousname", nil); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
	if got := Find(nil, "addr:housename", nil); got != nil {
		t.Errorf("expected nil for no entities, got %v", got)
	}
}

func TestFindStable(t *testing.T) {
	entities := []*document.Entity{
		entity(9, "k", "a"),
		entity(3, "k", "b"),
		entity(5, "k", "c"),
	}
	first := Find(entities, "k", nil)
	second := Find(entities, "k", nil)
	if !reflect.DeepEqual(first, second) {
		t.Error("Find is not stable for a fixed input")
	}
	if first[0].Entity.ID != 9 || first[2].Entity.ID != 5 {
		t.Error("Find did not keep entity order")
	}
}

func TestValue(t *testing.T) {
	e := entity(1, "addr:housename", "First", "addr:postcode", "PH20 1AA", "addr:housename", "Second")

	v, ok := Value(e, "addr:housename")
	if !ok || v != "First" {
		t.Errorf("duplicate key: got %q, %v; want first occurrence", v, ok)
	}

	v, ok = Value(e, "addr:street")
	if ok || v != "" {
		t.Errorf("missing key: got %q, %v", v, ok)
	}

	if _, ok := Value(&document.Entity{}, "addr:housename"); ok {
		t.Error("entity without tags should not match")
	}
}

func TestValues(t *testing.T) {
	e := entity(1, "addr:street", "Main Street", "addr:postcode", "PH20 1AA")

	got := Values(e, []string{"addr:postcode", "addr:city", "addr:street"})
	want := []string{"PH20 1AA", "Main Street"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}
}
