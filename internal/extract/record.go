package extract

import (
	"cmp"
	"slices"
	"strconv"
)

// GridRef is an integer projected coordinate
type GridRef struct {
	Easting  int64
	Northing int64
}

// HouseRecord is one named house. Aux holds the values of the requested
// auxiliary keys that the entity carries, in request order. Footprint is nil
// when the entity has no usable outline.
type HouseRecord struct {
	Name      string
	Aux       []string
	Footprint *GridRef
}

// Fields flattens the record: name, auxiliary values, then easting and
// northing when a footprint is present.
func (r HouseRecord) Fields() []string {
	fields := make([]string, 0, len(r.Aux)+3)
	fields = append(fields, r.Name)
	fields = append(fields, r.Aux...)
	if r.Footprint != nil {
		fields = append(fields,
			strconv.FormatInt(r.Footprint.Easting, 10),
			strconv.FormatInt(r.Footprint.Northing, 10))
	}
	return fields
}

// Complete reports whether every one of k requested keys was present and a
// footprint was found.
func (r HouseRecord) Complete(k int) bool {
	return len(r.Aux) == k && r.Footprint != nil
}

// CompareHouseRecords orders records by name, auxiliary values and
// footprint. Records without a footprint sort first.
func CompareHouseRecords(a, b HouseRecord) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := slices.Compare(a.Aux, b.Aux); c != 0 {
		return c
	}
	switch {
	case a.Footprint == nil && b.Footprint == nil:
		return 0
	case a.Footprint == nil:
		return -1
	case b.Footprint == nil:
		return 1
	}
	if c := cmp.Compare(a.Footprint.Easting, b.Footprint.Easting); c != 0 {
		return c
	}
	return cmp.Compare(a.Footprint.Northing, b.Footprint.Northing)
}

// NameChange pairs a former house name with the current one
type NameChange struct {
	Old string
	New string
}

// CompareNameChanges orders by old name, then new name
func CompareNameChanges(a, b NameChange) int {
	if c := cmp.Compare(a.Old, b.Old); c != 0 {
		return c
	}
	return cmp.Compare(a.New, b.New)
}
