package output

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	"github.com/wegman-software/osm-housenames/internal/config"
	"github.com/wegman-software/osm-housenames/internal/extract"
	"github.com/wegman-software/osm-housenames/internal/profile"
)

func sampleRecords() []extract.HouseRecord {
	return []extract.HouseRecord{
		{Name: "Birchwood", Aux: []string{"PH20 1AA", "Main Street"}, Footprint: &extract.GridRef{Easting: 271234, Northing: 798765}},
		{Name: "Flat 1, The Mill", Aux: []string{"PH20 1BB", "Mill Road"}, Footprint: &extract.GridRef{Easting: 271300, Northing: 798800}},
		{Name: "Ivy Cottage"},
		{Name: "No Street", Aux: []string{"PH20 1CC"}, Footprint: &extract.GridRef{Easting: 1, Northing: 2}},
		{Name: "No Outline", Aux: []string{"PH20 1DD", "Glen Road"}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	summary, err := WriteCSV(&buf, profile.Default(), sampleRecords())
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "Name,Postcode,Road,OSE,OSN\n" +
		"Birchwood,PH20 1AA,Main Street,271234,798765\n" +
		"\"Flat 1, The Mill\",PH20 1BB,Mill Road,271300,798800\n"
	if got := buf.String(); got != want {
		t.Errorf("CSV output =\n%s\nwant\n%s", got, want)
	}

	if summary.Written != 2 {
		t.Errorf("Written = %d, want 2", summary.Written)
	}
	if len(summary.Excluded) != 3 {
		t.Errorf("Excluded = %d, want 3", len(summary.Excluded))
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	summary, err := WriteCSV(&buf, profile.Default(), nil)
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if got := buf.String(); got != "Name,Postcode,Road,OSE,OSN\n" {
		t.Errorf("expected header only, got %q", got)
	}
	if summary.Written != 0 {
		t.Errorf("Written = %d", summary.Written)
	}
}

func TestSchema(t *testing.T) {
	s := Schema(profile.Default())
	if s.NumFields() != 5 {
		t.Fatalf("expected 5 fields, got %d", s.NumFields())
	}
	if s.Field(0).Name != "Name" || s.Field(3).Name != "OSE" {
		t.Errorf("unexpected field names: %v", s)
	}
	if s.Field(2).Type.ID() == s.Field(4).Type.ID() {
		t.Error("coordinate columns should be integers")
	}
}

func TestWriteParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "houses.parquet")

	summary, err := WriteFile(path, config.FormatParquet, profile.Default(), sampleRecords())
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if summary.Written != 2 {
		t.Errorf("Written = %d, want 2", summary.Written)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	table, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(data), nil, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	defer table.Release()

	if table.NumRows() != 2 {
		t.Errorf("parquet has %d rows, want 2", table.NumRows())
	}
	if table.NumCols() != 5 {
		t.Errorf("parquet has %d columns, want 5", table.NumCols())
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "houses.csv")
	if _, err := WriteFile(path, config.FormatCSV, profile.Default(), sampleRecords()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("Name,Postcode,Road,OSE,OSN\n")) {
		t.Errorf("unexpected file content: %q", data)
	}

	if _, err := WriteFile(filepath.Join(t.TempDir(), "x"), "xlsx", profile.Default(), nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNames(&buf, []string{"Birchwood", "Ivy Cottage"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Birchwood\nIvy Cottage\n" {
		t.Errorf("WriteNames = %q", buf.String())
	}

	buf.Reset()
	if err := WriteRenames(&buf, []extract.NameChange{{Old: "The Croft", New: "Ivy Cottage"}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "The Croft -> Ivy Cottage\n" {
		t.Errorf("WriteRenames = %q", buf.String())
	}
}
