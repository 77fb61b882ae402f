package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/csv"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	"github.com/wegman-software/osm-housenames/internal/config"
	"github.com/wegman-software/osm-housenames/internal/extract"
	"github.com/wegman-software/osm-housenames/internal/profile"
)

// Summary reports how many records made it into the table
type Summary struct {
	Written  int
	Excluded []extract.HouseRecord // records missing a field or a footprint
}

// Schema returns the table schema for a profile: name and auxiliary
// columns as strings, then easting and northing as integers.
func Schema(p *profile.Profile) *arrow.Schema {
	header := p.Header()
	fields := make([]arrow.Field, 0, len(header))
	for i, name := range header {
		typ := arrow.DataType(arrow.BinaryTypes.String)
		if i >= len(header)-2 {
			typ = arrow.PrimitiveTypes.Int64
		}
		fields = append(fields, arrow.Field{Name: name, Type: typ, Nullable: false})
	}
	return arrow.NewSchema(fields, nil)
}

// BuildRecord converts the complete records into one Arrow record. The
// caller must Release it.
func BuildRecord(p *profile.Profile, records []extract.HouseRecord) (arrow.Record, Summary) {
	schema := Schema(p)
	k := len(p.Auxiliary)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	var summary Summary
	for _, r := range records {
		if !r.Complete(k) {
			summary.Excluded = append(summary.Excluded, r)
			continue
		}
		builder.Field(0).(*array.StringBuilder).Append(r.Name)
		for i, v := range r.Aux {
			builder.Field(1 + i).(*array.StringBuilder).Append(v)
		}
		builder.Field(k + 1).(*array.Int64Builder).Append(r.Footprint.Easting)
		builder.Field(k + 2).(*array.Int64Builder).Append(r.Footprint.Northing)
		summary.Written++
	}

	return builder.NewRecord(), summary
}

// WriteCSV writes the header and one row per complete record
func WriteCSV(w io.Writer, p *profile.Profile, records []extract.HouseRecord) (Summary, error) {
	rec, summary := BuildRecord(p, records)
	defer rec.Release()

	cw := csv.NewWriter(w, rec.Schema(), csv.WithHeader(true), csv.WithComma(','))
	if err := cw.Write(rec); err != nil {
		return summary, fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := cw.Flush(); err != nil {
		return summary, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return summary, cw.Error()
}

// WriteParquet writes complete records as a zstd-compressed Parquet file
func WriteParquet(w io.Writer, p *profile.Profile, records []extract.HouseRecord) (Summary, error) {
	rec, summary := BuildRecord(p, records)
	defer rec.Release()

	writerProps := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Zstd),
		parquet.WithDictionaryDefault(false),
	)

	pw, err := pqarrow.NewFileWriter(rec.Schema(), w, writerProps, pqarrow.DefaultWriterProps())
	if err != nil {
		return summary, fmt.Errorf("failed to create Parquet writer: %w", err)
	}
	if err := pw.Write(rec); err != nil {
		pw.Close()
		return summary, fmt.Errorf("failed to write Parquet: %w", err)
	}
	if err := pw.Close(); err != nil {
		return summary, fmt.Errorf("failed to close Parquet writer: %w", err)
	}
	return summary, nil
}

// WriteFile writes the records to path in the given format
func WriteFile(path, format string, p *profile.Profile, records []extract.HouseRecord) (Summary, error) {
	f, err := os.Create(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to create output file: %w", err)
	}

	var summary Summary
	switch format {
	case config.FormatCSV:
		summary, err = WriteCSV(f, p, records)
	case config.FormatParquet:
		summary, err = WriteParquet(f, p, records)
	default:
		err = fmt.Errorf("unknown output format %q", format)
	}

	// the Parquet writer may already have closed the file
	if cerr := f.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
		err = fmt.Errorf("failed to close output file: %w", cerr)
	}
	return summary, err
}
