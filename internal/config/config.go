package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/osm"
)

// Source kinds
const (
	SourceAPI      = "api"
	SourceOverpass = "overpass"
	SourceFile     = "file"
)

// Output formats
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// BBox represents a geographic bounding box in degrees
type BBox struct {
	West, South, East, North float64
}

// ParseBBox parses a bbox string in format "west,south,east,north"
func ParseBBox(s string) (*BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must have 4 values: west,south,east,north")
	}

	var coords [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bbox coordinate %q: %w", p, err)
		}
		coords[i] = v
	}

	bbox := &BBox{
		West:  coords[0],
		South: coords[1],
		East:  coords[2],
		North: coords[3],
	}
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	return bbox, nil
}

// Validate checks ordering and range of the bounds
func (b *BBox) Validate() error {
	if b.West > b.East {
		return fmt.Errorf("west (%f) must be <= east (%f)", b.West, b.East)
	}
	if b.South > b.North {
		return fmt.Errorf("south (%f) must be <= north (%f)", b.South, b.North)
	}
	if b.West < -180 || b.East > 180 {
		return fmt.Errorf("longitude out of range [-180, 180]")
	}
	if b.South < -90 || b.North > 90 {
		return fmt.Errorf("latitude out of range [-90, 90]")
	}
	return nil
}

// Contains checks if a point is within the bounding box
func (b *BBox) Contains(lat, lon float64) bool {
	return lon >= b.West && lon <= b.East && lat >= b.South && lat <= b.North
}

// Area returns the area of the box in square degrees
func (b *BBox) Area() float64 {
	return (b.East - b.West) * (b.North - b.South)
}

// String formats the box the way the OSM API expects it
func (b *BBox) String() string {
	return strings.Join([]string{
		strconv.FormatFloat(b.West, 'f', -1, 64),
		strconv.FormatFloat(b.South, 'f', -1, 64),
		strconv.FormatFloat(b.East, 'f', -1, 64),
		strconv.FormatFloat(b.North, 'f', -1, 64),
	}, ",")
}

// Bounds converts the box to osm.Bounds
func (b *BBox) Bounds() *osm.Bounds {
	return &osm.Bounds{
		MinLat: b.South,
		MaxLat: b.North,
		MinLon: b.West,
		MaxLon: b.East,
	}
}

// Config holds the configuration for one extraction run
type Config struct {
	// Input settings
	Source      string // api, overpass or file
	InputFile   string // used with SourceFile
	BBox        *BBox
	APIURL      string
	OverpassURL string
	Timeout     time.Duration

	// Extraction settings
	ProfileFile string // YAML tag profile, empty = built-in
	LuaFile     string // optional filter_tags hook
	Projection  int    // target SRID

	// Output settings
	OutputFile string
	Format     string // csv or parquet, empty = from extension

	// Logging
	Verbose bool
	LogFile string // Path to log file (empty = no file logging)
}

// DefaultConfig returns a configuration covering Newtonmore in the
// British National Grid.
func DefaultConfig() *Config {
	return &Config{
		Source:      SourceAPI,
		BBox:        &BBox{West: -4.1386, South: 57.0572, East: -4.0877, North: 57.0729},
		APIURL:      "https://api.openstreetmap.org/api/0.6",
		OverpassURL: "https://overpass-api.de/api/interpreter",
		Timeout:     2 * time.Minute,
		Projection:  27700,
		OutputFile:  "houses.csv",
	}
}

// OutputFormat returns the configured format, falling back to the output
// file extension.
func (c *Config) OutputFormat() string {
	if c.Format != "" {
		return c.Format
	}
	if strings.EqualFold(filepath.Ext(c.OutputFile), ".parquet") {
		return FormatParquet
	}
	return FormatCSV
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Source {
	case SourceAPI, SourceOverpass:
		if c.BBox == nil {
			return fmt.Errorf("bbox is required for source %q", c.Source)
		}
		if err := c.BBox.Validate(); err != nil {
			return fmt.Errorf("invalid bbox: %w", err)
		}
	case SourceFile:
		if c.InputFile == "" {
			return fmt.Errorf("input file is required for source %q", c.Source)
		}
	default:
		return fmt.Errorf("unknown source %q (supported: api, overpass, file)", c.Source)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	switch c.OutputFormat() {
	case FormatCSV, FormatParquet:
	default:
		return fmt.Errorf("unknown output format %q (supported: csv, parquet)", c.Format)
	}
	return nil
}
