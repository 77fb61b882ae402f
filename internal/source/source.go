// Package source retrieves the raw map document for a run: from the OSM
// API, from an Overpass endpoint or from a local file.
package source

import (
	"context"
	"fmt"

	"github.com/wegman-software/osm-housenames/internal/config"
	"github.com/wegman-software/osm-housenames/internal/document"
	"github.com/wegman-software/osm-housenames/internal/profile"
)

// Source loads one document snapshot
type Source interface {
	Load(ctx context.Context) (*document.Document, error)
	Name() string
}

// FetchError reports a failed retrieval. It is not retried.
type FetchError struct {
	URL        string
	StatusCode int // 0 for transport errors
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// New picks the source named in the configuration
func New(cfg *config.Config, p *profile.Profile) (Source, error) {
	switch cfg.Source {
	case config.SourceAPI:
		return NewAPISource(cfg.APIURL, cfg.BBox, cfg.Timeout), nil
	case config.SourceOverpass:
		return NewOverpassSource(cfg.OverpassURL, cfg.BBox, p, cfg.Timeout), nil
	case config.SourceFile:
		return NewFileSource(cfg.InputFile), nil
	}
	return nil, fmt.Errorf("unknown source %q", cfg.Source)
}
