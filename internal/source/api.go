package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wegman-software/osm-housenames/internal/config"
	"github.com/wegman-software/osm-housenames/internal/document"
	"github.com/wegman-software/osm-housenames/internal/logger"
)

// MaxAPIArea is the largest bbox, in square degrees, the API map call serves
const MaxAPIArea = 0.25

const userAgent = "osm-housenames/1.0"

// ErrAreaTooLarge is returned before any request for oversized boxes
var ErrAreaTooLarge = errors.New("bounding box exceeds API area limit")

// APISource fetches /map?bbox=... from an OSM API 0.6 endpoint
type APISource struct {
	baseURL string
	bbox    *config.BBox
	client  *http.Client
}

// NewAPISource creates a source for the given endpoint and box. A zero
// timeout means the request blocks until the server answers.
func NewAPISource(baseURL string, bbox *config.BBox, timeout time.Duration) *APISource {
	return &APISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		bbox:    bbox,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name identifies the source in logs
func (s *APISource) Name() string {
	return "api"
}

// URL returns the map call for the configured box
func (s *APISource) URL() string {
	return s.baseURL + "/map?" + url.Values{"bbox": {s.bbox.String()}}.Encode()
}

// Load fetches and parses the document
func (s *APISource) Load(ctx context.Context) (*document.Document, error) {
	raw, err := s.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	return document.Parse(raw)
}

// FetchRaw performs the single GET and returns the body
func (s *APISource) FetchRaw(ctx context.Context) ([]byte, error) {
	log := logger.Get()
	u := s.URL()

	if area := s.bbox.Area(); area > MaxAPIArea {
		return nil, &FetchError{URL: u, Err: fmt.Errorf("%w: %.4f > %.2f square degrees", ErrAreaTooLarge, area, MaxAPIArea)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	log.Debug("Fetching map document", zap.String("url", u))
	start := time.Now()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(msg))),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	log.Info("Fetched map document",
		zap.Int("bytes", len(raw)),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)
	return raw, nil
}
