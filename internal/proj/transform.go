package proj

import (
	"errors"
	"fmt"
	"math"
)

// SRID constants for supported projections
const (
	SRID4326  = 4326  // WGS84 (lat/lon)
	SRID3857  = 3857  // Web Mercator
	SRID27700 = 27700 // OSGB36 / British National Grid
)

var (
	// ErrInvalidCoordinate is returned for NaN or out of range lat/lon
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	// ErrOutsideGrid is returned when a point falls outside the target grid
	ErrOutsideGrid = errors.New("coordinate outside projection extent")
)

// Transformer converts WGS84 coordinates to a planar target projection
type Transformer struct {
	SourceSRID int
	TargetSRID int
}

// NewTransformer creates a transformer from source to target SRID
func NewTransformer(sourceSRID, targetSRID int) (*Transformer, error) {
	if sourceSRID != SRID4326 {
		return nil, fmt.Errorf("unsupported source SRID: %d (only 4326 supported)", sourceSRID)
	}
	if targetSRID != SRID3857 && targetSRID != SRID27700 {
		return nil, fmt.Errorf("unsupported target SRID: %d (only 3857 and 27700 supported)", targetSRID)
	}

	return &Transformer{
		SourceSRID: sourceSRID,
		TargetSRID: targetSRID,
	}, nil
}

// Project converts lat/lon in degrees to x (easting) and y (northing) in
// metres. Identical input always yields identical output.
func (t *Transformer) Project(lat, lon float64) (x, y float64, err error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("%w: lat=%f lon=%f", ErrInvalidCoordinate, lat, lon)
	}

	switch t.TargetSRID {
	case SRID3857:
		if lat > maxMercatorLat || lat < -maxMercatorLat {
			return 0, 0, fmt.Errorf("%w: lat=%f beyond web mercator limit", ErrOutsideGrid, lat)
		}
		x, y = lonLatToWebMercator(lon, lat)
		return x, y, nil
	case SRID27700:
		x, y = latLonToNationalGrid(lat, lon)
		if x < 0 || x > gridMaxEasting || y < 0 || y > gridMaxNorthing {
			return 0, 0, fmt.Errorf("%w: lat=%f lon=%f", ErrOutsideGrid, lat, lon)
		}
		return x, y, nil
	}
	return 0, 0, fmt.Errorf("unsupported target SRID: %d", t.TargetSRID)
}

// Web Mercator constants
const (
	// Semi-major axis of WGS84 ellipsoid in meters
	earthRadius = 6378137.0
	// Maximum extent of Web Mercator
	maxExtent      = 20037508.342789244
	maxMercatorLat = 85.06
)

// lonLatToWebMercator converts WGS84 (lon, lat) to Web Mercator (x, y)
func lonLatToWebMercator(lon, lat float64) (x, y float64) {
	x = lon * maxExtent / 180.0

	// y = R * ln(tan(π/4 + φ/2))
	latRad := lat * math.Pi / 180.0
	y = math.Log(math.Tan(math.Pi/4.0+latRad/2.0)) * earthRadius

	return x, y
}

// ParseSRID parses a projection string to SRID
// Accepts: "3857", "27700", "EPSG:3857", "EPSG:27700", "bng"
func ParseSRID(s string) (int, error) {
	switch s {
	case "3857", "EPSG:3857":
		return SRID3857, nil
	case "27700", "EPSG:27700", "bng", "BNG":
		return SRID27700, nil
	default:
		return 0, fmt.Errorf("unsupported projection: %s (supported: 27700, 3857)", s)
	}
}
