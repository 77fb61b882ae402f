package proj

import "math"

// British National Grid lives on the Airy 1830 ellipsoid (OSGB36 datum).
// Points are moved off WGS84 with the standard 7-parameter Helmert shift,
// which is good to a few metres, then projected with the OS transverse
// Mercator series.

type ellipsoid struct {
	a, b float64
}

func (e ellipsoid) e2() float64 {
	return (e.a*e.a - e.b*e.b) / (e.a * e.a)
}

var (
	wgs84    = ellipsoid{a: 6378137.000, b: 6356752.3142}
	airy1830 = ellipsoid{a: 6377563.396, b: 6356256.909}
)

// National Grid true origin and scale
const (
	gridF0   = 0.9996012717
	gridLat0 = 49.0 * math.Pi / 180
	gridLon0 = -2.0 * math.Pi / 180
	gridN0   = -100000.0
	gridE0   = 400000.0

	gridMaxEasting  = 700000.0
	gridMaxNorthing = 1300000.0
)

// WGS84 -> OSGB36 Helmert parameters
const (
	helmertTx = -446.448
	helmertTy = 125.157
	helmertTz = -542.060
	helmertS  = 20.4894e-6 // ppm
	helmertRx = -0.1502    // arcseconds
	helmertRy = -0.2470
	helmertRz = -0.8421
)

const arcsec = math.Pi / (180 * 3600)

// latLonToNationalGrid converts WGS84 degrees to OSGB36 easting/northing
func latLonToNationalGrid(lat, lon float64) (easting, northing float64) {
	phi, lambda := wgs84ToOSGB36(lat*math.Pi/180, lon*math.Pi/180)
	return transverseMercator(phi, lambda)
}

// wgs84ToOSGB36 shifts geodetic radians between datums via cartesian space
func wgs84ToOSGB36(phi, lambda float64) (float64, float64) {
	// geodetic -> cartesian on WGS84, height 0
	e2 := wgs84.e2()
	sinPhi := math.Sin(phi)
	nu := wgs84.a / math.Sqrt(1-e2*sinPhi*sinPhi)
	x := nu * math.Cos(phi) * math.Cos(lambda)
	y := nu * math.Cos(phi) * math.Sin(lambda)
	z := (1 - e2) * nu * sinPhi

	// Helmert
	s := 1 + helmertS
	rx, ry, rz := helmertRx*arcsec, helmertRy*arcsec, helmertRz*arcsec
	x2 := helmertTx + s*x - rz*y + ry*z
	y2 := helmertTy + rz*x + s*y - rx*z
	z2 := helmertTz - ry*x + rx*y + s*z

	// cartesian -> geodetic on Airy 1830
	e2 = airy1830.e2()
	p := math.Hypot(x2, y2)
	phi = math.Atan2(z2, p*(1-e2))
	for i := 0; i < 10; i++ {
		sinPhi = math.Sin(phi)
		nu = airy1830.a / math.Sqrt(1-e2*sinPhi*sinPhi)
		next := math.Atan2(z2+e2*nu*sinPhi, p)
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}
	return phi, math.Atan2(y2, x2)
}

// transverseMercator projects Airy 1830 radians onto the National Grid
func transverseMercator(phi, lambda float64) (easting, northing float64) {
	a, b := airy1830.a, airy1830.b
	e2 := airy1830.e2()
	n := (a - b) / (a + b)
	n2, n3 := n*n, n*n*n

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	tanPhi := math.Tan(phi)
	tan2, tan4 := tanPhi*tanPhi, tanPhi*tanPhi*tanPhi*tanPhi
	cos3 := cosPhi * cosPhi * cosPhi
	cos5 := cos3 * cosPhi * cosPhi

	nu := a * gridF0 / math.Sqrt(1-e2*sinPhi*sinPhi)
	rho := a * gridF0 * (1 - e2) / math.Pow(1-e2*sinPhi*sinPhi, 1.5)
	eta2 := nu/rho - 1

	dPhi := phi - gridLat0
	sPhi := phi + gridLat0
	ma := (1 + n + 1.25*n2 + 1.25*n3) * dPhi
	mb := (3*n + 3*n2 + 21.0/8*n3) * math.Sin(dPhi) * math.Cos(sPhi)
	mc := (15.0/8*n2 + 15.0/8*n3) * math.Sin(2*dPhi) * math.Cos(2*sPhi)
	md := 35.0 / 24 * n3 * math.Sin(3*dPhi) * math.Cos(3*sPhi)
	m := b * gridF0 * (ma - mb + mc - md)

	i := m + gridN0
	ii := nu / 2 * sinPhi * cosPhi
	iii := nu / 24 * sinPhi * cos3 * (5 - tan2 + 9*eta2)
	iiia := nu / 720 * sinPhi * cos5 * (61 - 58*tan2 + tan4)
	iv := nu * cosPhi
	v := nu / 6 * cos3 * (nu/rho - tan2)
	vi := nu / 120 * cos5 * (5 - 18*tan2 + tan4 + 14*eta2 - 58*tan2*eta2)

	dl := lambda - gridLon0
	dl2 := dl * dl
	northing = i + ii*dl2 + iii*dl2*dl2 + iiia*dl2*dl2*dl2
	easting = gridE0 + iv*dl + v*dl2*dl + vi*dl2*dl2*dl
	return easting, northing
}
