// Package geo provides the WGS-84 <-> UTM projection used wherever the
// pipeline needs metrically accurate planar coordinates: the 10 m
// rank-join buffer and per-segment path lengths.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// WGS-84 ellipsoid and UTM constants.
const (
	equatorialRadius = 6378137.0
	flattening       = 1 / 298.257223563
	scaleFactor      = 0.9996
	falseEasting     = 500000.0
	falseNorthing    = 10000000.0
)

var (
	e2  = flattening * (2 - flattening) // first eccentricity squared
	ep2 = e2 / (1 - e2)                 // second eccentricity squared
)

// Projection is a fixed UTM zone. Projected coordinates are
// easting/northing in meters, stored as orb.Point{easting, northing}.
type Projection struct {
	Zone  int
	South bool
}

// EstimateProjection picks the UTM zone covering the centroid of the
// given lon/lat points, mirroring how a per-dataset projected CRS is
// normally chosen for local distance work.
func EstimateProjection(points []orb.Point) Projection {
	if len(points) == 0 {
		return Projection{Zone: 31}
	}

	var sumLon, sumLat float64
	for _, p := range points {
		sumLon += p[0]
		sumLat += p[1]
	}

	meanLon := sumLon / float64(len(points))
	meanLat := sumLat / float64(len(points))

	zone := int(math.Floor((meanLon+180)/6)) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > 60 {
		zone = 60
	}

	return Projection{Zone: zone, South: meanLat < 0}
}

func (p Projection) centralMeridian() float64 {
	return float64((p.Zone-1)*6 - 180 + 3)
}

// Forward projects a WGS-84 lon/lat point to UTM easting/northing meters.
// Transverse Mercator series expansion (Snyder), accurate to well under a
// millimeter inside the zone.
func (p Projection) Forward(pt orb.Point) orb.Point {
	lat := pt[1] * math.Pi / 180
	lon := pt[0] * math.Pi / 180
	lon0 := p.centralMeridian() * math.Pi / 180

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)

	n := equatorialRadius / math.Sqrt(1-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	a := cosLat * (lon - lon0)

	m := equatorialRadius * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*lat -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*lat) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*lat) -
		(35*e2*e2*e2/3072)*math.Sin(6*lat))

	easting := scaleFactor*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + falseEasting

	northing := scaleFactor * (m + n*tanLat*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))

	if p.South {
		northing += falseNorthing
	}

	return orb.Point{easting, northing}
}

// Inverse converts UTM easting/northing meters back to WGS-84 lon/lat.
func (p Projection) Inverse(pt orb.Point) orb.Point {
	x := pt[0] - falseEasting
	y := pt[1]
	if p.South {
		y -= falseNorthing
	}

	m := y / scaleFactor
	mu := m / (equatorialRadius * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	phi1 := mu + (3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := equatorialRadius / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := equatorialRadius * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * scaleFactor)

	lat := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lon := p.centralMeridian()*math.Pi/180 + (d-
		(1+2*t1+c1)*d*d*d/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120)/cosPhi1

	return orb.Point{lon * 180 / math.Pi, lat * 180 / math.Pi}
}
