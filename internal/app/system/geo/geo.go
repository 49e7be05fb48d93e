// Package geo implements the radius filters used by the public event query.
//
// Two filters exist. BoundingBox is a rectangular pre-filter that maps
// directly onto a range query; it admits points in the corners of the box
// that lie farther than the radius. Haversine gives the great-circle
// distance and is used for the precise pass.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// KmPerDegreeLat is the length of one degree of latitude.
const KmPerDegreeLat = 111.32

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// LngRange is an inclusive longitude interval with Min <= Max.
type LngRange struct {
	Min float64
	Max float64
}

// Box is the rectangle admitted by BoundingBox. Lng holds one range, or
// two when the box crosses the antimeridian.
type Box struct {
	MinLat float64
	MaxLat float64
	Lng    []LngRange
}

// BoundingBox returns the rectangle of half-height radiusKm/111.32 degrees
// and half-width radiusKm/(111.32*cos(lat)) degrees around c.
func BoundingBox(c Point, radiusKm float64) Box {
	dLat := radiusKm / KmPerDegreeLat
	b := Box{
		MinLat: math.Max(c.Lat-dLat, -90),
		MaxLat: math.Min(c.Lat+dLat, 90),
	}

	cosLat := math.Cos(radians(c.Lat))
	if cosLat <= 1e-12 {
		b.Lng = []LngRange{{Min: -180, Max: 180}}
		return b
	}
	dLng := radiusKm / (KmPerDegreeLat * cosLat)
	if dLng >= 180 {
		b.Lng = []LngRange{{Min: -180, Max: 180}}
		return b
	}

	lo, hi := c.Lng-dLng, c.Lng+dLng
	switch {
	case lo < -180:
		b.Lng = []LngRange{{Min: lo + 360, Max: 180}, {Min: -180, Max: hi}}
	case hi > 180:
		b.Lng = []LngRange{{Min: lo, Max: 180}, {Min: -180, Max: hi - 360}}
	default:
		b.Lng = []LngRange{{Min: lo, Max: hi}}
	}
	return b
}

// Contains reports whether p falls inside the box (edges inclusive).
func (b Box) Contains(p Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	for _, r := range b.Lng {
		if p.Lng >= r.Min && p.Lng <= r.Max {
			return true
		}
	}
	return false
}

// Haversine returns the great-circle distance between a and b in km.
func Haversine(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Within reports whether p is no farther than radiusKm from c.
func Within(c, p Point, radiusKm float64) bool {
	return Haversine(c, p) <= radiusKm
}

// Destination returns the point reached by travelling distKm from p on the
// initial bearing bearingDeg (0 = north, 90 = east).
func Destination(p Point, bearingDeg, distKm float64) Point {
	d := distKm / EarthRadiusKm
	brg := radians(bearingDeg)
	lat1, lng1 := radians(p.Lat), radians(p.Lng)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(brg))
	lng2 := lng1 + math.Atan2(math.Sin(brg)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))

	lng := degrees(lng2)
	lng = math.Mod(lng+540, 360) - 180
	return Point{Lat: degrees(lat2), Lng: lng}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
