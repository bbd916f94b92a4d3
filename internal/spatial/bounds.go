package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/davitra/fleetboard/internal/models"
)

// Bound is the lat/lng rectangle covering a trail, used for map framing.
type Bound struct {
	CenterLat float64
	CenterLon float64
	SpanLat   float64 // degrees
	SpanLon   float64 // degrees
}

// TrailBound computes the bounding rectangle of a trail using s2.
// ok is false for an empty trail.
func TrailBound(trail models.Trail) (Bound, bool) {
	if len(trail) == 0 {
		return Bound{}, false
	}

	rect := s2.EmptyRect()
	for _, p := range trail {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}

	center := rect.Center()
	size := rect.Size()
	return Bound{
		CenterLat: center.Lat.Degrees(),
		CenterLon: center.Lng.Degrees(),
		SpanLat:   size.Lat.Degrees(),
		SpanLon:   size.Lng.Degrees(),
	}, true
}
