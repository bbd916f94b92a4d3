package spatial

import (
	"math"
	"testing"

	"github.com/davitra/fleetboard/internal/models"
)

func TestTrailBoundEmpty(t *testing.T) {
	if _, ok := TrailBound(models.Trail{}); ok {
		t.Fatal("expected ok=false for empty trail")
	}
}

func TestTrailBoundCenter(t *testing.T) {
	trail := models.Trail{
		{Ts: 1, Lat: 10, Lon: 20},
		{Ts: 2, Lat: 12, Lon: 24},
	}
	b, ok := TrailBound(trail)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if math.Abs(b.CenterLat-11) > 0.01 {
		t.Errorf("CenterLat = %v, want 11", b.CenterLat)
	}
	if math.Abs(b.CenterLon-22) > 0.01 {
		t.Errorf("CenterLon = %v, want 22", b.CenterLon)
	}
	if math.Abs(b.SpanLat-2) > 0.01 || math.Abs(b.SpanLon-4) > 0.01 {
		t.Errorf("span = (%v, %v), want (2, 4)", b.SpanLat, b.SpanLon)
	}
}

func TestTrailBoundSinglePoint(t *testing.T) {
	trail := models.Trail{{Ts: 1, Lat: 5, Lon: 6}}
	b, ok := TrailBound(trail)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if math.Abs(b.CenterLat-5) > 1e-9 || math.Abs(b.CenterLon-6) > 1e-9 {
		t.Errorf("center = (%v, %v), want (5, 6)", b.CenterLat, b.CenterLon)
	}
}
