// Package mapview renders a trail as a self-contained Leaflet HTML document.
// Rendering is a pure function; writing the artifact to disk is a separate
// explicit step so the computation is testable without filesystem access.
package mapview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/davitra/fleetboard/internal/models"
	"github.com/davitra/fleetboard/internal/spatial"
)

// Artifact is a rendered map document for one device.
type Artifact struct {
	DeviceName string
	Filename   string // unique per render, safe as a path component
	HTML       []byte
}

// URLPath returns the path under which the report server exposes the artifact.
func (a *Artifact) URLPath() string {
	return "/static/" + a.Filename
}

var mapTmpl = template.Must(template.New("map").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" />
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html,body,#map{height:100%;margin:0}</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 13);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var coords = {{.Coords}};
var line = L.polyline(coords, {color: 'blue', weight: 3}).addTo(map);
L.circleMarker(coords[0], {radius: 7, color: 'green', fillOpacity: 1}).addTo(map).bindPopup('Start');
L.circleMarker(coords[coords.length-1], {radius: 7, color: 'red', fillOpacity: 1}).addTo(map).bindPopup('End');
map.fitBounds(line.getBounds());
</script>
</body>
</html>
`))

type mapData struct {
	CenterLat float64
	CenterLon float64
	Coords    template.JS
}

// Render produces the map artifact for a trail: a path through all points
// with distinct start and end markers, centered on the trail's bound.
// An empty trail produces no artifact and a nil result.
//
// The filename carries a fresh UUID so concurrent renders for the same device
// never contend for one output path.
func Render(deviceName string, t models.Trail) (*Artifact, error) {
	if len(t) == 0 {
		return nil, nil
	}

	bound, _ := spatial.TrailBound(t)

	coords := make([][2]float64, len(t))
	for i, p := range t {
		coords[i] = [2]float64{p.Lat, p.Lon}
	}
	coordsJSON, err := json.Marshal(coords)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trail coordinates: %w", err)
	}

	var buf bytes.Buffer
	err = mapTmpl.Execute(&buf, mapData{
		CenterLat: bound.CenterLat,
		CenterLon: bound.CenterLon,
		Coords:    template.JS(coordsJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render map for %s: %w", deviceName, err)
	}

	return &Artifact{
		DeviceName: deviceName,
		Filename:   fmt.Sprintf("%s_%s.html", sanitize(deviceName), uuid.NewString()),
		HTML:       buf.Bytes(),
	}, nil
}

// WriteArtifact persists the artifact under dir and returns its full path.
// The write goes through a temp file and a rename so a concurrent reader
// never sees a half-written document.
func WriteArtifact(dir string, a *Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "map-*.html")
	if err != nil {
		return "", fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(a.HTML); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}

	path := filepath.Join(dir, a.Filename)
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to place artifact: %w", err)
	}
	return path, nil
}

// sanitize keeps device names usable as path components.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
