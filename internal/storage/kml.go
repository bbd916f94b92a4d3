package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/twpayne/go-kml/v3"

	"github.com/davitra/fleetboard/internal/models"
)

// WriteTrailKML writes the trail as a KML document with a line through all
// points and separate start and end placemarks, for loading into GIS tools.
// An empty trail produces no file.
func WriteTrailKML(path, deviceName string, t models.Trail) error {
	if len(t) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create kml dir: %w", err)
	}

	coords := make([]kml.Coordinate, len(t))
	for i, s := range t {
		coords[i] = kml.Coordinate{Lon: s.Lon, Lat: s.Lat}
	}

	doc := kml.KML(
		kml.Document(
			kml.Name(deviceName),
			kml.Placemark(
				kml.Name("Trail"),
				kml.LineString(kml.Coordinates(coords...)),
			),
			kml.Placemark(
				kml.Name("Start"),
				kml.Point(kml.Coordinates(coords[0])),
			),
			kml.Placemark(
				kml.Name("End"),
				kml.Point(kml.Coordinates(coords[len(coords)-1])),
			),
		),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create kml: %w", err)
	}
	defer f.Close()

	if err := doc.WriteIndent(f, "", "  "); err != nil {
		return fmt.Errorf("failed to write kml: %w", err)
	}
	return f.Close()
}
