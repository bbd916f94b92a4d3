// Package storage persists fetched samples: per-device CSV and KML artifacts
// for the recap run, and a sqlite archive of every sample seen.
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/davitra/fleetboard/internal/models"
)

// WriteTrailCSV writes one row per trail sample with a ts,lat,lon header,
// overwriting any previous file at path. An empty trail still produces the
// header so each run leaves a fresh, well-formed file.
func WriteTrailCSV(path string, t models.Trail) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create csv dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ts", "lat", "lon"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, s := range t {
		row := []string{
			strconv.FormatInt(s.Ts, 10),
			strconv.FormatFloat(s.Lat, 'f', -1, 64),
			strconv.FormatFloat(s.Lon, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return f.Close()
}
