package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Device maps a human-readable device name to its backend identifier.
type Device struct {
	Name string `toml:"name"`
	ID   string `toml:"id"` // backend device UUID
}

type deviceFile struct {
	Devices []Device `toml:"devices"`
}

// LoadDevices reads the device registry from a TOML file. The registry is an
// array of tables, so file order is preserved; that order is what breaks
// ranking ties.
//
//	[[devices]]
//	name = "DeviceA"
//	id = "8f60fa90-9bec-11f0-bb3b-79d8a63f8f5f"
func LoadDevices(path string) ([]Device, error) {
	var f deviceFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to decode device registry %s: %w", path, err)
	}
	if len(f.Devices) == 0 {
		return nil, fmt.Errorf("device registry %s contains no devices", path)
	}

	seen := make(map[string]struct{}, len(f.Devices))
	for i, d := range f.Devices {
		if d.Name == "" || d.ID == "" {
			return nil, fmt.Errorf("device registry entry %d is missing name or id", i)
		}
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("duplicate device name %q in registry", d.Name)
		}
		seen[d.Name] = struct{}{}
	}

	return f.Devices, nil
}
