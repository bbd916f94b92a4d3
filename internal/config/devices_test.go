package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDevices(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDevicesPreservesOrder(t *testing.T) {
	path := writeDevices(t, `
[[devices]]
name = "DeviceA"
id = "8f60fa90-9bec-11f0-bb3b-79d8a63f8f5f"

[[devices]]
name = "DeviceB"
id = "950586b0-9b7d-11f0-b5de-8f27bbc7c18b"
`)

	devices, err := LoadDevices(path)
	if err != nil {
		t.Fatalf("LoadDevices: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("len = %d, want 2", len(devices))
	}
	if devices[0].Name != "DeviceA" || devices[1].Name != "DeviceB" {
		t.Errorf("file order not preserved: %v", devices)
	}
	if devices[0].ID != "8f60fa90-9bec-11f0-bb3b-79d8a63f8f5f" {
		t.Errorf("unexpected id %q", devices[0].ID)
	}
}

func TestLoadDevicesErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty registry", ``},
		{"missing id", "[[devices]]\nname = \"DeviceA\"\n"},
		{"missing name", "[[devices]]\nid = \"abc\"\n"},
		{"duplicate name", "[[devices]]\nname = \"A\"\nid = \"1\"\n\n[[devices]]\nname = \"A\"\nid = \"2\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDevices(t, tt.content)
			if _, err := LoadDevices(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadDevicesMissingFile(t *testing.T) {
	if _, err := LoadDevices(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
