package runwalk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds the user-configurable interval selections plus where the
// shared snapshot slot lives. The run and walk selections are independent
// and each resolves to seconds within the interval bounds.
type Settings struct {
	Run      IntervalSelection `yaml:"run"`
	Walk     IntervalSelection `yaml:"walk"`
	SlotPath string            `yaml:"slot_path,omitempty"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		Run:  DefaultRunInterval(),
		Walk: DefaultWalkInterval(),
	}
}

// LoadSettingsFile loads settings from a YAML file. Keys absent from the
// file keep their defaults.
func LoadSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	settings, err := LoadSettings(data)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return settings, nil
}

// LoadSettings loads settings from YAML data.
func LoadSettings(data []byte) (Settings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return settings, nil
}
