package runwalk

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IntervalKind distinguishes preset and custom interval selections.
type IntervalKind string

const (
	IntervalPreset IntervalKind = "preset"
	IntervalCustom IntervalKind = "custom"
)

// Bounds for interval durations, in seconds.
const (
	MinIntervalSeconds = 10
	MaxIntervalSeconds = 1800
)

// PresetDurations is the fixed set of durations offered as presets, in
// seconds.
var PresetDurations = []int{15, 30, 45, 60, 90, 120, 180, 240, 300, 600, 900}

// IntervalSelection describes a configured interval duration: either one of
// the fixed presets or a validated custom value. Two selections are equal
// only when both the kind and the seconds match, so PresetInterval(30) and
// CustomInterval(30) are distinct despite resolving to the same duration.
type IntervalSelection struct {
	Kind    IntervalKind
	Seconds int
}

// PresetInterval returns the preset selection for the given duration.
func PresetInterval(seconds int) (IntervalSelection, error) {
	for _, d := range PresetDurations {
		if d == seconds {
			return IntervalSelection{Kind: IntervalPreset, Seconds: seconds}, nil
		}
	}
	return IntervalSelection{}, fmt.Errorf("no %d second preset", seconds)
}

// CustomInterval returns a custom selection, validating the bounds.
func CustomInterval(seconds int) (IntervalSelection, error) {
	if seconds < MinIntervalSeconds || seconds > MaxIntervalSeconds {
		return IntervalSelection{}, fmt.Errorf("custom interval must be %d-%d seconds, got %d",
			MinIntervalSeconds, MaxIntervalSeconds, seconds)
	}
	return IntervalSelection{Kind: IntervalCustom, Seconds: seconds}, nil
}

// DefaultRunInterval returns the selection used when no run interval was
// configured.
func DefaultRunInterval() IntervalSelection {
	return IntervalSelection{Kind: IntervalPreset, Seconds: DefaultRunSeconds}
}

// DefaultWalkInterval returns the selection used when no walk interval was
// configured.
func DefaultWalkInterval() IntervalSelection {
	return IntervalSelection{Kind: IntervalPreset, Seconds: DefaultWalkSeconds}
}

// Duration returns the resolved duration in seconds. The bounds are
// enforced here as well, so a zero-value selection can never produce a
// non-positive phase length.
func (s IntervalSelection) Duration() int {
	if s.Seconds < MinIntervalSeconds {
		return MinIntervalSeconds
	}
	if s.Seconds > MaxIntervalSeconds {
		return MaxIntervalSeconds
	}
	return s.Seconds
}

// UnmarshalYAML decodes a selection written as either {preset: 30} or
// {custom: 45}.
func (s *IntervalSelection) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Preset *int `yaml:"preset"`
		Custom *int `yaml:"custom"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.Preset != nil && raw.Custom != nil:
		return fmt.Errorf("interval cannot be both preset and custom")
	case raw.Preset != nil:
		sel, err := PresetInterval(*raw.Preset)
		if err != nil {
			return err
		}
		*s = sel
	case raw.Custom != nil:
		sel, err := CustomInterval(*raw.Custom)
		if err != nil {
			return err
		}
		*s = sel
	default:
		return fmt.Errorf("interval requires a preset or custom duration")
	}
	return nil
}

// MarshalYAML encodes the selection in the same tagged form UnmarshalYAML
// accepts.
func (s IntervalSelection) MarshalYAML() (any, error) {
	switch s.Kind {
	case IntervalPreset:
		return map[string]int{"preset": s.Seconds}, nil
	case IntervalCustom:
		return map[string]int{"custom": s.Seconds}, nil
	default:
		return nil, fmt.Errorf("unknown interval kind %q", s.Kind)
	}
}
