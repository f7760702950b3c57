package runwalk

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPresetInterval(t *testing.T) {
	sel, err := PresetInterval(30)
	require.NoError(t, err)
	require.Equal(t, IntervalPreset, sel.Kind)
	require.Equal(t, 30, sel.Seconds)
	require.Equal(t, 30, sel.Duration())

	_, err = PresetInterval(31)
	require.Error(t, err)
	require.Contains(t, err.Error(), "preset")

	for _, seconds := range PresetDurations {
		_, err := PresetInterval(seconds)
		require.NoError(t, err)
	}
}

func TestCustomInterval(t *testing.T) {
	sel, err := CustomInterval(75)
	require.NoError(t, err)
	require.Equal(t, IntervalCustom, sel.Kind)
	require.Equal(t, 75, sel.Duration())

	// Bounds are inclusive.
	_, err = CustomInterval(MinIntervalSeconds)
	require.NoError(t, err)
	_, err = CustomInterval(MaxIntervalSeconds)
	require.NoError(t, err)

	_, err = CustomInterval(MinIntervalSeconds - 1)
	require.Error(t, err)
	_, err = CustomInterval(MaxIntervalSeconds + 1)
	require.Error(t, err)
}

func TestIntervalSelectionIdentity(t *testing.T) {
	// A preset and a custom selection of the same length are distinct
	// values even though their durations agree.
	preset, err := PresetInterval(30)
	require.NoError(t, err)
	custom, err := CustomInterval(30)
	require.NoError(t, err)
	require.NotEqual(t, preset, custom)
	require.Equal(t, preset.Duration(), custom.Duration())
}

func TestIntervalSelectionYAML(t *testing.T) {
	t.Run("preset", func(t *testing.T) {
		var sel IntervalSelection
		require.NoError(t, yaml.Unmarshal([]byte("preset: 45"), &sel))
		require.Equal(t, IntervalPreset, sel.Kind)
		require.Equal(t, 45, sel.Seconds)
	})

	t.Run("custom", func(t *testing.T) {
		var sel IntervalSelection
		require.NoError(t, yaml.Unmarshal([]byte("custom: 75"), &sel))
		require.Equal(t, IntervalCustom, sel.Kind)
		require.Equal(t, 75, sel.Seconds)
	})

	t.Run("both keys rejected", func(t *testing.T) {
		var sel IntervalSelection
		err := yaml.Unmarshal([]byte("preset: 30\ncustom: 75"), &sel)
		require.Error(t, err)
	})

	t.Run("neither key rejected", func(t *testing.T) {
		var sel IntervalSelection
		err := yaml.Unmarshal([]byte("{}"), &sel)
		require.Error(t, err)
	})

	t.Run("out of range custom rejected", func(t *testing.T) {
		var sel IntervalSelection
		err := yaml.Unmarshal([]byte("custom: 5"), &sel)
		require.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		original, err := CustomInterval(90)
		require.NoError(t, err)
		data, err := yaml.Marshal(original)
		require.NoError(t, err)
		var decoded IntervalSelection
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		require.Equal(t, original, decoded)
	})
}
