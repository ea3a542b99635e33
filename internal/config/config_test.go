package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDecodesPresetsAndTuning(t *testing.T) {
	f, err := Load("testdata/presets.toml")
	require.NoError(t, err)
	require.Len(t, f.Preset, 2)
	require.Equal(t, 32, f.Tuning.DescriptorCacheSize)

	bls12, ok := f.ByName("bls12-381")
	require.True(t, ok)
	require.Equal(t, "bls12", bls12.Family)
	require.Equal(t, 6, bls12.LimbWidth)
	require.Equal(t, "-d201000000010000", bls12.LoopHex)

	_, ok = f.ByName("does-not-exist")
	require.False(t, ok)
}

func TestWindowForPicksWidestApplicableWindow(t *testing.T) {
	f, err := Load("testdata/presets.toml")
	require.NoError(t, err)

	require.Equal(t, uint(4), f.Tuning.WindowFor(1))
	require.Equal(t, uint(4), f.Tuning.WindowFor(10))
	require.Equal(t, uint(6), f.Tuning.WindowFor(100))
	require.Equal(t, uint(8), f.Tuning.WindowFor(1000))
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("testdata/does-not-exist.toml")
	require.Error(t, err)
}
