// Package config loads the engine's TOML-based configuration: named curve
// presets (BLS12-381, BLS12-377, BN254, MNT6-small, SW6) and engine-wide
// tuning knobs (MSM window sizes, descriptor cache capacity), modeled on
// drand's TOML proposal/group-file loading pattern
// (internal/drand-cli/proposal_file.go's toml.DecodeFile shape).
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// CurvePreset names one of the four pairing families and carries its
// parameters as hex strings (decimal-less, toolchain-agnostic encoding);
// internal/engine turns these into limb slices via pairingutil.
type CurvePreset struct {
	Name   string // e.g. "bls12-381", "bn254", "mnt6-small", "sw6"
	Family string // "bls12", "bn", "mnt4", "mnt6"

	ModulusHex string
	OrderHex   string
	LimbWidth  int

	// A/B are the G1 short-Weierstrass coefficients, hex-encoded.
	AHex, BHex string

	// LoopHex is the signed Miller-loop parameter (BLS12's x, BN's u,
	// MNT4/6's x), hex-encoded two's-complement-free: a leading '-'
	// indicates a negative value.
	LoopHex string

	// Twist is the sextic twist kind, "D" or "M" (spec.md §4.6 step 1, §6's
	// wire-format twist-type byte); only meaningful for bls12/bn families.
	Twist string

	// W0Hex/W1Hex are only meaningful for the mnt4/mnt6 families.
	W0Hex, W1Hex string
}

// MSMWindow maps a scalar count threshold to a Pippenger window width.
// internal/msm does not read this table; its window size comes from the
// fixed thresholds in msm.windowSize.
type MSMWindow struct {
	MinCount int
	Width    uint
}

// Tuning holds engine-wide knobs outside any one curve preset.
type Tuning struct {
	MSMWindows          []MSMWindow
	DescriptorCacheSize int
}

// File is the top-level decoded shape of a presets TOML file.
type File struct {
	Preset []CurvePreset
	Tuning Tuning
}

// Load decodes path into a File, matching
// internal/drand-cli/proposal_file.go's toml.DecodeFile usage.
func Load(path string) (*File, error) {
	f := &File{}
	if _, err := toml.DecodeFile(path, f); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return f, nil
}

// ByName returns the preset with the given Name, or false if absent.
func (f *File) ByName(name string) (CurvePreset, bool) {
	for _, p := range f.Preset {
		if p.Name == name {
			return p, true
		}
	}
	return CurvePreset{}, false
}

// WindowFor returns the widest configured MSM window whose MinCount does
// not exceed count, defaulting to 4 when Tuning carries no table.
func (t *Tuning) WindowFor(count int) uint {
	width := uint(4)
	for _, w := range t.MSMWindows {
		if count >= w.MinCount && w.Width > width {
			width = w.Width
		}
	}
	return width
}
