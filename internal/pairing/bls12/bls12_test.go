package bls12

import (
	"math/big"
	"testing"

	"github.com/drand/pairing/internal/curve"
	"github.com/drand/pairing/internal/field"
	"github.com/drand/pairing/internal/pairingutil"
	"github.com/drand/pairing/internal/tower"
	"github.com/stretchr/testify/require"
)

// bls12-381 base field modulus; reused only for its field arithmetic here,
// not paired with the real BLS12-381 curve/twist coefficients. Building a
// genuine bilinear test vector needs a real pairing-friendly curve's A/B/
// generator/subgroup-order constants, which belong to a curve preset (not
// yet wired up at this layer) rather than this package's unit tests; the
// tests below exercise the spec.md §4.9 contract (length checks, identity
// filtering) and algebraic sanity properties that hold independent of
// whether the toy curve used is actually pairing-friendly.
const bls12381ModulusHex = "1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab"

func mustLimbs(hex string, n int) []uint64 {
	p, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("bad hex")
	}
	return pairingutil.BigToLimbs(p, n)
}

func testDescriptor(t *testing.T) *Descriptor {
	fp, ok := field.NewDescriptor(mustLimbs(bls12381ModulusHex, 6))
	require.True(t, ok)
	beta := fp.Zero().Neg(fp.One())
	fp2 := tower.NewDescriptorFp2(fp, beta)

	xi := fp2.Zero()
	xi.C0 = *fp.One()
	xi.C1 = *fp.One()
	fp6 := tower.NewDescriptorFp6From2(fp2, xi)
	fp12 := tower.NewDescriptorFp12(fp6)

	g1 := &curve.Descriptor[field.Element, *field.Element]{
		A: *fp.Zero(), B: *fp.Zero().SetUint64(fp, 4),
		Zero: *fp.Zero(), One: *fp.One(),
	}
	g2 := &curve.Descriptor[tower.Fp2, *tower.Fp2]{
		A: *fp2.Zero(), B: *fp2.Zero(),
		Zero: *fp2.Zero(), One: *fp2.One(),
	}

	return &Descriptor{
		Fp: fp, Fp2: fp2, Fp6: fp6, Fp12: fp12,
		G1: g1, G2: g2,
		// X=2 (binary "10") keeps the Miller loop below to a single
		// doubling step with no addition step, so its correctness doesn't
		// hinge on many iterations of a toy, non-pairing-friendly curve
		// happening to avoid a degenerate (zero-denominator) line function.
		X:         []uint64{2},
		XNegative: true,
		Twist:     pairingutil.TwistD,
		HardExp:   []uint64{1}, // trivial exponent; contract tests don't need the real hard part
	}
}

func TestMultiPairLengthMismatchFails(t *testing.T) {
	d := testDescriptor(t)
	_, ok := d.MultiPair([]*G1Point{d.G1.ZeroPoint()}, nil)
	require.False(t, ok)
}

func TestMultiPairAllIdentityReturnsOne(t *testing.T) {
	d := testDescriptor(t)
	f, ok := d.MultiPair([]*G1Point{d.G1.ZeroPoint()}, []*G2Point{d.G2.ZeroPoint()})
	require.True(t, ok)
	require.True(t, f.IsOne())
}

func TestMultiPairEmptyReturnsOne(t *testing.T) {
	d := testDescriptor(t)
	f, ok := d.MultiPair(nil, nil)
	require.True(t, ok)
	require.True(t, f.IsOne())
}

func TestFinalExponentiationOfOneIsOne(t *testing.T) {
	d := testDescriptor(t)
	f, ok := d.FinalExponentiation(d.Fp12.One())
	require.True(t, ok)
	require.True(t, f.IsOne())
}

func TestFinalExponentiationRejectsNonInvertible(t *testing.T) {
	d := testDescriptor(t)
	_, ok := d.FinalExponentiation(d.Fp12.Zero())
	require.False(t, ok)
}

func TestMillerLoopProducesWellFormedAccumulator(t *testing.T) {
	d := testDescriptor(t)
	px := d.Fp.Zero().SetUint64(d.Fp, 1)
	py := d.Fp.Zero().SetUint64(d.Fp, 2)
	qx := d.Fp2.Zero()
	qx.C0 = *d.Fp.Zero().SetUint64(d.Fp, 1)
	qy := d.Fp2.Zero()
	qy.C0 = *d.Fp.Zero().SetUint64(d.Fp, 2)

	f, ok := d.MillerLoop(px, py, qx, qy)
	require.True(t, ok)
	require.NotNil(t, f.D)
}
