package bn

import (
	"math/big"
	"testing"

	"github.com/drand/pairing/internal/curve"
	"github.com/drand/pairing/internal/field"
	"github.com/drand/pairing/internal/pairingutil"
	"github.com/drand/pairing/internal/tower"
	"github.com/stretchr/testify/require"
)

// A BN254-sized prime with p-1 and p^2-1 divisible by 2 and 3, so the
// twist-correction exponents (p-1)/3, (p-1)/2, (p^2-1)/3 and (p^2-1)/2 are
// exact; not claimed to be BN254's
// actual parameter (the real curve's A/B/generator/order belong to a curve
// preset, not this package's unit tests). See bls12_test.go's package doc
// for why these tests are contract/sanity-level rather than full bilinearity
// vectors.
const bnModulusHex = "2523648240000001ba344d80000000086121000000000013a700000000000013"

func testDescriptor(t *testing.T) *Descriptor {
	fp, ok := field.NewDescriptor(mustLimbs(bnModulusHex, 4))
	require.True(t, ok)
	beta := fp.Zero().Neg(fp.One())
	fp2 := tower.NewDescriptorFp2(fp, beta)

	xi := fp2.Zero()
	xi.C0 = *fp.One()
	xi.C1 = *fp.One()
	fp6 := tower.NewDescriptorFp6From2(fp2, xi)
	fp12 := tower.NewDescriptorFp12(fp6)

	g1 := &curve.Descriptor[field.Element, *field.Element]{
		A: *fp.Zero(), B: *fp.Zero().SetUint64(fp, 3),
		Zero: *fp.Zero(), One: *fp.One(),
	}
	g2 := &curve.Descriptor[tower.Fp2, *tower.Fp2]{
		A: *fp2.Zero(), B: *fp2.Zero(),
		Zero: *fp2.Zero(), One: *fp2.One(),
	}

	p := pairingutil.LimbsToBig(fp.Modulus)
	pm1 := new(big.Int).Sub(p, big.NewInt(1))
	p2m1 := new(big.Int).Sub(new(big.Int).Mul(p, p), big.NewInt(1))

	return &Descriptor{
		Fp: fp, Fp2: fp2, Fp6: fp6, Fp12: fp12,
		G1: g1, G2: g2,
		// Loop=2 (binary "10"): a single doubling step, no addition step
		// inside the main loop, for the same reason bls12_test.go picks a
		// tiny loop parameter.
		Loop:    []uint64{2},
		LoopNeg: false,
		Gamma11: twistPow(xi, exactDiv(pm1, 3)),
		Gamma12: twistPow(xi, exactDiv(pm1, 2)),
		Gamma21: twistPow(xi, exactDiv(p2m1, 3)),
		Gamma22: twistPow(xi, exactDiv(p2m1, 2)),
		Twist:   pairingutil.TwistD,
		HardExp: []uint64{1},
	}
}

func mustLimbs(hex string, n int) []uint64 {
	p, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("bad hex")
	}
	return pairingutil.BigToLimbs(p, n)
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

func TestFinalExponentiationOfOneIsOne(t *testing.T) {
	d := testDescriptor(t)
	f, ok := d.FinalExponentiation(d.Fp12.One())
	require.True(t, ok)
	require.True(t, f.IsOne())
}

func TestTwistedFrobeniusIsDeterministic(t *testing.T) {
	d := testDescriptor(t)
	qx := d.Fp2.Zero()
	qx.C0 = *d.Fp.Zero().SetUint64(d.Fp, 5)
	qy := d.Fp2.Zero()
	qy.C0 = *d.Fp.Zero().SetUint64(d.Fp, 7)

	x1a, y1a := d.twistedFrobenius(qx, qy)
	x1b, y1b := d.twistedFrobenius(qx, qy)
	require.True(t, x1a.Equal(x1b))
	require.True(t, y1a.Equal(y1b))
}
