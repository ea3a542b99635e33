package mnt4

import (
	"math/big"
	"testing"

	"github.com/drand/pairing/internal/curve"
	"github.com/drand/pairing/internal/field"
	"github.com/drand/pairing/internal/pairingutil"
	"github.com/drand/pairing/internal/tower"
	"github.com/stretchr/testify/require"
)

// Small prime, large enough to exercise the tower arithmetic; not a genuine
// MNT4 curve's modulus. See internal/pairing/bls12's test file doc comment
// for why these are contract/sanity tests, not bilinearity vectors.
const mnt4ModulusHex = "1c4c62d92c41110229022eee2cdadb7f997505b8fafed5eb7e8f96c97d8747f"

func testDescriptor(t *testing.T) *Descriptor {
	fp, ok := field.NewDescriptor(mustLimbs(t, mnt4ModulusHex, 4))
	require.True(t, ok)
	beta := fp.Zero().Neg(fp.One())
	fp2 := tower.NewDescriptorFp2(fp, beta)

	xi := fp2.Zero()
	xi.C0 = *fp.Zero().SetUint64(fp, 13)
	fp4 := tower.NewDescriptorFp4(fp2, xi)

	g1 := &curve.Descriptor[field.Element, *field.Element]{
		A: *fp.Zero().SetUint64(fp, 2), B: *fp.Zero().SetUint64(fp, 1),
		Zero: *fp.Zero(), One: *fp.One(),
	}
	g2 := &curve.Descriptor[tower.Fp2, *tower.Fp2]{
		A: *fp2.Zero(), B: *fp2.Zero(),
		Zero: *fp2.Zero(), One: *fp2.One(),
	}

	return &Descriptor{
		Fp: fp, Fp2: fp2, Fp4: fp4,
		G1: g1, G2: g2,
		// X=2: a single doubling step, same reasoning as bls12_test.go.
		X:          []uint64{2},
		XNegative:  false,
		W0:         []uint64{5},
		W0Negative: false,
		W1:         []uint64{1},
	}
}

func mustLimbs(t *testing.T, hex string, n int) []uint64 {
	t.Helper()
	p, ok := new(big.Int).SetString(hex, 16)
	require.True(t, ok)
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
	f, ok := d.FinalExponentiation(d.Fp4.One())
	require.True(t, ok)
	require.True(t, f.IsOne())
}

func TestMillerLoopNegativeXAppendsExtraStep(t *testing.T) {
	dPos := testDescriptor(t)
	dNeg := testDescriptor(t)
	dNeg.XNegative = true

	px := dPos.Fp.Zero().SetUint64(dPos.Fp, 3)
	py := dPos.Fp.Zero().SetUint64(dPos.Fp, 9)
	qx := dPos.Fp2.Zero()
	qx.C0 = *dPos.Fp.Zero().SetUint64(dPos.Fp, 4)
	qy := dPos.Fp2.Zero()
	qy.C0 = *dPos.Fp.Zero().SetUint64(dPos.Fp, 6)

	fPos, ok := dPos.MillerLoop(px, py, qx, qy)
	require.True(t, ok)
	fNeg, ok := dNeg.MillerLoop(px, py, qx, qy)
	require.True(t, ok)

	require.False(t, fPos.IsZero())
	require.False(t, fNeg.IsZero())
	require.False(t, fPos.Equal(fNeg))
}
