package tower

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/drand/pairing/internal/field"
	"github.com/stretchr/testify/require"
)

// bls12-381 base field modulus, reused across the tower tests.
var bls12381Modulus = mustLimbs("1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab", 6)

func mustLimbs(hex string, n int) []uint64 {
	p, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("bad hex")
	}
	return bigToLimbs(p, n)
}

func randomFp(t *testing.T, d *field.Descriptor, rnd *rand.Rand) *field.Element {
	modulus := limbsToBig(d.Modulus)
	v := new(big.Int).Rand(rnd, modulus)
	bz := v.Bytes()
	padded := make([]byte, d.N*8)
	copy(padded[len(padded)-len(bz):], bz)
	e, ok := field.FromBEBytes(d, padded, true)
	require.True(t, ok)
	return e
}

func newFp2Descriptor(t *testing.T) (*field.Descriptor, *DescriptorFp2) {
	base, ok := field.NewDescriptor(bls12381Modulus)
	require.True(t, ok)
	// beta = -1, the BLS12-381 Fp2 non-residue.
	beta := base.Zero().Neg(base.One())
	return base, NewDescriptorFp2(base, beta)
}

func randomFp2(t *testing.T, d *DescriptorFp2, rnd *rand.Rand) *Fp2 {
	z := d.Zero()
	z.C0 = *randomFp(t, d.Base, rnd)
	z.C1 = *randomFp(t, d.Base, rnd)
	return z
}

func TestFp2RingLaws(t *testing.T) {
	_, d := newFp2Descriptor(t)
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		a := randomFp2(t, d, rnd)
		b := randomFp2(t, d, rnd)
		c := randomFp2(t, d, rnd)

		ab := d.Zero().Add(a, b)
		ba := d.Zero().Add(b, a)
		require.True(t, ab.Equal(ba))

		lhs := d.Zero().Add(d.Zero().Add(a, b), c)
		rhs := d.Zero().Add(a, d.Zero().Add(b, c))
		require.True(t, lhs.Equal(rhs))

		left := d.Zero().Mul(a, d.Zero().Add(b, c))
		right := d.Zero().Add(d.Zero().Mul(a, b), d.Zero().Mul(a, c))
		require.True(t, left.Equal(right))

		sq := d.Zero().Square(a)
		mm := d.Zero().Mul(a, a)
		require.True(t, sq.Equal(mm))

		if !a.IsZero() {
			inv := d.Zero()
			require.True(t, inv.Inverse(a))
			one := d.Zero().Mul(a, inv)
			require.True(t, one.IsOne())
		}
	}
}

func TestFp2FrobeniusIsIdentityOnOrderTwo(t *testing.T) {
	_, d := newFp2Descriptor(t)
	rnd := rand.New(rand.NewSource(12))
	a := randomFp2(t, d, rnd)

	twice := d.Zero().Frobenius(d.Zero().Frobenius(a, 1), 1)
	require.True(t, twice.Equal(a))
}

func newFp3Descriptor(t *testing.T) *DescriptorFp3 {
	base, ok := field.NewDescriptor(bls12381Modulus)
	require.True(t, ok)
	// Not a genuine MNT-family non-residue, but nonzero; structural ring
	// law tests below don't depend on beta being a true cubic non-residue.
	beta := base.Zero().SetUint64(base, 5)
	return NewDescriptorFp3(base, beta)
}

func randomFp3(t *testing.T, d *DescriptorFp3, rnd *rand.Rand) *Fp3 {
	z := d.Zero()
	z.C0 = *randomFp(t, d.Base, rnd)
	z.C1 = *randomFp(t, d.Base, rnd)
	z.C2 = *randomFp(t, d.Base, rnd)
	return z
}

func TestFp3MulMatchesSquareAndRingLaws(t *testing.T) {
	d := newFp3Descriptor(t)
	rnd := rand.New(rand.NewSource(21))
	for i := 0; i < 50; i++ {
		a := randomFp3(t, d, rnd)
		b := randomFp3(t, d, rnd)

		ab := d.Zero().Add(a, b)
		ba := d.Zero().Add(b, a)
		require.True(t, ab.Equal(ba))

		sq := d.Zero().Square(a)
		mm := d.Zero().Mul(a, a)
		require.True(t, sq.Equal(mm))

		if !a.IsZero() {
			inv := d.Zero()
			require.True(t, inv.Inverse(a))
			one := d.Zero().Mul(a, inv)
			require.True(t, one.IsOne())
		}
	}
}

func newFp6From2Descriptor(t *testing.T) *DescriptorFp6From2 {
	_, fp2d := newFp2Descriptor(t)
	xi := fp2d.Zero()
	xi.C0 = *fp2d.Base.One()
	xi.C1 = *fp2d.Base.One()
	return NewDescriptorFp6From2(fp2d, xi)
}

func randomFp6From2(t *testing.T, d *DescriptorFp6From2, rnd *rand.Rand) *Fp6From2 {
	z := d.Zero()
	z.C0 = *randomFp2(t, d.Base, rnd)
	z.C1 = *randomFp2(t, d.Base, rnd)
	z.C2 = *randomFp2(t, d.Base, rnd)
	return z
}

func TestFp6From2MulBy01MatchesFullMul(t *testing.T) {
	d := newFp6From2Descriptor(t)
	rnd := rand.New(rand.NewSource(31))
	for i := 0; i < 20; i++ {
		a := randomFp6From2(t, d, rnd)
		c0 := randomFp2(t, d.Base, rnd)
		c1 := randomFp2(t, d.Base, rnd)
		sparse := d.Zero()
		sparse.C0 = *c0
		sparse.C1 = *c1

		viaMul := d.Zero().Mul(a, sparse)
		viaSparse := d.Zero().MulBy01(a, c0, c1)
		require.True(t, viaMul.Equal(viaSparse))
	}
}

func TestFp6From2InverseRoundtrip(t *testing.T) {
	d := newFp6From2Descriptor(t)
	rnd := rand.New(rand.NewSource(32))
	for i := 0; i < 20; i++ {
		a := randomFp6From2(t, d, rnd)
		if a.IsZero() {
			continue
		}
		inv := d.Zero()
		require.True(t, inv.Inverse(a))
		one := d.Zero().Mul(a, inv)
		require.True(t, one.IsOne())
	}
}

func newFp12Descriptor(t *testing.T) *DescriptorFp12 {
	fp6d := newFp6From2Descriptor(t)
	return NewDescriptorFp12(fp6d)
}

func randomFp12(t *testing.T, d *DescriptorFp12, rnd *rand.Rand) *Fp12 {
	z := d.Zero()
	z.C0 = *randomFp6From2(t, d.Base, rnd)
	z.C1 = *randomFp6From2(t, d.Base, rnd)
	return z
}

func TestFp12InverseRoundtrip(t *testing.T) {
	d := newFp12Descriptor(t)
	rnd := rand.New(rand.NewSource(41))
	for i := 0; i < 20; i++ {
		a := randomFp12(t, d, rnd)
		if a.IsZero() {
			continue
		}
		inv := d.Zero()
		require.True(t, inv.Inverse(a))
		one := d.Zero().Mul(a, inv)
		require.True(t, one.IsOne())
	}
}

func TestFp12ConjugateIsInvolution(t *testing.T) {
	d := newFp12Descriptor(t)
	rnd := rand.New(rand.NewSource(42))
	a := randomFp12(t, d, rnd)
	twice := d.Zero().Conjugate(d.Zero().Conjugate(a))
	require.True(t, twice.Equal(a))
}

func TestFp12MulBy014MatchesFullMul(t *testing.T) {
	d := newFp12Descriptor(t)
	rnd := rand.New(rand.NewSource(43))
	a := randomFp12(t, d, rnd)
	c0 := randomFp2(t, d.Base.Base, rnd)
	c1 := randomFp2(t, d.Base.Base, rnd)
	c4 := randomFp2(t, d.Base.Base, rnd)

	y0 := d.Base.Zero()
	y0.C0 = *c0
	y0.C1 = *c1
	y1 := d.Base.Zero()
	y1.C1 = *c4
	sparse := &Fp12{C0: *y0, C1: *y1, D: d}

	viaMul := d.Zero().Mul(a, sparse)
	viaSparse := d.Zero().MulBy014(a, c0, c1, c4)
	require.True(t, viaMul.Equal(viaSparse))
}

func TestFp12MulBy034MatchesFullMul(t *testing.T) {
	d := newFp12Descriptor(t)
	rnd := rand.New(rand.NewSource(44))
	a := randomFp12(t, d, rnd)
	c0 := randomFp2(t, d.Base.Base, rnd)
	c3 := randomFp2(t, d.Base.Base, rnd)
	c4 := randomFp2(t, d.Base.Base, rnd)

	y0 := d.Base.Zero()
	y0.C0 = *c0
	y1 := d.Base.Zero()
	y1.C0 = *c3
	y1.C1 = *c4
	sparse := &Fp12{C0: *y0, C1: *y1, D: d}

	viaMul := d.Zero().Mul(a, sparse)
	viaSparse := d.Zero().MulBy034(a, c0, c3, c4)
	require.True(t, viaMul.Equal(viaSparse))
}
