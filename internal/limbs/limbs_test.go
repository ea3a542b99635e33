package limbs

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func toBig(x []uint64) *big.Int {
	n := new(big.Int)
	for i := len(x) - 1; i >= 0; i-- {
		n.Lsh(n, 64)
		n.Or(n, new(big.Int).SetUint64(x[i]))
	}
	return n
}

func fromBig(n *big.Int, width int) []uint64 {
	out := make([]uint64, width)
	bz := n.Bytes()
	for i, b := range bz {
		idx := len(bz) - 1 - i
		out[idx/8] |= uint64(b) << uint((idx%8)*8)
	}
	return out
}

func TestAddSubRoundtrip(t *testing.T) {
	x := []uint64{0xFFFFFFFFFFFFFFFF, 0x1}
	y := []uint64{0x1, 0x0}
	z := make([]uint64, 2)
	AddNoCarry(z, x, y)
	require.Equal(t, []uint64{0x0, 0x2}, z)

	back := make([]uint64, 2)
	SubNoBorrow(back, z, y)
	require.Equal(t, x, back)
}

func TestCmpIsZero(t *testing.T) {
	require.True(t, IsZero([]uint64{0, 0, 0}))
	require.Equal(t, 0, Cmp([]uint64{1, 2}, []uint64{1, 2}))
	require.Equal(t, 1, Cmp([]uint64{0, 2}, []uint64{1, 1}))
	require.Equal(t, -1, Cmp([]uint64{1, 1}, []uint64{0, 2}))
}

func TestBitLenAndBit(t *testing.T) {
	x := []uint64{0b1011, 0}
	require.Equal(t, 4, BitLen(x))
	require.True(t, Bit(x, 0))
	require.False(t, Bit(x, 2))
	require.True(t, Bit(x, 3))
}

func TestMul2Div2Roundtrip(t *testing.T) {
	x := []uint64{3, 0}
	Mul2(x)
	require.Equal(t, []uint64{6, 0}, x)
	Div2(x, 0)
	require.Equal(t, []uint64{3, 0}, x)
}

// odd 4-limb modulus with top-bit margin, matching the FieldDescriptor
// invariant; it is not prime, which Montgomery multiplication does not need.
var testPrime = func() []uint64 {
	p, _ := new(big.Int).SetString("d50000053523ffffffffac000000000000000100000000fffffffeffffffff", 16)
	return fromBig(p, 4)
}()

func montInv(p []uint64) uint64 {
	// -p^-1 mod 2^64 via Newton-Raphson iteration on the 64-bit ring
	// (doubles the number of correct bits each round; 6 rounds suffice
	// starting from 1-bit accuracy to cover all 64 bits).
	x := uint64(1)
	for i := 0; i < 6; i++ {
		x = x * (2 - p[0]*x)
	}
	return -x
}

func TestMontMulMatchesBigInt(t *testing.T) {
	inv := montInv(testPrime)
	modulus := toBig(testPrime)
	r := new(big.Int).Lsh(big.NewInt(1), uint(64*len(testPrime)))
	rInv := new(big.Int).ModInverse(r, modulus)

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := new(big.Int).Rand(rnd, modulus)
		b := new(big.Int).Rand(rnd, modulus)

		// Montgomery-encode a, b.
		am := new(big.Int).Mod(new(big.Int).Mul(a, r), modulus)
		bm := new(big.Int).Mod(new(big.Int).Mul(b, r), modulus)

		x := fromBig(am, len(testPrime))
		y := fromBig(bm, len(testPrime))
		z := make([]uint64, len(testPrime))
		MontMul(z, x, y, testPrime, inv)

		// Expected: a*b*R mod p (still in Montgomery form), decoded back to plain via * Rinv.
		want := new(big.Int).Mod(new(big.Int).Mul(am, bm), modulus)
		want.Mul(want, rInv)
		want.Mod(want, modulus)
		want.Mul(want, rInv)
		want.Mod(want, modulus)
		got := new(big.Int).Mul(toBig(z), rInv)
		got.Mod(got, modulus)
		require.Equal(t, want, got, "iteration %d", i)
	}
}

func TestMontSqrMatchesMontMul(t *testing.T) {
	inv := montInv(testPrime)
	rnd := rand.New(rand.NewSource(2))
	modulus := toBig(testPrime)
	for i := 0; i < 50; i++ {
		a := fromBig(new(big.Int).Rand(rnd, modulus), len(testPrime))
		z1 := make([]uint64, len(testPrime))
		z2 := make([]uint64, len(testPrime))
		MontMul(z1, a, a, testPrime, inv)
		MontSqr(z2, a, testPrime, inv)
		require.Equal(t, z1, z2)
	}
}
