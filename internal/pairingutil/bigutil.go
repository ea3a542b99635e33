// Package pairingutil holds the small set of math/big helpers the four
// family-specific pairing packages (bls12, bn, mnt4, mnt6) all need to turn
// a runtime curve/field descriptor into the one-time constants their Miller
// loops and final exponentiations run on (the hard-part target exponent,
// mainly). Mirrors the unexported limbsToBig/bigToLimbs pair already
// duplicated between internal/field and internal/tower; exported here since
// four sibling packages share it rather than two.
package pairingutil

import "math/big"

// LimbsToBig interprets x as a little-endian limb slice.
func LimbsToBig(x []uint64) *big.Int {
	n := new(big.Int)
	tmp := new(big.Int)
	for i := len(x) - 1; i >= 0; i-- {
		n.Lsh(n, 64)
		tmp.SetUint64(x[i])
		n.Or(n, tmp)
	}
	return n
}

// BigToLimbs renders x as a little-endian limb slice of the given width.
func BigToLimbs(x *big.Int, width int) []uint64 {
	out := make([]uint64, width)
	bz := x.Bytes()
	for i, b := range bz {
		idx := len(bz) - 1 - i
		if idx/8 >= width {
			continue
		}
		out[idx/8] |= uint64(b) << uint((idx%8)*8)
	}
	return out
}

// BigToLimbsWide is BigToLimbs sized to fit x exactly.
func BigToLimbsWide(x *big.Int) []uint64 {
	width := (x.BitLen() + 63) / 64
	if width == 0 {
		width = 1
	}
	return BigToLimbs(x, width)
}

// HardExponent computes (p^k - 1)/r / easyFactor, the hard-part target
// exponent left over after a family's easy part removes easyFactor from the
// full (p^k-1)/r cofactor exponent. Panics (construction time only, never on
// a request path) if the division is not exact, signalling a malformed
// curve/order pairing.
func HardExponent(p []uint64, k int64, order []uint64, easyFactor *big.Int) []uint64 {
	pk := new(big.Int).Exp(LimbsToBig(p), big.NewInt(k), nil)
	pk.Sub(pk, big.NewInt(1))
	total, rem := new(big.Int).QuoRem(pk, LimbsToBig(order), new(big.Int))
	if rem.Sign() != 0 {
		panic("pairingutil: curve order does not divide p^k - 1")
	}
	hard, rem2 := new(big.Int).QuoRem(total, easyFactor, new(big.Int))
	if rem2.Sign() != 0 {
		panic("pairingutil: easy-part factor does not divide the full cofactor exponent")
	}
	return BigToLimbsWide(hard)
}

// Abs splits a signed loop parameter x into the limbs of its absolute value
// and a flag reporting whether x is negative (a convenience constructor
// call sites use when a curve preset specifies x as a literal signed
// integer rather than pre-split magnitude/sign).
func Abs(x *big.Int) (limbs []uint64, negative bool) {
	neg := x.Sign() < 0
	abs := new(big.Int).Abs(x)
	return BigToLimbsWide(abs), neg
}

// Twist names the sextic twist kind a BLS12/BN curve preset declares
// (spec.md §4.6 step 1, §4.7, and the wire format's twist-type byte, §6). It
// decides which sparse Fp12 embedding a Miller-loop line function absorbs
// through: D-twist lines land in the (c0,c1,c4) slots tower.Fp12.MulBy014
// expects, M-twist lines in the (c0,c3,c4) slots tower.Fp12.MulBy034 expects.
type Twist int

const (
	TwistD Twist = iota
	TwistM
)

func (t Twist) String() string {
	switch t {
	case TwistD:
		return "D"
	case TwistM:
		return "M"
	default:
		return "unknown"
	}
}
