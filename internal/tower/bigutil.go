package tower

import "math/big"

// limbsToBig/bigToLimbs mirror the unexported helpers in internal/field;
// duplicated here (rather than exported across the package boundary) since
// they are only used for one-time Frobenius-table precomputation, not on
// any hot path.

func limbsToBig(x []uint64) *big.Int {
	n := new(big.Int)
	tmp := new(big.Int)
	for i := len(x) - 1; i >= 0; i-- {
		n.Lsh(n, 64)
		tmp.SetUint64(x[i])
		n.Or(n, tmp)
	}
	return n
}

func bigToLimbs(x *big.Int, width int) []uint64 {
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

// pPowI computes p^i as a big.Int.
func pPowI(modulus []uint64, i int) *big.Int {
	p := limbsToBig(modulus)
	return new(big.Int).Exp(p, big.NewInt(int64(i)), nil)
}

// fermatExponent computes (p^i - 1)/k, requiring k | (p^i - 1); used to
// derive the Frobenius coefficient tables of spec.md §4.3. Panics (at
// tower-construction time only, never on a request path) if k does not
// divide p^i - 1, signalling a malformed curve description.
func fermatExponent(modulus []uint64, i int, k int64, width int) []uint64 {
	return bigToLimbs(fermatExponentBig(modulus, i, k), width)
}

// fermatExponentWide is fermatExponent with the result limb width sized to
// fit the quotient exactly (p^i can exceed the base field's own width once
// i > 1, e.g. the Fp4/Fp6 Frobenius tables built over higher powers of p).
func fermatExponentWide(modulus []uint64, i int, k int64) []uint64 {
	q := fermatExponentBig(modulus, i, k)
	width := (q.BitLen() + 63) / 64
	if width == 0 {
		width = 1
	}
	return bigToLimbs(q, width)
}

func fermatExponentBig(modulus []uint64, i int, k int64) *big.Int {
	pi := pPowI(modulus, i)
	pi.Sub(pi, big.NewInt(1))
	q, r := new(big.Int).QuoRem(pi, big.NewInt(k), new(big.Int))
	if r.Sign() != 0 {
		panic("tower: non-residue exponent does not divide p^i - 1")
	}
	return q
}
