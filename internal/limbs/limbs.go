// Package limbs implements unsigned fixed-width big-integer arithmetic on
// little-endian slices of 64-bit limbs: add/sub/shift/compare and CIOS
// Montgomery multiplication. Every function is total on well-formed input;
// callers are expected to hold the FieldDescriptor margin invariant (the top
// bit of the modulus's top limb is zero) before calling MontMul/MontSqr.
package limbs

import "math/bits"

// AddNoCarry computes z = x + y over equal-width limbs and returns the
// carry out of the top limb. Callers guarantee (by the margin invariant on
// the modulus) that this carry is discarded safely in field-level code.
func AddNoCarry(z, x, y []uint64) uint64 {
	var carry uint64
	for i := range z {
		z[i], carry = bits.Add64(x[i], y[i], carry)
	}
	return carry
}

// SubNoBorrow computes z = x - y over equal-width limbs and returns the
// borrow out of the top limb (1 if x < y).
func SubNoBorrow(z, x, y []uint64) uint64 {
	var borrow uint64
	for i := range z {
		z[i], borrow = bits.Sub64(x[i], y[i], borrow)
	}
	return borrow
}

// Mul2 doubles z in place (shl by 1) and returns the bit shifted out of the
// top limb. Used only where that bit is known to be zero by the caller.
func Mul2(z []uint64) uint64 {
	var carry uint64
	for i := range z {
		next := z[i] >> 63
		z[i] = z[i]<<1 | carry
		carry = next
	}
	return carry
}

// Div2 halves z in place (shr by 1), shifting in borrow at the top.
func Div2(z []uint64, borrow uint64) {
	for i := len(z) - 1; i >= 0; i-- {
		next := z[i] & 1
		z[i] = z[i]>>1 | borrow<<63
		borrow = next
	}
}

// Shl shifts z left by n bits in place (n < 64*len(z)).
func Shl(z []uint64, n uint) {
	if n == 0 {
		return
	}
	words := int(n / 64)
	bitsN := n % 64
	if words > 0 {
		for i := len(z) - 1; i >= 0; i-- {
			if i-words >= 0 {
				z[i] = z[i-words]
			} else {
				z[i] = 0
			}
		}
	}
	if bitsN == 0 {
		return
	}
	var carry uint64
	for i := 0; i < len(z); i++ {
		next := z[i] >> (64 - bitsN)
		z[i] = z[i]<<bitsN | carry
		carry = next
	}
}

// Shr shifts z right by n bits in place.
func Shr(z []uint64, n uint) {
	if n == 0 {
		return
	}
	words := int(n / 64)
	bitsN := n % 64
	if words > 0 {
		for i := 0; i < len(z); i++ {
			if i+words < len(z) {
				z[i] = z[i+words]
			} else {
				z[i] = 0
			}
		}
	}
	if bitsN == 0 {
		return
	}
	var carry uint64
	for i := len(z) - 1; i >= 0; i-- {
		next := z[i] << (64 - bitsN)
		z[i] = z[i]>>bitsN | carry
		carry = next
	}
}

// Cmp returns -1, 0, 1 as x <, ==, > y.
func Cmp(x, y []uint64) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] > y[i] {
			return 1
		}
		if x[i] < y[i] {
			return -1
		}
	}
	return 0
}

// IsZero reports whether every limb is zero.
func IsZero(x []uint64) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

// Set copies x into z.
func Set(z, x []uint64) {
	copy(z, x)
}

// Bit reports bit i (0 = least significant).
func Bit(x []uint64, i int) bool {
	k := i / 64
	if k >= len(x) {
		return false
	}
	return (x[k]>>uint(i%64))&1 != 0
}

// BitLen returns the number of bits needed to represent x, 0 for x == 0.
func BitLen(x []uint64) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return i*64 + bits.Len64(x[i])
		}
	}
	return 0
}

// macc computes a*b + t + c as an exact 128-bit value (lo, hi). The sum is
// bounded by (2^64-1)^2 + 2*(2^64-1) = 2^128-1, so it always fits without
// truncation.
func macc(t, a, b, c uint64) (lo, hi uint64) {
	hi, lo = bits.Mul64(a, b)
	var carry uint64
	lo, carry = bits.Add64(lo, t, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	lo, carry = bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return lo, hi
}

// MontMul computes z = x*y*R^-1 mod p via the CIOS algorithm (Acar & Koç),
// where R = 2^(64*n), n = len(p), and inv = -p^-1 mod 2^64. z may alias
// neither x nor y's backing array in a way that would be read after being
// written (it is only written at the very end, so aliasing z with x or y is
// safe). Requires the FieldDescriptor margin invariant on p.
func MontMul(z, x, y, p []uint64, inv uint64) {
	n := len(p)
	t := make([]uint64, n+2)
	for i := 0; i < n; i++ {
		var carry uint64
		for j := 0; j < n; j++ {
			t[j], carry = macc(t[j], x[i], y[j], carry)
		}
		var c1 uint64
		t[n], c1 = bits.Add64(t[n], carry, 0)
		t[n+1] += c1

		m := t[0] * inv
		_, carry = macc(t[0], m, p[0], 0)
		for j := 1; j < n; j++ {
			t[j-1], carry = macc(t[j], m, p[j], carry)
		}
		var c2 uint64
		t[n-1], c2 = bits.Add64(t[n], carry, 0)
		t[n] = t[n+1] + c2
		t[n+1] = 0
	}
	copy(z, t[:n])
	if Cmp(z, p) >= 0 {
		SubNoBorrow(z, z, p)
	}
}

// MontSqr is the squaring specialization point named in spec §4.1; absent a
// dedicated squaring formula (which would require hand-unrolled
// carry-chains with no correctness benefit in a portable, non-assembly
// implementation) it delegates to MontMul(z, x, x, p, inv).
func MontSqr(z, x, p []uint64, inv uint64) {
	MontMul(z, x, x, p, inv)
}
