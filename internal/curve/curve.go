// Package curve implements short-Weierstrass elliptic curves y^2 =
// x^3 + A*x + B in Jacobian coordinates, parameterized over whichever
// coefficient field the curve is defined over (Fp for G1; Fp2, Fp3 or Fp4
// for the various families' G2), per spec.md §4.4. The coefficient field is
// supplied as a Go generic type parameter satisfying Elem, so this one
// package serves every (curve, field) pairing the four pairing engines
// need instead of one hand-duplicated copy per family.
//
// Grounded on vendor/github.com/drand/bls12-381/g1.go's Jacobian formula
// shapes (Add, Double, Affine, IsOnCurve, MulScalar) generalized from a
// fixed Fp coefficient type to the generic Elem constraint below.
package curve

import "github.com/drand/pairing/internal/limbs"

// Elem is the capability set a coefficient field element must provide for
// Jacobian curve arithmetic to be expressed generically over it. Every
// concrete coefficient type in this module (field.Element, tower.Fp2,
// tower.Fp3, tower.Fp4) already exposes exactly this method set in this
// in-place, chainable, pointer-receiver shape.
type Elem[T any] interface {
	*T
	Set(x *T) *T
	Add(x, y *T) *T
	Sub(x, y *T) *T
	Neg(x *T) *T
	Double(x *T) *T
	Mul(x, y *T) *T
	Square(x *T) *T
	Inverse(x *T) bool
	IsZero() bool
	IsOne() bool
	Equal(x *T) bool
}

// Descriptor holds one curve's coefficients and the distinguished field
// elements (additive/multiplicative identity) needed to build well-formed
// points, plus the prime subgroup order used by the torsion-free check.
type Descriptor[T any, PT Elem[T]] struct {
	A, B  T
	Zero  T
	One   T
	Order []uint64 // subgroup order; nil skips the torsion-free check
}

// Point is a Jacobian-coordinate point (X, Y, Z) representing the affine
// point (X/Z^2, Y/Z^3); Z == 0 is the point at infinity.
type Point[T any, PT Elem[T]] struct {
	X, Y, Z T
}

// ZeroPoint returns the point at infinity: (0, 1, 0).
func (d *Descriptor[T, PT]) ZeroPoint() *Point[T, PT] {
	p := &Point[T, PT]{}
	PT(&p.X).Set(&d.Zero)
	PT(&p.Y).Set(&d.One)
	PT(&p.Z).Set(&d.Zero)
	return p
}

// Generator builds an affine-coordinate point (x, y, 1) without checking
// curve membership; callers validate with IsOnCurve/IsInSubgroup.
func (d *Descriptor[T, PT]) Generator(x, y *T) *Point[T, PT] {
	p := &Point[T, PT]{}
	PT(&p.X).Set(x)
	PT(&p.Y).Set(y)
	PT(&p.Z).Set(&d.One)
	return p
}

// IsZero reports whether p is the point at infinity.
func (d *Descriptor[T, PT]) IsZero(p *Point[T, PT]) bool {
	return PT(&p.Z).IsZero()
}

// Set copies src into dst and returns dst.
func (d *Descriptor[T, PT]) Set(dst, src *Point[T, PT]) *Point[T, PT] {
	PT(&dst.X).Set(&src.X)
	PT(&dst.Y).Set(&src.Y)
	PT(&dst.Z).Set(&src.Z)
	return dst
}

// IsAffine reports whether p's Z coordinate is exactly one.
func (d *Descriptor[T, PT]) IsAffine(p *Point[T, PT]) bool {
	return PT(&p.Z).IsOne()
}

// Affine normalizes p to Z=1 in place (a no-op for infinity or already-
// affine points): X' = X/Z^2, Y' = Y/Z^3.
func (d *Descriptor[T, PT]) Affine(p *Point[T, PT]) {
	if d.IsZero(p) || d.IsAffine(p) {
		return
	}
	zInv := new(T)
	if !PT(zInv).Inverse(&p.Z) {
		return // unreachable for a well-formed non-infinity point
	}
	zInv2 := new(T)
	PT(zInv2).Square(zInv)
	PT(&p.X).Mul(&p.X, zInv2)
	zInv3 := new(T)
	PT(zInv3).Mul(zInv2, zInv)
	PT(&p.Y).Mul(&p.Y, zInv3)
	PT(&p.Z).Set(&d.One)
}

// IsOnCurve checks Y^2 = X^3 + A*X*Z^4 + B*Z^6 in Jacobian form (Z^4 and
// Z^6 built from Z^2; the A term is added only when A is nonzero).
func (d *Descriptor[T, PT]) IsOnCurve(p *Point[T, PT]) bool {
	if d.IsZero(p) {
		return true
	}
	lhs := new(T)
	PT(lhs).Square(&p.Y) // Y^2

	x3 := new(T)
	PT(x3).Square(&p.X)
	PT(x3).Mul(x3, &p.X) // X^3

	z2 := new(T)
	PT(z2).Square(&p.Z)
	z4 := new(T)
	PT(z4).Square(z2)
	z6 := new(T)
	PT(z6).Mul(z4, z2)

	bz6 := new(T)
	PT(bz6).Mul(&d.B, z6)

	rhs := new(T)
	PT(rhs).Add(x3, bz6)

	if !PT(&d.A).IsZero() {
		axz4 := new(T)
		PT(axz4).Mul(&d.A, &p.X)
		PT(axz4).Mul(axz4, z4)
		PT(rhs).Add(rhs, axz4)
	}

	return PT(lhs).Equal(rhs)
}

// Neg sets r = -p by negating Y; Z is copied, so the point at infinity
// (Z == 0) stays infinity.
func (d *Descriptor[T, PT]) Neg(r, p *Point[T, PT]) *Point[T, PT] {
	PT(&r.X).Set(&p.X)
	PT(&r.Y).Neg(&p.Y)
	PT(&r.Z).Set(&p.Z)
	return r
}

// Equal compares two points up to Jacobian scaling, per
// vendor/github.com/drand/bls12-381/g1.go's cross-multiplication formula.
func (d *Descriptor[T, PT]) Equal(p1, p2 *Point[T, PT]) bool {
	if d.IsZero(p1) || d.IsZero(p2) {
		return d.IsZero(p1) == d.IsZero(p2)
	}
	z1z1 := new(T)
	PT(z1z1).Square(&p1.Z)
	z2z2 := new(T)
	PT(z2z2).Square(&p2.Z)

	u1 := new(T)
	PT(u1).Mul(&p1.X, z2z2)
	u2 := new(T)
	PT(u2).Mul(&p2.X, z1z1)

	s1 := new(T)
	PT(s1).Mul(&p1.Y, z2z2)
	PT(s1).Mul(s1, &p2.Z)
	s2 := new(T)
	PT(s2).Mul(&p2.Y, z1z1)
	PT(s2).Mul(s2, &p1.Z)

	return PT(u1).Equal(u2) && PT(s1).Equal(s2)
}

// Double sets r = 2*p using the Bernstein-Lange doubling formula; when A is
// nonzero the slope term gains A*Z^4 (the general-A form).
func (d *Descriptor[T, PT]) Double(r, p *Point[T, PT]) *Point[T, PT] {
	if d.IsZero(p) {
		return d.Set(r, p)
	}
	a := new(T)
	PT(a).Square(&p.X) // A = X1^2
	b := new(T)
	PT(b).Square(&p.Y) // B = Y1^2
	c := new(T)
	PT(c).Square(b) // C = B^2

	t := new(T)
	PT(t).Add(&p.X, b)
	PT(t).Square(t)
	PT(t).Sub(t, a)
	PT(t).Sub(t, c)
	d2 := new(T)
	PT(d2).Double(t) // D = 2*((X1+B)^2 - A - C)

	e := new(T)
	PT(e).Double(a)
	PT(e).Add(e, a) // E = 3*A
	if !PT(&d.A).IsZero() {
		z4 := new(T)
		PT(z4).Square(&p.Z)
		PT(z4).Square(z4)
		PT(z4).Mul(z4, &d.A)
		PT(e).Add(e, z4) // E = 3*A + a*Z1^4
	}

	f := new(T)
	PT(f).Square(e) // F = E^2

	x3 := new(T)
	PT(x3).Double(d2)
	PT(x3).Sub(f, x3) // X3 = F - 2*D

	c8 := new(T)
	PT(c8).Double(c)
	PT(c8).Double(c8)
	PT(c8).Double(c8) // 8*C

	y3 := new(T)
	PT(y3).Sub(d2, x3)
	PT(y3).Mul(y3, e)
	PT(y3).Sub(y3, c8)

	z3 := new(T)
	PT(z3).Mul(&p.Y, &p.Z)
	PT(z3).Double(z3)

	PT(&r.X).Set(x3)
	PT(&r.Y).Set(y3)
	PT(&r.Z).Set(z3)
	return r
}

// Add sets r = p1+p2 using full Jacobian addition, dispatching to Double
// when the inputs coincide, per vendor/github.com/drand/bls12-381/g1.go.
func (d *Descriptor[T, PT]) Add(r, p1, p2 *Point[T, PT]) *Point[T, PT] {
	if d.IsZero(p1) {
		return d.Set(r, p2)
	}
	if d.IsZero(p2) {
		return d.Set(r, p1)
	}
	z1z1 := new(T)
	PT(z1z1).Square(&p1.Z)
	z2z2 := new(T)
	PT(z2z2).Square(&p2.Z)

	u1 := new(T)
	PT(u1).Mul(&p1.X, z2z2)
	u2 := new(T)
	PT(u2).Mul(&p2.X, z1z1)

	s1 := new(T)
	PT(s1).Mul(&p1.Y, z2z2)
	PT(s1).Mul(s1, &p2.Z)
	s2 := new(T)
	PT(s2).Mul(&p2.Y, z1z1)
	PT(s2).Mul(s2, &p1.Z)

	if PT(u1).Equal(u2) {
		if PT(s1).Equal(s2) {
			return d.Double(r, p1)
		}
		return d.Set(r, d.ZeroPoint())
	}

	h := new(T)
	PT(h).Sub(u2, u1)
	i := new(T)
	PT(i).Double(h)
	PT(i).Square(i)
	j := new(T)
	PT(j).Mul(h, i)
	rr := new(T)
	PT(rr).Sub(s2, s1)
	PT(rr).Double(rr)
	v := new(T)
	PT(v).Mul(u1, i)

	x3 := new(T)
	PT(x3).Square(rr)
	PT(x3).Sub(x3, j)
	v2 := new(T)
	PT(v2).Double(v)
	PT(x3).Sub(x3, v2)

	y3 := new(T)
	PT(y3).Sub(v, x3)
	PT(y3).Mul(y3, rr)
	s1j := new(T)
	PT(s1j).Mul(s1, j)
	PT(s1j).Double(s1j)
	PT(y3).Sub(y3, s1j)

	z3 := new(T)
	PT(z3).Add(&p1.Z, &p2.Z)
	PT(z3).Square(z3)
	PT(z3).Sub(z3, z1z1)
	PT(z3).Sub(z3, z2z2)
	PT(z3).Mul(z3, h)

	PT(&r.X).Set(x3)
	PT(&r.Y).Set(y3)
	PT(&r.Z).Set(z3)
	return r
}

// Sub sets r = p1 - p2.
func (d *Descriptor[T, PT]) Sub(r, p1, p2 *Point[T, PT]) *Point[T, PT] {
	neg := &Point[T, PT]{}
	d.Neg(neg, p2)
	return d.Add(r, p1, neg)
}

// Mul sets r = scalar*p via MSB-first double-and-add, per spec.md §4.4.
func (d *Descriptor[T, PT]) Mul(r, p *Point[T, PT], scalar []uint64) *Point[T, PT] {
	bitLen := limbs.BitLen(scalar)
	acc := d.ZeroPoint()
	for i := bitLen - 1; i >= 0; i-- {
		d.Double(acc, acc)
		if limbs.Bit(scalar, i) {
			d.Add(acc, acc, p)
		}
	}
	return d.Set(r, acc)
}

// WNAF computes the width-w non-adjacent form of scalar as a slice of
// signed digits, little-endian, per spec.md §4.4.
func WNAF(scalar []uint64, w uint) []int32 {
	if w < 2 {
		w = 2
	}
	bitLen := limbs.BitLen(scalar)
	if bitLen == 0 {
		return nil
	}
	k := append([]uint64(nil), scalar...)
	digits := make([]int32, 0, bitLen+1)
	modulus := int64(1) << w
	half := modulus / 2
	for limbs.BitLen(k) > 0 {
		var digit int32
		if k[0]&1 == 1 {
			rem := int64(k[0] & uint64(modulus-1))
			if rem >= half {
				digit = int32(rem - modulus)
			} else {
				digit = int32(rem)
			}
			if digit >= 0 {
				sub := make([]uint64, len(k))
				sub[0] = uint64(digit)
				limbs.SubNoBorrow(k, k, sub)
			} else {
				add := make([]uint64, len(k))
				add[0] = uint64(-digit)
				limbs.AddNoCarry(k, k, add)
			}
		}
		digits = append(digits, digit)
		limbs.Shr(k, 1)
	}
	return digits
}

// MulWNAF computes r = scalar*p using a width-w NAF with precomputed odd
// multiples of p, trading precomputation (2^(w-2) points) for fewer point
// additions than plain double-and-add; the curve scalar-multiplication
// path named in spec.md §4.4 (distinct from the Miller loops' MSB
// square-and-multiply, which never uses NAF digits, per DESIGN Open
// Question O2).
func (d *Descriptor[T, PT]) MulWNAF(r, p *Point[T, PT], scalar []uint64, w uint) *Point[T, PT] {
	if w < 2 {
		return d.Mul(r, p, scalar)
	}
	naf := WNAF(scalar, w)
	if len(naf) == 0 {
		return d.Set(r, d.ZeroPoint())
	}
	tableSize := 1 << (w - 2)
	twoP := &Point[T, PT]{}
	d.Double(twoP, p)
	odds := make([]*Point[T, PT], tableSize)
	odds[0] = &Point[T, PT]{}
	d.Set(odds[0], p)
	for i := 1; i < tableSize; i++ {
		odds[i] = &Point[T, PT]{}
		d.Add(odds[i], odds[i-1], twoP)
	}

	acc := d.ZeroPoint()
	for i := len(naf) - 1; i >= 0; i-- {
		d.Double(acc, acc)
		digit := naf[i]
		if digit == 0 {
			continue
		}
		idx := (abs32(digit) - 1) / 2
		if digit > 0 {
			d.Add(acc, acc, odds[idx])
		} else {
			neg := &Point[T, PT]{}
			d.Neg(neg, odds[idx])
			d.Add(acc, acc, neg)
		}
	}
	return d.Set(r, acc)
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// IsInSubgroup checks p has order dividing d.Order, the torsion-free check
// of spec.md §4.4. A nil Order skips the check (always true).
func (d *Descriptor[T, PT]) IsInSubgroup(p *Point[T, PT]) bool {
	if d.Order == nil {
		return true
	}
	r := &Point[T, PT]{}
	d.Mul(r, p, d.Order)
	return d.IsZero(r)
}
