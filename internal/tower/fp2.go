package tower

import (
	"github.com/drand/pairing/internal/field"
	"github.com/drand/pairing/internal/limbs"
)

// DescriptorFp2 describes the quadratic extension Fp2 = Fp[u]/(u^2-beta) for
// a non-residue beta, per spec.md §4.3. FrobCoeff holds beta^((p-1)/2) at
// index 1 (index 0 is implicitly one) used by Frobenius.
type DescriptorFp2 struct {
	Base      *field.Descriptor
	Beta      *field.Element
	FrobCoeff [2]*field.Element
}

// NewDescriptorFp2 builds the Frobenius coefficient table for Fp2 over base,
// given the non-residue beta (beta must not be a square in Fp, a property
// the caller's curve/field preset is responsible for).
func NewDescriptorFp2(base *field.Descriptor, beta *field.Element) *DescriptorFp2 {
	d := &DescriptorFp2{Base: base, Beta: beta}
	d.FrobCoeff[0] = base.One()
	exp := fermatExponent(base.Modulus, 1, 2, base.N)
	c1 := base.Zero()
	c1.Pow(beta, exp)
	d.FrobCoeff[1] = c1
	return d
}

// Fp2 is an element c0 + c1*u of the tower built from d.
type Fp2 struct {
	C0, C1 field.Element
	D      *DescriptorFp2
}

// Zero returns the additive identity of d.
func (d *DescriptorFp2) Zero() *Fp2 {
	return &Fp2{C0: *d.Base.Zero(), C1: *d.Base.Zero(), D: d}
}

// One returns the multiplicative identity of d.
func (d *DescriptorFp2) One() *Fp2 {
	z := d.Zero()
	z.C0 = *d.Base.One()
	return z
}

// Set copies x into z.
func (z *Fp2) Set(x *Fp2) *Fp2 {
	z.D = x.D
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	return z
}

// Add sets z = x+y component-wise.
func (z *Fp2) Add(x, y *Fp2) *Fp2 {
	d := x.D
	c0 := d.Base.Zero().Add(&x.C0, &y.C0)
	c1 := d.Base.Zero().Add(&x.C1, &y.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Sub sets z = x-y component-wise.
func (z *Fp2) Sub(x, y *Fp2) *Fp2 {
	d := x.D
	c0 := d.Base.Zero().Sub(&x.C0, &y.C0)
	c1 := d.Base.Zero().Sub(&x.C1, &y.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Neg sets z = -x.
func (z *Fp2) Neg(x *Fp2) *Fp2 {
	d := x.D
	c0 := d.Base.Zero().Neg(&x.C0)
	c1 := d.Base.Zero().Neg(&x.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Double sets z = 2x.
func (z *Fp2) Double(x *Fp2) *Fp2 { return z.Add(x, x) }

// MulByFp multiplies an Fp2 element by a base-field scalar.
func (z *Fp2) MulByFp(x *Fp2, s *field.Element) *Fp2 {
	d := x.D
	c0 := d.Base.Zero().Mul(&x.C0, s)
	c1 := d.Base.Zero().Mul(&x.C1, s)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// MulByNonResidue multiplies the base-field element x by beta, producing a
// new base-field element; used by higher towers built on top of Fp2
// (spec.md §4.3's "multiply-by-non-residue" primitive).
func (d *DescriptorFp2) MulByNonResidue(x *field.Element) *field.Element {
	return d.Base.Zero().Mul(x, d.Beta)
}

// Mul sets z = x*y using three base-field multiplications (Karatsuba):
// c0 = a0*b0 + beta*a1*b1
// c1 = (a0+a1)*(b0+b1) - a0*b0 - a1*b1
func (z *Fp2) Mul(x, y *Fp2) *Fp2 {
	d := x.D
	t0 := d.Base.Zero().Mul(&x.C0, &y.C0)
	t1 := d.Base.Zero().Mul(&x.C1, &y.C1)
	betaT1 := d.MulByNonResidue(t1)
	c0 := d.Base.Zero().Add(t0, betaT1)

	sx := d.Base.Zero().Add(&x.C0, &x.C1)
	sy := d.Base.Zero().Add(&y.C0, &y.C1)
	cross := d.Base.Zero().Mul(sx, sy)
	c1 := d.Base.Zero().Sub(cross, t0)
	c1.Sub(c1, t1)

	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Square sets z = x*x using the complex-method squaring formula (2 base
// multiplications plus a multiply-by-non-residue):
// v0 = a0*a1; c1 = 2*v0; c0 = (a0+a1)*(a0+beta*a1) - v0 - beta*v0
func (z *Fp2) Square(x *Fp2) *Fp2 {
	d := x.D
	v0 := d.Base.Zero().Mul(&x.C0, &x.C1)
	betaA1 := d.MulByNonResidue(&x.C1)
	s1 := d.Base.Zero().Add(&x.C0, &x.C1)
	s2 := d.Base.Zero().Add(&x.C0, betaA1)
	t := d.Base.Zero().Mul(s1, s2)
	betaV0 := d.MulByNonResidue(v0)
	c0 := d.Base.Zero().Sub(t, v0)
	c0.Sub(c0, betaV0)
	c1 := d.Base.Zero().Double(v0)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Inverse sets z = x^-1 via the norm formula (a0-a1*u)/(a0^2-beta*a1^2).
// Returns false ("no value") when x is zero.
func (z *Fp2) Inverse(x *Fp2) bool {
	d := x.D
	a0sq := d.Base.Zero().Square(&x.C0)
	a1sq := d.Base.Zero().Square(&x.C1)
	betaA1sq := d.MulByNonResidue(a1sq)
	norm := d.Base.Zero().Sub(a0sq, betaA1sq)
	normInv := d.Base.Zero()
	if !normInv.Inverse(norm) {
		return false
	}
	c0 := d.Base.Zero().Mul(&x.C0, normInv)
	negA1 := d.Base.Zero().Neg(&x.C1)
	c1 := d.Base.Zero().Mul(negA1, normInv)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return true
}

// Frobenius raises x to the p^power map, selecting the precomputed
// coefficient by power mod 2 (the automorphism order of Fp2/Fp).
func (z *Fp2) Frobenius(x *Fp2, power int) *Fp2 {
	d := x.D
	i := ((power % 2) + 2) % 2
	c1 := d.Base.Zero().Mul(&x.C1, d.FrobCoeff[i])
	z.D = d
	z.C0.Set(&x.C0)
	z.C1 = *c1
	return z
}

// Conjugate is Frobenius to the first power: c0 - c1*u.
func (z *Fp2) Conjugate(x *Fp2) *Fp2 { return z.Frobenius(x, 1) }

// Pow sets z = x^exp by left-to-right square-and-multiply.
func (z *Fp2) Pow(x *Fp2, exp []uint64) *Fp2 {
	bitLen := limbs.BitLen(exp)
	if bitLen == 0 {
		return z.Set(x.D.One())
	}
	acc := x.D.One()
	for i := bitLen - 1; i >= 0; i-- {
		acc.Square(acc)
		if limbs.Bit(exp, i) {
			acc.Mul(acc, x)
		}
	}
	return z.Set(acc)
}

// IsZero reports whether z is the additive identity.
func (z *Fp2) IsZero() bool { return z.C0.IsZero() && z.C1.IsZero() }

// IsOne reports whether z is the multiplicative identity.
func (z *Fp2) IsOne() bool { return z.C0.IsOne() && z.C1.IsZero() }

// Equal reports componentwise equality.
func (z *Fp2) Equal(x *Fp2) bool { return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1) }
