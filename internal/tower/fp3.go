package tower

import (
	"github.com/drand/pairing/internal/field"
	"github.com/drand/pairing/internal/limbs"
)

// DescriptorFp3 describes the cubic extension Fp3 = Fp[u]/(u^3-beta), used
// by the MNT4/MNT6 pairing families (spec.md §4.3). FrobCoeff1[i] holds
// beta^((p^i-1)/3) and FrobCoeff2[i] its square, for i in {0,1,2}.
type DescriptorFp3 struct {
	Base       *field.Descriptor
	Beta       *field.Element
	FrobCoeff1 [3]*field.Element
	FrobCoeff2 [3]*field.Element
}

// NewDescriptorFp3 builds the Frobenius tables for Fp3 over base.
func NewDescriptorFp3(base *field.Descriptor, beta *field.Element) *DescriptorFp3 {
	d := &DescriptorFp3{Base: base, Beta: beta}
	d.FrobCoeff1[0] = base.One()
	d.FrobCoeff2[0] = base.One()
	for i := 1; i < 3; i++ {
		exp := fermatExponentWide(base.Modulus, i, 3)
		c1 := base.Zero().Pow(beta, exp)
		d.FrobCoeff1[i] = c1
		d.FrobCoeff2[i] = base.Zero().Square(c1)
	}
	return d
}

// Fp3 is an element c0 + c1*u + c2*u^2 of the tower built from D.
type Fp3 struct {
	C0, C1, C2 field.Element
	D          *DescriptorFp3
}

// Zero returns the additive identity of d.
func (d *DescriptorFp3) Zero() *Fp3 {
	return &Fp3{C0: *d.Base.Zero(), C1: *d.Base.Zero(), C2: *d.Base.Zero(), D: d}
}

// One returns the multiplicative identity of d.
func (d *DescriptorFp3) One() *Fp3 {
	z := d.Zero()
	z.C0 = *d.Base.One()
	return z
}

// Set copies x into z.
func (z *Fp3) Set(x *Fp3) *Fp3 {
	z.D = x.D
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	z.C2.Set(&x.C2)
	return z
}

// Add sets z = x+y component-wise.
func (z *Fp3) Add(x, y *Fp3) *Fp3 {
	d := x.D
	c0 := d.Base.Zero().Add(&x.C0, &y.C0)
	c1 := d.Base.Zero().Add(&x.C1, &y.C1)
	c2 := d.Base.Zero().Add(&x.C2, &y.C2)
	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Sub sets z = x-y component-wise.
func (z *Fp3) Sub(x, y *Fp3) *Fp3 {
	d := x.D
	c0 := d.Base.Zero().Sub(&x.C0, &y.C0)
	c1 := d.Base.Zero().Sub(&x.C1, &y.C1)
	c2 := d.Base.Zero().Sub(&x.C2, &y.C2)
	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Neg sets z = -x.
func (z *Fp3) Neg(x *Fp3) *Fp3 {
	d := x.D
	c0 := d.Base.Zero().Neg(&x.C0)
	c1 := d.Base.Zero().Neg(&x.C1)
	c2 := d.Base.Zero().Neg(&x.C2)
	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Double sets z = 2x.
func (z *Fp3) Double(x *Fp3) *Fp3 { return z.Add(x, x) }

// MulByNonResidue multiplies the base-field element x by beta.
func (d *DescriptorFp3) MulByNonResidue(x *field.Element) *field.Element {
	return d.Base.Zero().Mul(x, d.Beta)
}

// MulByFp multiplies an Fp3 element by a base-field scalar.
func (z *Fp3) MulByFp(x *Fp3, s *field.Element) *Fp3 {
	d := x.D
	c0 := d.Base.Zero().Mul(&x.C0, s)
	c1 := d.Base.Zero().Mul(&x.C1, s)
	c2 := d.Base.Zero().Mul(&x.C2, s)
	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Mul sets z = x*y via the six-multiplication Karatsuba-style formula for
// cubic extensions (the "Chung-Hasan" multiplication variant of spec.md
// §4.3):
//
//	v0=a0*b0, v1=a1*b1, v2=a2*b2
//	c0 = v0 + beta*((a1+a2)(b1+b2) - v1 - v2)
//	c1 = (a0+a1)(b0+b1) - v0 - v1 + beta*v2
//	c2 = (a0+a2)(b0+b2) - v0 + v1 - v2
func (z *Fp3) Mul(x, y *Fp3) *Fp3 {
	d := x.D
	b := d.Base
	v0 := b.Zero().Mul(&x.C0, &y.C0)
	v1 := b.Zero().Mul(&x.C1, &y.C1)
	v2 := b.Zero().Mul(&x.C2, &y.C2)

	a12 := b.Zero().Add(&x.C1, &x.C2)
	b12 := b.Zero().Add(&y.C1, &y.C2)
	cross0 := b.Zero().Mul(a12, b12)
	cross0.Sub(cross0, v1)
	cross0.Sub(cross0, v2)
	c0 := b.Zero().Add(v0, d.MulByNonResidue(cross0))

	a01 := b.Zero().Add(&x.C0, &x.C1)
	b01 := b.Zero().Add(&y.C0, &y.C1)
	cross1 := b.Zero().Mul(a01, b01)
	cross1.Sub(cross1, v0)
	cross1.Sub(cross1, v1)
	c1 := b.Zero().Add(cross1, d.MulByNonResidue(v2))

	a02 := b.Zero().Add(&x.C0, &x.C2)
	b02 := b.Zero().Add(&y.C0, &y.C2)
	cross2 := b.Zero().Mul(a02, b02)
	cross2.Sub(cross2, v0)
	cross2.Add(cross2, v1)
	c2 := b.Zero().Sub(cross2, v2)

	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Square sets z = x*x via the Chung-Hasan SQR2 formula for cubic extensions:
//
//	s0=a0^2, s1=2*a0*a1, s2=(a0-a1+a2)^2, s3=2*a1*a2, s4=a2^2
//	c0 = s0 + beta*s3
//	c1 = s1 + beta*s4
//	c2 = s1 + s2 + s3 - s0 - s4
func (z *Fp3) Square(x *Fp3) *Fp3 {
	d := x.D
	b := d.Base
	s0 := b.Zero().Square(&x.C0)
	s1 := b.Zero().Mul(&x.C0, &x.C1)
	s1.Double(s1)
	t := b.Zero().Sub(&x.C0, &x.C1)
	t.Add(t, &x.C2)
	s2 := b.Zero().Square(t)
	s3 := b.Zero().Mul(&x.C1, &x.C2)
	s3.Double(s3)
	s4 := b.Zero().Square(&x.C2)

	c0 := b.Zero().Add(s0, d.MulByNonResidue(s3))
	c1 := b.Zero().Add(s1, d.MulByNonResidue(s4))
	c2 := b.Zero().Add(s1, s2)
	c2.Add(c2, s3)
	c2.Sub(c2, s0)
	c2.Sub(c2, s4)

	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Inverse sets z = x^-1 using the cubic adjugate formula:
//
//	t0 = a0^2 - beta*a1*a2
//	t1 = beta*a2^2 - a0*a1
//	t2 = a1^2 - a0*a2
//	norm = a0*t0 + beta*(a1*t2 + a2*t1)
//	z = (t0, t1, t2) * norm^-1
//
// Returns false ("no value") when x is zero.
func (z *Fp3) Inverse(x *Fp3) bool {
	d := x.D
	b := d.Base
	a1a2 := b.Zero().Mul(&x.C1, &x.C2)
	t0 := b.Zero().Sub(b.Zero().Square(&x.C0), d.MulByNonResidue(a1a2))

	a2sq := b.Zero().Square(&x.C2)
	a0a1 := b.Zero().Mul(&x.C0, &x.C1)
	t1 := b.Zero().Sub(d.MulByNonResidue(a2sq), a0a1)

	a0a2 := b.Zero().Mul(&x.C0, &x.C2)
	t2 := b.Zero().Sub(b.Zero().Square(&x.C1), a0a2)

	a1t2 := b.Zero().Mul(&x.C1, t2)
	a2t1 := b.Zero().Mul(&x.C2, t1)
	inner := b.Zero().Add(a1t2, a2t1)
	norm := b.Zero().Add(b.Zero().Mul(&x.C0, t0), d.MulByNonResidue(inner))

	normInv := b.Zero()
	if !normInv.Inverse(norm) {
		return false
	}
	c0 := b.Zero().Mul(t0, normInv)
	c1 := b.Zero().Mul(t1, normInv)
	c2 := b.Zero().Mul(t2, normInv)
	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return true
}

// Frobenius raises x to the p^power map, selecting coefficients by power
// mod 3 (the automorphism order of Fp3/Fp).
func (z *Fp3) Frobenius(x *Fp3, power int) *Fp3 {
	d := x.D
	i := ((power % 3) + 3) % 3
	c1 := d.Base.Zero().Mul(&x.C1, d.FrobCoeff1[i])
	c2 := d.Base.Zero().Mul(&x.C2, d.FrobCoeff2[i])
	z.D = d
	z.C0.Set(&x.C0)
	z.C1, z.C2 = *c1, *c2
	return z
}

// Pow sets z = x^exp by left-to-right square-and-multiply.
func (z *Fp3) Pow(x *Fp3, exp []uint64) *Fp3 {
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
func (z *Fp3) IsZero() bool { return z.C0.IsZero() && z.C1.IsZero() && z.C2.IsZero() }

// IsOne reports whether z is the multiplicative identity.
func (z *Fp3) IsOne() bool { return z.C0.IsOne() && z.C1.IsZero() && z.C2.IsZero() }

// Equal reports componentwise equality.
func (z *Fp3) Equal(x *Fp3) bool {
	return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1) && z.C2.Equal(&x.C2)
}
