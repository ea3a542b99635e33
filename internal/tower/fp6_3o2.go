package tower

import "github.com/drand/pairing/internal/limbs"

// DescriptorFp6From2 describes the cubic extension Fp6 = Fp2[v]/(v^3-xi),
// the "3-over-2" layout of spec.md §4.3 used by the BLS12 and BN pairing
// families as the middle tier of the Fp12 tower.
type DescriptorFp6From2 struct {
	Base       *DescriptorFp2
	Xi         *Fp2
	FrobCoeff1 [6]*Fp2
	FrobCoeff2 [6]*Fp2
}

// NewDescriptorFp6From2 builds the Frobenius tables for Fp6 over base given
// the Fp2 non-residue xi.
func NewDescriptorFp6From2(base *DescriptorFp2, xi *Fp2) *DescriptorFp6From2 {
	d := &DescriptorFp6From2{Base: base, Xi: xi}
	d.FrobCoeff1[0] = base.One()
	d.FrobCoeff2[0] = base.One()
	for i := 1; i < 6; i++ {
		exp := fermatExponentWide(base.Base.Modulus, i, 3)
		c1 := base.Zero().Pow(xi, exp)
		d.FrobCoeff1[i] = c1
		d.FrobCoeff2[i] = base.Zero().Square(c1)
	}
	return d
}

// Fp6From2 is an element c0 + c1*v + c2*v^2 of the tower built from D.
type Fp6From2 struct {
	C0, C1, C2 Fp2
	D          *DescriptorFp6From2
}

// Zero returns the additive identity of d.
func (d *DescriptorFp6From2) Zero() *Fp6From2 {
	return &Fp6From2{C0: *d.Base.Zero(), C1: *d.Base.Zero(), C2: *d.Base.Zero(), D: d}
}

// One returns the multiplicative identity of d.
func (d *DescriptorFp6From2) One() *Fp6From2 {
	z := d.Zero()
	z.C0 = *d.Base.One()
	return z
}

// Set copies x into z.
func (z *Fp6From2) Set(x *Fp6From2) *Fp6From2 {
	z.D = x.D
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	z.C2.Set(&x.C2)
	return z
}

// Add sets z = x+y component-wise.
func (z *Fp6From2) Add(x, y *Fp6From2) *Fp6From2 {
	d := x.D
	c0 := d.Base.Zero().Add(&x.C0, &y.C0)
	c1 := d.Base.Zero().Add(&x.C1, &y.C1)
	c2 := d.Base.Zero().Add(&x.C2, &y.C2)
	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Sub sets z = x-y component-wise.
func (z *Fp6From2) Sub(x, y *Fp6From2) *Fp6From2 {
	d := x.D
	c0 := d.Base.Zero().Sub(&x.C0, &y.C0)
	c1 := d.Base.Zero().Sub(&x.C1, &y.C1)
	c2 := d.Base.Zero().Sub(&x.C2, &y.C2)
	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Neg sets z = -x.
func (z *Fp6From2) Neg(x *Fp6From2) *Fp6From2 {
	d := x.D
	c0 := d.Base.Zero().Neg(&x.C0)
	c1 := d.Base.Zero().Neg(&x.C1)
	c2 := d.Base.Zero().Neg(&x.C2)
	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Double sets z = 2x.
func (z *Fp6From2) Double(x *Fp6From2) *Fp6From2 { return z.Add(x, x) }

// MulByNonResidue multiplies the Fp2 element x by xi.
func (d *DescriptorFp6From2) MulByNonResidue(x *Fp2) *Fp2 {
	return d.Base.Zero().Mul(x, d.Xi)
}

// Mul sets z = x*y via the six-multiplication Karatsuba-style cubic
// extension formula, one tower level up from Fp3.Mul.
func (z *Fp6From2) Mul(x, y *Fp6From2) *Fp6From2 {
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

// MulBy01 multiplies x by a sparse element (c0, c1, 0); used by the BLS12/BN
// Miller loop line-function absorption (spec.md §4.6/§4.7) to avoid a full
// Fp6 multiplication when one operand's top coefficient is known zero.
func (z *Fp6From2) MulBy01(x *Fp6From2, c0, c1 *Fp2) *Fp6From2 {
	d := x.D
	b := d.Base
	v0 := b.Zero().Mul(&x.C0, c0)
	v1 := b.Zero().Mul(&x.C1, c1)

	a12 := b.Zero().Add(&x.C1, &x.C2)
	t0 := b.Zero().Mul(a12, c1)
	t0.Sub(t0, v1)
	rc0 := b.Zero().Add(v0, d.MulByNonResidue(t0))

	a01 := b.Zero().Add(&x.C0, &x.C1)
	bSum := b.Zero().Add(c0, c1)
	t1 := b.Zero().Mul(a01, bSum)
	t1.Sub(t1, v0)
	rc1 := b.Zero().Sub(t1, v1)

	a02 := b.Zero().Add(&x.C0, &x.C2)
	t2 := b.Zero().Mul(a02, c0)
	t2.Sub(t2, v0)
	rc2 := b.Zero().Add(t2, v1)

	z.D, z.C0, z.C1, z.C2 = d, *rc0, *rc1, *rc2
	return z
}

// MulBy1 multiplies x by a sparse element (0, c1, 0).
func (z *Fp6From2) MulBy1(x *Fp6From2, c1 *Fp2) *Fp6From2 {
	d := x.D
	b := d.Base
	t1 := b.Zero().Mul(&x.C2, c1)
	rc0 := d.MulByNonResidue(t1)
	rc1 := b.Zero().Mul(&x.C0, c1)
	rc2 := b.Zero().Mul(&x.C1, c1)
	z.D, z.C0, z.C1, z.C2 = d, *rc0, *rc1, *rc2
	return z
}

// MulByFp2 scales every coefficient of x by the Fp2 scalar s.
func (z *Fp6From2) MulByFp2(x *Fp6From2, s *Fp2) *Fp6From2 {
	d := x.D
	c0 := d.Base.Zero().Mul(&x.C0, s)
	c1 := d.Base.Zero().Mul(&x.C1, s)
	c2 := d.Base.Zero().Mul(&x.C2, s)
	z.D, z.C0, z.C1, z.C2 = d, *c0, *c1, *c2
	return z
}

// Square sets z = x*x via the Chung-Hasan SQR2 cubic-extension formula, one
// tower level up from Fp3.Square.
func (z *Fp6From2) Square(x *Fp6From2) *Fp6From2 {
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

// Inverse sets z = x^-1 via the cubic adjugate formula, one tower level up
// from Fp3.Inverse. Returns false ("no value") when x is zero.
func (z *Fp6From2) Inverse(x *Fp6From2) bool {
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
// mod 6.
func (z *Fp6From2) Frobenius(x *Fp6From2, power int) *Fp6From2 {
	d := x.D
	i := ((power % 6) + 6) % 6
	c0 := d.Base.Zero().Frobenius(&x.C0, power)
	c1raw := d.Base.Zero().Frobenius(&x.C1, power)
	c1 := d.Base.Zero().Mul(c1raw, d.FrobCoeff1[i])
	c2raw := d.Base.Zero().Frobenius(&x.C2, power)
	c2 := d.Base.Zero().Mul(c2raw, d.FrobCoeff2[i])
	z.D = d
	z.C0, z.C1, z.C2 = *c0, *c1, *c2
	return z
}

// Pow sets z = x^exp by left-to-right square-and-multiply.
func (z *Fp6From2) Pow(x *Fp6From2, exp []uint64) *Fp6From2 {
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
func (z *Fp6From2) IsZero() bool { return z.C0.IsZero() && z.C1.IsZero() && z.C2.IsZero() }

// IsOne reports whether z is the multiplicative identity.
func (z *Fp6From2) IsOne() bool { return z.C0.IsOne() && z.C1.IsZero() && z.C2.IsZero() }

// Equal reports componentwise equality.
func (z *Fp6From2) Equal(x *Fp6From2) bool {
	return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1) && z.C2.Equal(&x.C2)
}
