package tower

import "github.com/drand/pairing/internal/limbs"

// DescriptorFp6From3 describes the quadratic extension Fp6 = Fp3[w]/(w^2-xi),
// the "2-over-3" layout of spec.md §4.3 used directly as the target group of
// the MNT6 pairing family.
type DescriptorFp6From3 struct {
	Base      *DescriptorFp3
	Xi        *Fp3
	FrobCoeff [6]*Fp3
}

// NewDescriptorFp6From3 builds the Frobenius table for Fp6 over base given
// the Fp3 non-residue xi.
func NewDescriptorFp6From3(base *DescriptorFp3, xi *Fp3) *DescriptorFp6From3 {
	d := &DescriptorFp6From3{Base: base, Xi: xi}
	d.FrobCoeff[0] = base.One()
	for i := 1; i < 6; i++ {
		exp := fermatExponentWide(base.Base.Modulus, i, 2)
		d.FrobCoeff[i] = base.Zero().Pow(xi, exp)
	}
	return d
}

// Fp6From3 is an element c0 + c1*w of the tower built from D.
type Fp6From3 struct {
	C0, C1 Fp3
	D      *DescriptorFp6From3
}

// Zero returns the additive identity of d.
func (d *DescriptorFp6From3) Zero() *Fp6From3 {
	return &Fp6From3{C0: *d.Base.Zero(), C1: *d.Base.Zero(), D: d}
}

// One returns the multiplicative identity of d.
func (d *DescriptorFp6From3) One() *Fp6From3 {
	z := d.Zero()
	z.C0 = *d.Base.One()
	return z
}

// Set copies x into z.
func (z *Fp6From3) Set(x *Fp6From3) *Fp6From3 {
	z.D = x.D
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	return z
}

// Add sets z = x+y component-wise.
func (z *Fp6From3) Add(x, y *Fp6From3) *Fp6From3 {
	d := x.D
	c0 := d.Base.Zero().Add(&x.C0, &y.C0)
	c1 := d.Base.Zero().Add(&x.C1, &y.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Sub sets z = x-y component-wise.
func (z *Fp6From3) Sub(x, y *Fp6From3) *Fp6From3 {
	d := x.D
	c0 := d.Base.Zero().Sub(&x.C0, &y.C0)
	c1 := d.Base.Zero().Sub(&x.C1, &y.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Neg sets z = -x.
func (z *Fp6From3) Neg(x *Fp6From3) *Fp6From3 {
	d := x.D
	c0 := d.Base.Zero().Neg(&x.C0)
	c1 := d.Base.Zero().Neg(&x.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Double sets z = 2x.
func (z *Fp6From3) Double(x *Fp6From3) *Fp6From3 { return z.Add(x, x) }

// MulByNonResidue multiplies the Fp3 element x by xi.
func (d *DescriptorFp6From3) MulByNonResidue(x *Fp3) *Fp3 {
	return d.Base.Zero().Mul(x, d.Xi)
}

// Mul sets z = x*y using the three-multiplication Karatsuba formula, one
// tower level up from Fp2.Mul.
func (z *Fp6From3) Mul(x, y *Fp6From3) *Fp6From3 {
	d := x.D
	b := d.Base
	t0 := b.Zero().Mul(&x.C0, &y.C0)
	t1 := b.Zero().Mul(&x.C1, &y.C1)
	xiT1 := d.MulByNonResidue(t1)
	c0 := b.Zero().Add(t0, xiT1)

	sx := b.Zero().Add(&x.C0, &x.C1)
	sy := b.Zero().Add(&y.C0, &y.C1)
	cross := b.Zero().Mul(sx, sy)
	c1 := b.Zero().Sub(cross, t0)
	c1.Sub(c1, t1)

	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Square sets z = x*x via the complex-method squaring formula, one tower
// level up from Fp2.Square.
func (z *Fp6From3) Square(x *Fp6From3) *Fp6From3 {
	d := x.D
	b := d.Base
	v0 := b.Zero().Mul(&x.C0, &x.C1)
	xiC1 := d.MulByNonResidue(&x.C1)
	s1 := b.Zero().Add(&x.C0, &x.C1)
	s2 := b.Zero().Add(&x.C0, xiC1)
	t := b.Zero().Mul(s1, s2)
	xiV0 := d.MulByNonResidue(v0)
	c0 := b.Zero().Sub(t, v0)
	c0.Sub(c0, xiV0)
	c1 := b.Zero().Double(v0)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Inverse sets z = x^-1 via the Fp3-level norm formula. Returns false
// ("no value") when x is zero.
func (z *Fp6From3) Inverse(x *Fp6From3) bool {
	d := x.D
	b := d.Base
	c0sq := b.Zero().Square(&x.C0)
	c1sq := b.Zero().Square(&x.C1)
	xiC1sq := d.MulByNonResidue(c1sq)
	norm := b.Zero().Sub(c0sq, xiC1sq)
	normInv := b.Zero()
	if !normInv.Inverse(norm) {
		return false
	}
	c0 := b.Zero().Mul(&x.C0, normInv)
	negC1 := b.Zero().Neg(&x.C1)
	c1 := b.Zero().Mul(negC1, normInv)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return true
}

// Conjugate negates the odd-degree component: the Fp6/Fp3 involution that
// equals Frobenius^3 and, restricted to the norm-one (cyclotomic) subgroup,
// equals inversion — the "unitary inverse" shortcut used by CyclotomicExp.
func (z *Fp6From3) Conjugate(x *Fp6From3) *Fp6From3 {
	d := x.D
	c1 := d.Base.Zero().Neg(&x.C1)
	z.D = d
	z.C0.Set(&x.C0)
	z.C1 = *c1
	return z
}

// Frobenius raises x to the p^power map, selecting coefficients by power
// mod 6.
func (z *Fp6From3) Frobenius(x *Fp6From3, power int) *Fp6From3 {
	d := x.D
	i := ((power % 6) + 6) % 6
	c0 := d.Base.Zero().Frobenius(&x.C0, power)
	c1raw := d.Base.Zero().Frobenius(&x.C1, power)
	c1 := d.Base.Zero().Mul(c1raw, d.FrobCoeff[i])
	z.D = d
	z.C0, z.C1 = *c0, *c1
	return z
}

// Pow sets z = x^exp by left-to-right square-and-multiply.
func (z *Fp6From3) Pow(x *Fp6From3, exp []uint64) *Fp6From3 {
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

// CyclotomicExp raises x (assumed to lie in the norm-one subgroup reached
// after the easy part of final exponentiation) to |exp|, substituting the
// cheap Conjugate for a full Inverse when invert is set — the MNT6 final
// exponentiation hard part's w0/w1 chunk evaluation of spec.md §4.8.
func (z *Fp6From3) CyclotomicExp(x *Fp6From3, exp []uint64, invert bool) *Fp6From3 {
	z.Pow(x, exp)
	if invert {
		z.Conjugate(z)
	}
	return z
}

// IsZero reports whether z is the additive identity.
func (z *Fp6From3) IsZero() bool { return z.C0.IsZero() && z.C1.IsZero() }

// IsOne reports whether z is the multiplicative identity.
func (z *Fp6From3) IsOne() bool { return z.C0.IsOne() && z.C1.IsZero() }

// Equal reports componentwise equality.
func (z *Fp6From3) Equal(x *Fp6From3) bool { return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1) }
