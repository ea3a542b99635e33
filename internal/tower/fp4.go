package tower

import "github.com/drand/pairing/internal/limbs"

// DescriptorFp4 describes the quadratic extension Fp4 = Fp2[v]/(v^2-xi),
// used by the MNT4 pairing family (spec.md §4.3/§4.8). FrobCoeff[i] holds
// xi^((p^i-1)/2) as an Fp2 element, for i in {0,1,2,3}.
type DescriptorFp4 struct {
	Base       *DescriptorFp2
	NonResidue *Fp2
	FrobCoeff  [4]*Fp2
}

// NewDescriptorFp4 builds the Frobenius tables for Fp4 over base, given the
// Fp2 non-residue xi.
func NewDescriptorFp4(base *DescriptorFp2, xi *Fp2) *DescriptorFp4 {
	d := &DescriptorFp4{Base: base, NonResidue: xi}
	d.FrobCoeff[0] = base.One()
	for i := 1; i < 4; i++ {
		exp := fermatExponentWide(base.Base.Modulus, i, 2)
		d.FrobCoeff[i] = base.Zero().Pow(xi, exp)
	}
	return d
}

// Fp4 is an element c0 + c1*v of the tower built from D.
type Fp4 struct {
	C0, C1 Fp2
	D      *DescriptorFp4
}

// Zero returns the additive identity of d.
func (d *DescriptorFp4) Zero() *Fp4 {
	return &Fp4{C0: *d.Base.Zero(), C1: *d.Base.Zero(), D: d}
}

// One returns the multiplicative identity of d.
func (d *DescriptorFp4) One() *Fp4 {
	z := d.Zero()
	z.C0 = *d.Base.One()
	return z
}

// Set copies x into z.
func (z *Fp4) Set(x *Fp4) *Fp4 {
	z.D = x.D
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	return z
}

// Add sets z = x+y component-wise.
func (z *Fp4) Add(x, y *Fp4) *Fp4 {
	d := x.D
	c0 := d.Base.Zero().Add(&x.C0, &y.C0)
	c1 := d.Base.Zero().Add(&x.C1, &y.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Sub sets z = x-y component-wise.
func (z *Fp4) Sub(x, y *Fp4) *Fp4 {
	d := x.D
	c0 := d.Base.Zero().Sub(&x.C0, &y.C0)
	c1 := d.Base.Zero().Sub(&x.C1, &y.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Neg sets z = -x.
func (z *Fp4) Neg(x *Fp4) *Fp4 {
	d := x.D
	c0 := d.Base.Zero().Neg(&x.C0)
	c1 := d.Base.Zero().Neg(&x.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Double sets z = 2x.
func (z *Fp4) Double(x *Fp4) *Fp4 { return z.Add(x, x) }

// MulByNonResidue multiplies the Fp2 element x by xi.
func (d *DescriptorFp4) MulByNonResidue(x *Fp2) *Fp2 {
	return d.Base.Zero().Mul(x, d.NonResidue)
}

// Mul sets z = x*y using three Fp2 multiplications (Karatsuba), mirroring
// Fp2.Mul one tower level up.
func (z *Fp4) Mul(x, y *Fp4) *Fp4 {
	d := x.D
	t0 := d.Base.Zero().Mul(&x.C0, &y.C0)
	t1 := d.Base.Zero().Mul(&x.C1, &y.C1)
	xiT1 := d.MulByNonResidue(t1)
	c0 := d.Base.Zero().Add(t0, xiT1)

	sx := d.Base.Zero().Add(&x.C0, &x.C1)
	sy := d.Base.Zero().Add(&y.C0, &y.C1)
	cross := d.Base.Zero().Mul(sx, sy)
	c1 := d.Base.Zero().Sub(cross, t0)
	c1.Sub(c1, t1)

	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Square sets z = x*x via the complex-method squaring formula, one tower
// level up from Fp2.Square; used as the cyclotomic square for MNT4's final
// exponentiation hard part (spec.md §4.8) once restricted to the
// norm-one subgroup.
func (z *Fp4) Square(x *Fp4) *Fp4 {
	d := x.D
	v0 := d.Base.Zero().Mul(&x.C0, &x.C1)
	xiC1 := d.MulByNonResidue(&x.C1)
	s1 := d.Base.Zero().Add(&x.C0, &x.C1)
	s2 := d.Base.Zero().Add(&x.C0, xiC1)
	t := d.Base.Zero().Mul(s1, s2)
	xiV0 := d.MulByNonResidue(v0)
	c0 := d.Base.Zero().Sub(t, v0)
	c0.Sub(c0, xiV0)
	c1 := d.Base.Zero().Double(v0)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Inverse sets z = x^-1 via the Fp2-level norm formula, mirroring
// Fp2.Inverse one tower level up. Returns false ("no value") when x is zero.
func (z *Fp4) Inverse(x *Fp4) bool {
	d := x.D
	c0sq := d.Base.Zero().Square(&x.C0)
	c1sq := d.Base.Zero().Square(&x.C1)
	xiC1sq := d.MulByNonResidue(c1sq)
	norm := d.Base.Zero().Sub(c0sq, xiC1sq)
	normInv := d.Base.Zero()
	if !normInv.Inverse(norm) {
		return false
	}
	c0 := d.Base.Zero().Mul(&x.C0, normInv)
	negC1 := d.Base.Zero().Neg(&x.C1)
	c1 := d.Base.Zero().Mul(negC1, normInv)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return true
}

// Conjugate negates the odd-degree component, the Fp4/Fp2 involution used
// by the unitary (cyclotomic) inverse shortcut in final exponentiation.
func (z *Fp4) Conjugate(x *Fp4) *Fp4 {
	d := x.D
	c1 := d.Base.Zero().Neg(&x.C1)
	z.D = d
	z.C0.Set(&x.C0)
	z.C1 = *c1
	return z
}

// Frobenius raises x to the p^power map, selecting the precomputed
// coefficient by power mod 4.
func (z *Fp4) Frobenius(x *Fp4, power int) *Fp4 {
	d := x.D
	i := ((power % 4) + 4) % 4
	c0 := d.Base.Zero().Frobenius(&x.C0, power)
	c1raw := d.Base.Zero().Frobenius(&x.C1, power)
	c1 := d.Base.Zero().Mul(c1raw, d.FrobCoeff[i])
	z.D = d
	z.C0, z.C1 = *c0, *c1
	return z
}

// Pow sets z = x^exp by left-to-right square-and-multiply.
func (z *Fp4) Pow(x *Fp4, exp []uint64) *Fp4 {
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
// cheap Conjugate for a full Inverse when invert is set — mirrors
// Fp6From3.CyclotomicExp one tower arity down, for MNT4's final
// exponentiation hard part (spec.md §4.8).
func (z *Fp4) CyclotomicExp(x *Fp4, exp []uint64, invert bool) *Fp4 {
	z.Pow(x, exp)
	if invert {
		z.Conjugate(z)
	}
	return z
}

// IsZero reports whether z is the additive identity.
func (z *Fp4) IsZero() bool { return z.C0.IsZero() && z.C1.IsZero() }

// IsOne reports whether z is the multiplicative identity.
func (z *Fp4) IsOne() bool { return z.C0.IsOne() && z.C1.IsZero() }

// Equal reports componentwise equality.
func (z *Fp4) Equal(x *Fp4) bool { return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1) }
