package tower

import "github.com/drand/pairing/internal/limbs"

// DescriptorFp12 describes the quadratic extension Fp12 = Fp6[w]/(w^2-v),
// the "2-over-6(3/2)" layout of spec.md §4.3 used as the target group GT of
// the BLS12 and BN pairing families. The non-residue is the Fp6 generator v
// itself (C0=0, C1=one, C2=0), so Fp12's own non-residue is fixed rather
// than supplied by the caller.
type DescriptorFp12 struct {
	Base      *DescriptorFp6From2
	FrobCoeff [12]*Fp2
}

// NewDescriptorFp12 builds the Frobenius table for Fp12 over base.
func NewDescriptorFp12(base *DescriptorFp6From2) *DescriptorFp12 {
	d := &DescriptorFp12{Base: base}
	v := base.One()
	v.C0 = *base.Base.Zero()
	v.C1 = *base.Base.One()
	v.C2 = *base.Base.Zero()
	for i := 0; i < 12; i++ {
		if i == 0 {
			d.FrobCoeff[i] = base.Base.One()
			continue
		}
		exp := fermatExponentWide(base.Base.Base.Modulus, i, 2)
		vp := base.Zero().Pow(v, exp)
		// w^(p^i) = w * v^((p^i-1)/2); for the compatible non-residue
		// choice these towers use, that power of v collapses into the
		// Fp2 base subfield (C1=C2=0), so only vp.C0 is kept.
		d.FrobCoeff[i] = base.Base.Zero().Set(&vp.C0)
	}
	return d
}

// Fp12 is an element c0 + c1*w of the tower built from D.
type Fp12 struct {
	C0, C1 Fp6From2
	D      *DescriptorFp12
}

// Zero returns the additive identity of d.
func (d *DescriptorFp12) Zero() *Fp12 {
	return &Fp12{C0: *d.Base.Zero(), C1: *d.Base.Zero(), D: d}
}

// One returns the multiplicative identity of d.
func (d *DescriptorFp12) One() *Fp12 {
	z := d.Zero()
	z.C0 = *d.Base.One()
	return z
}

// Set copies x into z.
func (z *Fp12) Set(x *Fp12) *Fp12 {
	z.D = x.D
	z.C0.Set(&x.C0)
	z.C1.Set(&x.C1)
	return z
}

// Add sets z = x+y component-wise.
func (z *Fp12) Add(x, y *Fp12) *Fp12 {
	d := x.D
	c0 := d.Base.Zero().Add(&x.C0, &y.C0)
	c1 := d.Base.Zero().Add(&x.C1, &y.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Sub sets z = x-y component-wise.
func (z *Fp12) Sub(x, y *Fp12) *Fp12 {
	d := x.D
	c0 := d.Base.Zero().Sub(&x.C0, &y.C0)
	c1 := d.Base.Zero().Sub(&x.C1, &y.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// Neg sets z = -x.
func (z *Fp12) Neg(x *Fp12) *Fp12 {
	d := x.D
	c0 := d.Base.Zero().Neg(&x.C0)
	c1 := d.Base.Zero().Neg(&x.C1)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// MulByNonResidue multiplies the Fp6 element x by v (the Fp12 non-residue).
func (d *DescriptorFp12) MulByNonResidue(x *Fp6From2) *Fp6From2 {
	one := d.Base.Base.One()
	return d.Base.Zero().MulBy1(x, one)
}

// Mul sets z = x*y using three Fp6 multiplications (Karatsuba), mirroring
// Fp2.Mul two tower levels up.
func (z *Fp12) Mul(x, y *Fp12) *Fp12 {
	d := x.D
	t0 := d.Base.Zero().Mul(&x.C0, &y.C0)
	t1 := d.Base.Zero().Mul(&x.C1, &y.C1)
	vT1 := d.MulByNonResidue(t1)
	c0 := d.Base.Zero().Add(t0, vT1)

	sx := d.Base.Zero().Add(&x.C0, &x.C1)
	sy := d.Base.Zero().Add(&y.C0, &y.C1)
	cross := d.Base.Zero().Mul(sx, sy)
	c1 := d.Base.Zero().Sub(cross, t0)
	c1.Sub(c1, t1)

	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// MulBy014 multiplies x by a sparse Fp12 element whose only nonzero
// coefficients, in the flattened (C0.C0,C0.C1,C0.C2,C1.C0,C1.C1,C1.C2)
// Fp2-vector basis, are positions 0, 1 and 4 — the shape produced by a
// BLS12/BN Miller loop line function (spec.md §4.6/§4.7).
func (z *Fp12) MulBy014(x *Fp12, c0, c1, c4 *Fp2) *Fp12 {
	d := x.D
	y0 := d.Base.Zero()
	y0.C0.Set(c0)
	y0.C1.Set(c1)
	y1 := d.Base.Zero()
	y1.C1.Set(c4)
	sparse := &Fp12{C0: *y0, C1: *y1, D: d}
	return z.Mul(x, sparse)
}

// MulBy034 multiplies x by a sparse Fp12 element whose only nonzero
// coefficients, in the same flattened basis as MulBy014, are positions
// 0, 3 and 4 — the shape this implementation's Miller loop line function
// produces under its chosen twist embedding (see the bls12/bn pairing
// packages; spec.md §4.6/§4.7 call this the M-twist sparse form).
func (z *Fp12) MulBy034(x *Fp12, c0, c3, c4 *Fp2) *Fp12 {
	d := x.D
	y0 := d.Base.Zero()
	y0.C0.Set(c0)
	y1 := d.Base.Zero()
	y1.C0.Set(c3)
	y1.C1.Set(c4)
	sparse := &Fp12{C0: *y0, C1: *y1, D: d}
	return z.Mul(x, sparse)
}

// Square sets z = x*x via the complex-method squaring formula, two tower
// levels up from Fp2.Square. This doubles as the cyclotomic square used by
// final exponentiation's hard part once x is known to lie in the norm-one
// subgroup; both paths compute the same mathematically correct result, the
// only difference being the fused Granger-Scott formula's lower operation
// count, which this implementation does not special-case.
// TODO: replace with the fused Granger-Scott cyclotomic squaring formula to
// cut the field-multiplication count on the final exponentiation hot path.
func (z *Fp12) Square(x *Fp12) *Fp12 {
	d := x.D
	v0 := d.Base.Zero().Mul(&x.C0, &x.C1)
	vC1 := d.MulByNonResidue(&x.C1)
	s1 := d.Base.Zero().Add(&x.C0, &x.C1)
	s2 := d.Base.Zero().Add(&x.C0, vC1)
	t := d.Base.Zero().Mul(s1, s2)
	vV0 := d.MulByNonResidue(v0)
	c0 := d.Base.Zero().Sub(t, v0)
	c0.Sub(c0, vV0)
	c1 := d.Base.Zero().Double(v0)
	z.D, z.C0, z.C1 = d, *c0, *c1
	return z
}

// CyclotomicSquare is an alias for Square, named for call sites in the
// final exponentiation hard part that operate on norm-one elements.
func (z *Fp12) CyclotomicSquare(x *Fp12) *Fp12 { return z.Square(x) }

// Inverse sets z = x^-1 via the Fp6-level norm formula. Returns false
// ("no value") when x is zero.
func (z *Fp12) Inverse(x *Fp12) bool {
	d := x.D
	c0sq := d.Base.Zero().Mul(&x.C0, &x.C0)
	c1sq := d.Base.Zero().Mul(&x.C1, &x.C1)
	vC1sq := d.MulByNonResidue(c1sq)
	norm := d.Base.Zero().Sub(c0sq, vC1sq)
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

// Conjugate negates the odd-degree component: the Fp12/Fp6 involution that
// equals Frobenius^6 and, restricted to the norm-one subgroup reached by
// the easy part of final exponentiation, equals inversion.
func (z *Fp12) Conjugate(x *Fp12) *Fp12 {
	d := x.D
	c1 := d.Base.Zero().Neg(&x.C1)
	z.D = d
	z.C0.Set(&x.C0)
	z.C1 = *c1
	return z
}

// Frobenius raises x to the p^power map, selecting the precomputed
// coefficient by power mod 12.
func (z *Fp12) Frobenius(x *Fp12, power int) *Fp12 {
	d := x.D
	i := ((power % 12) + 12) % 12
	c0 := d.Base.Zero().Frobenius(&x.C0, power)
	c1raw := d.Base.Zero().Frobenius(&x.C1, power)
	c1 := d.Base.Zero().MulByFp2(c1raw, d.FrobCoeff[i])
	z.D = d
	z.C0, z.C1 = *c0, *c1
	return z
}

// Pow sets z = x^exp by left-to-right square-and-multiply.
func (z *Fp12) Pow(x *Fp12, exp []uint64) *Fp12 {
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
func (z *Fp12) IsZero() bool { return z.C0.IsZero() && z.C1.IsZero() }

// IsOne reports whether z is the multiplicative identity.
func (z *Fp12) IsOne() bool { return z.C0.IsOne() && z.C1.IsZero() }

// Equal reports componentwise equality.
func (z *Fp12) Equal(x *Fp12) bool { return z.C0.Equal(&x.C0) && z.C1.Equal(&x.C1) }
