// Package mnt4 implements the ate pairing for the MNT4 curve family
// (embedding degree 4, G2 defined directly over Fp2 with no further sextic
// twist embedding), per spec.md §4.8.
//
// Unlike internal/pairing/bls12 and internal/pairing/bn, whose line function
// needs a sparse (0,1,4)/(0,3,4) absorption trick to stay cheap inside a
// degree-12 target field, MNT4's target group Fp4 only has two Fp2 "slots"
// to begin with, so the line function is a dense two-component Fp4 element.
// The Miller loop itself runs on the Miyaji-Nakabayashi-Takano extended
// point (X,Y,Z,T=Z²) recurrence spec.md §4.8 names: doubling/addition steps
// never invert anything, instead precomputing an AteDoubleCoefficients or
// AteAdditionCoefficients record that the line-function evaluation consumes
// against P's "by twist"/"over twist" coordinates. Only a negative loop
// parameter costs one inversion (R.Z, to recover -R's affine coordinates
// for the appended extra addition step) and one Fp4 inversion of f.
package mnt4

import (
	"math/big"

	"github.com/drand/pairing/internal/curve"
	"github.com/drand/pairing/internal/field"
	"github.com/drand/pairing/internal/limbs"
	"github.com/drand/pairing/internal/pairingutil"
	"github.com/drand/pairing/internal/tower"
)

type G1Point = curve.Point[field.Element, *field.Element]
type G2Point = curve.Point[tower.Fp2, *tower.Fp2]

// Descriptor holds the precomputed constants an MNT4 pairing needs. W0/W1
// are the curve-specific final-exponentiation hard-part exponents (not
// derivable from p and r alone; a real deployment supplies them from the
// curve's parameter preset alongside p, r, A, B and the loop parameter).
type Descriptor struct {
	Fp  *field.Descriptor
	Fp2 *tower.DescriptorFp2
	Fp4 *tower.DescriptorFp4
	G1  *curve.Descriptor[field.Element, *field.Element]
	G2  *curve.Descriptor[tower.Fp2, *tower.Fp2]

	X          []uint64 // |x|, the ate loop parameter
	XNegative  bool
	W0         []uint64
	W0Negative bool
	W1         []uint64
}

// NewDescriptor builds an MNT4 pairing descriptor from a signed loop
// parameter and the curve's w0/w1 final-exponentiation constants.
func NewDescriptor(
	fp *field.Descriptor, fp2 *tower.DescriptorFp2, fp4 *tower.DescriptorFp4,
	g1 *curve.Descriptor[field.Element, *field.Element], g2 *curve.Descriptor[tower.Fp2, *tower.Fp2],
	x, w0, w1 *big.Int,
) *Descriptor {
	xAbs, xNeg := pairingutil.Abs(x)
	w0Abs, w0Neg := pairingutil.Abs(w0)
	return &Descriptor{
		Fp: fp, Fp2: fp2, Fp4: fp4,
		G1: g1, G2: g2,
		X: xAbs, XNegative: xNeg,
		W0: w0Abs, W0Negative: w0Neg,
		W1: pairingutil.BigToLimbsWide(w1),
	}
}

func fp2FromFp(d *tower.DescriptorFp2, x *field.Element) *tower.Fp2 {
	z := d.Zero()
	z.C0.Set(x)
	return z
}

// extendedPoint is the (X,Y,Z,T=Z²) representation spec.md §4.8's
// doubling/addition recurrences run on; affine R is (X/Z², Y/Z³).
type extendedPoint struct {
	X, Y, Z, T *tower.Fp2
}

// ateDoubleCoefficients is spec.md §4.8's AteDoubleCoefficients record: the
// four Fp2 values a doubling step precomputes so the line-function
// evaluation against P can run with no further inversions.
type ateDoubleCoefficients struct {
	cH, c4c, cJ, cL *tower.Fp2
}

// ateAdditionCoefficients is spec.md §4.8's AteAdditionCoefficients record.
type ateAdditionCoefficients struct {
	cL1, cRz *tower.Fp2
}

// doublingStep advances r to 2r in place and returns the coefficient record
// for that step, following the Miyaji-Nakabayashi-Takano doubling formula:
// every intermediate value is a single Fp2 add/sub/mul/square, no inversion.
func (d *Descriptor) doublingStep(r *extendedPoint) ateDoubleCoefficients {
	a := d.Fp2.Zero().Square(r.T)
	b := d.Fp2.Zero().Square(r.X)
	c := d.Fp2.Zero().Square(r.Y)
	dd := d.Fp2.Zero().Square(c)

	e := d.Fp2.Zero().Add(r.X, c)
	e.Square(e)
	e.Sub(e, b)
	e.Sub(e, dd)

	f := d.Fp2.Zero().Mul(&d.G2.A, a)
	f.Add(f, b)
	f.Add(f, b)
	f.Add(f, b)

	g := d.Fp2.Zero().Square(f)

	d8 := d.Fp2.Zero().Double(dd)
	d8.Double(d8)
	d8.Double(d8)

	t0 := d.Fp2.Zero().Double(e)
	t0.Double(t0)

	x := d.Fp2.Zero().Sub(g, t0)

	y := d.Fp2.Zero().Double(e)
	y.Sub(y, x)
	y.Mul(y, f)
	y.Sub(y, d8)

	zSq := d.Fp2.Zero().Square(r.Z)
	z := d.Fp2.Zero().Add(r.Y, r.Z)
	z.Square(z)
	z.Sub(z, c)
	z.Sub(z, zSq)

	t := d.Fp2.Zero().Square(z)

	ch := d.Fp2.Zero().Add(z, r.T)
	ch.Square(ch)
	ch.Sub(ch, t)
	ch.Sub(ch, a)

	c4c := d.Fp2.Zero().Double(c)
	c4c.Double(c4c)

	cj := d.Fp2.Zero().Add(f, r.T)
	cj.Square(cj)
	cj.Sub(cj, g)
	cj.Sub(cj, a)

	cl := d.Fp2.Zero().Add(f, r.X)
	cl.Square(cl)
	cl.Sub(cl, g)
	cl.Sub(cl, b)

	r.X, r.Y, r.Z, r.T = x, y, z, t
	return ateDoubleCoefficients{cH: ch, c4c: c4c, cJ: cj, cL: cl}
}

// additionStep advances r to r+(qx,qy) in place (qx,qy affine) and returns
// the coefficient record for that step.
func (d *Descriptor) additionStep(r *extendedPoint, qx, qy *tower.Fp2) ateAdditionCoefficients {
	a := d.Fp2.Zero().Square(qy)
	b := d.Fp2.Zero().Mul(r.T, qx)

	dd := d.Fp2.Zero().Add(r.Z, qy)
	dd.Square(dd)
	dd.Sub(dd, a)
	dd.Sub(dd, r.T)
	dd.Mul(dd, r.T)

	h := d.Fp2.Zero().Sub(b, r.X)
	i := d.Fp2.Zero().Square(h)
	e := d.Fp2.Zero().Double(i)
	e.Double(e)
	j := d.Fp2.Zero().Mul(h, e)
	v := d.Fp2.Zero().Mul(r.X, e)

	l1 := d.Fp2.Zero().Sub(dd, r.Y)
	l1.Sub(l1, r.Y)

	x := d.Fp2.Zero().Square(l1)
	x.Sub(x, j)
	x.Sub(x, v)
	x.Sub(x, v)

	t0 := d.Fp2.Zero().Double(r.Y)
	t0.Mul(t0, j)

	y := d.Fp2.Zero().Sub(v, x)
	y.Mul(y, l1)
	y.Sub(y, t0)

	z := d.Fp2.Zero().Add(r.Z, h)
	z.Square(z)
	z.Sub(z, r.T)
	z.Sub(z, i)

	t := d.Fp2.Zero().Square(z)

	r.X, r.Y, r.Z, r.T = x, y, z, t
	return ateAdditionCoefficients{cL1: l1, cRz: z}
}

// lineFromDouble combines a doubling coefficient record with P's by-twist
// coordinates into the dense Fp4 line value spec.md §4.8's Miller loop
// multiplies in.
func lineFromDouble(d *Descriptor, dc ateDoubleCoefficients, pxByTwist, pyByTwist *tower.Fp2) *tower.Fp4 {
	t0 := d.Fp2.Zero().Mul(dc.cJ, pxByTwist)
	t0.Neg(t0)
	t0.Add(t0, dc.cL)
	t0.Sub(t0, dc.c4c)
	t1 := d.Fp2.Zero().Mul(dc.cH, pyByTwist)

	z := d.Fp4.Zero()
	z.C0 = *t0
	z.C1 = *t1
	return z
}

func lineFromAddition(d *Descriptor, ac ateAdditionCoefficients, l1Coeff, qyOverTwist, pyByTwist *tower.Fp2) *tower.Fp4 {
	t0 := d.Fp2.Zero().Mul(ac.cRz, pyByTwist)
	t := d.Fp2.Zero().Mul(l1Coeff, ac.cL1)
	t1 := d.Fp2.Zero().Mul(qyOverTwist, ac.cRz)
	t1.Add(t1, t)
	t1.Neg(t1)

	z := d.Fp4.Zero()
	z.C0 = *t0
	z.C1 = *t1
	return z
}

// MillerLoop runs the MNT4 Miller loop for one (P, Q) pair, both affine, per
// spec.md §4.8: P's "by twist"/"over twist" coordinates are precomputed
// once, R's extended-coordinate doubling/addition recurrence produces one
// coefficient record per step with no inversion, and each record is folded
// into f against P's coordinates. If x is negative, one extra addition step
// over -R's affine coordinates is appended and f is inverted — the only two
// points in the whole loop that can fail ("no value"), both only when x is
// negative.
func (d *Descriptor) MillerLoop(px, py *field.Element, qx, qy *tower.Fp2) (*tower.Fp4, bool) {
	twistInv := d.Fp2.Zero()
	if !twistInv.Inverse(d.Fp4.NonResidue) {
		return nil, false
	}

	pxByTwist := d.Fp2.Zero().MulByFp(d.Fp4.NonResidue, px)
	pyByTwist := d.Fp2.Zero().MulByFp(d.Fp4.NonResidue, py)
	qxOverTwist := d.Fp2.Zero().Mul(qx, twistInv)
	qyOverTwist := d.Fp2.Zero().Mul(qy, twistInv)

	l1Coeff := fp2FromFp(d.Fp2, px)
	l1Coeff.Sub(l1Coeff, qxOverTwist)

	r := &extendedPoint{
		X: d.Fp2.Zero().Set(qx), Y: d.Fp2.Zero().Set(qy),
		Z: d.Fp2.One(), T: d.Fp2.One(),
	}

	f := d.Fp4.One()
	bitLen := limbs.BitLen(d.X)
	for i := bitLen - 2; i >= 0; i-- {
		dc := d.doublingStep(r)
		f.Square(f)
		f.Mul(f, lineFromDouble(d, dc, pxByTwist, pyByTwist))

		if limbs.Bit(d.X, i) {
			ac := d.additionStep(r, qx, qy)
			f.Mul(f, lineFromAddition(d, ac, l1Coeff, qyOverTwist, pyByTwist))
		}
	}

	if d.XNegative {
		rzInv := d.Fp2.Zero()
		if !rzInv.Inverse(r.Z) {
			return nil, false
		}
		rz2Inv := d.Fp2.Zero().Square(rzInv)
		rz3Inv := d.Fp2.Zero().Mul(rzInv, rz2Inv)
		negRx := d.Fp2.Zero().Mul(rz2Inv, r.X)
		negRy := d.Fp2.Zero().Mul(rz3Inv, r.Y)
		negRy.Neg(negRy)

		ac := d.additionStep(r, negRx, negRy)
		f.Mul(f, lineFromAddition(d, ac, l1Coeff, qyOverTwist, pyByTwist))

		finv := d.Fp4.Zero()
		if !finv.Inverse(f) {
			return nil, false
		}
		f = finv
	}
	return f, true
}

// partOne computes x^((p^3-1)(p+1)) given x and its precomputed inverse
// xInv: f3 = Frobenius^3(x); g = f3*xInv; result = Frobenius(g,1) * g.
func partOne(d *Descriptor, x, xInv *tower.Fp4) *tower.Fp4 {
	f3 := d.Fp4.Zero().Frobenius(x, 3)
	g := d.Fp4.Zero().Mul(f3, xInv)
	gp := d.Fp4.Zero().Frobenius(g, 1)
	return gp.Mul(gp, g)
}

// FinalExponentiation implements spec.md §4.8's two-part MNT4 final
// exponentiation: part one removes the (p^3-1)(p+1) factor; part two
// combines a=partOne(f,f^-1) and b=partOne(f^-1,f) via a^p * a^w1 *
// (w0>=0 ? a^w0 : b^|w0|), the curve-specific w0/w1 combination.
func (d *Descriptor) FinalExponentiation(f *tower.Fp4) (*tower.Fp4, bool) {
	finv := d.Fp4.Zero()
	if !finv.Inverse(f) {
		return nil, false
	}
	a := partOne(d, f, finv)
	b := partOne(d, finv, f)

	ap := d.Fp4.Zero().Frobenius(a, 1)
	aw1 := d.Fp4.Zero().Pow(a, d.W1)

	var w0Term *tower.Fp4
	if d.W0Negative {
		w0Term = d.Fp4.Zero().Pow(b, d.W0)
	} else {
		w0Term = d.Fp4.Zero().Pow(a, d.W0)
	}

	result := d.Fp4.Zero().Mul(ap, aw1)
	result.Mul(result, w0Term)
	return result, true
}

// Pair computes e(P, Q) for one G1/G2 pair.
func (d *Descriptor) Pair(p *G1Point, q *G2Point) (*tower.Fp4, bool) {
	return d.MultiPair([]*G1Point{p}, []*G2Point{q})
}

// MultiPair implements the spec.md §4.9 pair() contract for this family.
func (d *Descriptor) MultiPair(ps []*G1Point, qs []*G2Point) (*tower.Fp4, bool) {
	if len(ps) != len(qs) {
		return nil, false
	}
	acc := d.Fp4.One()
	any := false
	for i := range ps {
		p := ps[i]
		q := qs[i]
		if d.G1.IsZero(p) || d.G2.IsZero(q) {
			continue
		}
		pAff := &G1Point{}
		d.G1.Set(pAff, p)
		d.G1.Affine(pAff)
		qAff := &G2Point{}
		d.G2.Set(qAff, q)
		d.G2.Affine(qAff)

		f, ok := d.MillerLoop(&pAff.X, &pAff.Y, &qAff.X, &qAff.Y)
		if !ok {
			return nil, false
		}
		acc.Mul(acc, f)
		any = true
	}
	if !any {
		return d.Fp4.One(), true
	}
	return d.FinalExponentiation(acc)
}
