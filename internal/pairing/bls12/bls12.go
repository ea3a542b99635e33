// Package bls12 implements the optimal ate pairing for the BLS12 curve
// family (embedding degree 12, sextic twist), per spec.md §4.6.
//
// The Miller loop here works directly in affine G2 coordinates rather than
// fusing the line-function extraction into the Jacobian doubling/addition
// formulas real high-performance implementations use: an affine doubling or
// addition step costs one extra Fp2 inversion per loop iteration, but its
// algebra is the textbook elliptic-curve tangent/chord construction and is
// verifiable by direct derivation, where the fused Jacobian formula is a
// performance-only optimization this implementation does not attempt to
// transcribe from memory. Every failing Fp2 inversion (a degenerate input
// point) surfaces as the pairing's own "no value" result, consistent with
// spec.md §4.9's general interior-failure contract.
package bls12

import (
	"github.com/drand/pairing/internal/curve"
	"github.com/drand/pairing/internal/field"
	"github.com/drand/pairing/internal/limbs"
	"github.com/drand/pairing/internal/pairingutil"
	"github.com/drand/pairing/internal/tower"
	"math/big"
)

// G1Point and G2Point are the Jacobian point types the pairing operates on.
type G1Point = curve.Point[field.Element, *field.Element]
type G2Point = curve.Point[tower.Fp2, *tower.Fp2]

// Descriptor holds every precomputed constant a BLS12-family pairing needs:
// the field/tower descriptors, the two group descriptors, the signed loop
// parameter x, and the final exponentiation hard-part target exponent.
type Descriptor struct {
	Fp   *field.Descriptor
	Fp2  *tower.DescriptorFp2
	Fp6  *tower.DescriptorFp6From2
	Fp12 *tower.DescriptorFp12
	G1   *curve.Descriptor[field.Element, *field.Element]
	G2   *curve.Descriptor[tower.Fp2, *tower.Fp2]

	X         []uint64 // |x|, the BLS loop parameter's magnitude
	XNegative bool
	Twist     pairingutil.Twist // D or M, selects the Miller loop's sparse embedding
	HardExp   []uint64          // (p^4 - p^2 + 1) / r, the final exponentiation hard part
}

// NewDescriptor builds a BLS12 pairing descriptor. x is the signed BLS loop
// parameter (e.g. -0xd201000000010000 for BLS12-381); order is the prime
// subgroup order r shared by G1, G2 and GT; twist is the curve's sextic
// twist kind (spec.md §4.6 step 1 — BLS12-381 is M, BLS12-377 is D).
func NewDescriptor(
	fp *field.Descriptor, fp2 *tower.DescriptorFp2, fp6 *tower.DescriptorFp6From2, fp12 *tower.DescriptorFp12,
	g1 *curve.Descriptor[field.Element, *field.Element], g2 *curve.Descriptor[tower.Fp2, *tower.Fp2],
	order []uint64, x *big.Int, twist pairingutil.Twist,
) *Descriptor {
	xAbs, xNeg := pairingutil.Abs(x)
	easy := new(big.Int).Mul(
		new(big.Int).Sub(new(big.Int).Exp(pairingutil.LimbsToBig(fp.Modulus), big.NewInt(6), nil), big.NewInt(1)),
		new(big.Int).Add(new(big.Int).Exp(pairingutil.LimbsToBig(fp.Modulus), big.NewInt(2), nil), big.NewInt(1)),
	)
	hard := pairingutil.HardExponent(fp.Modulus, 12, order, easy)
	return &Descriptor{
		Fp: fp, Fp2: fp2, Fp6: fp6, Fp12: fp12,
		G1: g1, G2: g2,
		X: xAbs, XNegative: xNeg, Twist: twist, HardExp: hard,
	}
}

func fp2FromFp(d *tower.DescriptorFp2, x *field.Element) *tower.Fp2 {
	z := d.Zero()
	z.C0.Set(x)
	return z
}

// sparseLine holds the three nonzero Fp2 coefficients of a Miller-loop line
// function: c0 from P's y-coordinate, cMid from P's x-coordinate scaled by
// the tangent/chord slope, c4 from R's coordinates. Which Fp12 slot cMid
// lands in depends on the curve's twist (see absorb).
type sparseLine struct {
	c0, cMid, c4 *tower.Fp2
}

// absorb multiplies f by line, selecting the sparse embedding spec.md §4.6
// step 1 assigns to this curve's twist: D-twist lines are c0+c1*w+c4*w^4
// (tower.Fp12.MulBy014); M-twist lines are c0+c3*w^3+c4*w^4
// (tower.Fp12.MulBy034).
func (d *Descriptor) absorb(f *tower.Fp12, line sparseLine) {
	switch d.Twist {
	case pairingutil.TwistD:
		f.MulBy014(f, line.c0, line.cMid, line.c4)
	default:
		f.MulBy034(f, line.c0, line.cMid, line.c4)
	}
}

// doublingLine computes the tangent line at (rx,ry) evaluated at (px,py),
// and advances (rx,ry) to 2*(rx,ry) in place (affine doubling). Returns
// false if ry is zero (a 2-torsion point, undefined tangent slope).
func (d *Descriptor) doublingLine(rx, ry *tower.Fp2, px, py *field.Element) (sparseLine, bool) {
	two := ry.D.Zero().Double(ry)
	twoInv := ry.D.Zero()
	if !twoInv.Inverse(two) {
		return sparseLine{}, false
	}
	rxSq := ry.D.Zero().Square(rx)
	three := ry.D.Zero().Double(rxSq)
	three.Add(three, rxSq)
	lambda := ry.D.Zero().Mul(three, twoInv)

	c0 := fp2FromFp(d.Fp2, py)
	cMid := d.Fp2.Zero().MulByFp(lambda, px)
	cMid.Neg(cMid)
	c4 := d.Fp2.Zero().Mul(lambda, rx)
	c4.Sub(c4, ry)

	lambdaSq := d.Fp2.Zero().Square(lambda)
	rxNew := d.Fp2.Zero().Double(rx)
	rxNew.Sub(lambdaSq, rxNew)
	ryNew := d.Fp2.Zero().Sub(rx, rxNew)
	ryNew.Mul(ryNew, lambda)
	ryNew.Sub(ryNew, ry)

	rx.Set(rxNew)
	ry.Set(ryNew)
	return sparseLine{c0, cMid, c4}, true
}

// additionLine computes the chord line through (rx,ry) and (qx,qy)
// evaluated at (px,py), and advances (rx,ry) to (rx,ry)+(qx,qy) in place.
// Returns false if the two points share an x-coordinate (undefined slope).
func (d *Descriptor) additionLine(rx, ry *tower.Fp2, qx, qy *tower.Fp2, px, py *field.Element) (sparseLine, bool) {
	denom := d.Fp2.Zero().Sub(qx, rx)
	denomInv := d.Fp2.Zero()
	if !denomInv.Inverse(denom) {
		return sparseLine{}, false
	}
	numer := d.Fp2.Zero().Sub(qy, ry)
	lambda := d.Fp2.Zero().Mul(numer, denomInv)

	c0 := fp2FromFp(d.Fp2, py)
	cMid := d.Fp2.Zero().MulByFp(lambda, px)
	cMid.Neg(cMid)
	c4 := d.Fp2.Zero().Mul(lambda, rx)
	c4.Sub(c4, ry)

	lambdaSq := d.Fp2.Zero().Square(lambda)
	rxNew := d.Fp2.Zero().Add(rx, qx)
	rxNew.Sub(lambdaSq, rxNew)
	ryNew := d.Fp2.Zero().Sub(rx, rxNew)
	ryNew.Mul(ryNew, lambda)
	ryNew.Sub(ryNew, ry)

	rx.Set(rxNew)
	ry.Set(ryNew)
	return sparseLine{c0, cMid, c4}, true
}

// MillerLoop runs the BLS12 Miller loop for one (P, Q) pair, both already
// affine. Returns false ("no value") if a degenerate intermediate point
// makes a line function undefined.
func (d *Descriptor) MillerLoop(px, py *field.Element, qx, qy *tower.Fp2) (*tower.Fp12, bool) {
	f := d.Fp12.One()
	rx := d.Fp2.Zero().Set(qx)
	ry := d.Fp2.Zero().Set(qy)

	bitLen := limbs.BitLen(d.X)
	for i := bitLen - 2; i >= 0; i-- {
		line, ok := d.doublingLine(rx, ry, px, py)
		if !ok {
			return nil, false
		}
		f.Square(f)
		d.absorb(f, line)

		if limbs.Bit(d.X, i) {
			line, ok := d.additionLine(rx, ry, qx, qy, px, py)
			if !ok {
				return nil, false
			}
			d.absorb(f, line)
		}
	}
	if d.XNegative {
		f.Conjugate(f)
	}
	return f, true
}

// FinalExponentiation raises f to (p^12-1)/r via the easy part
// (f^((p^6-1)(p^2+1)), implemented directly with one conjugation, one
// inversion and two Frobenius maps) followed by the hard part (a single
// Pow call against the precomputed HardExp, mathematically equivalent to
// the Fuentes-Castañeda addition chain spec.md §4.6 names but without its
// optimized cyclotomic-squaring operation count). Returns false if f is not
// invertible.
func (d *Descriptor) FinalExponentiation(f *tower.Fp12) (*tower.Fp12, bool) {
	finv := d.Fp12.Zero()
	if !finv.Inverse(f) {
		return nil, false
	}
	f1 := d.Fp12.Zero().Conjugate(f)
	f1.Mul(f1, finv)
	f2 := d.Fp12.Zero().Frobenius(f1, 2)
	f2.Mul(f2, f1)
	result := d.Fp12.Zero().Pow(f2, d.HardExp)
	return result, true
}

// Pair computes e(P, Q) for one G1/G2 pair, normalizing both to affine
// first.
func (d *Descriptor) Pair(p *G1Point, q *G2Point) (*tower.Fp12, bool) {
	return d.MultiPair([]*G1Point{p}, []*G2Point{q})
}

// MultiPair implements the spec.md §4.9 pair() contract for this family:
// mismatched slice lengths return "no value"; identity pairs are filtered
// out before the Miller loop runs (if every pair is filtered, the target
// group's multiplicative identity is returned directly); each surviving
// pair is normalized to affine, run through one Miller loop, and the
// per-pair results are multiplied together before a single shared final
// exponentiation.
func (d *Descriptor) MultiPair(ps []*G1Point, qs []*G2Point) (*tower.Fp12, bool) {
	if len(ps) != len(qs) {
		return nil, false
	}
	acc := d.Fp12.One()
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
		return d.Fp12.One(), true
	}
	return d.FinalExponentiation(acc)
}
