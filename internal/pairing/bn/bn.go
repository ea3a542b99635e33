// Package bn implements the optimal ate pairing for the BN curve family
// (embedding degree 12, sextic twist, loop parameter 6u+2), per spec.md
// §4.7.
//
// Shares its affine-coordinate Miller loop strategy with internal/pairing/
// bls12 (see that package's doc comment for why): the line function is
// derived directly from the textbook tangent/chord construction rather than
// a fused Jacobian doubling formula, trading a per-iteration Fp2 inversion
// for a formula this implementation can verify by derivation instead of
// transcribe from memory.
package bn

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

// Descriptor holds the precomputed constants a BN pairing needs: the field/
// tower descriptors, the two group descriptors, the |6u+2| loop parameter,
// the two twist-correction coefficient pairs used after the main loop, and
// the final exponentiation hard-part target exponent.
type Descriptor struct {
	Fp   *field.Descriptor
	Fp2  *tower.DescriptorFp2
	Fp6  *tower.DescriptorFp6From2
	Fp12 *tower.DescriptorFp12
	G1   *curve.Descriptor[field.Element, *field.Element]
	G2   *curve.Descriptor[tower.Fp2, *tower.Fp2]

	Loop    []uint64 // |6u+2|
	LoopNeg bool
	Gamma11 *tower.Fp2 // xi^((p-1)/3), x-coordinate correction for Q1 = pi(Q)
	Gamma12 *tower.Fp2 // xi^((p-1)/2), y-coordinate correction for Q1
	Gamma21 *tower.Fp2 // xi^((p^2-1)/3), x-coordinate correction for Q2 = -pi^2(Q)
	Gamma22 *tower.Fp2 // xi^((p^2-1)/2), y-coordinate correction for Q2
	Twist   pairingutil.Twist // D or M, selects the Miller loop's sparse embedding
	HardExp []uint64          // (p^4 - p^2 + 1) / r
}

// NewDescriptor builds a BN pairing descriptor. u is the signed BN loop
// parameter; order is the prime subgroup order r; twist is the curve's
// sextic twist kind (spec.md §4.7 — BN254 is D).
func NewDescriptor(
	fp *field.Descriptor, fp2 *tower.DescriptorFp2, fp6 *tower.DescriptorFp6From2, fp12 *tower.DescriptorFp12,
	g1 *curve.Descriptor[field.Element, *field.Element], g2 *curve.Descriptor[tower.Fp2, *tower.Fp2],
	order []uint64, u *big.Int, twist pairingutil.Twist,
) *Descriptor {
	six := new(big.Int).Mul(u, big.NewInt(6))
	loopVal := new(big.Int).Add(six, big.NewInt(2))
	loop, loopNeg := pairingutil.Abs(loopVal)

	p := pairingutil.LimbsToBig(fp.Modulus)
	pm1 := new(big.Int).Sub(p, big.NewInt(1))
	p2m1 := new(big.Int).Sub(new(big.Int).Mul(p, p), big.NewInt(1))

	gamma11 := twistPow(fp6.Xi, exactDiv(pm1, 3))
	gamma12 := twistPow(fp6.Xi, exactDiv(pm1, 2))
	gamma21 := twistPow(fp6.Xi, exactDiv(p2m1, 3))
	gamma22 := twistPow(fp6.Xi, exactDiv(p2m1, 2))

	easy := new(big.Int).Mul(
		new(big.Int).Sub(new(big.Int).Exp(p, big.NewInt(6), nil), big.NewInt(1)),
		new(big.Int).Add(new(big.Int).Exp(p, big.NewInt(2), nil), big.NewInt(1)),
	)
	hard := pairingutil.HardExponent(fp.Modulus, 12, order, easy)

	return &Descriptor{
		Fp: fp, Fp2: fp2, Fp6: fp6, Fp12: fp12,
		G1: g1, G2: g2,
		Loop: loop, LoopNeg: loopNeg,
		Gamma11: gamma11, Gamma12: gamma12, Gamma21: gamma21, Gamma22: gamma22,
		Twist: twist, HardExp: hard,
	}
}

func exactDiv(x *big.Int, k int64) *big.Int {
	q, r := new(big.Int).QuoRem(x, big.NewInt(k), new(big.Int))
	if r.Sign() != 0 {
		panic("bn: twist correction exponent does not divide evenly")
	}
	return q
}

func twistPow(xi *tower.Fp2, exp *big.Int) *tower.Fp2 {
	return xi.D.Zero().Pow(xi, pairingutil.BigToLimbsWide(exp))
}

func fp2FromFp(d *tower.DescriptorFp2, x *field.Element) *tower.Fp2 {
	z := d.Zero()
	z.C0.Set(x)
	return z
}

// sparseLine holds the three nonzero Fp2 coefficients of a Miller-loop line
// function; which Fp12 slot cMid lands in depends on the curve's twist (see
// absorb).
type sparseLine struct {
	c0, cMid, c4 *tower.Fp2
}

// absorb multiplies f by line, selecting the sparse embedding spec.md §4.6
// step 1 (shared by BN's §4.7 pairing) assigns to this curve's twist.
func (d *Descriptor) absorb(f *tower.Fp12, line sparseLine) {
	switch d.Twist {
	case pairingutil.TwistD:
		f.MulBy014(f, line.c0, line.cMid, line.c4)
	default:
		f.MulBy034(f, line.c0, line.cMid, line.c4)
	}
}

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

// twistedFrobenius computes Q1 = pi(Q): apply Frobenius to Q's Fp2
// coordinates, then rescale by the twist correction coefficients so the
// result still lies on the twisted curve E'(Fp2).
func (d *Descriptor) twistedFrobenius(qx, qy *tower.Fp2) (*tower.Fp2, *tower.Fp2) {
	x1 := d.Fp2.Zero().Frobenius(qx, 1)
	x1.Mul(x1, d.Gamma11)
	y1 := d.Fp2.Zero().Frobenius(qy, 1)
	y1.Mul(y1, d.Gamma12)
	return x1, y1
}

// twistedFrobeniusSquaredNeg computes Q2 = -pi^2(Q).
func (d *Descriptor) twistedFrobeniusSquaredNeg(qx, qy *tower.Fp2) (*tower.Fp2, *tower.Fp2) {
	x2 := d.Fp2.Zero().Mul(qx, d.Gamma21)
	y2 := d.Fp2.Zero().Mul(qy, d.Gamma22)
	y2.Neg(y2)
	return x2, y2
}

// MillerLoop runs the BN Miller loop for one (P, Q) pair, both affine,
// followed by the two twist-correction addition steps spec.md §4.7 names.
func (d *Descriptor) MillerLoop(px, py *field.Element, qx, qy *tower.Fp2) (*tower.Fp12, bool) {
	f := d.Fp12.One()
	rx := d.Fp2.Zero().Set(qx)
	ry := d.Fp2.Zero().Set(qy)

	bitLen := limbs.BitLen(d.Loop)
	for i := bitLen - 2; i >= 0; i-- {
		line, ok := d.doublingLine(rx, ry, px, py)
		if !ok {
			return nil, false
		}
		f.Square(f)
		d.absorb(f, line)

		if limbs.Bit(d.Loop, i) {
			line, ok := d.additionLine(rx, ry, qx, qy, px, py)
			if !ok {
				return nil, false
			}
			d.absorb(f, line)
		}
	}
	if d.LoopNeg {
		f.Conjugate(f)
	}

	q1x, q1y := d.twistedFrobenius(qx, qy)
	line, ok := d.additionLine(rx, ry, q1x, q1y, px, py)
	if !ok {
		return nil, false
	}
	d.absorb(f, line)

	q2x, q2y := d.twistedFrobeniusSquaredNeg(qx, qy)
	line, ok = d.additionLine(rx, ry, q2x, q2y, px, py)
	if !ok {
		return nil, false
	}
	d.absorb(f, line)

	return f, true
}

// FinalExponentiation mirrors internal/pairing/bls12's: the easy part is
// implemented directly (conjugation/inverse plus two Frobenius maps), the
// hard part is a single Pow against the precomputed HardExp rather than the
// Devegili-Scott-Dahab addition chain's fused f^u/f^u2/f^u3 decomposition —
// mathematically the same exponent, without that chain's lower operation
// count.
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

// Pair computes e(P, Q) for one G1/G2 pair.
func (d *Descriptor) Pair(p *G1Point, q *G2Point) (*tower.Fp12, bool) {
	return d.MultiPair([]*G1Point{p}, []*G2Point{q})
}

// MultiPair implements the spec.md §4.9 pair() contract for this family, as
// internal/pairing/bls12.Descriptor.MultiPair does.
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
