// Package field implements Montgomery-form arithmetic over a prime field
// Fp whose modulus width (in 64-bit limbs) is a runtime parameter, per
// spec.md §4.2. It is grounded on the vendored github.com/drand/bls12-381
// fe/fp API shape (pointer-receiver, in-place, chainable methods,
// IsZero/IsOne/Equal/Cmp helpers) generalized from a fixed 6-limb field to
// the limbs.N-limb engine in internal/limbs.
package field

import (
	"math/big"

	"github.com/drand/pairing/internal/limbs"
)

// Descriptor is an immutable record for one prime field: the modulus, its
// Montgomery radix constants, and the CIOS reduction constant. Constructed
// once per request and shared by every Element built from it (spec.md §3).
type Descriptor struct {
	N       int      // limb width
	Modulus []uint64 // p, N limbs, little-endian
	R       []uint64 // R mod p, R = 2^(64N)
	R2      []uint64 // R^2 mod p
	MontInv uint64   // -p^-1 mod 2^64
	BitLen  int      // bit-length of the Montgomery power, 64*N
}

// NewDescriptor builds a Descriptor from a little-endian modulus limb
// slice. It enforces the FieldDescriptor invariant of spec.md §3: p is odd,
// p >= 3, and the top bit of the top limb is zero (so unreduced additions
// never carry past N limbs).
func NewDescriptor(modulus []uint64) (*Descriptor, bool) {
	n := len(modulus)
	if n == 0 {
		return nil, false
	}
	if modulus[0]&1 == 0 {
		return nil, false // p must be odd
	}
	top := modulus[n-1]
	if top&(1<<63) != 0 {
		return nil, false // margin invariant
	}
	p := limbsToBig(modulus)
	if p.Cmp(big.NewInt(3)) < 0 {
		return nil, false
	}

	r := new(big.Int).Lsh(big.NewInt(1), uint(64*n))
	rModP := new(big.Int).Mod(r, p)
	r2ModP := new(big.Int).Mod(new(big.Int).Mul(rModP, rModP), p)

	d := &Descriptor{
		N:       n,
		Modulus: append([]uint64(nil), modulus...),
		R:       bigToLimbs(rModP, n),
		R2:      bigToLimbs(r2ModP, n),
		MontInv: montInvWord(modulus[0]),
		BitLen:  64 * n,
	}
	return d, true
}

// montInvWord computes -p0^-1 mod 2^64 by Newton-Raphson iteration over the
// 64-bit ring, doubling the number of correct bits each round.
func montInvWord(p0 uint64) uint64 {
	x := uint64(1)
	for i := 0; i < 6; i++ {
		x = x * (2 - p0*x)
	}
	return -x
}

func limbsToBig(x []uint64) *big.Int {
	n := new(big.Int)
	tmp := new(big.Int)
	for i := len(x) - 1; i >= 0; i-- {
		n.Lsh(n, 64)
		tmp.SetUint64(x[i])
		n.Or(n, tmp)
	}
	return n
}

func bigToLimbs(x *big.Int, n int) []uint64 {
	out := make([]uint64, n)
	bz := x.Bytes()
	for i, b := range bz {
		idx := len(bz) - 1 - i
		if idx/8 >= n {
			continue
		}
		out[idx/8] |= uint64(b) << uint((idx%8)*8)
	}
	return out
}

// Zero returns a new zero Element for this field.
func (d *Descriptor) Zero() *Element {
	return &Element{limbs: make([]uint64, d.N), d: d}
}

// One returns a new Element holding the Montgomery form of 1.
func (d *Descriptor) One() *Element {
	e := d.Zero()
	copy(e.limbs, d.R)
	return e
}

// Element is the Montgomery-form representation a*R mod p together with a
// borrowed reference to its Descriptor (spec.md §3). The zero value is not
// usable; construct via Descriptor.Zero/One or FromBEBytes.
type Element struct {
	limbs []uint64
	d     *Descriptor
}

// Descriptor returns the field this element belongs to.
func (z *Element) Descriptor() *Descriptor { return z.d }

// Set copies x into z and returns z.
func (z *Element) Set(x *Element) *Element {
	z.d = x.d
	if z.limbs == nil {
		z.limbs = make([]uint64, x.d.N)
	}
	copy(z.limbs, x.limbs)
	return z
}

// SetUint64 sets z to the Montgomery encoding of the small plain integer v.
func (z *Element) SetUint64(d *Descriptor, v uint64) *Element {
	plain := make([]uint64, d.N)
	plain[0] = v
	z.d = d
	z.limbs = make([]uint64, d.N)
	limbs.MontMul(z.limbs, plain, d.R2, d.Modulus, d.MontInv)
	return z
}

// FromBEBytes decodes a big-endian byte string into an Element. When pad is
// true, inputs shorter than the modulus byte length are left-zero-padded;
// otherwise the length must match exactly. Fails (ok=false) if the encoded
// integer is >= p, per spec.md §4.2.
func FromBEBytes(d *Descriptor, data []byte, pad bool) (z *Element, ok bool) {
	byteLen := d.N * 8
	if len(data) > byteLen {
		return nil, false
	}
	if !pad && len(data) != byteLen {
		return nil, false
	}
	padded := make([]byte, byteLen)
	copy(padded[byteLen-len(data):], data)

	plain := make([]uint64, d.N)
	for i := 0; i < d.N; i++ {
		a := byteLen - i*8
		plain[i] = uint64(padded[a-1]) | uint64(padded[a-2])<<8 |
			uint64(padded[a-3])<<16 | uint64(padded[a-4])<<24 |
			uint64(padded[a-5])<<32 | uint64(padded[a-6])<<40 |
			uint64(padded[a-7])<<48 | uint64(padded[a-8])<<56
	}
	if limbs.Cmp(plain, d.Modulus) >= 0 {
		return nil, false
	}
	e := d.Zero()
	limbs.MontMul(e.limbs, plain, d.R2, d.Modulus, d.MontInv)
	return e, true
}

// IntoRepr converts out of Montgomery form, returning the plain integer as
// N little-endian limbs.
func (z *Element) IntoRepr() []uint64 {
	one := make([]uint64, z.d.N)
	one[0] = 1
	out := make([]uint64, z.d.N)
	limbs.MontMul(out, z.limbs, one, z.d.Modulus, z.d.MontInv)
	return out
}

// Bytes encodes z as big-endian bytes, byte length 8*N.
func (z *Element) Bytes() []byte {
	repr := z.IntoRepr()
	byteLen := z.d.N * 8
	out := make([]byte, byteLen)
	for i := 0; i < z.d.N; i++ {
		a := byteLen - i*8
		w := repr[i]
		out[a-1] = byte(w)
		out[a-2] = byte(w >> 8)
		out[a-3] = byte(w >> 16)
		out[a-4] = byte(w >> 24)
		out[a-5] = byte(w >> 32)
		out[a-6] = byte(w >> 40)
		out[a-7] = byte(w >> 48)
		out[a-8] = byte(w >> 56)
	}
	return out
}

// Add sets z = x + y: add limbs then conditionally subtract p once.
func (z *Element) Add(x, y *Element) *Element {
	z.ensure(x.d)
	limbs.AddNoCarry(z.limbs, x.limbs, y.limbs)
	if limbs.Cmp(z.limbs, x.d.Modulus) >= 0 {
		limbs.SubNoBorrow(z.limbs, z.limbs, x.d.Modulus)
	}
	return z
}

// Double sets z = 2x using the same add-then-conditionally-subtract shape.
func (z *Element) Double(x *Element) *Element {
	return z.Add(x, x)
}

// Sub sets z = x - y: conditionally add p once before subtracting.
func (z *Element) Sub(x, y *Element) *Element {
	z.ensure(x.d)
	if limbs.Cmp(x.limbs, y.limbs) < 0 {
		tmp := make([]uint64, x.d.N)
		limbs.AddNoCarry(tmp, x.limbs, x.d.Modulus)
		limbs.SubNoBorrow(z.limbs, tmp, y.limbs)
		return z
	}
	limbs.SubNoBorrow(z.limbs, x.limbs, y.limbs)
	return z
}

// Neg sets z = -x = p - x, or zero when x is zero.
func (z *Element) Neg(x *Element) *Element {
	z.ensure(x.d)
	if limbs.IsZero(x.limbs) {
		for i := range z.limbs {
			z.limbs[i] = 0
		}
		return z
	}
	limbs.SubNoBorrow(z.limbs, x.d.Modulus, x.limbs)
	return z
}

// Mul sets z = x*y via CIOS Montgomery multiplication.
func (z *Element) Mul(x, y *Element) *Element {
	z.ensure(x.d)
	limbs.MontMul(z.limbs, x.limbs, y.limbs, x.d.Modulus, x.d.MontInv)
	return z
}

// Square sets z = x*x.
func (z *Element) Square(x *Element) *Element {
	z.ensure(x.d)
	limbs.MontSqr(z.limbs, x.limbs, x.d.Modulus, x.d.MontInv)
	return z
}

func (z *Element) ensure(d *Descriptor) {
	z.d = d
	if z.limbs == nil || len(z.limbs) != d.N {
		z.limbs = make([]uint64, d.N)
	}
}

// Pow sets z = x^exp using left-to-right square-and-multiply driven by an
// MSB-first bit iterator over exp's limbs. exp == 0 yields one.
func (z *Element) Pow(x *Element, exp []uint64) *Element {
	bitLen := limbs.BitLen(exp)
	if bitLen == 0 {
		return z.Set(x.d.One())
	}
	acc := x.d.One()
	for i := bitLen - 1; i >= 0; i-- {
		acc.Square(acc)
		if limbs.Bit(exp, i) {
			acc.Mul(acc, x)
		}
	}
	return z.Set(acc)
}

// Inverse sets z = x^-1 using the binary extended-Euclidean ("new
// Montgomery inverse") variant of HAC Algorithm 14.61, bounded to
// 2*BitLen iterations per spec.md §4.2/§5/§9. Returns ok=false ("no
// value") if x is zero or the bound is exhausted (composite-modulus path).
func (z *Element) Inverse(x *Element) (ok bool) {
	d := x.d
	if limbs.IsZero(x.limbs) {
		return false
	}
	n := d.N
	u := append([]uint64(nil), x.IntoRepr()...)
	v := append([]uint64(nil), d.Modulus...)
	b := make([]uint64, n) // keeps b*x == u (mod p), HAC's x1
	c := make([]uint64, n) // keeps c*x == v (mod p), HAC's x2
	b[0] = 1

	maxIter := 2 * d.BitLen
	for i := 0; i < maxIter; i++ {
		if isOneVec(u) {
			z.ensure(d)
			limbs.MontMul(z.limbs, b, d.R2, d.Modulus, d.MontInv)
			return true
		}
		if isOneVec(v) {
			z.ensure(d)
			limbs.MontMul(z.limbs, c, d.R2, d.Modulus, d.MontInv)
			return true
		}
		if limbs.IsZero(u) {
			return false // gcd(x, p) > 1: composite modulus
		}
		for u[0]&1 == 0 {
			limbs.Div2(u, 0)
			halveModP(b, d)
		}
		for v[0]&1 == 0 {
			limbs.Div2(v, 0)
			halveModP(c, d)
		}
		if limbs.Cmp(u, v) >= 0 {
			limbs.SubNoBorrow(u, u, v)
			subModP(b, b, c, d)
		} else {
			limbs.SubNoBorrow(v, v, u)
			subModP(c, c, b, d)
		}
	}
	return false
}

// halveModP halves a residue r in [0,p) in place, adding p first when r is
// odd. r+p always fits in N limbs by the FieldDescriptor margin invariant.
func halveModP(r []uint64, d *Descriptor) {
	if r[0]&1 == 0 {
		limbs.Div2(r, 0)
		return
	}
	carry := limbs.AddNoCarry(r, r, d.Modulus)
	limbs.Div2(r, carry)
}

// subModP computes z = x - y mod p for residues already in [0,p).
func subModP(z, x, y []uint64, d *Descriptor) {
	if limbs.Cmp(x, y) < 0 {
		tmp := make([]uint64, d.N)
		limbs.AddNoCarry(tmp, x, d.Modulus)
		limbs.SubNoBorrow(z, tmp, y)
		return
	}
	limbs.SubNoBorrow(z, x, y)
}

func isOneVec(v []uint64) bool {
	if v[0] != 1 {
		return false
	}
	for i := 1; i < len(v); i++ {
		if v[i] != 0 {
			return false
		}
	}
	return true
}

// IsZero reports whether z represents the additive identity.
func (z *Element) IsZero() bool { return limbs.IsZero(z.limbs) }

// IsOne reports whether z represents the multiplicative identity.
func (z *Element) IsOne() bool { return limbs.Cmp(z.limbs, z.d.R) == 0 }

// Equal reports whether z and x represent the same field element.
func (z *Element) Equal(x *Element) bool { return limbs.Cmp(z.limbs, x.limbs) == 0 }

// Limbs exposes the raw Montgomery-form limbs (read-only use expected);
// extension towers built on top of Fp read this directly.
func (z *Element) Limbs() []uint64 { return z.limbs }
