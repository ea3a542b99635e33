// Package engine is the in-memory dispatch layer spec.md §6's opcode table
// describes in the abstract: given a curve family and a set of already
// Go-typed points and scalars, it validates inputs, delegates to
// internal/curve/internal/msm for group arithmetic and to the four
// internal/pairing/* engines for pairings; Engine.Pair also records each
// call's outcome via internal/metrics. This is the API an (out-of-scope) byte-oriented
// dispatcher would sit in front of; SPEC_FULL.md §4.10 names it directly so
// the engine is independently usable as a library without one.
package engine

import (
	"sync/atomic"
	"time"

	"github.com/drand/pairing/internal/apierrors"
	"github.com/drand/pairing/internal/curve"
	"github.com/drand/pairing/internal/field"
	"github.com/drand/pairing/internal/log"
	"github.com/drand/pairing/internal/metrics"
	"github.com/drand/pairing/internal/msm"
	"github.com/drand/pairing/internal/pairing/bls12"
	"github.com/drand/pairing/internal/pairing/bn"
	"github.com/drand/pairing/internal/pairing/mnt4"
	"github.com/drand/pairing/internal/pairing/mnt6"
	"github.com/drand/pairing/internal/tower"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Family identifies which of the four curve families an Engine wraps.
type Family int

const (
	FamilyBLS12 Family = iota
	FamilyBN
	FamilyMNT4
	FamilyMNT6
)

func (f Family) String() string {
	switch f {
	case FamilyBLS12:
		return "bls12"
	case FamilyBN:
		return "bn"
	case FamilyMNT4:
		return "mnt4"
	case FamilyMNT6:
		return "mnt6"
	default:
		return "unknown"
	}
}

// Engine binds one curve family's precomputed Descriptor to a logger. Only
// the field matching Family is non-nil.
type Engine struct {
	Family Family
	BLS12  *bls12.Descriptor
	BN     *bn.Descriptor
	MNT4   *mnt4.Descriptor
	MNT6   *mnt6.Descriptor
	Log    log.Logger
}

// NewBLS12Engine, NewBNEngine, NewMNT4Engine and NewMNT6Engine wrap an
// already-built family Descriptor into an Engine, defaulting Log to
// log.DefaultLogger() when l is nil.
func NewBLS12Engine(d *bls12.Descriptor, l log.Logger) *Engine {
	return &Engine{Family: FamilyBLS12, BLS12: d, Log: orDefault(l)}
}

func NewBNEngine(d *bn.Descriptor, l log.Logger) *Engine {
	return &Engine{Family: FamilyBN, BN: d, Log: orDefault(l)}
}

func NewMNT4Engine(d *mnt4.Descriptor, l log.Logger) *Engine {
	return &Engine{Family: FamilyMNT4, MNT4: d, Log: orDefault(l)}
}

func NewMNT6Engine(d *mnt6.Descriptor, l log.Logger) *Engine {
	return &Engine{Family: FamilyMNT6, MNT6: d, Log: orDefault(l)}
}

func orDefault(l log.Logger) log.Logger {
	if l == nil {
		return log.DefaultLogger()
	}
	return l
}

// RequestID mints a correlation ID for threading through logs and metrics
// across one engine call, per SPEC_FULL.md §2.2's uuid entry.
func RequestID() string {
	return uuid.New().String()
}

// GasMeteringMode toggles whether callers should account group operations
// against a gas budget, the process-wide flag SPEC_FULL.md §5 names; this
// package only exposes the flag; accounting itself is a caller concern.
var GasMeteringMode atomic.Bool

// G1Point is the Jacobian point type shared by every family's G1 group.
type G1Point = curve.Point[field.Element, *field.Element]

// validatePoint checks p lies on the curve and in its prime-order subgroup,
// reporting both failures as an apierrors.InputError.
func validatePoint[T any, PT curve.Elem[T]](c *curve.Descriptor[T, PT], p *curve.Point[T, PT], label string) error {
	if c.IsZero(p) {
		return nil
	}
	if !c.IsOnCurve(p) {
		return apierrors.New(apierrors.InputError, label+" is not on the curve")
	}
	if !c.IsInSubgroup(p) {
		return apierrors.New(apierrors.InputError, label+" is not in the prime-order subgroup")
	}
	return nil
}

// add validates p and q, then returns p+q.
func add[T any, PT curve.Elem[T]](c *curve.Descriptor[T, PT], p, q *curve.Point[T, PT]) (*curve.Point[T, PT], error) {
	if err := validatePoint(c, p, "first operand"); err != nil {
		return nil, err
	}
	if err := validatePoint(c, q, "second operand"); err != nil {
		return nil, err
	}
	r := &curve.Point[T, PT]{}
	c.Add(r, p, q)
	return r, nil
}

// mulScalar validates p, then returns scalar*p.
func mulScalar[T any, PT curve.Elem[T]](c *curve.Descriptor[T, PT], p *curve.Point[T, PT], scalar []uint64) (*curve.Point[T, PT], error) {
	if err := validatePoint(c, p, "operand"); err != nil {
		return nil, err
	}
	r := &curve.Point[T, PT]{}
	c.Mul(r, p, scalar)
	return r, nil
}

// multiExp validates every point in ps, aggregating every failure with
// hashicorp/go-multierror rather than stopping at the first bad point (a
// batch caller wants to know everything wrong with its input at once), then
// computes the Pippenger multi-scalar-multiplication of the survivors.
func multiExp[T any, PT curve.Elem[T]](c *curve.Descriptor[T, PT], ps []*curve.Point[T, PT], scalars [][]uint64) (*curve.Point[T, PT], error) {
	if len(ps) != len(scalars) {
		return nil, apierrors.New(apierrors.InputError, "point and scalar counts differ")
	}
	var result *multierror.Error
	for _, p := range ps {
		if err := validatePoint(c, p, "operand"); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return msm.MultiExp(c, ps, scalars), nil
}

// G1Add, G1Mul and G1MultiExp are the SPEC_FULL.md §4.10 G1 group
// operations, shared by all four families since their G1 is always
// Jacobian points over the base field.
func G1Add(c *curve.Descriptor[field.Element, *field.Element], p, q *G1Point) (*G1Point, error) {
	return add(c, p, q)
}

func G1Mul(c *curve.Descriptor[field.Element, *field.Element], p *G1Point, scalar []uint64) (*G1Point, error) {
	return mulScalar(c, p, scalar)
}

func G1MultiExp(c *curve.Descriptor[field.Element, *field.Element], ps []*G1Point, scalars [][]uint64) (*G1Point, error) {
	return multiExp(c, ps, scalars)
}

// G2Add, G2Mul and G2MultiExp are the SPEC_FULL.md §4.10 G2 group
// operations. They are generic over the tower type G2 is built from
// (tower.Fp2 for bls12/bn/mnt4, tower.Fp3 for mnt6) so one implementation
// covers every family's G2, matching how internal/curve itself is already
// generic over the coefficient field.
func G2Add[T any, PT curve.Elem[T]](c *curve.Descriptor[T, PT], p, q *curve.Point[T, PT]) (*curve.Point[T, PT], error) {
	return add(c, p, q)
}

func G2Mul[T any, PT curve.Elem[T]](c *curve.Descriptor[T, PT], p *curve.Point[T, PT], scalar []uint64) (*curve.Point[T, PT], error) {
	return mulScalar(c, p, scalar)
}

func G2MultiExp[T any, PT curve.Elem[T]](c *curve.Descriptor[T, PT], ps []*curve.Point[T, PT], scalars [][]uint64) (*curve.Point[T, PT], error) {
	return multiExp(c, ps, scalars)
}

// PairBLS12, PairBN, PairMNT4 and PairMNT6 validate both operands of a
// single-pair pairing call, then delegate to the family's MillerLoop-based
// Pair and map a "no value" result to a DivisionByZero apierrors.Error: in
// every family here, the only way MultiPair (and the Pair it wraps) fails
// on well-formed inputs is a non-invertible intermediate field element.
func PairBLS12(d *bls12.Descriptor, p *bls12.G1Point, q *bls12.G2Point) (*tower.Fp12, error) {
	if err := validatePoint(d.G1, p, "G1 operand"); err != nil {
		return nil, err
	}
	if err := validatePoint(d.G2, q, "G2 operand"); err != nil {
		return nil, err
	}
	f, ok := d.Pair(p, q)
	if !ok {
		return nil, apierrors.New(apierrors.DivisionByZero, "pairing encountered a non-invertible intermediate value")
	}
	return f, nil
}

func PairBN(d *bn.Descriptor, p *bn.G1Point, q *bn.G2Point) (*tower.Fp12, error) {
	if err := validatePoint(d.G1, p, "G1 operand"); err != nil {
		return nil, err
	}
	if err := validatePoint(d.G2, q, "G2 operand"); err != nil {
		return nil, err
	}
	f, ok := d.Pair(p, q)
	if !ok {
		return nil, apierrors.New(apierrors.DivisionByZero, "pairing encountered a non-invertible intermediate value")
	}
	return f, nil
}

func PairMNT4(d *mnt4.Descriptor, p *mnt4.G1Point, q *mnt4.G2Point) (*tower.Fp4, error) {
	if err := validatePoint(d.G1, p, "G1 operand"); err != nil {
		return nil, err
	}
	if err := validatePoint(d.G2, q, "G2 operand"); err != nil {
		return nil, err
	}
	f, ok := d.Pair(p, q)
	if !ok {
		return nil, apierrors.New(apierrors.DivisionByZero, "pairing encountered a non-invertible intermediate value")
	}
	return f, nil
}

func PairMNT6(d *mnt6.Descriptor, p *mnt6.G1Point, q *mnt6.G2Point) (*tower.Fp6From3, error) {
	if err := validatePoint(d.G1, p, "G1 operand"); err != nil {
		return nil, err
	}
	if err := validatePoint(d.G2, q, "G2 operand"); err != nil {
		return nil, err
	}
	f, ok := d.Pair(p, q)
	if !ok {
		return nil, apierrors.New(apierrors.DivisionByZero, "pairing encountered a non-invertible intermediate value")
	}
	return f, nil
}

// Pair dispatches to the family-specific Pair function matching e.Family,
// recording the call's latency and outcome via internal/metrics. The
// concrete return type depends on e.Family: *tower.Fp12 for FamilyBLS12 and
// FamilyBN, *tower.Fp4 for FamilyMNT4, *tower.Fp6From3 for FamilyMNT6. A
// caller that already knows its engine's family should prefer calling
// PairBLS12/PairBN/PairMNT4/PairMNT6 directly and skip the type assertion.
func (e *Engine) Pair(reqID string, p1 *G1Point, g2 interface{}) (interface{}, error) {
	start := time.Now()
	var out interface{}
	var err error
	switch e.Family {
	case FamilyBLS12:
		q, ok := g2.(*bls12.G2Point)
		if !ok {
			return nil, apierrors.New(apierrors.UnknownParameter, "G2 operand type does not match engine family")
		}
		out, err = PairBLS12(e.BLS12, p1, q)
	case FamilyBN:
		q, ok := g2.(*bn.G2Point)
		if !ok {
			return nil, apierrors.New(apierrors.UnknownParameter, "G2 operand type does not match engine family")
		}
		out, err = PairBN(e.BN, p1, q)
	case FamilyMNT4:
		q, ok := g2.(*mnt4.G2Point)
		if !ok {
			return nil, apierrors.New(apierrors.UnknownParameter, "G2 operand type does not match engine family")
		}
		out, err = PairMNT4(e.MNT4, p1, q)
	case FamilyMNT6:
		q, ok := g2.(*mnt6.G2Point)
		if !ok {
			return nil, apierrors.New(apierrors.UnknownParameter, "G2 operand type does not match engine family")
		}
		out, err = PairMNT6(e.MNT6, p1, q)
	default:
		return nil, apierrors.New(apierrors.UnknownParameter, "unrecognized curve family")
	}

	e.recordPair(reqID, "pair", 1, time.Since(start).Seconds(), err)
	return out, err
}

func (e *Engine) recordPair(reqID, opcode string, n int, seconds float64, err error) {
	kind := ""
	if apiErr, ok := err.(*apierrors.Error); ok {
		kind = apiErr.Kind.String()
	}
	metrics.RecordOperation(e.Family.String(), opcode, seconds, kind)
	metrics.RecordPairCount(e.Family.String(), n)
	e.Log.Debugw("pair", "request_id", reqID, "family", e.Family.String(), "err", err)
}
