package msm

import (
	"math/rand"
	"testing"

	"github.com/drand/pairing/internal/curve"
	"github.com/drand/pairing/internal/field"
	"github.com/stretchr/testify/require"
)

func toyCurve(t *testing.T) (*field.Descriptor, *curve.Descriptor[field.Element, *field.Element]) {
	fd, ok := field.NewDescriptor([]uint64{13})
	require.True(t, ok)
	d := &curve.Descriptor[field.Element, *field.Element]{
		A:    *fd.Zero(),
		B:    *fd.Zero().SetUint64(fd, 3),
		Zero: *fd.Zero(),
		One:  *fd.One(),
	}
	return fd, d
}

func toyGenerator(t *testing.T, fd *field.Descriptor, d *curve.Descriptor[field.Element, *field.Element]) *curve.Point[field.Element, *field.Element] {
	x := fd.Zero().SetUint64(fd, 1)
	y := fd.Zero().SetUint64(fd, 2)
	g := d.Generator(x, y)
	require.True(t, d.IsOnCurve(g))
	return g
}

// naiveSum computes the same linear combination by repeated scalar-mul and
// add, the reference spec.md §8 scenario 6 compares Pippenger MSM against.
func naiveSum[T any, PT curve.Elem[T]](d *curve.Descriptor[T, PT], points []*curve.Point[T, PT], scalars [][]uint64) *curve.Point[T, PT] {
	acc := d.ZeroPoint()
	tmp := &curve.Point[T, PT]{}
	for i, p := range points {
		d.Mul(tmp, p, scalars[i])
		d.Add(acc, acc, tmp)
	}
	return acc
}

func TestMultiExpEmptyIsIdentity(t *testing.T) {
	_, d := toyCurve(t)
	r := MultiExp[field.Element, *field.Element](d, nil, nil)
	require.True(t, d.IsZero(r))
}

func TestMultiExpMatchesNaiveSum(t *testing.T) {
	fd, d := toyCurve(t)
	g := toyGenerator(t, fd, d)
	rnd := rand.New(rand.NewSource(5))

	for trial := 0; trial < 10; trial++ {
		n := 1 + rnd.Intn(40)
		points := make([]*curve.Point[field.Element, *field.Element], n)
		scalars := make([][]uint64, n)
		for i := 0; i < n; i++ {
			k := uint64(rnd.Intn(20))
			points[i] = &curve.Point[field.Element, *field.Element]{}
			d.Mul(points[i], g, []uint64{uint64(1 + rnd.Intn(8))})
			scalars[i] = []uint64{k}
		}

		want := naiveSum[field.Element, *field.Element](d, points, scalars)
		got := MultiExp[field.Element, *field.Element](d, points, scalars)
		require.True(t, d.Equal(want, got), "trial %d", trial)
	}
}

// TestMultiExp100ScalarsMatchesNaiveSum is spec.md §8 scenario 6: for 100
// random scalars, the Pippenger result must equal the naive sum exactly.
func TestMultiExp100ScalarsMatchesNaiveSum(t *testing.T) {
	fd, d := toyCurve(t)
	g := toyGenerator(t, fd, d)
	rnd := rand.New(rand.NewSource(100))

	const n = 100
	points := make([]*curve.Point[field.Element, *field.Element], n)
	scalars := make([][]uint64, n)
	for i := 0; i < n; i++ {
		points[i] = &curve.Point[field.Element, *field.Element]{}
		d.Mul(points[i], g, []uint64{uint64(1 + rnd.Intn(12))})
		scalars[i] = []uint64{uint64(rnd.Intn(1 << 20))}
	}

	want := naiveSum[field.Element, *field.Element](d, points, scalars)
	got := MultiExp[field.Element, *field.Element](d, points, scalars)
	require.True(t, d.Equal(want, got))
}

func TestMultiExpSinglePointMatchesScalarMul(t *testing.T) {
	fd, d := toyCurve(t)
	g := toyGenerator(t, fd, d)

	want := &curve.Point[field.Element, *field.Element]{}
	d.Mul(want, g, []uint64{7})

	got := MultiExp[field.Element, *field.Element](d, []*curve.Point[field.Element, *field.Element]{g}, [][]uint64{{7}})
	require.True(t, d.Equal(want, got))
}
