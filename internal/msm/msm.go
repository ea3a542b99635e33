// Package msm implements Pippenger's bucketed multi-scalar multiplication
// over the generic Jacobian curve of internal/curve, per spec.md §4.5.
package msm

import (
	"github.com/drand/pairing/internal/curve"
	"github.com/drand/pairing/internal/limbs"
)

// windowSize picks the Pippenger bucket width from the input count, per
// spec.md §4.5: 4 bits under 32 scalars, 5 bits up to 128, 8 bits up to
// 512, scaling further for denser inputs.
func windowSize(n int) uint {
	switch {
	case n < 32:
		return 4
	case n < 128:
		return 5
	case n < 512:
		return 8
	case n < 4096:
		return 10
	default:
		return 12
	}
}

// MultiExp computes sum_i scalars[i]*points[i] via Pippenger's bucket
// method. Returns the additive identity when points is empty. Panics if
// len(scalars) != len(points), a caller-contract violation rather than a
// recoverable "no value" condition.
func MultiExp[T any, PT curve.Elem[T]](
	d *curve.Descriptor[T, PT],
	points []*curve.Point[T, PT],
	scalars [][]uint64,
) *curve.Point[T, PT] {
	if len(points) != len(scalars) {
		panic("msm: points/scalars length mismatch")
	}
	if len(points) == 0 {
		return d.ZeroPoint()
	}

	maxBits := 0
	for _, s := range scalars {
		if bl := limbs.BitLen(s); bl > maxBits {
			maxBits = bl
		}
	}
	if maxBits == 0 {
		return d.ZeroPoint()
	}

	c := windowSize(len(points))
	numWindows := (maxBits + int(c) - 1) / int(c)
	numBuckets := 1 << c

	total := d.ZeroPoint()
	for w := numWindows - 1; w >= 0; w-- {
		for i := uint(0); i < c; i++ {
			d.Double(total, total)
		}

		buckets := make([]*curve.Point[T, PT], numBuckets)
		for i := range buckets {
			buckets[i] = d.ZeroPoint()
		}

		for i, p := range points {
			digit := windowDigit(scalars[i], w, c)
			if digit == 0 {
				continue
			}
			d.Add(buckets[digit], buckets[digit], p)
		}

		// Running-sum sweep from the top bucket down: acc accumulates
		// bucket[k]+bucket[k-1]+...  and windowSum accumulates
		// acc added once per bucket index, so bucket[k] contributes k
		// times overall — Pippenger's reduction from O(buckets) to
		// O(buckets) additions (no per-bucket scalar multiplication).
		acc := d.ZeroPoint()
		windowSum := d.ZeroPoint()
		for k := numBuckets - 1; k >= 1; k-- {
			d.Add(acc, acc, buckets[k])
			d.Add(windowSum, windowSum, acc)
		}
		d.Add(total, total, windowSum)
	}
	return total
}

// windowDigit extracts the c-bit digit at window index w (0 = least
// significant window) from the little-endian limb scalar.
func windowDigit(scalar []uint64, w int, c uint) int {
	start := uint(w) * c
	val := 0
	for i := uint(0); i < c; i++ {
		bitIdx := start + i
		if limbs.Bit(scalar, int(bitIdx)) {
			val |= 1 << i
		}
	}
	return val
}
