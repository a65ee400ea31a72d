package matching

import "math/bits"

// int128 is a signed 128-bit integer in two's complement. Dual variables
// start at the maximum edge weight and move through sums and doublings of
// 64-bit weights, so 64 bits is not enough headroom; none of the module's
// dependencies ship a signed 128-bit type, so the handful of operations the
// algorithm needs live here.
type int128 struct {
	hi int64
	lo uint64
}

func int128From(v int64) int128 {
	return int128{hi: v >> 63, lo: uint64(v)}
}

func (a int128) add(b int128) int128 {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	return int128{hi: a.hi + b.hi + int64(carry), lo: lo}
}

func (a int128) sub(b int128) int128 {
	lo, borrow := bits.Sub64(a.lo, b.lo, 0)
	return int128{hi: a.hi - b.hi - int64(borrow), lo: lo}
}

// cmp returns -1, 0 or 1 as a is less than, equal to or greater than b.
func (a int128) cmp(b int128) int {
	if a.hi != b.hi {
		if a.hi < b.hi {
			return -1
		}
		return 1
	}
	if a.lo != b.lo {
		if a.lo < b.lo {
			return -1
		}
		return 1
	}
	return 0
}

func (a int128) less(b int128) bool {
	return a.cmp(b) < 0
}

func (a int128) isZero() bool {
	return a.hi == 0 && a.lo == 0
}

func (a int128) isNegative() bool {
	return a.hi < 0
}

// double returns 2a.
func (a int128) double() int128 {
	return int128{hi: a.hi<<1 | int64(a.lo>>63), lo: a.lo << 1}
}

// half returns a/2. Only ever applied to non-negative slack values, where
// the arithmetic shift equals truncating division.
func (a int128) half() int128 {
	return int128{hi: a.hi >> 1, lo: a.lo>>1 | uint64(a.hi)<<63}
}
