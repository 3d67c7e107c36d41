package infra

import "cmp"

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (i-j == 0, return 0)
//  2. i > j (i-j > 0, return 1), turn to right part.
//  3. i < j (i-j < 0, return -1), turn to left part.
type OrderedKeyComparator[K any] func(i, j K) int64

// NaturalComparator orders NaN before any other float and equal to itself.
func NaturalComparator[K OrderedKey]() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		return int64(cmp.Compare(i, j))
	}
}

// LessComparator adapts a strict weak ordering into a three-way comparator.
// Keys that are neither less nor greater than each other are equivalent.
func LessComparator[K any](less func(i, j K) bool) OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		if less(i, j) {
			return -1
		} else if less(j, i) {
			return 1
		}
		return 0
	}
}

func (fn OrderedKeyComparator[K]) Reverse() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		return fn(j, i)
	}
}
