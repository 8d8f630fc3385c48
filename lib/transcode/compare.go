// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strings"
)

// Compare is the total order the default ordering sorts mapping keys
// and set items by. Values order first by shape:
//
//	null < bool < number < complex < bytes < text < tuple < list < mapping < set < other
//
// Integers and reals are compared numerically against each other, with
// NaN below every other number. Complex numbers order by real part and
// then imaginary part. Strings and byte strings order lexicographically,
// sequences element-wise and then by length, mappings and sets by their
// sorted contents. Values of any other type order by type name and then
// by their fmt rendering.
//
// Compare does not guard against cyclic values.
func Compare(a, b any) int {
	return compareValues(indirect(reflect.ValueOf(a)), indirect(reflect.ValueOf(b)))
}

func rank(s shape) int {
	if s == shapeReal {
		return int(shapeInteger)
	}
	return int(s)
}

func compareValues(a, b reflect.Value) int {
	sa, sb := shapeOf(a), shapeOf(b)
	if c := cmp.Compare(rank(sa), rank(sb)); c != 0 {
		return c
	}
	switch sa {
	case shapeNull:
		return 0
	case shapeBool:
		return compareBool(a.Bool(), b.Bool())
	case shapeInteger, shapeReal:
		return compareNumbers(a, sa, b, sb)
	case shapeComplex:
		ca, cb := a.Complex(), b.Complex()
		return cmp.Or(cmp.Compare(real(ca), real(cb)), cmp.Compare(imag(ca), imag(cb)))
	case shapeBytes:
		return bytes.Compare(byteContent(a), byteContent(b))
	case shapeText:
		return strings.Compare(a.String(), b.String())
	case shapeTuple, shapeList:
		for i := range min(a.Len(), b.Len()) {
			if c := compareValues(indirect(a.Index(i)), indirect(b.Index(i))); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Len(), b.Len())
	case shapeMapping, shapeSet:
		return compareEntries(sortedEntries(a), sortedEntries(b))
	}
	if c := strings.Compare(a.Type().String(), b.Type().String()); c != 0 {
		return c
	}
	return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func compareNumbers(a reflect.Value, sa shape, b reflect.Value, sb shape) int {
	switch {
	case sa == shapeInteger && sb == shapeInteger:
		return bigInt(a).Cmp(bigInt(b))
	case sa == shapeReal && sb == shapeReal:
		return cmp.Compare(a.Float(), b.Float())
	case sa == shapeInteger:
		return -compareRealInteger(b.Float(), bigInt(a))
	}
	return compareRealInteger(a.Float(), bigInt(b))
}

func compareRealInteger(f float64, i *big.Int) int {
	if math.IsNaN(f) {
		return -1
	}
	return big.NewFloat(f).Cmp(new(big.Float).SetInt(i))
}

func sortedEntries(rv reflect.Value) []entry {
	entries := mapEntries(rv)
	slices.SortFunc(entries, func(x, y entry) int { return Compare(x.key, y.key) })
	return entries
}

func compareEntries(a, b []entry) int {
	for i := range min(len(a), len(b)) {
		if c := Compare(a[i].key, b[i].key); c != 0 {
			return c
		}
		if c := compareValues(indirect(a[i].value), indirect(b[i].value)); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// Equal reports whether a and b are the same application value. It is
// the equality decode(encode(v)) preserves:
//
//   - shapes must match, so an integer never equals a real and a tuple
//     never equals a list;
//   - integers compare by value whatever their Go width, so int32(1)
//     equals int64(1) and *big.Int values compare numerically;
//   - NaN equals NaN;
//   - mappings and sets compare by content, ignoring order, with keys
//     and items matched by Equal rather than Go ==;
//   - Go maps, *Map and *Set compare as their shape, as do every slice
//     type and Tuple.
//
// Values outside the built-in shapes must have identical types and be
// reflect.DeepEqual. Mapping comparison is quadratic in the number of
// keys. Equal does not guard against cyclic values.
func Equal(a, b any) bool {
	return equalValues(indirect(reflect.ValueOf(a)), indirect(reflect.ValueOf(b)))
}

func equalValues(a, b reflect.Value) bool {
	sa := shapeOf(a)
	if sa != shapeOf(b) {
		return false
	}
	switch sa {
	case shapeNull:
		return true
	case shapeBool:
		return a.Bool() == b.Bool()
	case shapeInteger:
		return bigInt(a).Cmp(bigInt(b)) == 0
	case shapeReal:
		return equalReal(a.Float(), b.Float())
	case shapeComplex:
		ca, cb := a.Complex(), b.Complex()
		return equalReal(real(ca), real(cb)) && equalReal(imag(ca), imag(cb))
	case shapeBytes:
		return bytes.Equal(byteContent(a), byteContent(b))
	case shapeText:
		return a.String() == b.String()
	case shapeTuple, shapeList:
		if a.Len() != b.Len() {
			return false
		}
		for i := range a.Len() {
			if !equalValues(indirect(a.Index(i)), indirect(b.Index(i))) {
				return false
			}
		}
		return true
	case shapeMapping, shapeSet:
		return equalEntries(mapEntries(a), mapEntries(b))
	}
	return a.Type() == b.Type() && reflect.DeepEqual(a.Interface(), b.Interface())
}

func equalReal(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func equalEntries(a, b []entry) bool {
	if len(a) != len(b) {
		return false
	}
	matched := make([]bool, len(b))
outer:
	for _, x := range a {
		for j, y := range b {
			if matched[j] || !Equal(x.key, y.key) {
				continue
			}
			if !equalValues(indirect(x.value), indirect(y.value)) {
				return false
			}
			matched[j] = true
			continue outer
		}
		return false
	}
	return true
}
