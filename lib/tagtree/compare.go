// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tagtree

import (
	"bytes"
	"cmp"
	"math"
	"slices"
)

// Compare is a total order over trees that agrees with Equal: it
// returns 0 exactly when Equal(a, b). Trees order by tag set, then
// kind, then payload, then children element-wise. Negative zero sorts
// before positive zero and NaN before every other real.
func Compare(a, b *Node) int {
	if c := slices.CompareFunc(a.tags, b.tags, compareTag); c != 0 {
		return c
	}
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	switch a.kind {
	case KindBoolean:
		return compareBool(a.boolean, b.boolean)
	case KindInteger:
		return a.integer.Cmp(b.integer)
	case KindReal:
		if c := cmp.Compare(a.real, b.real); c != 0 {
			return c
		}
		if math.IsNaN(a.real) {
			return 0
		}
		return compareBool(!math.Signbit(a.real), !math.Signbit(b.real))
	case KindOctetString, KindUTF8String, KindPrimitive:
		return bytes.Compare(a.content, b.content)
	case KindConstructed:
		return slices.CompareFunc(a.children, b.children, Compare)
	}
	return 0
}

func compareTag(a, b Tag) int {
	return cmp.Or(
		cmp.Compare(a.Class, b.Class),
		cmp.Compare(a.Format, b.Format),
		cmp.Compare(a.ID, b.ID),
	)
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
