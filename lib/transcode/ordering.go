// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"reflect"
	"slices"

	"github.com/bureau-foundation/canon/lib/tagtree"
)

type orderMode uint8

const (
	orderAscending orderMode = iota
	orderDisabled
	orderCustom
)

// Ordering decides how mapping keys and set items are ordered before
// they become children of the encoded node. The zero value sorts
// ascending by Compare.
//
// Keys never tie completely: the encoder rejects a mapping whose keys
// share an encoded node and keeps one of such set items, and the rest
// are ordered by their nodes when the comparison ties. Only sorted
// output is canonical. With ordering disabled a *Map
// encodes in insertion order and a Go map or Set in whatever order the
// runtime iterates it, so equal values can encode differently.
type Ordering struct {
	mode    orderMode
	compare func(a, b any) int
}

// SortAscending sorts by Compare. Keys that Compare equal without being
// the same value (1 and 1.0, say) are ordered by their encoded nodes.
func SortAscending() Ordering { return Ordering{} }

// SortDisabled keeps the collection's native order.
func SortDisabled() Ordering { return Ordering{mode: orderDisabled} }

// SortCustom sorts with compare, which must be a consistent ordering
// over the keys it is given. Keys it reports equal are ordered by their
// encoded nodes. A nil compare sorts ascending.
func SortCustom(compare func(a, b any) int) Ordering {
	if compare == nil {
		return SortAscending()
	}
	return Ordering{mode: orderCustom, compare: compare}
}

// Sorted reports whether the ordering sorts at all.
func (o Ordering) Sorted() bool { return o.mode != orderDisabled }

func (o Ordering) String() string {
	switch o.mode {
	case orderDisabled:
		return "disabled"
	case orderCustom:
		return "custom"
	}
	return "ascending"
}

// entry is one mapping pair or set item on its way to becoming a child
// node. Set items have an invalid value.
type entry struct {
	key     any
	keyNode *tagtree.Node
	value   reflect.Value
}

func (o Ordering) sort(entries []entry) {
	compare := Compare
	switch o.mode {
	case orderDisabled:
		return
	case orderCustom:
		compare = o.compare
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := compare(a.key, b.key); c != 0 {
			return c
		}
		return tagtree.Compare(a.keyNode, b.keyNode)
	})
}
