// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/bureau-foundation/canon/lib/tagtree"
)

// EncodeFunc turns a value of a registered type into a node. It
// receives the value itself (not a pointer to it) and must not retain
// it.
type EncodeFunc func(value any) (*tagtree.Node, error)

// DecodeFunc turns a node carrying a registered tag set into a value.
type DecodeFunc func(node *tagtree.Node) (any, error)

// Registry extends dispatch to types and tag sets the transcoder does
// not handle natively. There are no default entries.
//
// Encode is keyed by the value's dynamic type. It is consulted only
// for values no built-in shape claims, and for pointer types before
// the pointer is followed. Decode is keyed by the tag identity string
// (tagtree.TagSet.String) of nodes the decoder does not recognise.
// Built-in tag sets (the universal primitives and the five
// discriminated shapes) cannot be overridden.
//
// Encoder and Decoder copy both tables at construction; changing them
// afterwards has no effect on existing instances.
type Registry struct {
	Encode map[reflect.Type]EncodeFunc
	Decode map[string]DecodeFunc
}

func (r Registry) clone() Registry {
	return Registry{Encode: maps.Clone(r.Encode), Decode: maps.Clone(r.Decode)}
}

// Validate reports nil entries in either table. The encoder and decoder
// report them lazily as ErrBadRegistryEntry when a lookup hits one;
// Validate lets a caller fail at startup instead.
func (r Registry) Validate() error {
	var bad []string
	for typ, fn := range r.Encode {
		if fn == nil {
			bad = append(bad, "encode "+typ.String())
		}
	}
	for key, fn := range r.Decode {
		if fn == nil {
			bad = append(bad, "decode "+key)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	slices.Sort(bad)
	return fmt.Errorf("%w: nil entries %v", ErrBadRegistryEntry, bad)
}
