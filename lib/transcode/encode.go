// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"fmt"
	"reflect"
	"slices"
	"unicode/utf8"

	"github.com/bureau-foundation/canon/lib/tagtree"
)

// Encoder turns Go values into tagged node trees. It is immutable and
// safe for concurrent use.
type Encoder struct {
	ordering Ordering
	registry Registry
	maxDepth int
}

// NewEncoder returns an encoder configured by options. The registry
// tables are copied.
func NewEncoder(options Options) *Encoder {
	return &Encoder{
		ordering: options.Ordering,
		registry: options.Registry.clone(),
		maxDepth: options.maxDepth(),
	}
}

// Encode returns the tagged node for value. Dispatch, first match wins:
//
//	nil, nil pointer or interface   NULL
//	bool                            BOOLEAN
//	integer kinds, big.Int          INTEGER
//	float32, float64                REAL
//	complex64, complex128           complex (real, imag)
//	[]byte, [N]byte                 OCTET STRING
//	string                          UTF8String
//	*Map, Go map                    mapping of (key, value) tuples
//	Set, map[K]struct{}             set
//	List                            list
//	any other slice or array        tuple
//	anything else                   Registry.Encode
//
// Pointers are followed, except that a pointer type present in the
// registry is handed to its encode function as is.
func (e *Encoder) Encode(value any) (*tagtree.Node, error) {
	state := &encodeState{encoder: e, walk: walk{op: "encode", maxDepth: e.maxDepth}}
	return state.encode(reflect.ValueOf(value))
}

type visitKey struct {
	typ     reflect.Type
	pointer uintptr
	length  int
}

// encodeState is the per-call state of one Encode.
type encodeState struct {
	walk
	encoder  *Encoder
	visiting map[visitKey]struct{}
}

func (s *encodeState) encode(rv reflect.Value) (*tagtree.Node, error) {
	if !rv.IsValid() {
		return tagtree.Null(), nil
	}
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return tagtree.Null(), nil
		}
		return s.encode(rv.Elem())
	case reflect.Pointer:
		if rv.IsNil() {
			return tagtree.Null(), nil
		}
		if isShapePointer(rv.Type()) {
			break
		}
		if fn, ok := s.encoder.registry.Encode[rv.Type()]; ok {
			return s.registered(fn, rv)
		}
		leave, err := s.track(rv)
		if err != nil {
			return nil, err
		}
		defer leave()
		return s.encode(rv.Elem())
	}

	switch shapeOf(rv) {
	case shapeBool:
		return tagtree.Boolean(rv.Bool()), nil
	case shapeInteger:
		return tagtree.Integer(bigInt(rv)), nil
	case shapeReal:
		return tagtree.Real(rv.Float()), nil
	case shapeComplex:
		c := rv.Complex()
		return tagtree.Discriminated(tagtree.DiscriminatorComplex,
			tagtree.Real(real(c)), tagtree.Real(imag(c))), nil
	case shapeBytes:
		return tagtree.OctetString(slices.Clone(byteContent(rv))), nil
	case shapeText:
		text := rv.String()
		if !utf8.ValidString(text) {
			return nil, s.fail(failf(ErrInvalidEncoding, "string is not valid UTF-8"))
		}
		return tagtree.UTF8String([]byte(text)), nil
	case shapeTuple:
		return s.sequence(tagtree.DiscriminatorTuple, rv)
	case shapeList:
		return s.sequence(tagtree.DiscriminatorList, rv)
	case shapeMapping:
		return s.mapping(rv)
	case shapeSet:
		return s.set(rv)
	}

	fn, ok := s.encoder.registry.Encode[rv.Type()]
	if !ok {
		return nil, s.fail(failf(ErrTypeNotSupported, "no encoder for %s", rv.Type()))
	}
	return s.registered(fn, rv)
}

func (s *encodeState) registered(fn EncodeFunc, rv reflect.Value) (*tagtree.Node, error) {
	if fn == nil {
		return nil, s.fail(failf(ErrBadRegistryEntry, "encode entry for %s is nil", rv.Type()))
	}
	node, err := fn(rv.Interface())
	if err != nil {
		return nil, s.fail(err)
	}
	if node == nil {
		return nil, s.fail(failf(ErrBadRegistryEntry, "encode entry for %s returned no node", rv.Type()))
	}
	return node, nil
}

// track marks a pointer, slice or map as being encoded and returns the
// function that unmarks it. Meeting it again before then is a cycle.
func (s *encodeState) track(rv reflect.Value) (func(), error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map:
	default:
		return func() {}, nil
	}
	pointer := rv.Pointer()
	if pointer == 0 {
		return func() {}, nil
	}
	key := visitKey{typ: rv.Type(), pointer: pointer}
	if rv.Kind() == reflect.Slice {
		key.length = rv.Len()
	}
	if _, seen := s.visiting[key]; seen {
		return nil, s.fail(failf(ErrCyclicValue, "%s contains itself", rv.Type()))
	}
	if s.visiting == nil {
		s.visiting = make(map[visitKey]struct{})
	}
	s.visiting[key] = struct{}{}
	return func() { delete(s.visiting, key) }, nil
}

func (s *encodeState) child(segment string, rv reflect.Value) (*tagtree.Node, error) {
	err := s.descend(segment)
	defer s.ascend()
	if err != nil {
		return nil, err
	}
	return s.encode(rv)
}

func (s *encodeState) sequence(discriminator uint32, rv reflect.Value) (*tagtree.Node, error) {
	leave, err := s.track(rv)
	if err != nil {
		return nil, err
	}
	defer leave()

	children := make([]*tagtree.Node, rv.Len())
	for i := range children {
		child, err := s.child(fmt.Sprintf("[%d]", i), rv.Index(i))
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return tagtree.Discriminated(discriminator, children...), nil
}

// keyed encodes the keys (or items) of a mapping or set, drops or
// rejects keys whose nodes repeat, and orders the entries. Keys are
// encoded before sorting so ties under the ordering can be broken by
// their nodes.
//
// Distinct Go keys can share a node (int(1) and int64(1) in a
// map[any]any). A set keeps one of them since the items are
// indistinguishable once encoded; a mapping fails with ErrDuplicateKey
// because its values may differ.
func (s *encodeState) keyed(rv reflect.Value, left, right string, mapping bool) ([]entry, error) {
	entries := mapEntries(rv)
	seen := make(map[string]struct{}, len(entries))
	kept := entries[:0]
	for _, item := range entries {
		segment := left + describeKey(item.key) + right
		node, err := s.child(segment, reflect.ValueOf(item.key))
		if err != nil {
			return nil, err
		}
		id := tagtree.Identity(node)
		if _, duplicate := seen[id]; duplicate {
			if mapping {
				return nil, s.failAt(segment, failf(ErrDuplicateKey, "key %s encodes the same as another key", describeKey(item.key)))
			}
			continue
		}
		seen[id] = struct{}{}
		item.keyNode = node
		kept = append(kept, item)
	}
	s.encoder.ordering.sort(kept)
	return kept, nil
}

func (s *encodeState) mapping(rv reflect.Value) (*tagtree.Node, error) {
	leave, err := s.track(rv)
	if err != nil {
		return nil, err
	}
	defer leave()

	entries, err := s.keyed(rv, "[", "]", true)
	if err != nil {
		return nil, err
	}
	pairs := make([]*tagtree.Node, len(entries))
	for i, item := range entries {
		value, err := s.child("["+describeKey(item.key)+"]", item.value)
		if err != nil {
			return nil, err
		}
		pairs[i] = tagtree.Discriminated(tagtree.DiscriminatorTuple, item.keyNode, value)
	}
	return tagtree.Discriminated(tagtree.DiscriminatorMapping, pairs...), nil
}

func (s *encodeState) set(rv reflect.Value) (*tagtree.Node, error) {
	leave, err := s.track(rv)
	if err != nil {
		return nil, err
	}
	defer leave()

	entries, err := s.keyed(rv, "{", "}", false)
	if err != nil {
		return nil, err
	}
	items := make([]*tagtree.Node, len(entries))
	for i, item := range entries {
		items[i] = item.keyNode
	}
	return tagtree.Discriminated(tagtree.DiscriminatorSet, items...), nil
}

// describeKey renders a mapping key or set item for error paths.
func describeKey(key any) string {
	rv := indirect(reflect.ValueOf(key))
	switch shapeOf(rv) {
	case shapeNull:
		return "nil"
	case shapeText:
		return fmt.Sprintf("%q", rv.String())
	case shapeBool, shapeInteger, shapeReal, shapeComplex:
		return fmt.Sprint(rv.Interface())
	}
	return rv.Type().String()
}
