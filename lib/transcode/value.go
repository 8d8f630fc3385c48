// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"fmt"
	"iter"
	"math/big"
	"reflect"
	"slices"

	"github.com/bureau-foundation/canon/lib/tagtree"
)

// Tuple is the tuple-like sequence shape. Any slice or array that is
// not a List or a byte slice encodes as a tuple, and tuples always
// decode as Tuple.
type Tuple []any

// List is the list-like sequence shape. Only this exact type encodes
// with the list discriminator.
type List []any

// Map is a mapping that remembers key insertion order. The zero value
// is an empty map ready to use.
//
// Keys match by their canonical encoding rather than by Go ==: int(1)
// and int64(1) are the same key, NaN finds itself, and tuples, byte
// strings and other non-comparable shapes are valid keys. A key the
// default Encoder cannot encode (a registered type, say) must be
// comparable and matches by ==. Keys must not be mutated once stored.
//
// Insertion order is not part of a mapping's identity: Equal ignores
// it, and the default ordering sorts keys before encoding. It matters
// only when ordering is disabled, and it records the order a decoded
// mapping's pairs appeared in.
type Map struct {
	keys   []any
	values []any
	index  map[any]int
}

// NewMap returns a map holding the given key, value pairs in order.
// It panics if pairs has odd length.
func NewMap(pairs ...any) *Map {
	if len(pairs)%2 != 0 {
		panic("transcode: NewMap needs key, value pairs")
	}
	m := &Map{}
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set stores value under key. A new key goes to the end of the order;
// an existing key keeps its position and its original Go value.
func (m *Map) Set(key, value any) {
	m.put(keyIdentity(key), key, value)
}

func (m *Map) put(id, key, value any) {
	if i, exists := m.index[id]; exists {
		m.values[i] = value
		return
	}
	if m.index == nil {
		m.index = make(map[any]int)
	}
	m.index[id] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	if m.Len() == 0 {
		return nil, false
	}
	i, ok := m.index[keyIdentity(key)]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

// Has reports whether key is present.
func (m *Map) Has(key any) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key if present.
func (m *Map) Delete(key any) {
	if m.Len() == 0 {
		return
	}
	id := keyIdentity(key)
	i, exists := m.index[id]
	if !exists {
		return
	}
	delete(m.index, id)
	m.keys = slices.Delete(m.keys, i, i+1)
	m.values = slices.Delete(m.values, i, i+1)
	for id, position := range m.index {
		if position > i {
			m.index[id] = position - 1
		}
	}
}

// Len returns the number of keys. A nil *Map has length zero.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []any {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over key, value pairs in insertion order.
func (m *Map) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for i := range m.Len() {
			if !yield(m.keys[i], m.values[i]) {
				return
			}
		}
	}
}

// Set is the set-like shape: unique items with no order of their own.
// Items match the way Map keys do. The zero value is an empty set ready
// to use. Any Go map whose element type is struct{} also encodes as a
// set.
type Set struct {
	items []any
	index map[any]int
}

// NewSet returns a set holding items.
func NewSet(items ...any) *Set {
	set := &Set{}
	for _, item := range items {
		set.Add(item)
	}
	return set
}

// Add inserts item. Adding an item already present keeps the first.
func (s *Set) Add(item any) {
	s.put(keyIdentity(item), item)
}

func (s *Set) put(id, item any) {
	if _, exists := s.index[id]; exists {
		return
	}
	if s.index == nil {
		s.index = make(map[any]int)
	}
	s.index[id] = len(s.items)
	s.items = append(s.items, item)
}

// Has reports whether item is a member.
func (s *Set) Has(item any) bool {
	if s.Len() == 0 {
		return false
	}
	_, ok := s.index[keyIdentity(item)]
	return ok
}

// Delete removes item if present.
func (s *Set) Delete(item any) {
	if s.Len() == 0 {
		return
	}
	id := keyIdentity(item)
	i, exists := s.index[id]
	if !exists {
		return
	}
	delete(s.index, id)
	s.items = slices.Delete(s.items, i, i+1)
	for id, position := range s.index {
		if position > i {
			s.index[id] = position - 1
		}
	}
}

// Len returns the number of items. A nil *Set has length zero.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns a copy of the items in insertion order.
func (s *Set) Items() []any {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

// All iterates over the items in insertion order.
func (s *Set) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := range s.Len() {
			if !yield(s.items[i]) {
				return
			}
		}
	}
}

// identityEncoder encodes Map keys and Set items for lookup.
var identityEncoder = NewEncoder(Options{})

// goKey holds a key the default encoder rejects. It matches by ==.
type goKey struct{ value any }

// keyIdentity returns the Go map key a Map or Set files key under. It
// panics on a key that is neither encodable nor comparable, as a Go map
// would.
func keyIdentity(key any) any {
	id, err := lookupKey(key)
	if err != nil {
		panic("transcode: " + err.Error())
	}
	return id
}

// lookupKey returns the identity of key's encoded node when the default
// encoder accepts it, and the key itself otherwise.
func lookupKey(key any) (any, error) {
	if node, err := identityEncoder.Encode(key); err == nil {
		return tagtree.Identity(node), nil
	}
	if !reflect.ValueOf(key).Comparable() {
		return nil, fmt.Errorf("key of type %T is neither encodable nor comparable", key)
	}
	return goKey{key}, nil
}

var (
	bigIntType      = reflect.TypeFor[big.Int]()
	bigIntPtrType   = reflect.TypeFor[*big.Int]()
	mapPtrType      = reflect.TypeFor[*Map]()
	setPtrType      = reflect.TypeFor[*Set]()
	listType        = reflect.TypeFor[List]()
	emptyStructType = reflect.TypeFor[struct{}]()
)

// shape is the dispatch category of a Go value.
type shape uint8

const (
	shapeNull shape = iota
	shapeBool
	shapeInteger
	shapeReal
	shapeComplex
	shapeBytes
	shapeText
	shapeTuple
	shapeList
	shapeMapping
	shapeSet
	shapeOther
)

// indirect follows interfaces and pointers down to the value they hold.
// *big.Int, *Map and *Set are shapes of their own and are not followed. A nil
// interface or pointer yields the invalid Value.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() {
		switch rv.Kind() {
		case reflect.Interface:
		case reflect.Pointer:
			if isShapePointer(rv.Type()) {
				if rv.IsNil() {
					return reflect.Value{}
				}
				return rv
			}
		default:
			return rv
		}
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// isShapePointer reports whether t is a pointer type that is a shape
// of its own rather than a reference to follow.
func isShapePointer(t reflect.Type) bool {
	return t == bigIntPtrType || t == mapPtrType || t == setPtrType
}

// shapeOf classifies a value that has already been through indirect.
func shapeOf(rv reflect.Value) shape {
	if !rv.IsValid() {
		return shapeNull
	}
	switch rv.Type() {
	case bigIntType, bigIntPtrType:
		return shapeInteger
	case mapPtrType:
		return shapeMapping
	case setPtrType:
		return shapeSet
	case listType:
		return shapeList
	}
	switch rv.Kind() {
	case reflect.Bool:
		return shapeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return shapeInteger
	case reflect.Float32, reflect.Float64:
		return shapeReal
	case reflect.Complex64, reflect.Complex128:
		return shapeComplex
	case reflect.String:
		return shapeText
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return shapeBytes
		}
		return shapeTuple
	case reflect.Map:
		if rv.Type().Elem() == emptyStructType {
			return shapeSet
		}
		return shapeMapping
	}
	return shapeOther
}

// bigInt returns the integer held by rv, which must have shapeInteger.
func bigInt(rv reflect.Value) *big.Int {
	switch rv.Type() {
	case bigIntPtrType:
		return rv.Interface().(*big.Int)
	case bigIntType:
		value := rv.Interface().(big.Int)
		return &value
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int())
	}
	return new(big.Int).SetUint64(rv.Uint())
}

// byteContent returns the octets of a byte slice or byte array.
func byteContent(rv reflect.Value) []byte {
	if rv.Kind() == reflect.Slice {
		return rv.Bytes()
	}
	content := make([]byte, rv.Len())
	for i := range content {
		content[i] = byte(rv.Index(i).Uint())
	}
	return content
}

// mapEntries returns the key, value pairs of a mapping or the items of
// a set (with invalid values) in the value's native order: insertion
// order for *Map and *Set, runtime iteration order for Go maps.
func mapEntries(rv reflect.Value) []entry {
	if rv.Type() == mapPtrType {
		m := rv.Interface().(*Map)
		entries := make([]entry, 0, m.Len())
		for key, value := range m.All() {
			entries = append(entries, entry{key: key, value: reflect.ValueOf(value)})
		}
		return entries
	}
	if rv.Type() == setPtrType {
		s := rv.Interface().(*Set)
		entries := make([]entry, 0, s.Len())
		for item := range s.All() {
			entries = append(entries, entry{key: item})
		}
		return entries
	}
	set := rv.Type().Elem() == emptyStructType
	entries := make([]entry, 0, rv.Len())
	iterator := rv.MapRange()
	for iterator.Next() {
		item := entry{key: iterator.Key().Interface()}
		if !set {
			item.value = iterator.Value()
		}
		entries = append(entries, item)
	}
	return entries
}
