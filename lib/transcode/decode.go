// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/bureau-foundation/canon/lib/tagtree"
)

// Decoder turns tagged node trees back into Go values. It is immutable
// and safe for concurrent use.
type Decoder struct {
	registry   Registry
	maxDepth   int
	strictKeys bool
}

// NewDecoder returns a decoder configured by options. The registry
// tables are copied. Options.Ordering is ignored.
func NewDecoder(options Options) *Decoder {
	return &Decoder{
		registry:   options.Registry.clone(),
		maxDepth:   options.maxDepth(),
		strictKeys: options.StrictKeys,
	}
}

// Decode returns the value node represents:
//
//	NULL            nil
//	BOOLEAN         bool
//	INTEGER         int64, or *big.Int outside the int64 range
//	REAL            float64
//	UTF8String      string
//	OCTET STRING    []byte (a copy)
//	complex         complex128
//	tuple           Tuple
//	list            List
//	mapping         *Map in child order
//	set             *Set
//
// Any other tag set is looked up in Registry.Decode by its identity
// string. Mapping keys and set items may have any shape; they match
// the way Map keys do.
func (d *Decoder) Decode(node *tagtree.Node) (any, error) {
	state := &decodeState{decoder: d, walk: walk{op: "decode", maxDepth: d.maxDepth}}
	if node == nil {
		return nil, state.fail(failf(ErrMalformedInput, "nil node"))
	}
	return state.decode(node)
}

// decodeState is the per-call state of one Decode.
type decodeState struct {
	walk
	decoder *Decoder
}

func (s *decodeState) decode(node *tagtree.Node) (any, error) {
	tags := node.Tags()
	if len(tags) == 1 {
		switch node.Kind() {
		case tagtree.KindNull:
			return nil, nil
		case tagtree.KindBoolean:
			return node.Bool(), nil
		case tagtree.KindInteger:
			return integerValue(node.Int()), nil
		case tagtree.KindReal:
			return node.Float(), nil
		case tagtree.KindUTF8String:
			if !utf8.Valid(node.Bytes()) {
				return nil, s.fail(failf(ErrInvalidEncoding, "UTF8String is not valid UTF-8"))
			}
			return string(node.Bytes()), nil
		case tagtree.KindOctetString:
			return append([]byte{}, node.Bytes()...), nil
		}
	}

	if node.Kind() == tagtree.KindConstructed {
		switch {
		case tags.Equal(tagtree.ComplexTags):
			return s.complex(node)
		case tags.Equal(tagtree.TupleTags):
			children, err := s.children(node)
			if err != nil {
				return nil, err
			}
			return Tuple(children), nil
		case tags.Equal(tagtree.ListTags):
			children, err := s.children(node)
			if err != nil {
				return nil, err
			}
			return List(children), nil
		case tags.Equal(tagtree.MappingTags):
			return s.mapping(node)
		case tags.Equal(tagtree.SetTags):
			return s.set(node)
		}
	}
	return s.registered(node)
}

func integerValue(value *big.Int) any {
	if value.IsInt64() {
		return value.Int64()
	}
	return new(big.Int).Set(value)
}

func (s *decodeState) registered(node *tagtree.Node) (any, error) {
	key := node.Tags().String()
	fn, ok := s.decoder.registry.Decode[key]
	if !ok {
		return nil, s.fail(failf(ErrTypeNotSupported, "no decoder for %s %s", key, node.Kind()))
	}
	if fn == nil {
		return nil, s.fail(failf(ErrBadRegistryEntry, "decode entry for %s is nil", key))
	}
	value, err := fn(node)
	if err != nil {
		return nil, s.fail(err)
	}
	return value, nil
}

func (s *decodeState) child(segment string, node *tagtree.Node) (any, error) {
	err := s.descend(segment)
	defer s.ascend()
	if err != nil {
		return nil, err
	}
	return s.decode(node)
}

func (s *decodeState) children(node *tagtree.Node) ([]any, error) {
	values := make([]any, node.Len())
	for i, child := range node.Children() {
		value, err := s.child(fmt.Sprintf("[%d]", i), child)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func (s *decodeState) complex(node *tagtree.Node) (any, error) {
	if node.Len() != 2 {
		return nil, s.fail(failf(ErrMalformedInput, "complex has %d children, want 2", node.Len()))
	}
	var parts [2]float64
	for i, segment := range []string{".real", ".imag"} {
		value, err := s.child(segment, node.Children()[i])
		if err != nil {
			return nil, err
		}
		part, ok := realPart(value)
		if !ok {
			return nil, s.failAt(segment, failf(ErrMalformedInput, "complex part is %T, want a number", value))
		}
		parts[i] = part
	}
	return complex(parts[0], parts[1]), nil
}

func realPart(value any) (float64, bool) {
	switch value := value.(type) {
	case float64:
		return value, true
	case int64:
		return float64(value), true
	case *big.Int:
		f, _ := new(big.Float).SetInt(value).Float64()
		return f, true
	}
	return 0, false
}

func (s *decodeState) mapping(node *tagtree.Node) (any, error) {
	result := &Map{}
	for i, child := range node.Children() {
		segment := fmt.Sprintf("[%d]", i)
		key, value, err := s.pair(segment, child)
		if err != nil {
			return nil, err
		}
		id, err := lookupKey(key)
		if err != nil {
			return nil, s.failAt(segment+"[0]", failf(ErrMalformedInput, "%v", err))
		}
		if _, exists := result.index[id]; exists && s.decoder.strictKeys {
			return nil, s.failAt(segment, failf(ErrDuplicateKey, "key %s appears more than once", describeKey(key)))
		}
		result.put(id, key, value)
	}
	return result, nil
}

// pair decodes one mapping child, which must be a two-element tuple.
func (s *decodeState) pair(segment string, node *tagtree.Node) (key, value any, err error) {
	if node.Kind() != tagtree.KindConstructed || !node.Tags().Equal(tagtree.TupleTags) {
		return nil, nil, s.failAt(segment, failf(ErrMalformedInput, "mapping entry %s is not a tuple", node.Tags()))
	}
	if node.Len() != 2 {
		return nil, nil, s.failAt(segment, failf(ErrMalformedInput, "mapping entry has %d elements, want 2", node.Len()))
	}
	if key, err = s.child(segment+"[0]", node.Children()[0]); err != nil {
		return nil, nil, err
	}
	if value, err = s.child(segment+"[1]", node.Children()[1]); err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

func (s *decodeState) set(node *tagtree.Node) (any, error) {
	result := &Set{}
	for i, child := range node.Children() {
		segment := fmt.Sprintf("[%d]", i)
		item, err := s.child(segment, child)
		if err != nil {
			return nil, err
		}
		id, err := lookupKey(item)
		if err != nil {
			return nil, s.failAt(segment, failf(ErrMalformedInput, "%v", err))
		}
		result.put(id, item)
	}
	return result, nil
}
