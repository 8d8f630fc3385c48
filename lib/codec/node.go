// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/canon/lib/tagtree"
)

// CBOR tag numbers used for tagged nodes.
//
// Universal primitives map onto native CBOR major types, SEQUENCE onto
// an array and SET onto an array under tag 258 (IANA "mathematical
// finite set"). Every other tag becomes a CBOR tag in one of two
// private ranges: base tags (the innermost tag of a node with no native
// mapping) and explicit wrappers. Within a range the number is
//
//	range | identifier<<32 | id
//
// where identifier is the X.690 class and format bits.
const (
	SetTagNumber           uint64 = 258
	BaseTagNumberRange     uint64 = 1 << 40
	ExplicitTagNumberRange uint64 = 1 << 41

	rangeMask uint64 = 0x3 << 40
)

// MarshalNode encodes node as deterministic CBOR.
func MarshalNode(node *tagtree.Node) ([]byte, error) {
	if node == nil {
		return nil, fmt.Errorf("codec: cannot marshal nil node")
	}
	item, err := toItem(node)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(item)
}

// UnmarshalNode decodes one CBOR data item produced by MarshalNode.
// Trailing bytes and items with no node mapping (maps, simple values,
// unknown tags) are errors.
func UnmarshalNode(data []byte) (*tagtree.Node, error) {
	var item any
	if err := decMode.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return fromItem(item)
}

// NodeCodec adapts MarshalNode and UnmarshalNode to the node codec
// interface used by the transcoder.
type NodeCodec struct{}

// MarshalNode calls the package-level MarshalNode.
func (NodeCodec) MarshalNode(node *tagtree.Node) ([]byte, error) { return MarshalNode(node) }

// UnmarshalNode calls the package-level UnmarshalNode.
func (NodeCodec) UnmarshalNode(data []byte) (*tagtree.Node, error) { return UnmarshalNode(data) }

func tagNumber(numberRange uint64, tag tagtree.Tag) uint64 {
	return numberRange | uint64(uint8(tag.Class)|uint8(tag.Format))<<32 | uint64(tag.ID)
}

func tagFromNumber(number uint64) tagtree.Tag {
	identifier := uint8(number >> 32)
	return tagtree.Tag{
		Class:  tagtree.Class(identifier & 0xC0),
		Format: tagtree.Format(identifier & 0x20),
		ID:     uint32(number),
	}
}

func toItem(node *tagtree.Node) (any, error) {
	tags := node.Tags()
	if len(tags) == 0 {
		return nil, fmt.Errorf("codec: node has no tags")
	}
	item, err := baseItem(node)
	if err != nil {
		return nil, err
	}
	for _, tag := range tags[1:] {
		item = cbor.Tag{Number: tagNumber(ExplicitTagNumberRange, tag), Content: item}
	}
	return item, nil
}

func baseItem(node *tagtree.Node) (any, error) {
	base := node.Tags().Base()
	switch node.Kind() {
	case tagtree.KindNull:
		return nil, nil
	case tagtree.KindBoolean:
		return node.Bool(), nil
	case tagtree.KindInteger:
		if node.Int().IsInt64() {
			return node.Int().Int64(), nil
		}
		return node.Int(), nil
	case tagtree.KindReal:
		return node.Float(), nil
	case tagtree.KindOctetString:
		return nonNilBytes(node.Bytes()), nil
	case tagtree.KindUTF8String:
		return string(node.Bytes()), nil
	case tagtree.KindPrimitive:
		return cbor.Tag{Number: tagNumber(BaseTagNumberRange, base), Content: nonNilBytes(node.Bytes())}, nil
	case tagtree.KindConstructed:
		// Nil slices encode as CBOR null; children are always an array.
		children := make([]any, 0, node.Len())
		for _, child := range node.Children() {
			item, err := toItem(child)
			if err != nil {
				return nil, err
			}
			children = append(children, item)
		}
		switch base {
		case tagtree.TagSequence:
			return children, nil
		case tagtree.TagSetOf:
			return cbor.Tag{Number: SetTagNumber, Content: children}, nil
		}
		return cbor.Tag{Number: tagNumber(BaseTagNumberRange, base), Content: children}, nil
	}
	return nil, fmt.Errorf("codec: unknown node kind %s", node.Kind())
}

func nonNilBytes(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}

func fromItem(item any) (*tagtree.Node, error) {
	switch value := item.(type) {
	case nil:
		return tagtree.Null(), nil
	case bool:
		return tagtree.Boolean(value), nil
	case uint64:
		return tagtree.Integer(new(big.Int).SetUint64(value)), nil
	case int64:
		return tagtree.Int64(value), nil
	case *big.Int:
		return tagtree.Integer(value), nil
	case big.Int:
		return tagtree.Integer(&value), nil
	case float64:
		return tagtree.Real(value), nil
	case []byte:
		return tagtree.OctetString(value), nil
	case string:
		return tagtree.UTF8String([]byte(value)), nil
	case []any:
		children, err := fromItems(value)
		if err != nil {
			return nil, err
		}
		return tagtree.Sequence(children...), nil
	case cbor.Tag:
		return fromTag(value)
	}
	return nil, fmt.Errorf("codec: CBOR item of type %T has no node mapping", item)
}

func fromItems(items []any) ([]*tagtree.Node, error) {
	children := make([]*tagtree.Node, 0, len(items))
	for _, item := range items {
		child, err := fromItem(item)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func fromTag(tag cbor.Tag) (*tagtree.Node, error) {
	if tag.Number == SetTagNumber {
		items, ok := tag.Content.([]any)
		if !ok {
			return nil, fmt.Errorf("codec: set tag content is %T, want array", tag.Content)
		}
		children, err := fromItems(items)
		if err != nil {
			return nil, err
		}
		return tagtree.Set(children...), nil
	}

	if tag.Number&^(rangeMask|0xFF<<32|0xFFFFFFFF) != 0 {
		return nil, fmt.Errorf("codec: unknown CBOR tag %d", tag.Number)
	}
	identifier := uint8(tag.Number >> 32)
	if identifier&0x1F != 0 {
		return nil, fmt.Errorf("codec: CBOR tag %d has a malformed identifier", tag.Number)
	}
	nodeTag := tagFromNumber(tag.Number)

	switch tag.Number & rangeMask {
	case ExplicitTagNumberRange:
		if !nodeTag.Constructed() {
			return nil, fmt.Errorf("codec: explicit tag %s must be constructed", nodeTag)
		}
		inner, err := fromItem(tag.Content)
		if err != nil {
			return nil, err
		}
		return inner.Explicit(nodeTag), nil

	case BaseTagNumberRange:
		if !nodeTag.Constructed() {
			content, ok := tag.Content.([]byte)
			if !ok {
				return nil, fmt.Errorf("codec: primitive tag %s content is %T, want byte string", nodeTag, tag.Content)
			}
			return tagtree.Primitive(nodeTag, content), nil
		}
		items, ok := tag.Content.([]any)
		if !ok {
			return nil, fmt.Errorf("codec: constructed tag %s content is %T, want array", nodeTag, tag.Content)
		}
		children, err := fromItems(items)
		if err != nil {
			return nil, err
		}
		return tagtree.Constructed(nodeTag, children...), nil
	}
	return nil, fmt.Errorf("codec: unknown CBOR tag %d", tag.Number)
}
