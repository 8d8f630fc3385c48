// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tagtree

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
)

// Kind is the payload category of a node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindReal
	KindOctetString
	KindUTF8String
	// KindPrimitive is an opaque primitive with raw content octets,
	// used for tags that have no dedicated kind (OBJECT IDENTIFIER,
	// application-class primitives, ...).
	KindPrimitive
	// KindConstructed has an ordered list of children.
	KindConstructed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindOctetString:
		return "octet-string"
	case KindUTF8String:
		return "utf8-string"
	case KindPrimitive:
		return "primitive"
	case KindConstructed:
		return "constructed"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Node is one element of a tagged value tree. Nodes are immutable once
// built: constructors take ownership of the slices passed to them and
// accessors return shared (not copied) data, which callers must not
// modify.
type Node struct {
	tags     TagSet
	kind     Kind
	boolean  bool
	integer  *big.Int
	real     float64
	content  []byte
	children []*Node
}

// Null returns a NULL node.
func Null() *Node {
	return &Node{tags: TagSet{TagNull}, kind: KindNull}
}

// Boolean returns a BOOLEAN node.
func Boolean(value bool) *Node {
	return &Node{tags: TagSet{TagBoolean}, kind: KindBoolean, boolean: value}
}

// Integer returns an INTEGER node. A nil value is treated as zero.
func Integer(value *big.Int) *Node {
	if value == nil {
		value = new(big.Int)
	}
	return &Node{tags: TagSet{TagInteger}, kind: KindInteger, integer: value}
}

// Int64 is shorthand for Integer(big.NewInt(value)).
func Int64(value int64) *Node {
	return Integer(big.NewInt(value))
}

// Real returns a REAL node.
func Real(value float64) *Node {
	return &Node{tags: TagSet{TagReal}, kind: KindReal, real: value}
}

// OctetString returns an OCTET STRING node holding value unchanged.
func OctetString(value []byte) *Node {
	return &Node{tags: TagSet{TagOctetString}, kind: KindOctetString, content: value}
}

// UTF8String returns a UTF8String node. The caller is responsible for
// value being valid UTF-8; decoders check it.
func UTF8String(value []byte) *Node {
	return &Node{tags: TagSet{TagUTF8String}, kind: KindUTF8String, content: value}
}

// Sequence returns a universal SEQUENCE of children.
func Sequence(children ...*Node) *Node {
	return &Node{tags: TagSet{TagSequence}, kind: KindConstructed, children: children}
}

// Set returns a universal SET of children. Children keep the order
// given here; DER serialization sorts them by encoding.
func Set(children ...*Node) *Node {
	return &Node{tags: TagSet{TagSetOf}, kind: KindConstructed, children: children}
}

// Primitive returns an opaque primitive node under tag. The tag's
// format bit is forced to FormatSimple.
func Primitive(tag Tag, content []byte) *Node {
	tag.Format = FormatSimple
	return &Node{tags: TagSet{tag}, kind: KindPrimitive, content: content}
}

// Constructed returns a constructed node under tag. A non-universal
// tag with exactly one child is an explicit tag on that child, and is
// returned as child.Explicit(tag), which is the only reading a TLV
// decoder can recover from the bytes.
func Constructed(tag Tag, children ...*Node) *Node {
	tag.Format = FormatConstructed
	if tag.Class != ClassUniversal && len(children) == 1 {
		return children[0].Explicit(tag)
	}
	return &Node{tags: TagSet{tag}, kind: KindConstructed, children: children}
}

// Explicit returns a shallow copy of n wrapped in one more explicit
// tag. The tag's format bit is forced to FormatConstructed.
func (n *Node) Explicit(tag Tag) *Node {
	tag.Format = FormatConstructed
	wrapped := *n
	wrapped.tags = n.tags.Explicit(tag)
	return &wrapped
}

// Tags returns the node's full tag set.
func (n *Node) Tags() TagSet { return n.tags }

// Kind returns the payload kind.
func (n *Node) Kind() Kind { return n.kind }

// Bool returns the BOOLEAN payload.
func (n *Node) Bool() bool { return n.boolean }

// Int returns the INTEGER payload, or nil for other kinds.
func (n *Node) Int() *big.Int { return n.integer }

// Float returns the REAL payload.
func (n *Node) Float() float64 { return n.real }

// Bytes returns the content octets of string and primitive nodes.
func (n *Node) Bytes() []byte { return n.content }

// Children returns the children of a constructed node.
func (n *Node) Children() []*Node { return n.children }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Equal reports whether two trees have identical tags, kinds and
// payloads. Reals compare bitwise except that all NaNs are equal.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || !a.tags.Equal(b.tags) {
		return false
	}
	switch a.kind {
	case KindBoolean:
		return a.boolean == b.boolean
	case KindInteger:
		return a.integer.Cmp(b.integer) == 0
	case KindReal:
		if math.IsNaN(a.real) && math.IsNaN(b.real) {
			return true
		}
		return math.Float64bits(a.real) == math.Float64bits(b.real)
	case KindOctetString, KindUTF8String, KindPrimitive:
		return bytes.Equal(a.content, b.content)
	case KindConstructed:
		if len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if !Equal(a.children[i], b.children[i]) {
				return false
			}
		}
	}
	return true
}
