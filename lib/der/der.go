// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package der

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"unicode/utf8"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/bureau-foundation/canon/lib/tagtree"
)

// ErrMalformed is wrapped by every error Unmarshal returns for input
// that is not a single canonical DER element.
var ErrMalformed = errors.New("der: malformed encoding")

// MaxNesting bounds the constructed-element depth Unmarshal accepts.
// Each explicit wrapper counts as one level.
const MaxNesting = 1024

// maxTagNumber is the largest tag number that fits the low-tag-number
// identifier form. cryptobyte does not support the high-tag form.
const maxTagNumber = 30

var realTag = asn1.Tag(tagtree.TagReal.ID)

// Marshal returns the DER encoding of node.
func Marshal(node *tagtree.Node) ([]byte, error) {
	if node == nil {
		return nil, fmt.Errorf("der: cannot marshal nil node")
	}
	builder := cryptobyte.NewBuilder(nil)
	var encoder encoder
	encoder.addNode(builder, node)
	if encoder.err != nil {
		return nil, encoder.err
	}
	return builder.Bytes()
}

// Unmarshal parses exactly one DER element from data. Trailing bytes
// are an error.
func Unmarshal(data []byte) (*tagtree.Node, error) {
	input := cryptobyte.String(data)
	node, err := readNode(&input, 0)
	if err != nil {
		return nil, err
	}
	if !input.Empty() {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(input))
	}
	return node, nil
}

// Codec adapts Marshal and Unmarshal to the node codec interface used
// by the transcoder.
type Codec struct{}

// MarshalNode calls Marshal.
func (Codec) MarshalNode(node *tagtree.Node) ([]byte, error) { return Marshal(node) }

// UnmarshalNode calls Unmarshal.
func (Codec) UnmarshalNode(data []byte) (*tagtree.Node, error) { return Unmarshal(data) }

// encoder carries the first error seen while filling builders, since
// cryptobyte continuations cannot return one.
type encoder struct {
	err error
}

func (e *encoder) fail(format string, args ...any) {
	if e.err == nil {
		e.err = fmt.Errorf("der: "+format, args...)
	}
}

func (e *encoder) addNode(builder *cryptobyte.Builder, node *tagtree.Node) {
	tags := node.Tags()
	if len(tags) == 0 {
		e.fail("node has no tags")
		return
	}
	e.addLevel(builder, node, len(tags)-1)
}

// addLevel writes the tag at tags[level] around the encoding of the
// levels below it. Level zero is the base element.
func (e *encoder) addLevel(builder *cryptobyte.Builder, node *tagtree.Node, level int) {
	if e.err != nil {
		return
	}
	if level == 0 {
		e.addBase(builder, node)
		return
	}
	tag := node.Tags()[level]
	identifier, ok := e.identifier(tag)
	if !ok {
		return
	}
	if !tag.Constructed() {
		e.fail("explicit tag %s must be constructed", tag)
		return
	}
	builder.AddASN1(identifier, func(child *cryptobyte.Builder) {
		e.addLevel(child, node, level-1)
	})
}

func (e *encoder) addBase(builder *cryptobyte.Builder, node *tagtree.Node) {
	base := node.Tags().Base()
	identifier, ok := e.identifier(base)
	if !ok {
		return
	}

	switch node.Kind() {
	case tagtree.KindNull:
		builder.AddASN1NULL()
	case tagtree.KindBoolean:
		builder.AddASN1Boolean(node.Bool())
	case tagtree.KindInteger:
		builder.AddASN1BigInt(node.Int())
	case tagtree.KindReal:
		builder.AddASN1(realTag, func(child *cryptobyte.Builder) {
			child.AddBytes(encodeReal(node.Float()))
		})
	case tagtree.KindOctetString:
		builder.AddASN1OctetString(node.Bytes())
	case tagtree.KindUTF8String, tagtree.KindPrimitive:
		builder.AddASN1(identifier, func(child *cryptobyte.Builder) {
			child.AddBytes(node.Bytes())
		})
	case tagtree.KindConstructed:
		if !base.Constructed() {
			e.fail("constructed node with primitive tag %s", base)
			return
		}
		if base == tagtree.TagSetOf {
			e.addSortedChildren(builder, identifier, node.Children())
			return
		}
		builder.AddASN1(identifier, func(child *cryptobyte.Builder) {
			for _, element := range node.Children() {
				e.addNode(child, element)
			}
		})
	default:
		e.fail("unknown node kind %s", node.Kind())
	}
}

// addSortedChildren writes a SET whose elements are ordered by their
// encodings, as X.690 §11.6 requires.
func (e *encoder) addSortedChildren(builder *cryptobyte.Builder, identifier asn1.Tag, children []*tagtree.Node) {
	encoded := make([][]byte, 0, len(children))
	for _, element := range children {
		elementBuilder := cryptobyte.NewBuilder(nil)
		e.addNode(elementBuilder, element)
		if e.err != nil {
			return
		}
		data, err := elementBuilder.Bytes()
		if err != nil {
			e.err = err
			return
		}
		encoded = append(encoded, data)
	}
	slices.SortFunc(encoded, bytes.Compare)
	builder.AddASN1(identifier, func(child *cryptobyte.Builder) {
		for _, data := range encoded {
			child.AddBytes(data)
		}
	})
}

func (e *encoder) identifier(tag tagtree.Tag) (asn1.Tag, bool) {
	if tag.ID > maxTagNumber {
		e.fail("tag number %d in %s needs the high-tag-number form, which is not supported", tag.ID, tag)
		return 0, false
	}
	return asn1.Tag(uint8(tag.Class) | uint8(tag.Format) | uint8(tag.ID)), true
}

func fromIdentifier(identifier asn1.Tag) tagtree.Tag {
	return tagtree.Tag{
		Class:  tagtree.Class(identifier & 0xC0),
		Format: tagtree.Format(identifier & 0x20),
		ID:     uint32(identifier & 0x1F),
	}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...)
}

func readNode(input *cryptobyte.String, depth int) (*tagtree.Node, error) {
	if depth > MaxNesting {
		return nil, malformed("nesting deeper than %d", MaxNesting)
	}

	var element cryptobyte.String
	var identifier asn1.Tag
	if !input.ReadAnyASN1Element(&element, &identifier) {
		return nil, malformed("invalid element header or length")
	}
	tag := fromIdentifier(identifier)

	switch tag {
	case tagtree.TagNull:
		var content cryptobyte.String
		if !element.ReadASN1(&content, asn1.NULL) || !content.Empty() {
			return nil, malformed("NULL with content")
		}
		return tagtree.Null(), nil

	case tagtree.TagBoolean:
		var value bool
		if !element.ReadASN1Boolean(&value) {
			return nil, malformed("BOOLEAN must be one octet of 0x00 or 0xFF")
		}
		return tagtree.Boolean(value), nil

	case tagtree.TagInteger:
		value := new(big.Int)
		if !element.ReadASN1Integer(value) {
			return nil, malformed("INTEGER is empty or not minimally encoded")
		}
		return tagtree.Integer(value), nil

	case tagtree.TagReal:
		var content cryptobyte.String
		element.ReadASN1(&content, realTag)
		value, err := decodeReal(content)
		if err != nil {
			return nil, malformed("REAL: %v", err)
		}
		return tagtree.Real(value), nil

	case tagtree.TagOctetString:
		var content []byte
		element.ReadASN1Bytes(&content, asn1.OCTET_STRING)
		return tagtree.OctetString(content), nil

	case tagtree.TagUTF8String:
		var content []byte
		element.ReadASN1Bytes(&content, asn1.UTF8String)
		if !utf8.Valid(content) {
			return nil, malformed("UTF8String is not valid UTF-8")
		}
		return tagtree.UTF8String(content), nil
	}

	var content cryptobyte.String
	element.ReadAnyASN1(&content, &identifier)
	if !tag.Constructed() {
		return tagtree.Primitive(tag, content), nil
	}

	var children []*tagtree.Node
	var previous []byte
	for !content.Empty() {
		remaining := content
		child, err := readNode(&content, depth+1)
		if err != nil {
			return nil, err
		}
		if tag == tagtree.TagSetOf {
			encoded := remaining[:len(remaining)-len(content)]
			if previous != nil && bytes.Compare(previous, encoded) > 0 {
				return nil, malformed("SET elements are not sorted by encoding")
			}
			previous = encoded
		}
		children = append(children, child)
	}

	// A non-universal constructed element holding exactly one element
	// is an explicit tag on that element.
	if tag.Class != tagtree.ClassUniversal && len(children) == 1 {
		return children[0].Explicit(tag), nil
	}
	switch tag {
	case tagtree.TagSequence:
		return tagtree.Sequence(children...), nil
	case tagtree.TagSetOf:
		return tagtree.Set(children...), nil
	}
	return tagtree.Constructed(tag, children...), nil
}
