// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tagtree

import (
	"fmt"
	"strings"
)

// Class is the tag class from the X.690 identifier octet. The values
// are the identifier bits themselves, so Class|Format|ID (for ID < 31)
// is the single-octet identifier.
type Class uint8

const (
	ClassUniversal   Class = 0x00
	ClassApplication Class = 0x40
	ClassContext     Class = 0x80
	ClassPrivate     Class = 0xC0
)

// Format distinguishes primitive encodings from constructed ones.
type Format uint8

const (
	FormatSimple      Format = 0x00
	FormatConstructed Format = 0x20
)

// Tag is one ASN.1 tag: class, format and tag number.
type Tag struct {
	Class  Class
	Format Format
	ID     uint32
}

// String renders the tag as "[class:format:id]" with decimal fields,
// for example "[128:32:4]". The rendering contains no object identity
// and is stable across processes, which is what lets it serve as a
// registry key.
func (t Tag) String() string {
	return fmt.Sprintf("[%d:%d:%d]", t.Class, t.Format, t.ID)
}

// Constructed reports whether the tag uses the constructed format.
func (t Tag) Constructed() bool {
	return t.Format == FormatConstructed
}

// Universal tags with a dedicated Kind.
var (
	TagBoolean          = Tag{ClassUniversal, FormatSimple, 1}
	TagInteger          = Tag{ClassUniversal, FormatSimple, 2}
	TagOctetString      = Tag{ClassUniversal, FormatSimple, 4}
	TagNull             = Tag{ClassUniversal, FormatSimple, 5}
	TagObjectIdentifier = Tag{ClassUniversal, FormatSimple, 6}
	TagReal             = Tag{ClassUniversal, FormatSimple, 9}
	TagUTF8String       = Tag{ClassUniversal, FormatSimple, 12}
	TagSequence         = Tag{ClassUniversal, FormatConstructed, 16}
	TagSetOf            = Tag{ClassUniversal, FormatConstructed, 17}
)

// ContextTag returns the constructed context-specific tag with the
// given number. Explicit tags are always constructed because they
// contain exactly one complete inner encoding.
func ContextTag(id uint32) Tag {
	return Tag{Class: ClassContext, Format: FormatConstructed, ID: id}
}

// TagSet is the full tag path of a node: the base tag first, followed
// by each explicit wrapper from innermost to outermost.
type TagSet []Tag

// String joins the tags with "+", for example
// "[0:32:16]+[128:32:4]".
func (s TagSet) String() string {
	parts := make([]string, len(s))
	for i, tag := range s {
		parts[i] = tag.String()
	}
	return strings.Join(parts, "+")
}

// Base returns the innermost tag. Panics on an empty set.
func (s TagSet) Base() Tag {
	return s[0]
}

// Equal reports whether both sets hold the same tags in the same order.
func (s TagSet) Equal(other TagSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Explicit returns a new set with tag appended as the outermost
// wrapper. The receiver is not modified.
func (s TagSet) Explicit(tag Tag) TagSet {
	result := make(TagSet, len(s), len(s)+1)
	copy(result, s)
	return append(result, tag)
}

// Stringify renders one tag or a sequence of tags the same way
// TagSet.String does. Handy in test failure messages and logs.
func Stringify(tags ...Tag) string {
	return TagSet(tags).String()
}
