// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tagtree

// Discriminator numbers. Each is applied as an explicit context tag
// around a universal SEQUENCE (or SET, for sets), so shapes that a
// TLV codec would otherwise write identically stay distinguishable.
// These values are protocol constants: changing one changes the bytes
// (and therefore every digest) of every value of that shape.
const (
	DiscriminatorComplex uint32 = 1
	DiscriminatorTuple   uint32 = 2
	DiscriminatorList    uint32 = 3
	DiscriminatorMapping uint32 = 4
	DiscriminatorSet     uint32 = 5
)

// Full tag sets of the five discriminated shapes.
var (
	ComplexTags = TagSet{TagSequence, ContextTag(DiscriminatorComplex)}
	TupleTags   = TagSet{TagSequence, ContextTag(DiscriminatorTuple)}
	ListTags    = TagSet{TagSequence, ContextTag(DiscriminatorList)}
	MappingTags = TagSet{TagSequence, ContextTag(DiscriminatorMapping)}
	SetTags     = TagSet{TagSetOf, ContextTag(DiscriminatorSet)}
)

// Discriminated builds a discriminated node: a SEQUENCE (or SET when
// discriminator is DiscriminatorSet) of children wrapped in the
// explicit context tag for the discriminator.
func Discriminated(discriminator uint32, children ...*Node) *Node {
	var inner *Node
	if discriminator == DiscriminatorSet {
		inner = Set(children...)
	} else {
		inner = Sequence(children...)
	}
	return inner.Explicit(ContextTag(discriminator))
}
