// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tagtree defines the tagged value tree that sits between Go
// application values and their binary encodings.
//
// A [Node] carries a [TagSet] (the base tag followed by any explicit
// wrapper tags), a [Kind], and either a scalar payload or an ordered
// list of children. The tree mirrors ASN.1 closely enough that a DER
// codec can serialize it without further interpretation, while staying
// independent of any particular codec.
//
// The tag scheme assigns five explicit context tags to the shapes a
// TLV codec cannot tell apart on its own:
//
//	complex  [0:32:16]+[128:32:1]
//	tuple    [0:32:16]+[128:32:2]
//	list     [0:32:16]+[128:32:3]
//	mapping  [0:32:16]+[128:32:4]
//	set      [0:32:17]+[128:32:5]
//
// [TagSet.String] produces these identity strings. They contain no
// pointers or process-specific state, so registries can key decoders
// on them.
//
// This package has no dependencies outside the standard library.
package tagtree
