// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcode maps Go values to canonical tagged node trees and
// back.
//
// An [Encoder] walks a value and builds a [tagtree.Node]. Scalars become
// universal primitives; composite shapes that a TLV codec would write
// identically (complex numbers, tuples, lists, mappings and sets) get an
// explicit context tag from the tag scheme in package tagtree. Mapping
// keys and set items are sorted before they become children (see
// [Ordering]), so equal values produce equal trees and, through a
// deterministic [Codec], equal bytes. That is what makes digests over
// the encoding stable. Keys of a Go map that encode to the same node
// (int(1) and int64(1)) are rejected with [ErrDuplicateKey] rather than
// emitted in runtime iteration order.
//
// A [Decoder] reverses the mapping. The round trip preserves value
// (see [Equal]) but not Go type: every integer comes back as int64 or
// *big.Int, every non-List sequence as [Tuple], every mapping as *[Map].
//
// Types and tag sets outside the built-in shapes take part through a
// [Registry] of encode and decode functions supplied in [Options].
//
// A [Transcoder] composes both directions with a [Codec]:
//
//	transcoder := transcode.New(der.Codec{}, transcode.Options{})
//	data, err := transcoder.Marshal(transcode.NewMap("b", 2, "a", 1))
//	value, err := transcoder.Unmarshal(data)
//
// Encoder, Decoder and Transcoder are immutable after construction and
// keep all traversal state per call. Encoding fails with
// [ErrCyclicValue] on a container that holds itself and with
// [ErrMaxDepthExceeded] past [Options].MaxDepth.
package transcode
