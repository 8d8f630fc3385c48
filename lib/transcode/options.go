// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is
// zero.
const DefaultMaxDepth = 512

// Options configure an Encoder, Decoder or Transcoder. The zero value
// sorts ascending, has an empty registry, and uses DefaultMaxDepth.
type Options struct {
	// Ordering applies to mapping keys and set items on encode.
	Ordering Ordering

	// Registry extends both encode and decode dispatch.
	Registry Registry

	// MaxDepth bounds container nesting on both paths. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// StrictKeys makes the decoder reject mappings that repeat a key
	// with ErrDuplicateKey. Without it the last occurrence wins.
	StrictKeys bool
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
