// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"fmt"

	"github.com/bureau-foundation/canon/lib/tagtree"
)

// Codec serializes tagged node trees. MarshalNode must be
// deterministic: equal trees always produce identical bytes.
// der.Codec and codec.NodeCodec implement it.
type Codec interface {
	MarshalNode(node *tagtree.Node) ([]byte, error)
	UnmarshalNode(data []byte) (*tagtree.Node, error)
}

// Transcoder composes an Encoder and Decoder with a Codec, going
// straight between Go values and bytes. It is safe for concurrent use
// when its codec is.
type Transcoder struct {
	encoder *Encoder
	decoder *Decoder
	codec   Codec
}

// New returns a transcoder that serializes with codec.
func New(codec Codec, options Options) *Transcoder {
	return &Transcoder{
		encoder: NewEncoder(options),
		decoder: NewDecoder(options),
		codec:   codec,
	}
}

// Marshal encodes value and serializes the node tree. Codec errors are
// returned unchanged.
func (t *Transcoder) Marshal(value any) ([]byte, error) {
	node, err := t.encoder.Encode(value)
	if err != nil {
		return nil, err
	}
	return t.codec.MarshalNode(node)
}

// Unmarshal parses data and decodes the node tree. A codec error is
// wrapped so that it matches both ErrMalformedInput and the codec's own
// error values.
func (t *Transcoder) Unmarshal(data []byte) (any, error) {
	node, err := t.codec.UnmarshalNode(data)
	if err != nil {
		return nil, &Error{Op: "decode", Path: "$", Err: fmt.Errorf("%w: %w", ErrMalformedInput, err)}
	}
	return t.decoder.Decode(node)
}

// Encoder returns the transcoder's encoder.
func (t *Transcoder) Encoder() *Encoder { return t.encoder }

// Decoder returns the transcoder's decoder.
func (t *Transcoder) Decoder() *Decoder { return t.decoder }

// Codec returns the transcoder's codec.
func (t *Transcoder) Codec() Codec { return t.codec }
