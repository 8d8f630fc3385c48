// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package objhash

import (
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/canon/lib/der"
	"github.com/bureau-foundation/canon/lib/transcode"
)

var defaultTranscoder = transcode.New(der.Codec{}, transcode.Options{})

// Hasher accumulates a digest over the canonical encodings of values.
// Like hash.Hash it is not safe for concurrent use.
type Hasher struct {
	transcoder *transcode.Transcoder
	newHash    func() hash.Hash
	state      hash.Hash
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithAlgorithm selects a named digest algorithm.
func WithAlgorithm(algorithm Algorithm) Option {
	return func(h *Hasher) { h.newHash = algorithm.New }
}

// WithHash selects an arbitrary digest constructor.
func WithHash(newHash func() hash.Hash) Option {
	return func(h *Hasher) { h.newHash = newHash }
}

// WithDomain selects BLAKE3 in key derivation mode with context as the
// domain string, so the same values hash differently in different
// domains. Context strings should be hardcoded, globally unique and
// application specific.
func WithDomain(context string) Option {
	return func(h *Hasher) {
		h.newHash = func() hash.Hash { return blake3.NewDeriveKey(context) }
	}
}

// WithTranscoder replaces the default transcoder (DER, ascending
// order, empty registry). Use it to hash registry types or to hash the
// CBOR encoding instead.
func WithTranscoder(transcoder *transcode.Transcoder) Option {
	return func(h *Hasher) { h.transcoder = transcoder }
}

// New returns a Hasher. By default it computes BLAKE3-256 over DER.
func New(options ...Option) *Hasher {
	h := &Hasher{transcoder: defaultTranscoder, newHash: BLAKE3.New}
	for _, option := range options {
		option(h)
	}
	h.state = h.newHash()
	return h
}

// Update feeds the canonical encoding of each value to the digest, in
// order. Encodings are self-delimiting, so Update(a, b) and Update(a)
// followed by Update(b) produce the same digest. If any value fails to
// encode, nothing is written.
func (h *Hasher) Update(values ...any) error {
	encoded := make([][]byte, 0, len(values))
	for i, value := range values {
		data, err := h.transcoder.Marshal(value)
		if err != nil {
			return fmt.Errorf("objhash: encoding value %d: %w", i, err)
		}
		encoded = append(encoded, data)
	}
	for _, data := range encoded {
		h.state.Write(data)
	}
	return nil
}

// Sum appends the current digest to b without changing the state.
func (h *Hasher) Sum(b []byte) []byte { return h.state.Sum(b) }

// Digest returns the current digest.
func (h *Hasher) Digest() []byte { return h.state.Sum(nil) }

// HexDigest returns the current digest in lowercase hex.
func (h *Hasher) HexDigest() string { return FormatDigest(h.Digest()) }

// Size returns the digest length in bytes.
func (h *Hasher) Size() int { return h.state.Size() }

// Reset discards everything written so far.
func (h *Hasher) Reset() { h.state.Reset() }

// Sum returns the digest of a single value.
func Sum(value any, options ...Option) ([]byte, error) {
	h := New(options...)
	if err := h.Update(value); err != nil {
		return nil, err
	}
	return h.Digest(), nil
}

// FormatDigest returns the hex encoding of a digest. This is the format
// the CLI prints.
func FormatDigest(digest []byte) string {
	return hex.EncodeToString(digest)
}

// ParseDigest parses a hex digest and checks that it is size bytes
// long.
func ParseDigest(hexString string, size int) ([]byte, error) {
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != size {
		return nil, fmt.Errorf("digest is %d bytes, want %d", len(decoded), size)
	}
	return decoded, nil
}
