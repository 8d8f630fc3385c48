// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is. Every failure the Encoder
// and Decoder detect themselves wraps one of them. Errors returned by
// registry functions are passed through unchanged inside an *Error.
var (
	// ErrTypeNotSupported: the value or node matches no built-in rule
	// and has no registry entry.
	ErrTypeNotSupported = errors.New("type not supported")

	// ErrBadRegistryEntry: a registry entry exists but is nil, or an
	// encode function returned neither a node nor an error.
	ErrBadRegistryEntry = errors.New("bad registry entry")

	// ErrInvalidEncoding: text is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid text encoding")

	// ErrMalformedInput: the codec rejected the bytes, or a node does
	// not have the structure its discriminator requires.
	ErrMalformedInput = errors.New("malformed input")

	// ErrCyclicValue: a container holds itself.
	ErrCyclicValue = errors.New("cyclic value")

	// ErrMaxDepthExceeded: nesting is deeper than Options.MaxDepth.
	ErrMaxDepthExceeded = errors.New("maximum depth exceeded")

	// ErrDuplicateKey: two keys of an encoded mapping share a node, or
	// a decoded mapping repeats a key and Options.StrictKeys is set.
	ErrDuplicateKey = errors.New("duplicate mapping key")
)

// Error reports where encoding or decoding failed. Path is rooted at
// "$". On encode it walks the Go value: "$[2]" is the third element of
// a sequence, `$["name"]` the value under key "name", `${"a"}` a set
// item, "$.real" the real part of a complex number. On decode it walks
// the node tree by child position, so "$[1][0]" is the key of the
// second pair of a mapping.
type Error struct {
	Op   string // "encode" or "decode"
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transcode: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// failf builds a sentinel-wrapping error with a formatted detail.
func failf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}

// walk tracks the position and depth of one Encode or Decode call.
type walk struct {
	op       string
	depth    int
	maxDepth int
	path     []string
}

func (w *walk) fail(err error) error {
	return &Error{Op: w.op, Path: "$" + strings.Join(w.path, ""), Err: err}
}

// failAt reports err at a child of the current position without
// entering it.
func (w *walk) failAt(segment string, err error) error {
	return &Error{Op: w.op, Path: "$" + strings.Join(w.path, "") + segment, Err: err}
}

// descend enters a child. The caller must call ascend afterwards even
// when descend fails.
func (w *walk) descend(segment string) error {
	w.path = append(w.path, segment)
	w.depth++
	if w.depth > w.maxDepth {
		return w.fail(failf(ErrMaxDepthExceeded, "nesting deeper than %d", w.maxDepth))
	}
	return nil
}

func (w *walk) ascend() {
	w.path = w.path[:len(w.path)-1]
	w.depth--
}
