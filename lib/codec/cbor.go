// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): smallest integer and float encodings,
// bignums only when the value does not fit an integer, no
// indefinite-length items. Same node tree always produces identical
// bytes.
var encMode cbor.EncMode

// decMode is the CBOR decoder used for node trees. Bignums decode to
// *big.Int so they can be handed to tagtree.Integer without a copy.
var decMode cbor.DecMode

// maxNestedLevels bounds arrays plus tags. Every discriminated shape
// costs two levels (tag and array), so the library default of 32 is
// far too shallow for nested values.
const maxNestedLevels = 2048

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxNestedLevels: maxNestedLevels,
		BigIntDec:       cbor.BigIntDecodePointer,
		// Canonical input never uses indefinite lengths; rejecting
		// them keeps decode(encode(x)) the only accepted path.
		IndefLength: cbor.IndefLengthForbidden,
		UTF8:        cbor.UTF8RejectInvalid,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// DiagnoseFirst returns the CBOR diagnostic notation for the first
// data item in data, along with the remaining unconsumed bytes. Use
// this to process CBOR sequences one item at a time.
func DiagnoseFirst(data []byte) (string, []byte, error) {
	return cbor.DiagnoseFirst(data)
}
