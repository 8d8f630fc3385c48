// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the CBOR node codec for tagged value trees.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// smallest integer and float encodings, no indefinite-length items.
// The same node tree always produces identical bytes, so CBOR output is
// as suitable for hashing as DER.
//
// Nodes map onto CBOR as follows:
//
//   - NULL, BOOLEAN, INTEGER, REAL, OCTET STRING and UTF8String use the
//     native CBOR major types. Integers outside 64 bits are bignums.
//   - SEQUENCE is an array. SET is an array under tag 258.
//   - Any other base tag is a CBOR tag in BaseTagNumberRange whose
//     content is a byte string (primitive) or an array (constructed).
//   - Each explicit wrapper is a CBOR tag in ExplicitTagNumberRange
//     around the wrapped item.
//
// CBOR sets keep the child order they were built with. Ordering of set
// members is the transcoder's job, not the codec's.
//
//	data, err := codec.MarshalNode(node)
//	node, err = codec.UnmarshalNode(data)
package codec
