// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package objhash computes cryptographic digests of Go values by
// hashing their canonical encoding.
//
// Because the default transcoder sorts mapping keys and set items, two
// mappings with the same content hash identically regardless of how
// they were built:
//
//	a := transcode.NewMap("x", 1, "y", 2)
//	b := transcode.NewMap("y", 2, "x", 1)
//	objhash.Sum(a) // equals objhash.Sum(b)
//
// The default is BLAKE3-256 (zeebo/blake3) over DER. SHA-2, SHA-3 and
// BLAKE2b are available by name through [ParseAlgorithm] and
// [WithAlgorithm]; [WithDomain] gives domain-separated BLAKE3 digests.
// Digests are always computed over uncompressed canonical bytes.
package objhash
