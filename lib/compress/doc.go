// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress wraps encoded bytes in a small self-describing frame
// compressed with zstd (klauspost/compress) or LZ4 (pierrec/lz4).
//
// Compression is for storage and transport only. Digests are always
// computed over the uncompressed canonical encoding, so the same value
// hashes identically however it was stored.
package compress
