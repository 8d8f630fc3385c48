// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for canon
// commands.
//
// Configuration is loaded from a single file named either by the
// CANON_CONFIG environment variable (via [Load]) or by a --config flag
// (via [LoadFile]). There is no discovery and no file search. Without
// a file, commands use [Default].
//
// A configuration selects the ordering policy, the binary codec, the
// digest algorithm, the nesting limit, duplicate-key strictness and
// output compression:
//
//	ordering: ascending     # ascending | descending | disabled
//	codec: der              # der | cbor
//	hash: blake3            # blake3 | blake2b-256 | sha256 | sha512 | sha3-256 | sha3-512
//	hash_domain: ""         # BLAKE3 derive-key context
//	max_depth: 512
//	strict_keys: false
//	compression: none       # none | lz4 | zstd
//
// Unknown fields are errors. [Config.Validate] reports every invalid
// field at once. [Config.Transcoder] and [Config.HashOptions] turn a
// validated configuration into the objects commands use.
package config
