// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package valuefile reads JSON, JSONC and YAML documents into the
// application values the transcode package encodes.
//
// Documents map onto value shapes as follows:
//
//	null                  nil
//	true, false           bool
//	integers              int64, or *big.Int beyond 64 bits
//	other numbers         float64 (YAML .inf and .nan included)
//	strings               string
//	arrays, sequences     transcode.List
//	objects, mappings     *transcode.Map, keys in document order
//	!!binary              []byte
//	!tuple [..]           transcode.Tuple
//	!set [..], !!set {..} *transcode.Set
//	!complex [re, im]     complex128
//
// JSONC input is normalized by github.com/tidwall/jsonc, which strips
// comments and trailing commas. YAML is read as a node tree with
// gopkg.in/yaml.v3; aliases are expanded under a depth and size bound
// and merge keys (<<) are honored. YAML mapping keys and set items may
// be any value, composites included.
package valuefile
