// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tagtree

import (
	"encoding/binary"
	"math"
)

// canonicalNaN stands in for every NaN payload, since Equal treats all
// NaNs as one value.
var canonicalNaN = math.Float64bits(math.NaN())

// Identity returns a string that two trees share exactly when Equal
// reports them equal, so it can key a Go map. The string is a compact
// self-delimiting rendering of the tree and is not a wire format.
func Identity(node *Node) string {
	if node == nil {
		return ""
	}
	return string(appendIdentity(nil, node))
}

func appendIdentity(dst []byte, node *Node) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(node.tags)))
	for _, tag := range node.tags {
		dst = append(dst, byte(tag.Class), byte(tag.Format))
		dst = binary.AppendUvarint(dst, uint64(tag.ID))
	}
	dst = append(dst, byte(node.kind))

	switch node.kind {
	case KindBoolean:
		if node.boolean {
			return append(dst, 1)
		}
		return append(dst, 0)
	case KindInteger:
		dst = append(dst, byte(node.integer.Sign()+1))
		return appendBytes(dst, node.integer.Bytes())
	case KindReal:
		bits := math.Float64bits(node.real)
		if math.IsNaN(node.real) {
			bits = canonicalNaN
		}
		return binary.BigEndian.AppendUint64(dst, bits)
	case KindOctetString, KindUTF8String, KindPrimitive:
		return appendBytes(dst, node.content)
	case KindConstructed:
		dst = binary.AppendUvarint(dst, uint64(len(node.children)))
		for _, child := range node.children {
			dst = appendIdentity(dst, child)
		}
	}
	return dst
}

func appendBytes(dst, content []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(content)))
	return append(dst, content...)
}
