// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tagtree

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented, one-node-per-line rendering of the tree to
// w: the tag identity, the kind, and the payload or child count.
//
//	[0:32:16]+[128:32:4] constructed (1)
//	  [0:32:16]+[128:32:2] constructed (2)
//	    [0:0:12] utf8-string "foo"
//	    [0:0:2] integer 42
func Dump(w io.Writer, node *Node) error {
	return dump(w, node, 0)
}

// DumpString returns the Dump rendering as a string.
func DumpString(node *Node) string {
	var builder strings.Builder
	dump(&builder, node, 0)
	return builder.String()
}

func dump(w io.Writer, node *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if node == nil {
		_, err := fmt.Fprintf(w, "%s<nil>\n", indent)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s %s%s\n", indent, node.tags, node.kind, payload(node)); err != nil {
		return err
	}
	for _, child := range node.children {
		if err := dump(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func payload(node *Node) string {
	switch node.kind {
	case KindBoolean:
		return " " + strconv.FormatBool(node.boolean)
	case KindInteger:
		return " " + node.integer.String()
	case KindReal:
		return " " + strconv.FormatFloat(node.real, 'g', -1, 64)
	case KindUTF8String:
		return " " + strconv.Quote(string(node.content))
	case KindOctetString, KindPrimitive:
		return fmt.Sprintf(" h'%x'", node.content)
	case KindConstructed:
		return fmt.Sprintf(" (%d)", len(node.children))
	default:
		return ""
	}
}
