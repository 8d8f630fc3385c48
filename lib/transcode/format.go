// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Format renders a value for humans: tuples in parentheses, lists in
// brackets, mappings and sets in braces, byte strings as h'..' hex.
// Mappings print in their native order; Go maps and sets print sorted
// by Compare so the output is stable. Nesting deeper than
// DefaultMaxDepth prints as "...".
func Format(value any) string {
	var builder strings.Builder
	format(&builder, reflect.ValueOf(value), 0)
	return builder.String()
}

func format(b *strings.Builder, rv reflect.Value, depth int) {
	if depth > DefaultMaxDepth {
		b.WriteString("...")
		return
	}
	rv = indirect(rv)
	switch shapeOf(rv) {
	case shapeNull:
		b.WriteString("null")
	case shapeBool:
		b.WriteString(strconv.FormatBool(rv.Bool()))
	case shapeInteger:
		b.WriteString(bigInt(rv).String())
	case shapeReal:
		b.WriteString(formatReal(rv.Float()))
	case shapeComplex:
		c := rv.Complex()
		fmt.Fprintf(b, "complex(%s, %s)", formatReal(real(c)), formatReal(imag(c)))
	case shapeBytes:
		b.WriteString("h'" + hex.EncodeToString(byteContent(rv)) + "'")
	case shapeText:
		b.WriteString(strconv.Quote(rv.String()))
	case shapeTuple:
		formatSequence(b, rv, "(", ")", depth)
	case shapeList:
		formatSequence(b, rv, "[", "]", depth)
	case shapeMapping:
		b.WriteString("{")
		for i, item := range formatEntries(rv) {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, reflect.ValueOf(item.key), depth+1)
			b.WriteString(": ")
			format(b, item.value, depth+1)
		}
		b.WriteString("}")
	case shapeSet:
		b.WriteString("set{")
		for i, item := range formatEntries(rv) {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, reflect.ValueOf(item.key), depth+1)
		}
		b.WriteString("}")
	default:
		fmt.Fprintf(b, "%s(%v)", rv.Type(), rv.Interface())
	}
}

func formatReal(f float64) string {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(text, ".eEIN") {
		return text
	}
	return text + ".0"
}

func formatSequence(b *strings.Builder, rv reflect.Value, open, end string, depth int) {
	b.WriteString(open)
	for i := range rv.Len() {
		if i > 0 {
			b.WriteString(", ")
		}
		format(b, rv.Index(i), depth+1)
	}
	b.WriteString(end)
}

func formatEntries(rv reflect.Value) []entry {
	entries := mapEntries(rv)
	if rv.Type() != mapPtrType {
		slices.SortStableFunc(entries, func(x, y entry) int { return Compare(x.key, y.key) })
	}
	return entries
}
