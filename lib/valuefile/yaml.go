// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package valuefile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/canon/lib/transcode"
)

// Local YAML tags for shapes the core schema has no tag for.
const (
	// TupleTag marks a sequence as a transcode.Tuple.
	TupleTag = "!tuple"
	// SetTag marks a sequence as a transcode.Set. A !!set mapping
	// (keys with null values) is also a set.
	SetTag = "!set"
	// ComplexTag marks a two-element sequence [real, imag] as a
	// complex128.
	ComplexTag = "!complex"
)

const (
	nullTag   = "!!null"
	boolTag   = "!!bool"
	intTag    = "!!int"
	floatTag  = "!!float"
	strTag    = "!!str"
	binaryTag = "!!binary"
	timeTag   = "!!timestamp"
	seqTag    = "!!seq"
	mapTag    = "!!map"
	yamlSet   = "!!set"
	mergeTag  = "!!merge"
)

// decimalInteger matches integers too large for yaml.v3, which
// resolves them as floats.
var decimalInteger = regexp.MustCompile(`^[-+]?[0-9][0-9_]*$`)

func parseYAML(data []byte) (any, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var document yaml.Node
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("valuefile: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("valuefile: YAML input holds more than one document")
	}
	var b budget
	return yamlValue(&document, &b)
}

func yamlValue(node *yaml.Node, b *budget) (any, error) {
	if err := b.count(); err != nil {
		return nil, err
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlValue(node.Content[0], b)
	case yaml.AliasNode:
		if err := b.enter(); err != nil {
			return nil, err
		}
		defer b.leave()
		return yamlValue(node.Alias, b)
	case yaml.ScalarNode:
		return yamlScalar(node)
	case yaml.SequenceNode:
		if err := b.enter(); err != nil {
			return nil, err
		}
		defer b.leave()
		return yamlSequence(node, b)
	case yaml.MappingNode:
		if err := b.enter(); err != nil {
			return nil, err
		}
		defer b.leave()
		if node.ShortTag() == yamlSet {
			return yamlMappingSet(node, b)
		}
		return yamlMapping(node, b)
	}
	return nil, yamlError(node, "unsupported node kind %d", node.Kind)
}

func yamlError(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("valuefile: line %d: %s", node.Line, fmt.Sprintf(format, args...))
}

func yamlWrap(node *yaml.Node, err error) error {
	return fmt.Errorf("valuefile: line %d: %w", node.Line, err)
}

func yamlScalar(node *yaml.Node) (any, error) {
	switch tag := node.ShortTag(); tag {
	case nullTag:
		return nil, nil
	case boolTag:
		var value bool
		if err := node.Decode(&value); err != nil {
			return nil, yamlWrap(node, err)
		}
		return value, nil
	case intTag:
		return yamlInteger(node)
	case floatTag:
		if decimalInteger.MatchString(node.Value) {
			return yamlInteger(node)
		}
		var value float64
		if err := node.Decode(&value); err != nil {
			return nil, yamlWrap(node, err)
		}
		return value, nil
	case strTag, timeTag:
		return node.Value, nil
	case binaryTag:
		value, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(node.Value), ""))
		if err != nil {
			return nil, yamlError(node, "invalid !!binary: %v", err)
		}
		return value, nil
	default:
		return nil, yamlError(node, "unsupported scalar tag %s", tag)
	}
}

func yamlInteger(node *yaml.Node) (any, error) {
	var value int64
	if err := node.Decode(&value); err == nil {
		return value, nil
	}
	text := strings.ReplaceAll(node.Value, "_", "")
	// Base 0 accepts the 0x, 0o and 0b prefixes yaml.v3 does.
	integer, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return nil, yamlError(node, "invalid integer %q", node.Value)
	}
	return integer, nil
}

func yamlSequence(node *yaml.Node, b *budget) (any, error) {
	items := make([]any, 0, len(node.Content))
	for _, child := range node.Content {
		item, err := yamlValue(child, b)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	switch tag := node.ShortTag(); tag {
	case seqTag:
		return transcode.List(items), nil
	case TupleTag:
		return transcode.Tuple(items), nil
	case SetTag:
		set := transcode.NewSet()
		for _, item := range items {
			set.Add(item)
		}
		return set, nil
	case ComplexTag:
		return yamlComplex(node, items)
	default:
		return nil, yamlError(node, "unsupported sequence tag %s", tag)
	}
}

func yamlComplex(node *yaml.Node, items []any) (any, error) {
	if len(items) != 2 {
		return nil, yamlError(node, "%s needs [real, imag], got %d items", ComplexTag, len(items))
	}
	var parts [2]float64
	for i, item := range items {
		switch item := item.(type) {
		case int64:
			parts[i] = float64(item)
		case float64:
			parts[i] = item
		default:
			return nil, yamlError(node, "%s part is %T, want a number", ComplexTag, item)
		}
	}
	return complex(parts[0], parts[1]), nil
}

// yamlMapping builds an ordered map. Merge keys (<<) contribute only
// keys the mapping does not set itself.
func yamlMapping(node *yaml.Node, b *budget) (any, error) {
	if tag := node.ShortTag(); tag != mapTag {
		return nil, yamlError(node, "unsupported mapping tag %s", tag)
	}
	mapping := transcode.NewMap()
	var merges []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == mergeTag {
			merges = append(merges, valueNode)
			continue
		}
		key, err := yamlValue(keyNode, b)
		if err != nil {
			return nil, err
		}
		value, err := yamlValue(valueNode, b)
		if err != nil {
			return nil, err
		}
		mapping.Set(key, value)
	}

	for _, merge := range merges {
		sources := []*yaml.Node{merge}
		if resolved := resolveAlias(merge); resolved.Kind == yaml.SequenceNode {
			sources = resolved.Content
		}
		for _, source := range sources {
			merged, err := yamlValue(source, b)
			if err != nil {
				return nil, err
			}
			mergedMap, ok := merged.(*transcode.Map)
			if !ok {
				return nil, yamlError(merge, "merge value is %T, want a mapping", merged)
			}
			for key, value := range mergedMap.All() {
				if !mapping.Has(key) {
					mapping.Set(key, value)
				}
			}
		}
	}
	return mapping, nil
}

func yamlMappingSet(node *yaml.Node, b *budget) (any, error) {
	set := transcode.NewSet()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if resolveAlias(valueNode).ShortTag() != nullTag {
			return nil, yamlError(valueNode, "!!set values must be null")
		}
		item, err := yamlValue(keyNode, b)
		if err != nil {
			return nil, err
		}
		set.Add(item)
	}
	return set, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for depth := 0; node.Kind == yaml.AliasNode && node.Alias != nil && depth < MaxDepth; depth++ {
		node = node.Alias
	}
	return node
}
