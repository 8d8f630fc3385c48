// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package valuefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/canon/lib/transcode"
)

// Format identifies a document syntax.
type Format string

const (
	// JSON is RFC 8259 JSON.
	JSON Format = "json"
	// JSONC is JSON with // and /* */ comments and trailing commas.
	JSONC Format = "jsonc"
	// YAML is a single YAML document.
	YAML Format = "yaml"
)

// MaxDepth bounds document nesting, counting alias expansion.
const MaxDepth = transcode.DefaultMaxDepth

// maxValues bounds the number of values a document may expand to, so
// a small YAML file of nested aliases cannot build an enormous value.
const maxValues = 1 << 20

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "jsonc":
		return JSONC, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown document format %q (supported: json, jsonc, yaml)", name)
	}
}

// DetectFormat picks a format from the file extension of path. Paths
// without a known extension are read as JSONC, which also accepts
// plain JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	default:
		return JSONC
	}
}

// Parse reads one document in the given format into an application
// value. Objects and YAML mappings become *transcode.Map with keys in
// document order. JSON arrays and YAML sequences become transcode.List.
// Integers stay exact: int64 when they fit, *big.Int otherwise.
func Parse(data []byte, format Format) (any, error) {
	switch format {
	case JSON:
		return parseJSON(data)
	case JSONC:
		return parseJSONC(data)
	case YAML:
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("valuefile: unsupported format %q", format)
	}
}

// ReadFile reads and parses the document at path. An empty format is
// detected from the extension.
func ReadFile(path string, format Format) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if format == "" {
		format = DetectFormat(path)
	}
	value, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return value, nil
}

// budget counts nesting depth and produced values while building.
type budget struct {
	depth  int
	values int
}

func (b *budget) enter() error {
	b.depth++
	if b.depth > MaxDepth {
		return fmt.Errorf("valuefile: document nested deeper than %d", MaxDepth)
	}
	return nil
}

func (b *budget) leave() { b.depth-- }

func (b *budget) count() error {
	b.values++
	if b.values > maxValues {
		return fmt.Errorf("valuefile: document expands to more than %d values", maxValues)
	}
	return nil
}
