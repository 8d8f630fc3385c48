// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/canon/lib/codec"
	"github.com/bureau-foundation/canon/lib/compress"
	"github.com/bureau-foundation/canon/lib/der"
	"github.com/bureau-foundation/canon/lib/objhash"
	"github.com/bureau-foundation/canon/lib/transcode"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "CANON_CONFIG"

// Ordering values.
const (
	OrderingAscending  = "ascending"
	OrderingDescending = "descending"
	OrderingDisabled   = "disabled"
)

// Codec values.
const (
	CodecDER  = "der"
	CodecCBOR = "cbor"
)

// Config is the configuration for canon commands.
type Config struct {
	// Ordering is how mapping keys and set items are ordered:
	// ascending, descending or disabled.
	Ordering string `yaml:"ordering"`

	// Codec is the binary node codec: der or cbor.
	Codec string `yaml:"codec"`

	// Hash is the digest algorithm used by "canon hash".
	Hash string `yaml:"hash"`

	// HashDomain, when set, keys BLAKE3 with this derivation context.
	// Only valid with hash: blake3.
	HashDomain string `yaml:"hash_domain"`

	// MaxDepth bounds value nesting. Zero means the transcoder default.
	MaxDepth int `yaml:"max_depth"`

	// StrictKeys makes duplicate mapping keys a decode error.
	StrictKeys bool `yaml:"strict_keys"`

	// Compression frames encoded output: none, lz4 or zstd.
	Compression string `yaml:"compression"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Ordering:    OrderingAscending,
		Codec:       CodecDER,
		Hash:        string(objhash.BLAKE3),
		MaxDepth:    transcode.DefaultMaxDepth,
		Compression: compress.None.String(),
	}
}

// Load loads configuration from the file named by CANON_CONFIG.
// There is no discovery: an unset variable is an error.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a canon config file, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over the defaults and
// validates it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration over the defaults and validates it.
// Unknown fields are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	orderings := []string{OrderingAscending, OrderingDescending, OrderingDisabled}
	if !slices.Contains(orderings, c.Ordering) {
		errs = append(errs, fmt.Errorf("ordering must be one of: %v", orderings))
	}

	codecs := []string{CodecDER, CodecCBOR}
	if !slices.Contains(codecs, c.Codec) {
		errs = append(errs, fmt.Errorf("codec must be one of: %v", codecs))
	}

	if algorithm, err := objhash.ParseAlgorithm(c.Hash); err != nil {
		errs = append(errs, fmt.Errorf("hash: %w", err))
	} else if c.HashDomain != "" && algorithm != objhash.BLAKE3 {
		errs = append(errs, fmt.Errorf("hash_domain requires hash: blake3, got %s", algorithm))
	}

	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth))
	}

	if _, err := compress.ParseAlgorithm(c.Compression); err != nil {
		errs = append(errs, fmt.Errorf("compression: %w", err))
	}

	return errors.Join(errs...)
}

// TranscodeOptions returns the transcoder options the configuration
// describes. Descending ordering reverses the ascending order.
func (c *Config) TranscodeOptions() transcode.Options {
	options := transcode.Options{
		MaxDepth:   c.MaxDepth,
		StrictKeys: c.StrictKeys,
	}
	switch c.Ordering {
	case OrderingDisabled:
		options.Ordering = transcode.SortDisabled()
	case OrderingDescending:
		options.Ordering = transcode.SortCustom(func(a, b any) int {
			return transcode.Compare(b, a)
		})
	default:
		options.Ordering = transcode.SortAscending()
	}
	return options
}

// NodeCodec returns the configured binary codec.
func (c *Config) NodeCodec() transcode.Codec {
	if c.Codec == CodecCBOR {
		return codec.NodeCodec{}
	}
	return der.Codec{}
}

// Transcoder returns a transcoder built from the configuration.
func (c *Config) Transcoder() *transcode.Transcoder {
	return transcode.New(c.NodeCodec(), c.TranscodeOptions())
}

// HashOptions returns the objhash options for the configured
// algorithm and domain, hashing through the configured transcoder.
func (c *Config) HashOptions() ([]objhash.Option, error) {
	algorithm, err := objhash.ParseAlgorithm(c.Hash)
	if err != nil {
		return nil, err
	}
	options := []objhash.Option{
		objhash.WithAlgorithm(algorithm),
		objhash.WithTranscoder(c.Transcoder()),
	}
	if c.HashDomain != "" {
		options = append(options, objhash.WithDomain(c.HashDomain))
	}
	return options, nil
}

// CompressionAlgorithm returns the configured compression algorithm.
func (c *Config) CompressionAlgorithm() (compress.Algorithm, error) {
	return compress.ParseAlgorithm(c.Compression)
}
