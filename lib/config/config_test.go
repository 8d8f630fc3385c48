// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/canon/lib/codec"
	"github.com/bureau-foundation/canon/lib/compress"
	"github.com/bureau-foundation/canon/lib/der"
	"github.com/bureau-foundation/canon/lib/objhash"
	"github.com/bureau-foundation/canon/lib/transcode"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Ordering != OrderingAscending {
		t.Errorf("expected ordering=ascending, got %s", cfg.Ordering)
	}
	if cfg.Codec != CodecDER {
		t.Errorf("expected codec=der, got %s", cfg.Codec)
	}
	if cfg.Hash != "blake3" {
		t.Errorf("expected hash=blake3, got %s", cfg.Hash)
	}
	if cfg.MaxDepth != transcode.DefaultMaxDepth {
		t.Errorf("expected max_depth=%d, got %d", transcode.DefaultMaxDepth, cfg.MaxDepth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresCanonConfig(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when CANON_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "CANON_CONFIG environment variable not set") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestLoad_WithCanonConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "canon.yaml")
	if err := os.WriteFile(configPath, []byte("codec: cbor\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv(EnvironmentVariable, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Codec != CodecCBOR {
		t.Errorf("expected codec=cbor, got %s", cfg.Codec)
	}
	// Unset fields keep their defaults.
	if cfg.Ordering != OrderingAscending {
		t.Errorf("expected ordering=ascending, got %s", cfg.Ordering)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "canon.yaml")
	configContent := `
ordering: descending
codec: cbor
hash: sha3-256
max_depth: 64
strict_keys: true
compression: zstd
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	want := Config{
		Ordering:    OrderingDescending,
		Codec:       CodecCBOR,
		Hash:        "sha3-256",
		MaxDepth:    64,
		StrictKeys:  true,
		Compression: "zstd",
	}
	if *cfg != want {
		t.Errorf("LoadFile = %+v, want %+v", *cfg, want)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(empty) failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Parse(empty) = %+v, want defaults", *cfg)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("ordering: ascending\nsort_keys: true\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "sort_keys") {
		t.Errorf("error %q does not name the unknown field", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"valid default config", func(c *Config) {}, ""},
		{"invalid ordering", func(c *Config) { c.Ordering = "random" }, "ordering"},
		{"invalid codec", func(c *Config) { c.Codec = "json" }, "codec"},
		{"invalid hash", func(c *Config) { c.Hash = "md5" }, "hash"},
		{"domain without blake3", func(c *Config) {
			c.Hash = "sha256"
			c.HashDomain = "canon test"
		}, "hash_domain"},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }, "max_depth"},
		{"invalid compression", func(c *Config) { c.Compression = "gzip" }, "compression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() succeeded, want error naming %s", tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() error %q does not name %s", err, tt.wantField)
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Ordering = "random"
	cfg.Codec = "json"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() succeeded, want error")
	}
	for _, field := range []string{"ordering", "codec"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Validate() error %q does not name %s", err, field)
		}
	}
}

func TestTranscodeOptions(t *testing.T) {
	value := transcode.NewSet("b", "a", "c")

	tests := []struct {
		ordering string
		want     []string
	}{
		{OrderingAscending, []string{"a", "b", "c"}},
		{OrderingDescending, []string{"c", "b", "a"}},
	}
	for _, test := range tests {
		t.Run(test.ordering, func(t *testing.T) {
			cfg := Default()
			cfg.Ordering = test.ordering
			node, err := transcode.NewEncoder(cfg.TranscodeOptions()).Encode(value)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			var got []string
			for _, child := range node.Children() {
				got = append(got, string(child.Bytes()))
			}
			if strings.Join(got, "") != strings.Join(test.want, "") {
				t.Errorf("set order = %v, want %v", got, test.want)
			}
		})
	}

	cfg := Default()
	cfg.Ordering = OrderingDisabled
	cfg.MaxDepth = 7
	cfg.StrictKeys = true
	options := cfg.TranscodeOptions()
	if options.Ordering.Sorted() {
		t.Error("disabled ordering reports sorted")
	}
	if options.MaxDepth != 7 || !options.StrictKeys {
		t.Errorf("options = %+v, want MaxDepth 7 and StrictKeys", options)
	}
}

func TestNodeCodec(t *testing.T) {
	cfg := Default()
	if _, ok := cfg.NodeCodec().(der.Codec); !ok {
		t.Errorf("default codec = %T, want der.Codec", cfg.NodeCodec())
	}
	cfg.Codec = CodecCBOR
	if _, ok := cfg.NodeCodec().(codec.NodeCodec); !ok {
		t.Errorf("cbor codec = %T, want codec.NodeCodec", cfg.NodeCodec())
	}
}

func TestHashOptions(t *testing.T) {
	cfg := Default()
	cfg.Hash = "sha256"
	options, err := cfg.HashOptions()
	if err != nil {
		t.Fatalf("HashOptions failed: %v", err)
	}
	got, err := objhash.Sum(int64(42), options...)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	want, err := objhash.Sum(int64(42), objhash.WithAlgorithm(objhash.SHA256))
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if objhash.FormatDigest(got) != objhash.FormatDigest(want) {
		t.Errorf("configured digest %x, want %x", got, want)
	}

	cfg.Hash = "md5"
	if _, err := cfg.HashOptions(); err == nil {
		t.Error("HashOptions with unknown algorithm should fail")
	}
}

func TestCompressionAlgorithm(t *testing.T) {
	cfg := Default()
	cfg.Compression = "lz4"
	algorithm, err := cfg.CompressionAlgorithm()
	if err != nil {
		t.Fatalf("CompressionAlgorithm failed: %v", err)
	}
	if algorithm != compress.LZ4 {
		t.Errorf("CompressionAlgorithm = %s, want lz4", algorithm)
	}
}
