// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/canon/cmd/canon/cli"
	"github.com/bureau-foundation/canon/lib/config"
	"github.com/bureau-foundation/canon/lib/der"
	"github.com/bureau-foundation/canon/lib/objhash"
	"github.com/bureau-foundation/canon/lib/transcode"
)

// invoke runs the command tree with stdin as input and returns stdout.
func invoke(t *testing.T, stdin []byte, args ...string) ([]byte, error) {
	t.Helper()
	t.Setenv(config.EnvironmentVariable, "")
	var stdout, stderr bytes.Buffer
	err := run(args, streams{stdin: bytes.NewReader(stdin), stdout: &stdout, stderr: &stderr})
	return stdout.Bytes(), err
}

func mustInvoke(t *testing.T, stdin []byte, args ...string) []byte {
	t.Helper()
	output, err := invoke(t, stdin, args...)
	if err != nil {
		t.Fatalf("canon %s: %v", strings.Join(args, " "), err)
	}
	return output
}

func TestEncodeIsCanonical(t *testing.T) {
	first := mustInvoke(t, []byte(`{"b": 1, "a": [true, null]}`), "encode", "--hex")
	second := mustInvoke(t, []byte(`{"a": [true, null], "b": 1}`), "encode", "--hex")
	if !bytes.Equal(first, second) {
		t.Errorf("key order changed the encoding: %s != %s", first, second)
	}

	want, err := transcode.New(der.Codec{}, transcode.Options{}).Marshal(
		transcode.NewMap("a", transcode.List{true, nil}, "b", int64(1)),
	)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := strings.TrimSpace(string(first)); got != hex.EncodeToString(want) {
		t.Errorf("encode --hex = %s, want %x", got, want)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	document := []byte("name: canon\ntags: !set [b, a]\npair: !tuple [1, 2.5]\n")
	value := transcode.NewMap(
		"name", "canon",
		"pair", transcode.Tuple{int64(1), 2.5},
		"tags", transcode.NewSet("a", "b"),
	)

	tests := []struct {
		name   string
		encode []string
		decode []string
	}{
		{"der", []string{"encode", "--format", "yaml"}, []string{"decode"}},
		{"cbor", []string{"encode", "-f", "yaml", "--codec", "cbor"}, []string{"decode", "--codec", "cbor"}},
		{
			"zstd framed cbor",
			[]string{"encode", "-f", "yaml", "--codec", "cbor", "--compress", "zstd"},
			[]string{"decode", "--codec", "cbor", "--compressed"},
		},
		{
			"auto framed hex",
			[]string{"encode", "-f", "yaml", "--compress", "auto", "--hex"},
			[]string{"decode", "--compressed", "--hex"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			encoded := mustInvoke(t, document, test.encode...)
			decoded := mustInvoke(t, encoded, test.decode...)
			if got, want := strings.TrimSpace(string(decoded)), transcode.Format(value); got != want {
				t.Errorf("decode printed %s, want %s", got, want)
			}
		})
	}
}

func TestEncodeReadsFileByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "value.yaml")
	if err := os.WriteFile(path, []byte("answer: 42\n"), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	fromFile := mustInvoke(t, nil, "encode", "--hex", path)
	fromStdin := mustInvoke(t, []byte(`{"answer": 42}`), "encode", "--hex")
	if !bytes.Equal(fromFile, fromStdin) {
		t.Errorf("file encoding %s differs from stdin encoding %s", fromFile, fromStdin)
	}
}

func TestSortFlag(t *testing.T) {
	document := []byte(`{"a": 1, "b": 2}`)
	ascending := mustInvoke(t, document, "encode", "--hex")
	descending := mustInvoke(t, document, "encode", "--hex", "--sort", "descending")
	if bytes.Equal(ascending, descending) {
		t.Error("descending ordering produced the ascending encoding")
	}
	decoded := mustInvoke(t, descending, "decode", "--hex")
	if !strings.HasPrefix(string(decoded), `{"b"`) {
		t.Errorf("decode of descending encoding = %s, want b first", decoded)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canon.yaml")
	if err := os.WriteFile(path, []byte("codec: cbor\nhash: sha256\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	encoded := mustInvoke(t, []byte(`[1, "two"]`), "encode", "--config", path)
	if _, err := der.Unmarshal(encoded); err == nil {
		t.Error("config selected cbor, but output parses as DER")
	}
	decoded := mustInvoke(t, encoded, "decode", "--config", path)
	if got := strings.TrimSpace(string(decoded)); got != `[1, "two"]` {
		t.Errorf("decode = %s", got)
	}

	if _, err := invoke(t, nil, "decode", "--config", filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing config file accepted")
	}
}

func TestHash(t *testing.T) {
	document := []byte(`{"z": 0, "a": 1.5}`)
	output := mustInvoke(t, document, "hash")

	digest, err := objhash.Sum(transcode.NewMap("a", 1.5, "z", int64(0)))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	want := objhash.FormatDigest(digest)
	if got := strings.TrimSpace(string(output)); got != want {
		t.Errorf("hash = %s, want %s", got, want)
	}

	mustInvoke(t, document, "hash", "--check", want)

	_, err = invoke(t, document, "hash", "--check", strings.Repeat("00", 32))
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Errorf("hash --check mismatch error = %v, want exit code 1", err)
	}

	sha := mustInvoke(t, document, "hash", "--algorithm", "sha256")
	if len(strings.TrimSpace(string(sha))) != 64 {
		t.Errorf("sha256 digest %q is not 32 bytes of hex", sha)
	}
	if bytes.Equal(sha, output) {
		t.Error("sha256 and blake3 digests are equal")
	}

	if _, err := invoke(t, document, "hash", "--algorithm", "sha256", "--domain", "canon test"); err == nil {
		t.Error("--domain with sha256 accepted")
	}
}

func TestInspect(t *testing.T) {
	output := string(mustInvoke(t, []byte(`{"k": "v"}`), "inspect", "--document"))
	for _, want := range []string{
		"[0:32:16]+[128:32:4] constructed (1)",
		"[0:32:16]+[128:32:2] constructed (2)",
		`[0:0:12] utf8-string "k"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("inspect output missing %q\n\nFull output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "CBOR") {
		t.Error("DER inspection printed CBOR notation")
	}

	encoded := mustInvoke(t, []byte(`"hi"`), "encode", "--codec", "cbor")
	output = string(mustInvoke(t, encoded, "inspect", "--codec", "cbor"))
	if !strings.Contains(output, `utf8-string "hi"`) || !strings.Contains(output, "CBOR diagnostic notation") {
		t.Errorf("cbor inspect output:\n%s", output)
	}
}

func TestVersion(t *testing.T) {
	output := string(mustInvoke(t, nil, "version"))
	if !strings.HasPrefix(output, "canon ") {
		t.Errorf("version output = %q", output)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"unknown command", "", []string{"encdoe"}},
		{"unknown format", "{}", []string{"encode", "--format", "toml"}},
		{"two inputs", "", []string{"encode", "a.json", "b.json"}},
		{"bad document", "{", []string{"encode"}},
		{"bad codec", "{}", []string{"encode", "--codec", "asn1"}},
		{"bad compression", "{}", []string{"encode", "--compress", "gzip"}},
		{"bad hex", "zz", []string{"decode", "--hex"}},
		{"malformed encoding", "300501", []string{"decode", "--hex"}},
		{"unframed input", "0500", []string{"decode", "--hex", "--compressed"}},
		{"version argument", "", []string{"version", "extra"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := invoke(t, []byte(test.stdin), test.args...); err == nil {
				t.Errorf("canon %s succeeded, want error", strings.Join(test.args, " "))
			}
		})
	}
}

func TestMalformedEncodingError(t *testing.T) {
	_, err := invoke(t, []byte("300501"), "decode", "--hex")
	if !errors.Is(err, transcode.ErrMalformedInput) {
		t.Errorf("decode error = %v, want ErrMalformedInput", err)
	}
}
