// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"testing"
)

func repetitive() []byte {
	record := []byte("a4083006020101a5083106020101020102a2083006020101")
	data := make([]byte, 0, 64*1024)
	for len(data) < 64*1024 {
		data = append(data, record...)
	}
	return data
}

func TestAlgorithmString(t *testing.T) {
	tests := []struct {
		algorithm Algorithm
		want      string
	}{
		{None, "none"},
		{LZ4, "lz4"},
		{Zstd, "zstd"},
		{Algorithm(99), "unknown(99)"},
	}
	for _, test := range tests {
		if got := test.algorithm.String(); got != test.want {
			t.Errorf("Algorithm(%d).String() = %q, want %q", uint8(test.algorithm), got, test.want)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, algorithm := range []Algorithm{None, LZ4, Zstd} {
		parsed, err := ParseAlgorithm(algorithm.String())
		if err != nil {
			t.Errorf("ParseAlgorithm(%q) failed: %v", algorithm, err)
			continue
		}
		if parsed != algorithm {
			t.Errorf("ParseAlgorithm(%q) = %s, want %s", algorithm, parsed, algorithm)
		}
	}
	if _, err := ParseAlgorithm("brotli"); err == nil {
		t.Error("ParseAlgorithm(brotli) should fail")
	}
}

func TestRoundTrip(t *testing.T) {
	data := repetitive()
	for _, algorithm := range []Algorithm{None, LZ4, Zstd} {
		t.Run(algorithm.String(), func(t *testing.T) {
			frame, err := Compress(data, algorithm)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			if Algorithm(frame[0]) != algorithm {
				t.Errorf("frame algorithm = %s, want %s", Algorithm(frame[0]), algorithm)
			}
			if algorithm != None && len(frame) >= len(data) {
				t.Errorf("%s did not compress: %d bytes → %d bytes", algorithm, len(data), len(frame))
			}

			decompressed, used, err := Decompress(frame)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if used != algorithm {
				t.Errorf("Decompress algorithm = %s, want %s", used, algorithm)
			}
			if !bytes.Equal(decompressed, data) {
				t.Fatal("round trip mismatch")
			}
		})
	}
}

func TestIncompressibleFallsBackToNone(t *testing.T) {
	data := make([]byte, 16*1024)
	rand.Read(data)

	for _, algorithm := range []Algorithm{LZ4, Zstd} {
		frame, err := Compress(data, algorithm)
		if err != nil {
			t.Fatalf("Compress(%s) failed: %v", algorithm, err)
		}
		if Algorithm(frame[0]) != None {
			t.Errorf("Compress(%s) of random data used %s, want none", algorithm, Algorithm(frame[0]))
		}
		decompressed, _, err := Decompress(frame)
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Errorf("%s fallback round trip mismatch", algorithm)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	frame, err := Compress(nil, Zstd)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if !bytes.Equal(frame, []byte{0, 0}) {
		t.Errorf("empty frame = %x, want 0000", frame)
	}
	data, _, err := Decompress(frame)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Decompress = %x, want empty", data)
	}
}

func TestCompressUnsupportedAlgorithm(t *testing.T) {
	if _, err := Compress([]byte("data"), Algorithm(7)); err == nil {
		t.Error("Compress with unknown algorithm should fail")
	}
}

func TestDecompressRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{"empty", nil},
		{"missing size", []byte{0}},
		{"unknown algorithm", []byte{9, 0}},
		{"stored size mismatch", []byte{0, 3, 'a', 'b'}},
		{"size over limit", []byte{2, 0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := Decompress(test.frame)
			if !errors.Is(err, ErrMalformedFrame) {
				t.Errorf("Decompress(%x) error = %v, want ErrMalformedFrame", test.frame, err)
			}
		})
	}
}

func TestDecompressCorruptPayload(t *testing.T) {
	frame, err := Compress(repetitive(), Zstd)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	truncated := frame[:len(frame)/2]
	if _, _, err := Decompress(truncated); err == nil {
		t.Error("Decompress of truncated zstd payload should fail")
	}

	data := repetitive()
	frame, err = Compress(data, LZ4)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	_, headerLength := binary.Uvarint(frame[1:])
	// Claim one byte more than the payload holds.
	corrupt := binary.AppendUvarint([]byte{byte(LZ4)}, uint64(len(data)+1))
	corrupt = append(corrupt, frame[1+headerLength:]...)
	if _, _, err := Decompress(corrupt); err == nil {
		t.Error("Decompress with a wrong LZ4 size should fail")
	}
}

func TestSelect(t *testing.T) {
	if got := Select(repetitive()); got != Zstd {
		t.Errorf("Select(repetitive) = %s, want zstd", got)
	}
	random := make([]byte, 16*1024)
	rand.Read(random)
	if got := Select(random); got != None {
		t.Errorf("Select(random) = %s, want none", got)
	}
	if got := Select(nil); got != None {
		t.Errorf("Select(nil) = %s, want none", got)
	}
}
