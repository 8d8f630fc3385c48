// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm identifies the compression applied to a frame. The values
// are stored in the first byte of every frame and are protocol
// constants.
type Algorithm uint8

const (
	// None stores the payload as is. Compress falls back to it when
	// compression would not shrink the data.
	None Algorithm = 0

	// LZ4 is LZ4 block compression: fast, modest ratio.
	LZ4 Algorithm = 1

	// Zstd is zstd at the default level: better ratio for the
	// repetitive structure canonical encodings tend to have.
	Zstd Algorithm = 2
)

// MaxDecompressedSize bounds the size a frame header may claim.
const MaxDecompressedSize = 256 << 20

// ErrMalformedFrame is wrapped by every Decompress error caused by the
// frame rather than by the codec.
var ErrMalformedFrame = errors.New("compress: malformed frame")

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAlgorithm parses an algorithm name as produced by String.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("unknown compression algorithm %q (supported: none, lz4, zstd)", name)
	}
}

// Compress returns a frame holding data:
//
//	algorithm (1 byte) | uncompressed size (uvarint) | payload
//
// If the algorithm does not make data smaller the frame uses None.
func Compress(data []byte, algorithm Algorithm) ([]byte, error) {
	payload, err := compressPayload(data, algorithm)
	if errors.Is(err, errIncompressible) {
		algorithm, payload, err = None, data, nil
	}
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, 1+binary.MaxVarintLen64+len(payload))
	frame = append(frame, byte(algorithm))
	frame = binary.AppendUvarint(frame, uint64(len(data)))
	return append(frame, payload...), nil
}

// Decompress parses a frame produced by Compress and returns the
// original data and the algorithm the frame used.
func Decompress(frame []byte) ([]byte, Algorithm, error) {
	if len(frame) == 0 {
		return nil, 0, fmt.Errorf("%w: empty", ErrMalformedFrame)
	}
	algorithm := Algorithm(frame[0])
	size, n := binary.Uvarint(frame[1:])
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: bad size header", ErrMalformedFrame)
	}
	if size > MaxDecompressedSize {
		return nil, 0, fmt.Errorf("%w: size %d exceeds limit %d", ErrMalformedFrame, size, MaxDecompressedSize)
	}
	payload := frame[1+n:]

	var data []byte
	var err error
	switch algorithm {
	case None:
		if uint64(len(payload)) != size {
			return nil, 0, fmt.Errorf("%w: stored payload is %d bytes, header says %d", ErrMalformedFrame, len(payload), size)
		}
		data = payload
	case LZ4:
		data, err = decompressLZ4(payload, int(size))
	case Zstd:
		data, err = decompressZstd(payload, int(size))
	default:
		return nil, 0, fmt.Errorf("%w: unsupported algorithm %s", ErrMalformedFrame, algorithm)
	}
	if err != nil {
		return nil, 0, err
	}
	return data, algorithm, nil
}

// Select probes data with zstd and picks an algorithm by ratio: zstd
// from 1.5x, LZ4 from 1.1x, otherwise None.
func Select(data []byte) Algorithm {
	if len(data) == 0 {
		return None
	}
	compressed := zstdEncoder.EncodeAll(data, nil)
	ratio := float64(len(data)) / float64(len(compressed))
	switch {
	case ratio >= 1.5:
		return Zstd
	case ratio >= 1.1:
		return LZ4
	default:
		return None
	}
}

// errIncompressible reports that the compressed payload would not be
// smaller than the input.
var errIncompressible = errors.New("data is incompressible")

func compressPayload(data []byte, algorithm Algorithm) ([]byte, error) {
	switch algorithm {
	case None:
		return data, nil
	case LZ4:
		return compressLZ4(data)
	case Zstd:
		return compressZstd(data)
	default:
		return nil, fmt.Errorf("compress: unsupported algorithm %s", algorithm)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, size int) ([]byte, error) {
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != size {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use through
// EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecompressedSize))
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, size int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != size {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
	}
	return result, nil
}
