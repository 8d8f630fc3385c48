// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package der

import (
	"bytes"
	"fmt"
	"math"
	"math/bits"
)

// REAL content octets (X.690 §8.5 with the DER restrictions of §11.3).
//
// Zero is the empty content. Special values use one octet: 0x40 +Inf,
// 0x41 -Inf, 0x42 NaN, 0x43 negative zero. Finite values use binary
// encoding with base 2 and scale factor 0, an odd mantissa, and the
// shortest two's complement exponent. Decimal and base 8/16 forms are
// valid BER but not DER, so decoding rejects them.
const (
	realPlusInfinity  = 0x40
	realMinusInfinity = 0x41
	realNaN           = 0x42
	realMinusZero     = 0x43

	realBinary   = 0x80
	realNegative = 0x40
)

func encodeReal(value float64) []byte {
	switch {
	case math.IsNaN(value):
		return []byte{realNaN}
	case math.IsInf(value, 1):
		return []byte{realPlusInfinity}
	case math.IsInf(value, -1):
		return []byte{realMinusInfinity}
	case value == 0:
		if math.Signbit(value) {
			return []byte{realMinusZero}
		}
		return nil
	}

	first := byte(realBinary)
	if value < 0 {
		first |= realNegative
		value = -value
	}

	// value = fraction * 2^exponent with fraction in [0.5, 1). Scaling
	// the fraction by 2^53 gives an exact integer mantissa for normal
	// and subnormal inputs alike.
	fraction, exponent := math.Frexp(value)
	mantissa := uint64(math.Ldexp(fraction, 53))
	exponent -= 53
	shift := bits.TrailingZeros64(mantissa)
	mantissa >>= shift
	exponent += shift

	exponentOctets := twosComplement(int64(exponent))
	// Exponent lengths of 1-3 octets are encoded in the low two bits
	// of the first octet. Float64 exponents never need more than two.
	first |= byte(len(exponentOctets) - 1)

	content := make([]byte, 0, 1+len(exponentOctets)+8)
	content = append(content, first)
	content = append(content, exponentOctets...)
	content = append(content, unsignedOctets(mantissa)...)
	return content
}

func decodeReal(content []byte) (float64, error) {
	if len(content) == 0 {
		return 0, nil
	}

	first := content[0]
	if first&realBinary == 0 {
		if first&0xC0 == 0x40 {
			if len(content) != 1 {
				return 0, fmt.Errorf("special real value with %d content octets", len(content))
			}
			switch first {
			case realPlusInfinity:
				return math.Inf(1), nil
			case realMinusInfinity:
				return math.Inf(-1), nil
			case realNaN:
				return math.NaN(), nil
			case realMinusZero:
				return math.Copysign(0, -1), nil
			}
			return 0, fmt.Errorf("unknown special real value 0x%02x", first)
		}
		return 0, fmt.Errorf("decimal real encoding is not canonical")
	}

	if base := (first >> 4) & 0x03; base != 0 {
		return 0, fmt.Errorf("real base %d is not canonical", base)
	}
	if scale := (first >> 2) & 0x03; scale != 0 {
		return 0, fmt.Errorf("real scale factor %d is not canonical", scale)
	}

	rest := content[1:]
	exponentLength := int(first&0x03) + 1
	if first&0x03 == 0x03 {
		if len(rest) == 0 {
			return 0, fmt.Errorf("truncated real exponent length")
		}
		exponentLength = int(rest[0])
		rest = rest[1:]
	}
	if exponentLength == 0 || len(rest) < exponentLength {
		return 0, fmt.Errorf("truncated real exponent")
	}
	exponentOctets, mantissaOctets := rest[:exponentLength], rest[exponentLength:]
	if exponentLength > 2 {
		return 0, fmt.Errorf("real exponent of %d octets is out of range", exponentLength)
	}
	if exponentLength > 1 && !minimalTwosComplement(exponentOctets) {
		return 0, fmt.Errorf("real exponent is not minimally encoded")
	}

	if len(mantissaOctets) == 0 || len(mantissaOctets) > 8 || mantissaOctets[0] == 0 {
		return 0, fmt.Errorf("real mantissa is not minimally encoded")
	}
	var mantissa uint64
	for _, octet := range mantissaOctets {
		mantissa = mantissa<<8 | uint64(octet)
	}
	if mantissa&1 == 0 {
		return 0, fmt.Errorf("real mantissa is even")
	}
	if mantissa >= 1<<53 {
		return 0, fmt.Errorf("real mantissa exceeds 53 bits")
	}

	var exponent int64
	if exponentOctets[0]&0x80 != 0 {
		exponent = -1
	}
	for _, octet := range exponentOctets {
		exponent = exponent<<8 | int64(octet)
	}

	value := math.Ldexp(float64(mantissa), int(exponent))
	if math.IsInf(value, 0) || value == 0 {
		return 0, fmt.Errorf("real value out of float64 range")
	}
	if first&realNegative != 0 {
		value = -value
	}
	// Rounding on the way in means the octets were not the ones this
	// value encodes to.
	if !bytes.Equal(encodeReal(value), content) {
		return 0, fmt.Errorf("real encoding is not canonical")
	}
	return value, nil
}

// twosComplement returns the shortest big-endian two's complement
// representation of value.
func twosComplement(value int64) []byte {
	length := 1
	for value>>(8*length-1) != 0 && value>>(8*length-1) != -1 {
		length++
	}
	octets := make([]byte, length)
	for i := range octets {
		octets[length-1-i] = byte(value >> (8 * i))
	}
	return octets
}

// minimalTwosComplement reports whether octets has no redundant
// leading sign octet.
func minimalTwosComplement(octets []byte) bool {
	if len(octets) < 2 {
		return true
	}
	if octets[0] == 0x00 && octets[1]&0x80 == 0 {
		return false
	}
	if octets[0] == 0xFF && octets[1]&0x80 != 0 {
		return false
	}
	return true
}

// unsignedOctets returns the big-endian octets of value with no
// leading zeros. value must be non-zero.
func unsignedOctets(value uint64) []byte {
	length := (bits.Len64(value) + 7) / 8
	octets := make([]byte, length)
	for i := range octets {
		octets[length-1-i] = byte(value >> (8 * i))
	}
	return octets
}
