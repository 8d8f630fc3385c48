// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package objhash

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"slices"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a digest function.
type Algorithm string

const (
	BLAKE3     Algorithm = "blake3"
	BLAKE2b256 Algorithm = "blake2b-256"
	SHA256     Algorithm = "sha256"
	SHA512     Algorithm = "sha512"
	SHA3_256   Algorithm = "sha3-256"
	SHA3_512   Algorithm = "sha3-512"
)

var constructors = map[Algorithm]func() hash.Hash{
	BLAKE3: func() hash.Hash { return blake3.New() },
	BLAKE2b256: func() hash.Hash {
		// New256 fails only for keys longer than 64 bytes.
		h, err := blake2b.New256(nil)
		if err != nil {
			panic("objhash: BLAKE2b initialization failed: " + err.Error())
		}
		return h
	},
	SHA256:   sha256.New,
	SHA512:   sha512.New,
	SHA3_256: sha3.New256,
	SHA3_512: sha3.New512,
}

// Algorithms returns every supported algorithm name, sorted.
func Algorithms() []Algorithm {
	names := make([]Algorithm, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseAlgorithm validates a user-supplied algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	algorithm := Algorithm(name)
	if _, ok := constructors[algorithm]; !ok {
		return "", fmt.Errorf("unknown hash algorithm %q (supported: %v)", name, Algorithms())
	}
	return algorithm, nil
}

// New returns a fresh hash.Hash for the algorithm. It panics for a name
// ParseAlgorithm would reject.
func (a Algorithm) New() hash.Hash {
	constructor, ok := constructors[a]
	if !ok {
		panic(fmt.Sprintf("objhash: unknown algorithm %q", string(a)))
	}
	return constructor()
}
