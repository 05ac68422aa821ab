// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package objectid

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/pckhoi/meow"
	"golang.org/x/crypto/blake2b"
)

// Algorithm names a content-addressing hash.
type Algorithm string

const (
	// SHA1 is the object hash of git repositories and the default algorithm.
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"

	// Blake2b is BLAKE2b truncated to 160 bits so names keep the width of SHA1.
	Blake2b Algorithm = "blake2b"

	// Meow is the 128-bit hash used by the wrgl object store.
	Meow Algorithm = "meow"
)

const blake2bSize = 20

// Algorithms lists every supported algorithm, default first.
var Algorithms = []Algorithm{SHA1, SHA256, Blake2b, Meow}

func (a Algorithm) String() string {
	return string(a)
}

// Size returns the number of raw bytes in a sum, or 0 for an unknown algorithm.
func (a Algorithm) Size() int {
	switch a {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	case Blake2b:
		return blake2bSize
	case Meow:
		return meow.Size
	}
	return 0
}

func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case Blake2b:
		return blake2b.New(blake2bSize, nil)
	case Meow:
		return meow.New(0), nil
	}
	return nil, &UnknownAlgorithmError{Name: string(a)}
}

// Sum hashes content in one pass.
func (a Algorithm) Sum(content []byte) (ID, error) {
	h, err := a.New()
	if err != nil {
		return nil, err
	}
	h.Write(content)
	return ID(h.Sum(nil)), nil
}

// MustSum is like Sum but panics on an unknown algorithm.
func (a Algorithm) MustSum(content []byte) ID {
	id, err := a.Sum(content)
	if err != nil {
		panic(err)
	}
	return id
}

type UnknownAlgorithmError struct {
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	names := make([]string, len(Algorithms))
	for i, a := range Algorithms {
		names[i] = string(a)
	}
	return fmt.Sprintf("unknown hash algorithm %q, valid options are %s", e.Name, strings.Join(names, ", "))
}

// ParseAlgorithm accepts an algorithm name in any case. An empty name
// selects SHA1.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return SHA1, nil
	}
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if a.Size() == 0 {
		return "", &UnknownAlgorithmError{Name: s}
	}
	return a, nil
}

// ID is a raw digest.
type ID []byte

// String renders the canonical name of an object: lowercase hex.
func (id ID) String() string {
	return hex.EncodeToString(id)
}

// Parse decodes the canonical name of an object produced by alg.
func Parse(alg Algorithm, name string) (ID, error) {
	if !IsValidName(alg, name) {
		return nil, fmt.Errorf("invalid %s object name %q", alg, name)
	}
	b, err := hex.DecodeString(name)
	if err != nil {
		return nil, err
	}
	return ID(b), nil
}

// IsValidName reports whether name is the lowercase hex form of an alg sum.
func IsValidName(alg Algorithm, name string) bool {
	if n := alg.Size(); n == 0 || len(name) != n*2 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
