// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package testutils

import (
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

func SecureRandomBytes(length int) []byte {
	var randomBytes = make([]byte, length)
	_, err := rand.Read(randomBytes)
	if err != nil {
		panic(err)
	}
	return randomBytes
}

// RandomText returns readable text of at least n bytes. Unlike random bytes
// it compresses well.
func RandomText(n int) string {
	sb := &strings.Builder{}
	for sb.Len() < n {
		sb.WriteString(gofakeit.Sentence(12))
		sb.WriteByte('\n')
	}
	return sb.String()
}
