// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempDir creates a temporary directory under RUNNER_TEMP if it is set,
// which Github action needs, and removes it when the test ends.
func TempDir(t *testing.T) string {
	t.Helper()
	parent := os.Getenv("RUNNER_TEMP")
	d, err := os.MkdirTemp(parent, "httpbody-")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, os.RemoveAll(d))
	})
	return d
}

// WriteFile writes content to name under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, content, 0644))
	return p
}
