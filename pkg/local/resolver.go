// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package local

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var (
	ErrRepoNotFound    = errors.New("repository not found")
	ErrRepoNotExported = errors.New("repository not exported")
	ErrInvalidPath     = errors.New("invalid path")
)

// DefaultExports exports every repository under the base directory.
var DefaultExports = []string{"**"}

// Resolver maps repository names to git directories under a base directory.
// A name is a slash separated path relative to the base directory.
type Resolver struct {
	baseDir  string
	patterns []string
	exports  []glob.Glob
}

// NewResolver compiles the export patterns. In patterns "*" does not cross
// a "/" while "**" does.
func NewResolver(baseDir string, exports []string) (*Resolver, error) {
	if len(exports) == 0 {
		exports = DefaultExports
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	r := &Resolver{
		baseDir:  abs,
		patterns: exports,
	}
	for _, pattern := range exports {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid export pattern %q: %v", pattern, err)
		}
		r.exports = append(r.exports, g)
	}
	return r, nil
}

func (r *Resolver) BaseDir() string {
	return r.baseDir
}

func (r *Resolver) Exports() []string {
	return r.patterns
}

// CleanPath rejects absolute paths and paths that leave their root.
func CleanPath(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") || strings.ContainsRune(name, 0) {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." || seg == "." || seg == "" {
			return "", ErrInvalidPath
		}
	}
	return path.Clean(name), nil
}

func (r *Resolver) exported(name string) bool {
	for _, g := range r.exports {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Open finds repository name. Like git daemon it tries name, name.git and
// name/.git in that order.
func (r *Resolver) Open(name string) (*Repo, error) {
	name, err := CleanPath(strings.TrimSuffix(name, "/"))
	if err != nil {
		return nil, err
	}
	if !r.exported(name) {
		return nil, ErrRepoNotExported
	}
	base := filepath.Join(r.baseDir, filepath.FromSlash(name))
	for _, dir := range []string{base, base + ".git", filepath.Join(base, ".git")} {
		if isGitDir(dir) {
			return &Repo{Name: name, Dir: dir}, nil
		}
	}
	return nil, ErrRepoNotFound
}

func isGitDir(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, "objects"))
	if err != nil || !fi.IsDir() {
		return false
	}
	fi, err = os.Stat(filepath.Join(dir, "HEAD"))
	return err == nil && fi.Mode().IsRegular()
}

// Repo is a resolved git directory.
type Repo struct {
	Name string
	Dir  string
}

// ReadFile reads a file of the git directory. rel is slash separated.
func (r *Repo) ReadFile(rel string) ([]byte, error) {
	rel, err := CleanPath(rel)
	if err != nil {
		return nil, err
	}
	p := filepath.Join(r.Dir, filepath.FromSlash(rel))
	fi, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, &os.PathError{Op: "read", Path: p, Err: os.ErrNotExist}
	}
	return os.ReadFile(p)
}
