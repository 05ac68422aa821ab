// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package conf

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/imdario/mergo"
	"github.com/klauspost/compress/gzip"
	"github.com/wrgl/httpbody/pkg/objectid"
	"gopkg.in/yaml.v3"
)

type Log struct {
	// Verbosity is handed to stdr.SetVerbosity. Request lines are logged at 1.
	Verbosity int    `yaml:"verbosity,omitempty"`
	File      string `yaml:"file,omitempty"`
}

// Config holds every setting of the bodyd daemon.
type Config struct {
	// Path is the file this config was read from, if any.
	Path string `yaml:"-"`

	Port         int      `yaml:"port,omitempty"`
	ReadTimeout  Duration `yaml:"readTimeout,omitempty"`
	WriteTimeout Duration `yaml:"writeTimeout,omitempty"`

	// Digest names the objectid algorithm behind ETags.
	Digest string `yaml:"digest,omitempty"`

	// GzipLevel is a pointer so that 0 (no compression) can be told apart
	// from an unset value.
	GzipLevel *int `yaml:"gzipLevel,omitempty"`

	// Exports lists glob patterns of repository paths that may be served.
	Exports []string `yaml:"exports,omitempty"`

	// Services lists the smart protocol services run through git, either
	// "upload-pack" or "receive-pack". None are enabled by default.
	Services []string `yaml:"services,omitempty"`
	GitPath  string   `yaml:"gitPath,omitempty"`

	Log Log `yaml:"log,omitempty"`
}

func intPtr(i int) *int {
	return &i
}

func Default() *Config {
	return &Config{
		Port:         80,
		ReadTimeout:  Duration(30 * time.Second),
		WriteTimeout: Duration(30 * time.Second),
		Digest:       string(objectid.SHA1),
		GzipLevel:    intPtr(gzip.DefaultCompression),
		Exports:      []string{"**"},
	}
}

// ReadFile parses the YAML file at fp. A missing file yields an empty config.
func ReadFile(fp string) (*Config, error) {
	c := &Config{}
	if fp == "" {
		return c, nil
	}
	f, err := os.Open(fp)
	if err == nil {
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		if err = yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("error parsing config %q: %v", fp, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	c.Path = fp
	return c, nil
}

type ptrTransformer struct {
}

func (t *ptrTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ.Kind() == reflect.Ptr && typ.Elem().Kind() != reflect.Struct {
		return func(dst, src reflect.Value) error {
			if dst.CanSet() && !src.IsNil() {
				dst.Set(src)
			}
			return nil
		}
	}
	return nil
}

// Merge copies every field set in src over dst.
func Merge(dst, src *Config) error {
	return mergo.Merge(dst, src, mergo.WithOverride, mergo.WithTransformers(&ptrTransformer{}))
}

// Load reads fp and fills in defaults for everything the file leaves out.
func Load(fp string) (*Config, error) {
	fc, err := ReadFile(fp)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err = Merge(c, fc); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if _, err := objectid.ParseAlgorithm(c.Digest); err != nil {
		return err
	}
	if c.GzipLevel != nil && (*c.GzipLevel < gzip.StatelessCompression || *c.GzipLevel > gzip.BestCompression) {
		return fmt.Errorf("invalid gzip level %d, must be between %d and %d",
			*c.GzipLevel, gzip.StatelessCompression, gzip.BestCompression)
	}
	for _, name := range c.Services {
		switch strings.TrimPrefix(name, "git-") {
		case "upload-pack", "receive-pack":
		default:
			return fmt.Errorf("unknown service %q, valid options are upload-pack and receive-pack", name)
		}
	}
	return nil
}

func (c *Config) Algorithm() objectid.Algorithm {
	alg, err := objectid.ParseAlgorithm(c.Digest)
	if err != nil {
		return objectid.SHA1
	}
	return alg
}

func (c *Config) CompressionLevel() int {
	if c.GzipLevel == nil {
		return gzip.DefaultCompression
	}
	return *c.GzipLevel
}

func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
