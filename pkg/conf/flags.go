// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package conf

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "bodyd"

// AddFlags declares the daemon flags. Their defaults only document Default,
// values are applied by Override when a flag or env var is actually given.
func AddFlags(flags *pflag.FlagSet) {
	def := Default()
	flags.String("config", "", "read settings from this YAML file, flags and env vars take precedence")
	flags.IntP("port", "p", def.Port, "port number to listen to")
	flags.Duration("read-timeout", def.ReadTimeout.Duration(), "request read timeout as described at https://pkg.go.dev/net/http#Server.ReadTimeout")
	flags.Duration("write-timeout", def.WriteTimeout.Duration(), "response write timeout as described at https://pkg.go.dev/net/http#Server.WriteTimeout")
	flags.String("digest", def.Digest, `hash behind ETag headers, valid options are "sha1", "sha256", "blake2b" and "meow"`)
	flags.Int("gzip-level", *def.GzipLevel, "gzip level of compressed responses, from -3 (stateless) to 9 (best compression)")
	flags.StringSlice("export", def.Exports, "only serve repositories whose path matches one of these glob patterns")
	flags.StringSlice("service", nil, `run these smart protocol services through git, valid options are "upload-pack" and "receive-pack"`)
	flags.String("git-path", "", "git executable used to run services (defaults to git found in PATH)")
	flags.Int("log-verbosity", 0, "log verbosity. Higher value means more log")
	flags.String("log-file", "", "output logs to specified file")
}

// Bind makes every flag in flags readable from v, overridable by BODYD_*
// environment variables.
func Bind(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return nil
}

// Override copies into c the values explicitly set through v.
func Override(c *Config, v *viper.Viper) error {
	if v.IsSet("port") {
		c.Port = v.GetInt("port")
	}
	if v.IsSet("read-timeout") {
		c.ReadTimeout = Duration(v.GetDuration("read-timeout"))
	}
	if v.IsSet("write-timeout") {
		c.WriteTimeout = Duration(v.GetDuration("write-timeout"))
	}
	if v.IsSet("digest") {
		c.Digest = v.GetString("digest")
	}
	if v.IsSet("gzip-level") {
		c.GzipLevel = intPtr(v.GetInt("gzip-level"))
	}
	if v.IsSet("export") {
		c.Exports = v.GetStringSlice("export")
	}
	if v.IsSet("service") {
		c.Services = v.GetStringSlice("service")
	}
	if v.IsSet("git-path") {
		c.GitPath = v.GetString("git-path")
	}
	if v.IsSet("log-verbosity") {
		c.Log.Verbosity = v.GetInt("log-verbosity")
	}
	if v.IsSet("log-file") {
		c.Log.File = v.GetString("log-file")
	}
	return c.Validate()
}

// Resolve loads the file named by the config key, then applies flags and
// env vars on top.
func Resolve(v *viper.Viper) (*Config, error) {
	c, err := Load(v.GetString("config"))
	if err != nil {
		return nil, err
	}
	if err = Override(c, v); err != nil {
		return nil, err
	}
	return c, nil
}
