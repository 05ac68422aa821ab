// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package conf

import (
	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	"github.com/spf13/viper"
)

// Watch calls onChange with the reloaded config each time the file at fp is
// written. A file that fails to load is logged and skipped.
func Watch(fp string, logger logr.Logger, onChange func(c *Config)) error {
	v := viper.New()
	v.SetConfigFile(fp)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		c, err := Load(fp)
		if err == nil {
			err = c.Validate()
		}
		if err != nil {
			logger.Error(err, "error reloading config", "path", e.Name)
			return
		}
		logger.V(1).Info("config reloaded", "path", e.Name, "op", e.Op.String())
		onChange(c)
	})
	v.WatchConfig()
	return nil
}
