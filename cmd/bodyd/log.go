// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package bodyd

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/wrgl/httpbody/pkg/conf"
)

// SetupLogger logs to c.Log.File if it is set, otherwise to the command
// output. cleanup is nil when there is nothing to close.
func SetupLogger(cmd *cobra.Command, c *conf.Config) (logger logr.Logger, cleanup func(), err error) {
	var _logger stdr.StdLogger
	if c.Log.File != "" {
		f, err := os.OpenFile(c.Log.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return logger, nil, err
		}
		_logger = log.New(f, "", log.LstdFlags)
		cleanup = func() {
			f.Close()
		}
	} else {
		_logger = log.New(cmd.OutOrStdout(), "", log.LstdFlags)
	}
	logger = stdr.New(_logger)
	stdr.SetVerbosity(c.Log.Verbosity)
	return logger, cleanup, nil
}
