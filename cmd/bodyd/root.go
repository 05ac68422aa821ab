// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package bodyd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wrgl/httpbody/pkg/conf"
)

func RootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "bodyd [BASE_DIR]",
		Short: "Serves the git repositories under BASE_DIR (defaults to the working directory) over HTTP.",
		Example: `  # serve every repository under the working directory at port 80
  bodyd

  # serve repositories directly under ./repos at port 4000
  bodyd ./repos -p 4000 --export '*.git'

  # allow fetching through git upload-pack, with SHA-256 ETags
  bodyd ./repos --service upload-pack --digest sha256

  # read settings from a file, reloading log verbosity when it changes
  bodyd ./repos --config /etc/bodyd.yaml`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			c, err := conf.Resolve(v)
			if err != nil {
				return err
			}
			logger, cleanup, err := SetupLogger(cmd, c)
			if err != nil {
				return err
			}
			if cleanup != nil {
				defer cleanup()
			}
			if err = watchConfig(v, c, logger); err != nil {
				return err
			}
			server, err := NewServer(dir, c, logger)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				if err := server.Close(); err != nil {
					logger.Error(err, "error shutting down server")
				}
			}()
			err = server.Start(fmt.Sprintf(":%d", c.Port))
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}
	conf.AddFlags(cmd.PersistentFlags())
	cobra.CheckErr(conf.Bind(v, cmd.PersistentFlags()))
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(v))
	return cmd
}

// watchConfig keeps log verbosity in sync with the config file. Flags and
// env vars still take precedence over the file.
func watchConfig(v *viper.Viper, c *conf.Config, logger logr.Logger) error {
	if c.Path == "" {
		return nil
	}
	if _, err := os.Stat(c.Path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return conf.Watch(c.Path, logger, func(nc *conf.Config) {
		if err := conf.Override(nc, v); err != nil {
			logger.Error(err, "invalid config", "path", c.Path)
			return
		}
		stdr.SetVerbosity(nc.Log.Verbosity)
		logger.Info("log verbosity set", "verbosity", nc.Log.Verbosity)
	})
}
