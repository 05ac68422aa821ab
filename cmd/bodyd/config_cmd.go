// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package bodyd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wrgl/httpbody/pkg/conf"
)

func newConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Prints the configuration bodyd would run with, as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := conf.Resolve(v)
			if err != nil {
				return err
			}
			b, err := c.YAML()
			if err != nil {
				return err
			}
			cmd.Print(string(b))
			return nil
		},
	}
	return cmd
}
