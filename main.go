// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wrgl/httpbody/cmd/bodyd"
)

func main() {
	rootCmd := bodyd.RootCmd()
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}
}
