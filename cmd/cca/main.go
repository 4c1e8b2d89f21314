// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cca is the experiment runner for the CCA model zoo: it fits
// models on CSV view files, generates simulated data, runs
// hyperparameter grid searches from TOML configs, and renders
// diagnostic plots from saved scores.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cogentcore.org/cca/base/logx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logx.PrintlnError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose, quiet bool

	cmd := &cobra.Command{
		Use:           "cca",
		Short:         "cca fits and evaluates canonical correlation models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			switch {
			case quiet:
				logx.UserLevel = slog.LevelError
			case verbose:
				logx.UserLevel = slog.LevelDebug
			default:
				logx.UserLevel = slog.LevelInfo
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors")

	cmd.AddCommand(newFitCmd())
	cmd.AddCommand(newSimulateCmd())
	cmd.AddCommand(newGridSearchCmd())
	cmd.AddCommand(newPlotCmd())
	return cmd
}
