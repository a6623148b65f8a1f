// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command leabrasim builds a network from a YAML configuration and trains it
// on a pattern table, reporting the per-layer error of each epoch.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emer/leabrasim/config"
	"github.com/emer/leabrasim/logging"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leabrasim",
		Short: "Leabra network simulator",
		Long: `leabrasim builds a layered rate-coded network from a YAML configuration,
styles it with cascading parameter sheets and trains it on a table of
input and target patterns, recording the error of each scored layer.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "leabrasim.yaml", "Simulation config file")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Override logging.level (warn, info, debug, trace)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newParamsCmd(),
		newNetCmd(),
	)
	return rootCmd
}

// loadConfig reads the config named by the --config flag and installs the
// configured logger. Relative env and metrics paths are resolved against
// the config file's directory.
func loadConfig(cmd *cobra.Command) (*config.File, error) {
	fn, _ := cmd.Flags().GetString("config")
	cf, err := config.Load(fn)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cf.Logging.Level = lvl
	}
	dir := filepath.Dir(fn)
	if cf.Env.File != "" && !filepath.IsAbs(cf.Env.File) {
		cf.Env.File = filepath.Join(dir, cf.Env.File)
	}
	if cf.Metrics.Path != "" && cf.Metrics.Path != ":memory:" && !filepath.IsAbs(cf.Metrics.Path) {
		cf.Metrics.Path = filepath.Join(dir, cf.Metrics.Path)
	}
	logging.SetLogger(logging.NewLogger(cf.Logging.Level, cmd.ErrOrStderr()))
	return cf, nil
}

// paramSets returns the --sets flag if given, else the configured selection.
func paramSets(cmd *cobra.Command, cf *config.File) []string {
	if sets, _ := cmd.Flags().GetStringSlice("sets"); len(sets) > 0 {
		return sets
	}
	return cf.ParamSets
}
