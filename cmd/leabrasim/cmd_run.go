// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/emer/leabrasim/config"
	"github.com/emer/leabrasim/env"
	"github.com/emer/leabrasim/metrics"
	"github.com/emer/leabrasim/sim"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// runResult is the summary of one run.
type runResult struct {
	RunID  string               `json:"run_id"`
	Epochs int                  `json:"epochs"`
	Errors map[string][]float64 `json:"errors"`
	Test   map[string]float64   `json:"test,omitempty"`
}

// runOpts are the run command options that are not part of the config file.
type runOpts struct {
	wtsFile string
	test    bool
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train the network for the configured runs and epochs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("epochs") {
				cf.Run.Epochs, _ = cmd.Flags().GetInt("epochs")
			}
			if cmd.Flags().Changed("runs") {
				cf.Run.Runs, _ = cmd.Flags().GetInt("runs")
			}
			cf.ParamSets = paramSets(cmd, cf)
			if err := cf.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var opts runOpts
			opts.wtsFile, _ = cmd.Flags().GetString("save-wts")
			opts.test, _ = cmd.Flags().GetBool("test")
			results, err := runSim(ctx, cf, opts)
			if err != nil {
				return err
			}
			return printResults(cmd, results)
		},
	}
	cmd.Flags().Int("epochs", 0, "Override run.epochs")
	cmd.Flags().Int("runs", 0, "Override run.runs")
	cmd.Flags().StringSlice("sets", nil, "Param sets to apply, in order (default: param_sets)")
	cmd.Flags().String("save-wts", "", "Save the final weights to this file (.wts or .wts.gz)")
	cmd.Flags().Bool("test", false, "Run a test epoch with learning off after each run")
	return cmd
}

// newSink returns the configured metrics store, initialized, or nil for none.
func newSink(ctx context.Context, mc config.MetricsConfig) (metrics.Sink, error) {
	var sk metrics.Sink
	switch mc.Store {
	case "sqlite":
		sk = metrics.NewSQLiteStore(mc.Path)
	case "none":
		return nil, nil
	default:
		sk = metrics.NewMemoryStore()
	}
	if err := sk.Init(ctx); err != nil {
		return nil, err
	}
	return sk, nil
}

func runSim(ctx context.Context, cf *config.File, opts runOpts) ([]runResult, error) {
	if cf.Env.File == "" {
		return nil, errors.New("env.file is required to run")
	}
	sk, err := newSink(ctx, cf.Metrics)
	if err != nil {
		return nil, err
	}
	return runWithSink(ctx, cf, opts, sk)
}

// runWithSink runs the configured simulation, recording into sk if it is
// not nil. sk is closed before returning, and a failure to close it is
// returned when the run itself succeeded.
func runWithSink(ctx context.Context, cf *config.File, opts runOpts, sk metrics.Sink) (results []runResult, err error) {
	if sk != nil {
		defer func() {
			if cerr := sk.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, "closing metrics store")
			}
		}()
	}
	ev, err := env.OpenTableEnv(cf.Env.File, cf.Shapes())
	if err != nil {
		return nil, err
	}
	ev.Shuffle = cf.Env.Shuffle
	ev.Init(0)
	net, err := cf.BuildNetwork()
	if err != nil {
		return nil, err
	}
	ss := sim.New(net, cf.Params, ev, cf.NewKernel(), cf.SimConfig())
	if sk != nil {
		ss.AddSink(sk)
	}
	if err := ss.Init(); err != nil {
		return nil, err
	}
	for r := 0; r < cf.Run.Runs; r++ {
		if err := ss.NewRun(); err != nil {
			return nil, err
		}
		if err := ss.Run(ctx, cf.Run.Epochs); err != nil {
			return nil, err
		}
		rr := runResult{RunID: ss.RunID, Epochs: ss.Epoch, Errors: ss.Metrics().Snapshot()}
		if opts.test {
			if rr.Test, err = ss.Test(ctx); err != nil {
				return nil, err
			}
		}
		results = append(results, rr)
	}
	if opts.wtsFile != "" {
		if err := net.SaveWtsJSON(opts.wtsFile); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func printResults(cmd *cobra.Command, results []runResult) error {
	out := cmd.OutOrStdout()
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, rr := range results {
		fmt.Fprintf(out, "run %s: %d epochs\n", rr.RunID, rr.Epochs)
		lnms := make([]string, 0, len(rr.Errors))
		for lnm := range rr.Errors {
			lnms = append(lnms, lnm)
		}
		sort.Strings(lnms)
		for _, lnm := range lnms {
			vals := rr.Errors[lnm]
			if len(vals) == 0 {
				continue
			}
			fmt.Fprintf(out, "  %-12s first %.4f  last %.4f\n", lnm, vals[0], vals[len(vals)-1])
			if tv, ok := rr.Test[lnm]; ok {
				fmt.Fprintf(out, "  %-12s test  %.4f\n", lnm, tv)
			}
		}
	}
	return nil
}
