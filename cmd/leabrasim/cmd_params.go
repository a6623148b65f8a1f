// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/emer/leabrasim/params"
	"github.com/spf13/cobra"
)

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Show the parameter values each layer and path resolves to",
		Long: `Applies the selected param sets to the configured network and prints,
for every layer and path, the parameter values that the selectors set.
Parameters left at their defaults are not listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			net, err := cf.BuildNetwork()
			if err != nil {
				return err
			}
			sheets, err := cf.Params.Sheets(paramSets(cmd, cf)...)
			if err != nil {
				return err
			}
			if err := net.ApplyParams(sheets); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				res := make(map[string]map[string]string)
				for _, ly := range net.Layers {
					res[ly.Name] = valueMap(ly.Params)
				}
				for _, pj := range net.Paths {
					res[pj.Name()] = valueMap(pj.Params)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			for _, ly := range net.Layers {
				fmt.Fprintf(out, "Layer %s (%s)\n%s", ly.Name, ly.StyleClass(), ly.Params.String())
			}
			for _, pj := range net.Paths {
				fmt.Fprintf(out, "Path %s (%s)\n%s", pj.Name(), pj.StyleClass(), pj.Params.String())
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("sets", nil, "Param sets to apply, in order (default: param_sets)")
	return cmd
}

func valueMap(vs params.Values) map[string]string {
	res := make(map[string]string, len(vs))
	for p, v := range vs {
		res[p] = v.Str
	}
	return res
}
