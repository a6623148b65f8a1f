// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type layerInfo struct {
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Shape []int      `json:"shape"`
	Pos   [3]float32 `json:"pos"`
}

type pathInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Pattern string `json:"pattern"`
	NCons   int    `json:"ncons"`
}

type netInfo struct {
	Name   string      `json:"name"`
	Order  []string    `json:"order"`
	Layers []layerInfo `json:"layers"`
	Paths  []pathInfo  `json:"paths"`
}

func newNetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "net",
		Short: "Build the configured network and describe its structure",
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			net, err := cf.BuildNetwork()
			if err != nil {
				return err
			}
			if err := net.Validate(); err != nil {
				return err
			}
			if err := net.Layout(); err != nil {
				return err
			}
			ni := netInfo{Name: net.Name}
			for _, ly := range net.TopoOrder() {
				ni.Order = append(ni.Order, ly.Name)
			}
			for _, ly := range net.Layers {
				ni.Layers = append(ni.Layers, layerInfo{Name: ly.Name, Type: ly.Type.String(), Shape: ly.Shape.Shp,
					Pos: [3]float32{ly.Pos.X, ly.Pos.Y, ly.Pos.Z}})
			}
			for _, pj := range net.Paths {
				ni.Paths = append(ni.Paths, pathInfo{Name: pj.Name(), Type: pj.Type.String(), Pattern: pj.Pattern, NCons: len(pj.Cons)})
			}
			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ni)
			}
			fmt.Fprintf(out, "Network %s, order: %s\n", ni.Name, strings.Join(ni.Order, " "))
			for _, li := range ni.Layers {
				fmt.Fprintf(out, "  %-12s %-12s %v at %v\n", li.Name, li.Type, li.Shape, li.Pos)
			}
			for _, pi := range ni.Paths {
				fmt.Fprintf(out, "  %-24s %-12s %-8s %d cons\n", pi.Name, pi.Type, pi.Pattern, pi.NCons)
			}
			fmt.Fprint(out, net.SizeReport())
			return nil
		},
	}
}
