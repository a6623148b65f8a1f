// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/emer/leabrasim/errs"
	"github.com/emer/leabrasim/leabra"
	"github.com/emer/leabrasim/paths"
	"github.com/emer/leabrasim/sim"
)

const ra25YAML = `
name: ra25
network:
  layers:
    - {name: Input, rows: 5, cols: 5, type: Input}
    - {name: Hidden1, rows: 7, cols: 7, type: Super, rel_to: Input, rel: above}
    - {name: Hidden2, rows: 7, cols: 7, type: Super, rel_to: Hidden1, rel: rightof, space: 2, inter_inhib: [Hidden1]}
    - {name: Output, rows: 5, cols: 5, type: Target, rel_to: Hidden2, rel: rightof, space: 2}
  paths:
    - {send: Input, recv: Hidden1, pattern: full}
    - {send: Hidden1, recv: Hidden2, pattern: full, bidir: true}
    - {send: Hidden2, recv: Output, pattern: unifrnd, pcon: 0.8, bidir: true}
params:
  Base:
    - sel: Layer
      desc: standard inhibition
      params:
        Layer.Inhib.Layer.Gi: "1.8"
    - sel: .BackPath
      params:
        Path.WtScale.Rel: "0.2"
  NoMomentum:
    - sel: Path
      params:
        Path.Learn.Momentum.On: "false"
param_sets: [Base]
env:
  file: random_5x5_25.tsv
  shuffle: true
run:
  epochs: 5
  aggregate: sum
logging:
  level: debug
`

func TestDefault(t *testing.T) {
	cf := Default()
	if cf.Run.Epochs != 10 || cf.Run.Runs != 1 {
		t.Errorf("run defaults: %+v", cf.Run)
	}
	if cf.Run.Kernel.Quarters != 4 || cf.Run.Kernel.CycPerQtr != 25 {
		t.Errorf("kernel defaults: %+v", cf.Run.Kernel)
	}
	if cf.Logging.Level != "info" || cf.Metrics.Store != "memory" {
		t.Errorf("ambient defaults: %+v %+v", cf.Logging, cf.Metrics)
	}
	if err := cf.Validate(); err != nil {
		t.Errorf("defaults not valid: %v", err)
	}
}

func TestParse(t *testing.T) {
	cf, err := Parse([]byte(ra25YAML))
	if err != nil {
		t.Fatal(err)
	}
	if cf.Name != "ra25" || cf.Run.Epochs != 5 || !cf.Env.Shuffle {
		t.Errorf("parsed: %+v", cf)
	}
	// unset fields keep defaults
	if cf.Run.Runs != 1 || cf.Run.Kernel.CycPerQtr != 25 {
		t.Errorf("defaults lost: %+v", cf.Run)
	}
	if agg, _ := cf.Aggregate(); agg != sim.Sum {
		t.Errorf("aggregate: %v", agg)
	}
	sc := cf.SimConfig()
	if sc.RunName != "ra25" || len(sc.ParamSets) != 1 || sc.Aggregate != sim.Sum {
		t.Errorf("sim config: %+v", sc)
	}
	if len(cf.Params) != 2 || len(*cf.Params["Base"]) != 2 {
		t.Errorf("params: %v", cf.Params)
	}
	if v := (*cf.Params["Base"])[0].Params["Layer.Inhib.Layer.Gi"]; v != "1.8" {
		t.Errorf("param value: %q", v)
	}
	shapes := cf.Shapes()
	if len(shapes) != 2 || shapes["Output"][0] != 5 {
		t.Errorf("shapes: %v", shapes)
	}
}

func TestBuildNetwork(t *testing.T) {
	cf, err := Parse([]byte(ra25YAML))
	if err != nil {
		t.Fatal(err)
	}
	net, err := cf.BuildNetwork()
	if err != nil {
		t.Fatal(err)
	}
	if net.Name != "ra25" || net.NLayers() != 4 {
		t.Errorf("network: %s %d", net.Name, net.NLayers())
	}
	if len(net.Paths) != 5 {
		t.Errorf("paths: %d", len(net.Paths))
	}
	out := net.LayerByName("Output")
	if out.Type != leabra.TargetLayer || len(out.RecvPaths) != 1 || len(out.SendPaths) != 1 {
		t.Errorf("output layer: %v recv %d send %d", out.Type, len(out.RecvPaths), len(out.SendPaths))
	}
	bp := out.SendPaths[0]
	if bp.Type != leabra.BackPath || bp.Recv.Name != "Hidden2" {
		t.Errorf("back path: %v to %s", bp.Type, bp.Recv.Name)
	}
	if ur, ok := out.RecvPaths[0].Pat.(*paths.UnifRnd); !ok || ur.PCon != 0.8 {
		t.Errorf("unifrnd pcon not set: %v", out.RecvPaths[0].Pat)
	}
	if il := net.LayerByName("Hidden2").Inhib.Inter.Lays; len(il) != 1 || il[0] != "Hidden1" {
		t.Errorf("inter inhib layers: %v", il)
	}
	if err := net.Validate(); err != nil {
		t.Error(err)
	}
	if err := net.Layout(); err != nil {
		t.Error(err)
	}
}

func TestBuildErrors(t *testing.T) {
	bad := []string{
		`network: {layers: [{name: A, rows: 2, cols: 2, type: Bogus}]}`,
		`network: {layers: [{name: A, rows: 0, cols: 2, type: Input}]}`,
		`network: {layers: [{name: A, rows: 2, cols: 2, type: Input}], paths: [{send: A, recv: B, pattern: full}]}`,
		`network: {layers: [{name: A, rows: 2, cols: 2, type: Input}, {name: B, rows: 2, cols: 2}], paths: [{send: A, recv: B, pattern: spiral}]}`,
		`network: {layers: [{name: A, rows: 2, cols: 2, type: Input}, {name: B, rows: 2, cols: 2, rel_to: A, rel: sideways}]}`,
		`network: {layers: []}`,
		`network: {layers: [{name: A, rows: 2, cols: 2, type: Input, inter_inhib: [Z]}]}`,
	}
	for _, y := range bad {
		cf, err := Parse([]byte(y))
		if err != nil {
			t.Fatalf("%s: %v", y, err)
		}
		if _, err := cf.BuildNetwork(); !errors.Is(err, errs.Config) {
			t.Errorf("%s: expected Config error, got %v", y, err)
		}
	}
}

func TestValidateErrors(t *testing.T) {
	bad := []string{
		`run: {epochs: -1}`,
		`run: {runs: 0}`,
		`run: {aggregate: median}`,
		`run: {kernel: {quarters: 4, plus_qtrs: 4, cyc_per_qtr: 25}}`,
		`logging: {level: loud}`,
		`metrics: {store: postgres}`,
		`metrics: {store: sqlite}`,
		`params: {Base: [{sel: Layer, params: {Layer.Bogus: "1"}}]}`,
		`params: {Base: [{sel: "#a b", params: {Layer.Inhib.Layer.Gi: "1"}}]}`,
		`param_sets: [Missing]`,
		`run: [1, 2]`,
	}
	for _, y := range bad {
		if _, err := Parse([]byte(y)); !errors.Is(err, errs.Config) {
			t.Errorf("%s: expected Config error, got %v", y, err)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "sim.yaml")
	if err := os.WriteFile(fn, []byte(ra25YAML), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LEABRASIM_EPOCHS", "2")
	t.Setenv("LEABRASIM_SEED", "42")
	t.Setenv("LEABRASIM_METRICS_PATH", filepath.Join(dir, "m.db"))
	cf, err := Load(fn)
	if err != nil {
		t.Fatal(err)
	}
	if cf.Run.Epochs != 2 || cf.Run.Seed != 42 {
		t.Errorf("overrides: %+v", cf.Run)
	}
	if cf.Metrics.Store != "sqlite" {
		t.Errorf("metrics store: %q", cf.Metrics.Store)
	}
	if rk := cf.NewKernel(); rk.Seed != 42 {
		t.Errorf("kernel seed: %d", rk.Seed)
	}
	t.Setenv("LEABRASIM_EPOCHS", "many")
	if _, err := Load(fn); !errors.Is(err, errs.Config) {
		t.Errorf("bad override: %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("missing file loaded")
	}
}
