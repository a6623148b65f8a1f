// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/emer/leabrasim/env"
	"github.com/emer/leabrasim/errs"
	"github.com/emer/leabrasim/leabra"
	"github.com/emer/leabrasim/metrics"
	"github.com/emer/leabrasim/params"
)

var testSets = params.Sets{
	"Base": {
		{Sel: "Layer", Desc: "standard inhibition",
			Params: params.Params{
				"Layer.Inhib.Layer.Gi": "1.8",
			}},
		{Sel: ".BackPath", Desc: "weaker top-down",
			Params: params.Params{
				"Path.WtScale.Rel": "0.2",
			}},
		{Sel: "#Output", Desc: "smaller layer, lower inhibition",
			Params: params.Params{
				"Layer.Inhib.Layer.Gi": "1.4",
			}},
	},
	"NoMomentum": {
		{Sel: "Path", Desc: "no momentum",
			Params: params.Params{
				"Path.Learn.Momentum.On": "false",
			}},
	},
}

// fakeKernel counts calls and returns a fixed error per trial.
type fakeKernel struct {
	resets, forwards, learns int
	err                      float64
	seed                     int64
}

func (fk *fakeKernel) ResetState(net *leabra.Network) { fk.resets++ }
func (fk *fakeKernel) ForwardUpdate(net *leabra.Network, in leabra.Bindings) error {
	fk.forwards++
	return nil
}
func (fk *fakeKernel) LearnUpdate(net *leabra.Network) { fk.learns++ }
func (fk *fakeKernel) OutputError(ly *leabra.Layer, targ []float32) float64 {
	return fk.err
}
func (fk *fakeKernel) SetSeed(seed int64) { fk.seed = seed }

// sliceEnv presents a fixed list of trials, calling onTrial before each.
type sliceEnv struct {
	trials  []*env.Trial
	cur     int
	onTrial func(idx int)
}

func (se *sliceEnv) Reset() { se.cur = 0 }
func (se *sliceEnv) NextTrial() (*env.Trial, bool) {
	if se.cur >= len(se.trials) {
		return nil, false
	}
	if se.onTrial != nil {
		se.onTrial(se.cur)
	}
	trl := se.trials[se.cur]
	se.cur++
	return trl, true
}

func pat(rows, cols int) *etensor.Float32 {
	return etensor.NewFloat32([]int{rows, cols}, nil, []string{"Y", "X"})
}

func makeNet(t *testing.T) *leabra.Network {
	t.Helper()
	net := leabra.NewNetwork("Small")
	in, err := net.AddLayer("Input", 2, 2, leabra.InputLayer)
	if err != nil {
		t.Fatal(err)
	}
	out, err := net.AddLayer("Output", 2, 2, leabra.TargetLayer)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := net.ConnectLayers(in, out, "Full", leabra.ForwardPath); err != nil {
		t.Fatal(err)
	}
	return net
}

func makeTrials(n int) []*env.Trial {
	trls := make([]*env.Trial, n)
	for i := range trls {
		trls[i] = &env.Trial{Name: "t", Patterns: map[string]*etensor.Float32{"Input": pat(2, 2), "Output": pat(2, 2)}}
	}
	return trls
}

func newSim(t *testing.T, ev Env, fk Kernel, cfg Config) *Sim {
	t.Helper()
	if cfg.ParamSets == nil {
		cfg.ParamSets = []string{"Base"}
	}
	ss := New(makeNet(t), testSets, ev, fk, cfg)
	if err := ss.Init(); err != nil {
		t.Fatal(err)
	}
	if err := ss.NewRun(); err != nil {
		t.Fatal(err)
	}
	return ss
}

func TestSequence(t *testing.T) {
	fk := &fakeKernel{}
	ss := New(makeNet(t), testSets, &sliceEnv{trials: makeTrials(2)}, fk, Config{ParamSets: []string{"Base"}, Seed: 7})
	if err := ss.Run(context.Background(), 1); !errors.Is(err, errs.Sequence) {
		t.Errorf("Run before Init: %v", err)
	}
	if err := ss.NewRun(); !errors.Is(err, errs.Sequence) {
		t.Errorf("NewRun before Init: %v", err)
	}
	if err := ss.Init(); err != nil {
		t.Fatal(err)
	}
	if ss.State != Initialized {
		t.Errorf("state after Init: %v", ss.State)
	}
	if fk.seed != 7 {
		t.Errorf("seed not passed to kernel: %d", fk.seed)
	}
	if !ss.Net.Frozen() {
		t.Errorf("network not frozen by Init")
	}
	if _, err := ss.Net.AddLayer("Extra", 2, 2, leabra.SuperLayer); !errors.Is(err, errs.Sequence) {
		t.Errorf("AddLayer after Init: %v", err)
	}
	if err := ss.Run(context.Background(), 1); !errors.Is(err, errs.Sequence) {
		t.Errorf("Run before NewRun: %v", err)
	}
	if err := ss.NewRun(); err != nil {
		t.Fatal(err)
	}
	if fk.resets != 1 || ss.RunID == "" {
		t.Errorf("NewRun: resets %d id %q", fk.resets, ss.RunID)
	}
	if err := ss.Run(context.Background(), -1); !errors.Is(err, errs.Config) {
		t.Errorf("negative epochs: %v", err)
	}
}

func TestInitErrors(t *testing.T) {
	ss := New(makeNet(t), testSets, &sliceEnv{}, &fakeKernel{}, Config{ParamSets: []string{"Missing"}})
	if err := ss.Init(); !errors.Is(err, errs.Config) {
		t.Errorf("unknown param set: %v", err)
	}
	if ss.State != Uninitialized {
		t.Errorf("state after failed Init: %v", ss.State)
	}
	net := leabra.NewNetwork("Bad")
	net.AddLayer("Input", 2, 2, leabra.InputLayer)
	net.AddLayer("Output", 2, 2, leabra.TargetLayer)
	ss = New(net, testSets, &sliceEnv{}, &fakeKernel{}, Config{ParamSets: []string{"Base"}})
	if err := ss.Init(); !errors.Is(err, errs.Config) {
		t.Errorf("unconnected output: %v", err)
	}
}

func TestInitMisspelledPath(t *testing.T) {
	// neither selector matches the object its path is written for
	cases := map[string]params.Sel{
		"other type":    {Sel: "Layer", Params: params.Params{"Path.WtScale.Rell": "0.2"}},
		"no such layer": {Sel: "#Outputt", Params: params.Params{"Layer.Inhib.Layer.Gii": "1.4"}},
	}
	for nm, sl := range cases {
		sets := params.Sets{"Typo": {&sl}}
		ss := New(makeNet(t), sets, &sliceEnv{trials: makeTrials(1)}, &fakeKernel{}, Config{ParamSets: []string{"Typo"}})
		err := ss.Init()
		if !errors.Is(err, errs.Config) {
			t.Errorf("%s: want Config error, got %v", nm, err)
			continue
		}
		if ss.State != Uninitialized {
			t.Errorf("%s: state after failed Init: %v", nm, ss.State)
		}
	}
}

func TestRunEpochs(t *testing.T) {
	fk := &fakeKernel{err: 0.5}
	ss := newSim(t, &sliceEnv{trials: makeTrials(3)}, fk, Config{})
	if err := ss.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if n := len(ss.Series("Output")); n != 0 {
		t.Errorf("Run(0) appended %d values", n)
	}
	if fk.forwards != 0 {
		t.Errorf("Run(0) ran %d trials", fk.forwards)
	}
	if err := ss.Run(context.Background(), 4); err != nil {
		t.Fatal(err)
	}
	sr := ss.Series("Output")
	if len(sr) != 4 {
		t.Fatalf("series len: %d", len(sr))
	}
	for i, v := range sr {
		if v != 0.5 {
			t.Errorf("epoch %d mean: %v", i, v)
		}
	}
	if fk.forwards != 12 || fk.learns != 12 {
		t.Errorf("trial calls: forward %d learn %d", fk.forwards, fk.learns)
	}
	if ss.State != Completed {
		t.Errorf("state: %v", ss.State)
	}
	if ss.Series("Input") != nil {
		t.Errorf("input layer is not scored")
	}
	// continue the same run
	if err := ss.Run(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if n := len(ss.Series("Output")); n != 5 {
		t.Errorf("continued run len: %d", n)
	}
	if err := ss.NewRun(); err != nil {
		t.Fatal(err)
	}
	if n := len(ss.Series("Output")); n != 0 {
		t.Errorf("NewRun did not clear series: %d", n)
	}
}

func TestAggregate(t *testing.T) {
	trls := makeTrials(4)
	delete(trls[3].Patterns, "Output")
	fk := &fakeKernel{err: 1}
	ss := newSim(t, &sliceEnv{trials: trls}, fk, Config{Aggregate: Mean})
	if err := ss.Run(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if v := ss.Series("Output")[0]; v != 1 {
		t.Errorf("mean over trials with a target: %v", v)
	}
	ss = newSim(t, &sliceEnv{trials: trls}, fk, Config{Aggregate: Sum})
	if err := ss.Run(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if v := ss.Series("Output")[0]; v != 3 {
		t.Errorf("sum: %v", v)
	}
	ss = newSim(t, &sliceEnv{}, fk, Config{Aggregate: Mean})
	if err := ss.Run(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if v := ss.Series("Output")[0]; v != 0 {
		t.Errorf("mean of empty epoch: %v", v)
	}
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	se := &sliceEnv{trials: makeTrials(5)}
	fk := &fakeKernel{err: 1}
	ss := newSim(t, se, fk, Config{})
	if err := ss.Run(ctx, 1); err != nil {
		t.Fatal(err)
	}
	se.onTrial = func(idx int) {
		if idx == 2 {
			cancel()
		}
	}
	err := ss.Run(ctx, 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if n := len(ss.Series("Output")); n != 1 {
		t.Errorf("partial epoch recorded: len %d", n)
	}
	// cancellation is only seen between trials, so trial 2 completed
	if fk.forwards != 8 {
		t.Errorf("trials run: %d", fk.forwards)
	}
}

func TestShapeMismatch(t *testing.T) {
	trls := makeTrials(2)
	trls[1].Patterns["Output"] = pat(4, 1)
	fk := &fakeKernel{}
	ss := newSim(t, &sliceEnv{trials: trls}, fk, Config{})
	if err := ss.Run(context.Background(), 1); !errors.Is(err, errs.Config) {
		t.Errorf("shape mismatch: %v", err)
	}
	if n := len(ss.Series("Output")); n != 0 {
		t.Errorf("failed epoch recorded: %d", n)
	}
	trls = makeTrials(1)
	trls[0].Patterns["Nowhere"] = pat(2, 2)
	ss = newSim(t, &sliceEnv{trials: trls}, fk, Config{})
	if err := ss.Run(context.Background(), 1); !errors.Is(err, errs.Config) {
		t.Errorf("unknown layer: %v", err)
	}
}

func TestSetParamSets(t *testing.T) {
	ss := New(makeNet(t), testSets, &sliceEnv{}, &fakeKernel{}, Config{})
	if err := ss.SetParamSets("Base"); !errors.Is(err, errs.Sequence) {
		t.Errorf("SetParamSets before Init: %v", err)
	}
	ss = newSim(t, &sliceEnv{}, &fakeKernel{}, Config{})
	if err := ss.SetParamSets("Base", "NoMomentum"); err != nil {
		t.Fatal(err)
	}
	pt := ss.Net.Paths[0]
	if pt.Learn.Momentum.On {
		t.Errorf("NoMomentum not applied")
	}
	if err := ss.SetParamSets("Base", "Nope"); !errors.Is(err, errs.Config) {
		t.Errorf("unknown set: %v", err)
	}
}

func TestSinks(t *testing.T) {
	ms := metrics.NewMemoryStore()
	if err := ms.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	ss := New(makeNet(t), testSets, &sliceEnv{trials: makeTrials(2)}, &fakeKernel{err: 0.25}, Config{ParamSets: []string{"Base"}, RunName: "sinks"})
	ss.AddSink(ms)
	if err := ss.Init(); err != nil {
		t.Fatal(err)
	}
	if err := ss.NewRun(); err != nil {
		t.Fatal(err)
	}
	if err := ss.Run(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	vals, err := ms.EpochErrors(context.Background(), ss.RunID, "Output")
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 3 || vals[2] != 0.25 {
		t.Errorf("stored epochs: %v", vals)
	}
}

func TestRA25(t *testing.T) {
	shapes := map[string][]int{"Input": {5, 5}, "Output": {5, 5}}
	ev, err := env.OpenTableEnv("../env/testdata/random_5x5_25.tsv", shapes)
	if err != nil {
		t.Fatal(err)
	}
	net := leabra.NewNetwork("RA25")
	in, _ := net.AddLayer("Input", 5, 5, leabra.InputLayer)
	hid, _ := net.AddLayer("Hidden1", 7, 7, leabra.SuperLayer)
	out, _ := net.AddLayer("Output", 5, 5, leabra.TargetLayer)
	if _, err := net.ConnectLayers(in, hid, "Full", leabra.ForwardPath); err != nil {
		t.Fatal(err)
	}
	if _, _, err := net.BidirConnectLayers(hid, out, "Full"); err != nil {
		t.Fatal(err)
	}
	ss := New(net, testSets, ev, leabra.NewRateKernel(0), Config{ParamSets: []string{"Base"}, Seed: 1})
	if err := ss.Init(); err != nil {
		t.Fatal(err)
	}
	if err := ss.NewRun(); err != nil {
		t.Fatal(err)
	}
	if err := ss.Run(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	sr := ss.Series("Output")
	if len(sr) != 3 {
		t.Fatalf("series len: %d", len(sr))
	}
	for i, v := range sr {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			t.Errorf("epoch %d: invalid error %v", i, v)
		}
	}

	// an evaluation epoch leaves every weight as it was
	wts := func() []float32 {
		var ws []float32
		for _, pj := range net.Paths {
			for si := range pj.Syns {
				ws = append(ws, pj.Syns[si].Wt)
			}
		}
		return ws
	}
	before := wts()
	vals, err := ss.Test(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v := vals["Output"]; math.IsNaN(v) || v < 0 {
		t.Errorf("test error: %v", v)
	}
	after := wts()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("weight %d changed during Test: %v -> %v", i, before[i], after[i])
		}
	}
	if len(ss.Series("Output")) != 3 {
		t.Errorf("Test must not append to the series")
	}
}

func TestEvaluate(t *testing.T) {
	fk := &fakeKernel{err: 0.25}
	ss := New(makeNet(t), testSets, &sliceEnv{trials: makeTrials(3)}, fk, Config{ParamSets: []string{"Base"}})
	if _, err := ss.Test(context.Background()); !errors.Is(err, errs.Sequence) {
		t.Errorf("Test before Init: %v", err)
	}
	if err := ss.Init(); err != nil {
		t.Fatal(err)
	}
	if err := ss.NewRun(); err != nil {
		t.Fatal(err)
	}
	if err := ss.Run(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	learns := fk.learns
	vals, err := ss.Test(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if fk.learns != learns {
		t.Errorf("Test ran %d learning updates", fk.learns-learns)
	}
	if fk.forwards != 6 {
		t.Errorf("forwards: got %d want 6", fk.forwards)
	}
	if vals["Output"] != 0.25 {
		t.Errorf("test mean: %v", vals["Output"])
	}
	if ss.Epoch != 1 || len(ss.Series("Output")) != 1 {
		t.Errorf("Test advanced the run: epoch %d, series %v", ss.Epoch, ss.Series("Output"))
	}
	if ss.State != Completed {
		t.Errorf("state after Test: %v", ss.State)
	}
}
