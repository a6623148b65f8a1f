// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sim drives training: it owns a network, its parameter sets, an
environment and a kernel, and runs epochs of trials, recording the
aggregated error of each scored layer per epoch.

The lifecycle is Uninitialized -> Init -> Initialized -> NewRun -> Running,
and Run(ctx, n) may be called repeatedly on the same run, leaving the Sim
Completed after each call. Trials run strictly in sequence, as learning on
one trial is visible to the next. Test runs an evaluation epoch with
learning off.
*/
package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/emer/emergent/timer"
	"github.com/emer/etable/etensor"
	"github.com/emer/leabrasim/env"
	"github.com/emer/leabrasim/errs"
	"github.com/emer/leabrasim/leabra"
	"github.com/emer/leabrasim/logging"
	"github.com/emer/leabrasim/metrics"
	"github.com/emer/leabrasim/params"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kernel is the numeric update applied to the network on each trial.
type Kernel interface {
	// ResetState re-initializes all trainable state (weights, moments, activations).
	ResetState(net *leabra.Network)

	// ForwardUpdate applies the input bindings and settles the network.
	ForwardUpdate(net *leabra.Network, in leabra.Bindings) error

	// LearnUpdate applies learning from the last ForwardUpdate.
	LearnUpdate(net *leabra.Network)

	// OutputError returns the error of the layer against the target pattern.
	OutputError(ly *leabra.Layer, targ []float32) float64
}

// Seeder is implemented by kernels whose random state can be seeded.
type Seeder interface {
	SetSeed(seed int64)
}

// Env is the source of trials, restarted at each epoch.
type Env interface {
	Reset()
	NextTrial() (*env.Trial, bool)
}

// Config holds the run options.
type Config struct {
	RunName   string    `desc:"name used in logs and stored runs"`
	ParamSets []string  `desc:"names of the param sets applied at Init, in order -- later sets win at equal specificity"`
	Aggregate Aggregate `desc:"how trial errors are combined into the epoch value"`
	Seed      int64     `desc:"random seed given to kernels that take one"`
}

// Sim runs training epochs over an environment.
type Sim struct {
	Net    *leabra.Network
	Params params.Sets
	Env    Env
	Kernel Kernel
	Config Config

	State      States     `inactive:"+" desc:"current lifecycle state"`
	RunID      string     `inactive:"+" desc:"unique id of the current run"`
	NRuns      int        `inactive:"+" desc:"number of runs started"`
	Epoch      int        `inactive:"+" desc:"number of epochs completed in the current run"`
	EpochTimer timer.Time `view:"-" desc:"timer for the current epoch"`
	RunTimer   timer.Time `view:"-" desc:"timer for the whole run"`

	metrics *metrics.Set
	sinks   []metrics.Sink
	scored  []*leabra.Layer
}

// New returns an Uninitialized Sim.
func New(net *leabra.Network, sets params.Sets, ev Env, kern Kernel, cfg Config) *Sim {
	if cfg.RunName == "" && net != nil {
		cfg.RunName = net.Name
	}
	return &Sim{Net: net, Params: sets, Env: ev, Kernel: kern, Config: cfg, metrics: metrics.NewSet()}
}

// AddSink adds a sink notified of each new run and each epoch's results.
// Sinks must already be initialized.
func (ss *Sim) AddSink(sk metrics.Sink) {
	ss.sinks = append(ss.sinks, sk)
}

// Metrics returns the per-layer series of the current run.
func (ss *Sim) Metrics() *metrics.Set { return ss.metrics }

// Series returns a copy of the epoch values for the layer, nil if it is not scored.
func (ss *Sim) Series(layer string) []float64 {
	sr := ss.metrics.Series(layer)
	if sr == nil {
		return nil
	}
	return sr.Values()
}

// ScoredLayers returns the layers whose error is recorded.
func (ss *Sim) ScoredLayers() []*leabra.Layer { return ss.scored }

func (ss *Sim) logger() *slog.Logger {
	return logging.Logger().With("run", ss.Config.RunName)
}

// Init validates the network, applies the configured param sets and
// freezes the network structure. It may be called again to start over,
// in which case NewRun is required before the next Run.
func (ss *Sim) Init() error {
	if ss.Net == nil || ss.Env == nil || ss.Kernel == nil {
		return errs.Configf("sim: Init requires a network, an environment and a kernel")
	}
	if ss.Config.Aggregate < 0 || ss.Config.Aggregate >= AggregateN {
		return errs.Configf("sim: invalid aggregate %d", ss.Config.Aggregate)
	}
	if err := ss.Net.Validate(); err != nil {
		return err
	}
	if err := ss.applyParams(ss.Config.ParamSets); err != nil {
		return err
	}
	if sd, ok := ss.Kernel.(Seeder); ok {
		sd.SetSeed(ss.Config.Seed)
	}
	ss.Net.Freeze()
	ss.scored = ss.scored[:0]
	var names []string
	for _, ly := range ss.Net.Layers {
		if ly.Type.IsScored() {
			ss.scored = append(ss.scored, ly)
			names = append(names, ly.Name)
		}
	}
	ss.metrics = metrics.NewSet(names...)
	ss.State = Initialized
	ss.logger().Info("initialized", "network", ss.Net.Name, "params", ss.Config.ParamSets, "scored", names)
	return nil
}

func (ss *Sim) applyParams(names []string) error {
	sheets, err := ss.Params.Sheets(names...)
	if err != nil {
		return err
	}
	return ss.Net.ApplyParams(sheets)
}

// SetParamSets switches to a new selection of param sets between Run calls.
// Trainable state is kept.
func (ss *Sim) SetParamSets(names ...string) error {
	if ss.State == Uninitialized {
		return errs.Sequencef("sim: SetParamSets before Init")
	}
	if err := ss.applyParams(names); err != nil {
		return err
	}
	ss.Config.ParamSets = append([]string(nil), names...)
	ss.logger().Info("params switched", "params", names)
	return nil
}

// NewRun resets all trainable state through the kernel and clears the series,
// starting a new run with a new id.
func (ss *Sim) NewRun() error {
	if ss.State < Initialized {
		return errs.Sequencef("sim: NewRun before Init")
	}
	ss.Kernel.ResetState(ss.Net)
	ss.metrics.Reset()
	ss.NRuns++
	ss.Epoch = 0
	ss.RunID = uuid.NewString()
	ss.RunTimer.Reset()
	info := metrics.RunInfo{
		ID:        ss.RunID,
		Name:      ss.Config.RunName,
		Network:   ss.Net.Name,
		ParamSets: ss.Config.ParamSets,
		Seed:      ss.Config.Seed,
		Started:   time.Now(),
	}
	for _, sk := range ss.sinks {
		if err := sk.BeginRun(context.Background(), info); err != nil {
			return errors.Wrap(err, "sim: sink BeginRun")
		}
	}
	ss.State = Running
	ss.logger().Info("new run", "id", ss.RunID, "n", ss.NRuns)
	return nil
}

// Run trains for the given number of epochs. Cancellation is checked
// between trials; a cancelled epoch records nothing and ctx.Err() is returned.
func (ss *Sim) Run(ctx context.Context, epochs int) error {
	if ss.State != Running && ss.State != Completed {
		return errs.Sequencef("sim: Run in state %v, requires Init and NewRun", ss.State)
	}
	if epochs < 0 {
		return errs.Configf("sim: Run epochs must be >= 0, got %d", epochs)
	}
	ss.State = Running
	for ep := 0; ep < epochs; ep++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ss.runEpoch(ctx); err != nil {
			return err
		}
	}
	ss.State = Completed
	return nil
}

// Test runs one epoch over the environment with learning off and returns
// the aggregated error of each scored layer. Weights are left unchanged,
// nothing is appended to the series or sent to sinks, and the epoch count
// does not advance.
func (ss *Sim) Test(ctx context.Context) (map[string]float64, error) {
	if ss.State != Running && ss.State != Completed {
		return nil, errs.Sequencef("sim: Test in state %v, requires Init and NewRun", ss.State)
	}
	vals, ntrl, err := ss.sweep(ctx, false)
	if err != nil {
		return nil, err
	}
	attrs := []any{"epoch", ss.Epoch, "trials", ntrl}
	for _, ly := range ss.scored {
		attrs = append(attrs, ly.Name, vals[ly.Name])
	}
	ss.logger().Info("test", attrs...)
	return vals, nil
}

// runEpoch runs all trials of one epoch, then records the aggregated errors.
func (ss *Sim) runEpoch(ctx context.Context) error {
	ss.EpochTimer.Reset()
	ss.EpochTimer.Start()
	ss.RunTimer.Start()
	defer ss.RunTimer.Stop()
	vals, ntrl, err := ss.sweep(ctx, true)
	if err != nil {
		return err
	}
	ss.EpochTimer.Stop()
	recs := make([]metrics.EpochRecord, 0, len(ss.scored))
	attrs := []any{"epoch", ss.Epoch, "trials", ntrl}
	for _, ly := range ss.scored {
		v := vals[ly.Name]
		recs = append(recs, metrics.EpochRecord{RunID: ss.RunID, Epoch: ss.Epoch, Layer: ly.Name, Value: v, Elapsed: ss.EpochTimer.Total})
		attrs = append(attrs, ly.Name, v)
	}
	ss.metrics.AppendEpoch(vals)
	ss.Epoch++
	attrs = append(attrs, "secs", ss.EpochTimer.TotalSecs())
	ss.logger().Info("epoch", attrs...)
	for _, sk := range ss.sinks {
		if err := sk.RecordEpoch(ctx, recs); err != nil {
			return errors.Wrap(err, "sim: sink RecordEpoch")
		}
	}
	return nil
}

// sweep presents every trial of the environment once, learning after each
// trial if learn is set, and returns the aggregated error per scored layer.
func (ss *Sim) sweep(ctx context.Context, learn bool) (map[string]float64, int, error) {
	sums := make([]float64, len(ss.scored))
	ns := make([]int, len(ss.scored))
	ntrl := 0
	ss.Env.Reset()
	for {
		if ntrl > 0 {
			if err := ctx.Err(); err != nil {
				return nil, ntrl, err
			}
		}
		trl, ok := ss.Env.NextTrial()
		if !ok {
			break
		}
		if err := ss.runTrial(trl, learn, sums, ns); err != nil {
			return nil, ntrl, errors.Wrapf(err, "epoch %d trial %s", ss.Epoch, trl.Name)
		}
		ntrl++
	}
	vals := make(map[string]float64, len(ss.scored))
	for li, ly := range ss.scored {
		v := sums[li]
		if ss.Config.Aggregate == Mean {
			v = 0
			if ns[li] > 0 {
				v = sums[li] / float64(ns[li])
			}
		}
		vals[ly.Name] = v
	}
	return vals, ntrl, nil
}

// runTrial checks and applies one trial's patterns, runs the kernel and
// accumulates the error of each scored layer that has a target.
func (ss *Sim) runTrial(trl *env.Trial, learn bool, sums []float64, ns []int) error {
	in := make(leabra.Bindings, len(trl.Patterns))
	for lnm, pat := range trl.Patterns {
		ly, err := ss.Net.LayerByNameTry(lnm)
		if err != nil {
			return err
		}
		if !etensor.EqualInts(pat.Shp, ly.Shape.Shp) {
			return errs.Configf("sim: trial %s pattern for layer %s has shape %v, layer is %v", trl.Name, lnm, pat.Shp, ly.Shape.Shp)
		}
		if ly.Type == leabra.SuperLayer {
			continue
		}
		in[lnm] = pat
	}
	if err := ss.Kernel.ForwardUpdate(ss.Net, in); err != nil {
		return err
	}
	if learn {
		ss.Kernel.LearnUpdate(ss.Net)
	}
	for li, ly := range ss.scored {
		pat, ok := in[ly.Name]
		if !ok {
			continue
		}
		sums[li] += ss.Kernel.OutputError(ly, pat.Values)
		ns[li]++
	}
	ss.logger().Log(context.Background(), logging.LevelTrace, "trial", "epoch", ss.Epoch, "trial", trl.Name)
	return nil
}
