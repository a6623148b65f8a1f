// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads a complete simulation description from YAML:
// the network structure, parameter sets, environment file, run options,
// logging and metrics storage.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/emer/emergent/relpos"
	"github.com/emer/leabrasim/errs"
	"github.com/emer/leabrasim/leabra"
	"github.com/emer/leabrasim/params"
	"github.com/emer/leabrasim/paths"
	"github.com/emer/leabrasim/sim"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File is the top-level configuration.
type File struct {
	// Name of the simulation, used as the run name.
	Name string `yaml:"name"`

	Network NetworkConfig `yaml:"network"`

	// Params holds all the named param sets available to the run.
	Params params.Sets `yaml:"params"`

	// ParamSets selects, in order, the sets applied at Init.
	ParamSets []string `yaml:"param_sets"`

	Env     EnvConfig     `yaml:"env"`
	Run     RunConfig     `yaml:"run"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// NetworkConfig declares layers and the paths between them.
type NetworkConfig struct {
	Name   string        `yaml:"name"`
	Layers []LayerConfig `yaml:"layers"`
	Paths  []PathConfig  `yaml:"paths"`
}

// LayerConfig declares one layer.
type LayerConfig struct {
	Name string `yaml:"name"`
	Rows int    `yaml:"rows"`
	Cols int    `yaml:"cols"`
	// Type is Input, Target, Compare or Super (default).
	Type  string `yaml:"type,omitempty"`
	Class string `yaml:"class,omitempty"`

	// Position relative to another layer, for the display layout.
	RelTo string  `yaml:"rel_to,omitempty"`
	Rel   string  `yaml:"rel,omitempty"`
	Space float32 `yaml:"space,omitempty"`

	// InterInhib names layers whose inhibition this layer also takes on.
	InterInhib []string `yaml:"inter_inhib,omitempty"`
}

// PathConfig declares a pathway. Bidir adds the matching back path from
// Recv to Send.
type PathConfig struct {
	Send    string `yaml:"send"`
	Recv    string `yaml:"recv"`
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type,omitempty"`
	Class   string `yaml:"class,omitempty"`
	Bidir   bool   `yaml:"bidir,omitempty"`

	// PCon is the connection probability for unifrnd.
	PCon float32 `yaml:"pcon,omitempty"`

	// Radius is the connection radius for circle.
	Radius int `yaml:"radius,omitempty"`
}

// EnvConfig locates the pattern table.
type EnvConfig struct {
	File    string `yaml:"file"`
	Shuffle bool   `yaml:"shuffle"`
}

// RunConfig holds the training options.
type RunConfig struct {
	Epochs    int    `yaml:"epochs"`
	Runs      int    `yaml:"runs"`
	Aggregate string `yaml:"aggregate"`
	Seed      int64  `yaml:"seed"`

	Kernel KernelConfig `yaml:"kernel"`
}

// KernelConfig holds the rate kernel timing.
type KernelConfig struct {
	Quarters  int     `yaml:"quarters"`
	CycPerQtr int     `yaml:"cyc_per_qtr"`
	PlusQtrs  int     `yaml:"plus_qtrs"`
	ErrTol    float32 `yaml:"err_tol"`
}

// LoggingConfig sets the log verbosity: "warn", "info" (default), "debug" or "trace".
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig selects where epoch errors are stored.
type MetricsConfig struct {
	// Store is "memory" (default), "sqlite" or "none".
	Store string `yaml:"store"`

	// Path is the sqlite database file.
	Path string `yaml:"path,omitempty"`
}

// Default returns a File with default run options and no network.
func Default() *File {
	rk := leabra.RateKernel{}
	rk.Defaults()
	return &File{
		Name: "leabrasim",
		Run: RunConfig{
			Epochs:    10,
			Runs:      1,
			Aggregate: "mean",
			Seed:      1,
			Kernel: KernelConfig{
				Quarters:  rk.Quarters,
				CycPerQtr: rk.CycPerQtr,
				PlusQtrs:  rk.PlusQtrs,
				ErrTol:    rk.ErrTol,
			},
		},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Store: "memory"},
	}
}

// Load reads a YAML file over the defaults and applies environment overrides.
// Relative env and metrics paths are not resolved here.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: reading file")
	}
	cf, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cf, nil
}

// Parse decodes YAML over the defaults, applies environment overrides and validates.
func Parse(data []byte) (*File, error) {
	cf := Default()
	if err := yaml.Unmarshal(data, cf); err != nil {
		return nil, errs.Configf("config: parsing yaml: %v", err)
	}
	if err := cf.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

// applyEnvOverrides applies LEABRASIM_* environment variables.
func (cf *File) applyEnvOverrides() error {
	if v := os.Getenv("LEABRASIM_LOG_LEVEL"); v != "" {
		cf.Logging.Level = v
	}
	if v := os.Getenv("LEABRASIM_METRICS_PATH"); v != "" {
		cf.Metrics.Store = "sqlite"
		cf.Metrics.Path = v
	}
	if v := os.Getenv("LEABRASIM_EPOCHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errs.Configf("config: LEABRASIM_EPOCHS %q: %v", v, err)
		}
		cf.Run.Epochs = n
	}
	if v := os.Getenv("LEABRASIM_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errs.Configf("config: LEABRASIM_SEED %q: %v", v, err)
		}
		cf.Run.Seed = n
	}
	return nil
}

// Validate checks the run options and that the params only name settable
// parameters. Network structure is checked when it is built.
func (cf *File) Validate() error {
	if cf.Run.Epochs < 0 {
		return errs.Configf("config: run.epochs must be >= 0, got %d", cf.Run.Epochs)
	}
	if cf.Run.Runs < 1 {
		return errs.Configf("config: run.runs must be >= 1, got %d", cf.Run.Runs)
	}
	if _, err := cf.Aggregate(); err != nil {
		return err
	}
	kc := cf.Run.Kernel
	if kc.Quarters < 2 || kc.PlusQtrs < 1 || kc.PlusQtrs >= kc.Quarters || kc.CycPerQtr < 1 {
		return errs.Configf("config: invalid kernel timing %+v", kc)
	}
	switch strings.ToLower(cf.Logging.Level) {
	case "", "warn", "info", "debug", "trace":
	default:
		return errs.Configf("config: invalid log level %q (valid: warn, info, debug, trace)", cf.Logging.Level)
	}
	switch cf.Metrics.Store {
	case "", "none", "memory":
	case "sqlite":
		if cf.Metrics.Path == "" {
			return errs.Configf("config: metrics.path is required for the sqlite store")
		}
	default:
		return errs.Configf("config: unknown metrics store %q (valid: memory, sqlite, none)", cf.Metrics.Store)
	}
	if err := cf.Params.Validate(leabra.NewSchema()); err != nil {
		return err
	}
	for _, nm := range cf.ParamSets {
		if _, ok := cf.Params[nm]; !ok {
			return errs.Configf("config: param_sets names unknown set %q", nm)
		}
	}
	return nil
}

// Aggregate returns the epoch aggregation named by run.aggregate.
func (cf *File) Aggregate() (sim.Aggregate, error) {
	switch strings.ToLower(cf.Run.Aggregate) {
	case "", "mean":
		return sim.Mean, nil
	case "sum":
		return sim.Sum, nil
	}
	return sim.Mean, errs.Configf("config: unknown aggregate %q (valid: mean, sum)", cf.Run.Aggregate)
}

// SimConfig returns the options for the sim driver.
func (cf *File) SimConfig() sim.Config {
	agg, _ := cf.Aggregate()
	return sim.Config{
		RunName:   cf.Name,
		ParamSets: cf.ParamSets,
		Aggregate: agg,
		Seed:      cf.Run.Seed,
	}
}

// NewKernel returns the rate kernel with the configured timing.
func (cf *File) NewKernel() *leabra.RateKernel {
	rk := leabra.NewRateKernel(cf.Run.Seed)
	kc := cf.Run.Kernel
	rk.Quarters = kc.Quarters
	rk.CycPerQtr = kc.CycPerQtr
	rk.PlusQtrs = kc.PlusQtrs
	rk.ErrTol = kc.ErrTol
	return rk
}

// Shapes returns the [rows, cols] shape of every layer that accepts
// input, keyed by name, for reading the environment table.
func (cf *File) Shapes() map[string][]int {
	shapes := make(map[string][]int)
	for _, lc := range cf.Network.Layers {
		lt, err := lc.LayerType()
		if err != nil || !lt.AcceptsInput() {
			continue
		}
		shapes[lc.Name] = []int{lc.Rows, lc.Cols}
	}
	return shapes
}

// LayerType parses the layer type, defaulting to a hidden layer.
func (lc *LayerConfig) LayerType() (leabra.LayerTypes, error) {
	if lc.Type == "" {
		return leabra.SuperLayer, nil
	}
	return leabra.ParseLayerType(lc.Type)
}

var relations = map[string]relpos.Relations{
	"rightof": relpos.RightOf,
	"leftof":  relpos.LeftOf,
	"behind":  relpos.Behind,
	"frontof": relpos.FrontOf,
	"above":   relpos.Above,
	"below":   relpos.Below,
}

// BuildNetwork constructs the network, returning a Config error for the
// first invalid layer or path declaration.
func (cf *File) BuildNetwork() (*leabra.Network, error) {
	nc := cf.Network
	name := nc.Name
	if name == "" {
		name = cf.Name
	}
	if len(nc.Layers) == 0 {
		return nil, errs.Configf("config: network %q has no layers", name)
	}
	net := leabra.NewNetwork(name)
	for _, lc := range nc.Layers {
		lt, err := lc.LayerType()
		if err != nil {
			return nil, errs.Configf("config: layer %s: unknown type %q", lc.Name, lc.Type)
		}
		ly, err := net.AddLayer(lc.Name, lc.Rows, lc.Cols, lt)
		if err != nil {
			return nil, err
		}
		if lc.Class != "" {
			ly.SetClass(lc.Class)
		}
		if lc.RelTo != "" {
			rl, ok := relations[strings.ToLower(lc.Rel)]
			if !ok {
				return nil, errs.Configf("config: layer %s: unknown relation %q", lc.Name, lc.Rel)
			}
			ly.SetRelPos(relpos.Rel{Rel: rl, Other: lc.RelTo, YAlign: relpos.Front, Space: lc.Space})
		}
		ly.Inhib.Inter.Lays = lc.InterInhib
	}
	for _, lc := range nc.Layers {
		for _, onm := range lc.InterInhib {
			if _, err := net.LayerByNameTry(onm); err != nil {
				return nil, errors.Wrapf(err, "config: layer %s inter_inhib", lc.Name)
			}
		}
	}
	for _, pc := range nc.Paths {
		if err := cf.addPath(net, pc); err != nil {
			return nil, errors.Wrapf(err, "config: path %s to %s", pc.Send, pc.Recv)
		}
	}
	return net, nil
}

func (cf *File) addPath(net *leabra.Network, pc PathConfig) error {
	send, err := net.LayerByNameTry(pc.Send)
	if err != nil {
		return err
	}
	recv, err := net.LayerByNameTry(pc.Recv)
	if err != nil {
		return err
	}
	pt := leabra.ForwardPath
	if pc.Type != "" {
		if err := pt.FromString(pc.Type); err != nil {
			if err := pt.FromString(pc.Type + "Path"); err != nil {
				return errs.Configf("unknown path type %q", pc.Type)
			}
		}
	}
	pat, err := newPattern(pc)
	if err != nil {
		return err
	}
	pj, err := net.ConnectLayersPat(send, recv, pat, pt)
	if err != nil {
		return err
	}
	if pc.Class != "" {
		pj.SetClass(pc.Class)
	}
	if !pc.Bidir {
		return nil
	}
	if send == recv {
		return errs.Configf("bidir requires two different layers")
	}
	if pat, err = newPattern(pc); err != nil {
		return err
	}
	back, err := net.ConnectLayersPat(recv, send, pat, leabra.BackPath)
	if err != nil {
		return err
	}
	if pc.Class != "" {
		back.SetClass(pc.Class)
	}
	return nil
}

func newPattern(pc PathConfig) (paths.Pattern, error) {
	pat, err := paths.New(pc.Pattern)
	if err != nil {
		return nil, err
	}
	switch pt := pat.(type) {
	case *paths.UnifRnd:
		if pc.PCon > 0 {
			pt.PCon = pc.PCon
		}
	case *paths.Circle:
		if pc.Radius > 0 {
			pt.Radius = pc.Radius
		}
	}
	return pat, nil
}
