// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/emer/emergent/env"
	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/leabrasim/errs"
	"github.com/goki/gi/gi"
	"github.com/pkg/errors"
)

// LayerDimNames2D are the dimension names of 2D layer patterns.
var LayerDimNames2D = []string{"Y", "X"}

// Trial is one row of the table: a named set of patterns keyed by layer name.
type Trial struct {
	Name     string                      `desc:"name of the trial, from the $Name column"`
	Patterns map[string]*etensor.Float32 `desc:"pattern for each layer, shaped like the layer"`
}

// TableEnv presents the trials of a pattern table in order (or permuted,
// when Shuffle is set), restarting at each Reset. The table is fully
// read and checked at load time and read-only thereafter.
type TableEnv struct {
	Nm         string           `desc:"name of this environment"`
	Dsc        string           `desc:"description of this environment"`
	Table      *etable.Table    `desc:"the loaded pattern table"`
	Trials     []Trial          `desc:"the trials, in file order"`
	LayerNames []string         `desc:"layer names in header order"`
	Shapes     map[string][]int `desc:"shape of each layer pattern"`
	Shuffle    bool             `desc:"present trials in a new random order after each Reset"`
	Order      []int            `desc:"presentation order of trial indexes"`
	Run        env.Ctr          `view:"inline" desc:"current run of model as provided during Init"`
	Epoch      env.Ctr          `view:"inline" desc:"number of times through the full set of trials"`
	Trial      env.Ctr          `view:"inline" desc:"trial counter within the epoch -- Cur is -1 before the first NextTrial"`
}

func (ev *TableEnv) Name() string { return ev.Nm }
func (ev *TableEnv) Desc() string { return ev.Dsc }

// NTrials returns the number of trials per epoch.
func (ev *TableEnv) NTrials() int { return len(ev.Trials) }

// OpenTableEnv loads a pattern table from a file, with the delimiter given
// by the extension: .csv is comma separated, anything else tab separated.
func OpenTableEnv(filename string, shapes map[string][]int) (*TableEnv, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, errors.Wrap(err, "env: OpenTableEnv")
	}
	delim := etable.Tab
	if strings.ToLower(filepath.Ext(filename)) == ".csv" {
		delim = etable.Comma
	}
	nm := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	dt := etable.NewTable(nm)
	if err := dt.OpenCSV(gi.FileName(filename), delim); err != nil {
		return nil, errs.Dataf("env: %s: %v", nm, err)
	}
	return NewTableEnvFromTable(nm, dt, shapes)
}

// NewTableEnv reads a pattern table in the emergent _H: / _D: format.
// The header names each cell as %Layer[2:row,col], with the first cell of
// each layer also giving the layer shape as <2:rows,cols>.
func NewTableEnv(name string, r io.Reader, delim etable.Delims, shapes map[string][]int) (*TableEnv, error) {
	dt := etable.NewTable(name)
	if err := dt.ReadCSV(r, delim); err != nil {
		return nil, errs.Dataf("env: %s: %v", name, err)
	}
	return NewTableEnvFromTable(name, dt, shapes)
}

// NewTableEnvFromTable builds the trials from a loaded table: a string
// Name column plus one float32 tensor column per layer. If shapes is
// non-nil, every layer column must be listed there with the same shape.
// Empty, NaN or infinite cells are rejected. Any problem is a Data error,
// and nothing is returned.
func NewTableEnvFromTable(name string, dt *etable.Table, shapes map[string][]int) (*TableEnv, error) {
	if dt.NumCols() == 0 {
		return nil, errs.Dataf("env: %s: no header line", name)
	}
	ev := &TableEnv{Nm: name, Table: dt, Shapes: map[string][]int{}}
	nmci := dt.ColIdx("Name")
	if nmci < 0 || dt.Cols[nmci].DataType() != etensor.STRING {
		return nil, errs.Dataf("env: %s: table must have a $Name column", name)
	}
	var cols []*etensor.Float32
	for ci, tsr := range dt.Cols {
		if ci == nmci {
			continue
		}
		lnm := dt.ColNames[ci]
		col, ok := tsr.(*etensor.Float32)
		if !ok || tsr.NumDims() != 3 {
			return nil, errs.Dataf("env: %s: column %s must be a 2D float pattern, e.g. %%%s[2:0,0]<2:rows,cols>", name, lnm, lnm)
		}
		shp := col.Shapes()[1:]
		if shapes != nil {
			lshp, ok := shapes[lnm]
			if !ok {
				return nil, errs.Dataf("env: %s: unknown layer %q", name, lnm)
			}
			if !etensor.EqualInts(lshp, shp) {
				return nil, errs.Dataf("env: %s: layer %s pattern shape %v does not match layer shape %v", name, lnm, shp, lshp)
			}
		}
		ev.LayerNames = append(ev.LayerNames, lnm)
		ev.Shapes[lnm] = shp
		cols = append(cols, col)
	}
	for ri := 0; ri < dt.Rows; ri++ {
		trl := Trial{Name: dt.CellStringIdx(nmci, ri), Patterns: make(map[string]*etensor.Float32, len(cols))}
		for li, col := range cols {
			lnm := ev.LayerNames[li]
			_, csz := col.RowCellSize()
			st := ri * csz
			for i, v := range col.Values[st : st+csz] {
				if col.IsNull1D(st+i) || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
					return nil, errs.Dataf("env: %s: row %d (%s) layer %s cell %d is not a finite number", name, ri, trl.Name, lnm, i)
				}
			}
			pat := etensor.NewFloat32(ev.Shapes[lnm], nil, LayerDimNames2D)
			copy(pat.Values, col.Values[st:st+csz])
			trl.Patterns[lnm] = pat
		}
		ev.Trials = append(ev.Trials, trl)
	}
	ev.Init(0)
	return ev, nil
}

// Validate checks that the environment has at least one trial.
func (ev *TableEnv) Validate() error {
	if len(ev.Trials) == 0 {
		return errs.Dataf("env: %s has no trials", ev.Nm)
	}
	return nil
}

func (ev *TableEnv) Counters() []env.TimeScales {
	return []env.TimeScales{env.Run, env.Epoch, env.Trial}
}

func (ev *TableEnv) States() env.Elements {
	els := make(env.Elements, len(ev.LayerNames))
	for i, lnm := range ev.LayerNames {
		els[i] = env.Element{Name: lnm, Shape: ev.Shapes[lnm], DimNames: LayerDimNames2D}
	}
	return els
}

// CurTrial returns the current trial, or nil before the first NextTrial.
func (ev *TableEnv) CurTrial() *Trial {
	if ev.Trial.Cur < 0 || ev.Trial.Cur >= len(ev.Order) {
		return nil
	}
	return &ev.Trials[ev.Order[ev.Trial.Cur]]
}

func (ev *TableEnv) State(element string) etensor.Tensor {
	trl := ev.CurTrial()
	if trl == nil {
		return nil
	}
	pat, ok := trl.Patterns[element]
	if !ok {
		return nil
	}
	return pat
}

func (ev *TableEnv) Actions() env.Elements {
	return nil
}

// Init resets all counters for the given run.
func (ev *TableEnv) Init(run int) {
	ev.Run.Scale = env.Run
	ev.Epoch.Scale = env.Epoch
	ev.Trial.Scale = env.Trial
	ev.Run.Init()
	ev.Epoch.Init()
	ev.Run.Cur = run
	ev.Order = make([]int, len(ev.Trials))
	for i := range ev.Order {
		ev.Order[i] = i
	}
	ev.Reset()
}

// Reset rewinds to the first trial, permuting the order if Shuffle is on.
func (ev *TableEnv) Reset() {
	ev.Trial.Max = len(ev.Trials)
	ev.Trial.Init()
	ev.Trial.Cur = -1 // init state -- key so that first NextTrial = 0
	if ev.Shuffle {
		erand.PermuteInts(ev.Order)
	}
}

// NextTrial advances to and returns the next trial, or false at the end of the epoch.
func (ev *TableEnv) NextTrial() (*Trial, bool) {
	if ev.Trial.Cur+1 >= len(ev.Trials) {
		return nil, false
	}
	ev.Trial.Cur++
	return ev.CurTrial(), true
}

// Step advances one trial, wrapping to a new epoch at the end.
func (ev *TableEnv) Step() bool {
	ev.Epoch.Same()
	if _, ok := ev.NextTrial(); !ok {
		ev.Epoch.Incr()
		ev.Reset()
		ev.NextTrial()
	}
	return true
}

func (ev *TableEnv) Action(element string, input etensor.Tensor) {
	// nop
}

func (ev *TableEnv) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Run:
		return ev.Run.Query()
	case env.Epoch:
		return ev.Epoch.Query()
	case env.Trial:
		return ev.Trial.Query()
	}
	return -1, -1, false
}

// Compile-time check that implements Env interface
var _ env.Env = (*TableEnv)(nil)
