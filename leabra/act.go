// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"github.com/emer/etable/minmax"
	"github.com/emer/leabrasim/chans"
	"github.com/emer/leabrasim/knadapt"
	"github.com/emer/leabrasim/nxx1"
	"github.com/emer/leabrasim/params"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the activation params and functions for leabra

// leabra.ActParams contains all the activation computation params and functions
// for basic Leabra, at the neuron level.
// This is included in leabra.Layer to drive the computation.
type ActParams struct {
	XX1     nxx1.Params    `view:"inline" desc:"Noisy X/X+1 rate code activation function parameters"`
	Init    ActInitParams  `view:"inline" desc:"initial values for key network state variables -- initialized at start of trial with InitActs or DecayActs"`
	Dt      DtParams       `view:"inline" desc:"time and rate constants for temporal derivatives / updating of activation state"`
	Gbar    chans.Chans    `view:"inline" desc:"[Defaults: 1, .1, 1, 1] maximal conductances levels for channels"`
	Erev    chans.Chans    `view:"inline" desc:"[Defaults: 1, .3, .25, .25] reversal potentials for each channel"`
	Clamp   ClampParams    `view:"inline" desc:"how external inputs drive neural activations"`
	VmRange minmax.F32     `view:"inline" desc:"range for Vm membrane potential -- [0, 2.0] by default"`
	KNa     knadapt.Params `view:"no-inline" desc:"sodium-gated potassium channel adaptation parameters -- activates an inhibitory leak-like current as a function of neural activity (firing = Na influx) at three different time-scales (M-type = fast, Slick = medium, Slack = slow)"`
}

func (ac *ActParams) Defaults() {
	ac.XX1.Defaults()
	ac.Init.Defaults()
	ac.Dt.Defaults()
	ac.Gbar.SetAll(1.0, 0.1, 1.0, 1.0)
	ac.Erev.SetAll(1.0, 0.3, 0.25, 0.25)
	ac.Clamp.Defaults()
	ac.VmRange.Min = 0
	ac.VmRange.Max = 2.0
	ac.KNa.Defaults()
	ac.KNa.On = false
	ac.Update()
}

// Update must be called after any changes to parameters
func (ac *ActParams) Update() {
	ac.XX1.Update()
	ac.Dt.Update()
	ac.KNa.Update()
}

// Fields adds the settable activation params under the Act prefix.
func (ac *ActParams) Fields(flds params.Fields) {
	flds["Act.XX1.Thr"] = params.FloatField(&ac.XX1.Thr)
	flds["Act.XX1.Gain"] = params.FloatField(&ac.XX1.Gain)
	flds["Act.XX1.NVar"] = params.FloatField(&ac.XX1.NVar)
	flds["Act.XX1.VmActThr"] = params.FloatField(&ac.XX1.VmActThr)
	flds["Act.Init.Decay"] = params.FloatField(&ac.Init.Decay)
	flds["Act.Init.Vm"] = params.FloatField(&ac.Init.Vm)
	flds["Act.Init.Act"] = params.FloatField(&ac.Init.Act)
	flds["Act.Dt.Integ"] = params.FloatField(&ac.Dt.Integ)
	flds["Act.Dt.VmTau"] = params.FloatField(&ac.Dt.VmTau)
	flds["Act.Dt.GTau"] = params.FloatField(&ac.Dt.GTau)
	flds["Act.Dt.AvgTau"] = params.FloatField(&ac.Dt.AvgTau)
	ac.Gbar.Fields("Act.Gbar", flds)
	ac.Erev.Fields("Act.Erev", flds)
	flds["Act.Clamp.Hard"] = params.BoolField(&ac.Clamp.Hard)
	flds["Act.Clamp.Gain"] = params.FloatField(&ac.Clamp.Gain)
	flds["Act.Clamp.Max"] = params.FloatField(&ac.Clamp.Range.Max)
	flds["Act.VmRange.Max"] = params.FloatField(&ac.VmRange.Max)
	ac.KNa.Fields("Act.KNa", flds)
}

///////////////////////////////////////////////////////////////////////
//  Init

// InitActs initializes activation state in neuron -- called during InitWts but otherwise not
// automatically called (DecayState is used instead)
func (ac *ActParams) InitActs(nrn *Neuron) {
	nrn.Act = ac.Init.Act
	nrn.Ge = 0
	nrn.Gi = 0
	nrn.Inet = 0
	nrn.Vm = ac.Init.Vm
	nrn.ActM = 0
	nrn.ActP = 0
	nrn.ActDif = 0
	nrn.GeRaw = 0
	nrn.GiRaw = 0
	nrn.Gk = 0
	nrn.GknaFast = 0
	nrn.GknaMed = 0
	nrn.GknaSlow = 0
}

// DecayState decays the activation state toward initial values in proportion to given decay parameter.
// Called with ac.Init.Decay by Layer during AlphaCycInit
func (ac *ActParams) DecayState(nrn *Neuron, decay float32) {
	if decay == 0 {
		return
	}
	nrn.Act -= decay * (nrn.Act - ac.Init.Act)
	nrn.Ge -= decay * nrn.Ge
	nrn.Gi -= decay * nrn.Gi
	nrn.Gk -= decay * nrn.Gk
	nrn.Vm -= decay * (nrn.Vm - ac.Init.Vm)
}

///////////////////////////////////////////////////////////////////////
//  Cycle

// GeFmRaw integrates Ge excitatory conductance from GeRaw value,
// adding in soft-clamped external input if present
func (ac *ActParams) GeFmRaw(nrn *Neuron) {
	geRaw := nrn.GeRaw
	if !ac.Clamp.Hard && nrn.HasFlag(NeurHasExt) {
		geRaw += ac.Clamp.Gain * nrn.Ext
	}
	nrn.Ge += ac.Dt.Integ * ac.Dt.GDt * (geRaw - nrn.Ge)
}

// VmFmG computes membrane potential Vm from conductances Ge, Gi, and Gk.
func (ac *ActParams) VmFmG(nrn *Neuron) {
	nrn.Inet = chans.Inet(ac.Gbar, ac.Erev, nrn.Vm, nrn.Ge, nrn.Gi, nrn.Gk)
	nrn.Vm = ac.VmRange.ClipVal(nrn.Vm + ac.Dt.Integ*ac.Dt.VmDt*nrn.Inet)
}

// GeThrFmG computes the threshold for Ge based on all other conductances,
// including Gk.
func (ac *ActParams) GeThrFmG(nrn *Neuron) float32 {
	return chans.GeAtThr(ac.Gbar, ac.Erev, ac.XX1.Thr, nrn.Gi, nrn.Gk)
}

// ActFmG computes rate-coded activation Act from conductances Ge, Gi, Gk.
// Below VmActThr activation, the membrane potential drives the
// function directly so that activity can start up smoothly.
// With KNa on, the adaptation conductances then integrate the new Act.
func (ac *ActParams) ActFmG(nrn *Neuron) {
	var nwAct float32
	if nrn.Act < ac.XX1.VmActThr && nrn.Vm <= ac.XX1.Thr {
		nwAct = ac.XX1.NoisyXX1(nrn.Vm - ac.XX1.Thr)
	} else {
		geThr := ac.GeThrFmG(nrn)
		nwAct = ac.XX1.NoisyXX1(nrn.Ge*ac.Gbar.E - geThr)
	}
	nrn.Act += ac.Dt.Integ * ac.Dt.VmDt * (nwAct - nrn.Act)
	if ac.KNa.On {
		ac.KNa.GcFmRate(&nrn.GknaFast, &nrn.GknaMed, &nrn.GknaSlow, nrn.Act)
		nrn.Gk = nrn.GknaFast + nrn.GknaMed + nrn.GknaSlow
	}
}

// HasHardClamp returns true if the neuron is hard clamped to its Ext value
func (ac *ActParams) HasHardClamp(nrn *Neuron) bool {
	return ac.Clamp.Hard && nrn.HasFlag(NeurHasExt)
}

// HardClamp clamps activation from external input -- just does it -- use HasHardClamp to check
// if it should do it.
func (ac *ActParams) HardClamp(nrn *Neuron) {
	ext := ac.Clamp.Range.ClipVal(nrn.Ext)
	nrn.Act = ext
	nrn.Vm = ac.XX1.Thr + ext/ac.XX1.Gain
	nrn.Inet = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  ActInitParams

// ActInitParams are initial values for key network state variables.
// Initialized at start of trial with Init_Acts or DecayState.
type ActInitParams struct {
	Decay float32 `def:"0,1" max:"1" min:"0" desc:"proportion to decay activation state toward initial values at start of every trial"`
	Vm    float32 `def:"0.4" desc:"initial membrane potential -- see e_rev.l for the resting potential (typically .3) -- often works better to have a somewhat elevated initial membrane potential relative to that"`
	Act   float32 `def:"0" desc:"initial activation value -- typically 0"`
}

func (ai *ActInitParams) Defaults() {
	ai.Decay = 1
	ai.Vm = 0.4
	ai.Act = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  DtParams

// DtParams are time and rate constants for temporal derivatives in Leabra (Vm, net input)
type DtParams struct {
	Integ  float32 `def:"1,0.5" min:"0" desc:"overall rate constant for numerical integration, for all equations at the unit level -- all time constants are specified in millisecond units, with one cycle = 1 msec"`
	VmTau  float32 `def:"3.3" min:"1" desc:"membrane potential and rate-code activation time constant in cycles, which should be milliseconds typically"`
	GTau   float32 `def:"1.4" min:"1" desc:"time constant for integrating synaptic conductances, in cycles"`
	AvgTau float32 `def:"200" desc:"for integrating activation average (ActAvg), time constant in trials"`

	VmDt  float32 `view:"-" json:"-" desc:"1 / VmTau"`
	GDt   float32 `view:"-" json:"-" desc:"1 / GTau"`
	AvgDt float32 `view:"-" json:"-" desc:"1 / AvgTau"`
}

func (dp *DtParams) Update() {
	dp.VmDt = 1 / dp.VmTau
	dp.GDt = 1 / dp.GTau
	dp.AvgDt = 1 / dp.AvgTau
}

func (dp *DtParams) Defaults() {
	dp.Integ = 1
	dp.VmTau = 3.3
	dp.GTau = 1.4
	dp.AvgTau = 200
	dp.Update()
}

//////////////////////////////////////////////////////////////////////////////////////
//  ClampParams

// ClampParams are for specifying how external inputs are clamped onto network activation values
type ClampParams struct {
	Hard  bool       `def:"true" desc:"whether to hard clamp inputs where activation is directly set to external input value (Act = Ext) or do soft clamping where Ext is added into Ge excitatory current (Ge += Gain * Ext)"`
	Range minmax.F32 `viewif:"Hard" desc:"range of external input activation values allowed -- Max is .95 by default due to saturating nature of rate code activation function"`
	Gain  float32    `viewif:"!Hard" def:"0.02:0.5" desc:"soft clamp gain factor (Ge += Gain * Ext)"`
}

func (cp *ClampParams) Defaults() {
	cp.Hard = true
	cp.Range.Min = 0
	cp.Range.Max = 0.95
	cp.Gain = 0.2
}
