// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package fffb provides feedforward (FF) and feedback (FB) layer inhibition.

FF inhibition tracks the average (or max) excitatory conductance into the
layer, and FB inhibition tracks its average activation, integrated over time.
Together they give a graded k-Winners-Take-All dynamic where roughly 10-20
percent of the units stay active.
*/
package fffb

// Params parameterizes FFFB inhibition for one layer.
type Params struct {
	On       bool    `desc:"enable this level of inhibition"`
	Gi       float32 `min:"0" def:"1.8" desc:"[1.5-2.3 typical] overall inhibition gain -- main parameter for overall activation levels, scaling both ff and fb"`
	FF       float32 `min:"0" def:"1" desc:"feedforward contribution, multiplies average netinput above FF0"`
	FB       float32 `min:"0" def:"1" desc:"feedback contribution, multiplies average activation"`
	FBTau    float32 `min:"0" def:"1.4" desc:"time constant in cycles for integrating feedback inhibition"`
	MaxVsAvg float32 `def:"0" desc:"proportion of max vs. average netinput used for ff: 0 = avg, 1 = max"`
	FF0      float32 `def:"0.1" desc:"feedforward zero point for average netinput"`

	fbDt float32
}

func (fb *Params) Defaults() {
	fb.On = true
	fb.Gi = 1.8
	fb.FF = 1
	fb.FB = 1
	fb.FBTau = 1.4
	fb.MaxVsAvg = 0
	fb.FF0 = 0.1
	fb.Update()
}

// Update recomputes the integration rate from FBTau.
func (fb *Params) Update() {
	if fb.FBTau <= 0 {
		fb.fbDt = 1
		return
	}
	fb.fbDt = 1 / fb.FBTau
}

// FFInhib returns feedforward inhibition from the avg and max excitatory conductance.
func (fb *Params) FFInhib(avgGe, maxGe float32) float32 {
	net := avgGe + fb.MaxVsAvg*(maxGe-avgGe)
	if net <= fb.FF0 {
		return 0
	}
	return fb.FF * (net - fb.FF0)
}

// FBInhib returns the target feedback inhibition for the average activation.
func (fb *Params) FBInhib(avgAct float32) float32 {
	return fb.FB * avgAct
}

// Inhib updates inh.Gi from the Ge and Act stats already gathered into it.
// The feedback term is integrated toward its new value at rate 1 / FBTau.
func (fb *Params) Inhib(inh *Inhib) {
	if !fb.On {
		inh.Zero()
		return
	}
	inh.FFi = fb.FFInhib(inh.Ge.Avg, inh.Ge.Max)
	inh.FBi += fb.fbDt * (fb.FBInhib(inh.Act.Avg) - inh.FBi)
	inh.Gi = fb.Gi * (inh.FFi + inh.FBi)
}
