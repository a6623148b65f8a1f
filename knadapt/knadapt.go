// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package knadapt provides sodium (Na) gated potassium (K) currents that drive
adaptation (accommodation) in neural firing. As neurons fire, Na influx
activates the K channels, which, like leak channels, pull the membrane
potential back down toward rest. Three time constants are supported:
M-type (fast), Slick (medium) and Slack (slow).

Kaczmarek, L. K. (2013). Slack, Slick, and Sodium-Activated Potassium Channels.
ISRN Neuroscience, 2013. https://doi.org/10.1155/2013/354262
*/
package knadapt

import "github.com/emer/leabrasim/params"

// Chan describes one time scale of sodium-gated adaptation.
type Chan struct {
	On   bool    `desc:"if On, use this component of K-Na adaptation"`
	Rise float32 `viewif:"On" desc:"rise rate of adaptation as a function of Na concentration -- directly multiplies -- 1/rise = tau for rise rate"`
	Max  float32 `viewif:"On" desc:"maximum potential conductance of the K channels -- divide nA biological value by 10 for the normalized units here"`
	Tau  float32 `viewif:"On" min:"1" desc:"time constant in cycles for decay of adaptation, which should be milliseconds typically"`
	Dt   float32 `view:"-" json:"-" desc:"1/Tau rate constant"`
}

func (ka *Chan) Defaults() {
	ka.On = true
	ka.Rise = 0.01
	ka.Max = 0.1
	ka.Tau = 100
	ka.Update()
}

func (ka *Chan) Update() {
	ka.Dt = 1 / ka.Tau
}

// GcFmSpike updates the KNa conductance based on spike or not
func (ka *Chan) GcFmSpike(gKNa *float32, spike bool) {
	if !ka.On {
		*gKNa = 0
		return
	}
	if spike {
		*gKNa += ka.Rise * (ka.Max - *gKNa)
	} else {
		*gKNa -= ka.Dt * *gKNa
	}
}

// GcFmRate updates the KNa conductance based on rate-coded activation.
// act should already have the compensatory rate multiplier applied.
func (ka *Chan) GcFmRate(gKNa *float32, act float32) {
	if !ka.On {
		*gKNa = 0
		return
	}
	*gKNa += act*ka.Rise*(ka.Max-*gKNa) - (ka.Dt * *gKNa)
}

// Fields adds the settable values under the given path prefix.
func (ka *Chan) Fields(pre string, flds params.Fields) {
	flds[pre+".On"] = params.BoolField(&ka.On)
	flds[pre+".Rise"] = params.FloatField(&ka.Rise)
	flds[pre+".Max"] = params.FloatField(&ka.Max)
	flds[pre+".Tau"] = params.FloatField(&ka.Tau)
}

// Params describes the sodium-gated potassium channel adaptation mechanism.
// Evidence supports at least 3 different time constants:
// M-type (fast), Slick (medium), and Slack (slow)
type Params struct {
	On   bool    `desc:"if On, apply K-Na adaptation"`
	Rate float32 `viewif:"On" def:"0.8" desc:"extra multiplier for rate-coded activations on rise factors -- adjust to match discrete spiking"`
	Fast Chan    `view:"inline" desc:"fast time-scale adaptation"`
	Med  Chan    `view:"inline" desc:"medium time-scale adaptation"`
	Slow Chan    `view:"inline" desc:"slow time-scale adaptation"`
}

func (ka *Params) Defaults() {
	ka.On = true
	ka.Rate = 0.8
	ka.Fast.Defaults()
	ka.Med.Defaults()
	ka.Slow.Defaults()
	ka.Fast.Tau = 50
	ka.Fast.Rise = 0.05
	ka.Fast.Max = 0.1
	ka.Med.Tau = 200
	ka.Med.Rise = 0.02
	ka.Med.Max = 0.1
	ka.Slow.Tau = 1000
	ka.Slow.Rise = 0.001
	ka.Slow.Max = 1
	ka.Update()
}

func (ka *Params) Update() {
	ka.Fast.Update()
	ka.Med.Update()
	ka.Slow.Update()
}

// Fields adds the settable values under the given path prefix,
// e.g. Act.KNa.
func (ka *Params) Fields(pre string, flds params.Fields) {
	flds[pre+".On"] = params.BoolField(&ka.On)
	flds[pre+".Rate"] = params.FloatField(&ka.Rate)
	ka.Fast.Fields(pre+".Fast", flds)
	ka.Med.Fields(pre+".Med", flds)
	ka.Slow.Fields(pre+".Slow", flds)
}

// GcFmSpike updates all time scales of KNa adaptation from spiking
func (ka *Params) GcFmSpike(gKNaF, gKNaM, gKNaS *float32, spike bool) {
	ka.Fast.GcFmSpike(gKNaF, spike)
	ka.Med.GcFmSpike(gKNaM, spike)
	ka.Slow.GcFmSpike(gKNaS, spike)
}

// GcFmRate updates all time scales of KNa adaptation from rate code activation
func (ka *Params) GcFmRate(gKNaF, gKNaM, gKNaS *float32, act float32) {
	act *= ka.Rate
	ka.Fast.GcFmRate(gKNaF, act)
	ka.Med.GcFmRate(gKNaM, act)
	ka.Slow.GcFmRate(gKNaS, act)
}
