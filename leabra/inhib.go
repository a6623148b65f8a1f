// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"github.com/emer/leabrasim/fffb"
	"github.com/emer/leabrasim/interinhib"
	"github.com/emer/leabrasim/params"
)

// leabra.InhibParams contains all the inhibition computation params and functions for basic Leabra
// This is included in leabra.Layer to support computation.
// This also includes other misc layer-level params such as running-average activation in the layer
// which is used for netinput rescaling
type InhibParams struct {
	Layer  fffb.Params           `view:"inline" desc:"inhibition across the entire layer"`
	Inter  interinhib.InterInhib `view:"inline" desc:"inhibition taken from other layers"`
	ActAvg ActAvgParams          `view:"inline" desc:"running-average activation computation values -- for overall estimates of layer activation levels, used in netinput scaling"`
}

func (ip *InhibParams) Update() {
	ip.Layer.Update()
	ip.ActAvg.Update()
}

func (ip *InhibParams) Defaults() {
	ip.Layer.Defaults()
	ip.Inter.Defaults()
	ip.ActAvg.Defaults()
}

// Fields adds the settable inhibition params under the Inhib prefix.
func (ip *InhibParams) Fields(flds params.Fields) {
	flds["Inhib.Layer.On"] = params.BoolField(&ip.Layer.On)
	flds["Inhib.Layer.Gi"] = params.FloatField(&ip.Layer.Gi)
	flds["Inhib.Layer.FF"] = params.FloatField(&ip.Layer.FF)
	flds["Inhib.Layer.FB"] = params.FloatField(&ip.Layer.FB)
	flds["Inhib.Layer.FBTau"] = params.FloatField(&ip.Layer.FBTau)
	flds["Inhib.Layer.MaxVsAvg"] = params.FloatField(&ip.Layer.MaxVsAvg)
	flds["Inhib.Layer.FF0"] = params.FloatField(&ip.Layer.FF0)
	ip.Inter.Fields("Inhib.Inter", flds)
	flds["Inhib.ActAvg.Init"] = params.FloatField(&ip.ActAvg.Init)
	flds["Inhib.ActAvg.Fixed"] = params.BoolField(&ip.ActAvg.Fixed)
	flds["Inhib.ActAvg.Tau"] = params.FloatField(&ip.ActAvg.Tau)
	flds["Inhib.ActAvg.Adjust"] = params.FloatField(&ip.ActAvg.Adjust)
}

///////////////////////////////////////////////////////////////////////
//  ActAvgParams

// ActAvgParams represents expected average activity levels in the layer.
// Used for computing running-average computation that is then used for netinput scaling.
// Also specifies time constant for updating average
// and for the target value for adapting inhibition in inhib_adapt.
type ActAvgParams struct {
	Init   float32 `min:"0" desc:"[typically 0.1 - 0.2] initial estimated average activity level in the layer (see also UseFirst option -- if that is off then it is used as a starting point for running average actual activity level, ActMAvg and ActPAvg) -- ActPAvg is used primarily for automatic netinput scaling, to balance out layers that have different activity levels -- thus it is important that init be relatively accurate -- good idea to update from recorded ActPAvg levels"`
	Fixed  bool    `def:"false" desc:"if true, then the Init value is used as a constant for ActPAvgEff (the effective value used for netinput rescaling), instead of using the actual running average activation"`
	Tau    float32 `viewif:"!Fixed" def:"100" min:"1" desc:"time constant for integrating act_p_avg values"`
	Adjust float32 `viewif:"!Fixed" def:"1" desc:"adjustment multiplier on the computed ActPAvg value that is used to compute ActPAvgEff"`

	Dt float32 `view:"-" json:"-" desc:"rate = 1 / tau"`
}

func (aa *ActAvgParams) Update() {
	aa.Dt = 1 / aa.Tau
}

func (aa *ActAvgParams) Defaults() {
	aa.Init = 0.15
	aa.Fixed = false
	aa.Tau = 100
	aa.Adjust = 1
	aa.Update()
}

// EffFmAvg updates the effective value from the running-average value
func (aa *ActAvgParams) EffFmAvg(eff *float32, avg float32) {
	if aa.Fixed {
		*eff = aa.Init
	} else {
		*eff = aa.Adjust * avg
	}
}

// AvgFmAct updates the running-average activation given average activity level in layer
func (aa *ActAvgParams) AvgFmAct(avg *float32, act float32) {
	if act < 0.0001 {
		return
	}
	*avg += aa.Dt * (act - *avg)
}
