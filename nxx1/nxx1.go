// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nxx1 provides the Noisy-X-over-X-plus-1 rate-code activation function
used by the default rate kernel.

x/(x+1) is smoothed as if convolved with gaussian noise of variance NVar, which
gives a small graded response just below threshold instead of a hard corner.
The convolution is approximated piecewise (sigmoid below zero, linear ramp over
[0, InterpRange), gain-corrected x/(x+1) above), so no lookup table is needed.
*/
package nxx1

import "github.com/goki/mat32"

// Params are the Noisy X/(X+1) activation function parameters.
type Params struct {
	Thr      float32 `def:"0.5" desc:"threshold value Theta (Q) for firing output activation"`
	Gain     float32 `def:"100" min:"0" desc:"gain (gamma) of the activation function -- lower values give more graded responses"`
	NVar     float32 `def:"0.005" min:"0" desc:"variance of the Gaussian noise kernel convolved with XX1 -- sets the curvature near threshold"`
	VmActThr float32 `def:"0.01" desc:"threshold on activation below which direct vm - act.thr is used"`

	SigMult      float32 `def:"0.33" view:"-" json:"-" desc:"multiplier on sigmoid used below threshold"`
	SigMultPow   float32 `def:"0.8" view:"-" json:"-" desc:"power for computing SigMultEff as function of gain * nvar"`
	SigGain      float32 `def:"3" view:"-" json:"-" desc:"gain on (x - thr) for the sigmoid below threshold"`
	InterpRange  float32 `def:"0.01" view:"-" json:"-" desc:"range above zero over which a linear ramp is used"`
	GainCorRange float32 `def:"10" view:"-" json:"-" desc:"range in units of nvar over which gain correction applies"`
	GainCor      float32 `def:"0.1" view:"-" json:"-" desc:"gain correction multiplier"`

	sigGainNVar float32
	sigMultEff  float32
	sigValAt0   float32
	interpVal   float32
}

func (xp *Params) Defaults() {
	xp.Thr = 0.5
	xp.Gain = 100
	xp.NVar = 0.005
	xp.VmActThr = 0.01
	xp.SigMult = 0.33
	xp.SigMultPow = 0.8
	xp.SigGain = 3.0
	xp.InterpRange = 0.01
	xp.GainCorRange = 10.0
	xp.GainCor = 0.1
	xp.Update()
}

// Update recomputes the derived constants, and must be called after
// any parameter changes.
func (xp *Params) Update() {
	xp.sigGainNVar = xp.SigGain / xp.NVar
	xp.sigMultEff = xp.sigMult(xp.Gain)
	xp.sigValAt0 = 0.5 * xp.sigMultEff
	xp.interpVal = xp.xx1Cor(xp.InterpRange, xp.Gain) - xp.sigValAt0
}

func (xp *Params) sigMult(gain float32) float32 {
	return xp.SigMult * mat32.Pow(gain*xp.NVar, xp.SigMultPow)
}

// XX1 is the plain x/(x+1) function
func XX1(x float32) float32 { return x / (x + 1) }

// xx1Cor is x/(x+1) at the given gain, with the gain reduced near zero
// to compensate for the convolution.
func (xp *Params) xx1Cor(x, gain float32) float32 {
	cor := (xp.GainCorRange - (x / xp.NVar)) / xp.GainCorRange
	if cor > 0 {
		gain *= 1 - xp.GainCor*cor
	}
	return XX1(gain * x)
}

// NoisyXX1 returns the activation for x = (ge - thr) at the default Gain.
func (xp *Params) NoisyXX1(x float32) float32 {
	switch {
	case x < 0:
		return xp.sigMultEff / (1 + mat32.Exp(-(x * xp.sigGainNVar)))
	case x < xp.InterpRange:
		return xp.sigValAt0 + (x/xp.InterpRange)*xp.interpVal
	}
	return xp.xx1Cor(x, xp.Gain)
}

// NoisyXX1Gain is NoisyXX1 with an externally supplied gain.
func (xp *Params) NoisyXX1Gain(x, gain float32) float32 {
	if x >= xp.InterpRange {
		return xp.xx1Cor(x, gain)
	}
	sme := xp.sigMult(gain)
	if x < 0 {
		return sme / (1 + mat32.Exp(-(x * xp.sigGainNVar)))
	}
	return 0.5*sme + (x/xp.InterpRange)*xp.interpVal
}
