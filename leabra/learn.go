// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"github.com/emer/leabrasim/params"
	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  learn.go contains the learning params and functions for leabra

// LayerLearnParams are the layer-level learning params.
type LayerLearnParams struct {
	On bool `def:"true" desc:"if false, weights of pathways received by this layer do not change"`
}

func (ll *LayerLearnParams) Defaults() {
	ll.On = true
}

// Fields adds the settable params under the Learn prefix.
func (ll *LayerLearnParams) Fields(flds params.Fields) {
	flds["Learn.On"] = params.BoolField(&ll.On)
}

// LearnSynParams manages learning-related parameters at the synapse-level.
type LearnSynParams struct {
	Learn    bool           `desc:"enable learning for this pathway"`
	Lrate    float32        `viewif:"Learn" desc:"current effective learning rate (multiplies DWt values, determining rate of change of weights)"`
	XCal     XCalParams     `viewif:"Learn" desc:"parameters for the XCal learning rule"`
	WtSig    WtSigParams    `viewif:"Learn" desc:"parameters for the sigmoidal contrast weight enhancement"`
	Norm     DWtNormParams  `viewif:"Learn" desc:"parameters for normalizing weight changes by abs max dwt"`
	Momentum MomentumParams `viewif:"Learn" desc:"parameters for momentum across weight changes"`
	WtBal    WtBalParams    `viewif:"Learn" desc:"parameters for balancing strength of weight increases vs. decreases"`
}

func (ls *LearnSynParams) Update() {
	ls.XCal.Update()
	ls.Norm.Update()
	ls.Momentum.Update()
}

func (ls *LearnSynParams) Defaults() {
	ls.Learn = true
	ls.Lrate = 0.04
	ls.XCal.Defaults()
	ls.WtSig.Defaults()
	ls.Norm.Defaults()
	ls.Momentum.Defaults()
	ls.WtBal.Defaults()
	ls.Update()
}

// Fields adds the settable learning params under the Learn prefix.
func (ls *LearnSynParams) Fields(flds params.Fields) {
	flds["Learn.Learn"] = params.BoolField(&ls.Learn)
	flds["Learn.Lrate"] = params.FloatField(&ls.Lrate)
	flds["Learn.XCal.DRev"] = params.FloatField(&ls.XCal.DRev)
	flds["Learn.XCal.DThr"] = params.FloatField(&ls.XCal.DThr)
	flds["Learn.WtSig.Gain"] = params.FloatField(&ls.WtSig.Gain)
	flds["Learn.WtSig.Off"] = params.FloatField(&ls.WtSig.Off)
	flds["Learn.WtSig.SoftBound"] = params.BoolField(&ls.WtSig.SoftBound)
	flds["Learn.Norm.On"] = params.BoolField(&ls.Norm.On)
	flds["Learn.Norm.DecayTau"] = params.FloatField(&ls.Norm.DecayTau)
	flds["Learn.Norm.NormMin"] = params.FloatField(&ls.Norm.NormMin)
	flds["Learn.Norm.LrComp"] = params.FloatField(&ls.Norm.LrComp)
	flds["Learn.Momentum.On"] = params.BoolField(&ls.Momentum.On)
	flds["Learn.Momentum.MTau"] = params.FloatField(&ls.Momentum.MTau)
	flds["Learn.Momentum.LrComp"] = params.FloatField(&ls.Momentum.LrComp)
	flds["Learn.WtBal.On"] = params.BoolField(&ls.WtBal.On)
	flds["Learn.WtBal.AvgThr"] = params.FloatField(&ls.WtBal.AvgThr)
	flds["Learn.WtBal.HiThr"] = params.FloatField(&ls.WtBal.HiThr)
	flds["Learn.WtBal.HiGain"] = params.FloatField(&ls.WtBal.HiGain)
	flds["Learn.WtBal.LoThr"] = params.FloatField(&ls.WtBal.LoThr)
	flds["Learn.WtBal.LoGain"] = params.FloatField(&ls.WtBal.LoGain)
}

// LWtFmWt updates the linear weight value based on the current effective Wt value.
// effective weight is sigmoidally contrast-enhanced relative to the linear weight.
func (ls *LearnSynParams) LWtFmWt(syn *Synapse) {
	syn.LWt = ls.WtSig.LinFmSigWt(syn.Wt)
}

// CHLdWt returns the error-driven weight change for the contrast between
// plus phase (srs = send * recv ActP) and minus phase (srm) coproducts.
func (ls *LearnSynParams) CHLdWt(suActP, suActM, ruActP, ruActM float32) float32 {
	srs := suActP * ruActP
	srm := suActM * ruActM
	return ls.XCal.DWt(srs, srm)
}

// DWt accumulates the learning-rate scaled weight change for one synapse,
// applying dwt normalization and momentum when enabled.
func (ls *LearnSynParams) DWt(sy *Synapse, dwt float32) {
	norm := float32(1)
	if ls.Norm.On {
		norm = ls.Norm.NormFmAbsDWt(&sy.Norm, mat32.Abs(dwt))
	}
	if ls.Momentum.On {
		dwt = norm * ls.Momentum.MomentFmDWt(&sy.Moment, dwt)
	} else {
		dwt *= norm
	}
	sy.DWt += ls.Lrate * dwt
}

// WtFmDWt updates the synaptic weights from accumulated weight changes
// wbInc and wbDec are the weight balance factors, wt is the sigmoidal contrast-enhanced
// weight and lwt is the linear weight value
func (ls *LearnSynParams) WtFmDWt(wbInc, wbDec float32, sy *Synapse) {
	dwt := sy.DWt
	if dwt == 0 {
		return
	}
	if ls.WtSig.SoftBound {
		if dwt > 0 {
			dwt *= wbInc * (1 - sy.LWt)
		} else {
			dwt *= wbDec * sy.LWt
		}
	} else {
		if dwt > 0 {
			dwt *= wbInc
		} else {
			dwt *= wbDec
		}
	}
	sy.LWt = mat32.Clamp(sy.LWt+dwt, 0, 1)
	sy.Wt = ls.WtSig.SigFmLinWt(sy.LWt)
	sy.DWt = 0
}

///////////////////////////////////////////////////////////////////////
//  XCalParams

// XCalParams are parameters for temporally eXtended Contrastive Attractor Learning function (XCAL)
// which is the standard learning equation for leabra .
type XCalParams struct {
	DRev float32 `def:"0.1" min:"0" max:"0.99" desc:"proportional point within LTD range where magnitude reverses to go back down to zero at zero -- err-driven svm component does better with smaller values, and BCM-like mvl component does better with larger values -- 0.1 is a compromise"`
	DThr float32 `def:"0.0001,0.01" min:"0" desc:"minimum LTD threshold value below which no weight change occurs -- this is now *relative* to the threshold"`

	DRevRatio float32 `inactive:"+" view:"-" json:"-" desc:"-(1-DRev)/DRev -- multiplication factor in learning rule -- builds in the minus sign!"`
}

func (xc *XCalParams) Update() {
	if xc.DRev > 0 {
		xc.DRevRatio = -(1 - xc.DRev) / xc.DRev
	} else {
		xc.DRevRatio = -1
	}
}

func (xc *XCalParams) Defaults() {
	xc.DRev = 0.1
	xc.DThr = 0.0001
	xc.Update()
}

// DWt is the XCAL function for weight change -- the "check mark" function -- no DGain, no ThrPMin
func (xc *XCalParams) DWt(srval, thrP float32) float32 {
	switch {
	case srval < xc.DThr:
		return 0
	case srval > thrP*xc.DRev:
		return srval - thrP
	}
	return srval * xc.DRevRatio
}

///////////////////////////////////////////////////////////////////////
//  WtSigParams

// WtSigParams are sigmoidal weight contrast enhancement function parameters
type WtSigParams struct {
	Gain      float32 `def:"1,6" min:"0" desc:"gain (contrast, sharpness) of the weight contrast function (1 = linear)"`
	Off       float32 `def:"1" min:"0" desc:"offset of the function (1=centered at .5, >1=higher, <1=lower) -- 1 is standard for XCAL"`
	SoftBound bool    `def:"true" desc:"apply exponential soft bounding to the weight changes"`
}

func (ws *WtSigParams) Defaults() {
	ws.Gain = 6
	ws.Off = 1
	ws.SoftBound = true
}

// SigFun is the sigmoid function for value w in 0-1 range, with gain and offset params
func SigFun(w, gain, off float32) float32 {
	if w <= 0 {
		return 0
	}
	if w >= 1 {
		return 1
	}
	return 1 / (1 + mat32.Pow((off*(1-w))/w, gain))
}

// SigInvFun is the inverse of the sigmoid function
func SigInvFun(w, gain, off float32) float32 {
	if w <= 0 {
		return 0
	}
	if w >= 1 {
		return 1
	}
	return 1.0 / (1.0 + mat32.Pow((1.0-w)/w, 1/gain)/off)
}

// SigFmLinWt returns sigmoidal contrast-enhanced weight from linear weight
func (ws *WtSigParams) SigFmLinWt(lw float32) float32 {
	if ws.Gain == 1 && ws.Off == 1 {
		return lw
	}
	return SigFun(lw, ws.Gain, ws.Off)
}

// LinFmSigWt returns linear weight from sigmoidal contrast-enhanced weight
func (ws *WtSigParams) LinFmSigWt(sw float32) float32 {
	if ws.Gain == 1 && ws.Off == 1 {
		return sw
	}
	return SigInvFun(sw, ws.Gain, ws.Off)
}

///////////////////////////////////////////////////////////////////////
//  DWtNormParams

// DWtNormParams are weight change (dwt) normalization parameters, using MAX(ABS(dwt)) aggregated over
// Sending connections in a given pathway for a given unit.
// Slowly decays and instantly resets to any current max(abs)
type DWtNormParams struct {
	On       bool    `def:"true" desc:"whether to use dwt normalization, only on error-driven dwt component"`
	DecayTau float32 `viewif:"On" min:"1" def:"1000,10000" desc:"time constant for decay of dwnorm factor -- generally should be long-ish, between 1000-10000 -- integration rate factor is 1/tau"`
	NormMin  float32 `viewif:"On" min:"0" def:"0.001" desc:"minimum effective value of the normalization factor -- provides a lower bound to how much normalization can be applied"`
	LrComp   float32 `viewif:"On" min:"0" def:"0.15" desc:"overall learning rate multiplier to compensate for changes due to use of normalization"`

	DecayDtC float32 `inactive:"+" view:"-" json:"-" desc:"complement rate constant = 1 - 1/DecayTau"`
}

func (dn *DWtNormParams) Update() {
	dn.DecayDtC = 1 - 1/dn.DecayTau
}

func (dn *DWtNormParams) Defaults() {
	dn.On = true
	dn.DecayTau = 1000
	dn.LrComp = 0.15
	dn.NormMin = 0.001
	dn.Update()
}

// NormFmAbsDWt updates the dwnorm running max_abs, slowly decaying value
// jumps up to max(abs_dwt) and slowly decays
// returns the effective normalization factor, as a multiplier, including lrate comp
func (dn *DWtNormParams) NormFmAbsDWt(norm *float32, absDwt float32) float32 {
	*norm = mat32.Max(dn.DecayDtC**norm, absDwt)
	if *norm == 0 {
		return 1
	}
	return dn.LrComp / mat32.Max(*norm, dn.NormMin)
}

///////////////////////////////////////////////////////////////////////
//  MomentumParams

// MomentumParams implements standard simple momentum -- accentuates consistent directions of weight change and
// cancels out dithering -- biologically captures slower timecourse of longer-term plasticity mechanisms.
type MomentumParams struct {
	On     bool    `def:"true" desc:"whether to use standard simple momentum"`
	MTau   float32 `viewif:"On" min:"1" def:"10" desc:"time constant factor for integration of momentum -- 1/tau is dt (e.g., .1), and 1-1/tau (e.g., .95 or .9) is traditional momentum time-integration factor"`
	LrComp float32 `viewif:"On" min:"0" def:"0.1" desc:"overall learning rate multiplier to compensate for changes due to JUST momentum without normalization -- if normalization is also in effect, then this is not used"`

	MDtC float32 `inactive:"+" view:"-" json:"-" desc:"complement rate constant = 1 - 1/MTau"`
}

func (mp *MomentumParams) Update() {
	mp.MDtC = 1 - 1/mp.MTau
}

func (mp *MomentumParams) Defaults() {
	mp.On = true
	mp.MTau = 10
	mp.LrComp = 0.1
	mp.Update()
}

// MomentFmDWt updates synaptic moment variable based on dwt weight change value
// and returns new momentum factor * LrComp
func (mp *MomentumParams) MomentFmDWt(moment *float32, dwt float32) float32 {
	*moment = mp.MDtC**moment + dwt
	return mp.LrComp * *moment
}

///////////////////////////////////////////////////////////////////////
//  WtBalParams

// WtBalParams are weight balance soft renormalization params:
// maintains overall weight balance by progressively penalizing weight increases as a function of
// how strong the weights are overall (subject to thresholding) and long time-averaged activation.
// Plugs into soft bounding function.
type WtBalParams struct {
	On     bool    `desc:"perform weight balance soft normalization?  if so, maintains overall weight balance across units by progressively penalizing weight increases as a function of amount of averaged receiver weight above a high threshold (hi_thr) and long time-average activation above an act_thr -- this is generally very beneficial for larger models where hog units are a problem, but not as much for smaller models where the additional constraints are not beneficial -- uses a sigmoidal function: wb_inc = 1 / (1 + hi_gain*(wb_avg - hi_thr) + act_gain * (nrn.avg_l - act_thr)))"`
	AvgThr float32 `viewif:"On" def:"0.25" desc:"threshold on weight value for inclusion into the weight average that is then subject to the further hi_thr threshold for then driving a change in weight balance -- this avg_thr allows only stronger weights to contribute so that weakening of lower weights does not dilute sensitivity to number and strength of strong weights"`
	HiThr  float32 `viewif:"On" def:"0.4" desc:"high threshold on weight average (subject to avg_thr) before it drives changes in weight increase vs. decrease factors"`
	HiGain float32 `viewif:"On" def:"4" desc:"gain multiplier applied to above-hi_thr thresholded weight averages -- higher values turn weight increases down more rapidly as the weights become more imbalanced"`
	LoThr  float32 `viewif:"On" def:"0.4" desc:"low threshold on weight average (subject to avg_thr) before it drives changes in weight increase vs. decrease factors"`
	LoGain float32 `viewif:"On" def:"6,0" desc:"gain multiplier applied to below-lo_thr thresholded weight averages -- higher values turn weight increases up more rapidly as the weights become more imbalanced -- generally beneficial but sometimes not -- worth experimenting with either 6 or 0"`
}

func (wb *WtBalParams) Defaults() {
	wb.On = false
	wb.AvgThr = 0.25
	wb.HiThr = 0.4
	wb.HiGain = 4
	wb.LoThr = 0.4
	wb.LoGain = 6
}

// WtBal computes weight balance factors for increase and decrease based on extent
// to which weights and average act exceed thresholds
func (wb *WtBalParams) WtBal(wbAvg float32) (fact, inc, dec float32) {
	inc = 1
	dec = 1
	if wbAvg < wb.LoThr {
		if wbAvg < wb.AvgThr {
			wbAvg = wb.AvgThr // prevent extreme low if everyone below thr
		}
		fact = wb.LoGain * (wb.LoThr - wbAvg)
		dec = 1 / (1 + fact)
		inc = 2 - dec
	} else if wbAvg > wb.HiThr {
		fact = wb.HiGain * (wbAvg - wb.HiThr)
		inc = 1 / (1 + fact) // gets sigmoidally small toward 0 as fact gets larger -- is quick acting but saturates -- apply pressure earlier..
		dec = 2 - inc        // as inc goes down, dec goes up..  sum to 2
	}
	return fact, inc, dec
}
