// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"math/rand"

	"github.com/emer/leabrasim/params"
	"github.com/emer/leabrasim/paths"
	"github.com/goki/mat32"
)

// leabra.Path is a basic Leabra pathway with synaptic learning parameters.
// It connects a sending layer to a receiving layer using a connection list
// generated once by a paths.Pattern, with one Synapse per connection.
type Path struct {
	Send    *Layer        `desc:"sending layer for this pathway"`
	Recv    *Layer        `desc:"receiving layer for this pathway"`
	Type    PathTypes     `desc:"type of pathway -- Forward, Back, Lateral, or Inhib"`
	Class   string        `desc:"Class is for applying parameter styles, can be space separated multple tags"`
	Pattern string        `desc:"name of the connectivity pattern that generated Cons"`
	Pat     paths.Pattern `view:"-" json:"-" desc:"the connectivity pattern instance"`

	WtInit  WtInitParams   `view:"inline" desc:"initial random weight distribution"`
	WtScale WtScaleParams  `view:"inline" desc:"weight scaling parameters: modulates overall strength of pathway, using both absolute and relative factors"`
	Learn   LearnSynParams `view:"add-fields" desc:"synaptic-level learning parameters"`

	Params params.Values `view:"-" desc:"the parameter values resolved by the last ApplyParams"`

	Cons    []paths.Con `desc:"connections in the order generated by the pattern"`
	Syns    []Synapse   `desc:"synaptic state values, one per Cons entry"`
	RConN   []int32     `view:"-" desc:"number of connections for each receiving unit"`
	RConSt  []int32     `view:"-" desc:"starting offset into RSynIdx for each receiving unit"`
	RSynIdx []int32     `view:"-" desc:"index into Cons / Syns, grouped by receiving unit"`
	GScale  float32     `desc:"scaling factor for integrating synaptic input conductances (G's) -- computed in AlphaCycInit, incorporates running-average activity levels"`
	WbRecv  []WtBalRecv `view:"-" desc:"weight balance state variables for this pathway, one per recv neuron"`
}

// WtBalRecv are state variables used in computing the WtBal weight balance function
// There is one of these for each Recv Neuron participating in the pathway.
type WtBalRecv struct {
	Avg  float32 `desc:"average of effective weight values that exceed WtBal.AvgThr across given Recv Neuron's connections for given Path"`
	Fact float32 `desc:"overall weight balance factor that drives changes in WbInc vs. WbDec via a sigmoidal function -- this is the net strength of weight balance changes"`
	Inc  float32 `desc:"weight balance increment factor -- extra multiplier to add to weight increases to maintain overall weight balance"`
	Dec  float32 `desc:"weight balance decrement factor -- extra multiplier to add to weight decreases to maintain overall weight balance"`
}

func (wb *WtBalRecv) Init() {
	wb.Avg = 0
	wb.Fact = 0
	wb.Inc = 1
	wb.Dec = 1
}

// Name is the automatic name Send + "To" + Recv.
func (pj *Path) Name() string { return pj.Send.Name + "To" + pj.Recv.Name }

// StyleType is Path for all pathways.
func (pj *Path) StyleType() string { return "Path" }

// StyleClass returns the class tags plus the path type name, e.g., BackPath.
func (pj *Path) StyleClass() string { return params.AddClass(pj.Class, pj.Type.String()) }

func (pj *Path) StyleName() string { return pj.Name() }

// SetClass adds a class tag to the pathway.
func (pj *Path) SetClass(cls string) { pj.Class = params.AddClass(pj.Class, cls) }

// Fields returns the table of settable pathway parameters, bound to this path.
func (pj *Path) Fields() params.Fields {
	flds := params.Fields{}
	flds["WtInit.Mean"] = params.FloatField(&pj.WtInit.Mean)
	flds["WtInit.Var"] = params.FloatField(&pj.WtInit.Var)
	flds["WtInit.Gauss"] = params.BoolField(&pj.WtInit.Gauss)
	flds["WtInit.Sym"] = params.BoolField(&pj.WtInit.Sym)
	flds["WtScale.Abs"] = params.FloatField(&pj.WtScale.Abs)
	flds["WtScale.Rel"] = params.FloatField(&pj.WtScale.Rel)
	pj.Learn.Fields(flds)
	return flds
}

func (pj *Path) Defaults() {
	pj.WtInit.Defaults()
	pj.WtScale.Defaults()
	pj.Learn.Defaults()
	if pj.Type == InhibPath {
		pj.Learn.Learn = false
	}
	pj.Params = nil
}

// UpdateParams updates all params given any changes that might have been made to individual values
func (pj *Path) UpdateParams() {
	pj.Learn.Update()
}

// NCons returns the number of connections.
func (pj *Path) NCons() int { return len(pj.Cons) }

// build allocates the synapses and the receiver-grouped index for the given connections.
func (pj *Path) build(cons []paths.Con) {
	nr := pj.Recv.NNeurons()
	pj.Cons = cons
	pj.Syns = make([]Synapse, len(cons))
	pj.RConN = make([]int32, nr)
	pj.RConSt = make([]int32, nr)
	pj.RSynIdx = make([]int32, len(cons))
	pj.WbRecv = make([]WtBalRecv, nr)
	for _, cn := range cons {
		pj.RConN[cn.Recv]++
	}
	var st int32
	for ri := range pj.RConN {
		pj.RConSt[ri] = st
		st += pj.RConN[ri]
	}
	fill := make([]int32, nr)
	for ci, cn := range cons {
		pj.RSynIdx[pj.RConSt[cn.Recv]+fill[cn.Recv]] = int32(ci)
		fill[cn.Recv]++
	}
	for ri := range pj.WbRecv {
		pj.WbRecv[ri].Init()
	}
}

// RecvSyns returns the Cons / Syns indexes for the given receiving unit.
func (pj *Path) RecvSyns(ri int) []int32 {
	st := pj.RConSt[ri]
	return pj.RSynIdx[st : st+pj.RConN[ri]]
}

// SynIdx returns the index of the synapse between given send, recv unit indexes
// (1D, flat indexes). Returns -1 if synapse not found between these two neurons.
func (pj *Path) SynIdx(sidx, ridx int) int {
	for _, ci := range pj.RecvSyns(ridx) {
		if pj.Cons[ci].Send == sidx {
			return int(ci)
		}
	}
	return -1
}

///////////////////////////////////////////////////////////////////////
//  Init

// InitWts initializes weight values according to the WtInit distribution,
// drawing from the given random source in connection order.
func (pj *Path) InitWts(rnd *rand.Rand) {
	for si := range pj.Syns {
		sy := &pj.Syns[si]
		sy.Wt = pj.WtInit.Gen(rnd)
		pj.Learn.LWtFmWt(sy)
		sy.DWt = 0
		sy.Norm = 0
		sy.Moment = 0
	}
	for ri := range pj.WbRecv {
		pj.WbRecv[ri].Init()
	}
	pj.GScale = 1
}

// InitWtSym initializes weight symmetry from the reciprocal pathway rpj,
// copying its weight into each matching synapse here.
func (pj *Path) InitWtSym(rpj *Path) {
	for ci, cn := range pj.Cons {
		ri := rpj.SynIdx(cn.Recv, cn.Send)
		if ri < 0 {
			continue
		}
		sy := &pj.Syns[ci]
		sy.Wt = rpj.Syns[ri].Wt
		sy.LWt = rpj.Syns[ri].LWt
	}
}

// SetWt sets the weight of the given synapse, keeping LWt in sync.
func (pj *Path) SetWt(ci int, wt float32) {
	sy := &pj.Syns[ci]
	sy.Wt = wt
	pj.Learn.LWtFmWt(sy)
}

///////////////////////////////////////////////////////////////////////
//  Act

// ScaleFmAct computes the GScale conductance scaling factor from the sending
// layer's expected activity and the average number of connections per receiver.
// The Rel factor is normalized by totRel across the receiver's pathways of the same kind.
func (pj *Path) ScaleFmAct(totRel float32) {
	nr := len(pj.RConN)
	if nr == 0 || len(pj.Cons) == 0 {
		pj.GScale = 0
		return
	}
	ncon := int(mat32.Round(float32(len(pj.Cons)) / float32(nr)))
	sc := pj.WtScale.SLayActScale(pj.Send.ActPAvgEff, float32(pj.Send.NNeurons()), float32(ncon))
	pj.GScale = pj.WtScale.Abs * sc
	if totRel > 0 {
		pj.GScale *= pj.WtScale.Rel / totRel
	}
}

// RecvGInc adds this pathway's conductance input into the receiving neurons,
// GeRaw for excitatory and GiRaw for inhibitory pathways.
func (pj *Path) RecvGInc() {
	rlay := pj.Recv
	slay := pj.Send
	exc := pj.Type.IsExcite()
	for ri := range rlay.Neurons {
		rn := &rlay.Neurons[ri]
		if rn.IsOff() {
			continue
		}
		var g float32
		for _, ci := range pj.RecvSyns(ri) {
			sn := &slay.Neurons[pj.Cons[ci].Send]
			if sn.IsOff() {
				continue
			}
			g += pj.Syns[ci].Wt * sn.Act
		}
		if exc {
			rn.GeRaw += pj.GScale * g
		} else {
			rn.GiRaw += pj.GScale * g
		}
	}
}

///////////////////////////////////////////////////////////////////////
//  Learn

// DWt computes the weight change (learning) for all synapses.
func (pj *Path) DWt() {
	if !pj.Learn.Learn || !pj.Recv.Learn.On {
		return
	}
	slay := pj.Send
	rlay := pj.Recv
	for ci, cn := range pj.Cons {
		sn := &slay.Neurons[cn.Send]
		rn := &rlay.Neurons[cn.Recv]
		if sn.IsOff() || rn.IsOff() {
			continue
		}
		err := pj.Learn.CHLdWt(sn.ActP, sn.ActM, rn.ActP, rn.ActM)
		pj.Learn.DWt(&pj.Syns[ci], err)
	}
}

// WtFmDWt updates the synaptic weight values from delta-weight changes,
// applying weight balance factors per receiving unit when enabled.
func (pj *Path) WtFmDWt() {
	if !pj.Learn.Learn || !pj.Recv.Learn.On {
		return
	}
	if pj.Learn.WtBal.On {
		pj.WtBalFmWt()
	}
	for ri := range pj.RConN {
		wb := &pj.WbRecv[ri]
		for _, ci := range pj.RecvSyns(ri) {
			pj.Learn.WtFmDWt(wb.Inc, wb.Dec, &pj.Syns[ci])
		}
	}
}

// WtBalFmWt computes the Weight Balance factors based on average recv weights
func (pj *Path) WtBalFmWt() {
	wb := &pj.Learn.WtBal
	for ri := range pj.RConN {
		wbr := &pj.WbRecv[ri]
		var sumWt float32
		var sumN int
		for _, ci := range pj.RecvSyns(ri) {
			wt := pj.Syns[ci].Wt
			if wt >= wb.AvgThr {
				sumWt += wt
				sumN++
			}
		}
		if sumN > 0 {
			sumWt /= float32(sumN)
		}
		wbr.Avg = sumWt
		wbr.Fact, wbr.Inc, wbr.Dec = wb.WtBal(sumWt)
	}
}

///////////////////////////////////////////////////////////////////////
//  WtInitParams

// WtInitParams are the initial random weight distribution parameters.
type WtInitParams struct {
	Mean  float32 `def:"0.5" desc:"mean of the distribution"`
	Var   float32 `def:"0.25" desc:"variance: half-range for uniform, standard deviation for gaussian"`
	Gauss bool    `desc:"use a gaussian instead of uniform distribution"`
	Sym   bool    `def:"true" desc:"symmetrize the weight values with those in reciprocal pathway -- typically true for bidirectional excitatory connections"`
}

func (wi *WtInitParams) Defaults() {
	wi.Mean = 0.5
	wi.Var = 0.25
	wi.Gauss = false
	wi.Sym = true
}

// Gen generates one weight value, clipped to the 0-1 range.
func (wi *WtInitParams) Gen(rnd *rand.Rand) float32 {
	var w float32
	if wi.Gauss {
		w = wi.Mean + wi.Var*float32(rnd.NormFloat64())
	} else {
		w = wi.Mean + wi.Var*(2*rnd.Float32()-1)
	}
	return mat32.Clamp(w, 0, 1)
}

///////////////////////////////////////////////////////////////////////
//  WtScaleParams

// WtScaleParams are weight scaling parameters: modulates overall strength of pathway,
// using both absolute and relative factors
type WtScaleParams struct {
	Abs float32 `def:"1" min:"0" desc:"absolute scaling, which is not subject to normalization: directly multiplies weight values"`
	Rel float32 `min:"0" desc:"relative scaling that shifts balance between different pathways -- this is subject to normalization across all other pathways into unit"`
}

func (ws *WtScaleParams) Defaults() {
	ws.Abs = 1
	ws.Rel = 1
}

// SLayActScale computes scaling factor based on sending layer activity level (savg), number of units
// in sending layer (snu), and number of recv connections (ncon).
// Uses a fixed sem_extra standard-error-of-the-mean (SEM) extra value of 2
// to add to the average expected number of active connections to receive,
// for purposes of computing scaling factors with partial connectivity
// For 25% layer activity, binomial SEM = sqrt(p(1-p)) = .43, so 3x = 1.3 so 2 is a reasonable default.
func (ws *WtScaleParams) SLayActScale(savg, snu, ncon float32) float32 {
	if ncon < 1 { // path before sending layer has any connections
		ncon = 1
	}
	semExtra := 2
	slayActN := int(mat32.Round(savg * snu)) // sending layer actual # active
	if slayActN < 1 {
		slayActN = 1
	}
	var sc float32
	if ncon == snu {
		sc = 1 / float32(slayActN)
	} else {
		maxActN := int(mat32.Min(ncon, float32(slayActN))) // max number we could get
		avgActN := int(mat32.Round(savg * ncon))           // recv average actual # active if uniform
		if avgActN < 1 {
			avgActN = 1
		}
		expActN := avgActN + semExtra // expected
		if expActN > maxActN {
			expActN = maxActN
		}
		sc = 1 / float32(expActN)
	}
	return sc
}
