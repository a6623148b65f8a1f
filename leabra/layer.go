// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/relpos"
	"github.com/emer/etable/etensor"
	"github.com/emer/leabrasim/errs"
	"github.com/emer/leabrasim/fffb"
	"github.com/emer/leabrasim/params"
	"github.com/goki/mat32"
)

// LayerDimNames2D provides the standard dimension names for 2D layers
var LayerDimNames2D = []string{"Y", "X"}

// leabra.Layer has parameters for running a basic rate-coded Leabra layer.
// Layers are created by Network.AddLayer and their shape never changes.
type Layer struct {
	Name  string        `desc:"Name of the layer -- this must be unique within the network, which has a map for quick lookup and layers are typically accessed directly by name"`
	Type  LayerTypes    `desc:"type of layer -- determines which capabilities the layer has"`
	Class string        `desc:"Class is for applying parameter styles, can be space separated multple tags"`
	Shape etensor.Shape `desc:"shape of the layer, always [rows, cols]"`
	Rel   relpos.Rel    `view:"inline" desc:"Spatial relationship to other layer, determines positioning"`
	Pos   mat32.Vec3    `desc:"position of lower-left-front corner of layer in 3D space, computed from Rel"`
	Index int           `desc:"a 0..n-1 index of the position of layer within list of layers in the network"`

	Act   ActParams        `view:"add-fields" desc:"Activation parameters and methods for computing activations"`
	Inhib InhibParams      `view:"add-fields" desc:"Inhibition parameters and methods for computing layer-level inhibition"`
	Learn LayerLearnParams `view:"add-fields" desc:"Learning parameters for the layer"`

	Params params.Values `view:"-" desc:"the parameter values resolved by the last ApplyParams"`

	Neurons    []Neuron   `desc:"slice of neurons for this layer -- flat list of len = Shape.Len()"`
	Inh        fffb.Inhib `desc:"layer-level inhibition state"`
	ActMAvg    float32    `desc:"running-average minus-phase activity"`
	ActPAvg    float32    `desc:"running-average plus-phase activity -- used for netinput scaling"`
	ActPAvgEff float32    `desc:"ActPAvg * ActAvg.Adjust, or ActAvg.Init when Fixed -- the effective value used for netinput scaling"`
	RecvPaths  []*Path    `desc:"list of receiving pathways into this layer from other layers"`
	SendPaths  []*Path    `desc:"list of sending pathways from this layer to other layers"`

	net    *Network
	geBuf  []float32
	actBuf []float32
}

// StyleType is Layer for all layers.
func (ly *Layer) StyleType() string { return "Layer" }

// StyleClass returns the class tags plus the layer type name,
// so params can select e.g., .TargetLayer.
func (ly *Layer) StyleClass() string { return params.AddClass(ly.Class, ly.Type.String()) }

func (ly *Layer) StyleName() string { return ly.Name }

// SetClass adds a class tag to the layer.
func (ly *Layer) SetClass(cls string) { ly.Class = params.AddClass(ly.Class, cls) }

// Fields returns the table of settable layer parameters, bound to this layer.
func (ly *Layer) Fields() params.Fields {
	flds := params.Fields{}
	ly.Act.Fields(flds)
	ly.Inhib.Fields(flds)
	ly.Learn.Fields(flds)
	return flds
}

// Defaults sets all the layer parameters to their compiled-in default values.
func (ly *Layer) Defaults() {
	ly.Act.Defaults()
	ly.Inhib.Defaults()
	ly.Learn.Defaults()
	if ly.Type == InputLayer {
		ly.Inhib.Layer.On = false
	}
	ly.Params = nil
}

// UpdateParams updates all params given any changes that might have been made to individual values
// including those in the receiving pathways of this layer
func (ly *Layer) UpdateParams() {
	ly.Act.Update()
	ly.Inhib.Update()
}

func (ly *Layer) Rows() int     { return ly.Shape.Dim(0) }
func (ly *Layer) Cols() int     { return ly.Shape.Dim(1) }
func (ly *Layer) NNeurons() int { return len(ly.Neurons) }

// Size returns the display size of the layer, X = cols, Y = rows.
func (ly *Layer) Size() mat32.Vec2 {
	if ly.Rel.Scale == 0 {
		ly.Rel.Defaults()
	}
	sz := mat32.Vec2{X: float32(ly.Cols()), Y: float32(ly.Rows())}
	return sz.MulScalar(ly.Rel.Scale)
}

// SetRelPos sets the relative position of the layer to another.
func (ly *Layer) SetRelPos(rel relpos.Rel) {
	ly.Rel = rel
	if ly.Rel.Scale == 0 {
		ly.Rel.Defaults()
	}
}

// RecvPathBySendName returns the receiving pathway from the given sending layer, or nil.
func (ly *Layer) RecvPathBySendName(sender string) *Path {
	for _, pj := range ly.RecvPaths {
		if pj.Send.Name == sender {
			return pj
		}
	}
	return nil
}

// SendPathByRecvName returns the sending pathway to the given receiving layer, or nil.
func (ly *Layer) SendPathByRecvName(recv string) *Path {
	for _, pj := range ly.SendPaths {
		if pj.Recv.Name == recv {
			return pj
		}
	}
	return nil
}

// UnitVals returns the values of the given neuron variable for every unit, in row-major order.
func (ly *Layer) UnitVals(varNm string) ([]float32, error) {
	vals := make([]float32, len(ly.Neurons))
	for ni := range ly.Neurons {
		v, err := ly.Neurons[ni].VarByName(varNm)
		if err != nil {
			return nil, err
		}
		vals[ni] = v
	}
	return vals, nil
}

// UnitValsTensor returns the given neuron variable as a tensor in the layer shape.
func (ly *Layer) UnitValsTensor(varNm string) (*etensor.Float32, error) {
	vals, err := ly.UnitVals(varNm)
	if err != nil {
		return nil, err
	}
	return etensor.NewFloat32Shape(&ly.Shape, vals), nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Ext

// InitExt initializes external input state -- called prior to apply ext
func (ly *Layer) InitExt() {
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		nrn.Ext = 0
		nrn.Targ = 0
		nrn.ClearFlag(NeurHasExt)
		nrn.ClearFlag(NeurHasTarg)
		nrn.ClearFlag(NeurHasCmpr)
	}
}

// ApplyExt applies external input in the form of a tensor with the same
// shape as the layer. Target and Compare layers put it into Targ,
// others into Ext. A shape mismatch is a Config error.
func (ly *Layer) ApplyExt(ext *etensor.Float32) error {
	if !etensor.EqualInts(ext.Shp, ly.Shape.Shp) {
		return errs.Configf("leabra: layer %q shape %v does not match pattern shape %v", ly.Name, ly.Shape.Shp, ext.Shp)
	}
	flag := NeurHasExt
	switch ly.Type {
	case TargetLayer:
		flag = NeurHasTarg
	case CompareLayer:
		flag = NeurHasCmpr
	}
	toTarg := ly.Type.ToTarg()
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		vl := ext.Values[ni]
		if toTarg {
			nrn.Targ = vl
		} else {
			nrn.Ext = vl
		}
		nrn.SetFlag(flag)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init

// InitActAvg initializes the running-average activation values that drive learning.
func (ly *Layer) InitActAvg() {
	ly.ActMAvg = ly.Inhib.ActAvg.Init
	ly.ActPAvg = ly.Inhib.ActAvg.Init
	ly.Inhib.ActAvg.EffFmAvg(&ly.ActPAvgEff, ly.ActPAvg)
	for ni := range ly.Neurons {
		ly.Neurons[ni].ActAvg = ly.Inhib.ActAvg.Init
	}
}

// InitActs fully initializes activation state -- only called automatically during InitWeights
func (ly *Layer) InitActs() {
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		ly.Act.InitActs(nrn)
		nrn.Ext = 0
		nrn.Targ = 0
		nrn.ClearFlag(NeurHasExt)
		nrn.ClearFlag(NeurHasTarg)
		nrn.ClearFlag(NeurHasCmpr)
	}
	ly.Inh.Init()
}

// AlphaCycInit handles all initialization at start of new input pattern:
// decays activation state and updates the effective activity estimate
// used for netinput scaling.
func (ly *Layer) AlphaCycInit() {
	ly.Inhib.ActAvg.EffFmAvg(&ly.ActPAvgEff, ly.ActPAvg)
	decay := ly.Act.Init.Decay
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		ly.Act.DecayState(nrn, decay)
		nrn.GeRaw = 0
		nrn.GiRaw = 0
	}
	if decay > 0 {
		ly.Inh.Decay(decay)
	}
}

// LesionNeurons turns off the given proportion (0-1) of neurons in the layer,
// chosen at random, and returns the number lesioned.
// A prop > 1 is a Config error, as it was probably meant as a percent.
func (ly *Layer) LesionNeurons(prop float32) (int, error) {
	ly.UnLesionNeurons()
	if prop > 1 || prop < 0 {
		return 0, errs.Configf("leabra: LesionNeurons on %q got proportion %v, must be 0-1", ly.Name, prop)
	}
	nn := len(ly.Neurons)
	if nn == 0 {
		return 0, nil
	}
	p := make([]int, nn)
	for i := range p {
		p[i] = i
	}
	erand.PermuteInts(p)
	nl := int(prop * float32(nn))
	for i := 0; i < nl; i++ {
		nrn := &ly.Neurons[p[i]]
		nrn.SetFlag(NeurOff)
		ly.Act.InitActs(nrn)
	}
	return nl, nil
}

// UnLesionNeurons unlesions (clears the Off flag) for all neurons in the layer
func (ly *Layer) UnLesionNeurons() {
	for ni := range ly.Neurons {
		ly.Neurons[ni].ClearFlag(NeurOff)
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Cycle

// GFmInc computes the raw excitatory and inhibitory conductances from
// all receiving pathways, using the current sending activations.
func (ly *Layer) GFmInc() {
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		nrn.GeRaw = 0
		nrn.GiRaw = 0
	}
	for _, pj := range ly.RecvPaths {
		pj.RecvGInc()
	}
}

// InhibFmGeAct computes inhibition Gi from Ge and Act averages within the layer.
func (ly *Layer) InhibFmGeAct() {
	if !ly.Type.HasInhib() {
		ly.Inh.Gi = 0
		return
	}
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		ly.geBuf[ni] = nrn.Ge
		ly.actBuf[ni] = nrn.Act
	}
	ly.Inh.Gather(ly.geBuf, ly.actBuf)
	ly.Inhib.Layer.Inhib(&ly.Inh)
	ly.Inh.GiOrig = ly.Inh.Gi
	ly.Inhib.Inter.Inhib(&ly.Inh.Gi, ly.otherGi)
}

// otherGi returns the layer-level Gi of another layer in the network.
func (ly *Layer) otherGi(name string) (float32, bool) {
	if ly.net == nil {
		return 0, false
	}
	ol := ly.net.LayerByName(name)
	if ol == nil {
		return 0, false
	}
	return ol.Inh.GiOrig, true
}

// Cycle runs one cycle of activation updating for the layer:
// conductances, inhibition, membrane potential and activation.
func (ly *Layer) Cycle() {
	ly.GFmInc()
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if nrn.IsOff() || ly.Act.HasHardClamp(nrn) {
			continue
		}
		ly.Act.GeFmRaw(nrn)
	}
	ly.InhibFmGeAct()
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		if ly.Act.HasHardClamp(nrn) {
			ly.Act.HardClamp(nrn)
			continue
		}
		nrn.Gi = ly.Inh.Gi + nrn.GiRaw
		ly.Act.VmFmG(nrn)
		ly.Act.ActFmG(nrn)
	}
}

// ClampTargs copies Targ into Ext for target neurons, so that they are
// hard clamped for the plus phase.
func (ly *Layer) ClampTargs() {
	if ly.Type != TargetLayer {
		return
	}
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if nrn.IsOff() || !nrn.HasFlag(NeurHasTarg) {
			continue
		}
		nrn.Ext = nrn.Targ
		nrn.SetFlag(NeurHasExt)
	}
}

// MinusFinal records the minus phase activations.
func (ly *Layer) MinusFinal() {
	var sum float32
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		nrn.ActM = nrn.Act
		sum += nrn.Act
	}
	if n := len(ly.Neurons); n > 0 {
		ly.Inhib.ActAvg.AvgFmAct(&ly.ActMAvg, sum/float32(n))
	}
}

// PlusFinal records the plus phase activations and updates running averages.
func (ly *Layer) PlusFinal() {
	var sum float32
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		nrn.ActP = nrn.Act
		nrn.ActDif = nrn.ActP - nrn.ActM
		nrn.ActAvg += ly.Act.Dt.AvgDt * (nrn.ActP - nrn.ActAvg)
		sum += nrn.Act
	}
	if n := len(ly.Neurons); n > 0 {
		ly.Inhib.ActAvg.AvgFmAct(&ly.ActPAvg, sum/float32(n))
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Stats

// SSE returns the sum-squared-error over the layer of the target pattern
// vs. the minus phase activation, counting a unit only if its error is at
// least tol (e.g., .5 = activity just has to be on the right side of .5).
// Also returns the number of units scored.
func (ly *Layer) SSE(targ []float32, tol float32) (sse float64, n int) {
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if nrn.IsOff() || ni >= len(targ) {
			continue
		}
		n++
		d := targ[ni] - nrn.ActM
		if mat32.Abs(d) < tol {
			continue
		}
		sse += float64(d * d)
	}
	return
}
