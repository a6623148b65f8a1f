// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"fmt"

	"github.com/goki/ki/bitflag"
	"github.com/goki/ki/kit"
)

// leabra.Neuron holds all of the neuron (unit) level variables for the
// rate-code kernel. Neurons are stored flat in Layer.Neurons, in row-major
// order over the layer shape.
type Neuron struct {
	Flags NeurFlags `desc:"bit flags for binary state variables"`

	Act  float32 `desc:"rate-coded activation value reflecting final output of neuron communicated to other neurons, typically in range 0-1"`
	Ge   float32 `desc:"total excitatory synaptic conductance -- the net excitatory input to the neuron -- does *not* include Gbar.E"`
	Gi   float32 `desc:"total inhibitory synaptic conductance -- the net inhibitory input to the neuron -- does *not* include Gbar.I"`
	Inet float32 `desc:"net current produced by all channels -- drives update of Vm"`
	Vm   float32 `desc:"membrane potential -- integrates Inet current over time"`
	Targ float32 `desc:"target value: drives learning to produce this activation value"`
	Ext  float32 `desc:"external input: drives activation of unit from outside influences (e.g., sensory input)"`

	ActM   float32 `desc:"the activation state at end of the minus phase"`
	ActP   float32 `desc:"the activation state at end of the plus phase"`
	ActDif float32 `desc:"ActP - ActM -- the individual error gradient for this neuron"`
	ActAvg float32 `desc:"average plus phase activation over long time intervals -- useful for finding hog units"`

	GeRaw float32 `desc:"raw excitatory conductance (net input) received from senders on the current cycle"`
	GiRaw float32 `desc:"raw inhibitory conductance received from InhibPath senders on the current cycle"`

	Gk       float32 `desc:"total potassium conductance from sodium-gated adaptation -- does *not* include Gbar.K"`
	GknaFast float32 `desc:"conductance of sodium-gated potassium channel (KNa) fast dynamics (M-type) -- produces accommodation / adaptation of firing"`
	GknaMed  float32 `desc:"conductance of sodium-gated potassium channel (KNa) medium dynamics (Slick) -- produces accommodation / adaptation of firing"`
	GknaSlow float32 `desc:"conductance of sodium-gated potassium channel (KNa) slow dynamics (Slack) -- produces accommodation / adaptation of firing"`
}

// NeuronVars are the names of the float32 neuron variables that can be
// read with VarByName.
var NeuronVars = []string{"Act", "Ge", "Gi", "Inet", "Vm", "Targ", "Ext", "ActM", "ActP", "ActDif", "ActAvg", "GeRaw", "GiRaw", "Gk", "GknaFast", "GknaMed", "GknaSlow"}

// VarByName returns the named variable, or an error if the name is not valid.
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	switch varNm {
	case "Act":
		return nrn.Act, nil
	case "Ge":
		return nrn.Ge, nil
	case "Gi":
		return nrn.Gi, nil
	case "Inet":
		return nrn.Inet, nil
	case "Vm":
		return nrn.Vm, nil
	case "Targ":
		return nrn.Targ, nil
	case "Ext":
		return nrn.Ext, nil
	case "ActM":
		return nrn.ActM, nil
	case "ActP":
		return nrn.ActP, nil
	case "ActDif":
		return nrn.ActDif, nil
	case "ActAvg":
		return nrn.ActAvg, nil
	case "GeRaw":
		return nrn.GeRaw, nil
	case "GiRaw":
		return nrn.GiRaw, nil
	case "Gk":
		return nrn.Gk, nil
	case "GknaFast":
		return nrn.GknaFast, nil
	case "GknaMed":
		return nrn.GknaMed, nil
	case "GknaSlow":
		return nrn.GknaSlow, nil
	}
	return 0, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
}

func (nrn *Neuron) HasFlag(flag NeurFlags) bool {
	return bitflag.Has32(int32(nrn.Flags), int(flag))
}

func (nrn *Neuron) SetFlag(flag NeurFlags) {
	bitflag.Set32((*int32)(&nrn.Flags), int(flag))
}

func (nrn *Neuron) ClearFlag(flag NeurFlags) {
	bitflag.Clear32((*int32)(&nrn.Flags), int(flag))
}

// IsOff returns true if the neuron has been turned off (lesioned)
func (nrn *Neuron) IsOff() bool {
	return nrn.HasFlag(NeurOff)
}

// NeurFlags are bit-flags encoding relevant binary state for neurons
type NeurFlags int32

//go:generate stringer -type=NeurFlags

var KiT_NeurFlags = kit.Enums.AddEnum(NeurFlagsN, kit.BitFlag, nil)

func (ev NeurFlags) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeurFlags) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The neuron flags
const (
	// NeurOff flag indicates that this neuron has been turned off (i.e., lesioned)
	NeurOff NeurFlags = iota

	// NeurHasExt means the neuron has external input in its Ext field
	NeurHasExt

	// NeurHasTarg means the neuron has external target input in its Targ field
	NeurHasTarg

	// NeurHasCmpr means the neuron has external comparison input in its Targ field -- used for computing
	// comparison statistics but does not drive neural activity ever
	NeurHasCmpr

	NeurFlagsN
)
