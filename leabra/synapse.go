// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import "fmt"

// leabra.Synapse holds state for the synaptic connection between neurons.
// Synapses are stored in Path.Syns, aligned with Path.Cons.
type Synapse struct {
	Wt     float32 `desc:"synaptic weight value -- sigmoid contrast-enhanced"`
	LWt    float32 `desc:"linear (underlying) weight value -- learns according to the lrate specified in the connection spec -- this is converted into the effective weight value, Wt, via sigmoidal contrast enhancement (see WtSigParams)"`
	DWt    float32 `desc:"change in synaptic weight, from learning"`
	Norm   float32 `desc:"DWt normalization factor -- reset to max of abs value of DWt, decays slowly down over time"`
	Moment float32 `desc:"momentum -- time-integrated DWt changes, to accumulate a consistent direction of weight change and cancel out dithering contradictory changes"`
}

var SynapseVars = []string{"Wt", "LWt", "DWt", "Norm", "Moment"}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	switch varNm {
	case "Wt":
		return sy.Wt, nil
	case "LWt":
		return sy.LWt, nil
	case "DWt":
		return sy.DWt, nil
	case "Norm":
		return sy.Norm, nil
	case "Moment":
		return sy.Moment, nil
	}
	return 0, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
}
