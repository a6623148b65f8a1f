// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the conductance channels of the point-neuron
equivalent RC circuit: excitation, leak, inhibition and the
dynamic potassium channels driven by adaptation.
*/
package chans

import "github.com/emer/leabrasim/params"

// Chans are ion channels used in computing point-neuron activation function
type Chans struct {
	E float32 `desc:"excitatory sodium (Na) AMPA channels activated by synaptic glutamate"`
	L float32 `desc:"constant leak (potassium, K+) channels -- determines resting potential"`
	I float32 `desc:"inhibitory chloride (Cl-) channels activated by synaptic GABA"`
	K float32 `desc:"gated / active potassium channels -- typically hyperpolarizing relative to leak / rest"`
}

// SetAll sets all the values
func (ch *Chans) SetAll(e, l, i, k float32) {
	ch.E, ch.L, ch.I, ch.K = e, l, i, k
}

// Fields adds the channel values to flds under the given path prefix.
func (ch *Chans) Fields(pre string, flds params.Fields) {
	flds[pre+".E"] = params.FloatField(&ch.E)
	flds[pre+".L"] = params.FloatField(&ch.L)
	flds[pre+".I"] = params.FloatField(&ch.I)
	flds[pre+".K"] = params.FloatField(&ch.K)
}

// Inet returns the net current at membrane potential vm, for channel
// maximal conductances gbar, reversal potentials erev, and the dynamic
// excitatory, inhibitory and potassium conductances ge, gi, gk (leak is constant).
func Inet(gbar, erev Chans, vm, ge, gi, gk float32) float32 {
	return ge*gbar.E*(erev.E-vm) + gbar.L*(erev.L-vm) + gi*gbar.I*(erev.I-vm) + gk*gbar.K*(erev.K-vm)
}

// GeAtThr returns the excitatory conductance (not including Gbar.E)
// that puts vm exactly at thr given inhibition gi and potassium gk.
func GeAtThr(gbar, erev Chans, thr, gi, gk float32) float32 {
	return (gi*gbar.I*(erev.I-thr) + gbar.L*(erev.L-thr) + gk*gbar.K*(erev.K-thr)) / (thr - erev.E)
}
