// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package interinhib provides inter-layer inhibition params, where a layer
takes on a portion of the inhibition computed by other named layers.
The layer calls Inhib after computing its own layer-level Gi:

	ly.Inhib.Layer.Inhib(&ly.Inh)
	ly.Inh.GiOrig = ly.Inh.Gi
	ly.Inhib.Inter.Inhib(&ly.Inh.Gi, ly.otherGi)
*/
package interinhib

import (
	"github.com/emer/leabrasim/params"
	"github.com/goki/mat32"
)

// InterInhib specifies inhibition between layers, where
// the receiving layer either does a Max or Add of portion of
// inhibition from other layer(s).
type InterInhib struct {
	Lays []string `desc:"layers to receive inhibition from -- set when building the network, not by params"`
	Gi   float32  `desc:"multiplier on Gi from other layers"`
	Add  bool     `desc:"add inhibition -- otherwise Max"`
}

// GiFunc returns the layer-level Gi, before inter-layer inhibition,
// of the named layer, false if there is no such layer.
type GiFunc func(name string) (float32, bool)

// Defaults sets Gi and Add, leaving the layer names.
func (il *InterInhib) Defaults() {
	il.Gi = 0.5
	il.Add = false
}

// On returns true if any other layers are named.
func (il *InterInhib) On() bool {
	return len(il.Lays) > 0
}

// Fields adds the settable params under the given path prefix.
func (il *InterInhib) Fields(pre string, flds params.Fields) {
	flds[pre+".Gi"] = params.FloatField(&il.Gi)
	flds[pre+".Add"] = params.BoolField(&il.Add)
}

// Inhib updates layer inhibition gi based on other layer inhibition
func (il *InterInhib) Inhib(gi *float32, other GiFunc) {
	if !il.On() {
		return
	}
	ogi := il.Gi * il.OtherGi(other)
	if il.Add {
		*gi += ogi
	} else {
		*gi = mat32.Max(ogi, *gi)
	}
}

// OtherGi returns either the Sum (for Add) or Max of other layer Gi values.
// These are the raw values, not multiplied by Gi factor.
// Unknown layer names are ignored.
func (il *InterInhib) OtherGi(other GiFunc) float32 {
	gi := float32(0)
	for _, lnm := range il.Lays {
		ogi, ok := other(lnm)
		if !ok {
			continue
		}
		if il.Add {
			gi += ogi
		} else {
			gi = mat32.Max(gi, ogi)
		}
	}
	return gi
}
