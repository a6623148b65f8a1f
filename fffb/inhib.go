// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fffb

import "github.com/emer/etable/minmax"

// Inhib is the inhibition state of one layer.
type Inhib struct {
	FFi float32 `desc:"computed feedforward inhibition"`
	FBi float32 `desc:"computed feedback inhibition (integrated)"`
	Gi  float32 `desc:"overall inhibitory conductance added to each unit"`

	GiOrig float32 `desc:"layer-level Gi before any inhibition from other layers"`

	Ge  minmax.AvgMax32 `desc:"average and max excitatory conductance, driving FF"`
	Act minmax.AvgMax32 `desc:"average and max activation, driving FB"`
}

// Init clears all inhibition state including the stats.
func (fi *Inhib) Init() {
	fi.Zero()
	fi.Ge.Init()
	fi.Act.Init()
}

// Zero clears inhibition but not the Ge, Act stats.
func (fi *Inhib) Zero() {
	fi.FFi = 0
	fi.FBi = 0
	fi.Gi = 0
	fi.GiOrig = 0
}

// Gather recomputes the Ge and Act stats from the given per-unit values.
func (fi *Inhib) Gather(ge, act []float32) {
	fi.Ge.Init()
	fi.Act.Init()
	for i := range ge {
		fi.Ge.UpdateVal(ge[i], int32(i))
		fi.Act.UpdateVal(act[i], int32(i))
	}
	fi.Ge.CalcAvg()
	fi.Act.CalcAvg()
}

// Decay reduces inhibition values by the given decay proportion.
func (fi *Inhib) Decay(decay float32) {
	fi.Ge.Max -= decay * fi.Ge.Max
	fi.Ge.Avg -= decay * fi.Ge.Avg
	fi.Act.Max -= decay * fi.Act.Max
	fi.Act.Avg -= decay * fi.Act.Avg
	fi.FFi -= decay * fi.FFi
	fi.FBi -= decay * fi.FBi
	fi.Gi -= decay * fi.Gi
	fi.GiOrig -= decay * fi.GiOrig
}
