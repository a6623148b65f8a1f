// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"math/rand"

	"github.com/emer/leabrasim/errs"
)

// RateKernel is the default rate-coded Leabra update: one alpha cycle of
// Quarters x CycPerQtr cycles per trial, with the last PlusQtrs quarters
// forming the plus phase, followed by error-driven learning.
type RateKernel struct {
	Quarters  int     `def:"4" desc:"number of quarters in an alpha cycle"`
	CycPerQtr int     `def:"25" desc:"number of cycles per quarter"`
	PlusQtrs  int     `def:"1" desc:"number of final quarters that make up the plus phase"`
	ErrTol    float32 `def:"0.5" desc:"per-unit error below this magnitude does not count toward SSE"`
	Seed      int64   `desc:"random seed for weight initialization, advanced with each new run"`

	Cycle   int `inactive:"+" desc:"cycle counter within the current alpha cycle"`
	Quarter int `inactive:"+" desc:"current quarter"`

	rnd *rand.Rand
}

// NewRateKernel returns a RateKernel with default settings and the given seed.
func NewRateKernel(seed int64) *RateKernel {
	rk := &RateKernel{Seed: seed}
	rk.Defaults()
	return rk
}

func (rk *RateKernel) Defaults() {
	rk.Quarters = 4
	rk.CycPerQtr = 25
	rk.PlusQtrs = 1
	rk.ErrTol = 0.5
}

// SetSeed sets the weight initialization seed, restarting the random sequence.
func (rk *RateKernel) SetSeed(seed int64) {
	rk.Seed = seed
	rk.rnd = nil
}

// ResetState initializes weights and activations. The random source is
// created from Seed on first use and carries over to later runs, so each
// run starts from different weights while the sequence stays reproducible.
func (rk *RateKernel) ResetState(net *Network) {
	if rk.rnd == nil {
		rk.rnd = rand.New(rand.NewSource(rk.Seed))
	}
	net.InitWeights(rk.rnd)
	rk.Cycle = 0
	rk.Quarter = 0
}

// ForwardUpdate applies the bindings and runs the minus and plus phases.
func (rk *RateKernel) ForwardUpdate(net *Network, in Bindings) error {
	if rk.Quarters <= rk.PlusQtrs || rk.PlusQtrs < 1 || rk.CycPerQtr < 1 {
		return errs.Configf("leabra: RateKernel needs 1 <= PlusQtrs < Quarters and CycPerQtr >= 1, has %d, %d, %d", rk.PlusQtrs, rk.Quarters, rk.CycPerQtr)
	}
	if err := net.ApplyBindings(in); err != nil {
		return err
	}
	order := net.TopoOrder()
	net.AlphaCycInit()
	rk.Cycle = 0
	minusQtrs := rk.Quarters - rk.PlusQtrs
	for qtr := 0; qtr < rk.Quarters; qtr++ {
		rk.Quarter = qtr
		if qtr == minusQtrs {
			for _, ly := range net.Layers {
				ly.ClampTargs()
			}
		}
		for cyc := 0; cyc < rk.CycPerQtr; cyc++ {
			net.Cycle(order)
			rk.Cycle++
		}
		switch qtr {
		case minusQtrs - 1:
			for _, ly := range net.Layers {
				ly.MinusFinal()
			}
		case rk.Quarters - 1:
			for _, ly := range net.Layers {
				ly.PlusFinal()
			}
		}
	}
	return nil
}

// LearnUpdate computes weight changes from the phase contrast and applies them.
func (rk *RateKernel) LearnUpdate(net *Network) {
	net.DWt()
	net.WtFmDWt()
}

// OutputError returns the sum-squared error of the layer's minus phase
// activation against targ, with per-unit errors under ErrTol ignored.
func (rk *RateKernel) OutputError(ly *Layer, targ []float32) float64 {
	sse, _ := ly.SSE(targ, rk.ErrTol)
	return sse
}
