// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nxx1

import (
	"testing"

	"github.com/goki/mat32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-6)

func TestNoisyXX1(t *testing.T) {
	xx1 := Params{}
	xx1.Defaults()

	tstx := []float32{-0.05, -0.04, -0.03, -0.02, -0.01, 0, .01, .02, .03, .04, .05, .1, .2, .3, .4, .5}
	cory := []float32{1.7735989e-14, 7.155215e-12, 2.8866178e-09, 1.1645374e-06, 0.00046864923, 0.094767615, 0.47916666, 0.65277773, 0.742268, 0.7967479, 0.8333333, 0.90909094, 0.95238096, 0.96774197, 0.9756098, 0.98039216}

	for i, x := range tstx {
		y := xx1.NoisyXX1(x)
		dif := mat32.Abs(y - cory[i])
		if dif > difTol {
			t.Errorf("NoisyXX1 err: idx: %v, x: %v, y: %v, cor y: %v, dif: %v\n", i, x, y, cory[i], dif)
		}
		if gy := xx1.NoisyXX1Gain(x, xx1.Gain); mat32.Abs(gy-y) > difTol {
			t.Errorf("NoisyXX1Gain at default gain differs: x: %v, %v vs %v", x, gy, y)
		}
	}
}

func TestMonotonic(t *testing.T) {
	xx1 := Params{}
	xx1.Defaults()
	prv := xx1.NoisyXX1(-0.1)
	for x := float32(-0.09); x < 1; x += 0.01 {
		y := xx1.NoisyXX1(x)
		if y < prv {
			t.Errorf("not monotonic at x = %v: %v < %v", x, y, prv)
		}
		prv = y
	}
}
