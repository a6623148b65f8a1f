// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package knadapt

import (
	"testing"

	"github.com/emer/leabrasim/params"
	"github.com/goki/mat32"
)

func TestGcFmRate(t *testing.T) {
	var ka Params
	ka.Defaults()
	var f, m, s float32
	for cyc := 0; cyc < 20; cyc++ {
		ka.GcFmRate(&f, &m, &s, 1)
	}
	if !(f > m && m > 0 && s > 0) {
		t.Errorf("fast should rise quickest: f %v m %v s %v", f, m, s)
	}
	if f > ka.Fast.Max || m > ka.Med.Max {
		t.Errorf("conductance above max: f %v m %v", f, m)
	}
	pf := f
	for cyc := 0; cyc < 100; cyc++ {
		ka.GcFmRate(&f, &m, &s, 0)
	}
	if f >= pf {
		t.Errorf("no decay without activity: %v -> %v", pf, f)
	}
	ka.Fast.On = false
	ka.GcFmRate(&f, &m, &s, 1)
	if f != 0 {
		t.Errorf("off channel must be zero, got %v", f)
	}
}

func TestGcFmSpike(t *testing.T) {
	var ch Chan
	ch.Defaults()
	var g float32
	ch.GcFmSpike(&g, true)
	if g != ch.Rise*ch.Max {
		t.Errorf("spike rise: %v", g)
	}
	pg := g
	ch.GcFmSpike(&g, false)
	if mat32.Abs(g-(1-ch.Dt)*pg) > 1e-7 {
		t.Errorf("decay: %v", g)
	}
}

func TestFields(t *testing.T) {
	var ka Params
	ka.Defaults()
	flds := params.Fields{}
	ka.Fields("Act.KNa", flds)
	if len(flds) != 14 {
		t.Errorf("got %d fields", len(flds))
	}
	flds["Act.KNa.Slow.Tau"].Set(params.Value{Float: 500})
	ka.Update()
	if ka.Slow.Dt != 1.0/500 {
		t.Errorf("Slow.Tau not bound: Dt %v", ka.Slow.Dt)
	}
}
