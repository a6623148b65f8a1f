// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"testing"

	"github.com/emer/leabrasim/params"
	"github.com/goki/mat32"
)

func TestGeAtThr(t *testing.T) {
	var gbar, erev Chans
	gbar.SetAll(1, 0.1, 1, 1)
	erev.SetAll(1, 0.3, 0.25, 0.25)
	thr := float32(0.5)
	gi := float32(0.4)
	for _, gk := range []float32{0, 0.1} {
		ge := GeAtThr(gbar, erev, thr, gi, gk)
		if inet := Inet(gbar, erev, thr, ge, gi, gk); mat32.Abs(inet) > 1e-6 {
			t.Errorf("gk %v: Inet at threshold ge should be 0, got %v (ge = %v)", gk, inet, ge)
		}
	}
	if GeAtThr(gbar, erev, thr, gi, 0.1) <= GeAtThr(gbar, erev, thr, gi, 0) {
		t.Errorf("potassium must raise the excitation needed to reach threshold")
	}
}

func TestFields(t *testing.T) {
	var ch Chans
	flds := params.Fields{}
	ch.Fields("Act.Gbar", flds)
	if len(flds) != 4 {
		t.Fatalf("got %d fields", len(flds))
	}
	flds["Act.Gbar.L"].Set(params.Value{Float: 0.2})
	if ch.L != 0.2 {
		t.Errorf("field not bound: %v", ch.L)
	}
}
