// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interinhib

import "testing"

func gis(name string) (float32, bool) {
	switch name {
	case "A":
		return 1.0, true
	case "B":
		return 0.4, true
	}
	return 0, false
}

func TestInhibMax(t *testing.T) {
	il := InterInhib{Lays: []string{"A", "B", "Missing"}}
	il.Defaults()
	if og := il.OtherGi(gis); og != 1.0 {
		t.Errorf("max other gi: %v", og)
	}
	gi := float32(0.3)
	il.Inhib(&gi, gis)
	if gi != 0.5 {
		t.Errorf("max inhib: %v", gi)
	}
	gi = 0.8
	il.Inhib(&gi, gis)
	if gi != 0.8 {
		t.Errorf("own gi should win: %v", gi)
	}
}

func TestInhibAdd(t *testing.T) {
	il := InterInhib{Lays: []string{"A", "B"}, Gi: 0.5, Add: true}
	gi := float32(0.3)
	il.Inhib(&gi, gis)
	if d := gi - 1.0; d > 1e-6 || d < -1e-6 {
		t.Errorf("add inhib: %v", gi)
	}
}

func TestOff(t *testing.T) {
	var il InterInhib
	il.Defaults()
	gi := float32(0.3)
	il.Inhib(&gi, gis)
	if gi != 0.3 || il.On() {
		t.Errorf("no layers should leave gi: %v", gi)
	}
}
