// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emer/leabrasim/errs"
)

func TestWtsRoundTrip(t *testing.T) {
	for _, fn := range []string{"testnet.wts", "testnet.wts.gz"} {
		net := MakeRA25Net(t)
		NewRateKernel(5).ResetState(net)
		fname := filepath.Join(t.TempDir(), fn)
		if err := net.SaveWtsJSON(fname); err != nil {
			t.Fatal(err)
		}
		pj := net.LayerByName("Hidden2").RecvPathBySendName("Hidden1")
		want := make([]float32, len(pj.Syns))
		for i := range pj.Syns {
			want[i] = pj.Syns[i].Wt
		}

		net2 := MakeRA25Net(t)
		NewRateKernel(99).ResetState(net2)
		if err := net2.OpenWtsJSON(fname); err != nil {
			t.Fatal(err)
		}
		pj2 := net2.LayerByName("Hidden2").RecvPathBySendName("Hidden1")
		got := make([]float32, len(pj2.Syns))
		for i := range pj2.Syns {
			got[i] = pj2.Syns[i].Wt
		}
		CmprFloats(got, want, fn+" weights", t)
		if net2.WtsFile != fname {
			t.Errorf("WtsFile not recorded: %s", net2.WtsFile)
		}
	}
}

func TestWtsMismatch(t *testing.T) {
	net := MakeRA25Net(t)
	var buf bytes.Buffer
	if err := net.WriteWtsJSON(&buf); err != nil {
		t.Fatal(err)
	}
	small := MakeTestNet(t)
	err := small.ReadWtsJSON(&buf)
	if !errors.Is(err, errs.Data) {
		t.Errorf("want Data error, got %v", err)
	}
	if err := small.ReadWtsJSON(strings.NewReader("{not json")); !errors.Is(err, errs.Data) {
		t.Errorf("bad json: want Data error, got %v", err)
	}
}
