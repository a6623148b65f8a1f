// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paths

import (
	"errors"
	"reflect"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/emer/leabrasim/errs"
)

func shape2D(rows, cols int) *etensor.Shape {
	sh := &etensor.Shape{}
	sh.SetShape([]int{rows, cols}, nil, []string{"Y", "X"})
	return sh
}

func TestFullCount(t *testing.T) {
	send := shape2D(3, 2)
	recv := shape2D(2, 4)
	cons, err := Generate("full", send, recv)
	if err != nil {
		t.Fatal(err)
	}
	if len(cons) != 3*2*2*4 {
		t.Errorf("full: got %d cons, want %d", len(cons), 3*2*2*4)
	}
	seen := map[Con]bool{}
	for _, cn := range cons {
		if seen[cn] {
			t.Errorf("duplicate con: %v", cn)
		}
		seen[cn] = true
	}
	if cons[0] != (Con{0, 0}) || cons[1] != (Con{0, 1}) || cons[8] != (Con{1, 0}) {
		t.Errorf("full order not send-outer: %v", cons[:9])
	}
	again, _ := Generate("full", send, recv)
	if !reflect.DeepEqual(cons, again) {
		t.Errorf("full not deterministic")
	}
}

func TestFullSelf(t *testing.T) {
	sh := shape2D(2, 2)
	fp := NewFull()
	if n := len(fp.Connect(sh, sh, true)); n != 12 {
		t.Errorf("self no selfcon: got %d, want 12", n)
	}
	fp.SelfCon = true
	if n := len(fp.Connect(sh, sh, true)); n != 16 {
		t.Errorf("self with selfcon: got %d, want 16", n)
	}
}

func TestOneToOne(t *testing.T) {
	cons, err := Generate("OneToOne", shape2D(2, 3), shape2D(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(cons) != 4 {
		t.Errorf("onetoone: got %d, want 4", len(cons))
	}
	for i, cn := range cons {
		if cn.Send != i || cn.Recv != i {
			t.Errorf("onetoone con %d: %v", i, cn)
		}
	}
}

func TestUnifRnd(t *testing.T) {
	send := shape2D(4, 5)
	recv := shape2D(3, 3)
	ur := NewUnifRnd()
	ur.PCon = 0.25
	cons := ur.Connect(send, recv, false)
	_, recvn := Counts(cons, send.Len(), recv.Len())
	for ri, n := range recvn {
		if n != 5 {
			t.Errorf("recv %d: got %d cons, want 5", ri, n)
		}
	}
	if !reflect.DeepEqual(cons, ur.Connect(send, recv, false)) {
		t.Errorf("unifrnd not deterministic for fixed seed")
	}
}

func TestCircle(t *testing.T) {
	sh := shape2D(5, 5)
	cr := NewCircle()
	cr.Radius = 1
	cons := cr.Connect(sh, sh, true)
	if len(cons) == 0 || len(cons) >= 25*25 {
		t.Errorf("circle: unexpected con count %d", len(cons))
	}
	for i := 1; i < len(cons); i++ {
		a, b := cons[i-1], cons[i]
		if a.Send > b.Send || (a.Send == b.Send && a.Recv >= b.Recv) {
			t.Errorf("circle cons out of order at %d: %v %v", i, a, b)
		}
	}
}

func TestUnknownPattern(t *testing.T) {
	_, err := Generate("sparse-ish", shape2D(2, 2), shape2D(2, 2))
	if !errors.Is(err, errs.Config) {
		t.Errorf("unknown pattern should be config error, got: %v", err)
	}
}

type evenPat struct{}

func (ep *evenPat) Name() string { return "even" }
func (ep *evenPat) Connect(send, recv *etensor.Shape, same bool) []Con {
	var cons []Con
	for si := 0; si < send.Len(); si += 2 {
		cons = append(cons, Con{si, 0})
	}
	return cons
}

func TestRegister(t *testing.T) {
	Register("even", func() Pattern { return &evenPat{} })
	cons, err := Generate("even", shape2D(2, 2), shape2D(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(cons) != 2 {
		t.Errorf("registered pattern: got %d cons", len(cons))
	}
}
