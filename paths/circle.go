// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paths

import (
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
)

// Circle connects each receiving unit to all sending units within
// a given Radius on the 2D grid, using the emergent prjn.Circle
// geometry. Useful for topographic lateral connectivity.
type Circle struct {
	prjn.Circle
}

func NewCircle() *Circle {
	cr := &Circle{}
	cr.Circle = *prjn.NewCircle()
	return cr
}

func (cr *Circle) Name() string {
	return "circle"
}

func (cr *Circle) Connect(send, recv *etensor.Shape, same bool) []Con {
	return FromPrjn(&cr.Circle, send, recv, same)
}

// FromPrjn converts the connection bits of any emergent prjn.Pattern
// into an ordered connection list, sending-unit outer.
func FromPrjn(pt prjn.Pattern, send, recv *etensor.Shape, same bool) []Con {
	_, _, bits := pt.Connect(send, recv, same)
	slen := send.Len()
	rlen := recv.Len()
	var cons []Con
	for si := 0; si < slen; si++ {
		for ri := 0; ri < rlen; ri++ {
			if bits.Value1D(ri*slen + si) {
				cons = append(cons, Con{Send: si, Recv: ri})
			}
		}
	}
	return cons
}
