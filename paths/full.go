// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paths

import "github.com/emer/etable/etensor"

// Full implements full all-to-all pattern of connectivity between two layers.
// Connections are ordered sending-unit outer, receiving-unit inner.
type Full struct {
	SelfCon bool `desc:"if true, and connecting layer to itself (self pathway), then make a self-connection from unit to itself"`
}

func NewFull() *Full {
	return &Full{}
}

func (fp *Full) Name() string {
	return "full"
}

func (fp *Full) Connect(send, recv *etensor.Shape, same bool) []Con {
	slen := send.Len()
	rlen := recv.Len()
	cons := make([]Con, 0, slen*rlen)
	for si := 0; si < slen; si++ {
		for ri := 0; ri < rlen; ri++ {
			if same && !fp.SelfCon && si == ri {
				continue
			}
			cons = append(cons, Con{Send: si, Recv: ri})
		}
	}
	return cons
}
