// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paths

import "github.com/emer/etable/etensor"

// OneToOne implements point-to-point one-to-one pattern of connectivity
// between two layers, connecting unit i to unit i for the smaller of
// the two layer sizes.
type OneToOne struct {
	NCons     int `desc:"number of connections to make (0 = all)"`
	SendStart int `desc:"starting unit index for sending connections"`
	RecvStart int `desc:"starting unit index for recv connections"`
}

func NewOneToOne() *OneToOne {
	return &OneToOne{}
}

func (ot *OneToOne) Name() string {
	return "onetoone"
}

func (ot *OneToOne) Connect(send, recv *etensor.Shape, same bool) []Con {
	slen := send.Len() - ot.SendStart
	rlen := recv.Len() - ot.RecvStart
	ncon := slen
	if rlen < ncon {
		ncon = rlen
	}
	if ot.NCons > 0 && ot.NCons < ncon {
		ncon = ot.NCons
	}
	if ncon < 0 {
		ncon = 0
	}
	cons := make([]Con, ncon)
	for i := range cons {
		cons[i] = Con{Send: ot.SendStart + i, Recv: ot.RecvStart + i}
	}
	return cons
}
