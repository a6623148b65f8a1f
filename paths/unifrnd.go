// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paths

import (
	"math/rand"

	"github.com/emer/etable/etensor"
)

// UnifRnd implements uniform random pattern of connectivity between two layers.
// Each receiving unit gets round(PCon * nsend) connections from sending units
// chosen at random, using a generator seeded with Seed so that the same
// shapes always give the same connections.
type UnifRnd struct {
	PCon    float32 `min:"0" max:"1" desc:"probability of connection (0-1)"`
	SelfCon bool    `desc:"if true, and connecting layer to itself (self pathway), then make a self-connection from unit to itself"`
	Seed    int64   `desc:"the random seed; the pattern is a pure function of the shapes for a given seed"`
}

func NewUnifRnd() *UnifRnd {
	return &UnifRnd{PCon: 0.5, Seed: 1}
}

func (ur *UnifRnd) Name() string {
	return "unifrnd"
}

func (ur *UnifRnd) Connect(send, recv *etensor.Shape, same bool) []Con {
	if ur.PCon >= 1 {
		return (&Full{SelfCon: ur.SelfCon}).Connect(send, recv, same)
	}
	slen := send.Len()
	rlen := recv.Len()
	nsend := slen
	if same && !ur.SelfCon {
		nsend--
	}
	ncon := int(float32(nsend)*ur.PCon + 0.5)
	if ncon <= 0 {
		return nil
	}
	rnd := rand.New(rand.NewSource(ur.Seed))
	conn := make([][]bool, slen)
	for si := range conn {
		conn[si] = make([]bool, rlen)
	}
	sidx := make([]int, 0, slen)
	for ri := 0; ri < rlen; ri++ {
		sidx = sidx[:0]
		for si := 0; si < slen; si++ {
			if same && !ur.SelfCon && si == ri {
				continue
			}
			sidx = append(sidx, si)
		}
		rnd.Shuffle(len(sidx), func(i, j int) { sidx[i], sidx[j] = sidx[j], sidx[i] })
		for _, si := range sidx[:ncon] {
			conn[si][ri] = true
		}
	}
	cons := make([]Con, 0, ncon*rlen)
	for si := 0; si < slen; si++ {
		for ri := 0; ri < rlen; ri++ {
			if conn[si][ri] {
				cons = append(cons, Con{Send: si, Recv: ri})
			}
		}
	}
	return cons
}
