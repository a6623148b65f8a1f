// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/relpos"
	"github.com/goki/mat32"
)

// StdVertLayout arranges layers in a standard vertical (z axis stack) layout, by setting
// the Rel settings
func (nt *Network) StdVertLayout() {
	lstnm := ""
	for li, ly := range nt.Layers {
		if li == 0 {
			ly.SetRelPos(relpos.Rel{Rel: relpos.NoRel})
		} else {
			ly.SetRelPos(relpos.Rel{Rel: relpos.Above, Other: lstnm, XAlign: relpos.Middle, YAlign: relpos.Front})
		}
		lstnm = ly.Name
	}
}

// Layout computes the 3D layout of layers based on their relative position settings.
// A layer without a relation is placed above the previous one.
// An unknown Other layer is a Config error.
func (nt *Network) Layout() error {
	for itr := 0; itr < 5; itr++ {
		var lstly *Layer
		for _, ly := range nt.Layers {
			rp := ly.Rel
			var oly *Layer
			switch {
			case rp.Rel != relpos.NoRel && rp.Other != "":
				var err error
				oly, err = nt.LayerByNameTry(rp.Other)
				if err != nil {
					return err
				}
			case lstly != nil:
				oly = lstly
				ly.SetRelPos(relpos.Rel{Rel: relpos.Above, Other: lstly.Name, XAlign: relpos.Middle, YAlign: relpos.Front})
			}
			if oly != nil {
				ly.Pos = ly.Rel.Pos(oly.Pos, oly.Size(), ly.Size())
			}
			lstly = ly
		}
	}
	nt.BoundsUpdt()
	return nil
}

// BoundsUpdt updates the Min / Max display bounds for 3D display
func (nt *Network) BoundsUpdt() {
	mn := mat32.NewVec3Scalar(mat32.Infinity)
	mx := mat32.Vec3Zero
	for _, ly := range nt.Layers {
		ps := ly.Pos
		sz := ly.Size()
		ru := ps
		ru.X += sz.X
		ru.Y += sz.Y
		mn.SetMin(ps)
		mx.SetMax(ru)
	}
	if len(nt.Layers) == 0 {
		mn = mat32.Vec3Zero
	}
	nt.MinPos = mn
	nt.MaxPos = mx
}

// SizeReport returns a string reporting the size of each layer and pathway
// in the network, and total memory footprint.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for _, ly := range nt.Layers {
		nn := len(ly.Neurons)
		nmem := nn * int(unsafe.Sizeof(Neuron{}))
		neur += nn
		neurMem += nmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Sends To:\n", ly.Name, nn, datasize.ByteSize(nmem).HumanReadable())
		for _, pj := range ly.SendPaths {
			ns := len(pj.Syns)
			syn += ns
			pmem := ns*int(unsafe.Sizeof(Synapse{})) + len(pj.Cons)*int(unsafe.Sizeof(pj.Cons[0])) + len(pj.RSynIdx)*4 + len(pj.WbRecv)*int(unsafe.Sizeof(WtBalRecv{}))
			synMem += pmem
			fmt.Fprintf(&b, "\t%14s:\t Syns: %d\t SynnMem: %v\n", pj.Recv.Name, ns, datasize.ByteSize(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", nt.Name, neur, datasize.ByteSize(neurMem).HumanReadable(), syn, datasize.ByteSize(synMem).HumanReadable())
	return b.String()
}
