// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import "github.com/goki/ki/kit"

// PathTypes enumerates the types of pathways.
// Each pathway automatically gets its type name as a class tag,
// so params can select e.g. .BackPath.
type PathTypes int32

//go:generate stringer -type=PathTypes

var KiT_PathTypes = kit.Enums.AddEnum(PathTypesN, kit.NotBitFlag, nil)

func (ev PathTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *PathTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The pathway types
const (
	// ForwardPath is a feedforward, bottom-up pathway from sensory inputs to higher layers
	ForwardPath PathTypes = iota

	// BackPath is a feedback, top-down pathway from higher layers back to lower layers
	BackPath

	// LateralPath is a lateral pathway within the same layer / area
	LateralPath

	// InhibPath drives inhibitory synaptic conductance instead of excitatory
	InhibPath

	PathTypesN
)

// IsExcite returns true if the pathway drives excitatory conductance.
func (pt PathTypes) IsExcite() bool {
	return pt != InhibPath
}

// InTopo returns true if the pathway counts as a dependency for
// the topological (source before destination) layer order.
func (pt PathTypes) InTopo() bool {
	return pt == ForwardPath || pt == InhibPath
}
