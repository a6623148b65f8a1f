// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import "github.com/goki/ki/kit"

// LayerTypes enumerates the roles a layer can play.
// The capabilities of each type are given by the methods below,
// rather than by separate Go types.
type LayerTypes int32

//go:generate stringer -type=LayerTypes

var KiT_LayerTypes = kit.Enums.AddEnum(LayerTypesN, kit.NotBitFlag, nil)

func (ev LayerTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *LayerTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The layer types
const (
	// SuperLayer is a superficial cortical (hidden) layer, which does not
	// receive direct input or targets.
	SuperLayer LayerTypes = iota

	// InputLayer receives direct external input in its Ext values,
	// clamped in both phases.
	InputLayer

	// TargetLayer receives external targets that are clamped
	// only in the plus phase, driving error-driven learning.
	// Target layers are scored.
	TargetLayer

	// CompareLayer receives external comparison values that are scored
	// but never clamped, so they do not drive activation or learning.
	CompareLayer

	LayerTypesN
)

// AcceptsInput returns true if external patterns can be applied to the layer.
func (lt LayerTypes) AcceptsInput() bool {
	return lt == InputLayer || lt == TargetLayer || lt == CompareLayer
}

// ToTarg returns true if external patterns go into Targ rather than Ext.
func (lt LayerTypes) ToTarg() bool {
	return lt == TargetLayer || lt == CompareLayer
}

// IsScored returns true if output error is computed for the layer.
func (lt LayerTypes) IsScored() bool {
	return lt == TargetLayer || lt == CompareLayer
}

// HasInhib returns true if the layer computes its own FFFB inhibition.
// Input layers are hard clamped and do not.
func (lt LayerTypes) HasInhib() bool {
	return lt != InputLayer
}

// ParseLayerType returns the layer type for its string name, accepting
// the short form without the Layer suffix (e.g., Input).
func ParseLayerType(s string) (LayerTypes, error) {
	var lt LayerTypes
	if err := lt.FromString(s); err == nil {
		return lt, nil
	}
	return lt, lt.FromString(s + "Layer")
}
