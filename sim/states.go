// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/goki/ki/kit"

// States are the lifecycle states of a Sim.
type States int32

//go:generate stringer -type=States

var KiT_States = kit.Enums.AddEnum(StatesN, kit.NotBitFlag, nil)

func (ev States) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *States) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Uninitialized is the state of a new Sim, before Init.
	Uninitialized States = iota

	// Initialized means the network was validated, params applied and structure frozen.
	Initialized

	// Running means a run was started by NewRun and can take more epochs.
	Running

	// Completed means the last Run call finished all its epochs.
	// Run may be called again to continue the same run.
	Completed

	StatesN
)

// Aggregate is how trial errors are combined into the epoch value.
type Aggregate int32

//go:generate stringer -type=Aggregate

var KiT_Aggregate = kit.Enums.AddEnum(AggregateN, kit.NotBitFlag, nil)

func (ev Aggregate) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Aggregate) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Mean is the average over the trials that had a target for the layer.
	Mean Aggregate = iota

	// Sum is the total over all trials.
	Sum

	AggregateN
)
