// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"time"
)

// RunInfo describes one training run.
type RunInfo struct {
	ID        string
	Name      string
	Network   string
	ParamSets []string
	Seed      int64
	Started   time.Time
}

// EpochRecord is the aggregated error of one scored layer for one epoch.
type EpochRecord struct {
	RunID   string
	Epoch   int
	Layer   string
	Value   float64
	Elapsed time.Duration
}

// Sink receives run and epoch results as they are produced.
type Sink interface {
	Init(ctx context.Context) error
	BeginRun(ctx context.Context, info RunInfo) error
	RecordEpoch(ctx context.Context, recs []EpochRecord) error
	EpochErrors(ctx context.Context, runID, layer string) ([]float64, error)
	Close() error
}
