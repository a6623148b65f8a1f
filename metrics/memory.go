// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"sort"
	"sync"

	"github.com/emer/leabrasim/errs"
)

// MemoryStore is a Sink that keeps everything in memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]RunInfo
	epochs      map[string][]EpochRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]RunInfo)
	s.epochs = make(map[string][]EpochRecord)
	return nil
}

func (s *MemoryStore) BeginRun(_ context.Context, info RunInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errs.Sequencef("metrics: memory store is not initialized")
	}
	s.runs[info.ID] = info
	return nil
}

func (s *MemoryStore) RecordEpoch(_ context.Context, recs []EpochRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errs.Sequencef("metrics: memory store is not initialized")
	}
	for _, rc := range recs {
		if _, ok := s.runs[rc.RunID]; !ok {
			return errs.Sequencef("metrics: epoch record for unknown run %q", rc.RunID)
		}
		s.epochs[rc.RunID] = append(s.epochs[rc.RunID], rc)
	}
	return nil
}

func (s *MemoryStore) EpochErrors(_ context.Context, runID, layer string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []EpochRecord
	for _, rc := range s.epochs[runID] {
		if rc.Layer == layer {
			recs = append(recs, rc)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Epoch < recs[j].Epoch })
	vals := make([]float64, len(recs))
	for i, rc := range recs {
		vals[i] = rc.Value
	}
	return vals, nil
}

// Runs returns all runs begun, in no particular order.
func (s *MemoryStore) Runs() []RunInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]RunInfo, 0, len(s.runs))
	for _, ri := range s.runs {
		runs = append(runs, ri)
	}
	return runs
}

func (s *MemoryStore) Close() error {
	return nil
}
