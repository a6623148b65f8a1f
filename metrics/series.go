// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics records the per-epoch error of each scored layer.
// A Series has one writer (the trial loop) and may be read from any
// goroutine at any time; readers get copies.
package metrics

import (
	"sort"
	"sync"
)

// Series is an append-only sequence of per-epoch values for one layer.
type Series struct {
	Layer string

	mu   sync.RWMutex
	vals []float64
}

// NewSeries returns an empty series for the given layer.
func NewSeries(layer string) *Series {
	return &Series{Layer: layer}
}

// Append adds the value for the next epoch.
func (sr *Series) Append(v float64) {
	sr.mu.Lock()
	sr.vals = append(sr.vals, v)
	sr.mu.Unlock()
}

func (sr *Series) Len() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return len(sr.vals)
}

// Values returns a copy of the values so far.
func (sr *Series) Values() []float64 {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return append([]float64(nil), sr.vals...)
}

// Last returns the most recent value, false if empty.
func (sr *Series) Last() (float64, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	if len(sr.vals) == 0 {
		return 0, false
	}
	return sr.vals[len(sr.vals)-1], true
}

// Reset removes all values.
func (sr *Series) Reset() {
	sr.mu.Lock()
	sr.vals = nil
	sr.mu.Unlock()
}

// Set is the collection of series for all scored layers of a network.
type Set struct {
	mu     sync.RWMutex
	series map[string]*Series
}

// NewSet returns a set with an empty series for each given layer.
func NewSet(layers ...string) *Set {
	st := &Set{series: make(map[string]*Series, len(layers))}
	for _, l := range layers {
		st.series[l] = NewSeries(l)
	}
	return st
}

// Series returns the series for the layer, or nil.
func (st *Set) Series(layer string) *Series {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.series[layer]
}

// Layers returns the layer names in sorted order.
func (st *Set) Layers() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ls := make([]string, 0, len(st.series))
	for l := range st.series {
		ls = append(ls, l)
	}
	sort.Strings(ls)
	return ls
}

// AppendEpoch appends one value to each listed layer's series.
// Layers not yet in the set are added.
func (st *Set) AppendEpoch(vals map[string]float64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for l, v := range vals {
		sr, ok := st.series[l]
		if !ok {
			sr = NewSeries(l)
			st.series[l] = sr
		}
		sr.Append(v)
	}
}

// Reset clears every series, keeping the layers.
func (st *Set) Reset() {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, sr := range st.series {
		sr.Reset()
	}
}

// Snapshot returns a copy of all series values keyed by layer.
func (st *Set) Snapshot() map[string][]float64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	snap := make(map[string][]float64, len(st.series))
	for l, sr := range st.series {
		snap[l] = sr.Values()
	}
	return snap
}
