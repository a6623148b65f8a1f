// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package paths provides the connectivity patterns that determine which
sending units connect to which receiving units in a pathway.

A Pattern is a pure function of the two layer shapes: it returns an
ordered list of (send, recv) unit index pairs, and must return the
same list every time it is called with the same shapes. Patterns are
looked up by name through a registry, so new ones can be added with
Register without changing any callers.
*/
package paths

import (
	"sort"
	"strings"
	"sync"

	"github.com/emer/etable/etensor"
	"github.com/emer/leabrasim/errs"
)

// Con is one connection, as flat row-major unit indexes into the
// sending and receiving layer shapes.
type Con struct {
	Send int
	Recv int
}

// Pattern defines a connectivity pattern between two layers.
type Pattern interface {
	// Name returns the registry name of the pattern.
	Name() string

	// Connect returns the connections between units in the two shapes,
	// in a deterministic order. same is true when send and recv are the
	// same layer.
	Connect(send, recv *etensor.Shape, same bool) []Con
}

var (
	regMu    sync.RWMutex
	registry = map[string]func() Pattern{}
)

func init() {
	Register("full", func() Pattern { return NewFull() })
	Register("onetoone", func() Pattern { return NewOneToOne() })
	Register("unifrnd", func() Pattern { return NewUnifRnd() })
	Register("circle", func() Pattern { return NewCircle() })
}

// Register adds a pattern constructor under the given name, replacing
// any existing one. Names are matched case-insensitively.
func Register(name string, fn func() Pattern) {
	regMu.Lock()
	registry[strings.ToLower(name)] = fn
	regMu.Unlock()
}

// Names returns the registered pattern names, sorted.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	nms := make([]string, 0, len(registry))
	for nm := range registry {
		nms = append(nms, nm)
	}
	sort.Strings(nms)
	return nms
}

// New returns a new pattern with default settings for the given name.
// An unknown name is a Config error.
func New(name string) (Pattern, error) {
	regMu.RLock()
	fn, ok := registry[strings.ToLower(name)]
	regMu.RUnlock()
	if !ok {
		return nil, errs.Configf("paths: unknown pattern %q (have: %s)", name, strings.Join(Names(), ", "))
	}
	return fn(), nil
}

// Generate returns the connections of the named pattern between two
// different layers of the given shapes.
func Generate(name string, send, recv *etensor.Shape) ([]Con, error) {
	pt, err := New(name)
	if err != nil {
		return nil, err
	}
	return pt.Connect(send, recv, false), nil
}

// Counts returns the number of connections per sending and per receiving unit.
func Counts(cons []Con, nsend, nrecv int) (sendn, recvn []int) {
	sendn = make([]int, nsend)
	recvn = make([]int, nrecv)
	for _, cn := range cons {
		sendn[cn.Send]++
		recvn[cn.Recv]++
	}
	return
}
