// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package leabrasim is the overall repository for a Leabra network simulation
engine: layered rate-coded networks styled by cascading parameter sheets and
trained on tables of input / target patterns.

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* leabra: the network structure (layers, pathways, neurons, synapses), parameter
application, topological ordering, layout, weight files, and RateKernel, the
standard rate-coded activation and learning update.

* params: css-like selectors (Type, .Class, #Name), sheets and named sets, and the
pure Resolve step that computes the values each object receives.

* paths: connectivity patterns (full, onetoone, unifrnd, circle) generating ordered
connection lists between layer shapes.

* env: the pattern table environment, reading the emergent _H: / _D: format.

* sim: the training driver, with the Init / NewRun / Run lifecycle, epoch aggregation
of per-layer error, and cancellation between trials.

* metrics: per-layer epoch error series and sinks that store them in memory or sqlite.

* nxx1, fffb, chans, interinhib: the neural mechanisms used by the kernel.

* config, logging, cmd/leabrasim: YAML configuration, leveled logging and the command line tool.

* examples: ra25 is the basic standard template of a model that learns a small set of
input / output patterns in a classic supervised-learning manner.
*/
package leabrasim
