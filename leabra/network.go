// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"math/rand"

	"github.com/emer/etable/etensor"
	"github.com/emer/leabrasim/errs"
	"github.com/emer/leabrasim/params"
	"github.com/emer/leabrasim/paths"
	"github.com/goki/mat32"
	"github.com/pkg/errors"
)

// Bindings map layer names to the pattern applied to that layer for one trial.
type Bindings map[string]*etensor.Float32

// leabra.Network holds the layers and pathways of a network, owning all
// unit and synapse storage. Structure may only change until Freeze.
type Network struct {
	Name     string            `desc:"overall name of network -- helps discriminate if there are multiple"`
	Layers   []*Layer          `desc:"list of layers, in order of creation"`
	Paths    []*Path           `desc:"list of pathways, in order of creation"`
	MetaData map[string]string `desc:"misc meta data about the network, saved with the weights"`
	WtsFile  string            `desc:"filename of last weights file loaded or saved"`
	LayMap   map[string]*Layer `view:"-" desc:"map of name to layers -- layer names must be unique"`
	MinPos   mat32.Vec3        `view:"-" desc:"minimum display position in network"`
	MaxPos   mat32.Vec3        `view:"-" desc:"maximum display position in network"`

	frozen bool
}

// NewNetwork returns a new empty Network with the given name.
func NewNetwork(name string) *Network {
	return &Network{Name: name, LayMap: map[string]*Layer{}, MetaData: map[string]string{}}
}

// Frozen reports whether the structure has been frozen.
func (nt *Network) Frozen() bool { return nt.frozen }

// Freeze disallows any further structural changes (layers, pathways).
func (nt *Network) Freeze() { nt.frozen = true }

func (nt *Network) checkMutable(op string) error {
	if nt.frozen {
		return errs.Sequencef("leabra: %s on network %q after it was frozen", op, nt.Name)
	}
	return nil
}

// NLayers returns the number of layers.
func (nt *Network) NLayers() int { return len(nt.Layers) }

// LayerByName returns a layer by looking it up by name in the layer map (nil if not found).
func (nt *Network) LayerByName(name string) *Layer {
	return nt.LayMap[name]
}

// LayerByNameTry returns a layer by looking it up by name -- returns Config error if not found.
func (nt *Network) LayerByNameTry(name string) (*Layer, error) {
	ly, ok := nt.LayMap[name]
	if !ok {
		return nil, errs.Configf("leabra: layer named %q not found in network %q", name, nt.Name)
	}
	return ly, nil
}

// AddLayer adds a new layer with given name, shape and type to the network.
// Names must be unique and both dimensions positive.
func (nt *Network) AddLayer(name string, rows, cols int, typ LayerTypes) (*Layer, error) {
	if err := nt.checkMutable("AddLayer"); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.Configf("leabra: AddLayer requires a name")
	}
	if _, has := nt.LayMap[name]; has {
		return nil, errs.Configf("leabra: layer named %q already exists in network %q", name, nt.Name)
	}
	if rows <= 0 || cols <= 0 {
		return nil, errs.Configf("leabra: layer %q shape must be positive, got [%d, %d]", name, rows, cols)
	}
	if typ < 0 || typ >= LayerTypesN {
		return nil, errs.Configf("leabra: layer %q has invalid type %d", name, typ)
	}
	ly := &Layer{Name: name, Type: typ, Index: len(nt.Layers), net: nt}
	ly.Shape.SetShape([]int{rows, cols}, nil, LayerDimNames2D)
	nn := ly.Shape.Len()
	ly.Neurons = make([]Neuron, nn)
	ly.geBuf = make([]float32, nn)
	ly.actBuf = make([]float32, nn)
	ly.Rel.Defaults()
	ly.Defaults()
	ly.UpdateParams()
	ly.InitActAvg()
	ly.InitActs()
	nt.Layers = append(nt.Layers, ly)
	nt.LayMap[name] = ly
	return ly, nil
}

// ConnectLayers establishes a pathway between two layers of this network,
// generating connectivity with the named pattern (see paths.Names).
func (nt *Network) ConnectLayers(send, recv *Layer, pattern string, typ PathTypes) (*Path, error) {
	pat, err := paths.New(pattern)
	if err != nil {
		return nil, err
	}
	return nt.ConnectLayersPat(send, recv, pat, typ)
}

// ConnectLayersPat establishes a pathway using the given pattern instance,
// which allows the pattern's own parameters to be configured first.
// The connection list is generated and checked before anything is allocated.
func (nt *Network) ConnectLayersPat(send, recv *Layer, pat paths.Pattern, typ PathTypes) (*Path, error) {
	if err := nt.checkMutable("ConnectLayers"); err != nil {
		return nil, err
	}
	if send == nil || recv == nil || send.net != nt || recv.net != nt {
		return nil, errs.Configf("leabra: ConnectLayers requires two layers of network %q", nt.Name)
	}
	if typ < 0 || typ >= PathTypesN {
		return nil, errs.Configf("leabra: invalid path type %d", typ)
	}
	for _, pj := range recv.RecvPaths {
		if pj.Send == send {
			return nil, errs.Configf("leabra: path %sTo%s already exists", send.Name, recv.Name)
		}
	}
	cons := pat.Connect(&send.Shape, &recv.Shape, send == recv)
	ns, nr := send.NNeurons(), recv.NNeurons()
	for _, cn := range cons {
		if cn.Send < 0 || cn.Send >= ns || cn.Recv < 0 || cn.Recv >= nr {
			return nil, errs.Configf("leabra: pattern %s produced out of range connection %v for %sTo%s", pat.Name(), cn, send.Name, recv.Name)
		}
	}
	pj := &Path{Send: send, Recv: recv, Type: typ, Pattern: pat.Name(), Pat: pat}
	pj.build(cons)
	pj.Defaults()
	pj.UpdateParams()
	send.SendPaths = append(send.SendPaths, pj)
	recv.RecvPaths = append(recv.RecvPaths, pj)
	nt.Paths = append(nt.Paths, pj)
	return pj, nil
}

// ConnectLayerNames establishes a pathway between two layers, referenced by name.
func (nt *Network) ConnectLayerNames(send, recv string, pattern string, typ PathTypes) (*Path, error) {
	sl, err := nt.LayerByNameTry(send)
	if err != nil {
		return nil, err
	}
	rl, err := nt.LayerByNameTry(recv)
	if err != nil {
		return nil, err
	}
	return nt.ConnectLayers(sl, rl, pattern, typ)
}

// BidirConnectLayers establishes bidirectional pathways between two layers:
// a ForwardPath from low to high and a BackPath from high to low.
func (nt *Network) BidirConnectLayers(low, high *Layer, pattern string) (fwd, back *Path, err error) {
	fwd, err = nt.ConnectLayers(low, high, pattern, ForwardPath)
	if err != nil {
		return nil, nil, err
	}
	back, err = nt.ConnectLayers(high, low, pattern, BackPath)
	if err != nil {
		return nil, nil, err
	}
	return fwd, back, nil
}

// LateralConnectLayer establishes a self-pathway within given layer.
func (nt *Network) LateralConnectLayer(lay *Layer, pattern string) (*Path, error) {
	return nt.ConnectLayers(lay, lay, pattern, LateralPath)
}

// Validate checks that the network is runnable: it has layers, and every
// layer other than an input layer receives at least one pathway.
func (nt *Network) Validate() error {
	if len(nt.Layers) == 0 {
		return errs.Configf("leabra: network %q has no layers", nt.Name)
	}
	for _, ly := range nt.Layers {
		if ly.Type == InputLayer {
			continue
		}
		if len(ly.RecvPaths) == 0 {
			return errs.Configf("leabra: layer %q of type %v has no incoming pathways", ly.Name, ly.Type)
		}
	}
	return nil
}

///////////////////////////////////////////////////////////////////////
//  Params

// Schema returns the parameter schema for the Layer and Path style types,
// built from their field tables.
func (nt *Network) Schema() *params.Schema {
	return NewSchema()
}

// NewSchema returns the parameter schema for the Layer and Path style types.
func NewSchema() *params.Schema {
	sch := params.NewSchema()
	ly := &Layer{}
	sch.AddType(ly.StyleType(), ly.Fields())
	pj := &Path{}
	sch.AddType(pj.StyleType(), pj.Fields())
	return sch
}

// ApplyParams resets every layer and pathway to defaults, then applies the
// values resolved from the given sheets. The first error aborts, leaving
// the failing object at its defaults. Applying the same sheets again
// produces the same state.
func (nt *Network) ApplyParams(sheets []*params.Sheet) error {
	sch := nt.Schema()
	for _, sh := range sheets {
		if sh == nil {
			continue
		}
		if err := sh.Validate(sch); err != nil {
			return err
		}
	}
	for _, ly := range nt.Layers {
		ly.Defaults()
		vals, err := params.Resolve(sheets, ly, sch)
		if err == nil {
			err = vals.Apply(ly.StyleType(), ly.Fields())
		}
		if err != nil {
			ly.Defaults()
			ly.UpdateParams()
			return errors.Wrapf(err, "layer %s", ly.Name)
		}
		ly.Params = vals
		ly.UpdateParams()
	}
	for _, pj := range nt.Paths {
		pj.Defaults()
		vals, err := params.Resolve(sheets, pj, sch)
		if err == nil {
			err = vals.Apply(pj.StyleType(), pj.Fields())
		}
		if err != nil {
			pj.Defaults()
			pj.UpdateParams()
			return errors.Wrapf(err, "path %s", pj.Name())
		}
		pj.Params = vals
		pj.UpdateParams()
	}
	return nil
}

///////////////////////////////////////////////////////////////////////
//  Order

// TopoOrder returns the layers ordered so that senders of Forward and Inhib
// pathways come before their receivers. Ties go to creation order, and any
// layers caught in a cycle are appended in creation order.
func (nt *Network) TopoOrder() []*Layer {
	nl := len(nt.Layers)
	indeg := make([]int, nl)
	for _, pj := range nt.Paths {
		if pj.Type.InTopo() && pj.Send != pj.Recv {
			indeg[pj.Recv.Index]++
		}
	}
	done := make([]bool, nl)
	order := make([]*Layer, 0, nl)
	for len(order) < nl {
		next := -1
		for li := 0; li < nl; li++ {
			if !done[li] && indeg[li] == 0 {
				next = li
				break
			}
		}
		if next < 0 {
			break
		}
		done[next] = true
		ly := nt.Layers[next]
		order = append(order, ly)
		for _, pj := range ly.SendPaths {
			if pj.Type.InTopo() && pj.Send != pj.Recv {
				indeg[pj.Recv.Index]--
			}
		}
	}
	for li, ly := range nt.Layers {
		if !done[li] {
			order = append(order, ly)
		}
	}
	return order
}

///////////////////////////////////////////////////////////////////////
//  Init, Cycle, Learn

// InitWeights initializes synaptic weights and all other associated long-term state variables
// including running-average state values (e.g., layer running average activations etc)
func (nt *Network) InitWeights(rnd *rand.Rand) {
	for _, ly := range nt.Layers {
		ly.InitActAvg()
		ly.InitActs()
	}
	for _, pj := range nt.Paths {
		pj.InitWts(rnd)
	}
	nt.InitWtSym()
	nt.InitGScale()
}

// InitWtSym initializes weight symmetry -- back pathways copy the weights
// of the reciprocal forward pathway when WtInit.Sym is set on both.
func (nt *Network) InitWtSym() {
	for _, pj := range nt.Paths {
		if !pj.WtInit.Sym || pj.Type != BackPath {
			continue
		}
		rpj := pj.Recv.SendPathByRecvName(pj.Send.Name)
		if rpj == nil || !rpj.WtInit.Sym || rpj.Type == BackPath {
			continue
		}
		pj.InitWtSym(rpj)
	}
}

// InitGScale computes the conductance scaling of every pathway, normalizing
// the relative scale across excitatory and inhibitory inputs separately.
func (nt *Network) InitGScale() {
	for _, ly := range nt.Layers {
		var totExc, totInh float32
		for _, pj := range ly.RecvPaths {
			if pj.Type.IsExcite() {
				totExc += pj.WtScale.Rel
			} else {
				totInh += pj.WtScale.Rel
			}
		}
		for _, pj := range ly.RecvPaths {
			if pj.Type.IsExcite() {
				pj.ScaleFmAct(totExc)
			} else {
				pj.ScaleFmAct(totInh)
			}
		}
	}
}

// InitExt initializes external input state on all layers.
func (nt *Network) InitExt() {
	for _, ly := range nt.Layers {
		ly.InitExt()
	}
}

// ApplyBindings clears external input and then applies each bound pattern
// to its layer. Unknown layer names and shape mismatches are Config errors,
// checked for all bindings before any is applied.
func (nt *Network) ApplyBindings(in Bindings) error {
	for nm, pat := range in {
		ly, err := nt.LayerByNameTry(nm)
		if err != nil {
			return err
		}
		if pat == nil || !etensor.EqualInts(pat.Shp, ly.Shape.Shp) {
			var shp []int
			if pat != nil {
				shp = pat.Shp
			}
			return errs.Configf("leabra: pattern for layer %q has shape %v, layer is %v", nm, shp, ly.Shape.Shp)
		}
	}
	nt.InitExt()
	for _, ly := range nt.Layers {
		pat, ok := in[ly.Name]
		if !ok {
			continue
		}
		if err := ly.ApplyExt(pat); err != nil {
			return err
		}
	}
	return nil
}

// AlphaCycInit handles all initialization at start of new input pattern.
func (nt *Network) AlphaCycInit() {
	for _, ly := range nt.Layers {
		ly.AlphaCycInit()
	}
	nt.InitGScale()
}

// Cycle runs one cycle of activation updating over the layers in the given order.
func (nt *Network) Cycle(order []*Layer) {
	for _, ly := range order {
		ly.Cycle()
	}
}

// DWt computes the weight change (learning) for all pathways.
func (nt *Network) DWt() {
	for _, pj := range nt.Paths {
		pj.DWt()
	}
}

// WtFmDWt updates the weights from delta-weight changes.
func (nt *Network) WtFmDWt() {
	for _, pj := range nt.Paths {
		pj.WtFmDWt()
	}
}
