// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/emer/emergent/weights"
	"github.com/emer/leabrasim/errs"
	"github.com/pkg/errors"
)

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// SaveWtsJSON saves network weights (and any other state that adapts with learning)
// to a JSON-formatted file.  If filename has .gz extension, then file is gzip compressed.
func (nt *Network) SaveWtsJSON(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "SaveWtsJSON")
	}
	defer fp.Close()
	if filepath.Ext(filename) == ".gz" {
		gzr := gzip.NewWriter(fp)
		if err := nt.WriteWtsJSON(gzr); err != nil {
			gzr.Close()
			return err
		}
		err = gzr.Close()
	} else {
		err = nt.WriteWtsJSON(fp)
	}
	if err == nil {
		nt.WtsFile = filename
	}
	return err
}

// OpenWtsJSON opens network weights (and any other state that adapts with learning)
// from a JSON-formatted file.  If filename has .gz extension, then file is gzip uncompressed.
func (nt *Network) OpenWtsJSON(filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "OpenWtsJSON")
	}
	defer fp.Close()
	if filepath.Ext(filename) == ".gz" {
		gzr, err := gzip.NewReader(fp)
		if err != nil {
			return errs.Dataf("OpenWtsJSON %s: %v", filename, err)
		}
		defer gzr.Close()
		err = nt.ReadWtsJSON(gzr)
	} else {
		err = nt.ReadWtsJSON(fp)
	}
	if err == nil {
		nt.WtsFile = filename
	}
	return err
}

// Weights returns the weights of the network from the receiver-side perspective.
func (nt *Network) Weights() *weights.Network {
	nw := &weights.Network{Network: nt.Name, MetaData: nt.MetaData}
	for _, ly := range nt.Layers {
		lw := weights.Layer{Layer: ly.Name}
		lw.MetaData = map[string]string{
			"ActMAvg": strconv.FormatFloat(float64(ly.ActMAvg), 'g', -1, 32),
			"ActPAvg": strconv.FormatFloat(float64(ly.ActPAvg), 'g', -1, 32),
		}
		for _, pj := range ly.RecvPaths {
			pw := weights.Prjn{From: pj.Send.Name}
			pw.MetaData = map[string]string{"GScale": strconv.FormatFloat(float64(pj.GScale), 'g', -1, 32)}
			for ri := range pj.RConN {
				sis := pj.RecvSyns(ri)
				rw := weights.Recv{Ri: ri, N: len(sis), Si: make([]int, len(sis)), Wt: make([]float32, len(sis))}
				for i, ci := range sis {
					rw.Si[i] = pj.Cons[ci].Send
					rw.Wt[i] = pj.Syns[ci].Wt
				}
				pw.Rs = append(pw.Rs, rw)
			}
			lw.Prjns = append(lw.Prjns, pw)
		}
		nw.Layers = append(nw.Layers, lw)
	}
	return nw
}

// WriteWtsJSON writes the weights from the receiver-side perspective
// in a JSON text format.
func (nt *Network) WriteWtsJSON(w io.Writer) error {
	b, err := json.MarshalIndent(nt.Weights(), "", "\t")
	if err != nil {
		return errors.Wrap(err, "WriteWtsJSON")
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// ReadWtsJSON reads network weights from the receiver-side perspective
// in a JSON text format, and sets them with SetWts.
func (nt *Network) ReadWtsJSON(r io.Reader) error {
	nw, err := weights.NetReadJSON(r)
	if err != nil {
		return errs.Dataf("ReadWtsJSON: %v", err)
	}
	return nt.SetWts(nw)
}

// SetWts sets the weights for this network from weights.Network decoded values.
// Layers and pathways are matched by name; the first mismatch is returned
// as a Data error after setting everything that did match.
func (nt *Network) SetWts(nw *weights.Network) error {
	var err error
	for mk, mv := range nw.MetaData {
		nt.MetaData[mk] = mv
	}
	for li := range nw.Layers {
		lw := &nw.Layers[li]
		ly := nt.LayerByName(lw.Layer)
		if ly == nil {
			if err == nil {
				err = errs.Dataf("SetWts: layer %q not in network %q", lw.Layer, nt.Name)
			}
			continue
		}
		if er := ly.SetWts(lw); er != nil && err == nil {
			err = er
		}
	}
	return err
}

// SetWts sets the weights for this layer from weights.Layer decoded values
func (ly *Layer) SetWts(lw *weights.Layer) error {
	if am, ok := lw.MetaData["ActMAvg"]; ok {
		pv, _ := strconv.ParseFloat(am, 32)
		ly.ActMAvg = float32(pv)
	}
	if ap, ok := lw.MetaData["ActPAvg"]; ok {
		pv, _ := strconv.ParseFloat(ap, 32)
		ly.ActPAvg = float32(pv)
		ly.Inhib.ActAvg.EffFmAvg(&ly.ActPAvgEff, ly.ActPAvg)
	}
	var err error
	for pi := range lw.Prjns {
		pw := &lw.Prjns[pi]
		pj := ly.RecvPathBySendName(pw.From)
		if pj == nil {
			if err == nil {
				err = errs.Dataf("SetWts: layer %q has no pathway from %q", ly.Name, pw.From)
			}
			continue
		}
		if er := pj.SetWts(pw); er != nil && err == nil {
			err = er
		}
	}
	return err
}

// SetWts sets the weights for this pathway from weights.Prjn decoded values
func (pj *Path) SetWts(pw *weights.Prjn) error {
	if gs, ok := pw.MetaData["GScale"]; ok {
		pv, _ := strconv.ParseFloat(gs, 32)
		pj.GScale = float32(pv)
	}
	var err error
	for i := range pw.Rs {
		pr := &pw.Rs[i]
		for si := range pr.Si {
			if pr.Ri < 0 || pr.Ri >= len(pj.RConN) {
				err = errs.Dataf("SetWts: %s recv index %d out of range", pj.Name(), pr.Ri)
				break
			}
			ci := pj.SynIdx(pr.Si[si], pr.Ri)
			if ci < 0 {
				if err == nil {
					err = errs.Dataf("SetWts: %s has no synapse %d -> %d", pj.Name(), pr.Si[si], pr.Ri)
				}
				continue
			}
			pj.SetWt(ci, pr.Wt[si])
		}
	}
	return err
}
