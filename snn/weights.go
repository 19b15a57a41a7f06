// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/emer/emergent/weights"
)

// RecurrentKind is the Kind metadata value marking the recurrent weights
// of a RecLayer in exported weights
const RecurrentKind = "Recurrent"

// WtsPrjn returns the connected weights of the synapse, from the receiver-side
// perspective.  Kind, Type and the modulatory layer are recorded as metadata.
func (sy *Synapse) WtsPrjn() weights.Prjn {
	pw := weights.Prjn{From: sy.Send}
	pw.MetaData = map[string]string{"Kind": sy.Kind.String(), "Type": sy.Type.String()}
	if sy.ModNm != "" {
		pw.MetaData["Mod"] = sy.ModNm
	}
	pw.Rs = make([]weights.Recv, sy.No)
	for ri := 0; ri < sy.No; ri++ {
		rw := &pw.Rs[ri]
		rw.Ri = ri
		for si := 0; si < sy.Ne; si++ {
			if !sy.IsCon(ri, si) {
				continue
			}
			rw.Si = append(rw.Si, si)
			rw.Wt = append(rw.Wt, sy.Wt.Values[ri*sy.Ne+si])
		}
		rw.N = len(rw.Si)
	}
	return pw
}

// SetWts sets the weights from weights.Prjn decoded values.
// Values for unconnected weights or out of range indexes are errors.
// The caller must clip the weights with ClipWts.
func (sy *Synapse) SetWts(pw *weights.Prjn) error {
	var err error
	for i := range pw.Rs {
		pr := &pw.Rs[i]
		if pr.Ri < 0 || pr.Ri >= sy.No {
			err = fmt.Errorf("%w: synapse %s recv index %d out of range", ErrShape, sy.Name(), pr.Ri)
			continue
		}
		for j, si := range pr.Si {
			if si < 0 || si >= sy.Ne || j >= len(pr.Wt) {
				err = fmt.Errorf("%w: synapse %s send index %d out of range", ErrShape, sy.Name(), si)
				continue
			}
			if !sy.IsCon(pr.Ri, si) {
				err = fmt.Errorf("%w: synapse %s has no connection from %d to %d", ErrConnectivity, sy.Name(), si, pr.Ri)
				continue
			}
			sy.Wt.Values[pr.Ri*sy.Ne+si] = pr.Wt[j]
		}
	}
	return err
}

// WtsPrjn returns the recurrent weights of the layer as a projection from itself
func (ly *RecLayer) WtsPrjn() weights.Prjn {
	n := ly.N
	pw := weights.Prjn{From: ly.Nm, MetaData: map[string]string{"Kind": RecurrentKind}}
	pw.Rs = make([]weights.Recv, n)
	for ri := 0; ri < n; ri++ {
		rw := &pw.Rs[ri]
		rw.Ri = ri
		rw.N = n
		rw.Si = make([]int, n)
		rw.Wt = make([]float32, n)
		for si := 0; si < n; si++ {
			rw.Si[si] = si
			rw.Wt[si] = ly.Wrec.Values[ri*n+si]
		}
	}
	return pw
}

// SetWts sets the recurrent weights from weights.Prjn decoded values
func (ly *RecLayer) SetWts(pw *weights.Prjn) error {
	n := ly.N
	for i := range pw.Rs {
		pr := &pw.Rs[i]
		if pr.Ri < 0 || pr.Ri >= n {
			return fmt.Errorf("%w: recurrent layer %s recv index %d out of range", ErrShape, ly.Nm, pr.Ri)
		}
		for j, si := range pr.Si {
			if si < 0 || si >= n || j >= len(pr.Wt) {
				return fmt.Errorf("%w: recurrent layer %s send index %d out of range", ErrShape, ly.Nm, si)
			}
			ly.Wrec.Values[pr.Ri*n+si] = pr.Wt[j]
		}
	}
	return nil
}

// Weights returns all the learnable and fixed weights of the network, per
// receiving layer, with synapses in insertion order followed by the recurrent
// weights of RecLayers.
func (nt *Network) Weights() *weights.Network {
	nw := &weights.Network{Network: nt.Nm}
	if len(nt.MetaData) > 0 {
		nw.MetaData = make(map[string]string, len(nt.MetaData))
		for k, v := range nt.MetaData {
			nw.MetaData[k] = v
		}
	}
	for li, ly := range nt.Layers {
		idxs := nt.RecvSyns[li]
		rl, isRec := ly.(*RecLayer)
		if len(idxs) == 0 && !isRec {
			continue
		}
		lw := weights.Layer{Layer: ly.Name()}
		for _, si := range idxs {
			lw.Prjns = append(lw.Prjns, nt.Syns[si].AsSyn().WtsPrjn())
		}
		if isRec {
			lw.Prjns = append(lw.Prjns, rl.WtsPrjn())
		}
		nw.Layers = append(nw.Layers, lw)
	}
	return nw
}

// SetWts sets the weights for this network from weights.Network decoded values.
// The synapses into each layer are matched in order, and must come from the
// same pre layers.  Weights of plastic synapses are clipped to their bounds.
func (nt *Network) SetWts(nw *weights.Network) error {
	var err error
	if nw.MetaData != nil {
		if nt.MetaData == nil {
			nt.MetaData = make(map[string]string, len(nw.MetaData))
		}
		for mk, mv := range nw.MetaData {
			nt.MetaData[mk] = mv
		}
	}
	for li := range nw.Layers {
		lw := &nw.Layers[li]
		ly, er := nt.LayerByNameTry(lw.Layer)
		if er != nil {
			err = er
			continue
		}
		syns := nt.SynsTo(lw.Layer)
		si := 0
		for pi := range lw.Prjns {
			pw := &lw.Prjns[pi]
			if pw.MetaData["Kind"] == RecurrentKind {
				rl, ok := ly.(*RecLayer)
				if !ok {
					err = fmt.Errorf("%w: layer %s has no recurrent weights", ErrTopology, lw.Layer)
					continue
				}
				if er := rl.SetWts(pw); er != nil {
					err = er
				}
				continue
			}
			if si >= len(syns) {
				err = fmt.Errorf("%w: layer %s has %d synapses, weights have more", ErrTopology, lw.Layer, len(syns))
				break
			}
			sy := syns[si]
			si++
			if sy.AsSyn().Send != pw.From {
				err = fmt.Errorf("%w: synapse %d into layer %s is from %s, weights are from %s", ErrTopology, si-1, lw.Layer, sy.AsSyn().Send, pw.From)
				continue
			}
			if er := sy.AsSyn().SetWts(pw); er != nil {
				err = er
			}
			sy.ClipWts()
		}
	}
	if err != nil {
		log.Println(err)
	}
	return err
}

// WriteWtsJSON writes the network weights in the emergent JSON weights format
func (nt *Network) WriteWtsJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(nt.Weights())
}

// ReadWtsJSON reads network weights in the emergent JSON weights format
// and sets them with SetWts
func (nt *Network) ReadWtsJSON(r io.Reader) error {
	nw, err := weights.NetReadJSON(r)
	if err != nil {
		return err // note: already logged
	}
	return nt.SetWts(nw)
}
