// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"

	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/trace"
)

// PlasticSynapse is a synapse that learns by spike-timing dependent plasticity,
// from exponential traces of its pre input (Te) and post spikes (To).
type PlasticSynapse struct {
	Synapse
	Learn LearnParams  `view:"add-fields" desc:"plasticity parameters"`
	Pre   trace.Params `view:"inline" desc:"pre trace parameters"`
	Post  trace.Params `view:"inline" desc:"post trace parameters"`

	Te  []float32 `desc:"pre traces, Ne elements"`
	To  []float32 `desc:"post traces, No elements"`
	DWt []float32 `desc:"weight change of the last Update, row-major (No, Ne)"`
}

var _ SpikingSyn = (*PlasticSynapse)(nil)
var _ Learner = (*PlasticSynapse)(nil)

// NewSTDPSynapse returns an all-to-all STDP synapse from ne to no neurons.
// w0 must have shape (no, ne) and is copied.
func NewSTDPSynapse(ne, no int, w0 *etensor.Float32) (*PlasticSynapse, error) {
	sy := &PlasticSynapse{}
	if err := sy.Config(PlasticSyn, ne, no, w0, prjn.NewFull()); err != nil {
		return nil, err
	}
	return sy, nil
}

// NewPlasticOneToOne returns an STDP synapse connecting neuron i of the pre layer
// to neuron i of the post layer only.  Off-diagonal weights stay at 0.
func NewPlasticOneToOne(ne, no int, w0 *etensor.Float32) (*PlasticSynapse, error) {
	if err := CheckOneToOne(ne, no); err != nil {
		return nil, err
	}
	sy := &PlasticSynapse{}
	if err := sy.Config(PlasticSyn, ne, no, w0, prjn.NewOneToOne()); err != nil {
		return nil, err
	}
	return sy, nil
}

// Config configures the synapse with default learning and trace parameters
func (sy *PlasticSynapse) Config(kind SynKinds, ne, no int, w0 *etensor.Float32, pat prjn.Pattern) error {
	if err := sy.Synapse.Config(kind, ne, no, w0, pat); err != nil {
		return err
	}
	sy.Learn.Defaults()
	sy.Learn.Rule = STDP
	sy.Pre.Defaults()
	sy.Post.Defaults()
	sy.Te = make([]float32, ne)
	sy.To = make([]float32, no)
	sy.DWt = make([]float32, no*ne)
	sy.UpdateParams()
	return nil
}

// UpdateParams updates the derived ranges and clips the weights into them
func (sy *PlasticSynapse) UpdateParams() {
	sy.Synapse.UpdateParams()
	sy.Learn.Update()
	sy.Learn.SetSign(sy.Type)
	sy.Pre.Update()
	sy.Post.Update()
	sy.ClipWts()
}

// ClipWts clips all connected weights to the weight range
func (sy *PlasticSynapse) ClipWts() {
	for i, w := range sy.Wt.Values {
		if !sy.Cons.Value1D(i) {
			continue
		}
		sy.Wt.Values[i] = sy.Learn.WtRange.ClipVal(w)
	}
}

// Reset clears the traces and filter state.  Weights are unchanged.
func (sy *PlasticSynapse) Reset() {
	sy.Synapse.Reset()
	for i := range sy.Te {
		sy.Te[i] = 0
	}
	for i := range sy.To {
		sy.To[i] = 0
	}
	sy.zeroDWt()
}

func (sy *PlasticSynapse) zeroDWt() {
	for i := range sy.DWt {
		sy.DWt[i] = 0
	}
}

// Update integrates the pre traces from the last Forward input and the post
// traces from xo, then applies the STDP weight change if learn is true.
// Traces are always integrated, so that learning can be turned on with warm traces.
func (sy *PlasticSynapse) Update(xo []float32, learn bool) error {
	if err := sy.CheckPost(xo); err != nil {
		return err
	}
	if sy.Learn.Rule.Modulated() {
		return fmt.Errorf("%w: synapse %s rule %v needs a modulatory input", ErrConnectivity, sy.Name(), sy.Learn.Rule)
	}
	sy.TracesFmSpikes(xo)
	if !learn || !sy.Learn.Learn {
		sy.zeroDWt()
		return nil
	}
	sy.DWtSTDP(xo)
	sy.WtFmDWt()
	return nil
}

// TracesFmSpikes integrates Te from Xe and To from xo
func (sy *PlasticSynapse) TracesFmSpikes(xo []float32) {
	sy.Pre.FmInput(sy.Te, sy.Xe, sy.Learn.TrRange)
	sy.Post.FmInput(sy.To, xo, sy.Learn.TrRange)
}

// DWtSTDP computes the STDP weight changes into DWt
func (sy *PlasticSynapse) DWtSTDP(xo []float32) {
	ne := sy.Ne
	for ri := 0; ri < sy.No; ri++ {
		sy.Learn.DWtSTDP(sy.DWt[ri*ne:(ri+1)*ne], sy.Te, sy.Xe, xo[ri], sy.To[ri])
	}
}

// WtFmDWt adds DWt to the connected weights and clips them to the weight range.
// DWt of unconnected weights is zeroed.
func (sy *PlasticSynapse) WtFmDWt() {
	for i, dw := range sy.DWt {
		if !sy.Cons.Value1D(i) {
			sy.DWt[i] = 0
			continue
		}
		sy.Wt.Values[i] = sy.Learn.WtRange.ClipVal(sy.Wt.Values[i] + dw)
	}
}

// AsPlastic returns this synapse as a PlasticSynapse
func (sy *PlasticSynapse) AsPlastic() *PlasticSynapse { return sy }
