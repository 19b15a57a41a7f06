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

// TernarySynapse is a plastic synapse with a third, modulatory input of Nm == No
// neurons.  Under ModSTDP the modulatory trace scales the STDP weight change of
// each post neuron, and under MSE the modulatory input is the target that the
// post trace (or spikes) are driven toward.
type TernarySynapse struct {
	PlasticSynapse
	Nm    int          `inactive:"+" desc:"number of modulatory neurons, equal to No"`
	ModTr trace.Params `view:"inline" desc:"modulatory trace parameters"`
	Gate  bool         `desc:"multiply the current delivered to post neuron i by the modulatory input xm_i"`

	Tm []float32 `desc:"modulatory traces, Nm elements"`
	Xm []float32 `desc:"modulatory input of the last Forward"`
}

var _ SpikingSyn = (*TernarySynapse)(nil)
var _ Learner = (*TernarySynapse)(nil)

// NewModSTDPSynapse returns an all-to-all synapse learning by neuromodulated STDP
func NewModSTDPSynapse(ne, no, nm int, w0 *etensor.Float32) (*TernarySynapse, error) {
	return NewTernarySynapse(ModSTDP, ne, no, nm, w0)
}

// NewMSESynapse returns an all-to-all synapse learning toward the target
// given on its modulatory input
func NewMSESynapse(ne, no, nm int, w0 *etensor.Float32) (*TernarySynapse, error) {
	return NewTernarySynapse(MSE, ne, no, nm, w0)
}

// NewTernarySynapse returns an all-to-all ternary synapse with given rule.
// nm must equal no.  w0 must have shape (no, ne) and is copied.
func NewTernarySynapse(rule Rules, ne, no, nm int, w0 *etensor.Float32) (*TernarySynapse, error) {
	if nm <= 0 || nm != no {
		return nil, fmt.Errorf("%w: modulatory size %d must equal post size %d", ErrConnectivity, nm, no)
	}
	kind := TernarySyn
	if rule == MSE {
		kind = MSESyn
	}
	sy := &TernarySynapse{}
	sy.Nm = nm
	sy.ModTr.Defaults()
	sy.Tm = make([]float32, nm)
	sy.Xm = make([]float32, nm)
	if err := sy.Config(kind, ne, no, w0, prjn.NewFull()); err != nil {
		return nil, err
	}
	sy.Learn.Rule = rule
	return sy, nil
}

func (sy *TernarySynapse) NMod() int { return sy.Nm }

// UpdateParams updates the derived ranges and clips the weights into them
func (sy *TernarySynapse) UpdateParams() {
	sy.PlasticSynapse.UpdateParams()
	sy.ModTr.Update()
}

// Reset clears all traces and filter state.  Weights are unchanged.
func (sy *TernarySynapse) Reset() {
	sy.PlasticSynapse.Reset()
	for i := range sy.Tm {
		sy.Tm[i] = 0
		sy.Xm[i] = 0
	}
}

// CheckMod returns a Shape error unless xm has Nm elements
func (sy *TernarySynapse) CheckMod(xm []float32) error {
	if len(xm) != sy.Nm {
		return fmt.Errorf("%w: synapse %s modulatory input has length %d, want %d", ErrShape, sy.Name(), len(xm), sy.Nm)
	}
	return nil
}

// Forward returns the current delivered to the post layer, recording xm
// for learning.  With Gate on, output i is multiplied by xm_i.
func (sy *TernarySynapse) Forward(xe, xm []float32) ([]float32, error) {
	if err := sy.CheckPre(xe); err != nil {
		return nil, err
	}
	if err := sy.CheckMod(xm); err != nil {
		return nil, err
	}
	copy(sy.Xm, xm)
	sy.SendFmPre(xe)
	if sy.Gate {
		for i, m := range sy.Xm {
			sy.Out[i] *= m
		}
	}
	return sy.Out, nil
}

// Update integrates all three traces and applies the weight change of the
// rule if learn is true.  An unknown rule is a Param error, with the
// weights unchanged.
func (sy *TernarySynapse) Update(xo []float32, learn bool) error {
	if err := sy.CheckPost(xo); err != nil {
		return err
	}
	sy.TracesFmSpikes(xo)
	sy.ModTr.FmInput(sy.Tm, sy.Xm, sy.Learn.TrRange)
	if !learn || !sy.Learn.Learn {
		sy.zeroDWt()
		return nil
	}
	ne := sy.Ne
	switch sy.Learn.Rule {
	case STDP:
		sy.DWtSTDP(xo)
	case ModSTDP:
		sy.DWtSTDP(xo)
		for ri, tm := range sy.Tm {
			row := sy.DWt[ri*ne : (ri+1)*ne]
			for si := range row {
				row[si] *= tm
			}
		}
	case MSE:
		for ri := 0; ri < sy.No; ri++ {
			sy.Learn.DWtMSE(sy.DWt[ri*ne:(ri+1)*ne], sy.Te, sy.Xm[ri], xo[ri], sy.To[ri])
		}
	default:
		sy.zeroDWt()
		return fmt.Errorf("%w: synapse %s has unknown learning rule %v", ErrParam, sy.Name(), sy.Learn.Rule)
	}
	sy.WtFmDWt()
	return nil
}
