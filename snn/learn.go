// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/emer/etable/minmax"
)

// LearnParams are the plasticity parameters of a synapse
type LearnParams struct {
	Learn    bool       `def:"true" desc:"enable weight changes for this synapse -- traces still integrate when off"`
	Rule     Rules      `inactive:"+" desc:"plasticity rule, set by the synapse constructor"`
	Ap       float32    `viewif:"Rule!=MSE" def:"0.1" desc:"potentiation rate: weight increase for a post spike following pre activity in the pre trace.  Negative values invert the learning window"`
	An       float32    `viewif:"Rule!=MSE" def:"0.1" desc:"depression rate: weight decrease for a pre spike following post activity in the post trace.  Negative values invert the learning window"`
	Lrate    float32    `viewif:"Rule=MSE" def:"0.01" desc:"learning rate of the MSE rule"`
	Mode     MSEModes   `viewif:"Rule=MSE" desc:"whether the MSE error is computed on the post trace or on the post spikes"`
	Wlim     float32    `def:"1" min:"0" desc:"weight bound: weights are clipped to [-Wlim, Wlim], or [0, Wlim] for Exc and Inh synapses"`
	TraceLim float32    `def:"10" min:"0" desc:"trace bound: traces are clipped to [-TraceLim, TraceLim]"`
	WtRange  minmax.F32 `view:"-" json:"-" xml:"-" desc:"weight range, computed from Wlim and the synapse type"`
	TrRange  minmax.F32 `view:"-" json:"-" xml:"-" desc:"trace range, computed from TraceLim"`
}

func (lp *LearnParams) Defaults() {
	lp.Learn = true
	lp.Ap = 0.1
	lp.An = 0.1
	lp.Lrate = 0.01
	lp.Mode = TraceMode
	lp.Wlim = 1
	lp.TraceLim = 10
	lp.Update()
}

// Update computes the ranges for a Hybrid synapse, see SetSign
func (lp *LearnParams) Update() {
	lp.TrRange.Set(-lp.TraceLim, lp.TraceLim)
	lp.WtRange.Set(-lp.Wlim, lp.Wlim)
}

// SetSign sets the lower weight bound for the sign class of the synapse
func (lp *LearnParams) SetSign(typ SynTypes) {
	if typ == Hybrid {
		lp.WtRange.Min = -lp.Wlim
	} else {
		lp.WtRange.Min = 0
	}
}

// DWtSTDP computes the STDP weight change for post neuron ri:
// Ap * xo_i * Te_j - An * To_i * xe_j.  dwt, te and xe have Ne elements.
func (lp *LearnParams) DWtSTDP(dwt, te, xe []float32, xo, to float32) {
	ltp := lp.Ap * xo
	ltd := lp.An * to
	for si := range dwt {
		dwt[si] = ltp*te[si] - ltd*xe[si]
	}
}

// DWtMSE computes the MSE weight change for post neuron ri: Lrate * err_i * Te_j
// where err_i = targ - to in TraceMode and targ - xo in SpikeMode.
func (lp *LearnParams) DWtMSE(dwt, te []float32, targ, xo, to float32) {
	var err float32
	if lp.Mode == SpikeMode {
		err = targ - xo
	} else {
		err = targ - to
	}
	lr := lp.Lrate * err
	for si := range dwt {
		dwt[si] = lr * te[si]
	}
}
