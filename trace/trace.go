// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package trace provides exponentially decaying eligibility traces of spike
trains, and a low-pass filter with optional one-tick delay for synaptic inputs.

A trace integrates its input each tick as

	T(t+1) = Decay * T(t) + Gain * x(t)

and is then clipped to a symmetric limit range.
*/
package trace

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/minmax"
)

// Params are the trace integration parameters for one population of neurons.
type Params struct {
	Decay float32 `def:"0.5" min:"0" max:"1" desc:"multiplicative decay of the trace per tick"`
	Gain  float32 `def:"0.5" min:"0" desc:"increment of the trace per unit of input"`
}

func (tp *Params) Defaults() {
	tp.Decay = 0.5
	tp.Gain = 0.5
}

func (tp *Params) Update() {
}

// SetTau sets Decay = exp(-1/tau), with Gain = 1 - Decay, so that a constant
// input x drives the trace toward x with time constant tau ticks.
func (tp *Params) SetTau(tau float32) {
	tp.Decay = math32.Exp(-1 / tau)
	tp.Gain = 1 - tp.Decay
}

// Integ returns the trace value integrated for one tick of input x
func (tp *Params) Integ(tr, x float32) float32 {
	return tp.Decay*tr + tp.Gain*x
}

// FmInput integrates the traces tr in place from the inputs x, clipping
// each to rng.  tr and x must have the same length.
func (tp *Params) FmInput(tr, x []float32, rng minmax.F32) {
	for i, xv := range x {
		tr[i] = rng.ClipVal(tp.Integ(tr[i], xv))
	}
}
