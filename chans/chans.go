// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the conductance channels of a point neuron
based on the equivalent RC circuit model (i.e., basic Ohms law equations).
Includes excitatory, leak and inhibition channels.
*/
package chans

// Chans are ion channels used in computing point-neuron activation function
type Chans struct {
	E float32 `desc:"excitatory sodium (Na) AMPA channels activated by synaptic glutamate"`
	L float32 `desc:"constant leak (potassium, K+) channels -- determines resting potential"`
	I float32 `desc:"inhibitory chloride (Cl-) channels activated by synaptic GABA"`
}

// SetAll sets all the values
func (ch *Chans) SetAll(e, l, i float32) {
	ch.E, ch.L, ch.I = e, l, i
}

// Drive returns the total conductance g of the channels, with ch as the
// maximal conductances and the leak always fully open, given the excitatory
// ge and inhibitory gi input conductances.  e is the conductance-weighted
// mean of the erev reversal potentials, which the membrane relaxes toward.
// Negative inputs are treated as 0.  If g is 0, e is 0.
func (ch *Chans) Drive(erev *Chans, ge, gi float32) (g, e float32) {
	if ge < 0 {
		ge = 0
	}
	if gi < 0 {
		gi = 0
	}
	gE := ch.E * ge
	gI := ch.I * gi
	g = gE + ch.L + gI
	if g <= 0 {
		return 0, 0
	}
	e = (gE*erev.E + ch.L*erev.L + gI*erev.I) / g
	return g, e
}
