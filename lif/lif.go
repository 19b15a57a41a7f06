// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides the discrete-time leaky integrate-and-fire (LIF) point neuron.

The membrane potential decays toward zero with time constant Tau (in ticks) and
integrates the input current with the complementary gain, so a constant input I
drives Vm asymptotically to I:

	Vm(t+1) = Decay * Vm(t) + Gain * I(t),  Decay = exp(-1/Tau), Gain = 1 - Decay

A neuron spikes (hard Heaviside step) when Vm meets or exceeds Thr, after which
Vm is set to the reset potential V0.  With Refract on, a neuron that spiked on the
previous tick neither integrates nor spikes on the current one.
*/
package lif

import "github.com/chewxy/math32"

// Params are the leaky integrate-and-fire parameters for a layer of neurons.
type Params struct {
	Tau     float32 `def:"10" min:"0" desc:"membrane time constant in ticks -- the potential decays by exp(-1/Tau) each tick"`
	Thr     float32 `def:"1" desc:"spiking threshold: a spike is emitted when Vm >= Thr"`
	V0      float32 `def:"0" desc:"reset potential that Vm is set to right after a spike"`
	VInit   float32 `def:"0" desc:"initial membrane potential, set by InitActs"`
	Refract bool    `def:"false" desc:"one-tick refractory period: a neuron that spiked on the previous tick is held at V0 and cannot spike"`

	Decay float32 `view:"-" json:"-" xml:"-" desc:"exp(-1/Tau) -- multiplicative leak per tick"`
	Gain  float32 `view:"-" json:"-" xml:"-" desc:"1 - Decay -- gain on input current"`
}

func (lp *Params) Defaults() {
	lp.Tau = 10
	lp.Thr = 1
	lp.V0 = 0
	lp.VInit = 0
	lp.Refract = false
	lp.Update()
}

// Update must be called after any changes to parameters
func (lp *Params) Update() {
	lp.Decay = math32.Exp(-1 / lp.Tau)
	lp.Gain = 1 - lp.Decay
}

// Integ returns the leaky-integrated membrane potential for one tick
func (lp *Params) Integ(vm, inet float32) float32 {
	return lp.Decay*vm + lp.Gain*inet
}

// IsRefract returns true if a neuron with given previous-tick spike is refractory
func (lp *Params) IsRefract(prvSpike float32) bool {
	return lp.Refract && prvSpike > 0
}

// SpikeFmVm is the hard threshold nonlinearity: 1 if vm >= Thr, else 0
func (lp *Params) SpikeFmVm(vm float32) float32 {
	if vm >= lp.Thr {
		return 1
	}
	return 0
}

// VmFmInet advances one neuron by one tick given its previous-tick spike
// and total input current, updating vm and spike in place.
func (lp *Params) VmFmInet(vm, spike *float32, prvSpike, inet float32) {
	if lp.IsRefract(prvSpike) {
		*vm = lp.V0
		*spike = 0
		return
	}
	nwVm := lp.Integ(*vm, inet)
	*spike = lp.SpikeFmVm(nwVm)
	if *spike > 0 {
		nwVm = lp.V0
	}
	*vm = nwVm
}

// ISI returns the number of ticks a neuron starting from V0 takes to reach
// threshold under constant input current inet, iterating the same update used
// by VmFmInet.  Returns -1 if threshold is not reached within maxN ticks.
// For refractory neurons the inter-spike interval is ISI + 1.
func (lp *Params) ISI(inet float32, maxN int) int {
	vm := lp.V0
	for n := 1; n <= maxN; n++ {
		vm = lp.Integ(vm, inet)
		if vm >= lp.Thr {
			return n
		}
	}
	return -1
}
