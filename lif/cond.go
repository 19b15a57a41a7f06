// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"github.com/chewxy/math32"
	"github.com/emer/snn/chans"
)

// CondParams are the parameters of a conductance-based integrate-and-fire neuron.
// Excitatory and inhibitory inputs open channels instead of injecting current:
// each tick the membrane relaxes toward the conductance-weighted mean reversal
// potential E at a rate set by the total conductance g:
//
//	Vm(t+1) = a * Vm(t) + (1 - a) * E,  a = exp(-Dt * g)
//
// With the default channels g = 1 + ge + gi and E = ge / g.
type CondParams struct {
	Dt      float32     `def:"0.1" min:"0" desc:"integration rate per tick per unit of total conductance"`
	Thr     float32     `def:"0.5" desc:"spiking threshold: a spike is emitted when Vm >= Thr"`
	V0      float32     `def:"0" desc:"reset potential that Vm is set to right after a spike"`
	VInit   float32     `def:"0" desc:"initial membrane potential, set by InitActs"`
	Refract bool        `def:"false" desc:"one-tick refractory period: a neuron that spiked on the previous tick is held at V0 and cannot spike"`
	Gbar    chans.Chans `view:"inline" desc:"[Defaults: 1, 1, 1] maximal conductances scaling the excitatory and inhibitory inputs, and the constant leak"`
	Erev    chans.Chans `view:"inline" desc:"[Defaults: 1, 0, 0] reversal potentials for each channel"`
}

func (cp *CondParams) Defaults() {
	cp.Dt = 0.1
	cp.Thr = 0.5
	cp.V0 = 0
	cp.VInit = 0
	cp.Refract = false
	cp.Gbar.SetAll(1, 1, 1)
	cp.Erev.SetAll(1, 0, 0)
}

func (cp *CondParams) Update() {
}

// Integ returns the membrane potential after one tick of the given
// excitatory and inhibitory conductances
func (cp *CondParams) Integ(vm, ge, gi float32) float32 {
	g, e := cp.Gbar.Drive(&cp.Erev, ge, gi)
	if g == 0 {
		return vm
	}
	a := math32.Exp(-cp.Dt * g)
	return vm*a + e*(1-a)
}

// VmFmG advances one neuron by one tick given its previous-tick spike
// and input conductances, updating vm and spike in place.
func (cp *CondParams) VmFmG(vm, spike *float32, prvSpike, ge, gi float32) {
	if cp.Refract && prvSpike > 0 {
		*vm = cp.V0
		*spike = 0
		return
	}
	nwVm := cp.Integ(*vm, ge, gi)
	*spike = 0
	if nwVm >= cp.Thr {
		*spike = 1
		nwVm = cp.V0
	}
	*vm = nwVm
}
