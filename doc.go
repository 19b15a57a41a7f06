// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package snn is the overall repository for a spiking neural network engine:
layers of leaky integrate-and-fire neurons connected by synapses, stepped in
discrete ticks, with online learning by local plasticity rules.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* lif: the leaky integrate-and-fire neuron parameters and single-neuron update,
and the conductance-based variant.

* chans: the excitatory, leak and inhibitory channels of the conductance-based neuron.

* trace: eligibility traces of spike trains, and the low-pass input filter.

* snn: the layers, the synapse family (static, one-to-one, STDP, modulated STDP,
MSE), and the Network that wires them together and runs them tick by tick.

* netconfig: builds networks from declarative YAML topology files.

* cmd/snnrun: a command-line tool that validates, reports on, and runs
networks from topology files, with weights saved and loaded as JSON.

* examples: these actually compile into runnable programs and provide the starting
point for your own simulations.  examples/stdp measures the STDP learning window,
and examples/recurrent is the place to start for a network defined in YAML.
*/
package snn
