// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package snn simulates spiking neural networks in discrete time: layers of
leaky integrate-and-fire neurons connected by synapses, optionally learning
online by local plasticity rules.

Layers (SpikingLayer):

	* Layer: plain LIF neurons, see package lif for the dynamics
	* RecLayer: LIF neurons with a fixed lateral weight matrix driven by their own previous-tick spikes
	* InputLayer: an external source whose output is the vector injected for it on each tick

Synapses (SpikingSyn) map the spikes of a pre layer to input current for a post layer:

	* Synapse: fixed all-to-all (StaticSyn) or diagonal (OneToOneSyn) weights
	* PlasticSynapse: STDP on exponential pre and post traces (see package trace)
	* TernarySynapse: a third, modulatory input, learning by ModSTDP or MSE

All synapses share a connection mask built from an emergent prjn.Pattern, an
optional Transform of the weighted sum, an optional low-pass input Filter, and
a sign class (Hybrid, Exc, Inh).

The Network steps every layer once per tick.  Every layer first snapshots its
spikes into PrvSpike, and synapses from neuron layers read PrvSpike, so the
result does not depend on the order that layers were added in.  Plastic synapses
then integrate their traces from the spikes just produced, and update their
weights if learning is on.

The topology is frozen by Build, which the first Cycle calls implicitly.
All errors wrap one of ErrTopology, ErrShape, ErrConnectivity or ErrParam.

Parameters are set by emergent params.Sheet styles, with "Layer" and "Synapse"
type selectors, e.g.:

	{Sel: "Layer", Params: params.Params{"Layer.LIF.Tau": "5"}},
	{Sel: ".Exc", Params: params.Params{"Synapse.Learn.Wlim": "0.5"}},
*/
package snn
