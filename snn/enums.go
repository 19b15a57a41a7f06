// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import "github.com/goki/ki/kit"

// LayerTypes are the closed set of layer variants in a Network
type LayerTypes int32

//go:generate stringer -type=LayerTypes

var KiT_LayerTypes = kit.Enums.AddEnum(LayerTypesN, kit.NotBitFlag, nil)

func (ev LayerTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *LayerTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// LIF is a plain layer of leaky integrate-and-fire neurons
	LIF LayerTypes = iota

	// Recurrent is a LIF layer with a fixed lateral weight matrix
	// driven by its own previous-tick spikes
	Recurrent

	// Input is an external source whose output is the vector injected on each tick
	Input

	// Conductance is a layer of conductance-based integrate-and-fire neurons:
	// excitatory and inhibitory synapses are summed into separate conductances
	Conductance

	LayerTypesN
)

// SynKinds are the closed set of synapse variants
type SynKinds int32

//go:generate stringer -type=SynKinds

var KiT_SynKinds = kit.Enums.AddEnum(SynKindsN, kit.NotBitFlag, nil)

func (ev SynKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SynKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// StaticSyn is a fixed all-to-all weight matrix
	StaticSyn SynKinds = iota

	// OneToOneSyn is a fixed diagonal weight matrix between equal-sized layers
	OneToOneSyn

	// PlasticSyn learns by spike-timing dependent plasticity from its
	// pre and post traces
	PlasticSyn

	// MSESyn is a ternary synapse learning toward a target given on its
	// modulatory input
	MSESyn

	// TernarySyn is a ternary synapse with neuromodulated STDP
	TernarySyn

	SynKindsN
)

// SynTypes are the sign classes of a synapse, determining the sign of
// the delivered current and the bounds on its weights
type SynTypes int32

//go:generate stringer -type=SynTypes

var KiT_SynTypes = kit.Enums.AddEnum(SynTypesN, kit.NotBitFlag, nil)

func (ev SynTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SynTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Hybrid weights may take either sign, bounded to [-Wlim, Wlim]
	Hybrid SynTypes = iota

	// Exc weights are bounded to [0, Wlim] and deliver positive current
	Exc

	// Inh weights are bounded to [0, Wlim] and deliver negative current
	Inh

	SynTypesN
)

// Rules are the plasticity rules
type Rules int32

//go:generate stringer -type=Rules

var KiT_Rules = kit.Enums.AddEnum(RulesN, kit.NotBitFlag, nil)

func (ev Rules) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Rules) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// STDP is pair-based spike-timing dependent plasticity:
	// dW_ij = Ap * xo_i * Te_j - An * To_i * xe_j
	STDP Rules = iota

	// ModSTDP is STDP with each row i of the weight change scaled by the
	// modulatory trace Tm_i
	ModSTDP

	// MSE moves the post trace toward the modulatory target:
	// dW_ij = Lrate * err_i * Te_j
	MSE

	RulesN
)

// Modulated returns true if the rule requires a modulatory input
func (ev Rules) Modulated() bool {
	return ev != STDP
}

// MSEModes determine which post-synaptic signal the MSE error is computed on
type MSEModes int32

//go:generate stringer -type=MSEModes

var KiT_MSEModes = kit.Enums.AddEnum(MSEModesN, kit.NotBitFlag, nil)

func (ev MSEModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *MSEModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// TraceMode computes err = target - To, on the smoothed post trace
	TraceMode MSEModes = iota

	// SpikeMode computes err = target - xo, on the thresholded post spikes
	SpikeMode

	MSEModesN
)
