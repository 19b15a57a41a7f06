// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"io"

	"github.com/emer/emergent/params"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/lif"
	"github.com/goki/ki/indent"
)

// SpikingLayer is the interface implemented by every layer variant in a Network.
// All variants embed a *Layer, accessed through AsSNN.
type SpikingLayer interface {
	params.Styler

	// AsSNN returns this layer as a snn.Layer, for access to the common state
	AsSNN() *Layer

	// LayerType returns the variant tag of the layer
	LayerType() LayerTypes

	// UpdateParams updates all derived parameters after changes
	UpdateParams()

	// CheckParams returns a Param error for parameters that cannot be run
	CheckParams() error

	// InitActs resets the neuron state to its initial values
	InitActs()

	// InitCycle snapshots the current spikes as the previous-tick spikes
	InitCycle()

	// Cycle advances the layer one tick with given total input current,
	// without taking a snapshot first
	Cycle(inet []float32) error

	// Step is InitCycle followed by Cycle
	Step(inet []float32) error

	// SendSpikes returns the vector that synapses from this layer read:
	// the previous-tick spikes for neuron layers, or the current
	// injected vector for inputs.
	SendSpikes() []float32
}

// snn.Layer is a layer of leaky integrate-and-fire neurons.
// It is the base for all layer variants in this package.
type Layer struct {
	Nm    string        `desc:"Name of the layer -- must be unique within the network, and is set when added"`
	Cls   string        `desc:"Class is for applying parameter styles, can be space separated multple tags"`
	Typ   LayerTypes    `desc:"variant of the layer"`
	Idx   int           `view:"-" inactive:"-" desc:"index of this layer in the network's layers list"`
	N     int           `inactive:"+" desc:"number of neurons -- fixed at construction"`
	Shp   etensor.Shape `view:"-" desc:"1D shape of the layer, N neurons"`
	LIF   lif.Params    `view:"add-fields" desc:"leaky integrate-and-fire parameters"`

	Vm       []float32 `desc:"membrane potential"`
	Spike    []float32 `desc:"spike output on the current tick: exactly 0 or 1"`
	PrvSpike []float32 `desc:"spike output of the previous tick, snapshot at the start of each tick"`
	Inet     []float32 `desc:"total input current received on the last tick"`
	Ext      []float32 `desc:"external current injected on the last tick"`
}

var _ SpikingLayer = (*Layer)(nil)

// NewLayer returns a new LIF layer of n neurons with given membrane time constant
// in ticks, reset potential v0 and refractoriness.
func NewLayer(n int, tau, v0 float32, refract bool) (*Layer, error) {
	ly := &Layer{}
	if err := ly.Config(n, tau, v0, refract); err != nil {
		return nil, err
	}
	return ly, nil
}

// Config allocates the state for n neurons and sets the LIF parameters
func (ly *Layer) Config(n int, tau, v0 float32, refract bool) error {
	if n <= 0 {
		return fmt.Errorf("%w: layer size must be > 0, got %d", ErrShape, n)
	}
	if tau <= 0 {
		return fmt.Errorf("%w: layer time constant must be > 0, got %g", ErrParam, tau)
	}
	ly.Typ = LIF
	ly.N = n
	ly.Shp.SetShape([]int{n}, nil, []string{"N"})
	ly.LIF.Defaults()
	ly.LIF.Tau = tau
	ly.LIF.V0 = v0
	ly.LIF.Refract = refract
	ly.LIF.Update()
	ly.Vm = make([]float32, n)
	ly.Spike = make([]float32, n)
	ly.PrvSpike = make([]float32, n)
	ly.Inet = make([]float32, n)
	ly.Ext = make([]float32, n)
	ly.InitActs()
	return nil
}

func (ly *Layer) Name() string          { return ly.Nm }
func (ly *Layer) Label() string         { return ly.Nm }
func (ly *Layer) Class() string         { return ly.Typ.String() + " " + ly.Cls }
func (ly *Layer) SetClass(cls string)   { ly.Cls = cls }
func (ly *Layer) TypeName() string      { return "Layer" } // type category, for params..
func (ly *Layer) AsSNN() *Layer         { return ly }
func (ly *Layer) LayerType() LayerTypes { return ly.Typ }
func (ly *Layer) Shape() *etensor.Shape { return &ly.Shp }
func (ly *Layer) SendSpikes() []float32 { return ly.PrvSpike }

// UpdateParams updates all params given any changes that might have been made to individual values
func (ly *Layer) UpdateParams() {
	ly.LIF.Update()
}

// CheckParams returns a Param error for a membrane time constant <= 0
func (ly *Layer) CheckParams() error {
	if ly.LIF.Tau <= 0 {
		return fmt.Errorf("%w: layer %s time constant must be > 0, got %g", ErrParam, ly.Nm, ly.LIF.Tau)
	}
	return nil
}

// InitActs sets Vm to VInit and clears spikes and currents
func (ly *Layer) InitActs() {
	for i := range ly.Vm {
		ly.Vm[i] = ly.LIF.VInit
		ly.Spike[i] = 0
		ly.PrvSpike[i] = 0
		ly.Inet[i] = 0
		ly.Ext[i] = 0
	}
}

// InitCycle snapshots Spike into PrvSpike
func (ly *Layer) InitCycle() {
	copy(ly.PrvSpike, ly.Spike)
}

// CheckSize returns a Shape error if vector v does not have N elements
func (ly *Layer) CheckSize(v []float32, what string) error {
	if len(v) != ly.N {
		return fmt.Errorf("%w: %s for layer %s has length %d, want %d", ErrShape, what, ly.Nm, len(v), ly.N)
	}
	return nil
}

// Cycle integrates the input current on every neuron and computes spikes
func (ly *Layer) Cycle(inet []float32) error {
	if err := ly.CheckSize(inet, "input current"); err != nil {
		return err
	}
	for i := range ly.Vm {
		ly.Inet[i] = inet[i]
		ly.LIF.VmFmInet(&ly.Vm[i], &ly.Spike[i], ly.PrvSpike[i], inet[i])
	}
	return nil
}

// Step takes the previous-tick snapshot then runs Cycle
func (ly *Layer) Step(inet []float32) error {
	if err := ly.CheckSize(inet, "input current"); err != nil {
		return err
	}
	ly.InitCycle()
	return ly.Cycle(inet)
}

// SetExt records the external current for this tick: nil clears it
func (ly *Layer) SetExt(ext []float32) {
	if ext == nil {
		for i := range ly.Ext {
			ly.Ext[i] = 0
		}
		return
	}
	copy(ly.Ext, ext)
}

// NSpikes returns the number of neurons that spiked on the current tick
func (ly *Layer) NSpikes() int {
	n := 0
	for _, s := range ly.Spike {
		if s > 0 {
			n++
		}
	}
	return n
}

// WriteStru writes a one-line structural description of the layer
func (ly *Layer) WriteStru(w io.Writer, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("Layer: %s\tType: %v\tN: %d\tTau: %g\tThr: %g\tV0: %g\tRefract: %v\n",
		ly.Nm, ly.Typ, ly.N, ly.LIF.Tau, ly.LIF.Thr, ly.LIF.V0, ly.LIF.Refract)))
}

//////////////////////////////////////////////////////////////////////////////////////
//  RecLayer

// RecLayer is a LIF layer that also receives current from its own
// previous-tick spikes through a fixed lateral weight matrix.
type RecLayer struct {
	Layer
	Wrec *etensor.Float32 `desc:"lateral weights, shape (N, N): row i receives from column j"`

	rec []float32
}

var _ SpikingLayer = (*RecLayer)(nil)

// NewRecLayer returns a new recurrent LIF layer of n neurons.
// wrec must have shape (n, n) and is copied.
func NewRecLayer(n int, tau, v0 float32, refract bool, wrec *etensor.Float32) (*RecLayer, error) {
	ly := &RecLayer{}
	if err := ly.Config(n, tau, v0, refract); err != nil {
		return nil, err
	}
	ly.Typ = Recurrent
	if err := CheckWtShape(wrec, n, n); err != nil {
		return nil, fmt.Errorf("recurrent weights: %w", err)
	}
	ly.Wrec = CloneWts(wrec)
	ly.rec = make([]float32, n)
	return ly, nil
}

// Cycle adds the recurrent current from the previous-tick spikes
// to inet and then integrates as a plain LIF layer.
func (ly *RecLayer) Cycle(inet []float32) error {
	if err := ly.CheckSize(inet, "input current"); err != nil {
		return err
	}
	MatVec(ly.Wrec, ly.PrvSpike, ly.rec)
	for i, v := range inet {
		ly.rec[i] += v
	}
	return ly.Layer.Cycle(ly.rec)
}

// Step takes the previous-tick snapshot then runs the recurrent Cycle
func (ly *RecLayer) Step(inet []float32) error {
	if err := ly.CheckSize(inet, "input current"); err != nil {
		return err
	}
	ly.InitCycle()
	return ly.Cycle(inet)
}

//////////////////////////////////////////////////////////////////////////////////////
//  CondLayer

// CondCycler is implemented by layers whose input is split into
// excitatory and inhibitory conductances.
type CondCycler interface {
	// CycleCond advances the layer one tick with given excitatory
	// and inhibitory conductances, both >= 0
	CycleCond(ge, gi []float32) error
}

// CondLayer is a layer of conductance-based integrate-and-fire neurons.
// In a Network, the output of Exc synapses and the external current are
// summed into the excitatory conductance Ge, and the magnitude of the
// output of Inh synapses into the inhibitory conductance Gi.
// Hybrid synapses cannot target a CondLayer.
type CondLayer struct {
	Layer
	Cond lif.CondParams `view:"add-fields" desc:"conductance-based integrate-and-fire parameters"`

	Ge []float32 `desc:"excitatory conductance received on the last tick"`
	Gi []float32 `desc:"inhibitory conductance received on the last tick"`

	zeros []float32
}

var _ SpikingLayer = (*CondLayer)(nil)
var _ CondCycler = (*CondLayer)(nil)

// NewCondLayer returns a new conductance-based layer of n neurons with given
// integration rate per unit conductance, and refractoriness.
func NewCondLayer(n int, dt float32, refract bool) (*CondLayer, error) {
	ly := &CondLayer{}
	// LIF params are unused, but must be valid
	if err := ly.Config(n, 1, 0, refract); err != nil {
		return nil, err
	}
	if dt <= 0 {
		return nil, fmt.Errorf("%w: conductance integration rate must be > 0, got %g", ErrParam, dt)
	}
	ly.Typ = Conductance
	ly.Cond.Defaults()
	ly.Cond.Dt = dt
	ly.Cond.Refract = refract
	ly.Ge = make([]float32, n)
	ly.Gi = make([]float32, n)
	ly.zeros = make([]float32, n)
	ly.InitActs()
	return ly, nil
}

func (ly *CondLayer) UpdateParams() {
	ly.Layer.UpdateParams()
	ly.Cond.Update()
}

// CheckParams returns a Param error for an integration rate <= 0
func (ly *CondLayer) CheckParams() error {
	if ly.Cond.Dt <= 0 {
		return fmt.Errorf("%w: layer %s integration rate must be > 0, got %g", ErrParam, ly.Nm, ly.Cond.Dt)
	}
	return ly.Layer.CheckParams()
}

// InitActs sets Vm to Cond.VInit and clears spikes and conductances
func (ly *CondLayer) InitActs() {
	ly.Layer.InitActs()
	for i := range ly.Vm {
		ly.Vm[i] = ly.Cond.VInit
	}
	for i := range ly.Ge {
		ly.Ge[i] = 0
		ly.Gi[i] = 0
	}
}

// Cycle integrates inet as excitatory conductance, with no inhibition
func (ly *CondLayer) Cycle(inet []float32) error {
	return ly.CycleCond(inet, ly.zeros)
}

// CycleCond integrates the conductances on every neuron and computes spikes.
// Inet records the net drive ge - gi.
func (ly *CondLayer) CycleCond(ge, gi []float32) error {
	if err := ly.CheckSize(ge, "excitatory conductance"); err != nil {
		return err
	}
	if err := ly.CheckSize(gi, "inhibitory conductance"); err != nil {
		return err
	}
	copy(ly.Ge, ge)
	copy(ly.Gi, gi)
	for i := range ly.Vm {
		ly.Inet[i] = ge[i] - gi[i]
		ly.Cond.VmFmG(&ly.Vm[i], &ly.Spike[i], ly.PrvSpike[i], ge[i], gi[i])
	}
	return nil
}

// WriteStru writes a one-line structural description of the layer
func (ly *CondLayer) WriteStru(w io.Writer, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("Layer: %s\tType: %v\tN: %d\tDt: %g\tThr: %g\tV0: %g\tRefract: %v\n",
		ly.Nm, ly.Typ, ly.N, ly.Cond.Dt, ly.Cond.Thr, ly.Cond.V0, ly.Cond.Refract)))
}

// Step takes the previous-tick snapshot then runs Cycle
func (ly *CondLayer) Step(inet []float32) error {
	if err := ly.CheckSize(inet, "input current"); err != nil {
		return err
	}
	ly.InitCycle()
	return ly.Cycle(inet)
}

//////////////////////////////////////////////////////////////////////////////////////
//  InputLayer

// InputLayer is an external source of N values with no dynamics: its output
// on each tick is exactly the vector injected for it, or zeros.
type InputLayer struct {
	Layer
}

var _ SpikingLayer = (*InputLayer)(nil)

// NewInputLayer returns a new input node of size n
func NewInputLayer(n int) (*InputLayer, error) {
	ly := &InputLayer{}
	if n <= 0 {
		return nil, fmt.Errorf("%w: input size must be > 0, got %d", ErrShape, n)
	}
	// LIF params are unused on inputs, but must be valid
	if err := ly.Config(n, 1, 0, false); err != nil {
		return nil, err
	}
	ly.Typ = Input
	return ly, nil
}

// SendSpikes returns the vector injected on the current tick
func (ly *InputLayer) SendSpikes() []float32 { return ly.Spike }

// Cycle sets the output to ext
func (ly *InputLayer) Cycle(ext []float32) error {
	if err := ly.CheckSize(ext, "input"); err != nil {
		return err
	}
	copy(ly.Ext, ext)
	copy(ly.Inet, ext)
	copy(ly.Spike, ext)
	return nil
}

// Step takes the previous-tick snapshot then sets the output to ext
func (ly *InputLayer) Step(ext []float32) error {
	if err := ly.CheckSize(ext, "input"); err != nil {
		return err
	}
	ly.InitCycle()
	return ly.Cycle(ext)
}
