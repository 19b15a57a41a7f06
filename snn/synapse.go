// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"io"

	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/trace"
	"github.com/goki/ki/indent"
)

// SpikingSyn is the interface implemented by every synapse variant.
// All variants embed a *Synapse, accessed through AsSyn.
type SpikingSyn interface {
	params.Styler

	// AsSyn returns this synapse as a snn.Synapse, for access to the common state
	AsSyn() *Synapse

	// SynKind returns the variant tag of the synapse
	SynKind() SynKinds

	// NMod returns the number of modulatory neurons, 0 for binary synapses
	NMod() int

	// UpdateParams updates all derived parameters after changes,
	// and clips the weights to the bounds for plastic synapses
	UpdateParams()

	// Forward returns the current delivered to the post layer for
	// presynaptic vector xe and modulatory vector xm (nil for binary synapses).
	// The returned slice is owned by the synapse and overwritten on the next call.
	Forward(xe, xm []float32) ([]float32, error)

	// Reset clears traces and filter state, leaving the weights unchanged
	Reset()

	// ClipWts enforces the weight bounds, if any
	ClipWts()
}

// Learner is implemented by synapses that integrate traces and update their
// weights from the post-synaptic spikes after each tick.
type Learner interface {
	// Update integrates the traces from the last Forward input and the post
	// spikes xo, and changes the weights if learn is true
	Update(xo []float32, learn bool) error
}

// snn.Synapse is a fixed weight matrix from a pre layer of Ne neurons to a post
// layer of No neurons.  It is the base for all synapse variants in this package.
type Synapse struct {
	Cls       string           `desc:"Class is for applying parameter styles, can be space separated multple tags"`
	Kind      SynKinds         `inactive:"+" desc:"variant of the synapse"`
	Type      SynTypes         `desc:"sign class: Inh negates the delivered current, and Exc / Inh bound plastic weights below at 0"`
	Send      string           `inactive:"+" desc:"name of the pre layer -- set when added to the network"`
	Recv      string           `inactive:"+" desc:"name of the post layer -- set when added to the network"`
	ModNm     string           `inactive:"+" desc:"name of the modulatory layer for ternary synapses -- set when added to the network"`
	Ne        int              `inactive:"+" desc:"number of pre neurons"`
	No        int              `inactive:"+" desc:"number of post neurons"`
	Pat       prjn.Pattern     `view:"-" desc:"connectivity pattern"`
	Diag      bool             `view:"-" inactive:"+" desc:"connectivity is one-to-one: only the diagonal is connected"`
	Cons      *etensor.Bits    `view:"-" desc:"connection mask, shape (No, Ne): unconnected weights are 0 and never change"`
	Wt        *etensor.Float32 `desc:"weights, shape (No, Ne): row i receives from column j"`
	Transform Transform        `view:"-" json:"-" desc:"optional elementwise nonlinearity on the weighted sum"`
	Filter    trace.LowPass    `view:"inline" desc:"optional low-pass filter with delay on the pre input"`
	Xe        []float32        `desc:"pre input of the last Forward, after the filter"`
	Out       []float32        `desc:"current delivered by the last Forward"`

	filtVal []float32
}

var _ SpikingSyn = (*Synapse)(nil)

// NewStaticSynapse returns a fixed all-to-all synapse from ne to no neurons.
// w0 must have shape (no, ne) and is copied.
func NewStaticSynapse(ne, no int, w0 *etensor.Float32) (*Synapse, error) {
	sy := &Synapse{}
	if err := sy.Config(StaticSyn, ne, no, w0, prjn.NewFull()); err != nil {
		return nil, err
	}
	return sy, nil
}

// NewOneToOneSynapse returns a fixed synapse connecting neuron i of the pre
// layer to neuron i of the post layer only, which must have the same size.
// w0 must have shape (no, ne) and is copied, with off-diagonal entries set to 0.
func NewOneToOneSynapse(ne, no int, w0 *etensor.Float32) (*Synapse, error) {
	sy := &Synapse{}
	if err := CheckOneToOne(ne, no); err != nil {
		return nil, err
	}
	if err := sy.Config(OneToOneSyn, ne, no, w0, prjn.NewOneToOne()); err != nil {
		return nil, err
	}
	return sy, nil
}

// CheckOneToOne returns a Connectivity error unless ne == no
func CheckOneToOne(ne, no int) error {
	if ne != no {
		return fmt.Errorf("%w: one-to-one synapse needs equal pre and post sizes, got %d and %d", ErrConnectivity, ne, no)
	}
	return nil
}

// Config sets the sizes and weights and builds the connection mask
// from the pattern.  w0 is copied.
func (sy *Synapse) Config(kind SynKinds, ne, no int, w0 *etensor.Float32, pat prjn.Pattern) error {
	if ne <= 0 || no <= 0 {
		return fmt.Errorf("%w: synapse sizes must be > 0, got ne: %d, no: %d", ErrShape, ne, no)
	}
	if err := CheckWtShape(w0, no, ne); err != nil {
		return err
	}
	sy.Kind = kind
	sy.Ne = ne
	sy.No = no
	sy.Filter.Defaults()
	sy.Wt = CloneWts(w0)
	sy.Connect(pat)
	sy.Xe = make([]float32, ne)
	sy.Out = make([]float32, no)
	sy.filtVal = make([]float32, ne)
	return nil
}

// Connect builds the connection mask from pattern and zeros unconnected weights
func (sy *Synapse) Connect(pat prjn.Pattern) {
	sy.Pat = pat
	var ssh, rsh etensor.Shape
	ssh.SetShape([]int{sy.Ne}, nil, nil)
	rsh.SetShape([]int{sy.No}, nil, nil)
	_, _, sy.Cons = pat.Connect(&ssh, &rsh, false)
	_, sy.Diag = pat.(*prjn.OneToOne)
	for i := range sy.Wt.Values {
		if !sy.Cons.Value1D(i) {
			sy.Wt.Values[i] = 0
		}
	}
}

// IsCon returns true if post neuron ri receives from pre neuron si
func (sy *Synapse) IsCon(ri, si int) bool {
	return sy.Cons.Value1D(ri*sy.Ne + si)
}

// Name is built from the pre and post layer names
func (sy *Synapse) Name() string {
	return sy.Send + "To" + sy.Recv
}

func (sy *Synapse) Label() string       { return sy.Name() }
func (sy *Synapse) Class() string       { return sy.Kind.String() + " " + sy.Type.String() + " " + sy.Cls }
func (sy *Synapse) SetClass(cls string) { sy.Cls = cls }
func (sy *Synapse) TypeName() string    { return "Synapse" } // type category, for params..
func (sy *Synapse) AsSyn() *Synapse     { return sy }
func (sy *Synapse) SynKind() SynKinds   { return sy.Kind }
func (sy *Synapse) NMod() int           { return 0 }

// UpdateParams updates all params given any changes that might have been made to individual values
func (sy *Synapse) UpdateParams() {
	sy.Filter.Update()
}

// ClipWts is a no-op: fixed synapses have no weight bounds
func (sy *Synapse) ClipWts() {}

// Reset clears the filter state and the last input and output
func (sy *Synapse) Reset() {
	for i := range sy.Xe {
		sy.Xe[i] = 0
		sy.filtVal[i] = 0
	}
	for i := range sy.Out {
		sy.Out[i] = 0
	}
}

// CheckPre returns a Shape error unless xe has Ne elements
func (sy *Synapse) CheckPre(xe []float32) error {
	if len(xe) != sy.Ne {
		return fmt.Errorf("%w: synapse %s pre input has length %d, want %d", ErrShape, sy.Name(), len(xe), sy.Ne)
	}
	return nil
}

// CheckPost returns a Shape error unless xo has No elements
func (sy *Synapse) CheckPost(xo []float32) error {
	if len(xo) != sy.No {
		return fmt.Errorf("%w: synapse %s post spikes have length %d, want %d", ErrShape, sy.Name(), len(xo), sy.No)
	}
	return nil
}

// Forward returns the weighted sum of the filtered input, transformed and
// negated for Inh synapses.  xm must be nil.
func (sy *Synapse) Forward(xe, xm []float32) ([]float32, error) {
	if xm != nil {
		return nil, fmt.Errorf("%w: binary synapse %s given a modulatory input", ErrShape, sy.Name())
	}
	if err := sy.CheckPre(xe); err != nil {
		return nil, err
	}
	sy.SendFmPre(xe)
	return sy.Out, nil
}

// SendFmPre computes Out from the pre input xe, which must have been checked
func (sy *Synapse) SendFmPre(xe []float32) {
	sy.Filter.Filter(sy.filtVal, sy.Xe, xe)
	if sy.Diag {
		nd := sy.No
		for i := 0; i < nd; i++ {
			sy.Out[i] = sy.Wt.Values[i*sy.Ne+i] * sy.Xe[i]
		}
	} else {
		MatVec(sy.Wt, sy.Xe, sy.Out)
	}
	if sy.Transform != nil {
		for i, v := range sy.Out {
			sy.Out[i] = sy.Transform(v)
		}
	}
	if sy.Type == Inh {
		for i, v := range sy.Out {
			sy.Out[i] = -v
		}
	}
}

// NCons returns the number of connected weights
func (sy *Synapse) NCons() int {
	n := 0
	for i := range sy.Wt.Values {
		if sy.Cons.Value1D(i) {
			n++
		}
	}
	return n
}

// WriteStru writes a one-line structural description of the synapse
func (sy *Synapse) WriteStru(w io.Writer, depth int) {
	w.Write(indent.TabBytes(depth))
	mod := ""
	if sy.ModNm != "" {
		mod = " Mod: " + sy.ModNm
	}
	w.Write([]byte(fmt.Sprintf("Synapse: %s\tKind: %v\tType: %v\tSend: %s%s\tCons: %d\n",
		sy.Name(), sy.Kind, sy.Type, sy.Send, mod, sy.NCons())))
}
