// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package netconfig builds snn networks from declarative YAML topology files.
//
// A file lists the layers in the order they are stepped, the synapses between
// them, the output layers, and optional parameter styles:
//
//	name: demo
//	layers:
//	  - {name: in, type: input, n: 2}
//	  - {name: out, n: 1, tau: 10, refractory: true}
//	synapses:
//	  - {kind: stdp, pre: in, post: out, sign: exc, init: 0.5, ap: 0.05}
//	outputs: [out]
//	params:
//	  - sel: "#out"
//	    params: {Layer.LIF.Thr: "0.8"}
package netconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/emer/emergent/params"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/snn"
	"github.com/emer/snn/trace"
	"gopkg.in/yaml.v3"
)

// Config is a complete network topology.
type Config struct {
	// Name is the network name.
	Name string `json:"name" yaml:"name"`

	// Layers are added in order, which is the order they are stepped in.
	Layers []LayerConfig `json:"layers" yaml:"layers"`

	// Synapses are added in order after all layers.
	Synapses []SynapseConfig `json:"synapses" yaml:"synapses"`

	// Outputs names the layers reported by Network.Outputs.
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	// Params are selector-based parameter styles applied after construction.
	Params []ParamConfig `json:"params,omitempty" yaml:"params,omitempty"`
}

// LayerConfig configures one layer.
type LayerConfig struct {
	// Name must be unique in the network.
	Name string `json:"name" yaml:"name"`

	// Type is "lif" (default), "recurrent", "conductance", or "input".
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// N is the number of neurons.
	N int `json:"n" yaml:"n"`

	// Class is a space-separated list of classes for parameter styles.
	Class string `json:"class,omitempty" yaml:"class,omitempty"`

	// Tau is the membrane time constant in ticks. Defaults to 10.
	Tau float32 `json:"tau,omitempty" yaml:"tau,omitempty"`

	// Dt is the integration rate per unit conductance of a conductance layer.
	// Defaults to 0.1.
	Dt float32 `json:"dt,omitempty" yaml:"dt,omitempty"`

	// Thr is the spiking threshold. Defaults to 1, or 0.5 for conductance layers.
	Thr *float32 `json:"thr,omitempty" yaml:"thr,omitempty"`

	// V0 is the reset potential.
	V0 float32 `json:"v0,omitempty" yaml:"v0,omitempty"`

	// VInit is the initial membrane potential.
	VInit float32 `json:"vinit,omitempty" yaml:"vinit,omitempty"`

	// Refractory holds a neuron at V0 on the tick after it spikes.
	Refractory bool `json:"refractory,omitempty" yaml:"refractory,omitempty"`

	// Wrec are the N x N recurrent weights of a recurrent layer, by row.
	Wrec [][]float32 `json:"wrec,omitempty" yaml:"wrec,omitempty"`
}

// TraceConfig configures a trace: either Tau, or Decay and Gain.
type TraceConfig struct {
	// Decay is the multiplicative decay per tick.
	Decay float32 `json:"decay,omitempty" yaml:"decay,omitempty"`

	// Gain is the increment per unit of input.
	Gain float32 `json:"gain,omitempty" yaml:"gain,omitempty"`

	// Tau sets Decay = exp(-1/Tau) and Gain = 1 - Decay when > 0.
	Tau float32 `json:"tau,omitempty" yaml:"tau,omitempty"`
}

// FilterConfig configures the low-pass input filter of a synapse.
type FilterConfig struct {
	// Tau is the filter time constant in ticks.
	Tau float32 `json:"tau" yaml:"tau"`

	// Delay delivers the filtered input one tick late.
	Delay bool `json:"delay,omitempty" yaml:"delay,omitempty"`
}

// SynapseConfig configures one synapse.
type SynapseConfig struct {
	// Kind is "static" (default), "onetoone", "stdp", "plastic_onetoone",
	// "modstdp", or "mse".
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Pre is the name of the sending layer.
	Pre string `json:"pre" yaml:"pre"`

	// Post is the name of the receiving layer.
	Post string `json:"post" yaml:"post"`

	// Mod is the name of the modulatory layer, required for modstdp and mse.
	Mod string `json:"mod,omitempty" yaml:"mod,omitempty"`

	// Sign is "hybrid" (default), "exc", or "inh".
	Sign string `json:"sign,omitempty" yaml:"sign,omitempty"`

	// Class is a space-separated list of classes for parameter styles.
	Class string `json:"class,omitempty" yaml:"class,omitempty"`

	// Weights are the post x pre initial weights, by row.
	// If empty, all weights are set to Init.
	Weights [][]float32 `json:"weights,omitempty" yaml:"weights,omitempty"`

	// Init is the initial value of every weight when Weights is empty.
	Init float32 `json:"init,omitempty" yaml:"init,omitempty"`

	// Transform is "", "rect", "sigmoid", "tanh", or "unit".
	Transform string `json:"transform,omitempty" yaml:"transform,omitempty"`

	// Filter enables the low-pass input filter.
	Filter *FilterConfig `json:"filter,omitempty" yaml:"filter,omitempty"`

	// Gate multiplies the output of a ternary synapse by its modulatory input.
	Gate bool `json:"gate,omitempty" yaml:"gate,omitempty"`

	// Learn turns weight changes of a plastic synapse on or off. Defaults to on.
	Learn *bool `json:"learn,omitempty" yaml:"learn,omitempty"`

	// Ap, An are the STDP potentiation and depression rates.
	Ap *float32 `json:"ap,omitempty" yaml:"ap,omitempty"`
	An *float32 `json:"an,omitempty" yaml:"an,omitempty"`

	// Lrate is the MSE learning rate.
	Lrate *float32 `json:"lrate,omitempty" yaml:"lrate,omitempty"`

	// Mode is the MSE error signal: "trace" (default) or "spike".
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Wlim and TraceLim bound the weights and the traces.
	Wlim     *float32 `json:"wlim,omitempty" yaml:"wlim,omitempty"`
	TraceLim *float32 `json:"tracelim,omitempty" yaml:"tracelim,omitempty"`

	// PreTrace, PostTrace and ModTrace configure the traces.
	PreTrace  *TraceConfig `json:"pre_trace,omitempty" yaml:"pre_trace,omitempty"`
	PostTrace *TraceConfig `json:"post_trace,omitempty" yaml:"post_trace,omitempty"`
	ModTrace  *TraceConfig `json:"mod_trace,omitempty" yaml:"mod_trace,omitempty"`
}

// ParamConfig is one parameter style selector.
type ParamConfig struct {
	// Sel is the selector: a type ("Layer", "Synapse"), .Class, or #Name.
	Sel string `json:"sel" yaml:"sel"`

	// Desc describes the purpose of the style.
	Desc string `json:"desc,omitempty" yaml:"desc,omitempty"`

	// Params maps parameter paths, e.g. "Layer.LIF.Tau", to values.
	Params map[string]string `json:"params" yaml:"params"`
}

var synKinds = map[string]bool{"": true, "static": true, "onetoone": true, "stdp": true, "plastic_onetoone": true, "modstdp": true, "mse": true}

var layerTypes = map[string]bool{"": true, "lif": true, "recurrent": true, "conductance": true, "input": true}

// Load decodes a configuration from YAML. Unknown fields are errors.
func Load(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing network config: empty document")
		}
		return nil, fmt.Errorf("parsing network config: %w", err)
	}
	return cfg, nil
}

// Parse decodes a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	return Load(bytes.NewReader(data))
}

// LoadFromFile loads a configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network config: %w", err)
	}
	return Parse(data)
}

// Validate checks names and kinds. Sizes and shapes are checked by Build.
func (c *Config) Validate() error {
	if len(c.Layers) == 0 {
		return fmt.Errorf("%w: network config has no layers", snn.ErrTopology)
	}
	names := make(map[string]bool, len(c.Layers))
	for i := range c.Layers {
		lc := &c.Layers[i]
		if lc.Name == "" {
			return fmt.Errorf("%w: layer %d has no name", snn.ErrTopology, i)
		}
		if names[lc.Name] {
			return fmt.Errorf("%w: duplicate layer name: %s", snn.ErrTopology, lc.Name)
		}
		names[lc.Name] = true
		if !layerTypes[strings.ToLower(lc.Type)] {
			return fmt.Errorf("%w: invalid layer type: %s (valid: lif, recurrent, conductance, input)", snn.ErrParam, lc.Type)
		}
	}
	for i := range c.Synapses {
		sc := &c.Synapses[i]
		kind := strings.ToLower(sc.Kind)
		if !synKinds[kind] {
			return fmt.Errorf("%w: invalid synapse kind: %s (valid: static, onetoone, stdp, plastic_onetoone, modstdp, mse)", snn.ErrParam, sc.Kind)
		}
		for _, nm := range []string{sc.Pre, sc.Post} {
			if !names[nm] {
				return fmt.Errorf("%w: synapse %d refers to unknown layer: %q", snn.ErrTopology, i, nm)
			}
		}
		modulated := kind == "modstdp" || kind == "mse"
		if modulated && !names[sc.Mod] {
			return fmt.Errorf("%w: %s synapse %d needs a modulatory layer, got %q", snn.ErrTopology, kind, i, sc.Mod)
		}
		if !modulated && sc.Mod != "" {
			return fmt.Errorf("%w: %s synapse %d cannot have a modulatory layer", snn.ErrTopology, kind, i)
		}
	}
	for _, nm := range c.Outputs {
		if !names[nm] {
			return fmt.Errorf("%w: unknown output layer: %s", snn.ErrTopology, nm)
		}
	}
	return nil
}

// Sheet returns the parameter styles as an emergent params.Sheet
func (c *Config) Sheet() *params.Sheet {
	sh := make(params.Sheet, 0, len(c.Params))
	for _, pc := range c.Params {
		sl := &params.Sel{Sel: pc.Sel, Desc: pc.Desc, Params: make(params.Params, len(pc.Params))}
		for k, v := range pc.Params {
			sl.Params[k] = v
		}
		sh = append(sh, sl)
	}
	return &sh
}

// Build validates the configuration and returns the built network,
// with the parameter styles applied.
func (c *Config) Build() (*snn.Network, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	nt := snn.NewNetwork(c.Name)
	sizes := make(map[string]int, len(c.Layers))
	for i := range c.Layers {
		lc := &c.Layers[i]
		ly, err := lc.New()
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", lc.Name, err)
		}
		if err := nt.AddLayer(lc.Name, ly); err != nil {
			return nil, err
		}
		sizes[lc.Name] = lc.N
	}
	for i := range c.Synapses {
		sc := &c.Synapses[i]
		sy, err := sc.New(sizes[sc.Pre], sizes[sc.Post], sizes[sc.Mod])
		if err != nil {
			return nil, fmt.Errorf("synapse %d (%s to %s): %w", i, sc.Pre, sc.Post, err)
		}
		pre := []string{sc.Pre}
		if sc.Mod != "" {
			pre = append(pre, sc.Mod)
		}
		if err := nt.AddSynapse(sc.Post, sy, pre...); err != nil {
			return nil, err
		}
	}
	for _, nm := range c.Outputs {
		if err := nt.AddOutput(nm); err != nil {
			return nil, err
		}
	}
	if len(c.Params) > 0 {
		if _, err := nt.ApplyParams(c.Sheet(), false); err != nil {
			return nil, fmt.Errorf("%w: applying params: %v", snn.ErrParam, err)
		}
	}
	if err := nt.Build(); err != nil {
		return nil, err
	}
	return nt, nil
}

// New returns the configured layer
func (lc *LayerConfig) New() (snn.SpikingLayer, error) {
	tau := lc.Tau
	if tau == 0 {
		tau = 10
	}
	var ly snn.SpikingLayer
	switch strings.ToLower(lc.Type) {
	case "input":
		il, err := snn.NewInputLayer(lc.N)
		if err != nil {
			return nil, err
		}
		ly = il
	case "recurrent":
		wrec, err := matrix(lc.Wrec, lc.N, lc.N, 0)
		if err != nil {
			return nil, err
		}
		rl, err := snn.NewRecLayer(lc.N, tau, lc.V0, lc.Refractory, wrec)
		if err != nil {
			return nil, err
		}
		ly = rl
	case "conductance":
		dt := lc.Dt
		if dt == 0 {
			dt = 0.1
		}
		cl, err := snn.NewCondLayer(lc.N, dt, lc.Refractory)
		if err != nil {
			return nil, err
		}
		cl.Cond.V0 = lc.V0
		cl.Cond.VInit = lc.VInit
		if lc.Thr != nil {
			cl.Cond.Thr = *lc.Thr
		}
		ly = cl
	default:
		l, err := snn.NewLayer(lc.N, tau, lc.V0, lc.Refractory)
		if err != nil {
			return nil, err
		}
		ly = l
	}
	lb := ly.AsSNN()
	lb.Cls = lc.Class
	if ly.LayerType() != snn.Conductance {
		lb.LIF.VInit = lc.VInit
		if lc.Thr != nil {
			lb.LIF.Thr = *lc.Thr
		}
	}
	ly.UpdateParams()
	ly.InitActs()
	return ly, nil
}

// New returns the configured synapse for given pre, post and modulatory sizes
func (sc *SynapseConfig) New(ne, no, nm int) (snn.SpikingSyn, error) {
	w0, err := matrix(sc.Weights, no, ne, sc.Init)
	if err != nil {
		return nil, err
	}
	sign, err := parseSign(sc.Sign)
	if err != nil {
		return nil, err
	}
	tf, err := snn.TransformByName(strings.ToLower(sc.Transform))
	if err != nil {
		return nil, err
	}

	var sy snn.SpikingSyn
	var pl *snn.PlasticSynapse
	switch strings.ToLower(sc.Kind) {
	case "", "static":
		sy, err = snn.NewStaticSynapse(ne, no, w0)
	case "onetoone":
		sy, err = snn.NewOneToOneSynapse(ne, no, w0)
	case "stdp", "plastic_onetoone":
		if strings.ToLower(sc.Kind) == "stdp" {
			pl, err = snn.NewSTDPSynapse(ne, no, w0)
		} else {
			pl, err = snn.NewPlasticOneToOne(ne, no, w0)
		}
		sy = pl
	case "modstdp", "mse":
		rule := snn.ModSTDP
		if strings.ToLower(sc.Kind) == "mse" {
			rule = snn.MSE
		}
		var ts *snn.TernarySynapse
		ts, err = snn.NewTernarySynapse(rule, ne, no, nm, w0)
		if err == nil {
			ts.Gate = sc.Gate
			sc.ModTrace.apply(&ts.ModTr)
			pl = &ts.PlasticSynapse
		}
		sy = ts
	}
	if err != nil {
		return nil, err
	}

	sb := sy.AsSyn()
	sb.Type = sign
	sb.Cls = sc.Class
	sb.Transform = tf
	if sc.Filter != nil {
		sb.Filter.On = true
		sb.Filter.Tau = sc.Filter.Tau
		sb.Filter.Delay = sc.Filter.Delay
	}
	if pl != nil {
		if err := sc.applyLearn(pl); err != nil {
			return nil, err
		}
		// construction clipped w0 to the default limit
		for i := range sb.Wt.Values {
			if sb.Cons.Value1D(i) {
				sb.Wt.Values[i] = w0.Values[i]
			}
		}
	}
	sy.UpdateParams()
	return sy, nil
}

func (sc *SynapseConfig) applyLearn(pl *snn.PlasticSynapse) error {
	lp := &pl.Learn
	if sc.Learn != nil {
		lp.Learn = *sc.Learn
	}
	setOpt(&lp.Ap, sc.Ap)
	setOpt(&lp.An, sc.An)
	setOpt(&lp.Lrate, sc.Lrate)
	setOpt(&lp.Wlim, sc.Wlim)
	setOpt(&lp.TraceLim, sc.TraceLim)
	switch strings.ToLower(sc.Mode) {
	case "", "trace":
		lp.Mode = snn.TraceMode
	case "spike":
		lp.Mode = snn.SpikeMode
	default:
		return fmt.Errorf("%w: invalid MSE mode: %s (valid: trace, spike)", snn.ErrParam, sc.Mode)
	}
	sc.PreTrace.apply(&pl.Pre)
	sc.PostTrace.apply(&pl.Post)
	return nil
}

func (tc *TraceConfig) apply(tp *trace.Params) {
	if tc == nil {
		return
	}
	if tc.Tau > 0 {
		tp.SetTau(tc.Tau)
		return
	}
	tp.Decay = tc.Decay
	tp.Gain = tc.Gain
}

func setOpt(dst *float32, v *float32) {
	if v != nil {
		*dst = *v
	}
}

func parseSign(s string) (snn.SynTypes, error) {
	if s == "" {
		return snn.Hybrid, nil
	}
	for st := snn.SynTypes(0); st < snn.SynTypesN; st++ {
		if strings.EqualFold(st.String(), s) {
			return st, nil
		}
	}
	return snn.Hybrid, fmt.Errorf("%w: invalid synapse sign: %s (valid: hybrid, exc, inh)", snn.ErrParam, s)
}

// matrix returns a (rows, cols) weight matrix from row slices, or filled with
// init if there are none.
func matrix(vals [][]float32, rows, cols int, init float32) (*etensor.Float32, error) {
	if len(vals) == 0 {
		return snn.NewWts(rows, cols, init)
	}
	if len(vals) != rows {
		return nil, fmt.Errorf("%w: %d weight rows, want %d", snn.ErrShape, len(vals), rows)
	}
	flat := make([]float32, 0, rows*cols)
	for ri, row := range vals {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: weight row %d has %d values, want %d", snn.ErrShape, ri, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return snn.NewWts(rows, cols, flat...)
}
