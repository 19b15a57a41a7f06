// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/timer"
	"github.com/goki/ki/indent"
	"github.com/goki/ki/ints"
)

// snn.Network is a graph of named layers connected by synapses, stepped
// forward in discrete ticks.  Layers and synapses are added first, then
// the topology is frozen by Build (called implicitly by the first Cycle).
type Network struct {
	Nm       string                  `desc:"overall name of network -- helps discriminate if there are multiple"`
	Layers   []SpikingLayer          `desc:"list of layers, in insertion order, which is the order they are stepped in"`
	LayMap   map[string]SpikingLayer `view:"-" desc:"map of name to layers -- layer names must be unique"`
	Syns     []SpikingSyn            `desc:"list of synapses, in insertion order"`
	RecvSyns [][]int                 `view:"-" desc:"indexes into Syns of the synapses into each layer, by layer index"`
	OutNms   []string                `desc:"names of the layers declared as outputs"`
	Time     Time                    `desc:"tick counters"`
	MetaData map[string]string       `desc:"optional metadata that is exported with the network weights"`
	Built    bool                    `inactive:"+" desc:"topology is frozen: no layers or synapses can be added"`
	FunTimes map[string]*timer.Time  `view:"-" desc:"timers for each major function (step of processing)"`

	inets [][]float32
	ginhs [][]float32
}

// NewNetwork returns a new empty network with given name
func NewNetwork(name string) *Network {
	nt := &Network{}
	nt.InitName(name)
	return nt
}

// InitName sets the name and initializes the maps
func (nt *Network) InitName(name string) {
	nt.Nm = name
	nt.LayMap = make(map[string]SpikingLayer)
	nt.FunTimes = make(map[string]*timer.Time)
	nt.Time.Defaults()
}

func (nt *Network) Name() string  { return nt.Nm }
func (nt *Network) Label() string { return nt.Nm }
func (nt *Network) NLayers() int  { return len(nt.Layers) }

// LayerByName returns a layer by looking it up by name in the layer map (nil if not found).
func (nt *Network) LayerByName(name string) SpikingLayer {
	if nt.LayMap == nil {
		return nil
	}
	return nt.LayMap[name]
}

// LayerByNameTry returns a layer by looking it up by name -- emits a log error message
// if layer is not found
func (nt *Network) LayerByNameTry(name string) (SpikingLayer, error) {
	ly := nt.LayerByName(name)
	if ly == nil {
		err := fmt.Errorf("%w: layer named: %v not found in network: %v", ErrTopology, name, nt.Nm)
		log.Println(err)
		return nil, err
	}
	return ly, nil
}

// Spikes returns the current spike vector of the named layer (the injected
// vector for inputs), or nil if there is no such layer.
// The slice is owned by the layer.
func (nt *Network) Spikes(name string) []float32 {
	ly := nt.LayerByName(name)
	if ly == nil {
		return nil
	}
	return ly.AsSNN().Spike
}

// Outputs returns the current spike vectors of the declared output layers
func (nt *Network) Outputs() map[string][]float32 {
	outs := make(map[string][]float32, len(nt.OutNms))
	for _, nm := range nt.OutNms {
		outs[nm] = nt.Spikes(nm)
	}
	return outs
}

// SynsTo returns the synapses into the named layer, in insertion order
func (nt *Network) SynsTo(name string) []SpikingSyn {
	ly := nt.LayerByName(name)
	if ly == nil {
		return nil
	}
	idxs := nt.RecvSyns[ly.AsSNN().Idx]
	syns := make([]SpikingSyn, len(idxs))
	for i, si := range idxs {
		syns[i] = nt.Syns[si]
	}
	return syns
}

//////////////////////////////////////////////////////////////////////////////////////
//  Topology

func (nt *Network) checkBuilt(what string) error {
	if nt.Built {
		return fmt.Errorf("%w: cannot %s: network %s is already built", ErrTopology, what, nt.Nm)
	}
	if nt.LayMap == nil {
		nt.InitName(nt.Nm)
	}
	return nil
}

// AddLayer adds the layer to the network under given name, which must be unique
func (nt *Network) AddLayer(name string, ly SpikingLayer) error {
	if err := nt.checkBuilt("add layer " + name); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: layer name must not be empty", ErrTopology)
	}
	if _, has := nt.LayMap[name]; has {
		return fmt.Errorf("%w: layer named: %v already exists in network: %v", ErrTopology, name, nt.Nm)
	}
	if ly == nil || ly.AsSNN() == nil {
		return fmt.Errorf("%w: layer %v is nil", ErrTopology, name)
	}
	lb := ly.AsSNN()
	if lb.N <= 0 || len(lb.Vm) != lb.N {
		return fmt.Errorf("%w: layer %v has %d neurons and is not configured", ErrShape, name, lb.N)
	}
	for _, el := range nt.Layers {
		if el.AsSNN() == lb {
			return fmt.Errorf("%w: layer %v is already in network %v as %v", ErrTopology, name, nt.Nm, el.Name())
		}
	}
	lb.Nm = name
	lb.Idx = len(nt.Layers)
	nt.Layers = append(nt.Layers, ly)
	nt.RecvSyns = append(nt.RecvSyns, nil)
	nt.LayMap[name] = ly
	return nil
}

// AddLIFLayer adds a new LIF layer with given parameters
func (nt *Network) AddLIFLayer(name string, n int, tau, v0 float32, refract bool) (*Layer, error) {
	ly, err := NewLayer(n, tau, v0, refract)
	if err != nil {
		return nil, err
	}
	if err := nt.AddLayer(name, ly); err != nil {
		return nil, err
	}
	return ly, nil
}

// AddCondLayer adds a new conductance-based layer with given parameters
func (nt *Network) AddCondLayer(name string, n int, dt float32, refract bool) (*CondLayer, error) {
	ly, err := NewCondLayer(n, dt, refract)
	if err != nil {
		return nil, err
	}
	if err := nt.AddLayer(name, ly); err != nil {
		return nil, err
	}
	return ly, nil
}

// AddInput adds a new input node of size n
func (nt *Network) AddInput(name string, n int) (*InputLayer, error) {
	ly, err := NewInputLayer(n)
	if err != nil {
		return nil, err
	}
	if err := nt.AddLayer(name, ly); err != nil {
		return nil, err
	}
	return ly, nil
}

// AddOutput declares the named layer as an output of the network
func (nt *Network) AddOutput(name string) error {
	if err := nt.checkBuilt("add output " + name); err != nil {
		return err
	}
	if _, err := nt.LayerByNameTry(name); err != nil {
		return err
	}
	for _, nm := range nt.OutNms {
		if nm == name {
			return fmt.Errorf("%w: layer %v is already an output", ErrTopology, name)
		}
	}
	nt.OutNms = append(nt.OutNms, name)
	return nil
}

// AddSynapse adds the synapse into the post layer from the pre layer, followed by
// the modulatory layer for ternary synapses.  The network is unchanged on error.
func (nt *Network) AddSynapse(post string, sy SpikingSyn, pre ...string) error {
	if err := nt.checkBuilt("add synapse into " + post); err != nil {
		return err
	}
	sb := sy.AsSyn()
	for _, es := range nt.Syns {
		if es.AsSyn() == sb {
			return fmt.Errorf("%w: synapse %v is already in network %v", ErrTopology, sb.Name(), nt.Nm)
		}
	}
	npre := 1 + sy.NMod()
	if sy.NMod() > 0 && len(pre) == 1 {
		return fmt.Errorf("%w: %w: %v synapse into %v needs a modulatory layer name after the pre layer", ErrTopology, ErrConnectivity, sb.Kind, post)
	}
	if len(pre) != npre {
		return fmt.Errorf("%w: synapse %v into %v needs %d pre layer names, got %d", ErrTopology, sb.Kind, post, npre, len(pre))
	}
	rly, err := nt.LayerByNameTry(post)
	if err != nil {
		return err
	}
	if rly.LayerType() == Input {
		return fmt.Errorf("%w: synapse cannot target input %v", ErrTopology, post)
	}
	if _, cond := rly.(CondCycler); cond && sb.Type == Hybrid {
		return fmt.Errorf("%w: synapse into conductance layer %v must be Exc or Inh, not Hybrid", ErrConnectivity, post)
	}
	sly, err := nt.LayerByNameTry(pre[0])
	if err != nil {
		return err
	}
	var mly SpikingLayer
	if npre > 1 {
		if mly, err = nt.LayerByNameTry(pre[1]); err != nil {
			return err
		}
	}
	if n := rly.AsSNN().N; n != sb.No {
		return fmt.Errorf("%w: synapse has %d post neurons, layer %v has %d", ErrShape, sb.No, post, n)
	}
	if n := sly.AsSNN().N; n != sb.Ne {
		return fmt.Errorf("%w: synapse has %d pre neurons, layer %v has %d", ErrShape, sb.Ne, pre[0], n)
	}
	if mly != nil {
		if n := mly.AsSNN().N; n != sy.NMod() {
			return fmt.Errorf("%w: synapse has %d modulatory neurons, layer %v has %d", ErrShape, sy.NMod(), pre[1], n)
		}
		sb.ModNm = pre[1]
	}
	sb.Send = pre[0]
	sb.Recv = post
	ri := rly.AsSNN().Idx
	nt.RecvSyns[ri] = append(nt.RecvSyns[ri], len(nt.Syns))
	nt.Syns = append(nt.Syns, sy)
	return nil
}

// Build freezes the topology, updates all parameters and allocates
// the per-layer input buffers.  It is a no-op on a built network.
func (nt *Network) Build() error {
	if nt.Built {
		return nil
	}
	if nt.LayMap == nil {
		nt.InitName(nt.Nm)
	}
	if len(nt.Layers) == 0 {
		return fmt.Errorf("%w: network %v has no layers", ErrTopology, nt.Nm)
	}
	nt.UpdateParams()
	if err := nt.CheckParams(); err != nil {
		return err
	}
	nt.inets = make([][]float32, len(nt.Layers))
	nt.ginhs = make([][]float32, len(nt.Layers))
	for li, ly := range nt.Layers {
		nt.inets[li] = make([]float32, ly.AsSNN().N)
		if _, cond := ly.(CondCycler); cond {
			nt.ginhs[li] = make([]float32, ly.AsSNN().N)
		}
	}
	nt.Built = true
	return nil
}

// UpdateParams updates the derived parameters of all layers and synapses
func (nt *Network) UpdateParams() {
	for _, ly := range nt.Layers {
		ly.UpdateParams()
	}
	for _, sy := range nt.Syns {
		sy.UpdateParams()
	}
}

// CheckParams returns the first Param error of any layer
func (nt *Network) CheckParams() error {
	for _, ly := range nt.Layers {
		if err := ly.CheckParams(); err != nil {
			return err
		}
	}
	return nil
}

// ApplyParams applies given parameter style Sheet to the layers and synapses.
// Calls UpdateParams on anything set to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors,
// including a Param error for values that cannot be run.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, ly := range nt.Layers {
		app, err := pars.Apply(ly, setMsg)
		if app {
			ly.UpdateParams()
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	for _, sy := range nt.Syns {
		app, err := pars.Apply(sy, setMsg)
		if app {
			sy.UpdateParams()
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	if err := nt.CheckParams(); err != nil {
		return applied, err
	}
	return applied, rerr
}

//////////////////////////////////////////////////////////////////////////////////////
//  Running

// CheckInputs returns an error for any input naming an unknown or non-input
// layer, or with the wrong length.
func (nt *Network) CheckInputs(inputs map[string][]float32) error {
	nms := make([]string, 0, len(inputs))
	for nm := range inputs {
		nms = append(nms, nm)
	}
	sort.Strings(nms) // report the same error for the same inputs
	for _, nm := range nms {
		ly, err := nt.LayerByNameTry(nm)
		if err != nil {
			return err
		}
		if err := ly.AsSNN().CheckSize(inputs[nm], "external input"); err != nil {
			return err
		}
	}
	return nil
}

// Cycle runs one tick of the network.  inputs gives the vectors injected into
// input nodes, or the external current added to LIF layers, by name: absent
// layers get zeros.  All inputs are checked before any state changes.
// Every layer first snapshots its spikes, then each is stepped in insertion
// order with the sum of its external current and the output of every synapse
// into it.  Finally every plastic synapse integrates its traces, and updates
// its weights if learn is true.
func (nt *Network) Cycle(inputs map[string][]float32, learn bool) error {
	if err := nt.Build(); err != nil {
		return err
	}
	if err := nt.CheckInputs(inputs); err != nil {
		return err
	}
	nt.FunTimerStart("Cycle")
	for _, ly := range nt.Layers {
		ly.InitCycle()
	}
	for _, ly := range nt.Layers {
		if ly.LayerType() != Input {
			continue
		}
		ext, has := inputs[ly.Name()]
		if !has {
			ext = nt.inets[ly.AsSNN().Idx]
			for i := range ext {
				ext[i] = 0
			}
		}
		if err := ly.Cycle(ext); err != nil {
			nt.FunTimerStop("Cycle")
			return err
		}
	}
	for li, ly := range nt.Layers {
		if ly.LayerType() == Input {
			continue
		}
		lb := ly.AsSNN()
		inet := nt.inets[li]
		ext := inputs[ly.Name()]
		lb.SetExt(ext)
		copy(inet, lb.Ext)
		if cl, cond := ly.(CondCycler); cond {
			if err := nt.cycleCond(li, cl, inet); err != nil {
				nt.FunTimerStop("Cycle")
				return err
			}
			continue
		}
		for _, si := range nt.RecvSyns[li] {
			sy := nt.Syns[si]
			if err := nt.SendSyn(sy, inet); err != nil {
				nt.FunTimerStop("Cycle")
				return err
			}
		}
		if err := ly.Cycle(inet); err != nil {
			nt.FunTimerStop("Cycle")
			return err
		}
	}
	nt.FunTimerStop("Cycle")
	if err := nt.Learn(learn); err != nil {
		return err
	}
	nt.Time.CycleInc()
	return nil
}

// cycleCond steps a conductance layer: Exc synapses and the external
// current add to the excitatory conductance ge, and Inh synapses, whose
// output is negative, to the inhibitory conductance.
func (nt *Network) cycleCond(li int, cl CondCycler, ge []float32) error {
	gi := nt.ginhs[li]
	for i := range gi {
		gi[i] = 0
	}
	for _, si := range nt.RecvSyns[li] {
		sy := nt.Syns[si]
		dst := ge
		if sy.AsSyn().Type == Inh {
			dst = gi
		}
		if err := nt.SendSyn(sy, dst); err != nil {
			return err
		}
	}
	for i := range gi {
		gi[i] = -gi[i]
	}
	return cl.CycleCond(ge, gi)
}

// SendSyn runs Forward on the synapse from its pre (and modulatory) layer
// outputs and adds the result into inet
func (nt *Network) SendSyn(sy SpikingSyn, inet []float32) error {
	sb := sy.AsSyn()
	xe := nt.LayMap[sb.Send].SendSpikes()
	var xm []float32
	if sb.ModNm != "" {
		xm = nt.LayMap[sb.ModNm].SendSpikes()
	}
	out, err := sy.Forward(xe, xm)
	if err != nil {
		return err
	}
	for i, v := range out {
		inet[i] += v
	}
	return nil
}

// Learn integrates the traces of every plastic synapse from the spikes of its
// post layer, and changes the weights if learn is true
func (nt *Network) Learn(learn bool) error {
	nt.FunTimerStart("Learn")
	defer nt.FunTimerStop("Learn")
	for _, sy := range nt.Syns {
		lr, ok := sy.(Learner)
		if !ok {
			continue
		}
		xo := nt.LayMap[sy.AsSyn().Recv].AsSNN().Spike
		if err := lr.Update(xo, learn); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns every layer to its initial state, clears all synapse traces and
// filters and starts a new episode.  Weights are unchanged.
func (nt *Network) Reset() {
	for _, ly := range nt.Layers {
		ly.InitActs()
	}
	for _, sy := range nt.Syns {
		sy.Reset()
	}
	nt.Time.NewEpisode()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Timers

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (nt *Network) FunTimerStart(fun string) {
	if nt.FunTimes == nil {
		nt.FunTimes = make(map[string]*timer.Time)
	}
	ft, ok := nt.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		nt.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (nt *Network) FunTimerStop(fun string) {
	ft := nt.FunTimes[fun]
	ft.Stop()
}

// TimerReport reports the amount of time spent in each function
func (nt *Network) TimerReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TimerReport: %v\n", nt.Nm)
	fmt.Fprintf(&b, "\tFunction Name\tTotal Secs\tPct\n")
	fnms := make([]string, 0, len(nt.FunTimes))
	for k := range nt.FunTimes {
		fnms = append(fnms, k)
	}
	sort.Strings(fnms)
	pcts := make([]float64, len(fnms))
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = nt.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		pct := 0.0
		if tot > 0 {
			pct = 100 * (pcts[i] / tot)
		}
		fmt.Fprintf(&b, "\t%v \t%6.4g\t%6.4g\n", fn, pcts[i], pct)
	}
	fmt.Fprintf(&b, "\tTotal   \t%6.4g\n", tot)
	return b.String()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Reports

// SizeReport returns a string reporting the size of each layer and synapse
// in the network, and total memory footprint.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	wd := 6
	for _, ly := range nt.Layers {
		wd = ints.MaxInt(wd, len(ly.Name()))
	}
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for li, ly := range nt.Layers {
		lb := ly.AsSNN()
		nmem := lb.N * len(NeuronVars) * 4
		neur += lb.N
		neurMem += nmem
		fmt.Fprintf(&b, "%*s:\t Neurons: %d\t NeurMem: %v \t Recvs From:\n", wd, lb.Nm, lb.N, (datasize.ByteSize)(nmem).HumanReadable())
		for _, si := range nt.RecvSyns[li] {
			sb := nt.Syns[si].AsSyn()
			ns := sb.NCons()
			syn += ns
			pmem := len(sb.Wt.Values)*4 + (len(sb.Xe)+len(sb.Out))*4
			if ps, ok := nt.Syns[si].(interface{ AsPlastic() *PlasticSynapse }); ok {
				pl := ps.AsPlastic()
				pmem += (len(pl.DWt) + len(pl.Te) + len(pl.To)) * 4
			}
			pmem += int(unsafe.Sizeof(*sb))
			synMem += pmem
			fmt.Fprintf(&b, "\t%*s:\t Syns: %d\t SynMem: %v\n", wd, sb.Send, ns, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%*s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", wd, nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}

type struWriter interface {
	WriteStru(w io.Writer, depth int)
}

// String returns a structural description of the network
func (nt *Network) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("Network: %s\tBuilt: %v\n", nt.Nm, nt.Built))
	for li, ly := range nt.Layers {
		ly.(struWriter).WriteStru(&b, 1)
		for _, si := range nt.RecvSyns[li] {
			nt.Syns[si].AsSyn().WriteStru(&b, 2)
		}
	}
	if len(nt.OutNms) > 0 {
		b.Write(indent.TabBytes(1))
		b.WriteString(fmt.Sprintf("Outputs: %v\n", nt.OutNms))
	}
	return b.String()
}
