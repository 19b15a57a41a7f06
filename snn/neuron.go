// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
)

// NeuronVars are the per-neuron state variables of a layer, accessible by name
var NeuronVars = []string{"Vm", "Spike", "PrvSpike", "Inet", "Ext"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

// NeuronVarIdxByName returns the index of the variable in the layer's state, or error
func NeuronVarIdxByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("%w: neuron variable named: %s not found", ErrTopology, varNm)
	}
	return i, nil
}

// stateVec returns the state vector of the layer for given var index
func (ly *Layer) stateVec(vidx int) []float32 {
	switch vidx {
	case 0:
		return ly.Vm
	case 1:
		return ly.Spike
	case 2:
		return ly.PrvSpike
	case 3:
		return ly.Inet
	default:
		return ly.Ext
	}
}

// UnitVals fills in values of given variable name on neurons of the layer,
// resizing vals as needed.
func (ly *Layer) UnitVals(vals *[]float32, varNm string) error {
	vidx, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return err
	}
	src := ly.stateVec(vidx)
	if cap(*vals) < len(src) {
		*vals = make([]float32, len(src))
	} else {
		*vals = (*vals)[:len(src)]
	}
	copy(*vals, src)
	return nil
}

// UnitVal returns the value of given variable name on given neuron index,
// or an error for an unknown variable or out-of-range index.
func (ly *Layer) UnitVal(varNm string, idx int) (float32, error) {
	vidx, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= ly.N {
		return 0, fmt.Errorf("%w: neuron index %d out of range for layer %s of size %d", ErrShape, idx, ly.Nm, ly.N)
	}
	return ly.stateVec(vidx)[idx], nil
}
