// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"errors"
	"strings"
	"testing"

	"github.com/chewxy/math32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-5)

func TestLayerSpikeTrain(t *testing.T) {
	ly, err := NewLayer(1, 10, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	isi := ly.LIF.ISI(2, 1000)
	if isi != 7 {
		t.Fatalf("ISI: got %v, want 7\n", isi)
	}
	in := []float32{2}
	var spks []int
	for tick := 1; tick <= 50; tick++ {
		if err := ly.Step(in); err != nil {
			t.Fatal(err)
		}
		if ly.Spike[0] > 0 {
			spks = append(spks, tick)
		}
	}
	if len(spks) != 50/isi {
		t.Errorf("spike count: got %v, want %v: %v\n", len(spks), 50/isi, spks)
	}
	for i, s := range spks {
		if s != (i+1)*isi {
			t.Errorf("spike %v at tick %v, want %v\n", i, s, (i+1)*isi)
		}
	}
}

func TestLayerRefract(t *testing.T) {
	ly, err := NewLayer(2, 10, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	in := []float32{100, 0}
	cor := []float32{1, 0, 1, 0, 1, 0}
	for i, c := range cor {
		if err := ly.Step(in); err != nil {
			t.Fatal(err)
		}
		if ly.Spike[0] != c {
			t.Errorf("refractory spike err: tick: %v, spike: %v, cor: %v\n", i, ly.Spike[0], c)
		}
		if ly.Spike[1] != 0 || ly.Vm[1] != 0 {
			t.Errorf("unstimulated neuron moved: spike: %v, vm: %v\n", ly.Spike[1], ly.Vm[1])
		}
	}
	if ly.NSpikes() != 0 {
		t.Errorf("NSpikes after refractory tick: %v\n", ly.NSpikes())
	}
}

func TestLayerErrors(t *testing.T) {
	if _, err := NewLayer(0, 10, 0, false); !errors.Is(err, ErrShape) {
		t.Errorf("zero size: got %v, want ErrShape\n", err)
	}
	if _, err := NewLayer(3, 0, 0, false); !errors.Is(err, ErrParam) {
		t.Errorf("zero tau: got %v, want ErrParam\n", err)
	}
	ly, _ := NewLayer(3, 10, 0, false)
	ly.Step([]float32{2, 2, 2})
	vm := append([]float32(nil), ly.Vm...)
	if err := ly.Step([]float32{1, 1}); !errors.Is(err, ErrShape) {
		t.Errorf("short input: got %v, want ErrShape\n", err)
	}
	for i := range vm {
		if ly.Vm[i] != vm[i] {
			t.Errorf("state changed on error: idx: %v, vm: %v, was: %v\n", i, ly.Vm[i], vm[i])
		}
	}
}

func TestLayerInitActs(t *testing.T) {
	ly, _ := NewLayer(3, 5, 0, false)
	ly.LIF.VInit = 0.25
	for i := 0; i < 10; i++ {
		ly.Step([]float32{3, 1, 0})
	}
	ly.InitActs()
	for i := 0; i < ly.N; i++ {
		if ly.Vm[i] != 0.25 || ly.Spike[i] != 0 || ly.PrvSpike[i] != 0 || ly.Inet[i] != 0 {
			t.Errorf("InitActs err: idx: %v, vm: %v, spike: %v, prv: %v, inet: %v\n", i, ly.Vm[i], ly.Spike[i], ly.PrvSpike[i], ly.Inet[i])
		}
	}
	var vals []float32
	if err := ly.UnitVals(&vals, "Vm"); err != nil || len(vals) != 3 || vals[0] != 0.25 {
		t.Errorf("UnitVals Vm: %v, err: %v\n", vals, err)
	}
	if _, err := ly.UnitVal("Bogus", 0); !errors.Is(err, ErrTopology) {
		t.Errorf("UnitVal unknown var: got %v\n", err)
	}
	if _, err := ly.UnitVal("Vm", 3); !errors.Is(err, ErrShape) {
		t.Errorf("UnitVal index out of range: got %v\n", err)
	}
}

func TestRecLayer(t *testing.T) {
	wrec, _ := NewWts(2, 2, 0, -2, -2, 0)
	if _, err := NewRecLayer(3, 1, 0, false, wrec); !errors.Is(err, ErrShape) {
		t.Errorf("wrong recurrent shape: got %v, want ErrShape\n", err)
	}
	ly, err := NewRecLayer(2, 1, 0, false, wrec)
	if err != nil {
		t.Fatal(err)
	}
	wrec.Values[1] = 5 // layer owns a copy
	if ly.Wrec.Values[1] != -2 {
		t.Errorf("recurrent weights not copied\n")
	}

	// mutual inhibition alternates firing under constant drive
	in := []float32{2, 2}
	cor := []float32{1, 0, 1, 0, 1}
	for i, c := range cor {
		if err := ly.Step(in); err != nil {
			t.Fatal(err)
		}
		for ni := 0; ni < 2; ni++ {
			if ly.Spike[ni] != c {
				t.Errorf("recurrent spike err: tick: %v, neuron: %v, spike: %v, cor: %v\n", i, ni, ly.Spike[ni], c)
			}
		}
	}
	if dif := math32.Abs(ly.Inet[0] - 2); dif > difTol {
		t.Errorf("Inet after silent tick should be the external drive only: %v\n", ly.Inet[0])
	}
}

func TestInputLayer(t *testing.T) {
	ly, err := NewInputLayer(3)
	if err != nil {
		t.Fatal(err)
	}
	in := []float32{0.5, 0, 2}
	if err := ly.Step(in); err != nil {
		t.Fatal(err)
	}
	out := ly.SendSpikes()
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("input passthrough err: idx: %v, out: %v, in: %v\n", i, out[i], in[i])
		}
	}
	if _, err := NewInputLayer(0); !errors.Is(err, ErrShape) {
		t.Errorf("zero size input: got %v\n", err)
	}
}

func TestCondLayer(t *testing.T) {
	if _, err := NewCondLayer(0, 0.1, false); !errors.Is(err, ErrShape) {
		t.Errorf("size 0: got %v, want ErrShape\n", err)
	}
	if _, err := NewCondLayer(2, 0, false); !errors.Is(err, ErrParam) {
		t.Errorf("Dt 0: got %v, want ErrParam\n", err)
	}
	ly, err := NewCondLayer(2, 0.5, false)
	if err != nil {
		t.Fatal(err)
	}
	if ly.LayerType() != Conductance || !strings.HasPrefix(ly.Class(), "Conductance") {
		t.Errorf("type: %v, class: %v\n", ly.LayerType(), ly.Class())
	}
	if err := ly.CycleCond([]float32{1}, []float32{0, 0}); !errors.Is(err, ErrShape) {
		t.Errorf("short ge: got %v, want ErrShape\n", err)
	}
	if err := ly.CycleCond([]float32{1, 1}, nil); !errors.Is(err, ErrShape) {
		t.Errorf("nil gi: got %v, want ErrShape\n", err)
	}

	cor := ly.Cond.Integ(0, 4, 0)
	if err := ly.Step([]float32{4, 0}); err != nil {
		t.Fatal(err)
	}
	if cor < ly.Cond.Thr {
		t.Fatalf("ge 4 should cross threshold in one step: %v\n", cor)
	}
	if ly.Spike[0] != 1 || ly.Vm[0] != ly.Cond.V0 {
		t.Errorf("Step: spike: %v, vm: %v, want spike and reset\n", ly.Spike[0], ly.Vm[0])
	}
	if ly.Vm[1] != 0 || ly.Spike[1] != 0 || ly.Ge[0] != 4 || ly.Gi[0] != 0 {
		t.Errorf("Step state: vm: %v, ge: %v, gi: %v\n", ly.Vm, ly.Ge, ly.Gi)
	}
	if v, err := ly.UnitVal("Inet", 0); err != nil || v != 4 {
		t.Errorf("Inet: %v, %v\n", v, err)
	}
	ly.Cond.VInit = 0.2
	ly.InitActs()
	if ly.Vm[0] != 0.2 || ly.Vm[1] != 0.2 || ly.Ge[0] != 0 {
		t.Errorf("InitActs: vm: %v, ge: %v\n", ly.Vm, ly.Ge)
	}
}
