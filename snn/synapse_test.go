// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

func TestStaticSynapse(t *testing.T) {
	wbad, _ := NewWts(2, 3)
	if _, err := NewStaticSynapse(2, 3, wbad); !errors.Is(err, ErrShape) {
		t.Errorf("wrong weight shape: got %v, want ErrShape\n", err)
	}
	if _, err := NewStaticSynapse(2, 3, nil); !errors.Is(err, ErrShape) {
		t.Errorf("nil weights: got %v, want ErrShape\n", err)
	}
	if _, err := NewWts(2, 3, 1, 2); !errors.Is(err, ErrShape) {
		t.Errorf("wrong number of weight values: got %v, want ErrShape\n", err)
	}

	w0, _ := NewWts(2, 3, 1, 2, 3, 4, 5, 6)
	sy, err := NewStaticSynapse(3, 2, w0)
	if err != nil {
		t.Fatal(err)
	}
	w0.Values[0] = 100
	if sy.Wt.Values[0] != 1 {
		t.Errorf("weights not copied at construction\n")
	}
	sy.UpdateParams()

	out, err := sy.Forward([]float32{1, 0, 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cor := []float32{4, 10}
	for i := range cor {
		if out[i] != cor[i] {
			t.Errorf("forward err: idx: %v, out: %v, cor: %v\n", i, out[i], cor[i])
		}
	}
	if _, err := sy.Forward([]float32{1, 0}, nil); !errors.Is(err, ErrShape) {
		t.Errorf("short pre input: got %v, want ErrShape\n", err)
	}
	if _, err := sy.Forward([]float32{1, 0, 1}, []float32{1, 1}); !errors.Is(err, ErrShape) {
		t.Errorf("modulatory input on binary synapse: got %v, want ErrShape\n", err)
	}

	sy.Type = Inh
	out, _ = sy.Forward([]float32{1, 0, 1}, nil)
	if out[0] != -4 || out[1] != -10 {
		t.Errorf("inhibitory synapse should negate output: %v\n", out)
	}

	sy.Type = Hybrid
	sy.Transform = Clamp(0, 5)
	out, _ = sy.Forward([]float32{1, 0, 1}, nil)
	if out[0] != 4 || out[1] != 5 {
		t.Errorf("transform err: %v\n", out)
	}
	if sy.NCons() != 6 {
		t.Errorf("full connectivity NCons: %v\n", sy.NCons())
	}
}

func TestTransforms(t *testing.T) {
	if Rect(-1) != 0 || Rect(2) != 2 {
		t.Errorf("Rect err\n")
	}
	if dif := math32.Abs(Sigmoid(0) - 0.5); dif > difTol {
		t.Errorf("Sigmoid(0): %v\n", Sigmoid(0))
	}
	if tf, err := TransformByName("tanh"); err != nil || tf(0) != 0 {
		t.Errorf("tanh by name: err: %v\n", err)
	}
	if tf, err := TransformByName(""); err != nil || tf != nil {
		t.Errorf("empty transform name should be nil: err: %v\n", err)
	}
	if _, err := TransformByName("bogus"); !errors.Is(err, ErrParam) {
		t.Errorf("unknown transform: got %v\n", err)
	}
}

func TestFilter(t *testing.T) {
	w0, _ := NewWts(1, 1, 1)
	sy, _ := NewStaticSynapse(1, 1, w0)
	sy.Filter.On = true
	sy.Filter.Tau = 1
	sy.Filter.Delay = true
	sy.UpdateParams()
	out, _ := sy.Forward([]float32{1}, nil)
	if out[0] != 0 {
		t.Errorf("delayed filter should deliver nothing on first tick: %v\n", out[0])
	}
	out, _ = sy.Forward([]float32{1}, nil)
	cor := 1 - math32.Exp(-1)
	if dif := math32.Abs(out[0] - cor); dif > difTol {
		t.Errorf("delayed filter second tick: %v, cor: %v\n", out[0], cor)
	}
	sy.Reset()
	out, _ = sy.Forward([]float32{1}, nil)
	if out[0] != 0 {
		t.Errorf("Reset should clear the filter: %v\n", out[0])
	}
}

func TestOneToOne(t *testing.T) {
	w0, _ := NewWts(3, 2, 1)
	if _, err := NewOneToOneSynapse(2, 3, w0); !errors.Is(err, ErrConnectivity) {
		t.Errorf("unequal sizes: got %v, want ErrConnectivity\n", err)
	}
	if _, err := NewPlasticOneToOne(2, 3, w0); !errors.Is(err, ErrConnectivity) {
		t.Errorf("unequal plastic sizes: got %v, want ErrConnectivity\n", err)
	}

	wf, _ := NewWts(3, 3, 2)
	sy, err := NewOneToOneSynapse(3, 3, wf)
	if err != nil {
		t.Fatal(err)
	}
	for ri := 0; ri < 3; ri++ {
		for si := 0; si < 3; si++ {
			w := sy.Wt.Values[ri*3+si]
			if ri != si && w != 0 {
				t.Errorf("off-diagonal weight not zeroed: %v,%v: %v\n", ri, si, w)
			}
			if ri == si && w != 2 {
				t.Errorf("diagonal weight changed: %v: %v\n", ri, w)
			}
		}
	}
	out, _ := sy.Forward([]float32{1, 0, 1}, nil)
	if out[0] != 2 || out[1] != 0 || out[2] != 2 {
		t.Errorf("one-to-one forward err: %v\n", out)
	}

	pl, err := NewPlasticOneToOne(3, 3, DiagWts(0.2, 0.2, 0.2))
	if err != nil {
		t.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(1))
	xe := make([]float32, 3)
	xo := make([]float32, 3)
	for tick := 0; tick < 200; tick++ {
		for i := range xe {
			xe[i] = float32(rnd.Intn(2))
			xo[i] = float32(rnd.Intn(2))
		}
		pl.Forward(xe, nil)
		if err := pl.Update(xo, true); err != nil {
			t.Fatal(err)
		}
	}
	for ri := 0; ri < 3; ri++ {
		for si := 0; si < 3; si++ {
			if ri != si && pl.Wt.Values[ri*3+si] != 0 {
				t.Errorf("plastic off-diagonal weight learned: %v,%v: %v\n", ri, si, pl.Wt.Values[ri*3+si])
			}
		}
	}
}

// runPairing presents 100 trials of a pre spike and a post spike one tick apart,
// pre first if preFirst, and returns the weight at the end of each trial.
func runPairing(t *testing.T, sy *PlasticSynapse, preFirst bool) []float32 {
	var wts []float32
	for trial := 0; trial < 100; trial++ {
		for tick := 0; tick < 10; tick++ {
			xe, xo := float32(0), float32(0)
			switch {
			case tick == 0 && preFirst, tick == 1 && !preFirst:
				xe = 1
			case tick == 1 && preFirst, tick == 0 && !preFirst:
				xo = 1
			}
			if _, err := sy.Forward([]float32{xe}, nil); err != nil {
				t.Fatal(err)
			}
			if err := sy.Update([]float32{xo}, true); err != nil {
				t.Fatal(err)
			}
		}
		wts = append(wts, sy.Wt.Values[0])
	}
	return wts
}

func TestSTDPPairing(t *testing.T) {
	w0, _ := NewWts(1, 1, 0)
	sy, err := NewSTDPSynapse(1, 1, w0)
	if err != nil {
		t.Fatal(err)
	}

	// first pairing: Te = 0.5 on the pre tick, then a post spike with Te = 0.25
	sy.Forward([]float32{1}, nil)
	sy.Update([]float32{0}, true)
	sy.Forward([]float32{0}, nil)
	sy.Update([]float32{1}, true)
	if dif := math32.Abs(sy.Wt.Values[0] - 0.025); dif > difTol {
		t.Errorf("first pairing dW: got %v, want 0.025\n", sy.Wt.Values[0])
	}
	sy.Reset()
	sy.Wt.Values[0] = 0

	wts := runPairing(t, sy, true)
	for i := 1; i < len(wts); i++ {
		if wts[i] < wts[i-1] {
			t.Errorf("pre-then-post weight decreased at trial %v: %v -> %v\n", i, wts[i-1], wts[i])
		}
	}
	if wts[len(wts)-1] != sy.Learn.Wlim {
		t.Errorf("pre-then-post should saturate at +Wlim: %v\n", wts[len(wts)-1])
	}

	sy.Reset()
	sy.Wt.Values[0] = 0
	wts = runPairing(t, sy, false)
	for i := 1; i < len(wts); i++ {
		if wts[i] > wts[i-1] {
			t.Errorf("post-then-pre weight increased at trial %v: %v -> %v\n", i, wts[i-1], wts[i])
		}
	}
	if wts[len(wts)-1] != -sy.Learn.Wlim {
		t.Errorf("post-then-pre should saturate at -Wlim: %v\n", wts[len(wts)-1])
	}
}

func TestSTDPLearnOff(t *testing.T) {
	w0, _ := NewWts(1, 2, 0.3)
	sy, _ := NewSTDPSynapse(2, 1, w0)
	for tick := 0; tick < 5; tick++ {
		sy.Forward([]float32{1, 0}, nil)
		sy.Update([]float32{1}, false)
	}
	if sy.Wt.Values[0] != 0.3 || sy.Wt.Values[1] != 0.3 {
		t.Errorf("weights changed with learning off: %v\n", sy.Wt.Values)
	}
	if sy.Te[0] == 0 || sy.To[0] == 0 {
		t.Errorf("traces should integrate with learning off: Te: %v, To: %v\n", sy.Te, sy.To)
	}
	if sy.Te[1] != 0 {
		t.Errorf("trace of silent input moved: %v\n", sy.Te[1])
	}

	sy.Learn.Learn = false
	sy.Forward([]float32{1, 0}, nil)
	sy.Update([]float32{1}, true)
	if sy.Wt.Values[0] != 0.3 {
		t.Errorf("weights changed with Learn.Learn off: %v\n", sy.Wt.Values)
	}

	if err := sy.Update([]float32{1, 1}, true); !errors.Is(err, ErrShape) {
		t.Errorf("wrong post length: got %v, want ErrShape\n", err)
	}
	sy.Learn.Rule = MSE
	if err := sy.Update([]float32{1}, true); !errors.Is(err, ErrConnectivity) {
		t.Errorf("modulated rule on binary synapse: got %v, want ErrConnectivity\n", err)
	}
}

func TestBounds(t *testing.T) {
	for _, typ := range []SynTypes{Hybrid, Exc, Inh} {
		w0, _ := NewWts(4, 5, -0.8)
		sy, err := NewSTDPSynapse(5, 4, w0)
		if err != nil {
			t.Fatal(err)
		}
		sy.Type = typ
		sy.Learn.Ap = 5
		sy.Learn.An = 3
		sy.Learn.Wlim = 0.5
		sy.Learn.TraceLim = 1
		sy.Pre.Decay, sy.Pre.Gain = 0.9, 1
		sy.Post.Decay, sy.Post.Gain = 0.9, 1
		sy.UpdateParams()

		lo := float32(-0.5)
		if typ != Hybrid {
			lo = 0
		}
		rnd := rand.New(rand.NewSource(int64(typ) + 1))
		xe := make([]float32, 5)
		xo := make([]float32, 4)
		for tick := 0; tick < 500; tick++ {
			for i := range xe {
				xe[i] = float32(rnd.Intn(2))
			}
			for i := range xo {
				xo[i] = float32(rnd.Intn(2))
			}
			out, _ := sy.Forward(xe, nil)
			if typ == Inh {
				for _, v := range out {
					if v > 0 {
						t.Errorf("inhibitory synapse delivered positive current: %v\n", v)
					}
				}
			}
			sy.Update(xo, true)
			for i, w := range sy.Wt.Values {
				if w < lo || w > 0.5 {
					t.Fatalf("%v weight out of bounds: tick: %v, idx: %v, w: %v\n", typ, tick, i, w)
				}
			}
			for i, tr := range sy.Te {
				if math32.Abs(tr) > 1 {
					t.Fatalf("pre trace out of bounds: tick: %v, idx: %v, tr: %v\n", tick, i, tr)
				}
			}
			for i, tr := range sy.To {
				if math32.Abs(tr) > 1 {
					t.Fatalf("post trace out of bounds: tick: %v, idx: %v, tr: %v\n", tick, i, tr)
				}
			}
		}
	}
}

func TestTernary(t *testing.T) {
	w0, _ := NewWts(3, 2, 0.5)
	if _, err := NewModSTDPSynapse(2, 3, 2, w0); !errors.Is(err, ErrConnectivity) {
		t.Errorf("modulator size != post size: got %v, want ErrConnectivity\n", err)
	}
	if _, err := NewMSESynapse(2, 3, 0, w0); !errors.Is(err, ErrConnectivity) {
		t.Errorf("zero modulator size: got %v, want ErrConnectivity\n", err)
	}
	sy, err := NewModSTDPSynapse(2, 3, 3, w0)
	if err != nil {
		t.Fatal(err)
	}
	if sy.Kind != TernarySyn || sy.NMod() != 3 {
		t.Errorf("ModSTDP kind: %v, NMod: %v\n", sy.Kind, sy.NMod())
	}
	if _, err := sy.Forward([]float32{1, 1}, nil); !errors.Is(err, ErrShape) {
		t.Errorf("missing modulatory input: got %v, want ErrShape\n", err)
	}
	if _, err := sy.Forward([]float32{1, 1}, []float32{1}); !errors.Is(err, ErrShape) {
		t.Errorf("short modulatory input: got %v, want ErrShape\n", err)
	}

	// no modulation, no learning
	for tick := 0; tick < 20; tick++ {
		sy.Forward([]float32{float32(tick % 2), 1}, []float32{0, 0, 0})
		sy.Update([]float32{float32((tick + 1) % 2), 0, 1}, true)
	}
	for i, w := range sy.Wt.Values {
		if w != 0.5 {
			t.Errorf("ModSTDP weight changed without modulation: idx: %v, w: %v\n", i, w)
		}
	}

	// modulation on post neuron 0 only, with pre leading post by one tick
	for tick := 0; tick < 30; tick++ {
		pre, post := float32(0), float32(0)
		switch tick % 3 {
		case 0:
			pre = 1
		case 1:
			post = 1
		}
		sy.Forward([]float32{pre, 0}, []float32{1, 0, 0})
		sy.Update([]float32{post, 0, 0}, true)
	}
	if sy.Wt.Values[0] <= 0.5 {
		t.Errorf("modulated pre-then-post should potentiate: %v\n", sy.Wt.Values[0])
	}
	for i := 2; i < 6; i++ {
		if sy.Wt.Values[i] != 0.5 {
			t.Errorf("unmodulated row changed: idx: %v, w: %v\n", i, sy.Wt.Values[i])
		}
	}

	sy.Gate = true
	out, _ := sy.Forward([]float32{1, 1}, []float32{1, 0, 0.5})
	if out[1] != 0 {
		t.Errorf("gated output with zero modulation: %v\n", out)
	}
	if dif := math32.Abs(out[2] - 0.5); dif > difTol {
		t.Errorf("gated output with half modulation: %v\n", out)
	}

	sy.Reset()
	for i := range sy.Tm {
		if sy.Tm[i] != 0 || sy.Xm[i] != 0 {
			t.Errorf("Reset should clear modulatory state: Tm: %v, Xm: %v\n", sy.Tm, sy.Xm)
		}
	}
}

func TestMSE(t *testing.T) {
	for _, mode := range []MSEModes{TraceMode, SpikeMode} {
		w0, _ := NewWts(1, 2, 0)
		sy, err := NewMSESynapse(2, 1, 1, w0)
		if err != nil {
			t.Fatal(err)
		}
		if sy.Kind != MSESyn {
			t.Errorf("MSE kind: %v\n", sy.Kind)
		}
		sy.Learn.Mode = mode
		sy.UpdateParams()

		// target on, post silent: weights from active pre grow
		prv := float32(0)
		for tick := 0; tick < 50; tick++ {
			sy.Forward([]float32{1, 0}, []float32{1})
			sy.Update([]float32{0}, true)
			if sy.Wt.Values[0] < prv {
				t.Errorf("%v: weight decreased toward target: %v -> %v\n", mode, prv, sy.Wt.Values[0])
			}
			prv = sy.Wt.Values[0]
		}
		if sy.Wt.Values[0] <= 0 {
			t.Errorf("%v: weight did not grow toward target: %v\n", mode, sy.Wt.Values[0])
		}
		if sy.Wt.Values[1] != 0 {
			t.Errorf("%v: weight from silent pre changed: %v\n", mode, sy.Wt.Values[1])
		}

		// target off, post firing: weights shrink
		for tick := 0; tick < 50; tick++ {
			sy.Forward([]float32{1, 0}, []float32{0})
			sy.Update([]float32{1}, true)
		}
		if sy.Wt.Values[0] >= prv {
			t.Errorf("%v: weight did not shrink with post above target: %v -> %v\n", mode, prv, sy.Wt.Values[0])
		}
	}
}

func TestSynapseReset(t *testing.T) {
	w0, _ := NewWts(2, 2, 0.1)
	sy, _ := NewSTDPSynapse(2, 2, w0)
	for tick := 0; tick < 10; tick++ {
		sy.Forward([]float32{1, float32(tick % 2)}, nil)
		sy.Update([]float32{float32(tick % 3 / 2), 1}, true)
	}
	wts := append([]float32(nil), sy.Wt.Values...)
	sy.Reset()
	sy.Reset()
	for i := range wts {
		if sy.Wt.Values[i] != wts[i] {
			t.Errorf("Reset changed weights: idx: %v, w: %v, was: %v\n", i, sy.Wt.Values[i], wts[i])
		}
	}
	for i := range sy.Te {
		if sy.Te[i] != 0 || sy.To[i] != 0 || sy.Xe[i] != 0 {
			t.Errorf("Reset did not clear traces: Te: %v, To: %v, Xe: %v\n", sy.Te, sy.To, sy.Xe)
		}
	}
}

func TestTernaryBounds(t *testing.T) {
	for _, rule := range []Rules{ModSTDP, MSE} {
		for _, typ := range []SynTypes{Hybrid, Exc} {
			w0, _ := NewWts(3, 4, 0.9)
			sy, err := NewTernarySynapse(rule, 4, 3, 3, w0)
			if err != nil {
				t.Fatal(err)
			}
			sy.Type = typ
			sy.Learn.Ap = 5
			sy.Learn.An = 3
			sy.Learn.Lrate = 2
			sy.Learn.Wlim = 0.5
			sy.Learn.TraceLim = 1
			sy.Pre.Decay, sy.Pre.Gain = 0.9, 1
			sy.Post.Decay, sy.Post.Gain = 0.9, 1
			sy.ModTr.Decay, sy.ModTr.Gain = 0.9, 2
			sy.UpdateParams()

			lo := float32(-0.5)
			if typ != Hybrid {
				lo = 0
			}
			rnd := rand.New(rand.NewSource(int64(rule)*10 + int64(typ)))
			xe := make([]float32, 4)
			xm := make([]float32, 3)
			xo := make([]float32, 3)
			for tick := 0; tick < 500; tick++ {
				for i := range xe {
					xe[i] = float32(rnd.Intn(2))
				}
				for i := range xm {
					xm[i] = float32(rnd.Intn(2))
					xo[i] = float32(rnd.Intn(2))
				}
				if _, err := sy.Forward(xe, xm); err != nil {
					t.Fatal(err)
				}
				if err := sy.Update(xo, true); err != nil {
					t.Fatal(err)
				}
				for i, w := range sy.Wt.Values {
					if w < lo || w > 0.5 {
						t.Fatalf("%v %v weight out of bounds: tick: %v, idx: %v, w: %v\n", rule, typ, tick, i, w)
					}
				}
				for i, tr := range sy.Tm {
					if math32.Abs(tr) > 1 {
						t.Fatalf("%v modulatory trace out of bounds: tick: %v, idx: %v, tr: %v\n", rule, tick, i, tr)
					}
				}
			}
		}
	}
}

func TestTernaryUnknownRule(t *testing.T) {
	w0, _ := NewWts(2, 2, 0.3)
	sy, err := NewModSTDPSynapse(2, 2, 2, w0)
	if err != nil {
		t.Fatal(err)
	}
	sy.Learn.Rule = RulesN
	sy.Forward([]float32{1, 1}, []float32{1, 1})
	if err := sy.Update([]float32{1, 1}, true); !errors.Is(err, ErrParam) {
		t.Errorf("unknown rule: got %v, want ErrParam\n", err)
	}
	for i, w := range sy.Wt.Values {
		if w != 0.3 {
			t.Errorf("weights changed under unknown rule: idx: %v, w: %v\n", i, w)
		}
	}
	if err := sy.Update([]float32{1, 1}, false); err != nil {
		t.Errorf("no learning should not check the rule: %v\n", err)
	}
}
