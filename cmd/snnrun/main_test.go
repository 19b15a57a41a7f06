// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testNet = `
name: relay
layers:
  - {name: in, type: input, n: 2}
  - {name: out, n: 2, tau: 1}
synapses:
  - {kind: plastic_onetoone, pre: in, post: out, init: 1.8, ap: 0.05, an: 0, wlim: 2}
outputs: [out]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "net.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("version output = %q", out)
	}
}

func TestValidateCmd(t *testing.T) {
	path := writeConfig(t, testNet)
	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "relay: ok (2 layers, 1 synapses)") {
		t.Errorf("validate output = %q", out)
	}

	bad := writeConfig(t, "layers: [{name: a, n: 1}]\noutputs: [b]\n")
	if _, err := execute(t, "validate", bad); err == nil {
		t.Error("expected error for unknown output")
	}
}

func TestReportCmd(t *testing.T) {
	out, err := execute(t, "report", writeConfig(t, testNet))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "relay") || !strings.Contains(out, "out") {
		t.Errorf("report output = %q", out)
	}
}

func TestRunCmd(t *testing.T) {
	path := writeConfig(t, testNet)
	wts := filepath.Join(t.TempDir(), "net.wts.json")
	out, err := execute(t, "run", path, "--ticks", "50", "--rate", "1", "--json", "--learn", "--wts-out", wts)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	var res runResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decoding output %q: %v", out, err)
	}
	if res.Ticks != 50 {
		t.Errorf("Ticks = %d, want 50", res.Ticks)
	}
	if cnt := res.Counts["out"]; len(cnt) != 2 || cnt[0] == 0 {
		t.Errorf("out counts = %v", cnt)
	}
	if _, err := os.Stat(wts); err != nil {
		t.Fatalf("weights not written: %v", err)
	}

	if _, err := execute(t, "run", path, "--ticks", "5", "--wts-in", wts); err != nil {
		t.Errorf("run with saved weights: %v", err)
	}
}

func TestRunCmdErrors(t *testing.T) {
	path := writeConfig(t, testNet)
	tests := []struct {
		name string
		args []string
	}{
		{"zero ticks", []string{"run", path, "--ticks", "0"}},
		{"bad rate", []string{"run", path, "--rate", "1.5"}},
		{"missing config", []string{"run", filepath.Join(t.TempDir(), "none.yaml")}},
		{"missing weights", []string{"run", path, "--wts-in", filepath.Join(t.TempDir(), "none.json")}},
		{"no args", []string{"run"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestRunNetworkCancel(t *testing.T) {
	nt, err := loadNetwork(writeConfig(t, testNet))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := runNetwork(ctx, nt, runOpts{Ticks: 10, Seed: 1, Rate: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 0 {
		t.Errorf("Ticks = %d after cancel, want 0", res.Ticks)
	}
}

func TestRunNetworkDeterministic(t *testing.T) {
	run := func() *runResult {
		nt, err := loadNetwork(writeConfig(t, testNet))
		if err != nil {
			t.Fatal(err)
		}
		res, err := runNetwork(context.Background(), nt, runOpts{Ticks: 40, Seed: 7, Rate: 0.3, Learn: true})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a, b := run(), run()
	for i := range a.Counts["out"] {
		if a.Counts["out"][i] != b.Counts["out"][i] {
			t.Errorf("counts differ: %v vs %v", a.Counts["out"], b.Counts["out"])
		}
	}
}

const twoInputNet = `
name: relays
layers:
  - {name: in, type: input, n: 2}
  - {name: targ, type: input, n: 3}
  - {name: out, n: 2, tau: 1}
  - {name: out2, n: 3, tau: 1}
synapses:
  - {kind: plastic_onetoone, pre: in, post: out, init: 1.8, ap: 0.05, an: 0, wlim: 2}
  - {kind: plastic_onetoone, pre: targ, post: out2, init: 1.8, ap: 0.05, an: 0, wlim: 2}
outputs: [out, out2]
`

func TestRunNetworkInputOrder(t *testing.T) {
	const ticks, seed, rate = 60, 3, 0.4
	path := writeConfig(t, twoInputNet)

	// each relay spikes exactly on the ticks its input is 1,
	// with inputs drawn in layer order
	rnd := rand.New(rand.NewSource(seed))
	want := map[string][]int{"out": make([]int, 2), "out2": make([]int, 3)}
	for tk := 0; tk < ticks; tk++ {
		for _, nm := range []string{"out", "out2"} {
			for i := range want[nm] {
				if rnd.Float64() < rate {
					want[nm][i]++
				}
			}
		}
	}

	for run := 0; run < 5; run++ {
		nt, err := loadNetwork(path)
		if err != nil {
			t.Fatal(err)
		}
		res, err := runNetwork(context.Background(), nt, runOpts{Ticks: ticks, Seed: seed, Rate: rate, Learn: true})
		if err != nil {
			t.Fatal(err)
		}
		for nm, cnt := range want {
			for i := range cnt {
				if res.Counts[nm][i] != cnt[i] {
					t.Fatalf("run %d: %s counts = %v, want %v", run, nm, res.Counts[nm], cnt)
				}
			}
		}
	}
}
