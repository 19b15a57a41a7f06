// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/emer/snn/snn"
	"github.com/spf13/cobra"
)

// runOpts are the options of one run
type runOpts struct {
	Ticks  int
	Seed   int64
	Rate   float64
	Learn  bool
	Timers bool
}

// runResult is the summary of one run
type runResult struct {
	Network string               `json:"network"`
	Ticks   int                  `json:"ticks"`
	Counts  map[string][]int     `json:"counts"`
	Rates   map[string][]float64 `json:"rates"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run a network on random input spike trains",
		Long: `Run a network for a number of ticks.  Every input neuron spikes
on each tick with the given probability, and the spike counts of the output
layers are reported.

Examples:
  snnrun run net.yaml --ticks 500 --rate 0.1
  snnrun run net.yaml --learn --wts-out trained.wts.json
  snnrun run net.yaml --wts-in trained.wts.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			wtsIn, _ := cmd.Flags().GetString("wts-in")
			wtsOut, _ := cmd.Flags().GetString("wts-out")
			opts := runOpts{}
			opts.Ticks, _ = cmd.Flags().GetInt("ticks")
			opts.Seed, _ = cmd.Flags().GetInt64("seed")
			opts.Rate, _ = cmd.Flags().GetFloat64("rate")
			opts.Learn, _ = cmd.Flags().GetBool("learn")
			opts.Timers, _ = cmd.Flags().GetBool("timers")
			if opts.Ticks <= 0 {
				return fmt.Errorf("invalid ticks: %d (must be > 0)", opts.Ticks)
			}
			if opts.Rate < 0 || opts.Rate > 1 {
				return fmt.Errorf("invalid rate: %g (must be in [0, 1])", opts.Rate)
			}

			nt, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			if wtsIn != "" {
				if err := readWts(nt, wtsIn); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			res, err := runNetwork(ctx, nt, opts)
			if err != nil {
				return err
			}

			if wtsOut != "" {
				if err := writeWts(nt, wtsOut); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(out, res)
			if opts.Timers {
				fmt.Fprint(out, nt.TimerReport())
			}
			return nil
		},
	}
	cmd.Flags().Int("ticks", 100, "Number of ticks to run")
	cmd.Flags().Int64("seed", 1, "Random seed for the input spike trains")
	cmd.Flags().Float64("rate", 0.2, "Spike probability per tick of each input neuron")
	cmd.Flags().Bool("learn", false, "Update the weights of plastic synapses")
	cmd.Flags().Bool("timers", false, "Report the time spent in each network function")
	cmd.Flags().String("wts-in", "", "Load weights from a JSON file before running")
	cmd.Flags().String("wts-out", "", "Save weights to a JSON file after running")
	return cmd
}

// runNetwork resets the network and runs it for opts.Ticks ticks, or until ctx is done.
// Input spikes are drawn in layer order, so a seed gives the same run.
func runNetwork(ctx context.Context, nt *snn.Network, opts runOpts) (*runResult, error) {
	rnd := rand.New(rand.NewSource(opts.Seed))
	var ins []snn.SpikingLayer
	for _, ly := range nt.Layers {
		if ly.LayerType() == snn.Input {
			ins = append(ins, ly)
		}
	}
	inputs := make(map[string][]float32, len(ins))
	for _, ly := range ins {
		inputs[ly.Name()] = make([]float32, ly.AsSNN().N)
	}

	res := &runResult{Network: nt.Nm, Counts: map[string][]int{}, Rates: map[string][]float64{}}
	for nm, sp := range nt.Outputs() {
		res.Counts[nm] = make([]int, len(sp))
	}

	nt.Reset()
	if opts.Timers {
		nt.FunTimerStart("Run")
	}
	for t := 0; t < opts.Ticks; t++ {
		if err := ctx.Err(); err != nil {
			log.Printf("snnrun: stopped after %d ticks: %v", t, err)
			break
		}
		for _, ly := range ins {
			in := inputs[ly.Name()]
			for i := range in {
				in[i] = 0
				if rnd.Float64() < opts.Rate {
					in[i] = 1
				}
			}
		}
		if err := nt.Cycle(inputs, opts.Learn); err != nil {
			return nil, fmt.Errorf("tick %d: %w", t, err)
		}
		for nm, sp := range nt.Outputs() {
			cnt := res.Counts[nm]
			for i, s := range sp {
				if s > 0 {
					cnt[i]++
				}
			}
		}
		res.Ticks++
	}
	if opts.Timers {
		nt.FunTimerStop("Run")
	}
	for nm, cnt := range res.Counts {
		rt := make([]float64, len(cnt))
		if res.Ticks > 0 {
			for i, c := range cnt {
				rt[i] = float64(c) / float64(res.Ticks)
			}
		}
		res.Rates[nm] = rt
	}
	return res, nil
}

func printResult(w io.Writer, res *runResult) {
	fmt.Fprintf(w, "%s: %d ticks\n", res.Network, res.Ticks)
	nms := make([]string, 0, len(res.Counts))
	for nm := range res.Counts {
		nms = append(nms, nm)
	}
	sort.Strings(nms)
	for _, nm := range nms {
		fmt.Fprintf(w, "  %s: counts %v rates %.3f\n", nm, res.Counts[nm], res.Rates[nm])
	}
}

func readWts(nt *snn.Network, path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening weights: %w", err)
	}
	defer fp.Close()
	if err := nt.ReadWtsJSON(fp); err != nil {
		return fmt.Errorf("reading weights from %s: %w", path, err)
	}
	return nil
}

func writeWts(nt *snn.Network, path string) error {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating weights file: %w", err)
	}
	if err := nt.WriteWtsJSON(fp); err != nil {
		fp.Close()
		return fmt.Errorf("writing weights to %s: %w", path, err)
	}
	return fp.Close()
}
