// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// snnrun builds a spiking network from a YAML topology file and runs it
// on random input spike trains.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/emer/snn/netconfig"
	"github.com/emer/snn/snn"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snnrun",
		Short: "Run spiking neural networks from topology files",
		Long: `snnrun builds networks of leaky integrate-and-fire layers and
plastic synapses from a YAML topology file, and runs them tick by tick.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(
		newVersionCmd(),
		newValidateCmd(),
		newReportCmd(),
		newRunCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "snnrun version %s\n", version)
			}
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Check that a topology file builds a valid network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nt, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d layers, %d synapses)\n", nt.Nm, nt.NLayers(), len(nt.Syns))
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <config.yaml>",
		Short: "Print the structure and memory use of a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nt, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, nt.String())
			fmt.Fprint(out, nt.SizeReport())
			return nil
		},
	}
}

func loadNetwork(path string) (*snn.Network, error) {
	cfg, err := netconfig.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	nt, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building network from %s: %w", path, err)
	}
	return nt, nil
}
