// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	goio "io"
	"os"

	"github.com/Bezzalel1/pre-quantum-field-theory/bvp"
	"github.com/Bezzalel1/pre-quantum-field-theory/inp"
	"github.com/Bezzalel1/pre-quantum-field-theory/out"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// options holds the command-line flags
type options struct {
	method  string // overrides data.method
	verbose bool   // debug logging
	plot    bool   // save figures into the output directory
	compare bool   // run shooting and collocation
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd returns the pqf command
func newRootCmd() *cobra.Command {
	var opts options
	var logger *zap.Logger
	cmd := &cobra.Command{
		Use:   "pqf [file.sim]",
		Short: "Radial scalar-field boundary-value solver",
		Long: `pqf computes the radial profile φ(r) of a scalar field sourced by a matter
distribution by shooting (with continuation on the coupling scale) or by
collocation, and reports the phase-valve radius where χ(r) crosses the threshold.

Without a file, the baseline configuration is solved. Files ending in .yaml or .yml
are read as YAML; anything else as JSON.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, logger)
		},
	}
	cmd.Flags().StringVarP(&opts.method, "method", "m", "", `solving strategy: "shooting" or "collocation" (overrides the file)`)
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVarP(&opts.plot, "plot", "p", false, "save figures into the output directory")
	cmd.Flags().BoolVarP(&opts.compare, "compare", "c", false, "run shooting and collocation and compare the profiles")
	return cmd
}

// run reads the input, solves and reports
func run(cmd *cobra.Command, args []string, opts options, logger *zap.Logger) (err error) {

	// input
	sim := inp.Default()
	if len(args) > 0 {
		sim, err = inp.ReadSim(args[0])
		if err != nil {
			return
		}
	}
	if opts.method != "" {
		sim.Data.Method = opts.method
		if err = sim.PostProcess(); err != nil {
			return
		}
	}

	// message
	w := cmd.OutOrStdout()
	con := &out.Console{W: w}
	fmt.Fprintf(w, "pqf: %s (%s)\n", sim.Key, sim.Data.Desc)

	// compare strategies
	if opts.compare {
		maxRel, sh, co, err := bvp.Compare(sim, logger, con, 1e-3)
		if err != nil {
			return err
		}
		fmt.Fprint(w, io.Sf("phi(0): shooting = %.6f  collocation = %.6f\n", sh.Profile.Center, co.Profile.Center))
		fmt.Fprint(w, io.Sf("max relative difference of phi = %.3e\n", maxRel))
		if opts.plot {
			return plot(w, sim, sh, co)
		}
		return nil
	}

	// solve
	m, err := bvp.NewMain(sim, logger, con)
	if err != nil {
		return
	}
	err = m.Run()
	if err != nil {
		return
	}
	if opts.plot {
		return plot(w, sim, m.Summary)
	}
	return
}

// plot saves figures of each summary
func plot(w goio.Writer, sim *inp.Simulation, sums ...*bvp.Summary) error {
	for _, sum := range sums {
		fnphi, fnchi, err := out.Plot(sim.DirOut, sim.Key+"_"+sum.Method, sum)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "figures saved: %s %s\n", fnphi, fnchi)
	}
	return nil
}
