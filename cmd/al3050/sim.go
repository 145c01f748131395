// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/GermanBionicSystems/backlight/al3050"
	"github.com/GermanBionicSystems/backlight/al3050/al3050test"
	"github.com/GermanBionicSystems/backlight/screen1d"
	"github.com/spf13/cobra"
)

var simNoAck bool

var simCmd = &cobra.Command{
	Use:   "sim [step...]",
	Short: "Run the driver against a simulated chip",
	Long: `Run the driver against a simulated line and chip, and show what the chip
received after each step.

A step is a brightness (0-31), "off" to power down or "blank" to blank the
backlight. Without steps, the sequence 31 16 off 0 8 is used.

Timings run on a virtual clock; the command returns immediately.`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().BoolVar(&simNoAck, "no-ack", false, "The simulated chip never acknowledges")
	rootCmd.AddCommand(simCmd)
}

func runSim(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"31", "16", "off", "0", "8"}
	}
	type step struct {
		power, blank bool
		b            int
	}
	steps := make([]step, 0, len(args))
	for _, a := range args {
		switch a {
		case "off":
			steps = append(steps, step{})
		case "blank":
			steps = append(steps, step{power: true, blank: true})
		default:
			b, err := parseBrightness(a)
			if err != nil {
				return err
			}
			steps = append(steps, step{power: true, b: b})
		}
	}

	l := al3050test.NewLine("SIM")
	l.Silent = simNoAck
	opts := cfg.Opts()
	opts.Priority = 0
	opts.Logger = logger
	dev, err := al3050.New(l, &opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	var bar io.Writer
	if out != os.Stdout {
		bar = out
	}
	scr := screen1d.New(&screen1d.Opts{Max: al3050.MaxBrightness, W: bar})

	if err := dev.Init(); err != nil {
		return err
	}
	fmt.Fprintf(out, "init: %d reset, %s\n", l.Resets(), l.Elapsed())
	for i, s := range steps {
		l.Clear()
		start := l.Elapsed()
		got, err := dev.Apply(s.power, s.b, s.blank)
		if err != nil {
			return err
		}
		if err := scr.Set(got); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d: %s -> %s %d", i+1, args[i], dev.State(), got)
		if n := l.Resets(); n != 0 {
			fmt.Fprintf(out, ", %d reset", n)
		}
		for _, f := range l.Frames() {
			fmt.Fprintf(out, ", %s", al3050.Frame(f))
		}
		if n := l.Acks(); n != 0 {
			fmt.Fprintf(out, ", %d ack", n)
		}
		fmt.Fprintf(out, ", %s\n", l.Elapsed()-start)
	}
	return scr.Halt()
}
