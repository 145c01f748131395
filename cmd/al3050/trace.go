// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/GermanBionicSystems/backlight/al3050"
	"github.com/GermanBionicSystems/backlight/scope"
	"github.com/spf13/cobra"
)

var (
	traceOut   string
	traceWidth int
)

var traceCmd = &cobra.Command{
	Use:   "trace <0-31>",
	Short: "Draw the waveform that sets a brightness as a PNG",
	Long: `Draw the detection sequence and the frame that sets the brightness, as they
are driven on the line, into a PNG timing diagram.

The --ack flag selects the frame requesting an acknowledge.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().StringVarP(&traceOut, "output", "o", "al3050.png", "PNG file to write")
	traceCmd.Flags().IntVar(&traceWidth, "width", 1200, "Width of the image in pixels")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	b, err := parseBrightness(args[0])
	if err != nil {
		return err
	}
	f := al3050.NewFrame(b, cfg.Ack)
	traces := []scope.Trace{
		{Label: "detect", Wave: al3050.DetectWaveform()},
		{Label: f.String(), Wave: f.Waveform()},
	}
	w, err := os.Create(traceOut)
	if err != nil {
		return err
	}
	if err := scope.WritePNG(w, traces, &scope.Opts{Width: traceWidth}); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, %s\n", traceOut, f, f.Waveform().Duration())
	return nil
}
