// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/GermanBionicSystems/backlight/al3050"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"periph.io/x/host/v3"
)

var setCmd = &cobra.Command{
	Use:   "set <0-31>",
	Short: "Reset the chip and set the brightness",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := parseBrightness(args[0])
		if err != nil {
			return err
		}
		return light(cmd, b)
	},
}

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Reset the chip and set the maximum brightness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return light(cmd, al3050.MaxBrightness)
	},
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Pull the line low to power the backlight down",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDev()
		if err != nil {
			return err
		}
		if err := dev.Halt(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: off\n", dev)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd, onCmd, offCmd)
}

func parseBrightness(s string) (int, error) {
	b, err := strconv.Atoi(s)
	if err != nil || b < 0 || b > al3050.MaxBrightness {
		return 0, fmt.Errorf("brightness must be 0..%d, got %q", al3050.MaxBrightness, s)
	}
	return b, nil
}

func light(cmd *cobra.Command, b int) error {
	dev, err := openDev()
	if err != nil {
		return err
	}
	if err := dev.Init(); err != nil {
		return err
	}
	got, err := dev.Apply(true, b, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: brightness %d/%d\n", dev, got, al3050.MaxBrightness)
	return nil
}

// openDev loads the host drivers and opens the configured line.
func openDev() (*al3050.Dev, error) {
	opts := cfg.Opts()
	opts.Logger = logger
	dev, err := al3050.Open(cfg.Pin, &opts)
	if errors.Is(err, al3050.ErrLineDeferred) {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("%w: %w", al3050.ErrLineDeferred, err)
		}
		dev, err = al3050.Open(cfg.Pin, &opts)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("line opened", zap.String("pin", cfg.Pin), zap.Bool("ack", opts.Ack), zap.Int("priority", opts.Priority))
	return dev, nil
}
