// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string

	// Set by the persistent pre-run of every command.
	cfg    *Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "al3050",
	Short: "AL3050 single-wire backlight tool",
	Long: `al3050 sets the brightness of an AL3050 LED backlight driver connected to a
GPIO line.

Every flag can also be set in a YAML config file (--config) or with an
AL3050_ environment variable, e.g. AL3050_PIN=GPIO12 or AL3050_LOGGING_LEVEL=debug.

The sim and trace commands need no hardware.`,
	Version:      "1.0.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(configFile, cmd)
		if err != nil {
			return err
		}
		l, err := newLogger(c.Logging)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringP("pin", "p", defaultPin, "GPIO line connected to CTRL")
	rootCmd.PersistentFlags().Bool("ack", false, "Request an acknowledge after each command")
	rootCmd.PersistentFlags().Int("priority", 0, "SCHED_FIFO priority during transfers, 0 to disable")
	rootCmd.PersistentFlags().Bool("stream", false, "Send frames with the gpio stream interface")
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "console", "console or json")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
