// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/GermanBionicSystems/backlight/al3050"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultPin = "GPIO18"

// LoggingConfig selects the level and the encoding of the logs.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the merged configuration of the flags, the environment and the
// config file.
type Config struct {
	Pin      string        `mapstructure:"pin"`
	Ack      bool          `mapstructure:"ack"`
	Priority int           `mapstructure:"priority"`
	Stream   bool          `mapstructure:"stream"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// Opts returns the driver options.
func (c *Config) Opts() al3050.Opts {
	return al3050.Opts{Ack: c.Ack, Priority: c.Priority, Stream: c.Stream}
}

// flagKeys maps the persistent flags to config keys.
var flagKeys = map[string]string{
	"pin":        "pin",
	"ack":        "ack",
	"priority":   "priority",
	"stream":     "stream",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// loadConfig reads path if set, then AL3050_* environment variables, then the
// flags explicitly set on cmd.
func loadConfig(path string, cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	v.SetEnvPrefix("AL3050")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Priority < 0 || c.Priority > 99 {
		return nil, fmt.Errorf("priority %d is out of 0..99", c.Priority)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pin", defaultPin)
	v.SetDefault("ack", false)
	v.SetDefault("priority", 0)
	v.SetDefault("stream", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
