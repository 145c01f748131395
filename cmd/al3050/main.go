// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// al3050 drives an AL3050 backlight from the command line.
//
// It can also simulate the chip and draw the waveforms it sends, which needs
// no hardware.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
