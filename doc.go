// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package backlight is a container for the AL3050 single-wire backlight
// driver and its tools.
//
// See al3050 for the driver, al3050/al3050test to test code using it without
// the hardware and cmd/al3050 for the command line tool.
package backlight
