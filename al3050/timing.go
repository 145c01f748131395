// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import "time"

// Single-wire timings, datasheet p.9.
const (
	// TReset is the low time that powers the chip down before detection.
	TReset = 4 * time.Millisecond
	// TDelay is the high time between the reset and the detection window.
	TDelay = 100 * time.Microsecond
	// TDetect is the low time the chip uses to enter single-wire mode.
	TDetect = 450 * time.Microsecond
	// TStart is the high time before the address byte and the data byte.
	TStart = 4 * time.Microsecond
	// TEOS is the low time after the address byte and the data byte.
	TEOS = 4 * time.Microsecond
	// TLogic1 is the low phase of a 1 bit.
	TLogic1 = 4 * time.Microsecond
	// TLogic0 is the low phase of a 0 bit.
	TLogic0 = 9 * time.Microsecond
	// TSlot is the total length of a bit.
	TSlot = TLogic1 + TLogic0
	// TAckPoll is the interval between two samples of the acknowledge.
	TAckPoll = 3500 * time.Nanosecond
	// TAckWindow is how long the chip has to acknowledge a command.
	TAckWindow = 900 * time.Microsecond
)
