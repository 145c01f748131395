// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package al3050 controls the Diodes AL3050 LED backlight driver over its
// single-wire interface.
//
// The chip is addressed through one GPIO line. After a timed detection
// sequence the line carries 16-bit commands where each bit is encoded by the
// width of a low pulse inside a fixed 13µs slot. The chip can optionally
// acknowledge a command by pulling the released line low.
//
// The microsecond pulses are generated by busy-waiting on the calling
// goroutine, which is pinned to its OS thread for the duration of a command.
// Use Opts.Priority to also run that thread with SCHED_FIFO, or Opts.Stream
// to hand the frame to a pin that implements gpiostream.PinOut.
//
// # Datasheet
//
// https://www.diodes.com/assets/Datasheets/AL3050.pdf
package al3050
