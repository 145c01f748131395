// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import (
	"errors"

	"periph.io/x/conn/v3/gpio"
)

// ErrAckTimeout is returned by transmit when the chip did not pull the line
// low within TAckWindow. Dev recovers from it and never returns it.
var ErrAckTimeout = errors.New("al3050: no acknowledge")

// detect runs the reset and detection sequence. The chip gives no feedback
// during it.
func detect(w wire) {
	for _, p := range DetectWaveform() {
		w.out(p.Level)
		w.hold(p.Duration)
	}
}

// transmit sends f. When f requests an acknowledge the line is released and
// sampled every TAckPoll. On success the rest of TAckWindow is waited out and
// the line is driven high. On ErrAckTimeout the line is left released.
func transmit(w wire, f Frame) error {
	w.play(f.Waveform())
	if !f.Ack() {
		w.out(gpio.High)
		return nil
	}
	w.release()
	left := TAckWindow
	// The last slice may run past TAckWindow, up to one TAckPoll.
	for left > 0 && w.sense() == gpio.High {
		w.hold(TAckPoll)
		left -= TAckPoll
	}
	if left <= 0 {
		return ErrAckTimeout
	}
	w.hold(left)
	w.out(gpio.High)
	return nil
}
