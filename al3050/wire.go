// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import (
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"
)

// streamFreq is the resolution used when a frame is streamed. Every frame
// timing is a whole number of microseconds.
const streamFreq = physic.MegaHertz

// wire is what the sequencer and the protocol engine drive.
type wire interface {
	out(l gpio.Level)
	hold(d time.Duration)
	// play drives a complete frame waveform.
	play(w Waveform)
	// release switches the line to input so the chip can pull it low.
	release()
	sense() gpio.Level
	// result returns and clears the first I/O error since the last call.
	result() error
}

// pinWire drives a gpio.PinIO. The first error is sticky: once a pin call
// failed, the following ones are skipped until result is called.
type pinWire struct {
	p     gpio.PinIO
	s     gpiostream.PinOut
	delay Delayer
	err   error
}

func (w *pinWire) out(l gpio.Level) {
	if w.err != nil {
		return
	}
	w.err = w.p.Out(l)
}

func (w *pinWire) hold(d time.Duration) {
	if w.err != nil || d <= 0 {
		return
	}
	w.delay.Delay(d)
}

func (w *pinWire) play(wf Waveform) {
	if w.err != nil {
		return
	}
	if w.s != nil {
		b, err := wf.BitStream(streamFreq)
		if err == nil {
			w.err = w.s.StreamOut(b)
			return
		}
	}
	for _, p := range wf {
		w.out(p.Level)
		w.hold(p.Duration)
	}
}

func (w *pinWire) release() {
	if w.err != nil {
		return
	}
	w.err = w.p.In(gpio.PullNoChange, gpio.NoEdge)
}

func (w *pinWire) sense() gpio.Level {
	if w.err != nil {
		return gpio.High
	}
	return w.p.Read()
}

func (w *pinWire) result() error {
	err := w.err
	w.err = nil
	return err
}
