// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package al3050test is meant to be used to test code driving an AL3050
// without the hardware.
//
// Line is a fake gpio pin that runs on virtual time. It records every level
// it was driven to and decodes the traffic the way the chip does, so tests
// can look at the resets and the frames received.
package al3050test

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Thresholds used by the chip model to classify low pulses.
const (
	// ShutdownLow is the low time after which the chip is powered down.
	ShutdownLow = 2500 * time.Microsecond
	// DetectLow is the low time after which a powered down chip enters
	// single-wire mode.
	DetectLow = 260 * time.Microsecond
	// BitLowThreshold separates the low phase of a 1 from the one of a 0.
	BitLowThreshold = 6500 * time.Nanosecond
)

// Segment is a span of time during which the line did not change.
type Segment struct {
	Level    gpio.Level
	Duration time.Duration
	// Released is true when the pin was an input. Level is then the idle
	// level of the line.
	Released bool
}

func (s Segment) String() string {
	if s.Released {
		return fmt.Sprintf("Z %s", s.Duration)
	}
	return fmt.Sprintf("%s %s", s.Level, s.Duration)
}

// Line implements gpio.PinIO, gpiostream.PinOut and al3050.Delayer.
//
// Delay advances the virtual clock; nothing ever sleeps.
type Line struct {
	gpiotest.Pin

	// Silent makes the chip ignore acknowledge requests.
	Silent bool
	// AckAfter is the delay between the end of a frame and the acknowledge.
	AckAfter time.Duration
	// AckFor is how long the chip pulls the line low to acknowledge.
	AckFor time.Duration

	mu       sync.Mutex
	clock    clockwork.FakeClock
	start    time.Time
	level    gpio.Level
	released bool
	driven   bool
	segments []Segment
	chip     chip
}

// NewLine returns a Line named name. The line starts low, like a pin nobody
// configured yet, and the chip starts powered down.
func NewLine(name string) *Line {
	c := clockwork.NewFakeClockAt(time.Unix(0, 0))
	l := &Line{
		Pin:      gpiotest.Pin{N: name, Num: -1, Fn: "GPIO", Clock: c},
		AckAfter: 10 * time.Microsecond,
		AckFor:   20 * time.Microsecond,
		clock:    c,
	}
	l.start = c.Now()
	return l
}

// In implements gpio.PinIn.
//
// The line is pulled up; released, it reads high unless the chip pulls it
// low.
func (l *Line) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return errors.New("al3050test: edges are not supported")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.change(gpio.High, true)
	return nil
}

// Read implements gpio.PinIn.
func (l *Line) Read() gpio.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released && l.chip.acking(l.clock.Now()) {
		return gpio.Low
	}
	return l.level
}

// Out implements gpio.PinOut.
func (l *Line) Out(level gpio.Level) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.change(level, false)
	l.driven = true
	return nil
}

// StreamOut implements gpiostream.PinOut.
//
// Only *gpiostream.BitStream is supported. The line keeps the level of the
// last bit.
func (l *Line) StreamOut(s gpiostream.Stream) error {
	b, ok := s.(*gpiostream.BitStream)
	if !ok {
		return fmt.Errorf("al3050test: unsupported stream type %T", s)
	}
	if b.Freq <= 0 {
		return errors.New("al3050test: stream frequency is not set")
	}
	period := b.Freq.Period()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.driven = true
	for i := 0; i < len(b.Bits)*8; i++ {
		mask := byte(0x80) >> uint(i%8)
		if b.LSBF {
			mask = 1 << uint(i%8)
		}
		level := gpio.Level(b.Bits[i/8]&mask != 0)
		l.change(level, false)
		l.clock.Advance(period)
	}
	return nil
}

// Delay advances the virtual clock by d.
func (l *Line) Delay(d time.Duration) {
	l.clock.Advance(d)
}

// Level returns the level the line is at. It is high while released.
func (l *Line) Level() gpio.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Driven reports whether the pin is an output that was driven at least once.
func (l *Line) Driven() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.driven && !l.released
}

// Segments returns the segments completed since the last call to Clear.
func (l *Line) Segments() []Segment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Segment(nil), l.segments...)
}

// Frames returns the 16-bit commands decoded by the chip since the last call
// to Clear.
func (l *Line) Frames() []uint16 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]uint16(nil), l.chip.frames...)
}

// Resets returns how many times the chip entered single-wire mode since the
// last call to Clear.
func (l *Line) Resets() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chip.resets
}

// Acks returns how many acknowledges the chip sent since the last call to
// Clear.
func (l *Line) Acks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chip.acks
}

// Ready reports whether the chip is in single-wire mode.
func (l *Line) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chip.state == chipReady
}

// Elapsed returns the virtual time since the line was created.
func (l *Line) Elapsed() time.Duration {
	return l.clock.Since(time.Unix(0, 0))
}

// Clear forgets the recorded segments, frames and counters. The chip keeps
// its state.
func (l *Line) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.segments = nil
	l.chip.frames = nil
	l.chip.resets = 0
	l.chip.acks = 0
}

// change closes the current segment when the line changes. Must be called
// with mu held.
func (l *Line) change(level gpio.Level, released bool) {
	if level == l.level && released == l.released {
		return
	}
	now := l.clock.Now()
	s := Segment{Level: l.level, Duration: now.Sub(l.start), Released: l.released}
	if s.Duration > 0 {
		l.segments = append(l.segments, s)
		l.chip.feed(s, now, l)
	}
	if !released {
		l.chip.cancelAck()
	}
	l.level = level
	l.released = released
	l.start = now
}

type chipState int

const (
	chipOff chipState = iota
	chipDetect
	chipReady
)

// chip decodes the traffic on the line.
type chip struct {
	state chipState
	// n is the number of bits received, v their value.
	n   int
	v   uint16
	gap bool

	frames []uint16
	resets int
	acks   int

	ackStart time.Time
	ackEnd   time.Time
}

// feed consumes a completed segment that ended at now.
func (c *chip) feed(s Segment, now time.Time, l *Line) {
	if s.Released || s.Level == gpio.High {
		return
	}
	d := s.Duration
	switch {
	case d >= ShutdownLow:
		c.state = chipDetect
		c.abort()
		return
	case c.state == chipOff:
		return
	case d >= DetectLow:
		if c.state == chipDetect {
			c.resets++
		}
		c.state = chipReady
		c.abort()
		return
	case c.state != chipReady:
		return
	}
	if (c.n == 8 && !c.gap) || c.n == 16 {
		// End of sequence. A 0 bit in its place breaks the frame.
		if d >= BitLowThreshold {
			c.abort()
			return
		}
		if c.n == 8 {
			c.gap = true
			return
		}
		c.frames = append(c.frames, c.v)
		if c.v&0x80 != 0 && !l.Silent {
			c.acks++
			c.ackStart = now.Add(l.AckAfter)
			c.ackEnd = c.ackStart.Add(l.AckFor)
		}
		c.abort()
		return
	}
	c.v <<= 1
	if d < BitLowThreshold {
		c.v |= 1
	}
	c.n++
}

// abort drops the partially received frame.
func (c *chip) abort() {
	c.n, c.v, c.gap = 0, 0, false
}

func (c *chip) acking(now time.Time) bool {
	return !now.Before(c.ackStart) && now.Before(c.ackEnd)
}

func (c *chip) cancelAck() {
	c.ackStart, c.ackEnd = time.Time{}, time.Time{}
}
