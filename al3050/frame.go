// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"
)

const (
	// Address is the single-wire device address of the AL3050.
	Address byte = 0x58
	// MaxBrightness is the highest brightness step.
	MaxBrightness = 31
	// BrightnessMask selects the brightness bits of the data byte.
	BrightnessMask = 0x1f
	// AckBit in the data byte requests an acknowledge (RFA).
	AckBit byte = 0x80
)

// Frame is a 16-bit single-wire command: the address byte followed by the
// data byte.
type Frame uint16

// NewFrame returns the command setting brightness. Values outside
// 0..MaxBrightness are truncated to their low 5 bits, like the chip does.
func NewFrame(brightness int, ack bool) Frame {
	data := byte(brightness & BrightnessMask)
	if ack {
		data |= AckBit
	}
	return Frame(uint16(Address)<<8 | uint16(data))
}

// Address returns the address byte.
func (f Frame) Address() byte {
	return byte(f >> 8)
}

// Data returns the data byte.
func (f Frame) Data() byte {
	return byte(f)
}

// Brightness returns the brightness step carried by the frame.
func (f Frame) Brightness() int {
	return int(f.Data() & BrightnessMask)
}

// Ack reports whether the frame requests an acknowledge.
func (f Frame) Ack() bool {
	return f.Data()&AckBit != 0
}

func (f Frame) String() string {
	return fmt.Sprintf("Frame{0x%02x, 0x%02x}", f.Address(), f.Data())
}

// Waveform returns the line levels that transmit the frame, from the start
// pulse to the terminal end-of-sequence.
func (f Frame) Waveform() Waveform {
	w := make(Waveform, 0, 36)
	w = append(w, Pulse{gpio.High, TStart})
	for i := 15; i >= 0; i-- {
		low := TLogic0
		if f&(1<<uint(i)) != 0 {
			low = TLogic1
		}
		w = append(w, Pulse{gpio.Low, low}, Pulse{gpio.High, TSlot - low})
		if i == 8 {
			// End of the address byte.
			w = append(w, Pulse{gpio.Low, TEOS}, Pulse{gpio.High, TStart})
		}
	}
	return append(w, Pulse{gpio.Low, TEOS})
}

// Pulse is a level held on the line for a duration. A zero Duration leaves
// the line at Level.
type Pulse struct {
	Level    gpio.Level
	Duration time.Duration
}

// Waveform is a sequence of pulses driven on the line.
type Waveform []Pulse

// DetectWaveform returns the reset and detection sequence that puts the chip
// in single-wire mode, ending with the line idle high.
func DetectWaveform() Waveform {
	return Waveform{
		{gpio.Low, TReset},
		{gpio.High, TDelay},
		{gpio.Low, TDetect},
		{gpio.High, 0},
	}
}

// Duration returns the total length of the waveform.
func (w Waveform) Duration() time.Duration {
	var d time.Duration
	for _, p := range w {
		d += p.Duration
	}
	return d
}

var errRaster = errors.New("al3050: waveform is not a multiple of the stream resolution")

// BitStream rasterizes the waveform at freq, MSB first. The last level is
// repeated to pad the stream to a whole number of bytes.
func (w Waveform) BitStream(freq physic.Frequency) (*gpiostream.BitStream, error) {
	if freq <= 0 {
		return nil, errRaster
	}
	period := freq.Period()
	n := 0
	for _, p := range w {
		if p.Duration%period != 0 {
			return nil, errRaster
		}
		n += int(p.Duration / period)
	}
	b := &gpiostream.BitStream{Bits: make([]byte, (n+7)/8), Freq: freq}
	i := 0
	last := gpio.Low
	for _, p := range w {
		for range int(p.Duration / period) {
			if p.Level == gpio.High {
				b.Bits[i/8] |= 0x80 >> uint(i%8)
			}
			i++
		}
		last = p.Level
	}
	for ; last == gpio.High && i < len(b.Bits)*8; i++ {
		b.Bits[i/8] |= 0x80 >> uint(i%8)
	}
	return b, nil
}
