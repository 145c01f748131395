// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

func TestNewFrame(t *testing.T) {
	for _, tc := range []struct {
		brightness int
		ack        bool
		want       Frame
	}{
		{0, false, 0x5800},
		{31, false, 0x581f},
		{31, true, 0x589f},
		{20, true, 0x5894},
		{32, false, 0x5800},
		{33, true, 0x5881},
		{-1, false, 0x581f},
		{255, false, 0x581f},
	} {
		got := NewFrame(tc.brightness, tc.ack)
		if got != tc.want {
			t.Errorf("NewFrame(%d, %t) = %s, want %s", tc.brightness, tc.ack, got, tc.want)
		}
		if got.Address() != Address {
			t.Errorf("%s.Address() = %#x", got, got.Address())
		}
		if got.Ack() != tc.ack {
			t.Errorf("%s.Ack() = %t", got, got.Ack())
		}
		if got.Brightness() != tc.brightness&BrightnessMask {
			t.Errorf("%s.Brightness() = %d", got, got.Brightness())
		}
	}
}

func TestNewFrame_Truncation(t *testing.T) {
	for b := -100; b < 100; b++ {
		for _, ack := range []bool{false, true} {
			f := NewFrame(b, ack)
			if g := NewFrame(f.Brightness(), ack); g != f {
				t.Fatalf("NewFrame(%d) = %s but NewFrame(%d) = %s", b, f, f.Brightness(), g)
			}
			if f.Data()&^(BrightnessMask|AckBit) != 0 {
				t.Fatalf("%s: reserved bits are set", f)
			}
		}
	}
}

func TestFrame_String(t *testing.T) {
	if s := NewFrame(20, true).String(); s != "Frame{0x58, 0x94}" {
		t.Fatal(s)
	}
}

// decode reads the waveform back, checking the timings on the way.
func decode(t *testing.T, w Waveform) Frame {
	t.Helper()
	if w[0] != (Pulse{gpio.High, TStart}) {
		t.Fatalf("first pulse is %v", w[0])
	}
	if w[len(w)-1] != (Pulse{gpio.Low, TEOS}) {
		t.Fatalf("last pulse is %v", w[len(w)-1])
	}
	var f Frame
	gaps := 0
	bits := 0
	for i := 1; i < len(w)-1; i += 2 {
		low, high := w[i], w[i+1]
		if low.Level != gpio.Low || high.Level != gpio.High {
			t.Fatalf("pulses %d/%d are %v %v", i, i+1, low, high)
		}
		if low == (Pulse{gpio.Low, TEOS}) && high == (Pulse{gpio.High, TStart}) && bits == 8 && gaps == 0 {
			gaps++
			continue
		}
		if low.Duration+high.Duration != 13*time.Microsecond {
			t.Fatalf("bit %d slot is %s", bits, low.Duration+high.Duration)
		}
		f <<= 1
		switch low.Duration {
		case 4000 * time.Nanosecond:
			f |= 1
		case 9000 * time.Nanosecond:
		default:
			t.Fatalf("bit %d low phase is %s", bits, low.Duration)
		}
		bits++
	}
	if bits != 16 || gaps != 1 {
		t.Fatalf("got %d bits and %d gaps", bits, gaps)
	}
	return f
}

func TestFrame_Waveform(t *testing.T) {
	for b := 0; b <= MaxBrightness; b++ {
		for _, ack := range []bool{false, true} {
			f := NewFrame(b, ack)
			w := f.Waveform()
			if len(w) != 36 {
				t.Fatalf("%s: %d pulses", f, len(w))
			}
			if d := w.Duration(); d != 224*time.Microsecond {
				t.Fatalf("%s: lasts %s", f, d)
			}
			if got := decode(t, w); got != f {
				t.Fatalf("decoded %s, want %s", got, f)
			}
		}
	}
}

func TestDetectWaveform(t *testing.T) {
	want := Waveform{
		{gpio.Low, 4 * time.Millisecond},
		{gpio.High, 100 * time.Microsecond},
		{gpio.Low, 450 * time.Microsecond},
		{gpio.High, 0},
	}
	if diff := cmp.Diff(DetectWaveform(), want); diff != "" {
		t.Fatalf("DetectWaveform() difference (-got +want):\n%s", diff)
	}
	if d := DetectWaveform().Duration(); d != 4550*time.Microsecond {
		t.Fatal(d)
	}
}

func TestWaveform_BitStream(t *testing.T) {
	f := NewFrame(31, false)
	b, err := f.Waveform().BitStream(physic.MegaHertz)
	if err != nil {
		t.Fatal(err)
	}
	if b.Freq != physic.MegaHertz || b.LSBF {
		t.Fatalf("%#v", b)
	}
	if len(b.Bits) != 28 {
		t.Fatalf("%d bytes", len(b.Bits))
	}
	// Start, then the first 0 bit: 9µs low, 4µs high.
	if b.Bits[0] != 0xf0 || b.Bits[1] != 0x07 {
		t.Fatalf("stream starts with %#02x %#02x", b.Bits[0], b.Bits[1])
	}
	// Terminal end of sequence.
	if b.Bits[27]&0x0f != 0 {
		t.Fatalf("stream ends with %#02x", b.Bits[27])
	}
	var high time.Duration
	for _, p := range f.Waveform() {
		if p.Level == gpio.High {
			high += p.Duration
		}
	}
	ones := 0
	for _, x := range b.Bits {
		for ; x != 0; x &= x - 1 {
			ones++
		}
	}
	if time.Duration(ones)*time.Microsecond != high {
		t.Fatalf("%d high bits, want %s", ones, high)
	}
}

func TestWaveform_BitStream_Padding(t *testing.T) {
	b, err := Waveform{{gpio.Low, 2 * time.Microsecond}, {gpio.High, 3 * time.Microsecond}}.BitStream(physic.MegaHertz)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b.Bits, []byte{0x3f}); diff != "" {
		t.Fatalf("Bits difference (-got +want):\n%s", diff)
	}
	b, err = Waveform{{gpio.High, 2 * time.Microsecond}, {gpio.Low, 3 * time.Microsecond}}.BitStream(physic.MegaHertz)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b.Bits, []byte{0xc0}); diff != "" {
		t.Fatalf("Bits difference (-got +want):\n%s", diff)
	}
}

func TestWaveform_BitStream_Error(t *testing.T) {
	if _, err := NewFrame(0, false).Waveform().BitStream(500 * physic.KiloHertz); err == nil {
		t.Fatal("9µs can't be rasterized at 2µs")
	}
	if _, err := NewFrame(0, false).Waveform().BitStream(0); err == nil {
		t.Fatal("expected error")
	}
}
