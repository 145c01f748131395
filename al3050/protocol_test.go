// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/gpio"
)

type record struct {
	op    string
	level gpio.Level
	d     time.Duration
	w     Waveform
}

type fakeWire struct {
	records []record
	// samples are returned by sense in order, then High.
	samples []gpio.Level
	err     error
}

func (f *fakeWire) out(l gpio.Level) {
	f.records = append(f.records, record{op: "out", level: l})
}

func (f *fakeWire) hold(d time.Duration) {
	f.records = append(f.records, record{op: "hold", d: d})
}

func (f *fakeWire) play(w Waveform) {
	f.records = append(f.records, record{op: "play", w: w})
}

func (f *fakeWire) release() {
	f.records = append(f.records, record{op: "release"})
}

func (f *fakeWire) sense() gpio.Level {
	f.records = append(f.records, record{op: "sense"})
	if len(f.samples) == 0 {
		return gpio.High
	}
	l := f.samples[0]
	f.samples = f.samples[1:]
	return l
}

func (f *fakeWire) result() error {
	err := f.err
	f.err = nil
	return err
}

func diffRecords(t *testing.T, got, want []record) {
	t.Helper()
	if diff := cmp.Diff(got, want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Fatalf("records difference (-got +want):\n%s", diff)
	}
}

func TestDetect(t *testing.T) {
	w := &fakeWire{}
	detect(w)
	diffRecords(t, w.records, []record{
		{op: "out", level: gpio.Low},
		{op: "hold", d: 4 * time.Millisecond},
		{op: "out", level: gpio.High},
		{op: "hold", d: 100 * time.Microsecond},
		{op: "out", level: gpio.Low},
		{op: "hold", d: 450 * time.Microsecond},
		{op: "out", level: gpio.High},
		{op: "hold"},
	})
}

func TestTransmit(t *testing.T) {
	f := NewFrame(20, false)
	w := &fakeWire{}
	if err := transmit(w, f); err != nil {
		t.Fatal(err)
	}
	diffRecords(t, w.records, []record{
		{op: "play", w: f.Waveform()},
		{op: "out", level: gpio.High},
	})
}

func TestTransmit_Ack(t *testing.T) {
	f := NewFrame(20, true)
	w := &fakeWire{samples: []gpio.Level{gpio.High, gpio.High, gpio.Low}}
	if err := transmit(w, f); err != nil {
		t.Fatal(err)
	}
	diffRecords(t, w.records, []record{
		{op: "play", w: f.Waveform()},
		{op: "release"},
		{op: "sense"},
		{op: "hold", d: 3500 * time.Nanosecond},
		{op: "sense"},
		{op: "hold", d: 3500 * time.Nanosecond},
		{op: "sense"},
		// The rest of the window.
		{op: "hold", d: 893 * time.Microsecond},
		{op: "out", level: gpio.High},
	})
}

func TestTransmit_AckImmediate(t *testing.T) {
	f := NewFrame(3, true)
	w := &fakeWire{samples: []gpio.Level{gpio.Low}}
	if err := transmit(w, f); err != nil {
		t.Fatal(err)
	}
	diffRecords(t, w.records, []record{
		{op: "play", w: f.Waveform()},
		{op: "release"},
		{op: "sense"},
		{op: "hold", d: TAckWindow},
		{op: "out", level: gpio.High},
	})
}

func TestTransmit_AckTimeout(t *testing.T) {
	f := NewFrame(20, true)
	w := &fakeWire{}
	if err := transmit(w, f); !errors.Is(err, ErrAckTimeout) {
		t.Fatalf("transmit() = %v", err)
	}
	senses := 0
	var waited time.Duration
	for _, r := range w.records {
		switch r.op {
		case "sense":
			senses++
		case "hold":
			waited += r.d
		case "out":
			t.Fatal("line must stay released")
		}
	}
	// ceil(900µs / 3.5µs)
	if senses != 258 {
		t.Fatalf("sampled %d times", senses)
	}
	if waited < TAckWindow || waited >= TAckWindow+TAckPoll {
		t.Fatalf("waited %s", waited)
	}
	if last := w.records[len(w.records)-1]; last.op != "hold" {
		t.Fatalf("last record is %v", last)
	}
}
