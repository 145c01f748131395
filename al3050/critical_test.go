// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import (
	"runtime/debug"
	"sync"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio/gpiotest"
)

// gcPercent returns the current GC percent without changing it.
func gcPercent() int {
	p := debug.SetGCPercent(-1)
	debug.SetGCPercent(p)
	return p
}

func TestEnterCritical(t *testing.T) {
	orig := gcPercent()
	leave, err := enterCritical(0)
	if err != nil {
		t.Fatal(err)
	}
	if gc := gcPercent(); gc != -1 {
		t.Fatalf("garbage collector is running: %d", gc)
	}
	leave()
	if gc := gcPercent(); gc != orig {
		t.Fatalf("GC percent is %d, want %d", gc, orig)
	}
}

func TestEnterCritical_Overlap(t *testing.T) {
	orig := gcPercent()
	for _, firstOut := range []bool{true, false} {
		leave1, err := enterCritical(0)
		if err != nil {
			t.Fatal(err)
		}
		leave2, err := enterCritical(0)
		if err != nil {
			t.Fatal(err)
		}
		if firstOut {
			leave1()
		} else {
			leave2()
		}
		if gc := gcPercent(); gc != -1 {
			t.Fatalf("garbage collector resumed with a section still open: %d", gc)
		}
		if firstOut {
			leave2()
		} else {
			leave1()
		}
		if gc := gcPercent(); gc != orig {
			t.Fatalf("GC percent is %d, want %d", gc, orig)
		}
	}
}

// gate blocks the first Delay until it is opened.
type gate struct {
	once    sync.Once
	entered chan struct{}
	open    chan struct{}
}

func (g *gate) Delay(time.Duration) {
	g.once.Do(func() {
		close(g.entered)
		<-g.open
	})
}

func TestDev_Init_Overlap(t *testing.T) {
	orig := gcPercent()
	g := &gate{entered: make(chan struct{}), open: make(chan struct{})}
	d, err := New(&gpiotest.Pin{N: "GPIO3", Num: 3}, &Opts{Delayer: g})
	if err != nil {
		t.Fatal(err)
	}
	// Another device is in its section when d starts its own.
	leave, err := enterCritical(0)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error)
	go func() {
		done <- d.Init()
	}()
	<-g.entered
	leave()
	if gc := gcPercent(); gc != -1 {
		t.Fatalf("garbage collector resumed while d is transmitting: %d", gc)
	}
	close(g.open)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if gc := gcPercent(); gc != orig {
		t.Fatalf("GC percent is %d, want %d", gc, orig)
	}
}
