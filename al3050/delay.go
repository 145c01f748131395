// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Delayer holds the line in its current state.
//
// Delay must not return before d has elapsed and should not overshoot by
// more than a fraction of a microsecond for durations below TReset.
//
// A pin passed to New that implements Delayer is used as its own time base.
type Delayer interface {
	Delay(d time.Duration)
}

// spin busy-waits on the monotonic clock. Millisecond holds only need a
// lower bound and are slept instead.
type spin struct {
	clock clockwork.Clock
}

func (s spin) Delay(d time.Duration) {
	if d >= time.Millisecond {
		s.clock.Sleep(d)
		return
	}
	start := s.clock.Now()
	for s.clock.Since(start) < d {
	}
}
