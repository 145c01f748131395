// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import (
	"runtime/debug"
	"sync"
)

// gcPause counts the critical sections open in the process. The collector
// setting is global, so it is saved when the first one opens and restored
// when the last one closes.
var gcPause struct {
	sync.Mutex
	n    int
	prev int
}

func pauseGC() {
	gcPause.Lock()
	defer gcPause.Unlock()
	if gcPause.n == 0 {
		gcPause.prev = debug.SetGCPercent(-1)
	}
	gcPause.n++
}

func resumeGC() {
	gcPause.Lock()
	defer gcPause.Unlock()
	gcPause.n--
	if gcPause.n == 0 {
		debug.SetGCPercent(gcPause.prev)
	}
}
