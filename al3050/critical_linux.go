// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package al3050

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// enterCritical pins the calling goroutine to its thread and pauses the
// garbage collector. With priority > 0 the thread also runs SCHED_FIFO at
// that priority, which needs CAP_SYS_NICE.
//
// The returned func restores everything. A failure to raise the priority is
// reported but the section is still entered.
func enterCritical(priority int) (func(), error) {
	runtime.LockOSThread()
	pauseGC()
	var prev *unix.SchedAttr
	var err error
	if priority > 0 {
		if prev, err = unix.SchedGetAttr(0, 0); err == nil {
			attr := unix.SchedAttr{Policy: unix.SCHED_FIFO, Priority: uint32(priority)}
			if err = unix.SchedSetAttr(0, &attr, 0); err != nil {
				prev = nil
			}
		}
	}
	return func() {
		if prev != nil {
			_ = unix.SchedSetAttr(0, prev, 0)
		}
		resumeGC()
		runtime.UnlockOSThread()
	}, err
}
