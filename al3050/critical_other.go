// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package al3050

import (
	"errors"
	"runtime"
)

func enterCritical(priority int) (func(), error) {
	runtime.LockOSThread()
	pauseGC()
	var err error
	if priority > 0 {
		err = errors.New("al3050: real-time priority is only supported on linux")
	}
	return func() {
		resumeGC()
		runtime.UnlockOSThread()
	}, err
}
