// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package al3050

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiostream"
)

var (
	// ErrLineDeferred is returned by Open when no GPIO driver registered any
	// pin yet. Call host.Init() or retry later.
	ErrLineDeferred = errors.New("al3050: gpio line not available yet")

	// ErrLineNotFound is returned when the gpio line is missing or invalid.
	ErrLineNotFound = errors.New("al3050: gpio line is missing or invalid")

	// ErrStreamUnsupported is returned by New when Opts.Stream is set and the
	// pin does not implement gpiostream.PinOut.
	ErrStreamUnsupported = errors.New("al3050: pin must implement gpiostream.PinOut")
)

// PowerState is the power state of the backlight.
type PowerState int

const (
	// Uninitialized is the state of a Dev before Init. It behaves like
	// Blanked.
	Uninitialized PowerState = iota
	// Blanked means the line is held low and the chip is powered down.
	Blanked
	// Active means the chip is in single-wire mode and follows requests.
	Active
)

func (s PowerState) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Blanked:
		return "Blanked"
	case Active:
		return "Active"
	default:
		return fmt.Sprintf("PowerState(%d)", int(s))
	}
}

// Opts contains the options to pass to the constructor.
type Opts struct {
	// Ack requests an acknowledge from the chip after each command (RFA).
	Ack bool
	// Priority, when > 0, runs the transfers with SCHED_FIFO at this
	// priority.
	Priority int
	// Stream sends the frames with gpiostream.PinOut.StreamOut.
	Stream bool
	// Delayer overrides the time base. Defaults to a busy-wait.
	Delayer Delayer
	// Logger receives the acknowledge warnings. Defaults to no logging.
	Logger *zap.Logger
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{}

// Dev is a handle to an AL3050 on a single-wire line.
//
// Dev owns the line exclusively.
type Dev struct {
	mu   sync.Mutex
	p    gpio.PinIO
	w    wire
	opts Opts
	log  *zap.Logger

	state      PowerState
	brightness int
	last       int
	// resetPending is set when the chip failed to acknowledge and must be
	// taken through detection again.
	resetPending bool
	warnedPrio   bool
}

// New returns a Dev driving p. The line is not touched until Init or Apply.
func New(p gpio.PinIO, opts *Opts) (*Dev, error) {
	if p == nil || p == gpio.INVALID {
		return nil, ErrLineNotFound
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	w := &pinWire{p: p, delay: opts.Delayer}
	if w.delay == nil {
		if dl, ok := p.(Delayer); ok {
			w.delay = dl
		} else {
			w.delay = spin{clock: clockwork.NewRealClock()}
		}
	}
	if opts.Stream {
		s, ok := p.(gpiostream.PinOut)
		if !ok {
			return nil, ErrStreamUnsupported
		}
		w.s = s
	}
	d := &Dev{p: p, w: w, opts: *opts, log: opts.Logger, last: MaxBrightness}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	return d, nil
}

// Open looks up the line by name in gpioreg and returns a Dev driving it.
//
// ErrLineDeferred means no pin was registered at all, which happens before
// host.Init() ran; it is worth retrying. ErrLineNotFound is permanent.
func Open(name string, opts *Opts) (*Dev, error) {
	if len(gpioreg.All()) == 0 {
		return nil, ErrLineDeferred
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrLineNotFound, name)
	}
	return New(p, opts)
}

// Init runs the reset and detection sequence. Call it once after attaching
// the chip.
//
// The chip is then Active: the next Apply sends its brightness without
// another reset.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	leave := d.enter()
	detect(d.w)
	leave()
	if err := d.w.result(); err != nil {
		return wrap(err)
	}
	d.state = Active
	d.log.Info("al3050: backlight is initialized", zap.Stringer("line", d.p), zap.Bool("ack", d.opts.Ack))
	return nil
}

// Apply changes the power state and brightness and returns the brightness
// now applied.
//
// When powerOn is false or blank is set, the line is pulled low and 0 is
// returned. Leaving the blanked state always runs the detection sequence and
// restores the brightness in use before blanking, MaxBrightness if the chip
// was never lit. Otherwise brightness is sent directly,
// truncated to its low 5 bits.
//
// A missing acknowledge is logged and recovered from; the returned error is
// only about gpio failures.
func (d *Dev) Apply(powerOn bool, brightness int, blank bool) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !powerOn || blank {
		d.w.out(gpio.Low)
		if err := d.w.result(); err != nil {
			return 0, wrap(err)
		}
		d.brightness = 0
		d.state = Blanked
		return 0, nil
	}
	switch d.state {
	case Uninitialized, Blanked:
		return d.update(d.last, true)
	default:
		return d.update(brightness, false)
	}
}

// update sends brightness, first running detection if reset is set or a
// previous recovery did not complete.
func (d *Dev) update(brightness int, reset bool) (int, error) {
	f := NewFrame(brightness, d.opts.Ack)
	leave := d.enter()
	recovered, err := d.send(f, reset || d.resetPending)
	leave()
	if recovered {
		d.log.Warn("al3050: no ack, line reset", zap.Stringer("frame", f), zap.Duration("window", TAckWindow))
	}
	if err != nil {
		return 0, wrap(err)
	}
	if !recovered {
		d.log.Debug("al3050: frame sent", zap.Stringer("frame", f))
	}
	d.state = Active
	d.brightness = f.Brightness()
	d.last = d.brightness
	return d.brightness, nil
}

// send runs the line activity of update. A missing acknowledge is recovered
// from with one detection sequence; resetPending stays set until one
// completes.
func (d *Dev) send(f Frame, reset bool) (bool, error) {
	if reset {
		detect(d.w)
		if err := d.w.result(); err != nil {
			return false, err
		}
		d.resetPending = false
	}
	ack := transmit(d.w, f)
	if err := d.w.result(); err != nil {
		return false, err
	}
	if !errors.Is(ack, ErrAckTimeout) {
		return false, nil
	}
	d.resetPending = true
	detect(d.w)
	if err := d.w.result(); err != nil {
		return true, err
	}
	d.resetPending = false
	return true, nil
}

// enter starts the non-preemptible section.
func (d *Dev) enter() func() {
	leave, err := enterCritical(d.opts.Priority)
	if err != nil && !d.warnedPrio {
		d.warnedPrio = true
		d.log.Warn("al3050: running without real-time priority", zap.Error(err))
	}
	return leave
}

// Backlight implements display.DisplayBacklight.
//
// 0 blanks the backlight, 1 to 255 are scaled to 0..MaxBrightness. When the
// backlight was blanked, the previous level is restored first and then
// replaced.
func (d *Dev) Backlight(intensity display.Intensity) error {
	if intensity <= 0 {
		_, err := d.Apply(false, 0, false)
		return err
	}
	want := intensityToBrightness(intensity)
	got, err := d.Apply(true, want, false)
	if err == nil && got != want {
		_, err = d.Apply(true, want, false)
	}
	return err
}

func intensityToBrightness(i display.Intensity) int {
	if i > 0xff {
		i = 0xff
	}
	return (int(i)*MaxBrightness + 0x7f) / 0xff
}

// Brightness returns the brightness last sent; 0 while blanked or before the
// first command.
func (d *Dev) Brightness() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.brightness
}

// State returns the power state.
func (d *Dev) State() PowerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Halt implements conn.Resource. It blanks the backlight.
func (d *Dev) Halt() error {
	_, err := d.Apply(false, 0, false)
	return err
}

func (d *Dev) String() string {
	return fmt.Sprintf("AL3050{%s}", d.p)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("al3050: %w", err)
}

var _ conn.Resource = &Dev{}
var _ display.DisplayBacklight = &Dev{}
