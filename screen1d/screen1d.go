// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen1d implements a display.DisplayBacklight that outputs to
// terminal (stdout) using ANSI color codes.
//
// The backlight is drawn as a bar whose length and shade follow the level.
// Useful to watch the brightness steps sent to a backlight without looking
// at the panel.
package screen1d

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// X is the length of the bar in characters. Defaults to Max.
	X int
	// Max is the highest level. Defaults to 31.
	Max     int
	Palette *ansi256.Palette
	// W defaults to stdout.
	W io.Writer

	_ struct{}
}

// Dev is a backlight emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	l       int
	max     int
	palette ansi256.Palette

	level int
	buf   bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:       opts.W,
		l:       opts.X,
		max:     opts.Max,
		palette: *p,
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.max <= 0 {
		d.max = 31
	}
	if d.l <= 0 {
		d.l = d.max
	}
	return d
}

func (d *Dev) String() string {
	return "Screen1D"
}

// Halt implements conn.Resource.
//
// It leaves the line with the last level and resets the colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Set draws level, clamped to 0..Max.
func (d *Dev) Set(level int) error {
	if level < 0 {
		level = 0
	} else if level > d.max {
		level = d.max
	}
	d.level = level
	return d.refresh()
}

// Level returns the level last drawn.
func (d *Dev) Level() int {
	return d.level
}

// Backlight implements display.DisplayBacklight.
//
// 0 to 255 is scaled to 0..Max.
func (d *Dev) Backlight(intensity display.Intensity) error {
	if intensity > 0xff {
		intensity = 0xff
	}
	return d.Set((int(intensity)*d.max + 0x7f) / 0xff)
}

// Color returns the color of a lit cell at level.
func (d *Dev) Color(level int) color.NRGBA {
	if level <= 0 {
		return color.NRGBA{A: 255}
	}
	v := byte(0x30 + (0xff-0x30)*level/d.max)
	// Warm white, like most LED backlights.
	return color.NRGBA{v, v, byte(int(v) * 7 / 8), 255}
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	lit := (d.level*d.l + d.max/2) / d.max
	on := d.palette.Block(d.Color(d.level))
	off := d.palette.Block(d.Color(0))
	for i := 0; i < d.l; i++ {
		if i < lit {
			_, _ = io.WriteString(&d.buf, on)
		} else {
			_, _ = io.WriteString(&d.buf, off)
		}
	}
	_, _ = fmt.Fprintf(&d.buf, "\033[0m %2d/%d", d.level, d.max)
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.DisplayBacklight = &Dev{}
var _ fmt.Stringer = &Dev{}
