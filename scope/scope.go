// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package scope draws single-wire waveforms as timing diagrams, the way a
// logic analyzer shows them.
//
// Each trace is a row scaled to the width of the image. Pulses wide enough
// are annotated with their duration.
package scope

import (
	"errors"
	"image"
	"io"
	"time"

	"github.com/GermanBionicSystems/backlight/al3050"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/gpio"
)

// Trace is a row of the diagram.
type Trace struct {
	Label string
	Wave  al3050.Waveform
}

// Opts represents the options of the diagram.
type Opts struct {
	// Width of the image. Defaults to 1200.
	Width int
	// RowHeight is the height of a trace. Defaults to 120.
	RowHeight int
	// FontSize defaults to 13.
	FontSize float64
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{Width: 1200, RowHeight: 120, FontSize: 13}

const (
	margin = 16.0
	label  = 110.0
)

var errEmpty = errors.New("scope: nothing to draw")

// Render returns the diagram of traces.
func Render(traces []Trace, opts *Opts) (image.Image, error) {
	dc, err := draw(traces, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG encodes the diagram of traces as PNG to w.
func WritePNG(w io.Writer, traces []Trace, opts *Opts) error {
	dc, err := draw(traces, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func draw(traces []Trace, opts *Opts) (*gg.Context, error) {
	if len(traces) == 0 {
		return nil, errEmpty
	}
	o := DefaultOpts
	if opts != nil {
		if opts.Width > 0 {
			o.Width = opts.Width
		}
		if opts.RowHeight > 0 {
			o.RowHeight = opts.RowHeight
		}
		if opts.FontSize > 0 {
			o.FontSize = opts.FontSize
		}
	}
	face, err := newFace(o.FontSize)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(o.Width, o.RowHeight*len(traces))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(face)
	for i, t := range traces {
		if t.Wave.Duration() <= 0 {
			return nil, errors.New("scope: trace " + t.Label + " has no duration")
		}
		drawRow(dc, t, float64(i*o.RowHeight), float64(o.RowHeight))
	}
	return dc, nil
}

func newFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// drawRow draws t in the band starting at top.
func drawRow(dc *gg.Context, t Trace, top, height float64) {
	x0 := label
	x1 := float64(dc.Width()) - margin
	high := top + height*0.3
	low := top + height*0.7
	total := t.Wave.Duration()
	scale := (x1 - x0) / float64(total)

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(t.Label, margin, (high+low)/2, 0, 0.5)

	// Axis.
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	dc.DrawLine(x0, low+height*0.15, x1, low+height*0.15)
	dc.Stroke()
	dc.SetDash()
	dc.DrawStringAnchored("0", x0, low+height*0.15, 0.5, -0.3)
	dc.DrawStringAnchored(total.String(), x1, low+height*0.15, 1, -0.3)

	// Trace.
	dc.SetRGB(0.05, 0.35, 0.75)
	dc.SetLineWidth(2)
	y := func(l gpio.Level) float64 {
		if l == gpio.High {
			return high
		}
		return low
	}
	x := x0
	dc.MoveTo(x, y(t.Wave[0].Level))
	var at time.Duration
	for _, p := range t.Wave {
		if p.Duration <= 0 {
			continue
		}
		dc.LineTo(x, y(p.Level))
		at += p.Duration
		next := x0 + float64(at)*scale
		dc.LineTo(next, y(p.Level))
		x = next
	}
	dc.Stroke()

	// Durations.
	dc.SetRGB(0.2, 0.2, 0.2)
	at = 0
	for _, p := range t.Wave {
		if p.Duration <= 0 {
			continue
		}
		s := p.Duration.String()
		w, _ := dc.MeasureString(s)
		start := x0 + float64(at)*scale
		at += p.Duration
		end := x0 + float64(at)*scale
		if end-start < w+2 {
			continue
		}
		ly, ay := high-4, 0.0
		if p.Level == gpio.Low {
			ly, ay = low+4, 1.0
		}
		dc.DrawStringAnchored(s, (start+end)/2, ly, 0.5, ay)
	}
}
