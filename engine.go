// seehuhn.de/go/dyesub - image reprocessing for dye-sublimation printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package dyesub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"
)

// Options configures an [Engine].
type Options struct {
	// Table is the correction table of the printer. It is required.
	Table *CorrectionTable

	// ReverseTable optionally supplies the zones and density tiers used
	// for the ribbon reverse judgement. If nil, Table is used.
	ReverseTable *CorrectionTable

	// LUT is applied to the input before processing. If nil, colours are
	// not changed.
	LUT *ColorLUT3D

	// Order gives the channel order of the input band.
	Order ChannelOrder

	// Sharpen selects the sharpening level 0-8, or -1 to disable
	// sharpening.
	Sharpen int

	// Overcoat selects the overcoat plane.
	Overcoat OvercoatMode

	// Reverse enables the ribbon reverse judgement.
	Reverse bool

	// FCCSign is the direction of the line correction: +1 lowers
	// densities as the correction pulse grows, -1 raises them.
	// The zero value means +1.
	FCCSign int

	// HeadWidth is the width of the print head in pixels, used by the
	// ribbon reverse judgement. If zero, the image width is used.
	HeadWidth int

	// Planes restricts processing to the given colour planes.
	// If nil, the Y, M and C planes are processed. A non-nil Planes
	// must name at least one plane.
	Planes []Plane

	// Log receives debug information. If nil, nothing is logged.
	Log logrus.FieldLogger
}

// Engine converts 8-bit RGB images into 16-bit per-plane head data.
// An Engine can be used concurrently by several goroutines.
type Engine struct {
	table    *CorrectionTable
	reverse  *CorrectionTable
	lut      *ColorLUT3D
	order    ChannelOrder
	overcoat OvercoatMode
	judge    bool
	sign     int
	head     int
	planes   []Plane
	log      logrus.FieldLogger

	kernel  *sharpenKernel
	lateRow [lateRowSteps]int64
}

// Result summarises a processed image.
type Result struct {
	// FrontReverse and BackReverse report whether the ribbon may be
	// rewound after printing the front or back half of the image.
	FrontReverse bool
	BackReverse  bool

	// Pulses gives the final line correction pulse of each plane.
	Pulses [4]int
}

// NewEngine checks the options and prepares an engine for use.
func NewEngine(opt Options) (*Engine, error) {
	if opt.Table == nil {
		return nil, ErrNoTable
	}
	if err := opt.Table.Validate(); err != nil {
		return nil, err
	}
	reverse := opt.Table
	if opt.ReverseTable != nil {
		if err := opt.ReverseTable.Validate(); err != nil {
			return nil, fmt.Errorf("reverse table: %w", err)
		}
		reverse = opt.ReverseTable
	}
	if opt.Sharpen < -1 || opt.Sharpen > sharpenMax {
		return nil, fmt.Errorf("dyesub: sharpen level %d not in range -1..%d", opt.Sharpen, sharpenMax)
	}
	if opt.Order != OrderRGB && opt.Order != OrderBGR {
		return nil, fmt.Errorf("dyesub: invalid channel order %d", opt.Order)
	}
	if opt.Overcoat < OvercoatNone || opt.Overcoat > OvercoatMatte {
		return nil, fmt.Errorf("dyesub: invalid overcoat mode %d", opt.Overcoat)
	}

	sign := opt.FCCSign
	switch sign {
	case 0:
		sign = 1
	case 1, -1:
	default:
		return nil, fmt.Errorf("dyesub: FCC sign must be +1 or -1, not %d", sign)
	}

	planes := []Plane{PlaneY, PlaneM, PlaneC}
	if opt.Planes != nil {
		if len(opt.Planes) == 0 {
			return nil, errors.New("dyesub: no planes selected")
		}
		planes = slices.Clone(opt.Planes)
		for _, p := range planes {
			if p < PlaneY || p > PlaneC {
				return nil, fmt.Errorf("dyesub: cannot select plane %s", p)
			}
		}
	}

	log := opt.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	e := &Engine{
		table:    opt.Table,
		reverse:  reverse,
		lut:      opt.LUT,
		order:    opt.Order,
		overcoat: opt.Overcoat,
		judge:    opt.Reverse,
		sign:     sign,
		head:     opt.HeadWidth,
		planes:   planes,
		log:      log,
		kernel:   newSharpenKernel(opt.Table, opt.Sharpen),
	}
	for i, s := range opt.Table.LateRow {
		e.lateRow[i] = toFixed(s)
	}
	return e, nil
}

// Process converts the 3-channel input band into head data.
//
// Colour planes are written to the channel with the same index of out.
// The overcoat plane, if enabled, is written to overcoat if this is
// non-nil, and to channel 3 of out otherwise. The input band is not
// modified.
//
// The context is checked before each plane is processed.
func (e *Engine) Process(ctx context.Context, in BandImage[uint8], out BandImage[uint16], overcoat *BandImage[uint16]) (*Result, error) {
	if err := in.Check(); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if err := out.Check(); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	if in.Channels != 3 || out.Channels < 3 {
		return nil, fmt.Errorf("%w: %d input and %d output channels", ErrGeometry, in.Channels, out.Channels)
	}
	if in.Cols != out.Cols || in.Rows != out.Rows {
		return nil, fmt.Errorf("%w: input is %dx%d, output is %dx%d",
			ErrGeometry, in.Cols, in.Rows, out.Cols, out.Rows)
	}
	if err := e.table.checkDimensions(in.Cols, in.Rows); err != nil {
		return nil, err
	}

	ocDst, ocChannel := out, 3
	if e.overcoat != OvercoatNone {
		if overcoat != nil {
			if err := overcoat.Check(); err != nil {
				return nil, fmt.Errorf("overcoat: %w", err)
			}
			if overcoat.Cols != in.Cols || overcoat.Rows != in.Rows {
				return nil, fmt.Errorf("%w: overcoat band is %dx%d", ErrGeometry, overcoat.Cols, overcoat.Rows)
			}
			ocDst, ocChannel = *overcoat, 0
		} else if out.Channels < 4 {
			return nil, fmt.Errorf("%w: no destination for the overcoat plane", ErrGeometry)
		}
	}

	src := NewBand[uint8](in.Cols, in.Rows, 3, false)
	for y := range in.Rows {
		copy(src.Row(y), in.Row(y))
	}
	e.lut.ConvertBand(src, e.order)

	res := &Result{}
	if e.judge {
		res.FrontReverse, res.BackReverse = true, true
	}
	planes := e.planes
	if e.overcoat != OvercoatNone {
		planes = append(slices.Clip(planes), PlaneO)
	}
	for _, p := range planes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dst, channel := out, int(p)
		if p == PlaneO {
			dst, channel = ocDst, ocChannel
		}
		s := e.newState(p, src, in.OriginRows)
		s.run(dst, channel)
		res.Pulses[p] = s.finalPulse()

		fields := logrus.Fields{
			"plane":     p,
			"kind":      s.kind,
			"rows":      src.Rows,
			"cols":      src.Cols,
			"fcc_pulse": res.Pulses[p],
		}
		if e.judge && p != PlaneO {
			front, back := JudgeReverse(e.reverse, dst, channel, e.head)
			res.FrontReverse = res.FrontReverse && front
			res.BackReverse = res.BackReverse && back
			fields["front_reverse"] = front
			fields["back_reverse"] = back
		}
		e.log.WithFields(fields).Debug("plane done")
	}
	return res, nil
}
