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

// processingState holds everything which changes while one plane of one
// image is processed. A new state is used for every plane.
type processingState struct {
	e     *Engine
	plane Plane
	kind  PlaneKind

	src     BandImage[uint8]
	channel int
	origin  int // page row of the first band row

	hist  *rowHistory
	gamma *gammaMapper
	tanks *tankModel      // nil if disabled
	fcc   *lineCorrection // nil if disabled
	pulse *pulseTransform // nil if disabled

	line   *[lineRows]int32
	rowBuf []uint8
	acc    []int64
	ttd    []int64
	htd    []int64
	corr   []int64
	outRow []uint16
}

func (e *Engine) newState(p Plane, src BandImage[uint8], origin int) *processingState {
	t := e.table
	cols := src.Cols
	s := &processingState{
		e:      e,
		plane:  p,
		kind:   e.overcoat.kind(p),
		src:    src,
		origin: origin,
		hist:   newRowHistory(cols),
		line:   &t.Line[p],
		rowBuf: make([]uint8, cols),
		acc:    make([]int64, cols),
		ttd:    make([]int64, cols),
		htd:    make([]int64, cols),
		corr:   make([]int64, cols),
		outRow: make([]uint16, cols),
	}

	if s.kind == PlaneYMC {
		s.channel = p.inputChannel(e.order)
		offset := 0
		if t.AdaptiveGamma {
			offset = adaptiveOffset(t, src, s.channel)
		}
		s.gamma = newGammaMapper(t.Gamma[p][:], offset)
	} else {
		s.gamma = identityGamma()
	}

	if t.TankEnabled {
		s.tanks = newTankModel(t, p, cols)
	}
	if t.FCCEnabled {
		s.fcc = newLineCorrection(t, p, e.sign, cols, src.Rows)
	}
	if t.PulseEnabled {
		s.pulse = newPulseTransform(t, p, cols)
	}
	return s
}

// sourceRow returns the 8-bit input of the plane for row y. Rows outside
// the image replicate the nearest image row.
func (s *processingState) sourceRow(y int) []uint8 {
	y = clamp(y, 0, s.src.Rows-1)
	buf := s.rowBuf
	t := s.e.table
	switch s.kind {
	case PlaneYMC:
		row := s.src.Row(y)
		for x := range buf {
			buf[x] = row[x*3+s.channel]
		}
	case PlaneOvercoatGloss:
		for x := range buf {
			buf[x] = t.GlossLevel
		}
	case PlaneOvercoatMatte:
		for x := range buf {
			if ((x>>1)+(y>>1))&1 == 0 {
				buf[x] = t.MatteLow
			} else {
				buf[x] = t.MatteHigh
			}
		}
	}
	return buf
}

// run processes all rows of the plane and writes the result into the
// given channel of dst.
func (s *processingState) run(dst BandImage[uint16], channel int) {
	rows := s.src.Rows
	for i := range historyRows {
		s.hist.load(i, s.sourceRow(i-historyCenter))
	}

	if s.pulse != nil {
		sharpen(s.hist, s.gamma, s.e.kernel, s.acc)
		if s.tanks != nil {
			s.tanks.preread(s.acc, s.ttd)
		}
		s.heat(0)
		s.pulse.seed(s.htd)
	}

	for y := range rows {
		sharpen(s.hist, s.gamma, s.e.kernel, s.acc)
		if s.tanks != nil {
			s.tanks.process(s.acc, s.ttd)
		}
		s.heat(y)

		corr := s.htd
		if s.fcc != nil {
			s.fcc.correct(y, s.htd, s.corr)
			corr = s.corr
		}

		scale := lateRowScale(&s.e.lateRow, y, rows)
		v := s.acc // acc is no longer needed for this row
		for x, c := range corr {
			v[x] = clamp((c*scale)>>gainShift, 0, maxDensity)
		}
		if s.pulse != nil {
			s.pulse.apply(v, s.outRow)
		} else {
			for x, vx := range v {
				s.outRow[x] = uint16(vx)
			}
		}

		out := dst.Row(y)
		for x, o := range s.outRow {
			out[x*dst.Channels+channel] = o
		}

		s.hist.shift(s.sourceRow(y + historyCenter + 1))
	}
}

// heat adds the thermal deltas and the fixed heat offset of row y to the
// densities, storing the result in s.htd. The deltas stay zero if the
// tank model is disabled.
func (s *processingState) heat(y int) {
	line := int64(s.line[clamp(s.origin+y, 0, lineRows-1)])
	for x, a := range s.acc {
		s.htd[x] = clamp(a+s.ttd[x]+line, 0, maxDensity)
	}
}

// finalPulse returns the line correction pulse reached at the end of the
// plane.
func (s *processingState) finalPulse() int {
	if s.fcc == nil || len(s.fcc.pulses) == 0 {
		return 0
	}
	return s.fcc.pulses[len(s.fcc.pulses)-1]
}
