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

// pulseTransform converts densities into head pulse values, taking into
// account the densities of the neighbouring pixels in the current and the
// two previous rows.
type pulseTransform struct {
	sym      [2*255 + 1]int64 // indexed by difference + 255
	hw       int64
	vw1, vw2 int64
	pulse    *[256]uint16
	maxPulse uint16

	cur, prev1, prev2 []int64
}

func newPulseTransform(t *CorrectionTable, p Plane, cols int) *pulseTransform {
	mtf := t.MTF[p]
	pt := &pulseTransform{
		hw:       toFixed(mtf.HWeight),
		vw1:      toFixed(mtf.VWeight1),
		vw2:      toFixed(mtf.VWeight2),
		pulse:    &t.Pulse[p],
		maxPulse: uint16(t.MaxPulse[p]),
		cur:      make([]int64, cols),
		prev1:    make([]int64, cols),
		prev2:    make([]int64, cols),
	}
	for d := -255; d <= 255; d++ {
		v := int64(d)
		if abs(d) < mtf.Slice {
			v = -v
		}
		pt.sym[d+255] = v
	}
	return pt
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (pt *pulseTransform) symm(d int64) int64 {
	return pt.sym[d+255]
}

// seed sets both previous rows to the given densities.
func (pt *pulseTransform) seed(v []int64) {
	for x, vx := range v {
		pt.prev1[x] = vx >> 4
		pt.prev2[x] = vx >> 4
	}
}

// apply converts one row of 12-bit densities into pulse values.
func (pt *pulseTransform) apply(v []int64, out []uint16) {
	cols := len(v)
	d := pt.cur
	for x, vx := range v {
		d[x] = vx >> 4
	}
	for x := range cols {
		if v[x] == 0 {
			out[x] = 0
			continue
		}
		left := d[max(x-1, 0)]
		right := d[min(x+1, cols-1)]
		h := pt.symm(d[x]-left) + pt.symm(d[x]-right)
		delta := h*pt.hw + pt.symm(d[x]-pt.prev1[x])*pt.vw1 + pt.symm(d[x]-pt.prev2[x])*pt.vw2
		m := clamp(d[x]+(delta>>gainShift), 1, 255)
		out[x] = min(pt.pulse[m], pt.maxPulse)
	}
	pt.prev2, pt.prev1, pt.cur = pt.prev1, pt.cur, pt.prev2
}

// lateRowScale returns the fixed point scale factor for row y of a page
// with the given number of rows.
func lateRowScale(scales *[lateRowSteps]int64, y, rows int) int64 {
	if rows <= 1 {
		return scales[0]
	}
	return scales[y*(lateRowSteps-1)/(rows-1)]
}
