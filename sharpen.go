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

// sharpenOffsets lists the neighbours used by the sharpening filter, in
// the order of the kernel coefficients.
var sharpenOffsets = [sharpenTaps]struct{ dx, dy int }{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// sharpenKernel holds the fixed point coefficients of one sharpening level.
type sharpenKernel [sharpenTaps]int64

func newSharpenKernel(t *CorrectionTable, level int) *sharpenKernel {
	if level < 0 {
		return nil
	}
	k := &sharpenKernel{}
	for i, c := range t.Sharpen[level] {
		k[i] = toFixed(c)
	}
	return k
}

// sharpen computes the gamma corrected and sharpened densities of the
// current history row. A nil kernel disables sharpening.
func sharpen(h *rowHistory, g *gammaMapper, k *sharpenKernel, acc []int64) {
	cur := h.row(0)
	for x := range acc {
		c := g.Map(cur[x])
		if k == nil {
			acc[x] = c
			continue
		}
		var sum int64
		for i, o := range sharpenOffsets {
			sum += k[i] * (c - g.Map(h.at(o.dy, x+o.dx)))
		}
		acc[x] = clamp(c+(sum>>gainShift), 0, maxDensity)
	}
}
