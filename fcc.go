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

// lineCorrection compensates for the voltage drop of the print head
// supply as more energy is drawn over the course of a page. It keeps a
// correction pulse which grows by one step each time the accumulated
// density exceeds a threshold. Only rows already printed are used to
// compute the correction for a row.
type lineCorrection struct {
	sign      int64
	bounds    [fccBuckets + 1]int
	threshold int64
	maxPulse  int64
	fm        [256]int64
	weights   [historyRows]int64

	pulse   int64
	running int64
	sums    [][fccBuckets]int64
	pulses  []int
}

func newLineCorrection(t *CorrectionTable, p Plane, sign, cols, rows int) *lineCorrection {
	lc := &lineCorrection{
		sign:      int64(sign),
		threshold: t.FCCThreshold,
		maxPulse:  int64(t.FCCMaxCorrection[p]),
		sums:      make([][fccBuckets]int64, rows),
		pulses:    make([]int, rows),
	}
	for b := range lc.bounds {
		lc.bounds[b] = b * cols / fccBuckets
	}
	for i, f := range t.FM {
		lc.fm[i] = toFixed(f)
	}
	for j, w := range t.History {
		lc.weights[j] = toFixed(w)
	}
	return lc
}

// correct applies the correction for row y to htd and stores the result
// in out.
func (lc *lineCorrection) correct(y int, htd, out []int64) {
	for b := range fccBuckets {
		lo, hi := lc.bounds[b], lc.bounds[b+1]
		if lo == hi {
			continue
		}

		var num, den int64
		for j, w := range lc.weights {
			if y-1-j < 0 {
				break
			}
			num += w * lc.sums[y-1-j][b]
			den += w
		}
		var level int64
		if den > 0 {
			level = clamp(num/(den*int64(hi-lo)), 0, maxDensity)
		}
		corr := (lc.pulse * lc.fm[level>>4]) >> gainShift

		for x := lo; x < hi; x++ {
			out[x] = clamp(htd[x]-lc.sign*corr, 0, maxDensity)
		}
	}

	var total int64
	for b := range fccBuckets {
		var s int64
		for _, v := range htd[lc.bounds[b]:lc.bounds[b+1]] {
			s += v
		}
		lc.sums[y][b] = s
		total += s
	}
	lc.running += total
	if lc.running >= lc.threshold {
		lc.running -= lc.threshold
		lc.pulse = min(lc.pulse+1, lc.maxPulse)
	}
	lc.pulses[y] = int(lc.pulse)
}
