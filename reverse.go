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

// JudgeReverse decides whether the ribbon may be rewound after printing
// the front and the back half of a page, by counting the pixels of one
// channel of the output band which reach the density tiers of t inside
// each of the zones of t. A half qualifies only if no count reaches its
// limit.
//
// headWidth is the width of the print head in pixels, or 0 to use the
// width of the band.
func JudgeReverse(t *CorrectionTable, b BandImage[uint16], channel, headWidth int) (front, back bool) {
	if b.Rows > t.ReverseMaxRows || !hasReverseLimits(t) {
		return false, false
	}
	half := b.Rows / 2
	front = judgeSegment(t, b, channel, headWidth, 0, half)
	back = judgeSegment(t, b, channel, headWidth, half, b.Rows)
	return front, back
}

func hasReverseLimits(t *CorrectionTable) bool {
	for _, z := range t.Reverse {
		for _, l := range z.Limit {
			if l >= 0 {
				return true
			}
		}
	}
	return false
}

// judgeSegment checks rows [start, end) of the band.
func judgeSegment(t *CorrectionTable, b BandImage[uint16], channel, headWidth, start, end int) bool {
	width := b.Cols
	if headWidth > 0 {
		width = min(width, headWidth)
	}
	boundary := width * 3 / 4
	segRows := end - start

	colBound := func(c int) int {
		switch c {
		case -1:
			return boundary
		case -2:
			return b.Cols
		}
		return clamp(c, 0, b.Cols)
	}
	rowBound := func(r int) int {
		if r == -2 {
			return segRows
		}
		return clamp(r, 0, segRows)
	}

	for _, z := range t.Reverse {
		x0, x1 := colBound(z.ColStart), colBound(z.ColEnd)
		y0, y1 := rowBound(z.RowStart), rowBound(z.RowEnd)

		var count [reverseTiers]int
		for y := y0; y < y1; y++ {
			row := b.Row(start + y)
			for x := x0; x < x1; x++ {
				v := int(row[x*b.Channels+channel])
				for k, d := range t.ReverseDensity {
					if v >= d {
						count[k]++
					}
				}
			}
		}

		for k, limit := range z.Limit {
			if limit >= 0 && count[k] >= limit {
				return false
			}
		}
	}
	return true
}
