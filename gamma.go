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

// gammaMapper maps 8-bit input values to 12-bit densities.
type gammaMapper [gammaSize]int64

func newGammaMapper(table []uint16, offset int) *gammaMapper {
	g := &gammaMapper{}
	for i := range g {
		g[i] = min(int64(table[i])+int64(offset), maxDensity)
	}
	return g
}

// identityGamma is used for the overcoat plane.
func identityGamma() *gammaMapper {
	g := &gammaMapper{}
	for i := range g {
		g[i] = int64(i) * 16
	}
	return g
}

// Map returns the density for input value v.
func (g *gammaMapper) Map(v uint8) int64 {
	return g[v]
}

// adaptiveOffset computes the gamma offset for one channel of the image
// from the pixels within t.AdaptiveWindow pixels of the image border.
func adaptiveOffset(t *CorrectionTable, img BandImage[uint8], channel int) int {
	w := t.AdaptiveWindow
	if w <= 0 {
		return 0
	}

	var hist [256]int64
	for y := range img.Rows {
		row := img.Row(y)
		inBand := y < w || y >= img.Rows-w
		for x := range img.Cols {
			if inBand || x < w || x >= img.Cols-w {
				hist[row[x*img.Channels+channel]]++
			}
		}
	}

	var n, sum int64
	for v, h := range hist {
		n += h
		sum += int64(v) * h
	}
	if n == 0 {
		return 0
	}
	avg := sum / n
	if avg < int64(t.AdaptiveMinAverage) {
		return 0
	}
	offset := ((avg - int64(t.AdaptiveMinAverage)) * toFixed(t.AdaptiveGain)) >> gainShift
	return int(clamp(offset, 0, int64(t.AdaptiveMaxOffset)))
}
