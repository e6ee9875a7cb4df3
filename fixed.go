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
	"math"

	"golang.org/x/exp/constraints"
)

// Calibration constants shared by the processing stages.
// The values come from the printer firmware and have no further meaning.
const (
	gainShift = 12 // fixed point position for gains, kernels and scales
	gainOne   = 1 << gainShift
	tankShift = 17 // fixed point position for tank coefficients
	tankOne   = 1 << tankShift

	maxDensity = 4095 // largest 12-bit density value

	lineRows     = 2730 // rows in the per-row heat offset table
	gammaSize    = 256
	gainSize     = 128 // entries in the tank compensation gain tables
	historyRows  = 11  // rows kept by the sharpening ring buffer
	sharpenTaps  = 8
	sharpenMax   = 8 // largest sharpening level
	lateRowSteps = 101
	fccBuckets   = 4
	reverseZones = 4
	reverseTiers = 4
	numTanks     = 3
)

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative[T constraints.Signed](v T) T {
	if v < 0 {
		return 0
	}
	return v
}

// toFixed converts x into a fixed point number with gainShift fractional bits.
func toFixed(x float64) int64 {
	return int64(math.Round(x * gainOne))
}
