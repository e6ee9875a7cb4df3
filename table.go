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
	"fmt"
	"math"
)

// CorrectionTable holds the printer specific tuning data used by the
// [Engine]. Tables are read with [LoadTable] and must not be modified once
// they are in use; a single table can be shared by many concurrent jobs.
type CorrectionTable struct {
	// Mode flags.
	TankEnabled   bool // run the thermal tank simulation
	FCCEnabled    bool // run the line correction feedback loop
	PulseEnabled  bool // convert densities to head pulses
	AdaptiveGamma bool // add a border density dependent gamma offset

	MaxPulse         [numPlanes]int // largest pulse value per plane
	FCCThreshold     int64          // accumulated energy per correction step
	FCCMaxCorrection [numPlanes]int // largest correction pulse per plane

	AdaptiveWindow     int // width of the image border used for the offset
	AdaptiveMinAverage int // average density below which no offset is applied
	AdaptiveGain       float64
	AdaptiveMaxOffset  int

	GlossLevel uint8
	MatteLow   uint8
	MatteHigh  uint8

	ReverseDensity [reverseTiers]int // density thresholds of the four tiers
	ReverseMaxRows int               // largest print which may skip ribbon

	MinCols, MaxCols int
	MinRows, MaxRows int

	// Line holds fixed heat offsets, indexed by plane and output row.
	Line [numPlanes][lineRows]int32

	// Gamma maps input values to 12-bit densities for the Y, M and C
	// planes (from blue, green and red input respectively).
	Gamma [3][gammaSize]uint16

	// FM is the density dependent gain of one line correction step.
	FM [256]float64

	// Pulse maps 8-bit densities to head pulse values, per plane.
	Pulse [numPlanes][256]uint16

	// KSP and KSM are the tank compensation gains for positive and
	// negative differences between pixel and tank, indexed by density/32.
	KSP [gainSize]float64
	KSM [gainSize]float64

	Tank    [numPlanes][numTanks]TankParams
	History [historyRows]float64 // row weights of the line correction
	MTF     [numPlanes]MTFParams
	Sharpen [sharpenMax + 1][sharpenTaps]float64
	LateRow [lateRowSteps]float64 // scale by position within the page
	Reverse [reverseZones]ReverseZone
}

// TankParams describes one thermal tank of one plane.
type TankParams struct {
	Size      int64 // heat capacity
	IniEnergy int64 // energy at the start of the plane
	RayCond   int64 // conductivity towards the next tank, or the ambient for the last tank
	DotCond   int64 // conductivity between neighbouring columns
}

// MTFParams holds the neighbour weights of the pulse transform.
type MTFParams struct {
	HWeight  float64 // weight of the horizontal neighbours
	VWeight1 float64 // weight of the previous row
	VWeight2 float64 // weight of the row before the previous one
	Slice    int     // differences smaller than this are inverted
}

// ReverseZone is a rectangle of the ribbon reverse judgement.
//
// Column bounds may be -1 for the head width dependent boundary column and
// -2 for the image width. Row bounds are relative to the front or back
// half of the image; -2 stands for the height of the half. A negative
// limit disables the corresponding tier.
type ReverseZone struct {
	ColStart, ColEnd int
	RowStart, RowEnd int
	Limit            [reverseTiers]int
}

// Validate checks the table for internal consistency.
func (t *CorrectionTable) Validate() error {
	for p := range numPlanes {
		for k, tp := range t.Tank[p] {
			section := "TANK"
			what := fmt.Sprintf("plane %s tank %d", Plane(p), k)
			if tp.Size == 0 {
				return rejectTable(RejectZeroTank, section, 0, what+" has zero size")
			}
			if tp.Size < 0 || tp.IniEnergy < 0 || tp.RayCond < 0 || tp.DotCond < 0 {
				return rejectTable(RejectTankRange, section, 0, what+" has negative parameters")
			}
			if tp.RayCond > tp.Size || 2*tp.DotCond > tp.Size {
				return rejectTable(RejectTankRange, section, 0, what+" conductivity exceeds size")
			}
			if k+1 < numTanks && tp.RayCond > t.Tank[p][k+1].Size {
				return rejectTable(RejectTankRange, section, 0, what+" conductivity exceeds size of next tank")
			}
		}

		if t.MaxPulse[p] <= 0 || t.MaxPulse[p] > math.MaxUint16 {
			return rejectTable(RejectPulseRange, "PARAMS", 0,
				fmt.Sprintf("max pulse %d for plane %s", t.MaxPulse[p], Plane(p)))
		}
		for i, v := range t.Pulse[p] {
			if int(v) > t.MaxPulse[p] {
				return rejectTable(RejectPulseRange, "DENSITY", 0,
					fmt.Sprintf("pulse %d at density %d exceeds maximum %d for plane %s",
						v, i, t.MaxPulse[p], Plane(p)))
			}
		}
		if t.FCCMaxCorrection[p] < 0 {
			return rejectTable(RejectRange, "PARAMS", 0, "negative fcc_max_correction")
		}
		if s := t.MTF[p].Slice; s < 0 || s > 255 {
			return rejectTable(RejectRange, "MTF", 0, fmt.Sprintf("slice %d out of range", s))
		}
		m := t.MTF[p]
		if !bounded(m.HWeight, m.VWeight1, m.VWeight2) {
			return rejectTable(RejectRange, "MTF", 0, "weights out of range")
		}
	}

	if t.FCCThreshold <= 0 {
		return rejectTable(RejectDivisor, "PARAMS", 0, "fcc_threshold must be positive")
	}
	sum := 0.0
	for _, w := range t.History {
		if w < 0 || !bounded(w) {
			return rejectTable(RejectRange, "HISTORY", 0, "weights must be non-negative")
		}
		sum += w
	}
	if toFixed(sum) == 0 {
		return rejectTable(RejectDivisor, "HISTORY", 0, "weights sum to zero")
	}

	if t.MinCols < 1 || t.MinCols > t.MaxCols || t.MinRows < 1 || t.MinRows > t.MaxRows ||
		t.MaxRows > lineRows {
		return rejectTable(RejectDimensions, "PARAMS", 0,
			fmt.Sprintf("cols %d..%d, rows %d..%d", t.MinCols, t.MaxCols, t.MinRows, t.MaxRows))
	}

	if t.AdaptiveWindow < 0 || t.AdaptiveMinAverage < 0 || t.AdaptiveMinAverage > 255 ||
		t.AdaptiveMaxOffset < 0 || t.AdaptiveMaxOffset > maxDensity || !bounded(t.AdaptiveGain) {
		return rejectTable(RejectRange, "PARAMS", 0, "adaptive gamma parameters out of range")
	}

	if !bounded(t.FM[:]...) {
		return rejectTable(RejectRange, "DENSITY", 0, "line correction gains out of range")
	}
	if !bounded(t.KSP[:]...) || !bounded(t.KSM[:]...) {
		return rejectTable(RejectRange, "TANKGAIN", 0, "tank gains out of range")
	}
	for _, k := range t.Sharpen {
		if !bounded(k[:]...) {
			return rejectTable(RejectRange, "SHARPEN", 0, "kernel out of range")
		}
	}
	for _, s := range t.LateRow {
		if s < 0 || !bounded(s) {
			return rejectTable(RejectRange, "LATEROW", 0, "scales must be non-negative")
		}
	}

	for _, d := range t.ReverseDensity {
		if d < 0 || d > math.MaxUint16 {
			return rejectTable(RejectRange, "PARAMS", 0, "reverse_density out of range")
		}
	}
	if t.ReverseMaxRows < 0 {
		return rejectTable(RejectRange, "PARAMS", 0, "negative reverse_max_rows")
	}
	for i, z := range t.Reverse {
		if z.ColStart < -2 || z.ColEnd < -2 || z.RowStart < -2 || z.RowEnd < -2 {
			return rejectTable(RejectRange, "REVERSE", 0, fmt.Sprintf("zone %d has invalid bounds", i))
		}
		for _, l := range z.Limit {
			if l < -1 {
				return rejectTable(RejectRange, "REVERSE", 0, fmt.Sprintf("zone %d has invalid limit", i))
			}
		}
	}
	return nil
}

// checkDimensions verifies that an image of the given size can be printed
// using the table.
func (t *CorrectionTable) checkDimensions(cols, rows int) error {
	if cols < t.MinCols || cols > t.MaxCols || rows < t.MinRows || rows > t.MaxRows {
		return rejectTable(RejectDimensions, "", 0,
			fmt.Sprintf("image is %dx%d, supported are %d..%d columns and %d..%d rows",
				cols, rows, t.MinCols, t.MaxCols, t.MinRows, t.MaxRows))
	}
	return nil
}

// NeutralTable returns a table which disables all corrections: the gamma
// tables are the identity on the 12-bit scale, all gains are zero and all
// scales are one. The result is a valid starting point for new tables.
func NeutralTable() *CorrectionTable {
	t := &CorrectionTable{
		TankEnabled:        true,
		FCCEnabled:         true,
		FCCThreshold:       1 << 24,
		AdaptiveWindow:     16,
		AdaptiveMinAverage: 128,
		AdaptiveGain:       1,
		AdaptiveMaxOffset:  256,
		GlossLevel:         255,
		MatteLow:           160,
		MatteHigh:          255,
		ReverseDensity:     [reverseTiers]int{256, 1024, 2048, 3072},
		ReverseMaxRows:     1852,
		MinCols:            1,
		MaxCols:            4096,
		MinRows:            1,
		MaxRows:            lineRows,
	}
	for p := range numPlanes {
		t.MaxPulse[p] = 1023
		t.FCCMaxCorrection[p] = 64
		for i := range t.Pulse[p] {
			t.Pulse[p][i] = uint16(min(4*i, 1023))
		}
		for k := range t.Tank[p] {
			t.Tank[p][k] = TankParams{Size: 1}
		}
	}
	for c := range t.Gamma {
		for i := range t.Gamma[c] {
			t.Gamma[c][i] = uint16(i * 16)
		}
	}
	for i := range t.History {
		t.History[i] = 1
	}
	for i := range t.LateRow {
		t.LateRow[i] = 1
	}
	for i := range t.Reverse {
		t.Reverse[i] = ReverseZone{
			ColStart: 0, ColEnd: -2, RowStart: 0, RowEnd: -2,
			Limit: [reverseTiers]int{-1, -1, -1, -1},
		}
	}
	return t
}

// maxGain is the largest magnitude allowed for the real valued entries of
// a table. With this bound all fixed point products fit into an int64.
const maxGain = 1 << 16

// bounded reports whether all xs are numbers in the range
// [-maxGain, maxGain]. NaN and infinite values are rejected.
func bounded(xs ...float64) bool {
	for _, x := range xs {
		if !(math.Abs(x) <= maxGain) {
			return false
		}
	}
	return true
}
