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

// tankGuard is the number of guard cells on each side of a tank row.
const tankGuard = 2

// tankModel simulates the heat stored in the print head while one plane
// is printed. Tank 0 is the fast tank next to the heating elements, heat
// flows from there through tank 1 into tank 2 and from tank 2 into the
// ambient. Within each tank heat also spreads between neighbouring
// columns.
type tankModel struct {
	cols    int
	energy  [numTanks][]int64
	scratch []int64

	in0  int64
	down [numTanks]int64
	up   [numTanks - 1]int64
	amb  int64
	dot  [numTanks]int64

	ksp, ksm [gainSize]int64
}

func newTankModel(t *CorrectionTable, p Plane, cols int) *tankModel {
	tp := &t.Tank[p]
	m := &tankModel{
		cols:    cols,
		scratch: make([]int64, cols+2*tankGuard),
		in0:     tankOne / tp[0].Size,
		amb:     tp[numTanks-1].RayCond * tankOne / tp[numTanks-1].Size,
	}
	for k := range numTanks {
		row := make([]int64, cols+2*tankGuard)
		for x := range row {
			row[x] = tp[k].IniEnergy
		}
		m.energy[k] = row
		m.down[k] = tp[k].RayCond * tankOne / tp[k].Size
		m.dot[k] = tp[k].DotCond * tankOne / tp[k].Size
		if k+1 < numTanks {
			m.up[k] = tp[k].RayCond * tankOne / tp[k+1].Size
		}
	}
	for i := range gainSize {
		m.ksp[i] = toFixed(t.KSP[i])
		m.ksm[i] = toFixed(t.KSM[i])
	}
	return m
}

// process computes the thermal deltas for one row and advances the
// simulation by one row.
func (m *tankModel) process(acc, ttd []int64) {
	m.hosei(acc, ttd, true)
	m.interRay()
	for k := range numTanks {
		m.interDot(k)
	}
}

// preread computes the thermal deltas for a row without changing the
// tank state.
func (m *tankModel) preread(acc, ttd []int64) {
	m.hosei(acc, ttd, false)
}

// hosei compensates each density for the heat stored in the fast tank.
// If feedback is set, the compensated density is added to the tank.
func (m *tankModel) hosei(acc, ttd []int64, feedback bool) {
	e0 := m.energy[0][tankGuard : tankGuard+m.cols]
	for x, a := range acc {
		d := a - e0[x]
		g := m.ksp[a>>5]
		if d < 0 {
			g = m.ksm[a>>5]
		}
		out := clamp(a+(g*d)>>gainShift, 0, maxDensity)
		ttd[x] = out - a
		if feedback {
			e0[x] += (out * m.in0) >> tankShift
		}
	}
}

// interRay moves heat between the tanks of each column, and from the
// last tank into the ambient.
func (m *tankModel) interRay() {
	e0, e1, e2 := m.energy[0], m.energy[1], m.energy[2]
	for x := tankGuard; x < tankGuard+m.cols; x++ {
		d01 := e0[x] - e1[x]
		d12 := e1[x] - e2[x]
		n0 := e0[x] - (d01*m.down[0])>>tankShift
		n1 := e1[x] + (d01*m.up[0])>>tankShift - (d12*m.down[1])>>tankShift
		n2 := e2[x] + (d12*m.up[1])>>tankShift - (e2[x]*m.amb)>>tankShift
		e0[x] = nonNegative(n0)
		e1[x] = nonNegative(n1)
		e2[x] = nonNegative(n2)
	}
}

// interDot spreads heat between neighbouring columns of tank k.
func (m *tankModel) interDot(k int) {
	e := m.energy[k]
	n := m.cols + 2*tankGuard
	e[0], e[1] = e[2], e[2]
	e[n-2], e[n-1] = e[n-3], e[n-3]

	s := m.scratch
	copy(s, e)
	c := m.dot[k]
	for x := tankGuard; x < tankGuard+m.cols; x++ {
		e[x] = nonNegative(s[x] + ((s[x-1]+s[x+1]-2*s[x])*c)>>tankShift)
	}
}
