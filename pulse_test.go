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
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPulseSymmetry(t *testing.T) {
	table := NeutralTable()
	table.MTF[PlaneM].Slice = 10
	pt := newPulseTransform(table, PlaneM, 1)
	cases := []struct{ in, want int64 }{
		{0, 0}, {5, -5}, {-5, 5}, {9, -9}, {10, 10}, {-10, -10}, {255, 255}, {-255, -255},
	}
	for _, c := range cases {
		if got := pt.symm(c.in); got != c.want {
			t.Errorf("symm(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPulseFlat(t *testing.T) {
	table := NeutralTable()
	pt := newPulseTransform(table, PlaneY, 4)
	out := make([]uint16, 4)
	pt.apply([]int64{0, 8, 2048, 4095}, out)
	// zero stays zero, tiny densities are raised to the smallest pulse
	if d := cmp.Diff([]uint16{0, 4, 512, 1020}, out); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestPulseMaxPulse(t *testing.T) {
	table := NeutralTable()
	for i := range table.Pulse[PlaneC] {
		table.Pulse[PlaneC][i] = 1000
	}
	table.MaxPulse[PlaneC] = 1000
	pt := newPulseTransform(table, PlaneC, 2)
	pt.maxPulse = 600
	out := make([]uint16, 2)
	pt.apply([]int64{4095, 100}, out)
	if out[0] != 600 || out[1] != 600 {
		t.Errorf("got %v, want pulses capped at 600", out)
	}
}

func TestPulseNeighbours(t *testing.T) {
	table := NeutralTable()
	table.MTF[PlaneY] = MTFParams{HWeight: 0.5, VWeight1: 0.25, Slice: 0}
	pt := newPulseTransform(table, PlaneY, 3)
	pt.seed(slices.Repeat([]int64{1600}, 3)) // density 100

	out := make([]uint16, 3)
	pt.apply([]int64{1600, 3200, 1600}, out)
	// centre: d=200, h=(100+100)*0.5, v1=(200-100)*0.25 -> m=325 -> 255
	// sides:  d=100, h=(0-100)*0.5, v1=0 -> m=50
	want := []uint16{200, 1020, 200}
	if d := cmp.Diff(want, out); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	// the current row becomes the previous row
	pt.apply([]int64{1600, 1600, 1600}, out)
	// centre: d=100, h=0, v1=(100-200)*0.25=-25, v2=0 -> m=75
	// sides:  d=100, h=0, v1=0 -> m=100
	want = []uint16{400, 300, 400}
	if d := cmp.Diff(want, out); d != "" {
		t.Errorf("second row (-want +got):\n%s", d)
	}
}

func TestLateRowScale(t *testing.T) {
	var scales [lateRowSteps]int64
	for i := range scales {
		scales[i] = int64(i)
	}
	cases := []struct{ y, rows, want int }{
		{0, 1, 0},
		{0, 2, 0}, {1, 2, 100},
		{0, 201, 0}, {100, 201, 50}, {200, 201, 100}, {3, 201, 1},
	}
	for _, c := range cases {
		if got := lateRowScale(&scales, c.y, c.rows); got != int64(c.want) {
			t.Errorf("lateRowScale(%d, %d) = %d, want %d", c.y, c.rows, got, c.want)
		}
	}
}
