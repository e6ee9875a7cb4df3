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

import "testing"

func reverseTable(limit int) *CorrectionTable {
	t := NeutralTable()
	t.ReverseDensity = [reverseTiers]int{256, 1024, 2048, 3072}
	t.Reverse[0].Limit = [reverseTiers]int{limit, -1, -1, -1}
	return t
}

// darkBand returns a single channel band where the first n pixels of the
// front half have density 300.
func darkBand(cols, rows, n int) BandImage[uint16] {
	b := NewBand[uint16](cols, rows, 1, true)
	for i := range n {
		b.Row(i / cols)[i%cols] = 300
	}
	return b
}

func TestJudgeReverseBoundary(t *testing.T) {
	const n = 5
	b := darkBand(8, 8, n)
	cases := []struct {
		limit       int
		front, back bool
	}{
		{limit: n - 1, front: false, back: true},
		{limit: n, front: false, back: true}, // reaching the limit disqualifies
		{limit: n + 1, front: true, back: true},
		{limit: 0, front: false, back: false},
	}
	for _, c := range cases {
		front, back := JudgeReverse(reverseTable(c.limit), b, 0, 0)
		if front != c.front || back != c.back {
			t.Errorf("limit %d: got %t/%t, want %t/%t", c.limit, front, back, c.front, c.back)
		}
	}
}

func TestJudgeReverseDisabled(t *testing.T) {
	b := darkBand(8, 8, 0)

	table := reverseTable(10)
	table.ReverseMaxRows = 7
	if front, back := JudgeReverse(table, b, 0, 0); front || back {
		t.Error("tall images must not skip")
	}

	if front, back := JudgeReverse(NeutralTable(), b, 0, 0); front || back {
		t.Error("tables without limits must not skip")
	}
}

func TestJudgeReverseZones(t *testing.T) {
	// 16 columns with a head of 8 pixels: the boundary column is 6
	b := NewBand[uint16](16, 4, 2, false)
	b.Row(0)[2*6+1] = 4000
	b.Row(3)[2*5+1] = 4000

	table := NeutralTable()
	table.Reverse[0] = ReverseZone{ColStart: -1, ColEnd: -2, RowStart: 0, RowEnd: -2, Limit: [4]int{-1, -1, -1, 1}}
	front, back := JudgeReverse(table, b, 1, 8)
	if front || !back {
		t.Errorf("right zone: got %t/%t, want false/true", front, back)
	}

	table.Reverse[0].ColStart, table.Reverse[0].ColEnd = 0, -1
	front, back = JudgeReverse(table, b, 1, 8)
	if !front || back {
		t.Errorf("left zone: got %t/%t, want true/false", front, back)
	}

	if front, back = JudgeReverse(table, b, 0, 8); !front || !back {
		t.Errorf("empty channel: got %t/%t, want true/true", front, back)
	}
}
