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

const (
	historyCenter = historyRows / 2 // slot of the current row
	guardPixels   = 3               // replicated edge pixels on each side of a row
)

// rowHistory is a ring of input rows around the current row.
// Every row carries guardPixels copies of its edge pixels on both sides,
// so that neighbours of the first and last column can be read without
// bounds checks.
type rowHistory struct {
	cols int
	rows [historyRows][]uint8
}

func newRowHistory(cols int) *rowHistory {
	h := &rowHistory{cols: cols}
	buf := make([]uint8, historyRows*(cols+2*guardPixels))
	for i := range h.rows {
		n := cols + 2*guardPixels
		h.rows[i] = buf[i*n : (i+1)*n : (i+1)*n]
	}
	return h
}

// load copies src (cols values) into the given slot and refreshes the
// guard pixels.
func (h *rowHistory) load(slot int, src []uint8) {
	row := h.rows[slot]
	copy(row[guardPixels:guardPixels+h.cols], src)
	first, last := src[0], src[h.cols-1]
	for i := range guardPixels {
		row[i] = first
		row[guardPixels+h.cols+i] = last
	}
}

// shift drops the oldest row and appends src as the newest one.
func (h *rowHistory) shift(src []uint8) {
	oldest := h.rows[0]
	copy(h.rows[:], h.rows[1:])
	h.rows[historyRows-1] = oldest
	h.load(historyRows-1, src)
}

// at returns the value in column x of the row at offset dy from the
// current row. x may range from -guardPixels to cols+guardPixels-1.
func (h *rowHistory) at(dy, x int) uint8 {
	return h.rows[historyCenter+dy][x+guardPixels]
}

// row returns the row at offset dy from the current row, without guards.
func (h *rowHistory) row(dy int) []uint8 {
	return h.rows[historyCenter+dy][guardPixels : guardPixels+h.cols]
}
