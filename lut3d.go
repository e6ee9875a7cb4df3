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
	"io"
)

// lutGrid is the number of grid points per axis of a colour lookup table.
const lutGrid = 17

// LUTSize is the size in bytes of a colour lookup table file.
const LUTSize = lutGrid * lutGrid * lutGrid * 3

// lutDim is the number of grid points per axis in memory. The extra plane
// replicates the last grid point, so that lookups at the top of the range
// never need a bounds check.
const lutDim = lutGrid + 1

// ColorLUT3D is a 17x17x17 RGB to RGB colour lookup table.
//
// A nil *ColorLUT3D is valid and leaves all colours unchanged.
type ColorLUT3D struct {
	cube [lutDim * lutDim * lutDim * 3]uint8
}

// LoadLUT reads a colour lookup table from r. The data consists of
// 17*17*17 RGB triples, with the red index varying slowest.
func LoadLUT(r io.Reader) (*ColorLUT3D, error) {
	data, err := io.ReadAll(io.LimitReader(r, LUTSize+1))
	if err != nil {
		return nil, err
	}
	return ParseLUT(data)
}

// ParseLUT decodes a colour lookup table, see [LoadLUT].
func ParseLUT(data []byte) (*ColorLUT3D, error) {
	if len(data) != LUTSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidLUT, len(data), LUTSize)
	}
	l := &ColorLUT3D{}
	for r := range lutDim {
		for g := range lutDim {
			for b := range lutDim {
				src := ((min(r, lutGrid-1)*lutGrid+min(g, lutGrid-1))*lutGrid + min(b, lutGrid-1)) * 3
				dst := ((r*lutDim+g)*lutDim + b) * 3
				copy(l.cube[dst:dst+3], data[src:src+3])
			}
		}
	}
	return l, nil
}

// Bytes returns the table in the form read by [ParseLUT].
func (l *ColorLUT3D) Bytes() []byte {
	res := make([]byte, 0, LUTSize)
	for r := range lutGrid {
		for g := range lutGrid {
			for b := range lutGrid {
				idx := ((r*lutDim+g)*lutDim + b) * 3
				res = append(res, l.cube[idx:idx+3]...)
			}
		}
	}
	return res
}

// split maps an 8-bit value to a grid index and an interpolation weight
// in 1/16 steps. 0 and 255 map to the first and last grid point exactly.
func split(v uint8) (hi, lo int) {
	p := int(v) + int(v>>7)
	return p >> 4, p & 15
}

// Convert maps one pixel through the table.
// The samples of px and of the result are in the given order.
func (l *ColorLUT3D) Convert(px [3]uint8, order ChannelOrder) [3]uint8 {
	if l == nil {
		return px
	}
	r, g, b := px[0], px[1], px[2]
	if order == OrderBGR {
		r, b = b, r
	}

	rh, rl := split(r)
	gh, gl := split(g)
	bh, bl := split(b)
	rw := [2]int{16 - rl, rl}
	gw := [2]int{16 - gl, gl}
	bw := [2]int{16 - bl, bl}

	var acc [3]int
	for i := range 2 {
		for j := range 2 {
			for k := range 2 {
				w := rw[i] * gw[j] * bw[k]
				if w == 0 {
					continue
				}
				idx := (((rh+i)*lutDim+gh+j)*lutDim + bh + k) * 3
				acc[0] += int(l.cube[idx]) * w
				acc[1] += int(l.cube[idx+1]) * w
				acc[2] += int(l.cube[idx+2]) * w
			}
		}
	}

	var out [3]uint8
	for c := range out {
		out[c] = uint8((acc[c] + 2048) >> 12)
	}
	if order == OrderBGR {
		out[0], out[2] = out[2], out[0]
	}
	return out
}

// ConvertBand maps every pixel of a 3-channel band in place.
func (l *ColorLUT3D) ConvertBand(b BandImage[uint8], order ChannelOrder) {
	if l == nil {
		return
	}
	for y := range b.Rows {
		row := b.Row(y)
		for x := 0; x+2 < len(row); x += b.Channels {
			px := l.Convert([3]uint8{row[x], row[x+1], row[x+2]}, order)
			row[x], row[x+1], row[x+2] = px[0], px[1], px[2]
		}
	}
}

// IdentityLUT returns a table which maps every grid point to itself.
func IdentityLUT() *ColorLUT3D {
	data := make([]byte, 0, LUTSize)
	for r := range lutGrid {
		for g := range lutGrid {
			for b := range lutGrid {
				data = append(data, gridValue(r), gridValue(g), gridValue(b))
			}
		}
	}
	l, _ := ParseLUT(data)
	return l
}

// gridValue is the 8-bit value at grid index i.
func gridValue(i int) uint8 {
	return uint8(min(i*16, 255))
}
