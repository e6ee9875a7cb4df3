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
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/icc"
)

// lut8Size is the size of a lut8Type tag holding a 17-point RGB table.
const lut8Size = 48 + 3*256 + LUTSize + 3*256

// LUTFromICC extracts a colour lookup table from an ICC device link
// profile. The A2B0 tag of the profile must be a lut8Type (mft1) table
// with three input and output channels, 17 grid points and identity
// matrix and curves; other profiles give [ErrUnsupportedLUT].
// Malformed profiles give an [*icc.InvalidProfileError].
func LUTFromICC(data []byte) (*ColorLUT3D, error) {
	p, err := icc.Decode(data)
	if err != nil {
		return nil, err
	}
	if p.Class != icc.DeviceLinkProfile || p.ColorSpace != icc.RGBSpace || p.PCS != icc.RGBSpace {
		return nil, fmt.Errorf("%w: %s from %s to %s, need an RGB device link",
			ErrUnsupportedLUT, p.Class, p.ColorSpace, p.PCS)
	}
	a2b0, ok := p.TagData[icc.AToB0]
	if !ok {
		return nil, fmt.Errorf("%w: missing A2B0 tag", ErrUnsupportedLUT)
	}
	return decodeLut8(a2b0)
}

// decodeLut8 converts a lut8Type tag into a ColorLUT3D.
func decodeLut8(data []byte) (*ColorLUT3D, error) {
	if len(data) < 48 || string(data[0:4]) != "mft1" {
		return nil, fmt.Errorf("%w: A2B0 is not a lut8Type table", ErrUnsupportedLUT)
	}
	if data[8] != 3 || data[9] != 3 || data[10] != lutGrid {
		return nil, fmt.Errorf("%w: %d to %d channels with %d grid points",
			ErrUnsupportedLUT, data[8], data[9], data[10])
	}

	// matrix at offset 12, in s15Fixed16 format
	for i := range 9 {
		want := uint32(0)
		if i%4 == 0 {
			want = 1 << 16
		}
		if binary.BigEndian.Uint32(data[12+i*4:]) != want {
			return nil, fmt.Errorf("%w: matrix is not the identity", ErrUnsupportedLUT)
		}
	}

	if len(data) < lut8Size {
		return nil, fmt.Errorf("%w: lut8Type tag has %d bytes, need %d", ErrInvalidLUT, len(data), lut8Size)
	}
	inputStart := 48
	clutStart := inputStart + 3*256
	outputStart := clutStart + LUTSize
	for ch := range 3 {
		if !isIdentityCurve(data[inputStart+ch*256:]) || !isIdentityCurve(data[outputStart+ch*256:]) {
			return nil, fmt.Errorf("%w: curves are not the identity", ErrUnsupportedLUT)
		}
	}

	return ParseLUT(data[clutStart:outputStart])
}

func isIdentityCurve(table []byte) bool {
	for i := range 256 {
		if table[i] != byte(i) {
			return false
		}
	}
	return true
}

// lut8 returns the table as a lut8Type tag with identity matrix and curves.
func (l *ColorLUT3D) lut8() []byte {
	tag := make([]byte, lut8Size)
	copy(tag[0:4], "mft1")
	tag[8], tag[9], tag[10] = 3, 3, lutGrid
	for i := 0; i < 9; i += 4 {
		binary.BigEndian.PutUint32(tag[12+i*4:], 1<<16)
	}
	for ch := range 3 {
		for i := range 256 {
			tag[48+ch*256+i] = byte(i)
			tag[48+3*256+LUTSize+ch*256+i] = byte(i)
		}
	}
	copy(tag[48+3*256:], l.Bytes())
	return tag
}

// ICC returns an RGB device link profile containing the table, in the form
// understood by [LUTFromICC].
func (l *ColorLUT3D) ICC() ([]byte, error) {
	p := &icc.Profile{
		Version:    icc.Version2_1_0,
		Class:      icc.DeviceLinkProfile,
		ColorSpace: icc.RGBSpace,
		PCS:        icc.RGBSpace,
		TagData:    map[icc.TagType][]byte{icc.AToB0: l.lut8()},
	}
	return p.Encode()
}
