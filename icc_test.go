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
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"seehuhn.de/go/icc"
)

// tagStart is the offset of the A2B0 tag in profiles written by ICC.
const tagStart = 128 + 4 + 12

func encodeICC(t testing.TB, l *ColorLUT3D) []byte {
	t.Helper()
	data, err := l.ICC()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestLUTFromICC(t *testing.T) {
	l := randomLUT(4)
	data := encodeICC(t, l)
	l2, err := LUTFromICC(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(l.Bytes(), l2.Bytes()) {
		t.Error("round trip failed")
	}
}

func TestICCHeader(t *testing.T) {
	p, err := icc.Decode(encodeICC(t, IdentityLUT()))
	if err != nil {
		t.Fatal(err)
	}
	if p.Class != icc.DeviceLinkProfile || p.ColorSpace != icc.RGBSpace || p.PCS != icc.RGBSpace {
		t.Errorf("header is %s, %s, %s", p.Class, p.ColorSpace, p.PCS)
	}
	if len(p.TagData) != 1 || len(p.TagData[icc.AToB0]) != lut8Size {
		t.Errorf("unexpected tags %v", p.TagData)
	}
}

func TestLUTFromICCUnsupported(t *testing.T) {
	cases := []struct {
		name   string
		modify func([]byte)
	}{
		{"grid points", func(d []byte) { d[tagStart+10] = 2 }},
		{"channels", func(d []byte) { d[tagStart+9] = 4 }},
		{"tag type", func(d []byte) { copy(d[tagStart:], "mft2") }},
		{"matrix", func(d []byte) { binary.BigEndian.PutUint32(d[tagStart+16:], 1) }},
		{"input curve", func(d []byte) { d[tagStart+48+256+7] = 8 }},
		{"output curve", func(d []byte) { d[tagStart+48+3*256+LUTSize+2*256] = 1 }},
		{"colour space", func(d []byte) { copy(d[16:20], "CMYK") }},
		{"class", func(d []byte) { copy(d[12:16], "prtr") }},
		{"no A2B0", func(d []byte) { copy(d[132:136], "B2A0") }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data := encodeICC(t, IdentityLUT())
			c.modify(data)
			_, err := LUTFromICC(data)
			if !errors.Is(err, ErrUnsupportedLUT) {
				t.Errorf("got %v, want %v", err, ErrUnsupportedLUT)
			}
		})
	}
}

func TestLUTFromICCInvalid(t *testing.T) {
	good := encodeICC(t, IdentityLUT())
	cases := []struct {
		name   string
		data   []byte
		offset int
	}{
		{"short", good[:100], 0},
		{"signature", append(append([]byte{}, good[:36]...), append([]byte("xxxx"), good[40:]...)...), 36},
		{"too many tags", func() []byte {
			d := bytes.Clone(good)
			binary.BigEndian.PutUint32(d[128:], 1<<20)
			return d
		}(), 128},
		{"tag out of bounds", func() []byte {
			d := bytes.Clone(good)
			binary.BigEndian.PutUint32(d[140:], uint32(len(d)))
			return d
		}(), 132},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LUTFromICC(c.data)
			var e *icc.InvalidProfileError
			if !errors.As(err, &e) {
				t.Fatalf("got %v, want *icc.InvalidProfileError", err)
			}
			if e.Offset != c.offset {
				t.Errorf("offset = %d, want %d", e.Offset, c.offset)
			}
		})
	}
}

func TestLUTFromICCTruncated(t *testing.T) {
	d := encodeICC(t, IdentityLUT())
	binary.BigEndian.PutUint32(d[140:], 48+3*256+100)
	_, err := LUTFromICC(d)
	if !errors.Is(err, ErrInvalidLUT) {
		t.Errorf("got %v, want %v", err, ErrInvalidLUT)
	}
}

func FuzzLUTFromICC(f *testing.F) {
	f.Add(encodeICC(f, IdentityLUT()))
	f.Add(encodeICC(f, randomLUT(5)))
	f.Fuzz(func(t *testing.T, data []byte) {
		l, err := LUTFromICC(data)
		if err != nil {
			return
		}
		l2, err := LUTFromICC(encodeICC(t, l))
		if err != nil {
			t.Fatalf("re-decoding failed: %v", err)
		}
		if !bytes.Equal(l.Bytes(), l2.Bytes()) {
			t.Fatal("tables differ")
		}
	})
}
