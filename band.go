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

import "fmt"

// Pixel is the sample type of a [BandImage].
type Pixel interface {
	~uint8 | ~uint16
}

// BandImage is a view into a pixel buffer owned by the caller.
// Pixels consist of Channels interleaved samples.
//
// The i-th row of the band (0 <= i < Rows) starts at index
// Base + i*Stride of Pix. Stride is measured in samples and may be
// negative: a band with negative stride has its first row stored last in
// memory. The engine processes rows in band order, so callers use a
// negative stride to feed the image bottom row first.
//
// OriginCols and OriginRows give the position of the band within the
// printed page and do not affect addressing. OriginRows of the input band
// selects the first entry of the per-row heat offsets used for the band.
type BandImage[T Pixel] struct {
	Pix      []T
	Base     int
	Stride   int
	Channels int

	OriginCols int
	OriginRows int
	Cols       int
	Rows       int
}

// NewBand allocates a band with the given size.
// If reversed is true, the band uses a negative stride.
func NewBand[T Pixel](cols, rows, channels int, reversed bool) BandImage[T] {
	stride := cols * channels
	b := BandImage[T]{
		Pix:      make([]T, stride*rows),
		Stride:   stride,
		Channels: channels,
		Cols:     cols,
		Rows:     rows,
	}
	if reversed && rows > 0 {
		b.Base = (rows - 1) * stride
		b.Stride = -stride
	}
	return b
}

// Row returns the samples of row i.
func (b BandImage[T]) Row(i int) []T {
	start := b.Base + i*b.Stride
	return b.Pix[start : start+b.Cols*b.Channels : start+b.Cols*b.Channels]
}

// Check verifies that every row of the band lies inside Pix.
func (b BandImage[T]) Check() error {
	if b.Cols <= 0 || b.Rows <= 0 || b.Channels <= 0 {
		return fmt.Errorf("%w: %dx%d, %d channels", ErrGeometry, b.Cols, b.Rows, b.Channels)
	}
	width := b.Cols * b.Channels
	if b.Stride >= 0 && b.Stride < width && b.Rows > 1 || b.Stride < 0 && -b.Stride < width {
		return fmt.Errorf("%w: stride %d too small for %d samples", ErrGeometry, b.Stride, width)
	}
	first := b.Base
	last := b.Base + (b.Rows-1)*b.Stride
	lo, hi := min(first, last), max(first, last)
	if lo < 0 || hi+width > len(b.Pix) {
		return fmt.Errorf("%w: rows outside of buffer", ErrGeometry)
	}
	return nil
}

// ChannelOrder describes the sample order of 3-channel input pixels.
type ChannelOrder int

// These are the supported channel orders.
const (
	OrderRGB ChannelOrder = iota
	OrderBGR
)

func (o ChannelOrder) String() string {
	switch o {
	case OrderRGB:
		return "RGB"
	case OrderBGR:
		return "BGR"
	default:
		return fmt.Sprintf("ChannelOrder(%d)", int(o))
	}
}
