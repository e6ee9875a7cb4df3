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

// DefaultChunkSize is the chunk size used by [Stream] if none is given.
const DefaultChunkSize = 256 * 1024

// blockAlign is the transfer block size of the printers.
const blockAlign = 512

// SendFunc transmits one chunk of plane data to the printer.
// The buffer is reused after the function returns.
type SendFunc func(buf []byte) error

// WriterSink returns a SendFunc which writes all chunks to w.
func WriterSink(w io.Writer) SendFunc {
	return func(buf []byte) error {
		_, err := w.Write(buf)
		return err
	}
}

// Stream sends the planes of a processed image, one plane after the
// other. The channels of out are sent first, followed by the channels of
// overcoat if this is non-nil. Samples are sent in big-endian byte order,
// in chunks of the given size; the last chunk of each plane is padded
// with zeros to a multiple of 512 bytes.
//
// The chunk size is rounded down to a multiple of 512 bytes. If chunk is
// 0, DefaultChunkSize is used.
func Stream(out BandImage[uint16], overcoat *BandImage[uint16], send SendFunc, chunk int) error {
	if chunk == 0 {
		chunk = DefaultChunkSize
	}
	chunk -= chunk % blockAlign
	if chunk <= 0 {
		return fmt.Errorf("dyesub: chunk size must be at least %d bytes", blockAlign)
	}

	bands := []BandImage[uint16]{out}
	if overcoat != nil {
		bands = append(bands, *overcoat)
	}
	for _, b := range bands {
		if err := b.Check(); err != nil {
			return err
		}
	}

	buf := make([]byte, chunk)
	for _, b := range bands {
		for c := range b.Channels {
			if err := streamPlane(b, c, buf, send); err != nil {
				return err
			}
		}
	}
	return nil
}

func streamPlane(b BandImage[uint16], c int, buf []byte, send SendFunc) error {
	n := 0
	for y := range b.Rows {
		row := b.Row(y)
		for x := c; x < len(row); x += b.Channels {
			v := row[x]
			buf[n] = byte(v >> 8)
			buf[n+1] = byte(v)
			n += 2
			if n == len(buf) {
				if err := send(buf); err != nil {
					return err
				}
				n = 0
			}
		}
	}
	if n > 0 {
		padded := n + (-n & (blockAlign - 1))
		clear(buf[n:padded])
		return send(buf[:padded])
	}
	return nil
}
