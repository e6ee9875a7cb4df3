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

// Plane is one of the sequentially printed layers.
type Plane int

// The planes, in printing order.
const (
	PlaneY Plane = iota
	PlaneM
	PlaneC
	PlaneO // clear overcoat
)

const numPlanes = 4

func (p Plane) String() string {
	switch p {
	case PlaneY:
		return "Y"
	case PlaneM:
		return "M"
	case PlaneC:
		return "C"
	case PlaneO:
		return "O"
	default:
		return fmt.Sprintf("Plane(%d)", int(p))
	}
}

// inputChannel returns the index of the input sample feeding plane p.
// Yellow is printed from blue, magenta from green and cyan from red.
func (p Plane) inputChannel(order ChannelOrder) int {
	if order == OrderRGB {
		return 2 - int(p)
	}
	return int(p)
}

// PlaneKind selects how the source rows of a plane are produced.
type PlaneKind int

// These are the plane kinds.
const (
	PlaneYMC           PlaneKind = iota // colour plane read from the image
	PlaneOvercoatGloss                  // uniform overcoat
	PlaneOvercoatMatte                  // patterned overcoat
)

func (k PlaneKind) String() string {
	switch k {
	case PlaneYMC:
		return "YMC"
	case PlaneOvercoatGloss:
		return "gloss"
	case PlaneOvercoatMatte:
		return "matte"
	default:
		return fmt.Sprintf("PlaneKind(%d)", int(k))
	}
}

// OvercoatMode selects whether and how the overcoat plane is generated.
type OvercoatMode int

// These are the overcoat modes.
const (
	OvercoatNone OvercoatMode = iota
	OvercoatGloss
	OvercoatMatte
)

// ParseOvercoat converts an overcoat mode name into an OvercoatMode.
func ParseOvercoat(s string) (OvercoatMode, error) {
	switch s {
	case "", "none":
		return OvercoatNone, nil
	case "gloss", "glossy":
		return OvercoatGloss, nil
	case "matte":
		return OvercoatMatte, nil
	default:
		return 0, fmt.Errorf("unknown overcoat mode %q", s)
	}
}

func (m OvercoatMode) String() string {
	switch m {
	case OvercoatNone:
		return "none"
	case OvercoatGloss:
		return "gloss"
	case OvercoatMatte:
		return "matte"
	default:
		return fmt.Sprintf("OvercoatMode(%d)", int(m))
	}
}

// kind returns the plane kind used to generate plane p.
func (m OvercoatMode) kind(p Plane) PlaneKind {
	if p != PlaneO {
		return PlaneYMC
	}
	if m == OvercoatMatte {
		return PlaneOvercoatMatte
	}
	return PlaneOvercoatGloss
}
