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
	"errors"
	"fmt"
)

// RejectCode identifies the constraint violated by an invalid correction
// table or job.
type RejectCode int

// These are the possible rejection codes.
const (
	RejectSyntax     RejectCode = iota + 1 // unparsable line or field
	RejectShortTable                       // a section has too few or too many rows
	RejectModeFlag                         // a mode flag is not 0 or 1
	RejectZeroTank                         // a tank has zero size
	RejectTankRange                        // tank energy or conductivity out of range
	RejectPulseRange                       // a pulse value exceeds the plane's maximum
	RejectDivisor                          // a divisor used by the line correction is zero
	RejectDimensions                       // image dimensions outside the supported range
	RejectRange                            // any other field out of range
)

func (c RejectCode) String() string {
	switch c {
	case RejectSyntax:
		return "syntax error"
	case RejectShortTable:
		return "wrong number of rows"
	case RejectModeFlag:
		return "invalid mode flag"
	case RejectZeroTank:
		return "zero tank size"
	case RejectTankRange:
		return "tank parameter out of range"
	case RejectPulseRange:
		return "pulse value out of range"
	case RejectDivisor:
		return "zero divisor"
	case RejectDimensions:
		return "unsupported image dimensions"
	case RejectRange:
		return "value out of range"
	default:
		return fmt.Sprintf("RejectCode(%d)", int(c))
	}
}

// TableError indicates that a correction table cannot be used.
// Line is the 1-based line number in the table file, or 0 if the
// error was found after parsing.
type TableError struct {
	Code    RejectCode
	Section string
	Line    int
	Reason  string
}

func rejectTable(code RejectCode, section string, line int, reason string) error {
	return &TableError{Code: code, Section: section, Line: line, Reason: reason}
}

func (e *TableError) Error() string {
	where := ""
	switch {
	case e.Section != "" && e.Line > 0:
		where = fmt.Sprintf(" (section %s, line %d)", e.Section, e.Line)
	case e.Section != "":
		where = fmt.Sprintf(" (section %s)", e.Section)
	case e.Line > 0:
		where = fmt.Sprintf(" (line %d)", e.Line)
	}
	return fmt.Sprintf("dyesub: invalid table%s: %s: %s", where, e.Code, e.Reason)
}

// RejectCodeOf returns the rejection code carried by err, or 0 if err
// is not (and does not wrap) a [*TableError].
func RejectCodeOf(err error) RejectCode {
	var te *TableError
	if errors.As(err, &te) {
		return te.Code
	}
	return 0
}

var (
	// ErrNoTable is returned by NewEngine if no correction table is given.
	ErrNoTable = errors.New("dyesub: no correction table")

	// ErrGeometry indicates a BandImage whose extents do not fit its
	// backing slice, or input and output bands of different sizes.
	ErrGeometry = errors.New("dyesub: invalid band geometry")

	// ErrInvalidLUT indicates a colour lookup table of the wrong size.
	ErrInvalidLUT = errors.New("dyesub: invalid colour lookup table")

	// ErrUnsupportedLUT indicates an ICC profile which does not contain a
	// 17-point 8-bit lookup table.
	ErrUnsupportedLUT = errors.New("dyesub: unsupported ICC lookup table")
)
