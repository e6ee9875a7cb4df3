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

// Package dyesub converts 8-bit photographs into the 16-bit per-plane
// thermal-head drive values consumed by dye-sublimation photo printers of the
// Mitsubishi D70 family and the Sinfonia S6145 family.
//
// The printers heat each dot of the ribbon with a thermal head. Heat left over
// from earlier rows and neighbouring dots changes the amount of dye which is
// transferred, so the drive values cannot simply be taken from the image.
// The [Engine] simulates this residual heat and combines the simulation with
// gamma correction, an optional 3D colour lookup table and unsharp masking.
//
// # Correction Tables
//
// All printer specific constants are read from a [CorrectionTable]. Use
// [LoadTable] to read a table from its text form, and
// [CorrectionTable.WriteTo] to write one:
//
//	tab, err := dyesub.LoadTable(r)
//	if err != nil {
//	    // handle error
//	}
//
// Invalid tables are rejected as a whole; the returned error is a
// [*TableError] which carries a [RejectCode] describing the violated
// constraint.
//
// # Processing Images
//
// Images are passed as [BandImage] views over caller owned memory:
//
//	e, err := dyesub.NewEngine(dyesub.Options{Table: tab, Sharpen: 4})
//	if err != nil {
//	    // handle error
//	}
//	res, err := e.Process(ctx, in, out, nil)
//
// The finished planes are delivered to the printer transport using [Stream].
package dyesub
