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

// Family groups printers which share an image processing library.
type Family int

// These are the supported printer families.
const (
	FamilyMitsubishi Family = iota + 1 // D70, D80, K60, ASK300, CP98xx, M1
	FamilySinfonia                     // S6145 and rebadged variants
)

func (f Family) String() string {
	switch f {
	case FamilyMitsubishi:
		return "mitsubishi"
	case FamilySinfonia:
		return "sinfonia"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Model describes the image processing defaults of one printer model.
type Model struct {
	Name          string
	Family        Family
	HeadWidth     int // heating elements of the print head
	Cols          int // printable columns
	MaxRows       int // longest supported print
	FCCSign       int
	AdaptiveGamma bool // uses the border dependent gamma offset
	Matte         bool // supports matte overcoat

	// Table and LUT are the default file names of the correction table
	// and the colour lookup table.
	Table string
	LUT   string
}

// Models lists the built-in printer models, by name.
var Models = map[string]*Model{
	"mitsu-d70x": {
		Name: "mitsu-d70x", Family: FamilyMitsubishi,
		HeadWidth: 1280, Cols: 1228, MaxRows: 2730, FCCSign: 1, Matte: true,
		Table: "CPD70N01.cpc", LUT: "CPD70L01.lut",
	},
	"mitsu-d80": {
		Name: "mitsu-d80", Family: FamilyMitsubishi,
		HeadWidth: 1280, Cols: 1228, MaxRows: 2730, FCCSign: 1, Matte: true,
		Table: "CPD80N01.cpc", LUT: "CPD80L01.lut",
	},
	"mitsu-k60": {
		Name: "mitsu-k60", Family: FamilyMitsubishi,
		HeadWidth: 1280, Cols: 1218, MaxRows: 2190, FCCSign: 1,
		Table: "CPK60N01.cpc", LUT: "CPK60L01.lut",
	},
	"mitsu-ask300": {
		Name: "mitsu-ask300", Family: FamilyMitsubishi,
		HeadWidth: 1280, Cols: 1228, MaxRows: 2730, FCCSign: 1, Matte: true,
		Table: "CPS30N01.cpc", LUT: "CPS30L01.lut",
	},
	"mitsu-cp9810": {
		Name: "mitsu-cp9810", Family: FamilyMitsubishi,
		HeadWidth: 1920, Cols: 1868, MaxRows: 2730, FCCSign: 1, AdaptiveGamma: true, Matte: true,
		Table: "CP98xxN01.cpc",
	},
	"mitsu-m1": {
		Name: "mitsu-m1", Family: FamilyMitsubishi,
		HeadWidth: 1280, Cols: 1228, MaxRows: 2730, FCCSign: 1,
		Table: "CPM1N01.cpc", LUT: "CPM1L01.lut",
	},
	"sinfonia-s6145": {
		Name: "sinfonia-s6145", Family: FamilySinfonia,
		HeadWidth: 1920, Cols: 1844, MaxRows: 2730, FCCSign: -1, Matte: true,
		Table: "S6145N01.cpc",
	},
	"ciaat-brava21": {
		Name: "ciaat-brava21", Family: FamilySinfonia,
		HeadWidth: 1920, Cols: 1844, MaxRows: 2730, FCCSign: -1, Matte: true,
		Table: "S6145N01.cpc",
	},
}

// LookupModel returns the built-in model with the given name.
func LookupModel(name string) (*Model, error) {
	m, ok := Models[name]
	if !ok {
		return nil, fmt.Errorf("dyesub: unknown printer model %q", name)
	}
	return m, nil
}

// Options returns engine options with the model defaults filled in.
// The caller must still set the correction table.
func (m *Model) Options() Options {
	return Options{
		Order:     OrderBGR,
		FCCSign:   m.FCCSign,
		HeadWidth: m.HeadWidth,
	}
}
