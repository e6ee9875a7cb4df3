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
	"os"
	"sync"
)

// TableCache loads correction tables and colour lookup tables from files,
// reading each file at most once. The returned values are shared between
// all callers and must not be modified.
type TableCache struct {
	mu     sync.Mutex
	tables map[string]*CorrectionTable
	luts   map[string]*ColorLUT3D
}

// Table returns the correction table stored in the named file.
func (c *TableCache) Table(path string) (*CorrectionTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[path]; ok {
		return t, nil
	}
	t, err := ReadTableFile(path)
	if err != nil {
		return nil, err
	}
	if c.tables == nil {
		c.tables = make(map[string]*CorrectionTable)
	}
	c.tables[path] = t
	return t, nil
}

// LUT returns the colour lookup table stored in the named file. Files
// starting with an ICC profile header are read using [LUTFromICC], all
// other files using [ParseLUT].
func (c *TableCache) LUT(path string) (*ColorLUT3D, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.luts[path]; ok {
		return l, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l *ColorLUT3D
	if len(data) >= 40 && string(data[36:40]) == "acsp" {
		l, err = LUTFromICC(data)
	} else {
		l, err = ParseLUT(data)
	}
	if err != nil {
		return nil, &os.PathError{Op: "load", Path: path, Err: err}
	}
	if c.luts == nil {
		c.luts = make(map[string]*ColorLUT3D)
	}
	c.luts[path] = l
	return l, nil
}
