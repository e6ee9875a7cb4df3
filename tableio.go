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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// tableRow is one data line of a table file.
type tableRow struct {
	line   int
	fields []string
}

// rowParser converts the fields of a row. The first error is kept and all
// later conversions return zero values.
type rowParser struct {
	section string
	row     tableRow
	err     error
}

func (p *rowParser) fail(code RejectCode, format string, args ...any) {
	if p.err == nil {
		p.err = rejectTable(code, p.section, p.row.line, fmt.Sprintf(format, args...))
	}
}

func (p *rowParser) int(i int, lo, hi int64) int64 {
	if p.err != nil {
		return 0
	}
	x, err := strconv.ParseInt(p.row.fields[i], 10, 64)
	if err != nil {
		p.fail(RejectSyntax, "field %d: %q is not an integer", i+1, p.row.fields[i])
		return 0
	}
	if x < lo || x > hi {
		p.fail(RejectRange, "field %d: %d not in range %d..%d", i+1, x, lo, hi)
		return 0
	}
	return x
}

func (p *rowParser) float(i int) float64 {
	if p.err != nil {
		return 0
	}
	x, err := strconv.ParseFloat(p.row.fields[i], 64)
	if err != nil {
		p.fail(RejectSyntax, "field %d: %q is not a number", i+1, p.row.fields[i])
		return 0
	}
	return x
}

func (p *rowParser) flag(i int) bool {
	if p.err != nil {
		return false
	}
	switch p.row.fields[i] {
	case "0":
		return false
	case "1":
		return true
	}
	p.fail(RejectModeFlag, "flag %q must be 0 or 1", p.row.fields[i])
	return false
}

// sectionSpec describes the fixed shape of one table section.
type sectionSpec struct {
	name  string
	rows  int
	cols  int // 0 for PARAMS, where each key has its own width
	parse func(t *CorrectionTable, i int, p *rowParser)
}

var sections = []sectionSpec{
	{name: "PARAMS", rows: len(paramKeys)},
	{name: "LINE", rows: lineRows, cols: numPlanes, parse: func(t *CorrectionTable, i int, p *rowParser) {
		for c := range numPlanes {
			t.Line[c][i] = int32(p.int(c, math.MinInt32, math.MaxInt32))
		}
	}},
	{name: "GAMMA", rows: gammaSize, cols: 3, parse: func(t *CorrectionTable, i int, p *rowParser) {
		for c := range 3 {
			t.Gamma[c][i] = uint16(p.int(c, 0, math.MaxUint16))
		}
	}},
	{name: "DENSITY", rows: 256, cols: 1 + numPlanes, parse: func(t *CorrectionTable, i int, p *rowParser) {
		t.FM[i] = p.float(0)
		for c := range numPlanes {
			t.Pulse[c][i] = uint16(p.int(1+c, 0, math.MaxUint16))
		}
	}},
	{name: "TANKGAIN", rows: gainSize, cols: 2, parse: func(t *CorrectionTable, i int, p *rowParser) {
		t.KSP[i] = p.float(0)
		t.KSM[i] = p.float(1)
	}},
	{name: "TANK", rows: numPlanes * numTanks, cols: 4, parse: func(t *CorrectionTable, i int, p *rowParser) {
		t.Tank[i/numTanks][i%numTanks] = TankParams{
			Size:      p.int(0, math.MinInt32, math.MaxInt32),
			IniEnergy: p.int(1, math.MinInt32, math.MaxInt32),
			RayCond:   p.int(2, math.MinInt32, math.MaxInt32),
			DotCond:   p.int(3, math.MinInt32, math.MaxInt32),
		}
	}},
	{name: "HISTORY", rows: historyRows, cols: 1, parse: func(t *CorrectionTable, i int, p *rowParser) {
		t.History[i] = p.float(0)
	}},
	{name: "MTF", rows: numPlanes, cols: 4, parse: func(t *CorrectionTable, i int, p *rowParser) {
		t.MTF[i] = MTFParams{
			HWeight:  p.float(0),
			VWeight1: p.float(1),
			VWeight2: p.float(2),
			Slice:    int(p.int(3, 0, 255)),
		}
	}},
	{name: "SHARPEN", rows: sharpenMax + 1, cols: sharpenTaps, parse: func(t *CorrectionTable, i int, p *rowParser) {
		for k := range sharpenTaps {
			t.Sharpen[i][k] = p.float(k)
		}
	}},
	{name: "LATEROW", rows: lateRowSteps, cols: 1, parse: func(t *CorrectionTable, i int, p *rowParser) {
		t.LateRow[i] = p.float(0)
	}},
	{name: "REVERSE", rows: reverseZones, cols: 4 + reverseTiers, parse: func(t *CorrectionTable, i int, p *rowParser) {
		z := ReverseZone{
			ColStart: int(p.int(0, -2, math.MaxInt32)),
			ColEnd:   int(p.int(1, -2, math.MaxInt32)),
			RowStart: int(p.int(2, -2, math.MaxInt32)),
			RowEnd:   int(p.int(3, -2, math.MaxInt32)),
		}
		for k := range reverseTiers {
			z.Limit[k] = int(p.int(4+k, -1, math.MaxInt32))
		}
		t.Reverse[i] = z
	}},
}

// paramKey describes one line of the PARAMS section.
type paramKey struct {
	name  string
	n     int
	parse func(t *CorrectionTable, p *rowParser)
	write func(t *CorrectionTable) []any
}

var paramKeys = []paramKey{
	{"tank_enabled", 1,
		func(t *CorrectionTable, p *rowParser) { t.TankEnabled = p.flag(1) },
		func(t *CorrectionTable) []any { return []any{t.TankEnabled} }},
	{"fcc_enabled", 1,
		func(t *CorrectionTable, p *rowParser) { t.FCCEnabled = p.flag(1) },
		func(t *CorrectionTable) []any { return []any{t.FCCEnabled} }},
	{"pulse_enabled", 1,
		func(t *CorrectionTable, p *rowParser) { t.PulseEnabled = p.flag(1) },
		func(t *CorrectionTable) []any { return []any{t.PulseEnabled} }},
	{"adaptive_gamma", 1,
		func(t *CorrectionTable, p *rowParser) { t.AdaptiveGamma = p.flag(1) },
		func(t *CorrectionTable) []any { return []any{t.AdaptiveGamma} }},
	{"max_pulse", numPlanes,
		func(t *CorrectionTable, p *rowParser) {
			for c := range numPlanes {
				t.MaxPulse[c] = int(p.int(1+c, 0, math.MaxUint16))
			}
		},
		func(t *CorrectionTable) []any { return ints(t.MaxPulse[:]) }},
	{"fcc_threshold", 1,
		func(t *CorrectionTable, p *rowParser) { t.FCCThreshold = p.int(1, math.MinInt64, math.MaxInt64) },
		func(t *CorrectionTable) []any { return []any{t.FCCThreshold} }},
	{"fcc_max_correction", numPlanes,
		func(t *CorrectionTable, p *rowParser) {
			for c := range numPlanes {
				t.FCCMaxCorrection[c] = int(p.int(1+c, 0, math.MaxInt32))
			}
		},
		func(t *CorrectionTable) []any { return ints(t.FCCMaxCorrection[:]) }},
	{"adaptive_window", 1,
		func(t *CorrectionTable, p *rowParser) { t.AdaptiveWindow = int(p.int(1, 0, math.MaxInt32)) },
		func(t *CorrectionTable) []any { return []any{t.AdaptiveWindow} }},
	{"adaptive_min_average", 1,
		func(t *CorrectionTable, p *rowParser) { t.AdaptiveMinAverage = int(p.int(1, 0, 255)) },
		func(t *CorrectionTable) []any { return []any{t.AdaptiveMinAverage} }},
	{"adaptive_gain", 1,
		func(t *CorrectionTable, p *rowParser) { t.AdaptiveGain = p.float(1) },
		func(t *CorrectionTable) []any { return []any{t.AdaptiveGain} }},
	{"adaptive_max_offset", 1,
		func(t *CorrectionTable, p *rowParser) { t.AdaptiveMaxOffset = int(p.int(1, 0, maxDensity)) },
		func(t *CorrectionTable) []any { return []any{t.AdaptiveMaxOffset} }},
	{"overcoat_levels", 3,
		func(t *CorrectionTable, p *rowParser) {
			t.GlossLevel = uint8(p.int(1, 0, 255))
			t.MatteLow = uint8(p.int(2, 0, 255))
			t.MatteHigh = uint8(p.int(3, 0, 255))
		},
		func(t *CorrectionTable) []any { return []any{t.GlossLevel, t.MatteLow, t.MatteHigh} }},
	{"reverse_density", reverseTiers,
		func(t *CorrectionTable, p *rowParser) {
			for k := range reverseTiers {
				t.ReverseDensity[k] = int(p.int(1+k, 0, math.MaxUint16))
			}
		},
		func(t *CorrectionTable) []any { return ints(t.ReverseDensity[:]) }},
	{"reverse_max_rows", 1,
		func(t *CorrectionTable, p *rowParser) { t.ReverseMaxRows = int(p.int(1, 0, math.MaxInt32)) },
		func(t *CorrectionTable) []any { return []any{t.ReverseMaxRows} }},
	{"cols", 2,
		func(t *CorrectionTable, p *rowParser) {
			t.MinCols = int(p.int(1, 0, math.MaxInt32))
			t.MaxCols = int(p.int(2, 0, math.MaxInt32))
		},
		func(t *CorrectionTable) []any { return []any{t.MinCols, t.MaxCols} }},
	{"rows", 2,
		func(t *CorrectionTable, p *rowParser) {
			t.MinRows = int(p.int(1, 0, math.MaxInt32))
			t.MaxRows = int(p.int(2, 0, math.MaxInt32))
		},
		func(t *CorrectionTable) []any { return []any{t.MinRows, t.MaxRows} }},
}

func ints(xs []int) []any {
	res := make([]any, len(xs))
	for i, x := range xs {
		res[i] = x
	}
	return res
}

// ReadTableFile reads a correction table from the named file.
func ReadTableFile(path string) (*CorrectionTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable decodes a correction table from its text form.
func ParseTable(data []byte) (*CorrectionTable, error) {
	return LoadTable(bytes.NewReader(data))
}

// LoadTable reads a correction table in text form.
//
// The table is rejected as a whole if any section is missing, has the
// wrong number of rows or contains a field which cannot be parsed, or if
// the result fails [CorrectionTable.Validate].
func LoadTable(r io.Reader) (*CorrectionTable, error) {
	rows := make(map[string][]tableRow)
	var current string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "[") {
			if !strings.HasSuffix(text, "]") {
				return nil, rejectTable(RejectSyntax, "", lineNo, "malformed section header")
			}
			name := strings.ToUpper(strings.TrimSpace(text[1 : len(text)-1]))
			if findSection(name) == nil {
				return nil, rejectTable(RejectSyntax, name, lineNo, "unknown section")
			}
			if _, seen := rows[name]; seen {
				return nil, rejectTable(RejectSyntax, name, lineNo, "duplicate section")
			}
			rows[name] = []tableRow{}
			current = name
			continue
		}

		if current == "" {
			return nil, rejectTable(RejectSyntax, "", lineNo, "data outside of a section")
		}
		rows[current] = append(rows[current], tableRow{line: lineNo, fields: splitFields(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, rejectTable(RejectSyntax, current, lineNo, err.Error())
	}

	t := &CorrectionTable{}
	for i := range sections {
		sec := &sections[i]
		data, ok := rows[sec.name]
		if !ok {
			return nil, rejectTable(RejectShortTable, sec.name, 0, "missing section")
		}
		if len(data) != sec.rows {
			return nil, rejectTable(RejectShortTable, sec.name, 0,
				fmt.Sprintf("found %d rows, need %d", len(data), sec.rows))
		}

		if sec.name == "PARAMS" {
			if err := parseParams(t, data); err != nil {
				return nil, err
			}
			continue
		}
		for i, row := range data {
			if len(row.fields) != sec.cols {
				return nil, rejectTable(RejectShortTable, sec.name, row.line,
					fmt.Sprintf("found %d fields, need %d", len(row.fields), sec.cols))
			}
			p := &rowParser{section: sec.name, row: row}
			sec.parse(t, i, p)
			if p.err != nil {
				return nil, p.err
			}
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseParams(t *CorrectionTable, data []tableRow) error {
	seen := make(map[string]bool)
	for _, row := range data {
		if len(row.fields) == 0 {
			return rejectTable(RejectSyntax, "PARAMS", row.line, "missing key")
		}
		key := row.fields[0]
		var pk *paramKey
		for i := range paramKeys {
			if paramKeys[i].name == key {
				pk = &paramKeys[i]
				break
			}
		}
		if pk == nil {
			return rejectTable(RejectSyntax, "PARAMS", row.line, fmt.Sprintf("unknown key %q", key))
		}
		if seen[key] {
			return rejectTable(RejectSyntax, "PARAMS", row.line, fmt.Sprintf("duplicate key %q", key))
		}
		seen[key] = true
		if len(row.fields) != 1+pk.n {
			return rejectTable(RejectShortTable, "PARAMS", row.line,
				fmt.Sprintf("%s needs %d values, found %d", key, pk.n, len(row.fields)-1))
		}
		p := &rowParser{section: "PARAMS", row: row}
		pk.parse(t, p)
		if p.err != nil {
			return p.err
		}
	}
	return nil
}

func findSection(name string) *sectionSpec {
	for i := range sections {
		if sections[i].name == name {
			return &sections[i]
		}
	}
	return nil
}

func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
}

// WriteTo writes the table in the text form understood by [LoadTable].
func (t *CorrectionTable) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	fmt.Fprintln(bw, "[PARAMS]")
	for _, key := range paramKeys {
		writeRow(bw, append([]any{key.name}, key.write(t)...)...)
	}

	fmt.Fprintln(bw, "\n[LINE]")
	for i := range lineRows {
		writeRow(bw, t.Line[0][i], t.Line[1][i], t.Line[2][i], t.Line[3][i])
	}
	fmt.Fprintln(bw, "\n[GAMMA]")
	for i := range gammaSize {
		writeRow(bw, t.Gamma[0][i], t.Gamma[1][i], t.Gamma[2][i])
	}
	fmt.Fprintln(bw, "\n[DENSITY]")
	for i := range 256 {
		writeRow(bw, t.FM[i], t.Pulse[0][i], t.Pulse[1][i], t.Pulse[2][i], t.Pulse[3][i])
	}
	fmt.Fprintln(bw, "\n[TANKGAIN]")
	for i := range gainSize {
		writeRow(bw, t.KSP[i], t.KSM[i])
	}
	fmt.Fprintln(bw, "\n[TANK]")
	for p := range numPlanes {
		for _, tp := range t.Tank[p] {
			writeRow(bw, tp.Size, tp.IniEnergy, tp.RayCond, tp.DotCond)
		}
	}
	fmt.Fprintln(bw, "\n[HISTORY]")
	for _, h := range t.History {
		writeRow(bw, h)
	}
	fmt.Fprintln(bw, "\n[MTF]")
	for _, m := range t.MTF {
		writeRow(bw, m.HWeight, m.VWeight1, m.VWeight2, m.Slice)
	}
	fmt.Fprintln(bw, "\n[SHARPEN]")
	for _, k := range t.Sharpen {
		args := make([]any, len(k))
		for i, x := range k {
			args[i] = x
		}
		writeRow(bw, args...)
	}
	fmt.Fprintln(bw, "\n[LATEROW]")
	for _, s := range t.LateRow {
		writeRow(bw, s)
	}
	fmt.Fprintln(bw, "\n[REVERSE]")
	for _, z := range t.Reverse {
		writeRow(bw, z.ColStart, z.ColEnd, z.RowStart, z.RowEnd,
			z.Limit[0], z.Limit[1], z.Limit[2], z.Limit[3])
	}

	err := bw.Flush()
	return cw.n, err
}

// Encode returns the text form of the table.
func (t *CorrectionTable) Encode() []byte {
	buf := &bytes.Buffer{}
	t.WriteTo(buf) // writes to a bytes.Buffer cannot fail
	return buf.Bytes()
}

func writeRow(w *bufio.Writer, fields ...any) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(' ')
		}
		switch f := f.(type) {
		case float64:
			w.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		case bool:
			if f {
				w.WriteByte('1')
			} else {
				w.WriteByte('0')
			}
		default:
			fmt.Fprint(w, f)
		}
	}
	w.WriteByte('\n')
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
