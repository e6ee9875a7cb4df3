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
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func constantBand(cols, rows int, v uint8) BandImage[uint8] {
	b := NewBand[uint8](cols, rows, 3, true)
	for i := range b.Pix {
		b.Pix[i] = v
	}
	return b
}

func randomBand(rng *rand.Rand, cols, rows int, reversed bool) BandImage[uint8] {
	b := NewBand[uint8](cols, rows, 3, reversed)
	rng.Read(b.Pix)
	return b
}

// planeValues returns channel c of b, in band row order.
func planeValues(b BandImage[uint16], c int) [][]uint16 {
	res := make([][]uint16, b.Rows)
	for y := range b.Rows {
		row := b.Row(y)
		res[y] = make([]uint16, b.Cols)
		for x := range b.Cols {
			res[y][x] = row[x*b.Channels+c]
		}
	}
	return res
}

func uniform(cols, rows int, v uint16) [][]uint16 {
	res := make([][]uint16, rows)
	for y := range res {
		res[y] = make([]uint16, cols)
		for x := range res[y] {
			res[y][x] = v
		}
	}
	return res
}

func TestIdentityScenario(t *testing.T) {
	for _, order := range []ChannelOrder{OrderRGB, OrderBGR} {
		for _, sharpen := range []int{-1, 0, 8} {
			e, err := NewEngine(Options{Table: NeutralTable(), Order: order, Sharpen: sharpen})
			if err != nil {
				t.Fatal(err)
			}
			in := constantBand(4, 4, 128)
			out := NewBand[uint16](4, 4, 3, true)
			res, err := e.Process(context.Background(), in, out, nil)
			if err != nil {
				t.Fatal(err)
			}
			for c := range 3 {
				if d := cmp.Diff(uniform(4, 4, 2048), planeValues(out, c)); d != "" {
					t.Errorf("%s, sharpen %d, plane %s (-want +got):\n%s", order, sharpen, Plane(c), d)
				}
			}
			if res.FrontReverse || res.BackReverse {
				t.Errorf("reverse reported although not requested")
			}
		}
	}
}

func TestProcessDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	in := randomBand(rng, 37, 23, true)
	e, err := NewEngine(Options{
		Table:    sampleTable(),
		LUT:      randomLUT(8),
		Order:    OrderBGR,
		Sharpen:  3,
		Overcoat: OvercoatMatte,
		Reverse:  true,
	})
	if err != nil {
		t.Fatal(err)
	}

	type output struct {
		Pix []uint16
		Res *Result
	}
	run := func() output {
		out := NewBand[uint16](37, 23, 4, true)
		res, err := e.Process(context.Background(), in, out, nil)
		if err != nil {
			t.Error(err)
			return output{}
		}
		return output{Pix: out.Pix, Res: res}
	}

	first := run()
	if d := cmp.Diff(first, run()); d != "" {
		t.Fatalf("second run differs (-first +second):\n%s", d)
	}

	results := make([]output, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run()
		}()
	}
	wg.Wait()
	for i, r := range results {
		if d := cmp.Diff(first, r); d != "" {
			t.Errorf("concurrent run %d differs (-first +got):\n%s", i, d)
		}
	}
}

func TestProcessKeepsInput(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	in := randomBand(rng, 9, 5, false)
	orig := append([]uint8{}, in.Pix...)
	e, err := NewEngine(Options{Table: sampleTable(), LUT: randomLUT(10)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Process(context.Background(), in, NewBand[uint16](9, 5, 3, false), nil); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(orig, in.Pix); d != "" {
		t.Errorf("input was modified")
	}
}

func TestProcessStride(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	fwd := randomBand(rng, 11, 7, false)
	rev := NewBand[uint8](11, 7, 3, true)
	for y := range fwd.Rows {
		copy(rev.Row(y), fwd.Row(y))
	}

	e, err := NewEngine(Options{Table: sampleTable(), Sharpen: 2})
	if err != nil {
		t.Fatal(err)
	}
	outFwd := NewBand[uint16](11, 7, 3, false)
	outRev := NewBand[uint16](11, 7, 3, true)
	if _, err := e.Process(context.Background(), fwd, outFwd, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Process(context.Background(), rev, outRev, nil); err != nil {
		t.Fatal(err)
	}
	for c := range 3 {
		if d := cmp.Diff(planeValues(outFwd, c), planeValues(outRev, c)); d != "" {
			t.Errorf("plane %s depends on the stride (-forward +reversed):\n%s", Plane(c), d)
		}
	}
}

func TestOvercoat(t *testing.T) {
	table := NeutralTable()
	in := constantBand(6, 4, 50)

	e, err := NewEngine(Options{Table: table, Sharpen: -1, Overcoat: OvercoatGloss})
	if err != nil {
		t.Fatal(err)
	}
	out := NewBand[uint16](6, 4, 4, true)
	if _, err := e.Process(context.Background(), in, out, nil); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(uniform(6, 4, 255*16), planeValues(out, 3)); d != "" {
		t.Errorf("gloss (-want +got):\n%s", d)
	}

	e, err = NewEngine(Options{Table: table, Sharpen: -1, Overcoat: OvercoatMatte})
	if err != nil {
		t.Fatal(err)
	}
	out = NewBand[uint16](6, 4, 3, true)
	oc := NewBand[uint16](6, 4, 1, true)
	if _, err := e.Process(context.Background(), in, out, &oc); err != nil {
		t.Fatal(err)
	}
	lo, hi := uint16(table.MatteLow)*16, uint16(table.MatteHigh)*16
	want := [][]uint16{
		{lo, lo, hi, hi, lo, lo},
		{lo, lo, hi, hi, lo, lo},
		{hi, hi, lo, lo, hi, hi},
		{hi, hi, lo, lo, hi, hi},
	}
	if d := cmp.Diff(want, planeValues(oc, 0)); d != "" {
		t.Errorf("matte (-want +got):\n%s", d)
	}
	if d := cmp.Diff(uniform(6, 4, 50*16), planeValues(out, 0)); d != "" {
		t.Errorf("plane Y (-want +got):\n%s", d)
	}
}

func TestEngineFCCSign(t *testing.T) {
	for _, sign := range []int{1, -1} {
		e, err := NewEngine(Options{Table: fccTable(), Sharpen: -1, FCCSign: sign})
		if err != nil {
			t.Fatal(err)
		}
		out := NewBand[uint16](4, 6, 3, true)
		res, err := e.Process(context.Background(), constantBand(4, 6, 128), out, nil)
		if err != nil {
			t.Fatal(err)
		}
		got := planeValues(out, int(PlaneM))
		for y, row := range got {
			want := uint16(2048 - sign*min(y, 3))
			if row[0] != want {
				t.Errorf("sign %d, row %d: got %d, want %d", sign, y, row[0], want)
			}
		}
		if res.Pulses != [4]int{3, 3, 3, 0} {
			t.Errorf("sign %d: pulses %v", sign, res.Pulses)
		}
	}
}

func TestEnginePlanes(t *testing.T) {
	e, err := NewEngine(Options{Table: NeutralTable(), Planes: []Plane{PlaneM}})
	if err != nil {
		t.Fatal(err)
	}
	out := NewBand[uint16](3, 3, 3, false)
	if _, err := e.Process(context.Background(), constantBand(3, 3, 10), out, nil); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(uniform(3, 3, 160), planeValues(out, 1)); d != "" {
		t.Errorf("plane M (-want +got):\n%s", d)
	}
	for _, c := range []int{0, 2} {
		if d := cmp.Diff(uniform(3, 3, 0), planeValues(out, c)); d != "" {
			t.Errorf("plane %s was written", Plane(c))
		}
	}
}

func TestEngineReverse(t *testing.T) {
	table := NeutralTable()
	table.Reverse[0].Limit = [4]int{-1, -1, -1, 1}

	in := constantBand(4, 8, 0)
	for x := range 4 {
		in.Row(7)[3*x] = 255 // dark cyan in the last row
	}
	e, err := NewEngine(Options{Table: table, Order: OrderRGB, Sharpen: -1, Reverse: true})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Process(context.Background(), in, NewBand[uint16](4, 8, 3, true), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.FrontReverse || res.BackReverse {
		t.Errorf("got %t/%t, want true/false", res.FrontReverse, res.BackReverse)
	}
}

func TestProcessErrors(t *testing.T) {
	table := NeutralTable()
	table.MaxCols = 8
	e, err := NewEngine(Options{Table: table, Overcoat: OvercoatGloss})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	_, err = e.Process(ctx, constantBand(4, 4, 0), NewBand[uint16](4, 5, 4, false), nil)
	if !errors.Is(err, ErrGeometry) {
		t.Errorf("size mismatch: got %v", err)
	}
	_, err = e.Process(ctx, constantBand(9, 4, 0), NewBand[uint16](9, 4, 4, false), nil)
	if RejectCodeOf(err) != RejectDimensions {
		t.Errorf("too wide: got %v", err)
	}
	_, err = e.Process(ctx, constantBand(4, 4, 0), NewBand[uint16](4, 4, 3, false), nil)
	if !errors.Is(err, ErrGeometry) {
		t.Errorf("no overcoat destination: got %v", err)
	}
	bad := constantBand(4, 4, 0)
	bad.Stride = 5
	_, err = e.Process(ctx, bad, NewBand[uint16](4, 4, 4, false), nil)
	if !errors.Is(err, ErrGeometry) {
		t.Errorf("bad stride: got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.Process(canceled, constantBand(4, 4, 0), NewBand[uint16](4, 4, 4, false), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("canceled: got %v", err)
	}
}

func TestNewEngineErrors(t *testing.T) {
	zero := NeutralTable()
	zero.Tank[1][1].Size = 0
	huge := NeutralTable()
	for i := range huge.LateRow {
		huge.LateRow[i] = 1e15
	}
	cases := []struct {
		name string
		opt  Options
	}{
		{"no table", Options{}},
		{"invalid table", Options{Table: zero}},
		{"invalid reverse table", Options{Table: NeutralTable(), ReverseTable: zero}},
		{"sharpen", Options{Table: NeutralTable(), Sharpen: 9}},
		{"sign", Options{Table: NeutralTable(), FCCSign: 2}},
		{"plane", Options{Table: NeutralTable(), Planes: []Plane{PlaneO}}},
		{"no planes", Options{Table: NeutralTable(), Planes: []Plane{}, Reverse: true}},
		{"scale overflow", Options{Table: huge}},
		{"overcoat", Options{Table: NeutralTable(), Overcoat: 7}},
	}
	for _, c := range cases {
		if _, err := NewEngine(c.opt); err == nil {
			t.Errorf("%s: no error", c.name)
		}
	}
	if _, err := NewEngine(Options{}); !errors.Is(err, ErrNoTable) {
		t.Errorf("got %v, want %v", err, ErrNoTable)
	}
}

func TestEngineLogging(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	e, err := NewEngine(Options{Table: NeutralTable(), Overcoat: OvercoatGloss, Reverse: true, Log: log})
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Process(context.Background(), constantBand(2, 2, 0), NewBand[uint16](2, 2, 4, false), nil)
	if err != nil {
		t.Fatal(err)
	}

	entries := hook.AllEntries()
	if len(entries) != 4 {
		t.Fatalf("got %d log entries, want 4", len(entries))
	}
	for i, entry := range entries {
		if entry.Data["plane"] != Plane(i) {
			t.Errorf("entry %d is for plane %v", i, entry.Data["plane"])
		}
		_, hasReverse := entry.Data["front_reverse"]
		if hasReverse != (i < 3) {
			t.Errorf("entry %d: front_reverse present: %t", i, hasReverse)
		}
	}
}
