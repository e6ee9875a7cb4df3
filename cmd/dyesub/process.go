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

package main

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"seehuhn.de/go/dyesub"
)

// defaultSharpen is the sharpening level used if neither the command line
// nor the configuration file selects one.
const defaultSharpen = 4

var processArgs struct {
	model    string
	input    string
	output   string
	table    string
	lut      string
	sharpen  int
	overcoat string
	reverse  bool
	rows     int
	cols     int
	zstd     bool
	chunk    int
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert an image into printer head data",
	Args:  cobra.NoArgs,
	RunE:  runProcess,
}

func init() {
	flags := processCmd.Flags()
	flags.StringVarP(&processArgs.model, "model", "m", "", "printer model (see \"dyesub models\")")
	flags.StringVarP(&processArgs.input, "input", "i", "", "input image")
	flags.StringVarP(&processArgs.output, "output", "o", "", "output file or printer device")
	flags.StringVar(&processArgs.table, "table", "", "correction table (default from the model)")
	flags.StringVar(&processArgs.lut, "lut", "", "colour lookup table or ICC device link")
	flags.IntVar(&processArgs.sharpen, "sharpen", -2, "sharpening level 0-8, or -1 to disable")
	flags.StringVar(&processArgs.overcoat, "overcoat", "gloss", "overcoat mode (none, gloss, matte)")
	flags.BoolVar(&processArgs.reverse, "reverse", false, "judge whether the ribbon can be rewound")
	flags.IntVar(&processArgs.rows, "rows", 0, "print height in pixels (default from the image aspect ratio)")
	flags.IntVar(&processArgs.cols, "cols", 0, "print width in pixels (default from the model)")
	flags.BoolVar(&processArgs.zstd, "zstd", false, "compress the output with zstd")
	flags.IntVar(&processArgs.chunk, "chunk", dyesub.DefaultChunkSize, "transfer chunk size in bytes")
	processCmd.MarkFlagRequired("model")
	processCmd.MarkFlagRequired("input")
	processCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	model, sharpen, err := conf.model(processArgs.model)
	if err != nil {
		return err
	}
	if processArgs.sharpen != -2 {
		sharpen = processArgs.sharpen
	}
	overcoat, err := dyesub.ParseOvercoat(processArgs.overcoat)
	if err != nil {
		return err
	}
	if overcoat == dyesub.OvercoatMatte && !model.Matte {
		return fmt.Errorf("%s does not support matte overcoat", model.Name)
	}
	log := logger.WithField("model", model.Name)

	cache := &dyesub.TableCache{}
	tablePath := processArgs.table
	if tablePath == "" {
		tablePath = conf.resolve(model.Table)
	}
	table, err := cache.Table(tablePath)
	if err != nil {
		return err
	}
	if table.AdaptiveGamma && !model.AdaptiveGamma {
		log.Warn("table enables adaptive gamma, which the model does not use")
	}

	var lut *dyesub.ColorLUT3D
	lutPath := processArgs.lut
	if lutPath == "" && model.LUT != "" {
		lutPath = conf.resolve(model.LUT)
		if _, err := os.Stat(lutPath); err != nil {
			log.WithField("file", lutPath).Warn("colour lookup table not found, colours are not corrected")
			lutPath = ""
		}
	}
	if lutPath != "" {
		lut, err = cache.LUT(lutPath)
		if err != nil {
			return err
		}
	}

	img, err := imaging.Open(processArgs.input, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	cols, rows := printSize(img.Bounds(), model, processArgs.cols, processArgs.rows)
	filled := imaging.Fill(img, cols, rows, imaging.Center, imaging.Lanczos)
	log.WithFields(logrus.Fields{
		"input": processArgs.input,
		"cols":  cols,
		"rows":  rows,
	}).Info("image loaded")

	opt := model.Options()
	opt.Table = table
	opt.LUT = lut
	opt.Sharpen = sharpen
	opt.Overcoat = overcoat
	opt.Reverse = processArgs.reverse
	opt.Log = log
	engine, err := dyesub.NewEngine(opt)
	if err != nil {
		return err
	}

	in := bgrBand(filled)
	out := dyesub.NewBand[uint16](cols, rows, 3, true)
	var oc *dyesub.BandImage[uint16]
	if overcoat != dyesub.OvercoatNone {
		b := dyesub.NewBand[uint16](cols, rows, 1, true)
		oc = &b
	}
	res, err := engine.Process(cmd.Context(), in, out, oc)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"front_reverse": res.FrontReverse,
		"back_reverse":  res.BackReverse,
		"pulses":        res.Pulses,
	}).Info("image processed")

	return writeOutput(processArgs.output, out, oc)
}

// printSize determines the size of the printed image. The width defaults
// to the printable width of the model, the height to the value which
// preserves the aspect ratio of the image.
func printSize(bounds image.Rectangle, model *dyesub.Model, cols, rows int) (int, int) {
	if cols <= 0 {
		cols = model.Cols
	}
	if rows <= 0 {
		rows = int(math.Round(float64(cols) * float64(bounds.Dy()) / float64(bounds.Dx())))
	}
	return cols, min(max(rows, 1), model.MaxRows)
}

// bgrBand converts an image into a band with BGR pixels, with the bottom
// image row first.
func bgrBand(img *image.NRGBA) dyesub.BandImage[uint8] {
	cols, rows := img.Rect.Dx(), img.Rect.Dy()
	b := dyesub.NewBand[uint8](cols, rows, 3, true)
	for y := range rows {
		src := img.Pix[y*img.Stride : y*img.Stride+4*cols]
		dst := b.Row(rows - 1 - y)
		for x := range cols {
			dst[3*x] = src[4*x+2]
			dst[3*x+1] = src[4*x+1]
			dst[3*x+2] = src[4*x]
		}
	}
	return b
}

func writeOutput(path string, out dyesub.BandImage[uint16], oc *dyesub.BandImage[uint16]) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var enc *zstd.Encoder
	if processArgs.zstd {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return err
		}
		w = enc
	}

	err = dyesub.Stream(out, oc, dyesub.WriterSink(w), processArgs.chunk)
	if enc != nil {
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
