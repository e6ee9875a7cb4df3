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
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/dyesub"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Work with correction tables",
}

var tableInspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Check a correction table and show its parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableInspect,
}

var tableTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a neutral correction table to standard output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := dyesub.NeutralTable().WriteTo(cmd.OutOrStdout())
		return err
	},
}

var tableICCCmd = &cobra.Command{
	Use:   "icc LUT OUTPUT",
	Short: "Convert a colour lookup table into an ICC device link profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runTableICC,
}

func init() {
	tableCmd.AddCommand(tableInspectCmd, tableTemplateCmd, tableICCCmd)
	rootCmd.AddCommand(tableCmd)
}

func runTableInspect(cmd *cobra.Command, args []string) error {
	t, err := dyesub.ReadTableFile(args[0])
	if err != nil {
		if code := dyesub.RejectCodeOf(err); code != 0 {
			logger.WithField("code", int(code)).Error("table rejected")
		}
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "File:            %s\n", args[0])
	fmt.Fprintf(w, "Tank model:      %t\n", t.TankEnabled)
	fmt.Fprintf(w, "Line correction: %t\n", t.FCCEnabled)
	fmt.Fprintf(w, "Pulse transform: %t\n", t.PulseEnabled)
	fmt.Fprintf(w, "Adaptive gamma:  %t\n", t.AdaptiveGamma)
	fmt.Fprintf(w, "Columns:         %d..%d\n", t.MinCols, t.MaxCols)
	fmt.Fprintf(w, "Rows:            %d..%d\n", t.MinRows, t.MaxRows)
	for p := dyesub.PlaneY; p <= dyesub.PlaneO; p++ {
		fmt.Fprintf(w, "Plane %s:         max pulse %d, max correction %d\n",
			p, t.MaxPulse[p], t.FCCMaxCorrection[p])
	}
	return nil
}

func runTableICC(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	lut, err := dyesub.ParseLUT(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	out, err := lut.ICC()
	if err != nil {
		return err
	}
	return os.WriteFile(args[1], out, 0o644)
}
