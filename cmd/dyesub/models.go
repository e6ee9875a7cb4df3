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
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"seehuhn.de/go/dyesub"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the supported printer models",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	names := maps.Keys(dyesub.Models)
	slices.Sort(names)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-16s %-11s %5s %5s  %s\n", "MODEL", "FAMILY", "COLS", "ROWS", "TABLE")
	for _, name := range names {
		m, _, err := conf.model(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Fprintf(w, "%-16s %-11s %5d %5d  %s\n", m.Name, m.Family, m.Cols, m.MaxRows, m.Table)
	}
	return nil
}
