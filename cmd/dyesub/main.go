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

// Command dyesub converts photographs into head data for dye-sublimation
// printers.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile  string
	logLevel    string
	profileMode string

	logger   = logrus.New()
	conf     = &config{}
	profiler interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:           "dyesub",
	Short:         "Prepare images for dye-sublimation photo printers",
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)

		if configFile != "" {
			conf, err = loadConfig(configFile)
			if err != nil {
				return err
			}
			logger.WithField("file", configFile).Debug("configuration loaded")
		}

		switch profileMode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
		default:
			return fmt.Errorf("unknown profile mode %q", profileMode)
		}
		return nil
	},
}

func init() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML file with model settings")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&profileMode, "profile", "", "write a cpu or mem profile to the current directory")
}

func main() {
	err := execute()
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// execute runs the command line and stops the profiler, if one was
// started, also when the command fails.
func execute() error {
	defer stopProfiler()
	return rootCmd.Execute()
}

func stopProfiler() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}
