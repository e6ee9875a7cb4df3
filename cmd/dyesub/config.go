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
	"path/filepath"

	"gopkg.in/yaml.v2"

	"seehuhn.de/go/dyesub"
)

// config holds the settings read from the --config file.
type config struct {
	// TableDir is searched for the table files named by the models.
	TableDir string `yaml:"table_dir"`

	Models map[string]modelConfig `yaml:"models"`
}

// modelConfig overrides the built-in defaults of one printer model.
type modelConfig struct {
	HeadWidth *int   `yaml:"head_width"`
	FCCSign   *int   `yaml:"fcc_sign"`
	Sharpen   *int   `yaml:"sharpen"`
	Table     string `yaml:"table"`
	LUT       string `yaml:"lut"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &config{}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for name := range c.Models {
		if _, err := dyesub.LookupModel(name); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return c, nil
}

// model returns the named model with the configured overrides applied.
func (c *config) model(name string) (*dyesub.Model, int, error) {
	m, err := dyesub.LookupModel(name)
	if err != nil {
		return nil, 0, err
	}
	res := *m
	sharpen := defaultSharpen

	over, ok := c.Models[name]
	if ok {
		if over.HeadWidth != nil {
			res.HeadWidth = *over.HeadWidth
		}
		if over.FCCSign != nil {
			res.FCCSign = *over.FCCSign
		}
		if over.Sharpen != nil {
			sharpen = *over.Sharpen
		}
		if over.Table != "" {
			res.Table = over.Table
		}
		if over.LUT != "" {
			res.LUT = over.LUT
		}
	}
	return &res, sharpen, nil
}

// resolve turns a table file name into a path, relative to the table
// directory.
func (c *config) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || c.TableDir == "" {
		return name
	}
	return filepath.Join(c.TableDir, name)
}
