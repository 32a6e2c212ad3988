// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package floodplain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nichevl/go-niche/pkg/grid"
	"github.com/nichevl/go-niche/pkg/raster"
	log "github.com/sirupsen/logrus"
)

// MANIFEST is the name of the file, written alongside the result grids, which
// describes a run.
const MANIFEST = "manifest.json"

// Manifest describes the result grids written by a single run.
type Manifest struct {
	RunID   string            `json:"run_id"`
	Name    string            `json:"name,omitempty"`
	Created time.Time         `json:"created"`
	Options Options           `json:"options"`
	Width   uint              `json:"width"`
	Height  uint              `json:"height"`
	CRS     string            `json:"crs,omitempty"`
	Files   map[string]string `json:"files"`
}

// Filename returns the name of the file holding the results for a given
// vegetation type.
func (p *FloodPlain) Filename(code int) string {
	prefix := ""
	if p.name != "" {
		prefix = p.name + "-"
	}
	//
	return fmt.Sprintf("%sF%02d-%s-P%d-%s.asc", prefix, code, p.options.Frequency, p.options.Duration,
		p.options.Period)
}

// Write writes one grid per vegetation type into a given folder (which is
// created if necessary), using grid.NO_DATA for cells without data.  A manifest
// describing the run is written as well.  This returns the path of every grid
// written, indexed by its file name.
func (p *FloodPlain) Write(folder string) (map[string]string, error) {
	if !p.Calculated() {
		return nil, &Error{"a valid run must be done before writing the output"}
	}
	//
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, err
	}
	//
	files := make(map[string]string, len(p.veg))
	//
	for _, code := range p.VegCodes() {
		filename := p.Filename(code)
		path := filepath.Clean(filepath.Join(folder, filename))
		//
		if err := raster.WriteASCII(path, p.veg[code], p.context, grid.NO_DATA); err != nil {
			return nil, err
		}
		//
		files[filename] = path
	}
	//
	manifest := Manifest{
		RunID:   uuid.NewString(),
		Name:    p.name,
		Created: time.Now().UTC(),
		Options: p.options,
		Width:   p.context.Width,
		Height:  p.context.Height,
		CRS:     p.context.CRS,
		Files:   files,
	}
	//
	bytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	} else if err := os.WriteFile(filepath.Join(folder, MANIFEST), bytes, 0o644); err != nil {
		return nil, err
	}
	//
	log.WithField("run", manifest.RunID).Infof("wrote %d grids to %s", len(files), folder)
	//
	return files, nil
}

// SummaryRow counts the cells of one vegetation type holding a given potential.
type SummaryRow struct {
	VegCode     int
	Potential   int16
	Description string
	Cells       uint
}

// Summary counts, for every vegetation type, how many cells hold each potential
// listed in the potential table, along with how many cells hold no data.  This
// is the information a legend of the results is drawn from.
func (p *FloodPlain) Summary() ([]SummaryRow, error) {
	if !p.Calculated() {
		return nil, &Error{"a valid run must be done before summarising the output"}
	}
	//
	codes, err := p.tables.Potential.Ints("code")
	if err != nil {
		return nil, err
	}
	//
	descriptions, err := p.descriptions()
	if err != nil {
		return nil, err
	}
	//
	for _, code := range codes {
		if !fitsInt16(code) {
			return nil, fmt.Errorf("potential code %d out of range", code)
		}
	}
	//
	var rows []SummaryRow
	//
	for _, veg := range p.VegCodes() {
		g := p.veg[veg]
		//
		for i, code := range codes {
			rows = append(rows, SummaryRow{veg, int16(code), descriptions[i], g.Count(int16(code))})
		}
		//
		rows = append(rows, SummaryRow{veg, grid.NO_DATA, "no data", g.CountNoData()})
	}
	//
	return rows, nil
}

func (p *FloodPlain) descriptions() ([]string, error) {
	if !p.tables.Potential.Has("description") {
		return make([]string, p.tables.Potential.Height()), nil
	}
	//
	return p.tables.Potential.Strings("description")
}
