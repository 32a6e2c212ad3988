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
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/nichevl/go-niche/pkg/codetable"
	"github.com/nichevl/go-niche/pkg/grid"
	"github.com/nichevl/go-niche/pkg/raster"
	"github.com/nichevl/go-niche/pkg/validate"
	log "github.com/sirupsen/logrus"
)

// NO_INFORMATION is the potential of cells for which lnk_potential holds no
// applicable entry.
const NO_INFORMATION int16 = 4

// Period in which flooding occurs.
type Period string

const (
	// SUMMER flooding
	SUMMER Period = "summer"
	// WINTER flooding
	WINTER Period = "winter"
)

var periods = []string{string(SUMMER), string(WINTER)}

// ParsePeriod converts a textual period into a Period.
func ParsePeriod(period string) (Period, error) {
	if err := validate.CheckCodeUsed("period", period, periods); err != nil {
		return "", err
	}
	//
	return Period(period), nil
}

// Error is reported when a floodplain model is used out of order, or combined
// with an incompatible model.
type Error struct {
	Message string
}

func (p *Error) Error() string {
	return p.Message
}

// Options records the flooding scenario used for a calculation.
type Options struct {
	Frequency string `json:"frequency"`
	Duration  int    `json:"duration"`
	Period    Period `json:"period"`
}

// entry is a single row of lnk_potential.
type entry struct {
	depth     int16
	potential int16
}

// vegetation holds the rows of lnk_potential for one vegetation type, grouped
// by (period, frequency, duration).
type vegetation struct {
	groups  *codetable.Index
	entries []entry
}

// FloodPlain predicts the response of vegetation to (frequent) flooding.  Its
// code tables are validated on construction and never modified afterwards.
// Each calculation replaces the results of any previous one.
type FloodPlain struct {
	name   string
	tables Tables
	// Allowed input codes
	depths    []int64
	durations []int64
	frequency []string
	// lnk_potential indexed by vegetation type
	index map[int]vegetation
	// Results of the last calculation (if any)
	veg     map[int]*grid.Grid
	options Options
	context raster.SpatialContext
}

// New constructs a floodplain model from a given set of code tables, and an
// (optional) name used when writing results.  This fails if the tables are
// inconsistent.
func New(tables Tables, name string) (*FloodPlain, error) {
	if err := validate.ValidateFloodplains(tables); err != nil {
		return nil, err
	}
	//
	p := &FloodPlain{name: name, tables: tables, index: make(map[int]vegetation)}
	//
	var err error
	//
	if p.depths, err = tables.Depths.Ints("code"); err != nil {
		return nil, err
	} else if p.durations, err = tables.Duration.Ints("code"); err != nil {
		return nil, err
	} else if p.frequency, err = tables.Frequency.Strings("code"); err != nil {
		return nil, err
	} else if err = p.buildIndex(); err != nil {
		return nil, err
	}
	//
	log.Debugf("constructed floodplain model with %d vegetation types", len(p.index))
	//
	return p, nil
}

// NewDefault constructs a floodplain model using the bundled code tables.
func NewDefault(name string) (*FloodPlain, error) {
	tables, err := DefaultTables()
	if err != nil {
		return nil, err
	}
	//
	return New(tables, name)
}

func (p *FloodPlain) buildIndex() error {
	lnk := p.tables.LnkPotential
	//
	byVeg, err := lnk.GroupBy("veg_code")
	if err != nil {
		return err
	}
	//
	for _, group := range byVeg.Groups() {
		code, ok := group.Key[0].Int()
		if !ok {
			return fmt.Errorf("lnk_potential has invalid veg_code %s", group.Key[0])
		}
		//
		sub := byVeg.Subtable(group)
		//
		groups, err := sub.GroupBy("period", "frequency", "duration")
		if err != nil {
			return err
		}
		//
		depths, err := sub.Ints("depth")
		if err != nil {
			return err
		}
		//
		potentials, err := sub.Ints("potential")
		if err != nil {
			return err
		}
		//
		entries := make([]entry, sub.Height())
		//
		for i := range entries {
			if !fitsInt16(depths[i]) || !fitsInt16(potentials[i]) {
				return fmt.Errorf("lnk_potential row for veg_code %d out of range", code)
			}
			//
			entries[i] = entry{int16(depths[i]), int16(potentials[i])}
		}
		//
		p.index[int(code)] = vegetation{groups, entries}
	}
	//
	return nil
}

// Name returns the name of this model.
func (p *FloodPlain) Name() string {
	return p.name
}

// Tables returns the code tables of this model.
func (p *FloodPlain) Tables() Tables {
	return p.tables
}

// VegCodes returns the vegetation types modelled, in ascending order.
func (p *FloodPlain) VegCodes() []int {
	return slices.Sorted(maps.Keys(p.index))
}

// Calculate predicts the potential of every vegetation type under a given
// flooding scenario, for a grid of depth codes.  Cells without data, or holding
// grid.NO_DATA, are without data in every result.  The grid is assumed to have
// unit cells with its upper left corner at the origin; use CalculateGrid or
// CalculateFile for georeferenced grids.
func (p *FloodPlain) Calculate(depth *grid.Grid, frequency string, duration int, period Period) error {
	rows, cols := depth.Shape()
	//
	ctx := raster.SpatialContext{Transform: raster.NewAffine(0, float64(rows), 1), Width: cols, Height: rows}
	//
	return p.CalculateGrid(depth, ctx, frequency, duration, period)
}

// CalculateFile predicts the potential of every vegetation type under a given
// flooding scenario, for a grid of depth codes read from a raster file.
func (p *FloodPlain) CalculateFile(filename string, frequency string, duration int, period Period) error {
	depth, ctx, err := raster.ReadASCII(filename)
	if err != nil {
		return err
	}
	//
	return p.CalculateGrid(depth, ctx, frequency, duration, period)
}

// CalculateGrid predicts the potential of every vegetation type under a given
// flooding scenario, for a georeferenced grid of depth codes.  The depth codes,
// frequency, duration and period must all be known to the code tables.  For
// each vegetation type, cells whose depth matches an entry of lnk_potential for
// the scenario receive that entry's potential (the maximum, if several entries
// match), whilst all other cells receive NO_INFORMATION.  Nothing is retained
// if the calculation fails.
func (p *FloodPlain) CalculateGrid(depth *grid.Grid, ctx raster.SpatialContext, frequency string, duration int,
	period Period) error {
	rows, cols := depth.Shape()
	//
	if rows != ctx.Height || cols != ctx.Width {
		return &Error{fmt.Sprintf("depth grid is %dx%d but its spatial context is %dx%d", rows, cols, ctx.Height,
			ctx.Width)}
	}
	// Check inputs
	if err := validate.CheckGridCodes("depth", depth, p.depths); err != nil {
		return err
	} else if err := validate.CheckCodeUsed("frequency", frequency, p.frequency); err != nil {
		return err
	} else if err := validate.CheckCodeUsed("duration", int64(duration), p.durations); err != nil {
		return err
	} else if err := validate.CheckCodeUsed("period", string(period), periods); err != nil {
		return err
	}
	//
	log.WithFields(log.Fields{
		"frequency": frequency,
		"duration":  duration,
		"period":    period,
	}).Debugf("calculating floodplain potential for %dx%d grid", rows, cols)
	//
	var (
		nodata = depth.NoDataMask()
		key    = []codetable.Value{
			codetable.StringValue(string(period)),
			codetable.ParseValue(frequency),
			codetable.IntValue(int64(duration)),
		}
		// Depth masks are shared between vegetation types
		masks  = make(map[int16]*bitset.BitSet)
		result = make(map[int]*grid.Grid, len(p.index))
	)
	// Sentinel depths are no data, whatever the source file declared
	nodata.InPlaceUnion(depth.Equal(grid.NO_DATA))
	//
	for code, veg := range p.index {
		out := grid.Full(rows, cols, NO_INFORMATION)
		out.SetNoData(nodata)
		//
		if group, ok := veg.groups.Find(key...); ok {
			assigned := bitset.New(depth.Len())
			//
			for _, row := range group.Rows {
				e := veg.entries[row]
				mask, ok := masks[e.depth]
				//
				if !ok {
					mask = depth.Equal(e.depth)
					masks[e.depth] = mask
				}
				// First entry for a cell replaces the default, later ones can
				// only raise it.
				out.SetWhere(mask.Difference(assigned), e.potential)
				out.MaxWhere(mask.Intersection(assigned), e.potential)
				assigned.InPlaceUnion(mask)
			}
		}
		//
		result[code] = out
	}
	//
	p.veg = result
	p.options = Options{frequency, duration, period}
	p.context = ctx
	//
	return nil
}

// Calculated checks whether a calculation has been done.
func (p *FloodPlain) Calculated() bool {
	return len(p.veg) > 0
}

// VegetationCalculated checks whether results are available for combining.
func (p *FloodPlain) VegetationCalculated() bool {
	return p.Calculated()
}

// Options returns the scenario of the last calculation.
func (p *FloodPlain) Options() Options {
	return p.options
}

// Context returns the spatial context of the last calculation.
func (p *FloodPlain) Context() raster.SpatialContext {
	return p.context
}

// Vegetation returns the result of the last calculation for a given vegetation
// type, if it was modelled.
func (p *FloodPlain) Vegetation(code int) (*grid.Grid, bool) {
	g, ok := p.veg[code]
	return g, ok
}

// Result returns the result of the last calculation for a given vegetation
// type.  This fails if no calculation was done, or the vegetation type was not
// modelled.
func (p *FloodPlain) Result(code int) (*grid.Grid, error) {
	if !p.Calculated() {
		return nil, &Error{"a valid run must be done before requesting results"}
	} else if g, ok := p.veg[code]; ok {
		return g, nil
	}
	//
	return nil, &Error{fmt.Sprintf("vegetation type %d not modeled", code)}
}

func fitsInt16(v int64) bool {
	return v >= math.MinInt16 && v <= math.MaxInt16
}
