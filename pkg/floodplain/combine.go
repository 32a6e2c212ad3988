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
	"slices"

	"github.com/nichevl/go-niche/pkg/grid"
	"github.com/nichevl/go-niche/pkg/raster"
)

// Suitability is a set of per-vegetation-type grids (e.g. the results of a
// niche model) which floodplain results can be combined with.
type Suitability interface {
	// VegetationCalculated checks whether the grids are available.
	VegetationCalculated() bool
	// Context returns the spatial context shared by all grids.
	Context() raster.SpatialContext
	// Vegetation returns the grid for a given vegetation type, if it exists.
	Vegetation(code int) (*grid.Grid, bool)
}

// SuitabilitySet is a Suitability assembled from individual grids, such as the
// vegetation occurrence grids written by a niche model.
type SuitabilitySet struct {
	context raster.SpatialContext
	grids   map[int]*grid.Grid
}

// NewSuitabilitySet constructs an empty set of grids sharing the given spatial
// context.
func NewSuitabilitySet(ctx raster.SpatialContext) *SuitabilitySet {
	return &SuitabilitySet{ctx, make(map[int]*grid.Grid)}
}

// Add includes the grid of a given vegetation type.  Cells holding either
// grid.NO_DATA or grid.NO_DATA_COMPUTED should already have been marked as
// holding no data.
func (p *SuitabilitySet) Add(code int, g *grid.Grid) error {
	if rows, cols := g.Shape(); rows != p.context.Height || cols != p.context.Width {
		return fmt.Errorf("vegetation grid %d is %dx%d (expected %dx%d)", code, rows, cols, p.context.Height,
			p.context.Width)
	}
	//
	p.grids[code] = g
	//
	return nil
}

// AddFile reads the grid of a given vegetation type from a raster file, which
// must have the same spatial context as this set.
func (p *SuitabilitySet) AddFile(code int, filename string) error {
	g, ctx, err := raster.ReadASCII(filename)
	if err != nil {
		return err
	} else if mismatch := ctx.Mismatch(p.context); mismatch != "" {
		return &Error{fmt.Sprintf("%s %s:\n%s\n%s", filename, mismatch, ctx, p.context)}
	}
	// Computed cells without result
	g.SetNoData(g.Equal(grid.NO_DATA_COMPUTED))
	//
	return p.Add(code, g)
}

// VegetationCalculated holds when at least one grid was added.
func (p *SuitabilitySet) VegetationCalculated() bool {
	return len(p.grids) > 0
}

// Context returns the spatial context of this set.
func (p *SuitabilitySet) Context() raster.SpatialContext {
	return p.context
}

// Vegetation returns the grid of a given vegetation type, if it exists.
func (p *SuitabilitySet) Vegetation(code int) (*grid.Grid, bool) {
	g, ok := p.grids[code]
	return g, ok
}

// VegCodes returns the vegetation types in this set, in ascending order.
func (p *SuitabilitySet) VegCodes() []int {
	return slices.Sorted(maps.Keys(p.grids))
}

// Combine multiplies the results of this model with the grids of a suitability
// model, cell by cell.  A cell of the combined result holds no data whenever it
// holds no data in either operand.  Both models must have been calculated over
// the same spatial context.  The result is a new model, whilst this model is
// left unchanged.
func (p *FloodPlain) Combine(other Suitability) (*FloodPlain, error) {
	if !other.VegetationCalculated() {
		return nil, &Error{"niche model must be run prior to running this module"}
	} else if !p.Calculated() {
		return nil, &Error{"floodplain model must be run prior to running this module"}
	} else if mismatch := other.Context().Mismatch(p.context); mismatch != "" {
		return nil, &Error{fmt.Sprintf("niche model %s:\n%s\n%s", mismatch, p.context, other.Context())}
	}
	//
	combined := *p
	combined.veg = make(map[int]*grid.Grid, len(p.veg))
	//
	for code, g := range p.veg {
		suitability, ok := other.Vegetation(code)
		if !ok {
			return nil, &Error{fmt.Sprintf("vegetation type %d not modeled by niche model", code)}
		}
		//
		product, err := suitability.Multiply(g)
		if err != nil {
			return nil, &Error{fmt.Sprintf("vegetation type %d: %s", code, err)}
		}
		//
		combined.veg[code] = product
	}
	//
	return &combined, nil
}
