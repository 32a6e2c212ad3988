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
package grid

import (
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// NO_DATA is the sentinel used for cells without a measurement when grids are
// read from, or written to, a file.
const NO_DATA int16 = -99

// NO_DATA_COMPUTED is the sentinel used by derived layers (e.g. nutrient level
// or acidity) for cells whose value could not be computed.
const NO_DATA_COMPUTED int16 = 255

// Grid is a two dimensional array of classification codes, stored in row-major
// order.  Whether or not a cell holds data is tracked separately from its value
// by a mask, such that sentinel codes only exist at the boundary where grids are
// converted to and from raw arrays.
type Grid struct {
	rows uint
	cols uint
	data []int16
	// Set bits identify cells holding no data.
	nodata *bitset.BitSet
}

// New constructs a grid of the given dimensions with every cell holding zero.
func New(rows, cols uint) *Grid {
	return &Grid{rows, cols, make([]int16, rows*cols), bitset.New(rows * cols)}
}

// Full constructs a grid of the given dimensions with every cell holding the
// given value.
func Full(rows, cols uint, value int16) *Grid {
	g := New(rows, cols)
	g.Fill(value)
	//
	return g
}

// FromRaw constructs a grid from a flat (row-major) array of codes, marking
// every cell matching one of the given sentinels as holding no data.  The data
// array is cloned.
func FromRaw(rows, cols uint, data []int16, sentinels ...int16) (*Grid, error) {
	if uint(len(data)) != rows*cols {
		return nil, fmt.Errorf("grid data has %d cells (expected %dx%d)", len(data), rows, cols)
	}
	//
	g := &Grid{rows, cols, slices.Clone(data), bitset.New(rows * cols)}
	//
	for i, v := range g.data {
		if slices.Contains(sentinels, v) {
			g.nodata.Set(uint(i))
			g.data[i] = 0
		}
	}
	//
	return g, nil
}

// FromRows constructs a grid from an array of rows, marking every cell matching
// one of the given sentinels as holding no data.  All rows must have the same
// length.
func FromRows(rows [][]int16, sentinels ...int16) (*Grid, error) {
	var (
		cols uint
		data []int16
	)
	//
	for i, row := range rows {
		if i == 0 {
			cols = uint(len(row))
		} else if uint(len(row)) != cols {
			return nil, fmt.Errorf("grid row %d has %d columns (expected %d)", i, len(row), cols)
		}
		//
		data = append(data, row...)
	}
	//
	return FromRaw(uint(len(rows)), cols, data, sentinels...)
}

// Shape returns the number of rows and columns in this grid.
func (p *Grid) Shape() (uint, uint) {
	return p.rows, p.cols
}

// Len returns the total number of cells in this grid.
func (p *Grid) Len() uint {
	return uint(len(p.data))
}

// SameShape checks whether two grids have identical dimensions.
func (p *Grid) SameShape(other *Grid) bool {
	return p.rows == other.rows && p.cols == other.cols
}

// Get returns the value at a given row and column, along with a flag indicating
// whether the cell holds data.
func (p *Grid) Get(row, col uint) (int16, bool) {
	return p.At(p.offset(row, col))
}

// At returns the value at a given (flattened) index, along with a flag
// indicating whether the cell holds data.
func (p *Grid) At(index uint) (int16, bool) {
	if p.nodata.Test(index) {
		return 0, false
	}
	//
	return p.data[index], true
}

// Set assigns a value to a given cell, which then holds data.
func (p *Grid) Set(row, col uint, value int16) {
	i := p.offset(row, col)
	p.data[i] = value
	p.nodata.Clear(i)
}

// ClearAt marks a given cell as holding no data.
func (p *Grid) ClearAt(row, col uint) {
	i := p.offset(row, col)
	p.data[i] = 0
	p.nodata.Set(i)
}

// IsNoData checks whether the cell at a given (flattened) index holds no data.
func (p *Grid) IsNoData(index uint) bool {
	return p.nodata.Test(index)
}

// NoDataMask returns a copy of the mask identifying cells without data.
func (p *Grid) NoDataMask() *bitset.BitSet {
	return p.nodata.Clone()
}

// SetNoData marks every cell identified by the given mask as holding no data.
// Cells already without data are unaffected.
func (p *Grid) SetNoData(mask *bitset.BitSet) {
	p.nodata.InPlaceUnion(mask)
	//
	for i, ok := mask.NextSet(0); ok && i < p.Len(); i, ok = mask.NextSet(i + 1) {
		p.data[i] = 0
	}
}

// CountNoData returns the number of cells holding no data.
func (p *Grid) CountNoData() uint {
	return p.nodata.Count()
}

// Fill assigns a value to every cell, all of which then hold data.
func (p *Grid) Fill(value int16) {
	for i := range p.data {
		p.data[i] = value
	}
	//
	p.nodata.ClearAll()
}

// Equal returns a mask identifying every cell holding data equal to a given
// value.
func (p *Grid) Equal(value int16) *bitset.BitSet {
	mask := bitset.New(p.Len())
	//
	for i, v := range p.data {
		if v == value {
			mask.Set(uint(i))
		}
	}
	//
	mask.InPlaceDifference(p.nodata)
	//
	return mask
}

// Count returns the number of cells holding data equal to a given value.
func (p *Grid) Count(value int16) uint {
	return p.Equal(value).Count()
}

// SetWhere assigns a value to every data cell identified by the mask.  Cells
// without data are left as they are.
func (p *Grid) SetWhere(mask *bitset.BitSet, value int16) {
	for i, ok := mask.NextSet(0); ok && i < p.Len(); i, ok = mask.NextSet(i + 1) {
		if !p.nodata.Test(i) {
			p.data[i] = value
		}
	}
}

// MaxWhere updates every data cell identified by the mask to hold the maximum
// of its current value and the given value.  Cells without data are left as
// they are.
func (p *Grid) MaxWhere(mask *bitset.BitSet, value int16) {
	for i, ok := mask.NextSet(0); ok && i < p.Len(); i, ok = mask.NextSet(i + 1) {
		if !p.nodata.Test(i) {
			p.data[i] = max(p.data[i], value)
		}
	}
}

// Multiply computes the elementwise product of two grids of the same shape.  A
// cell of the result holds no data if the cell holds no data in either operand.
func (p *Grid) Multiply(other *Grid) (*Grid, error) {
	if !p.SameShape(other) {
		return nil, fmt.Errorf("grid shapes differ (%dx%d vs %dx%d)", p.rows, p.cols, other.rows, other.cols)
	}
	//
	r := &Grid{p.rows, p.cols, make([]int16, len(p.data)), p.nodata.Union(other.nodata)}
	//
	for i := range r.data {
		if !r.nodata.Test(uint(i)) {
			r.data[i] = p.data[i] * other.data[i]
		}
	}
	//
	return r, nil
}

// Values returns the values of every cell holding data, in row-major order.
func (p *Grid) Values() []int16 {
	values := make([]int16, 0, p.Len()-p.nodata.Count())
	//
	for i, v := range p.data {
		if !p.nodata.Test(uint(i)) {
			values = append(values, v)
		}
	}
	//
	return values
}

// Distinct returns the sorted set of values held by cells with data.
func (p *Grid) Distinct() []int16 {
	values := p.Values()
	slices.Sort(values)
	//
	return slices.Compact(values)
}

// Raw flattens this grid into a row-major array, where every cell without data
// holds the given sentinel.
func (p *Grid) Raw(sentinel int16) []int16 {
	raw := slices.Clone(p.data)
	//
	for i, ok := p.nodata.NextSet(0); ok && i < p.Len(); i, ok = p.nodata.NextSet(i + 1) {
		raw[i] = sentinel
	}
	//
	return raw
}

// Clone returns an independent copy of this grid.
func (p *Grid) Clone() *Grid {
	return &Grid{p.rows, p.cols, slices.Clone(p.data), p.nodata.Clone()}
}

func (p *Grid) String() string {
	return fmt.Sprintf("%dx%d grid (%d without data)", p.rows, p.cols, p.nodata.Count())
}

func (p *Grid) offset(row, col uint) uint {
	if row >= p.rows || col >= p.cols {
		panic(fmt.Sprintf("cell (%d,%d) out of bounds for %dx%d grid", row, col, p.rows, p.cols))
	}
	//
	return row*p.cols + col
}
